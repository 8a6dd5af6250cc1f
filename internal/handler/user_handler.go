package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"userbase/internal/auth"
	apperrors "userbase/internal/errors"
	"userbase/internal/model"
	"userbase/internal/service"
)

// UserHandler bundles registration and self-profile endpoints.
type UserHandler struct {
	svc service.UserService
}

// NewUserHandler creates a handler layer.
func NewUserHandler(svc service.UserService) *UserHandler {
	return &UserHandler{svc: svc}
}

// RegisterRequest represents a public user registration request.
type RegisterRequest struct {
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=5"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// UpdateMeRequest is a partial update of the caller's own profile. Only the
// fields present in the body are applied.
type UpdateMeRequest struct {
	Email     *string `json:"email" validate:"omitempty,email"`
	Password  *string `json:"password" validate:"omitempty,min=5"`
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
}

// ProfileResponse is the public view of a user. Password and role flags are
// never included.
type ProfileResponse struct {
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

func profileResponse(user *model.User) ProfileResponse {
	return ProfileResponse{
		Email:     user.Email,
		FirstName: user.FirstName,
		LastName:  user.LastName,
	}
}

// Register godoc
// @Summary Register a new user
// @Tags user
// @Accept json
// @Produce json
// @Param request body RegisterRequest true "Registration data"
// @Success 201 {object} ProfileResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /user/create [post]
func (h *UserHandler) Register(c echo.Context) error {
	var req RegisterRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	user, err := h.svc.Create(c.Request().Context(), service.CreateUserInput{
		Email:     req.Email,
		Password:  &req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
	})
	if err != nil {
		he := apperrors.MapErrorToHTTP(err)
		return echo.NewHTTPError(he.StatusCode, he.ToErrorResponse())
	}

	return c.JSON(http.StatusCreated, profileResponse(user))
}

// Me godoc
// @Summary Retrieve the authenticated user's profile
// @Tags user
// @Produce json
// @Security TokenAuth
// @Success 200 {object} ProfileResponse
// @Failure 401 {object} errors.ErrorResponse
// @Router /user/me [get]
func (h *UserHandler) Me(c echo.Context) error {
	user, ok := auth.CurrentUser(c)
	if !ok {
		he := apperrors.MapErrorToHTTP(apperrors.ErrUnauthenticated)
		return echo.NewHTTPError(he.StatusCode, he.ToErrorResponse())
	}

	profile, err := h.svc.Profile(c.Request().Context(), user.ID)
	if err != nil {
		he := apperrors.MapErrorToHTTP(err)
		return echo.NewHTTPError(he.StatusCode, he.ToErrorResponse())
	}

	return c.JSON(http.StatusOK, profileResponse(profile))
}

// UpdateMe godoc
// @Summary Update the authenticated user's profile
// @Tags user
// @Accept json
// @Produce json
// @Security TokenAuth
// @Param request body UpdateMeRequest true "Fields to update"
// @Success 200 {object} ProfileResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Router /user/me [patch]
func (h *UserHandler) UpdateMe(c echo.Context) error {
	user, ok := auth.CurrentUser(c)
	if !ok {
		he := apperrors.MapErrorToHTTP(apperrors.ErrUnauthenticated)
		return echo.NewHTTPError(he.StatusCode, he.ToErrorResponse())
	}

	var req UpdateMeRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	updated, err := h.svc.UpdateProfile(c.Request().Context(), user.ID, service.ProfileUpdate{
		Email:     req.Email,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
	})
	if err != nil {
		he := apperrors.MapErrorToHTTP(err)
		return echo.NewHTTPError(he.StatusCode, he.ToErrorResponse())
	}

	return c.JSON(http.StatusOK, profileResponse(updated))
}

// MeNotAllowed rejects POST to the profile endpoint; the profile is updated
// with PATCH only, never replaced wholesale.
func (h *UserHandler) MeNotAllowed(c echo.Context) error {
	return echo.ErrMethodNotAllowed
}
