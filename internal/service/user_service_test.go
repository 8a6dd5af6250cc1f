package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"

	"userbase/internal/auth"
	apperrors "userbase/internal/errors"
	"userbase/internal/model"
)

func strptr(s string) *string { return &s }

func TestUserService_Create(t *testing.T) {
	password := "sample123"

	tests := []struct {
		name          string
		input         CreateUserInput
		setupMock     func(m *MockUserRepository)
		expectedError error
		check         func(t *testing.T, user *model.User)
	}{
		{
			name: "successful creation normalizes email and hashes password",
			input: CreateUserInput{
				Email:     "test1@EXAMPLE.com",
				Password:  &password,
				FirstName: "Some",
				LastName:  "User",
			},
			setupMock: func(m *MockUserRepository) {
				m.On("Create", mock.Anything, mock.AnythingOfType("*model.User")).Return(nil)
			},
			check: func(t *testing.T, user *model.User) {
				assert.Equal(t, "test1@example.com", user.Email)
				assert.Equal(t, "Some", user.FirstName)
				assert.True(t, user.IsActive)
				assert.False(t, user.IsStaff)
				assert.False(t, user.IsSuperuser)
				assert.NotEqual(t, password, user.PasswordHash)
				assert.True(t, auth.CheckPassword(password, user.PasswordHash))
			},
		},
		{
			name:  "empty email fails fast without persisting",
			input: CreateUserInput{Email: "", Password: &password},
			setupMock: func(m *MockUserRepository) {
				// Create must not be called
			},
			expectedError: apperrors.ErrEmailRequired,
		},
		{
			name:  "duplicate email",
			input: CreateUserInput{Email: "user@example.com", Password: &password},
			setupMock: func(m *MockUserRepository) {
				m.On("Create", mock.Anything, mock.AnythingOfType("*model.User")).Return(gorm.ErrDuplicatedKey)
			},
			expectedError: apperrors.ErrEmailTaken,
		},
		{
			name:  "nil password stores an unusable hash",
			input: CreateUserInput{Email: "fixture@example.com"},
			setupMock: func(m *MockUserRepository) {
				m.On("Create", mock.Anything, mock.AnythingOfType("*model.User")).Return(nil)
			},
			check: func(t *testing.T, user *model.User) {
				assert.False(t, auth.IsUsable(user.PasswordHash))
				assert.False(t, auth.CheckPassword("", user.PasswordHash))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockUserRepository)
			tt.setupMock(mockRepo)

			service := NewUserService(mockRepo, nil, auth.DefaultBcryptCost)
			user, err := service.Create(context.Background(), tt.input)

			if tt.expectedError != nil {
				assert.Error(t, err)
				assert.Equal(t, tt.expectedError, err)
				assert.Nil(t, user)
			} else {
				assert.NoError(t, err)
				assert.NotNil(t, user)
				tt.check(t, user)
			}

			mockRepo.AssertExpectations(t)
		})
	}
}

func TestUserService_CreateSuperuser(t *testing.T) {
	mockRepo := new(MockUserRepository)
	mockRepo.On("Create", mock.Anything, mock.AnythingOfType("*model.User")).Return(nil)
	mockRepo.On("Update", mock.Anything, mock.AnythingOfType("*model.User")).Return(nil)

	service := NewUserService(mockRepo, nil, auth.DefaultBcryptCost)
	user, err := service.CreateSuperuser(context.Background(), "admin@Example.com", "sample123")

	assert.NoError(t, err)
	assert.Equal(t, "admin@example.com", user.Email)
	assert.True(t, user.IsStaff)
	assert.True(t, user.IsSuperuser)
	assert.True(t, auth.CheckPassword("sample123", user.PasswordHash))
	mockRepo.AssertExpectations(t)
}

func TestUserService_UpdateProfile(t *testing.T) {
	existingHash, err := auth.HashPassword("sample123", auth.DefaultBcryptCost)
	assert.NoError(t, err)

	baseUser := func() *model.User {
		return &model.User{
			ID:           1,
			Email:        "user@example.com",
			PasswordHash: existingHash,
			FirstName:    "Some",
			LastName:     "User",
			IsActive:     true,
		}
	}

	tests := []struct {
		name          string
		update        ProfileUpdate
		setupMock     func(m *MockUserRepository)
		expectedError error
		check         func(t *testing.T, user *model.User)
	}{
		{
			name: "partial update touches only submitted fields",
			update: ProfileUpdate{
				FirstName: strptr("Some_updated"),
				Password:  strptr("sample123_updated"),
			},
			setupMock: func(m *MockUserRepository) {
				m.On("WithTransaction", mock.Anything, mock.Anything).Return(nil)
				m.On("FindByID", mock.Anything, uint(1)).Return(baseUser(), nil)
				m.On("Update", mock.Anything, mock.AnythingOfType("*model.User")).Return(nil)
			},
			check: func(t *testing.T, user *model.User) {
				assert.Equal(t, "Some_updated", user.FirstName)
				assert.Equal(t, "User", user.LastName)
				assert.Equal(t, "user@example.com", user.Email)
				// New password verifies, old one no longer does
				assert.True(t, auth.CheckPassword("sample123_updated", user.PasswordHash))
				assert.False(t, auth.CheckPassword("sample123", user.PasswordHash))
			},
		},
		{
			name:   "email update is normalized",
			update: ProfileUpdate{Email: strptr("renamed@EXAMPLE.com")},
			setupMock: func(m *MockUserRepository) {
				m.On("WithTransaction", mock.Anything, mock.Anything).Return(nil)
				m.On("FindByID", mock.Anything, uint(1)).Return(baseUser(), nil)
				m.On("Update", mock.Anything, mock.AnythingOfType("*model.User")).Return(nil)
			},
			check: func(t *testing.T, user *model.User) {
				assert.Equal(t, "renamed@example.com", user.Email)
			},
		},
		{
			name:   "duplicate email rolls back",
			update: ProfileUpdate{Email: strptr("taken@example.com")},
			setupMock: func(m *MockUserRepository) {
				m.On("WithTransaction", mock.Anything, mock.Anything).Return(nil)
				m.On("FindByID", mock.Anything, uint(1)).Return(baseUser(), nil)
				m.On("Update", mock.Anything, mock.AnythingOfType("*model.User")).Return(gorm.ErrDuplicatedKey)
			},
			expectedError: apperrors.ErrEmailTaken,
		},
		{
			name:   "empty email is rejected",
			update: ProfileUpdate{Email: strptr("")},
			setupMock: func(m *MockUserRepository) {
				m.On("WithTransaction", mock.Anything, mock.Anything).Return(nil)
				m.On("FindByID", mock.Anything, uint(1)).Return(baseUser(), nil)
			},
			expectedError: apperrors.ErrEmailRequired,
		},
		{
			name:   "unknown user",
			update: ProfileUpdate{FirstName: strptr("x")},
			setupMock: func(m *MockUserRepository) {
				m.On("WithTransaction", mock.Anything, mock.Anything).Return(nil)
				m.On("FindByID", mock.Anything, uint(1)).Return(nil, gorm.ErrRecordNotFound)
			},
			expectedError: apperrors.ErrUserNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockUserRepository)
			tt.setupMock(mockRepo)

			service := NewUserService(mockRepo, nil, auth.DefaultBcryptCost)
			user, err := service.UpdateProfile(context.Background(), 1, tt.update)

			if tt.expectedError != nil {
				assert.Error(t, err)
				assert.Equal(t, tt.expectedError, err)
				assert.Nil(t, user)
			} else {
				assert.NoError(t, err)
				assert.NotNil(t, user)
				tt.check(t, user)
			}

			mockRepo.AssertExpectations(t)
		})
	}
}

func TestUserService_AdminUpdateUser_Flags(t *testing.T) {
	staff := true
	mockRepo := new(MockUserRepository)
	mockRepo.On("WithTransaction", mock.Anything, mock.Anything).Return(nil)
	mockRepo.On("FindByID", mock.Anything, uint(1)).Return(&model.User{
		ID: 1, Email: "user@example.com", IsActive: true,
	}, nil)
	mockRepo.On("Update", mock.Anything, mock.AnythingOfType("*model.User")).Return(nil)

	service := NewUserService(mockRepo, nil, auth.DefaultBcryptCost)
	user, err := service.AdminUpdateUser(context.Background(), 1, AdminUpdate{IsStaff: &staff})

	assert.NoError(t, err)
	assert.True(t, user.IsStaff)
	assert.False(t, user.IsSuperuser)
	mockRepo.AssertExpectations(t)
}

func TestUserService_DeactivateUser(t *testing.T) {
	mockRepo := new(MockUserRepository)
	mockRepo.On("WithTransaction", mock.Anything, mock.Anything).Return(nil)
	mockRepo.On("FindByID", mock.Anything, uint(1)).Return(&model.User{
		ID: 1, Email: "user@example.com", IsActive: true,
	}, nil)
	mockRepo.On("Update", mock.Anything, mock.AnythingOfType("*model.User")).Return(nil)

	service := NewUserService(mockRepo, nil, auth.DefaultBcryptCost)
	user, err := service.DeactivateUser(context.Background(), 1)

	assert.NoError(t, err)
	assert.False(t, user.IsActive)
	mockRepo.AssertExpectations(t)
}
