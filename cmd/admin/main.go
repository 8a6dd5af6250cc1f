// Command admin is the operator console for the user backend. It talks to the
// same repositories and services as the HTTP API, so anything done here obeys
// the same validation and normalization rules.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"text/tabwriter"

	"userbase/internal/config"
	"userbase/internal/db"
	"userbase/internal/model"
	"userbase/internal/repository"
	"userbase/internal/service"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	cfg := config.Load()

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Ensure schema is up to date before touching user rows
	if err := gormDB.AutoMigrate(&model.User{}, &model.AuthToken{}); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	userRepo := repository.NewUserRepository(gormDB)
	userService := service.NewUserService(userRepo, nil, cfg.BcryptCost)

	ctx := context.Background()

	switch os.Args[1] {
	case "createsuperuser":
		runCreateSuperuser(ctx, userService, os.Args[2:])
	case "list":
		runList(ctx, userService)
	case "show":
		runShow(ctx, userRepo, os.Args[2:])
	case "setflags":
		runSetFlags(ctx, userRepo, userService, os.Args[2:])
	case "deactivate":
		runDeactivate(ctx, userRepo, userService, os.Args[2:])
	default:
		usage()
		os.Exit(2)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, `usage: admin <command> [flags]

commands:
  createsuperuser -email <email> -password <password>
  list
  show -email <email>
  setflags -email <email> [-staff true|false] [-superuser true|false] [-active true|false]
  deactivate -email <email>`)
}

func runCreateSuperuser(ctx context.Context, svc service.UserService, args []string) {
	fs := flag.NewFlagSet("createsuperuser", flag.ExitOnError)
	email := fs.String("email", "", "email address for the new superuser")
	password := fs.String("password", "", "password for the new superuser")
	fs.Parse(args)

	if *email == "" || *password == "" {
		log.Fatal("createsuperuser requires -email and -password")
	}

	user, err := svc.CreateSuperuser(ctx, *email, *password)
	if err != nil {
		log.Fatalf("Failed to create superuser: %v", err)
	}
	log.Printf("Superuser created: %s (id=%d)", user.Email, user.ID)
}

func runList(ctx context.Context, svc service.UserService) {
	users, err := svc.ListUsers(ctx)
	if err != nil {
		log.Fatalf("Failed to list users: %v", err)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tEMAIL\tLAST NAME\tFIRST NAME\tACTIVE\tSTAFF\tSUPERUSER")
	for _, u := range users {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%t\t%t\t%t\n",
			u.ID, u.Email, u.LastName, u.FirstName, u.IsActive, u.IsStaff, u.IsSuperuser)
	}
	w.Flush()
}

func runShow(ctx context.Context, repo repository.UserRepository, args []string) {
	fs := flag.NewFlagSet("show", flag.ExitOnError)
	email := fs.String("email", "", "email address of the user")
	fs.Parse(args)

	user := mustFindByEmail(ctx, repo, *email)

	fmt.Printf("ID:          %d\n", user.ID)
	fmt.Printf("Email:       %s\n", user.Email)
	fmt.Printf("Name:        %s\n", user.FullName())
	fmt.Printf("Active:      %t\n", user.IsActive)
	fmt.Printf("Staff:       %t\n", user.IsStaff)
	fmt.Printf("Superuser:   %t\n", user.IsSuperuser)
	fmt.Printf("Date joined: %s\n", user.DateJoined)
	if user.LastLogin != nil {
		fmt.Printf("Last login:  %s\n", user.LastLogin)
	} else {
		fmt.Println("Last login:  never")
	}
}

func runSetFlags(ctx context.Context, repo repository.UserRepository, svc service.UserService, args []string) {
	fs := flag.NewFlagSet("setflags", flag.ExitOnError)
	email := fs.String("email", "", "email address of the user")
	staff := fs.String("staff", "", "set the staff flag (true|false)")
	superuser := fs.String("superuser", "", "set the superuser flag (true|false)")
	active := fs.String("active", "", "set the active flag (true|false)")
	fs.Parse(args)

	user := mustFindByEmail(ctx, repo, *email)

	update := service.AdminUpdate{
		IsStaff:     parseBoolFlag(*staff),
		IsSuperuser: parseBoolFlag(*superuser),
		IsActive:    parseBoolFlag(*active),
	}
	if update.IsStaff == nil && update.IsSuperuser == nil && update.IsActive == nil {
		log.Fatal("setflags requires at least one of -staff, -superuser, -active")
	}

	updated, err := svc.AdminUpdateUser(ctx, user.ID, update)
	if err != nil {
		log.Fatalf("Failed to update flags: %v", err)
	}
	log.Printf("Updated %s: active=%t staff=%t superuser=%t",
		updated.Email, updated.IsActive, updated.IsStaff, updated.IsSuperuser)
}

func runDeactivate(ctx context.Context, repo repository.UserRepository, svc service.UserService, args []string) {
	fs := flag.NewFlagSet("deactivate", flag.ExitOnError)
	email := fs.String("email", "", "email address of the user")
	fs.Parse(args)

	user := mustFindByEmail(ctx, repo, *email)

	if _, err := svc.DeactivateUser(ctx, user.ID); err != nil {
		log.Fatalf("Failed to deactivate user: %v", err)
	}
	log.Printf("Deactivated %s; issued tokens no longer authenticate", user.Email)
}

func mustFindByEmail(ctx context.Context, repo repository.UserRepository, email string) *model.User {
	if email == "" {
		log.Fatal("missing required -email flag")
	}
	user, err := repo.FindByEmail(ctx, model.NormalizeEmail(email))
	if err != nil {
		log.Fatalf("User %s not found: %v", email, err)
	}
	return user
}

func parseBoolFlag(v string) *bool {
	switch v {
	case "true":
		b := true
		return &b
	case "false":
		b := false
		return &b
	case "":
		return nil
	default:
		log.Fatalf("invalid flag value %q (want true or false)", v)
		return nil
	}
}
