// Command usersctl manages accounts directly against the database.
//
// Usage:
//
//	usersctl list                  List all users
//	usersctl create <username>     Create a user (prompts for password)
//	usersctl password <username>   Change a user's password
//	usersctl delete <username>     Delete a user and their measurements
//	usersctl admin <username>      Grant the admin role
package main

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"
	"syscall"

	"github.com/sirupsen/logrus"
	"golang.org/x/term"
	"gorm.io/gorm"

	"github.com/mtakagi/body-tracker-api/internal/config"
	"github.com/mtakagi/body-tracker-api/internal/database"
	"github.com/mtakagi/body-tracker-api/internal/models"
	"github.com/mtakagi/body-tracker-api/internal/repository"
	"github.com/mtakagi/body-tracker-api/internal/services"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	cfg := config.Load()
	if err := database.Connect(cfg); err != nil {
		logrus.Fatalf("Failed to connect to database: %v", err)
	}
	userRepo := repository.NewUserRepository(database.GetDB())

	command := strings.ToLower(os.Args[1])
	switch {
	case command == "list":
		listUsers(userRepo)
	case command == "create" && len(os.Args) == 3:
		createUser(userRepo, os.Args[2])
	case command == "password" && len(os.Args) == 3:
		changePassword(userRepo, os.Args[2])
	case command == "delete" && len(os.Args) == 3:
		deleteUser(userRepo, os.Args[2])
	case command == "admin" && len(os.Args) == 3:
		makeAdmin(userRepo, os.Args[2])
	default:
		usage()
		os.Exit(2)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "Usage:")
	fmt.Fprintln(os.Stderr, "  usersctl list")
	fmt.Fprintln(os.Stderr, "  usersctl create <username>")
	fmt.Fprintln(os.Stderr, "  usersctl password <username>")
	fmt.Fprintln(os.Stderr, "  usersctl delete <username>")
	fmt.Fprintln(os.Stderr, "  usersctl admin <username>")
}

func listUsers(userRepo repository.UserRepository) {
	users, err := userRepo.List()
	if err != nil {
		logrus.Fatalf("Failed to list users: %v", err)
	}

	for _, u := range users {
		role := "User"
		if u.IsAdmin {
			role = "Admin"
		}
		fmt.Printf("%d. %s [%s]\n", u.ID, u.Username, role)
	}
}

func createUser(userRepo repository.UserRepository, username string) {
	if _, err := userRepo.FindByUsername(username); err == nil {
		logrus.Fatalf("User %q already exists", username)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		logrus.Fatalf("Failed to check username: %v", err)
	}

	password := promptNewPassword()
	isAdmin := promptYesNo("Make admin? (y/n): ")

	hash, err := services.HashPassword(password)
	if err != nil {
		logrus.Fatalf("Failed to hash password: %v", err)
	}

	user := &models.User{
		Username:     username,
		PasswordHash: hash,
		IsAdmin:      isAdmin,
	}
	if err := userRepo.Create(user); err != nil {
		logrus.Fatalf("Failed to create user: %v", err)
	}

	role := "user"
	if isAdmin {
		role = "admin"
	}
	fmt.Printf("Created %s %q\n", role, username)
}

func changePassword(userRepo repository.UserRepository, username string) {
	user := mustFindUser(userRepo, username)

	password := promptNewPassword()
	hash, err := services.HashPassword(password)
	if err != nil {
		logrus.Fatalf("Failed to hash password: %v", err)
	}

	if err := userRepo.UpdatePasswordHash(user.ID, hash); err != nil {
		logrus.Fatalf("Failed to change password: %v", err)
	}
	fmt.Printf("Password changed for %q\n", username)
}

func deleteUser(userRepo repository.UserRepository, username string) {
	user := mustFindUser(userRepo, username)

	prompt := fmt.Sprintf("Delete %q and all their measurements? (yes/no): ", username)
	if !promptExact(prompt, "yes") {
		fmt.Println("Cancelled.")
		return
	}

	if err := userRepo.DeleteWithMeasurements(user.ID); err != nil {
		logrus.Fatalf("Failed to delete user: %v", err)
	}
	fmt.Printf("Deleted user %q and all measurements\n", username)
}

func makeAdmin(userRepo repository.UserRepository, username string) {
	user := mustFindUser(userRepo, username)

	if user.IsAdmin {
		fmt.Printf("%q is already an admin\n", username)
		return
	}

	if err := userRepo.SetAdmin(user.ID); err != nil {
		logrus.Fatalf("Failed to promote user: %v", err)
	}
	fmt.Printf("%q is now an admin\n", username)
}

func mustFindUser(userRepo repository.UserRepository, username string) *models.User {
	user, err := userRepo.FindByUsername(username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logrus.Fatalf("User %q not found", username)
		}
		logrus.Fatalf("Failed to look up user: %v", err)
	}
	return user
}

func promptNewPassword() string {
	password := promptPassword("Enter password: ")
	confirm := promptPassword("Confirm password: ")

	if err := services.ValidateNewPassword(password, confirm); err != nil {
		logrus.Fatal(err)
	}
	return password
}

func promptPassword(prompt string) string {
	fmt.Print(prompt)
	raw, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Println()
	if err != nil {
		logrus.Fatalf("Failed to read password: %v", err)
	}
	return string(raw)
}

func promptYesNo(prompt string) bool {
	fmt.Print(prompt)
	reader := bufio.NewReader(os.Stdin)
	line, _ := reader.ReadString('\n')
	return strings.ToLower(strings.TrimSpace(line)) == "y"
}

func promptExact(prompt, expected string) bool {
	fmt.Print(prompt)
	reader := bufio.NewReader(os.Stdin)
	line, _ := reader.ReadString('\n')
	return strings.ToLower(strings.TrimSpace(line)) == expected
}
