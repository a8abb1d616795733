// useradd — операторская утилита создания пользователей сервиса.
// Регистрация через HTTP не предусмотрена: пользователей заводит
// оператор напрямую в БД.
//
//	SHORTSHARE_DB_PATH=shortshare.db useradd -username alice -admin
//
// Пароль запрашивается с терминала и не попадает ни в argv, ни в логи.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"syscall"

	"golang.org/x/term"

	"github.com/iudanet/shortshare/internal/auth"
	"github.com/iudanet/shortshare/internal/server/storage"
	"github.com/iudanet/shortshare/internal/server/storage/sqlite"
	"github.com/iudanet/shortshare/internal/validation"
)

func main() {
	username := flag.String("username", "", "Username of the new user")
	isAdmin := flag.Bool("admin", false, "Grant admin privileges")
	dbPath := flag.String("db", "", "Path to the SQLite database (defaults to SHORTSHARE_DB_PATH)")
	flag.Parse()

	if err := run(*username, *isAdmin, *dbPath); err != nil {
		fmt.Fprintf(os.Stderr, "useradd: %v\n", err)
		os.Exit(1)
	}
}

func run(username string, isAdmin bool, dbPath string) error {
	if dbPath == "" {
		dbPath = os.Getenv("SHORTSHARE_DB_PATH")
	}
	if dbPath == "" {
		dbPath = "shortshare.db"
	}

	if err := validation.ValidateUsername(username); err != nil {
		return err
	}

	password, err := promptPassword()
	if err != nil {
		return err
	}

	if err := validation.ValidatePassword(password); err != nil {
		return err
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	ctx := context.Background()
	store, err := sqlite.New(ctx, dbPath)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer store.Close()

	user, err := store.CreateUser(ctx, username, hash, isAdmin)
	if err != nil {
		if errors.Is(err, storage.ErrUserAlreadyExists) {
			return fmt.Errorf("user %q already exists", username)
		}
		return fmt.Errorf("create user: %w", err)
	}

	role := "user"
	if user.IsAdmin {
		role = "admin"
	}
	fmt.Printf("created %s %q (id %d)\n", role, user.Username, user.ID)
	return nil
}

// promptPassword дважды запрашивает пароль без эха
func promptPassword() (string, error) {
	fmt.Print("Password: ")
	first, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Println()
	if err != nil {
		return "", fmt.Errorf("read password: %w", err)
	}

	fmt.Print("Repeat password: ")
	second, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Println()
	if err != nil {
		return "", fmt.Errorf("read password: %w", err)
	}

	if string(first) != string(second) {
		return "", fmt.Errorf("passwords do not match")
	}

	return string(first), nil
}
