package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/cmlabs-hris/xtrack-backend-go/internal/config"
	"github.com/cmlabs-hris/xtrack-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/xtrack-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/xtrack-backend-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/xtrack-backend-go/internal/repository/postgresql"
	serviceAuth "github.com/cmlabs-hris/xtrack-backend-go/internal/service/auth"
	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
)

func main() {
	migrationsDir := flag.String("dir", "migrations", "directory containing migration files")
	flag.Parse()

	action := "up"
	if flag.NArg() > 0 {
		action = flag.Arg(0)
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	if action == "seed" {
		err = seedAdmin(cfg)
	} else {
		err = runMigration(action, *migrationsDir, cfg.DatabaseURL())
	}
	if err != nil {
		slog.Error("migration failed", "action", action, "error", err)
		os.Exit(1)
	}

	slog.Info("migration completed", "action", action)
}

func runMigration(action, dir, dsn string) error {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return fmt.Errorf("resolve path for %s: %w", dir, err)
	}
	absDir = filepath.ToSlash(absDir)

	m, err := migrate.New(fmt.Sprintf("file://%s", absDir), dsn)
	if err != nil {
		return fmt.Errorf("create migrate instance: %w", err)
	}
	defer m.Close()

	switch action {
	case "up":
		if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
			return err
		}
		return nil
	case "down":
		if err := m.Down(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
			return err
		}
		return nil
	case "version":
		version, dirty, err := m.Version()
		if err != nil {
			if errors.Is(err, migrate.ErrNilVersion) {
				slog.Info("no migration applied")
				return nil
			}
			return err
		}
		slog.Info("schema version", "version", version, "dirty", dirty)
		return nil
	default:
		return fmt.Errorf("unsupported action %q", action)
	}
}

// seedAdmin creates the first administrator from ADMIN_USERNAME,
// ADMIN_NAME and ADMIN_PASSWORD. An existing username is left untouched.
func seedAdmin(cfg *config.Config) error {
	password := os.Getenv("ADMIN_PASSWORD")
	if password == "" {
		return errors.New("ADMIN_PASSWORD is required")
	}
	username := os.Getenv("ADMIN_USERNAME")
	if username == "" {
		username = "admin"
	}
	name := os.Getenv("ADMIN_NAME")
	if name == "" {
		name = "Administrator"
	}

	db, err := database.NewPostgreSQLDB(cfg.DatabaseURL())
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer db.Close()

	authService := serviceAuth.NewAuthService(postgresql.NewUserRepository(db), jwt.NewJWTService(cfg.JWT.Secret, time.Hour))

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	created, err := authService.CreateUser(ctx, user.CreateUserRequest{
		Username: username,
		Name:     name,
		Password: password,
		Role:     string(user.RoleAdmin),
	})
	if errors.Is(err, user.ErrUsernameExists) {
		slog.Info("admin already exists", "username", username)
		return nil
	}
	if err != nil {
		return err
	}

	slog.Info("admin created", "id", created.ID, "username", created.Username)
	return nil
}
