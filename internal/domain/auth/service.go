package auth

import (
	"context"

	"github.com/cmlabs-hris/xtrack-backend-go/internal/domain/user"
)

type AuthService interface {
	Login(ctx context.Context, req LoginRequest) (LoginResponse, error)
	Logout(ctx context.Context, token string) error
	Me(ctx context.Context) (user.UserResponse, error)
	CreateUser(ctx context.Context, req user.CreateUserRequest) (user.UserResponse, error)
	ListUsers(ctx context.Context) ([]user.UserResponse, error)
}
