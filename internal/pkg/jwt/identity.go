package jwt

import (
	"context"
	"fmt"

	"github.com/cmlabs-hris/xtrack-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/xtrack-backend-go/internal/domain/user"
	"github.com/go-chi/jwtauth/v5"
)

// Identity is the caller described by a verified access token.
type Identity struct {
	UserID   string
	Username string
	Name     string
	Role     user.Role
}

func (i Identity) IsAdmin() bool {
	return i.Role == user.RoleAdmin
}

// IdentityFromContext reads the access token claims put in ctx by
// jwtauth.Verifier.
func IdentityFromContext(ctx context.Context) (Identity, error) {
	_, claims, err := jwtauth.FromContext(ctx)
	if err != nil {
		return Identity{}, fmt.Errorf("failed to extract claims from context: %w", auth.ErrInvalidToken)
	}

	userID, ok := claims["user_id"].(string)
	if !ok || userID == "" {
		return Identity{}, fmt.Errorf("user_id claim is missing or invalid: %w", auth.ErrInvalidToken)
	}

	role, _ := claims["role"].(string)
	username, _ := claims["username"].(string)
	name, _ := claims["name"].(string)

	return Identity{
		UserID:   userID,
		Username: username,
		Name:     name,
		Role:     user.Role(role),
	}, nil
}

// ContextWithIdentity stores claims for id in ctx the same way the HTTP
// verifier does. Used by tests and background callers.
func ContextWithIdentity(ctx context.Context, ja *jwtauth.JWTAuth, id Identity) (context.Context, error) {
	token, _, err := ja.Encode(map[string]interface{}{
		"user_id":  id.UserID,
		"username": id.Username,
		"name":     id.Name,
		"role":     string(id.Role),
		"type":     "access",
	})
	if err != nil {
		return nil, err
	}
	return jwtauth.NewContext(ctx, token, nil), nil
}
