package ports

import (
	"context"

	"github.com/glambooking/glambooking-api/internal/core/domain/auth"
)

// AuthService verifies access tokens issued by the identity provider.
// Sign-in, refresh and session management live with the provider.
type AuthService interface {
	ValidateToken(ctx context.Context, token string) (*auth.Claims, error)
}
