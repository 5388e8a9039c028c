package services

import (
	"context"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
	"github.com/sirupsen/logrus"

	config "github.com/glambooking/glambooking-api/configs"
	"github.com/glambooking/glambooking-api/internal/core/domain/auth"
	"github.com/glambooking/glambooking-api/internal/core/ports"
)

type AuthService struct {
	cfg    *config.AuthConfig
	parser *jwt.Parser
	logger *logrus.Logger
}

func NewAuthService(cfg *config.AuthConfig, logger *logrus.Logger) ports.AuthService {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithLeeway(cfg.Leeway),
	}
	if cfg.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(cfg.Issuer))
	}
	return &AuthService{cfg: cfg, parser: jwt.NewParser(opts...), logger: logger}
}

func (s *AuthService) ValidateToken(ctx context.Context, tokenString string) (*auth.Claims, error) {
	claims := &auth.Claims{}
	token, err := s.parser.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return []byte(s.cfg.JWTSecret), nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", auth.ErrInvalidToken, err)
	}
	if !token.Valid {
		return nil, auth.ErrInvalidToken
	}
	if claims.Subject == "" {
		return nil, fmt.Errorf("%w: missing subject", auth.ErrInvalidToken)
	}
	return claims, nil
}
