package service

import (
	"context"
	"strings"

	"github.com/portfolio-api/internal/auth"
	"github.com/portfolio-api/internal/config"
	"github.com/portfolio-api/internal/models"
	"github.com/rs/zerolog"
)

// authService is the concrete implementation of AuthService
type authService struct {
	email        string
	passwordHash string
	issuer       *auth.Issuer
	log          zerolog.Logger
}

func newAuthService(cfg config.AuthConfig, issuer *auth.Issuer, log zerolog.Logger) *authService {
	return &authService{
		email:        strings.TrimSpace(cfg.AdminEmail),
		passwordHash: cfg.AdminPasswordHash,
		issuer:       issuer,
		log:          log.With().Str("service", "auth").Logger(),
	}
}

// Login checks the admin credentials and issues a token
func (s *authService) Login(ctx context.Context, email, password string) (*models.TokenResponse, error) {
	email = strings.TrimSpace(email)
	if s.email == "" || !strings.EqualFold(email, s.email) || !auth.CheckPassword(s.passwordHash, password) {
		s.log.Warn().Str("email", email).Msg("Failed admin login")
		return nil, ErrUnauthorized
	}

	token, expiresAt, err := s.issuer.Issue(s.email, models.RoleAdmin)
	if err != nil {
		return nil, err
	}
	s.log.Info().Str("email", s.email).Time("expires_at", expiresAt).Msg("Admin logged in")
	return &models.TokenResponse{Token: token, ExpiresAt: expiresAt}, nil
}

// Authenticate validates a bearer token
func (s *authService) Authenticate(token string) (*auth.Claims, error) {
	return s.issuer.Validate(token)
}
