package auth

import (
	"context"
	"log/slog"

	"github.com/frahmantamala/recruitment-performance/internal"
	"github.com/frahmantamala/recruitment-performance/internal/user"
)

type UserLookup interface {
	GetByID(ctx context.Context, id int64) (*user.User, error)
}

// Service resolves a bearer token into the acting user.
type Service struct {
	verifier TokenVerifier
	users    UserLookup
	logger   *slog.Logger
}

func NewService(verifier TokenVerifier, users UserLookup, logger *slog.Logger) *Service {
	return &Service{
		verifier: verifier,
		users:    users,
		logger:   logger,
	}
}

// Authenticate validates the token and loads the user it names. The stored role is authoritative.
func (s *Service) Authenticate(ctx context.Context, token string) (*internal.Actor, error) {
	claims, err := s.verifier.ValidateToken(token)
	if err != nil {
		return nil, err
	}

	u, err := s.users.GetByID(ctx, claims.UserID)
	if err != nil {
		if internal.IsErrorType(err, internal.ErrorTypeNotFound) {
			return nil, internal.ErrInvalidToken.WithCause(err)
		}
		return nil, err
	}
	if !u.IsActiveUser() {
		return nil, internal.ErrUserInactive
	}
	if claims.Role != "" && claims.Role != u.Role {
		s.logger.Warn("token role does not match stored role", "user_id", u.ID, "token_role", claims.Role, "role", u.Role)
		return nil, internal.ErrInvalidToken
	}

	return &internal.Actor{ID: u.ID, Role: u.Role}, nil
}
