package health

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"
)

const countConcurrency = 4

type Repository interface {
	GetClient(ctx context.Context, clientID int64) (*Client, error)
	ListClientsByAccountManager(ctx context.Context, accountManagerID int64) ([]*Client, error)
	CountsForClient(ctx context.Context, clientID int64) (Counts, error)
}

type Service struct {
	repo   Repository
	logger *slog.Logger
}

func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

func (s *Service) ClientHealth(ctx context.Context, clientID int64) (*ClientHealth, error) {
	client, err := s.repo.GetClient(ctx, clientID)
	if err != nil {
		return nil, err
	}
	counts, err := s.repo.CountsForClient(ctx, clientID)
	if err != nil {
		s.logger.Error("failed to count client activity", "client_id", clientID, "error", err)
		return nil, fmt.Errorf("count client %d: %w", clientID, err)
	}
	return NewClientHealth(client, counts), nil
}

// AccountManagerHealth classifies every client the account manager owns, ordered by client id.
func (s *Service) AccountManagerHealth(ctx context.Context, accountManagerID int64) ([]*ClientHealth, error) {
	clients, err := s.repo.ListClientsByAccountManager(ctx, accountManagerID)
	if err != nil {
		return nil, fmt.Errorf("list clients: %w", err)
	}

	result := make([]*ClientHealth, len(clients))
	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(countConcurrency)
	for i, c := range clients {
		g.Go(func() error {
			counts, err := s.repo.CountsForClient(gCtx, c.ID)
			if err != nil {
				return fmt.Errorf("count client %d: %w", c.ID, err)
			}
			result[i] = NewClientHealth(c, counts)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		s.logger.Error("failed to classify account manager clients", "account_manager_id", accountManagerID, "error", err)
		return nil, err
	}

	return result, nil
}
