package health_test

import (
	"context"
	"errors"
	"log/slog"
	"os"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/frahmantamala/recruitment-performance/internal"
	"github.com/frahmantamala/recruitment-performance/internal/health"
)

type mockHealthRepository struct {
	clients  map[int64]*health.Client
	counts   map[int64]health.Counts
	countErr error
}

func (m *mockHealthRepository) GetClient(ctx context.Context, clientID int64) (*health.Client, error) {
	c, ok := m.clients[clientID]
	if !ok {
		return nil, health.ErrClientNotFound
	}
	return c, nil
}

func (m *mockHealthRepository) ListClientsByAccountManager(ctx context.Context, accountManagerID int64) ([]*health.Client, error) {
	result := []*health.Client{}
	for id := int64(1); id <= int64(len(m.clients)); id++ {
		if c, ok := m.clients[id]; ok && c.AccountManagerID == accountManagerID {
			result = append(result, c)
		}
	}
	return result, nil
}

func (m *mockHealthRepository) CountsForClient(ctx context.Context, clientID int64) (health.Counts, error) {
	if m.countErr != nil {
		return health.Counts{}, m.countErr
	}
	return m.counts[clientID], nil
}

var _ = Describe("Health Service", func() {
	var (
		repo    *mockHealthRepository
		service *health.Service
		ctx     context.Context
	)

	BeforeEach(func() {
		logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		repo = &mockHealthRepository{
			clients: map[int64]*health.Client{
				1: {ID: 1, Code: "CL-1", Name: "Acme", AccountManagerID: 50},
				2: {ID: 2, Code: "CL-2", Name: "Globex", AccountManagerID: 50},
				3: {ID: 3, Code: "CL-3", Name: "Initech", AccountManagerID: 51},
			},
			counts: map[int64]health.Counts{
				1: {TotalRoles: 10, ActiveRoles: 5, Deals: 4},
				2: {TotalRoles: 5, ActiveRoles: 1, LostRoles: 2, DropoutRoles: 1, Deals: 1},
			},
		}
		service = health.NewService(repo, logger)
		ctx = context.Background()
	})

	It("classifies one client", func() {
		h, err := service.ClientHealth(ctx, 1)
		Expect(err).NotTo(HaveOccurred())
		Expect(h.Health).To(Equal(health.TierStrong))
		Expect(h.ClientCode).To(Equal("CL-1"))
		Expect(h.TotalRoles).To(Equal(10))
	})

	It("treats a client without roles as Average", func() {
		h, err := service.ClientHealth(ctx, 3)
		Expect(err).NotTo(HaveOccurred())
		Expect(h.Health).To(Equal(health.TierAverage))
	})

	It("returns not found for an unknown client", func() {
		_, err := service.ClientHealth(ctx, 99)
		Expect(internal.IsErrorType(err, internal.ErrorTypeNotFound)).To(BeTrue())
	})

	It("classifies every client of an account manager in order", func() {
		list, err := service.AccountManagerHealth(ctx, 50)
		Expect(err).NotTo(HaveOccurred())
		Expect(list).To(HaveLen(2))
		Expect(list[0].ClientID).To(Equal(int64(1)))
		Expect(list[1].Health).To(Equal(health.TierAtRisk))
	})

	It("fails when a count query fails", func() {
		repo.countErr = errors.New("connection reset")
		_, err := service.AccountManagerHealth(ctx, 50)
		Expect(err).To(MatchError(ContainSubstring("connection reset")))
	})
})
