package auth_test

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/frahmantamala/recruitment-performance/internal"
	"github.com/frahmantamala/recruitment-performance/internal/auth"
	"github.com/frahmantamala/recruitment-performance/internal/transport"
	"github.com/frahmantamala/recruitment-performance/internal/user"
)

const testSecret = "test-secret-that-is-at-least-32-chars-long"

type mockUserLookup struct {
	users map[int64]*user.User
}

func (m *mockUserLookup) GetByID(ctx context.Context, id int64) (*user.User, error) {
	u, ok := m.users[id]
	if !ok {
		return nil, user.ErrNotFound
	}
	return u, nil
}

var _ = Describe("JWTTokenVerifier", func() {
	var verifier *auth.JWTTokenVerifier

	BeforeEach(func() {
		verifier = auth.NewJWTTokenVerifier(internal.SecurityConfig{JWTSecret: testSecret, JWTIssuer: "recruitment-performance"})
	})

	It("round-trips issued tokens", func() {
		token, err := verifier.IssueToken(7, user.RoleRecruiter, time.Hour)
		Expect(err).NotTo(HaveOccurred())

		claims, err := verifier.ValidateToken(token)
		Expect(err).NotTo(HaveOccurred())
		Expect(claims.UserID).To(Equal(int64(7)))
		Expect(claims.Role).To(Equal(user.RoleRecruiter))
	})

	It("reports expired tokens", func() {
		token, err := verifier.IssueToken(7, user.RoleRecruiter, -time.Minute)
		Expect(err).NotTo(HaveOccurred())

		_, err = verifier.ValidateToken(token)
		Expect(err).To(MatchError(internal.ErrTokenExpired))
	})

	It("rejects tokens signed with another secret", func() {
		other := auth.NewJWTTokenVerifier(internal.SecurityConfig{JWTSecret: "another-secret-that-is-32-chars-long!!", JWTIssuer: "recruitment-performance"})
		token, err := other.IssueToken(7, user.RoleRecruiter, time.Hour)
		Expect(err).NotTo(HaveOccurred())

		_, err = verifier.ValidateToken(token)
		Expect(err).To(MatchError(internal.ErrInvalidToken))
	})

	It("rejects tokens from another issuer", func() {
		other := auth.NewJWTTokenVerifier(internal.SecurityConfig{JWTSecret: testSecret, JWTIssuer: "someone-else"})
		token, err := other.IssueToken(7, user.RoleRecruiter, time.Hour)
		Expect(err).NotTo(HaveOccurred())

		_, err = verifier.ValidateToken(token)
		Expect(err).To(MatchError(internal.ErrInvalidToken))
	})

	It("rejects garbage", func() {
		_, err := verifier.ValidateToken("not-a-jwt")
		Expect(err).To(MatchError(internal.ErrInvalidToken))
	})
})

var _ = Describe("Service", func() {
	var (
		verifier *auth.JWTTokenVerifier
		users    *mockUserLookup
		service  *auth.Service
		ctx      context.Context
	)

	BeforeEach(func() {
		ctx = context.Background()
		verifier = auth.NewJWTTokenVerifier(internal.SecurityConfig{JWTSecret: testSecret})
		users = &mockUserLookup{users: map[int64]*user.User{
			1: {ID: 1, Role: user.RoleRecruiter, IsActive: true},
			2: {ID: 2, Role: user.RoleAccountManager, IsActive: false},
		}}
		logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		service = auth.NewService(verifier, users, logger)
	})

	It("resolves the actor from the stored user", func() {
		token, _ := verifier.IssueToken(1, user.RoleRecruiter, time.Hour)

		actor, err := service.Authenticate(ctx, token)
		Expect(err).NotTo(HaveOccurred())
		Expect(actor).To(Equal(&internal.Actor{ID: 1, Role: user.RoleRecruiter}))
	})

	It("rejects inactive users", func() {
		token, _ := verifier.IssueToken(2, user.RoleAccountManager, time.Hour)

		_, err := service.Authenticate(ctx, token)
		Expect(err).To(MatchError(internal.ErrUserInactive))
	})

	It("rejects unknown users as invalid tokens", func() {
		token, _ := verifier.IssueToken(99, user.RoleRecruiter, time.Hour)

		_, err := service.Authenticate(ctx, token)
		Expect(err).To(MatchError(internal.ErrInvalidToken))
	})

	It("rejects a token whose role disagrees with the stored role", func() {
		token, _ := verifier.IssueToken(1, user.RoleAdmin, time.Hour)

		_, err := service.Authenticate(ctx, token)
		Expect(err).To(MatchError(internal.ErrInvalidToken))
	})

	Describe("AuthMiddleware", func() {
		var handler http.Handler

		BeforeEach(func() {
			logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
			h := auth.NewHandler(transport.NewBaseHandler(logger), service)
			handler = h.AuthMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				actor, ok := internal.ActorFromContext(r.Context())
				Expect(ok).To(BeTrue())
				_ = json.NewEncoder(w).Encode(actor)
			}))
		})

		It("returns 401 without a bearer token", func() {
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
			Expect(rec.Code).To(Equal(http.StatusUnauthorized))
		})

		It("passes the actor downstream", func() {
			token, _ := verifier.IssueToken(1, user.RoleRecruiter, time.Hour)
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.Header.Set("Authorization", "Bearer "+token)

			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			Expect(rec.Code).To(Equal(http.StatusOK))
			var actor internal.Actor
			Expect(json.Unmarshal(rec.Body.Bytes(), &actor)).To(Succeed())
			Expect(actor.ID).To(Equal(int64(1)))
		})

		It("returns 403 for inactive users", func() {
			token, _ := verifier.IssueToken(2, user.RoleAccountManager, time.Hour)
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.Header.Set("Authorization", "Bearer "+token)

			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)
			Expect(rec.Code).To(Equal(http.StatusForbidden))
		})
	})
})
