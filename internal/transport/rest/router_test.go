package rest_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"time"

	"github.com/go-chi/chi"
	"github.com/jmoiron/sqlx"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"

	"github.com/frahmantamala/recruitment-performance/api"
	"github.com/frahmantamala/recruitment-performance/internal"
	"github.com/frahmantamala/recruitment-performance/internal/activity"
	activityPostgres "github.com/frahmantamala/recruitment-performance/internal/activity/postgres"
	"github.com/frahmantamala/recruitment-performance/internal/aging"
	"github.com/frahmantamala/recruitment-performance/internal/auth"
	activityDatamodel "github.com/frahmantamala/recruitment-performance/internal/core/datamodel/activity"
	dropoutDatamodel "github.com/frahmantamala/recruitment-performance/internal/core/datamodel/dropout"
	orgDatamodel "github.com/frahmantamala/recruitment-performance/internal/core/datamodel/org"
	roleDatamodel "github.com/frahmantamala/recruitment-performance/internal/core/datamodel/role"
	scoringDatamodel "github.com/frahmantamala/recruitment-performance/internal/core/datamodel/scoring"
	userDatamodel "github.com/frahmantamala/recruitment-performance/internal/core/datamodel/user"
	"github.com/frahmantamala/recruitment-performance/internal/core/events"
	"github.com/frahmantamala/recruitment-performance/internal/dropout"
	dropoutPostgres "github.com/frahmantamala/recruitment-performance/internal/dropout/postgres"
	"github.com/frahmantamala/recruitment-performance/internal/health"
	healthPostgres "github.com/frahmantamala/recruitment-performance/internal/health/postgres"
	"github.com/frahmantamala/recruitment-performance/internal/observability"
	"github.com/frahmantamala/recruitment-performance/internal/org"
	orgPostgres "github.com/frahmantamala/recruitment-performance/internal/org/postgres"
	rolePostgres "github.com/frahmantamala/recruitment-performance/internal/role/postgres"
	"github.com/frahmantamala/recruitment-performance/internal/scoring"
	scoringPostgres "github.com/frahmantamala/recruitment-performance/internal/scoring/postgres"
	"github.com/frahmantamala/recruitment-performance/internal/transport"
	"github.com/frahmantamala/recruitment-performance/internal/transport/middleware"
	"github.com/frahmantamala/recruitment-performance/internal/transport/rest"
	"github.com/frahmantamala/recruitment-performance/internal/user"
	userPostgres "github.com/frahmantamala/recruitment-performance/internal/user/postgres"
)

const jwtSecret = "router-test-secret-at-least-32-characters"

const (
	recruiterID int64 = 1
	managerID   int64 = 2
	amID        int64 = 3
	clientID    int64 = 1
	teamID      int64 = 1
	roleID      int64 = 10
)

var _ = Describe("Router", func() {
	var (
		db       *gorm.DB
		router   *chi.Mux
		verifier *auth.JWTTokenVerifier
		metrics  *observability.Metrics
		bus      *events.EventBus
		today    string
	)

	tokenFor := func(id int64, role string) string {
		token, err := verifier.IssueToken(id, role, time.Hour)
		Expect(err).NotTo(HaveOccurred())
		return token
	}

	do := func(method, path, token string, body interface{}) *httptest.ResponseRecorder {
		var buf bytes.Buffer
		if body != nil {
			Expect(json.NewEncoder(&buf).Encode(body)).To(Succeed())
		}
		req := httptest.NewRequest(method, path, &buf)
		if body != nil {
			req.Header.Set("Content-Type", "application/json")
		}
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		return rec
	}

	decode := func(rec *httptest.ResponseRecorder, v interface{}) {
		Expect(json.Unmarshal(rec.Body.Bytes(), v)).To(Succeed(), rec.Body.String())
	}

	BeforeEach(func() {
		slogger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))

		var err error
		db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
			Logger:         gormLogger.Default.LogMode(gormLogger.Silent),
			TranslateError: true,
		})
		Expect(err).NotTo(HaveOccurred())
		sqlDB, err := db.DB()
		Expect(err).NotTo(HaveOccurred())
		sqlDB.SetMaxOpenConns(1)
		Expect(db.AutoMigrate(
			&userDatamodel.User{},
			&orgDatamodel.Team{},
			&orgDatamodel.TeamMember{},
			&orgDatamodel.Client{},
			&roleDatamodel.Role{},
			&activityDatamodel.Entry{},
			&dropoutDatamodel.Request{},
			&scoringDatamodel.Penalty{},
		)).To(Succeed())

		for _, u := range []userDatamodel.User{
			{ID: recruiterID, Code: "U-1", Email: "rec@example.com", Name: "Rita", Role: user.RoleRecruiter, CompanyID: 1, IsActive: true},
			{ID: managerID, Code: "U-2", Email: "rm@example.com", Name: "Max", Role: user.RoleRecruitmentManager, CompanyID: 1, IsActive: true},
			{ID: amID, Code: "U-3", Email: "am@example.com", Name: "Ana", Role: user.RoleAccountManager, CompanyID: 1, IsActive: true},
		} {
			u := u
			Expect(db.Create(&u).Error).To(Succeed())
		}
		Expect(db.Create(&orgDatamodel.Team{ID: teamID, Code: "T-1", Name: "Engineering", CompanyID: 1, ManagerID: managerID}).Error).To(Succeed())
		Expect(db.Create(&orgDatamodel.TeamMember{TeamID: teamID, RecruiterID: recruiterID}).Error).To(Succeed())
		Expect(db.Create(&orgDatamodel.Client{ID: clientID, Code: "CL-1", Name: "Acme", CompanyID: 1, AccountManagerID: amID}).Error).To(Succeed())
		Expect(db.Create(&roleDatamodel.Role{ID: roleID, Code: "R-10", Title: "Backend Engineer", Status: "open", ClientID: clientID, TeamID: teamID, AccountManagerID: amID, CreatedAt: time.Now().AddDate(0, 0, -20)}).Error).To(Succeed())

		cfg := internal.Config{Security: internal.SecurityConfig{JWTSecret: jwtSecret, JWTIssuer: "recruitment-performance"}}
		cfg.ApplyDefaults()

		metrics = observability.NewMetrics()
		bus = events.NewEventBus(slogger)
		bus.OnPublish(metrics.IncrEventPublished)

		base := transport.NewBaseHandler(slogger)
		users := user.NewService(userPostgres.NewUserRepository(db))
		roles := rolePostgres.NewRoleRepository(db)
		policy := org.NewPolicy(orgPostgres.NewOrgRepository(db))
		activities := activityPostgres.NewActivityRepository(db)

		verifier = auth.NewJWTTokenVerifier(cfg.Security)
		validator, err := middleware.OpenAPIValidator(api.Spec, slogger)
		Expect(err).NotTo(HaveOccurred())

		handlers := rest.Handlers{
			Auth:         auth.NewHandler(base, auth.NewService(verifier, users, slogger)),
			User:         user.NewHandler(base, users),
			Activity:     activity.NewHandler(base, activity.NewService(activities, roles, policy, slogger)),
			Scoring:      scoring.NewHandler(base, scoring.NewService(activities, scoringPostgres.NewPenaltyRepository(db), roles, policy, scoring.WeightsFromConfig(cfg.Scoring), metrics, slogger)),
			ClientHealth: health.NewHandler(base, health.NewService(healthPostgres.NewHealthRepository(sqlx.NewDb(sqlDB, "sqlite3")), slogger)),
			Aging:        aging.NewHandler(base, aging.NewService(roles, activities, cfg.Aging, slogger)),
			Dropout:      dropout.NewHandler(base, dropout.NewService(dropoutPostgres.NewDropoutRepository(db), roles, policy, bus, metrics, slogger)),
		}

		router = chi.NewRouter()
		rest.RegisterAllRoutes(router, sqlDB, handlers, rest.Options{
			AllowedOrigins: "*",
			OpenAPISpec:    api.Spec,
			Validator:      validator,
			Metrics:        metrics,
		}, slogger)

		today = time.Now().UTC().Format(internal.DateLayout)
	})

	AfterEach(func() {
		bus.Wait()
		sqlDB, err := db.DB()
		Expect(err).NotTo(HaveOccurred())
		Expect(sqlDB.Close()).To(Succeed())
	})

	It("serves the operational endpoints without a token", func() {
		Expect(do(http.MethodGet, "/api/v1/ping", "", nil).Code).To(Equal(http.StatusOK))
		Expect(do(http.MethodGet, "/api/v1/health", "", nil).Code).To(Equal(http.StatusOK))

		rec := do(http.MethodGet, "/openapi.yml", "", nil)
		Expect(rec.Code).To(Equal(http.StatusOK))
		Expect(rec.Body.String()).To(ContainSubstring("openapi: 3.0.3"))

		Expect(do(http.MethodGet, "/metrics", "", nil).Code).To(Equal(http.StatusOK))
	})

	It("requires a token on domain endpoints", func() {
		rec := do(http.MethodGet, "/api/v1/users/me", "", nil)
		Expect(rec.Code).To(Equal(http.StatusUnauthorized))
	})

	It("returns the current user", func() {
		rec := do(http.MethodGet, "/api/v1/users/me", tokenFor(recruiterID, user.RoleRecruiter), nil)
		Expect(rec.Code).To(Equal(http.StatusOK))

		var u user.User
		decode(rec, &u)
		Expect(u.Email).To(Equal("rec@example.com"))
	})

	It("records activity and scores it", func() {
		token := tokenFor(recruiterID, user.RoleRecruiter)

		rec := do(http.MethodPost, "/api/v1/activities", token, map[string]interface{}{
			"entry_type": "deal", "role_id": roleID, "submission_date": today,
		})
		Expect(rec.Code).To(Equal(http.StatusCreated), rec.Body.String())

		rec = do(http.MethodPost, "/api/v1/activities", token, map[string]interface{}{
			"entry_type": "interview", "role_id": roleID, "submission_date": today, "interview_level": 3,
		})
		Expect(rec.Code).To(Equal(http.StatusCreated), rec.Body.String())

		rec = do(http.MethodGet, fmt.Sprintf("/api/v1/scores?start=%s&end=%s", today, today), token, nil)
		Expect(rec.Code).To(Equal(http.StatusOK), rec.Body.String())

		var body struct {
			Score            float64 `json:"score"`
			PerformanceLabel string  `json:"performance_label"`
		}
		decode(rec, &body)
		Expect(body.Score).To(Equal(23.0))
		Expect(body.PerformanceLabel).To(Equal(scoring.LabelAtRisk))
	})

	It("rejects an interview level outside the contract", func() {
		rec := do(http.MethodPost, "/api/v1/activities", tokenFor(recruiterID, user.RoleRecruiter), map[string]interface{}{
			"entry_type": "interview", "role_id": roleID, "interview_level": 4,
		})
		Expect(rec.Code).To(Equal(http.StatusBadRequest))
	})

	It("reports an inverted window as an invalid range", func() {
		rec := do(http.MethodGet, "/api/v1/scores?start=2024-05-10&end=2024-05-01", tokenFor(recruiterID, user.RoleRecruiter), nil)
		Expect(rec.Code).To(Equal(http.StatusBadRequest))

		var body struct {
			Error struct {
				Type string `json:"type"`
			} `json:"error"`
		}
		decode(rec, &body)
		Expect(body.Error.Type).To(Equal(string(internal.ErrorTypeInvalidRange)))
	})

	It("runs the dropout workflow end to end", func() {
		rec := do(http.MethodPost, "/api/v1/dropout-requests", tokenFor(recruiterID, user.RoleRecruiter), map[string]interface{}{
			"role_id": roleID, "reason": "candidate withdrew",
		})
		Expect(rec.Code).To(Equal(http.StatusCreated), rec.Body.String())
		var req dropout.Request
		decode(rec, &req)
		Expect(req.State).To(Equal(dropout.StatePendingRM))

		rec = do(http.MethodPost, "/api/v1/dropout-requests", tokenFor(recruiterID, user.RoleRecruiter), map[string]interface{}{
			"role_id": roleID, "reason": "again",
		})
		Expect(rec.Code).To(Equal(http.StatusConflict))

		// Account manager cannot skip the recruitment manager.
		rec = do(http.MethodPut, fmt.Sprintf("/api/v1/dropout-requests/%d/decide", req.ID), tokenFor(amID, user.RoleAccountManager), map[string]interface{}{
			"decision": "accept", "new_role_status": "dropout",
		})
		Expect(rec.Code).To(Equal(http.StatusUnprocessableEntity), rec.Body.String())

		rec = do(http.MethodPut, fmt.Sprintf("/api/v1/dropout-requests/%d/acknowledge", req.ID), tokenFor(managerID, user.RoleRecruitmentManager), map[string]interface{}{
			"rm_notes": "verified",
		})
		Expect(rec.Code).To(Equal(http.StatusOK), rec.Body.String())
		decode(rec, &req)
		Expect(req.State).To(Equal(dropout.StatePendingAM))

		rec = do(http.MethodPut, fmt.Sprintf("/api/v1/dropout-requests/%d/decide", req.ID), tokenFor(amID, user.RoleAccountManager), map[string]interface{}{
			"decision": "accept", "new_role_status": "dropout",
		})
		Expect(rec.Code).To(Equal(http.StatusOK), rec.Body.String())
		decode(rec, &req)
		Expect(req.State).To(Equal(dropout.StateAccepted))

		rec = do(http.MethodGet, fmt.Sprintf("/api/v1/dropout-requests/%d", req.ID), tokenFor(managerID, user.RoleRecruitmentManager), nil)
		Expect(rec.Code).To(Equal(http.StatusOK))

		rec = do(http.MethodGet, "/api/v1/dropout-requests?state=accepted", tokenFor(managerID, user.RoleRecruitmentManager), nil)
		Expect(rec.Code).To(Equal(http.StatusOK))
		var list dropout.ListResponse
		decode(rec, &list)
		Expect(list.Requests).To(HaveLen(1))

		rec = do(http.MethodGet, fmt.Sprintf("/api/v1/client-health?client_id=%d", clientID), tokenFor(amID, user.RoleAccountManager), nil)
		Expect(rec.Code).To(Equal(http.StatusOK), rec.Body.String())
		var ch health.ClientHealth
		decode(rec, &ch)
		Expect(ch.DropoutRoles).To(Equal(1))

		rec = do(http.MethodGet, "/api/v1/aging?team_id=1", tokenFor(managerID, user.RoleRecruitmentManager), nil)
		Expect(rec.Code).To(Equal(http.StatusOK), rec.Body.String())
		var report aging.Report
		decode(rec, &report)
		Expect(report.Roles).To(HaveLen(1))
		Expect(report.Roles[0].Frozen).To(BeTrue())

		bus.Wait()
		Expect(metrics.EventsPublished(events.EventTypeDropoutDecided)).To(Equal(1.0))
	})
})
