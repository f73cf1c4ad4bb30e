package middleware_test

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"

	"github.com/go-chi/chi"
	chiMiddleware "github.com/go-chi/chi/middleware"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/frahmantamala/recruitment-performance/api"
	"github.com/frahmantamala/recruitment-performance/internal"
	"github.com/frahmantamala/recruitment-performance/internal/observability"
	"github.com/frahmantamala/recruitment-performance/internal/transport/middleware"
)

type errorBody struct {
	Error struct {
		Type    string          `json:"type"`
		Code    string          `json:"code"`
		Details json.RawMessage `json:"details"`
	} `json:"error"`
}

var testLogger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))

var ok = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
})

var _ = Describe("RequestID", func() {
	It("mints a trace id and exposes it to chi", func() {
		var seen string
		h := middleware.RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			seen = chiMiddleware.GetReqID(r.Context())
		}))

		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

		Expect(seen).NotTo(BeEmpty())
		Expect(rec.Header().Get(middleware.TraceHeader)).To(Equal(seen))
	})

	It("keeps an inbound trace id", func() {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(middleware.TraceHeader, "trace-123")

		rec := httptest.NewRecorder()
		middleware.RequestID(ok).ServeHTTP(rec, req)
		Expect(rec.Header().Get(middleware.TraceHeader)).To(Equal("trace-123"))
	})
})

var _ = Describe("RecoveryMiddleware", func() {
	It("renders a panic as an internal AppError", func() {
		h := middleware.RecoveryMiddleware(testLogger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			panic("boom")
		}))

		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

		Expect(rec.Code).To(Equal(http.StatusInternalServerError))
		var body errorBody
		Expect(json.Unmarshal(rec.Body.Bytes(), &body)).To(Succeed())
		Expect(body.Error.Type).To(Equal(string(internal.ErrorTypeInternal)))
	})
})

var _ = Describe("CORS", func() {
	It("echoes allowed origins and short-circuits preflight", func() {
		h := middleware.CORS("https://app.example.com")(ok)
		req := httptest.NewRequest(http.MethodOptions, "/", nil)
		req.Header.Set("Origin", "https://app.example.com")

		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		Expect(rec.Code).To(Equal(http.StatusNoContent))
		Expect(rec.Header().Get("Access-Control-Allow-Origin")).To(Equal("https://app.example.com"))
	})

	It("ignores other origins", func() {
		h := middleware.CORS("https://app.example.com")(ok)
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Origin", "https://evil.example.com")

		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		Expect(rec.Code).To(Equal(http.StatusOK))
		Expect(rec.Header().Get("Access-Control-Allow-Origin")).To(BeEmpty())
	})
})

var _ = Describe("LoggingMiddleware", func() {
	It("records request metrics under the chi route pattern", func() {
		metrics := observability.NewMetrics()
		r := chi.NewRouter()
		r.Use(middleware.LoggingMiddleware(metrics))
		r.Get("/api/v1/dropout-requests/{id}", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		})

		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/dropout-requests/42", nil))

		Expect(rec.Code).To(Equal(http.StatusNotFound))
		Expect(metrics.HTTPRequests(http.MethodGet, "/api/v1/dropout-requests/{id}", http.StatusNotFound)).To(Equal(1.0))
	})

	It("leaves the request body readable downstream", func() {
		var got string
		h := middleware.LoggingMiddleware(nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var body map[string]string
			_ = json.NewDecoder(r.Body).Decode(&body)
			got = body["reason"]
		}))

		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"reason":"candidate withdrew","token":"x"}`))
		h.ServeHTTP(httptest.NewRecorder(), req)
		Expect(got).To(Equal("candidate withdrew"))
	})
})

var _ = Describe("OpenAPIValidator", func() {
	var handler http.Handler

	BeforeEach(func() {
		validate, err := middleware.OpenAPIValidator(api.Spec, testLogger)
		Expect(err).NotTo(HaveOccurred())
		handler = validate(ok)
	})

	post := func(path, body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return rec
	}

	It("accepts a well-formed dropout request", func() {
		rec := post("/api/v1/dropout-requests", `{"role_id": 3, "reason": "candidate withdrew"}`)
		Expect(rec.Code).To(Equal(http.StatusOK))
	})

	It("rejects a body missing required fields", func() {
		rec := post("/api/v1/dropout-requests", `{"reason": "candidate withdrew"}`)
		Expect(rec.Code).To(Equal(http.StatusBadRequest))

		var body errorBody
		Expect(json.Unmarshal(rec.Body.Bytes(), &body)).To(Succeed())
		Expect(body.Error.Type).To(Equal(string(internal.ErrorTypeValidation)))
	})

	It("rejects a malformed path id", func() {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/dropout-requests/abc", nil))
		Expect(rec.Code).To(Equal(http.StatusBadRequest))
	})

	It("lets undocumented paths through", func() {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
		Expect(rec.Code).To(Equal(http.StatusOK))
	})
})
