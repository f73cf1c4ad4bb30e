package middleware

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/getkin/kin-openapi/openapi3filter"
	"github.com/getkin/kin-openapi/routers/legacy"

	"github.com/frahmantamala/recruitment-performance/internal"
)

// OpenAPIValidator checks requests against the API document before they reach a handler.
// Paths the document does not describe pass through untouched. Authentication is left to
// the auth middleware, so security requirements are not evaluated here.
func OpenAPIValidator(spec []byte, logger *slog.Logger) (func(http.Handler) http.Handler, error) {
	loader := openapi3.NewLoader()
	doc, err := loader.LoadFromData(spec)
	if err != nil {
		return nil, fmt.Errorf("load openapi document: %w", err)
	}
	// Paths in the document are absolute, so server matching is not needed.
	doc.Servers = nil

	router, err := legacy.NewRouter(doc)
	if err != nil {
		return nil, fmt.Errorf("build openapi router: %w", err)
	}

	options := &openapi3filter.Options{
		AuthenticationFunc: openapi3filter.NoopAuthenticationFunc,
		MultiError:         true,
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			route, pathParams, err := router.FindRoute(r)
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}

			input := &openapi3filter.RequestValidationInput{
				Request:    r,
				PathParams: pathParams,
				Route:      route,
				Options:    options,
			}
			if err := openapi3filter.ValidateRequest(r.Context(), input); err != nil {
				logger.WarnContext(r.Context(), "request failed openapi validation",
					"method", r.Method, "path", r.URL.Path, "error", err)
				writeValidationError(w, err)
				return
			}

			next.ServeHTTP(w, r)
		})
	}, nil
}

func writeValidationError(w http.ResponseWriter, err error) {
	appErr := internal.NewValidationError("request does not match the API contract", internal.ErrCodeValidationFailed).
		WithDetails(internal.ValidationErrors{Errors: validationErrors(err)})

	status, body := appErr.ToHTTPResponse()
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func validationErrors(err error) []internal.ValidationError {
	var multi openapi3.MultiError
	if errors.As(err, &multi) {
		out := make([]internal.ValidationError, 0, len(multi))
		for _, e := range multi {
			out = append(out, validationErrors(e)...)
		}
		return out
	}

	field := "body"
	var reqErr *openapi3filter.RequestError
	if errors.As(err, &reqErr) && reqErr.Parameter != nil {
		field = reqErr.Parameter.Name
	}
	var schemaErr *openapi3.SchemaError
	if errors.As(err, &schemaErr) {
		if p := schemaErr.JSONPointer(); len(p) > 0 {
			field = p[0]
		}
		return []internal.ValidationError{{
			Field:   field,
			Message: schemaErr.Reason,
			Code:    string(internal.ErrCodeValidationFailed),
		}}
	}

	return []internal.ValidationError{{
		Field:   field,
		Message: err.Error(),
		Code:    string(internal.ErrCodeValidationFailed),
	}}
}
