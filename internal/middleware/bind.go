package middleware

import (
	"context"
	"encoding/json"
	"net/http"

	"lapor/pkg/validator"
)

type bodyKey struct{}

// BindJSON decodes and validates the request body into a fresh T per request
// and stores it in the context for Body.
func BindJSON[T any]() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			target := new(T)

			dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20))
			dec.DisallowUnknownFields()
			if err := dec.Decode(target); err != nil {
				respondError(w, http.StatusBadRequest, "invalid_json", "invalid JSON body", nil)
				return
			}

			if err := validator.ValidateStruct(target); err != nil {
				respondError(w, http.StatusBadRequest, "validation_failed", "request validation failed", validator.Fields(err))
				return
			}

			ctx := context.WithValue(r.Context(), bodyKey{}, target)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// Body returns the value bound by BindJSON[T], or nil.
func Body[T any](ctx context.Context) *T {
	v, _ := ctx.Value(bodyKey{}).(*T)
	return v
}
