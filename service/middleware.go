package service

import (
	"context"
	"fmt"
	"net/http"

	"github.com/google/uuid"
)

type requestIDKey struct{}

// requestIDMiddleware stamps every request with a fresh UUID, echoed
// back as X-Request-Id and logged alongside the request line, the way
// a correlation ID threads through logs in a multi-instance service.
func requestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := uuid.New().String()
		w.Header().Set("X-Request-Id", id)

		ctx := context.WithValue(r.Context(), requestIDKey{}, id)
		fmt.Printf("[%s] %s %s\n", id, r.Method, r.URL.Path)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func requestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}
