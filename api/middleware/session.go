package middleware

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/squareeyes/storefront/pkg/logger"
)

const sessionIDHeader = "X-Session-Id"

type sessionCtxKey struct{}

type sessionInfo struct {
	id       string
	provided bool
}

// Session resolves the caller's session identity from the X-Session-Id
// header. Requests without one get a generated id for the duration of
// the request; mutating endpoints check Provided and refuse those.
func Session(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			info := sessionInfo{id: r.Header.Get(sessionIDHeader), provided: true}
			if info.id == "" {
				info = sessionInfo{id: uuid.NewString()}
			}

			w.Header().Set(sessionIDHeader, info.id)

			ctx := context.WithValue(r.Context(), sessionCtxKey{}, info)
			if logg != nil {
				ctx = logg.WithSessionID(ctx, info.id)
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// SessionFromContext returns the session id and whether the caller
// supplied it rather than having one generated.
func SessionFromContext(ctx context.Context) (string, bool) {
	info, ok := ctx.Value(sessionCtxKey{}).(sessionInfo)
	if !ok {
		return "", false
	}
	return info.id, info.provided
}
