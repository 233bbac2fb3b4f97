package httpmw

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/linkin-purry/chat-service/internal/domain"
	"github.com/linkin-purry/chat-service/pkg/logger"
)

type ctxKey string

const ctxKeyUserID ctxKey = "user_id"

type TokenVerifier interface {
	Verify(token string) (domain.UserID, error)
}

// AuthMiddleware verifies the session cookie and stashes the caller identity
// in the request context. 401 on a missing, malformed, or expired token.
func AuthMiddleware(verifier TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := ""
			if c, err := r.Cookie("token"); err == nil {
				token = c.Value
			}

			uid, err := verifier.Verify(token)
			if err != nil {
				attrs := append(logger.AttrsFromCtx(r.Context()), slog.Any("err", err))
				slog.LogAttrs(r.Context(), slog.LevelDebug, "session verification failed", attrs...)

				msg := `{"success":false,"message":"Invalid or expired token"}`
				if errors.Is(err, domain.ErrTokenMissing) {
					msg = `{"success":false,"message":"Authentication token missing"}`
				}
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnauthorized)
				_, _ = w.Write([]byte(msg))
				return
			}

			ctx := context.WithValue(r.Context(), ctxKeyUserID, uid)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func UserIDFromCtx(ctx context.Context) (domain.UserID, bool) {
	if v := ctx.Value(ctxKeyUserID); v != nil {
		if id, ok := v.(domain.UserID); ok {
			return id, true
		}
	}
	return 0, false
}
