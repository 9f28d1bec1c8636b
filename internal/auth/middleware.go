package auth

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/af-corp/draftgen/internal/httputil"
)

// Identity headers set by the upstream authentication layer.
const (
	HeaderUserID   = "X-User-ID"
	HeaderUserRole = "X-User-Role"
)

const maxCallerIDLen = 128

// MsgIdentityRequired is returned when no caller identity reached the service.
const MsgIdentityRequired = "인증이 필요합니다."

// Middleware returns a chi middleware that requires a caller identity header
// and stores it in the request context. A missing role means RoleUser.
func Middleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			reqID := w.Header().Get("X-Request-ID")

			id := strings.TrimSpace(r.Header.Get(HeaderUserID))
			if id == "" {
				httputil.WriteAuthError(w, reqID, MsgIdentityRequired)
				return
			}
			if len(id) > maxCallerIDLen {
				slog.Warn("auth failed: caller id too long", "caller_prefix", safePrefix(id))
				httputil.WriteAuthError(w, reqID, "유효하지 않은 사용자 정보입니다.")
				return
			}

			role := strings.ToLower(strings.TrimSpace(r.Header.Get(HeaderUserRole)))
			if role != RoleAdmin {
				role = RoleUser
			}

			ctx := ContextWithCaller(r.Context(), &CallerInfo{ID: id, Role: role})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// safePrefix returns a bounded prefix of an untrusted header value for logging.
func safePrefix(s string) string {
	if len(s) > 20 {
		return s[:20] + "..."
	}
	return s
}
