package ratelimit

import (
	"fmt"
	"log/slog"
	"math"
	"net/http"
	"strconv"

	"github.com/af-corp/draftgen/internal/auth"
	"github.com/af-corp/draftgen/internal/config"
	"github.com/af-corp/draftgen/internal/httputil"
	"github.com/af-corp/draftgen/internal/telemetry"
)

const (
	headerRateLimitLimit     = "X-RateLimit-Limit"
	headerRateLimitRemaining = "X-RateLimit-Remaining"
	headerRateLimitReset     = "X-RateLimit-Reset"
)

// Middleware returns chi middleware that enforces the per-caller generation
// limit. Admins get their own, larger limit.
func Middleware(limiter *Limiter, cfg func() config.RateLimitConfig, metrics *telemetry.Metrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			reqID := w.Header().Get("X-Request-ID")
			rl := cfg()

			caller, ok := auth.CallerFromContext(r.Context())
			if !ok || !rl.Enabled {
				// No caller: the auth middleware rejects the request.
				next.ServeHTTP(w, r)
				return
			}

			limit := rl.UserLimit
			if caller.IsAdmin() {
				limit = rl.AdminLimit
			}

			result, _ := limiter.Check(r.Context(), "gen:"+caller.ID, limit, rl.Window)

			// Always set rate limit headers
			w.Header().Set(headerRateLimitLimit, strconv.FormatInt(limit, 10))
			w.Header().Set(headerRateLimitRemaining, strconv.FormatInt(result.Remaining, 10))
			w.Header().Set(headerRateLimitReset, strconv.FormatInt(result.ResetAt.Unix(), 10))

			if !result.Allowed {
				slog.Warn("rate limit exceeded",
					"request_id", reqID,
					"caller_id", caller.ID,
					"role", caller.Role,
					"limit", limit,
					"window", rl.Window.String(),
				)
				if metrics != nil {
					metrics.RecordRateLimitHit(caller.Role)
				}
				httputil.SetRetryAfter(w, result.RetryAfter)
				httputil.WriteRateLimitError(w, reqID, fmt.Sprintf(
					"요청 한도를 초과했습니다. %d분 동안 최대 %d회까지 요청할 수 있습니다. %d초 후 다시 시도해주세요.",
					int(rl.Window.Minutes()), limit, int(math.Ceil(result.RetryAfter.Seconds())),
				))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
