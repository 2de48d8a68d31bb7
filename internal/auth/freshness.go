package auth

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"

	apperrors "github.com/spec-kit/trend-blog/pkg/util"
)

// FreshnessGuard rejects requests whose client-supplied timestamp falls
// outside the accepted window. Best-effort replay mitigation only; there is
// no nonce store.
type FreshnessGuard struct {
	window time.Duration
	now    func() time.Time
}

// NewFreshnessGuard builds a guard with the given window.
func NewFreshnessGuard(window time.Duration) *FreshnessGuard {
	if window <= 0 {
		window = 5 * time.Minute
	}
	return &FreshnessGuard{window: window, now: time.Now}
}

// Check accepts a client timestamp in epoch milliseconds iff
// 0 <= now-ts <= window. Timestamps ahead of server time are rejected the
// same way as stale ones.
func (g *FreshnessGuard) Check(timestampMS int64) error {
	if timestampMS <= 0 {
		return apperrors.NewValidationError("요청 시간이 유효하지 않습니다.")
	}
	delta := g.now().UnixMilli() - timestampMS
	if delta < 0 || delta > g.window.Milliseconds() {
		return apperrors.NewValidationError("요청 시간이 유효하지 않습니다.")
	}
	return nil
}

// Middleware enforces the window on timestamp-carrying routes. It runs ahead
// of token verification, so a stale request is rejected with 400 before any
// credential or store work happens.
func (g *FreshnessGuard) Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := g.Check(TimestampFromRequest(c)); err != nil {
			return err
		}
		return c.Next()
	}
}

// TimestampFromRequest extracts the client timestamp from the query string
// or, for requests with a body, from the JSON payload.
func TimestampFromRequest(c *fiber.Ctx) int64 {
	if ts, err := strconv.ParseInt(c.Query("timestamp"), 10, 64); err == nil && ts != 0 {
		return ts
	}
	if c.Method() == fiber.MethodGet {
		return 0
	}
	var probe struct {
		Timestamp int64 `json:"timestamp"`
	}
	if err := c.BodyParser(&probe); err != nil {
		return 0
	}
	return probe.Timestamp
}
