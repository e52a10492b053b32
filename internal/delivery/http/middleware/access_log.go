package middleware

import (
	"log"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

const CtxRequestIDKey = "request_id"

type AccessLogMiddleware struct {
	logger *log.Logger
	skip   map[string]struct{}
}

// NewAccessLogMiddleware logs one line per request except for skipped
// paths. Query strings are never logged; the board socket carries its
// token there.
func NewAccessLogMiddleware(logger *log.Logger, skipPaths ...string) *AccessLogMiddleware {
	if logger == nil {
		logger = log.Default()
	}
	skip := make(map[string]struct{}, len(skipPaths))
	for _, p := range skipPaths {
		skip[p] = struct{}{}
	}
	return &AccessLogMiddleware{logger: logger, skip: skip}
}

func (m *AccessLogMiddleware) Middleware() fiber.Handler {
	return func(c fiber.Ctx) error {
		start := time.Now()

		rid := c.Get(fiber.HeaderXRequestID)
		if rid == "" {
			rid = uuid.NewString()
		}
		c.Set(fiber.HeaderXRequestID, rid)
		c.Locals(CtxRequestIDKey, rid)

		err := c.Next()

		if _, ok := m.skip[c.Path()]; ok {
			return err
		}

		actor, _ := c.Locals(CtxUsernameKey).(string)
		if actor == "" {
			actor = "-"
		}
		role, _ := c.Locals(CtxRoleKey).(string)
		if role == "" {
			role = "-"
		}

		m.logger.Printf(
			"[HTTP] access rid=%s ip=%s method=%s path=%s status=%d latency=%s actor=%s role=%s req_bytes=%d resp_bytes=%d ua=%q",
			rid, c.IP(), c.Method(), c.Path(), c.Response().StatusCode(), time.Since(start).Round(time.Microsecond),
			actor, role, c.Request().Header.ContentLength(), len(c.Response().Body()), c.Get(fiber.HeaderUserAgent),
		)
		return err
	}
}

// RequestID returns the id assigned by the access log middleware.
func RequestID(c fiber.Ctx) string {
	rid, _ := c.Locals(CtxRequestIDKey).(string)
	return rid
}
