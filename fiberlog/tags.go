package fiberlog

import (
	"time"
	authutils "travel-order-backend/lib/utils/auth-utils"

	"github.com/gofiber/fiber/v2"
)

const (
	TagPid     = "pid"
	TagLatency = "latency"
	TagStatus  = "status"
	TagMethod  = "method"
	TagPath    = "path"
	TagIP      = "ip"
	TagUA      = "ua"
	TagBody    = "body"
	TagResBody = "resBody"
	TagUserID  = "user_id"
	TagRole    = "role"
	RequestID  = "request_id"
)

// maxBodyLog keeps uploaded files and exports out of the log.
const maxBodyLog = 2048

type data struct {
	pid   int
	start time.Time
	end   time.Time
}

// FuncTag reads one log field from the finished request.
type FuncTag func(c *fiber.Ctx, d *data) interface{}

func getFuncTagMap(cfg Config) map[string]FuncTag {
	all := map[string]FuncTag{
		TagPid: func(_ *fiber.Ctx, d *data) interface{} {
			return d.pid
		},
		TagLatency: func(_ *fiber.Ctx, d *data) interface{} {
			return d.end.Sub(d.start).String()
		},
		TagStatus: func(c *fiber.Ctx, _ *data) interface{} {
			return c.Response().StatusCode()
		},
		TagMethod: func(c *fiber.Ctx, _ *data) interface{} {
			return c.Method()
		},
		TagPath: func(c *fiber.Ctx, _ *data) interface{} {
			return c.Path()
		},
		TagIP: func(c *fiber.Ctx, _ *data) interface{} {
			return c.IP()
		},
		TagUA: func(c *fiber.Ctx, _ *data) interface{} {
			return c.Get(fiber.HeaderUserAgent)
		},
		TagBody: func(c *fiber.Ctx, _ *data) interface{} {
			if !isJSON(string(c.Request().Header.ContentType())) {
				return ""
			}
			return truncate(c.Body())
		},
		TagResBody: func(c *fiber.Ctx, _ *data) interface{} {
			if !isJSON(string(c.Response().Header.ContentType())) {
				return ""
			}
			return truncate(c.Response().Body())
		},
		TagUserID: func(c *fiber.Ctx, _ *data) interface{} {
			return authutils.GetStringClaim(authutils.GetClaims(c), "sub")
		},
		TagRole: func(c *fiber.Ctx, _ *data) interface{} {
			return authutils.GetStringClaim(authutils.GetClaims(c), "role")
		},
		RequestID: func(c *fiber.Ctx, _ *data) interface{} {
			if id, ok := c.Locals(RequestID).(string); ok {
				return id
			}
			return c.Get(fiber.HeaderXRequestID)
		},
	}
	result := make(map[string]FuncTag, len(cfg.Tags))
	for _, tag := range cfg.Tags {
		if ft, ok := all[tag]; ok {
			result[tag] = ft
		}
	}
	return result
}

func isJSON(contentType string) bool {
	return len(contentType) >= 16 && contentType[:16] == fiber.MIMEApplicationJSON
}

func truncate(body []byte) string {
	if len(body) > maxBodyLog {
		return string(body[:maxBodyLog]) + "..."
	}
	return string(body)
}
