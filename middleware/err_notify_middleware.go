package middleware

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
	"travel-order-backend/fiberlog"

	"github.com/gofiber/fiber/v2"
	log "github.com/sirupsen/logrus"
)

// ErrNotify posts a short report of every 5xx response to addr.
func ErrNotify(addr string) fiber.Handler {
	client := &http.Client{Timeout: 5 * time.Second}
	return func(c *fiber.Ctx) error {
		err := c.Next()
		statusCode := c.Response().StatusCode()
		if statusCode < http.StatusInternalServerError {
			return err
		}

		var data struct {
			Message string `json:"message"`
		}
		body := c.Response().Body()
		if unmErr := json.Unmarshal(body, &data); unmErr != nil {
			log.WithError(unmErr).Warn("error unmarshalling response body in middleware")
		}
		msg := data.Message
		if msg == "" {
			msg = string(body)
		}
		if err != nil {
			msg = err.Error()
		}

		method := strings.Clone(c.Method())
		path := strings.Clone(c.OriginalURL())
		if r := c.Route(); r != nil {
			path = r.Path
		}
		requestID := fiberlog.GetRequestID(c)
		userID := GetUserID(c)

		go func() {
			payload := fmt.Sprintf(
				`{"code":%d,"method":%q,"path":%q,"request_id":%q,"user_id":%q,"error":%q}`,
				statusCode, method, path, requestID, userID, msg)
			resp, reqErr := client.Post(addr, fiber.MIMEApplicationJSON, strings.NewReader(payload))
			if reqErr != nil {
				log.WithError(reqErr).Warn("error sending error notification")
				return
			}
			resp.Body.Close()
		}()

		return err
	}
}
