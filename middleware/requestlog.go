package middleware

import (
	"encoding/json"
	"time"

	"clinic-booking/logger"
	"clinic-booking/types"

	"github.com/gofiber/fiber/v2"
)

// RequestLogger queues a log row per API request through the async logger.
// Response bodies are truncated so the logs table stays readable.
func RequestLogger(asyncLogger *logger.AsyncLogger) fiber.Handler {
	const maxBody = 4096

	return func(c *fiber.Ctx) error {
		err := c.Next()

		reqHeaders, _ := json.Marshal(c.GetReqHeaders())
		respHeaders, _ := json.Marshal(c.GetRespHeaders())

		body := string(c.Body())
		if len(body) > maxBody {
			body = body[:maxBody]
		}
		respBody := string(c.Response().Body())
		if len(respBody) > maxBody {
			respBody = respBody[:maxBody]
		}

		entry := types.LogEntry{
			Method:          c.Method(),
			URL:             c.OriginalURL(),
			RequestBody:     body,
			RequestHeaders:  string(reqHeaders),
			ResponseBody:    respBody,
			ResponseHeaders: string(respHeaders),
			StatusCode:      c.Response().StatusCode(),
			CreatedAt:       time.Now(),
		}
		if id := CurrentUserID(c); id != 0 {
			entry.UsuarioID = &id
		}
		asyncLogger.Log(entry)

		return err
	}
}
