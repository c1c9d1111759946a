package logger

import (
	"github.com/gofiber/fiber/v3"
	"github.com/sirupsen/logrus"
)

// LogAction ghi một hành động audit (publish, delete video, login, ...)
func LogAction(action, resourceType, resourceID string, c fiber.Ctx, details map[string]interface{}) {
	fields := logrus.Fields{
		"action":        action,
		"resource_type": resourceType,
		"resource_id":   resourceID,
		"ip":            c.IP(),
		"user_agent":    c.Get("User-Agent"),
	}
	if userID, ok := c.Locals("user_id").(string); ok {
		fields["user_id"] = userID
	}
	if requestID := RequestID(c); requestID != "" {
		fields["request_id"] = requestID
	}
	if len(details) > 0 {
		fields["details"] = details
	}

	GetAuditLogger().WithFields(fields).Info("Audit log")
}

// LogAuth log các thao tác authentication
func LogAuth(action, userID string, c fiber.Ctx) {
	LogAction("auth_"+action, "user", userID, c, nil)
}
