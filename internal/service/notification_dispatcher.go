package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog"
)

// Notification is one outbound message for the delivery pipeline (email
// rendering and transport live behind it and are out of scope here).
type Notification struct {
	Recipient    string                 `json:"recipient"`
	TemplateType string                 `json:"template_type"`
	Payload      map[string]interface{} `json:"payload"`
}

// NotificationDispatcher relays notifications. A failed dispatch must never
// fail the evaluation that produced it; callers log and move on.
type NotificationDispatcher interface {
	Dispatch(ctx context.Context, notification Notification) error
}

// natsNotificationDispatcher publishes notifications to a NATS subject.
type natsNotificationDispatcher struct {
	conn      *nats.Conn
	subject   string
	sanitizer *bluemonday.Policy
	logger    zerolog.Logger
}

// NewNATSNotificationDispatcher builds a dispatcher publishing to the given subject.
func NewNATSNotificationDispatcher(conn *nats.Conn, subject string, logger zerolog.Logger) NotificationDispatcher {
	if subject == "" {
		subject = "sahayak.notifications"
	}

	return &natsNotificationDispatcher{
		conn:      conn,
		subject:   subject,
		sanitizer: bluemonday.StrictPolicy(),
		logger:    logger.With().Str("component", "notification_dispatcher").Logger(),
	}
}

func (d *natsNotificationDispatcher) Dispatch(ctx context.Context, notification Notification) error {
	if d.conn == nil {
		return fmt.Errorf("nats connection unavailable")
	}
	if strings.TrimSpace(notification.Recipient) == "" {
		return fmt.Errorf("notification recipient is required")
	}

	notification.Payload = d.sanitizePayload(notification.Payload)

	body, err := json.Marshal(notification)
	if err != nil {
		return fmt.Errorf("marshal notification: %w", err)
	}

	if err := d.conn.Publish(d.subject, body); err != nil {
		return fmt.Errorf("publish notification: %w", err)
	}

	d.logger.Debug().Str("recipient", notification.Recipient).
		Str("template_type", notification.TemplateType).
		Msg("notification dispatched")
	return nil
}

// sanitizePayload strips markup from string values before they reach the
// email templates. Feedback text originates from model output and cannot be
// trusted as-is.
func (d *natsNotificationDispatcher) sanitizePayload(payload map[string]interface{}) map[string]interface{} {
	cleaned := make(map[string]interface{}, len(payload))
	for key, value := range payload {
		switch typed := value.(type) {
		case string:
			cleaned[key] = d.sanitizer.Sanitize(typed)
		case []map[string]interface{}:
			items := make([]map[string]interface{}, 0, len(typed))
			for _, item := range typed {
				items = append(items, d.sanitizePayload(item))
			}
			cleaned[key] = items
		default:
			cleaned[key] = value
		}
	}
	return cleaned
}
