package dto

type NotificationType string

const (
	TypeInvite         NotificationType = "INVITE"
	TypeEventCancelled NotificationType = "EVENT_CANCELLED"
	TypeEventReminder  NotificationType = "EVENT_REMINDER"
)

type NotificationTarget string

const (
	TargetInvite NotificationTarget = "INVITE"
	TargetEvent  NotificationTarget = "EVENT"
)

// CreateNotification is the engine-facing shape of an outbound
// notification: typed, optionally tied to a target row (so it can be
// cleaned up when the target resolves), with a free-form payload that is
// stored as JSONB and pushed as data fields.
type CreateNotification struct {
	Type       NotificationType       `json:"type"`
	SenderID   *uint                  `json:"sender_id,omitempty"`
	TargetID   *uint                  `json:"target_id,omitempty"`
	TargetType *NotificationTarget    `json:"target_type,omitempty"`
	Data       map[string]interface{} `json:"data"`
}

// Title and Body read the display fields out of the payload.
func (n CreateNotification) Title() string { return stringField(n.Data, "title") }
func (n CreateNotification) Body() string  { return stringField(n.Data, "body") }

func stringField(data map[string]interface{}, key string) string {
	if v, ok := data[key].(string); ok {
		return v
	}
	return ""
}

/* =========================================================
 * REQUESTS
 * ========================================================= */

type RegisterTokenRequest struct {
	Token string `json:"token" validate:"required,min=1"`
}
