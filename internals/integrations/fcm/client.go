package fcm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"eventhub_backend/internals/features/notifications/notification/service"
)

const defaultEndpoint = "https://fcm.googleapis.com/fcm/send"

// Client pushes multicast messages through the FCM legacy HTTP API.
type Client struct {
	endpoint  string
	serverKey string
	http      *http.Client
}

func NewClient(endpoint, serverKey string) *Client {
	if endpoint == "" {
		endpoint = defaultEndpoint
	}
	return &Client{
		endpoint:  endpoint,
		serverKey: serverKey,
		http:      &http.Client{Timeout: 10 * time.Second},
	}
}

type fcmRequest struct {
	RegistrationIDs []string          `json:"registration_ids"`
	Notification    fcmNotification   `json:"notification"`
	Data            map[string]string `json:"data,omitempty"`
}

type fcmNotification struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

type fcmResponse struct {
	Results []struct {
		MessageID string `json:"message_id"`
		Error     string `json:"error"`
	} `json:"results"`
}

// SendMulticast delivers one message to every token and reports per-token
// outcomes. Tokens FCM rejects as NotRegistered or InvalidRegistration are
// flagged as unregistered so callers can prune them.
func (cl *Client) SendMulticast(ctx context.Context, msg service.PushMessage, tokens []string) ([]service.PushResult, error) {
	if len(tokens) == 0 {
		return nil, nil
	}

	payload, err := json.Marshal(fcmRequest{
		RegistrationIDs: tokens,
		Notification:    fcmNotification{Title: msg.Title, Body: msg.Body},
		Data:            msg.Data,
	})
	if err != nil {
		return nil, fmt.Errorf("fcm: encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, cl.endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("fcm: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "key="+cl.serverKey)

	resp, err := cl.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fcm: send: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fcm: unexpected status %d", resp.StatusCode)
	}

	var body fcmResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("fcm: decode response: %w", err)
	}

	results := make([]service.PushResult, 0, len(tokens))
	for i, token := range tokens {
		result := service.PushResult{Token: token}
		if i < len(body.Results) {
			switch body.Results[i].Error {
			case "":
			case "NotRegistered", "InvalidRegistration":
				result.Unregistered = true
			default:
				result.Err = fmt.Errorf("fcm: %s", body.Results[i].Error)
			}
		}
		results = append(results, result)
	}
	return results, nil
}
