package shared

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/knadh/koanf/v2"
	"github.com/rs/zerolog"
)

type SlackPayload struct {
	Channel   string `json:"channel"`
	Username  string `json:"username"`
	Text      string `json:"text"`
	IconEmoji string `json:"icon_emoji,omitempty"`
}

type Slack struct {
	client     HTTPClient
	webhookURL string
	channel    string
	username   string
	logger     zerolog.Logger
}

func NewSlack(cfg *koanf.Koanf, logger zerolog.Logger) *Slack {
	return &Slack{
		client:     http.DefaultClient,
		webhookURL: cfg.String("slack.webhook-url"),
		channel:    cfg.String("slack.channel"),
		username:   cfg.String("slack.username"),
		logger:     logger,
	}
}

// WithClient swaps the HTTP client, used by tests.
func (s *Slack) WithClient(client HTTPClient) *Slack {
	s.client = client
	return s
}

// SendSlackAlert posts message to the webhook. Without a webhook it only logs.
func (s *Slack) SendSlackAlert(ctx context.Context, message string) error {
	if s.webhookURL == "" {
		s.logger.Debug().Msg("slack.webhook-url not set, skipping alert")
		return nil
	}

	payloadBytes, err := json.Marshal(SlackPayload{
		Channel:  s.channel,
		Username: s.username,
		Text:     message,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal Slack payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.webhookURL, bytes.NewBuffer(payloadBytes))
	if err != nil {
		return fmt.Errorf("failed to create Slack request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to send Slack request")
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("slack request failed with status code: %d", resp.StatusCode)
	}

	s.logger.Info().Msg("Slack notification sent successfully")
	return nil
}
