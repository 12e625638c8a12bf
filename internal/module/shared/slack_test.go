package shared_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/blockchain/coin-definitions/internal/module/shared"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSendSlackAlert(t *testing.T) {
	var received shared.SlackPayload
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&received))
	}))
	defer server.Close()

	slack := shared.NewSlack(shared.SetupCfgWith(map[string]interface{}{"slack.webhook-url": server.URL}), zerolog.New(nil))
	require.NoError(t, slack.SendSlackAlert(context.Background(), "duplicates found"))

	assert.Equal(t, "duplicates found", received.Text)
	assert.Equal(t, "#coin-definitions", received.Channel)
	assert.Equal(t, "coin-definitions-bot", received.Username)
}

func TestSendSlackAlertFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()

	slack := shared.NewSlack(shared.SetupCfgWith(map[string]interface{}{"slack.webhook-url": server.URL}), zerolog.New(nil))
	assert.Error(t, slack.SendSlackAlert(context.Background(), "x"))
}

func TestSendSlackAlertWithoutWebhook(t *testing.T) {
	slack := shared.NewSlack(shared.SetupCfg(), zerolog.New(nil)).WithClient(nil)
	assert.NoError(t, slack.SendSlackAlert(context.Background(), "x"))
}
