package controller

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type nopLogger struct{}

func (nopLogger) Debug(string, string, map[string]interface{}) {}
func (nopLogger) Info(string, string, map[string]interface{})  {}
func (nopLogger) Warn(string, string, map[string]interface{})  {}
func (nopLogger) Error(string, string, map[string]interface{}) {}
func (nopLogger) Sync() error                                  { return nil }

type fakePublisher struct {
	published [][]byte
	err       error
}

func (f *fakePublisher) Publish(_ context.Context, payload []byte, _ string) error {
	if f.err != nil {
		return f.err
	}
	f.published = append(f.published, payload)
	return nil
}

func newTestApp(pub *fakePublisher) *fiber.App {
	app := fiber.New()
	NewWebhookController(pub, nopLogger{}).RegisterRoutes(app)
	return app
}

func post(t *testing.T, app *fiber.App, body string) (*http.Response, string) {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/webhook", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	payload, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, string(payload)
}

func TestWebhookPublishesValidUpdate(t *testing.T) {
	pub := &fakePublisher{}
	app := newTestApp(pub)

	body := `{"update_id":42,"message":{"message_id":1,"from":{"id":7},"chat":{"id":1001},"text":"hi"}}`
	resp, got := post(t, app, body)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "OK", got)
	require.Len(t, pub.published, 1)
	assert.JSONEq(t, body, string(pub.published[0]))
}

func TestWebhookAcknowledgesGarbage(t *testing.T) {
	pub := &fakePublisher{}
	app := newTestApp(pub)

	resp, got := post(t, app, "{definitely not json")

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "OK", got)
	assert.Empty(t, pub.published, "undecodable payloads never reach the bus")
}

func TestWebhookAcknowledgesPublishFailure(t *testing.T) {
	pub := &fakePublisher{err: errors.New("bus is down")}
	app := newTestApp(pub)

	resp, got := post(t, app, `{"update_id":42}`)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "OK", got)
}

func TestHealthEndpoint(t *testing.T) {
	app := newTestApp(&fakePublisher{})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/health", nil))
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "OK", string(body))
}
