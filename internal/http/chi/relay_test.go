package chi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/signalbridge/webhook-relay/config"
	"github.com/signalbridge/webhook-relay/relay"
	"github.com/signalbridge/webhook-relay/relay/mocks"
	"github.com/signalbridge/webhook-relay/relay/payload"
)

func testHandlers(t *testing.T, s relay.UseCase) http.Handler {
	t.Helper()
	info := ServerInfo{
		Config: &config.Config{
			Port:           "5000",
			LocalServerURL: "http://localhost:8081",
			Environment:    "local",
		},
		StartedAt: time.Now(),
	}
	return Handlers(context.Background(), s, info, zerolog.Nop(), nil)
}

func doRequest(t *testing.T, h http.Handler, method, path, contentType, body string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &decoded))
	return w, decoded
}

func TestPostWebhook(t *testing.T) {
	t.Run("success - delivered downstream", func(t *testing.T) {
		s := mocks.NewUseCase(t)
		enriched := payload.Payload{"symbol": "BTCUSDT", "relayed_by": payload.RelayTag}
		outcome := relay.Outcome{Success: true, TargetURL: "http://localhost:3000/internal-webhook"}
		s.On("Relay", mock.Anything, payload.Payload{"symbol": "BTCUSDT"}, mock.AnythingOfType("payload.Receipt")).
			Return(enriched, outcome, nil)

		w, body := doRequest(t, testHandlers(t, s), http.MethodPost, "/webhook", "application/json", `{"symbol":"BTCUSDT"}`)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, true, body["success"])
		assert.Equal(t, "Webhook received", body["message"])
		data := body["data_received"].(map[string]any)
		assert.Equal(t, "BTCUSDT", data["symbol"])
		delivery := body["local_delivery"].(map[string]any)
		assert.Equal(t, true, delivery["success"])
		assert.Nil(t, delivery["error"])
		assert.Equal(t, "http://localhost:3000/internal-webhook", delivery["target_url"])
	})

	t.Run("success - downstream failure still answers 200", func(t *testing.T) {
		s := mocks.NewUseCase(t)
		msg := "local server responded with status 503"
		outcome := relay.Outcome{Error: &msg, TargetURL: "http://localhost:3000/internal-webhook"}
		s.On("Relay", mock.Anything, mock.Anything, mock.Anything).
			Return(payload.Payload{"symbol": "BTCUSDT"}, outcome, nil)

		w, body := doRequest(t, testHandlers(t, s), http.MethodPost, "/webhook", "application/json", `{"symbol":"BTCUSDT"}`)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, true, body["success"])
		delivery := body["local_delivery"].(map[string]any)
		assert.Equal(t, false, delivery["success"])
		assert.Contains(t, delivery["error"], "503")
	})

	t.Run("success - empty body reaches the service as an empty payload", func(t *testing.T) {
		s := mocks.NewUseCase(t)
		s.On("Relay", mock.Anything, mock.MatchedBy(func(p payload.Payload) bool {
			return len(p) == 0
		}), mock.Anything).Return(payload.Payload{"message": payload.EmptyMessage}, relay.Outcome{Success: true}, nil)

		w, body := doRequest(t, testHandlers(t, s), http.MethodPost, "/webhook", "application/json", "")

		assert.Equal(t, http.StatusOK, w.Code)
		data := body["data_received"].(map[string]any)
		assert.Equal(t, payload.EmptyMessage, data["message"])
	})

	t.Run("success - receipt captures forwarded address and user agent default", func(t *testing.T) {
		s := mocks.NewUseCase(t)
		s.On("Relay", mock.Anything, mock.Anything, mock.MatchedBy(func(rcpt payload.Receipt) bool {
			return rcpt.ClientIP == "198.51.100.9" && rcpt.UserAgent == "Unknown"
		})).Return(payload.Payload{}, relay.Outcome{Success: true}, nil)

		req := httptest.NewRequest(http.MethodPost, "/webhook", strings.NewReader(`{"a":1}`))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("X-Forwarded-For", "198.51.100.9, 10.1.2.3")
		w := httptest.NewRecorder()
		testHandlers(t, s).ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("error - malformed JSON is a processing error", func(t *testing.T) {
		s := mocks.NewUseCase(t)

		w, body := doRequest(t, testHandlers(t, s), http.MethodPost, "/webhook", "application/json", `{not json}`)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Equal(t, false, body["success"])
		assert.Equal(t, "error processing webhook", body["message"])
		assert.NotEmpty(t, body["error"])
	})

	t.Run("error - service processing error yields 500", func(t *testing.T) {
		s := mocks.NewUseCase(t)
		s.On("Relay", mock.Anything, mock.Anything, mock.Anything).
			Return(nil, relay.Outcome{}, errors.New("encoding signal: boom"))

		w, body := doRequest(t, testHandlers(t, s), http.MethodPost, "/webhook", "application/json", `{"a":1}`)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Equal(t, false, body["success"])
		assert.Contains(t, body["error"], "boom")
	})
}

func TestTriggerTest(t *testing.T) {
	t.Run("success - GET echoes remote status", func(t *testing.T) {
		s := mocks.NewUseCase(t)
		s.On("SendTest", mock.Anything).Return(relay.TestReport{
			Success: true,
			Status:  200,
			Data:    relay.TestSignal{Symbol: "BTCUSDT", Test: true},
		})

		w, body := doRequest(t, testHandlers(t, s), http.MethodGet, "/test", "", "")

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, true, body["success"])
		assert.Equal(t, float64(200), body["local_response"])
		data := body["test_data"].(map[string]any)
		assert.Equal(t, "BTCUSDT", data["symbol"])
		assert.Equal(t, true, data["test"])
	})

	t.Run("success - POST failure is still HTTP 200", func(t *testing.T) {
		s := mocks.NewUseCase(t)
		s.On("SendTest", mock.Anything).Return(relay.TestReport{
			Err:  "connection refused",
			Data: relay.TestSignal{Symbol: "BTCUSDT", Test: true},
		})

		w, body := doRequest(t, testHandlers(t, s), http.MethodPost, "/test", "", "")

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, false, body["success"])
		assert.Contains(t, body["error"], "connection refused")
		assert.NotNil(t, body["test_data"])
	})
}

func TestHome(t *testing.T) {
	s := mocks.NewUseCase(t)

	w, body := doRequest(t, testHandlers(t, s), http.MethodGet, "/", "", "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Webhook relay running", body["status"])
	assert.Equal(t, "http://localhost:8081", body["local_server"])
	assert.NotZero(t, body["timestamp"])
}

func TestGetStatus(t *testing.T) {
	s := mocks.NewUseCase(t)

	w, body := doRequest(t, testHandlers(t, s), http.MethodGet, "/status", "", "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "running", body["status"])
	assert.Equal(t, "http://localhost:8081", body["local_server_url"])
	assert.Equal(t, "local", body["environment"])
	endpoints := body["endpoints"].(map[string]any)
	assert.Equal(t, "/webhook (POST)", endpoints["webhook"])
	assert.GreaterOrEqual(t, body["uptime_seconds"], float64(0))
}

func TestNotFound(t *testing.T) {
	s := mocks.NewUseCase(t)

	w, body := doRequest(t, testHandlers(t, s), http.MethodGet, "/nope", "", "")

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Endpoint not found", body["error"])
	assert.Equal(t, "Available endpoints: /, /webhook, /test, /status", body["message"])
}
