package chi

import (
	"encoding/json"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/httplog"

	"github.com/signalbridge/webhook-relay/relay"
	"github.com/signalbridge/webhook-relay/relay/payload"
)

/* HTTP layer DTOs for the relay API
 * Separate from domain entities to avoid leaking internal structure
 */

// webhookResponse is the caller-facing envelope for a relayed webhook
type webhookResponse struct {
	Success       bool            `json:"success"`
	Message       string          `json:"message"`
	Timestamp     int64           `json:"timestamp"`
	DataReceived  payload.Payload `json:"data_received"`
	LocalDelivery relay.Outcome   `json:"local_delivery"`
}

// errorResponse is returned on internal processing errors
type errorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Message string `json:"message"`
}

// testResponse echoes the synthetic payload and the downstream result
type testResponse struct {
	Success       bool             `json:"success"`
	Message       string           `json:"message"`
	TestData      relay.TestSignal `json:"test_data"`
	LocalResponse int              `json:"local_response,omitempty"`
	Error         string           `json:"error,omitempty"`
}

type homeResponse struct {
	Status      string `json:"status"`
	Timestamp   int64  `json:"timestamp"`
	LocalServer string `json:"local_server"`
	Message     string `json:"message"`
}

type statusResponse struct {
	Server         string            `json:"server"`
	Status         string            `json:"status"`
	LocalServerURL string            `json:"local_server_url"`
	Endpoints      map[string]string `json:"endpoints"`
	UptimeSeconds  float64           `json:"uptime_seconds"`
	Timestamp      int64             `json:"timestamp"`
	Environment    string            `json:"environment"`
}

type notFoundResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

/* postWebhook handles POST /webhook.
 * Downstream failures are reported in-band with HTTP 200; only a
 * processing error before the delivery attempt yields HTTP 500.
 */
func postWebhook(relayService relay.UseCase) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		oplog := httplog.LogEntry(r.Context())
		rcpt := payload.Receipt{
			ClientIP:  clientIP(r),
			UserAgent: userAgent(r),
			At:        time.Now(),
		}

		body, err := io.ReadAll(r.Body)
		if err != nil {
			oplog.Error().Err(err).Msg("error reading webhook body")
			respondJSON(w, http.StatusInternalServerError, errorResponse{
				Error:   err.Error(),
				Message: "error processing webhook",
			})
			return
		}
		defer r.Body.Close()

		p, err := payload.Parse(r.Header.Get("Content-Type"), body)
		if err != nil {
			oplog.Error().Err(err).Msg("error processing webhook")
			respondJSON(w, http.StatusInternalServerError, errorResponse{
				Error:   err.Error(),
				Message: "error processing webhook",
			})
			return
		}

		enriched, outcome, err := relayService.Relay(r.Context(), p, rcpt)
		if err != nil {
			oplog.Error().Err(err).Msg("error processing webhook")
			respondJSON(w, http.StatusInternalServerError, errorResponse{
				Error:   err.Error(),
				Message: "error processing webhook",
			})
			return
		}

		respondJSON(w, http.StatusOK, webhookResponse{
			Success:       true,
			Message:       "Webhook received",
			Timestamp:     time.Now().UnixMilli(),
			DataReceived:  enriched,
			LocalDelivery: outcome,
		})
	})
}

// triggerTest handles GET/POST /test. Both outcomes are HTTP 200;
// failure is reported in the body.
func triggerTest(relayService relay.UseCase) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		report := relayService.SendTest(r.Context())
		if !report.Success {
			respondJSON(w, http.StatusOK, testResponse{
				Message:  "Test webhook failed",
				TestData: report.Data,
				Error:    report.Err,
			})
			return
		}
		respondJSON(w, http.StatusOK, testResponse{
			Success:       true,
			Message:       "Test webhook sent",
			TestData:      report.Data,
			LocalResponse: report.Status,
		})
	})
}

// home handles GET /
func home(info ServerInfo) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, homeResponse{
			Status:      "Webhook relay running",
			Timestamp:   time.Now().UnixMilli(),
			LocalServer: info.Config.LocalServerURL,
			Message:     "Ready to receive signal webhooks",
		})
	})
}

// getStatus handles GET /status
func getStatus(info ServerInfo) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, statusResponse{
			Server:         "Webhook Signal Relay",
			Status:         "running",
			LocalServerURL: info.Config.LocalServerURL,
			Endpoints: map[string]string{
				"webhook": "/webhook (POST)",
				"test":    "/test (POST/GET)",
				"status":  "/status (GET)",
			},
			UptimeSeconds: time.Since(info.StartedAt).Seconds(),
			Timestamp:     time.Now().UnixMilli(),
			Environment:   info.Config.Environment,
		})
	})
}

func notFound(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusNotFound, notFoundResponse{
		Error:   "Endpoint not found",
		Message: "Available endpoints: /, /webhook, /test, /status",
	})
}

func respondJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// clientIP prefers the first X-Forwarded-For hop, falling back to the
// raw connection address.
func clientIP(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		return strings.TrimSpace(strings.Split(forwarded, ",")[0])
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func userAgent(r *http.Request) string {
	if ua := r.Header.Get("User-Agent"); ua != "" {
		return ua
	}
	return "Unknown"
}
