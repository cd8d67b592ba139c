package relay

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/signalbridge/webhook-relay/relay/payload"
)

/* Service represents the business logic layer
 * Uses pointer semantics as it's an API, not data
 */

// UseCase defines the relay operations exposed to the HTTP layer.
type UseCase interface {
	Relay(ctx context.Context, p payload.Payload, rcpt payload.Receipt) (payload.Payload, Outcome, error)
	SendTest(ctx context.Context) TestReport
}

type Service struct {
	LocalServerURL string
	Sender         Sender
	Recorder       Recorder
	Logger         zerolog.Logger
}

// NewService creates a new relay service with dependency injection
func NewService(localServerURL string, sender Sender, recorder Recorder, logger zerolog.Logger) *Service {
	return &Service{
		LocalServerURL: localServerURL,
		Sender:         sender,
		Recorder:       recorder,
		Logger:         logger,
	}
}

/* internalTarget derives the delivery endpoint from the configured
 * base URL. The :8081 to :3000 rewrite is a literal substring
 * substitution; when the base URL does not contain :8081 it silently
 * no-ops and the base URL is used as-is. Downstream deployments
 * depend on this exact fallback, so it must not become structured
 * URL manipulation.
 */
func (s *Service) internalTarget() string {
	return strings.Replace(s.LocalServerURL, ":8081", ":3000", 1) + "/internal-webhook"
}

/* Relay enriches an inbound payload and attempts one delivery to the
 * internal endpoint. The delivery outcome is always returned in-band;
 * a non-nil error is reserved for processing failures that happen
 * before or independent of the delivery attempt.
 */
func (s *Service) Relay(ctx context.Context, p payload.Payload, rcpt payload.Receipt) (payload.Payload, Outcome, error) {
	deliveryID := uuid.New().String()
	s.Recorder.SignalReceived(ctx)
	s.Logger.Info().
		Str("delivery_id", deliveryID).
		Str("client_ip", rcpt.ClientIP).
		Str("user_agent", rcpt.UserAgent).
		Msg("webhook received")

	enriched := payload.Enrich(p, rcpt)
	body, err := payload.NewSignal(enriched, rcpt.At).Bytes()
	if err != nil {
		return nil, Outcome{}, fmt.Errorf("encoding signal: %w", err)
	}

	target := s.internalTarget()
	outcome := Outcome{TargetURL: target}

	start := time.Now()
	status, err := s.Sender.Post(ctx, target, body)
	elapsed := time.Since(start)

	switch {
	case err != nil:
		msg := fmt.Sprintf("connecting to local server: %v", err)
		outcome.Error = &msg
		s.Logger.Error().
			Str("delivery_id", deliveryID).
			Str("target_url", target).
			Err(err).
			Msg("local delivery failed")
	case status != http.StatusOK:
		msg := fmt.Sprintf("local server responded with status %d", status)
		outcome.Error = &msg
		s.Logger.Warn().
			Str("delivery_id", deliveryID).
			Str("target_url", target).
			Int("status", status).
			Msg("local delivery rejected")
	default:
		outcome.Success = true
		s.Logger.Info().
			Str("delivery_id", deliveryID).
			Str("target_url", target).
			Msg("local delivery succeeded")
	}

	s.Recorder.DeliveryCompleted(ctx, outcome.Success, elapsed)
	return enriched, outcome, nil
}

// SendTest posts the fixed synthetic payload to the configured base
// URL's /webhook endpoint, with no port rewriting.
func (s *Service) SendTest(ctx context.Context) TestReport {
	signal := TestSignal{
		Symbol:    "BTCUSDT",
		Action:    "buy",
		Price:     45000,
		Strategy:  "test_strategy",
		Timestamp: time.Now().UnixMilli(),
		Test:      true,
		Source:    "heroku_test",
	}
	report := TestReport{Data: signal}

	body, err := signal.encode()
	if err != nil {
		report.Err = err.Error()
		return report
	}

	status, err := s.Sender.Post(ctx, s.LocalServerURL+"/webhook", body)
	if err != nil {
		report.Err = err.Error()
		s.Logger.Error().Err(err).Msg("test delivery failed")
		return report
	}

	report.Success = true
	report.Status = status
	s.Logger.Info().Int("status", status).Msg("test delivery sent")
	return report
}
