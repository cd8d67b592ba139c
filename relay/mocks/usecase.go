package mocks

import (
	"context"
	"testing"

	"github.com/stretchr/testify/mock"

	"github.com/signalbridge/webhook-relay/relay"
	"github.com/signalbridge/webhook-relay/relay/payload"
)

// UseCase is a testify mock for the relay.UseCase interface.
type UseCase struct {
	mock.Mock
}

// NewUseCase creates a UseCase mock that asserts its expectations
// when the test finishes.
func NewUseCase(t *testing.T) *UseCase {
	m := &UseCase{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *UseCase) Relay(ctx context.Context, p payload.Payload, rcpt payload.Receipt) (payload.Payload, relay.Outcome, error) {
	args := m.Called(ctx, p, rcpt)
	var enriched payload.Payload
	if args.Get(0) != nil {
		enriched = args.Get(0).(payload.Payload)
	}
	return enriched, args.Get(1).(relay.Outcome), args.Error(2)
}

func (m *UseCase) SendTest(ctx context.Context) relay.TestReport {
	args := m.Called(ctx)
	return args.Get(0).(relay.TestReport)
}
