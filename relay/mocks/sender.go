package mocks

import (
	"context"
	"testing"

	"github.com/stretchr/testify/mock"
)

// Sender is a testify mock for the relay.Sender interface.
type Sender struct {
	mock.Mock
}

// NewSender creates a Sender mock that asserts its expectations when
// the test finishes.
func NewSender(t *testing.T) *Sender {
	m := &Sender{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *Sender) Post(ctx context.Context, url string, body []byte) (int, error) {
	args := m.Called(ctx, url, body)
	return args.Int(0), args.Error(1)
}
