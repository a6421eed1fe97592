package mailer

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sony/gobreaker/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/wneessen/go-mail"
	"go.uber.org/zap"

	"wego/internal/config"
)

type mockTransport struct {
	mock.Mock
	sent []*mail.Msg
}

func (m *mockTransport) DialAndSendWithContext(ctx context.Context, messages ...*mail.Msg) error {
	m.sent = append(m.sent, messages...)
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *mockTransport) DialWithContext(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *mockTransport) Close() error {
	return m.Called().Error(0)
}

func newTestMailer(t transport) *SMTPMailer {
	return &SMTPMailer{
		client:   t,
		from:     "shop@example.com",
		fromName: "Wego Connect",
		breaker:  newBreaker(zap.NewNop()),
		logger:   zap.NewNop(),
	}
}

func TestNew_WithoutCredentials(t *testing.T) {
	m, err := New(config.MailConfig{Host: "smtp.example.com", Port: 587}, zap.NewNop())
	require.NoError(t, err)

	assert.False(t, m.Enabled())
	assert.ErrorIs(t, m.Send(context.Background(), Message{To: "a@example.com"}), ErrNotConfigured)
	assert.ErrorIs(t, m.Verify(context.Background()), ErrNotConfigured)
}

func TestNew_WithCredentials(t *testing.T) {
	tests := []struct {
		name    string
		timeout time.Duration
	}{
		{"unset timeout", 0},
		{"negative timeout", -time.Second},
		{"explicit timeout", 10 * time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := New(config.MailConfig{
				Host:     "smtp.example.com",
				Port:     465,
				User:     "user",
				Password: "secret",
				From:     "user@example.com",
				Timeout:  tt.timeout,
			}, zap.NewNop())
			require.NoError(t, err)
			assert.True(t, m.Enabled())
		})
	}
}

func TestDialTimeout(t *testing.T) {
	assert.Equal(t, defaultDialTimeout, dialTimeout(0))
	assert.Equal(t, defaultDialTimeout, dialTimeout(-5*time.Second))
	assert.Equal(t, 10*time.Second, dialTimeout(10*time.Second))
}

func TestSend_BuildsMultipartMessage(t *testing.T) {
	tr := &mockTransport{}
	tr.On("DialAndSendWithContext", mock.Anything).Return(nil).Once()

	m := newTestMailer(tr)
	err := m.Send(context.Background(), Message{
		To:      "jane@example.com",
		Subject: "Paid Invoice for Order ORD-1 - Wego Connect",
		Text:    "Thank you",
		HTML:    "<p>Thank you</p>",
		Attachments: []Attachment{
			{Name: "invoice-ORD-1.pdf", ContentType: "application/pdf", Data: []byte("%PDF-1.3")},
		},
	})
	require.NoError(t, err)
	tr.AssertExpectations(t)

	require.Len(t, tr.sent, 1)
	var buf bytes.Buffer
	_, err = tr.sent[0].WriteTo(&buf)
	require.NoError(t, err)

	raw := buf.String()
	assert.Contains(t, raw, "Subject: Paid Invoice for Order ORD-1 - Wego Connect")
	assert.Contains(t, raw, "<jane@example.com>")
	assert.Contains(t, raw, `"Wego Connect" <shop@example.com>`)
	assert.Contains(t, raw, "invoice-ORD-1.pdf")
	assert.Contains(t, raw, "text/html")
}

func TestSend_InvalidRecipient(t *testing.T) {
	tr := &mockTransport{}
	m := newTestMailer(tr)

	err := m.Send(context.Background(), Message{To: "not an address", Text: "x"})
	assert.Error(t, err)
	tr.AssertNotCalled(t, "DialAndSendWithContext", mock.Anything)
}

func TestSend_BreakerOpensAfterConsecutiveFailures(t *testing.T) {
	tr := &mockTransport{}
	tr.On("DialAndSendWithContext", mock.Anything).Return(errors.New("connection refused")).Times(breakerTripFailures)

	m := newTestMailer(tr)
	msg := Message{To: "jane@example.com", Subject: "hi", Text: "hi"}

	for i := 0; i < breakerTripFailures; i++ {
		assert.Error(t, m.Send(context.Background(), msg))
	}

	err := m.Send(context.Background(), msg)
	assert.ErrorIs(t, err, gobreaker.ErrOpenState)
	tr.AssertNumberOfCalls(t, "DialAndSendWithContext", breakerTripFailures)
}

func TestVerify(t *testing.T) {
	tr := &mockTransport{}
	tr.On("DialWithContext", mock.Anything).Return(nil).Once()
	tr.On("Close").Return(nil).Once()

	require.NoError(t, newTestMailer(tr).Verify(context.Background()))
	tr.AssertExpectations(t)
}
