package notification

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"wego/internal/domain"
	"wego/internal/infrastructure/mailer"
)

type stubRenderer struct {
	err error
}

func (s stubRenderer) Render(ctx context.Context, orderID string) (*domain.Invoice, error) {
	if s.err != nil {
		return nil, s.err
	}
	settings := domain.DefaultInvoiceSettings()
	return &domain.Invoice{
		Number: settings.InvoiceNumber(orderID),
		Order: domain.Order{
			OrderID:       orderID,
			CustomerName:  "Jane <Doe>",
			CustomerEmail: "jane@example.com",
			Items:         []domain.LineItem{{ProductName: "Phone", Quantity: 2, Price: 1000}},
			Total:         2000,
			Status:        domain.OrderStatusCompleted,
		},
		Settings: settings,
		PDF:      []byte("%PDF-1.3"),
	}, nil
}

type mockMailer struct {
	mock.Mock
	mu   sync.Mutex
	sent []mailer.Message
}

func (m *mockMailer) Send(ctx context.Context, msg mailer.Message) error {
	m.mu.Lock()
	m.sent = append(m.sent, msg)
	m.mu.Unlock()
	return m.Called(msg.To).Error(0)
}

func drain(t *testing.T, n *InvoiceNotifier) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, n.Drain(ctx))
}

func TestNotifyInvoice_SendsPaidInvoice(t *testing.T) {
	m := &mockMailer{}
	m.On("Send", "jane@example.com").Return(nil).Once()

	n := NewInvoiceNotifier(stubRenderer{}, m, time.Second, zap.NewNop())
	n.NotifyInvoice(domain.Order{OrderID: "ORD-1", CustomerEmail: "jane@example.com"})
	drain(t, n)

	m.AssertExpectations(t)
	require.Len(t, m.sent, 1)

	msg := m.sent[0]
	assert.Equal(t, "Paid Invoice for Order ORD-1 - Wego Connect", msg.Subject)
	require.Len(t, msg.Attachments, 1)
	assert.Equal(t, "invoice-ORD-1.pdf", msg.Attachments[0].Name)
	assert.Equal(t, "application/pdf", msg.Attachments[0].ContentType)
	assert.Contains(t, msg.Text, "Invoice Number: INV-ORD-1")
	assert.Contains(t, msg.Text, "RWF 2,000")
	assert.Contains(t, msg.HTML, "Jane &lt;Doe&gt;")
}

func TestNotifyInvoice_RenderFailureIsSwallowed(t *testing.T) {
	m := &mockMailer{}

	n := NewInvoiceNotifier(stubRenderer{err: errors.New("order gone")}, m, time.Second, zap.NewNop())
	n.NotifyInvoice(domain.Order{OrderID: "ORD-2"})
	drain(t, n)

	m.AssertNotCalled(t, "Send", mock.Anything)
}

func TestNotifyInvoice_MailerNotConfigured(t *testing.T) {
	m := &mockMailer{}
	m.On("Send", "jane@example.com").Return(mailer.ErrNotConfigured).Once()

	n := NewInvoiceNotifier(stubRenderer{}, m, time.Second, zap.NewNop())
	n.NotifyInvoice(domain.Order{OrderID: "ORD-3"})
	drain(t, n)

	m.AssertExpectations(t)
}

func TestDrain_TimesOut(t *testing.T) {
	block := make(chan struct{})
	defer close(block)

	n := NewInvoiceNotifier(blockingRenderer{block}, &mockMailer{}, time.Minute, zap.NewNop())
	n.NotifyInvoice(domain.Order{OrderID: "ORD-4"})

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, n.Drain(ctx), context.DeadlineExceeded)
}

type blockingRenderer struct {
	block chan struct{}
}

func (b blockingRenderer) Render(ctx context.Context, orderID string) (*domain.Invoice, error) {
	<-b.block
	return nil, errors.New("released")
}

func TestInvoiceSubject_Unpaid(t *testing.T) {
	invoice := domain.Invoice{
		Order:    domain.Order{OrderID: "ORD-5", Status: domain.OrderStatusProcessing},
		Settings: domain.InvoiceSettings{CompanyName: "Kigali Gadgets"},
	}

	assert.Equal(t, "Invoice for Order ORD-5 - Kigali Gadgets", invoiceSubject(invoice))
	assert.True(t, strings.HasPrefix(invoiceText(newEmailView(invoice)), "Dear"))
}
