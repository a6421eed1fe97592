package usecase

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"wego/internal/domain"
	apperrors "wego/internal/errors"
	"wego/internal/infrastructure/mailer"
)

type SubscriberDirectory interface {
	FindActive(ctx context.Context, emails []string) ([]domain.Subscriber, error)
	RecordDelivery(ctx context.Context, id primitive.ObjectID, at time.Time) error
}

type NewsletterStore interface {
	Insert(ctx context.Context, n domain.Newsletter) (*domain.Newsletter, error)
	Finish(ctx context.Context, n domain.Newsletter) error
	History(ctx context.Context) ([]domain.Newsletter, error)
}

type ProductResolver interface {
	ResolveProducts(ctx context.Context, ids []int) ([]domain.Product, []int, error)
}

type SettingsReader interface {
	Get(ctx context.Context) (*domain.InvoiceSettings, error)
}

type Mailer interface {
	Send(ctx context.Context, msg mailer.Message) error
}

// BroadcastUseCase persists a newsletter and mails it to the recipients in
// the background.
type BroadcastUseCase struct {
	subscribers SubscriberDirectory
	newsletters NewsletterStore
	products    ProductResolver
	settings    SettingsReader
	mailer      Mailer
	websiteURL  string
	sendTimeout time.Duration
	logger      *zap.Logger
	now         func() time.Time
	wg          sync.WaitGroup
}

func NewBroadcastUseCase(
	subscribers SubscriberDirectory,
	newsletters NewsletterStore,
	products ProductResolver,
	settings SettingsReader,
	m Mailer,
	websiteURL string,
	sendTimeout time.Duration,
	logger *zap.Logger,
) *BroadcastUseCase {
	return &BroadcastUseCase{
		subscribers: subscribers,
		newsletters: newsletters,
		products:    products,
		settings:    settings,
		mailer:      m,
		websiteURL:  websiteURL,
		sendTimeout: sendTimeout,
		logger:      logger,
		now:         time.Now,
	}
}

// Send validates the request, stores a newsletter in status sending and
// returns it with the recipient count. Delivery continues after return.
func (uc *BroadcastUseCase) Send(ctx context.Context, b domain.Broadcast) (*domain.Newsletter, error) {
	// Bloque 1: validar
	if err := validateBroadcast(b); err != nil {
		return nil, err
	}

	// Bloque 2: destinatarios
	var emails []string
	if !b.SendToAll {
		emails = make([]string, 0, len(b.CustomEmails))
		for _, e := range b.CustomEmails {
			if e = domain.NormalizeEmail(e); e != "" {
				emails = append(emails, e)
			}
		}
	}

	recipients, err := uc.subscribers.FindActive(ctx, emails)
	if err != nil {
		return nil, err
	}
	if len(recipients) == 0 {
		return nil, apperrors.NewValidationError("No active subscribers found")
	}

	// Bloque 3: productos activos, con tope
	products, err := uc.loadProducts(ctx, b.ProductIDs)
	if err != nil {
		return nil, err
	}

	settings, err := uc.settings.Get(ctx)
	if err != nil {
		return nil, err
	}

	// Bloque 4: persistir y lanzar el envío
	productIDs := make([]int, len(products))
	for i, p := range products {
		productIDs[i] = p.ID
	}

	newsletter, err := uc.newsletters.Insert(ctx, domain.Newsletter{
		Subject:    b.Subject,
		Content:    b.Content,
		ProductIDs: productIDs,
		Recipients: len(recipients),
		Status:     domain.NewsletterStatusSending,
	})
	if err != nil {
		return nil, err
	}

	uc.logger.Info("newsletter queued",
		zap.String("newsletterId", newsletter.ID.Hex()),
		zap.Int("recipients", len(recipients)),
		zap.Int("products", len(products)),
	)

	c := campaign{
		newsletter: *newsletter,
		recipients: recipients,
		products:   products,
		settings:   *settings,
	}

	uc.wg.Add(1)
	go func() {
		defer uc.wg.Done()
		uc.deliver(c)
	}()

	return newsletter, nil
}

func (uc *BroadcastUseCase) History(ctx context.Context) ([]domain.Newsletter, error) {
	return uc.newsletters.History(ctx)
}

// Drain waits for running broadcasts or until ctx is done.
func (uc *BroadcastUseCase) Drain(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		uc.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("draining newsletter broadcasts: %w", ctx.Err())
	}
}

func (uc *BroadcastUseCase) loadProducts(ctx context.Context, ids []int) ([]domain.Product, error) {
	if len(ids) == 0 {
		return []domain.Product{}, nil
	}

	found, missing, err := uc.products.ResolveProducts(ctx, ids)
	if err != nil {
		return nil, err
	}
	if len(missing) > 0 {
		uc.logger.Warn("newsletter references unknown products", zap.Ints("productIds", missing))
	}

	products := make([]domain.Product, 0, len(found))
	for _, p := range found {
		if !p.IsActive {
			continue
		}
		products = append(products, p)
		if len(products) == domain.MaxNewsletterProducts {
			break
		}
	}
	return products, nil
}

type campaign struct {
	newsletter domain.Newsletter
	recipients []domain.Subscriber
	products   []domain.Product
	settings   domain.InvoiceSettings
}

func (uc *BroadcastUseCase) deliver(c campaign) {
	logger := uc.logger.With(zap.String("newsletterId", c.newsletter.ID.Hex()))
	n := c.newsletter

	for i, subscriber := range c.recipients {
		err := uc.sendOne(c, subscriber)
		if errors.Is(err, mailer.ErrNotConfigured) {
			logger.Warn("newsletter aborted, mailer not configured")
			n.FailedCount += len(c.recipients) - i
			break
		}
		if err != nil {
			logger.Error("failed to send newsletter email", zap.String("to", subscriber.Email), zap.Error(err))
			n.FailedCount++
			continue
		}
		n.SentTo++

		ctx, cancel := context.WithTimeout(context.Background(), uc.sendTimeout)
		if err := uc.subscribers.RecordDelivery(ctx, subscriber.ID, uc.now()); err != nil {
			logger.Warn("failed to record newsletter delivery", zap.String("to", subscriber.Email), zap.Error(err))
		}
		cancel()
	}

	sentAt := uc.now().UTC()
	n.SentAt = &sentAt
	n.Status = n.FinalStatus()

	ctx, cancel := context.WithTimeout(context.Background(), uc.sendTimeout)
	defer cancel()
	if err := uc.newsletters.Finish(ctx, n); err != nil {
		logger.Error("failed to store newsletter outcome", zap.Error(err))
		return
	}

	logger.Info("newsletter finished",
		zap.String("status", n.Status),
		zap.Int("sent", n.SentTo),
		zap.Int("failed", n.FailedCount),
	)
}

func (uc *BroadcastUseCase) sendOne(c campaign, subscriber domain.Subscriber) error {
	msg, err := composeNewsletterEmail(c, subscriber, uc.websiteURL)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), uc.sendTimeout)
	defer cancel()
	return uc.mailer.Send(ctx, msg)
}

func validateBroadcast(b domain.Broadcast) error {
	var details []apperrors.ValidationDetail

	if b.Subject == "" {
		details = append(details, apperrors.ValidationDetail{Field: "subject", Message: "subject is required"})
	}
	if !b.SendToAll && len(b.CustomEmails) == 0 {
		details = append(details, apperrors.ValidationDetail{
			Field:   "customEmails",
			Message: "Either sendToAll or customEmails must be provided",
		})
	}
	for _, id := range b.ProductIDs {
		if id <= 0 {
			details = append(details, apperrors.ValidationDetail{
				Field:   "productIds",
				Message: "productIds must be positive integers",
			})
			break
		}
	}

	if len(details) > 0 {
		return apperrors.NewValidationError("validation failed", details...)
	}
	return nil
}
