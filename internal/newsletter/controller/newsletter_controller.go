package controller

import (
	"context"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"wego/internal/commons"
	"wego/internal/domain"
	"wego/internal/dto"
	apperrors "wego/internal/errors"
)

type SubscribersUseCase interface {
	List(ctx context.Context, filter domain.SubscriberFilter) ([]domain.Subscriber, error)
	Add(ctx context.Context, email, name, source string) (*domain.Subscriber, bool, error)
	SetActive(ctx context.Context, id primitive.ObjectID, active bool) (*domain.Subscriber, error)
	Unsubscribe(ctx context.Context, email string) (*domain.Subscriber, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
}

type BroadcastUseCase interface {
	Send(ctx context.Context, b domain.Broadcast) (*domain.Newsletter, error)
	History(ctx context.Context) ([]domain.Newsletter, error)
}

type Controller struct {
	subscribers SubscribersUseCase
	broadcast   BroadcastUseCase
	logger      *zap.Logger
}

func NewController(subscribers SubscribersUseCase, broadcast BroadcastUseCase, logger *zap.Logger) *Controller {
	return &Controller{subscribers: subscribers, broadcast: broadcast, logger: logger}
}

func (c *Controller) ListSubscribers(w http.ResponseWriter, r *http.Request) {
	traceID, logger := commons.Trace(r, c.logger)

	filter := domain.SubscriberFilter{Search: r.URL.Query().Get("search")}
	if raw := r.URL.Query().Get("active"); raw != "" {
		active, err := strconv.ParseBool(raw)
		if err != nil {
			commons.WriteValidationError(w, logger, "invalid query parameter", apperrors.ValidationDetail{
				Field:   "active",
				Message: "active must be true or false",
			})
			return
		}
		filter.Active = &active
	}

	subs, err := c.subscribers.List(r.Context(), filter)
	if err != nil {
		commons.HandleError(w, traceID, err, logger)
		return
	}

	commons.WriteJSON(w, http.StatusOK, dto.NewSubscriberListResponse(subs), logger)
}

func (c *Controller) AddSubscriber(w http.ResponseWriter, r *http.Request) {
	traceID, logger := commons.Trace(r, c.logger)

	var req dto.CreateSubscriberRequest
	if !commons.DecodeJSON(w, r, &req, logger) {
		return
	}

	s, created, err := c.subscribers.Add(r.Context(), req.Email, req.Name, req.Source)
	if err != nil {
		commons.HandleError(w, traceID, err, logger)
		return
	}

	status, message := http.StatusCreated, "Subscriber added successfully"
	if !created {
		status, message = http.StatusOK, "Subscriber reactivated"
	}
	commons.WriteJSON(w, status, dto.SubscriberMessageResponse{
		Message:    message,
		Subscriber: dto.NewSubscriberResponse(*s),
	}, logger)
}

func (c *Controller) UpdateSubscriber(w http.ResponseWriter, r *http.Request) {
	traceID, logger := commons.Trace(r, c.logger)

	id, ok := objectIDParam(w, r, logger)
	if !ok {
		return
	}

	var req dto.UpdateSubscriberRequest
	if !commons.DecodeJSON(w, r, &req, logger) {
		return
	}
	if req.IsActive == nil {
		commons.WriteValidationError(w, logger, "validation failed", apperrors.ValidationDetail{
			Field:   "isActive",
			Message: "isActive is required",
		})
		return
	}

	s, err := c.subscribers.SetActive(r.Context(), id, *req.IsActive)
	if err != nil {
		commons.HandleError(w, traceID, err, logger)
		return
	}

	commons.WriteJSON(w, http.StatusOK, dto.SubscriberMessageResponse{
		Message:    "Subscriber updated successfully",
		Subscriber: dto.NewSubscriberResponse(*s),
	}, logger)
}

func (c *Controller) DeleteSubscriber(w http.ResponseWriter, r *http.Request) {
	traceID, logger := commons.Trace(r, c.logger)

	id, ok := objectIDParam(w, r, logger)
	if !ok {
		return
	}

	if err := c.subscribers.Delete(r.Context(), id); err != nil {
		commons.HandleError(w, traceID, err, logger)
		return
	}

	commons.WriteJSON(w, http.StatusOK, map[string]string{"message": "Subscriber deleted successfully"}, logger)
}

func (c *Controller) Unsubscribe(w http.ResponseWriter, r *http.Request) {
	traceID, logger := commons.Trace(r, c.logger)

	var req dto.UnsubscribeRequest
	if !commons.DecodeJSON(w, r, &req, logger) {
		return
	}

	s, err := c.subscribers.Unsubscribe(r.Context(), req.Email)
	if err != nil {
		commons.HandleError(w, traceID, err, logger)
		return
	}

	commons.WriteJSON(w, http.StatusOK, dto.SubscriberMessageResponse{
		Message:    "Successfully unsubscribed",
		Subscriber: dto.NewSubscriberResponse(*s),
	}, logger)
}

func (c *Controller) Send(w http.ResponseWriter, r *http.Request) {
	traceID, logger := commons.Trace(r, c.logger)

	var req dto.SendNewsletterRequest
	if !commons.DecodeJSON(w, r, &req, logger) {
		return
	}

	n, err := c.broadcast.Send(r.Context(), req.ToDomain())
	if err != nil {
		commons.HandleError(w, traceID, err, logger)
		return
	}

	commons.WriteJSON(w, http.StatusAccepted, dto.SendNewsletterResponse{
		Message:          "Newsletter is being sent",
		NewsletterID:     n.ID.Hex(),
		TotalSubscribers: n.Recipients,
	}, logger)
}

func (c *Controller) History(w http.ResponseWriter, r *http.Request) {
	traceID, logger := commons.Trace(r, c.logger)

	newsletters, err := c.broadcast.History(r.Context())
	if err != nil {
		commons.HandleError(w, traceID, err, logger)
		return
	}

	commons.WriteJSON(w, http.StatusOK, dto.NewNewsletterListResponse(newsletters), logger)
}

func objectIDParam(w http.ResponseWriter, r *http.Request, logger *zap.Logger) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		commons.WriteValidationError(w, logger, "invalid path parameter", apperrors.ValidationDetail{
			Field:   "id",
			Message: "id must be a valid subscriber id",
		})
		return primitive.NilObjectID, false
	}
	return id, true
}
