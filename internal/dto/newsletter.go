package dto

import (
	"strings"
	"time"

	"wego/internal/domain"
)

type CreateSubscriberRequest struct {
	Email  string `json:"email"`
	Name   string `json:"name"`
	Source string `json:"source"`
}

type UpdateSubscriberRequest struct {
	IsActive *bool `json:"isActive"`
}

type UnsubscribeRequest struct {
	Email string `json:"email"`
}

type SubscriberResponse struct {
	ID              string     `json:"id"`
	Email           string     `json:"email"`
	Name            string     `json:"name"`
	IsActive        bool       `json:"isActive"`
	Source          string     `json:"source"`
	SubscribedAt    time.Time  `json:"subscribedAt"`
	UnsubscribedAt  *time.Time `json:"unsubscribedAt,omitempty"`
	LastEmailSent   *time.Time `json:"lastEmailSent,omitempty"`
	TotalEmailsSent int        `json:"totalEmailsSent"`
}

func NewSubscriberResponse(s domain.Subscriber) SubscriberResponse {
	return SubscriberResponse{
		ID:              s.ID.Hex(),
		Email:           s.Email,
		Name:            s.Name,
		IsActive:        s.IsActive,
		Source:          s.Source,
		SubscribedAt:    s.SubscribedAt,
		UnsubscribedAt:  s.UnsubscribedAt,
		LastEmailSent:   s.LastEmailSent,
		TotalEmailsSent: s.TotalEmailsSent,
	}
}

type SubscriberListResponse struct {
	Total       int                  `json:"total"`
	Subscribers []SubscriberResponse `json:"subscribers"`
}

func NewSubscriberListResponse(subs []domain.Subscriber) SubscriberListResponse {
	out := make([]SubscriberResponse, len(subs))
	for i, s := range subs {
		out[i] = NewSubscriberResponse(s)
	}
	return SubscriberListResponse{Total: len(out), Subscribers: out}
}

type SubscriberMessageResponse struct {
	Message    string             `json:"message"`
	Subscriber SubscriberResponse `json:"subscriber"`
}

type SendNewsletterRequest struct {
	Subject      string   `json:"subject"`
	Content      string   `json:"content"`
	ProductIDs   []int    `json:"productIds"`
	SendToAll    bool     `json:"sendToAll"`
	CustomEmails []string `json:"customEmails"`
}

func (r SendNewsletterRequest) ToDomain() domain.Broadcast {
	return domain.Broadcast{
		Subject:      strings.TrimSpace(r.Subject),
		Content:      r.Content,
		ProductIDs:   r.ProductIDs,
		SendToAll:    r.SendToAll,
		CustomEmails: r.CustomEmails,
	}
}

type SendNewsletterResponse struct {
	Message          string `json:"message"`
	NewsletterID     string `json:"newsletterId"`
	TotalSubscribers int    `json:"totalSubscribers"`
}

type NewsletterResponse struct {
	ID          string     `json:"id"`
	Subject     string     `json:"subject"`
	Content     string     `json:"content"`
	ProductIDs  []int      `json:"productIds"`
	Recipients  int        `json:"recipients"`
	Status      string     `json:"status"`
	SentTo      int        `json:"sentTo"`
	FailedCount int        `json:"failedCount"`
	SentAt      *time.Time `json:"sentAt,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
}

func NewNewsletterListResponse(newsletters []domain.Newsletter) []NewsletterResponse {
	out := make([]NewsletterResponse, len(newsletters))
	for i, n := range newsletters {
		ids := n.ProductIDs
		if ids == nil {
			ids = []int{}
		}
		out[i] = NewsletterResponse{
			ID:          n.ID.Hex(),
			Subject:     n.Subject,
			Content:     n.Content,
			ProductIDs:  ids,
			Recipients:  n.Recipients,
			Status:      n.Status,
			SentTo:      n.SentTo,
			FailedCount: n.FailedCount,
			SentAt:      n.SentAt,
			CreatedAt:   n.CreatedAt,
		}
	}
	return out
}
