package domain

import (
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	SubscriberSourceOrder   = "order"
	SubscriberSourceManual  = "manual"
	SubscriberSourceWebsite = "website"
)

type Subscriber struct {
	ID              primitive.ObjectID `bson:"_id,omitempty"`
	Email           string             `bson:"email"`
	Name            string             `bson:"name,omitempty"`
	IsActive        bool               `bson:"isActive"`
	Source          string             `bson:"source"`
	SubscribedAt    time.Time          `bson:"subscribedAt"`
	UnsubscribedAt  *time.Time         `bson:"unsubscribedAt,omitempty"`
	LastEmailSent   *time.Time         `bson:"lastEmailSent,omitempty"`
	TotalEmailsSent int                `bson:"totalEmailsSent"`
}

const (
	NewsletterStatusDraft   = "draft"
	NewsletterStatusSending = "sending"
	NewsletterStatusSent    = "sent"
	NewsletterStatusFailed  = "failed"
)

type Newsletter struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	Subject     string             `bson:"subject"`
	Content     string             `bson:"content"`
	ProductIDs  []int              `bson:"productIds"`
	Recipients  int                `bson:"recipients"`
	Status      string             `bson:"status"`
	SentTo      int                `bson:"sentTo"`
	FailedCount int                `bson:"failedCount"`
	SentAt      *time.Time         `bson:"sentAt,omitempty"`
	CreatedAt   time.Time          `bson:"createdAt"`
}

// MaxNewsletterProducts caps the product cards rendered in one broadcast.
const MaxNewsletterProducts = 20

type SubscriberFilter struct {
	Active *bool
	Search string
}

// DisplayName falls back to the local part of the email.
func (s Subscriber) DisplayName() string {
	if s.Name != "" {
		return s.Name
	}
	local, _, _ := strings.Cut(s.Email, "@")
	return local
}

func ValidSubscriberSource(source string) bool {
	switch source {
	case SubscriberSourceOrder, SubscriberSourceManual, SubscriberSourceWebsite:
		return true
	}
	return false
}

// Broadcast is a newsletter send request. CustomEmails is used only when
// SendToAll is false.
type Broadcast struct {
	Subject      string
	Content      string
	ProductIDs   []int
	SendToAll    bool
	CustomEmails []string
}

// FinalStatus is failed only when nothing was delivered and something failed.
func (n Newsletter) FinalStatus() string {
	if n.SentTo == 0 && n.FailedCount > 0 {
		return NewsletterStatusFailed
	}
	return NewsletterStatusSent
}
