package subscriptions

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Subscription is the reconciled snapshot of a Stripe subscription. The
// unique StripeSubscriptionID is the natural key the webhook ingestor upserts
// on, which is what makes event replays idempotent.
type Subscription struct {
	ID     string `gorm:"type:uuid;primaryKey" json:"id"`
	UserID uint   `gorm:"not null;index" json:"user_id"`

	StripeSubscriptionID string `gorm:"column:stripe_subscription_id;not null;uniqueIndex:idx_subscriptions_stripe_subscription_id" json:"stripe_subscription_id"`

	Status string `gorm:"not null" json:"status"`

	// PlanID is the Stripe price id the subscription is on; PlanName is the
	// product name it resolved to at event time.
	PlanID   string `gorm:"not null" json:"plan_id"`
	PlanName string `json:"plan_name"`

	// Amount is in major units (Stripe's unit_amount / 100).
	Amount        float64 `json:"amount"`
	Currency      string  `json:"currency"`
	Interval      string  `json:"interval"`
	IntervalCount int64   `json:"interval_count"`

	CurrentPeriodStart *time.Time `json:"current_period_start,omitempty"`
	CurrentPeriodEnd   *time.Time `json:"current_period_end,omitempty"`

	CancelAtPeriodEnd bool       `json:"cancel_at_period_end"`
	CanceledAt        *time.Time `json:"canceled_at,omitempty"`

	// LastEventAt is the Stripe event timestamp of the newest applied event.
	// Older events are dropped instead of applied, so delivery order does not
	// matter.
	LastEventAt *time.Time `gorm:"index" json:"last_event_at,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (s *Subscription) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	return nil
}
