package customers

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Customer links an internal user to its Stripe customer. At most one row per
// user; the uniqueIndex on UserID settles concurrent first-checkout races.
type Customer struct {
	ID     string `gorm:"type:uuid;primaryKey" json:"id"`
	UserID uint   `gorm:"not null;uniqueIndex:idx_customers_user_id" json:"user_id"`
	Email  string `gorm:"not null" json:"email"`

	StripeCustomerID string `gorm:"column:stripe_customer_id;not null;uniqueIndex:idx_customers_stripe_customer_id" json:"stripe_customer_id"`

	// SubscriptionStatus mirrors the latest subscription status applied by the
	// webhook ingestor ("inactive" after deletion).
	SubscriptionStatus string `gorm:"not null;default:'none'" json:"subscription_status"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (c *Customer) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}
