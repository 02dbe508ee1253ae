package products

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Product struct {
	ID    string `gorm:"type:uuid;primaryKey" json:"id"`
	AppID string `gorm:"type:uuid;not null;index" json:"app_id"`

	Name        string `gorm:"not null" json:"name"`
	Description string `json:"description"`

	// Amount is kept in minor units exactly as sent to Stripe.
	Amount   int64           `gorm:"not null" json:"amount"`
	Currency string          `gorm:"not null;default:'usd'" json:"currency"`
	Interval string          `gorm:"not null" json:"interval"`
	Features json.RawMessage `gorm:"type:jsonb;not null;default:'[]'" json:"features"`

	StripeProductID string `gorm:"column:stripe_product_id;not null;uniqueIndex:idx_products_stripe_product_id" json:"stripe_product_id"`
	StripePriceID   string `gorm:"column:stripe_price_id;not null;uniqueIndex:idx_products_stripe_price_id" json:"stripe_price_id"`

	// No column default; see apps.App.Active.
	Active bool `gorm:"not null" json:"active"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (p *Product) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}
