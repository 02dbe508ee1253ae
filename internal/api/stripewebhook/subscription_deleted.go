package stripewebhooks

import (
	"errors"
	"time"

	"storefront-app/database"
	"storefront-app/internal/domain/customers"
	"storefront-app/internal/domain/subscriptions"
	infra "storefront-app/internal/infra/stripe"

	"github.com/stripe/stripe-go/v75"
	"gorm.io/gorm"
)

// handleSubscriptionDeleted marks the subscription canceled and the customer
// cache inactive. A deletion for a customer we never saw is acknowledged as a
// no-op.
func handleSubscriptionDeleted(sub *stripe.Subscription, eventAt time.Time) error {
	if sub.ID == "" || sub.Customer == nil || sub.Customer.ID == "" {
		return nil
	}

	db := database.DB
	stripeCustomerID := sub.Customer.ID

	var cust customers.Customer
	if err := db.Where("stripe_customer_id = ?", stripeCustomerID).First(&cust).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return err
	}

	var existing subscriptions.Subscription
	err := db.Where("stripe_subscription_id = ?", sub.ID).First(&existing).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		// Nothing to cancel locally; still flag the customer inactive.
		return db.Model(&customers.Customer{}).
			Where("id = ?", cust.ID).
			Update("subscription_status", infra.StatusInactive).Error
	}
	if err != nil {
		return err
	}
	if existing.LastEventAt != nil && eventAt.Before(*existing.LastEventAt) {
		return nil
	}

	now := time.Now()
	if err := db.Model(&subscriptions.Subscription{}).
		Where("id = ?", existing.ID).
		Updates(map[string]interface{}{
			"status":        "canceled",
			"canceled_at":   &now,
			"last_event_at": &eventAt,
		}).Error; err != nil {
		return err
	}

	return db.Model(&customers.Customer{}).
		Where("id = ?", cust.ID).
		Update("subscription_status", infra.StatusInactive).Error
}
