package stripewebhooks

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"storefront-app/database"
	"storefront-app/internal/domain/customers"
	"storefront-app/internal/domain/products"
	"storefront-app/internal/domain/subscriptions"

	"github.com/stripe/stripe-go/v75"
	"github.com/stripe/stripe-go/v75/customer"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Seam for tests; the metadata fallback is the only Stripe API call on the
// webhook path.
var getStripeCustomer = func(id string) (*stripe.Customer, error) {
	return customer.Get(id, nil)
}

// handleSubscriptionUpserted reconciles customer.subscription.created and
// .updated into the subscriptions table, keyed by the Stripe subscription id.
func handleSubscriptionUpserted(sub *stripe.Subscription, eventAt time.Time) error {
	if sub.ID == "" || sub.Customer == nil || sub.Customer.ID == "" {
		return fmt.Errorf("subscription missing id/customer")
	}
	if sub.Items == nil || len(sub.Items.Data) == 0 || sub.Items.Data[0].Price == nil {
		return fmt.Errorf("subscription missing items/price")
	}

	db := database.DB
	stripeCustomerID := sub.Customer.ID
	price := sub.Items.Data[0].Price

	// Drop events older than what is already applied (last-writer-wins by
	// provider timestamp, not by delivery order).
	var existing subscriptions.Subscription
	err := db.Where("stripe_subscription_id = ?", sub.ID).First(&existing).Error
	if err == nil && existing.LastEventAt != nil && eventAt.Before(*existing.LastEventAt) {
		return nil
	}
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	userID, err := resolveUserID(db, stripeCustomerID)
	if err != nil {
		return err
	}
	if userID == 0 {
		// Customer created out of band and deleted, or metadata never set.
		// Acknowledge so Stripe stops redelivering an unresolvable event.
		return nil
	}

	planName := "Unknown Plan"
	var product products.Product
	if err := db.Where("stripe_price_id = ?", price.ID).First(&product).Error; err == nil {
		planName = product.Name
	}

	periodStart := time.Unix(sub.CurrentPeriodStart, 0)
	periodEnd := time.Unix(sub.CurrentPeriodEnd, 0)
	status := string(sub.Status)

	row := subscriptions.Subscription{
		UserID:               userID,
		StripeSubscriptionID: sub.ID,
		Status:               status,
		PlanID:               price.ID,
		PlanName:             planName,
		Amount:               float64(price.UnitAmount) / 100.0,
		Currency:             string(sub.Currency),
		CancelAtPeriodEnd:    sub.CancelAtPeriodEnd,
		CurrentPeriodStart:   &periodStart,
		CurrentPeriodEnd:     &periodEnd,
		LastEventAt:          &eventAt,
	}
	if price.Recurring != nil {
		row.Interval = string(price.Recurring.Interval)
		row.IntervalCount = price.Recurring.IntervalCount
	}

	if err := db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "stripe_subscription_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"user_id", "status", "plan_id", "plan_name",
			"amount", "currency", "interval", "interval_count",
			"current_period_start", "current_period_end",
			"cancel_at_period_end", "last_event_at", "updated_at",
		}),
	}).Create(&row).Error; err != nil {
		return fmt.Errorf("failed to upsert subscription %s: %w", sub.ID, err)
	}

	// Mirror the latest status onto the customer cache.
	return db.Model(&customers.Customer{}).
		Where("stripe_customer_id = ?", stripeCustomerID).
		Update("subscription_status", status).Error
}

// resolveUserID maps a Stripe customer to an internal user: the local
// customers row first (written at checkout time), then the user_id metadata
// on the Stripe customer for customers created out of band. Returns 0 when
// neither resolves.
func resolveUserID(db *gorm.DB, stripeCustomerID string) (uint, error) {
	var cust customers.Customer
	err := db.Where("stripe_customer_id = ?", stripeCustomerID).First(&cust).Error
	if err == nil {
		return cust.UserID, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, err
	}

	sc, err := getStripeCustomer(stripeCustomerID)
	if err != nil {
		return 0, fmt.Errorf("failed to fetch stripe customer %s: %w", stripeCustomerID, err)
	}
	return userIDFromMetadata(sc.Metadata), nil
}

func userIDFromMetadata(md map[string]string) uint {
	if md == nil {
		return 0
	}
	s := md["user_id"]
	if s == "" {
		return 0
	}
	uid, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0
	}
	return uint(uid)
}
