package productsapi

import (
	"encoding/json"
	"fmt"
	"strings"

	"storefront-app/internal/domain/apps"
	"storefront-app/internal/domain/products"
	"storefront-app/internal/domain/templates"

	"github.com/stripe/stripe-go/v75"
	"github.com/stripe/stripe-go/v75/price"
	"github.com/stripe/stripe-go/v75/product"
	"gorm.io/gorm"
)

// Seams for tests. Creating provider-side products is the one operation here
// with billable external side effects.
var (
	newStripeProduct = func(params *stripe.ProductParams) (*stripe.Product, error) {
		return product.New(params)
	}
	newStripePrice = func(params *stripe.PriceParams) (*stripe.Price, error) {
		return price.New(params)
	}
	archiveStripeProduct = func(id string) error {
		_, err := product.Update(id, &stripe.ProductParams{Active: stripe.Bool(false)})
		return err
	}
)

// Provision creates a Stripe product + recurring price per spec of a newly
// instantiated app and persists a Product row for each. The steps are not atomic across Stripe and
// the database, so on any failure the products created by this call are
// archived and the rows deleted before the error is returned; the caller can
// safely retry the whole batch.
func Provision(db *gorm.DB, app *apps.App, specs []templates.ProductSpec) ([]products.Product, error) {
	created := make([]products.Product, 0, len(specs))

	rollback := func() {
		for _, p := range created {
			if err := archiveStripeProduct(p.StripeProductID); err != nil {
				fmt.Println("❌ Failed to archive stripe product", p.StripeProductID, "during rollback:", err)
			}
			db.Delete(&products.Product{}, "id = ?", p.ID)
		}
	}

	for _, spec := range specs {
		sp, err := newStripeProduct(&stripe.ProductParams{
			Name:        stripe.String(fmt.Sprintf("%s - %s", app.Name, spec.Name)),
			Description: stripe.String(spec.Description),
			Metadata: map[string]string{
				"app_id": app.ID,
			},
		})
		if err != nil {
			rollback()
			return nil, rollbackError(created, fmt.Errorf("failed to create stripe product %q: %w", spec.Name, err))
		}

		pr, err := newStripePrice(&stripe.PriceParams{
			Product:    stripe.String(sp.ID),
			UnitAmount: stripe.Int64(spec.Amount),
			Currency:   stripe.String("usd"),
			Recurring: &stripe.PriceRecurringParams{
				Interval: stripe.String(spec.Interval),
			},
			Metadata: map[string]string{
				"app_id": app.ID,
			},
		})
		if err != nil {
			// The product without a price is part of this call too.
			if aerr := archiveStripeProduct(sp.ID); aerr != nil {
				fmt.Println("❌ Failed to archive stripe product", sp.ID, "during rollback:", aerr)
			}
			rollback()
			return nil, rollbackError(created, fmt.Errorf("failed to create stripe price for %q: %w", spec.Name, err))
		}

		features, err := json.Marshal(spec.Features)
		if err != nil {
			features = []byte("[]")
		}

		row := products.Product{
			AppID:           app.ID,
			Name:            spec.Name,
			Description:     spec.Description,
			Amount:          spec.Amount,
			Currency:        "usd",
			Interval:        spec.Interval,
			Features:        features,
			StripeProductID: sp.ID,
			StripePriceID:   pr.ID,
			Active:          true,
		}
		if err := db.Create(&row).Error; err != nil {
			if aerr := archiveStripeProduct(sp.ID); aerr != nil {
				fmt.Println("❌ Failed to archive stripe product", sp.ID, "during rollback:", aerr)
			}
			rollback()
			return nil, rollbackError(created, fmt.Errorf("failed to persist product %q: %w", spec.Name, err))
		}

		created = append(created, row)
	}

	return created, nil
}

// rollbackError names the products that were already provisioned and rolled
// back so the caller knows the batch had partial progress.
func rollbackError(rolledBack []products.Product, cause error) error {
	if len(rolledBack) == 0 {
		return cause
	}
	names := make([]string, 0, len(rolledBack))
	for _, p := range rolledBack {
		names = append(names, p.Name)
	}
	return fmt.Errorf("%w (rolled back already-created products: %s)", cause, strings.Join(names, ", "))
}
