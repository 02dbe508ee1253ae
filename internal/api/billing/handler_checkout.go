package billing

import (
	"errors"
	"fmt"
	"net/http"

	"storefront-app/config"
	"storefront-app/database"
	"storefront-app/internal/domain/customers"
	"storefront-app/internal/domain/products"
	"storefront-app/internal/domain/users"

	"github.com/gin-gonic/gin"
	"github.com/stripe/stripe-go/v75"
	checkoutsession "github.com/stripe/stripe-go/v75/checkout/session"
	"github.com/stripe/stripe-go/v75/customer"
	"gorm.io/gorm"
)

// Seams for tests.
var (
	newStripeCustomer = func(params *stripe.CustomerParams) (*stripe.Customer, error) {
		return customer.New(params)
	}
	newCheckoutSession = func(params *stripe.CheckoutSessionParams) (*stripe.CheckoutSession, error) {
		return checkoutsession.New(params)
	}
)

// CreateCheckoutSession opens a subscription-mode Stripe Checkout session for
// the authenticated user. The user always comes from the JWT; a caller-sent
// userId that disagrees with the token subject is rejected instead of trusted.
func CreateCheckoutSession(c *gin.Context) {
	var body struct {
		PriceID    string `json:"priceId"`
		UserID     string `json:"userId"`
		SuccessURL string `json:"successUrl"`
		CancelURL  string `json:"cancelUrl"`
	}
	if err := c.ShouldBindJSON(&body); err != nil || body.PriceID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing or invalid priceId"})
		return
	}

	userID := c.GetUint("user_id")
	if userID == 0 {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not identified"})
		return
	}
	if body.UserID != "" && body.UserID != fmt.Sprint(userID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "userId does not match the authenticated user"})
		return
	}

	// Allow-list the price id against provisioned products.
	var product products.Product
	if err := database.DB.Where("stripe_price_id = ? AND active = ?", body.PriceID, true).First(&product).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown priceId"})
		return
	}

	var user users.User
	if err := database.DB.Where("id = ?", userID).First(&user).Error; err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found"})
		return
	}

	cust, err := ensureCustomer(database.DB, &user)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	successURL := body.SuccessURL
	if successURL == "" {
		successURL = config.APP_URL + "/account"
	}
	cancelURL := body.CancelURL
	if cancelURL == "" {
		cancelURL = config.APP_URL + "/account?canceled=1"
	}

	params := &stripe.CheckoutSessionParams{
		Customer:   stripe.String(cust.StripeCustomerID),
		SuccessURL: stripe.String(successURL),
		CancelURL:  stripe.String(cancelURL),
		Mode:       stripe.String(string(stripe.CheckoutSessionModeSubscription)),

		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{Price: stripe.String(product.StripePriceID), Quantity: stripe.Int64(1)},
		},

		AllowPromotionCodes:      stripe.Bool(true),
		BillingAddressCollection: stripe.String(string(stripe.CheckoutSessionBillingAddressCollectionRequired)),
		PaymentMethodTypes:       stripe.StringSlice([]string{"card"}),

		ClientReferenceID: stripe.String(fmt.Sprint(user.ID)),
	}

	s, err := newCheckoutSession(params)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create checkout session", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"sessionId": s.ID, "url": s.URL})
}

// ensureCustomer returns the user's customer row, creating the Stripe
// customer and the row on first use. Losing the uniqueness race on
// customers.user_id is treated as "reuse existing", not as an error; the
// loser's provider-side customer is a known, accepted leak.
func ensureCustomer(db *gorm.DB, user *users.User) (customers.Customer, error) {
	var cust customers.Customer
	err := db.Where("user_id = ?", user.ID).First(&cust).Error
	if err == nil {
		return cust, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return customers.Customer{}, err
	}

	sc, err := newStripeCustomer(&stripe.CustomerParams{
		Email: stripe.String(user.Email),
		Metadata: map[string]string{
			"user_id": fmt.Sprint(user.ID),
			"app_env": config.APP_ENV,
		},
	})
	if err != nil {
		return customers.Customer{}, fmt.Errorf("failed to create stripe customer: %w", err)
	}

	cust = customers.Customer{
		UserID:           user.ID,
		Email:            user.Email,
		StripeCustomerID: sc.ID,
	}
	if err := db.Create(&cust).Error; err != nil {
		// A concurrent checkout won the insert; use its row.
		var winner customers.Customer
		if ferr := db.Where("user_id = ?", user.ID).First(&winner).Error; ferr == nil {
			return winner, nil
		}
		return customers.Customer{}, fmt.Errorf("failed to store customer: %w", err)
	}

	return cust, nil
}
