package billing

import (
	"net/http"

	"storefront-app/config"
	"storefront-app/database"
	"storefront-app/internal/domain/customers"

	"github.com/gin-gonic/gin"
	"github.com/stripe/stripe-go/v75"
	portalSession "github.com/stripe/stripe-go/v75/billingportal/session"
)

var newPortalSession = func(params *stripe.BillingPortalSessionParams) (*stripe.BillingPortalSession, error) {
	return portalSession.New(params)
}

// CreateBillingPortal opens Stripe's self-service portal for a user that has
// already checked out at least once.
func CreateBillingPortal(c *gin.Context) {
	userID := c.GetUint("user_id")
	if userID == 0 {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not identified"})
		return
	}

	var cust customers.Customer
	if err := database.DB.Where("user_id = ?", userID).First(&cust).Error; err != nil {
		c.JSON(http.StatusConflict, gin.H{"error": "No Stripe customer yet (subscribe first)"})
		return
	}

	portal, err := newPortalSession(&stripe.BillingPortalSessionParams{
		Customer:  stripe.String(cust.StripeCustomerID),
		ReturnURL: stripe.String(config.APP_URL + "/account"),
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not create billing portal session", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"url": portal.URL})
}
