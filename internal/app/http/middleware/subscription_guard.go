package middleware

import (
	"net/http"

	"storefront-app/database"
	"storefront-app/internal/domain/subscriptions"
	infra "storefront-app/internal/infra/stripe"

	"github.com/gin-gonic/gin"
)

// RequireActiveSubscription gates routes on an entitling subscription row.
// The rows are maintained by the webhook ingestor, so this reads local state
// only and never calls Stripe.
func RequireActiveSubscription() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetUint("user_id")
		if userID == 0 {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "User not identified"})
			return
		}

		var subs []subscriptions.Subscription
		if err := database.DB.Where("user_id = ?", userID).Find(&subs).Error; err != nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to check subscription"})
			return
		}

		for _, s := range subs {
			if infra.IsEntitling(s.Status) {
				c.Next()
				return
			}
		}

		c.AbortWithStatusJSON(http.StatusPaymentRequired, gin.H{"error": "An active subscription is required"})
	}
}
