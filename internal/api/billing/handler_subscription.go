package billing

import (
	"net/http"

	"storefront-app/database"
	"storefront-app/internal/domain/subscriptions"
	infra "storefront-app/internal/infra/stripe"

	"github.com/gin-gonic/gin"
)

func ListMySubscriptions(c *gin.Context) {
	userID := c.GetUint("user_id")
	if userID == 0 {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var subs []subscriptions.Subscription
	if err := database.DB.
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&subs).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load subscriptions"})
		return
	}

	c.JSON(http.StatusOK, subs)
}

// GetSubscriptionStatus answers the gating question the storefront UI asks:
// does the current user hold an entitling subscription right now.
func GetSubscriptionStatus(c *gin.Context) {
	userID := c.GetUint("user_id")
	if userID == 0 {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var subs []subscriptions.Subscription
	if err := database.DB.Where("user_id = ?", userID).Find(&subs).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load subscriptions"})
		return
	}

	active := false
	for _, s := range subs {
		if infra.IsEntitling(s.Status) {
			active = true
			break
		}
	}

	c.JSON(http.StatusOK, gin.H{"active": active})
}
