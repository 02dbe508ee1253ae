package users

import (
	"net/http"

	"storefront-app/database"
	"storefront-app/internal/domain/customers"
	"storefront-app/internal/domain/subscriptions"
	"storefront-app/internal/domain/users"
	infra "storefront-app/internal/infra/stripe"

	"github.com/gin-gonic/gin"
)

type UserDTO struct {
	ID         uint   `json:"id"`
	Email      string `json:"email"`
	Name       string `json:"name"`
	Role       string `json:"role"`
	IsVerified bool   `json:"is_verified"`
}

type BillingDTO struct {
	CustomerStatus string                       `json:"customer_status"`
	Subscriptions  []subscriptions.Subscription `json:"subscriptions"`
	HasActive      bool                         `json:"has_active"`
}

type MeResponse struct {
	User    UserDTO    `json:"user"`
	Billing BillingDTO `json:"billing"`
}

func GetCurrentUser(c *gin.Context) {
	userID := c.GetUint("user_id")
	if userID == 0 {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var user users.User
	if err := database.DB.Where("id = ?", userID).First(&user).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	billing := BillingDTO{CustomerStatus: "none", Subscriptions: []subscriptions.Subscription{}}

	var cust customers.Customer
	if err := database.DB.Where("user_id = ?", user.ID).First(&cust).Error; err == nil {
		billing.CustomerStatus = infra.NormalizeStatus(cust.SubscriptionStatus)
	}

	if err := database.DB.
		Where("user_id = ?", user.ID).
		Order("created_at DESC").
		Find(&billing.Subscriptions).Error; err == nil {
		for _, s := range billing.Subscriptions {
			if infra.IsEntitling(s.Status) {
				billing.HasActive = true
				break
			}
		}
	}

	c.JSON(http.StatusOK, MeResponse{
		User: UserDTO{
			ID:         user.ID,
			Email:      user.Email,
			Name:       user.Name,
			Role:       user.Role,
			IsVerified: user.IsVerified,
		},
		Billing: billing,
	})
}

func VerifyEmail(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing token"})
		return
	}

	var t users.VerificationToken
	if err := database.DB.Where("token = ?", token).First(&t).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid or expired token"})
		return
	}

	if err := database.DB.Model(&users.User{}).Where("id = ?", t.UserID).Update("is_verified", true).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to verify user"})
		return
	}

	database.DB.Delete(&t)

	c.JSON(http.StatusOK, gin.H{"message": "Email verified successfully"})
}
