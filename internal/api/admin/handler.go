package admin

import (
	"net/http"

	"storefront-app/database"
	"storefront-app/internal/domain/apps"
	"storefront-app/internal/domain/customers"
	"storefront-app/internal/domain/subscriptions"
	"storefront-app/internal/domain/users"

	"github.com/gin-gonic/gin"
)

type AdminStats struct {
	TotalUsers          int64   `json:"total_users"`
	TotalApps           int64   `json:"total_apps"`
	TotalCustomers      int64   `json:"total_customers"`
	ActiveSubscriptions int64   `json:"active_subscriptions"`
	MonthlyRevenue      float64 `json:"monthly_revenue"`
}

func AdminDashboard(c *gin.Context) {
	var stats AdminStats

	database.DB.Model(&users.User{}).Count(&stats.TotalUsers)
	database.DB.Model(&apps.App{}).Count(&stats.TotalApps)
	database.DB.Model(&customers.Customer{}).Count(&stats.TotalCustomers)
	database.DB.Model(&subscriptions.Subscription{}).
		Where("status IN ?", []string{"active", "trialing"}).
		Count(&stats.ActiveSubscriptions)

	// amount is stored in major units per interval; monthly intervals only so
	// yearly plans don't skew the figure.
	var sum *float64
	database.DB.Model(&subscriptions.Subscription{}).
		Where("status = ? AND interval = ?", "active", "month").
		Select("SUM(amount)").
		Scan(&sum)
	if sum != nil {
		stats.MonthlyRevenue = *sum
	}

	c.JSON(http.StatusOK, stats)
}

func ListAllCustomers(c *gin.Context) {
	var list []customers.Customer
	if err := database.DB.Order("created_at DESC").Find(&list).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load customers"})
		return
	}
	c.JSON(http.StatusOK, list)
}

func ListAllSubscriptions(c *gin.Context) {
	var list []subscriptions.Subscription
	if err := database.DB.Order("created_at DESC").Find(&list).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load subscriptions"})
		return
	}
	c.JSON(http.StatusOK, list)
}

func ListAllApps(c *gin.Context) {
	var list []apps.App
	if err := database.DB.Order("created_at DESC").Find(&list).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load apps"})
		return
	}
	c.JSON(http.StatusOK, list)
}
