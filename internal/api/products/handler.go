package productsapi

import (
	"net/http"

	"storefront-app/database"
	"storefront-app/internal/domain/apps"
	"storefront-app/internal/domain/products"
	"storefront-app/internal/domain/templates"

	"github.com/gin-gonic/gin"
)

// CreateProducts provisions Stripe products/prices for an app and persists
// the resulting identifiers. Runs once per app at creation time; it is NOT
// idempotent, a blind retry after success duplicates provider resources.
func CreateProducts(c *gin.Context) {
	var body struct {
		AppID    string                  `json:"appId"`
		Products []templates.ProductSpec `json:"products"`
	}
	if err := c.ShouldBindJSON(&body); err != nil || body.AppID == "" || len(body.Products) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "App ID and products are required"})
		return
	}

	for _, spec := range body.Products {
		if spec.Name == "" || spec.Amount <= 0 || (spec.Interval != "month" && spec.Interval != "year") {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Each product needs a name, a positive amount and a month/year interval"})
			return
		}
	}

	userID := c.GetUint("user_id")
	if userID == 0 {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not identified"})
		return
	}

	var app apps.App
	if err := database.DB.Where("id = ?", body.AppID).First(&app).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "App not found"})
		return
	}

	// The token subject must own the app it provisions for; header presence
	// alone is not authorization.
	if app.OwnerID != userID {
		c.JSON(http.StatusForbidden, gin.H{"error": "You do not own this app"})
		return
	}

	created, err := Provision(database.DB, &app, body.Products)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"products": created})
}

// ListAppProducts serves the public pricing page for an app.
func ListAppProducts(c *gin.Context) {
	slug := c.Param("slug")

	var app apps.App
	if err := database.DB.Where("slug = ? AND active = ?", slug, true).First(&app).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "App not found"})
		return
	}

	var list []products.Product
	if err := database.DB.
		Where("app_id = ? AND active = ?", app.ID, true).
		Order("amount ASC").
		Find(&list).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load products"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"products": list})
}
