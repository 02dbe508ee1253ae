package templatesapi

import (
	"net/http"

	"storefront-app/database"
	"storefront-app/internal/domain/templates"

	"github.com/gin-gonic/gin"
)

func ListTemplates(c *gin.Context) {
	var list []templates.AppTemplate
	if err := database.DB.
		Where("active = ?", true).
		Order("name ASC").
		Find(&list).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load templates"})
		return
	}

	c.JSON(http.StatusOK, list)
}

func GetTemplate(c *gin.Context) {
	slug := c.Param("slug")

	var tmpl templates.AppTemplate
	if err := database.DB.Where("slug = ? AND active = ?", slug, true).First(&tmpl).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Template not found"})
		return
	}

	c.JSON(http.StatusOK, tmpl)
}
