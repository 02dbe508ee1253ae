package routes

import (
	adminapi "storefront-app/internal/api/admin"
	appsapi "storefront-app/internal/api/apps"
	authapi "storefront-app/internal/api/auth"
	"storefront-app/internal/api/billing"
	productsapi "storefront-app/internal/api/products"
	stripewebhooks "storefront-app/internal/api/stripewebhook"
	templatesapi "storefront-app/internal/api/templates"
	"storefront-app/internal/api/users"
	"storefront-app/internal/app/http/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.Engine) {
	// The webhook stays outside the sanitization group: signature
	// verification needs the raw body byte-for-byte.
	r.POST("/stripe-webhook", stripewebhooks.StripeWebhook)
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// Public storefront reads
	r.GET("/templates", templatesapi.ListTemplates)
	r.GET("/templates/:slug", templatesapi.GetTemplate)
	r.GET("/apps/:slug", appsapi.GetAppBySlug)
	r.GET("/apps/:slug/products", productsapi.ListAppProducts)

	public := r.Group("/")
	public.Use(middleware.SanitizeAndCleanInputMiddleware())

	public.POST("/register", authapi.Register)
	public.POST("/login", authapi.Login)
	public.GET("/verify", users.VerifyEmail)
	public.POST("/resend-verification", authapi.ResendVerification)

	public.GET("/auth/google", authapi.GoogleStart)
	public.GET("/auth/google/callback", authapi.GoogleCallback)

	// Authenticated
	auth := r.Group("/")
	auth.Use(middleware.AuthMiddleware())
	auth.GET("/me", users.GetCurrentUser)

	auth.POST("/apps", appsapi.CreateApp)
	auth.GET("/my/apps", appsapi.ListMyApps)
	auth.POST("/create-products", productsapi.CreateProducts)

	auth.POST("/create-checkout", billing.CreateCheckoutSession)
	auth.POST("/billing-portal", billing.CreateBillingPortal)
	auth.GET("/subscriptions", billing.ListMySubscriptions)
	auth.GET("/subscription-status", billing.GetSubscriptionStatus)

	// Subscribed users: the member-only payload of an app
	subscribed := auth.Group("/")
	subscribed.Use(middleware.RequireActiveSubscription())
	subscribed.GET("/apps/:slug/content", appsapi.GetAppContent)

	// Admin routes
	admin := r.Group("/admin")
	admin.Use(middleware.AuthMiddleware(), middleware.RequireRole("admin"))
	admin.GET("/dashboard", adminapi.AdminDashboard)
	admin.GET("/customers", adminapi.ListAllCustomers)
	admin.GET("/subscriptions", adminapi.ListAllSubscriptions)
	admin.GET("/apps", adminapi.ListAllApps)
}
