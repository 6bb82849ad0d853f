package routes

import (
	authapi "roast-app/internal/api/auth"
	"roast-app/internal/api/billing"
	roastsapi "roast-app/internal/api/roasts"
	stripewebhooks "roast-app/internal/api/stripewebhook"
	"roast-app/internal/api/users"
	"roast-app/internal/app/http/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.Engine) {
	// Webhook reads the raw body for signature verification, so it must
	// bypass the sanitizer.
	r.POST("/api/webhook", stripewebhooks.StripeWebhook)
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// Anonymous dispense carries no JSON body, only the anon cookie.
	r.POST("/api/roast/anonymous", roastsapi.DispenseAnonymous)

	r.GET("/api/auth/google", authapi.GoogleStart)
	r.GET("/api/auth/google/callback", authapi.GoogleCallback)

	public := r.Group("/api")
	public.Use(middleware.SanitizeAndCleanInputMiddleware())

	public.POST("/register", authapi.Register)
	public.POST("/login", authapi.Login)
	public.POST("/request-password-reset", authapi.RequestPasswordReset)
	public.POST("/reset-password", authapi.ResetPassword)

	public.POST("/checkout", billing.CreateCheckoutSession)
	public.POST("/cancel-subscription", billing.CancelSubscription)

	// Authenticated
	auth := r.Group("/api")
	auth.Use(middleware.AuthMiddleware())
	auth.GET("/me", users.GetCurrentUser)
	auth.POST("/roast", roastsapi.Dispense)
	auth.POST("/change-password", authapi.ChangePassword)
}
