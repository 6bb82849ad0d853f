package billing

import (
	"fmt"
	"net/http"

	"roast-app/config"
	"roast-app/database"
	"roast-app/internal/domain/profiles"

	"github.com/gin-gonic/gin"
	"github.com/stripe/stripe-go/v75"
	checkoutsession "github.com/stripe/stripe-go/v75/checkout/session"
)

// POST /api/checkout
func CreateCheckoutSession(c *gin.Context) {
	var body struct {
		UserID string `json:"userId"`
	}
	if err := c.ShouldBindJSON(&body); err != nil || body.UserID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "User ID required"})
		return
	}

	stripe.Key = config.STRIPE_SECRET_KEY

	var profile profiles.Profile
	if err := database.DB.Where("id = ?", body.UserID).First(&profile).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	params := &stripe.CheckoutSessionParams{
		SuccessURL:         stripe.String(config.APP_URL + "?success=true"),
		CancelURL:          stripe.String(config.APP_URL + "?canceled=true"),
		Mode:               stripe.String(string(stripe.CheckoutSessionModeSubscription)),
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
		CustomerEmail:      stripe.String(profile.Email),

		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{Price: stripe.String(config.STRIPE_PRICE_ID), Quantity: stripe.Int64(1)},
		},

		// The webhook matches the completed session back to this user via
		// metadata, with the reference id as fallback.
		ClientReferenceID: stripe.String(profile.ID),
	}
	params.AddMetadata("user_id", profile.ID)

	s, err := checkoutsession.New(params)
	if err != nil {
		fmt.Println("❌ Stripe checkout session error:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error creating checkout session"})
		return
	}

	// Optimistic linkage: persist the customer id now if Stripe already
	// assigned one, whether or not the user completes payment.
	if s.Customer != nil && s.Customer.ID != "" {
		if err := database.DB.Model(&profiles.Profile{}).
			Where("id = ?", profile.ID).
			Update("stripe_customer_id", s.Customer.ID).Error; err != nil {
			fmt.Println("❌ Failed to store Stripe customer:", err)
		}
	}

	c.JSON(http.StatusOK, gin.H{"url": s.URL})
}
