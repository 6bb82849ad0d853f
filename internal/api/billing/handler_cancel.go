package billing

import (
	"fmt"
	"net/http"

	"roast-app/config"
	"roast-app/database"
	"roast-app/internal/domain/entitlement"
	"roast-app/internal/domain/profiles"

	"github.com/gin-gonic/gin"
	"github.com/stripe/stripe-go/v75"
	"github.com/stripe/stripe-go/v75/subscription"
)

// POST /api/cancel-subscription
//
// Two-phase by design: we only record the cancel intent with Stripe
// here. The entitlement row is downgraded later by the
// customer.subscription.deleted webhook, so the user keeps pro access
// for the period already paid.
func CancelSubscription(c *gin.Context) {
	var body struct {
		UserID string `json:"userId"`
	}
	if err := c.ShouldBindJSON(&body); err != nil || body.UserID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "User ID is required"})
		return
	}

	stripe.Key = config.STRIPE_SECRET_KEY

	var profile profiles.Profile
	if err := database.DB.Where("id = ?", body.UserID).First(&profile).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User profile not found"})
		return
	}

	if profile.StripeCustomerID == nil || *profile.StripeCustomerID == "" {
		c.JSON(http.StatusNotFound, gin.H{"error": "No subscription found. Please contact support."})
		return
	}

	params := &stripe.SubscriptionListParams{
		Customer: stripe.String(*profile.StripeCustomerID),
		Status:   stripe.String("active"),
	}
	params.Limit = stripe.Int64(1)

	it := subscription.List(params)

	// At most one active subscription per customer is assumed; act on
	// the first listed and ignore any extras.
	var active *stripe.Subscription
	for it.Next() {
		active = it.Subscription()
		break
	}
	if err := it.Err(); err != nil {
		fmt.Println("❌ Stripe subscription list error:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error cancelling subscription"})
		return
	}
	if active == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "No active subscription found"})
		return
	}

	// Flag no-renew. cancel_requested moves the user to pending_cancel,
	// which carries no grant: the store stays untouched until the
	// deleted event.
	if _, grant := entitlement.Apply(entitlement.StateOf(profile.IsPro), entitlement.EventCancelRequested); !grant.Empty() {
		fmt.Println("⚠️ cancel request produced a grant; ignoring:", grant.Updates())
	}

	_, err := subscription.Update(active.ID, &stripe.SubscriptionParams{
		CancelAtPeriodEnd: stripe.Bool(true),
	})
	if err != nil {
		fmt.Println("❌ Stripe subscription update error:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error cancelling subscription"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Subscription will be cancelled at the end of the billing period",
	})
}
