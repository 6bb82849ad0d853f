package stripewebhooks

import (
	"fmt"

	"roast-app/database"
	"roast-app/internal/domain/entitlement"
	"roast-app/internal/domain/profiles"

	"github.com/stripe/stripe-go/v75"
)

func handleSubscriptionDeleted(sub *stripe.Subscription) error {
	if sub.Customer == nil || sub.Customer.ID == "" {
		return nil
	}

	var profile profiles.Profile
	if err := database.DB.Where("stripe_customer_id = ?", sub.Customer.ID).First(&profile).Error; err != nil {
		// No matching profile; acknowledge so Stripe stops retrying.
		return nil
	}

	_, grant := entitlement.Apply(entitlement.StateOf(profile.IsPro), entitlement.EventSubscriptionDeleted)

	if err := database.DB.Model(&profiles.Profile{}).
		Where("id = ?", profile.ID).
		Updates(grant.Updates()).Error; err != nil {
		return fmt.Errorf("failed to downgrade user %s: %w", profile.ID, err)
	}

	fmt.Printf("User %s downgraded from Pro\n", profile.ID)
	return nil
}
