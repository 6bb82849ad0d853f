package stripewebhooks

import (
	"fmt"

	"roast-app/database"
	"roast-app/internal/domain/entitlement"
	"roast-app/internal/domain/profiles"

	"github.com/stripe/stripe-go/v75"
)

func handleCheckoutSessionCompleted(session *stripe.CheckoutSession) error {
	// Identify user: metadata.user_id preferred, else ClientReferenceID
	userID := userIDFromSession(session)
	if userID == "" {
		// Nothing to match against; drop, don't retry.
		fmt.Println("checkout.session.completed without user id, dropping:", session.ID)
		return nil
	}

	// Checkout upgrades from any prior state; the grant is the same
	// absolute assignment regardless, which keeps replays idempotent.
	_, grant := entitlement.Apply(entitlement.StateFree, entitlement.EventCheckoutCompleted)

	updates := grant.Updates()
	if session.Customer != nil && session.Customer.ID != "" {
		updates["stripe_customer_id"] = session.Customer.ID
	}

	res := database.DB.Model(&profiles.Profile{}).
		Where("id = ?", userID).
		Updates(updates)
	if res.Error != nil {
		return fmt.Errorf("failed to upgrade user %s after checkout: %w", userID, res.Error)
	}
	if res.RowsAffected == 0 {
		// Recovered id matches no profile; drop, don't retry.
		fmt.Println("checkout.session.completed for unknown user, dropping:", userID)
		return nil
	}

	fmt.Printf("User %s upgraded to Pro\n", userID)
	return nil
}

func userIDFromSession(session *stripe.CheckoutSession) string {
	if session.Metadata != nil {
		if id := session.Metadata["user_id"]; id != "" {
			return id
		}
	}
	return session.ClientReferenceID
}
