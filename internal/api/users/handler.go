package users

import (
	"net/http"

	"roast-app/database"
	"roast-app/internal/domain/entitlement"
	"roast-app/internal/domain/profiles"

	"github.com/gin-gonic/gin"
)

func GetCurrentUser(c *gin.Context) {
	userID := c.GetString("user_id")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var profile profiles.Profile
	if err := database.DB.Where("id = ?", userID).First(&profile).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	c.JSON(http.StatusOK, BuildMeResponse(profile))
}

func BuildMeResponse(profile profiles.Profile) MeResponse {
	quota := profiles.FreeCredits
	if profile.IsPro {
		quota = profiles.ProCredits
	}

	return MeResponse{
		User: UserDTO{
			ID:           profile.ID,
			Email:        profile.Email,
			AuthProvider: profile.AuthProvider,
			CreatedAt:    profile.CreatedAt,
		},
		Entitlement: EntitlementDTO{
			State:         string(entitlement.StateOf(profile.IsPro)),
			Credits:       profile.Credits,
			IsPro:         profile.IsPro,
			Quota:         quota,
			BillingLinked: profile.StripeCustomerID != nil && *profile.StripeCustomerID != "",
		},
	}
}
