package roasts

import (
	"crypto/rand"
	"encoding/hex"
	"net/http"

	"roast-app/database"
	"roast-app/internal/domain/credits"
	"roast-app/internal/domain/profiles"
	"roast-app/internal/domain/roasts"

	"github.com/gin-gonic/gin"
)

const anonCookieName = "anon_id"

// One year; the anonymous counter should survive browser restarts.
const anonCookieMaxAge = 365 * 24 * 60 * 60

// POST /api/roast
//
// Running out of credits is a normal outcome, not an error: it comes
// back as 200 with upgrade_required so the client can flip to the
// paywall instead of an error screen.
func Dispense(c *gin.Context) {
	userID := c.GetString("user_id")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not identified"})
		return
	}

	ok, err := credits.DebitProfile(database.DB, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update credits"})
		return
	}
	if !ok {
		c.JSON(http.StatusOK, gin.H{
			"upgrade_required": true,
			"credits":          0,
			"message":          "Out of credits. Upgrade to Pro for 100 roasts a month.",
		})
		return
	}

	var profile profiles.Profile
	remaining := 0
	if err := database.DB.Select("credits").Where("id = ?", userID).First(&profile).Error; err == nil {
		remaining = profile.Credits
	}

	c.JSON(http.StatusOK, gin.H{
		"roast":   roasts.Random(),
		"credits": remaining,
	})
}

// POST /api/roast/anonymous
//
// Visitors without an account get a counter row keyed by an opaque id we
// set in a cookie. Same debit semantics as the authenticated ledger, but
// the only replenishment path is signing up.
func DispenseAnonymous(c *gin.Context) {
	anonID, err := c.Cookie(anonCookieName)
	if err != nil || anonID == "" {
		anonID = newAnonID()
		c.SetCookie(anonCookieName, anonID, anonCookieMaxAge, "/", "", false, true)
	}

	var counter credits.AnonymousCredit
	if err := database.DB.
		Where(credits.AnonymousCredit{AnonID: anonID}).
		Attrs(credits.AnonymousCredit{Credits: profiles.FreeCredits}).
		FirstOrCreate(&counter).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load credits"})
		return
	}

	ok, err := credits.DebitAnonymous(database.DB, anonID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update credits"})
		return
	}
	if !ok {
		c.JSON(http.StatusOK, gin.H{
			"signup_required": true,
			"credits":         0,
			"message":         "Out of free roasts. Sign up for 3 more.",
		})
		return
	}

	remaining := counter.Credits - 1
	if remaining < 0 {
		remaining = 0
	}

	c.JSON(http.StatusOK, gin.H{
		"roast":   roasts.Random(),
		"credits": remaining,
	})
}

func newAnonID() string {
	bytes := make([]byte, 16)
	rand.Read(bytes)
	return hex.EncodeToString(bytes)
}
