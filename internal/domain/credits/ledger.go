package credits

import (
	"roast-app/internal/domain/profiles"

	"gorm.io/gorm"
)

// DebitProfile takes one credit from a user's balance. The decrement and
// the floor check are a single conditional UPDATE so concurrent dispense
// calls for the same user cannot double-spend or lose an update.
// Returns false when no credits remain (zero rows matched).
func DebitProfile(db *gorm.DB, userID string) (bool, error) {
	res := db.Model(&profiles.Profile{}).
		Where("id = ? AND credits > 0", userID).
		UpdateColumn("credits", gorm.Expr("credits - 1"))
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// DebitAnonymous is the same conditional decrement against the
// anonymous counter row.
func DebitAnonymous(db *gorm.DB, anonID string) (bool, error) {
	res := db.Model(&AnonymousCredit{}).
		Where("anon_id = ? AND credits > 0", anonID).
		UpdateColumn("credits", gorm.Expr("credits - 1"))
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
