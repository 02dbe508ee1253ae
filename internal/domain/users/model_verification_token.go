package users

import "time"

// VerificationToken is a single-use email verification token. Registration
// and resend both write one (replacing any previous token for the user), and
// GET /verify consumes and deletes it once the account is flagged verified.
type VerificationToken struct {
	ID        uint   `gorm:"primaryKey"`
	UserID    uint   `gorm:"uniqueIndex"`
	User      User   `gorm:"constraint:OnDelete:CASCADE"`
	Token     string `gorm:"uniqueIndex"`
	Type      string `gorm:"index"` // "email_verification"
	ExpiresAt time.Time
	CreatedAt time.Time
}
