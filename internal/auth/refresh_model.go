package auth

import "time"

// RefreshToken is the persisted registry row for one opaque refresh credential.
// Only the SHA-256 of the handed-out value is stored. Rows are never deleted on
// revocation; RevokedAt is set exactly once (see Store.Revoke).
type RefreshToken struct {
	ID        uint      `gorm:"primaryKey"`
	UserID    uint      `gorm:"index"`
	TokenHash string    `gorm:"uniqueIndex"`
	ExpiresAt time.Time `gorm:"index"`
	RevokedAt *time.Time
	CreatedAt time.Time
}

// Live reports whether the row is neither revoked nor expired at now.
func (rt *RefreshToken) Live(now time.Time) bool {
	return rt.RevokedAt == nil && now.Before(rt.ExpiresAt)
}
