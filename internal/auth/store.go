package auth

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"time"

	"gorm.io/gorm"
)

// Store is the persisted registry of refresh tokens. Revoked and expired rows
// are reported exactly like missing ones so callers cannot tell them apart.
type Store interface {
	Create(db *gorm.DB, userID uint, ttl time.Duration) (raw string, expiresAt time.Time, err error)
	FindLive(db *gorm.DB, raw string) (*RefreshToken, error)
	Revoke(db *gorm.DB, rt *RefreshToken) (bool, error)
	RevokeAllLive(db *gorm.DB, userID uint) error
	PurgeStale(db *gorm.DB, olderThan time.Time) (int64, error)
}

type storeImpl struct{}

func NewStore() Store {
	return &storeImpl{}
}

// newOpaqueToken returns 32 bytes of crypto/rand output, URL-safe encoded.
func newOpaqueToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

// hashToken is the at-rest form: the raw value never touches the database.
func hashToken(raw string) string {
	h := sha256.Sum256([]byte(raw))
	return base64.RawURLEncoding.EncodeToString(h[:])
}

func (s *storeImpl) Create(db *gorm.DB, userID uint, ttl time.Duration) (string, time.Time, error) {
	raw, err := newOpaqueToken()
	if err != nil {
		return "", time.Time{}, err
	}
	rt := RefreshToken{
		UserID:    userID,
		TokenHash: hashToken(raw),
		ExpiresAt: time.Now().Add(ttl),
	}
	if err := db.Create(&rt).Error; err != nil {
		return "", time.Time{}, err
	}
	return raw, rt.ExpiresAt, nil
}

// FindLive resolves the raw opaque value to its row. Missing, revoked and
// expired rows all come back as gorm.ErrRecordNotFound.
func (s *storeImpl) FindLive(db *gorm.DB, raw string) (*RefreshToken, error) {
	var rt RefreshToken
	err := db.
		Where("token_hash = ? AND revoked_at IS NULL AND expires_at > ?", hashToken(raw), time.Now()).
		First(&rt).Error
	if err != nil {
		return nil, err
	}
	return &rt, nil
}

// Revoke marks the row revoked via a conditional update. The WHERE clause on
// revoked_at makes concurrent revoke attempts on the same row resolve to a
// single winner; the return value reports whether this caller won. Calling it
// on an already-revoked row is a no-op.
func (s *storeImpl) Revoke(db *gorm.DB, rt *RefreshToken) (bool, error) {
	now := time.Now()
	res := db.Model(&RefreshToken{}).
		Where("id = ? AND revoked_at IS NULL", rt.ID).
		Update("revoked_at", &now)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

// RevokeAllLive revokes every live row for the user in one statement.
func (s *storeImpl) RevokeAllLive(db *gorm.DB, userID uint) error {
	now := time.Now()
	return db.Model(&RefreshToken{}).
		Where("user_id = ? AND revoked_at IS NULL", userID).
		Update("revoked_at", &now).Error
}

// PurgeStale deletes rows that both expired and were revoked before the
// cutoff. Retention is an audit concern only; correctness never depends on it.
func (s *storeImpl) PurgeStale(db *gorm.DB, olderThan time.Time) (int64, error) {
	res := db.
		Where("expires_at < ? AND revoked_at IS NOT NULL AND revoked_at < ?", olderThan, olderThan).
		Delete(&RefreshToken{})
	return res.RowsAffected, res.Error
}
