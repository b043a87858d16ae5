package auth

import (
	"errors"
	"time"

	"github.com/cleannest/api-marketplace/internal/notify"
	"github.com/cleannest/api-marketplace/internal/utils"
	"gorm.io/gorm"
)

// RequestReset stores a single-use reset token on the user record, replacing
// any earlier outstanding one. It returns nil whether or not the email exists;
// the handler answers with one fixed message either way (anti-enumeration).
func (s *Service) RequestReset(db *gorm.DB, email string) error {
	// generate up front so both paths do the same work
	token, err := newOpaqueToken()
	if err != nil {
		return err
	}
	expires := time.Now().Add(s.cfg.ResetTTL)

	u, err := s.users.FindByEmail(db, email)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	u.PasswordResetToken = &token
	u.PasswordResetExpires = &expires
	if err := s.users.Save(db, u); err != nil {
		return err
	}
	// off the request path so delivery time cannot distinguish the two paths
	go notify.SendPasswordReset(u.Email, token)
	return nil
}

// ConfirmReset consumes the token: new password hash, token cleared, and every
// live refresh token for the user revoked so all existing sessions end.
func (s *Service) ConfirmReset(db *gorm.DB, token, newPassword string) error {
	if token == "" {
		return ErrInvalidResetToken
	}
	u, err := s.users.FindByResetToken(db, token)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrInvalidResetToken
	}
	if err != nil {
		return err
	}
	if u.PasswordResetExpires == nil || !time.Now().Before(*u.PasswordResetExpires) {
		return ErrInvalidResetToken
	}

	hash, err := utils.HashPassword(newPassword)
	if err != nil {
		return err
	}
	u.PasswordHash = hash
	u.PasswordResetToken = nil
	u.PasswordResetExpires = nil
	if err := s.users.Save(db, u); err != nil {
		return err
	}
	return s.store.RevokeAllLive(db, u.ID)
}
