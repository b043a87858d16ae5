package auth

import (
	"errors"
	"log"
	"time"

	"github.com/cleannest/api-marketplace/internal/user"
	"github.com/cleannest/api-marketplace/internal/utils"
	"gorm.io/gorm"
)

// bcrypt hash of a throwaway value; compared against when the email does not
// match any user so both login paths cost one bcrypt verification.
const dummyPasswordHash = "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"

// Service orchestrates login, registration, refresh rotation and logout.
type Service struct {
	cfg   Config
	codec *Codec
	store Store
	users user.Repository
}

func NewService(cfg Config, store Store, users user.Repository) *Service {
	return &Service{
		cfg:   cfg,
		codec: NewCodec(cfg),
		store: store,
		users: users,
	}
}

// Codec exposes the access-token codec for the middleware.
func (s *Service) Codec() *Codec { return s.codec }

// Register creates a customer account and signs it in.
func (s *Service) Register(db *gorm.DB, req RegisterRequest) (*TokenPair, error) {
	if _, err := s.users.FindByEmail(db, req.Email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}
	u := user.User{
		Email:        req.Email,
		PasswordHash: hash,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Phone:        req.Phone,
		Role:         user.RoleCustomer,
		Status:       user.StatusActive,
	}
	if err := s.users.Create(db, &u); err != nil {
		return nil, err
	}
	return s.issue(db, &u)
}

// Login validates the credentials and signs the user in.
func (s *Service) Login(db *gorm.DB, email, password string) (*TokenPair, error) {
	u, err := s.users.FindByEmail(db, email)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		// burn a bcrypt comparison so the miss path is not faster
		utils.CheckPassword(dummyPasswordHash, password)
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if !utils.CheckPassword(u.PasswordHash, password) {
		return nil, ErrInvalidCredentials
	}
	if !u.IsActive() {
		return nil, ErrAccountInactive
	}

	now := time.Now()
	u.LastLoginAt = &now
	if err := s.users.Save(db, u); err != nil {
		return nil, err
	}
	return s.issue(db, u)
}

// Refresh rotates the presented refresh token: the row is revoked and a fresh
// access+refresh pair issued. The raw value is only ever used as a lookup key.
// Replaying a rotated token, an expired token and an unknown string all fail
// with the same ErrInvalidRefreshToken.
func (s *Service) Refresh(db *gorm.DB, raw string) (*TokenPair, error) {
	rt, err := s.store.FindLive(db, raw)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrInvalidRefreshToken
	}
	if err != nil {
		return nil, err
	}

	u, err := s.users.FindByID(db, rt.UserID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrAccountInactive
	}
	if err != nil {
		return nil, err
	}
	if !u.IsActive() {
		return nil, ErrAccountInactive
	}

	won, err := s.store.Revoke(db, rt)
	if err != nil {
		return nil, err
	}
	if !won {
		// lost the race against a concurrent refresh of the same token:
		// treat it as a replay
		log.Printf("auth: refresh token replay detected for user %d", rt.UserID)
		return nil, ErrInvalidRefreshToken
	}
	return s.issue(db, u)
}

// Logout revokes the matching row if there is one. It never reports whether
// the token was valid and is safe to call repeatedly.
func (s *Service) Logout(db *gorm.DB, raw string) error {
	rt, err := s.store.FindLive(db, raw)
	if err != nil {
		return nil
	}
	_, err = s.store.Revoke(db, rt)
	if err != nil {
		log.Printf("auth: logout revoke failed: %v", err)
	}
	return nil
}

// issue produces the matched access+refresh pair. The access token is signed
// before the refresh row is persisted, so a failure partway leaves nothing
// behind: either both tokens reach the caller or neither exists.
func (s *Service) issue(db *gorm.DB, u *user.User) (*TokenPair, error) {
	access, err := s.codec.Issue(u.ID, u.Email, u.Role, s.cfg.AccessTTL)
	if err != nil {
		return nil, err
	}
	refresh, _, err := s.store.Create(db, u.ID, s.cfg.RefreshTTL)
	if err != nil {
		return nil, err
	}
	return &TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
		TokenType:    "bearer",
		ExpiresIn:    int(s.cfg.AccessTTL.Seconds()),
	}, nil
}
