package auth

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/cleannest/api-marketplace/internal/user"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// newTestRouter wires the auth routes the same way cmd/main.go does, plus a
// gated /me route so the middleware can be exercised end to end.
func newTestRouter(t *testing.T) (*gorm.DB, *Service, http.Handler) {
	t.Helper()

	db := newTestDB(t)
	users := user.NewRepository()
	s := NewService(testConfig(), NewStore(), users)
	h := NewHandler(db, s)
	gate := NewGate(db, s.Codec(), users)

	r := mux.NewRouter()
	r.HandleFunc("/auth/register", h.Register).Methods("POST")
	r.HandleFunc("/auth/login", h.Login).Methods("POST")
	r.HandleFunc("/auth/refresh", h.Refresh).Methods("POST")
	r.HandleFunc("/auth/logout", h.Logout).Methods("POST")
	r.HandleFunc("/auth/password-reset/request", h.RequestPasswordReset).Methods("POST")
	r.HandleFunc("/auth/password-reset/confirm", h.ConfirmPasswordReset).Methods("POST")

	me := r.PathPrefix("/me").Subrouter()
	me.Use(gate.Authenticate)
	me.HandleFunc("", func(w http.ResponseWriter, r *http.Request) {
		u, _ := CurrentUser(r)
		writeJSON(w, http.StatusOK, u)
	}).Methods("GET")

	admin := r.PathPrefix("/admin").Subrouter()
	admin.Use(gate.Authenticate, RequireRole(user.RoleAdmin))
	admin.HandleFunc("", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}).Methods("GET")

	return db, s, r
}

func doJSON(t *testing.T, h http.Handler, method, path string, body any, bearer string) *httptest.ResponseRecorder {
	t.Helper()
	b, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(method, path, bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodePair(t *testing.T, rec *httptest.ResponseRecorder) TokenPair {
	t.Helper()
	var pair TokenPair
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &pair))
	return pair
}

func errorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body["code"]
}

func registerViaHTTP(t *testing.T, h http.Handler) TokenPair {
	t.Helper()
	rec := doJSON(t, h, "POST", "/auth/register", RegisterRequest{
		Email:    "alice@example.com",
		Password: "Secret123!",
	}, "")
	require.Equal(t, http.StatusCreated, rec.Code)
	return decodePair(t, rec)
}

func TestHandlerRegister(t *testing.T) {
	_, _, h := newTestRouter(t)

	pair := registerViaHTTP(t, h)
	require.NotEmpty(t, pair.AccessToken)
	require.NotEmpty(t, pair.RefreshToken)
	require.Equal(t, "bearer", pair.TokenType)
	require.Greater(t, pair.ExpiresIn, 0)

	rec := doJSON(t, h, "POST", "/auth/register", RegisterRequest{
		Email:    "alice@example.com",
		Password: "Other",
	}, "")
	require.Equal(t, http.StatusConflict, rec.Code)
	require.Equal(t, "USER_EXISTS", errorCode(t, rec))
}

func TestHandlerRegisterMissingFields(t *testing.T) {
	_, _, h := newTestRouter(t)

	rec := doJSON(t, h, "POST", "/auth/register", RegisterRequest{Email: "a@b.c"}, "")
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandlerLoginWrongPassword(t *testing.T) {
	_, _, h := newTestRouter(t)
	registerViaHTTP(t, h)

	rec := doJSON(t, h, "POST", "/auth/login", LoginRequest{
		Email:    "alice@example.com",
		Password: "WrongPassword",
	}, "")
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Equal(t, "INVALID_CREDENTIALS", errorCode(t, rec))
}

func TestHandlerRefreshGarbage(t *testing.T) {
	_, _, h := newTestRouter(t)
	registerViaHTTP(t, h)

	rec := doJSON(t, h, "POST", "/auth/refresh", RefreshRequest{RefreshToken: "garbage"}, "")
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Equal(t, "INVALID_REFRESH_TOKEN", errorCode(t, rec))
}

func TestHandlerRefreshRotatesPair(t *testing.T) {
	_, _, h := newTestRouter(t)
	pair := registerViaHTTP(t, h)

	rec := doJSON(t, h, "POST", "/auth/refresh", RefreshRequest{RefreshToken: pair.RefreshToken}, "")
	require.Equal(t, http.StatusOK, rec.Code)
	next := decodePair(t, rec)
	require.NotEqual(t, pair.RefreshToken, next.RefreshToken)

	rec = doJSON(t, h, "POST", "/auth/refresh", RefreshRequest{RefreshToken: pair.RefreshToken}, "")
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestHandlerLogoutAlwaysSucceeds(t *testing.T) {
	_, _, h := newTestRouter(t)
	pair := registerViaHTTP(t, h)

	for _, token := range []string{pair.RefreshToken, pair.RefreshToken, "never-issued"} {
		rec := doJSON(t, h, "POST", "/auth/logout", RefreshRequest{RefreshToken: token}, "")
		require.Equal(t, http.StatusOK, rec.Code)
	}
}

func TestHandlerResetRequestIndistinguishable(t *testing.T) {
	_, _, h := newTestRouter(t)
	registerViaHTTP(t, h)

	known := doJSON(t, h, "POST", "/auth/password-reset/request", ResetRequest{Email: "alice@example.com"}, "")
	unknown := doJSON(t, h, "POST", "/auth/password-reset/request", ResetRequest{Email: "ghost@example.com"}, "")

	require.Equal(t, known.Code, unknown.Code)
	require.Equal(t, known.Body.String(), unknown.Body.String())
}

func TestHandlerResetConfirmUnknownToken(t *testing.T) {
	_, _, h := newTestRouter(t)

	rec := doJSON(t, h, "POST", "/auth/password-reset/confirm", ResetConfirmRequest{
		Token:       "no-such-token",
		NewPassword: "NewSecret456!",
	}, "")
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, "INVALID_RESET_TOKEN", errorCode(t, rec))
}

func TestMiddlewareResolvesCurrentUser(t *testing.T) {
	_, _, h := newTestRouter(t)
	pair := registerViaHTTP(t, h)

	rec := doJSON(t, h, "GET", "/me", nil, pair.AccessToken)
	require.Equal(t, http.StatusOK, rec.Code)

	var u user.User
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &u))
	require.Equal(t, "alice@example.com", u.Email)
}

func TestMiddlewareRejectsMissingAndBadTokens(t *testing.T) {
	_, s, h := newTestRouter(t)

	rec := doJSON(t, h, "GET", "/me", nil, "")
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = doJSON(t, h, "GET", "/me", nil, "not-a-token")
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	// well-signed but expired
	expired, err := s.Codec().Issue(1, "a@b.c", user.RoleCustomer, -time.Minute)
	require.NoError(t, err)
	rec = doJSON(t, h, "GET", "/me", nil, expired)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestMiddlewareRechecksAccountStatus(t *testing.T) {
	db, _, h := newTestRouter(t)
	pair := registerViaHTTP(t, h)

	require.NoError(t, db.Model(&user.User{}).
		Where("email = ?", "alice@example.com").
		Update("status", user.StatusSuspended).Error)

	// the claims are still valid, the account no longer is
	rec := doJSON(t, h, "GET", "/me", nil, pair.AccessToken)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireRoleForbidsNonAdmins(t *testing.T) {
	db, _, h := newTestRouter(t)
	registerViaHTTP(t, h)

	rec := doJSON(t, h, "POST", "/auth/login", LoginRequest{
		Email:    "alice@example.com",
		Password: "Secret123!",
	}, "")
	require.Equal(t, http.StatusOK, rec.Code)
	customerPair := decodePair(t, rec)

	rec = doJSON(t, h, "GET", "/admin", nil, customerPair.AccessToken)
	require.Equal(t, http.StatusForbidden, rec.Code)

	// promote and log in again: the fresh token carries the admin role
	require.NoError(t, db.Model(&user.User{}).
		Where("email = ?", "alice@example.com").
		Update("role", user.RoleAdmin).Error)
	rec = doJSON(t, h, "POST", "/auth/login", LoginRequest{
		Email:    "alice@example.com",
		Password: "Secret123!",
	}, "")
	require.Equal(t, http.StatusOK, rec.Code)
	adminPair := decodePair(t, rec)

	rec = doJSON(t, h, "GET", "/admin", nil, adminPair.AccessToken)
	require.Equal(t, http.StatusOK, rec.Code)
}
