package server

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/wrenlabs/slate/internal/common"
	"github.com/wrenlabs/slate/internal/models"
)

func testAccount() *models.Account {
	return &models.Account{
		ID:                  "acct_test1234",
		Email:               "alice@example.com",
		Username:            "alice",
		Role:                models.RoleUser,
		IsVerified:          true,
		IsAcceptingMessages: true,
		Money:               150,
		PresentMoney:        120,
		Profit:              30,
		Transactions: []models.Transaction{
			{ID: "txn_1", Kind: models.TransactionCredit, Amount: 150, At: time.Now().UTC()},
		},
	}
}

func TestSignAndValidateJWT_RoundTrip(t *testing.T) {
	cfg := &common.AuthConfig{
		JWTSecret:   "test-secret-key",
		TokenExpiry: "1h",
	}

	token, err := signJWT(testAccount(), cfg)
	if err != nil {
		t.Fatalf("signJWT failed: %v", err)
	}
	if token == "" {
		t.Fatal("expected non-empty token")
	}

	parsed, claims, err := validateJWT(token, []byte(cfg.JWTSecret))
	if err != nil {
		t.Fatalf("validateJWT failed: %v", err)
	}
	if !parsed.Valid {
		t.Error("expected token to be valid")
	}
	if claims["sub"] != "acct_test1234" {
		t.Errorf("expected sub=acct_test1234, got %v", claims["sub"])
	}
	if claims["email"] != "alice@example.com" {
		t.Errorf("expected email=alice@example.com, got %v", claims["email"])
	}
	if claims["username"] != "alice" {
		t.Errorf("expected username=alice, got %v", claims["username"])
	}
	if claims["iss"] != "slate-server" {
		t.Errorf("expected iss=slate-server, got %v", claims["iss"])
	}
	if claims["money"] != float64(150) {
		t.Errorf("expected money=150, got %v", claims["money"])
	}
}

func TestValidateJWT_ExpiredToken(t *testing.T) {
	cfg := &common.AuthConfig{
		JWTSecret:   "test-secret-key",
		TokenExpiry: "-1h", // negative duration = already expired
	}

	token, err := signJWT(testAccount(), cfg)
	if err != nil {
		t.Fatalf("signJWT failed: %v", err)
	}

	_, _, err = validateJWT(token, []byte(cfg.JWTSecret))
	if err == nil {
		t.Error("expected error for expired token")
	}
}

func TestValidateJWT_WrongSecret(t *testing.T) {
	cfg := &common.AuthConfig{
		JWTSecret:   "correct-secret",
		TokenExpiry: "1h",
	}

	token, err := signJWT(testAccount(), cfg)
	if err != nil {
		t.Fatalf("signJWT failed: %v", err)
	}

	_, _, err = validateJWT(token, []byte("wrong-secret"))
	if err == nil {
		t.Error("expected error for wrong secret")
	}
}

func TestSessionFromClaims_RebuildsProjection(t *testing.T) {
	cfg := &common.AuthConfig{
		JWTSecret:   "test-secret-key",
		TokenExpiry: "1h",
	}
	account := testAccount()

	token, err := signJWT(account, cfg)
	if err != nil {
		t.Fatalf("signJWT failed: %v", err)
	}
	_, claims, err := validateJWT(token, []byte(cfg.JWTSecret))
	if err != nil {
		t.Fatalf("validateJWT failed: %v", err)
	}

	sess, err := sessionFromClaims(claims)
	if err != nil {
		t.Fatalf("sessionFromClaims failed: %v", err)
	}
	if sess.AccountID != account.ID {
		t.Errorf("expected AccountID=%s, got %s", account.ID, sess.AccountID)
	}
	if sess.Email != account.Email || sess.Username != account.Username {
		t.Errorf("identity fields not rebuilt: %+v", sess)
	}
	if sess.Money != 150 || sess.PresentMoney != 120 || sess.Profit != 30 {
		t.Errorf("financial fields not rebuilt: %+v", sess)
	}
	if len(sess.Transactions) != 1 {
		t.Fatalf("expected 1 transaction, got %d", len(sess.Transactions))
	}
	if sess.Transactions[0].ID != "txn_1" || sess.Transactions[0].Amount != 150 {
		t.Errorf("transaction not rebuilt: %+v", sess.Transactions[0])
	}
}

func TestSessionFromClaims_MissingSub(t *testing.T) {
	_, err := sessionFromClaims(jwt.MapClaims{"email": "alice@example.com"})
	if err == nil {
		t.Error("expected error for claims without sub")
	}
}

func TestShouldRefreshToken(t *testing.T) {
	now := time.Now().Unix()

	// 50 minutes in, 10 minutes left on a 1h token
	stale := jwt.MapClaims{
		"iat": float64(now - 3000),
		"exp": float64(now + 600),
	}
	if !shouldRefreshToken(stale) {
		t.Error("expected refresh for token past half its lifetime")
	}

	fresh := jwt.MapClaims{
		"iat": float64(now),
		"exp": float64(now + 3600),
	}
	if shouldRefreshToken(fresh) {
		t.Error("did not expect refresh for fresh token")
	}

	if shouldRefreshToken(jwt.MapClaims{"exp": float64(now + 3600)}) {
		t.Error("did not expect refresh when iat is missing")
	}
}

func TestSignSessionFromClaims_PreservesProjection(t *testing.T) {
	cfg := &common.AuthConfig{
		JWTSecret:   "test-secret-key",
		TokenExpiry: "1h",
	}
	sess := &common.Session{
		AccountID: "acct_test1234",
		Email:     "alice@example.com",
		Username:  "alice",
		Role:      models.RoleAdmin,
		Money:     99,
	}

	token, err := signSessionFromClaims(sess, cfg)
	if err != nil {
		t.Fatalf("signSessionFromClaims failed: %v", err)
	}
	_, claims, err := validateJWT(token, []byte(cfg.JWTSecret))
	if err != nil {
		t.Fatalf("validateJWT failed: %v", err)
	}

	rebuilt, err := sessionFromClaims(claims)
	if err != nil {
		t.Fatalf("sessionFromClaims failed: %v", err)
	}
	if rebuilt.AccountID != sess.AccountID || rebuilt.Role != sess.Role || rebuilt.Money != sess.Money {
		t.Errorf("reissued token lost projection fields: %+v", rebuilt)
	}
}
