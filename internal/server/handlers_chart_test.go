package server

import (
	"bytes"
	"context"
	"net/http"
	"testing"

	"github.com/wrenlabs/slate/internal/models"
)

var pngMagic = []byte{0x89, 'P', 'N', 'G'}

func TestHandleFinanceChart_RendersPNG(t *testing.T) {
	srv, _ := newTestServer(t)
	account := createTestAccount(t, srv, "chart@example.com", "chart", "password123", models.RoleUser)

	store := srv.app.Storage.AccountStore()
	ctx := context.Background()
	for _, tx := range []models.Transaction{
		{Kind: models.TransactionCredit, Amount: 500},
		{Kind: models.TransactionDebit, Amount: 120},
		{Kind: models.TransactionCredit, Amount: 75},
	} {
		if err := store.AppendTransaction(ctx, account.ID, tx); err != nil {
			t.Fatalf("AppendTransaction failed: %v", err)
		}
	}

	token := loginToken(t, srv, "chart@example.com", "password123")
	rec := doRequest(t, srv, http.MethodGet, "/api/user/finance-chart", token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); ct != "image/png" {
		t.Errorf("expected image/png, got %q", ct)
	}
	if !bytes.HasPrefix(rec.Body.Bytes(), pngMagic) {
		t.Error("response body is not a PNG")
	}
}

func TestHandleFinanceChart_TooFewTransactions(t *testing.T) {
	srv, _ := newTestServer(t)
	createTestAccount(t, srv, "flat@example.com", "flat", "password123", models.RoleUser)

	token := loginToken(t, srv, "flat@example.com", "password123")
	rec := doRequest(t, srv, http.MethodGet, "/api/user/finance-chart", token, nil)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 with no ledger history, got %d", rec.Code)
	}
}

func TestHandleFinanceChart_RequiresAuth(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := doRequest(t, srv, http.MethodGet, "/api/user/finance-chart", "", nil)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestRenderBalanceChart_BalanceWalk(t *testing.T) {
	account := &models.Account{
		Money: 455,
		Transactions: []models.Transaction{
			{Kind: models.TransactionCredit, Amount: 500},
			{Kind: models.TransactionDebit, Amount: 120},
			{Kind: models.TransactionCredit, Amount: 75},
		},
	}

	png, err := renderBalanceChart(account)
	if err != nil {
		t.Fatalf("renderBalanceChart failed: %v", err)
	}
	if len(png) == 0 {
		t.Error("expected PNG bytes")
	}
}
