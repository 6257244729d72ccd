package surrealdb

import (
	"context"
	"errors"
	"testing"

	"github.com/surrealdb/surrealdb.go"
	"github.com/wrenlabs/slate/internal/common"
)

func TestConnRetriesAfterFailure(t *testing.T) {
	m, err := NewManager(common.NewSilentLogger(), &common.SurrealConfig{
		Address:   "ws://localhost:1",
		Namespace: "test",
		Database:  "test",
	})
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}

	dials := 0
	m.dial = func(string) (*surrealdb.DB, error) {
		dials++
		return nil, errors.New("connection refused")
	}

	ctx := context.Background()
	if _, err := m.conn(ctx); err == nil {
		t.Fatal("first conn should fail")
	}
	// A failed attempt must not be cached; the next call dials again.
	if _, err := m.conn(ctx); err == nil {
		t.Fatal("second conn should fail")
	}
	if dials != 2 {
		t.Errorf("expected 2 dial attempts, got %d", dials)
	}
}

func TestNewManagerRequiresAddress(t *testing.T) {
	if _, err := NewManager(common.NewSilentLogger(), &common.SurrealConfig{}); err == nil {
		t.Error("expected error for empty address")
	}
}
