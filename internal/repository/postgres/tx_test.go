//go:build !integration

package postgres

import (
	"context"
	"testing"

	"gorm.io/gorm"
)

func TestTxFrom(t *testing.T) {
	if _, ok := txFrom(context.Background()); ok {
		t.Fatal("plain context must not carry a transaction")
	}

	tx := &gorm.DB{}
	got, ok := txFrom(withTx(context.Background(), tx))
	if !ok || got != tx {
		t.Fatalf("got %p (%v), want %p", got, ok, tx)
	}

	if _, ok := txFrom(withTx(context.Background(), nil)); ok {
		t.Fatal("nil transaction must be ignored")
	}
}
