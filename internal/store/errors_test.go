package store

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsNotFoundError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected bool
	}{
		{name: "nil error", err: nil, expected: false},
		{name: "generic error", err: errors.New("some error"), expected: false},
		{name: "ErrNotFound", err: ErrNotFound, expected: true},
		{name: "wrapped ErrNotFound", err: fmt.Errorf("lookup: %w", ErrNotFound), expected: true},
		{name: "ErrProfileNotFound", err: ErrProfileNotFound, expected: true},
		{name: "ErrDeckNotFound", err: ErrDeckNotFound, expected: true},
		{name: "ErrShopItemNotFound wrapped", err: fmt.Errorf("buy: %w", ErrShopItemNotFound), expected: true},
		{name: "store error around not found", err: NewStoreError("deck", "get", "missing", ErrDeckNotFound), expected: true},
		{name: "duplicate is not not-found", err: ErrPurchaseExists, expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, IsNotFoundError(tt.err))
		})
	}
}

func TestIsDuplicateError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected bool
	}{
		{name: "nil error", err: nil, expected: false},
		{name: "ErrDuplicate", err: ErrDuplicate, expected: true},
		{name: "ErrPurchaseExists", err: ErrPurchaseExists, expected: true},
		{name: "ErrProfileExists wrapped", err: fmt.Errorf("create: %w", ErrProfileExists), expected: true},
		{name: "not found", err: ErrProfileNotFound, expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, IsDuplicateError(tt.err))
		})
	}
}

func TestStoreError(t *testing.T) {
	t.Run("with wrapped error", func(t *testing.T) {
		err := NewStoreError("purchase", "commit", "balance too low", ErrInsufficientBalance)
		assert.Equal(t,
			"commit operation on purchase failed: balance too low: insufficient xp balance",
			err.Error())
		assert.ErrorIs(t, err, ErrInsufficientBalance)

		var storeErr *StoreError
		assert.True(t, errors.As(fmt.Errorf("outer: %w", err), &storeErr))
		assert.Equal(t, "purchase", storeErr.Entity)
	})

	t.Run("without wrapped error", func(t *testing.T) {
		err := NewStoreError("profile", "update", "nothing to update", nil)
		assert.Equal(t, "update operation on profile failed: nothing to update", err.Error())
		assert.Nil(t, err.Unwrap())
	})
}
