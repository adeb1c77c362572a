package wallet

import (
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWallet(t *testing.T) {
	t.Run("creates active wallet", func(t *testing.T) {
		userID := uuid.New()
		w, err := NewWallet(userID, 10000)
		require.NoError(t, err)
		assert.Equal(t, userID, w.UserID)
		assert.Equal(t, int64(10000), w.Balance)
		assert.Equal(t, StatusActive, w.Status)
		assert.Equal(t, 1, w.Version)
	})

	t.Run("zero initial balance is allowed", func(t *testing.T) {
		w, err := NewWallet(uuid.New(), 0)
		require.NoError(t, err)
		assert.Equal(t, int64(0), w.Balance)
	})

	t.Run("negative initial balance is rejected", func(t *testing.T) {
		w, err := NewWallet(uuid.New(), -1)
		assert.ErrorIs(t, err, ErrInvalidAmount)
		assert.Nil(t, w)
	})

	t.Run("nil user is rejected", func(t *testing.T) {
		w, err := NewWallet(uuid.Nil, 100)
		assert.Error(t, err)
		assert.Nil(t, w)
	})
}

func TestWallet_Credit(t *testing.T) {
	w, err := NewWallet(uuid.New(), 1000)
	require.NoError(t, err)

	t.Run("adds to balance and bumps version", func(t *testing.T) {
		err := w.Credit(500)
		require.NoError(t, err)
		assert.Equal(t, int64(1500), w.Balance)
		assert.Equal(t, 2, w.Version)
	})

	t.Run("rejects zero amount", func(t *testing.T) {
		assert.ErrorIs(t, w.Credit(0), ErrInvalidAmount)
	})

	t.Run("rejects negative amount", func(t *testing.T) {
		assert.ErrorIs(t, w.Credit(-100), ErrInvalidAmount)
	})
}

func TestWallet_Debit(t *testing.T) {
	t.Run("subtracts from balance", func(t *testing.T) {
		w, err := NewWallet(uuid.New(), 1000)
		require.NoError(t, err)

		err = w.Debit(400)
		require.NoError(t, err)
		assert.Equal(t, int64(600), w.Balance)
		assert.Equal(t, 2, w.Version)
	})

	t.Run("allows draining the wallet to zero", func(t *testing.T) {
		w, err := NewWallet(uuid.New(), 1000)
		require.NoError(t, err)

		err = w.Debit(1000)
		require.NoError(t, err)
		assert.Equal(t, int64(0), w.Balance)
	})

	t.Run("rejects overdraw", func(t *testing.T) {
		w, err := NewWallet(uuid.New(), 1000)
		require.NoError(t, err)

		err = w.Debit(1001)
		assert.ErrorIs(t, err, ErrInsufficientBalance)
		assert.Equal(t, int64(1000), w.Balance)
	})

	t.Run("rejects non-positive amount", func(t *testing.T) {
		w, err := NewWallet(uuid.New(), 1000)
		require.NoError(t, err)

		assert.ErrorIs(t, w.Debit(0), ErrInvalidAmount)
		assert.ErrorIs(t, w.Debit(-5), ErrInvalidAmount)
	})
}

func TestWallet_CanDebit(t *testing.T) {
	w, err := NewWallet(uuid.New(), 1000)
	require.NoError(t, err)

	assert.True(t, w.CanDebit(1000))
	assert.True(t, w.CanDebit(1))
	assert.False(t, w.CanDebit(1001))
}

func TestWallet_IsActive(t *testing.T) {
	w, err := NewWallet(uuid.New(), 0)
	require.NoError(t, err)
	assert.True(t, w.IsActive())

	w.Status = StatusSuspended
	assert.False(t, w.IsActive())
}

func TestErrWalletNotFound_Is(t *testing.T) {
	userID := uuid.New()
	err := ErrWalletNotFound{UserID: userID}

	assert.True(t, errors.Is(err, ErrWalletNotFound{}))
	assert.True(t, errors.Is(err, ErrWalletNotFound{UserID: userID}))
	assert.False(t, errors.Is(err, ErrWalletNotFound{UserID: uuid.New()}))
	assert.False(t, errors.Is(err, ErrWalletSuspended{}))
}

func TestErrWalletSuspended_Is(t *testing.T) {
	userID := uuid.New()
	err := ErrWalletSuspended{UserID: userID}

	assert.True(t, errors.Is(err, ErrWalletSuspended{}))
	assert.True(t, errors.Is(err, ErrWalletSuspended{UserID: userID}))
	assert.False(t, errors.Is(err, ErrWalletSuspended{UserID: uuid.New()}))
}
