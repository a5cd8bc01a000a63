package backend

import "errors"

var (
	// ErrWalletExists is returned by Store.Create when the wallet name is taken.
	ErrWalletExists = errors.New("wallet already exists")

	// ErrWalletNotFound is returned when no wallet with the given name exists.
	ErrWalletNotFound = errors.New("wallet not found")

	// ErrKeyMismatch is returned by Store.Load when the supplied key does not
	// belong to the stored wallet.
	ErrKeyMismatch = errors.New("key does not match wallet")

	// ErrInsufficientFunds is returned by Handle.SendTo when the wallet
	// balance does not cover the requested amount.
	ErrInsufficientFunds = errors.New("insufficient funds")

	// ErrInvalidAddress is returned by Handle.SendTo for a destination
	// address that does not decode for the wallet's network.
	ErrInvalidAddress = errors.New("invalid address")

	// ErrInvalidAmount is returned by Handle.SendTo for a malformed,
	// zero or wrong-currency amount string.
	ErrInvalidAmount = errors.New("invalid amount")
)
