// Package backend defines the contract the wallet facade expects from a
// wallet storage backend: wallet creation and lookup keyed by name,
// deterministic key derivation from a mnemonic passphrase, and per-wallet
// balance/address/send operations on a loaded handle.
package backend

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// Store manages persisted wallets by name.
type Store interface {
	// Create creates a new wallet keyed by the given key material (a mnemonic
	// passphrase). Returns ErrWalletExists if the name is already taken.
	Create(ctx context.Context, name, keys, network, owner string) (Handle, error)

	// Load opens an existing wallet. key is the private key hex previously
	// derived from the wallet's passphrase via KeyFromPassphrase.
	// Returns ErrWalletNotFound if no wallet with that name exists and
	// ErrKeyMismatch if the key does not match the stored wallet.
	Load(ctx context.Context, name, key string) (Handle, error)

	// Delete removes the wallet and its persisted state.
	// Returns ErrWalletNotFound if no wallet with that name exists.
	Delete(ctx context.Context, name string) (bool, error)

	// KeyFromPassphrase deterministically derives a private key hex from a
	// mnemonic passphrase for the given network.
	KeyFromPassphrase(passphrase, network string) (string, error)
}

// Handle is a loaded wallet.
type Handle interface {
	// ID returns the numeric wallet id assigned by the store.
	ID() int64

	// Address returns the wallet's primary receive address.
	Address(ctx context.Context) (string, error)

	// Scan refreshes the wallet's balance from its ledger.
	Scan(ctx context.Context) error

	// Balance returns the total balance in base units (satoshis) as an
	// exact decimal quantity.
	Balance(ctx context.Context, network string) (decimal.Decimal, error)

	// BalanceString returns the balance formatted as "<amount> <currency>",
	// e.g. "0.00200000 LTC".
	BalanceString(ctx context.Context) (string, error)

	// SendTo sends funds to the given address. amount is formatted as
	// "<amount> <currency>". Returns ErrInsufficientFunds, ErrInvalidAddress
	// or ErrInvalidAmount on failure.
	SendTo(ctx context.Context, address, amount string) (*Transaction, error)
}

// Transaction describes an outgoing transaction created by Handle.SendTo.
type Transaction struct {
	TxID   string    `json:"txId"`
	To     string    `json:"to"`
	Amount string    `json:"amount"`
	Status string    `json:"status"`
	Time   time.Time `json:"time"`
}
