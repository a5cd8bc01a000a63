// Package wallet provides a thin facade over a wallet storage backend.
// A Wallet is identified by name, keyed by a mnemonic passphrase, and
// lazily loads its backend handle on first use.
package wallet

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/shopspring/decimal"
	"github.com/tyler-smith/go-bip39"
	"go.uber.org/zap"

	"github.com/AlexZinkM/crypto-wallet/internal/backend"
)

// mnemonicEntropyBits is the entropy size for generated 24-word passphrases.
const mnemonicEntropyBits = 256

// Options configures a Wallet facade.
type Options struct {
	Passphrase  string
	Network     string // defaults to "litecoin"
	MainAddress string // default destination for Send
	Owner       string // opaque correlation id, stored with the wallet
	Fees        FeeTable
	Logger      *zap.Logger
}

// Wallet mediates between caller intents and one backend wallet handle.
// All operations lazily load the handle on first use; a Wallet is safe
// for concurrent use.
type Wallet struct {
	store backend.Store
	log   *zap.Logger

	name       string
	network    string
	mainAddr   string
	owner      string
	fees       FeeTable
	passphrase string

	mu     sync.Mutex
	handle backend.Handle
	id     int64
}

// New creates a wallet facade for the named wallet. The backend wallet is
// not touched until the first operation.
func New(store backend.Store, name string, opts Options) *Wallet {
	if opts.Network == "" {
		opts.Network = "litecoin"
	}
	if opts.Fees == nil {
		opts.Fees = DefaultFees()
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}

	return &Wallet{
		store:      store,
		log:        opts.Logger,
		name:       name,
		network:    opts.Network,
		mainAddr:   opts.MainAddress,
		owner:      opts.Owner,
		fees:       opts.Fees,
		passphrase: opts.Passphrase,
	}
}

// CreateOrLoad creates the backend wallet, generating a fresh mnemonic
// passphrase if none was supplied. If a wallet with this name already
// exists, it falls back to loading it from the passphrase.
func (w *Wallet) CreateOrLoad(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.passphrase == "" {
		mnemonic, err := generateMnemonic()
		if err != nil {
			return fmt.Errorf("generate passphrase: %w", err)
		}
		w.passphrase = mnemonic
	}

	h, err := w.store.Create(ctx, w.name, w.passphrase, w.network, w.owner)
	if err != nil {
		if errors.Is(err, backend.ErrWalletExists) {
			w.log.Debug("wallet already exists, loading", zap.String("name", w.name))
			return w.loadLocked(ctx)
		}
		return fmt.Errorf("create wallet %q: %w", w.name, err)
	}

	w.handle = h
	w.id = h.ID()
	w.log.Debug("wallet created", zap.String("name", w.name), zap.Int64("id", w.id))
	return nil
}

// LoadFromPassphrase loads the backend wallet with the key derived from
// the passphrase. Returns a PassphraseError if the passphrase is empty.
func (w *Wallet) LoadFromPassphrase(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.loadLocked(ctx)
}

// loadLocked performs the load path. Callers must hold w.mu.
func (w *Wallet) loadLocked(ctx context.Context) error {
	if w.passphrase == "" {
		return &PassphraseError{Name: w.name}
	}

	key, err := w.store.KeyFromPassphrase(w.passphrase, w.network)
	if err != nil {
		return fmt.Errorf("derive key for wallet %q: %w", w.name, err)
	}

	h, err := w.store.Load(ctx, w.name, key)
	if err != nil {
		return fmt.Errorf("load wallet %q: %w", w.name, err)
	}

	w.handle = h
	w.id = h.ID()
	w.log.Debug("wallet loaded", zap.String("name", w.name), zap.Int64("id", w.id))
	return nil
}

// ensureLoaded returns the backend handle, loading it first if needed.
func (w *Wallet) ensureLoaded(ctx context.Context) (backend.Handle, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.handle != nil {
		return w.handle, nil
	}
	if err := w.loadLocked(ctx); err != nil {
		return nil, err
	}
	return w.handle, nil
}

// Address returns the wallet's primary receive address.
func (w *Wallet) Address(ctx context.Context) (string, error) {
	h, err := w.ensureLoaded(ctx)
	if err != nil {
		return "", err
	}

	address, err := h.Address(ctx)
	if err != nil {
		return "", fmt.Errorf("address of wallet %q: %w", w.name, err)
	}

	w.log.Debug("wallet address", zap.String("name", w.name), zap.String("address", address))
	return address, nil
}

// Balance scans the wallet and returns its total balance in base units
// as an exact decimal quantity.
func (w *Wallet) Balance(ctx context.Context) (decimal.Decimal, error) {
	h, err := w.ensureLoaded(ctx)
	if err != nil {
		return decimal.Decimal{}, err
	}

	if err := h.Scan(ctx); err != nil {
		return decimal.Decimal{}, fmt.Errorf("scan wallet %q: %w", w.name, err)
	}
	balance, err := h.Balance(ctx, w.network)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("balance of wallet %q: %w", w.name, err)
	}

	w.log.Debug("wallet balance", zap.String("name", w.name), zap.String("balance", balance.String()))
	return balance, nil
}

// BalanceAfterFee scans the wallet and returns the spendable balance as
// "<amount> <currency>", with the network fee deducted and the result
// floored at zero. The decimal scale of the backend's balance string is
// preserved.
func (w *Wallet) BalanceAfterFee(ctx context.Context) (string, error) {
	h, err := w.ensureLoaded(ctx)
	if err != nil {
		return "", err
	}

	if err := h.Scan(ctx); err != nil {
		return "", fmt.Errorf("scan wallet %q: %w", w.name, err)
	}
	raw, err := h.BalanceString(ctx)
	if err != nil {
		return "", fmt.Errorf("balance of wallet %q: %w", w.name, err)
	}

	parts := strings.Fields(raw)
	if len(parts) != 2 {
		return "", fmt.Errorf("malformed balance string %q for wallet %q", raw, w.name)
	}
	amount, err := decimal.NewFromString(parts[0])
	if err != nil {
		return "", fmt.Errorf("malformed balance amount %q for wallet %q: %w", parts[0], w.name, err)
	}

	spendable := amount.Sub(w.fees.For(w.network))
	if spendable.IsNegative() {
		spendable = decimal.New(0, spendable.Exponent())
	}
	// String() drops trailing zeros, so render at the subtraction's scale.
	result := spendable.StringFixed(-spendable.Exponent()) + " " + parts[1]

	w.log.Debug("wallet balance after fee", zap.String("name", w.name), zap.String("balance", result))
	return result, nil
}

// Send sends funds to an address. An empty amount defaults to the full
// fee-adjusted balance; an empty address defaults to the configured main
// wallet address. Backend failures are logged and reported as false,
// never as an error.
func (w *Wallet) Send(ctx context.Context, amount, address string) bool {
	h, err := w.ensureLoaded(ctx)
	if err != nil {
		w.log.Error("send failed: wallet not loaded", zap.String("name", w.name), zap.Error(err))
		return false
	}

	if amount == "" {
		amount, err = w.BalanceAfterFee(ctx)
		if err != nil {
			w.log.Error("send failed: balance unavailable", zap.String("name", w.name), zap.Error(err))
			return false
		}
	}
	if address == "" {
		address = w.mainAddr
	}

	w.log.Debug("sending",
		zap.String("name", w.name),
		zap.String("amount", amount),
		zap.String("to", address))

	tx, err := h.SendTo(ctx, address, amount)
	if err != nil {
		w.log.Error("send failed",
			zap.String("name", w.name),
			zap.String("amount", amount),
			zap.String("to", address),
			zap.Error(err))
		return false
	}

	w.log.Info("transaction sent",
		zap.String("name", w.name),
		zap.String("txid", tx.TxID),
		zap.String("status", tx.Status))
	return true
}

// Delete removes the backend wallet and its persisted state. A missing
// wallet is reported as false.
func (w *Wallet) Delete(ctx context.Context) bool {
	ok, err := w.store.Delete(ctx, w.name)
	if err != nil {
		w.log.Debug("delete failed", zap.String("name", w.name), zap.Error(err))
		return false
	}

	w.mu.Lock()
	w.handle = nil
	w.id = 0
	w.mu.Unlock()

	w.log.Debug("wallet deleted", zap.String("name", w.name))
	return ok
}

// Name returns the wallet name.
func (w *Wallet) Name() string { return w.name }

// Passphrase returns the mnemonic passphrase, including one generated by
// CreateOrLoad.
func (w *Wallet) Passphrase() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.passphrase
}

// ID returns the numeric wallet id, or 0 if the wallet is not loaded yet.
func (w *Wallet) ID() int64 {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.id
}

// MainAddress returns the configured default destination address.
func (w *Wallet) MainAddress() string { return w.mainAddr }

// Network returns the wallet's network name.
func (w *Wallet) Network() string { return w.network }

func generateMnemonic() (string, error) {
	entropy, err := bip39.NewEntropy(mnemonicEntropyBits)
	if err != nil {
		return "", err
	}
	return bip39.NewMnemonic(entropy)
}
