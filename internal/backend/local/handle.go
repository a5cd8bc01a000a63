package local

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"strings"
	"time"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/dgraph-io/badger"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/AlexZinkM/crypto-wallet/internal/backend"
)

// satoshis per coin unit
const coinDecimals = 8

type handle struct {
	store *Store
	name  string
	id    int64
}

func (h *handle) ID() int64 {
	return h.id
}

func (h *handle) Address(ctx context.Context) (string, error) {
	rec, err := h.store.getRecord(h.name)
	if err != nil {
		return "", err
	}
	return rec.Address, nil
}

// Scan recomputes the cached balance from the wallet's ledger entries.
func (h *handle) Scan(ctx context.Context) error {
	rec, err := h.store.getRecord(h.name)
	if err != nil {
		return err
	}

	var total int64
	prefix := ledgerPrefix(rec.ID)
	err = h.store.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			var e ledgerEntry
			err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &e)
			})
			if err != nil {
				return err
			}
			total += e.Amount
		}
		return nil
	})
	if err != nil {
		return errors.Wrapf(err, "scan wallet %q", h.name)
	}

	if total != rec.Balance {
		rec.Balance = total
		if err := h.store.putRecord(rec); err != nil {
			return err
		}
	}

	h.store.log.Debug("wallet scanned", zap.String("name", h.name), zap.Int64("balance", total))
	return nil
}

// Balance returns the wallet balance in satoshis. A network other than the
// wallet's own network holds nothing.
func (h *handle) Balance(ctx context.Context, network string) (decimal.Decimal, error) {
	rec, err := h.store.getRecord(h.name)
	if err != nil {
		return decimal.Decimal{}, err
	}
	if network != "" && network != rec.Network {
		return decimal.Zero, nil
	}
	return decimal.NewFromInt(rec.Balance), nil
}

func (h *handle) BalanceString(ctx context.Context) (string, error) {
	rec, err := h.store.getRecord(h.name)
	if err != nil {
		return "", err
	}
	amount := decimal.New(rec.Balance, -coinDecimals)
	return amount.StringFixed(coinDecimals) + " " + currencyCode(rec.Network), nil
}

// SendTo debits the wallet ledger. amount is "<amount> <currency>",
// e.g. "0.0005000 LTC".
func (h *handle) SendTo(ctx context.Context, address, amount string) (*backend.Transaction, error) {
	rec, err := h.store.getRecord(h.name)
	if err != nil {
		return nil, err
	}

	sats, err := parseAmount(amount, rec.Network)
	if err != nil {
		return nil, err
	}

	params, err := netParams(rec.Network)
	if err != nil {
		return nil, err
	}
	decoded, err := btcutil.DecodeAddress(address, params)
	if err != nil || !decoded.IsForNet(params) {
		return nil, errors.Wrapf(backend.ErrInvalidAddress, "address %q", address)
	}

	if sats > rec.Balance {
		return nil, errors.Wrapf(backend.ErrInsufficientFunds,
			"balance %d, requested %d", rec.Balance, sats)
	}

	txid, err := randomTxID()
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	if err := h.store.appendEntry(rec, ledgerEntry{TxID: txid, Amount: -sats, Time: now}); err != nil {
		return nil, err
	}

	h.store.log.Debug("transaction created",
		zap.String("name", h.name),
		zap.String("txid", txid),
		zap.String("to", address),
		zap.Int64("satoshis", sats))

	return &backend.Transaction{
		TxID:   txid,
		To:     address,
		Amount: amount,
		Status: "unconfirmed",
		Time:   now,
	}, nil
}

// parseAmount converts "<amount> <currency>" to satoshis.
func parseAmount(amount, network string) (int64, error) {
	parts := strings.Fields(amount)
	if len(parts) != 2 {
		return 0, errors.Wrapf(backend.ErrInvalidAmount, "amount %q", amount)
	}
	if parts[1] != currencyCode(network) {
		return 0, errors.Wrapf(backend.ErrInvalidAmount,
			"currency %q does not match network %q", parts[1], network)
	}

	d, err := decimal.NewFromString(parts[0])
	if err != nil {
		return 0, errors.Wrapf(backend.ErrInvalidAmount, "amount %q", amount)
	}

	sats := d.Shift(coinDecimals)
	if !sats.IsInteger() {
		return 0, errors.Wrapf(backend.ErrInvalidAmount, "amount %q is below 1 satoshi precision", amount)
	}
	if !sats.IsPositive() {
		return 0, errors.Wrapf(backend.ErrInvalidAmount, "amount %q is not positive", amount)
	}

	return sats.IntPart(), nil
}

func randomTxID() (string, error) {
	var raw [32]byte
	if _, err := rand.Read(raw[:]); err != nil {
		return "", errors.Wrap(err, "generate txid")
	}
	return hex.EncodeToString(raw[:]), nil
}
