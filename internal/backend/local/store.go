// Package local implements the backend contract on top of a badger
// database. It is a bookkeeping wallet store: key derivation is delegated
// to bip39/hdkeychain, balances are tracked as a ledger of credit and
// debit entries per wallet, and sends debit the ledger without touching
// a real chain.
package local

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"os"
	"time"

	"github.com/dgraph-io/badger"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/AlexZinkM/crypto-wallet/internal/backend"
)

const (
	idPrefixWallet byte = iota
	idPrefixLedger
)

var (
	seqKeyWallet = []byte("seq:wallet")
	seqKeyEntry  = []byte("seq:entry")
)

// Store is a badger-backed wallet store.
type Store struct {
	db       *badger.DB
	seq      *badger.Sequence
	entrySeq *badger.Sequence
	log      *zap.Logger
}

type walletRecord struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Network   string    `json:"network"`
	Owner     string    `json:"owner"`
	Address   string    `json:"address"`
	Balance   int64     `json:"balance"` // cached satoshis, refreshed by Scan
	CreatedAt time.Time `json:"createdAt"`
}

type ledgerEntry struct {
	TxID   string    `json:"txId"`
	Amount int64     `json:"amount"` // satoshis, negative for debits
	Time   time.Time `json:"time"`
}

// Open initializes/opens a badger database in the given directory.
func Open(dir string, log *zap.Logger) (*Store, error) {
	if log == nil {
		log = zap.NewNop()
	}

	if _, err := os.Stat(dir); err != nil {
		if !os.IsNotExist(err) {
			return nil, err
		}
		if err := os.MkdirAll(dir, 0700); err != nil {
			return nil, err
		}
	}

	opts := badger.DefaultOptions(dir)
	opts.Logger = nil

	db, err := badger.Open(opts)
	if err != nil {
		return nil, errors.Wrap(err, "open badger store")
	}

	seq, err := db.GetSequence(seqKeyWallet, 16)
	if err != nil {
		db.Close()
		return nil, errors.Wrap(err, "open wallet sequence")
	}
	entrySeq, err := db.GetSequence(seqKeyEntry, 128)
	if err != nil {
		seq.Release()
		db.Close()
		return nil, errors.Wrap(err, "open entry sequence")
	}

	return &Store{db: db, seq: seq, entrySeq: entrySeq, log: log}, nil
}

// Close releases the id sequences and closes the database.
func (s *Store) Close() error {
	s.seq.Release()
	s.entrySeq.Release()
	return s.db.Close()
}

// Create creates a new wallet keyed by a mnemonic passphrase.
func (s *Store) Create(ctx context.Context, name, keys, network, owner string) (backend.Handle, error) {
	if _, err := s.getRecord(name); err == nil {
		return nil, errors.Wrapf(backend.ErrWalletExists, "wallet %q", name)
	} else if !errors.Is(err, backend.ErrWalletNotFound) {
		return nil, err
	}

	keyHex, err := s.KeyFromPassphrase(keys, network)
	if err != nil {
		return nil, err
	}
	params, err := netParams(network)
	if err != nil {
		return nil, err
	}
	address, err := addressForKey(keyHex, params)
	if err != nil {
		return nil, err
	}

	n, err := s.seq.Next()
	if err != nil {
		return nil, errors.Wrap(err, "next wallet id")
	}

	rec := walletRecord{
		ID:        int64(n) + 1,
		Name:      name,
		Network:   network,
		Owner:     owner,
		Address:   address,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.putRecord(&rec); err != nil {
		return nil, err
	}

	s.log.Debug("wallet created",
		zap.String("name", name),
		zap.Int64("id", rec.ID),
		zap.String("network", network))

	return &handle{store: s, name: name, id: rec.ID}, nil
}

// Load opens an existing wallet and verifies the supplied key against it.
func (s *Store) Load(ctx context.Context, name, key string) (backend.Handle, error) {
	rec, err := s.getRecord(name)
	if err != nil {
		return nil, err
	}

	params, err := netParams(rec.Network)
	if err != nil {
		return nil, err
	}
	address, err := addressForKey(key, params)
	if err != nil {
		return nil, err
	}
	if address != rec.Address {
		return nil, errors.Wrapf(backend.ErrKeyMismatch, "wallet %q", name)
	}

	return &handle{store: s, name: name, id: rec.ID}, nil
}

// Delete removes the wallet record and its ledger entries.
func (s *Store) Delete(ctx context.Context, name string) (bool, error) {
	rec, err := s.getRecord(name)
	if err != nil {
		return false, err
	}

	err = s.db.Update(func(txn *badger.Txn) error {
		if err := txn.Delete(walletKey(name)); err != nil {
			return err
		}

		prefix := ledgerPrefix(rec.ID)
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		var keys [][]byte
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			keys = append(keys, it.Item().KeyCopy(nil))
		}
		it.Close()

		for _, k := range keys {
			if err := txn.Delete(k); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return false, errors.Wrapf(err, "delete wallet %q", name)
	}

	s.log.Debug("wallet deleted", zap.String("name", name), zap.Int64("id", rec.ID))
	return true, nil
}

// Credit appends a deposit entry to the wallet's ledger.
func (s *Store) Credit(ctx context.Context, name string, sats int64) error {
	if sats <= 0 {
		return errors.New("credit amount must be positive")
	}
	rec, err := s.getRecord(name)
	if err != nil {
		return err
	}

	txid, err := randomTxID()
	if err != nil {
		return err
	}
	return s.appendEntry(rec, ledgerEntry{TxID: txid, Amount: sats, Time: time.Now().UTC()})
}

func (s *Store) appendEntry(rec *walletRecord, e ledgerEntry) error {
	n, err := s.entrySeq.Next()
	if err != nil {
		return errors.Wrap(err, "next entry id")
	}

	val, err := json.Marshal(&e)
	if err != nil {
		return err
	}

	rec.Balance += e.Amount
	recVal, err := json.Marshal(rec)
	if err != nil {
		return err
	}

	return s.db.Update(func(txn *badger.Txn) error {
		if err := txn.Set(ledgerKey(rec.ID, n), val); err != nil {
			return err
		}
		return txn.Set(walletKey(rec.Name), recVal)
	})
}

func (s *Store) getRecord(name string) (*walletRecord, error) {
	var rec walletRecord
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(walletKey(name))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &rec)
		})
	})
	if err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil, errors.Wrapf(backend.ErrWalletNotFound, "wallet %q", name)
		}
		return nil, errors.Wrapf(err, "read wallet %q", name)
	}
	return &rec, nil
}

func (s *Store) putRecord(rec *walletRecord) error {
	val, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(walletKey(rec.Name), val)
	})
}

func walletKey(name string) []byte {
	key := make([]byte, 0, len(name)+1)
	key = append(key, idPrefixWallet)
	return append(key, name...)
}

func ledgerPrefix(id int64) []byte {
	prefix := make([]byte, 9)
	prefix[0] = idPrefixLedger
	binary.BigEndian.PutUint64(prefix[1:], uint64(id))
	return prefix
}

func ledgerKey(id int64, seq uint64) []byte {
	key := make([]byte, 17)
	key[0] = idPrefixLedger
	binary.BigEndian.PutUint64(key[1:], uint64(id))
	binary.BigEndian.PutUint64(key[9:], seq)
	return key
}
