package wallet

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"github.com/tyler-smith/go-bip39"

	"github.com/AlexZinkM/crypto-wallet/internal/backend"
)

type fakeHandle struct {
	id            int64
	address       string
	balance       decimal.Decimal
	balanceString string

	scans    int
	sendErr  error
	lastTo   string
	lastAmt  string
	sendHits int
}

func (h *fakeHandle) ID() int64 { return h.id }

func (h *fakeHandle) Address(ctx context.Context) (string, error) { return h.address, nil }

func (h *fakeHandle) Scan(ctx context.Context) error {
	h.scans++
	return nil
}

func (h *fakeHandle) Balance(ctx context.Context, network string) (decimal.Decimal, error) {
	return h.balance, nil
}

func (h *fakeHandle) BalanceString(ctx context.Context) (string, error) {
	return h.balanceString, nil
}

func (h *fakeHandle) SendTo(ctx context.Context, address, amount string) (*backend.Transaction, error) {
	h.sendHits++
	h.lastTo = address
	h.lastAmt = amount
	if h.sendErr != nil {
		return nil, h.sendErr
	}
	return &backend.Transaction{TxID: "deadbeef", To: address, Amount: amount, Status: "unconfirmed"}, nil
}

type fakeStore struct {
	mu      sync.Mutex
	wallets map[string]*fakeHandle
	nextID  int64

	createErr error
	loadErr   error

	keyCalls    int
	loadCalls   int
	createCalls int
}

func newFakeStore() *fakeStore {
	return &fakeStore{wallets: map[string]*fakeHandle{}}
}

func (s *fakeStore) add(name string, h *fakeHandle) *fakeHandle {
	s.wallets[name] = h
	return h
}

func (s *fakeStore) KeyFromPassphrase(passphrase, network string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.keyCalls++
	return "key:" + passphrase, nil
}

func (s *fakeStore) Create(ctx context.Context, name, keys, network, owner string) (backend.Handle, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.createCalls++
	if s.createErr != nil {
		return nil, s.createErr
	}
	if _, ok := s.wallets[name]; ok {
		return nil, fmt.Errorf("wallet %q: %w", name, backend.ErrWalletExists)
	}
	s.nextID++
	h := &fakeHandle{id: s.nextID, address: "addr-" + name, balanceString: "0 LTC"}
	s.wallets[name] = h
	return h, nil
}

func (s *fakeStore) Load(ctx context.Context, name, key string) (backend.Handle, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loadCalls++
	if s.loadErr != nil {
		return nil, s.loadErr
	}
	h, ok := s.wallets[name]
	if !ok {
		return nil, fmt.Errorf("wallet %q: %w", name, backend.ErrWalletNotFound)
	}
	return h, nil
}

func (s *fakeStore) Delete(ctx context.Context, name string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.wallets[name]; !ok {
		return false, fmt.Errorf("wallet %q: %w", name, backend.ErrWalletNotFound)
	}
	delete(s.wallets, name)
	return true, nil
}

func TestLoadFromPassphraseEmpty(t *testing.T) {
	store := newFakeStore()
	w := New(store, "w1", Options{})

	err := w.LoadFromPassphrase(context.Background())
	require.Error(t, err)
	require.True(t, IsPassphraseError(err))

	// validation failed before any backend call
	require.Zero(t, store.keyCalls)
	require.Zero(t, store.loadCalls)
}

func TestCreateOrLoadGeneratesPassphrase(t *testing.T) {
	store := newFakeStore()
	w := New(store, "w1", Options{})

	require.NoError(t, w.CreateOrLoad(context.Background()))
	require.True(t, bip39.IsMnemonicValid(w.Passphrase()))
	require.Equal(t, int64(1), w.ID())
}

func TestCreateOrLoadExistingFallsBackToLoad(t *testing.T) {
	store := newFakeStore()
	store.add("w1", &fakeHandle{id: 7, address: "addr-w1"})

	w := New(store, "w1", Options{Passphrase: "legal winner thank year wave sausage worth useful legal winner thank yellow"})
	require.NoError(t, w.CreateOrLoad(context.Background()))
	require.Equal(t, 1, store.loadCalls)
	require.Equal(t, int64(7), w.ID())

	// a direct load yields the same wallet id
	direct := New(store, "w1", Options{Passphrase: "legal winner thank year wave sausage worth useful legal winner thank yellow"})
	require.NoError(t, direct.LoadFromPassphrase(context.Background()))
	require.Equal(t, w.ID(), direct.ID())
}

func TestCreateOrLoadOtherErrorPropagates(t *testing.T) {
	store := newFakeStore()
	store.createErr = errors.New("store unavailable")

	w := New(store, "w1", Options{Passphrase: "x"})
	err := w.CreateOrLoad(context.Background())
	require.Error(t, err)
	require.Zero(t, store.loadCalls)
}

func TestLoadErrorPropagates(t *testing.T) {
	store := newFakeStore()
	store.loadErr = errors.New("db locked")

	w := New(store, "w1", Options{Passphrase: "x"})
	err := w.LoadFromPassphrase(context.Background())
	require.Error(t, err)
	require.False(t, IsPassphraseError(err))
}

func TestBalanceAfterFee(t *testing.T) {
	cases := []struct {
		name    string
		network string
		backend string
		want    string
	}{
		{"litecoin fee deducted", "litecoin", "0.0020000 LTC", "0.0005000 LTC"},
		{"clamped at zero", "litecoin", "0.0010000 LTC", "0.0000000 LTC"},
		{"exact fee", "litecoin", "0.0015 LTC", "0.0000 LTC"},
		{"bitcoin pays no fee", "bitcoin", "0.0020000 BTC", "0.0020000 BTC"},
		{"zero balance", "litecoin", "0 LTC", "0.0000 LTC"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			store := newFakeStore()
			store.add("w1", &fakeHandle{id: 1, balanceString: tc.backend})

			w := New(store, "w1", Options{Passphrase: "x", Network: tc.network})
			got, err := w.BalanceAfterFee(context.Background())
			require.NoError(t, err)
			require.Equal(t, tc.want, got)
		})
	}
}

func TestBalanceScansAndReturnsExactValue(t *testing.T) {
	store := newFakeStore()
	h := store.add("w1", &fakeHandle{id: 1, balance: decimal.NewFromInt(109531), balanceString: "0.00109531 LTC"})

	w := New(store, "w1", Options{Passphrase: "x"})
	balance, err := w.Balance(context.Background())
	require.NoError(t, err)
	require.True(t, balance.Equal(decimal.NewFromInt(109531)))
	require.Equal(t, 1, h.scans)
}

func TestSendBackendErrorReturnsFalse(t *testing.T) {
	store := newFakeStore()
	h := store.add("w1", &fakeHandle{id: 1, balanceString: "0.0020000 LTC"})
	h.sendErr = backend.ErrInsufficientFunds

	w := New(store, "w1", Options{Passphrase: "x"})
	require.False(t, w.Send(context.Background(), "0.5 LTC", "someaddr"))
}

func TestSendDefaultsToSweep(t *testing.T) {
	store := newFakeStore()
	h := store.add("w1", &fakeHandle{id: 1, balanceString: "0.0020000 LTC"})

	w := New(store, "w1", Options{Passphrase: "x", MainAddress: "main-addr"})
	require.True(t, w.Send(context.Background(), "", ""))
	require.Equal(t, "main-addr", h.lastTo)
	require.Equal(t, "0.0005000 LTC", h.lastAmt)
}

func TestSendNotLoadableReturnsFalse(t *testing.T) {
	store := newFakeStore()

	// empty passphrase, nothing to load from
	w := New(store, "w1", Options{})
	require.False(t, w.Send(context.Background(), "0.1 LTC", "someaddr"))
}

func TestDelete(t *testing.T) {
	store := newFakeStore()
	store.add("w1", &fakeHandle{id: 1})

	w := New(store, "w1", Options{Passphrase: "x"})
	require.True(t, w.Delete(context.Background()))
	require.False(t, w.Delete(context.Background()))
}

func TestLazyLoadHappensOnce(t *testing.T) {
	store := newFakeStore()
	store.add("w1", &fakeHandle{id: 1, address: "addr-w1"})

	w := New(store, "w1", Options{Passphrase: "x"})

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := w.Address(context.Background())
			require.NoError(t, err)
		}()
	}
	wg.Wait()

	require.Equal(t, 1, store.loadCalls)
}

func TestInfo(t *testing.T) {
	store := newFakeStore()
	store.add("w1", &fakeHandle{
		id:            3,
		address:       "addr-w1",
		balance:       decimal.NewFromInt(200000),
		balanceString: "0.00200000 LTC",
	})

	w := New(store, "w1", Options{Passphrase: "x", Owner: "user-42"})
	info, err := w.Info(context.Background())
	require.NoError(t, err)
	require.Equal(t, int64(3), info.WalletID)
	require.Equal(t, "w1", info.Name)
	require.Equal(t, "user-42", info.Owner)
	require.Equal(t, "x", info.Passphrase)
	require.Equal(t, "addr-w1", info.Address)
	require.Equal(t, "litecoin", info.Network)
	require.Equal(t, "200000", info.Balance)
	require.Equal(t, "0.00200000 LTC", info.BalanceString)
	require.NotEmpty(t, info.QR)
}
