package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/AlexZinkM/crypto-wallet/internal/backend/local"
	"github.com/AlexZinkM/crypto-wallet/internal/config"
	"github.com/AlexZinkM/crypto-wallet/internal/model"
)

func newTestHandler(t *testing.T) *WalletHandler {
	t.Helper()
	require.NoError(t, config.Init())

	store, err := local.Open(t.TempDir(), zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	h, err := NewWalletHandler(store, zap.NewNop())
	require.NoError(t, err)
	return h
}

func doJSON(t *testing.T, fn http.HandlerFunc, method, target, body string, out any) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	rec := httptest.NewRecorder()
	fn(rec, req)
	if out != nil && rec.Code == http.StatusOK {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), out))
	}
	return rec
}

func TestCreateBalanceDeleteFlow(t *testing.T) {
	h := newTestHandler(t)

	var created model.CreateResponse
	rec := doJSON(t, h.Create, http.MethodPost, "/wallet/create", `{"name":"w1","owner":"user-42"}`, &created)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Greater(t, created.WalletID, int64(0))
	require.NotEmpty(t, created.Passphrase)
	require.NotEmpty(t, created.Address)
	require.Equal(t, "litecoin", created.Network)

	query := "?name=w1&passphrase=" + strings.ReplaceAll(created.Passphrase, " ", "+")

	var balance model.BalanceResponse
	rec = doJSON(t, h.Balance, http.MethodGet, "/wallet/balance"+query, "", &balance)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "0", balance.Balance)
	require.Equal(t, "0.00000000 LTC", balance.BalanceString)
	require.Equal(t, "0.00000000 LTC", balance.BalanceAfterFee)

	var info model.WalletInfo
	rec = doJSON(t, h.Info, http.MethodGet, "/wallet/info"+query, "", &info)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, created.WalletID, info.WalletID)
	require.Equal(t, "user-42", info.Owner)

	// sweeping an empty wallet fails without raising
	var sent model.SendResponse
	rec = doJSON(t, h.Send, http.MethodPost, "/wallet/send",
		`{"name":"w1","passphrase":"`+created.Passphrase+`"}`, &sent)
	require.Equal(t, http.StatusOK, rec.Code)
	require.False(t, sent.Success)

	var deleted model.DeleteResponse
	rec = doJSON(t, h.Delete, http.MethodDelete, "/wallet?name=w1", "", &deleted)
	require.Equal(t, http.StatusOK, rec.Code)
	require.True(t, deleted.Deleted)

	rec = doJSON(t, h.Delete, http.MethodDelete, "/wallet?name=w1", "", &deleted)
	require.Equal(t, http.StatusOK, rec.Code)
	require.False(t, deleted.Deleted)
}

func TestCreateExistingLoads(t *testing.T) {
	h := newTestHandler(t)

	var first model.CreateResponse
	rec := doJSON(t, h.Create, http.MethodPost, "/wallet/create", `{"name":"w1"}`, &first)
	require.Equal(t, http.StatusOK, rec.Code)

	// same name with the original passphrase loads the same wallet
	var second model.CreateResponse
	rec = doJSON(t, h.Create, http.MethodPost, "/wallet/create",
		`{"name":"w1","passphrase":"`+first.Passphrase+`"}`, &second)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, first.WalletID, second.WalletID)
	require.Equal(t, first.Address, second.Address)
}

func TestBackupRestoreRoundtrip(t *testing.T) {
	h := newTestHandler(t)

	t.Setenv("BACKUP_PASSWORD", "backup-secret")
	require.NoError(t, config.PromptForBackupPassword())

	var created model.CreateResponse
	rec := doJSON(t, h.Create, http.MethodPost, "/wallet/create", `{"name":"w1","owner":"user-42"}`, &created)
	require.Equal(t, http.StatusOK, rec.Code)

	file := filepath.Join(t.TempDir(), "w1.cwt")
	var backup model.BackupResponse
	rec = doJSON(t, h.Backup, http.MethodPost, "/wallet/backup",
		`{"name":"w1","passphrase":"`+created.Passphrase+`","file":"`+file+`"}`, &backup)
	require.Equal(t, http.StatusOK, rec.Code)
	require.True(t, backup.Success)
	require.FileExists(t, backup.File)

	var deleted model.DeleteResponse
	rec = doJSON(t, h.Delete, http.MethodDelete, "/wallet?name=w1", "", &deleted)
	require.Equal(t, http.StatusOK, rec.Code)
	require.True(t, deleted.Deleted)

	// the recovered mnemonic re-creates the same wallet keys
	var restored model.RestoreResponse
	rec = doJSON(t, h.Restore, http.MethodPost, "/wallet/restore",
		`{"name":"w1","file":"`+file+`"}`, &restored)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, created.Address, restored.Address)
	require.Equal(t, created.Passphrase, restored.Passphrase)

	// missing backup file
	rec = doJSON(t, h.Restore, http.MethodPost, "/wallet/restore",
		`{"name":"w2","file":"`+filepath.Join(t.TempDir(), "absent.cwt")+`"}`, nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestValidationErrors(t *testing.T) {
	h := newTestHandler(t)

	// missing name
	rec := doJSON(t, h.Create, http.MethodPost, "/wallet/create", `{}`, nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	// empty passphrase on a load-only path
	rec = doJSON(t, h.Info, http.MethodGet, "/wallet/info?name=w1", "", nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	// wrong method
	rec = doJSON(t, h.Create, http.MethodGet, "/wallet/create", "", nil)
	require.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}
