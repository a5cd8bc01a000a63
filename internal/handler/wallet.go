package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/AlexZinkM/crypto-wallet/internal/backend"
	"github.com/AlexZinkM/crypto-wallet/internal/config"
	"github.com/AlexZinkM/crypto-wallet/internal/crypto"
	"github.com/AlexZinkM/crypto-wallet/internal/model"
	"github.com/AlexZinkM/crypto-wallet/wallet"
)

// WalletHandler holds the backend store and configuration for wallet operations
type WalletHandler struct {
	store     backend.Store
	log       *zap.Logger
	network   string
	mainAddr  string
	backupDir string
	fees      wallet.FeeTable
}

// NewWalletHandler creates a new WalletHandler with config values
func NewWalletHandler(store backend.Store, log *zap.Logger) (*WalletHandler, error) {
	fees, err := wallet.ParseFeeTable(config.GetNetworkFees())
	if err != nil {
		return nil, err
	}
	if log == nil {
		log = zap.NewNop()
	}

	return &WalletHandler{
		store:     store,
		log:       log,
		network:   config.GetNetwork(),
		mainAddr:  config.GetMainWallet(),
		backupDir: config.GetBackupDir(),
		fees:      fees,
	}, nil
}

func (h *WalletHandler) newWallet(name, passphrase, owner string) *wallet.Wallet {
	return wallet.New(h.store, name, wallet.Options{
		Passphrase:  passphrase,
		Network:     h.network,
		MainAddress: h.mainAddr,
		Owner:       owner,
		Fees:        h.fees,
		Logger:      h.log,
	})
}

// Create handles POST /wallet/create
// @Summary      Create or load a wallet
// @Description  Creates a wallet by name, generating a mnemonic passphrase if none is given; loads the wallet if it already exists
// @Tags         wallet
// @Accept       json
// @Produce      json
// @Param        request  body      model.CreateRequest  true  "Wallet data"
// @Success      200      {object}  model.CreateResponse
// @Router       /wallet/create [post]
func (h *WalletHandler) Create(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed. Should be POST", http.StatusMethodNotAllowed)
		return
	}

	var req model.CreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}
	if req.Name == "" {
		respondError(w, http.StatusBadRequest, errors.New("name is required"))
		return
	}

	wlt := h.newWallet(req.Name, req.Passphrase, req.Owner)
	if err := wlt.CreateOrLoad(r.Context()); err != nil {
		respondError(w, statusFor(err), err)
		return
	}

	info, err := wlt.Info(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, err)
		return
	}

	respondJSON(w, http.StatusOK, model.CreateResponse{
		WalletID:   info.WalletID,
		Name:       info.Name,
		Address:    info.Address,
		Network:    info.Network,
		Passphrase: info.Passphrase,
		QR:         info.QR,
	})
}

// Address handles GET /wallet/address
// @Summary      Get wallet receive address
// @Tags         wallet
// @Produce      json
// @Param        name        query  string  true  "Wallet name"
// @Param        passphrase  query  string  true  "Mnemonic passphrase"
// @Success      200  {object}  model.AddressResponse
// @Router       /wallet/address [get]
func (h *WalletHandler) Address(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed. Should be GET", http.StatusMethodNotAllowed)
		return
	}

	wlt := h.walletFromQuery(r)
	address, err := wlt.Address(r.Context())
	if err != nil {
		respondError(w, statusFor(err), err)
		return
	}

	respondJSON(w, http.StatusOK, model.AddressResponse{Name: wlt.Name(), Address: address})
}

// Balance handles GET /wallet/balance
// @Summary      Get wallet balance
// @Description  Scans the wallet and returns the exact balance plus the spendable balance with the network fee deducted
// @Tags         wallet
// @Produce      json
// @Param        name        query  string  true  "Wallet name"
// @Param        passphrase  query  string  true  "Mnemonic passphrase"
// @Success      200  {object}  model.BalanceResponse
// @Router       /wallet/balance [get]
func (h *WalletHandler) Balance(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed. Should be GET", http.StatusMethodNotAllowed)
		return
	}

	wlt := h.walletFromQuery(r)
	balance, err := wlt.Balance(r.Context())
	if err != nil {
		respondError(w, statusFor(err), err)
		return
	}
	afterFee, err := wlt.BalanceAfterFee(r.Context())
	if err != nil {
		respondError(w, statusFor(err), err)
		return
	}
	info, err := wlt.Info(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, err)
		return
	}

	respondJSON(w, http.StatusOK, model.BalanceResponse{
		Name:            wlt.Name(),
		Balance:         balance.String(),
		BalanceString:   info.BalanceString,
		BalanceAfterFee: afterFee,
	})
}

// Info handles GET /wallet/info
// @Summary      Get normalized wallet info
// @Tags         wallet
// @Produce      json
// @Param        name        query  string  true  "Wallet name"
// @Param        passphrase  query  string  true  "Mnemonic passphrase"
// @Success      200  {object}  model.WalletInfo
// @Router       /wallet/info [get]
func (h *WalletHandler) Info(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed. Should be GET", http.StatusMethodNotAllowed)
		return
	}

	wlt := h.walletFromQuery(r)
	info, err := wlt.Info(r.Context())
	if err != nil {
		respondError(w, statusFor(err), err)
		return
	}

	respondJSON(w, http.StatusOK, info)
}

// Send handles POST /wallet/send
// @Summary      Send funds
// @Description  Sends funds to an address; by default the full fee-adjusted balance is swept to the configured main wallet
// @Tags         wallet
// @Accept       json
// @Produce      json
// @Param        request  body      model.SendRequest  true  "Send data"
// @Success      200      {object}  model.SendResponse
// @Router       /wallet/send [post]
func (h *WalletHandler) Send(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed. Should be POST", http.StatusMethodNotAllowed)
		return
	}

	var req model.SendRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}

	wlt := h.newWallet(req.Name, req.Passphrase, "")
	ok := wlt.Send(r.Context(), req.Amount, req.ToAddress)

	respondJSON(w, http.StatusOK, model.SendResponse{Success: ok})
}

// Delete handles DELETE /wallet
// @Summary      Delete a wallet
// @Description  Removes the wallet and its persisted state from the backend store
// @Tags         wallet
// @Produce      json
// @Param        name  query  string  true  "Wallet name"
// @Success      200  {object}  model.DeleteResponse
// @Router       /wallet [delete]
func (h *WalletHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodDelete {
		http.Error(w, "Method not allowed. Should be DELETE", http.StatusMethodNotAllowed)
		return
	}

	wlt := h.walletFromQuery(r)
	respondJSON(w, http.StatusOK, model.DeleteResponse{Deleted: wlt.Delete(r.Context())})
}

// Backup handles POST /wallet/backup
// @Summary      Export an encrypted wallet backup
// @Description  Writes a .cwt file containing the mnemonic sealed with the backup password
// @Tags         wallet
// @Accept       json
// @Produce      json
// @Param        request  body      model.BackupRequest  true  "Backup data"
// @Success      200      {object}  model.BackupResponse
// @Router       /wallet/backup [post]
func (h *WalletHandler) Backup(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed. Should be POST", http.StatusMethodNotAllowed)
		return
	}

	var req model.BackupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}

	// Get password as []byte, use it, then zero it immediately
	passwordBytes, err := config.GetBackupPasswordBytes()
	if err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}
	defer clear(passwordBytes) // Always clear password from memory

	wlt := h.newWallet(req.Name, req.Passphrase, "")
	info, err := wlt.Info(r.Context())
	if err != nil {
		respondError(w, statusFor(err), err)
		return
	}

	file := req.File
	if file == "" {
		file = filepath.Join(h.backupDir, req.Name+".cwt")
	}

	data := &model.BackupData{
		Mnemonic:  info.Passphrase,
		Owner:     info.Owner,
		CreatedAt: time.Now().Format(time.RFC3339),
	}
	if err := crypto.EncryptBackup(file, info.Network, info.Address, info.QR, data, passwordBytes); err != nil {
		respondError(w, http.StatusInternalServerError, err)
		return
	}

	respondJSON(w, http.StatusOK, model.BackupResponse{Success: true, File: file})
}

// Restore handles POST /wallet/restore
// @Summary      Restore a wallet from an encrypted backup
// @Description  Decrypts a .cwt file with the backup password and re-creates the wallet from the recovered mnemonic
// @Tags         wallet
// @Accept       json
// @Produce      json
// @Param        request  body      model.RestoreRequest  true  "Restore data"
// @Success      200      {object}  model.RestoreResponse
// @Router       /wallet/restore [post]
func (h *WalletHandler) Restore(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed. Should be POST", http.StatusMethodNotAllowed)
		return
	}

	var req model.RestoreRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}
	if req.Name == "" {
		respondError(w, http.StatusBadRequest, errors.New("name is required"))
		return
	}

	passwordBytes, err := config.GetBackupPasswordBytes()
	if err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}
	defer clear(passwordBytes) // Always clear password from memory

	file := req.File
	if file == "" {
		file = filepath.Join(h.backupDir, req.Name+".cwt")
	}

	_, data, err := crypto.DecryptBackup(file, passwordBytes)
	if err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}

	wlt := h.newWallet(req.Name, data.Mnemonic, data.Owner)
	if err := wlt.CreateOrLoad(r.Context()); err != nil {
		respondError(w, statusFor(err), err)
		return
	}

	info, err := wlt.Info(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, err)
		return
	}

	respondJSON(w, http.StatusOK, model.RestoreResponse{
		WalletID:   info.WalletID,
		Name:       info.Name,
		Address:    info.Address,
		Network:    info.Network,
		Passphrase: info.Passphrase,
		QR:         info.QR,
	})
}

func (h *WalletHandler) walletFromQuery(r *http.Request) *wallet.Wallet {
	q := r.URL.Query()
	return h.newWallet(q.Get("name"), q.Get("passphrase"), q.Get("owner"))
}

func statusFor(err error) int {
	switch {
	case wallet.IsPassphraseError(err):
		return http.StatusBadRequest
	case errors.Is(err, backend.ErrWalletNotFound):
		return http.StatusNotFound
	case errors.Is(err, backend.ErrWalletExists):
		return http.StatusConflict
	case errors.Is(err, backend.ErrKeyMismatch):
		return http.StatusForbidden
	}
	return http.StatusInternalServerError
}

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func respondError(w http.ResponseWriter, status int, err error) {
	respondJSON(w, status, model.ErrorResponse{Error: err.Error()})
}
