package model

// CreateRequest represents request for POST /wallet/create
type CreateRequest struct {
	Name       string `json:"name" binding:"required"`
	Passphrase string `json:"passphrase"`
	Owner      string `json:"owner"`
}

// CreateResponse represents response for POST /wallet/create
type CreateResponse struct {
	WalletID   int64  `json:"walletId"`
	Name       string `json:"name"`
	Address    string `json:"address"`
	Network    string `json:"network"`
	Passphrase string `json:"passphrase"`
	QR         string `json:"QR"`
}

// BalanceResponse represents response for GET /wallet/balance
type BalanceResponse struct {
	Name            string `json:"name"`
	Balance         string `json:"balance"`         // satoshis, exact
	BalanceString   string `json:"balanceString"`   // "<amount> <currency>"
	BalanceAfterFee string `json:"balanceAfterFee"` // spendable, fee deducted
}

// AddressResponse represents response for GET /wallet/address
type AddressResponse struct {
	Name    string `json:"name"`
	Address string `json:"address"`
}

// SendRequest represents request for POST /wallet/send
type SendRequest struct {
	Name       string `json:"name" binding:"required"`
	Passphrase string `json:"passphrase" binding:"required"`
	Amount     string `json:"amount"`    // defaults to the fee-adjusted full balance
	ToAddress  string `json:"toAddress"` // defaults to the configured main wallet
}

// SendResponse represents response for POST /wallet/send
type SendResponse struct {
	Success bool `json:"success"`
}

// DeleteResponse represents response for DELETE /wallet
type DeleteResponse struct {
	Deleted bool `json:"deleted"`
}

// BackupRequest represents request for POST /wallet/backup
type BackupRequest struct {
	Name       string `json:"name" binding:"required"`
	Passphrase string `json:"passphrase" binding:"required"`
	File       string `json:"file"` // defaults to <backup dir>/<name>.cwt
}

// BackupResponse represents response for POST /wallet/backup
type BackupResponse struct {
	Success bool   `json:"success"`
	File    string `json:"file"`
}

// RestoreRequest represents request for POST /wallet/restore
type RestoreRequest struct {
	Name string `json:"name" binding:"required"`
	File string `json:"file"` // defaults to <backup dir>/<name>.cwt
}

// RestoreResponse represents response for POST /wallet/restore
type RestoreResponse struct {
	WalletID   int64  `json:"walletId"`
	Name       string `json:"name"`
	Address    string `json:"address"`
	Network    string `json:"network"`
	Passphrase string `json:"passphrase"`
	QR         string `json:"QR"`
}
