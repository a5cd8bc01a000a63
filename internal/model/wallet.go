package model

// WalletInfo is the normalized wallet record returned by the facade's
// Info operation.
type WalletInfo struct {
	WalletID      int64  `json:"walletId"`
	Name          string `json:"name"`
	Owner         string `json:"owner"`
	Passphrase    string `json:"passphrase"`
	Address       string `json:"address"`
	Network       string `json:"network"`
	Balance       string `json:"balance"`       // satoshis, exact
	BalanceString string `json:"balanceString"` // "<amount> <currency>"
	QR            string `json:"QR"`            // base64 PNG of the address
}

// BackupFile represents the encrypted wallet backup file structure
type BackupFile struct {
	Network    string `json:"network"`
	Address    string `json:"address"`
	QR         string `json:"QR"`
	Salt       string `json:"salt"`
	Nonce      string `json:"nonce"`
	CipherText string `json:"cipherText"`
}

// BackupData represents decrypted wallet backup data
type BackupData struct {
	Mnemonic  string `json:"mnemonic"`
	Owner     string `json:"owner"`
	CreatedAt string `json:"createdAt"`
}
