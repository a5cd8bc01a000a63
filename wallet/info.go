package wallet

import (
	"context"
	"encoding/base64"
	"fmt"

	"github.com/skip2/go-qrcode"

	"github.com/AlexZinkM/crypto-wallet/internal/model"
)

// Info returns the normalized wallet record: id, name, owner, passphrase,
// address, network and balances. It triggers a full lazy load, a chain
// scan and address resolution.
func (w *Wallet) Info(ctx context.Context) (*model.WalletInfo, error) {
	h, err := w.ensureLoaded(ctx)
	if err != nil {
		return nil, err
	}

	address, err := w.Address(ctx)
	if err != nil {
		return nil, err
	}
	balance, err := w.Balance(ctx)
	if err != nil {
		return nil, err
	}
	balanceString, err := h.BalanceString(ctx)
	if err != nil {
		return nil, fmt.Errorf("balance of wallet %q: %w", w.name, err)
	}

	qr, err := addressQR(address)
	if err != nil {
		return nil, fmt.Errorf("qr for wallet %q: %w", w.name, err)
	}

	return &model.WalletInfo{
		WalletID:      h.ID(),
		Name:          w.name,
		Owner:         w.owner,
		Passphrase:    w.Passphrase(),
		Address:       address,
		Network:       w.network,
		Balance:       balance.String(),
		BalanceString: balanceString,
		QR:            qr,
	}, nil
}

// addressQR generates QR code of address in base64
func addressQR(address string) (string, error) {
	qr, err := qrcode.New(address, qrcode.Medium)
	if err != nil {
		return "", fmt.Errorf("failed to create QR code: %w", err)
	}

	png, err := qr.PNG(256)
	if err != nil {
		return "", fmt.Errorf("failed to generate PNG: %w", err)
	}

	return base64.StdEncoding.EncodeToString(png), nil
}
