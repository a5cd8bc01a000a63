package api

import (
	"net/http"

	httpSwagger "github.com/swaggo/http-swagger"
	"go.uber.org/zap"

	"github.com/AlexZinkM/crypto-wallet/internal/backend"
	"github.com/AlexZinkM/crypto-wallet/internal/handler"
)

// SetupRouter sets up router with handlers
func SetupRouter(store backend.Store, log *zap.Logger) (http.Handler, error) {
	walletHandler, err := handler.NewWalletHandler(store, log)
	if err != nil {
		return nil, err
	}

	mux := http.NewServeMux()

	// Swagger UI
	mux.HandleFunc("/swagger/", httpSwagger.WrapHandler)

	// Wallet endpoints
	mux.HandleFunc("/wallet", walletHandler.Delete)
	mux.HandleFunc("/wallet/create", walletHandler.Create)
	mux.HandleFunc("/wallet/address", walletHandler.Address)
	mux.HandleFunc("/wallet/balance", walletHandler.Balance)
	mux.HandleFunc("/wallet/info", walletHandler.Info)
	mux.HandleFunc("/wallet/send", walletHandler.Send)
	mux.HandleFunc("/wallet/backup", walletHandler.Backup)
	mux.HandleFunc("/wallet/restore", walletHandler.Restore)

	return mux, nil
}
