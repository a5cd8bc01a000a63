// walletd serves the wallet facade over HTTP.
//
// @title        crypto-wallet API
// @version      1.0
// @description  Wallet facade service: create/load wallets from mnemonic passphrases, query balances and addresses, send funds
// @BasePath     /
package main

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/AlexZinkM/crypto-wallet/internal/api"
	"github.com/AlexZinkM/crypto-wallet/internal/backend/local"
	"github.com/AlexZinkM/crypto-wallet/internal/config"

	_ "github.com/AlexZinkM/crypto-wallet/docs"
)

func main() {
	log, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	if err := config.Init(); err != nil {
		log.Fatal("config init failed", zap.Error(err))
	}
	if err := config.PromptForBackupPassword(); err != nil {
		log.Warn("backup password not set, /wallet/backup will be unavailable", zap.Error(err))
	}

	store, err := local.Open(config.GetWalletDir(), log)
	if err != nil {
		log.Fatal("failed to open wallet store", zap.Error(err))
	}
	defer store.Close()

	router, err := api.SetupRouter(store, log)
	if err != nil {
		log.Fatal("failed to set up router", zap.Error(err))
	}

	addr := ":" + config.GetPort()
	log.Info("listening", zap.String("addr", addr), zap.String("network", config.GetNetwork()))
	if err := http.ListenAndServe(addr, router); err != nil {
		log.Fatal("server stopped", zap.Error(err))
	}
}
