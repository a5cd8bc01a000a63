package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/kelseyhightower/envconfig"
	"golang.org/x/term"
)

// Config contains all configuration parameters for the application.
// Note: the backup password may be prompted at runtime and stored in
// memory - use GetBackupPasswordBytes()
type Config struct {
	Port        string            `envconfig:"PORT" default:"8080"`
	Network     string            `envconfig:"NETWORK" default:"litecoin"`
	MainWallet  string            `envconfig:"MAIN_WALLET"`
	WalletDir   string            `envconfig:"WALLET_DIR" default:"walletdata"`
	BackupDir   string            `envconfig:"BACKUP_DIR" default:"backups"`
	NetworkFees map[string]string `envconfig:"NETWORK_FEES" default:"litecoin:0.0015"`
}

// cfg is the global configuration instance
var cfg *Config

// Init loads configuration from environment variables.
func Init() error {
	cfg = &Config{}
	if err := envconfig.Process("", cfg); err != nil {
		return fmt.Errorf("failed to process config: %w", err)
	}
	return nil
}

// Get returns the global configuration instance.
// Panics if Init() was not called.
func Get() *Config {
	if cfg == nil {
		panic("config not initialized, call Init() first")
	}
	return cfg
}

// GetPort returns port from configuration
func GetPort() string {
	return Get().Port
}

// GetNetwork returns the wallet network name from configuration
func GetNetwork() string {
	return Get().Network
}

// GetMainWallet returns the default sweep destination address
func GetMainWallet() string {
	return Get().MainWallet
}

// GetWalletDir returns the wallet store directory from configuration
func GetWalletDir() string {
	return Get().WalletDir
}

// GetBackupDir returns the wallet backup directory from configuration
func GetBackupDir() string {
	return Get().BackupDir
}

// GetNetworkFees returns the per-network fee mapping from configuration
func GetNetworkFees() map[string]string {
	return Get().NetworkFees
}

var passwordBytes []byte

// PromptForBackupPassword prompts the user for the wallet backup password
// in the terminal. The password is read without echoing (hidden input)
// and stored in memory. Falls back to the BACKUP_PASSWORD environment
// variable for non-interactive runs.
func PromptForBackupPassword() error {
	if env := os.Getenv("BACKUP_PASSWORD"); env != "" {
		passwordBytes = []byte(env)
		return nil
	}
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return errors.New("stdin is not a terminal: set BACKUP_PASSWORD or run interactively")
	}
	fmt.Fprint(os.Stderr, "Enter backup password: ")
	defer fmt.Fprintln(os.Stderr)

	raw, err := term.ReadPassword(int(os.Stdin.Fd()))
	if err != nil {
		return fmt.Errorf("failed to read password: %w", err)
	}
	if len(raw) == 0 {
		return errors.New("password cannot be empty")
	}

	passwordBytes = make([]byte, len(raw))
	copy(passwordBytes, raw)
	clear(raw)
	return nil
}

// GetBackupPasswordBytes returns the password stored in memory (from
// PromptForBackupPassword). Returns an error if the password was not set.
// Caller must zero the returned slice after use for security.
func GetBackupPasswordBytes() ([]byte, error) {
	if len(passwordBytes) == 0 {
		return nil, errors.New("password not set: call PromptForBackupPassword at startup")
	}
	out := make([]byte, len(passwordBytes))
	copy(out, passwordBytes)
	return out, nil
}
