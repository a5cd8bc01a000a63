// walletctl operates on the local wallet store directly.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/AlexZinkM/crypto-wallet/internal/backend/local"
	"github.com/AlexZinkM/crypto-wallet/internal/crypto"
	"github.com/AlexZinkM/crypto-wallet/internal/model"
	"github.com/AlexZinkM/crypto-wallet/wallet"
)

var (
	flagDir     string
	flagNetwork string
	flagMain    string
	flagOwner   string
	flagVerbose bool
)

func newRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "walletctl",
		Short: "Manage wallets in a local wallet store",
	}

	cmd.PersistentFlags().StringVarP(&flagDir, "dir", "d", "walletdata", "wallet store directory")
	cmd.PersistentFlags().StringVarP(&flagNetwork, "network", "n", "litecoin", "wallet network")
	cmd.PersistentFlags().StringVarP(&flagMain, "main", "m", "", "default send destination address")
	cmd.PersistentFlags().StringVarP(&flagOwner, "owner", "o", "", "owner tag stored with new wallets")
	cmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "debug logging")

	cmd.AddCommand(createCommand())
	cmd.AddCommand(infoCommand())
	cmd.AddCommand(balanceCommand())
	cmd.AddCommand(sendCommand())
	cmd.AddCommand(deleteCommand())
	cmd.AddCommand(creditCommand())
	cmd.AddCommand(backupCommand())
	cmd.AddCommand(restoreCommand())

	return cmd
}

// withWallet opens the store, builds the facade and hands it to fn.
func withWallet(name, passphrase string, fn func(ctx context.Context, w *wallet.Wallet, store *local.Store) error) error {
	log := zap.NewNop()
	if flagVerbose {
		var err error
		if log, err = zap.NewDevelopment(); err != nil {
			return err
		}
	}

	store, err := local.Open(flagDir, log)
	if err != nil {
		return err
	}
	defer store.Close()

	w := wallet.New(store, name, wallet.Options{
		Passphrase:  passphrase,
		Network:     flagNetwork,
		MainAddress: flagMain,
		Owner:       flagOwner,
		Logger:      log,
	})
	return fn(context.Background(), w, store)
}

func createCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "create <name> [passphrase]",
		Short: "Create a wallet, generating a passphrase if none is given",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			passphrase := ""
			if len(args) > 1 {
				passphrase = args[1]
			}
			return withWallet(args[0], passphrase, func(ctx context.Context, w *wallet.Wallet, _ *local.Store) error {
				if err := w.CreateOrLoad(ctx); err != nil {
					return err
				}
				info, err := w.Info(ctx)
				if err != nil {
					return err
				}
				return printJSON(info)
			})
		},
	}
}

func infoCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "info <name> <passphrase>",
		Short: "Show normalized wallet info",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withWallet(args[0], args[1], func(ctx context.Context, w *wallet.Wallet, _ *local.Store) error {
				info, err := w.Info(ctx)
				if err != nil {
					return err
				}
				return printJSON(info)
			})
		},
	}
}

func balanceCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "balance <name> <passphrase>",
		Short: "Show the wallet balance and the fee-adjusted spendable balance",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withWallet(args[0], args[1], func(ctx context.Context, w *wallet.Wallet, _ *local.Store) error {
				balance, err := w.Balance(ctx)
				if err != nil {
					return err
				}
				afterFee, err := w.BalanceAfterFee(ctx)
				if err != nil {
					return err
				}
				fmt.Printf("balance:   %s\nspendable: %s\n", balance.String(), afterFee)
				return nil
			})
		},
	}
}

func sendCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "send <name> <passphrase> [amount] [address]",
		Short: "Send funds; defaults to sweeping the spendable balance to --main",
		Args:  cobra.RangeArgs(2, 4),
		RunE: func(cmd *cobra.Command, args []string) error {
			amount, address := "", ""
			if len(args) > 2 {
				amount = args[2]
			}
			if len(args) > 3 {
				address = args[3]
			}
			return withWallet(args[0], args[1], func(ctx context.Context, w *wallet.Wallet, _ *local.Store) error {
				if !w.Send(ctx, amount, address) {
					return fmt.Errorf("send failed")
				}
				fmt.Println("sent")
				return nil
			})
		},
	}
}

func deleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <name>",
		Short: "Delete a wallet from the store",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withWallet(args[0], "", func(ctx context.Context, w *wallet.Wallet, _ *local.Store) error {
				if !w.Delete(ctx) {
					return fmt.Errorf("wallet %q not found", args[0])
				}
				fmt.Println("deleted")
				return nil
			})
		},
	}
}

func creditCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "credit <name> <satoshis>",
		Short: "Record a deposit in the wallet's ledger",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			var sats int64
			if _, err := fmt.Sscanf(args[1], "%d", &sats); err != nil {
				return fmt.Errorf("invalid satoshi amount %q", args[1])
			}
			return withWallet(args[0], "", func(ctx context.Context, _ *wallet.Wallet, store *local.Store) error {
				return store.Credit(ctx, args[0], sats)
			})
		},
	}
}

func backupCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "backup <name> <passphrase> <file.cwt>",
		Short: "Export an encrypted wallet backup",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			password, err := readBackupPassword()
			if err != nil {
				return err
			}
			defer clear(password)

			return withWallet(args[0], args[1], func(ctx context.Context, w *wallet.Wallet, _ *local.Store) error {
				info, err := w.Info(ctx)
				if err != nil {
					return err
				}
				data := &model.BackupData{
					Mnemonic:  info.Passphrase,
					Owner:     info.Owner,
					CreatedAt: time.Now().Format(time.RFC3339),
				}
				return crypto.EncryptBackup(args[2], info.Network, info.Address, info.QR, data, password)
			})
		},
	}
}

func restoreCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "restore <name> <file.cwt>",
		Short: "Re-create a wallet from an encrypted backup",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			password, err := readBackupPassword()
			if err != nil {
				return err
			}
			defer clear(password)

			_, data, err := crypto.DecryptBackup(args[1], password)
			if err != nil {
				return err
			}

			return withWallet(args[0], data.Mnemonic, func(ctx context.Context, w *wallet.Wallet, _ *local.Store) error {
				if err := w.CreateOrLoad(ctx); err != nil {
					return err
				}
				info, err := w.Info(ctx)
				if err != nil {
					return err
				}
				return printJSON(info)
			})
		},
	}
}

// readBackupPassword reads the backup password without echoing it, with a
// BACKUP_PASSWORD environment fallback for non-interactive runs.
func readBackupPassword() ([]byte, error) {
	if env := os.Getenv("BACKUP_PASSWORD"); env != "" {
		return []byte(env), nil
	}
	fmt.Fprint(os.Stderr, "Backup password: ")
	defer fmt.Fprintln(os.Stderr)

	password, err := term.ReadPassword(int(os.Stdin.Fd()))
	if err != nil {
		return nil, fmt.Errorf("failed to read password: %w", err)
	}
	if len(password) == 0 {
		return nil, fmt.Errorf("password cannot be empty")
	}
	return password, nil
}

func printJSON(v any) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}

func main() {
	cobra.CheckErr(newRootCommand().Execute())
}
