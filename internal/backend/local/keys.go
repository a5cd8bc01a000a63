package local

import (
	"encoding/hex"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/btcutil/hdkeychain"
	"github.com/btcsuite/btcd/chaincfg"
	"github.com/pkg/errors"
	"github.com/tyler-smith/go-bip39"
)

// KeyFromPassphrase derives the wallet's master private key from a BIP-39
// mnemonic passphrase. The derivation is deterministic: the same passphrase
// always yields the same key.
func (s *Store) KeyFromPassphrase(passphrase, network string) (string, error) {
	params, err := netParams(network)
	if err != nil {
		return "", err
	}
	if !bip39.IsMnemonicValid(passphrase) {
		return "", errors.New("passphrase is not a valid mnemonic")
	}

	seed := bip39.NewSeed(passphrase, "")
	master, err := hdkeychain.NewMaster(seed, params)
	if err != nil {
		return "", errors.Wrap(err, "derive master key")
	}
	priv, err := master.ECPrivKey()
	if err != nil {
		return "", errors.Wrap(err, "extract private key")
	}

	return hex.EncodeToString(priv.Serialize()), nil
}

// addressForKey computes the P2PKH receive address for a private key hex.
func addressForKey(keyHex string, params *chaincfg.Params) (string, error) {
	raw, err := hex.DecodeString(keyHex)
	if err != nil {
		return "", errors.Wrap(err, "decode key hex")
	}
	if len(raw) != 32 {
		return "", errors.Errorf("bad key length %d", len(raw))
	}

	_, pub := btcec.PrivKeyFromBytes(raw)
	pkHash := btcutil.Hash160(pub.SerializeCompressed())
	addr, err := btcutil.NewAddressPubKeyHash(pkHash, params)
	if err != nil {
		return "", errors.Wrap(err, "encode address")
	}

	return addr.EncodeAddress(), nil
}
