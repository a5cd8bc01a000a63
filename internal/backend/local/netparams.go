package local

import (
	"github.com/btcsuite/btcd/chaincfg"
	"github.com/btcsuite/btcd/wire"
	"github.com/pkg/errors"
)

// Litecoin chain parameters. Only the fields relevant to key derivation
// and address encoding are filled in; the rest of the Params struct is
// unused by this store.
var litecoinParams = chaincfg.Params{
	Name:             "litecoin",
	Net:              wire.BitcoinNet(0xdbb6c0fb),
	PubKeyHashAddrID: 0x30,
	ScriptHashAddrID: 0x32,
	PrivateKeyID:     0xb0,
	Bech32HRPSegwit:  "ltc",
	HDPrivateKeyID:   [4]byte{0x01, 0x9d, 0x9c, 0xfe},
	HDPublicKeyID:    [4]byte{0x01, 0x9d, 0xa4, 0x62},
	HDCoinType:       2,
}

var litecoinTestNetParams = chaincfg.Params{
	Name:             "litecoin_testnet",
	Net:              wire.BitcoinNet(0xf1c8d2fd),
	PubKeyHashAddrID: 0x6f,
	ScriptHashAddrID: 0x3a,
	PrivateKeyID:     0xef,
	Bech32HRPSegwit:  "tltc",
	HDPrivateKeyID:   [4]byte{0x04, 0x36, 0xef, 0x7d},
	HDPublicKeyID:    [4]byte{0x04, 0x36, 0xf6, 0xe1},
	HDCoinType:       1,
}

func init() {
	// Bitcoin networks are registered by chaincfg itself.
	if err := chaincfg.Register(&litecoinParams); err != nil {
		panic(err)
	}
	if err := chaincfg.Register(&litecoinTestNetParams); err != nil {
		panic(err)
	}
}

// currency codes as reported in balance strings, by network name
var currencyCodes = map[string]string{
	"litecoin":         "LTC",
	"litecoin_testnet": "tLTC",
	"bitcoin":          "BTC",
	"testnet":          "tBTC",
}

func netParams(network string) (*chaincfg.Params, error) {
	switch network {
	case "litecoin":
		return &litecoinParams, nil
	case "litecoin_testnet":
		return &litecoinTestNetParams, nil
	case "bitcoin":
		return &chaincfg.MainNetParams, nil
	case "testnet":
		return &chaincfg.TestNet3Params, nil
	}
	return nil, errors.Errorf("unknown network %q", network)
}

func currencyCode(network string) string {
	if code, ok := currencyCodes[network]; ok {
		return code
	}
	return network
}
