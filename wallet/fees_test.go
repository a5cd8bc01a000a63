package wallet

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestDefaultFees(t *testing.T) {
	fees := DefaultFees()

	require.True(t, fees.For("litecoin").Equal(decimal.RequireFromString("0.0015")))

	// every other network pays zero
	for _, network := range []string{"bitcoin", "testnet", "litecoin_testnet", "dogecoin", ""} {
		require.True(t, fees.For(network).IsZero(), "network %q", network)
	}
}

func TestParseFeeTable(t *testing.T) {
	fees, err := ParseFeeTable(map[string]string{
		"litecoin": "0.0015",
		"bitcoin":  "0.0001",
	})
	require.NoError(t, err)
	require.True(t, fees.For("litecoin").Equal(decimal.RequireFromString("0.0015")))
	require.True(t, fees.For("bitcoin").Equal(decimal.RequireFromString("0.0001")))

	_, err = ParseFeeTable(map[string]string{"litecoin": "not-a-number"})
	require.Error(t, err)

	_, err = ParseFeeTable(map[string]string{"litecoin": "-0.1"})
	require.Error(t, err)
}
