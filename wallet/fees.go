package wallet

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// FeeTable maps a network name to the flat fee deducted from the
// spendable balance. Networks without an entry pay no fee.
type FeeTable map[string]decimal.Decimal

// DefaultFees returns the default fee policy: litecoin pays a flat
// 0.0015, everything else pays zero.
func DefaultFees() FeeTable {
	return FeeTable{
		"litecoin": decimal.RequireFromString("0.0015"),
	}
}

// For returns the fee for a network, or zero if the network has no entry.
func (t FeeTable) For(network string) decimal.Decimal {
	if fee, ok := t[network]; ok {
		return fee
	}
	return decimal.Zero
}

// ParseFeeTable builds a FeeTable from a network -> fee-string mapping,
// as provided by configuration.
func ParseFeeTable(raw map[string]string) (FeeTable, error) {
	table := make(FeeTable, len(raw))
	for network, s := range raw {
		fee, err := decimal.NewFromString(s)
		if err != nil {
			return nil, fmt.Errorf("invalid fee %q for network %q: %w", s, network, err)
		}
		if fee.IsNegative() {
			return nil, fmt.Errorf("negative fee %q for network %q", s, network)
		}
		table[network] = fee
	}
	return table, nil
}
