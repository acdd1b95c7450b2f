// Package amount converts between satoshi counts and decimal bitcoin
// strings without going through floats.
package amount

import (
	"fmt"

	"github.com/shopspring/decimal"
)

const satsPerBTC = 100_000_000

// FormatBTC renders a satoshi amount as a bitcoin string with eight decimal
// places, e.g. 150000000 -> "1.50000000".
func FormatBTC(sats uint64) string {
	return decimal.NewFromInt(int64(sats)).
		Div(decimal.NewFromInt(satsPerBTC)).
		StringFixed(8)
}

// ParseBTC converts a decimal bitcoin string to satoshis. It returns an
// error when the value is negative or carries more than eight decimal
// places.
func ParseBTC(value string) (uint64, error) {
	dec, err := decimal.NewFromString(value)
	if err != nil {
		return 0, fmt.Errorf("invalid amount %q: %w", value, err)
	}
	if dec.IsNegative() {
		return 0, fmt.Errorf("invalid amount %q: negative", value)
	}
	sats := dec.Mul(decimal.NewFromInt(satsPerBTC))
	if !sats.Equal(sats.Truncate(0)) {
		return 0, fmt.Errorf("invalid amount %q: more than 8 decimal places", value)
	}
	return uint64(sats.IntPart()), nil
}
