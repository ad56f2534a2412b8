package utils

import (
	"crypto/rand"
	"math/big"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
)

const base36Alphabet = "0123456789abcdefghijklmnopqrstuvwxyz"

// NewEntityID builds ids of the form "<prefix>-<unixMillis>-<7 base36 chars>".
func NewEntityID(prefix string, now time.Time) string {
	return prefix + "-" + strconv.FormatInt(now.UnixMilli(), 10) + "-" + randomBase36(7)
}

func randomBase36(n int) string {
	out := make([]byte, n)
	max := big.NewInt(int64(len(base36Alphabet)))
	for i := range out {
		idx, err := rand.Int(rand.Reader, max)
		if err != nil {
			out[i] = base36Alphabet[time.Now().UnixNano()%36]
			continue
		}
		out[i] = base36Alphabet[idx.Int64()]
	}
	return string(out)
}

// ToCents converts a dollar amount to integer cents, rounding half away from zero.
func ToCents(amount decimal.Decimal) int64 {
	return amount.Mul(decimal.NewFromInt(100)).Round(0).IntPart()
}

// RoundMoney rounds to two decimal places and returns a float for storage.
func RoundMoney(amount decimal.Decimal) float64 {
	f, _ := amount.Round(2).Float64()
	return f
}
