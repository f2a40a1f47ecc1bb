package domain

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/shopspring/decimal"
)

const weiPerEtherExponent = 18

type Balance struct {
	Address string
	Wei     *big.Int
}

// Parse a wei amount as reported by the explorer: a non-negative base 10 integer
func ParseWei(raw string) (*big.Int, error) {
	wei, ok := new(big.Int).SetString(raw, 10)
	if !ok {
		return nil, fmt.Errorf("balance is not a base 10 integer: %q", raw)
	}
	if wei.Sign() < 0 {
		return nil, fmt.Errorf("balance is negative: %q", raw)
	}
	return wei, nil
}

func (b Balance) Ether() decimal.Decimal {
	if b.Wei == nil {
		return decimal.Zero
	}
	return decimal.NewFromBigInt(b.Wei, -weiPerEtherExponent)
}

// The ether amount as a plain decimal string, always with a fractional part ("1.0", "0.5")
func (b Balance) EtherString() string {
	s := b.Ether().String()
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}
