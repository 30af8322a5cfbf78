package wyvern

import (
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"
)

const (
	// NullBlockHash is the zero bytes32 used for absent signature components
	NullBlockHash = "0x0000000000000000000000000000000000000000000000000000000000000000"
	ZeroAddress   = "0x0000000000000000000000000000000000000000"
)

// InverseBasisPoint is the fee denominator used by the exchange
var InverseBasisPoint = decimal.NewFromInt(10000)

// Clock supplies the current time to everything that stamps or prices orders
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// ClockFunc adapts a function to Clock
type ClockFunc func() time.Time

func (f ClockFunc) Now() time.Time { return f() }

// ParseAddress parses a 0x-prefixed hex address
func ParseAddress(s string) (common.Address, error) {
	s = strings.TrimSpace(s)
	if !common.IsHexAddress(s) || !strings.HasPrefix(strings.ToLower(s), "0x") {
		return common.Address{}, &InvalidParamError{Message: fmt.Sprintf("invalid address: %q", s)}
	}
	return common.HexToAddress(s), nil
}

// ParseTokenID parses a decimal or 0x-prefixed hex token id
func ParseTokenID(s string) (*big.Int, error) {
	s = strings.TrimSpace(s)
	id, ok := new(big.Int).SetString(s, 0)
	if !ok || id.Sign() < 0 {
		return nil, &InvalidParamError{Message: fmt.Sprintf("invalid token id: %q", s)}
	}
	return id, nil
}

// IsZeroAddress reports whether addr is the zero address
func IsZeroAddress(addr common.Address) bool {
	return addr == common.Address{}
}
