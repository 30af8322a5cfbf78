package chain

import (
	"bytes"
	"errors"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"
)

// Encoding related errors
var (
	ErrNonIntegerAmount = errors.New("amount has a fractional part")
	ErrAmountOutOfRange = errors.New("amount does not fit in uint256")
	ErrPatternLength    = errors.New("calldata and replacement pattern lengths differ")
	ErrNilOrder         = errors.New("order is nil")
)

const atomicMatchMethodName = "atomicMatch_"

var maxUint256 = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 256), big.NewInt(1))

// AmountError reports an order amount that cannot be ABI encoded
type AmountError struct {
	Field string
	Value decimal.Decimal
	Err   error
}

func (e *AmountError) Error() string {
	return fmt.Sprintf("%s=%s: %v", e.Field, e.Value.String(), e.Err)
}

func (e *AmountError) Unwrap() error {
	return e.Err
}

// ToUint256 converts a decimal amount into its uint256 representation
func ToUint256(d decimal.Decimal) (*big.Int, error) {
	if !d.IsInteger() {
		return nil, ErrNonIntegerAmount
	}
	if d.IsNegative() {
		return nil, ErrAmountOutOfRange
	}
	n := d.BigInt()
	if n.Cmp(maxUint256) > 0 {
		return nil, ErrAmountOutOfRange
	}
	return n, nil
}

func orderAddrs(o *Order) [7]common.Address {
	return [7]common.Address{
		o.Exchange,
		o.Maker,
		o.Taker,
		o.FeeRecipient,
		o.Target,
		o.StaticTarget,
		o.PaymentToken,
	}
}

func orderUints(o *Order, prefix string) ([9]*big.Int, error) {
	var out [9]*big.Int
	fields := []struct {
		name  string
		value decimal.Decimal
	}{
		{"makerRelayerFee", o.MakerRelayerFee},
		{"takerRelayerFee", o.TakerRelayerFee},
		{"makerProtocolFee", o.MakerProtocolFee},
		{"takerProtocolFee", o.TakerProtocolFee},
		{"basePrice", o.BasePrice},
		{"extra", o.Extra},
		{"listingTime", o.ListingTime},
		{"expirationTime", o.ExpirationTime},
		{"salt", o.Salt},
	}
	for i, f := range fields {
		n, err := ToUint256(f.value)
		if err != nil {
			return out, &AmountError{Field: prefix + f.name, Value: f.value, Err: err}
		}
		out[i] = n
	}
	return out, nil
}

func orderKinds(o *Order) [4]uint8 {
	return [4]uint8{uint8(o.FeeMethod), uint8(o.Side), uint8(o.SaleKind), uint8(o.HowToCall)}
}

// matchArgs builds the nine leading arguments shared by atomicMatch_,
// ordersCanMatch_ and calculateMatchPrice_.
func matchArgs(buy, sell *Order) ([]interface{}, error) {
	if buy == nil || sell == nil {
		return nil, ErrNilOrder
	}

	var addrs [14]common.Address
	buyAddrs, sellAddrs := orderAddrs(buy), orderAddrs(sell)
	copy(addrs[:7], buyAddrs[:])
	copy(addrs[7:], sellAddrs[:])

	var uints [18]*big.Int
	buyUints, err := orderUints(buy, "buy.")
	if err != nil {
		return nil, err
	}
	sellUints, err := orderUints(sell, "sell.")
	if err != nil {
		return nil, err
	}
	copy(uints[:9], buyUints[:])
	copy(uints[9:], sellUints[:])

	var kinds [8]uint8
	buyKinds, sellKinds := orderKinds(buy), orderKinds(sell)
	copy(kinds[:4], buyKinds[:])
	copy(kinds[4:], sellKinds[:])

	return []interface{}{
		addrs,
		uints,
		kinds,
		nonNil(buy.Calldata),
		nonNil(sell.Calldata),
		nonNil(buy.ReplacementPattern),
		nonNil(sell.ReplacementPattern),
		nonNil(buy.StaticExtradata),
		nonNil(sell.StaticExtradata),
	}, nil
}

// singleOrderArgs builds the argument list of calculateCurrentPrice_
func singleOrderArgs(o *Order) ([]interface{}, error) {
	if o == nil {
		return nil, ErrNilOrder
	}
	uints, err := orderUints(o, "")
	if err != nil {
		return nil, err
	}
	return []interface{}{
		orderAddrs(o),
		uints,
		uint8(o.FeeMethod),
		uint8(o.Side),
		uint8(o.SaleKind),
		uint8(o.HowToCall),
		nonNil(o.Calldata),
		nonNil(o.ReplacementPattern),
		nonNil(o.StaticExtradata),
	}, nil
}

// signatureParts returns v, r and s with absent components set to zero
func signatureParts(o *Order) (uint8, [32]byte, [32]byte) {
	var v uint8
	var r, s [32]byte
	if o.V != nil {
		v = *o.V
	}
	if o.R != nil {
		r = *o.R
	}
	if o.S != nil {
		s = *o.S
	}
	return v, r, s
}

// EncodeAtomicMatch encodes an atomicMatch_ call for a buy/sell pair.
//
// A missing v, r or s is encoded as zero: an order without signature material
// is one the transaction sender authorizes by being its maker. The metadata
// word carries the referrer address left-padded to 32 bytes, or zero.
func EncodeAtomicMatch(buy, sell *Order, metadata *common.Address) ([]byte, error) {
	args, err := matchArgs(buy, sell)
	if err != nil {
		return nil, err
	}

	buyV, buyR, buyS := signatureParts(buy)
	sellV, sellR, sellS := signatureParts(sell)

	var meta [32]byte
	if metadata != nil {
		meta = common.BytesToHash(metadata.Bytes())
	}

	args = append(args,
		[2]uint8{buyV, sellV},
		[5][32]byte{buyR, buyS, sellR, sellS, meta},
	)

	data, err := GetWyvernExchangeABI().Pack(atomicMatchMethodName, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to pack atomicMatch_: %w", err)
	}
	return data, nil
}

// AtomicMatchSelector returns the 4-byte selector of atomicMatch_
func AtomicMatchSelector() []byte {
	return common.CopyBytes(GetWyvernExchangeABI().Methods[atomicMatchMethodName].ID)
}

// GuardedArrayReplace returns array with the bytes selected by mask taken from desired
func GuardedArrayReplace(array, desired, mask []byte) ([]byte, error) {
	if len(array) != len(desired) || len(array) != len(mask) {
		return nil, ErrPatternLength
	}
	out := make([]byte, len(array))
	for i := range array {
		out[i] = (array[i] &^ mask[i]) | (desired[i] & mask[i])
	}
	return out, nil
}

// OrderCalldataCanMatch mirrors the exchange's calldata compatibility check.
// The buy calldata is patched from the sell first, then the sell is patched
// from the patched buy, and the two results must be equal.
func OrderCalldataCanMatch(buyCalldata, buyPattern, sellCalldata, sellPattern []byte) bool {
	buyData := common.CopyBytes(buyCalldata)
	sellData := common.CopyBytes(sellCalldata)

	var err error
	if len(buyPattern) > 0 {
		if buyData, err = GuardedArrayReplace(buyData, sellData, buyPattern); err != nil {
			return false
		}
	}
	if len(sellPattern) > 0 {
		if sellData, err = GuardedArrayReplace(sellData, buyData, sellPattern); err != nil {
			return false
		}
	}
	return bytes.Equal(buyData, sellData)
}

func nonNil(b []byte) []byte {
	if b == nil {
		return []byte{}
	}
	return b
}
