package chain

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"
)

const (
	wordSize     = 32
	selectorSize = 4

	// counter orders are listed slightly in the past so they are settleable
	// on the block that includes them
	listingTimeOffset = 100 * time.Second
)

// CounterOrderBuilder builds the taker side of an existing maker order
type CounterOrderBuilder struct {
	feeRecipient common.Address
	now          func() time.Time
}

// NewCounterOrderBuilder creates a new CounterOrderBuilder. feeRecipient is
// assigned to counter orders of makers that did not set one.
func NewCounterOrderBuilder(feeRecipient common.Address, now func() time.Time) *CounterOrderBuilder {
	if now == nil {
		now = time.Now
	}
	return &CounterOrderBuilder{
		feeRecipient: feeRecipient,
		now:          now,
	}
}

// BuildCounterOrder builds the unsigned order that matches order on behalf of taker
func (b *CounterOrderBuilder) BuildCounterOrder(order *Order, taker common.Address) (*Order, error) {
	if err := b.validateInputs(order, taker); err != nil {
		return nil, err
	}

	calldata, pattern := DeriveCounterCalldata(order, taker)

	salt, err := generateSalt()
	if err != nil {
		return nil, err
	}

	feeRecipient := common.Address{}
	if order.FeeRecipient == (common.Address{}) {
		feeRecipient = b.feeRecipient
	}

	counter := &Order{
		Exchange:     order.Exchange,
		Maker:        taker,
		Taker:        order.Maker,
		FeeRecipient: feeRecipient,
		Target:       order.Target,
		StaticTarget: order.StaticTarget,
		PaymentToken: order.PaymentToken,

		MakerRelayerFee:  order.MakerRelayerFee,
		TakerRelayerFee:  order.TakerRelayerFee,
		MakerProtocolFee: order.MakerProtocolFee,
		TakerProtocolFee: order.TakerProtocolFee,
		BasePrice:        order.BasePrice,
		Extra:            decimal.Zero,
		ListingTime:      decimal.NewFromInt(b.now().Add(-listingTimeOffset).Unix()),
		ExpirationTime:   decimal.Zero,
		Salt:             salt,

		FeeMethod: order.FeeMethod,
		Side:      order.Side.Opposite(),
		SaleKind:  SaleKindFixedPrice,
		HowToCall: order.HowToCall,

		Calldata:           calldata,
		ReplacementPattern: pattern,
		StaticExtradata:    common.CopyBytes(order.StaticExtradata),
	}
	counter.Metadata = order.Clone().Metadata

	return counter, nil
}

// DeriveCounterCalldata derives calldata and replacement pattern for the
// counter order of order, taken by taker.
//
// Every 32-byte argument word after the function selector is examined. Bytes
// the original pattern leaves open are filled from the taker's left-padded
// address. A word holding the original maker is zeroed and fully opened in the
// counter pattern so the exchange fills it back in from the maker's calldata.
func DeriveCounterCalldata(order *Order, taker common.Address) ([]byte, []byte) {
	calldata := common.CopyBytes(order.Calldata)
	pattern := make([]byte, len(calldata))

	paddedTaker := common.LeftPadBytes(taker.Bytes(), wordSize)
	paddedMaker := common.LeftPadBytes(order.Maker.Bytes(), wordSize)
	mask := order.ReplacementPattern
	if len(mask) != len(calldata) {
		mask = nil
	}

	for start := selectorSize; start+wordSize <= len(calldata); start += wordSize {
		word := calldata[start : start+wordSize]

		if mask != nil {
			for i := range word {
				m := mask[start+i]
				word[i] = (word[i] &^ m) | (paddedTaker[i] & m)
			}
		}

		if order.Maker != (common.Address{}) && string(word) == string(paddedMaker) {
			for i := range word {
				word[i] = 0
				pattern[start+i] = 0xff
			}
		}
	}

	return calldata, pattern
}

func (b *CounterOrderBuilder) validateInputs(order *Order, taker common.Address) error {
	if order == nil {
		return ErrNilOrder
	}
	if !order.Side.Valid() {
		return fmt.Errorf("invalid side %d", order.Side)
	}
	if taker == (common.Address{}) {
		return fmt.Errorf("taker address is required")
	}
	if len(order.ReplacementPattern) > 0 && len(order.ReplacementPattern) != len(order.Calldata) {
		return ErrPatternLength
	}
	return nil
}

// generateSalt returns a uniformly random 256-bit salt
func generateSalt() (decimal.Decimal, error) {
	limit := new(big.Int).Lsh(big.NewInt(1), 256)
	n, err := rand.Int(rand.Reader, limit)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to generate salt: %w", err)
	}
	return decimal.NewFromBigInt(n, 0), nil
}
