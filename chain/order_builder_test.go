package chain

import (
	"bytes"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Unix(1700000000, 0)

func newTestBuilder() *CounterOrderBuilder {
	return NewCounterOrderBuilder(testFeeTo, func() time.Time { return fixedNow })
}

func TestBuildCounterOrder_ForSellOrder(t *testing.T) {
	sell := newTestSellOrder()
	sell.StaticExtradata = []byte{0x01, 0x02}

	buy, err := newTestBuilder().BuildCounterOrder(sell, testBuyer)
	require.NoError(t, err)

	assert.Equal(t, OrderSideBuy, buy.Side)
	assert.Equal(t, testBuyer, buy.Maker)
	assert.Equal(t, testSeller, buy.Taker)
	assert.Equal(t, sell.Exchange, buy.Exchange)
	assert.Equal(t, sell.Target, buy.Target)
	assert.Equal(t, sell.StaticTarget, buy.StaticTarget)
	assert.Equal(t, sell.StaticExtradata, buy.StaticExtradata)
	assert.Equal(t, sell.PaymentToken, buy.PaymentToken)
	assert.Equal(t, sell.HowToCall, buy.HowToCall)
	assert.Equal(t, sell.FeeMethod, buy.FeeMethod)
	assert.True(t, sell.MakerRelayerFee.Equal(buy.MakerRelayerFee))
	assert.True(t, sell.BasePrice.Equal(buy.BasePrice))
	assert.True(t, buy.Extra.IsZero())
	assert.Equal(t, SaleKindFixedPrice, buy.SaleKind)
	assert.Equal(t, int64(1700000000-100), buy.ListingTime.IntPart())
	assert.True(t, buy.ExpirationTime.IsZero())
	assert.True(t, buy.Salt.IsPositive())
	assert.False(t, buy.IsSigned())
	assert.Equal(t, sell.Metadata.Schema, buy.Metadata.Schema)

	// the maker set a fee recipient so the counter order must not
	assert.Equal(t, common.Address{}, buy.FeeRecipient)

	assert.Equal(t, transferFromCalldata(common.Address{}, testBuyer, testTokenID), buy.Calldata)
	assert.Equal(t, transferFromPattern(0), buy.ReplacementPattern)
	assert.True(t, OrderCalldataCanMatch(buy.Calldata, buy.ReplacementPattern, sell.Calldata, sell.ReplacementPattern))
}

func TestBuildCounterOrder_ForBuyOrder(t *testing.T) {
	buy := newTestBuyOrder()

	sell, err := newTestBuilder().BuildCounterOrder(buy, testSeller)
	require.NoError(t, err)

	assert.Equal(t, OrderSideSell, sell.Side)
	assert.Equal(t, testSeller, sell.Maker)
	assert.Equal(t, testBuyer, sell.Taker)
	assert.Equal(t, testFeeTo, sell.FeeRecipient)

	assert.Equal(t, transferFromCalldata(testSeller, common.Address{}, testTokenID), sell.Calldata)
	assert.Equal(t, transferFromPattern(1), sell.ReplacementPattern)
	assert.True(t, OrderCalldataCanMatch(buy.Calldata, buy.ReplacementPattern, sell.Calldata, sell.ReplacementPattern))
}

func TestBuildCounterOrder_DoesNotMutateOriginal(t *testing.T) {
	sell := newTestSellOrder()
	before := sell.Clone()

	_, err := newTestBuilder().BuildCounterOrder(sell, testBuyer)
	require.NoError(t, err)

	assert.Equal(t, before, sell)
}

func TestBuildCounterOrder_FreshSalt(t *testing.T) {
	builder := newTestBuilder()
	first, err := builder.BuildCounterOrder(newTestSellOrder(), testBuyer)
	require.NoError(t, err)
	second, err := builder.BuildCounterOrder(newTestSellOrder(), testBuyer)
	require.NoError(t, err)

	assert.False(t, first.Salt.Equal(second.Salt))
	_, err = ToUint256(first.Salt)
	assert.NoError(t, err)
}

func TestBuildCounterOrder_InvalidInputs(t *testing.T) {
	tests := []struct {
		name   string
		order  func() *Order
		taker  common.Address
		target error
	}{
		{
			name:   "nil order",
			order:  func() *Order { return nil },
			taker:  testBuyer,
			target: ErrNilOrder,
		},
		{
			name: "pattern length mismatch",
			order: func() *Order {
				o := newTestSellOrder()
				o.ReplacementPattern = []byte{0xff}
				return o
			},
			taker:  testBuyer,
			target: ErrPatternLength,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := newTestBuilder().BuildCounterOrder(tt.order(), tt.taker)
			assert.ErrorIs(t, err, tt.target)
		})
	}

	_, err := newTestBuilder().BuildCounterOrder(newTestSellOrder(), common.Address{})
	assert.Error(t, err)

	invalid := newTestSellOrder()
	invalid.Side = OrderSide(5)
	_, err = newTestBuilder().BuildCounterOrder(invalid, testBuyer)
	assert.Error(t, err)
}

func TestDeriveCounterCalldata_NoPattern(t *testing.T) {
	order := newTestSellOrder()
	order.ReplacementPattern = nil

	calldata, pattern := DeriveCounterCalldata(order, testBuyer)

	// only the maker word is rewritten
	assert.Equal(t, transferFromCalldata(common.Address{}, common.Address{}, testTokenID), calldata)
	assert.Equal(t, transferFromPattern(0), pattern)
	assert.True(t, bytes.Equal(order.Calldata[:4], calldata[:4]))
}

func TestDeriveCounterCalldata_ShortCalldata(t *testing.T) {
	order := newTestSellOrder()
	order.Calldata = []byte{0x01, 0x02}
	order.ReplacementPattern = nil

	calldata, pattern := DeriveCounterCalldata(order, testBuyer)
	assert.Equal(t, []byte{0x01, 0x02}, calldata)
	assert.Equal(t, []byte{0x00, 0x00}, pattern)
}
