package wyvern

import (
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kaifufi/wyvern-calldata-go/chain"
)

func TestSynthesizeCounterOrder_ForSellOrder(t *testing.T) {
	sell := newTestSellOrder()

	buy, err := NewMatcher(testFeeTo, testClock).SynthesizeCounterOrder(sell, testBuyer)
	require.NoError(t, err)

	assert.Equal(t, chain.OrderSideBuy, buy.Side)
	assert.Equal(t, testBuyer, buy.Maker)
	assert.Equal(t, testSeller, buy.Taker)
	assert.Equal(t, testNow.Unix()-100, buy.ListingTime.IntPart())
	assert.True(t, chain.OrderCalldataCanMatch(buy.Calldata, buy.ReplacementPattern, sell.Calldata, sell.ReplacementPattern))
}

func TestSynthesizeCounterOrder_RejectsBadInput(t *testing.T) {
	m := NewMatcher(testFeeTo, testClock)

	_, err := m.SynthesizeCounterOrder(nil, testBuyer)
	assert.ErrorIs(t, err, ErrInvalidParam)

	_, err = m.SynthesizeCounterOrder(newTestSellOrder(), common.Address{})
	assert.ErrorIs(t, err, ErrInvalidParam)

	sell := newTestSellOrder()
	sell.ReplacementPattern = sell.ReplacementPattern[:10]
	_, err = m.SynthesizeCounterOrder(sell, testBuyer)
	require.ErrorIs(t, err, ErrMalformedOrder)

	var malformedErr *MalformedOrderError
	require.ErrorAs(t, err, &malformedErr)
	assert.Equal(t, "replacementPattern", malformedErr.Field)
}

func TestAssignSides(t *testing.T) {
	sell := newTestSellOrder()
	buy := newTestBuyOrder()

	pair, err := AssignSides(sell, buy)
	require.NoError(t, err)
	assert.Same(t, buy, pair.Buy)
	assert.Same(t, sell, pair.Sell)

	swapped, err := AssignSides(buy, sell)
	require.NoError(t, err)
	assert.Same(t, pair.Buy, swapped.Buy)
	assert.Same(t, pair.Sell, swapped.Sell)
}

func TestAssignSides_SameSide(t *testing.T) {
	_, err := AssignSides(newTestSellOrder(), newTestSellOrder())
	assert.ErrorIs(t, err, ErrSideMismatch)

	_, err = AssignSides(newTestBuyOrder(), newTestBuyOrder())
	assert.ErrorIs(t, err, ErrSideMismatch)
}

func TestExtractMetadata(t *testing.T) {
	order := newTestSellOrder()
	assert.Nil(t, ExtractMetadata(order))

	order.Metadata.ReferrerAddress = "not an address"
	assert.Nil(t, ExtractMetadata(order))

	order.Metadata.ReferrerAddress = testStranger.Hex()
	referrer := ExtractMetadata(order)
	require.NotNil(t, referrer)
	assert.Equal(t, testStranger, *referrer)

	assert.Nil(t, ExtractMetadata(nil))
}
