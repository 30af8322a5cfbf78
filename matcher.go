package wyvern

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"

	"github.com/kaifufi/wyvern-calldata-go/chain"
)

// Matcher builds counter orders and pairs them with the orders they take
type Matcher struct {
	builder *chain.CounterOrderBuilder
}

// NewMatcher creates a Matcher. feeRecipient is used on counter orders of
// makers that left their fee recipient unset.
func NewMatcher(feeRecipient common.Address, clock Clock) *Matcher {
	if clock == nil {
		clock = systemClock{}
	}
	return &Matcher{
		builder: chain.NewCounterOrderBuilder(feeRecipient, clock.Now),
	}
}

// SynthesizeCounterOrder returns the unsigned order that takes order on behalf of taker
func (m *Matcher) SynthesizeCounterOrder(order *chain.Order, taker common.Address) (*chain.Order, error) {
	if order == nil {
		return nil, &InvalidParamError{Message: "order is required"}
	}
	if IsZeroAddress(taker) {
		return nil, &InvalidParamError{Message: "taker address is required"}
	}

	counter, err := m.builder.BuildCounterOrder(order, taker)
	if err != nil {
		field := "side"
		if errors.Is(err, chain.ErrPatternLength) {
			field = "replacementPattern"
		}
		return nil, &MalformedOrderError{Field: field, Err: err}
	}
	return counter, nil
}

// AssignSides labels two complementary orders as buy and sell
func AssignSides(order, counter *chain.Order) (*MatchedPair, error) {
	if order == nil || counter == nil {
		return nil, &InvalidParamError{Message: "both orders are required"}
	}
	if chain.SideOf(order) == chain.SideOf(counter) {
		return nil, fmt.Errorf("%w: both orders are %s", ErrSideMismatch, chain.SideOf(order))
	}

	if chain.SideOf(order) == chain.OrderSideBuy {
		return &MatchedPair{Buy: order, Sell: counter}, nil
	}
	return &MatchedPair{Buy: counter, Sell: order}, nil
}

// ExtractMetadata returns the order's referrer when it is a valid hex address
func ExtractMetadata(order *chain.Order) *common.Address {
	if order == nil {
		return nil
	}
	referrer := strings.TrimSpace(order.Metadata.ReferrerAddress)
	if referrer == "" {
		return nil
	}
	addr, err := ParseAddress(referrer)
	if err != nil {
		return nil
	}
	return &addr
}
