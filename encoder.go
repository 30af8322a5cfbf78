package wyvern

import (
	"errors"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"

	"github.com/kaifufi/wyvern-calldata-go/chain"
)

// Encode returns the 0x-prefixed atomicMatch_ calldata for buy and sell.
// Fractional amounts fail with ErrNonIntegerAmount; negative or oversized
// amounts fail with ErrMalformedOrder.
func Encode(buy, sell *chain.Order, metadata *common.Address) (string, error) {
	if buy == nil || sell == nil {
		return "", &InvalidParamError{Message: "both orders are required"}
	}

	data, err := chain.EncodeAtomicMatch(buy, sell, metadata)
	if err != nil {
		var amountErr *chain.AmountError
		if errors.As(err, &amountErr) && errors.Is(err, chain.ErrAmountOutOfRange) {
			return "", &MalformedOrderError{Field: amountErr.Field, Value: amountErr.Value.String(), Err: err}
		}
		return "", err
	}
	return hexutil.Encode(data), nil
}

// EncodePair encodes a validated pair
func EncodePair(pair *MatchedPair) (string, error) {
	if pair == nil {
		return "", &InvalidParamError{Message: "pair is required"}
	}
	return Encode(pair.Buy, pair.Sell, pair.Metadata)
}
