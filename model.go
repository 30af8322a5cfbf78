package wyvern

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"github.com/kaifufi/wyvern-calldata-go/chain"
)

// CallerRole represents which half of a matched pair the caller owns
type CallerRole int

const (
	RoleUnauthorized CallerRole = iota
	RoleSeller
	RoleBuyer
)

func (r CallerRole) String() string {
	switch r {
	case RoleSeller:
		return "seller"
	case RoleBuyer:
		return "buyer"
	default:
		return "unauthorized"
	}
}

// MatchedPair is a buy/sell pair ready for validation and encoding
type MatchedPair struct {
	Buy      *chain.Order
	Sell     *chain.Order
	Metadata *common.Address
	// Value is the native currency to attach; nil unless the caller buys with it
	Value *big.Int
}

// MatchResult is everything needed to submit an atomicMatch_ transaction
type MatchResult struct {
	ID       string
	Pair     *MatchedPair
	Role     CallerRole
	To       common.Address
	Value    *big.Int
	Calldata string
}

// OrdersResponse is the order book API response for an order query
type OrdersResponse struct {
	Count  int                      `json:"count"`
	Orders []map[string]interface{} `json:"orders"`
}

// ListingEvent is an item_listed notification from the stream API
type ListingEvent struct {
	EventType      string
	Collection     string
	TokenAddress   common.Address
	TokenID        *big.Int
	Maker          common.Address
	BasePrice      string
	PaymentToken   common.Address
	ListingDate    string
	ExpirationDate string
}

// ListingHandler receives the outcome of matching a streamed listing
type ListingHandler func(event *ListingEvent, result *MatchResult, err error)
