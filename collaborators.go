package wyvern

//go:generate mockgen -source=collaborators.go -destination=collaborators_mock_test.go -package=wyvern

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"github.com/kaifufi/wyvern-calldata-go/chain"
)

// OrderQuery selects orders from the marketplace order book
type OrderQuery struct {
	TokenAddress common.Address
	TokenID      *big.Int
	Side         chain.OrderSide
	Limit        int
}

// OrderLookup fetches raw order payloads from an order book
type OrderLookup interface {
	GetOrders(ctx context.Context, query OrderQuery) ([]map[string]interface{}, error)
}

// OrderValidator performs the marketplace's pre-trade checks.
// Business rejections must match ErrOrderValidation.
type OrderValidator interface {
	ValidateSellOrder(ctx context.Context, sell *chain.Order, account common.Address) error
	ValidateBuyOrder(ctx context.Context, buy, counter *chain.Order, account common.Address) error
}

// PriceOracle returns the live price of an order
type PriceOracle interface {
	CurrentPrice(ctx context.Context, order *chain.Order) (*big.Int, error)
}

// MatchChecker asks the exchange itself whether a pair can be matched
type MatchChecker interface {
	OrdersCanMatch(ctx context.Context, buy, sell *chain.Order) (bool, error)
}
