package wyvern

import (
	"context"
	"errors"
	"math/big"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/kaifufi/wyvern-calldata-go/chain"
)

var errEmptyPrice = errors.New("oracle returned no price")

// PriceCalculator computes what a taker has to pay for a sell order
type PriceCalculator struct {
	oracle       PriceOracle
	clock        Clock
	backtrack    time.Duration
	queryTimeout time.Duration
	logger       *zap.Logger
}

// NewPriceCalculator creates a PriceCalculator. A nil oracle makes the live
// price fall back to the local auction formula.
func NewPriceCalculator(oracle PriceOracle, clock Clock, backtrack, queryTimeout time.Duration, logger *zap.Logger) *PriceCalculator {
	if clock == nil {
		clock = systemClock{}
	}
	if backtrack <= 0 {
		backtrack = DefaultPriceBacktrack
	}
	if queryTimeout <= 0 {
		queryTimeout = DefaultQueryTimeout
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PriceCalculator{
		oracle:       oracle,
		clock:        clock,
		backtrack:    backtrack,
		queryTimeout: queryTimeout,
		logger:       logger,
	}
}

// CurrentPrice returns the live price of sell
func (p *PriceCalculator) CurrentPrice(ctx context.Context, sell *chain.Order) (decimal.Decimal, error) {
	if p.oracle == nil {
		price, err := chain.CalculateFinalPrice(sell, p.clock.Now())
		if err != nil {
			return decimal.Zero, &MalformedOrderError{Field: "expirationTime", Err: err}
		}
		return price, nil
	}

	queryCtx, cancel := context.WithTimeout(ctx, p.queryTimeout)
	defer cancel()

	price, err := p.oracle.CurrentPrice(queryCtx, sell)
	if err != nil {
		return decimal.Zero, upstreamError("current price", err)
	}
	if price == nil {
		return decimal.Zero, upstreamError("current price", errEmptyPrice)
	}
	return decimal.NewFromBigInt(price, 0), nil
}

// EstimatePrice evaluates the auction formula slightly in the past, which for
// a decaying sell auction never undershoots the price at inclusion time
func (p *PriceCalculator) EstimatePrice(sell *chain.Order) (decimal.Decimal, error) {
	price, err := chain.CalculateFinalPrice(sell, p.clock.Now().Add(-p.backtrack))
	if err != nil {
		return decimal.Zero, &MalformedOrderError{Field: "expirationTime", Err: err}
	}
	return price, nil
}

// RequiredNativePayment returns the native currency value to attach when
// taking sell: the larger of the live and estimated prices plus the taker
// relayer fee, rounded up to a whole unit
func (p *PriceCalculator) RequiredNativePayment(ctx context.Context, sell *chain.Order) (*big.Int, error) {
	var current, estimated decimal.Decimal

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		current, err = p.CurrentPrice(gctx, sell)
		return err
	})
	g.Go(func() error {
		var err error
		estimated, err = p.EstimatePrice(sell)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	maxPrice := decimal.Max(current, estimated)
	fee := maxPrice.Mul(sell.TakerRelayerFee).Div(InverseBasisPoint)
	required := maxPrice.Add(fee).Ceil()

	p.logger.Debug("required native payment",
		zap.String("current", current.String()),
		zap.String("estimated", estimated.String()),
		zap.String("required", required.String()),
	)

	return required.BigInt(), nil
}
