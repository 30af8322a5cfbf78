package wyvern

import (
	"context"
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/kaifufi/wyvern-calldata-go/chain"
)

// ResolveRole decides which half of the pair account owns
func ResolveRole(account common.Address, pair *MatchedPair) CallerRole {
	if pair == nil || pair.Buy == nil || pair.Sell == nil || IsZeroAddress(account) {
		return RoleUnauthorized
	}
	switch account {
	case pair.Sell.Maker:
		return RoleSeller
	case pair.Buy.Maker:
		return RoleBuyer
	default:
		return RoleUnauthorized
	}
}

// MatchValidator runs the pre-trade checks for a matched pair
type MatchValidator struct {
	validator    OrderValidator
	checker      MatchChecker
	pricer       *PriceCalculator
	exchange     common.Address
	clock        Clock
	queryTimeout time.Duration
	logger       *zap.Logger
}

// NewMatchValidator creates a MatchValidator. validator and checker may be nil,
// in which case the corresponding checks are skipped. A non-zero exchange
// restricts matches to orders on that contract.
func NewMatchValidator(validator OrderValidator, checker MatchChecker, pricer *PriceCalculator, exchange common.Address, clock Clock, queryTimeout time.Duration, logger *zap.Logger) *MatchValidator {
	if clock == nil {
		clock = systemClock{}
	}
	if queryTimeout <= 0 {
		queryTimeout = DefaultQueryTimeout
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if pricer == nil {
		pricer = NewPriceCalculator(nil, clock, 0, queryTimeout, logger)
	}
	return &MatchValidator{
		validator:    validator,
		checker:      checker,
		pricer:       pricer,
		exchange:     exchange,
		clock:        clock,
		queryTimeout: queryTimeout,
		logger:       logger,
	}
}

// Validate checks pair on behalf of account and fills pair.Value when the
// caller buys with native currency.
//
// A seller only has the buy half validated, a buyer only the sell half; the
// caller's own order needs no checks. Callers owning neither half, and pairs
// on another exchange than the configured one, are refused before any
// collaborator is consulted.
func (v *MatchValidator) Validate(ctx context.Context, pair *MatchedPair, account common.Address) (CallerRole, error) {
	role := ResolveRole(account, pair)
	if role == RoleUnauthorized {
		return role, fmt.Errorf("%w: %s", ErrUnauthorizedCaller, account.Hex())
	}
	if !IsZeroAddress(v.exchange) && (pair.Buy.Exchange != v.exchange || pair.Sell.Exchange != v.exchange) {
		v.logger.Warn("pair targets an unexpected exchange",
			zap.String("expected", v.exchange.Hex()),
			zap.String("sell_exchange", pair.Sell.Exchange.Hex()),
		)
		return role, &IncompatibleOrdersError{Fields: []string{"exchange"}}
	}

	switch role {
	case RoleSeller:
		if err := v.validateBuy(ctx, pair, account); err != nil {
			return role, err
		}
	case RoleBuyer:
		if err := v.validateSell(ctx, pair, account); err != nil {
			return role, err
		}
		if pair.Buy.PaysInNativeCurrency() {
			value, err := v.pricer.RequiredNativePayment(ctx, pair.Sell)
			if err != nil {
				return role, err
			}
			pair.Value = value
		}
	}

	if err := CheckCompatibility(pair.Buy, pair.Sell, v.clock.Now()); err != nil {
		return role, err
	}

	if v.checker != nil {
		queryCtx, cancel := context.WithTimeout(ctx, v.queryTimeout)
		defer cancel()

		ok, err := v.checker.OrdersCanMatch(queryCtx, pair.Buy, pair.Sell)
		if err != nil {
			return role, upstreamError("orders can match", err)
		}
		if !ok {
			return role, &IncompatibleOrdersError{Fields: []string{"ordersCanMatch_"}}
		}
	}

	return role, nil
}

func (v *MatchValidator) validateBuy(ctx context.Context, pair *MatchedPair, account common.Address) error {
	if v.validator == nil {
		return nil
	}
	queryCtx, cancel := context.WithTimeout(ctx, v.queryTimeout)
	defer cancel()

	if err := v.validator.ValidateBuyOrder(queryCtx, pair.Buy, pair.Sell, account); err != nil {
		v.logger.Warn("buy order validation failed", zap.Error(err))
		return upstreamError("validate buy order", err)
	}
	return nil
}

func (v *MatchValidator) validateSell(ctx context.Context, pair *MatchedPair, account common.Address) error {
	if v.validator == nil {
		return nil
	}
	queryCtx, cancel := context.WithTimeout(ctx, v.queryTimeout)
	defer cancel()

	if err := v.validator.ValidateSellOrder(queryCtx, pair.Sell, account); err != nil {
		v.logger.Warn("sell order validation failed", zap.Error(err))
		return upstreamError("validate sell order", err)
	}
	return nil
}

// CheckCompatibility reports every field on which buy and sell could not be
// matched by the exchange at time now
func CheckCompatibility(buy, sell *chain.Order, now time.Time) error {
	if buy == nil || sell == nil {
		return &InvalidParamError{Message: "both orders are required"}
	}

	var fields []string
	fail := func(field string) { fields = append(fields, field) }

	if buy.Exchange != sell.Exchange {
		fail("exchange")
	}
	if buy.Side != chain.OrderSideBuy || sell.Side != chain.OrderSideSell {
		fail("side")
	}
	if buy.FeeMethod != sell.FeeMethod {
		fail("feeMethod")
	}
	if buy.PaymentToken != sell.PaymentToken {
		fail("paymentToken")
	}
	if !(IsZeroAddress(sell.Taker) || sell.Taker == buy.Maker) ||
		!(IsZeroAddress(buy.Taker) || buy.Taker == sell.Maker) {
		fail("taker")
	}
	if IsZeroAddress(sell.FeeRecipient) == IsZeroAddress(buy.FeeRecipient) {
		fail("feeRecipient")
	}
	if buy.Target != sell.Target {
		fail("target")
	}
	if buy.HowToCall != sell.HowToCall {
		fail("howToCall")
	}

	at := decimal.NewFromInt(now.Unix())
	for _, o := range []struct {
		name  string
		order *chain.Order
	}{
		{"buy", buy},
		{"sell", sell},
	} {
		if !o.order.ListingTime.LessThan(at) {
			fail(o.name + ".listingTime")
		}
		expired := !o.order.ExpirationTime.IsZero() && !at.LessThan(o.order.ExpirationTime)
		openAuction := o.order.SaleKind == chain.SaleKindDutchAuction && o.order.ExpirationTime.IsZero()
		if expired || openAuction {
			fail(o.name + ".expirationTime")
		}
	}

	if !sell.BasePrice.IsPositive() {
		fail("basePrice")
	}
	if sell.SaleKind == chain.SaleKindDutchAuction && sell.Extra.GreaterThan(sell.BasePrice) {
		fail("extra")
	}
	if !chain.OrderCalldataCanMatch(buy.Calldata, buy.ReplacementPattern, sell.Calldata, sell.ReplacementPattern) {
		fail("calldata")
	}

	if len(fields) > 0 {
		return &IncompatibleOrdersError{Fields: fields}
	}
	return nil
}
