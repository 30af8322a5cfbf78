package wyvern

import (
	"context"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/kaifufi/wyvern-calldata-go/chain"
)

// EngineConfig holds the collaborators and settings of an Engine
type EngineConfig struct {
	// Exchange, when set, is the only contract matches may target
	Exchange       common.Address
	FeeRecipient   common.Address
	QueryTimeout   time.Duration
	PriceBacktrack time.Duration
	Clock          Clock
	Logger         *zap.Logger

	Validator OrderValidator
	Oracle    PriceOracle
	Checker   MatchChecker
}

// Engine turns a maker order and a taker account into atomicMatch_ calldata
type Engine struct {
	matcher   *Matcher
	validator *MatchValidator
	logger    *zap.Logger
}

// NewEngine creates a new Engine
func NewEngine(config EngineConfig) *Engine {
	if config.Clock == nil {
		config.Clock = systemClock{}
	}
	if config.QueryTimeout <= 0 {
		config.QueryTimeout = DefaultQueryTimeout
	}
	if config.PriceBacktrack <= 0 {
		config.PriceBacktrack = DefaultPriceBacktrack
	}
	if config.Logger == nil {
		config.Logger = zap.NewNop()
	}

	pricer := NewPriceCalculator(config.Oracle, config.Clock, config.PriceBacktrack, config.QueryTimeout, config.Logger)

	return &Engine{
		matcher:   NewMatcher(config.FeeRecipient, config.Clock),
		validator: NewMatchValidator(config.Validator, config.Checker, pricer, config.Exchange, config.Clock, config.QueryTimeout, config.Logger),
		logger:    config.Logger,
	}
}

// Match synthesizes the counter order for order, validates the pair on behalf
// of account and encodes it. Any failure aborts without calldata.
func (e *Engine) Match(ctx context.Context, order *chain.Order, account common.Address) (*MatchResult, error) {
	id := uuid.NewString()
	log := e.logger.With(zap.String("match_id", id), zap.String("account", account.Hex()))

	counter, err := e.matcher.SynthesizeCounterOrder(order, account)
	if err != nil {
		log.Warn("failed to build counter order", zap.Error(err))
		return nil, err
	}

	pair, err := AssignSides(order, counter)
	if err != nil {
		log.Warn("failed to assign sides", zap.Error(err))
		return nil, err
	}
	pair.Metadata = ExtractMetadata(order)

	role, err := e.validator.Validate(ctx, pair, account)
	if err != nil {
		log.Warn("match validation failed", zap.String("role", role.String()), zap.Error(err))
		return nil, err
	}

	calldata, err := EncodePair(pair)
	if err != nil {
		log.Error("failed to encode calldata", zap.Error(err))
		return nil, err
	}

	fields := []zap.Field{zap.String("role", role.String())}
	if hash, err := chain.HashOrder(pair.Buy); err == nil {
		fields = append(fields, zap.String("buy_hash", hash.Hex()))
	}
	if hash, err := chain.HashOrder(pair.Sell); err == nil {
		fields = append(fields, zap.String("sell_hash", hash.Hex()))
	}
	if pair.Value != nil {
		fields = append(fields, zap.String("value", pair.Value.String()))
	}
	log.Info("match encoded", fields...)

	return &MatchResult{
		ID:       id,
		Pair:     pair,
		Role:     role,
		To:       pair.Sell.Exchange,
		Value:    pair.Value,
		Calldata: calldata,
	}, nil
}

// MatchPayload parses an untyped order payload and matches it
func (e *Engine) MatchPayload(ctx context.Context, payload map[string]interface{}, account common.Address) (*MatchResult, error) {
	order, err := ParseOrder(payload)
	if err != nil {
		e.logger.Warn("failed to parse order", zap.Error(err))
		return nil, err
	}
	return e.Match(ctx, order, account)
}
