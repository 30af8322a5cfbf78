package wyvern

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"

	"github.com/kaifufi/wyvern-calldata-go/chain"
)

// Client is the main SDK client
type Client struct {
	config         ClientConfig
	lookup         OrderLookup
	contractCaller *chain.ContractCaller
	engine         *Engine
	logger         *zap.Logger
}

// ClientConfig holds configuration for creating a Client
type ClientConfig struct {
	Network                Network
	Host                   string
	APIKey                 string
	RPCURL                 string
	StreamEndpoint         string
	ExchangeAddr           string
	ProxyRegistryAddr      string
	TokenTransferProxyAddr string
	FeeRecipient           string
	QueryTimeout           time.Duration
	PriceBacktrack         time.Duration
	LogLevel               string
	Logger                 *zap.Logger
	Clock                  Clock
}

// NewClient creates a new client. Without an RPC URL the on-chain checks are
// skipped and prices are computed locally.
func NewClient(config ClientConfig) (*Client, error) {
	if err := config.applyDefaults(); err != nil {
		return nil, err
	}

	logger := config.Logger
	if logger == nil {
		var err error
		if logger, err = NewLogger(config.LogLevel); err != nil {
			return nil, err
		}
	}
	logger = logger.With(zap.String("network", string(config.Network)))

	exchange, _ := ParseAddress(config.ExchangeAddr)
	feeRecipient, _ := ParseAddress(config.FeeRecipient)
	engineConfig := EngineConfig{
		Exchange:       exchange,
		FeeRecipient:   feeRecipient,
		QueryTimeout:   config.QueryTimeout,
		PriceBacktrack: config.PriceBacktrack,
		Clock:          config.Clock,
		Logger:         logger,
	}

	var contractCaller *chain.ContractCaller
	if config.RPCURL != "" {
		var err error
		contractCaller, err = chain.NewContractCaller(config.RPCURL, config.QueryTimeout)
		if err != nil {
			return nil, fmt.Errorf("failed to create contract caller: %w", err)
		}

		proxyRegistry, _ := ParseAddress(config.ProxyRegistryAddr)
		transferProxy, _ := ParseAddress(config.TokenTransferProxyAddr)
		validator := NewChainOrderValidator(contractCaller, proxyRegistry, transferProxy, logger)

		engineConfig.Validator = validator
		engineConfig.Checker = validator
		engineConfig.Oracle = contractCaller
	} else {
		logger.Warn("no RPC URL configured, on-chain order checks are disabled")
	}

	return &Client{
		config:         config,
		lookup:         NewAPIClient(config.Host, config.APIKey),
		contractCaller: contractCaller,
		engine:         NewEngine(engineConfig),
		logger:         logger,
	}, nil
}

// newClientWith builds a client around explicit collaborators
func newClientWith(config ClientConfig, lookup OrderLookup, engine *Engine) *Client {
	logger := config.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	if config.QueryTimeout <= 0 {
		config.QueryTimeout = DefaultQueryTimeout
	}
	return &Client{
		config: config,
		lookup: lookup,
		engine: engine,
		logger: logger,
	}
}

// Close closes the client and cleans up resources
func (c *Client) Close() {
	if c.contractCaller != nil {
		c.contractCaller.Close()
	}
	_ = c.logger.Sync()
}

// GetOrder returns the first order on side for an asset
func (c *Client) GetOrder(ctx context.Context, tokenAddress common.Address, tokenID *big.Int, side chain.OrderSide) (*chain.Order, error) {
	queryCtx, cancel := context.WithTimeout(ctx, c.config.QueryTimeout)
	defer cancel()

	orders, err := c.lookup.GetOrders(queryCtx, OrderQuery{
		TokenAddress: tokenAddress,
		TokenID:      tokenID,
		Side:         side,
		Limit:        1,
	})
	if errors.Is(err, ErrInvalidParam) {
		return nil, err
	}
	if err != nil {
		return nil, upstreamError("get orders", err)
	}
	if len(orders) == 0 {
		return nil, fmt.Errorf("%w: %s side for %s #%s", ErrNoOrders, side, tokenAddress.Hex(), tokenID.String())
	}
	return ParseOrder(orders[0])
}

// GenerateCalldata looks up the current sell order of an asset and returns
// the calldata for accountAddress to fill it
func (c *Client) GenerateCalldata(ctx context.Context, tokenAddress, tokenID, accountAddress string) (*MatchResult, error) {
	token, err := ParseAddress(tokenAddress)
	if err != nil {
		return nil, err
	}
	id, err := ParseTokenID(tokenID)
	if err != nil {
		return nil, err
	}
	account, err := ParseAddress(accountAddress)
	if err != nil {
		return nil, err
	}

	order, err := c.GetOrder(ctx, token, id, chain.OrderSideSell)
	if err != nil {
		c.logger.Warn("order lookup failed",
			zap.String("token_address", token.Hex()),
			zap.String("token_id", id.String()),
			zap.Error(err),
		)
		return nil, err
	}
	return c.engine.Match(ctx, order, account)
}

// FulfillOrder returns the calldata for account to fill an order already in hand
func (c *Client) FulfillOrder(ctx context.Context, order *chain.Order, account common.Address) (*MatchResult, error) {
	return c.engine.Match(ctx, order, account)
}

// WatchListings follows item_listed events of a collection and generates
// calldata for every listing on behalf of account. Listings are processed one
// at a time. It blocks until ctx is cancelled.
func (c *Client) WatchListings(ctx context.Context, collection string, account common.Address, handler ListingHandler) error {
	if handler == nil {
		return &InvalidParamError{Message: "listing handler is required"}
	}
	if collection == "" {
		return &InvalidParamError{Message: "collection slug is required"}
	}

	listings := make(chan *ListingEvent, 64)
	stream := NewStreamClient(StreamConfig{
		Endpoint: c.config.StreamEndpoint,
		APIKey:   c.config.APIKey,
		Logger:   c.logger,
		OnListing: func(event *ListingEvent) {
			select {
			case listings <- event:
			default:
				c.logger.Warn("listing queue full, dropping event",
					zap.String("token_address", event.TokenAddress.Hex()),
					zap.String("token_id", event.TokenID.String()),
				)
			}
		},
	})
	return c.watch(ctx, stream, collection, account, listings, handler)
}

func (c *Client) watch(ctx context.Context, stream *StreamClient, collection string, account common.Address, listings <-chan *ListingEvent, handler ListingHandler) error {
	if err := stream.Connect(ctx); err != nil {
		return upstreamError("connect stream", err)
	}
	defer stream.Disconnect()

	if err := stream.Subscribe(collection); err != nil {
		return upstreamError("subscribe "+collection, err)
	}
	c.logger.Info("watching listings", zap.String("collection", collection), zap.String("account", account.Hex()))

	for {
		select {
		case <-ctx.Done():
			return nil
		case event := <-listings:
			result, err := c.GenerateCalldata(ctx, event.TokenAddress.Hex(), event.TokenID.String(), account.Hex())
			handler(event, result, err)
		}
	}
}
