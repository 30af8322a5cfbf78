package wyvern

import (
	"context"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"

	"github.com/kaifufi/wyvern-calldata-go/chain"
)

// ChainReader is the read-only chain access the order validator needs.
// It is implemented by *chain.ContractCaller.
type ChainReader interface {
	ValidateOrder(ctx context.Context, order *chain.Order) (bool, error)
	OrdersCanMatch(ctx context.Context, buy, sell *chain.Order) (bool, error)
	CalculateMatchPrice(ctx context.Context, buy, sell *chain.Order) (*big.Int, error)
	ProxyOf(ctx context.Context, registry, owner common.Address) (common.Address, error)
	OwnerOf(ctx context.Context, token common.Address, tokenID *big.Int) (common.Address, error)
	GetApproved(ctx context.Context, token common.Address, tokenID *big.Int) (common.Address, error)
	IsApprovedForAll(ctx context.Context, token, owner, operator common.Address) (bool, error)
	ERC1155BalanceOf(ctx context.Context, token, account common.Address, tokenID *big.Int) (*big.Int, error)
	ERC20Balance(ctx context.Context, token, account common.Address) (*big.Int, error)
	ERC20Allowance(ctx context.Context, token, owner, spender common.Address) (*big.Int, error)
}

// ChainOrderValidator validates orders against exchange, registry and token contracts
type ChainOrderValidator struct {
	reader             ChainReader
	proxyRegistry      common.Address
	tokenTransferProxy common.Address
	logger             *zap.Logger
}

// NewChainOrderValidator creates a new ChainOrderValidator
func NewChainOrderValidator(reader ChainReader, proxyRegistry, tokenTransferProxy common.Address, logger *zap.Logger) *ChainOrderValidator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ChainOrderValidator{
		reader:             reader,
		proxyRegistry:      proxyRegistry,
		tokenTransferProxy: tokenTransferProxy,
		logger:             logger,
	}
}

func reject(side, format string, args ...interface{}) error {
	return &OrderValidationError{Side: side, Reason: fmt.Sprintf(format, args...)}
}

// checkAuthorization verifies the maker authorized the order, either by a
// signature or by being the account that will send the transaction.
// Signatures are checked by the exchange's validateOrder_ only: the signed
// digest depends on the exchange version and on the maker nonce it stores.
func (v *ChainOrderValidator) checkAuthorization(ctx context.Context, side string, order *chain.Order, account common.Address) error {
	if !order.IsSigned() {
		if order.Maker != account {
			return reject(side, "order from %s is not signed", order.Maker.Hex())
		}
		return nil
	}

	valid, err := v.reader.ValidateOrder(ctx, order)
	if err != nil {
		return err
	}
	if !valid {
		return reject(side, "exchange rejected order parameters or signature")
	}
	return nil
}

// ValidateSellOrder checks the sell half of a pair: authorization, the
// seller's proxy, and that the seller still holds the asset and has approved
// the proxy to move it
func (v *ChainOrderValidator) ValidateSellOrder(ctx context.Context, sell *chain.Order, account common.Address) error {
	if err := v.checkAuthorization(ctx, "sell", sell, account); err != nil {
		return err
	}

	proxy, err := v.reader.ProxyOf(ctx, v.proxyRegistry, sell.Maker)
	if err != nil {
		return err
	}
	if IsZeroAddress(proxy) {
		return reject("sell", "seller %s has no registered proxy", sell.Maker.Hex())
	}

	asset := sell.Metadata.Asset
	if asset == nil || asset.ID == nil || IsZeroAddress(asset.Address) {
		v.logger.Debug("sell order carries no asset metadata, skipping ownership checks")
		return nil
	}

	if strings.EqualFold(sell.Metadata.Schema, "ERC1155") {
		balance, err := v.reader.ERC1155BalanceOf(ctx, asset.Address, sell.Maker, asset.ID)
		if err != nil {
			return err
		}
		if balance.Sign() <= 0 {
			return reject("sell", "seller does not hold token %s", asset.ID.String())
		}
	} else {
		owner, err := v.reader.OwnerOf(ctx, asset.Address, asset.ID)
		if err != nil {
			return err
		}
		if owner != sell.Maker {
			return reject("sell", "token %s is owned by %s", asset.ID.String(), owner.Hex())
		}
	}

	approved, err := v.reader.IsApprovedForAll(ctx, asset.Address, sell.Maker, proxy)
	if err != nil {
		return err
	}
	if approved {
		return nil
	}

	// ERC721 also allows approving a single token
	if !strings.EqualFold(sell.Metadata.Schema, "ERC1155") {
		operator, err := v.reader.GetApproved(ctx, asset.Address, asset.ID)
		if err != nil {
			return err
		}
		if operator == proxy {
			return nil
		}
	}
	return reject("sell", "proxy %s is not approved for %s", proxy.Hex(), asset.Address.Hex())
}

// ValidateBuyOrder checks the buy half of a pair: authorization and, for
// ERC20 payments, that the buyer can cover the match price through the
// token transfer proxy
func (v *ChainOrderValidator) ValidateBuyOrder(ctx context.Context, buy, counter *chain.Order, account common.Address) error {
	if err := v.checkAuthorization(ctx, "buy", buy, account); err != nil {
		return err
	}
	if buy.PaysInNativeCurrency() {
		return nil
	}

	price, err := v.reader.CalculateMatchPrice(ctx, buy, counter)
	if err != nil {
		return err
	}

	balance, err := v.reader.ERC20Balance(ctx, buy.PaymentToken, buy.Maker)
	if err != nil {
		return err
	}
	if balance.Cmp(price) < 0 {
		return reject("buy", "balance %s below price %s", balance.String(), price.String())
	}

	allowance, err := v.reader.ERC20Allowance(ctx, buy.PaymentToken, buy.Maker, v.tokenTransferProxy)
	if err != nil {
		return err
	}
	if allowance.Cmp(price) < 0 {
		return reject("buy", "allowance %s below price %s", allowance.String(), price.String())
	}
	return nil
}

// OrdersCanMatch consults the exchange's ordersCanMatch_ view
func (v *ChainOrderValidator) OrdersCanMatch(ctx context.Context, buy, sell *chain.Order) (bool, error) {
	return v.reader.OrdersCanMatch(ctx, buy, sell)
}
