package chain

import (
	"context"
	"fmt"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"
)

// DefaultCallTimeout bounds every read-only contract call
const DefaultCallTimeout = 10 * time.Second

// ContractCaller handles read-only contract interactions with the exchange,
// the proxy registry and the token contracts an order touches
type ContractCaller struct {
	backend     ethereum.ContractCaller
	client      *ethclient.Client
	callTimeout time.Duration
}

// NewContractCaller creates a new ContractCaller connected to rpcURL
func NewContractCaller(rpcURL string, callTimeout time.Duration) (*ContractCaller, error) {
	client, err := ethclient.Dial(rpcURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RPC: %w", err)
	}

	cc := NewContractCallerWithBackend(client, callTimeout)
	cc.client = client
	return cc, nil
}

// NewContractCallerWithBackend creates a ContractCaller on top of an existing backend
func NewContractCallerWithBackend(backend ethereum.ContractCaller, callTimeout time.Duration) *ContractCaller {
	if callTimeout <= 0 {
		callTimeout = DefaultCallTimeout
	}
	return &ContractCaller{
		backend:     backend,
		callTimeout: callTimeout,
	}
}

// call packs method, executes it against to and unpacks the single return value into out
func (cc *ContractCaller) call(ctx context.Context, contractABI abi.ABI, to common.Address, method string, out interface{}, args ...interface{}) error {
	data, err := contractABI.Pack(method, args...)
	if err != nil {
		return fmt.Errorf("failed to pack %s: %w", method, err)
	}

	callCtx, cancel := context.WithTimeout(ctx, cc.callTimeout)
	defer cancel()

	result, err := cc.backend.CallContract(callCtx, ethereum.CallMsg{
		To:   &to,
		Data: data,
	}, nil)
	if err != nil {
		return fmt.Errorf("failed to call %s on %s: %w", method, to.Hex(), err)
	}

	if err := contractABI.UnpackIntoInterface(out, method, result); err != nil {
		return fmt.Errorf("failed to unpack %s: %w", method, err)
	}
	return nil
}

// CurrentPrice returns the order's current price as computed by its exchange
func (cc *ContractCaller) CurrentPrice(ctx context.Context, order *Order) (*big.Int, error) {
	args, err := singleOrderArgs(order)
	if err != nil {
		return nil, err
	}

	var price *big.Int
	if err := cc.call(ctx, GetWyvernExchangeABI(), order.Exchange, "calculateCurrentPrice_", &price, args...); err != nil {
		return nil, err
	}
	return price, nil
}

// ValidateOrder asks the exchange whether the order parameters and signature are valid
func (cc *ContractCaller) ValidateOrder(ctx context.Context, order *Order) (bool, error) {
	args, err := singleOrderArgs(order)
	if err != nil {
		return false, err
	}
	v, r, s := signatureParts(order)
	args = append(args, v, r, s)

	var valid bool
	if err := cc.call(ctx, GetWyvernExchangeABI(), order.Exchange, "validateOrder_", &valid, args...); err != nil {
		return false, err
	}
	return valid, nil
}

// OrdersCanMatch asks the exchange whether buy and sell can be matched
func (cc *ContractCaller) OrdersCanMatch(ctx context.Context, buy, sell *Order) (bool, error) {
	args, err := matchArgs(buy, sell)
	if err != nil {
		return false, err
	}

	var ok bool
	if err := cc.call(ctx, GetWyvernExchangeABI(), sell.Exchange, "ordersCanMatch_", &ok, args...); err != nil {
		return false, err
	}
	return ok, nil
}

// CalculateMatchPrice returns the price the exchange would settle buy and sell at
func (cc *ContractCaller) CalculateMatchPrice(ctx context.Context, buy, sell *Order) (*big.Int, error) {
	args, err := matchArgs(buy, sell)
	if err != nil {
		return nil, err
	}

	var price *big.Int
	if err := cc.call(ctx, GetWyvernExchangeABI(), sell.Exchange, "calculateMatchPrice_", &price, args...); err != nil {
		return nil, err
	}
	return price, nil
}

// OrderCalldataCanMatch runs the exchange's calldata compatibility view
func (cc *ContractCaller) OrderCalldataCanMatch(ctx context.Context, exchange common.Address, buy, sell *Order) (bool, error) {
	var ok bool
	err := cc.call(ctx, GetWyvernExchangeABI(), exchange, "orderCalldataCanMatch", &ok,
		nonNil(buy.Calldata), nonNil(buy.ReplacementPattern),
		nonNil(sell.Calldata), nonNil(sell.ReplacementPattern),
	)
	if err != nil {
		return false, err
	}
	return ok, nil
}

// ProxyRegistry returns the proxy registry configured on the exchange
func (cc *ContractCaller) ProxyRegistry(ctx context.Context, exchange common.Address) (common.Address, error) {
	var registry common.Address
	if err := cc.call(ctx, GetWyvernExchangeABI(), exchange, "registry", &registry); err != nil {
		return common.Address{}, err
	}
	return registry, nil
}

// TokenTransferProxy returns the ERC20 transfer proxy configured on the exchange
func (cc *ContractCaller) TokenTransferProxy(ctx context.Context, exchange common.Address) (common.Address, error) {
	var proxy common.Address
	if err := cc.call(ctx, GetWyvernExchangeABI(), exchange, "tokenTransferProxy", &proxy); err != nil {
		return common.Address{}, err
	}
	return proxy, nil
}

// ProxyOf returns the user proxy registered for owner, or the zero address
func (cc *ContractCaller) ProxyOf(ctx context.Context, registry, owner common.Address) (common.Address, error) {
	var proxy common.Address
	if err := cc.call(ctx, GetProxyRegistryABI(), registry, "proxies", &proxy, owner); err != nil {
		return common.Address{}, err
	}
	return proxy, nil
}

// OwnerOf returns the owner of an ERC721 token
func (cc *ContractCaller) OwnerOf(ctx context.Context, token common.Address, tokenID *big.Int) (common.Address, error) {
	var owner common.Address
	if err := cc.call(ctx, GetERC721ABI(), token, "ownerOf", &owner, tokenID); err != nil {
		return common.Address{}, err
	}
	return owner, nil
}

// GetApproved returns the single-token approval of an ERC721 token
func (cc *ContractCaller) GetApproved(ctx context.Context, token common.Address, tokenID *big.Int) (common.Address, error) {
	var approved common.Address
	if err := cc.call(ctx, GetERC721ABI(), token, "getApproved", &approved, tokenID); err != nil {
		return common.Address{}, err
	}
	return approved, nil
}

// IsApprovedForAll checks whether operator may move every token of owner
func (cc *ContractCaller) IsApprovedForAll(ctx context.Context, token, owner, operator common.Address) (bool, error) {
	var approved bool
	if err := cc.call(ctx, GetERC721ABI(), token, "isApprovedForAll", &approved, owner, operator); err != nil {
		return false, err
	}
	return approved, nil
}

// ERC1155BalanceOf returns the balance of an ERC1155 token id held by account
func (cc *ContractCaller) ERC1155BalanceOf(ctx context.Context, token, account common.Address, tokenID *big.Int) (*big.Int, error) {
	var balance *big.Int
	if err := cc.call(ctx, GetERC1155ABI(), token, "balanceOf", &balance, account, tokenID); err != nil {
		return nil, err
	}
	return balance, nil
}

// ERC20Balance returns the ERC20 balance for an account
func (cc *ContractCaller) ERC20Balance(ctx context.Context, token, account common.Address) (*big.Int, error) {
	var balance *big.Int
	if err := cc.call(ctx, GetERC20ABI(), token, "balanceOf", &balance, account); err != nil {
		return nil, err
	}
	return balance, nil
}

// ERC20Allowance returns the ERC20 allowance for owner to spender
func (cc *ContractCaller) ERC20Allowance(ctx context.Context, token, owner, spender common.Address) (*big.Int, error) {
	var allowance *big.Int
	if err := cc.call(ctx, GetERC20ABI(), token, "allowance", &allowance, owner, spender); err != nil {
		return nil, err
	}
	return allowance, nil
}

// Close closes the Ethereum client connection
func (cc *ContractCaller) Close() {
	if cc.client != nil {
		cc.client.Close()
	}
}
