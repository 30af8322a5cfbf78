package chain

import (
	"math/big"
	"strings"
	"sync"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"
)

// OrderSide represents the side of an order
type OrderSide uint8

const (
	OrderSideBuy OrderSide = iota
	OrderSideSell
)

// Valid reports whether the side is one the exchange understands
func (s OrderSide) Valid() bool {
	return s == OrderSideBuy || s == OrderSideSell
}

// Opposite returns the complementary side
func (s OrderSide) Opposite() OrderSide {
	return (s + 1) % 2
}

func (s OrderSide) String() string {
	switch s {
	case OrderSideBuy:
		return "buy"
	case OrderSideSell:
		return "sell"
	default:
		return "unknown"
	}
}

// SaleKind represents how the price of an order evolves over time
type SaleKind uint8

const (
	SaleKindFixedPrice SaleKind = iota
	SaleKindDutchAuction
)

// Valid reports whether the sale kind is known
func (k SaleKind) Valid() bool {
	return k == SaleKindFixedPrice || k == SaleKindDutchAuction
}

// HowToCall represents the call semantics used against the order target
type HowToCall uint8

const (
	HowToCallCall HowToCall = iota
	HowToCallDelegateCall
)

// Valid reports whether the call kind is known
func (h HowToCall) Valid() bool {
	return h == HowToCallCall || h == HowToCallDelegateCall
}

// FeeMethod represents how fees are charged on a match
type FeeMethod uint8

const (
	FeeMethodProtocolFee FeeMethod = iota
	FeeMethodSplitFee
)

// Valid reports whether the fee method is known
func (f FeeMethod) Valid() bool {
	return f == FeeMethodProtocolFee || f == FeeMethodSplitFee
}

// Asset identifies the NFT an order trades
type Asset struct {
	Address common.Address
	ID      *big.Int
}

// OrderMetadata carries off-chain data attached to an order
type OrderMetadata struct {
	ReferrerAddress string
	Schema          string
	Asset           *Asset
}

// Order represents a Wyvern exchange order.
//
// Amounts, times and the salt are kept as arbitrary-precision decimals so fee
// arithmetic never loses precision; they must be integral by the time the order
// is ABI encoded.
type Order struct {
	Exchange     common.Address
	Maker        common.Address
	Taker        common.Address
	FeeRecipient common.Address
	Target       common.Address
	StaticTarget common.Address
	PaymentToken common.Address

	MakerRelayerFee  decimal.Decimal
	TakerRelayerFee  decimal.Decimal
	MakerProtocolFee decimal.Decimal
	TakerProtocolFee decimal.Decimal
	BasePrice        decimal.Decimal
	Extra            decimal.Decimal
	ListingTime      decimal.Decimal
	ExpirationTime   decimal.Decimal
	Salt             decimal.Decimal

	FeeMethod FeeMethod
	Side      OrderSide
	SaleKind  SaleKind
	HowToCall HowToCall

	Calldata           []byte
	ReplacementPattern []byte
	StaticExtradata    []byte

	// Signature components. Nil means the order is authorized by the
	// transaction sender and carries no signature.
	V *uint8
	R *common.Hash
	S *common.Hash

	Metadata OrderMetadata
}

// SideOf returns the trade side of an order
func SideOf(order *Order) OrderSide {
	return order.Side
}

// IsSigned reports whether all signature components are present
func (o *Order) IsSigned() bool {
	return o.V != nil && o.R != nil && o.S != nil
}

// PaysInNativeCurrency reports whether the payment token is the zero address
func (o *Order) PaysInNativeCurrency() bool {
	return o.PaymentToken == (common.Address{})
}

// Clone returns a deep copy of the order
func (o *Order) Clone() *Order {
	c := *o
	c.Calldata = common.CopyBytes(o.Calldata)
	c.ReplacementPattern = common.CopyBytes(o.ReplacementPattern)
	c.StaticExtradata = common.CopyBytes(o.StaticExtradata)
	if o.V != nil {
		v := *o.V
		c.V = &v
	}
	if o.R != nil {
		r := *o.R
		c.R = &r
	}
	if o.S != nil {
		s := *o.S
		c.S = &s
	}
	if o.Metadata.Asset != nil {
		asset := *o.Metadata.Asset
		if asset.ID != nil {
			asset.ID = new(big.Int).Set(asset.ID)
		}
		c.Metadata.Asset = &asset
	}
	return &c
}

// Wyvern exchange ABI JSON for the match entry point and the read-only views used around it
const wyvernExchangeABIJSON = `[
	{
		"constant": false,
		"inputs": [
			{"name": "addrs", "type": "address[14]"},
			{"name": "uints", "type": "uint256[18]"},
			{"name": "feeMethodsSidesKindsHowToCalls", "type": "uint8[8]"},
			{"name": "calldataBuy", "type": "bytes"},
			{"name": "calldataSell", "type": "bytes"},
			{"name": "replacementPatternBuy", "type": "bytes"},
			{"name": "replacementPatternSell", "type": "bytes"},
			{"name": "staticExtradataBuy", "type": "bytes"},
			{"name": "staticExtradataSell", "type": "bytes"},
			{"name": "vs", "type": "uint8[2]"},
			{"name": "rssMetadata", "type": "bytes32[5]"}
		],
		"name": "atomicMatch_",
		"outputs": [],
		"payable": true,
		"stateMutability": "payable",
		"type": "function"
	},
	{
		"constant": true,
		"inputs": [
			{"name": "addrs", "type": "address[14]"},
			{"name": "uints", "type": "uint256[18]"},
			{"name": "feeMethodsSidesKindsHowToCalls", "type": "uint8[8]"},
			{"name": "calldataBuy", "type": "bytes"},
			{"name": "calldataSell", "type": "bytes"},
			{"name": "replacementPatternBuy", "type": "bytes"},
			{"name": "replacementPatternSell", "type": "bytes"},
			{"name": "staticExtradataBuy", "type": "bytes"},
			{"name": "staticExtradataSell", "type": "bytes"}
		],
		"name": "ordersCanMatch_",
		"outputs": [{"name": "", "type": "bool"}],
		"stateMutability": "view",
		"type": "function"
	},
	{
		"constant": true,
		"inputs": [
			{"name": "addrs", "type": "address[14]"},
			{"name": "uints", "type": "uint256[18]"},
			{"name": "feeMethodsSidesKindsHowToCalls", "type": "uint8[8]"},
			{"name": "calldataBuy", "type": "bytes"},
			{"name": "calldataSell", "type": "bytes"},
			{"name": "replacementPatternBuy", "type": "bytes"},
			{"name": "replacementPatternSell", "type": "bytes"},
			{"name": "staticExtradataBuy", "type": "bytes"},
			{"name": "staticExtradataSell", "type": "bytes"}
		],
		"name": "calculateMatchPrice_",
		"outputs": [{"name": "", "type": "uint256"}],
		"stateMutability": "view",
		"type": "function"
	},
	{
		"constant": true,
		"inputs": [
			{"name": "addrs", "type": "address[7]"},
			{"name": "uints", "type": "uint256[9]"},
			{"name": "feeMethod", "type": "uint8"},
			{"name": "side", "type": "uint8"},
			{"name": "saleKind", "type": "uint8"},
			{"name": "howToCall", "type": "uint8"},
			{"name": "calldata", "type": "bytes"},
			{"name": "replacementPattern", "type": "bytes"},
			{"name": "staticExtradata", "type": "bytes"}
		],
		"name": "calculateCurrentPrice_",
		"outputs": [{"name": "", "type": "uint256"}],
		"stateMutability": "view",
		"type": "function"
	},
	{
		"constant": true,
		"inputs": [
			{"name": "addrs", "type": "address[7]"},
			{"name": "uints", "type": "uint256[9]"},
			{"name": "feeMethod", "type": "uint8"},
			{"name": "side", "type": "uint8"},
			{"name": "saleKind", "type": "uint8"},
			{"name": "howToCall", "type": "uint8"},
			{"name": "calldata", "type": "bytes"},
			{"name": "replacementPattern", "type": "bytes"},
			{"name": "staticExtradata", "type": "bytes"},
			{"name": "v", "type": "uint8"},
			{"name": "r", "type": "bytes32"},
			{"name": "s", "type": "bytes32"}
		],
		"name": "validateOrder_",
		"outputs": [{"name": "", "type": "bool"}],
		"stateMutability": "view",
		"type": "function"
	},
	{
		"constant": true,
		"inputs": [
			{"name": "buyCalldata", "type": "bytes"},
			{"name": "buyReplacementPattern", "type": "bytes"},
			{"name": "sellCalldata", "type": "bytes"},
			{"name": "sellReplacementPattern", "type": "bytes"}
		],
		"name": "orderCalldataCanMatch",
		"outputs": [{"name": "", "type": "bool"}],
		"stateMutability": "pure",
		"type": "function"
	},
	{
		"constant": true,
		"inputs": [],
		"name": "registry",
		"outputs": [{"name": "", "type": "address"}],
		"stateMutability": "view",
		"type": "function"
	},
	{
		"constant": true,
		"inputs": [],
		"name": "tokenTransferProxy",
		"outputs": [{"name": "", "type": "address"}],
		"stateMutability": "view",
		"type": "function"
	}
]`

// ERC20 ABI JSON for balance and allowance views
const erc20ABIJSON = `[
	{
		"constant": true,
		"inputs": [
			{"name": "owner", "type": "address"},
			{"name": "spender", "type": "address"}
		],
		"name": "allowance",
		"outputs": [{"name": "", "type": "uint256"}],
		"type": "function"
	},
	{
		"constant": true,
		"inputs": [
			{"name": "account", "type": "address"}
		],
		"name": "balanceOf",
		"outputs": [{"name": "", "type": "uint256"}],
		"type": "function"
	}
]`

// ERC721 ABI JSON for ownership and operator approval views
const erc721ABIJSON = `[
	{
		"constant": true,
		"inputs": [
			{"name": "tokenId", "type": "uint256"}
		],
		"name": "ownerOf",
		"outputs": [{"name": "", "type": "address"}],
		"type": "function"
	},
	{
		"constant": true,
		"inputs": [
			{"name": "tokenId", "type": "uint256"}
		],
		"name": "getApproved",
		"outputs": [{"name": "", "type": "address"}],
		"type": "function"
	},
	{
		"constant": true,
		"inputs": [
			{"name": "owner", "type": "address"},
			{"name": "operator", "type": "address"}
		],
		"name": "isApprovedForAll",
		"outputs": [{"name": "", "type": "bool"}],
		"type": "function"
	}
]`

// ERC1155 ABI JSON for the balance view
const erc1155ABIJSON = `[
	{
		"constant": true,
		"inputs": [
			{"name": "account", "type": "address"},
			{"name": "id", "type": "uint256"}
		],
		"name": "balanceOf",
		"outputs": [{"name": "", "type": "uint256"}],
		"type": "function"
	}
]`

// Proxy registry ABI JSON
const proxyRegistryABIJSON = `[
	{
		"constant": true,
		"inputs": [
			{"name": "", "type": "address"}
		],
		"name": "proxies",
		"outputs": [{"name": "", "type": "address"}],
		"type": "function"
	}
]`

var (
	parsedABIs   = map[string]abi.ABI{}
	parsedABIsMu sync.Mutex
)

func mustParseABI(name, raw string) abi.ABI {
	parsedABIsMu.Lock()
	defer parsedABIsMu.Unlock()

	if parsed, ok := parsedABIs[name]; ok {
		return parsed
	}
	parsed, err := abi.JSON(strings.NewReader(raw))
	if err != nil {
		panic("failed to parse " + name + " ABI: " + err.Error())
	}
	parsedABIs[name] = parsed
	return parsed
}

// GetWyvernExchangeABI returns the parsed Wyvern exchange ABI
func GetWyvernExchangeABI() abi.ABI {
	return mustParseABI("WyvernExchange", wyvernExchangeABIJSON)
}

// GetERC20ABI returns the parsed ERC20 ABI
func GetERC20ABI() abi.ABI {
	return mustParseABI("ERC20", erc20ABIJSON)
}

// GetERC721ABI returns the parsed ERC721 ABI
func GetERC721ABI() abi.ABI {
	return mustParseABI("ERC721", erc721ABIJSON)
}

// GetERC1155ABI returns the parsed ERC1155 ABI
func GetERC1155ABI() abi.ABI {
	return mustParseABI("ERC1155", erc1155ABIJSON)
}

// GetProxyRegistryABI returns the parsed proxy registry ABI
func GetProxyRegistryABI() abi.ABI {
	return mustParseABI("ProxyRegistry", proxyRegistryABIJSON)
}
