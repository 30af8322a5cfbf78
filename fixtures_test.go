package wyvern

import (
	"bytes"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/shopspring/decimal"

	"github.com/kaifufi/wyvern-calldata-go/chain"
)

var (
	testExchange = common.HexToAddress("0x7f268357a8c2552623316e2562d90e642bb538e5")
	testSeller   = common.HexToAddress("0x1111111111111111111111111111111111111111")
	testBuyer    = common.HexToAddress("0x2222222222222222222222222222222222222222")
	testStranger = common.HexToAddress("0x4444444444444444444444444444444444444444")
	testFeeTo    = common.HexToAddress("0x5b3256965e7c3cf26e11fcaf296dfc8807c01073")
	testTarget   = common.HexToAddress("0x3333333333333333333333333333333333333333")
	testWETH     = common.HexToAddress("0xc02aaa39b223fe8d0a0e5c4f27ead9083c756cc2")
	testTokenID  = big.NewInt(1234)

	testNow   = time.Unix(1700000000, 0)
	testClock = ClockFunc(func() time.Time { return testNow })

	transferFromSelector = hexutil.MustDecode("0x23b872dd")
)

func word(b []byte) []byte {
	return common.LeftPadBytes(b, 32)
}

func transferFromCalldata(from, to common.Address, id *big.Int) []byte {
	var out []byte
	out = append(out, transferFromSelector...)
	out = append(out, word(from.Bytes())...)
	out = append(out, word(to.Bytes())...)
	out = append(out, word(id.Bytes())...)
	return out
}

func transferFromPattern(open ...int) []byte {
	out := make([]byte, 4+3*32)
	for _, i := range open {
		copy(out[4+i*32:4+(i+1)*32], bytes.Repeat([]byte{0xff}, 32))
	}
	return out
}

// newTestSellOrder is a fixed price ETH listing of testTokenID by testSeller
func newTestSellOrder() *chain.Order {
	return &chain.Order{
		Exchange:           testExchange,
		Maker:              testSeller,
		FeeRecipient:       testFeeTo,
		Target:             testTarget,
		MakerRelayerFee:    decimal.NewFromInt(250),
		TakerRelayerFee:    decimal.NewFromInt(250),
		MakerProtocolFee:   decimal.Zero,
		TakerProtocolFee:   decimal.Zero,
		BasePrice:          decimal.RequireFromString("100000000000000000"),
		Extra:              decimal.Zero,
		ListingTime:        decimal.NewFromInt(1600000000),
		ExpirationTime:     decimal.Zero,
		Salt:               decimal.RequireFromString("83006245783548033686093530747847303952463217644495033304999143031082661844460"),
		FeeMethod:          chain.FeeMethodSplitFee,
		Side:               chain.OrderSideSell,
		SaleKind:           chain.SaleKindFixedPrice,
		HowToCall:          chain.HowToCallCall,
		Calldata:           transferFromCalldata(testSeller, common.Address{}, testTokenID),
		ReplacementPattern: transferFromPattern(1),
		Metadata: chain.OrderMetadata{
			Asset:  &chain.Asset{Address: testTarget, ID: new(big.Int).Set(testTokenID)},
			Schema: "ERC721",
		},
	}
}

// newTestBuyOrder is a WETH offer on testTokenID by testBuyer
func newTestBuyOrder() *chain.Order {
	return &chain.Order{
		Exchange:           testExchange,
		Maker:              testBuyer,
		Target:             testTarget,
		PaymentToken:       testWETH,
		MakerRelayerFee:    decimal.NewFromInt(250),
		TakerRelayerFee:    decimal.Zero,
		MakerProtocolFee:   decimal.Zero,
		TakerProtocolFee:   decimal.Zero,
		BasePrice:          decimal.RequireFromString("100000000000000000"),
		Extra:              decimal.Zero,
		ListingTime:        decimal.NewFromInt(1600000000),
		ExpirationTime:     decimal.Zero,
		Salt:               decimal.NewFromInt(42),
		FeeMethod:          chain.FeeMethodSplitFee,
		Side:               chain.OrderSideBuy,
		SaleKind:           chain.SaleKindFixedPrice,
		HowToCall:          chain.HowToCallCall,
		Calldata:           transferFromCalldata(common.Address{}, testBuyer, testTokenID),
		ReplacementPattern: transferFromPattern(0),
	}
}

// testSellPayload is newTestSellOrder as served by the order book API
func testSellPayload() map[string]interface{} {
	return map[string]interface{}{
		"exchange":            testExchange.Hex(),
		"maker":               map[string]interface{}{"address": testSeller.Hex()},
		"taker":               map[string]interface{}{"address": ZeroAddress},
		"fee_recipient":       map[string]interface{}{"address": testFeeTo.Hex()},
		"target":              testTarget.Hex(),
		"static_target":       ZeroAddress,
		"payment_token":       ZeroAddress,
		"maker_relayer_fee":   "250",
		"taker_relayer_fee":   "250",
		"maker_protocol_fee":  "0",
		"taker_protocol_fee":  "0",
		"base_price":          "100000000000000000",
		"extra":               "0",
		"listing_time":        1600000000,
		"expiration_time":     0,
		"salt":                "83006245783548033686093530747847303952463217644495033304999143031082661844460",
		"fee_method":          1,
		"side":                1,
		"sale_kind":           0,
		"how_to_call":         0,
		"calldata":            hexutil.Encode(transferFromCalldata(testSeller, common.Address{}, testTokenID)),
		"replacement_pattern": hexutil.Encode(transferFromPattern(1)),
		"static_extradata":    "0x",
		"metadata": map[string]interface{}{
			"asset":  map[string]interface{}{"id": "1234", "address": testTarget.Hex()},
			"schema": "ERC721",
		},
	}
}
