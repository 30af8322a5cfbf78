package chain

import (
	"bytes"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/shopspring/decimal"
)

var (
	testExchange = common.HexToAddress("0x7f268357a8c2552623316e2562d90e642bb538e5")
	testSeller   = common.HexToAddress("0x1111111111111111111111111111111111111111")
	testBuyer    = common.HexToAddress("0x2222222222222222222222222222222222222222")
	testFeeTo    = common.HexToAddress("0x5b3256965e7c3cf26e11fcaf296dfc8807c01073")
	testTarget   = common.HexToAddress("0x3333333333333333333333333333333333333333")
	testTokenID  = big.NewInt(1234)

	transferFromSelector = hexutil.MustDecode("0x23b872dd")
)

func word(b []byte) []byte {
	return common.LeftPadBytes(b, 32)
}

// transferFromCalldata builds transferFrom(from, to, id) calldata
func transferFromCalldata(from, to common.Address, id *big.Int) []byte {
	var out []byte
	out = append(out, transferFromSelector...)
	out = append(out, word(from.Bytes())...)
	out = append(out, word(to.Bytes())...)
	out = append(out, word(id.Bytes())...)
	return out
}

// transferFromPattern opens the argument words whose index is set in open
func transferFromPattern(open ...int) []byte {
	out := make([]byte, 4+3*32)
	for _, i := range open {
		copy(out[4+i*32:4+(i+1)*32], bytes.Repeat([]byte{0xff}, 32))
	}
	return out
}

func newTestSellOrder() *Order {
	return &Order{
		Exchange:           testExchange,
		Maker:              testSeller,
		FeeRecipient:       testFeeTo,
		Target:             testTarget,
		MakerRelayerFee:    decimal.NewFromInt(250),
		TakerRelayerFee:    decimal.Zero,
		MakerProtocolFee:   decimal.Zero,
		TakerProtocolFee:   decimal.Zero,
		BasePrice:          decimal.RequireFromString("100000000000000000"),
		Extra:              decimal.Zero,
		ListingTime:        decimal.NewFromInt(1600000000),
		ExpirationTime:     decimal.Zero,
		Salt:               decimal.RequireFromString("83006245783548033686093530747847303952463217644495033304999143031082661844460"),
		FeeMethod:          FeeMethodSplitFee,
		Side:               OrderSideSell,
		SaleKind:           SaleKindFixedPrice,
		HowToCall:          HowToCallCall,
		Calldata:           transferFromCalldata(testSeller, common.Address{}, testTokenID),
		ReplacementPattern: transferFromPattern(1),
		Metadata: OrderMetadata{
			Asset:  &Asset{Address: testTarget, ID: new(big.Int).Set(testTokenID)},
			Schema: "ERC721",
		},
	}
}

func newTestBuyOrder() *Order {
	return &Order{
		Exchange:           testExchange,
		Maker:              testBuyer,
		Taker:              testSeller,
		Target:             testTarget,
		MakerRelayerFee:    decimal.NewFromInt(250),
		TakerRelayerFee:    decimal.Zero,
		MakerProtocolFee:   decimal.Zero,
		TakerProtocolFee:   decimal.Zero,
		BasePrice:          decimal.RequireFromString("100000000000000000"),
		Extra:              decimal.Zero,
		ListingTime:        decimal.NewFromInt(1600000000),
		ExpirationTime:     decimal.Zero,
		Salt:               decimal.NewFromInt(42),
		FeeMethod:          FeeMethodSplitFee,
		Side:               OrderSideBuy,
		SaleKind:           SaleKindFixedPrice,
		HowToCall:          HowToCallCall,
		Calldata:           transferFromCalldata(common.Address{}, testBuyer, testTokenID),
		ReplacementPattern: transferFromPattern(0),
	}
}
