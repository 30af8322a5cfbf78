package wyvern

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/shopspring/decimal"

	"github.com/kaifufi/wyvern-calldata-go/chain"
)

// payloadKeys maps a camelCase order field to the keys it may appear under
func payloadKeys(field string) []string {
	var snake strings.Builder
	for i, r := range field {
		if r >= 'A' && r <= 'Z' {
			if i > 0 {
				snake.WriteByte('_')
			}
			snake.WriteRune(r + ('a' - 'A'))
			continue
		}
		snake.WriteRune(r)
	}
	if snake.String() == field {
		return []string{field}
	}
	return []string{field, snake.String()}
}

func lookup(payload map[string]interface{}, field string) (interface{}, bool) {
	for _, key := range payloadKeys(field) {
		if v, ok := payload[key]; ok && v != nil {
			return v, true
		}
	}
	return nil, false
}

func malformed(field string, value interface{}, err error) error {
	return &MalformedOrderError{Field: field, Value: fmt.Sprint(value), Err: err}
}

// ParseOrderJSON decodes a JSON order, keeping integers exact
func ParseOrderJSON(data []byte) (*chain.Order, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var payload map[string]interface{}
	if err := dec.Decode(&payload); err != nil {
		return nil, &MalformedOrderError{Field: "order", Err: err}
	}
	return ParseOrder(payload)
}

// ParseOrder builds an order from an untyped payload in either the camelCase
// order shape or the snake_case order book API shape. Account fields may be
// plain address strings or objects carrying an "address" key.
func ParseOrder(payload map[string]interface{}) (*chain.Order, error) {
	if payload == nil {
		return nil, &MalformedOrderError{Field: "order", Err: fmt.Errorf("empty payload")}
	}

	order := &chain.Order{}
	var err error

	addresses := []struct {
		field    string
		dst      *common.Address
		required bool
	}{
		{"exchange", &order.Exchange, true},
		{"maker", &order.Maker, true},
		{"taker", &order.Taker, false},
		{"feeRecipient", &order.FeeRecipient, false},
		{"target", &order.Target, true},
		{"staticTarget", &order.StaticTarget, false},
		{"paymentToken", &order.PaymentToken, false},
	}
	for _, a := range addresses {
		if *a.dst, err = addressField(payload, a.field, a.required); err != nil {
			return nil, err
		}
	}

	amounts := []struct {
		field string
		dst   *decimal.Decimal
	}{
		{"makerRelayerFee", &order.MakerRelayerFee},
		{"takerRelayerFee", &order.TakerRelayerFee},
		{"makerProtocolFee", &order.MakerProtocolFee},
		{"takerProtocolFee", &order.TakerProtocolFee},
		{"basePrice", &order.BasePrice},
		{"extra", &order.Extra},
		{"listingTime", &order.ListingTime},
		{"expirationTime", &order.ExpirationTime},
		{"salt", &order.Salt},
	}
	for _, a := range amounts {
		if *a.dst, err = amountField(payload, a.field); err != nil {
			return nil, err
		}
	}

	side, err := enumField(payload, "side", true, func(v uint8) bool { return chain.OrderSide(v).Valid() })
	if err != nil {
		return nil, err
	}
	order.Side = chain.OrderSide(side)

	feeMethod, err := enumField(payload, "feeMethod", false, func(v uint8) bool { return chain.FeeMethod(v).Valid() })
	if err != nil {
		return nil, err
	}
	order.FeeMethod = chain.FeeMethod(feeMethod)

	saleKind, err := enumField(payload, "saleKind", false, func(v uint8) bool { return chain.SaleKind(v).Valid() })
	if err != nil {
		return nil, err
	}
	order.SaleKind = chain.SaleKind(saleKind)

	howToCall, err := enumField(payload, "howToCall", false, func(v uint8) bool { return chain.HowToCall(v).Valid() })
	if err != nil {
		return nil, err
	}
	order.HowToCall = chain.HowToCall(howToCall)

	if order.Calldata, err = bytesField(payload, "calldata"); err != nil {
		return nil, err
	}
	if order.ReplacementPattern, err = bytesField(payload, "replacementPattern"); err != nil {
		return nil, err
	}
	if order.StaticExtradata, err = bytesField(payload, "staticExtradata"); err != nil {
		return nil, err
	}

	if err := signatureFields(payload, order); err != nil {
		return nil, err
	}
	if order.Metadata, err = metadataField(payload); err != nil {
		return nil, err
	}

	return order, nil
}

func addressField(payload map[string]interface{}, field string, required bool) (common.Address, error) {
	raw, ok := lookup(payload, field)
	if !ok {
		if required {
			return common.Address{}, malformed(field, "", fmt.Errorf("missing"))
		}
		return common.Address{}, nil
	}

	// account objects carry the address under "address"
	if account, isMap := raw.(map[string]interface{}); isMap {
		raw, ok = account["address"]
		if !ok {
			return common.Address{}, malformed(field, account, fmt.Errorf("account without address"))
		}
	}

	s, isString := raw.(string)
	if !isString {
		return common.Address{}, malformed(field, raw, fmt.Errorf("expected address string"))
	}
	addr, err := ParseAddress(s)
	if err != nil {
		return common.Address{}, malformed(field, s, err)
	}
	return addr, nil
}

func toDecimal(raw interface{}) (decimal.Decimal, error) {
	switch v := raw.(type) {
	case string:
		s := strings.TrimSpace(v)
		if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
			n, ok := new(big.Int).SetString(s[2:], 16)
			if !ok {
				return decimal.Zero, fmt.Errorf("invalid hex number")
			}
			return decimal.NewFromBigInt(n, 0), nil
		}
		return decimal.NewFromString(s)
	case json.Number:
		return decimal.NewFromString(v.String())
	case float64:
		return decimal.NewFromFloat(v), nil
	case int:
		return decimal.NewFromInt(int64(v)), nil
	case int64:
		return decimal.NewFromInt(v), nil
	case uint64:
		return decimal.NewFromBigInt(new(big.Int).SetUint64(v), 0), nil
	case *big.Int:
		return decimal.NewFromBigInt(v, 0), nil
	case decimal.Decimal:
		return v, nil
	default:
		return decimal.Zero, fmt.Errorf("unsupported numeric type %T", raw)
	}
}

func amountField(payload map[string]interface{}, field string) (decimal.Decimal, error) {
	raw, ok := lookup(payload, field)
	if !ok {
		return decimal.Zero, nil
	}
	d, err := toDecimal(raw)
	if err != nil {
		return decimal.Zero, malformed(field, raw, err)
	}
	if d.IsNegative() {
		return decimal.Zero, malformed(field, raw, fmt.Errorf("negative amount"))
	}
	return d, nil
}

func enumField(payload map[string]interface{}, field string, required bool, valid func(uint8) bool) (uint8, error) {
	raw, ok := lookup(payload, field)
	if !ok {
		if required {
			return 0, malformed(field, "", fmt.Errorf("missing"))
		}
		return 0, nil
	}
	d, err := toDecimal(raw)
	if err != nil {
		return 0, malformed(field, raw, err)
	}
	if !d.IsInteger() || d.IsNegative() || d.GreaterThan(decimal.NewFromInt(255)) || !valid(uint8(d.IntPart())) {
		return 0, malformed(field, raw, fmt.Errorf("out of range"))
	}
	return uint8(d.IntPart()), nil
}

func bytesField(payload map[string]interface{}, field string) ([]byte, error) {
	raw, ok := lookup(payload, field)
	if !ok {
		return []byte{}, nil
	}
	switch v := raw.(type) {
	case []byte:
		return common.CopyBytes(v), nil
	case string:
		if v == "" {
			return []byte{}, nil
		}
		b, err := hexutil.Decode(v)
		if err != nil {
			return nil, malformed(field, v, err)
		}
		return b, nil
	default:
		return nil, malformed(field, raw, fmt.Errorf("expected hex string"))
	}
}

func signatureFields(payload map[string]interface{}, order *chain.Order) error {
	if raw, ok := lookup(payload, "v"); ok {
		d, err := toDecimal(raw)
		if err != nil {
			return malformed("v", raw, err)
		}
		if !d.IsInteger() || d.IsNegative() || d.GreaterThan(decimal.NewFromInt(255)) {
			return malformed("v", raw, fmt.Errorf("out of range"))
		}
		v := uint8(d.IntPart())
		order.V = &v
	}

	for _, part := range []struct {
		field string
		dst   **common.Hash
	}{
		{"r", &order.R},
		{"s", &order.S},
	} {
		raw, ok := lookup(payload, part.field)
		if !ok {
			continue
		}
		s, isString := raw.(string)
		if !isString {
			return malformed(part.field, raw, fmt.Errorf("expected hex string"))
		}
		b, err := hexutil.Decode(s)
		if err != nil {
			return malformed(part.field, s, err)
		}
		if len(b) != common.HashLength {
			return malformed(part.field, s, fmt.Errorf("expected %d bytes, got %d", common.HashLength, len(b)))
		}
		h := common.BytesToHash(b)
		*part.dst = &h
	}
	return nil
}

func metadataField(payload map[string]interface{}) (chain.OrderMetadata, error) {
	var meta chain.OrderMetadata

	raw, ok := lookup(payload, "metadata")
	if !ok {
		return meta, nil
	}
	m, isMap := raw.(map[string]interface{})
	if !isMap {
		return meta, malformed("metadata", raw, fmt.Errorf("expected object"))
	}

	if referrer, ok := lookup(m, "referrerAddress"); ok {
		meta.ReferrerAddress = fmt.Sprint(referrer)
	}
	if schema, ok := lookup(m, "schema"); ok {
		meta.Schema = fmt.Sprint(schema)
	}

	rawAsset, ok := lookup(m, "asset")
	if !ok {
		return meta, nil
	}
	asset, isMap := rawAsset.(map[string]interface{})
	if !isMap {
		return meta, malformed("metadata.asset", rawAsset, fmt.Errorf("expected object"))
	}

	out := &chain.Asset{}
	var err error
	if addr, ok := asset["address"]; ok {
		s, isString := addr.(string)
		if !isString {
			return meta, malformed("metadata.asset.address", addr, fmt.Errorf("expected address string"))
		}
		if out.Address, err = ParseAddress(s); err != nil {
			return meta, malformed("metadata.asset.address", s, err)
		}
	}
	if id, ok := asset["id"]; ok {
		d, err := toDecimal(id)
		if err != nil || !d.IsInteger() || d.IsNegative() {
			return meta, malformed("metadata.asset.id", id, fmt.Errorf("invalid token id"))
		}
		out.ID = d.BigInt()
	}
	meta.Asset = out
	return meta, nil
}
