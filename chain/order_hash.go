package chain

import (
	"crypto/ecdsa"
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

// Signature related errors
var (
	ErrMissingSignature = errors.New("order has no signature")
	ErrInvalidSignature = errors.New("invalid order signature")
)

const personalMessagePrefix = "\x19Ethereum Signed Message:\n32"

// HashOrder returns the exchange's hashOrder value: keccak256 over the tightly
// packed order fields in contract order
func HashOrder(order *Order) (common.Hash, error) {
	if order == nil {
		return common.Hash{}, ErrNilOrder
	}
	uints, err := orderUints(order, "")
	if err != nil {
		return common.Hash{}, err
	}
	word := func(i int) []byte {
		return common.LeftPadBytes(uints[i].Bytes(), wordSize)
	}

	var packed []byte
	packed = append(packed, order.Exchange.Bytes()...)
	packed = append(packed, order.Maker.Bytes()...)
	packed = append(packed, order.Taker.Bytes()...)
	// makerRelayerFee, takerRelayerFee, makerProtocolFee, takerProtocolFee
	for i := 0; i < 4; i++ {
		packed = append(packed, word(i)...)
	}
	packed = append(packed, order.FeeRecipient.Bytes()...)
	packed = append(packed, uint8(order.FeeMethod), uint8(order.Side), uint8(order.SaleKind))
	packed = append(packed, order.Target.Bytes()...)
	packed = append(packed, uint8(order.HowToCall))
	packed = append(packed, order.Calldata...)
	packed = append(packed, order.ReplacementPattern...)
	packed = append(packed, order.StaticTarget.Bytes()...)
	packed = append(packed, order.StaticExtradata...)
	packed = append(packed, order.PaymentToken.Bytes()...)
	// basePrice, extra, listingTime, expirationTime, salt
	for i := 4; i < 9; i++ {
		packed = append(packed, word(i)...)
	}

	return crypto.Keccak256Hash(packed), nil
}

// HashToSign returns the personal-sign digest of the order hash, as signed
// for Wyvern 2.2 exchanges
func HashToSign(order *Order) (common.Hash, error) {
	hash, err := HashOrder(order)
	if err != nil {
		return common.Hash{}, err
	}
	return crypto.Keccak256Hash([]byte(personalMessagePrefix), hash.Bytes()), nil
}

// RecoverSigner recovers the address that signed the order
func RecoverSigner(order *Order) (common.Address, error) {
	if order == nil {
		return common.Address{}, ErrNilOrder
	}
	if !order.IsSigned() {
		return common.Address{}, ErrMissingSignature
	}

	digest, err := HashToSign(order)
	if err != nil {
		return common.Address{}, err
	}

	v := *order.V
	if v >= 27 {
		v -= 27
	}
	if v > 1 {
		return common.Address{}, fmt.Errorf("%w: recovery id %d", ErrInvalidSignature, *order.V)
	}

	sig := make([]byte, 65)
	copy(sig[:32], order.R.Bytes())
	copy(sig[32:64], order.S.Bytes())
	sig[64] = v

	pubKeyBytes, err := crypto.Ecrecover(digest.Bytes(), sig)
	if err != nil {
		return common.Address{}, fmt.Errorf("%w: %v", ErrInvalidSignature, err)
	}
	pubKey, err := crypto.UnmarshalPubkey(pubKeyBytes)
	if err != nil {
		return common.Address{}, fmt.Errorf("%w: %v", ErrInvalidSignature, err)
	}
	return crypto.PubkeyToAddress(*pubKey), nil
}

// SignOrder signs the order hash with key and stores v, r and s on the order
func SignOrder(order *Order, key *ecdsa.PrivateKey) error {
	digest, err := HashToSign(order)
	if err != nil {
		return err
	}
	sig, err := crypto.Sign(digest.Bytes(), key)
	if err != nil {
		return fmt.Errorf("failed to sign order: %w", err)
	}

	v := sig[64] + 27
	r := common.BytesToHash(sig[:32])
	s := common.BytesToHash(sig[32:64])
	order.V, order.R, order.S = &v, &r, &s
	return nil
}
