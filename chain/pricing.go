package chain

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// ErrInvalidAuctionWindow is returned for a Dutch auction whose expiration is not after its listing time
var ErrInvalidAuctionWindow = errors.New("dutch auction expiration must be after listing time")

// CalculateFinalPrice replicates the exchange's SaleKindInterface.calculateFinalPrice.
//
// Fixed price orders always return the base price. Dutch auctions move linearly
// from the base price at listing time by extra at expiration time, down for sell
// orders and up for buy orders. now is clamped into the auction window.
func CalculateFinalPrice(order *Order, now time.Time) (decimal.Decimal, error) {
	if order == nil {
		return decimal.Zero, ErrNilOrder
	}
	if order.SaleKind != SaleKindDutchAuction {
		return order.BasePrice, nil
	}

	listing := order.ListingTime
	expiration := order.ExpirationTime
	if expiration.LessThanOrEqual(listing) {
		return decimal.Zero, ErrInvalidAuctionWindow
	}

	at := decimal.NewFromInt(now.Unix())
	if at.LessThan(listing) {
		at = listing
	}
	if at.GreaterThan(expiration) {
		at = expiration
	}

	// integer division as on chain
	diff, _ := order.Extra.Mul(at.Sub(listing)).QuoRem(expiration.Sub(listing), 0)

	if order.Side == OrderSideSell {
		return order.BasePrice.Sub(diff), nil
	}
	return order.BasePrice.Add(diff), nil
}
