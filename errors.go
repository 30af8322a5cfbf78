package wyvern

import (
	"errors"
	"fmt"
	"strings"

	pkgerrors "github.com/pkg/errors"

	"github.com/kaifufi/wyvern-calldata-go/chain"
)

var (
	// ErrInvalidParam represents an invalid parameter error
	ErrInvalidParam = errors.New("invalid parameter")

	// ErrMalformedOrder represents an order payload that cannot be turned into an order
	ErrMalformedOrder = errors.New("malformed order")

	// ErrSideMismatch represents two orders on the same side of the book
	ErrSideMismatch = errors.New("orders are on the same side")

	// ErrUnauthorizedCaller represents an account that is neither buyer nor seller
	ErrUnauthorizedCaller = errors.New("caller is neither buyer nor seller")

	// ErrIncompatibleOrders represents a pair the exchange would refuse to match
	ErrIncompatibleOrders = errors.New("orders cannot be matched")

	// ErrNonIntegerAmount represents an amount with a fractional remainder at encoding time
	ErrNonIntegerAmount = chain.ErrNonIntegerAmount

	// ErrUpstreamUnavailable represents a failed or timed out collaborator call
	ErrUpstreamUnavailable = errors.New("upstream unavailable")

	// ErrOrderValidation represents a collaborator rejecting an order on business grounds
	ErrOrderValidation = errors.New("order validation failed")

	// ErrNoOrders represents an empty order lookup
	ErrNoOrders = errors.New("no orders found")
)

// InvalidParamError represents an invalid parameter error with context
type InvalidParamError struct {
	Message string
}

func (e *InvalidParamError) Error() string {
	return e.Message
}

func (e *InvalidParamError) Is(target error) bool {
	return target == ErrInvalidParam
}

// MalformedOrderError names the order field that failed to parse or encode
type MalformedOrderError struct {
	Field string
	Value string
	Err   error
}

func (e *MalformedOrderError) Error() string {
	msg := fmt.Sprintf("malformed order field %s", e.Field)
	if e.Value != "" {
		msg += fmt.Sprintf(" (%q)", e.Value)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *MalformedOrderError) Is(target error) bool {
	return target == ErrMalformedOrder
}

func (e *MalformedOrderError) Unwrap() error {
	return e.Err
}

// IncompatibleOrdersError lists every field on which a buy/sell pair disagrees
type IncompatibleOrdersError struct {
	Fields []string
}

func (e *IncompatibleOrdersError) Error() string {
	return fmt.Sprintf("orders cannot be matched: %s", strings.Join(e.Fields, ", "))
}

func (e *IncompatibleOrdersError) Is(target error) bool {
	return target == ErrIncompatibleOrders
}

// OrderValidationError represents a business rejection from an order validator
type OrderValidationError struct {
	Side   string
	Reason string
}

func (e *OrderValidationError) Error() string {
	return fmt.Sprintf("%s order rejected: %s", e.Side, e.Reason)
}

func (e *OrderValidationError) Is(target error) bool {
	return target == ErrOrderValidation
}

// StackTracer is implemented by errors carrying a github.com/pkg/errors stack
type StackTracer interface {
	StackTrace() pkgerrors.StackTrace
}

// UpstreamError wraps a failed collaborator call
type UpstreamError struct {
	Op  string
	Err error
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("%s: upstream unavailable: %v", e.Op, e.Err)
}

func (e *UpstreamError) Is(target error) bool {
	return target == ErrUpstreamUnavailable
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}

// StackTrace returns the stack recorded when the failure was wrapped
func (e *UpstreamError) StackTrace() pkgerrors.StackTrace {
	if st, ok := e.Err.(StackTracer); ok {
		return st.StackTrace()
	}
	return nil
}

// upstreamError classifies a collaborator failure. Business rejections pass
// through unchanged; anything else becomes an UpstreamError with a stack.
func upstreamError(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrOrderValidation) {
		return err
	}
	var upstream *UpstreamError
	if errors.As(err, &upstream) {
		return err
	}
	if _, ok := err.(StackTracer); !ok {
		err = pkgerrors.WithStack(err)
	}
	return &UpstreamError{Op: op, Err: err}
}
