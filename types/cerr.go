// Package types
package types

import (
	"errors"
	"fmt"
)

var (
	ErrNoWallet      = errors.New("no wallet configured")
	ErrNotConnected  = errors.New("contract client is not connected")
	ErrUserRejected  = errors.New("user rejected the request")
	ErrEventNotFound = errors.New("branch created event not found in receipt")
	ErrBusy          = errors.New("another action is in progress")
	ErrClosed        = errors.New("dashboard is closed")
	ErrStaleState    = errors.New("state load superseded")
	ErrEmptyResult   = errors.New("empty contract call result")
)

// WrongNetworkError reports a wallet connected to a chain other than the required one.
type WrongNetworkError struct {
	Want uint64
	Got  uint64
}

func (e *WrongNetworkError) Error() string {
	return fmt.Sprintf("wrong network: want chain id %d, got %d", e.Want, e.Got)
}

// ContractRevertError carries the revert message reported by the node.
type ContractRevertError struct {
	Message string
	Err     error
}

func (e *ContractRevertError) Error() string {
	return e.Message
}

func (e *ContractRevertError) Unwrap() error {
	return e.Err
}

// TxPendingError reports a transaction that was broadcast but not mined before the wait gave up.
type TxPendingError struct {
	TxHash string
	Err    error
}

func (e *TxPendingError) Error() string {
	return fmt.Sprintf("transaction %s sent but not confirmed yet: %v", e.TxHash, e.Err)
}

func (e *TxPendingError) Unwrap() error {
	return e.Err
}

// ValidationError is raised before any network access when user input is rejected.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Reason
}

func NewValidationError(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}

// IsConnectionError reports whether err means the chain cannot be reached with the current wallet setup.
func IsConnectionError(err error) bool {
	var wrongNetwork *WrongNetworkError
	return errors.Is(err, ErrNoWallet) || errors.Is(err, ErrNotConnected) || errors.As(err, &wrongNetwork)
}
