// Package utils
package utils

import (
	"errors"
	"math/big"
	"strings"
)

const etherDecimals = 18

var (
	ErrInvalidAmount   = errors.New("invalid decimal amount")
	ErrTooManyDecimals = errors.New("amount has more than 18 decimals")
)

// ToWei parses a decimal ETH amount ("1.5", "0.0001", "2") into wei.
func ToWei(amount string) (*big.Int, error) {
	amount = strings.TrimSpace(amount)
	negative := strings.HasPrefix(amount, "-")
	if negative {
		amount = amount[1:]
	}
	whole, frac := amount, ""
	if idx := strings.IndexByte(amount, '.'); idx >= 0 {
		whole, frac = amount[:idx], amount[idx+1:]
	}
	if whole == "" && frac == "" {
		return nil, ErrInvalidAmount
	}
	if whole == "" {
		whole = "0"
	}
	if !isDigits(whole) || !isDigits(frac) {
		return nil, ErrInvalidAmount
	}
	frac = strings.TrimRight(frac, "0")
	if len(frac) > etherDecimals {
		return nil, ErrTooManyDecimals
	}
	frac += strings.Repeat("0", etherDecimals-len(frac))

	wei, ok := new(big.Int).SetString(whole+frac, 10)
	if !ok {
		return nil, ErrInvalidAmount
	}
	if negative {
		wei.Neg(wei)
	}
	return wei, nil
}

// FromWei formats wei as a decimal ETH string with at least one fractional digit ("1.0", "0.0001").
func FromWei(wei *big.Int) string {
	if wei == nil {
		return "0.0"
	}
	digits := new(big.Int).Abs(wei).String()
	if len(digits) <= etherDecimals {
		digits = strings.Repeat("0", etherDecimals+1-len(digits)) + digits
	}
	whole := digits[:len(digits)-etherDecimals]
	frac := strings.TrimRight(digits[len(digits)-etherDecimals:], "0")
	if frac == "" {
		frac = "0"
	}
	if wei.Sign() < 0 {
		return "-" + whole + "." + frac
	}
	return whole + "." + frac
}

// IsPositiveAmount reports whether amount parses to more than zero wei.
func IsPositiveAmount(amount string) bool {
	wei, err := ToWei(amount)
	return err == nil && wei.Sign() > 0
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
