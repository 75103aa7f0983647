// Package utils
package utils

import (
	"errors"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/math"
	"github.com/ethereum/go-ethereum/crypto"
)

var ErrInvalidAddress = errors.New("invalid account address")

// ParseAddress validates a 0x-prefixed hex address and returns it in checksum form.
func ParseAddress(accountAddress string) (common.Address, error) {
	accountAddress = strings.TrimSpace(accountAddress)
	if !IsValidAddress(accountAddress) {
		return common.Address{}, ErrInvalidAddress
	}
	return common.HexToAddress(accountAddress), nil
}

// ProposalHash commits to a proposal before it is revealed:
// keccak256(description ‖ vendor (20 bytes) ‖ investment (32 bytes, big-endian)).
func ProposalHash(description string, vendor common.Address, investment *big.Int) common.Hash {
	amount := new(big.Int)
	if investment != nil {
		amount.Set(investment)
	}
	packed := make([]byte, 0, len(description)+common.AddressLength+32)
	packed = append(packed, description...)
	packed = append(packed, vendor.Bytes()...)
	packed = append(packed, math.U256Bytes(amount)...)
	return crypto.Keccak256Hash(packed)
}

// ProposalHashFromInput builds the proposal hash from user input: an optional vendor
// address (empty means the zero address) and a decimal ETH investment.
func ProposalHashFromInput(description, vendor, investment string) (common.Hash, error) {
	vendorAddr := common.Address{}
	if strings.TrimSpace(vendor) != "" {
		addr, err := ParseAddress(vendor)
		if err != nil {
			return common.Hash{}, err
		}
		vendorAddr = addr
	}
	if strings.TrimSpace(investment) == "" {
		investment = "0"
	}
	wei, err := ToWei(investment)
	if err != nil {
		return common.Hash{}, err
	}
	return ProposalHash(description, vendorAddr, wei), nil
}

// ShortAddress abbreviates an address as 0x1234...abcd.
func ShortAddress(address string) string {
	if len(address) <= 10 {
		return address
	}
	return address[:6] + "..." + address[len(address)-4:]
}
