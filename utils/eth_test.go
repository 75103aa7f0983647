package utils

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAddress(t *testing.T) {
	addr, err := ParseAddress(" 0x4f36a53dc32272b97ae5ff511387e2741d727bdb ")
	require.NoError(t, err)
	assert.Equal(t, common.HexToAddress("0x4f36a53dc32272b97ae5ff511387e2741d727bdb"), addr)

	_, err = ParseAddress("4f36a53dc32272b97ae5ff511387e2741d727bdb")
	assert.ErrorIs(t, err, ErrInvalidAddress)
	_, err = ParseAddress("0x1234")
	assert.ErrorIs(t, err, ErrInvalidAddress)
}

func TestProposalHash_Packing(t *testing.T) {
	vendor := common.HexToAddress("0x4f36A53DC32272b97Ae5FF511387E2741D727bdb")
	investment := big.NewInt(1500)

	var expected []byte
	expected = append(expected, []byte("Buy servers")...)
	expected = append(expected, vendor.Bytes()...)
	expected = append(expected, common.LeftPadBytes(investment.Bytes(), 32)...)

	assert.Equal(t, crypto.Keccak256Hash(expected), ProposalHash("Buy servers", vendor, investment))
	assert.Equal(t, big.NewInt(1500), investment)
}

func TestProposalHash_Deterministic(t *testing.T) {
	vendor := common.HexToAddress("0x4f36A53DC32272b97Ae5FF511387E2741D727bdb")
	a := ProposalHash("Hire auditor", vendor, big.NewInt(10))
	b := ProposalHash("Hire auditor", vendor, big.NewInt(10))
	assert.Equal(t, a, b)

	assert.NotEqual(t, a, ProposalHash("Hire auditors", vendor, big.NewInt(10)))
	assert.NotEqual(t, a, ProposalHash("Hire auditor", common.Address{}, big.NewInt(10)))
	assert.NotEqual(t, a, ProposalHash("Hire auditor", vendor, big.NewInt(11)))
	assert.Equal(t, ProposalHash("x", vendor, nil), ProposalHash("x", vendor, big.NewInt(0)))
}

func TestProposalHashFromInput(t *testing.T) {
	got, err := ProposalHashFromInput("Open a branch office", "", "")
	require.NoError(t, err)
	assert.Equal(t, ProposalHash("Open a branch office", common.Address{}, big.NewInt(0)), got)

	got, err = ProposalHashFromInput("Buy servers", "0x4f36A53DC32272b97Ae5FF511387E2741D727bdb", "1.5")
	require.NoError(t, err)
	wei, _ := new(big.Int).SetString("1500000000000000000", 10)
	assert.Equal(t, ProposalHash("Buy servers", common.HexToAddress("0x4f36A53DC32272b97Ae5FF511387E2741D727bdb"), wei), got)

	_, err = ProposalHashFromInput("Buy servers", "0xnope", "1")
	assert.ErrorIs(t, err, ErrInvalidAddress)
	_, err = ProposalHashFromInput("Buy servers", "", "lots")
	assert.ErrorIs(t, err, ErrInvalidAmount)
}

func TestParseABI(t *testing.T) {
	raw := `[{"type":"function","name":"round","inputs":[],"outputs":[{"name":"","type":"uint256"}],"stateMutability":"view"}]`
	parsed, err := ParseABI([]byte(raw))
	require.NoError(t, err)
	assert.Contains(t, parsed.Methods, "round")

	parsed, err = ParseABI([]byte(`{"contractName":"X","abi":` + raw + `}`))
	require.NoError(t, err)
	assert.Contains(t, parsed.Methods, "round")

	_, err = ParseABI([]byte(`{"abi":`))
	assert.Error(t, err)
}

func TestShortAddress(t *testing.T) {
	assert.Equal(t, "0x2000...0002", ShortAddress("0x2000000000000000000000000000000000000002"))
	assert.Equal(t, "0x12", ShortAddress("0x12"))
}
