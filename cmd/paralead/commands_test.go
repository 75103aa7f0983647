package main

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"

	"github.com/paralead/paralead-backend/utils"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := rootCommand()
	out := new(bytes.Buffer)
	root.SetOut(out)
	root.SetErr(new(bytes.Buffer))
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestHashCommand(t *testing.T) {
	vendor := "0x4f36b6d3cb0d4c1d2f1f0e3b4f2a5d7e8c9b0a11"
	out, err := run(t, "hash", "--description", "Hire auditors", "--vendor", vendor, "--investment", "1.5")
	require.NoError(t, err)

	want, err := utils.ProposalHashFromInput("Hire auditors", vendor, "1.5")
	require.NoError(t, err)
	var got map[string]string
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, want.Hex(), got["hash"])
}

func TestHashCommand_QuestionRound(t *testing.T) {
	out, err := run(t, "hash", "--description", "Should we expand?")
	require.NoError(t, err)

	want, err := utils.ProposalHashFromInput("Should we expand?", "", "0")
	require.NoError(t, err)
	assert.Contains(t, out, want.Hex())
}

func TestHashCommand_Invalid(t *testing.T) {
	_, err := run(t, "hash")
	assert.Equal(t, errDescriptionRequired, err)

	_, err = run(t, "hash", "--description", "x", "--vendor", "0x12")
	assert.Equal(t, utils.ErrInvalidAddress, err)
}

func TestCommands_Args(t *testing.T) {
	_, err := run(t, "buy")
	assert.Error(t, err)
	_, err = run(t, "claim-all", "extra")
	assert.Error(t, err)

	_, err = run(t, "branch", "0x12")
	assert.Equal(t, utils.ErrInvalidAddress, err)

	_, err = run(t, "submit", "--type", "bogus")
	assert.Error(t, err)
}

func TestRootCommand_Subcommands(t *testing.T) {
	names := map[string]bool{}
	for _, c := range rootCommand().Commands() {
		names[c.Name()] = true
	}
	for _, name := range []string{
		"state", "branch", "submit", "buy", "sell", "claim", "withdraw",
		"reveal", "claim-all", "reset-balance", "refresh-balance", "switch-network", "hash",
	} {
		assert.True(t, names[name], name)
	}
}

func TestNewCLILogger(t *testing.T) {
	logger, err := newCLILogger(zapcore.ErrorLevel, false)
	require.NoError(t, err)
	assert.True(t, logger.Core().Enabled(zapcore.ErrorLevel))
	assert.False(t, logger.Core().Enabled(zapcore.WarnLevel))

	logger, err = newCLILogger(zapcore.ErrorLevel, true)
	require.NoError(t, err)
	assert.True(t, logger.Core().Enabled(zapcore.DebugLevel))
}
