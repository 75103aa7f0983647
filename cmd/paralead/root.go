package main

import (
	"context"
	"encoding/json"
	"errors"
	"math/big"
	"os"

	"github.com/ethereum/go-ethereum/common"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/paralead/paralead-backend/cfg"
	"github.com/paralead/paralead-backend/chain"
	"github.com/paralead/paralead-backend/dashboard"
	"github.com/paralead/paralead-backend/types"
)

const verboseKey = "verbose"

func rootCommand() *cobra.Command {
	c := &cobra.Command{
		Use:          "paralead",
		Short:        "Reads and drives the round based governance contracts",
		SilenceUsage: true,
	}
	c.PersistentFlags().Bool(verboseKey, false, "Log contract calls")
	c.AddCommand(
		stateCommand(),
		branchCommand(),
		submitCommand(),
		buyCommand(),
		sellCommand(),
		claimCommand(),
		withdrawCommand(),
		revealCommand(),
		claimAllCommand(),
		resetBalanceCommand(),
		refreshBalanceCommand(),
		switchNetworkCommand(),
		hashCommand(),
	)
	return c
}

// session is a connected contract client plus a dashboard over it.
type session struct {
	chain     *chain.Client
	dashboard *dashboard.Dashboard
	logger    *zap.Logger
}

// newCLILogger honours LOG_LEVEL like the api server; --verbose forces debug.
func newCLILogger(level zapcore.Level, verbose bool) (*zap.Logger, error) {
	logCfg := zap.NewDevelopmentConfig()
	logCfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	logCfg.Level.SetLevel(level)
	if verbose {
		logCfg.Level.SetLevel(zapcore.DebugLevel)
	}
	return logCfg.Build()
}

type sessionMode int

const (
	// connectOnly fails on any connection error.
	connectOnly sessionMode = iota
	// loadState also reads the round, since every dashboard action is gated on it.
	loadState
	// tolerateWrongNetwork keeps the session open when the node serves another chain.
	tolerateWrongNetwork
)

// openSession connects to the configured chain and prepares the session for mode.
func openSession(c *cobra.Command, mode sessionMode) (*session, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, err
	}
	serviceCfg, err := cfg.New()
	if err != nil {
		return nil, err
	}
	verbose, err := c.Flags().GetBool(verboseKey)
	if err != nil {
		return nil, err
	}
	logger, err := newCLILogger(serviceCfg.Level(), verbose)
	if err != nil {
		return nil, err
	}
	wallet, err := chain.WalletFromConfig(serviceCfg.WalletPrivateKey, serviceCfg.WalletKeystore, serviceCfg.WalletPassphrase)
	if err != nil {
		return nil, err
	}
	client, err := chain.New(chain.Config{
		RPCURL:          serviceCfg.RPCURL,
		ChainID:         new(big.Int).SetUint64(serviceCfg.ChainID),
		FactoryAddress:  common.HexToAddress(serviceCfg.FactoryAddress),
		FactoryABIURL:   serviceCfg.FactoryABIURL,
		BranchABIURL:    serviceCfg.BranchABIURL,
		Wallet:          wallet,
		WalletRPCURL:    serviceCfg.WalletRPCURL,
		BranchCacheSize: serviceCfg.BranchCacheSize,
		TxTimeout:       serviceCfg.TxTimeout,
		Logger:          logger,
	})
	if err != nil {
		return nil, err
	}
	s := &session{
		chain: client,
		dashboard: dashboard.New(dashboard.Config{
			Chain:    client,
			PoolSize: serviceCfg.WorkerPoolSize,
			Logger:   logger,
		}),
		logger: logger,
	}
	ctx := c.Context()
	if err := client.Connect(ctx); err != nil {
		var wrongNetwork *types.WrongNetworkError
		if mode != tolerateWrongNetwork || !errors.As(err, &wrongNetwork) {
			s.Close()
			return nil, err
		}
		logger.Info("connected to another chain", zap.Uint64("want", wrongNetwork.Want), zap.Uint64("got", wrongNetwork.Got))
	}
	if mode == loadState {
		if _, err := s.dashboard.LoadState(ctx); err != nil {
			s.Close()
			return nil, err
		}
	}
	return s, nil
}

func (s *session) Close() {
	s.dashboard.Close()
	s.chain.Disconnect()
	_ = s.logger.Sync()
}

// withSession runs fn against a fresh session and prints its result as JSON.
func withSession(mode sessionMode, fn func(ctx context.Context, s *session) (interface{}, error)) func(c *cobra.Command, args []string) error {
	return func(c *cobra.Command, args []string) error {
		s, err := openSession(c, mode)
		if err != nil {
			return err
		}
		defer s.Close()
		result, err := fn(c.Context(), s)
		if err != nil {
			return err
		}
		return printJSON(c, result)
	}
}

func printJSON(c *cobra.Command, v interface{}) error {
	enc := json.NewEncoder(c.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
