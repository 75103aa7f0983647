package main

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"github.com/paralead/paralead-backend/types"
	"github.com/paralead/paralead-backend/utils"
)

const (
	titleKey       = "title"
	descriptionKey = "description"
	typeKey        = "type"
	vendorKey      = "vendor"
	investmentKey  = "investment"
	amountKey      = "amount"
	valueKey       = "value"
	holderKey      = "holder"
)

func stateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "state",
		Short: "Prints the current round, its branches and the wallet balances",
		Args:  cobra.NoArgs,
		RunE: withSession(loadState, func(ctx context.Context, s *session) (interface{}, error) {
			return map[string]interface{}{
				"snapshot":      s.dashboard.Snapshot(),
				"timeRemaining": s.dashboard.TimeRemaining(),
			}, nil
		}),
	}
}

func branchCommand() *cobra.Command {
	c := &cobra.Command{
		Use:   "branch <address>",
		Short: "Prints a branch and optionally the token balance of a holder",
		Args:  cobra.ExactArgs(1),
	}
	c.Flags().String(holderKey, "", "Holder whose token balance is read")
	c.RunE = func(cmd *cobra.Command, args []string) error {
		branch, err := utils.ParseAddress(args[0])
		if err != nil {
			return err
		}
		holderStr, _ := cmd.Flags().GetString(holderKey)
		return withSession(connectOnly, func(ctx context.Context, s *session) (interface{}, error) {
			info, err := s.chain.BranchInfo(ctx, branch)
			if err != nil {
				return nil, err
			}
			if holderStr == "" {
				return info, nil
			}
			holder, err := utils.ParseAddress(holderStr)
			if err != nil {
				return nil, err
			}
			balance, err := s.chain.TokenBalance(ctx, branch, holder)
			if err != nil {
				return nil, err
			}
			return map[string]interface{}{"branch": info, "balance": balance}, nil
		})(cmd, args)
	}
	return c
}

func submitCommand() *cobra.Command {
	c := &cobra.Command{
		Use:   "submit",
		Short: "Submits a proposal during the suggestion stage",
		Args:  cobra.NoArgs,
	}
	flags := c.Flags()
	flags.String(titleKey, "", "Proposal title, at most 32 characters")
	flags.String(descriptionKey, "", "Proposal description")
	flags.String(typeKey, types.ProposalBasic.String(), "Proposal type name or number")
	flags.String(vendorKey, "", "Vendor address, decision rounds only")
	flags.String(investmentKey, "0", "Investment in ETH, decision rounds only")
	c.RunE = func(cmd *cobra.Command, args []string) error {
		flags := cmd.Flags()
		typeStr, _ := flags.GetString(typeKey)
		proposalType, err := types.ParseProposalType(typeStr)
		if err != nil {
			return err
		}
		draft := types.ProposalDraft{Type: proposalType}
		draft.Title, _ = flags.GetString(titleKey)
		draft.Description, _ = flags.GetString(descriptionKey)
		draft.Vendor, _ = flags.GetString(vendorKey)
		draft.Investment, _ = flags.GetString(investmentKey)
		return withSession(loadState, func(ctx context.Context, s *session) (interface{}, error) {
			return s.dashboard.SubmitProposal(ctx, draft)
		})(cmd, args)
	}
	return c
}

func buyCommand() *cobra.Command {
	c := &cobra.Command{
		Use:   "buy <branch>",
		Short: "Buys branch tokens",
		Args:  cobra.ExactArgs(1),
	}
	c.Flags().String(amountKey, "", "Token amount")
	c.Flags().String(valueKey, "", "ETH sent with the purchase")
	c.RunE = func(cmd *cobra.Command, args []string) error {
		amount, _ := cmd.Flags().GetString(amountKey)
		value, _ := cmd.Flags().GetString(valueKey)
		return withSession(loadState, func(ctx context.Context, s *session) (interface{}, error) {
			return s.dashboard.Buy(ctx, args[0], amount, value)
		})(cmd, args)
	}
	return c
}

func sellCommand() *cobra.Command {
	c := &cobra.Command{
		Use:   "sell <branch>",
		Short: "Sells branch tokens",
		Args:  cobra.ExactArgs(1),
	}
	c.Flags().String(amountKey, "", "Token amount")
	c.RunE = func(cmd *cobra.Command, args []string) error {
		amount, _ := cmd.Flags().GetString(amountKey)
		return withSession(loadState, func(ctx context.Context, s *session) (interface{}, error) {
			return s.dashboard.Sell(ctx, args[0], amount)
		})(cmd, args)
	}
	return c
}

func claimCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "claim <branch>",
		Short: "Claims branch tokens",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(loadState, func(ctx context.Context, s *session) (interface{}, error) {
				return s.dashboard.Claim(ctx, args[0])
			})(cmd, args)
		},
	}
}

func withdrawCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "withdraw <branch>",
		Short: "Withdraws funds from a branch",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(loadState, func(ctx context.Context, s *session) (interface{}, error) {
				return s.dashboard.Withdraw(ctx, args[0])
			})(cmd, args)
		},
	}
}

func revealCommand() *cobra.Command {
	c := &cobra.Command{
		Use:   "reveal <branch>",
		Short: "Reveals the committed proposal of a child branch",
		Args:  cobra.ExactArgs(1),
	}
	c.Flags().String(descriptionKey, "", "Proposal description")
	c.Flags().String(vendorKey, "", "Vendor address")
	c.Flags().String(investmentKey, "0", "Investment in ETH")
	c.RunE = func(cmd *cobra.Command, args []string) error {
		description, _ := cmd.Flags().GetString(descriptionKey)
		vendor, _ := cmd.Flags().GetString(vendorKey)
		investment, _ := cmd.Flags().GetString(investmentKey)
		return withSession(loadState, func(ctx context.Context, s *session) (interface{}, error) {
			return s.dashboard.Reveal(ctx, args[0], description, vendor, investment)
		})(cmd, args)
	}
	return c
}

func claimAllCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "claim-all",
		Short: "Claims tokens of every branch during claiming or selection",
		Args:  cobra.NoArgs,
		RunE: withSession(loadState, func(ctx context.Context, s *session) (interface{}, error) {
			return s.dashboard.ClaimAll(ctx)
		}),
	}
}

func resetBalanceCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "reset-balance",
		Short: "Withdraws the payable balance held by the factory",
		Args:  cobra.NoArgs,
		RunE: withSession(connectOnly, func(ctx context.Context, s *session) (interface{}, error) {
			return s.dashboard.ResetBalance(ctx)
		}),
	}
}

func refreshBalanceCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "refresh-balance",
		Short: "Settles the payable balance on the factory",
		Args:  cobra.NoArgs,
		RunE: withSession(connectOnly, func(ctx context.Context, s *session) (interface{}, error) {
			return s.dashboard.RefreshBalance(ctx)
		}),
	}
}

func switchNetworkCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "switch-network",
		Short: "Asks the wallet to switch to the configured chain, adding it when unknown",
		Args:  cobra.NoArgs,
		RunE: withSession(tolerateWrongNetwork, func(ctx context.Context, s *session) (interface{}, error) {
			if err := s.chain.SwitchNetwork(ctx); err != nil {
				return nil, err
			}
			return s.chain.Status(ctx), nil
		}),
	}
}

var errDescriptionRequired = errors.New("description is required")

func hashCommand() *cobra.Command {
	c := &cobra.Command{
		Use:   "hash",
		Short: "Computes a proposal commitment hash offline",
		Args:  cobra.NoArgs,
	}
	c.Flags().String(descriptionKey, "", "Proposal description")
	c.Flags().String(vendorKey, "", "Vendor address, empty for the zero address")
	c.Flags().String(investmentKey, "0", "Investment in ETH")
	c.RunE = func(cmd *cobra.Command, args []string) error {
		description, _ := cmd.Flags().GetString(descriptionKey)
		vendor, _ := cmd.Flags().GetString(vendorKey)
		investment, _ := cmd.Flags().GetString(investmentKey)
		if description == "" {
			return errDescriptionRequired
		}
		hash, err := utils.ProposalHashFromInput(description, vendor, investment)
		if err != nil {
			return err
		}
		return printJSON(cmd, map[string]string{"hash": hash.Hex()})
	}
	return c
}
