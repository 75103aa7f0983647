package dashboard

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"
	"unicode/utf8"

	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"

	"github.com/paralead/paralead-backend/types"
	"github.com/paralead/paralead-backend/utils"
)

const (
	ActionSubmitProposal = "submit_proposal"
	ActionBuy            = "buy"
	ActionSell           = "sell"
	ActionClaim          = "claim"
	ActionWithdraw       = "withdraw"
	ActionReveal         = "reveal"
	ActionClaimAll       = "claim_all"
	ActionResetBalance   = "reset_balance"
	ActionRefreshBalance = "refresh_balance"
)

type action struct {
	name   string
	branch string
	detail string

	successTitle string
	message      func() string
	failTitle    string
	failFallback string
}

func (d *Dashboard) Buy(ctx context.Context, branch, amount, value string) (*types.TxReceipt, error) {
	if strings.TrimSpace(amount) == "" || strings.TrimSpace(value) == "" {
		return nil, d.invalid(ctx, "amount", msgBuyRequired)
	}
	addr, info, err := d.lookupBranch(ctx, branch)
	if err != nil {
		return nil, err
	}
	if !info.CanTrade() {
		return nil, d.invalid(ctx, "branch", msgCannotTrade)
	}
	if !validAmount(amount, true) {
		return nil, d.invalid(ctx, "amount", msgInvalidAmount)
	}
	if !validAmount(value, false) {
		return nil, d.invalid(ctx, "value", msgInvalidAmount)
	}
	return d.run(ctx, action{
		name:         ActionBuy,
		branch:       addr.Hex(),
		detail:       fmt.Sprintf("amount=%s value=%s", amount, value),
		successTitle: titleSuccess,
		message:      func() string { return fmt.Sprintf("Bought %s tokens", amount) },
		failTitle:    titleTransactionFailed,
		failFallback: "Failed to buy tokens",
	}, func() (*types.TxReceipt, error) {
		return d.cfg.Chain.Buy(ctx, addr, amount, value)
	})
}

func (d *Dashboard) Sell(ctx context.Context, branch, amount string) (*types.TxReceipt, error) {
	if strings.TrimSpace(amount) == "" {
		return nil, d.invalid(ctx, "amount", msgSellRequired)
	}
	addr, info, err := d.lookupBranch(ctx, branch)
	if err != nil {
		return nil, err
	}
	if !info.CanTrade() {
		return nil, d.invalid(ctx, "branch", msgCannotTrade)
	}
	if !validAmount(amount, true) {
		return nil, d.invalid(ctx, "amount", msgInvalidAmount)
	}
	return d.run(ctx, action{
		name:         ActionSell,
		branch:       addr.Hex(),
		detail:       fmt.Sprintf("amount=%s", amount),
		successTitle: titleSuccess,
		message:      func() string { return fmt.Sprintf("Sold %s tokens", amount) },
		failTitle:    titleTransactionFailed,
		failFallback: "Failed to sell tokens",
	}, func() (*types.TxReceipt, error) {
		return d.cfg.Chain.Sell(ctx, addr, amount)
	})
}

func (d *Dashboard) Claim(ctx context.Context, branch string) (*types.TxReceipt, error) {
	addr, info, err := d.lookupBranch(ctx, branch)
	if err != nil {
		return nil, err
	}
	if !info.CanTrade() {
		return nil, d.invalid(ctx, "branch", msgCannotTrade)
	}
	return d.run(ctx, action{
		name:         ActionClaim,
		branch:       addr.Hex(),
		successTitle: titleSuccess,
		message:      staticMessage("Successfully claimed tokens"),
		failTitle:    titleClaimFailed,
		failFallback: "Failed to claim tokens",
	}, func() (*types.TxReceipt, error) {
		return d.cfg.Chain.Claim(ctx, addr)
	})
}

func (d *Dashboard) Withdraw(ctx context.Context, branch string) (*types.TxReceipt, error) {
	addr, info, err := d.lookupBranch(ctx, branch)
	if err != nil {
		return nil, err
	}
	if !info.CanTrade() {
		return nil, d.invalid(ctx, "branch", msgCannotTrade)
	}
	return d.run(ctx, action{
		name:         ActionWithdraw,
		branch:       addr.Hex(),
		successTitle: titleSuccess,
		message:      staticMessage("Successfully withdrew funds"),
		failTitle:    titleWithdrawalFailed,
		failFallback: "Failed to withdraw funds",
	}, func() (*types.TxReceipt, error) {
		return d.cfg.Chain.Withdraw(ctx, addr)
	})
}

// Reveal discloses the proposal behind an unrevealed child branch. An empty vendor is the
// zero address and an empty investment is "0".
func (d *Dashboard) Reveal(ctx context.Context, branch, description, vendor, investment string) (*types.TxReceipt, error) {
	if description == "" {
		return nil, d.invalid(ctx, "description", msgDescriptionRequired)
	}
	addr, info, err := d.lookupBranch(ctx, branch)
	if err != nil {
		return nil, err
	}
	if !info.NeedsReveal() {
		return nil, d.invalid(ctx, "branch", msgNoRevealNeeded)
	}
	vendorAddr := common.Address{}
	if strings.TrimSpace(vendor) != "" {
		if vendorAddr, err = utils.ParseAddress(vendor); err != nil {
			return nil, d.invalid(ctx, "vendor", msgInvalidVendor)
		}
	}
	if strings.TrimSpace(investment) == "" {
		investment = "0"
	}
	if !validAmount(investment, false) {
		return nil, d.invalid(ctx, "investment", msgInvalidAmount)
	}
	return d.run(ctx, action{
		name:         ActionReveal,
		branch:       addr.Hex(),
		detail:       fmt.Sprintf("vendor=%s investment=%s", vendorAddr.Hex(), investment),
		successTitle: titleSuccess,
		message:      staticMessage("Proposal revealed successfully"),
		failTitle:    titleRevealFailed,
		failFallback: "Failed to reveal proposal",
	}, func() (*types.TxReceipt, error) {
		return d.cfg.Chain.Reveal(ctx, addr, description, vendorAddr, investment)
	})
}

// SubmitProposal hashes the draft and submits it during the Suggestion stage. Question rounds
// always commit to the zero vendor and a zero investment.
func (d *Dashboard) SubmitProposal(ctx context.Context, draft types.ProposalDraft) (*types.ProposalReceipt, error) {
	if draft.Title == "" || draft.Description == "" {
		return nil, d.invalid(ctx, "title", msgTitleRequired)
	}
	if utf8.RuneCountInString(draft.Title) > types.MaxTitleLength {
		return nil, d.invalid(ctx, "title", msgTitleTooLong)
	}
	if !draft.Type.IsValid() {
		return nil, d.invalid(ctx, "type", msgInvalidType)
	}
	snapshot := d.Snapshot()
	if snapshot == nil {
		return nil, d.invalid(ctx, "state", msgStateNotLoaded)
	}
	if !snapshot.Round.IsProposalStage() {
		return nil, d.invalid(ctx, "stage", msgNotProposalStage)
	}

	vendor, investment := types.ZeroAddress, "0"
	if snapshot.Round.IsDecisionRound() {
		if strings.TrimSpace(draft.Vendor) == "" {
			return nil, d.invalid(ctx, "vendor", msgVendorRequired)
		}
		if !utils.IsValidAddress(strings.TrimSpace(draft.Vendor)) {
			return nil, d.invalid(ctx, "vendor", msgInvalidVendor)
		}
		vendor = draft.Vendor
		if strings.TrimSpace(draft.Investment) != "" {
			investment = draft.Investment
		}
		if !validAmount(investment, false) {
			return nil, d.invalid(ctx, "investment", msgInvalidAmount)
		}
	}
	hash, err := utils.ProposalHashFromInput(draft.Description, vendor, investment)
	if err != nil {
		return nil, d.invalid(ctx, "description", err.Error())
	}

	var created *types.ProposalReceipt
	_, err = d.run(ctx, action{
		name:         ActionSubmitProposal,
		detail:       fmt.Sprintf("type=%s title=%s hash=%s", draft.Type, draft.Title, hash.Hex()),
		successTitle: titleProposalSubmitted,
		message: func() string {
			return "Proposal created at " + utils.ShortAddress(created.Branch)
		},
		failTitle:    titleSubmissionFailed,
		failFallback: "Failed to submit proposal",
	}, func() (*types.TxReceipt, error) {
		receipt, err := d.cfg.Chain.SubmitProposal(ctx, draft.Type, draft.Title, hash)
		if err != nil {
			return nil, err
		}
		created = receipt
		return &receipt.TxReceipt, nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// ClaimAll claims from every branch of the round. Only allowed in the Claiming and Selection stages.
func (d *Dashboard) ClaimAll(ctx context.Context) (*types.TxReceipt, error) {
	snapshot := d.Snapshot()
	if snapshot == nil {
		return nil, d.invalid(ctx, "state", msgStateNotLoaded)
	}
	if !snapshot.Round.CanClaim() {
		return nil, d.invalid(ctx, "stage", msgCannotClaimAll)
	}
	return d.run(ctx, action{
		name:         ActionClaimAll,
		successTitle: titleSuccess,
		message:      staticMessage("Successfully claimed all tokens"),
		failTitle:    titleClaimFailed,
		failFallback: "Failed to claim tokens",
	}, func() (*types.TxReceipt, error) {
		return d.cfg.Chain.ClaimAll(ctx)
	})
}

// ResetBalance withdraws the payable balance held by the factory.
func (d *Dashboard) ResetBalance(ctx context.Context) (*types.TxReceipt, error) {
	return d.run(ctx, action{
		name:         ActionResetBalance,
		successTitle: titleSuccess,
		message:      staticMessage("Successfully withdrew funds"),
		failTitle:    titleWithdrawalFailed,
		failFallback: "Failed to withdraw funds",
	}, func() (*types.TxReceipt, error) {
		return d.cfg.Chain.ResetBalance(ctx)
	})
}

// RefreshBalance settles the payable balance on the factory so the next load reports it.
func (d *Dashboard) RefreshBalance(ctx context.Context) (*types.TxReceipt, error) {
	return d.run(ctx, action{
		name:         ActionRefreshBalance,
		successTitle: titleSuccess,
		message:      staticMessage("Balance refreshed"),
		failTitle:    titleTransactionFailed,
		failFallback: "Failed to refresh balance",
	}, func() (*types.TxReceipt, error) {
		return d.cfg.Chain.RefreshBalance(ctx)
	})
}

// run performs one write while holding the busy flag. The flag is held until the
// follow-up refresh has finished.
func (d *Dashboard) run(ctx context.Context, act action, write func() (*types.TxReceipt, error)) (*types.TxReceipt, error) {
	lgr := d.logger.With(zap.String("method", act.name))
	if d.isClosed() {
		return nil, types.ErrClosed
	}
	if !atomic.CompareAndSwapInt32(&d.busy, 0, 1) {
		return nil, types.ErrBusy
	}
	defer atomic.StoreInt32(&d.busy, 0)

	receipt, err := write()
	d.cfg.Metrics.ObserveAction(act.name, err)
	var pendingErr *types.TxPendingError
	if errors.As(err, &pendingErr) {
		lgr.Warn("action not confirmed", zap.String("branch", act.branch), zap.String("txHash", pendingErr.TxHash), zap.Error(err))
		d.notify(ctx, pending(pendingErr.TxHash))
		return nil, err
	}
	if err != nil {
		lgr.Warn("action failed", zap.String("branch", act.branch), zap.Error(err))
		d.notify(ctx, failure(act.failTitle, err, act.failFallback))
		return nil, err
	}
	lgr.Info("action confirmed", zap.String("branch", act.branch), zap.String("txHash", receipt.TxHash))
	d.notify(ctx, success(act.successTitle, act.message()))
	d.record(ctx, act, receipt)

	if _, err := d.LoadState(ctx); err != nil {
		lgr.Warn("cannot refresh state", zap.Error(err))
	}
	return receipt, nil
}

func (d *Dashboard) record(ctx context.Context, act action, receipt *types.TxReceipt) {
	if d.cfg.Journal == nil {
		return
	}
	activity := &types.Activity{
		Action:    act.name,
		Branch:    act.branch,
		TxHash:    receipt.TxHash,
		Account:   d.cfg.Chain.Address().Hex(),
		Detail:    act.detail,
		CreatedAt: d.cfg.Clock(),
	}
	if err := d.cfg.Journal.InsertActivity(ctx, activity); err != nil {
		d.logger.Warn("cannot record activity", zap.String("action", act.name), zap.Error(err))
	}
}

// lookupBranch resolves a branch of the loaded snapshot.
func (d *Dashboard) lookupBranch(ctx context.Context, branch string) (common.Address, *types.BranchInfo, error) {
	addr, err := utils.ParseAddress(branch)
	if err != nil {
		return common.Address{}, nil, d.invalid(ctx, "branch", msgUnknownBranch)
	}
	snapshot := d.Snapshot()
	if snapshot == nil {
		return common.Address{}, nil, d.invalid(ctx, "state", msgStateNotLoaded)
	}
	info := snapshot.Branch(addr.Hex())
	if info == nil {
		return common.Address{}, nil, d.invalid(ctx, "branch", msgUnknownBranch)
	}
	return addr, info, nil
}

func (d *Dashboard) invalid(ctx context.Context, field, reason string) error {
	err := types.NewValidationError(field, reason)
	d.notify(ctx, failure(titleValidationError, err, reason))
	return err
}

func validAmount(amount string, positive bool) bool {
	if positive {
		return utils.IsPositiveAmount(amount)
	}
	wei, err := utils.ToWei(amount)
	return err == nil && wei.Sign() >= 0
}

func staticMessage(message string) func() string {
	return func() string { return message }
}
