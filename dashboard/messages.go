package dashboard

import (
	"fmt"

	"github.com/paralead/paralead-backend/types"
	"github.com/paralead/paralead-backend/utils"
)

const (
	titleSuccess            = "Success"
	titleProposalSubmitted  = "Proposal Submitted"
	titleValidationError    = "Validation Error"
	titleTransactionFailed  = "Transaction Failed"
	titleClaimFailed        = "Claim Failed"
	titleWithdrawalFailed   = "Withdrawal Failed"
	titleRevealFailed       = "Reveal Failed"
	titleSubmissionFailed   = "Submission Failed"
	titleContractError      = "Contract Error"
	titleTransactionPending = "Transaction Pending"

	msgLoadFailed       = "Failed to load contract state"
	msgStateNotLoaded   = "Contract state is not loaded"
	msgUnknownBranch    = "Unknown branch"
	msgCannotTrade      = "Trading is only available for active and winning branches"
	msgNoRevealNeeded   = "Proposal does not need a reveal"
	msgCannotClaimAll   = "Claiming is only available during the Claiming and Selection stages"
	msgNotProposalStage = "Proposal submission is only available during the Suggestion stage."

	msgBuyRequired         = "Please enter both token amount and ETH value"
	msgSellRequired        = "Please enter token amount to sell"
	msgDescriptionRequired = "Description is required"
	msgTitleRequired       = "Title and description are required"
	msgTitleTooLong        = "Title must be 32 characters or less"
	msgInvalidAmount       = "Please enter a valid amount"
	msgInvalidVendor       = "Please enter a valid vendor address"
	msgInvalidType         = "Unknown proposal type"
	msgVendorRequired      = "Vendor address is required in decision rounds"
)

func success(title, message string) types.Notification {
	return types.Notification{Title: title, Message: message, Variant: types.VariantDefault}
}

// pending reports a transaction that was sent but whose receipt has not arrived yet.
func pending(txHash string) types.Notification {
	return types.Notification{
		Title:   titleTransactionPending,
		Message: fmt.Sprintf("Transaction %s was sent and is still waiting for confirmation", utils.ShortAddress(txHash)),
		Variant: types.VariantDefault,
	}
}

// failure reports err to the user, falling back to fallback when err carries no message.
func failure(title string, err error, fallback string) types.Notification {
	message := fallback
	if err != nil && err.Error() != "" {
		message = err.Error()
	}
	return types.Notification{Title: title, Message: message, Variant: types.VariantDestructive}
}
