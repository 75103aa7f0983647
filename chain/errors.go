package chain

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/rpc"

	"github.com/paralead/paralead-backend/types"
)

const (
	errCodeUserRejected      = 4001
	errCodeUnrecognizedChain = 4902
)

// classifyError maps wallet and node errors onto the domain taxonomy. Unknown errors pass through.
func classifyError(err error) error {
	if err == nil {
		return nil
	}
	var rpcErr rpc.Error
	if errors.As(err, &rpcErr) && rpcErr.ErrorCode() == errCodeUserRejected {
		return fmt.Errorf("%w: %s", types.ErrUserRejected, err.Error())
	}
	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "user rejected"), strings.Contains(msg, "user denied"):
		return fmt.Errorf("%w: %s", types.ErrUserRejected, err.Error())
	case strings.Contains(msg, "execution reverted"):
		return &types.ContractRevertError{Message: err.Error(), Err: err}
	}
	return err
}
