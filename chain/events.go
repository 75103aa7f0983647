package chain

import (
	"fmt"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	ethtypes "github.com/ethereum/go-ethereum/core/types"

	"github.com/paralead/paralead-backend/types"
)

const EventBranchCreated = "BranchCreated"

// createdBranch returns the first argument of the BranchCreated event found in logs.
// The argument may be indexed (a topic) or part of the log data.
func createdBranch(a *abi.ABI, logs []*ethtypes.Log) (common.Address, error) {
	event, ok := a.Events[EventBranchCreated]
	if !ok || len(event.Inputs) == 0 {
		return common.Address{}, fmt.Errorf("%w: %s is not declared in the factory abi", types.ErrEventNotFound, EventBranchCreated)
	}
	var indexed abi.Arguments
	for _, arg := range event.Inputs {
		if arg.Indexed {
			indexed = append(indexed, arg)
		}
	}

	for _, l := range logs {
		if l == nil || len(l.Topics) == 0 || l.Topics[0] != event.ID {
			continue
		}
		values := make(map[string]interface{})
		if err := abi.ParseTopicsIntoMap(values, indexed, l.Topics[1:]); err != nil {
			continue
		}
		if len(l.Data) > 0 {
			if err := event.Inputs.UnpackIntoMap(values, l.Data); err != nil {
				continue
			}
		}
		if addr, ok := values[event.Inputs[0].Name].(common.Address); ok {
			return addr, nil
		}
	}
	return common.Address{}, types.ErrEventNotFound
}
