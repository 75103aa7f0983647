package chain

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"

	"github.com/paralead/paralead-backend/types"
)

const payBalanceOutput = "payBalance"

// Stage returns the current stage of the factory round.
func (c *Client) Stage(ctx context.Context) (types.Stage, error) {
	cn, err := c.connection()
	if err != nil {
		return 0, err
	}
	out, err := c.call(ctx, cn, cn.factoryABI, c.cfg.FactoryAddress, "getStage")
	if err != nil {
		return 0, err
	}
	stage, err := toUint64(out[0])
	if err != nil {
		return 0, err
	}
	return types.StageFromUint(stage), nil
}

// Round returns the current round number.
func (c *Client) Round(ctx context.Context) (uint64, error) {
	cn, err := c.connection()
	if err != nil {
		return 0, err
	}
	out, err := c.call(ctx, cn, cn.factoryABI, c.cfg.FactoryAddress, "round")
	if err != nil {
		return 0, err
	}
	return toUint64(out[0])
}

// Timer returns the deadline of the current stage in unix seconds.
func (c *Client) Timer(ctx context.Context) (int64, error) {
	cn, err := c.connection()
	if err != nil {
		return 0, err
	}
	out, err := c.call(ctx, cn, cn.factoryABI, c.cfg.FactoryAddress, "timer")
	if err != nil {
		return 0, err
	}
	deadline, err := toUint64(out[0])
	if err != nil {
		return 0, err
	}
	return int64(deadline), nil
}

// MainBranch returns the address of the governing branch.
func (c *Client) MainBranch(ctx context.Context) (common.Address, error) {
	cn, err := c.connection()
	if err != nil {
		return common.Address{}, err
	}
	out, err := c.call(ctx, cn, cn.factoryABI, c.cfg.FactoryAddress, "main")
	if err != nil {
		return common.Address{}, err
	}
	return toAddress(out[0])
}

// Children returns the child branches of the current round in contract order.
func (c *Client) Children(ctx context.Context) ([]common.Address, error) {
	cn, err := c.connection()
	if err != nil {
		return nil, err
	}
	out, err := c.call(ctx, cn, cn.factoryABI, c.cfg.FactoryAddress, "getChildrenSize")
	if err != nil {
		return nil, err
	}
	size, err := toUint64(out[0])
	if err != nil {
		return nil, err
	}

	children := make([]common.Address, 0, size)
	for i := uint64(0); i < size; i++ {
		out, err := c.call(ctx, cn, cn.factoryABI, c.cfg.FactoryAddress, "children", new(big.Int).SetUint64(i))
		if err != nil {
			return nil, err
		}
		child, err := toAddress(out[0])
		if err != nil {
			return nil, err
		}
		children = append(children, child)
	}
	return children, nil
}

// PayableBalance returns the wei the factory holds for user.
func (c *Client) PayableBalance(ctx context.Context, user common.Address) (*big.Int, error) {
	cn, err := c.connection()
	if err != nil {
		return nil, err
	}
	out, err := c.call(ctx, cn, cn.factoryABI, c.cfg.FactoryAddress, "payees", user)
	if err != nil {
		return nil, err
	}
	return toBigInt(namedOutput(cn.factoryABI.Methods["payees"], out, payBalanceOutput))
}

// SubmitProposal creates a child branch for the proposal and returns its address.
func (c *Client) SubmitProposal(ctx context.Context, proposalType types.ProposalType, title string, hash common.Hash) (*types.ProposalReceipt, error) {
	cn, err := c.connection()
	if err != nil {
		return nil, err
	}
	receipt, err := c.transact(ctx, cn, cn.factory, "submitProposal", nil, uint8(proposalType), title, [32]byte(hash))
	if err != nil {
		return nil, err
	}
	branch, err := createdBranch(cn.factoryABI, receipt.Logs)
	if err != nil {
		c.logger.Warn("proposal mined without branch event",
			zap.String("method", "SubmitProposal"),
			zap.String("txHash", receipt.TxHash.Hex()))
		return nil, err
	}
	return &types.ProposalReceipt{TxReceipt: *toTxReceipt(receipt), Branch: branch.Hex()}, nil
}

// ClaimAll claims the caller's tokens from every branch of the round.
func (c *Client) ClaimAll(ctx context.Context) (*types.TxReceipt, error) {
	return c.factoryWrite(ctx, "claimAll")
}

// ResetBalance withdraws the caller's payable balance.
func (c *Client) ResetBalance(ctx context.Context) (*types.TxReceipt, error) {
	return c.factoryWrite(ctx, "resetBalance")
}

// RefreshBalance runs the factory's getBalance transaction, which settles the caller's payable balance.
func (c *Client) RefreshBalance(ctx context.Context) (*types.TxReceipt, error) {
	return c.factoryWrite(ctx, "getBalance")
}

func (c *Client) factoryWrite(ctx context.Context, method string) (*types.TxReceipt, error) {
	cn, err := c.connection()
	if err != nil {
		return nil, err
	}
	receipt, err := c.transact(ctx, cn, cn.factory, method, nil)
	if err != nil {
		return nil, err
	}
	return toTxReceipt(receipt), nil
}
