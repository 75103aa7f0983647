package chain

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"golang.org/x/sync/errgroup"

	"github.com/paralead/paralead-backend/types"
	"github.com/paralead/paralead-backend/utils"
)

// BranchInfo reads the state of a branch contract. The seven reads run concurrently.
func (c *Client) BranchInfo(ctx context.Context, branch common.Address) (*types.BranchInfo, error) {
	cn, err := c.connection()
	if err != nil {
		return nil, err
	}

	var (
		name, symbol, proposal  string
		vendor                  common.Address
		investment, totalSupply *big.Int
		status                  uint64
	)
	g, gctx := errgroup.WithContext(ctx)
	readString := func(method string, dst *string) func() error {
		return func() error {
			out, err := c.call(gctx, cn, cn.branchABI, branch, method)
			if err != nil {
				return err
			}
			*dst, err = toString(out[0])
			return err
		}
	}
	readBigInt := func(method string, dst **big.Int) func() error {
		return func() error {
			out, err := c.call(gctx, cn, cn.branchABI, branch, method)
			if err != nil {
				return err
			}
			*dst, err = toBigInt(out[0])
			return err
		}
	}
	g.Go(readString("name", &name))
	g.Go(readString("symbol", &symbol))
	g.Go(readString("proposal", &proposal))
	g.Go(readBigInt("investment", &investment))
	g.Go(readBigInt("totalSupply", &totalSupply))
	g.Go(func() error {
		out, err := c.call(gctx, cn, cn.branchABI, branch, "vendor")
		if err != nil {
			return err
		}
		vendor, err = toAddress(out[0])
		return err
	})
	g.Go(func() error {
		out, err := c.call(gctx, cn, cn.branchABI, branch, "status")
		if err != nil {
			return err
		}
		status, err = toUint64(out[0])
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &types.BranchInfo{
		Address:     branch.Hex(),
		Name:        name,
		Symbol:      symbol,
		Proposal:    proposal,
		Vendor:      vendor.Hex(),
		Investment:  utils.FromWei(investment),
		Status:      types.BranchStatusFromUint(status),
		TotalSupply: utils.FromWei(totalSupply),
	}, nil
}

// TokenBalance returns holder's balance of the branch token as a decimal string.
func (c *Client) TokenBalance(ctx context.Context, branch, holder common.Address) (string, error) {
	cn, err := c.connection()
	if err != nil {
		return "", err
	}
	out, err := c.call(ctx, cn, cn.branchABI, branch, "balanceOf", holder)
	if err != nil {
		return "", err
	}
	balance, err := toBigInt(out[0])
	if err != nil {
		return "", err
	}
	return utils.FromWei(balance), nil
}

// Buy purchases amount tokens of the branch, paying value ETH. Both are decimal strings.
func (c *Client) Buy(ctx context.Context, branch common.Address, amount, value string) (*types.TxReceipt, error) {
	amountWei, err := utils.ToWei(amount)
	if err != nil {
		return nil, types.NewValidationError("amount", err.Error())
	}
	valueWei, err := utils.ToWei(value)
	if err != nil {
		return nil, types.NewValidationError("value", err.Error())
	}
	return c.branchWrite(ctx, branch, "buy", valueWei, amountWei)
}

// Sell returns amount tokens to the branch.
func (c *Client) Sell(ctx context.Context, branch common.Address, amount string) (*types.TxReceipt, error) {
	amountWei, err := utils.ToWei(amount)
	if err != nil {
		return nil, types.NewValidationError("amount", err.Error())
	}
	return c.branchWrite(ctx, branch, "sell", nil, amountWei)
}

func (c *Client) Claim(ctx context.Context, branch common.Address) (*types.TxReceipt, error) {
	return c.branchWrite(ctx, branch, "claim", nil)
}

func (c *Client) Withdraw(ctx context.Context, branch common.Address) (*types.TxReceipt, error) {
	return c.branchWrite(ctx, branch, "withdraw", nil)
}

// Reveal publishes the proposal text, vendor and investment (decimal ETH) behind a branch's hash.
func (c *Client) Reveal(ctx context.Context, branch common.Address, description string, vendor common.Address, investment string) (*types.TxReceipt, error) {
	investmentWei, err := utils.ToWei(investment)
	if err != nil {
		return nil, types.NewValidationError("investment", err.Error())
	}
	return c.branchWrite(ctx, branch, "reveal", nil, description, vendor, investmentWei)
}

func (c *Client) branchWrite(ctx context.Context, branch common.Address, method string, value *big.Int, args ...interface{}) (*types.TxReceipt, error) {
	cn, err := c.connection()
	if err != nil {
		return nil, err
	}
	receipt, err := c.transact(ctx, cn, c.branchContract(cn, branch), method, value, args...)
	if err != nil {
		return nil, err
	}
	return toTxReceipt(receipt), nil
}
