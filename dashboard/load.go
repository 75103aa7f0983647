package dashboard

import (
	"context"
	"math/big"
	"sync"
	"sync/atomic"

	"github.com/ethereum/go-ethereum/common"
	"github.com/panjf2000/ants/v2"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/paralead/paralead-backend/types"
	"github.com/paralead/paralead-backend/utils"
)

const zeroBalance = "0.0"

type branchTask struct {
	idx     int
	address common.Address
}

// LoadState reads the whole round and replaces the snapshot. On any failure the previous
// snapshot stays in place and a "Contract Error" notification is sent.
func (d *Dashboard) LoadState(ctx context.Context) (*types.Snapshot, error) {
	lgr := d.logger.With(zap.String("method", "LoadState"))
	if d.isClosed() {
		return nil, types.ErrClosed
	}
	seq := atomic.AddUint64(&d.seq, 1)

	snapshot, err := d.load(ctx)
	d.cfg.Metrics.ObserveLoad(err)
	if err != nil {
		lgr.Warn("cannot load contract state", zap.Error(err))
		if !d.isClosed() {
			d.notify(ctx, failure(titleContractError, err, msgLoadFailed))
		}
		return nil, err
	}
	if err := d.apply(seq, snapshot); err != nil {
		lgr.Debug("discard state", zap.Uint64("seq", seq), zap.Error(err))
		return nil, err
	}
	lgr.Debug("state loaded",
		zap.Uint64("round", snapshot.Round.Round),
		zap.String("stage", snapshot.Round.Stage.String()),
		zap.Int("branches", len(snapshot.Branches)))
	return snapshot, nil
}

func (d *Dashboard) apply(seq uint64, snapshot *types.Snapshot) error {
	d.mtx.Lock()
	defer d.mtx.Unlock()
	if d.closed {
		return types.ErrClosed
	}
	if seq <= d.applied {
		return types.ErrStaleState
	}
	d.applied = seq
	d.snapshot = snapshot
	d.countdown = utils.FormatTimeRemaining(snapshot.Round.TimerDeadline, d.cfg.Clock())
	return nil
}

func (d *Dashboard) load(ctx context.Context) (*types.Snapshot, error) {
	chain := d.cfg.Chain
	user := chain.Address()

	var (
		round    types.RoundState
		main     common.Address
		children []common.Address
		payable  *big.Int
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		stage, err := chain.Stage(gctx)
		round.Stage = stage
		return err
	})
	g.Go(func() error {
		n, err := chain.Round(gctx)
		round.Round = n
		return err
	})
	g.Go(func() error {
		deadline, err := chain.Timer(gctx)
		round.TimerDeadline = deadline
		return err
	})
	g.Go(func() error {
		var err error
		main, err = chain.MainBranch(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		children, err = chain.Children(gctx)
		return err
	})
	g.Go(func() error {
		balance, err := chain.PayableBalance(gctx, user)
		if err != nil {
			d.logger.Debug("payable balance unavailable", zap.Error(err))
			balance = new(big.Int)
		}
		payable = balance
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	round.MainBranch = main.Hex()
	addresses := append([]common.Address{main}, children...)
	for _, child := range children {
		round.Children = append(round.Children, child.Hex())
	}

	branches, balances, err := d.loadBranches(ctx, addresses, user)
	if err != nil {
		return nil, err
	}
	return &types.Snapshot{
		Round:    round,
		Branches: branches,
		User: types.UserContext{
			Address:        user.Hex(),
			TokenBalances:  balances,
			PayableBalance: payable,
		},
		FetchedAt: d.cfg.Clock(),
	}, nil
}

// loadBranches reads every branch through a worker pool. The result keeps the order of addresses.
func (d *Dashboard) loadBranches(ctx context.Context, addresses []common.Address, user common.Address) ([]types.BranchInfo, map[string]string, error) {
	lgr := d.logger.With(zap.String("method", "loadBranches"))
	var (
		wg       sync.WaitGroup
		branches = make([]types.BranchInfo, len(addresses))
		balances = make([]string, len(addresses))
		errs     = make([]error, len(addresses))
	)
	p, err := ants.NewPoolWithFunc(d.cfg.PoolSize, func(i interface{}) {
		defer wg.Done()
		task := i.(branchTask)
		info, err := d.cfg.Chain.BranchInfo(ctx, task.address)
		if err != nil {
			errs[task.idx] = err
			return
		}
		branches[task.idx] = *info
		balances[task.idx] = zeroBalance
		if user == (common.Address{}) {
			return
		}
		balance, err := d.cfg.Chain.TokenBalance(ctx, task.address, user)
		if err != nil {
			lgr.Warn("cannot load token balance", zap.String("branch", task.address.Hex()), zap.Error(err))
			return
		}
		balances[task.idx] = balance
	})
	if err != nil {
		return nil, nil, err
	}
	defer p.Release()

	for idx, address := range addresses {
		wg.Add(1)
		if err := p.Invoke(branchTask{idx: idx, address: address}); err != nil {
			wg.Done()
			errs[idx] = err
		}
	}
	wg.Wait()

	tokenBalances := make(map[string]string, len(addresses))
	for idx, address := range addresses {
		if errs[idx] != nil {
			return nil, nil, errs[idx]
		}
		tokenBalances[address.Hex()] = balances[idx]
	}
	return branches, tokenBalances, nil
}
