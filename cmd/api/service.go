package main

import (
	"context"
	"errors"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/paralead/paralead-backend/api"
	"github.com/paralead/paralead-backend/cache"
	"github.com/paralead/paralead-backend/cfg"
	"github.com/paralead/paralead-backend/chain"
	"github.com/paralead/paralead-backend/dashboard"
	"github.com/paralead/paralead-backend/db"
	"github.com/paralead/paralead-backend/metrics"
)

// service owns every long-lived component of the API process.
type service struct {
	cfg    cfg.ServiceConfig
	logger *zap.Logger

	chain     *chain.Client
	dashboard *dashboard.Dashboard
	cache     cache.Client
	storage   db.Client
	server    *api.Server
}

func newService(ctx context.Context, serviceCfg cfg.ServiceConfig, logger *zap.Logger) (*service, error) {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	provider, err := metrics.New(reg)
	if err != nil {
		return nil, err
	}

	wallet, err := chain.WalletFromConfig(serviceCfg.WalletPrivateKey, serviceCfg.WalletKeystore, serviceCfg.WalletPassphrase)
	if err != nil {
		return nil, err
	}
	if wallet == nil {
		logger.Warn("no wallet configured, running read only")
	}

	// Head subscriptions need a websocket endpoint.
	rpcURL := serviceCfg.RPCURL
	if serviceCfg.RefreshOnNewBlock {
		if serviceCfg.WSURL == "" {
			return nil, errors.New("REFRESH_ON_NEW_BLOCK requires ETH_WS_URL")
		}
		rpcURL = serviceCfg.WSURL
	}
	chainClient, err := chain.New(chain.Config{
		RPCURL:          rpcURL,
		ChainID:         new(big.Int).SetUint64(serviceCfg.ChainID),
		FactoryAddress:  common.HexToAddress(serviceCfg.FactoryAddress),
		FactoryABIURL:   serviceCfg.FactoryABIURL,
		BranchABIURL:    serviceCfg.BranchABIURL,
		Wallet:          wallet,
		WalletRPCURL:    serviceCfg.WalletRPCURL,
		BranchCacheSize: serviceCfg.BranchCacheSize,
		TxTimeout:       serviceCfg.TxTimeout,
		Metrics:         provider,
		Logger:          logger,
	})
	if err != nil {
		return nil, err
	}

	svc := &service{
		cfg:    serviceCfg,
		logger: logger,
		chain:  chainClient,
	}

	if serviceCfg.CacheEngine != "" {
		svc.cache, err = cache.New(cache.Config{
			Adapter:  cache.Adapter(serviceCfg.CacheEngine),
			URL:      serviceCfg.CacheURL,
			DB:       serviceCfg.CacheDB,
			Password: serviceCfg.CachePassword,
			IsFlush:  serviceCfg.CacheIsFlush,
			Limit:    serviceCfg.NotificationLimit,
			Logger:   logger,
		})
		if err != nil {
			return nil, err
		}
	}
	if serviceCfg.StorageDriver != "" {
		svc.storage, err = db.NewClient(db.Config{
			DbAdapter: db.Adapter(serviceCfg.StorageDriver),
			DbName:    serviceCfg.StorageDB,
			URL:       serviceCfg.StorageURI,
			MinConn:   serviceCfg.StorageMinConn,
			MaxConn:   serviceCfg.StorageMaxConn,
			FlushDB:   serviceCfg.StorageIsFlush,
			Logger:    logger,
		})
		if err != nil {
			svc.Close()
			return nil, err
		}
	}

	dashboardCfg := dashboard.Config{
		Chain:    chainClient,
		Metrics:  provider,
		PoolSize: serviceCfg.WorkerPoolSize,
		Logger:   logger,
	}
	if svc.cache != nil {
		dashboardCfg.Notifier = dashboard.MultiNotifier(dashboard.NewLogNotifier(logger), svc.cache)
	}
	if svc.storage != nil {
		dashboardCfg.Journal = svc.storage
	}
	svc.dashboard = dashboard.New(dashboardCfg)

	svc.server = api.NewServer().
		SetSecret(serviceCfg.HttpRequestSecret).
		SetTimeout(serviceCfg.DefaultAPITimeout).
		SetWriteTimeout(serviceCfg.TxTimeout + serviceCfg.DefaultAPITimeout).
		SetLogger(logger).
		SetNetwork(chainClient).
		SetDashboard(svc.dashboard).
		SetMetrics(provider)
	if svc.cache != nil {
		svc.server.SetCache(svc.cache)
	}
	if svc.storage != nil {
		svc.server.SetStorage(svc.storage)
	}

	connectCtx, cancel := context.WithTimeout(ctx, serviceCfg.DefaultAPITimeout)
	defer cancel()
	if err := chainClient.Connect(connectCtx); err != nil {
		// Retried through POST /network/connect.
		logger.Warn("cannot connect to chain", zap.Error(err))
	}
	return svc, nil
}

// Run drives the countdown and, when enabled, reloads the state on every new block.
func (s *service) Run(ctx context.Context) error {
	if _, err := s.dashboard.LoadState(ctx); err != nil {
		s.logger.Warn("initial state load failed", zap.Error(err))
	}
	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return s.dashboard.Run(gCtx)
	})
	if s.cfg.RefreshOnNewBlock {
		g.Go(func() error {
			for {
				err := s.dashboard.WatchHeads(gCtx, s.chain)
				if gCtx.Err() != nil {
					return gCtx.Err()
				}
				s.logger.Warn("head subscription ended, retrying", zap.Error(err))
				select {
				case <-gCtx.Done():
					return gCtx.Err()
				case <-time.After(5 * time.Second):
				}
			}
		})
	}
	return g.Wait()
}

func (s *service) Close() {
	if s.dashboard != nil {
		s.dashboard.Close()
	}
	s.chain.Disconnect()
	if s.cache != nil {
		if err := s.cache.Close(); err != nil {
			s.logger.Warn("cannot close cache", zap.Error(err))
		}
	}
	if s.storage != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.storage.Close(ctx); err != nil {
			s.logger.Warn("cannot close storage", zap.Error(err))
		}
	}
}
