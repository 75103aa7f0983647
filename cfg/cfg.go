// Package cfg
package cfg

import (
	"errors"
	"os"
	"strconv"
	"time"

	"go.uber.org/zap/zapcore"
)

const (
	ModeDev        = "dev"
	ModeProduction = "prod"
)

var ErrMissingRPCURL = errors.New("missing ETH_RPC_URL in config")

type ServiceConfig struct {
	ServerMode        string
	Port              string
	HttpRequestSecret string

	LogLevel  string
	SentryDSN string

	DefaultAPITimeout time.Duration
	TxTimeout         time.Duration

	RPCURL            string
	WSURL             string
	ChainID           uint64
	FactoryAddress    string
	FactoryABIURL     string
	BranchABIURL      string
	RefreshOnNewBlock bool

	WalletPrivateKey string
	WalletKeystore   string
	WalletPassphrase string
	WalletRPCURL     string

	BranchCacheSize int
	WorkerPoolSize  int

	CacheEngine       string
	CacheURL          string
	CacheDB           int
	CachePassword     string
	CacheIsFlush      bool
	NotificationLimit int64

	StorageDriver  string
	StorageURI     string
	StorageDB      string
	StorageMinConn int
	StorageMaxConn int
	StorageIsFlush bool
}

// Level parses LOG_LEVEL. Empty or unknown values fall back to info.
func (c ServiceConfig) Level() zapcore.Level {
	level, err := zapcore.ParseLevel(c.LogLevel)
	if err != nil || c.LogLevel == "" {
		return zapcore.InfoLevel
	}
	return level
}

func New() (ServiceConfig, error) {
	apiDefaultTimeoutStr := os.Getenv("DEFAULT_API_TIMEOUT")
	apiDefaultTimeout, err := strconv.Atoi(apiDefaultTimeoutStr)
	if err != nil {
		apiDefaultTimeout = 10
	}

	txTimeoutStr := os.Getenv("TX_TIMEOUT")
	txTimeout, err := time.ParseDuration(txTimeoutStr)
	if err != nil {
		txTimeout = 5 * time.Minute
	}

	rpcURL := os.Getenv("ETH_RPC_URL")
	if rpcURL == "" {
		return ServiceConfig{}, ErrMissingRPCURL
	}

	chainIDStr := os.Getenv("CHAIN_ID")
	chainID, err := strconv.ParseUint(chainIDStr, 10, 64)
	if err != nil {
		chainID = SepoliaChainID
	}

	refreshOnNewBlockStr := os.Getenv("REFRESH_ON_NEW_BLOCK")
	refreshOnNewBlock, err := strconv.ParseBool(refreshOnNewBlockStr)
	if err != nil {
		refreshOnNewBlock = false
	}

	branchCacheSizeStr := os.Getenv("BRANCH_CACHE_SIZE")
	branchCacheSize, err := strconv.Atoi(branchCacheSizeStr)
	if err != nil || branchCacheSize <= 0 {
		branchCacheSize = 128
	}

	workerPoolSizeStr := os.Getenv("WORKER_POOL_SIZE")
	workerPoolSize, err := strconv.Atoi(workerPoolSizeStr)
	if err != nil || workerPoolSize <= 0 {
		workerPoolSize = 8
	}

	cacheDBStr := os.Getenv("CACHE_DB")
	cacheDB, err := strconv.Atoi(cacheDBStr)
	if err != nil {
		cacheDB = 0
	}

	cacheIsFlushStr := os.Getenv("CACHE_IS_FLUSH")
	cacheIsFlush, err := strconv.ParseBool(cacheIsFlushStr)
	if err != nil {
		cacheIsFlush = false
	}

	notificationLimitStr := os.Getenv("NOTIFICATION_LIMIT")
	notificationLimit, err := strconv.ParseInt(notificationLimitStr, 10, 64)
	if err != nil || notificationLimit <= 0 {
		notificationLimit = 100
	}

	storageMinConnStr := os.Getenv("STORAGE_MIN_CONN")
	storageMinConn, err := strconv.Atoi(storageMinConnStr)
	if err != nil {
		storageMinConn = 1
	}

	storageMaxConnStr := os.Getenv("STORAGE_MAX_CONN")
	storageMaxConn, err := strconv.Atoi(storageMaxConnStr)
	if err != nil {
		storageMaxConn = 8
	}

	storageIsFlushStr := os.Getenv("STORAGE_IS_FLUSH")
	storageIsFlush, err := strconv.ParseBool(storageIsFlushStr)
	if err != nil {
		storageIsFlush = false
	}

	cfg := ServiceConfig{
		ServerMode:        getEnv("SERVER_MODE", ModeDev),
		Port:              getEnv("PORT", ":3000"),
		HttpRequestSecret: os.Getenv("HTTP_REQUEST_SECRET"),
		LogLevel:          os.Getenv("LOG_LEVEL"),
		SentryDSN:         os.Getenv("SENTRY_DSN"),
		DefaultAPITimeout: time.Duration(apiDefaultTimeout) * time.Second,
		TxTimeout:         txTimeout,

		RPCURL:            rpcURL,
		WSURL:             os.Getenv("ETH_WS_URL"),
		ChainID:           chainID,
		FactoryAddress:    getEnv("FACTORY_ADDRESS", DefaultFactoryAddress),
		FactoryABIURL:     getEnv("FACTORY_ABI_URL", DefaultFactoryABIURL),
		BranchABIURL:      getEnv("BRANCH_ABI_URL", DefaultBranchABIURL),
		RefreshOnNewBlock: refreshOnNewBlock,

		WalletPrivateKey: os.Getenv("WALLET_PRIVATE_KEY"),
		WalletKeystore:   os.Getenv("WALLET_KEYSTORE"),
		WalletPassphrase: os.Getenv("WALLET_PASSPHRASE"),
		WalletRPCURL:     os.Getenv("WALLET_RPC_URL"),

		BranchCacheSize: branchCacheSize,
		WorkerPoolSize:  workerPoolSize,

		CacheEngine:       os.Getenv("CACHE_ENGINE"),
		CacheURL:          os.Getenv("CACHE_URI"),
		CacheDB:           cacheDB,
		CachePassword:     os.Getenv("CACHE_PASSWORD"),
		CacheIsFlush:      cacheIsFlush,
		NotificationLimit: notificationLimit,

		StorageDriver:  os.Getenv("STORAGE_DRIVER"),
		StorageURI:     os.Getenv("STORAGE_URI"),
		StorageDB:      getEnv("STORAGE_DB", "paralead"),
		StorageMinConn: storageMinConn,
		StorageMaxConn: storageMaxConn,
		StorageIsFlush: storageIsFlush,
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
