package chain

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"sync"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"go.uber.org/zap"

	"github.com/paralead/paralead-backend/utils"
)

const maxABISize = 4 << 20

// ABIStore fetches contract ABI documents once per process. Failed fetches are not remembered.
type ABIStore struct {
	client *http.Client
	logger *zap.Logger

	mtx  sync.Mutex
	abis map[string]*abi.ABI
}

func NewABIStore(client *http.Client, logger *zap.Logger) *ABIStore {
	if client == nil {
		client = http.DefaultClient
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ABIStore{
		client: client,
		logger: logger.With(zap.String("component", "abi_store")),
		abis:   make(map[string]*abi.ABI),
	}
}

// Load returns the ABI published at url, fetching it on first use.
func (s *ABIStore) Load(ctx context.Context, url string) (*abi.ABI, error) {
	s.mtx.Lock()
	defer s.mtx.Unlock()
	if parsed, ok := s.abis[url]; ok {
		return parsed, nil
	}

	lgr := s.logger.With(zap.String("url", url))
	parsed, err := s.fetch(ctx, url)
	if err != nil {
		lgr.Warn("cannot load abi", zap.Error(err))
		return nil, err
	}
	lgr.Debug("abi loaded", zap.Int("methods", len(parsed.Methods)), zap.Int("events", len(parsed.Events)))
	s.abis[url] = parsed
	return parsed, nil
}

func (s *ABIStore) fetch(ctx context.Context, url string) (*abi.ABI, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch abi: unexpected status %d", resp.StatusCode)
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxABISize))
	if err != nil {
		return nil, err
	}
	return utils.ParseABI(body)
}
