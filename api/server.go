package api

import (
	"context"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"

	"github.com/paralead/paralead-backend/metrics"
	"github.com/paralead/paralead-backend/types"
)

const (
	defaultTimeout = 10 * time.Second
	// defaultWriteTimeout covers the default receipt wait of the contract client plus a follow-up refresh.
	defaultWriteTimeout = 5*time.Minute + defaultTimeout
)

// Network is the connection side of the contract client.
type Network interface {
	Connect(ctx context.Context) error
	SwitchNetwork(ctx context.Context) error
	Status(ctx context.Context) types.NetworkStatus
	BranchInfo(ctx context.Context, branch common.Address) (*types.BranchInfo, error)
	TokenBalance(ctx context.Context, branch, holder common.Address) (string, error)
}

type Dashboard interface {
	LoadState(ctx context.Context) (*types.Snapshot, error)
	Snapshot() *types.Snapshot
	Countdown() string
	FormShape() (types.FormShape, error)
	Busy() bool

	SubmitProposal(ctx context.Context, draft types.ProposalDraft) (*types.ProposalReceipt, error)
	Buy(ctx context.Context, branch, amount, value string) (*types.TxReceipt, error)
	Sell(ctx context.Context, branch, amount string) (*types.TxReceipt, error)
	Claim(ctx context.Context, branch string) (*types.TxReceipt, error)
	Withdraw(ctx context.Context, branch string) (*types.TxReceipt, error)
	Reveal(ctx context.Context, branch, description, vendor, investment string) (*types.TxReceipt, error)
	ClaimAll(ctx context.Context) (*types.TxReceipt, error)
	ResetBalance(ctx context.Context) (*types.TxReceipt, error)
	RefreshBalance(ctx context.Context) (*types.TxReceipt, error)
}

type NotificationStore interface {
	Notifications(ctx context.Context, limit int64) ([]*types.Notification, error)
}

type ActivityStore interface {
	Activities(ctx context.Context, filter *types.ActivitiesFilter) ([]*types.Activity, uint64, error)
}

type Server struct {
	authorizationSecret string
	timeout             time.Duration
	writeTimeout        time.Duration

	network       Network
	dashboard     Dashboard
	notifications NotificationStore
	activities    ActivityStore
	metrics       *metrics.Provider

	logger *zap.Logger
}

func NewServer() *Server {
	return &Server{timeout: defaultTimeout, writeTimeout: defaultWriteTimeout, logger: zap.NewNop()}
}

func (s *Server) SetSecret(secret string) *Server {
	s.authorizationSecret = secret
	return s
}

func (s *Server) SetTimeout(timeout time.Duration) *Server {
	if timeout > 0 {
		s.timeout = timeout
	}
	return s
}

// SetWriteTimeout bounds write handlers, which wait for the receipt and the refresh after it.
func (s *Server) SetWriteTimeout(timeout time.Duration) *Server {
	if timeout > 0 {
		s.writeTimeout = timeout
	}
	return s
}

func (s *Server) SetLogger(logger *zap.Logger) *Server {
	s.logger = logger
	return s
}

func (s *Server) SetNetwork(network Network) *Server {
	s.network = network
	return s
}

func (s *Server) SetDashboard(dashboard Dashboard) *Server {
	s.dashboard = dashboard
	return s
}

func (s *Server) SetCache(notifications NotificationStore) *Server {
	s.notifications = notifications
	return s
}

func (s *Server) SetStorage(activities ActivityStore) *Server {
	s.activities = activities
	return s
}

func (s *Server) SetMetrics(provider *metrics.Provider) *Server {
	s.metrics = provider
	return s
}
