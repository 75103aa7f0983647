package api

import (
	"github.com/labstack/echo"

	"github.com/paralead/paralead-backend/types"
)

type stateResponse struct {
	Snapshot        *types.Snapshot `json:"snapshot"`
	Stage           string          `json:"stage"`
	TimeRemaining   string          `json:"timeRemaining"`
	Busy            bool            `json:"busy"`
	IsProposalStage bool            `json:"isProposalStage"`
	CanClaim        bool            `json:"canClaim"`
	DecisionRound   bool            `json:"decisionRound"`
	Branches        []branchView    `json:"branches"`
}

// branchView is what a branch card shows: labels, affordances and the user's token balance.
type branchView struct {
	Address     string `json:"address"`
	Status      string `json:"status"`
	StatusLabel string `json:"statusLabel"`
	IsMain      bool   `json:"isMain"`
	CanTrade    bool   `json:"canTrade"`
	NeedsReveal bool   `json:"needsReveal"`
	HasVendor   bool   `json:"hasVendor"`
	Balance     string `json:"balance"`
}

func (s *Server) newStateResponse(snapshot *types.Snapshot) *stateResponse {
	views := make([]branchView, 0, len(snapshot.Branches))
	for i := range snapshot.Branches {
		b := &snapshot.Branches[i]
		views = append(views, branchView{
			Address:     b.Address,
			Status:      b.Status.String(),
			StatusLabel: b.Status.DisplayName(),
			IsMain:      i == 0,
			CanTrade:    b.CanTrade(),
			NeedsReveal: b.NeedsReveal(),
			HasVendor:   b.HasVendor(),
			Balance:     snapshot.TokenBalance(b.Address),
		})
	}
	return &stateResponse{
		Snapshot:        snapshot,
		Stage:           snapshot.Round.Stage.String(),
		TimeRemaining:   s.dashboard.Countdown(),
		Busy:            s.dashboard.Busy(),
		IsProposalStage: snapshot.Round.IsProposalStage(),
		CanClaim:        snapshot.Round.CanClaim(),
		DecisionRound:   snapshot.Round.IsDecisionRound(),
		Branches:        views,
	}
}

// State returns the last applied snapshot without touching the chain.
func (s *Server) State(c echo.Context) error {
	snapshot := s.dashboard.Snapshot()
	if snapshot == nil {
		return Unavailable.SetMsg("contract state not loaded").Build(c)
	}
	return OK.SetData(s.newStateResponse(snapshot)).Build(c)
}

func (s *Server) Refresh(c echo.Context) error {
	ctx, cancel := s.requestContext(c)
	defer cancel()
	snapshot, err := s.dashboard.LoadState(ctx)
	if err != nil {
		return s.buildError(c, "Refresh", err)
	}
	return OK.SetData(s.newStateResponse(snapshot)).Build(c)
}

func (s *Server) Timer(c echo.Context) error {
	snapshot := s.dashboard.Snapshot()
	if snapshot == nil {
		return Unavailable.SetMsg("contract state not loaded").Build(c)
	}
	return OK.SetData(map[string]interface{}{
		"deadline":      snapshot.Round.TimerDeadline,
		"timeRemaining": s.dashboard.Countdown(),
	}).Build(c)
}

func (s *Server) Form(c echo.Context) error {
	shape, err := s.dashboard.FormShape()
	if err != nil {
		return s.buildError(c, "Form", err)
	}
	return OK.SetData(shape).Build(c)
}

func (s *Server) ClaimAll(c echo.Context) error {
	ctx, cancel := s.writeContext(c)
	defer cancel()
	receipt, err := s.dashboard.ClaimAll(ctx)
	if err != nil {
		return s.buildError(c, "ClaimAll", err)
	}
	return OK.SetData(receipt).Build(c)
}

func (s *Server) ResetBalance(c echo.Context) error {
	ctx, cancel := s.writeContext(c)
	defer cancel()
	receipt, err := s.dashboard.ResetBalance(ctx)
	if err != nil {
		return s.buildError(c, "ResetBalance", err)
	}
	return OK.SetData(receipt).Build(c)
}

func (s *Server) RefreshBalance(c echo.Context) error {
	ctx, cancel := s.writeContext(c)
	defer cancel()
	receipt, err := s.dashboard.RefreshBalance(ctx)
	if err != nil {
		return s.buildError(c, "RefreshBalance", err)
	}
	return OK.SetData(receipt).Build(c)
}
