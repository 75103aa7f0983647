package api

import (
	"github.com/labstack/echo"

	"github.com/paralead/paralead-backend/utils"
)

type tradeRequest struct {
	Amount string `json:"amount"`
	Value  string `json:"value"`
}

type revealRequest struct {
	Description string `json:"description"`
	Vendor      string `json:"vendor"`
	Investment  string `json:"investment"`
}

// Branch reads a branch straight from the chain, so it also serves branches outside the current round.
func (s *Server) Branch(c echo.Context) error {
	ctx, cancel := s.requestContext(c)
	defer cancel()
	address, err := utils.ParseAddress(c.Param("address"))
	if err != nil {
		return Invalid.SetMsg(err.Error()).Build(c)
	}
	info, err := s.network.BranchInfo(ctx, address)
	if err != nil {
		return s.buildError(c, "Branch", err)
	}
	return OK.SetData(info).Build(c)
}

func (s *Server) BranchBalance(c echo.Context) error {
	ctx, cancel := s.requestContext(c)
	defer cancel()
	branch, err := utils.ParseAddress(c.Param("address"))
	if err != nil {
		return Invalid.SetMsg(err.Error()).Build(c)
	}
	holder, err := utils.ParseAddress(c.Param("holder"))
	if err != nil {
		return Invalid.SetMsg(err.Error()).Build(c)
	}
	balance, err := s.network.TokenBalance(ctx, branch, holder)
	if err != nil {
		return s.buildError(c, "BranchBalance", err)
	}
	return OK.SetData(map[string]string{
		"branch":  branch.Hex(),
		"holder":  holder.Hex(),
		"balance": balance,
	}).Build(c)
}

func (s *Server) Buy(c echo.Context) error {
	var req tradeRequest
	if err := c.Bind(&req); err != nil {
		return Invalid.Build(c)
	}
	ctx, cancel := s.writeContext(c)
	defer cancel()
	receipt, err := s.dashboard.Buy(ctx, c.Param("address"), req.Amount, req.Value)
	if err != nil {
		return s.buildError(c, "Buy", err)
	}
	return OK.SetData(receipt).Build(c)
}

func (s *Server) Sell(c echo.Context) error {
	var req tradeRequest
	if err := c.Bind(&req); err != nil {
		return Invalid.Build(c)
	}
	ctx, cancel := s.writeContext(c)
	defer cancel()
	receipt, err := s.dashboard.Sell(ctx, c.Param("address"), req.Amount)
	if err != nil {
		return s.buildError(c, "Sell", err)
	}
	return OK.SetData(receipt).Build(c)
}

func (s *Server) Claim(c echo.Context) error {
	ctx, cancel := s.writeContext(c)
	defer cancel()
	receipt, err := s.dashboard.Claim(ctx, c.Param("address"))
	if err != nil {
		return s.buildError(c, "Claim", err)
	}
	return OK.SetData(receipt).Build(c)
}

func (s *Server) Withdraw(c echo.Context) error {
	ctx, cancel := s.writeContext(c)
	defer cancel()
	receipt, err := s.dashboard.Withdraw(ctx, c.Param("address"))
	if err != nil {
		return s.buildError(c, "Withdraw", err)
	}
	return OK.SetData(receipt).Build(c)
}

func (s *Server) Reveal(c echo.Context) error {
	var req revealRequest
	if err := c.Bind(&req); err != nil {
		return Invalid.Build(c)
	}
	ctx, cancel := s.writeContext(c)
	defer cancel()
	receipt, err := s.dashboard.Reveal(ctx, c.Param("address"), req.Description, req.Vendor, req.Investment)
	if err != nil {
		return s.buildError(c, "Reveal", err)
	}
	return OK.SetData(receipt).Build(c)
}
