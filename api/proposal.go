package api

import (
	"github.com/labstack/echo"

	"github.com/paralead/paralead-backend/types"
)

type proposalRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	// Type is the proposal type name or its numeric value.
	Type       string `json:"type"`
	Vendor     string `json:"vendor"`
	Investment string `json:"investment"`
}

func (s *Server) SubmitProposal(c echo.Context) error {
	var req proposalRequest
	if err := c.Bind(&req); err != nil {
		return Invalid.Build(c)
	}
	proposalType := types.ProposalType(0)
	if req.Type != "" {
		t, err := types.ParseProposalType(req.Type)
		if err != nil {
			return Invalid.SetMsg(err.Error()).Build(c)
		}
		proposalType = t
	}
	ctx, cancel := s.writeContext(c)
	defer cancel()
	receipt, err := s.dashboard.SubmitProposal(ctx, types.ProposalDraft{
		Title:       req.Title,
		Description: req.Description,
		Type:        proposalType,
		Vendor:      req.Vendor,
		Investment:  req.Investment,
	})
	if err != nil {
		return s.buildError(c, "SubmitProposal", err)
	}
	return OK.SetData(receipt).Build(c)
}
