package api

import (
	"github.com/labstack/echo"
	"github.com/labstack/echo/middleware"
)

type restDefinition struct {
	method      string
	path        string
	fn          func(c echo.Context) error
	middlewares []echo.MiddlewareFunc
}

func bind(gr *echo.Group, srv *Server) {
	auth := []echo.MiddlewareFunc{srv.authorize}
	apis := []restDefinition{
		{
			method:      echo.GET,
			path:        "/ping",
			fn:          srv.Ping,
			middlewares: nil,
		},
		// Network
		{
			method:      echo.GET,
			path:        "/network",
			fn:          srv.Network,
			middlewares: nil,
		},
		{
			method:      echo.POST,
			path:        "/network/connect",
			fn:          srv.Connect,
			middlewares: auth,
		},
		{
			method:      echo.POST,
			path:        "/network/switch",
			fn:          srv.SwitchNetwork,
			middlewares: auth,
		},
		// Dashboard
		{
			method:      echo.GET,
			path:        "/dashboard/state",
			fn:          srv.State,
			middlewares: nil,
		},
		{
			method:      echo.POST,
			path:        "/dashboard/refresh",
			fn:          srv.Refresh,
			middlewares: nil,
		},
		{
			method:      echo.GET,
			path:        "/dashboard/timer",
			fn:          srv.Timer,
			middlewares: nil,
		},
		{
			method:      echo.GET,
			path:        "/dashboard/form",
			fn:          srv.Form,
			middlewares: nil,
		},
		// Branches
		{
			method:      echo.GET,
			path:        "/branches/:address",
			fn:          srv.Branch,
			middlewares: nil,
		},
		{
			method:      echo.GET,
			path:        "/branches/:address/balance/:holder",
			fn:          srv.BranchBalance,
			middlewares: nil,
		},
		{
			method:      echo.POST,
			path:        "/branches/:address/buy",
			fn:          srv.Buy,
			middlewares: auth,
		},
		{
			method:      echo.POST,
			path:        "/branches/:address/sell",
			fn:          srv.Sell,
			middlewares: auth,
		},
		{
			method:      echo.POST,
			path:        "/branches/:address/claim",
			fn:          srv.Claim,
			middlewares: auth,
		},
		{
			method:      echo.POST,
			path:        "/branches/:address/withdraw",
			fn:          srv.Withdraw,
			middlewares: auth,
		},
		{
			method:      echo.POST,
			path:        "/branches/:address/reveal",
			fn:          srv.Reveal,
			middlewares: auth,
		},
		// Factory
		{
			method:      echo.POST,
			path:        "/proposals",
			fn:          srv.SubmitProposal,
			middlewares: auth,
		},
		{
			method:      echo.POST,
			path:        "/claim-all",
			fn:          srv.ClaimAll,
			middlewares: auth,
		},
		{
			method:      echo.POST,
			path:        "/balance/reset",
			fn:          srv.ResetBalance,
			middlewares: auth,
		},
		{
			method:      echo.POST,
			path:        "/balance/refresh",
			fn:          srv.RefreshBalance,
			middlewares: auth,
		},
		// Journal
		{
			method:      echo.GET,
			path:        "/notifications",
			fn:          srv.Notifications,
			middlewares: nil,
		},
		{
			method:      echo.GET,
			path:        "/activities",
			fn:          srv.Activities,
			middlewares: nil,
		},
	}
	for _, api := range apis {
		gr.Add(api.method, api.path, api.fn, api.middlewares...)
	}
}

// NewEcho builds the HTTP server with every route under /api/v1 and prometheus metrics on /metrics.
func NewEcho(srv *Server) *echo.Echo {
	e := echo.New()
	e.HideBanner = true

	e.Use(middleware.CORS())
	e.Use(middleware.Logger())
	e.Use(middleware.Gzip())

	e.GET("/metrics", echo.WrapHandler(srv.metrics.Handler()))
	v1Gr := e.Group("/api/v1")
	bind(v1Gr, srv)
	return e
}
