package api

import (
	"github.com/labstack/echo"
)

const ServerVersion = "1.0.0"

func (s *Server) Ping(c echo.Context) error {
	type pingStat struct {
		Version string `json:"version"`
	}
	stats := &pingStat{
		Version: ServerVersion,
	}
	return OK.SetData(stats).Build(c)
}

// Network reports the connection status and the chain the client is bound to.
func (s *Server) Network(c echo.Context) error {
	ctx, cancel := s.requestContext(c)
	defer cancel()
	return OK.SetData(s.network.Status(ctx)).Build(c)
}

func (s *Server) Connect(c echo.Context) error {
	ctx, cancel := s.requestContext(c)
	defer cancel()
	if err := s.network.Connect(ctx); err != nil {
		return s.buildError(c, "Connect", err)
	}
	return OK.SetData(s.network.Status(ctx)).Build(c)
}

func (s *Server) SwitchNetwork(c echo.Context) error {
	ctx, cancel := s.requestContext(c)
	defer cancel()
	if err := s.network.SwitchNetwork(ctx); err != nil {
		return s.buildError(c, "SwitchNetwork", err)
	}
	return OK.SetData(s.network.Status(ctx)).Build(c)
}
