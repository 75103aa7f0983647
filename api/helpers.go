package api

import (
	"context"
	"errors"
	"strconv"

	"github.com/labstack/echo"
	"go.uber.org/zap"

	"github.com/paralead/paralead-backend/types"
)

func getPagingOption(c echo.Context) (*types.Pagination, int, int) {
	pageParams := c.QueryParam("page")
	limitParams := c.QueryParam("limit")
	if pageParams == "" && limitParams == "" {
		return nil, 0, 0
	}
	page, err := strconv.Atoi(pageParams)
	if err != nil || page <= 0 {
		page = 1
	}
	limit, err := strconv.Atoi(limitParams)
	if err != nil || limit <= 0 {
		limit = 25
	}
	pagination := &types.Pagination{
		Skip:  (page - 1) * limit,
		Limit: limit,
	}
	pagination.Sanitize()
	return pagination, page, pagination.Limit
}

// requestContext bounds a handler by the server timeout.
func (s *Server) requestContext(c echo.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request().Context(), s.timeout)
}

// writeContext bounds a write handler by the write timeout.
func (s *Server) writeContext(c echo.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request().Context(), s.writeTimeout)
}

func (s *Server) authorize(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if c.Request().Header.Get("Authorization") != s.authorizationSecret {
			return Unauthorized.Build(c)
		}
		return next(c)
	}
}

// buildError maps domain errors onto a response.
func (s *Server) buildError(c echo.Context, method string, err error) error {
	lgr := s.logger.With(zap.String("method", method))
	var (
		validationErr *types.ValidationError
		pendingErr    *types.TxPendingError
	)
	switch {
	case errors.As(err, &validationErr):
		return Invalid.SetMsg(validationErr.Reason).Build(c)
	case errors.As(err, &pendingErr):
		lgr.Warn("transaction not confirmed", zap.String("txHash", pendingErr.TxHash), zap.Error(err))
		return Pending.SetData(map[string]string{"txHash": pendingErr.TxHash}).Build(c)
	case errors.Is(err, types.ErrBusy):
		return Conflict.Build(c)
	case errors.Is(err, types.ErrClosed), types.IsConnectionError(err):
		lgr.Warn("chain unavailable", zap.Error(err))
		return Unavailable.SetMsg(err.Error()).Build(c)
	}
	lgr.Warn("request failed", zap.Error(err))
	return Invalid.SetMsg(err.Error()).Build(c)
}
