package api

import (
	"strconv"

	"github.com/labstack/echo"
	"go.uber.org/zap"

	"github.com/paralead/paralead-backend/types"
	"github.com/paralead/paralead-backend/utils"
)

const defaultNotificationLimit = 20

func (s *Server) Notifications(c echo.Context) error {
	lgr := s.logger.With(zap.String("method", "Notifications"))
	if s.notifications == nil {
		return Unavailable.SetMsg("notification cache disabled").Build(c)
	}
	limit := int64(defaultNotificationLimit)
	if v := c.QueryParam("limit"); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil || n <= 0 {
			return Invalid.Build(c)
		}
		limit = n
	}
	ctx, cancel := s.requestContext(c)
	defer cancel()
	list, err := s.notifications.Notifications(ctx, limit)
	if err != nil {
		lgr.Warn("cannot read notifications", zap.Error(err))
		return InternalServer.Build(c)
	}
	return OK.SetData(list).Build(c)
}

func (s *Server) Activities(c echo.Context) error {
	lgr := s.logger.With(zap.String("method", "Activities"))
	if s.activities == nil {
		return Unavailable.SetMsg("activity journal disabled").Build(c)
	}
	pagination, page, limit := getPagingOption(c)
	if pagination == nil {
		pagination = &types.Pagination{}
		pagination.Sanitize()
		page, limit = 1, pagination.Limit
	}
	filter := &types.ActivitiesFilter{
		Pagination: pagination,
		Action:     c.QueryParam("action"),
	}
	if account := c.QueryParam("account"); account != "" {
		addr, err := utils.ParseAddress(account)
		if err != nil {
			return Invalid.SetMsg(err.Error()).Build(c)
		}
		filter.Account = addr.Hex()
	}
	if branch := c.QueryParam("branch"); branch != "" {
		addr, err := utils.ParseAddress(branch)
		if err != nil {
			return Invalid.SetMsg(err.Error()).Build(c)
		}
		filter.Branch = addr.Hex()
	}

	ctx, cancel := s.requestContext(c)
	defer cancel()
	activities, total, err := s.activities.Activities(ctx, filter)
	if err != nil {
		lgr.Warn("cannot read activities", zap.Error(err))
		return InternalServer.Build(c)
	}
	return OK.SetData(PagingResponse{
		Page:  page,
		Limit: limit,
		Total: total,
		Data:  activities,
	}).Build(c)
}
