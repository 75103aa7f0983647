// Package api
package api

import (
	"net/http"

	"github.com/labstack/echo"
)

var (
	OK             = EchoResponse{StatusCode: http.StatusOK, Code: 1000, Msg: "Success"}
	InternalServer = EchoResponse{StatusCode: http.StatusInternalServerError, Code: 1100, Msg: "Server busy..."}
	Invalid        = EchoResponse{StatusCode: http.StatusBadRequest, Code: 1101, Msg: "Bad request"}
	Conflict       = EchoResponse{StatusCode: http.StatusConflict, Code: 1102, Msg: "Another action is in progress"}
	Unavailable    = EchoResponse{StatusCode: http.StatusServiceUnavailable, Code: 1103, Msg: "Chain unavailable"}
	Pending        = EchoResponse{StatusCode: http.StatusAccepted, Code: 1104, Msg: "Transaction sent, waiting for confirmation"}
	Unauthorized   = EchoResponse{StatusCode: http.StatusUnauthorized, Code: 401, Msg: "Unauthorized"}
)

type EchoResponse struct {
	StatusCode int         `json:"-"`
	Code       int         `json:"code"`
	Msg        string      `json:"msg"`
	Data       interface{} `json:"data,omitempty"`
}

// SetData returns a copy of r carrying data. The package level responses are never modified.
func (r EchoResponse) SetData(data interface{}) *EchoResponse {
	r.Data = data
	return &r
}

func (r EchoResponse) SetMsg(msg string) *EchoResponse {
	r.Msg = msg
	return &r
}

func (r *EchoResponse) Build(c echo.Context) error {
	return c.JSON(r.StatusCode, r)
}

type PagingResponse struct {
	Page  int         `json:"page"`
	Limit int         `json:"limit"`
	Total uint64      `json:"total"`
	Data  interface{} `json:"data"`
}
