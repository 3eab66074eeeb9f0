package finance

import (
	"ProjectFinance/pkg/response"
	"net/http"
)

var (
	ErrInvalidParameter = response.NewError(http.StatusBadRequest, "invalid parameter")
	ErrMissingParameter = response.NewError(http.StatusBadRequest, "missing parameter")
	ErrInvalidRecord    = response.NewError(http.StatusBadRequest, "invalid finance record")
	ErrRecordNotFound   = response.NewError(http.StatusNotFound, "finance record not found")
	ErrStoreUnavailable = response.NewError(http.StatusServiceUnavailable, "record store unavailable")
)
