package common

import (
	"errors"
	"net/http"
)

var (
	ErrNotFound            = errors.New("requested resource not found")
	ErrBadRequest          = errors.New("bad request")
	ErrForbidden           = errors.New("forbidden access")
	ErrNoProblemsAvailable = errors.New("no problems available")
	ErrInvalidMatchState   = errors.New("match is not active")
	ErrJudgeUnavailable    = errors.New("judge service unavailable")
)

// HTTPStatusFromError maps domain errors to HTTP status codes.
func HTTPStatusFromError(err error) int {
	if err == nil {
		return http.StatusOK
	}
	if errors.Is(err, ErrNotFound) {
		return http.StatusNotFound
	}
	if errors.Is(err, ErrBadRequest) {
		return http.StatusBadRequest
	}
	if errors.Is(err, ErrForbidden) {
		return http.StatusForbidden
	}
	if errors.Is(err, ErrNoProblemsAvailable) {
		return http.StatusConflict
	}
	if errors.Is(err, ErrInvalidMatchState) {
		return http.StatusConflict
	}
	if errors.Is(err, ErrJudgeUnavailable) {
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}
