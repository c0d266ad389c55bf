package payrollerrors

import (
	"net/http"

	"go-payroll/internal/shared/apperror"
)

var (
	ErrCycleLocked = apperror.New(
		apperror.CodeInvalidState,
		"payroll cycle is already submitted; reopen it before recomputing",
		http.StatusConflict,
	)
	ErrCycleNotFound = apperror.New(
		apperror.CodeNotFound,
		"payroll cycle not found",
		http.StatusNotFound,
	)
	ErrCycleNotSubmitted = apperror.New(
		apperror.CodeInvalidState,
		"only a submitted payroll cycle can be reopened",
		http.StatusBadRequest,
	)
	ErrInvalidPeriod = apperror.New(
		apperror.CodeInvalidInput,
		"year must be positive and month between 1 and 12",
		http.StatusBadRequest,
	)
	ErrInvalidActorID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid actor id",
		http.StatusBadRequest,
	)
)
