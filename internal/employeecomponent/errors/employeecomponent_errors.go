package employeecomponenterrors

import (
	"net/http"

	"go-payroll/internal/shared/apperror"
)

var (
	ErrAssignmentNotFound = apperror.New(
		apperror.CodeNotFound,
		"component assignment not found",
		http.StatusNotFound,
	)
	ErrComponentNotFound = apperror.New(
		apperror.CodeNotFound,
		"salary component not found",
		http.StatusNotFound,
	)
	ErrComponentInactive = apperror.New(
		apperror.CodeInvalidState,
		"salary component is no longer active",
		http.StatusBadRequest,
	)
	ErrEmployeeNotFound = apperror.New(
		apperror.CodeNotFound,
		"employee not found",
		http.StatusNotFound,
	)
	ErrInvalidAmount = apperror.New(
		apperror.CodeInvalidInput,
		"amount must be a non-negative number",
		http.StatusBadRequest,
	)
	ErrInvalidAssignmentID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid assignment id",
		http.StatusBadRequest,
	)
)
