package salarycomponenterrors

import (
	"net/http"

	"go-payroll/internal/shared/apperror"
)

var (
	ErrComponentNotFound = apperror.New(
		apperror.CodeNotFound,
		"salary component not found",
		http.StatusNotFound,
	)
	ErrDuplicateComponent = apperror.New(
		apperror.CodeConflict,
		"a component with this name and type already exists",
		http.StatusConflict,
	)
	ErrInvalidComponentID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid salary component id",
		http.StatusBadRequest,
	)
	ErrComponentInactive = apperror.New(
		apperror.CodeInvalidState,
		"salary component is no longer active",
		http.StatusBadRequest,
	)
)
