package taxprojectionerrors

import (
	"net/http"

	"go-payroll/internal/shared/apperror"
)

var (
	ErrRowNotFound = apperror.New(
		apperror.CodeNotFound,
		"tax projection row not found",
		http.StatusNotFound,
	)
	ErrDuplicateLabel = apperror.New(
		apperror.CodeConflict,
		"a tax projection row with this label already exists",
		http.StatusConflict,
	)
	ErrInvalidRowID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid tax projection row id",
		http.StatusBadRequest,
	)
	ErrEntryNotFound = apperror.New(
		apperror.CodeNotFound,
		"no payroll entry for this employee and period",
		http.StatusNotFound,
	)
)
