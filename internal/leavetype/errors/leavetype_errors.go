package leavetypeerrors

import (
	"net/http"

	"go-payroll/internal/shared/apperror"
)

var (
	ErrLeaveTypeNotFound = apperror.New(
		apperror.CodeNotFound,
		"leave type not found",
		http.StatusNotFound,
	)
	ErrDuplicateName = apperror.New(
		apperror.CodeConflict,
		"a leave type with this name already exists",
		http.StatusConflict,
	)
	ErrPlannedTypeImmutable = apperror.New(
		apperror.CodeInvalidState,
		"the Planned leave type cannot be renamed or deactivated",
		http.StatusBadRequest,
	)
)
