package leaveerrors

import (
	"net/http"

	"go-payroll/internal/shared/apperror"
)

var (
	ErrInvalidActorID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid actor id",
		http.StatusBadRequest,
	)
	ErrInvalidEmployeeID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid employee id",
		http.StatusBadRequest,
	)
	ErrInvalidLeaveTypeID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid leave type id",
		http.StatusBadRequest,
	)
	ErrInvalidDateFormat = apperror.New(
		apperror.CodeInvalidInput,
		"invalid date format, expected YYYY-MM-DD",
		http.StatusBadRequest,
	)
	ErrInvalidDateRange = apperror.New(
		apperror.CodeInvalidInput,
		"start_date must be before or equal end_date",
		http.StatusBadRequest,
	)
	ErrInvalidPeriod = apperror.New(
		apperror.CodeInvalidInput,
		"year and month query parameters are required",
		http.StatusBadRequest,
	)
	ErrNoWorkingDays = apperror.New(
		apperror.CodeInvalidInput,
		"no working days in range",
		http.StatusBadRequest,
	)
	ErrInsufficientBalance = apperror.New(
		apperror.CodeInvalidState,
		"insufficient leave balance for this request",
		http.StatusBadRequest,
	)
	ErrLeaveNotFound = apperror.New(
		apperror.CodeNotFound,
		"leave request not found",
		http.StatusNotFound,
	)
	ErrLeaveTypeNotFound = apperror.New(
		apperror.CodeNotFound,
		"leave type not found",
		http.StatusNotFound,
	)
	ErrLeaveTypeInactive = apperror.New(
		apperror.CodeInvalidState,
		"leave type is no longer active",
		http.StatusBadRequest,
	)
	ErrOnlyPendingMutable = apperror.New(
		apperror.CodeInvalidState,
		"only pending leave requests can be edited or cancelled",
		http.StatusBadRequest,
	)
	ErrOnlyPendingProcessable = apperror.New(
		apperror.CodeInvalidState,
		"only pending leave requests can be approved or rejected",
		http.StatusBadRequest,
	)
	ErrInvalidAction = apperror.New(
		apperror.CodeInvalidInput,
		"action must be APPROVE or REJECT",
		http.StatusBadRequest,
	)
	ErrNotAuthorizedApprover = apperror.New(
		apperror.CodeForbidden,
		"only the employee's manager or an admin can process this request",
		http.StatusForbidden,
	)
	ErrNotRequestOwner = apperror.New(
		apperror.CodeForbidden,
		"leave requests can only be created for yourself",
		http.StatusForbidden,
	)
)
