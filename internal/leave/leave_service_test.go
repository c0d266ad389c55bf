package leave_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"go-payroll/internal/employee"
	"go-payroll/internal/holiday"
	"go-payroll/internal/leave"
	leaveerrors "go-payroll/internal/leave/errors"
	"go-payroll/internal/leavebalance"
	"go-payroll/internal/leavetype"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

type fakeLeaveRepository struct {
	withTxFn            func(tx *sql.Tx) leave.Repository
	createFn            func(ctx context.Context, l *leave.LeaveRequest) error
	findByIDFn          func(ctx context.Context, id string) (*leave.LeaveRequest, error)
	findAllFn           func(ctx context.Context, limit, offset int) ([]leave.LeaveRequest, int64, error)
	findAllByEmployeeFn func(ctx context.Context, employeeID string) ([]leave.LeaveRequest, error)
	findAllByManagerFn  func(ctx context.Context, managerID string) ([]leave.LeaveRequest, error)
	updateFn            func(ctx context.Context, l *leave.LeaveRequest) error
	sumRequestedDaysFn  func(ctx context.Context, employeeID, leaveTypeID string, year, month int, statuses []string, excludeID *string) (int, error)
}

func (f *fakeLeaveRepository) WithTx(tx *sql.Tx) leave.Repository {
	if f.withTxFn != nil {
		return f.withTxFn(tx)
	}
	return f
}

func (f *fakeLeaveRepository) Create(ctx context.Context, l *leave.LeaveRequest) error {
	if f.createFn != nil {
		return f.createFn(ctx, l)
	}
	return nil
}

func (f *fakeLeaveRepository) FindByID(ctx context.Context, id string) (*leave.LeaveRequest, error) {
	if f.findByIDFn != nil {
		return f.findByIDFn(ctx, id)
	}
	return nil, nil
}

func (f *fakeLeaveRepository) FindAll(ctx context.Context, limit, offset int) ([]leave.LeaveRequest, int64, error) {
	if f.findAllFn != nil {
		return f.findAllFn(ctx, limit, offset)
	}
	return nil, 0, nil
}

func (f *fakeLeaveRepository) FindAllByEmployee(ctx context.Context, employeeID string) ([]leave.LeaveRequest, error) {
	if f.findAllByEmployeeFn != nil {
		return f.findAllByEmployeeFn(ctx, employeeID)
	}
	return nil, nil
}

func (f *fakeLeaveRepository) FindAllByManager(ctx context.Context, managerID string) ([]leave.LeaveRequest, error) {
	if f.findAllByManagerFn != nil {
		return f.findAllByManagerFn(ctx, managerID)
	}
	return nil, nil
}

func (f *fakeLeaveRepository) Update(ctx context.Context, l *leave.LeaveRequest) error {
	if f.updateFn != nil {
		return f.updateFn(ctx, l)
	}
	return nil
}

func (f *fakeLeaveRepository) SumRequestedDays(ctx context.Context, employeeID, leaveTypeID string, year, month int, statuses []string, excludeID *string) (int, error) {
	if f.sumRequestedDaysFn != nil {
		return f.sumRequestedDaysFn(ctx, employeeID, leaveTypeID, year, month, statuses, excludeID)
	}
	return 0, nil
}

func (f *fakeLeaveRepository) SumApprovedDaysForMonth(ctx context.Context, year, month int) (map[string]int, error) {
	return nil, nil
}

type fakeLeaveTypeRepository struct {
	findByIDFn func(ctx context.Context, id string) (*leavetype.LeaveType, error)
}

func (f *fakeLeaveTypeRepository) WithTx(tx *sql.Tx) leavetype.Repository { return f }

func (f *fakeLeaveTypeRepository) Create(ctx context.Context, lt *leavetype.LeaveType) error {
	return nil
}

func (f *fakeLeaveTypeRepository) FindAll(ctx context.Context) ([]leavetype.LeaveType, error) {
	return nil, nil
}

func (f *fakeLeaveTypeRepository) FindAllActive(ctx context.Context) ([]leavetype.LeaveType, error) {
	return nil, nil
}

func (f *fakeLeaveTypeRepository) FindByID(ctx context.Context, id string) (*leavetype.LeaveType, error) {
	if f.findByIDFn != nil {
		return f.findByIDFn(ctx, id)
	}
	return nil, nil
}

func (f *fakeLeaveTypeRepository) ExistsByName(ctx context.Context, name string, excludeID *string) (bool, error) {
	return false, nil
}

func (f *fakeLeaveTypeRepository) Update(ctx context.Context, lt *leavetype.LeaveType) error {
	return nil
}

type fakeHolidayRepository struct {
	findDatesInRangeFn func(ctx context.Context, start, end time.Time) ([]time.Time, error)
}

func (f *fakeHolidayRepository) WithTx(tx *sql.Tx) holiday.Repository { return f }

func (f *fakeHolidayRepository) Create(ctx context.Context, h *holiday.Holiday) error { return nil }

func (f *fakeHolidayRepository) FindAll(ctx context.Context) ([]holiday.Holiday, error) {
	return nil, nil
}

func (f *fakeHolidayRepository) FindDatesInRange(ctx context.Context, start, end time.Time) ([]time.Time, error) {
	if f.findDatesInRangeFn != nil {
		return f.findDatesInRangeFn(ctx, start, end)
	}
	return nil, nil
}

func (f *fakeHolidayRepository) ExistsOnDate(ctx context.Context, date time.Time) (bool, error) {
	return false, nil
}

func (f *fakeHolidayRepository) Delete(ctx context.Context, id string) error { return nil }

type fakeBalanceService struct {
	getOrCreateFn func(ctx context.Context, employeeID, leaveTypeID string, year, month int) (leavebalance.BalanceResponse, error)
}

func (f *fakeBalanceService) GetOrCreate(ctx context.Context, employeeID, leaveTypeID string, year, month int) (leavebalance.BalanceResponse, error) {
	if f.getOrCreateFn != nil {
		return f.getOrCreateFn(ctx, employeeID, leaveTypeID, year, month)
	}
	return leavebalance.BalanceResponse{}, nil
}

func (f *fakeBalanceService) Adjust(ctx context.Context, req leavebalance.AdjustBalanceRequest) (leavebalance.BalanceResponse, error) {
	return leavebalance.BalanceResponse{}, nil
}

func (f *fakeBalanceService) GetAllForMonth(ctx context.Context, year, month int) ([]leavebalance.BalanceResponse, error) {
	return nil, nil
}

func (f *fakeBalanceService) ResetMonth(ctx context.Context, year, month int) (int, error) {
	return 0, nil
}

type fakeEmployeeRepository struct {
	isManagerOfFn func(ctx context.Context, managerID, employeeID string) (bool, error)
}

func (f *fakeEmployeeRepository) FindAllActive(ctx context.Context) ([]employee.Employee, error) {
	return nil, nil
}

func (f *fakeEmployeeRepository) FindByID(ctx context.Context, id string) (*employee.Employee, error) {
	return nil, nil
}

func (f *fakeEmployeeRepository) IsManagerOf(ctx context.Context, managerID, employeeID string) (bool, error) {
	if f.isManagerOfFn != nil {
		return f.isManagerOfFn(ctx, managerID, employeeID)
	}
	return false, nil
}

type serviceDeps struct {
	db           *sql.DB
	sqlMock      sqlmock.Sqlmock
	service      leave.Service
	repo         *fakeLeaveRepository
	leaveTypes   *fakeLeaveTypeRepository
	holidays     *fakeHolidayRepository
	balances     *fakeBalanceService
	employees    *fakeEmployeeRepository
	plannedType  leavetype.LeaveType
	personalType leavetype.LeaveType
}

func setupServiceTest(t *testing.T) *serviceDeps {
	t.Helper()

	db, sqlMock, err := sqlmock.New()
	assert.NoError(t, err)

	deps := &serviceDeps{
		db:         db,
		sqlMock:    sqlMock,
		repo:       &fakeLeaveRepository{},
		leaveTypes: &fakeLeaveTypeRepository{},
		holidays:   &fakeHolidayRepository{},
		balances:   &fakeBalanceService{},
		employees:  &fakeEmployeeRepository{},
		plannedType: leavetype.LeaveType{
			ID:       uuid.New(),
			Name:     leavetype.PlannedTypeName,
			IsActive: true,
		},
		personalType: leavetype.LeaveType{
			ID:       uuid.New(),
			Name:     "Personal",
			IsActive: true,
		},
	}

	deps.leaveTypes.findByIDFn = func(ctx context.Context, id string) (*leavetype.LeaveType, error) {
		switch id {
		case deps.plannedType.ID.String():
			lt := deps.plannedType
			return &lt, nil
		case deps.personalType.ID.String():
			lt := deps.personalType
			return &lt, nil
		}
		return nil, errors.New("unexpected leave type lookup")
	}

	deps.service = leave.NewService(db, deps.repo, deps.leaveTypes, deps.holidays, deps.balances, deps.employees)
	return deps
}

func expectTx(t *testing.T, mock sqlmock.Sqlmock, commit bool) {
	t.Helper()
	mock.ExpectBegin()
	if commit {
		mock.ExpectCommit()
	} else {
		mock.ExpectRollback()
	}
}

func TestLeaveService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("success weekend spanning range counts working days only", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		employeeID := uuid.New().String()
		deps.balances.getOrCreateFn = func(ctx context.Context, empID, ltID string, year, month int) (leavebalance.BalanceResponse, error) {
			assert.Equal(t, 2026, year)
			assert.Equal(t, 3, month)
			return leavebalance.BalanceResponse{BalanceDays: 2}, nil
		}
		deps.repo.sumRequestedDaysFn = func(ctx context.Context, empID, ltID string, year, month int, statuses []string, excludeID *string) (int, error) {
			assert.ElementsMatch(t, []string{"PENDING", "APPROVED"}, statuses)
			assert.Nil(t, excludeID)
			return 0, nil
		}

		var created *leave.LeaveRequest
		deps.repo.createFn = func(ctx context.Context, l *leave.LeaveRequest) error {
			created = l
			return nil
		}

		expectTx(t, deps.sqlMock, true)

		// 2026-03-06 is a Friday, 2026-03-09 the following Monday.
		resp, err := deps.service.Create(ctx, employeeID, "employee", leave.CreateLeaveRequest{
			EmployeeID:  employeeID,
			LeaveTypeID: deps.plannedType.ID.String(),
			StartDate:   "2026-03-06",
			EndDate:     "2026-03-09",
			Reason:      "long weekend",
		})

		assert.NoError(t, err)
		assert.Equal(t, 2, resp.DaysRequested)
		assert.Equal(t, leave.StatusPending, resp.Status)
		if assert.NotNil(t, created) {
			assert.Equal(t, 2, created.DaysRequested)
		}
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("negative range with no working days is rejected", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		employeeID := uuid.New().String()

		// 2026-03-07 and 2026-03-08 are Saturday and Sunday.
		_, err := deps.service.Create(ctx, employeeID, "employee", leave.CreateLeaveRequest{
			EmployeeID:  employeeID,
			LeaveTypeID: deps.plannedType.ID.String(),
			StartDate:   "2026-03-07",
			EndDate:     "2026-03-08",
		})

		assert.ErrorIs(t, err, leaveerrors.ErrNoWorkingDays)
	})

	t.Run("negative pending sibling consumes the balance", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		employeeID := uuid.New().String()
		deps.balances.getOrCreateFn = func(ctx context.Context, empID, ltID string, year, month int) (leavebalance.BalanceResponse, error) {
			return leavebalance.BalanceResponse{BalanceDays: 2}, nil
		}
		deps.repo.sumRequestedDaysFn = func(ctx context.Context, empID, ltID string, year, month int, statuses []string, excludeID *string) (int, error) {
			return 2, nil
		}

		expectTx(t, deps.sqlMock, false)

		// One working day requested against a fully consumed balance.
		_, err := deps.service.Create(ctx, employeeID, "employee", leave.CreateLeaveRequest{
			EmployeeID:  employeeID,
			LeaveTypeID: deps.plannedType.ID.String(),
			StartDate:   "2026-03-04",
			EndDate:     "2026-03-04",
		})

		assert.ErrorIs(t, err, leaveerrors.ErrInsufficientBalance)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("unplanned type skips the balance check", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		employeeID := uuid.New().String()
		deps.balances.getOrCreateFn = func(ctx context.Context, empID, ltID string, year, month int) (leavebalance.BalanceResponse, error) {
			t.Fatal("balance must not be consulted for unplanned types")
			return leavebalance.BalanceResponse{}, nil
		}

		expectTx(t, deps.sqlMock, true)

		resp, err := deps.service.Create(ctx, employeeID, "employee", leave.CreateLeaveRequest{
			EmployeeID:  employeeID,
			LeaveTypeID: deps.personalType.ID.String(),
			StartDate:   "2026-03-02",
			EndDate:     "2026-03-06",
		})

		assert.NoError(t, err)
		assert.Equal(t, 5, resp.DaysRequested)
	})

	t.Run("negative reversed range", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		employeeID := uuid.New().String()

		_, err := deps.service.Create(ctx, employeeID, "employee", leave.CreateLeaveRequest{
			EmployeeID:  employeeID,
			LeaveTypeID: deps.plannedType.ID.String(),
			StartDate:   "2026-03-09",
			EndDate:     "2026-03-06",
		})

		assert.ErrorIs(t, err, leaveerrors.ErrInvalidDateRange)
	})

	t.Run("negative inactive leave type", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		deps.personalType.IsActive = false
		deps.leaveTypes.findByIDFn = func(ctx context.Context, id string) (*leavetype.LeaveType, error) {
			lt := deps.personalType
			return &lt, nil
		}

		employeeID := uuid.New().String()
		_, err := deps.service.Create(ctx, employeeID, "employee", leave.CreateLeaveRequest{
			EmployeeID:  employeeID,
			LeaveTypeID: deps.personalType.ID.String(),
			StartDate:   "2026-03-02",
			EndDate:     "2026-03-03",
		})

		assert.ErrorIs(t, err, leaveerrors.ErrLeaveTypeInactive)
	})

	t.Run("holidays shrink the working day count", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		deps.holidays.findDatesInRangeFn = func(ctx context.Context, start, end time.Time) ([]time.Time, error) {
			return []time.Time{time.Date(2026, 3, 4, 0, 0, 0, 0, time.UTC)}, nil
		}

		expectTx(t, deps.sqlMock, true)

		employeeID := uuid.New().String()
		resp, err := deps.service.Create(ctx, employeeID, "employee", leave.CreateLeaveRequest{
			EmployeeID:  employeeID,
			LeaveTypeID: deps.personalType.ID.String(),
			StartDate:   "2026-03-02",
			EndDate:     "2026-03-06",
		})

		assert.NoError(t, err)
		assert.Equal(t, 4, resp.DaysRequested)
	})

	t.Run("negative cannot create for another employee", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		_, err := deps.service.Create(ctx, uuid.New().String(), "employee", leave.CreateLeaveRequest{
			EmployeeID:  uuid.New().String(),
			LeaveTypeID: deps.personalType.ID.String(),
			StartDate:   "2026-03-02",
			EndDate:     "2026-03-03",
		})

		assert.ErrorIs(t, err, leaveerrors.ErrNotRequestOwner)
	})
}

func pendingRequest(deps *serviceDeps, employeeID uuid.UUID) *leave.LeaveRequest {
	return &leave.LeaveRequest{
		ID:            uuid.New(),
		EmployeeID:    employeeID,
		LeaveTypeID:   deps.plannedType.ID,
		StartDate:     time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC),
		EndDate:       time.Date(2026, 3, 3, 0, 0, 0, 0, time.UTC),
		DaysRequested: 2,
		Status:        leave.StatusPending,
	}
}

func TestLeaveService_Update(t *testing.T) {
	ctx := context.Background()

	t.Run("success edited dates re-checked excluding self", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		employeeID := uuid.New()
		existing := pendingRequest(deps, employeeID)

		deps.repo.findByIDFn = func(ctx context.Context, id string) (*leave.LeaveRequest, error) {
			return existing, nil
		}
		deps.balances.getOrCreateFn = func(ctx context.Context, empID, ltID string, year, month int) (leavebalance.BalanceResponse, error) {
			return leavebalance.BalanceResponse{BalanceDays: 2}, nil
		}
		deps.repo.sumRequestedDaysFn = func(ctx context.Context, empID, ltID string, year, month int, statuses []string, excludeID *string) (int, error) {
			if assert.NotNil(t, excludeID) {
				assert.Equal(t, existing.ID.String(), *excludeID)
			}
			return 0, nil
		}

		expectTx(t, deps.sqlMock, true)

		resp, err := deps.service.Update(ctx, employeeID.String(), "employee", existing.ID.String(), leave.UpdateLeaveRequest{
			LeaveTypeID: deps.plannedType.ID.String(),
			StartDate:   "2026-03-06",
			EndDate:     "2026-03-09",
			Reason:      "moved",
		})

		assert.NoError(t, err)
		assert.Equal(t, 2, resp.DaysRequested)
		assert.Equal(t, "2026-03-06", resp.StartDate)
	})

	t.Run("negative approved request is immutable", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		employeeID := uuid.New()
		existing := pendingRequest(deps, employeeID)
		existing.Status = leave.StatusApproved

		deps.repo.findByIDFn = func(ctx context.Context, id string) (*leave.LeaveRequest, error) {
			return existing, nil
		}

		expectTx(t, deps.sqlMock, false)

		_, err := deps.service.Update(ctx, employeeID.String(), "employee", existing.ID.String(), leave.UpdateLeaveRequest{
			LeaveTypeID: deps.plannedType.ID.String(),
			StartDate:   "2026-03-06",
			EndDate:     "2026-03-09",
		})

		assert.ErrorIs(t, err, leaveerrors.ErrOnlyPendingMutable)
	})

	t.Run("negative edit that outgrows the balance", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		employeeID := uuid.New()
		existing := pendingRequest(deps, employeeID)

		deps.repo.findByIDFn = func(ctx context.Context, id string) (*leave.LeaveRequest, error) {
			return existing, nil
		}
		deps.balances.getOrCreateFn = func(ctx context.Context, empID, ltID string, year, month int) (leavebalance.BalanceResponse, error) {
			return leavebalance.BalanceResponse{BalanceDays: 2}, nil
		}
		deps.repo.sumRequestedDaysFn = func(ctx context.Context, empID, ltID string, year, month int, statuses []string, excludeID *string) (int, error) {
			return 0, nil
		}

		expectTx(t, deps.sqlMock, false)

		// Mon through Fri is five working days against a balance of two.
		_, err := deps.service.Update(ctx, employeeID.String(), "employee", existing.ID.String(), leave.UpdateLeaveRequest{
			LeaveTypeID: deps.plannedType.ID.String(),
			StartDate:   "2026-03-02",
			EndDate:     "2026-03-06",
		})

		assert.ErrorIs(t, err, leaveerrors.ErrInsufficientBalance)
	})

	t.Run("negative another employee's request reads as not found", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		existing := pendingRequest(deps, uuid.New())

		deps.repo.findByIDFn = func(ctx context.Context, id string) (*leave.LeaveRequest, error) {
			return existing, nil
		}
		deps.repo.updateFn = func(ctx context.Context, l *leave.LeaveRequest) error {
			t.Fatal("request must not be mutated")
			return nil
		}

		expectTx(t, deps.sqlMock, false)

		_, err := deps.service.Update(ctx, uuid.New().String(), "employee", existing.ID.String(), leave.UpdateLeaveRequest{
			LeaveTypeID: deps.plannedType.ID.String(),
			StartDate:   "2026-03-02",
			EndDate:     "2026-03-03",
		})

		assert.ErrorIs(t, err, leaveerrors.ErrLeaveNotFound)
	})
}

func TestLeaveService_Cancel(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		employeeID := uuid.New()
		existing := pendingRequest(deps, employeeID)

		deps.repo.findByIDFn = func(ctx context.Context, id string) (*leave.LeaveRequest, error) {
			return existing, nil
		}

		var updated *leave.LeaveRequest
		deps.repo.updateFn = func(ctx context.Context, l *leave.LeaveRequest) error {
			updated = l
			return nil
		}

		expectTx(t, deps.sqlMock, true)

		resp, err := deps.service.Cancel(ctx, employeeID.String(), "employee", existing.ID.String())

		assert.NoError(t, err)
		assert.Equal(t, leave.StatusCancelled, resp.Status)
		if assert.NotNil(t, updated) {
			assert.Equal(t, leave.StatusCancelled, updated.Status)
		}
	})

	t.Run("negative rejected request cannot be cancelled", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		employeeID := uuid.New()
		existing := pendingRequest(deps, employeeID)
		existing.Status = leave.StatusRejected

		deps.repo.findByIDFn = func(ctx context.Context, id string) (*leave.LeaveRequest, error) {
			return existing, nil
		}

		expectTx(t, deps.sqlMock, false)

		_, err := deps.service.Cancel(ctx, employeeID.String(), "employee", existing.ID.String())

		assert.ErrorIs(t, err, leaveerrors.ErrOnlyPendingMutable)
	})

	t.Run("negative another employee's request reads as not found", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		existing := pendingRequest(deps, uuid.New())

		deps.repo.findByIDFn = func(ctx context.Context, id string) (*leave.LeaveRequest, error) {
			return existing, nil
		}
		deps.repo.updateFn = func(ctx context.Context, l *leave.LeaveRequest) error {
			t.Fatal("request must not be mutated")
			return nil
		}

		expectTx(t, deps.sqlMock, false)

		_, err := deps.service.Cancel(ctx, uuid.New().String(), "employee", existing.ID.String())

		assert.ErrorIs(t, err, leaveerrors.ErrLeaveNotFound)
	})

	t.Run("success admin cancels on behalf of the employee", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		existing := pendingRequest(deps, uuid.New())

		deps.repo.findByIDFn = func(ctx context.Context, id string) (*leave.LeaveRequest, error) {
			return existing, nil
		}
		deps.repo.updateFn = func(ctx context.Context, l *leave.LeaveRequest) error {
			return nil
		}

		expectTx(t, deps.sqlMock, true)

		resp, err := deps.service.Cancel(ctx, uuid.New().String(), leave.RoleAdmin, existing.ID.String())

		assert.NoError(t, err)
		assert.Equal(t, leave.StatusCancelled, resp.Status)
	})
}

func TestLeaveService_Process(t *testing.T) {
	ctx := context.Background()

	t.Run("success manager approves", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		employeeID := uuid.New()
		managerID := uuid.New()
		existing := pendingRequest(deps, employeeID)

		deps.repo.findByIDFn = func(ctx context.Context, id string) (*leave.LeaveRequest, error) {
			return existing, nil
		}
		deps.employees.isManagerOfFn = func(ctx context.Context, mID, eID string) (bool, error) {
			assert.Equal(t, managerID.String(), mID)
			assert.Equal(t, employeeID.String(), eID)
			return true, nil
		}
		deps.balances.getOrCreateFn = func(ctx context.Context, empID, ltID string, year, month int) (leavebalance.BalanceResponse, error) {
			return leavebalance.BalanceResponse{BalanceDays: 2}, nil
		}
		deps.repo.sumRequestedDaysFn = func(ctx context.Context, empID, ltID string, year, month int, statuses []string, excludeID *string) (int, error) {
			// Approval only counts siblings that were themselves approved.
			assert.Equal(t, []string{"APPROVED"}, statuses)
			return 0, nil
		}

		expectTx(t, deps.sqlMock, true)

		comments := "enjoy"
		resp, err := deps.service.Process(ctx, managerID.String(), "manager", existing.ID.String(), leave.ProcessLeaveRequest{
			Action:   leave.ActionApprove,
			Comments: &comments,
		})

		assert.NoError(t, err)
		assert.Equal(t, leave.StatusApproved, resp.Status)
		if assert.NotNil(t, resp.ApproverID) {
			assert.Equal(t, managerID.String(), *resp.ApproverID)
		}
		assert.NotNil(t, resp.ApprovedAt)
	})

	t.Run("success admin rejects without manager link", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		employeeID := uuid.New()
		adminID := uuid.New()
		existing := pendingRequest(deps, employeeID)

		deps.repo.findByIDFn = func(ctx context.Context, id string) (*leave.LeaveRequest, error) {
			return existing, nil
		}
		deps.employees.isManagerOfFn = func(ctx context.Context, mID, eID string) (bool, error) {
			t.Fatal("admin must bypass the manager check")
			return false, nil
		}

		expectTx(t, deps.sqlMock, true)

		resp, err := deps.service.Process(ctx, adminID.String(), leave.RoleAdmin, existing.ID.String(), leave.ProcessLeaveRequest{
			Action: leave.ActionReject,
		})

		assert.NoError(t, err)
		assert.Equal(t, leave.StatusRejected, resp.Status)
		assert.Nil(t, resp.ApprovedAt)
	})

	t.Run("negative unrelated employee cannot process", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		employeeID := uuid.New()
		strangerID := uuid.New()
		existing := pendingRequest(deps, employeeID)

		deps.repo.findByIDFn = func(ctx context.Context, id string) (*leave.LeaveRequest, error) {
			return existing, nil
		}
		deps.employees.isManagerOfFn = func(ctx context.Context, mID, eID string) (bool, error) {
			return false, nil
		}

		expectTx(t, deps.sqlMock, false)

		_, err := deps.service.Process(ctx, strangerID.String(), "employee", existing.ID.String(), leave.ProcessLeaveRequest{
			Action: leave.ActionApprove,
		})

		assert.ErrorIs(t, err, leaveerrors.ErrNotAuthorizedApprover)
	})

	t.Run("negative approval blocked when approved siblings ate the balance", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		employeeID := uuid.New()
		managerID := uuid.New()
		existing := pendingRequest(deps, employeeID)

		deps.repo.findByIDFn = func(ctx context.Context, id string) (*leave.LeaveRequest, error) {
			return existing, nil
		}
		deps.employees.isManagerOfFn = func(ctx context.Context, mID, eID string) (bool, error) {
			return true, nil
		}
		deps.balances.getOrCreateFn = func(ctx context.Context, empID, ltID string, year, month int) (leavebalance.BalanceResponse, error) {
			return leavebalance.BalanceResponse{BalanceDays: 2}, nil
		}
		deps.repo.sumRequestedDaysFn = func(ctx context.Context, empID, ltID string, year, month int, statuses []string, excludeID *string) (int, error) {
			return 2, nil
		}

		expectTx(t, deps.sqlMock, false)

		_, err := deps.service.Process(ctx, managerID.String(), "manager", existing.ID.String(), leave.ProcessLeaveRequest{
			Action: leave.ActionApprove,
		})

		assert.ErrorIs(t, err, leaveerrors.ErrInsufficientBalance)
	})

	t.Run("negative already processed", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		employeeID := uuid.New()
		existing := pendingRequest(deps, employeeID)
		existing.Status = leave.StatusApproved

		deps.repo.findByIDFn = func(ctx context.Context, id string) (*leave.LeaveRequest, error) {
			return existing, nil
		}

		expectTx(t, deps.sqlMock, false)

		_, err := deps.service.Process(ctx, uuid.New().String(), leave.RoleAdmin, existing.ID.String(), leave.ProcessLeaveRequest{
			Action: leave.ActionApprove,
		})

		assert.ErrorIs(t, err, leaveerrors.ErrOnlyPendingProcessable)
	})
}

func TestLeaveService_Remaining(t *testing.T) {
	ctx := context.Background()

	t.Run("planned type reports remainder", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		employeeID := uuid.New().String()
		deps.balances.getOrCreateFn = func(ctx context.Context, empID, ltID string, year, month int) (leavebalance.BalanceResponse, error) {
			return leavebalance.BalanceResponse{BalanceDays: 2}, nil
		}
		deps.repo.sumRequestedDaysFn = func(ctx context.Context, empID, ltID string, year, month int, statuses []string, excludeID *string) (int, error) {
			return 1, nil
		}

		resp, err := deps.service.Remaining(ctx, employeeID, deps.plannedType.ID.String(), 2026, 3)

		assert.NoError(t, err)
		assert.False(t, resp.Unlimited)
		assert.Equal(t, 1, resp.Remaining)
	})

	t.Run("unplanned type is unlimited", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		resp, err := deps.service.Remaining(ctx, uuid.New().String(), deps.personalType.ID.String(), 2026, 3)

		assert.NoError(t, err)
		assert.True(t, resp.Unlimited)
		assert.Equal(t, 0, resp.Remaining)
	})
}

func TestLeaveService_GetAll(t *testing.T) {
	ctx := context.Background()

	t.Run("success pages through results", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		var gotLimit, gotOffset int
		deps.repo.findAllFn = func(ctx context.Context, limit, offset int) ([]leave.LeaveRequest, int64, error) {
			gotLimit, gotOffset = limit, offset
			return []leave.LeaveRequest{
				{ID: uuid.New(), Status: leave.StatusPending},
			}, 41, nil
		}

		resp, total, err := deps.service.GetAll(ctx, 3, 10)

		assert.NoError(t, err)
		assert.Len(t, resp, 1)
		assert.Equal(t, int64(41), total)
		assert.Equal(t, 10, gotLimit)
		assert.Equal(t, 20, gotOffset)
	})

	t.Run("success clamps page and limit", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		var gotLimit, gotOffset int
		deps.repo.findAllFn = func(ctx context.Context, limit, offset int) ([]leave.LeaveRequest, int64, error) {
			gotLimit, gotOffset = limit, offset
			return nil, 0, nil
		}

		_, _, err := deps.service.GetAll(ctx, 0, 500)

		assert.NoError(t, err)
		assert.Equal(t, 20, gotLimit)
		assert.Equal(t, 0, gotOffset)
	})
}

func TestLeaveService_GetByID(t *testing.T) {
	ctx := context.Background()

	ownerID := uuid.New()
	request := leave.LeaveRequest{
		ID:         uuid.New(),
		EmployeeID: ownerID,
		Status:     leave.StatusPending,
	}

	setup := func(t *testing.T) *serviceDeps {
		deps := setupServiceTest(t)
		deps.repo.findByIDFn = func(ctx context.Context, id string) (*leave.LeaveRequest, error) {
			l := request
			return &l, nil
		}
		return deps
	}

	t.Run("success owner reads own request", func(t *testing.T) {
		deps := setup(t)
		defer deps.db.Close()

		resp, err := deps.service.GetByID(ctx, ownerID.String(), "employee", request.ID.String())

		assert.NoError(t, err)
		assert.Equal(t, request.ID.String(), resp.ID)
	})

	t.Run("success manager reads report's request", func(t *testing.T) {
		deps := setup(t)
		defer deps.db.Close()

		managerID := uuid.New().String()
		deps.employees.isManagerOfFn = func(ctx context.Context, mID, eID string) (bool, error) {
			return mID == managerID && eID == ownerID.String(), nil
		}

		resp, err := deps.service.GetByID(ctx, managerID, "manager", request.ID.String())

		assert.NoError(t, err)
		assert.Equal(t, request.ID.String(), resp.ID)
	})

	t.Run("success admin reads any request", func(t *testing.T) {
		deps := setup(t)
		defer deps.db.Close()

		resp, err := deps.service.GetByID(ctx, uuid.New().String(), leave.RoleAdmin, request.ID.String())

		assert.NoError(t, err)
		assert.Equal(t, request.ID.String(), resp.ID)
	})

	t.Run("negative unrelated employee reads not found", func(t *testing.T) {
		deps := setup(t)
		defer deps.db.Close()

		deps.employees.isManagerOfFn = func(ctx context.Context, mID, eID string) (bool, error) {
			return false, nil
		}

		_, err := deps.service.GetByID(ctx, uuid.New().String(), "employee", request.ID.String())

		assert.ErrorIs(t, err, leaveerrors.ErrLeaveNotFound)
	})

	t.Run("negative missing request", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		deps.repo.findByIDFn = func(ctx context.Context, id string) (*leave.LeaveRequest, error) {
			return nil, gorm.ErrRecordNotFound
		}

		_, err := deps.service.GetByID(ctx, ownerID.String(), "employee", uuid.New().String())

		assert.ErrorIs(t, err, leaveerrors.ErrLeaveNotFound)
	})
}
