package payroll_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"go-payroll/internal/employee"
	"go-payroll/internal/employeecomponent"
	"go-payroll/internal/messaging/kafka"
	"go-payroll/internal/payroll"
	payrollerrors "go-payroll/internal/payroll/errors"
	"go-payroll/internal/salarycomponent"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

type fakePayrollRepository struct {
	findCycleFn        func(ctx context.Context, year, month int) (*payroll.PayrollCycle, error)
	createCycleFn      func(ctx context.Context, c *payroll.PayrollCycle) error
	markSubmittedFn    func(ctx context.Context, cycleID, submittedBy uuid.UUID, at time.Time) (bool, error)
	markReopenedFn     func(ctx context.Context, cycleID uuid.UUID) (bool, error)
	upsertEntryFn      func(ctx context.Context, e *payroll.PayrollEntry) error
	findEntryIDFn      func(ctx context.Context, cycleID, employeeID uuid.UUID) (uuid.UUID, error)
	replaceLineItemsFn func(ctx context.Context, entryID uuid.UUID, items []payroll.PayrollLineItem) error
	findEntriesFn      func(ctx context.Context, cycleID uuid.UUID) ([]payroll.PayrollEntry, error)
	findLineItemsFn    func(ctx context.Context, entryID uuid.UUID) ([]payroll.PayrollLineItem, error)
}

func (f *fakePayrollRepository) WithTx(tx *sql.Tx) payroll.Repository { return f }

func (f *fakePayrollRepository) FindCycle(ctx context.Context, year, month int) (*payroll.PayrollCycle, error) {
	if f.findCycleFn != nil {
		return f.findCycleFn(ctx, year, month)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakePayrollRepository) CreateCycle(ctx context.Context, c *payroll.PayrollCycle) error {
	if f.createCycleFn != nil {
		return f.createCycleFn(ctx, c)
	}
	return nil
}

func (f *fakePayrollRepository) MarkSubmitted(ctx context.Context, cycleID uuid.UUID, submittedBy uuid.UUID, at time.Time) (bool, error) {
	if f.markSubmittedFn != nil {
		return f.markSubmittedFn(ctx, cycleID, submittedBy, at)
	}
	return true, nil
}

func (f *fakePayrollRepository) MarkReopened(ctx context.Context, cycleID uuid.UUID) (bool, error) {
	if f.markReopenedFn != nil {
		return f.markReopenedFn(ctx, cycleID)
	}
	return true, nil
}

func (f *fakePayrollRepository) UpsertEntry(ctx context.Context, e *payroll.PayrollEntry) error {
	if f.upsertEntryFn != nil {
		return f.upsertEntryFn(ctx, e)
	}
	return nil
}

func (f *fakePayrollRepository) FindEntryID(ctx context.Context, cycleID, employeeID uuid.UUID) (uuid.UUID, error) {
	if f.findEntryIDFn != nil {
		return f.findEntryIDFn(ctx, cycleID, employeeID)
	}
	return uuid.New(), nil
}

func (f *fakePayrollRepository) FindEntry(ctx context.Context, cycleID, employeeID uuid.UUID) (*payroll.PayrollEntry, error) {
	return nil, gorm.ErrRecordNotFound
}

func (f *fakePayrollRepository) ReplaceLineItems(ctx context.Context, entryID uuid.UUID, items []payroll.PayrollLineItem) error {
	if f.replaceLineItemsFn != nil {
		return f.replaceLineItemsFn(ctx, entryID, items)
	}
	return nil
}

func (f *fakePayrollRepository) FindEntries(ctx context.Context, cycleID uuid.UUID) ([]payroll.PayrollEntry, error) {
	if f.findEntriesFn != nil {
		return f.findEntriesFn(ctx, cycleID)
	}
	return nil, nil
}

func (f *fakePayrollRepository) FindLineItems(ctx context.Context, entryID uuid.UUID) ([]payroll.PayrollLineItem, error) {
	if f.findLineItemsFn != nil {
		return f.findLineItemsFn(ctx, entryID)
	}
	return nil, nil
}

func (f *fakePayrollRepository) MarkPayslipIssued(ctx context.Context, entryID uuid.UUID, at time.Time) error {
	return nil
}

type fakeEmployeeRepository struct {
	findAllActiveFn func(ctx context.Context) ([]employee.Employee, error)
}

func (f *fakeEmployeeRepository) FindAllActive(ctx context.Context) ([]employee.Employee, error) {
	if f.findAllActiveFn != nil {
		return f.findAllActiveFn(ctx)
	}
	return nil, nil
}

func (f *fakeEmployeeRepository) FindByID(ctx context.Context, id string) (*employee.Employee, error) {
	return nil, nil
}

func (f *fakeEmployeeRepository) IsManagerOf(ctx context.Context, managerID, employeeID string) (bool, error) {
	return false, nil
}

type fakeComponentRepository struct {
	findAllActiveFn func(ctx context.Context) ([]salarycomponent.SalaryComponent, error)
}

func (f *fakeComponentRepository) WithTx(tx *sql.Tx) salarycomponent.Repository { return f }

func (f *fakeComponentRepository) Create(ctx context.Context, sc *salarycomponent.SalaryComponent) error {
	return nil
}

func (f *fakeComponentRepository) FindAll(ctx context.Context) ([]salarycomponent.SalaryComponent, error) {
	return nil, nil
}

func (f *fakeComponentRepository) FindAllActive(ctx context.Context) ([]salarycomponent.SalaryComponent, error) {
	if f.findAllActiveFn != nil {
		return f.findAllActiveFn(ctx)
	}
	return nil, nil
}

func (f *fakeComponentRepository) FindByID(ctx context.Context, id string) (*salarycomponent.SalaryComponent, error) {
	return nil, nil
}

func (f *fakeComponentRepository) ExistsByNameAndType(ctx context.Context, name, componentType string, excludeID *string) (bool, error) {
	return false, nil
}

func (f *fakeComponentRepository) Update(ctx context.Context, sc *salarycomponent.SalaryComponent) error {
	return nil
}

type fakeValuesRepository struct {
	findAllFn func(ctx context.Context) ([]employeecomponent.EmployeeComponentValue, error)
}

func (f *fakeValuesRepository) WithTx(tx *sql.Tx) employeecomponent.Repository { return f }

func (f *fakeValuesRepository) Upsert(ctx context.Context, v *employeecomponent.EmployeeComponentValue) error {
	return nil
}

func (f *fakeValuesRepository) FindByID(ctx context.Context, id string) (*employeecomponent.EmployeeComponentValue, error) {
	return nil, nil
}

func (f *fakeValuesRepository) FindAll(ctx context.Context) ([]employeecomponent.EmployeeComponentValue, error) {
	if f.findAllFn != nil {
		return f.findAllFn(ctx)
	}
	return nil, nil
}

func (f *fakeValuesRepository) FindAllByEmployee(ctx context.Context, employeeID string) ([]employeecomponent.EmployeeComponentValue, error) {
	return nil, nil
}

func (f *fakeValuesRepository) Update(ctx context.Context, v *employeecomponent.EmployeeComponentValue) error {
	return nil
}

func (f *fakeValuesRepository) Delete(ctx context.Context, id string) error { return nil }

type fakeLeaveDaysSource struct {
	sums map[string]int
}

func (f *fakeLeaveDaysSource) SumApprovedDaysForMonth(ctx context.Context, year, month int) (map[string]int, error) {
	return f.sums, nil
}

type fakeCounterRepository struct {
	next int64
}

func (f *fakeCounterRepository) GetNextValue(ctx context.Context, counterType string) (int64, error) {
	f.next++
	return f.next, nil
}

type fakeOutboxRepository struct {
	created []kafka.OutboxEvent
}

func (f *fakeOutboxRepository) WithTx(tx *sql.Tx) kafka.OutboxRepository { return f }

func (f *fakeOutboxRepository) Create(ctx context.Context, event kafka.OutboxEvent) error {
	f.created = append(f.created, event)
	return nil
}

func (f *fakeOutboxRepository) ListPending(ctx context.Context, limit int) ([]kafka.OutboxEvent, error) {
	return nil, nil
}

func (f *fakeOutboxRepository) MarkSent(ctx context.Context, id string) error { return nil }

func (f *fakeOutboxRepository) MarkFailed(ctx context.Context, id string, reason string) error {
	return nil
}

type serviceDeps struct {
	db         *sql.DB
	sqlMock    sqlmock.Sqlmock
	service    payroll.Service
	repo       *fakePayrollRepository
	employees  *fakeEmployeeRepository
	components *fakeComponentRepository
	values     *fakeValuesRepository
	leaveDays  *fakeLeaveDaysSource
	outbox     *fakeOutboxRepository

	employeeID uuid.UUID
	earningID  uuid.UUID
	bonusID    uuid.UUID
}

// setupServiceTest wires one active employee carrying a fixed 30000 EARNING
// and a fixed 3000 DEDUCTION, plus an unassigned variable bonus component.
func setupServiceTest(t *testing.T) *serviceDeps {
	t.Helper()

	db, sqlMock, err := sqlmock.New()
	assert.NoError(t, err)

	deps := &serviceDeps{
		db:         db,
		sqlMock:    sqlMock,
		repo:       &fakePayrollRepository{},
		employees:  &fakeEmployeeRepository{},
		components: &fakeComponentRepository{},
		values:     &fakeValuesRepository{},
		leaveDays:  &fakeLeaveDaysSource{},
		outbox:     &fakeOutboxRepository{},
		employeeID: uuid.New(),
		earningID:  uuid.New(),
		bonusID:    uuid.New(),
	}
	deductionID := uuid.New()

	deps.employees.findAllActiveFn = func(ctx context.Context) ([]employee.Employee, error) {
		return []employee.Employee{{ID: deps.employeeID, FullName: "Dina Rahma", IsActive: true}}, nil
	}
	deps.components.findAllActiveFn = func(ctx context.Context) ([]salarycomponent.SalaryComponent, error) {
		return []salarycomponent.SalaryComponent{
			{ID: deps.earningID, Name: "Base Salary", ComponentType: salarycomponent.TypeEarning, IsActive: true, SortOrder: 1},
			{ID: deductionID, Name: "Pension", ComponentType: salarycomponent.TypeDeduction, IsActive: true, SortOrder: 2},
			{ID: deps.bonusID, Name: "Bonus", ComponentType: salarycomponent.TypeEarning, IsVariable: true, IsActive: true, SortOrder: 3},
		}, nil
	}
	deps.values.findAllFn = func(ctx context.Context) ([]employeecomponent.EmployeeComponentValue, error) {
		return []employeecomponent.EmployeeComponentValue{
			{ID: uuid.New(), EmployeeID: deps.employeeID, ComponentID: deps.earningID, Amount: amount("30000")},
			{ID: uuid.New(), EmployeeID: deps.employeeID, ComponentID: deductionID, Amount: amount("3000")},
		}, nil
	}

	deps.service = payroll.NewService(
		db,
		deps.repo,
		deps.employees,
		deps.components,
		deps.values,
		deps.leaveDays,
		&fakeCounterRepository{},
		deps.outbox,
	)
	return deps
}

func TestPayrollService_Preview(t *testing.T) {
	ctx := context.Background()

	t.Run("success prorates against approved leave days", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		deps.leaveDays.sums = map[string]int{deps.employeeID.String(): 3}

		resp, err := deps.service.Preview(ctx, payroll.PreviewPayrollRequest{Year: 2026, Month: 3})

		assert.NoError(t, err)
		if assert.Len(t, resp.Rows, 1) {
			row := resp.Rows[0]
			assert.Equal(t, 3, row.Leaves)
			assert.Equal(t, 27, row.WorkingDays)
			assert.Equal(t, "30000.00", row.GrossEarnings)
			assert.Equal(t, "3000.00", row.TotalDeductions)
			assert.Equal(t, "27000.00", row.NetMonthlySalary)
			assert.Equal(t, "24300.00", row.FinalPayable)
			assert.Len(t, row.LineItems, 2)
		}
	})

	t.Run("caller leave override wins over derived count", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		deps.leaveDays.sums = map[string]int{deps.employeeID.String(): 3}

		resp, err := deps.service.Preview(ctx, payroll.PreviewPayrollRequest{
			Year:   2026,
			Month:  3,
			Leaves: map[string]int{deps.employeeID.String(): 0},
		})

		assert.NoError(t, err)
		if assert.Len(t, resp.Rows, 1) {
			assert.Equal(t, 0, resp.Rows[0].Leaves)
			assert.Equal(t, "27000.00", resp.Rows[0].FinalPayable)
		}
	})

	t.Run("variable adjustment negative amount clamps to zero", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		resp, err := deps.service.Preview(ctx, payroll.PreviewPayrollRequest{
			Year:  2026,
			Month: 3,
			VariableAdjustments: map[string][]payroll.VariableAdjustment{
				deps.employeeID.String(): {
					{ComponentID: deps.bonusID.String(), Amount: "-5000"},
				},
			},
		})

		assert.NoError(t, err)
		if assert.Len(t, resp.Rows, 1) {
			assert.Equal(t, "0.00", resp.Rows[0].VariableEarnings)
			assert.Len(t, resp.Rows[0].LineItems, 3)
		}
	})

	t.Run("negative locked cycle fails fast", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		deps.repo.findCycleFn = func(ctx context.Context, year, month int) (*payroll.PayrollCycle, error) {
			return &payroll.PayrollCycle{ID: uuid.New(), Year: year, Month: month, Status: payroll.StatusSubmitted}, nil
		}
		deps.employees.findAllActiveFn = func(ctx context.Context) ([]employee.Employee, error) {
			t.Fatal("locked cycle must fail before loading employees")
			return nil, nil
		}

		_, err := deps.service.Preview(ctx, payroll.PreviewPayrollRequest{Year: 2026, Month: 3})

		assert.ErrorIs(t, err, payrollerrors.ErrCycleLocked)
	})

	t.Run("negative invalid month", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		_, err := deps.service.Preview(ctx, payroll.PreviewPayrollRequest{Year: 2026, Month: 13})

		assert.ErrorIs(t, err, payrollerrors.ErrInvalidPeriod)
	})
}

func TestPayrollService_Submit(t *testing.T) {
	ctx := context.Background()
	actorID := uuid.New().String()

	t.Run("success creates cycle entries line items and payslip events", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		deps.leaveDays.sums = map[string]int{deps.employeeID.String(): 3}

		var createdCycle *payroll.PayrollCycle
		deps.repo.createCycleFn = func(ctx context.Context, c *payroll.PayrollCycle) error {
			createdCycle = c
			return nil
		}

		entryID := uuid.New()
		var upserted *payroll.PayrollEntry
		deps.repo.upsertEntryFn = func(ctx context.Context, e *payroll.PayrollEntry) error {
			upserted = e
			return nil
		}
		deps.repo.findEntryIDFn = func(ctx context.Context, cycleID, employeeID uuid.UUID) (uuid.UUID, error) {
			return entryID, nil
		}

		var replacedItems []payroll.PayrollLineItem
		deps.repo.replaceLineItemsFn = func(ctx context.Context, id uuid.UUID, items []payroll.PayrollLineItem) error {
			assert.Equal(t, entryID, id)
			replacedItems = items
			return nil
		}

		deps.sqlMock.ExpectBegin()
		deps.sqlMock.ExpectCommit()

		resp, err := deps.service.Submit(ctx, actorID, payroll.SubmitPayrollRequest{Year: 2026, Month: 3})

		assert.NoError(t, err)
		assert.Equal(t, payroll.StatusSubmitted, resp.Status)
		assert.NotNil(t, createdCycle)
		if assert.NotNil(t, upserted) {
			assert.Equal(t, "24300.00", upserted.FinalPayable.StringFixed(2))
			assert.Contains(t, upserted.PayslipNumber, "PAY-202603-")
		}
		assert.Len(t, replacedItems, 2)
		if assert.Len(t, deps.outbox.created, 1) {
			assert.Equal(t, "payroll.payslip.requested", deps.outbox.created[0].EventType)
			assert.Equal(t, entryID.String(), deps.outbox.created[0].AggregateID)
		}
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("negative submitted cycle stays locked and untouched", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		deps.repo.findCycleFn = func(ctx context.Context, year, month int) (*payroll.PayrollCycle, error) {
			return &payroll.PayrollCycle{ID: uuid.New(), Year: year, Month: month, Status: payroll.StatusSubmitted}, nil
		}
		deps.repo.upsertEntryFn = func(ctx context.Context, e *payroll.PayrollEntry) error {
			t.Fatal("locked cycle must not write entries")
			return nil
		}

		deps.sqlMock.ExpectBegin()
		deps.sqlMock.ExpectRollback()

		_, err := deps.service.Submit(ctx, actorID, payroll.SubmitPayrollRequest{Year: 2026, Month: 3})

		assert.ErrorIs(t, err, payrollerrors.ErrCycleLocked)
		assert.Empty(t, deps.outbox.created)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("negative losing the conditional flip rolls back", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		deps.repo.markSubmittedFn = func(ctx context.Context, cycleID, submittedBy uuid.UUID, at time.Time) (bool, error) {
			return false, nil
		}

		deps.sqlMock.ExpectBegin()
		deps.sqlMock.ExpectRollback()

		_, err := deps.service.Submit(ctx, actorID, payroll.SubmitPayrollRequest{Year: 2026, Month: 3})

		assert.ErrorIs(t, err, payrollerrors.ErrCycleLocked)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("negative invalid actor id", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		_, err := deps.service.Submit(ctx, "not-a-uuid", payroll.SubmitPayrollRequest{Year: 2026, Month: 3})

		assert.ErrorIs(t, err, payrollerrors.ErrInvalidActorID)
	})
}

func TestPayrollService_Reopen(t *testing.T) {
	ctx := context.Background()
	actorID := uuid.New().String()

	t.Run("success", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		cycleID := uuid.New()
		submittedBy := uuid.New()
		at := time.Now()
		deps.repo.findCycleFn = func(ctx context.Context, year, month int) (*payroll.PayrollCycle, error) {
			return &payroll.PayrollCycle{
				ID: cycleID, Year: year, Month: month,
				Status:      payroll.StatusSubmitted,
				SubmittedBy: &submittedBy,
				SubmittedAt: &at,
			}, nil
		}

		deps.sqlMock.ExpectBegin()
		deps.sqlMock.ExpectCommit()

		resp, err := deps.service.Reopen(ctx, actorID, 2026, 3)

		assert.NoError(t, err)
		assert.Equal(t, payroll.StatusDraft, resp.Status)
		assert.Nil(t, resp.SubmittedBy)
		assert.Nil(t, resp.SubmittedAt)
	})

	t.Run("negative draft cycle cannot be reopened", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		deps.repo.findCycleFn = func(ctx context.Context, year, month int) (*payroll.PayrollCycle, error) {
			return &payroll.PayrollCycle{ID: uuid.New(), Year: year, Month: month, Status: payroll.StatusDraft}, nil
		}

		deps.sqlMock.ExpectBegin()
		deps.sqlMock.ExpectRollback()

		_, err := deps.service.Reopen(ctx, actorID, 2026, 3)

		assert.ErrorIs(t, err, payrollerrors.ErrCycleNotSubmitted)
	})

	t.Run("negative missing cycle", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		deps.sqlMock.ExpectBegin()
		deps.sqlMock.ExpectRollback()

		_, err := deps.service.Reopen(ctx, actorID, 2026, 3)

		assert.ErrorIs(t, err, payrollerrors.ErrCycleNotFound)
	})
}
