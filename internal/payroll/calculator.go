package payroll

import (
	"github.com/shopspring/decimal"

	"go-payroll/internal/salarycomponent"
)

// ReferenceMonthDays is the assumed length of every payroll month. Proration
// always divides by 30 regardless of the actual calendar.
const ReferenceMonthDays = 30

// ComponentAmount is one payslip line fed into Calculate: the catalog
// snapshot plus the amount it contributes this cycle.
type ComponentAmount struct {
	ComponentID          string
	Name                 string
	ComponentType        string
	Amount               decimal.Decimal
	IsVariableAdjustment bool
	SortOrder            int
}

// CalcResult is the flat numeric record for one employee's month. All
// monetary fields are full-precision; round to 2 decimals only when
// persisting or rendering.
type CalcResult struct {
	FixedEarnings      decimal.Decimal
	VariableEarnings   decimal.Decimal
	FixedDeductions    decimal.Decimal
	VariableDeductions decimal.Decimal
	GrossEarnings      decimal.Decimal
	TotalDeductions    decimal.Decimal
	NetMonthlySalary   decimal.Decimal
	Leaves             int
	WorkingDays        int
	FinalPayable       decimal.Decimal
}

// Calculate prorates one employee's full-month salary against a 30-day
// reference month. It is a total function: negative amounts flow through,
// order of components never changes the result, and leaves beyond 30 floor
// the payable at zero.
func Calculate(components []ComponentAmount, leaves int) CalcResult {
	res := CalcResult{
		FixedEarnings:      decimal.Zero,
		VariableEarnings:   decimal.Zero,
		FixedDeductions:    decimal.Zero,
		VariableDeductions: decimal.Zero,
		Leaves:             leaves,
	}

	for _, c := range components {
		switch {
		case c.ComponentType == salarycomponent.TypeEarning && !c.IsVariableAdjustment:
			res.FixedEarnings = res.FixedEarnings.Add(c.Amount)
		case c.ComponentType == salarycomponent.TypeEarning:
			res.VariableEarnings = res.VariableEarnings.Add(c.Amount)
		case c.ComponentType == salarycomponent.TypeDeduction && !c.IsVariableAdjustment:
			res.FixedDeductions = res.FixedDeductions.Add(c.Amount)
		case c.ComponentType == salarycomponent.TypeDeduction:
			res.VariableDeductions = res.VariableDeductions.Add(c.Amount)
		}
	}

	res.GrossEarnings = res.FixedEarnings.Add(res.VariableEarnings)
	res.TotalDeductions = res.FixedDeductions.Add(res.VariableDeductions)
	res.NetMonthlySalary = res.GrossEarnings.Sub(res.TotalDeductions)

	workingDays := ReferenceMonthDays - leaves
	if workingDays < 0 {
		workingDays = 0
	}
	res.WorkingDays = workingDays

	res.FinalPayable = res.NetMonthlySalary.
		Div(decimal.NewFromInt(ReferenceMonthDays)).
		Mul(decimal.NewFromInt(int64(workingDays)))

	return res
}
