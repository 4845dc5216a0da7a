// Package schedule computes installment schedules and reconciles
// installment statuses. It is pure: nothing here touches storage, the
// caller persists whatever comes back.
package schedule

import (
	"sort"
	"time"

	"github.com/kiritara/resort-admin/internal/domain"
	"github.com/kiritara/resort-admin/pkg/common"
)

// Generate builds the installment schedule for a newly created investor.
//
// The remaining amount (totalInvestment - downpaymentPaid) is split into
// ceil(remaining/perInstallment) installments of the plan's configured
// per-cadence amount; the final installment is the residual so the sum
// equals the remaining amount exactly. A remaining amount of zero or
// less yields an empty schedule and no error, which is distinct from
// the configuration errors below.
//
// Due dates anchor on the join date's day-of-month: each step advances
// the cadence in calendar months and clamps the day to the target
// month's length. Jan 31 monthly therefore runs Feb 28 (or 29), Mar 31,
// Apr 30 and so on, strictly ascending with no drift.
func Generate(investor domain.Investor, plan *domain.MembershipPlan) ([]domain.Installment, error) {
	if plan == nil {
		return nil, common.ErrPlanNotFound
	}

	remaining := investor.TotalInvestment - investor.DownpaymentPaid
	if remaining <= 0 {
		// Fully paid at signup (or over-paid, which the caller may warn
		// about); nothing to schedule.
		return []domain.Installment{}, nil
	}

	perInstallment := plan.MonthlyInstallment
	if investor.InstallmentType == domain.InstallmentQuarterly {
		perInstallment = plan.QuarterlyInstallment
	}
	if perInstallment <= 0 {
		return nil, common.ErrInvalidInstallmentAmount
	}

	count := (remaining + perInstallment - 1) / perInstallment
	step := investor.InstallmentType.Months()

	installments := make([]domain.Installment, 0, count)
	for i := int64(0); i < count; i++ {
		amount := perInstallment
		if i == count-1 {
			// Residual installment: absorbs rounding so the schedule
			// sums to exactly the remaining amount.
			amount = remaining - perInstallment*(count-1)
		}

		installments = append(installments, domain.Installment{
			InvestorID: investor.ID,
			Amount:     amount,
			DueDate:    addMonthsClamped(investor.JoinDate, int(i+1)*step),
			Status:     domain.InstallmentPending,
		})
	}

	return installments, nil
}

// Reconcile returns a copy of the given installments with every pending
// installment whose due date lies strictly before today marked overdue.
// Paid installments are never altered. The comparison is date-only, so
// the result does not depend on time of day, and applying Reconcile
// twice yields the same output as applying it once.
func Reconcile(installments []domain.Installment, today time.Time) []domain.Installment {
	cutoff := truncateToDate(today)

	out := make([]domain.Installment, len(installments))
	copy(out, installments)
	for i := range out {
		if out[i].Status == domain.InstallmentPending && truncateToDate(out[i].DueDate).Before(cutoff) {
			out[i].Status = domain.InstallmentOverdue
		}
	}

	return out
}

// SortForDisplay orders installments the way the tracker presents them:
// overdue entries first, then everything else, each by ascending due
// date. The ordering is a read-time view concern, not a stored one.
func SortForDisplay(installments []domain.Installment) {
	sort.SliceStable(installments, func(i, j int) bool {
		a, b := installments[i], installments[j]
		if (a.Status == domain.InstallmentOverdue) != (b.Status == domain.InstallmentOverdue) {
			return a.Status == domain.InstallmentOverdue
		}
		return a.DueDate.Before(b.DueDate)
	})
}

// NextDueDate returns the earliest due date among non-paid installments,
// or nil when everything is settled.
func NextDueDate(installments []domain.Installment) *time.Time {
	var next *time.Time
	for i := range installments {
		if installments[i].Status == domain.InstallmentPaid {
			continue
		}
		due := installments[i].DueDate
		if next == nil || due.Before(*next) {
			d := due
			next = &d
		}
	}
	return next
}

// addMonthsClamped adds months calendar-wise, keeping the original
// day-of-month and clamping it to the last day of the target month.
// time.AddDate is unsuitable here: it normalizes Jan 31 + 1 month to
// Mar 2/3, which would reorder quarterly vs monthly schedules.
func addMonthsClamped(t time.Time, months int) time.Time {
	year, month, day := t.Date()

	total := int(month) - 1 + months
	targetYear := year + total/12
	targetMonth := time.Month(total%12 + 1)

	if last := daysIn(targetYear, targetMonth); day > last {
		day = last
	}

	return time.Date(targetYear, targetMonth, day, 0, 0, 0, 0, t.Location())
}

func daysIn(year int, month time.Month) int {
	// Day 0 of the next month is the last day of this one.
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

func truncateToDate(t time.Time) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}
