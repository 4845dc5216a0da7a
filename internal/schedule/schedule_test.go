package schedule_test

import (
	"testing"
	"time"

	"github.com/kiritara/resort-admin/internal/domain"
	"github.com/kiritara/resort-admin/internal/schedule"
	"github.com/kiritara/resort-admin/pkg/common"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func monthlyInvestor(total, downpayment int64, join time.Time) domain.Investor {
	return domain.Investor{
		ID:              1,
		TotalInvestment: total,
		DownpaymentPaid: downpayment,
		InstallmentType: domain.InstallmentMonthly,
		JoinDate:        join,
	}
}

func TestGenerate_SplitsEvenlyWithResidualLast(t *testing.T) {
	plan := &domain.MembershipPlan{MonthlyInstallment: 100000}
	investor := monthlyInvestor(300000, 50000, date(2024, time.January, 15))

	installments, err := schedule.Generate(investor, plan)

	require.NoError(t, err)
	require.Len(t, installments, 3)
	assert.Equal(t, int64(100000), installments[0].Amount)
	assert.Equal(t, int64(100000), installments[1].Amount)
	assert.Equal(t, int64(50000), installments[2].Amount)
}

func TestGenerate_SumEqualsRemaining(t *testing.T) {
	cases := []struct {
		name           string
		total, down    int64
		perInstallment int64
	}{
		{"exact multiple", 500000, 100000, 100000},
		{"residual", 500000, 100000, 150000},
		{"single short installment", 500000, 450000, 100000},
		{"awkward division", 500000, 0, 16667},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			plan := &domain.MembershipPlan{MonthlyInstallment: tc.perInstallment}
			investor := monthlyInvestor(tc.total, tc.down, date(2024, time.March, 1))

			installments, err := schedule.Generate(investor, plan)
			require.NoError(t, err)

			var sum int64
			for _, inst := range installments {
				sum += inst.Amount
				assert.Positive(t, inst.Amount)
				assert.Equal(t, domain.InstallmentPending, inst.Status)
			}
			assert.Equal(t, tc.total-tc.down, sum)
		})
	}
}

func TestGenerate_MonthlyCadence(t *testing.T) {
	plan := &domain.MembershipPlan{MonthlyInstallment: 100000}
	investor := monthlyInvestor(300000, 0, date(2024, time.January, 15))

	installments, err := schedule.Generate(investor, plan)

	require.NoError(t, err)
	require.Len(t, installments, 3)
	assert.Equal(t, date(2024, time.February, 15), installments[0].DueDate)
	assert.Equal(t, date(2024, time.March, 15), installments[1].DueDate)
	assert.Equal(t, date(2024, time.April, 15), installments[2].DueDate)
}

func TestGenerate_QuarterlyCadence(t *testing.T) {
	plan := &domain.MembershipPlan{QuarterlyInstallment: 100000}
	investor := domain.Investor{
		ID:              1,
		TotalInvestment: 250000,
		DownpaymentPaid: 0,
		InstallmentType: domain.InstallmentQuarterly,
		JoinDate:        date(2024, time.January, 15),
	}

	installments, err := schedule.Generate(investor, plan)

	require.NoError(t, err)
	require.Len(t, installments, 3)
	assert.Equal(t, date(2024, time.April, 15), installments[0].DueDate)
	assert.Equal(t, date(2024, time.July, 15), installments[1].DueDate)
	assert.Equal(t, date(2024, time.October, 15), installments[2].DueDate)
	assert.Equal(t, []int64{100000, 100000, 50000}, []int64{
		installments[0].Amount, installments[1].Amount, installments[2].Amount,
	})
}

func TestGenerate_MonthEndAnchorsClamp(t *testing.T) {
	plan := &domain.MembershipPlan{MonthlyInstallment: 50000}

	cases := []struct {
		name string
		join time.Time
		want []time.Time
	}{
		{
			"day 31 clamps to short months",
			date(2024, time.January, 31),
			[]time.Time{
				date(2024, time.February, 29),
				date(2024, time.March, 31),
				date(2024, time.April, 30),
			},
		},
		{
			"day 30 clamps only in February",
			date(2023, time.December, 30),
			[]time.Time{
				date(2024, time.January, 30),
				date(2024, time.February, 29),
				date(2024, time.March, 30),
			},
		},
		{
			"day 29 in a non-leap year",
			date(2025, time.January, 29),
			[]time.Time{
				date(2025, time.February, 28),
				date(2025, time.March, 29),
				date(2025, time.April, 29),
			},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			investor := monthlyInvestor(150000, 0, tc.join)

			installments, err := schedule.Generate(investor, plan)
			require.NoError(t, err)
			require.Len(t, installments, len(tc.want))
			for i, want := range tc.want {
				assert.Equal(t, want, installments[i].DueDate, "installment %d", i)
			}
		})
	}
}

func TestGenerate_DueDatesStrictlyAscending(t *testing.T) {
	plan := &domain.MembershipPlan{MonthlyInstallment: 10000}
	investor := monthlyInvestor(360000, 0, date(2024, time.January, 31))

	installments, err := schedule.Generate(investor, plan)

	require.NoError(t, err)
	require.Len(t, installments, 36)
	for i := 1; i < len(installments); i++ {
		assert.True(t, installments[i-1].DueDate.Before(installments[i].DueDate),
			"due date %d not after %d", i, i-1)
	}
}

func TestGenerate_NothingRemaining(t *testing.T) {
	plan := &domain.MembershipPlan{MonthlyInstallment: 100000}

	installments, err := schedule.Generate(monthlyInvestor(500000, 500000, date(2024, time.June, 1)), plan)
	require.NoError(t, err)
	assert.Empty(t, installments)

	// Over-paid behaves the same as fully paid.
	installments, err = schedule.Generate(monthlyInvestor(500000, 600000, date(2024, time.June, 1)), plan)
	require.NoError(t, err)
	assert.Empty(t, installments)
}

func TestGenerate_ConfigurationErrors(t *testing.T) {
	investor := monthlyInvestor(500000, 0, date(2024, time.June, 1))

	_, err := schedule.Generate(investor, nil)
	assert.ErrorIs(t, err, common.ErrPlanNotFound)

	_, err = schedule.Generate(investor, &domain.MembershipPlan{MonthlyInstallment: 0})
	assert.ErrorIs(t, err, common.ErrInvalidInstallmentAmount)
}

func TestReconcile_MarksOnlyPastDuePending(t *testing.T) {
	today := date(2024, time.June, 15)
	installments := []domain.Installment{
		{ID: 1, Status: domain.InstallmentPending, DueDate: date(2024, time.May, 15)},
		{ID: 2, Status: domain.InstallmentPending, DueDate: today},
		{ID: 3, Status: domain.InstallmentPending, DueDate: date(2024, time.July, 15)},
		{ID: 4, Status: domain.InstallmentPaid, DueDate: date(2024, time.April, 15)},
	}

	out := schedule.Reconcile(installments, today)

	assert.Equal(t, domain.InstallmentOverdue, out[0].Status)
	assert.Equal(t, domain.InstallmentPending, out[1].Status, "due today is not overdue")
	assert.Equal(t, domain.InstallmentPending, out[2].Status)
	assert.Equal(t, domain.InstallmentPaid, out[3].Status, "paid is terminal")

	// Input is untouched.
	assert.Equal(t, domain.InstallmentPending, installments[0].Status)
}

func TestReconcile_Idempotent(t *testing.T) {
	today := date(2024, time.June, 15)
	installments := []domain.Installment{
		{ID: 1, Status: domain.InstallmentPending, DueDate: date(2024, time.May, 1)},
		{ID: 2, Status: domain.InstallmentPending, DueDate: date(2024, time.August, 1)},
	}

	once := schedule.Reconcile(installments, today)
	twice := schedule.Reconcile(once, today)

	assert.Equal(t, once, twice)
}

func TestReconcile_IgnoresTimeOfDay(t *testing.T) {
	installments := []domain.Installment{
		{ID: 1, Status: domain.InstallmentPending, DueDate: date(2024, time.June, 14)},
	}

	morning := schedule.Reconcile(installments, time.Date(2024, time.June, 15, 0, 0, 1, 0, time.UTC))
	night := schedule.Reconcile(installments, time.Date(2024, time.June, 15, 23, 59, 59, 0, time.UTC))

	assert.Equal(t, morning, night)
	assert.Equal(t, domain.InstallmentOverdue, morning[0].Status)
}

func TestSortForDisplay_OverdueFirstThenByDueDate(t *testing.T) {
	installments := []domain.Installment{
		{ID: 1, Status: domain.InstallmentPaid, DueDate: date(2024, time.January, 1)},
		{ID: 2, Status: domain.InstallmentPending, DueDate: date(2024, time.August, 1)},
		{ID: 3, Status: domain.InstallmentOverdue, DueDate: date(2024, time.May, 1)},
		{ID: 4, Status: domain.InstallmentOverdue, DueDate: date(2024, time.March, 1)},
		{ID: 5, Status: domain.InstallmentPending, DueDate: date(2024, time.July, 1)},
	}

	schedule.SortForDisplay(installments)

	gotIDs := []uint64{installments[0].ID, installments[1].ID, installments[2].ID, installments[3].ID, installments[4].ID}
	assert.Equal(t, []uint64{4, 3, 1, 5, 2}, gotIDs)
}

func TestNextDueDate(t *testing.T) {
	assert.Nil(t, schedule.NextDueDate(nil))

	allPaid := []domain.Installment{
		{Status: domain.InstallmentPaid, DueDate: date(2024, time.May, 1)},
	}
	assert.Nil(t, schedule.NextDueDate(allPaid))

	mixed := []domain.Installment{
		{Status: domain.InstallmentPaid, DueDate: date(2024, time.April, 1)},
		{Status: domain.InstallmentOverdue, DueDate: date(2024, time.May, 1)},
		{Status: domain.InstallmentPending, DueDate: date(2024, time.June, 1)},
	}
	next := schedule.NextDueDate(mixed)
	require.NotNil(t, next)
	assert.Equal(t, date(2024, time.May, 1), *next)
}
