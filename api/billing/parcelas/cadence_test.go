package parcelas

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"JurisOfficeSaas/api/constants"
)

var today = time.Date(2026, 8, 30, 9, 0, 0, 0, time.UTC)

func parcelaDueIn(days int) Parcela {
	return Parcela{
		ID:             "p-1",
		ClienteID:      "c-1",
		ClienteNome:    "Maria Silva",
		Valor:          decimal.NewFromFloat(1234.56),
		Status:         constants.ParcelaStatusPendente,
		DataVencimento: today.AddDate(0, 0, days),
	}
}

func TestDaysUntilDue_TruncatesToCalendarDate(t *testing.T) {
	// 23h apart but on consecutive calendar dates still counts as 1 day
	due := time.Date(2026, 8, 31, 8, 0, 0, 0, time.UTC)
	now := time.Date(2026, 8, 30, 9, 0, 0, 0, time.UTC)
	assert.Equal(t, 1, DaysUntilDue(due, now))
	assert.Equal(t, 0, DaysUntilDue(now, now))
	assert.Equal(t, -5, DaysUntilDue(now.AddDate(0, 0, -5), now))
}

func TestReminderDue_Cadence(t *testing.T) {
	cases := []struct {
		days int
		want bool
	}{
		{10, false},
		{4, false},
		{3, true}, // advance notice
		{2, false},
		{1, false},
		{0, true}, // due day
		{-1, false},
		{-4, false},
		{-5, true}, // overdue, every 5th day
		{-7, false},
		{-10, true},
		{-15, true},
	}
	for _, tc := range cases {
		got := ReminderDue(parcelaDueIn(tc.days), today)
		assert.Equal(t, tc.want, got, "days until due: %d", tc.days)
	}
}

func TestReminderDue_PagoIsTerminal(t *testing.T) {
	// even on a day the cadence would fire, a settled installment is silent
	for _, days := range []int{3, 0, -5} {
		p := parcelaDueIn(days)
		p.Status = constants.ParcelaStatusPago
		assert.False(t, ReminderDue(p, today))
		assert.Equal(t, StateSettled, CadenceState(p, today))
	}
}

func TestCadenceState(t *testing.T) {
	assert.Equal(t, StateFuture, CadenceState(parcelaDueIn(10), today))
	assert.Equal(t, StateDueSoon, CadenceState(parcelaDueIn(3), today))
	assert.Equal(t, StateDueSoon, CadenceState(parcelaDueIn(1), today))
	assert.Equal(t, StateDueToday, CadenceState(parcelaDueIn(0), today))
	assert.Equal(t, StateOverdue, CadenceState(parcelaDueIn(-1), today))
}

func TestDueReminders(t *testing.T) {
	snapshot := []Parcela{
		parcelaDueIn(3),
		parcelaDueIn(2),
		parcelaDueIn(0),
		parcelaDueIn(-5),
		parcelaDueIn(-6),
	}
	settled := parcelaDueIn(0)
	settled.Status = constants.ParcelaStatusPago
	snapshot = append(snapshot, settled)

	due := DueReminders(snapshot, today)
	require.Len(t, due, 3)
	assert.Equal(t, StateDueSoon, due[0].State)
	assert.Equal(t, StateDueToday, due[1].State)
	assert.Equal(t, StateOverdue, due[2].State)
	for _, r := range due {
		assert.NotEmpty(t, r.Body)
	}
}

// The single-installment dispatch runs through DueReminders with a
// one-element snapshot, so it obeys the same cadence gate as the bulk
// flow: a pending installment outside the reminder days yields nothing
// to send, even though a message body could be rendered for it.
func TestDueReminders_SingleInstallmentGate(t *testing.T) {
	for _, days := range []int{10, 2, -2} {
		due := DueReminders([]Parcela{parcelaDueIn(days)}, today)
		assert.Empty(t, due, "days until due: %d", days)
	}
	for _, days := range []int{3, 0, -5} {
		due := DueReminders([]Parcela{parcelaDueIn(days)}, today)
		assert.Len(t, due, 1, "days until due: %d", days)
	}
}

func TestFormatBRL(t *testing.T) {
	assert.Equal(t, "R$ 1.234,56", FormatBRL(decimal.NewFromFloat(1234.56)))
	assert.Equal(t, "R$ 0,50", FormatBRL(decimal.NewFromFloat(0.5)))
	assert.Equal(t, "R$ 999,00", FormatBRL(decimal.NewFromInt(999)))
	assert.Equal(t, "R$ 1.000.000,00", FormatBRL(decimal.NewFromInt(1000000)))
	assert.Equal(t, "-R$ 12,30", FormatBRL(decimal.NewFromFloat(-12.3)))
}

func TestMessageBody(t *testing.T) {
	p := parcelaDueIn(0)
	body := MessageBody(p, StateDueToday)
	assert.Contains(t, body, "Maria Silva")
	assert.Contains(t, body, "R$ 1.234,56")
	assert.Contains(t, body, "vence hoje")
	assert.Contains(t, body, p.DataVencimento.Format("02/01/2006"))

	overdue := parcelaDueIn(-5)
	assert.Contains(t, MessageBody(overdue, StateOverdue), "vencida em")

	soon := parcelaDueIn(3)
	assert.Contains(t, MessageBody(soon, StateDueSoon), "Lembrete")
}
