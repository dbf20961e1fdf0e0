package parcelas

import (
	"fmt"
	"strings"
	"time"

	"JurisOfficeSaas/api/constants"
	"JurisOfficeSaas/internal/config"

	"github.com/shopspring/decimal"
)

// CadenceStatus is the conceptual state of an installment relative to
// today. It is derived, never stored.
type CadenceStatus string

const (
	StateFuture   CadenceStatus = "FUTURE"
	StateDueSoon  CadenceStatus = "DUE_SOON"
	StateDueToday CadenceStatus = "DUE_TODAY"
	StateOverdue  CadenceStatus = "OVERDUE"
	StateSettled  CadenceStatus = "SETTLED"
)

// Reminder is one dispatch decision produced by the cadence engine.
type Reminder struct {
	Parcela Parcela
	State   CadenceStatus
	Body    string
}

// DaysUntilDue returns whole days between today and the due date, both
// truncated to their calendar date.
func DaysUntilDue(due, today time.Time) int {
	d := truncateDate(due)
	t := truncateDate(today)
	return int(d.Sub(t).Hours() / 24)
}

func truncateDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// CadenceState derives the conceptual state. PAGO short-circuits to
// SETTLED regardless of date.
func CadenceState(p Parcela, today time.Time) CadenceStatus {
	if p.Status == constants.ParcelaStatusPago {
		return StateSettled
	}
	days := DaysUntilDue(p.DataVencimento, today)
	switch {
	case days < 0:
		return StateOverdue
	case days == 0:
		return StateDueToday
	case days <= config.ReminderDaysBefore:
		return StateDueSoon
	default:
		return StateFuture
	}
}

// ReminderDue decides whether a message goes out today. One canonical
// rule for both the single and bulk flows: 3 days before, on the due
// day, and every 5th day overdue.
func ReminderDue(p Parcela, today time.Time) bool {
	if p.Status == constants.ParcelaStatusPago {
		return false
	}
	days := DaysUntilDue(p.DataVencimento, today)
	if days == config.ReminderDaysBefore || days == 0 {
		return true
	}
	return days < 0 && (-days)%config.OverdueReminderInterval == 0
}

// DueReminders evaluates a snapshot of installments and returns the
// dispatches due today, message bodies included. Pure function.
func DueReminders(snapshot []Parcela, today time.Time) []Reminder {
	due := []Reminder{}
	for _, p := range snapshot {
		if !ReminderDue(p, today) {
			continue
		}
		state := CadenceState(p, today)
		due = append(due, Reminder{
			Parcela: p,
			State:   state,
			Body:    MessageBody(p, state),
		})
	}
	return due
}

// FormatBRL renders an amount the way the office writes it:
// R$ 1.234,56.
func FormatBRL(v decimal.Decimal) string {
	s := v.StringFixed(2)
	neg := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")
	parts := strings.SplitN(s, ".", 2)
	intPart, fracPart := parts[0], parts[1]

	var b strings.Builder
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(r)
	}
	out := "R$ " + b.String() + "," + fracPart
	if neg {
		out = "-" + out
	}
	return out
}

// MessageBody interpolates the pt-BR reminder template for the state.
func MessageBody(p Parcela, state CadenceStatus) string {
	valor := FormatBRL(p.Valor)
	venc := p.DataVencimento.Format(constants.DateFormatBR)
	switch state {
	case StateDueToday:
		return fmt.Sprintf("Olá %s! Sua parcela de %s vence hoje (%s). Evite encargos realizando o pagamento ainda hoje.", p.ClienteNome, valor, venc)
	case StateOverdue:
		return fmt.Sprintf("Olá %s! Consta em aberto a parcela de %s vencida em %s. Por favor, regularize o pagamento.", p.ClienteNome, valor, venc)
	default:
		return fmt.Sprintf("Olá %s! Lembrete: sua parcela de %s vence em %s.", p.ClienteNome, valor, venc)
	}
}
