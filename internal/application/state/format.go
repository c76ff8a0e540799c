package state

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.Spanish)

// FormatOrderDate fecha relativa como la muestra el feed: "Hoy, 14:04", "Ayer, 09:30",
// "Hace 3 días, 18:00". Los días se cuentan por fecha de calendario en la zona de now.
func FormatOrderDate(t, now time.Time) string {
	t = t.In(now.Location())
	clock := t.Format("15:04")
	days := calendarDays(t, now)
	switch {
	case days <= 0:
		return "Hoy, " + clock
	case days == 1:
		return "Ayer, " + clock
	default:
		return fmt.Sprintf("Hace %d días, %s", days, clock)
	}
}

func calendarDays(t, now time.Time) int {
	y1, m1, d1 := t.Date()
	y2, m2, d2 := now.Date()
	a := time.Date(y1, m1, d1, 0, 0, 0, 0, time.UTC)
	b := time.Date(y2, m2, d2, 0, 0, 0, 0, time.UTC)
	return int(b.Sub(a).Hours() / 24)
}

// FormatPrice precio entero con separador de miles ("1.255").
func FormatPrice(d decimal.Decimal) string {
	return printer.Sprintf("%d", d.Round(0).IntPart())
}

// FormatCount contador del feed con separador de miles.
func FormatCount(n int) string {
	return printer.Sprintf("%d", n)
}
