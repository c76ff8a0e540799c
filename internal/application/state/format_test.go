package state_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/stellar-burgers/internal/application/state"
)

func TestFormatOrderDate(t *testing.T) {
	now := time.Date(2025, 6, 10, 9, 0, 0, 0, time.UTC)
	cases := []struct {
		name string
		at   time.Time
		want string
	}{
		{"hoy", time.Date(2025, 6, 10, 8, 15, 0, 0, time.UTC), "Hoy, 08:15"},
		{"ayer aunque pasaron menos de 24h", time.Date(2025, 6, 9, 23, 59, 0, 0, time.UTC), "Ayer, 23:59"},
		{"hace días", time.Date(2025, 6, 7, 18, 0, 0, 0, time.UTC), "Hace 3 días, 18:00"},
		{"cruza de mes", time.Date(2025, 5, 31, 12, 30, 0, 0, time.UTC), "Hace 10 días, 12:30"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, state.FormatOrderDate(tc.at, now))
		})
	}
}

func TestFormatOrderDate_UsaZonaDeNow(t *testing.T) {
	bogota := time.FixedZone("COT", -5*60*60)
	now := time.Date(2025, 6, 10, 9, 0, 0, 0, bogota)
	at := time.Date(2025, 6, 10, 3, 0, 0, 0, time.UTC) // 22:00 del día anterior en Bogotá
	assert.Equal(t, "Ayer, 22:00", state.FormatOrderDate(at, now))
}

func TestFormatPriceYCount(t *testing.T) {
	assert.Equal(t, "130", state.FormatPrice(decimal.NewFromInt(130)))
	assert.Equal(t, "1.234.567", state.FormatPrice(decimal.RequireFromString("1234567.4")))
	assert.Equal(t, "28.752", state.FormatCount(28752))
}
