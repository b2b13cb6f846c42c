package fiscal_test

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/facturio/autonomo-api/internal/domain/fiscal"
)

func TestParsePeriod(t *testing.T) {
	tests := []struct {
		token     string
		wantStart time.Time
		wantEnd   time.Time
	}{
		{"2025-all", date(2025, 1, 1), date(2026, 1, 1)},
		{"2025-q1", date(2025, 1, 1), date(2025, 4, 1)},
		{"2025-q2", date(2025, 4, 1), date(2025, 7, 1)},
		{"2025-q4", date(2025, 10, 1), date(2026, 1, 1)},
		{"2025-1", date(2025, 1, 1), date(2025, 2, 1)},
		{"2025-7", date(2025, 7, 1), date(2025, 8, 1)},
		{"2025-12", date(2025, 12, 1), date(2026, 1, 1)},
		{"2024-2", date(2024, 2, 1), date(2024, 3, 1)}, // febrero bisiesto incluido
	}

	for _, tt := range tests {
		t.Run(tt.token, func(t *testing.T) {
			p, err := fiscal.ParsePeriod(tt.token)
			require.NoError(t, err)
			assert.True(t, p.Start.Equal(tt.wantStart), "start: %s", p.Start)
			assert.True(t, p.End.Equal(tt.wantEnd), "end: %s", p.End)
		})
	}
}

func TestParsePeriod_TokenInvalido(t *testing.T) {
	for _, token := range []string{"", "2025", "2025-q5", "2025-13", "2025-0", "abcd-q1", "2025-q", "2025-x2", "-q1"} {
		_, err := fiscal.ParsePeriod(token)
		require.Error(t, err, "token %q", token)
		assert.ErrorIs(t, err, fiscal.ErrInvalidPeriod, "token %q", token)
	}
}

// TestPeriod_Semiabierto: una operación exactamente en la medianoche de un
// límite pertenece al periodo posterior, nunca a los dos ni a ninguno.
func TestPeriod_Semiabierto(t *testing.T) {
	q1, err := fiscal.ParsePeriod("2025-q1")
	require.NoError(t, err)
	q2, err := fiscal.ParsePeriod("2025-q2")
	require.NoError(t, err)

	boundary := date(2025, 4, 1)
	assert.False(t, q1.Contains(boundary))
	assert.True(t, q2.Contains(boundary))

	lastInstantQ1 := boundary.Add(-time.Nanosecond)
	assert.True(t, q1.Contains(lastInstantQ1))
	assert.False(t, q2.Contains(lastInstantQ1))
}

// TestPeriod_Particion: cada día del año cae en exactamente un mes y un
// trimestre, y "all" cubre lo mismo que la unión de los doce meses.
func TestPeriod_Particion(t *testing.T) {
	const year = 2024 // bisiesto: 366 días

	months := make([]fiscal.Period, 0, 12)
	for m := 1; m <= 12; m++ {
		p, err := fiscal.ParsePeriod(fmt.Sprintf("%d-%d", year, m))
		require.NoError(t, err)
		months = append(months, p)
	}
	quarters := make([]fiscal.Period, 0, 4)
	for q := 1; q <= 4; q++ {
		p, err := fiscal.ParsePeriod(fmt.Sprintf("%d-q%d", year, q))
		require.NoError(t, err)
		quarters = append(quarters, p)
	}
	all, err := fiscal.ParsePeriod(fmt.Sprintf("%d-all", year))
	require.NoError(t, err)

	for day := all.Start; day.Before(all.End); day = day.AddDate(0, 0, 1) {
		monthHits, quarterHits := 0, 0
		for _, p := range months {
			if p.Contains(day) {
				monthHits++
			}
		}
		for _, p := range quarters {
			if p.Contains(day) {
				quarterHits++
			}
		}
		require.Equal(t, 1, monthHits, "día %s debe caer en exactamente un mes", day)
		require.Equal(t, 1, quarterHits, "día %s debe caer en exactamente un trimestre", day)
		require.True(t, all.Contains(day))
	}

	// Los meses encadenan sin hueco ni solape y cierran el año.
	assert.True(t, months[0].Start.Equal(all.Start))
	for i := 1; i < 12; i++ {
		assert.True(t, months[i-1].End.Equal(months[i].Start), "mes %d", i)
	}
	assert.True(t, months[11].End.Equal(all.End))
}

func TestClassify(t *testing.T) {
	d := date(2025, 7, 15)
	assert.Equal(t, "2025-7", fiscal.ClassifyMonth(d))
	assert.Equal(t, "2025-q3", fiscal.ClassifyQuarter(d))

	// Clasificar y resolver son inversos.
	p, err := fiscal.ParsePeriod(fiscal.ClassifyMonth(d))
	require.NoError(t, err)
	assert.True(t, p.Contains(d))
}

func TestFallbackPeriod(t *testing.T) {
	now := date(2025, 5, 20)
	p := fiscal.FallbackPeriod(now)
	assert.Equal(t, "2025-all", p.Token())
	assert.True(t, p.Contains(now))
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
