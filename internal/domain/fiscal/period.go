package fiscal

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Segmentos de periodo reconocidos en un token "<año>-<segmento>".
const (
	SegmentAll = "all" // año completo
	// Trimestres: q1..q4. Meses: "1".."12".
)

// Period es un intervalo fiscal semiabierto [Start, End): una operación justo
// en la medianoche de un límite pertenece siempre al periodo posterior, nunca
// a los dos ni a ninguno. Los doce meses de un año lo particionan exactamente,
// igual que los cuatro trimestres; "all" es la unión de los doce meses.
type Period struct {
	Year    int
	Segment string // "all", "q1".."q4", "1".."12"
	Start   time.Time
	End     time.Time
}

// Token reconstruye el token canónico del periodo ("2025-q2").
func (p Period) Token() string {
	return fmt.Sprintf("%d-%s", p.Year, p.Segment)
}

// Contains indica si t cae dentro del intervalo [Start, End).
func (p Period) Contains(t time.Time) bool {
	return !t.Before(p.Start) && t.Before(p.End)
}

// ParsePeriod resuelve un token "<año>-<segmento>" a su intervalo concreto.
//
//	"2025-all" ⇒ [1 ene 2025, 1 ene 2026)
//	"2025-q2"  ⇒ [1 abr 2025, 1 jul 2025)
//	"2025-7"   ⇒ [1 jul 2025, 1 ago 2025)
//
// Un token mal formado ("2025-q5", "2025-13", año no numérico) devuelve
// ErrInvalidPeriod; el caller debe recurrir a FallbackPeriod, nunca aceptar
// datos silenciosamente incorrectos. Los límites se construyen en UTC, la
// zona en la que se persisten las fechas de los documentos.
func ParsePeriod(token string) (Period, error) {
	parts := strings.SplitN(strings.TrimSpace(token), "-", 2)
	if len(parts) != 2 {
		return Period{}, fmt.Errorf("%w: %q", ErrInvalidPeriod, token)
	}
	year, err := strconv.Atoi(parts[0])
	if err != nil || year < 1 || year > 9999 {
		return Period{}, fmt.Errorf("%w: año %q", ErrInvalidPeriod, parts[0])
	}
	segment := strings.ToLower(parts[1])

	switch {
	case segment == SegmentAll:
		start := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
		return Period{Year: year, Segment: segment, Start: start, End: start.AddDate(1, 0, 0)}, nil

	case len(segment) == 2 && segment[0] == 'q':
		q, err := strconv.Atoi(segment[1:])
		if err != nil || q < 1 || q > 4 {
			return Period{}, fmt.Errorf("%w: trimestre %q", ErrInvalidPeriod, segment)
		}
		start := time.Date(year, time.Month((q-1)*3+1), 1, 0, 0, 0, 0, time.UTC)
		return Period{Year: year, Segment: segment, Start: start, End: start.AddDate(0, 3, 0)}, nil

	default:
		month, err := strconv.Atoi(segment)
		if err != nil || month < 1 || month > 12 {
			return Period{}, fmt.Errorf("%w: segmento %q", ErrInvalidPeriod, segment)
		}
		start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
		return Period{Year: year, Segment: strconv.Itoa(month), Start: start, End: start.AddDate(0, 1, 0)}, nil
	}
}

// FallbackPeriod es el periodo por defecto documentado ante un token
// inválido: el año completo en curso.
func FallbackPeriod(now time.Time) Period {
	p, _ := ParsePeriod(fmt.Sprintf("%d-%s", now.Year(), SegmentAll))
	return p
}

// ClassifyMonth devuelve el token mensual al que pertenece la fecha
// ("2025-7"). Inverso de ParsePeriod para segmentos de mes.
func ClassifyMonth(date time.Time) string {
	d := date.UTC()
	return fmt.Sprintf("%d-%d", d.Year(), int(d.Month()))
}

// ClassifyQuarter devuelve el token trimestral al que pertenece la fecha
// ("2025-q3").
func ClassifyQuarter(date time.Time) string {
	d := date.UTC()
	q := (int(d.Month())-1)/3 + 1
	return fmt.Sprintf("%d-q%d", d.Year(), q)
}
