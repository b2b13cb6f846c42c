package fiscal

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// trailingOrdinal separa el prefijo no numérico del ordinal final de un
// número de factura ("F-2023-001" → prefijo "F-2023-", ordinal 1).
var trailingOrdinal = regexp.MustCompile(`^(.*?)(\d+)$`)

// SequenceCheck es el resultado consultivo de validar un número de factura.
// Un resultado no válido nunca bloquea la creación: se devuelve como aviso
// para que el usuario lo confirme o corrija.
type SequenceCheck struct {
	Valid    bool
	Expected string // siguiente número esperado en la serie ("" si no aplica)
	Message  string // aviso legible para el usuario ("" si es válido)
}

// CheckSequence comprueba que candidate continúa la serie implícita en
// priorNumbers: su ordinal final debe ser exactamente el máximo de la serie
// con el mismo prefijo más uno (o 1 si la serie es nueva).
//
// Los números sin sufijo numérico quedan fuera de la comparación (serie no
// ordenada) y se aceptan siempre. Un ordinal duplicado es inválido.
func CheckSequence(candidate string, priorNumbers []string) SequenceCheck {
	prefix, ordinal, width, ok := splitNumber(candidate)
	if !ok {
		// Sin sufijo numérico: serie aparte sin orden que validar.
		return SequenceCheck{Valid: true}
	}

	maxOrdinal := 0
	maxWidth := width
	seen := false
	duplicate := false
	for _, prior := range priorNumbers {
		pPrefix, pOrdinal, pWidth, pOK := splitNumber(prior)
		if !pOK || pPrefix != prefix {
			continue
		}
		seen = true
		if pOrdinal == ordinal {
			duplicate = true
		}
		if pOrdinal > maxOrdinal {
			maxOrdinal = pOrdinal
			maxWidth = pWidth
		}
	}

	expectedOrdinal := 1
	if seen {
		expectedOrdinal = maxOrdinal + 1
	}
	expected := fmt.Sprintf("%s%0*d", prefix, maxWidth, expectedOrdinal)

	if duplicate {
		return SequenceCheck{
			Valid:    false,
			Expected: expected,
			Message:  fmt.Sprintf("el número %s ya existe en la serie; el siguiente esperado es %s", candidate, expected),
		}
	}
	if ordinal != expectedOrdinal {
		return SequenceCheck{
			Valid:    false,
			Expected: expected,
			Message:  fmt.Sprintf("el número %s rompe la secuencia de la serie; el siguiente esperado es %s", candidate, expected),
		}
	}
	return SequenceCheck{Valid: true, Expected: expected}
}

// splitNumber devuelve prefijo, ordinal y ancho del sufijo numérico.
// ok es false si el número no termina en dígitos.
func splitNumber(number string) (prefix string, ordinal, width int, ok bool) {
	m := trailingOrdinal.FindStringSubmatch(strings.TrimSpace(number))
	if m == nil {
		return "", 0, 0, false
	}
	n, err := strconv.Atoi(m[2])
	if err != nil {
		return "", 0, 0, false
	}
	return m[1], n, len(m[2]), true
}
