package fiscal_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/facturio/autonomo-api/internal/domain/fiscal"
)

func TestCheckSequence(t *testing.T) {
	priors := []string{"F-2023-001", "F-2023-002"}

	tests := []struct {
		name      string
		candidate string
		priors    []string
		wantValid bool
		wantNext  string
	}{
		{
			name:      "siguiente consecutivo",
			candidate: "F-2023-003", priors: priors,
			wantValid: true, wantNext: "F-2023-003",
		},
		{
			name:      "salto en la serie",
			candidate: "F-2023-005", priors: priors,
			wantValid: false, wantNext: "F-2023-003",
		},
		{
			name:      "ordinal duplicado",
			candidate: "F-2023-002", priors: priors,
			wantValid: false, wantNext: "F-2023-003",
		},
		{
			name:      "prefijo distinto: serie independiente que empieza en 1",
			candidate: "G-2023-001", priors: priors,
			wantValid: true, wantNext: "G-2023-001",
		},
		{
			name:      "serie nueva que no empieza en 1",
			candidate: "G-2023-007", priors: priors,
			wantValid: false, wantNext: "G-2023-001",
		},
		{
			name:      "sin históricos",
			candidate: "F-001", priors: nil,
			wantValid: true, wantNext: "F-001",
		},
		{
			name:      "candidato sin sufijo numérico: fuera de la comparación",
			candidate: "PROFORMA-A", priors: priors,
			wantValid: true, wantNext: "",
		},
		{
			name:      "históricos sin sufijo numérico no cuentan",
			candidate: "F-2023-001", priors: []string{"BORRADOR", "F-2023-ANULADA"},
			wantValid: true, wantNext: "F-2023-001",
		},
		{
			name:      "se respeta el zero-padding de la serie",
			candidate: "F-2023-03", priors: priors,
			wantValid: true, wantNext: "F-2023-003",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := fiscal.CheckSequence(tt.candidate, tt.priors)
			assert.Equal(t, tt.wantValid, got.Valid)
			assert.Equal(t, tt.wantNext, got.Expected)
			if !tt.wantValid {
				assert.NotEmpty(t, got.Message, "un resultado inválido debe llevar aviso para el usuario")
			}
		})
	}
}

// TestCheckSequence_PaddingCandidato: el padding por defecto sale del
// candidato cuando la serie es nueva.
func TestCheckSequence_PaddingCandidato(t *testing.T) {
	got := fiscal.CheckSequence("R-0001", nil)
	assert.True(t, got.Valid)
	assert.Equal(t, "R-0001", got.Expected)
}
