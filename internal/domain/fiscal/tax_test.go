package fiscal_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/facturio/autonomo-api/internal/domain/fiscal"
)

func TestParseAdditionalTaxes(t *testing.T) {
	raw := []byte(`[{"name":"IVA","amount":21,"isPercentage":true},{"name":"IRPF","amount":-15,"isPercentage":true}]`)

	taxes, err := fiscal.ParseAdditionalTaxes(raw)
	require.NoError(t, err)
	require.Len(t, taxes, 2)

	assert.Equal(t, "IVA", taxes[0].Name)
	assert.True(t, taxes[0].Amount.Equal(d("21")))
	assert.True(t, taxes[0].IsPercentage)
	assert.True(t, taxes[1].Amount.Equal(d("-15")))
}

// TestParseAdditionalTaxes_Variantes: la columna llega de persistencia como
// null, array, array re-encodeado como string, o con importes entre comillas.
// Todas las variantes legales deben normalizar igual.
func TestParseAdditionalTaxes_Variantes(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		wantLen int
	}{
		{"nil", "", 0},
		{"null JSON", "null", 0},
		{"array vacío", "[]", 0},
		{"doble encoding", `"[{\"name\":\"IVA\",\"amount\":21,\"isPercentage\":true}]"`, 1},
		{"importe como string", `[{"name":"IVA","amount":"21","isPercentage":true}]`, 1},
		{"string con null dentro", `"null"`, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			taxes, err := fiscal.ParseAdditionalTaxes([]byte(tt.raw))
			require.NoError(t, err)
			assert.Len(t, taxes, tt.wantLen)
			if tt.wantLen == 1 {
				assert.True(t, taxes[0].Amount.Equal(d("21")))
			}
		})
	}
}

func TestParseAdditionalTaxes_Estricto(t *testing.T) {
	for name, raw := range map[string]string{
		"JSON roto":          `[{`,
		"nombre vacío":       `[{"name":"","amount":21,"isPercentage":true}]`,
		"importe no numérico": `[{"name":"IVA","amount":"veintiuno","isPercentage":true}]`,
		"no es un array":     `{"name":"IVA"}`,
	} {
		t.Run(name, func(t *testing.T) {
			_, err := fiscal.ParseAdditionalTaxes([]byte(raw))
			require.Error(t, err)
			assert.ErrorIs(t, err, fiscal.ErrInvalidTaxes)
		})
	}
}

// TestCoerceAdditionalTaxes: el modo tolerante degrada a cero/omisión en vez
// de fallar; un importe basura jamás se convierte en NaN persistido.
func TestCoerceAdditionalTaxes(t *testing.T) {
	taxes := fiscal.CoerceAdditionalTaxes([]byte(`[{"name":"IVA","amount":"basura","isPercentage":true},{"name":"","amount":5},{"name":"IRPF","amount":-15,"isPercentage":true}]`))
	require.Len(t, taxes, 2, "la entrada sin nombre se descarta")

	assert.True(t, taxes[0].Amount.IsZero(), "importe no numérico coaccionado a 0")
	assert.True(t, taxes[1].Amount.Equal(d("-15")))

	assert.Empty(t, fiscal.CoerceAdditionalTaxes([]byte(`[{`)), "JSON irrecuperable ⇒ lista vacía")
}

func TestAdditionalTax_Clasificacion(t *testing.T) {
	assert.True(t, pct("IVA", "21").IsVAT())
	assert.True(t, pct("iva 10%", "10").IsVAT())
	assert.True(t, pct("VAT", "21").IsVAT())
	assert.False(t, pct("IRPF", "-15").IsVAT())

	assert.True(t, pct("IRPF", "-15").IsIRPF())
	assert.True(t, pct("Retención IRPF", "-7").IsIRPF())
	assert.True(t, pct("retencion profesional", "-15").IsIRPF())
	assert.False(t, pct("IVA", "21").IsIRPF())
}

func TestEncodeAdditionalTaxes_RoundTrip(t *testing.T) {
	in := []fiscal.AdditionalTax{pct("IVA", "21"), fixed("Suplido", "12.50")}

	out, err := fiscal.ParseAdditionalTaxes(fiscal.EncodeAdditionalTaxes(in))
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, "IVA", out[0].Name)
	assert.True(t, out[1].Amount.Equal(d("12.50")))

	assert.Equal(t, "[]", string(fiscal.EncodeAdditionalTaxes(nil)), "nil se persiste como array vacío, nunca null")
}
