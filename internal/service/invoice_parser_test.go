package service

import (
	"strings"
	"testing"

	"invoice-rag/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseInvoiceFields_ChatterAroundJSON(t *testing.T) {
	raw := `Aquí están los datos extraídos:
{
  "fecha_factura": "20/11/2018",
  "fecha_desde": "15-09-2018",
  "fecha_hasta": "2018-11-14",
  "consumo_kWh": "1,2 MWh",
  "cuota_fija_sin_iva": 12.5,
  "cuota_variable_sin_iva": "1.058,30 €",
  "alquiler_contador_sin_iva": null,
  "impuesto_esp_hidrocarburo_sin_iva": 0,
  "descuento_gas": "-4,20 Eur",
  "total_electricidad": ""
}
Espero que esto ayude.`

	fields, problems, err := ParseInvoiceFields(raw)
	require.NoError(t, err)
	assert.Empty(t, problems)

	assert.Equal(t, models.InvoiceFields{
		FechaFactura:                  "2018-11-20",
		FechaDesde:                    "2018-09-15",
		FechaHasta:                    "2018-11-14",
		ConsumoKWh:                    "1200.00 kWh",
		CuotaFijaSinIVA:               "12.50 Eur",
		CuotaVariableSinIVA:           "1058.30 Eur",
		AlquilerContadorSinIVA:        "0",
		ImpuestoEspHidrocarburoSinIVA: "0",
		DescuentoGas:                  "-4.20 Eur",
		TotalElectricidad:             "0",
	}, fields)
}

func TestParseInvoiceFields_ValidationProblems(t *testing.T) {
	raw := "```json\n" + `{
  "fecha_factura": "noviembre 2018",
  "fecha_desde": "2018-09-15",
  "fecha_hasta": "2018-11-14",
  "consumo_kWh": "1234 kWh",
  "cuota_fija_sin_iva": "12.50 Eur",
  "cuota_variable_sin_iva": "n/a",
  "alquiler_contador_sin_iva": "0",
  "impuesto_esp_hidrocarburo_sin_iva": "0",
  "descuento_gas": "0",
  "total_electricidad": "0"
}` + "\n```"

	fields, problems, err := ParseInvoiceFields(raw)
	require.NoError(t, err)
	assert.Equal(t, "noviembre 2018", fields.FechaFactura)
	assert.Equal(t, "n/a", fields.CuotaVariableSinIVA)

	joined := strings.Join(problems, "\n")
	assert.Contains(t, joined, "/fecha_factura")
	assert.Contains(t, joined, "/cuota_variable_sin_iva")
	assert.NotContains(t, joined, "/fecha_desde")
}

func TestParseInvoiceFields_MissingRequired(t *testing.T) {
	fields, problems, err := ParseInvoiceFields(`{"fecha_factura": "2018-11-20"}`)
	require.NoError(t, err)
	assert.Equal(t, "0", fields.DescuentoGas)
	assert.NotEmpty(t, problems)
	assert.Contains(t, strings.Join(problems, "\n"), "/consumo_kWh")
}

func TestParseInvoiceFields_NoJSON(t *testing.T) {
	for _, raw := range []string{
		"",
		"No encuentro la factura.",
		"{ esto no es json }",
	} {
		_, _, err := ParseInvoiceFields(raw)
		assert.ErrorIs(t, err, ErrInvalidResponse, raw)
	}
}

func TestParseInvoiceFields_ThousandsAndPlaceholders(t *testing.T) {
	raw := `{
  "fecha_factura": "2018-11-20",
  "fecha_desde": "2018-09-15",
  "fecha_hasta": "2018-11-14",
  "consumo_kWh": "1.234 kWh",
  "cuota_fija_sin_iva": "12,50 €",
  "cuota_variable_sin_iva": "58.30 Eur",
  "alquiler_contador_sin_iva": "N/A",
  "impuesto_esp_hidrocarburo_sin_iva": "-",
  "descuento_gas": "No aplica",
  "total_electricidad": "12 kWh"
}`

	fields, problems, err := ParseInvoiceFields(raw)
	require.NoError(t, err)

	assert.Equal(t, "1234.00 kWh", fields.ConsumoKWh)
	assert.Equal(t, "12.50 Eur", fields.CuotaFijaSinIVA)
	assert.Equal(t, "0", fields.AlquilerContadorSinIVA)
	assert.Equal(t, "0", fields.ImpuestoEspHidrocarburoSinIVA)
	assert.Equal(t, "0", fields.DescuentoGas)
	assert.Equal(t, "12 kWh", fields.TotalElectricidad, "a wrong unit is left for validation")

	require.Len(t, problems, 1)
	assert.True(t, strings.HasPrefix(problems[0], "/total_electricidad"))
}

func TestParseLocaleNumber(t *testing.T) {
	tests := []struct {
		in   string
		unit string
		want float64
		ok   bool
	}{
		{"48.30", "Eur", 48.30, true},
		{"48,30 €", "Eur", 48.30, true},
		{"€ 7,5", "Eur", 7.5, true},
		{"1.234,56 euros", "Eur", 1234.56, true},
		{"1,234.56 EUR", "Eur", 1234.56, true},
		{"1.234.567", "kWh", 1234567, true},
		{"1,234,567 kWh", "kWh", 1234567, true},
		{"2,5 MWh", "kWh", 2500, true},
		{"850 kwh", "kWh", 850, true},
		{"1.234 kWh", "kWh", 1234, true},
		{"12.345 kWh", "kWh", 12345, true},
		{"1.234 €", "Eur", 1234, true},
		{"0.500 kWh", "kWh", 0.5, true},
		{"1.2345 kWh", "kWh", 1.2345, true},
		{"12 kWh", "Eur", 0, false},
		{"30 €", "kWh", 0, false},
		{"abc", "Eur", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := parseLocaleNumber(tt.in, tt.unit)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.InDelta(t, tt.want, got, 1e-9)
			}
		})
	}
}

func TestValidateInvoiceFields(t *testing.T) {
	fields := models.InvoiceFields{
		FechaFactura:        "2018-11-20",
		FechaDesde:          "2018-09-15",
		FechaHasta:          "2018-11-14",
		ConsumoKWh:          "1234.00 kWh",
		CuotaFijaSinIVA:     "12.50 Eur",
		CuotaVariableSinIVA: "58.30 Eur",
	}
	fields.ApplyDefaults()

	problems, err := ValidateInvoiceFields(fields)
	require.NoError(t, err)
	assert.Empty(t, problems)

	fields.TotalElectricidad = "12 euros"
	problems, err = ValidateInvoiceFields(fields)
	require.NoError(t, err)
	require.Len(t, problems, 1)
	assert.True(t, strings.HasPrefix(problems[0], "/total_electricidad"))
}
