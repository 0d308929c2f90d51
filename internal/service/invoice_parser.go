package service

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"sync"
	"time"

	"invoice-rag/internal/models"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

const invoiceSchemaJSON = `{
  "type": "object",
  "required": [
    "fecha_factura", "fecha_desde", "fecha_hasta", "consumo_kWh",
    "cuota_fija_sin_iva", "cuota_variable_sin_iva", "alquiler_contador_sin_iva",
    "impuesto_esp_hidrocarburo_sin_iva", "descuento_gas", "total_electricidad"
  ],
  "properties": {
    "fecha_factura": {"$ref": "#/$defs/date"},
    "fecha_desde": {"$ref": "#/$defs/date"},
    "fecha_hasta": {"$ref": "#/$defs/date"},
    "consumo_kWh": {"type": "string", "pattern": "^\\d+(\\.\\d{1,2})? kWh$"},
    "cuota_fija_sin_iva": {"$ref": "#/$defs/amount"},
    "cuota_variable_sin_iva": {"$ref": "#/$defs/amount"},
    "alquiler_contador_sin_iva": {"$ref": "#/$defs/optionalAmount"},
    "impuesto_esp_hidrocarburo_sin_iva": {"$ref": "#/$defs/optionalAmount"},
    "descuento_gas": {"$ref": "#/$defs/optionalAmount"},
    "total_electricidad": {"$ref": "#/$defs/optionalAmount"}
  },
  "$defs": {
    "date": {"type": "string", "pattern": "^\\d{4}-\\d{2}-\\d{2}$"},
    "amount": {"type": "string", "pattern": "^-?\\d+(\\.\\d{1,2})? Eur$"},
    "optionalAmount": {"type": "string", "pattern": "^(0|-?\\d+(\\.\\d{1,2})? Eur)$"}
  }
}`

var (
	invoiceSchemaOnce sync.Once
	invoiceSchema     *jsonschema.Schema
	invoiceSchemaErr  error
)

func compiledInvoiceSchema() (*jsonschema.Schema, error) {
	invoiceSchemaOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		if err := compiler.AddResource("invoice.json", strings.NewReader(invoiceSchemaJSON)); err != nil {
			invoiceSchemaErr = fmt.Errorf("add schema: %w", err)
			return
		}
		invoiceSchema, invoiceSchemaErr = compiler.Compile("invoice.json")
	})
	return invoiceSchema, invoiceSchemaErr
}

var dateLayouts = []string{"2006-01-02", "02/01/2006", "02-01-2006", "02.01.2006", "2006/01/02"}

// ParseInvoiceFields pulls the JSON object out of a model answer, normalises
// the values to the documented formats and validates them. Validation
// problems are returned as messages; err is only set when no JSON object
// could be decoded.
func ParseInvoiceFields(raw string) (models.InvoiceFields, []string, error) {
	var fields models.InvoiceFields

	obj, err := extractJSONObject(raw)
	if err != nil {
		return fields, nil, err
	}

	fields = models.InvoiceFields{
		FechaFactura:                  normalizeDate(obj["fecha_factura"]),
		FechaDesde:                    normalizeDate(obj["fecha_desde"]),
		FechaHasta:                    normalizeDate(obj["fecha_hasta"]),
		ConsumoKWh:                    normalizeQuantity(obj["consumo_kWh"], "kWh"),
		CuotaFijaSinIVA:               normalizeQuantity(obj["cuota_fija_sin_iva"], "Eur"),
		CuotaVariableSinIVA:           normalizeQuantity(obj["cuota_variable_sin_iva"], "Eur"),
		AlquilerContadorSinIVA:        normalizeOptionalQuantity(obj["alquiler_contador_sin_iva"], "Eur"),
		ImpuestoEspHidrocarburoSinIVA: normalizeOptionalQuantity(obj["impuesto_esp_hidrocarburo_sin_iva"], "Eur"),
		DescuentoGas:                  normalizeOptionalQuantity(obj["descuento_gas"], "Eur"),
		TotalElectricidad:             normalizeOptionalQuantity(obj["total_electricidad"], "Eur"),
	}
	fields.ApplyDefaults()

	problems, err := ValidateInvoiceFields(fields)
	if err != nil {
		return fields, nil, err
	}
	return fields, problems, nil
}

// ValidateInvoiceFields checks fields against the invoice JSON schema.
func ValidateInvoiceFields(fields models.InvoiceFields) ([]string, error) {
	schema, err := compiledInvoiceSchema()
	if err != nil {
		return nil, err
	}

	b, err := json.Marshal(fields)
	if err != nil {
		return nil, fmt.Errorf("marshal fields: %w", err)
	}
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return nil, fmt.Errorf("unmarshal fields: %w", err)
	}

	if err := schema.Validate(v); err != nil {
		ve, ok := err.(*jsonschema.ValidationError)
		if !ok {
			return nil, err
		}
		return leafMessages(ve), nil
	}
	return nil, nil
}

func leafMessages(ve *jsonschema.ValidationError) []string {
	if len(ve.Causes) == 0 {
		return []string{fmt.Sprintf("%s: %s", ve.InstanceLocation, ve.Message)}
	}
	var out []string
	for _, cause := range ve.Causes {
		out = append(out, leafMessages(cause)...)
	}
	return out
}

func extractJSONObject(raw string) (map[string]any, error) {
	content := strings.TrimSpace(raw)
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(content, "```")

	jsonStart := strings.Index(content, "{")
	jsonEnd := strings.LastIndex(content, "}")
	if jsonStart == -1 || jsonEnd < jsonStart {
		return nil, fmt.Errorf("%w: no JSON object in model output", ErrInvalidResponse)
	}

	var obj map[string]any
	if err := json.Unmarshal([]byte(content[jsonStart:jsonEnd+1]), &obj); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}
	return obj, nil
}

func normalizeDate(v any) string {
	s, ok := v.(string)
	if !ok {
		return ""
	}
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format("2006-01-02")
		}
	}
	return s
}

// normalizeQuantity renders v as "<n.nn> <unit>". A literal zero stays "0"
// and values that cannot be read as a number are returned trimmed so that
// validation reports them.
func normalizeQuantity(v any, unit string) string {
	switch t := v.(type) {
	case nil:
		return ""
	case float64:
		if t == 0 {
			return models.AbsentValue
		}
		return fmt.Sprintf("%.2f %s", t, unit)
	case string:
		s := strings.TrimSpace(t)
		if s == "" || strings.EqualFold(s, "null") {
			return ""
		}
		if s == models.AbsentValue {
			return s
		}
		n, ok := parseLocaleNumber(s, unit)
		if !ok {
			return s
		}
		return fmt.Sprintf("%.2f %s", n, unit)
	default:
		return ""
	}
}

// Answers models give for "not on the invoice".
var absentPlaceholders = map[string]bool{
	"-": true, "--": true, "n/a": true, "na": true, "n/d": true,
	"none": true, "ninguno": true, "ninguna": true, "no aplica": true,
	"no disponible": true, "sin datos": true,
}

// normalizeOptionalQuantity is normalizeQuantity for fields that default to
// AbsentValue.
func normalizeOptionalQuantity(v any, unit string) string {
	if s, ok := v.(string); ok && absentPlaceholders[strings.ToLower(strings.TrimSpace(s))] {
		return models.AbsentValue
	}
	return normalizeQuantity(v, unit)
}

// parseLocaleNumber reads amounts such as "1.234,56 €", "12,5 Eur",
// "1,2 MWh", "1.234 kWh" or "48.30 kWh". Only the suffixes of unit are
// accepted. A single comma is a decimal separator, a single dot followed by
// exactly three digits groups thousands.
func parseLocaleNumber(s, unit string) (float64, bool) {
	lower := strings.ToLower(strings.TrimSpace(s))
	factor := 1.0

	switch unit {
	case "kWh":
		switch {
		case strings.HasSuffix(lower, "mwh"):
			factor = 1000
			lower = strings.TrimSuffix(lower, "mwh")
		case strings.HasSuffix(lower, "kwh"):
			lower = strings.TrimSuffix(lower, "kwh")
		}
	case "Eur":
		for _, suffix := range []string{"euros", "eur", "€"} {
			lower = strings.TrimSuffix(strings.TrimSpace(lower), suffix)
		}
		lower = strings.TrimPrefix(strings.TrimSpace(lower), "€")
	}
	lower = strings.ReplaceAll(lower, " ", "")

	lastComma := strings.LastIndex(lower, ",")
	lastDot := strings.LastIndex(lower, ".")
	switch {
	case lastComma >= 0 && lastDot >= 0:
		if lastComma > lastDot {
			lower = strings.ReplaceAll(lower, ".", "")
			lower = strings.Replace(lower, ",", ".", 1)
		} else {
			lower = strings.ReplaceAll(lower, ",", "")
		}
	case lastComma >= 0:
		if strings.Count(lower, ",") > 1 {
			lower = strings.ReplaceAll(lower, ",", "")
		} else {
			lower = strings.Replace(lower, ",", ".", 1)
		}
	case strings.Count(lower, ".") > 1, isThousandsGroup(lower):
		lower = strings.ReplaceAll(lower, ".", "")
	}

	n, err := strconv.ParseFloat(lower, 64)
	if err != nil || math.IsNaN(n) || math.IsInf(n, 0) {
		return 0, false
	}
	return n * factor, true
}

// isThousandsGroup reports whether s looks like "1.234" or "-12.345": one
// dot, a non-zero integer part of up to three digits and exactly three
// digits after the dot.
func isThousandsGroup(s string) bool {
	intPart, frac, ok := strings.Cut(strings.TrimPrefix(s, "-"), ".")
	if !ok || len(frac) != 3 || intPart == "" || len(intPart) > 3 || strings.TrimLeft(intPart, "0") == "" {
		return false
	}
	return isDigits(intPart) && isDigits(frac)
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != ""
}
