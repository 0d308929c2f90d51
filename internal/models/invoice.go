package models

import (
	"time"

	"github.com/google/uuid"
)

// Value used for optional invoice fields the model could not find.
const AbsentValue = "0"

// InvoiceFields holds the values extracted from a gas/electricity invoice.
// Dates are YYYY-MM-DD, amounts "XX.XX Eur", consumption "XX kWh".
type InvoiceFields struct {
	FechaFactura                  string `json:"fecha_factura"`
	FechaDesde                    string `json:"fecha_desde"`
	FechaHasta                    string `json:"fecha_hasta"`
	ConsumoKWh                    string `json:"consumo_kWh"`
	CuotaFijaSinIVA               string `json:"cuota_fija_sin_iva"`
	CuotaVariableSinIVA           string `json:"cuota_variable_sin_iva"`
	AlquilerContadorSinIVA        string `json:"alquiler_contador_sin_iva"`
	ImpuestoEspHidrocarburoSinIVA string `json:"impuesto_esp_hidrocarburo_sin_iva"`
	DescuentoGas                  string `json:"descuento_gas"`
	TotalElectricidad             string `json:"total_electricidad"`
}

// ApplyDefaults sets every empty optional field to AbsentValue.
func (f *InvoiceFields) ApplyDefaults() {
	for _, p := range []*string{
		&f.AlquilerContadorSinIVA,
		&f.ImpuestoEspHidrocarburoSinIVA,
		&f.DescuentoGas,
		&f.TotalElectricidad,
	} {
		if *p == "" {
			*p = AbsentValue
		}
	}
}

type Extraction struct {
	ID          uuid.UUID `db:"id"`
	DocumentID  uuid.UUID `db:"document_id"`
	FileName    string    `db:"-"`
	Fields      InvoiceFields
	RawResponse string    `db:"raw_response"`
	Valid       bool      `db:"valid"`
	CreatedAt   time.Time `db:"created_at"`
}
