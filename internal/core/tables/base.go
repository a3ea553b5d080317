package tables

import "github.com/JonMunkholm/resolutions/internal/core"

// Base table columns the reconciliation reads or rewrites.
const (
	ColRecordSeq          = "Consecutivo de registro"
	ColResolutionNumber   = "Número de la resolucion"
	ColPriorResolution    = "Número de resolucion anterior"
	ColResolutionDate     = "Fecha de la resolución"
	ColResolutionTypeCode = "Código del tipo de resolución"
	ColCitationNumber     = "Número Comparendo"
	ColCitationDate       = "Fecha Comparendo"
	ColTotalAmount        = "Valor total de la resolución"
)

func init() {
	registerBase()
}

// BaseFieldSpecs is the registry export layout. Every column the
// reconciliation reads or rewrites is required.
var BaseFieldSpecs = []core.FieldSpec{
	{Name: ColRecordSeq, Type: core.FieldNumeric},
	{Name: ColResolutionNumber, Type: core.FieldText, Required: true},
	{Name: ColPriorResolution, Type: core.FieldText, Required: true},
	{Name: ColResolutionDate, Type: core.FieldDate, Required: true},
	{Name: ColResolutionTypeCode, Type: core.FieldText, Required: true},
	{Name: "Fecha hasta en suspensiones", Type: core.FieldDate},
	{Name: ColCitationNumber, Type: core.FieldText, Required: true, Normalizer: NormalizeCitation},
	{Name: ColCitationDate, Type: core.FieldDate},
	{Name: "NIP del infractor", Type: core.FieldText},
	{Name: "Código del tipo documento", Type: core.FieldText},
	{Name: "Nombre del infractor", Type: core.FieldText},
	{Name: "Apellido del infractor", Type: core.FieldText},
	{Name: "Direccion del infractor", Type: core.FieldText},
	{Name: "Telefono del Infractor", Type: core.FieldText},
	{Name: "Codigo de la ciudad residencia", Type: core.FieldText},
	{Name: ColTotalAmount, Type: core.FieldNumeric},
	{Name: "Valores adicionales.", Type: core.FieldNumeric},
	{Name: "Fotomulta S o N", Type: core.FieldText},
	{Name: "Código organismo que reporta", Type: core.FieldText},
	{Name: "Comparendo Policia de carreteras S o N", Type: core.FieldText},
	{Name: "Código de infracción(*)", Type: core.FieldText},
	{Name: "Valor de la infracción(*)", Type: core.FieldNumeric},
	{Name: "Valor a pagar infraccion(*)", Type: core.FieldNumeric},
	{Name: "Grado de alcoholemia", Type: core.FieldText},
	{Name: "Horas comunitarias", Type: core.FieldText},
}

func registerBase() {
	core.Register(core.TableDefinition{
		Info: core.TableInfo{
			Key:   BaseKey,
			Label: "Resolution registry",
		},
		FieldSpecs: BaseFieldSpecs,
	})
}
