package tables

import "github.com/JonMunkholm/resolutions/internal/core"

// Search table columns.
const (
	ColSearchCitation   = "NUMERO_COMPARENDO"
	ColTargetResolution = "NUMERO_RESOLUCION"
	ColTargetDate       = "FECHA_RESOLUCION"
)

func init() {
	registerSearch()
}

// SearchFieldSpecs lists the citations to resolve. The target date is typed
// as a date so XLSX date cells load as ISO text; the value is still copied
// verbatim into the superseding record and never ranked.
var SearchFieldSpecs = []core.FieldSpec{
	{Name: ColSearchCitation, Type: core.FieldText, Required: true, Normalizer: NormalizeCitation},
	{Name: ColTargetResolution, Type: core.FieldText, Required: true},
	{Name: ColTargetDate, Type: core.FieldDate, Required: true},
}

func registerSearch() {
	core.Register(core.TableDefinition{
		Info: core.TableInfo{
			Key:   SearchKey,
			Label: "Citations to resolve",
		},
		FieldSpecs: SearchFieldSpecs,
	})
}
