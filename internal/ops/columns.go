package ops

// Spreadsheet column headers. Export writes exportColumns in order; import
// reads the same headers plus the import-only value and interest columns.
const (
	ColName          = "Nome"
	ColIfoodLink     = "Link iFood"
	ColGoogleLink    = "Link Google"
	ColInstagram     = "Instagram"
	ColWhatsApp      = "WhatsApp"
	ColStatus        = "Status"
	ColPaymentMethod = "Forma de Pagamento"
	ColNotes         = "Observações"
	ColCreatedAt     = "Criado em"
	ColUpdatedAt     = "Atualizado em"

	ColValue         = "Valor do Projeto"
	ColInterestLevel = "Nível de Interesse"
)

// ExportSheetName is the sheet name of exported workbooks.
const ExportSheetName = "Clientes"

var exportColumns = []string{
	ColName,
	ColIfoodLink,
	ColGoogleLink,
	ColInstagram,
	ColWhatsApp,
	ColStatus,
	ColPaymentMethod,
	ColNotes,
	ColCreatedAt,
	ColUpdatedAt,
}

// exportWidths are the column widths in characters, aligned with exportColumns.
var exportWidths = []float64{25, 40, 40, 30, 15, 15, 20, 50, 12, 12}

// ExportColumns returns the exported headers in order.
func ExportColumns() []string {
	out := make([]string, len(exportColumns))
	copy(out, exportColumns)
	return out
}
