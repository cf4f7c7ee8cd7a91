package sheet

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func sampleTable() Table {
	return Table{
		Sheet:   "Clientes",
		Headers: []string{"Nome", "Status", "Criado em"},
		Rows: [][]string{
			{"Pizza Place", "Fechado", "01/01/2024"},
			{"Açaí do Zé", "", "15/03/2024"},
		},
		Widths: []float64{25, 15, 12},
	}
}

func TestWriteReadXLSX_RoundTrip(t *testing.T) {
	data, err := WriteTable(sampleTable(), FormatXLSX)
	require.NoError(t, err)
	require.NotEmpty(t, data)

	rows, err := ReadTable(data, FormatXLSX)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, "Pizza Place", rows[0].Get("Nome"))
	assert.Equal(t, "Fechado", rows[0].Get("Status"))
	assert.Equal(t, "01/01/2024", rows[0].Get("Criado em"))

	// empty cell is absent, not ""
	_, present := rows[1]["Status"]
	assert.False(t, present)
	assert.Equal(t, "", rows[1].Get("Status"))
	assert.Equal(t, "Açaí do Zé", rows[1].Get("Nome"))
}

func TestWriteXLSX_SheetNameAndWidths(t *testing.T) {
	data, err := WriteTable(sampleTable(), FormatXLSX)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytesReader(data))
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{"Clientes"}, f.GetSheetList())

	w, err := f.GetColWidth("Clientes", "A")
	require.NoError(t, err)
	assert.InDelta(t, 25, w, 0.01)
}

func TestWriteReadCSV_RoundTrip(t *testing.T) {
	data, err := WriteTable(sampleTable(), FormatCSV)
	require.NoError(t, err)

	rows, err := ReadTable(data, FormatCSV)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Pizza Place", rows[0].Get("Nome"))
	assert.Equal(t, "15/03/2024", rows[1].Get("Criado em"))
}

func TestReadCSV_BOMAndBlankRows(t *testing.T) {
	data := append([]byte{0xEF, 0xBB, 0xBF}, []byte("Nome,Valor do Projeto\n\n,\nPizza Place,500\nShort\n")...)

	rows, err := ReadTable(data, FormatCSV)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Pizza Place", rows[0].Get("Nome"))
	assert.Equal(t, "500", rows[0].Get("Valor do Projeto"))
	assert.Equal(t, "Short", rows[1].Get("Nome"))
	assert.Equal(t, "", rows[1].Get("Valor do Projeto"))
}

func TestReadCSV_SemicolonDelimited(t *testing.T) {
	data := []byte("\ufeffNome;Status;Observações\n\"Pizza; Place\";Fechado;\"a, b\"\nBurger Joint;Contatado;\n")

	rows, err := ReadTable(data, FormatCSV)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Pizza; Place", rows[0].Get("Nome"))
	assert.Equal(t, "Fechado", rows[0].Get("Status"))
	assert.Equal(t, "a, b", rows[0].Get("Observações"))
	assert.Equal(t, "Burger Joint", rows[1].Get("Nome"))
}

func TestSniffComma(t *testing.T) {
	tests := []struct {
		in   string
		want rune
	}{
		{"Nome,Status\n", ','},
		{"Nome;Status;Valor do Projeto\n", ';'},
		{"\n\nNome;Status\n", ';'},
		{"\"Nome;x\",Status\n", ','},
		{"Nome\n", ','},
		{"", ','},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, sniffComma([]byte(tc.in)), "sniffComma(%q)", tc.in)
	}
}

func TestReadTable_HeaderOnly(t *testing.T) {
	rows, err := ReadTable([]byte("Nome,Status\n"), FormatCSV)
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestReadTable_DuplicateHeaderFirstWins(t *testing.T) {
	rows, err := ReadTable([]byte("Nome,Nome\nfirst,second\n"), FormatCSV)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "first", rows[0].Get("Nome"))
}

func TestReadXLSX_Corrupt(t *testing.T) {
	for _, data := range [][]byte{nil, []byte("not a workbook"), []byte("PK\x03\x04garbage")} {
		_, err := ReadTable(data, FormatXLSX)
		assert.Error(t, err)
	}
}

func TestReadCSV_Malformed(t *testing.T) {
	_, err := ReadTable([]byte("Nome\n\"unterminated\n"), FormatCSV)
	assert.Error(t, err)
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat(" XLSX ")
	require.NoError(t, err)
	assert.Equal(t, FormatXLSX, f)

	_, err = ParseFormat("ods")
	assert.Error(t, err)
}

func TestFormatFromPath(t *testing.T) {
	tests := []struct {
		path    string
		want    Format
		wantErr bool
	}{
		{"/tmp/clientes.xlsx", FormatXLSX, false},
		{"clientes.CSV", FormatCSV, false},
		{"clientes.xls", "", true},
		{"clientes", "", true},
	}
	for _, tt := range tests {
		got, err := FormatFromPath(tt.path)
		if tt.wantErr {
			assert.Error(t, err, tt.path)
			continue
		}
		require.NoError(t, err, tt.path)
		assert.Equal(t, tt.want, got)
	}
	assert.Equal(t, ".xlsx", FormatXLSX.Extension())
}

func TestUnsupportedFormat(t *testing.T) {
	_, err := ReadTable([]byte("x"), Format("ods"))
	assert.Error(t, err)
	_, err = WriteTable(Table{}, Format("ods"))
	assert.Error(t, err)
}

func bytesReader(b []byte) *bytes.Reader { return bytes.NewReader(b) }
