package importer

import (
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCSVParser_Parse(t *testing.T) {
	data, err := os.ReadFile("../../testdata/online_retail.csv")
	require.NoError(t, err)

	p := NewCSVParser(DefaultMapping())
	rows, err := p.Parse(strings.NewReader(string(data)))
	require.NoError(t, err)
	require.Len(t, rows, 9)

	assert.Equal(t, "17850", rows[0].CustomerID)
	assert.Equal(t, "536365", rows[0].InvoiceID)
	assert.Equal(t, "1/12/2010 8:26", rows[0].InvoiceDate)
	assert.Equal(t, "6", rows[0].Quantity)
	assert.Equal(t, "2.55", rows[0].UnitPrice)

	// Bad values pass through untouched; cleaning is not the parser's job.
	assert.Equal(t, "C536379", rows[2].InvoiceID)
	assert.Equal(t, "-1", rows[2].Quantity)
	assert.Equal(t, "", rows[4].CustomerID)
	assert.Equal(t, "not a date", rows[6].InvoiceDate)
}

func TestCSVParser_CustomMapping(t *testing.T) {
	csv := "cust,inv,when,qty,price\n42,1001,2010-12-01,3,9.99\n"
	p := NewCSVParser(Mapping{
		CustomerID:  "cust",
		InvoiceID:   "inv",
		InvoiceDate: "when",
		Quantity:    "qty",
		UnitPrice:   "price",
	})

	rows, err := p.Parse(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "42", rows[0].CustomerID)
	assert.Equal(t, "9.99", rows[0].UnitPrice)
}

func TestCSVParser_MissingColumns(t *testing.T) {
	csv := "Invoice,Quantity,Price\n536365,6,2.55\n"
	p := NewCSVParser(DefaultMapping())

	_, err := p.Parse(strings.NewReader(csv))
	require.Error(t, err)

	var schemaErr *SchemaError
	require.ErrorAs(t, err, &schemaErr)
	assert.ElementsMatch(t, []string{"Customer ID", "InvoiceDate"}, schemaErr.Missing)
}

func TestCSVParser_HeaderOnly(t *testing.T) {
	csv := "Invoice,StockCode,Description,Quantity,InvoiceDate,Price,Customer ID,Country\n"
	p := NewCSVParser(DefaultMapping())
	rows, err := p.Parse(strings.NewReader(csv))
	require.NoError(t, err)
	assert.Nil(t, rows)
}

func TestCSVParser_EmptyInput(t *testing.T) {
	p := NewCSVParser(DefaultMapping())
	rows, err := p.Parse(strings.NewReader(""))
	require.NoError(t, err)
	assert.Nil(t, rows)
}

func TestCSVParser_ShortRows(t *testing.T) {
	// A row missing trailing columns maps the absent fields to "".
	csv := "Invoice,Quantity,InvoiceDate,Price,Customer ID\n536365,6,1/12/2010 8:26,2.55\n"
	p := NewCSVParser(DefaultMapping())

	rows, err := p.Parse(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "", rows[0].CustomerID)
}

func TestRegistry(t *testing.T) {
	r := DefaultRegistry(DefaultMapping())
	assert.NotNil(t, r.Get("csv"))
	assert.NotNil(t, r.Get("CSV"))
	assert.Nil(t, r.Get("parquet"))
}

func TestDefaultRegistry_UsesGivenMapping(t *testing.T) {
	m := Mapping{
		CustomerID:  "cust",
		InvoiceID:   "inv",
		InvoiceDate: "when",
		Quantity:    "qty",
		UnitPrice:   "price",
	}

	p := DefaultRegistry(m).Get("csv")
	require.NotNil(t, p)

	rows, err := p.Parse(strings.NewReader("cust,inv,when,qty,price\n42,1001,2010-12-01,3,9.99\n"))
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "42", rows[0].CustomerID)
	assert.Equal(t, "1001", rows[0].InvoiceID)
}

func TestRegistry_DuplicatePanics(t *testing.T) {
	r := NewRegistry()
	r.Register(NewCSVParser(DefaultMapping()))
	assert.Panics(t, func() {
		r.Register(NewCSVParser(DefaultMapping()))
	})
}
