package importer

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/rfmkit-dev/rfmkit/internal/model"
)

// Mapping binds the logical transaction fields to input column headers.
// Header comparison is exact; the mapping is configuration, not convention.
type Mapping struct {
	CustomerID  string `yaml:"customer_id"`
	InvoiceID   string `yaml:"invoice_id"`
	InvoiceDate string `yaml:"invoice_date"`
	Quantity    string `yaml:"quantity"`
	UnitPrice   string `yaml:"unit_price"`
}

// DefaultMapping matches the UCI Online Retail II export headers.
func DefaultMapping() Mapping {
	return Mapping{
		CustomerID:  "Customer ID",
		InvoiceID:   "Invoice",
		InvoiceDate: "InvoiceDate",
		Quantity:    "Quantity",
		UnitPrice:   "Price",
	}
}

// CSVParser parses a header-mapped transaction CSV.
type CSVParser struct {
	mapping Mapping
}

// NewCSVParser creates a CSVParser with the given column mapping.
func NewCSVParser(m Mapping) *CSVParser {
	return &CSVParser{mapping: m}
}

// Format returns the parser name.
func (p *CSVParser) Format() string { return "csv" }

// Parse reads a transaction CSV and returns raw rows in file order.
// The header row is resolved against the mapping; all required columns
// must be present or a SchemaError is returned.
func (p *CSVParser) Parse(r io.Reader) ([]model.RawRow, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1 // exports vary in trailing optional columns

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading transaction CSV: %w", err)
	}
	if len(records) == 0 {
		return nil, nil
	}

	cols, err := p.resolveHeader(records[0])
	if err != nil {
		return nil, err
	}

	var rows []model.RawRow
	for _, rec := range records[1:] {
		rows = append(rows, model.RawRow{
			CustomerID:  field(rec, cols.customerID),
			InvoiceID:   field(rec, cols.invoiceID),
			InvoiceDate: field(rec, cols.invoiceDate),
			Quantity:    field(rec, cols.quantity),
			UnitPrice:   field(rec, cols.unitPrice),
		})
	}
	return rows, nil
}

type columnIndexes struct {
	customerID  int
	invoiceID   int
	invoiceDate int
	quantity    int
	unitPrice   int
}

func (p *CSVParser) resolveHeader(header []string) (columnIndexes, error) {
	byName := make(map[string]int, len(header))
	for i, h := range header {
		byName[h] = i
	}

	cols := columnIndexes{}
	var missing []string
	resolve := func(name string) int {
		i, ok := byName[name]
		if !ok {
			missing = append(missing, name)
			return -1
		}
		return i
	}

	cols.customerID = resolve(p.mapping.CustomerID)
	cols.invoiceID = resolve(p.mapping.InvoiceID)
	cols.invoiceDate = resolve(p.mapping.InvoiceDate)
	cols.quantity = resolve(p.mapping.Quantity)
	cols.unitPrice = resolve(p.mapping.UnitPrice)

	if len(missing) > 0 {
		return columnIndexes{}, &SchemaError{Missing: missing}
	}
	return cols, nil
}

// field returns rec[i], tolerating short rows from ragged exports.
func field(rec []string, i int) string {
	if i < 0 || i >= len(rec) {
		return ""
	}
	return rec[i]
}
