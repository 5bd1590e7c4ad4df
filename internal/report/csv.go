// Package report writes the segmented table and a JSON run summary for
// the downstream reporting and visualization tooling.
package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/rfmkit-dev/rfmkit/internal/model"
)

// Header is the CSV header for the segmented customer table.
const Header = "customer_id,recency,frequency,monetary,r_score,f_score,m_score,rfm_code,segment"

const (
	numFields    = 9
	colCustomer  = 0
	colRecency   = 1
	colFrequency = 2
	colMonetary  = 3
	colRScore    = 4
	colFScore    = 5
	colMScore    = 6
	colCode      = 7
	colSegment   = 8
)

// WriteTable writes the segmented customer table as CSV. Scored and
// assignments must be index-aligned, as produced by the pipeline.
func WriteTable(w io.Writer, scored []model.ScoredRFM, assignments []model.Assignment) error {
	if len(scored) != len(assignments) {
		return fmt.Errorf("scored rows (%d) and assignments (%d) out of step", len(scored), len(assignments))
	}

	cw := csv.NewWriter(w)
	defer cw.Flush()

	if err := cw.Write(strings.Split(Header, ",")); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for i, s := range scored {
		if err := cw.Write(marshalRow(s, assignments[i].Segment)); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	return cw.Error()
}

func marshalRow(s model.ScoredRFM, seg model.Segment) []string {
	row := make([]string, numFields)
	row[colCustomer] = s.CustomerID
	row[colRecency] = strconv.Itoa(s.Recency)
	row[colFrequency] = strconv.Itoa(s.Frequency)
	row[colMonetary] = s.Monetary.StringFixed(2)
	row[colRScore] = strconv.Itoa(s.RScore)
	row[colFScore] = strconv.Itoa(s.FScore)
	row[colMScore] = strconv.Itoa(s.MScore)
	row[colCode] = s.Code()
	row[colSegment] = string(seg)
	return row
}
