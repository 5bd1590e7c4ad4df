package model

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// CustomerRFM holds the raw recency/frequency/monetary metrics for one
// customer, measured against a snapshot date. Immutable after aggregation.
type CustomerRFM struct {
	CustomerID string
	Recency    int // days since last purchase, always >= 1
	Frequency  int // distinct invoices
	Monetary   decimal.Decimal
}

// ScoredRFM extends CustomerRFM with ordinal tier scores in [1, bins].
type ScoredRFM struct {
	CustomerRFM
	RScore int
	FScore int
	MScore int
}

// Code returns the combined score string, e.g. "555".
func (s ScoredRFM) Code() string {
	return fmt.Sprintf("%d%d%d", s.RScore, s.FScore, s.MScore)
}
