package model

// Segment names a customer category derived from the three RFM scores.
type Segment string

const (
	SegmentChampions          Segment = "Champions"
	SegmentCantLoseThem       Segment = "Can't Lose Them"
	SegmentLoyalCustomers     Segment = "Loyal Customers"
	SegmentPotentialLoyalists Segment = "Potential Loyalists"
	SegmentNewCustomers       Segment = "New Customers"
	SegmentAtRiskCustomers    Segment = "At Risk Customers"
	SegmentLostCustomers      Segment = "Lost Customers"
)

// Assignment binds a customer to exactly one segment.
type Assignment struct {
	CustomerID string
	Segment    Segment
}
