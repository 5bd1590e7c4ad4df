// Package segment maps scored RFM records to named customer segments
// through an ordered rule list with a terminal catch-all, so every
// possible score triple lands in exactly one segment.
package segment

import (
	"fmt"

	"github.com/rfmkit-dev/rfmkit/internal/model"
)

// Rule pairs a segment with its membership predicate over a score triple.
type Rule struct {
	Segment model.Segment
	Shape   string // human-readable rule shape for listings
	Matches func(r, f, m int) bool
}

// Rules builds the ordered rule set for the given thresholds. Evaluation
// is first-match-wins; the final rule matches everything, which makes the
// classifier total without any runtime check.
func Rules(t Thresholds) []Rule {
	return []Rule{
		{
			Segment: model.SegmentChampions,
			Shape:   fmt.Sprintf("r>=%d and f>=%d and m>=%d", t.Top, t.Top, t.Top),
			Matches: func(r, f, m int) bool { return r >= t.Top && f >= t.Top && m >= t.Top },
		},
		{
			// Big spenders gone quiet.
			Segment: model.SegmentCantLoseThem,
			Shape:   fmt.Sprintf("m>=%d and r<=%d", t.High, t.Low),
			Matches: func(r, f, m int) bool { return m >= t.High && r <= t.Low },
		},
		{
			Segment: model.SegmentLoyalCustomers,
			Shape:   fmt.Sprintf("f>=%d and r>=%d", t.High, t.Mid),
			Matches: func(r, f, m int) bool { return f >= t.High && r >= t.Mid },
		},
		{
			Segment: model.SegmentPotentialLoyalists,
			Shape:   fmt.Sprintf("r>=%d and f>=%d and m>=%d", t.High, t.Low, t.Low),
			Matches: func(r, f, m int) bool { return r >= t.High && f >= t.Low && m >= t.Low },
		},
		{
			// Single recent purchase, whatever it was worth.
			Segment: model.SegmentNewCustomers,
			Shape:   fmt.Sprintf("r>=%d and f<=%d", t.High, t.Min),
			Matches: func(r, f, m int) bool { return r >= t.High && f <= t.Min },
		},
		{
			Segment: model.SegmentAtRiskCustomers,
			Shape:   fmt.Sprintf("r<=%d and f>=%d", t.Mid, t.Mid),
			Matches: func(r, f, m int) bool { return r <= t.Mid && f >= t.Mid },
		},
		{
			Segment: model.SegmentLostCustomers,
			Shape:   "default",
			Matches: func(r, f, m int) bool { return true },
		},
	}
}

// Classify assigns each scored record to the first matching rule's
// segment. Output order follows input order.
func Classify(scored []model.ScoredRFM, rules []Rule) []model.Assignment {
	assignments := make([]model.Assignment, len(scored))
	for i, s := range scored {
		assignments[i] = model.Assignment{
			CustomerID: s.CustomerID,
			Segment:    match(rules, s.RScore, s.FScore, s.MScore),
		}
	}
	return assignments
}

func match(rules []Rule, r, f, m int) model.Segment {
	for _, rule := range rules {
		if rule.Matches(r, f, m) {
			return rule.Segment
		}
	}
	// Unreachable with a Rules()-built set; the catch-all matched above.
	return model.SegmentLostCustomers
}

// Recommendation returns the marketing action suggested for a segment.
func Recommendation(s model.Segment) string {
	switch s {
	case model.SegmentChampions:
		return "Reward them: VIP perks, early access, premium offers"
	case model.SegmentCantLoseThem:
		return "High stakes: strong offers, personal outreach, feedback calls"
	case model.SegmentLoyalCustomers:
		return "Keep them engaged: tiered loyalty programs, exclusive discounts"
	case model.SegmentPotentialLoyalists:
		return "Nurture them: recommendations, educational content, gentle offers"
	case model.SegmentNewCustomers:
		return "Welcome properly: onboarding series, first-purchase discount"
	case model.SegmentAtRiskCustomers:
		return "Bring them back: 'We miss you' emails, 15-20% discounts"
	case model.SegmentLostCustomers:
		return "Last try: surveys to learn why they left, comeback deals"
	}
	return "Broad marketing: newsletters, brand awareness campaigns"
}
