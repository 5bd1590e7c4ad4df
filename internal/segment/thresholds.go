package segment

import "fmt"

// Thresholds parameterize the segment rules as score cut points. They
// are configuration: tuning a boundary never changes rule structure.
type Thresholds struct {
	Top  int `yaml:"top"`  // best tier, default bins
	High int `yaml:"high"` // default bins-1
	Mid  int `yaml:"mid"`  // default ceil(bins/2)
	Low  int `yaml:"low"`  // default 2
	Min  int `yaml:"min"`  // worst tier, default 1
}

// DefaultThresholds derives cut points from the bin count.
func DefaultThresholds(bins int) Thresholds {
	t := Thresholds{
		Top:  bins,
		High: bins - 1,
		Mid:  (bins + 1) / 2,
		Low:  2,
		Min:  1,
	}
	if t.High < 1 {
		t.High = 1
	}
	// Keep the ordering Min <= Low <= Mid <= High <= Top at tiny bin counts.
	if t.Low > t.Mid {
		t.Low = t.Mid
	}
	return t
}

// Validate checks the thresholds are usable for the given bin count:
// each inside [1, bins] and ordered Min <= Low <= Mid <= High <= Top.
func (t Thresholds) Validate(bins int) error {
	for _, v := range []struct {
		name  string
		value int
	}{
		{"top", t.Top}, {"high", t.High}, {"mid", t.Mid}, {"low", t.Low}, {"min", t.Min},
	} {
		if v.value < 1 || v.value > bins {
			return fmt.Errorf("threshold %s=%d outside [1, %d]", v.name, v.value, bins)
		}
	}
	if t.Min > t.Low || t.Low > t.Mid || t.Mid > t.High || t.High > t.Top {
		return fmt.Errorf("thresholds not ordered: min=%d low=%d mid=%d high=%d top=%d",
			t.Min, t.Low, t.Mid, t.High, t.Top)
	}
	return nil
}
