// Package present classifies qualification results for display.
package present

import "go-qualifier/internal/models"

type Band string

const (
	HighlyQualified    Band = "highly_qualified"
	WellQualified      Band = "well_qualified"
	MinimallyQualified Band = "minimally_qualified"
	NotQualified       Band = "not_qualified"
	Failed             Band = "failed"
)

// Lower bounds are inclusive.
const (
	highlyQualifiedMin    = 8
	wellQualifiedMin      = 6
	minimallyQualifiedMin = 4
)

func ForScore(score float64) Band {
	switch {
	case score >= highlyQualifiedMin:
		return HighlyQualified
	case score >= wellQualifiedMin:
		return WellQualified
	case score >= minimallyQualifiedMin:
		return MinimallyQualified
	default:
		return NotQualified
	}
}

// Classify returns Failed for any result carrying an error, whatever its
// score.
func Classify(r models.QualificationResult) Band {
	if r.Failed() {
		return Failed
	}
	return ForScore(r.QualificationScore)
}

func (b Band) Label() string {
	switch b {
	case HighlyQualified:
		return "Highly Qualified"
	case WellQualified:
		return "Well Qualified"
	case MinimallyQualified:
		return "Minimally Qualified"
	case NotQualified:
		return "Not Qualified"
	case Failed:
		return "Qualification Failed"
	}
	return string(b)
}

type BandInfo struct {
	Band     Band    `json:"band"`
	Label    string  `json:"label"`
	MinScore float64 `json:"min_score"`
}

// Bands lists the score bands from highest to lowest.
func Bands() []BandInfo {
	return []BandInfo{
		{Band: HighlyQualified, Label: HighlyQualified.Label(), MinScore: highlyQualifiedMin},
		{Band: WellQualified, Label: WellQualified.Label(), MinScore: wellQualifiedMin},
		{Band: MinimallyQualified, Label: MinimallyQualified.Label(), MinScore: minimallyQualifiedMin},
		{Band: NotQualified, Label: NotQualified.Label(), MinScore: 0},
	}
}
