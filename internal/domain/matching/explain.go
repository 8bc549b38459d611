package matching

import (
	"strings"

	"skillswap/internal/domain/skill"
)

type Explanation struct {
	MatchedSkills []skill.Ref
	Similarity    float64
	Rating        float64
	Activity      float64
	Compatibility float64
	Weights       Weights
	Reasons       []string
	Summary       string
}

const fallbackReason = "potential match"

func explain(matched []skill.Ref, m Match, w Weights) Explanation {
	reasons := make([]string, 0, 3)

	switch {
	case m.Similarity > 0.8:
		reasons = append(reasons, "excellent skill match")
	case m.Similarity > 0.6:
		reasons = append(reasons, "good skill match")
	case m.Similarity > 0.4:
		reasons = append(reasons, "decent skill match")
	}

	if m.Rating != nil {
		switch {
		case *m.Rating >= 4.5:
			reasons = append(reasons, "highly rated mentor")
		case *m.Rating >= 4.0:
			reasons = append(reasons, "well-rated mentor")
		}
	}

	switch {
	case m.Activity > 0.7:
		reasons = append(reasons, "very active mentor")
	case m.Activity > 0.4:
		reasons = append(reasons, "active mentor")
	}

	if len(reasons) == 0 {
		reasons = append(reasons, fallbackReason)
	}

	summary := "Recommended because: " + strings.Join(reasons, ", ")
	if len(matched) > 0 {
		names := make([]string, 0, len(matched))
		for _, r := range matched {
			names = append(names, r.Name)
		}
		summary += "; teaches " + strings.Join(names, ", ")
	}

	return Explanation{
		MatchedSkills: matched,
		Similarity:    m.Similarity,
		Rating:        m.EffectiveRating,
		Activity:      m.Activity,
		Compatibility: m.Compatibility,
		Weights:       w,
		Reasons:       reasons,
		Summary:       summary,
	}
}
