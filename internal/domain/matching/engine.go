package matching

import (
	"bytes"
	"errors"
	"fmt"
	"math"
	"sort"

	"skillswap/internal/domain/skill"

	"github.com/google/uuid"
)

const (
	// DefaultRating stands in for a mentor without reviews (mid-point of 1..5).
	DefaultRating  = 3.5
	MaxRating      = 5.0
	ActivityTarget = 10
	ActivityDays   = 90

	MinTopN = 1
	MaxTopN = 10
)

var (
	ErrInvalidTopN    = errors.New("top_n out of range")
	ErrInvalidWeights = errors.New("weights must be non-negative and sum to 1")
)

type Weights struct {
	Similarity float64
	Rating     float64
	Activity   float64
}

var DefaultWeights = Weights{Similarity: 0.5, Rating: 0.3, Activity: 0.2}

func (w Weights) Validate() error {
	if w.Similarity < 0 || w.Rating < 0 || w.Activity < 0 {
		return ErrInvalidWeights
	}
	if math.Abs(w.Similarity+w.Rating+w.Activity-1) > 1e-9 {
		return ErrInvalidWeights
	}
	return nil
}

type Candidate struct {
	MentorID        uuid.UUID
	MentorName      string
	TeachSkills     []skill.Ref
	AverageRating   *float64
	TotalReviews    int
	RecentCompleted int
}

type Match struct {
	MentorID        uuid.UUID
	MentorName      string
	Similarity      float64
	Rating          *float64
	EffectiveRating float64
	TotalReviews    int
	Activity        float64
	Compatibility   float64
	Rank            int
	TeachingSkills  []skill.Ref
	Explanation     Explanation
}

type Scorer struct {
	weights Weights
}

func NewScorer(w Weights) (*Scorer, error) {
	if err := w.Validate(); err != nil {
		return nil, err
	}
	return &Scorer{weights: w}, nil
}

func (s *Scorer) Weights() Weights {
	return s.weights
}

func ValidateTopN(n int) error {
	if n < MinTopN || n > MaxTopN {
		return fmt.Errorf("%w: %d not in [%d,%d]", ErrInvalidTopN, n, MinTopN, MaxTopN)
	}
	return nil
}

// Score computes every component for one candidate against the learner's
// desired skills. It does not filter on overlap.
func (s *Scorer) Score(desired []skill.Ref, c Candidate) Match {
	matched := Overlap(desired, c.TeachSkills)
	sim := Similarity(len(matched), distinctCount(desired))
	eff := EffectiveRating(c.AverageRating)
	act := ActivityScore(c.RecentCompleted)

	compat := clamp01(
		s.weights.Similarity*sim +
			s.weights.Rating*(eff/MaxRating) +
			s.weights.Activity*act,
	)

	teaching := append([]skill.Ref(nil), c.TeachSkills...)
	skill.SortRefs(teaching)

	m := Match{
		MentorID:        c.MentorID,
		MentorName:      c.MentorName,
		Similarity:      sim,
		Rating:          c.AverageRating,
		EffectiveRating: eff,
		TotalReviews:    c.TotalReviews,
		Activity:        act,
		Compatibility:   compat,
		TeachingSkills:  teaching,
	}
	m.Explanation = explain(matched, m, s.weights)
	return m
}

// Rank scores candidates, drops those sharing no skill with desired, orders
// them and truncates to topN. An empty desired set yields an empty result.
func (s *Scorer) Rank(desired []skill.Ref, cands []Candidate, topN int) ([]Match, error) {
	if err := ValidateTopN(topN); err != nil {
		return nil, err
	}
	out := make([]Match, 0, len(cands))
	if len(desired) == 0 {
		return out, nil
	}

	seen := make(map[uuid.UUID]struct{}, len(cands))
	for _, c := range cands {
		if _, ok := seen[c.MentorID]; ok {
			continue
		}
		seen[c.MentorID] = struct{}{}

		m := s.Score(desired, c)
		if len(m.Explanation.MatchedSkills) == 0 {
			continue
		}
		out = append(out, m)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return better(out[i], out[j])
	})
	if len(out) > topN {
		out = out[:topN]
	}
	for i := range out {
		out[i].Rank = i + 1
	}
	return out, nil
}

func better(a, b Match) bool {
	if a.Compatibility != b.Compatibility {
		return a.Compatibility > b.Compatibility
	}
	if a.EffectiveRating != b.EffectiveRating {
		return a.EffectiveRating > b.EffectiveRating
	}
	return bytes.Compare(a.MentorID[:], b.MentorID[:]) < 0
}

// Overlap returns the desired skills the mentor teaches, ordered by name then id.
func Overlap(desired, teach []skill.Ref) []skill.Ref {
	teaches := make(map[uuid.UUID]struct{}, len(teach))
	for _, t := range teach {
		teaches[t.ID] = struct{}{}
	}
	seen := make(map[uuid.UUID]struct{}, len(desired))
	out := make([]skill.Ref, 0)
	for _, d := range desired {
		if _, ok := seen[d.ID]; ok {
			continue
		}
		seen[d.ID] = struct{}{}
		if _, ok := teaches[d.ID]; ok {
			out = append(out, d)
		}
	}
	skill.SortRefs(out)
	return out
}

// Similarity is the share of the learner's desired skills the mentor covers.
func Similarity(matched, desired int) float64 {
	if desired <= 0 {
		return 0
	}
	return clamp01(float64(matched) / float64(desired))
}

func EffectiveRating(avg *float64) float64 {
	if avg == nil {
		return DefaultRating
	}
	return math.Max(0, math.Min(MaxRating, *avg))
}

func ActivityScore(recentCompleted int) float64 {
	if recentCompleted <= 0 {
		return 0
	}
	return clamp01(float64(recentCompleted) / ActivityTarget)
}

func distinctCount(refs []skill.Ref) int {
	seen := make(map[uuid.UUID]struct{}, len(refs))
	for _, r := range refs {
		seen[r.ID] = struct{}{}
	}
	return len(seen)
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
