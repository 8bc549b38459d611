package dto

import (
	"skillswap/internal/domain/matching"
	"skillswap/internal/domain/skill"

	"github.com/google/uuid"
)

type SkillRefResponse struct {
	SkillID   uuid.UUID `json:"skill_id"`
	SkillName string    `json:"skill_name"`
}

type WeightsResponse struct {
	Similarity float64 `json:"similarity"`
	Rating     float64 `json:"rating"`
	Activity   float64 `json:"activity"`
}

type ExplanationResponse struct {
	MatchedSkills      []SkillRefResponse `json:"matched_skills"`
	SimilarityScore    float64            `json:"similarity_score"`
	RatingScore        float64            `json:"rating_score"`
	ActivityScore      float64            `json:"activity_score"`
	CompatibilityScore float64            `json:"compatibility_score"`
	Weights            WeightsResponse    `json:"weights"`
	Reasons            []string           `json:"reasons"`
	Summary            string             `json:"summary"`
}

type RecommendationResponse struct {
	MentorID             uuid.UUID           `json:"mentor_id"`
	MentorName           string              `json:"mentor_name"`
	SimilarityScore      float64             `json:"similarity_score"`
	Rating               *float64            `json:"rating"`
	TotalReviews         int                 `json:"total_reviews"`
	ActivityScore        float64             `json:"activity_score"`
	CompatibilityScore   float64             `json:"compatibility_score"`
	Rank                 int                 `json:"rank,omitempty"`
	MentorTeachingSkills []SkillRefResponse  `json:"mentor_teaching_skills"`
	Explanation          ExplanationResponse `json:"explanation"`
}

func NewRecommendationResponse(m matching.Match) RecommendationResponse {
	e := m.Explanation
	return RecommendationResponse{
		MentorID:             m.MentorID,
		MentorName:           m.MentorName,
		SimilarityScore:      m.Similarity,
		Rating:               m.Rating,
		TotalReviews:         m.TotalReviews,
		ActivityScore:        m.Activity,
		CompatibilityScore:   m.Compatibility,
		Rank:                 m.Rank,
		MentorTeachingSkills: skillRefs(m.TeachingSkills),
		Explanation: ExplanationResponse{
			MatchedSkills:      skillRefs(e.MatchedSkills),
			SimilarityScore:    e.Similarity,
			RatingScore:        e.Rating,
			ActivityScore:      e.Activity,
			CompatibilityScore: e.Compatibility,
			Weights:            WeightsResponse{Similarity: e.Weights.Similarity, Rating: e.Weights.Rating, Activity: e.Weights.Activity},
			Reasons:            e.Reasons,
			Summary:            e.Summary,
		},
	}
}

func NewRecommendationResponses(ms []matching.Match) []RecommendationResponse {
	out := make([]RecommendationResponse, 0, len(ms))
	for _, m := range ms {
		out = append(out, NewRecommendationResponse(m))
	}
	return out
}

func skillRefs(refs []skill.Ref) []SkillRefResponse {
	out := make([]SkillRefResponse, 0, len(refs))
	for _, r := range refs {
		out = append(out, SkillRefResponse{SkillID: r.ID, SkillName: r.Name})
	}
	return out
}
