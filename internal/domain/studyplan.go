package domain

import "time"

// StudyPlanDraft is the user input for a new plan.
type StudyPlanDraft struct {
	Name        string
	Description string
}

// StudyPlan is a persisted plan row.
type StudyPlan struct {
	ID          int64
	Name        string
	Description string
	CreatedAt   time.Time
}

// ImageRequest holds the generation parameters forwarded to the diffusion backend.
type ImageRequest struct {
	Prompt            string
	GuidanceScale     float64
	InferenceSteps    int
	MaxSequenceLength int
	Seed              int64
}
