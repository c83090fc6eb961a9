// internal/journey/journey.go
package journey

import (
	"context"
	"fmt"

	"career-workers/internal/models"
)

// Journey stages, in unlock order.
const (
	StageProfileOnboarding  = 1
	StageUploadVerification = 2
	StageScoreGeneration    = 3
	StagePathwayNavigation  = 4
	StageImprovementActions = 5
)

var stageNames = map[int]string{
	StageProfileOnboarding:  "Profile Onboarding",
	StageUploadVerification: "Upload & Verification",
	StageScoreGeneration:    "CRS Generation",
	StagePathwayNavigation:  "Pathway Navigation",
	StageImprovementActions: "Improvement Actions",
}

// Action priorities.
const (
	PriorityHigh   = "high"
	PriorityMedium = "medium"
	PriorityLow    = "low"
)

// Action is a suggested next step for the student.
type Action struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Link        string `json:"link"`
	Priority    string `json:"priority"`
}

// Status is the full journey evaluation for one student.
type Status struct {
	Stage       int          `json:"stage"`
	StageName   string       `json:"stageName"`
	Completion  float64      `json:"completion"`
	NextActions []Action     `json:"nextActions"`
	Message     string       `json:"message"`
	CanAccess   map[int]bool `json:"canAccessStages"`
}

// ProgressStore reports the evidence a journey depends on beyond the profile itself.
type ProgressStore interface {
	CountDocuments(ctx context.Context, userID string) (int, error)
	HasScore(ctx context.Context, userID string) (bool, error)
}

// Progress is what the pure journey functions need besides the profile.
type Progress struct {
	Documents int
	HasScore  bool
}

// Evaluator computes journey status from the store.
type Evaluator struct {
	store ProgressStore
}

func NewEvaluator(store ProgressStore) *Evaluator {
	return &Evaluator{store: store}
}

// Evaluate loads progress for p and computes its status.
func (e *Evaluator) Evaluate(ctx context.Context, p *models.Profile) (*Status, error) {
	if p == nil {
		return nil, fmt.Errorf("journey: nil profile")
	}
	docs, err := e.store.CountDocuments(ctx, p.UserID)
	if err != nil {
		return nil, err
	}
	scored, err := e.store.HasScore(ctx, p.UserID)
	if err != nil {
		return nil, err
	}
	return Compute(p, Progress{Documents: docs, HasScore: scored}), nil
}

// Compute derives the status from a profile and its progress without I/O.
func Compute(p *models.Profile, pr Progress) *Status {
	stage := CurrentStage(p, pr)
	completion := CompletionPercentage(p, pr)
	access := make(map[int]bool, len(stageNames))
	for s := StageProfileOnboarding; s <= StageImprovementActions; s++ {
		access[s] = s <= stage
	}
	return &Status{
		Stage:       stage,
		StageName:   StageName(stage),
		Completion:  completion,
		NextActions: NextActions(p, pr),
		Message:     Message(stage, completion),
		CanAccess:   access,
	}
}

// StageName returns the display name, or "" for an unknown stage.
func StageName(stage int) string {
	return stageNames[stage]
}

// CurrentStage returns 1..5. Stage 4 has no exit criterion and unlocks 5 directly.
func CurrentStage(p *models.Profile, pr Progress) int {
	stage := StageProfileOnboarding
	if p.EducationLevel != "" && p.Skills != "" && p.ExperienceYears != nil && p.CareerDirection != "" {
		stage = StageUploadVerification
	}
	if stage >= StageUploadVerification && pr.Documents >= 1 {
		stage = StageScoreGeneration
	}
	if stage >= StageScoreGeneration && pr.HasScore {
		stage = StagePathwayNavigation
	}
	if stage >= StagePathwayNavigation {
		stage = StageImprovementActions
	}
	return stage
}

// CompletionPercentage weights profile fields (up to 60), documents (up to 20) and an
// existing score (20). The result is capped at 100.
func CompletionPercentage(p *models.Profile, pr Progress) float64 {
	fields := []struct {
		set    bool
		weight float64
	}{
		{p.EducationLevel != "", 5},
		{p.Skills != "", 10},
		{p.Interests != "", 5},
		{p.Bio != "", 5},
		{p.ExperienceYears != nil, 5},
		{p.TargetSalary != nil, 3},
		{p.Name != "", 5},
		{p.ContactEmail != "", 3},
		{p.CareerDirection != "", 8},
		{len(p.LanguageFluency) > 0, 3},
		{p.LinkedInURL != "", 4},
		{p.GitHubURL != "", 4},
	}

	completion := 0.0
	for _, f := range fields {
		if f.set {
			completion += f.weight
		}
	}
	for _, threshold := range []int{1, 2, 3, 5} {
		if pr.Documents >= threshold {
			completion += 5
		}
	}
	if pr.HasScore {
		completion += 20
	}
	if completion > 100 {
		completion = 100
	}
	return completion
}

// NextActions suggests what to do next for the current stage. A profile completion
// reminder is appended past stage 1 while completion is below 100.
func NextActions(p *models.Profile, pr Progress) []Action {
	actions := []Action{}
	stage := CurrentStage(p, pr)

	switch stage {
	case StageProfileOnboarding:
		if p.EducationLevel == "" {
			actions = append(actions, Action{"Add Education Level", "Select your highest qualification", "/profile", PriorityHigh})
		}
		if len(p.Skills) < 10 {
			actions = append(actions, Action{"Add Your Skills", "List your technical and soft skills", "/profile", PriorityHigh})
		}
		if p.CareerDirection == "" {
			actions = append(actions, Action{"Choose Career Direction", "Select your career path preference", "/profile", PriorityHigh})
		}
		if p.ExperienceYears == nil {
			actions = append(actions, Action{"Add Experience", "Enter your years of experience", "/profile", PriorityMedium})
		}
	case StageUploadVerification:
		if pr.Documents == 0 {
			actions = append(actions, Action{"Upload Your First Certificate", "Add certificates to boost your score", "/documents", PriorityHigh})
		} else if pr.Documents < 3 {
			actions = append(actions, Action{
				Title:       fmt.Sprintf("Upload More Certificates (%d/3)", pr.Documents),
				Description: "More certificates = higher career score",
				Link:        "/documents",
				Priority:    PriorityMedium,
			})
		}
	case StageScoreGeneration:
		if !pr.HasScore {
			actions = append(actions, Action{"Generate Your Career Score", "See your career readiness analysis", "/career-analysis", PriorityHigh})
		}
	case StagePathwayNavigation:
		actions = append(actions, Action{"Explore Career Pathways", "View personalized job recommendations", "/career-pathways", PriorityHigh})
	case StageImprovementActions:
		actions = append(actions, Action{"Start Upskilling", "Enroll in courses to boost your score", "/upskilling", PriorityHigh})
	}

	completion := CompletionPercentage(p, pr)
	if completion < 100 && stage > StageProfileOnboarding {
		actions = append(actions, Action{
			Title:       fmt.Sprintf("Complete Your Profile (%d%%)", int(completion)),
			Description: "Add missing details for better recommendations",
			Link:        "/profile",
			Priority:    PriorityLow,
		})
	}
	return actions
}

var stageMessages = map[int][3]string{
	StageProfileOnboarding: {
		"Welcome! Let's build your career profile together",
		"Great start! Complete your profile to unlock career insights",
		"You're on your way! Keep adding your details",
	},
	StageUploadVerification: {
		"Nice progress! Upload certificates to showcase your skills",
		"Looking good! Add your achievements to boost your score",
		"You're just 1 step away from your readiness score!",
	},
	StageScoreGeneration: {
		"Excellent! Time to see your career readiness score",
		"Almost there! Generate your score to see where you stand",
		"Ready for insights? Let's analyze your career readiness",
	},
	StagePathwayNavigation: {
		"Awesome! Explore personalized career pathways",
		"Great job! Discover roles that match your skills",
		"You're doing amazing! Check out your career options",
	},
	StageImprovementActions: {
		"Outstanding! Start upskilling to reach your goals",
		"You're career-ready! Keep improving with courses",
		"Fantastic progress! Continue your growth journey",
	},
}

// Message picks an encouraging line for the stage. Unknown stages use stage 1 lines.
func Message(stage int, completion float64) string {
	msgs, ok := stageMessages[stage]
	if !ok {
		msgs = stageMessages[StageProfileOnboarding]
	}
	switch {
	case completion < 30:
		return msgs[0]
	case completion < 70:
		return msgs[1]
	default:
		return msgs[2]
	}
}
