// internal/models/student.go
package models

// Career directions a student can pick during onboarding.
const (
	CareerDirectionJob              = "job"
	CareerDirectionHigherStudies    = "higher_studies"
	CareerDirectionEntrepreneurship = "entrepreneurship"
	CareerDirectionUndecided        = "undecided"
)

// Profile is the student record scored by the engine. Only UserID is required.
type Profile struct {
	UserID                string            `json:"userId" validate:"required"`
	Name                  string            `json:"name,omitempty"`
	ContactEmail          string            `json:"contactEmail,omitempty" validate:"omitempty,email"`
	ContactPhone          string            `json:"contactPhone,omitempty" validate:"omitempty,max=32"`
	EducationLevel        string            `json:"educationLevel,omitempty"`
	Skills                string            `json:"skills,omitempty"`
	Interests             string            `json:"interests,omitempty"`
	Bio                   string            `json:"bio,omitempty"`
	ExperienceYears       *float64          `json:"experienceYears,omitempty" validate:"omitempty,gte=0"`
	TargetSalary          *float64          `json:"targetSalary,omitempty" validate:"omitempty,gte=0"`
	GPAPercentile         *float64          `json:"gpaPercentile,omitempty" validate:"omitempty,gte=0,lte=100"`
	CareerDirection       string            `json:"careerDirection,omitempty" validate:"omitempty,oneof=job higher_studies entrepreneurship undecided"`
	LanguageFluency       map[string]string `json:"languageFluency,omitempty"`
	MediumOfInstruction10 string            `json:"mediumOfInstruction10,omitempty"`
	MediumOfInstruction12 string            `json:"mediumOfInstruction12,omitempty"`
	LinkedInURL           string            `json:"linkedinUrl,omitempty" validate:"omitempty,url"`
	GitHubURL             string            `json:"githubUrl,omitempty" validate:"omitempty,url"`
}

// Experience returns the experience years or 0 when unset.
func (p *Profile) Experience() float64 {
	if p == nil || p.ExperienceYears == nil {
		return 0
	}
	return *p.ExperienceYears
}

// Text joins the free-text fields used for skill matching: skills, interests, bio.
func (p *Profile) Text() string {
	if p == nil {
		return ""
	}
	return p.Skills + " " + p.Interests + " " + p.Bio
}
