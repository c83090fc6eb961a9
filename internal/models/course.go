// internal/models/course.go
package models

// Course categories.
const (
	CourseCategorySoftSkill = "soft_skill"
	CourseCategoryDomain    = "domain"
	CourseCategoryProject   = "project"
)

// Enrollment states.
const (
	CourseStatusNotStarted = "not_started"
	CourseStatusInProgress = "in_progress"
	CourseStatusCompleted  = "completed"
)

type Course struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Category string `json:"category"`
	Provider string `json:"provider,omitempty"`
}

type UserCourse struct {
	UserID   string `json:"userId"`
	CourseID string `json:"courseId"`
	Status   string `json:"status"`
}
