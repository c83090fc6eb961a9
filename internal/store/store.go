// internal/store/store.go
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"career-workers/internal/common/logger"
	"career-workers/internal/models"
)

var (
	ErrQueryFailed  = errors.New("query failed")
	ErrInsertFailed = errors.New("insert failed")
)

const (
	queryProfile = `SELECT user_id, name, contact_email, contact_phone, education_level, skills, interests, bio,
		experience_years, target_salary, gpa_percentile, career_direction, language_fluency,
		medium_of_instruction_10, medium_of_instruction_12, linkedin_url, github_url
		FROM students WHERE user_id = $1`

	queryDocuments = `SELECT id, user_id, filename, mime_type, ocr_text, ocr_confidence, verification_status,
		provider, extracted_skills, uploaded_at
		FROM documents WHERE user_id = $1 ORDER BY uploaded_at ASC`

	queryCountDocuments = `SELECT COUNT(*) FROM documents WHERE user_id = $1`

	queryCountCompletedCourses = `SELECT COUNT(*) FROM user_courses uc
		JOIN courses c ON c.id = uc.course_id
		WHERE uc.user_id = $1 AND uc.status = $2 AND c.category = $3`

	insertScore = `INSERT INTO career_scores (id, user_id, total_score, degree_score, experience_score,
		skill_coverage, certificate_quality, practical_evidence, soft_skills, confidence, market_factor,
		meta_factor, role_demand, role_difficulty, evidence_confidence, data_completeness, salary_fit, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)`

	queryLatestScore = `SELECT id, user_id, total_score, degree_score, experience_score, skill_coverage,
		certificate_quality, practical_evidence, soft_skills, confidence, market_factor, meta_factor,
		role_demand, role_difficulty, evidence_confidence, data_completeness, salary_fit, created_at
		FROM career_scores WHERE user_id = $1 ORDER BY created_at DESC LIMIT 1`

	queryHasScore = `SELECT EXISTS(SELECT 1 FROM career_scores WHERE user_id = $1)`
)

// Store is the postgres persistence for students, documents, courses and scores.
type Store struct {
	db     *sql.DB
	logger logger.Logger
}

func New(db *sql.DB, log logger.Logger) *Store {
	return &Store{
		db:     db,
		logger: log.WithFields(map[string]interface{}{"component": "store"}),
	}
}

// GetProfile loads a student. A missing student returns (nil, nil).
func (s *Store) GetProfile(ctx context.Context, userID string) (*models.Profile, error) {
	var (
		p                                       models.Profile
		name, email, phone, education, skills   sql.NullString
		interests, bio, direction, moi10, moi12 sql.NullString
		linkedin, github                        sql.NullString
		experience, salary, gpa                 sql.NullFloat64
		fluency                                 []byte
	)
	err := s.db.QueryRowContext(ctx, queryProfile, userID).Scan(
		&p.UserID, &name, &email, &phone, &education, &skills, &interests, &bio,
		&experience, &salary, &gpa, &direction, &fluency,
		&moi10, &moi12, &linkedin, &github,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: get profile: %v", ErrQueryFailed, err)
	}

	p.Name = name.String
	p.ContactEmail = email.String
	p.ContactPhone = phone.String
	p.EducationLevel = education.String
	p.Skills = skills.String
	p.Interests = interests.String
	p.Bio = bio.String
	p.CareerDirection = direction.String
	p.MediumOfInstruction10 = moi10.String
	p.MediumOfInstruction12 = moi12.String
	p.LinkedInURL = linkedin.String
	p.GitHubURL = github.String
	p.ExperienceYears = floatPtr(experience)
	p.TargetSalary = floatPtr(salary)
	p.GPAPercentile = floatPtr(gpa)

	if len(fluency) > 0 {
		if err := json.Unmarshal(fluency, &p.LanguageFluency); err != nil {
			s.logger.Warn("ignoring malformed language_fluency", map[string]interface{}{
				"userId": userID,
				"error":  err.Error(),
			})
			p.LanguageFluency = nil
		}
	}
	return &p, nil
}

// ListDocuments returns the user's documents, oldest first.
func (s *Store) ListDocuments(ctx context.Context, userID string) ([]models.Document, error) {
	rows, err := s.db.QueryContext(ctx, queryDocuments, userID)
	if err != nil {
		return nil, fmt.Errorf("%w: list documents: %v", ErrQueryFailed, err)
	}
	defer rows.Close()

	docs := []models.Document{}
	for rows.Next() {
		var (
			d                                    models.Document
			mime, text, status, provider, skills sql.NullString
			confidence                           sql.NullFloat64
		)
		if err := rows.Scan(&d.ID, &d.UserID, &d.Filename, &mime, &text, &confidence, &status,
			&provider, &skills, &d.UploadedAt); err != nil {
			return nil, fmt.Errorf("%w: scan document: %v", ErrQueryFailed, err)
		}
		d.MimeType = mime.String
		d.OCRText = text.String
		d.OCRConfidence = floatPtr(confidence)
		d.VerificationStatus = status.String
		d.Provider = provider.String
		d.ExtractedSkills = skills.String
		docs = append(docs, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: list documents: %v", ErrQueryFailed, err)
	}
	return docs, nil
}

func (s *Store) CountDocuments(ctx context.Context, userID string) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, queryCountDocuments, userID).Scan(&n); err != nil {
		return 0, fmt.Errorf("%w: count documents: %v", ErrQueryFailed, err)
	}
	return n, nil
}

// CountCompletedCourses counts completed enrollments in courses of category.
func (s *Store) CountCompletedCourses(ctx context.Context, userID, category string) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, queryCountCompletedCourses, userID, models.CourseStatusCompleted, category).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("%w: count completed courses: %v", ErrQueryFailed, err)
	}
	return n, nil
}

// SaveScore inserts a score record and returns it unchanged.
func (s *Store) SaveScore(ctx context.Context, rec *models.CareerScoreRecord) (*models.CareerScoreRecord, error) {
	_, err := s.db.ExecContext(ctx, insertScore,
		rec.ID, rec.UserID, rec.TotalScore, rec.DegreeScore, rec.ExperienceScore,
		rec.SkillCoverage, rec.CertificateQuality, rec.PracticalEvidence, rec.SoftSkills, rec.Confidence,
		rec.MarketFactor, rec.MetaFactor, rec.RoleDemand, rec.RoleDifficulty, rec.EvidenceConfidence,
		rec.DataCompleteness, rec.SalaryFit, rec.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("%w: save score: %v", ErrInsertFailed, err)
	}
	return rec, nil
}

// LatestScore returns the newest score for the user, or (nil, nil) when none exists.
func (s *Store) LatestScore(ctx context.Context, userID string) (*models.CareerScoreRecord, error) {
	var r models.CareerScoreRecord
	err := s.db.QueryRowContext(ctx, queryLatestScore, userID).Scan(
		&r.ID, &r.UserID, &r.TotalScore, &r.DegreeScore, &r.ExperienceScore, &r.SkillCoverage,
		&r.CertificateQuality, &r.PracticalEvidence, &r.SoftSkills, &r.Confidence, &r.MarketFactor,
		&r.MetaFactor, &r.RoleDemand, &r.RoleDifficulty, &r.EvidenceConfidence, &r.DataCompleteness,
		&r.SalaryFit, &r.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: latest score: %v", ErrQueryFailed, err)
	}
	return &r, nil
}

func (s *Store) HasScore(ctx context.Context, userID string) (bool, error) {
	var exists bool
	if err := s.db.QueryRowContext(ctx, queryHasScore, userID).Scan(&exists); err != nil {
		return false, fmt.Errorf("%w: has score: %v", ErrQueryFailed, err)
	}
	return exists, nil
}

func floatPtr(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	f := v.Float64
	return &f
}
