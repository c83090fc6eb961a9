// internal/scoring/engine.go
package scoring

import (
	"context"
	"fmt"
	"math"

	"career-workers/internal/common/logger"
	"career-workers/internal/models"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"
)

// Persistence is the read side the engine needs from the profile store.
type Persistence interface {
	ListDocuments(ctx context.Context, userID string) ([]models.Document, error)
	CountCompletedCourses(ctx context.Context, userID, category string) (int, error)
}

// RoleSource supplies knowledge base rows. It must return an empty slice, not nil,
// when the KB has no rows.
type RoleSource interface {
	Load(ctx context.Context) ([]models.KnowledgeBaseRow, error)
}

// Inputs is everything one score depends on, gathered before any factor runs.
type Inputs struct {
	Profile          *models.Profile
	Documents        []models.Document
	SoftSkillCourses int
	Roles            []models.KnowledgeBaseRow
}

// Weights of the core score.
const (
	weightSoftSkills = 0.60
	weightDomain     = 0.25
	weightPractical  = 0.15
)

type Engine struct {
	store     Persistence
	kb        RoleSource
	extractor SkillExtractor
	logger    logger.Logger
	tracer    trace.Tracer
}

type Option func(*Engine)

// WithExtractor swaps the skill extractor.
func WithExtractor(x SkillExtractor) Option {
	return func(e *Engine) { e.extractor = x }
}

func NewEngine(store Persistence, kb RoleSource, log logger.Logger, opts ...Option) *Engine {
	e := &Engine{
		store:     store,
		kb:        kb,
		extractor: NewRegexSkillExtractor(),
		logger:    log.WithFields(map[string]interface{}{"component": "scoring"}),
		tracer:    otel.Tracer("career-workers/scoring"),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// ComputeScore gathers documents, course completions and KB rows for the profile
// and scores it. KB failures degrade to an empty KB; any other failure is returned
// as a *ScoringFailure.
func (e *Engine) ComputeScore(ctx context.Context, profile *models.Profile) (*models.ScoreResult, error) {
	if profile == nil {
		return nil, ErrProfileNotFound
	}

	ctx, span := e.tracer.Start(ctx, "scoring.ComputeScore",
		trace.WithAttributes(attribute.String("user.id", profile.UserID)))
	defer span.End()

	in, err := e.gather(ctx, profile)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "gather failed")
		return nil, &ScoringFailure{Cause: err}
	}

	res, err := e.Evaluate(in)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "evaluate failed")
		return nil, err
	}
	span.SetAttributes(attribute.Int("score.final", res.Final))

	e.logger.Debug("career score computed", map[string]interface{}{
		"userId":     profile.UserID,
		"score":      res.Final,
		"targetRole": res.TargetRole,
	})
	return res, nil
}

func (e *Engine) gather(ctx context.Context, profile *models.Profile) (*Inputs, error) {
	in := &Inputs{Profile: profile}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		docs, err := e.store.ListDocuments(gctx, profile.UserID)
		if err != nil {
			return fmt.Errorf("list documents: %w", err)
		}
		in.Documents = docs
		return nil
	})
	g.Go(func() error {
		n, err := e.store.CountCompletedCourses(gctx, profile.UserID, models.CourseCategorySoftSkill)
		if err != nil {
			return fmt.Errorf("count soft skill courses: %w", err)
		}
		in.SoftSkillCourses = n
		return nil
	})
	g.Go(func() error {
		in.Roles = e.loadRoles(gctx)
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return in, nil
}

func (e *Engine) loadRoles(ctx context.Context) []models.KnowledgeBaseRow {
	if e.kb == nil {
		return []models.KnowledgeBaseRow{}
	}
	rows, err := e.kb.Load(ctx)
	if err != nil {
		e.logger.Warn("knowledge base unavailable, using defaults", map[string]interface{}{
			"error": err.Error(),
		})
		return []models.KnowledgeBaseRow{}
	}
	if rows == nil {
		return []models.KnowledgeBaseRow{}
	}
	return rows
}

// Evaluate is the pure part of ComputeScore. A panic in any calculator is returned
// as a *ScoringFailure.
func (e *Engine) Evaluate(in *Inputs) (res *models.ScoreResult, err error) {
	if in == nil || in.Profile == nil {
		return nil, ErrProfileNotFound
	}
	defer func() {
		if r := recover(); r != nil {
			res = nil
			err = &ScoringFailure{Cause: fmt.Errorf("panic: %v", r)}
		}
	}()
	return evaluate(e.extractor, in), nil
}

func evaluate(ex SkillExtractor, in *Inputs) *models.ScoreResult {
	profile := in.Profile

	var target *models.KnowledgeBaseRow
	var targetSkills []string
	if row, ok := BestMatch(profile, in.Roles); ok {
		target = &row
		targetSkills = splitSkills(row.TechnicalSkills)
	}

	ss := SoftSkillsScore(profile, in.SoftSkillCourses)
	ds := DomainScore(ex, profile, targetSkills)
	p := PracticalScore(profile)
	market := Market(target)
	meta := Meta(profile, in.Documents)
	degree := DegreeScore(profile.EducationLevel)
	experience := ExperienceScore(profile.ExperienceYears)

	core := weightSoftSkills*ss + weightDomain*ds + weightPractical*p
	adjusted := core * market.Factor * meta.Factor
	final := int(math.Round(100 * adjusted))
	if final < 0 {
		final = 0
	}
	if final > 100 {
		final = 100
	}

	strengths := []string{}
	if ss > 0.6 {
		strengths = append(strengths, "Strong soft skills foundation")
	}
	if ds > 0.6 {
		strengths = append(strengths, "Good technical skill coverage")
	}
	if p > 0.5 {
		strengths = append(strengths, "Practical experience evident")
	}
	if meta.EvidenceConfidence > 0.7 {
		strengths = append(strengths, "High confidence in evidence")
	}
	if market.Factor > 0.7 {
		strengths = append(strengths, "Role aligns well with market demand")
	}

	improvements := []string{}
	if ss < 0.5 {
		improvements = append(improvements, "Complete soft skill courses to boost score")
	}
	if ds < 0.4 {
		improvements = append(improvements, "Acquire more domain-specific skills")
	}
	if p < 0.3 {
		improvements = append(improvements, "Undertake more projects or internships")
	}
	if meta.DataCompleteness < 0.6 {
		improvements = append(improvements, "Complete your profile details")
	}
	if meta.EvidenceConfidence < 0.5 {
		improvements = append(improvements, "Upload verified certificates")
	}

	breakdown := map[string]float64{
		models.BreakdownSoftSkills:         round3(ss),
		models.BreakdownSkillCoverage:      round3(ds),
		models.BreakdownPracticalEvidence:  round3(p),
		models.BreakdownMarketFactor:       round3(market.Factor),
		models.BreakdownMetaFactor:         round3(meta.Factor),
		models.BreakdownRoleDemand:         round3(market.RoleDemand),
		models.BreakdownRoleDifficulty:     round3(market.RoleDifficulty),
		models.BreakdownEvidenceConfidence: round3(meta.EvidenceConfidence),
		models.BreakdownDataCompleteness:   round3(meta.DataCompleteness),
		models.BreakdownDegreeScore:        round3(degree),
		models.BreakdownExperienceScore:    round3(experience),
		models.BreakdownCertificateQuality: 0,
	}

	res := &models.ScoreResult{
		Final:        final,
		Breakdown:    breakdown,
		Confidence:   meta.Factor,
		Strengths:    strengths,
		Improvements: improvements,
		SalaryFit:    market.SalaryFit,
	}
	if target != nil {
		res.TargetRole = target.JobRole
	}
	return res
}

func round3(x float64) float64 {
	return math.Round(x*1000) / 1000
}
