// test/e2e/e2e_test.go
package e2e

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"career-workers/internal/common/camunda"
	"career-workers/internal/common/config"
	"career-workers/internal/common/database"
	"career-workers/internal/common/logger"
	"career-workers/internal/common/validation"
	"career-workers/internal/journey"
	"career-workers/internal/knowledgebase"
	"career-workers/internal/models"
	"career-workers/internal/scoring"
	"career-workers/internal/store"
	"career-workers/pkg/registry"

	computescore "career-workers/internal/workers/career/compute-score"
	evaluatejourney "career-workers/internal/workers/career/evaluate-journey"
	recommendroles "career-workers/internal/workers/career/recommend-roles"
	sendscorenotification "career-workers/internal/workers/communication/send-score-notification"
	refreshkb "career-workers/internal/workers/knowledge-base/refresh-kb"
	searchroles "career-workers/internal/workers/knowledge-base/search-roles"
)

const e2eUser = "e2e-student-1"

// env bundles the live clients one run shares.
type env struct {
	cfg       *config.Config
	log       logger.Logger
	db        *sql.DB
	store     *store.Store
	provider  *knowledgebase.CachedProvider
	engine    *scoring.Engine
	validator *validation.Validator
}

func setup(t testing.TB) *env {
	if os.Getenv("E2E_ENABLED") == "" {
		t.Skip("set E2E_ENABLED=1 with postgres, redis and zeebe running to run end-to-end tests")
	}

	cfg, err := config.Load()
	require.NoError(t, err)
	cfg.KnowledgeBase.FilePath = "../../configs/knowledge_base.yaml"
	cfg.KnowledgeBase.RegistryPath = "../../configs/activity-registry.json"
	cfg.KnowledgeBase.Persist = false

	log := logger.NewStructured("info", "json")
	ctx := context.Background()

	pg, err := database.NewPostgres(cfg.Database.Postgres)
	require.NoError(t, err)
	require.NoError(t, database.WaitReady(ctx, pg, 5, time.Second, 5*time.Second), "PostgreSQL not reachable")
	t.Cleanup(func() { pg.Close() })

	rdb, err := database.NewRedis(cfg.Database.Redis)
	require.NoError(t, err)
	require.NoError(t, database.WaitReady(ctx, rdb, 5, time.Second, 5*time.Second), "Redis not reachable")
	t.Cleanup(func() { rdb.Close() })

	provider, err := knowledgebase.NewCachedProvider(knowledgebase.ProviderConfig{
		Paths:    cfg.KnowledgeBase.Paths(),
		RedisKey: "career:kb:e2e",
		CacheTTL: time.Minute,
	}, rdb.Client, log)
	require.NoError(t, err)
	require.NoError(t, provider.Invalidate(ctx))

	reg, err := registry.LoadRegistry(cfg.KnowledgeBase.RegistryPath)
	require.NoError(t, err)
	validator, err := validation.NewValidator(reg)
	require.NoError(t, err)

	st := store.New(pg.DB, log)
	return &env{
		cfg:       cfg,
		log:       log,
		db:        pg.DB,
		store:     st,
		provider:  provider,
		engine:    scoring.NewEngine(st, provider, log),
		validator: validator,
	}
}

// ==========================
// 1. Connectivity
// ==========================

func TestZeebeConnectivity(t *testing.T) {
	e := setup(t)

	client, err := camunda.NewClientWithConfig(camunda.ConfigFrom(e.cfg.Camunda))
	require.NoError(t, err, "Zeebe gateway not reachable")
	defer client.Close()

	assert.NoError(t, client.HealthCheck(context.Background()))
}

// ==========================
// 2. Database Tables Setup + Test Data
// ==========================

var schema = []string{
	`CREATE TABLE IF NOT EXISTS students (
		user_id TEXT PRIMARY KEY,
		name TEXT, contact_email TEXT, contact_phone TEXT,
		education_level TEXT, skills TEXT, interests TEXT, bio TEXT,
		experience_years DOUBLE PRECISION, target_salary DOUBLE PRECISION, gpa_percentile DOUBLE PRECISION,
		career_direction TEXT, language_fluency JSONB,
		medium_of_instruction_10 TEXT, medium_of_instruction_12 TEXT,
		linkedin_url TEXT, github_url TEXT)`,
	`CREATE TABLE IF NOT EXISTS documents (
		id TEXT PRIMARY KEY, user_id TEXT NOT NULL, filename TEXT NOT NULL, mime_type TEXT,
		ocr_text TEXT, ocr_confidence DOUBLE PRECISION, verification_status TEXT,
		provider TEXT, extracted_skills TEXT, uploaded_at TIMESTAMPTZ NOT NULL DEFAULT now())`,
	`CREATE TABLE IF NOT EXISTS courses (id TEXT PRIMARY KEY, title TEXT, category TEXT NOT NULL)`,
	`CREATE TABLE IF NOT EXISTS user_courses (
		user_id TEXT NOT NULL, course_id TEXT NOT NULL REFERENCES courses(id), status TEXT NOT NULL,
		PRIMARY KEY (user_id, course_id))`,
	`CREATE TABLE IF NOT EXISTS career_scores (
		id TEXT PRIMARY KEY, user_id TEXT NOT NULL, total_score INTEGER NOT NULL,
		degree_score DOUBLE PRECISION, experience_score DOUBLE PRECISION, skill_coverage DOUBLE PRECISION,
		certificate_quality DOUBLE PRECISION, practical_evidence DOUBLE PRECISION, soft_skills DOUBLE PRECISION,
		confidence DOUBLE PRECISION, market_factor DOUBLE PRECISION, meta_factor DOUBLE PRECISION,
		role_demand DOUBLE PRECISION, role_difficulty DOUBLE PRECISION, evidence_confidence DOUBLE PRECISION,
		data_completeness DOUBLE PRECISION, salary_fit DOUBLE PRECISION, created_at TIMESTAMPTZ NOT NULL)`,
}

func seed(t *testing.T, db *sql.DB) {
	t.Helper()
	ctx := context.Background()
	for _, stmt := range schema {
		_, err := db.ExecContext(ctx, stmt)
		require.NoError(t, err)
	}

	cleanup := []string{
		`DELETE FROM career_scores WHERE user_id = $1`,
		`DELETE FROM user_courses WHERE user_id = $1`,
		`DELETE FROM documents WHERE user_id = $1`,
		`DELETE FROM students WHERE user_id = $1`,
	}
	for _, stmt := range cleanup {
		_, err := db.ExecContext(ctx, stmt, e2eUser)
		require.NoError(t, err)
	}

	_, err := db.ExecContext(ctx, `INSERT INTO students (user_id, name, education_level, skills, interests,
		experience_years, career_direction, github_url)
		VALUES ($1, 'E2E Student', 'Bachelor', 'Python, SQL, Git', 'data analysis', 1.0, 'job', 'https://github.com/e2e')`,
		e2eUser)
	require.NoError(t, err)

	_, err = db.ExecContext(ctx, `INSERT INTO documents (id, user_id, filename, ocr_text, ocr_confidence,
		verification_status, uploaded_at)
		VALUES ('e2e-doc-1', $1, 'sql-cert.pdf', 'SQL certificate of completion', 0.9, 'verified', now())`,
		e2eUser)
	require.NoError(t, err)

	_, err = db.ExecContext(ctx, `INSERT INTO courses (id, title, category) VALUES ('e2e-comm', 'Communication', 'soft_skill')
		ON CONFLICT (id) DO NOTHING`)
	require.NoError(t, err)
	_, err = db.ExecContext(ctx, `INSERT INTO user_courses (user_id, course_id, status) VALUES ($1, 'e2e-comm', 'completed')`,
		e2eUser)
	require.NoError(t, err)
}

// ==========================
// 3. Workers Against Live Services
// ==========================

func TestCareerWorkers(t *testing.T) {
	e := setup(t)
	seed(t, e.db)
	ctx := context.Background()

	var scoreID string

	t.Run("compute-career-score", func(t *testing.T) {
		h := computescore.NewHandler(computescore.LoadConfig(e.cfg), e.engine, e.store, e.validator, e.log)
		persist := true
		out, err := h.Execute(ctx, &computescore.Input{UserID: e2eUser, Persist: &persist})
		require.NoError(t, err)

		assert.GreaterOrEqual(t, out.Score, 0)
		assert.LessOrEqual(t, out.Score, 100)
		assert.Len(t, out.Breakdown, 12)
		require.NotEmpty(t, out.ScoreID)
		scoreID = out.ScoreID

		latest, err := e.store.LatestScore(ctx, e2eUser)
		require.NoError(t, err)
		require.NotNil(t, latest)
		assert.Equal(t, scoreID, latest.ID)
		assert.Equal(t, out.Score, latest.TotalScore)
	})

	t.Run("recommend-career-roles", func(t *testing.T) {
		h := recommendroles.NewHandler(recommendroles.LoadConfig(e.cfg), e.engine, e.store, e.validator, e.log)
		out, err := h.Execute(ctx, &recommendroles.Input{UserID: e2eUser})
		require.NoError(t, err)

		assert.NotEmpty(t, out.JobRoles)
		assert.LessOrEqual(t, len(out.JobRoles), 5)
		assert.LessOrEqual(t, len(out.SkillsToLearn), 10)
	})

	t.Run("evaluate-journey-stage", func(t *testing.T) {
		h := evaluatejourney.NewHandler(evaluatejourney.LoadConfig(e.cfg), e.store, e.validator, e.log)
		out, err := h.Execute(ctx, &evaluatejourney.Input{UserID: e2eUser})
		require.NoError(t, err)

		if scoreID != "" {
			assert.GreaterOrEqual(t, out.Stage, journey.StageScoreGeneration)
		}
		assert.NotEmpty(t, out.StageName)
	})

	t.Run("search-career-roles", func(t *testing.T) {
		h := searchroles.NewHandler(searchroles.LoadConfig(e.cfg), e.provider, nil, e.validator, e.log)
		out, err := h.Execute(ctx, &searchroles.Input{Query: "sql"})
		require.NoError(t, err)

		assert.Equal(t, searchroles.SourceMemory, out.Source)
		assert.NotEmpty(t, out.Results)
	})

	t.Run("refresh-knowledge-base", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "kb.csv")
		require.NoError(t, os.WriteFile(path, []byte("Job Role,Technical Skills\nQA Engineer,\"Selenium, Python\"\n,orphan\n"), 0o644))

		h := refreshkb.NewHandler(refreshkb.LoadConfig(e.cfg), e.provider, nil, e.validator, e.log)
		out, err := h.Execute(ctx, &refreshkb.Input{FilePath: path})
		require.NoError(t, err)

		assert.Equal(t, 1, out.RowCount)
		assert.Len(t, out.InvalidRows, 1)

		rows, err := e.provider.Load(ctx)
		require.NoError(t, err)
		require.Len(t, rows, 1)
		assert.Equal(t, "QA Engineer", rows[0].JobRole)
		require.NoError(t, e.provider.Invalidate(ctx))
	})

	t.Run("send-score-notification", func(t *testing.T) {
		cfg := sendscorenotification.LoadConfig(e.cfg)
		cfg.EmailEnabled, cfg.SMSEnabled = false, false
		h := sendscorenotification.NewHandler(cfg, e.store, nil, nil, e.validator, e.log)
		out, err := h.Execute(ctx, &sendscorenotification.Input{UserID: e2eUser, Score: 30})
		require.NoError(t, err)

		assert.Equal(t, models.NotificationDisabled, out.Status)
		assert.NotEmpty(t, out.NotificationID)
	})
}

// ==========================
// Benchmarks
// ==========================

func BenchmarkHandler_ComputeCareerScore(b *testing.B) {
	e := setup(b)
	h := computescore.NewHandler(computescore.LoadConfig(e.cfg), e.engine, e.store, e.validator, e.log)
	persist := false
	input := &computescore.Input{UserID: e2eUser, Persist: &persist}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		h.Execute(context.Background(), input)
	}
}

func BenchmarkHandler_SearchCareerRoles(b *testing.B) {
	e := setup(b)
	h := searchroles.NewHandler(searchroles.LoadConfig(e.cfg), e.provider, nil, e.validator, e.log)
	input := &searchroles.Input{Query: "python", Limit: 5}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		h.Execute(context.Background(), input)
	}
}
