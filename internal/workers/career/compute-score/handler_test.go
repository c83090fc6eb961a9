package computescore

import (
	"context"
	stderrors "errors"
	"fmt"
	"testing"
	"time"

	"career-workers/internal/common/errors"
	"career-workers/internal/common/logger"
	"career-workers/internal/models"
	"career-workers/internal/scoring"
	"career-workers/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

// ==========================
// Mocks
// ==========================

type MockScorer struct {
	mock.Mock
}

func (m *MockScorer) ComputeScore(ctx context.Context, profile *models.Profile) (*models.ScoreResult, error) {
	args := m.Called(ctx, profile)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ScoreResult), args.Error(1)
}

type MockStore struct {
	mock.Mock
}

func (m *MockStore) GetProfile(ctx context.Context, userID string) (*models.Profile, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Profile), args.Error(1)
}

func (m *MockStore) SaveScore(ctx context.Context, rec *models.CareerScoreRecord) (*models.CareerScoreRecord, error) {
	args := m.Called(ctx, rec)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	if fn, ok := args.Get(0).(func(context.Context, *models.CareerScoreRecord) *models.CareerScoreRecord); ok {
		return fn(ctx, rec), args.Error(1)
	}
	return args.Get(0).(*models.CareerScoreRecord), args.Error(1)
}

// ==========================
// Test Helpers
// ==========================

func createTestConfig() *Config {
	return &Config{
		Timeout: 5 * time.Second,
	}
}

func createTestProfile() *models.Profile {
	years := 2.0
	return &models.Profile{
		UserID:          "user-1",
		EducationLevel:  "Bachelor",
		Skills:          "Python, React, SQL, Git",
		ExperienceYears: &years,
	}
}

func createTestResult() *models.ScoreResult {
	return &models.ScoreResult{
		Final: 5,
		Breakdown: map[string]float64{
			models.BreakdownSoftSkills:        0,
			models.BreakdownSkillCoverage:     0.667,
			models.BreakdownPracticalEvidence: 0.3,
			models.BreakdownMarketFactor:      0.54,
			models.BreakdownMetaFactor:        0.44,
		},
		Confidence:   0.44,
		Strengths:    []string{"Strong domain skills"},
		Improvements: []string{"Complete soft skills courses"},
		TargetRole:   "Data Analyst",
	}
}

func newTestHandler(t *testing.T, scorer Scorer, st ProfileStore) *Handler {
	h := NewHandler(createTestConfig(), scorer, st, nil, logger.NewZapAdapter(zaptest.NewLogger(t)))
	h.now = func() time.Time { return time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC) }
	return h
}

func boolPtr(b bool) *bool { return &b }

// ==========================
// Execute
// ==========================

func TestHandler_Execute_ProfileFromStore(t *testing.T) {
	scorer := new(MockScorer)
	store := new(MockStore)
	profile := createTestProfile()

	store.On("GetProfile", mock.Anything, "user-1").Return(profile, nil)
	scorer.On("ComputeScore", mock.Anything, profile).Return(createTestResult(), nil)

	h := newTestHandler(t, scorer, store)
	out, err := h.Execute(context.Background(), &Input{UserID: "user-1"})

	require.NoError(t, err)
	assert.Equal(t, "user-1", out.UserID)
	assert.Equal(t, 5, out.Score)
	assert.Equal(t, 0.44, out.Confidence)
	assert.Equal(t, "Data Analyst", out.TargetRole)
	assert.Equal(t, "2026-03-01T12:00:00Z", out.ComputedAt)
	assert.Empty(t, out.ScoreID)
	store.AssertNotCalled(t, "SaveScore", mock.Anything, mock.Anything)
}

func TestHandler_Execute_ProfileFromInput(t *testing.T) {
	scorer := new(MockScorer)
	store := new(MockStore)

	profile := createTestProfile()
	profile.UserID = ""
	scorer.On("ComputeScore", mock.Anything, mock.MatchedBy(func(p *models.Profile) bool {
		return p.UserID == "user-2" && p.Skills == "Python, React, SQL, Git"
	})).Return(createTestResult(), nil)

	h := newTestHandler(t, scorer, store)
	out, err := h.Execute(context.Background(), &Input{UserID: "user-2", Profile: profile})

	require.NoError(t, err)
	assert.Equal(t, "user-2", out.UserID)
	store.AssertNotCalled(t, "GetProfile", mock.Anything, mock.Anything)
}

func TestHandler_Execute_Persist(t *testing.T) {
	scorer := new(MockScorer)
	store := new(MockStore)
	profile := createTestProfile()

	store.On("GetProfile", mock.Anything, "user-1").Return(profile, nil)
	scorer.On("ComputeScore", mock.Anything, profile).Return(createTestResult(), nil)
	store.On("SaveScore", mock.Anything, mock.MatchedBy(func(rec *models.CareerScoreRecord) bool {
		return rec.UserID == "user-1" && rec.TotalScore == 5 && rec.ID != "" && rec.MetaFactor == 0.44
	})).Return(func(_ context.Context, rec *models.CareerScoreRecord) *models.CareerScoreRecord {
		return rec
	}, nil)

	h := newTestHandler(t, scorer, store)
	out, err := h.Execute(context.Background(), &Input{UserID: "user-1", Persist: boolPtr(true)})

	require.NoError(t, err)
	assert.NotEmpty(t, out.ScoreID)
	store.AssertExpectations(t)
}

func TestHandler_Execute_PersistByDefault(t *testing.T) {
	scorer := new(MockScorer)
	store := new(MockStore)
	profile := createTestProfile()

	store.On("GetProfile", mock.Anything, "user-1").Return(profile, nil)
	scorer.On("ComputeScore", mock.Anything, profile).Return(createTestResult(), nil)

	h := newTestHandler(t, scorer, store)
	h.config.PersistByDefault = true

	_, err := h.Execute(context.Background(), &Input{UserID: "user-1", Persist: boolPtr(false)})
	require.NoError(t, err)
	store.AssertNotCalled(t, "SaveScore", mock.Anything, mock.Anything)
}

func TestHandler_Execute_Errors(t *testing.T) {
	tests := []struct {
		name     string
		input    *Input
		setup    func(*MockScorer, *MockStore)
		wantCode errors.ErrorCode
	}{
		{
			name:     "nil input",
			input:    nil,
			setup:    func(*MockScorer, *MockStore) {},
			wantCode: errors.ErrCodeInvalidInput,
		},
		{
			name:     "missing user id",
			input:    &Input{},
			setup:    func(*MockScorer, *MockStore) {},
			wantCode: errors.ErrCodeInvalidInput,
		},
		{
			name:     "invalid inline profile",
			input:    &Input{UserID: "u", Profile: &models.Profile{ContactEmail: "not-an-email"}},
			setup:    func(*MockScorer, *MockStore) {},
			wantCode: errors.ErrCodeInvalidInput,
		},
		{
			name:  "unknown student",
			input: &Input{UserID: "ghost"},
			setup: func(_ *MockScorer, st *MockStore) {
				st.On("GetProfile", mock.Anything, "ghost").Return(nil, nil)
			},
			wantCode: errors.ErrCodeProfileNotFound,
		},
		{
			name:  "store unavailable",
			input: &Input{UserID: "user-1"},
			setup: func(_ *MockScorer, st *MockStore) {
				st.On("GetProfile", mock.Anything, "user-1").Return(nil, stderrors.New("connection refused"))
			},
			wantCode: errors.ErrCodeDatabaseConnectionFailed,
		},
		{
			name:  "scoring failure",
			input: &Input{UserID: "user-1"},
			setup: func(sc *MockScorer, st *MockStore) {
				st.On("GetProfile", mock.Anything, "user-1").Return(createTestProfile(), nil)
				sc.On("ComputeScore", mock.Anything, mock.Anything).
					Return(nil, &scoring.ScoringFailure{Cause: stderrors.New("boom")})
			},
			wantCode: errors.ErrCodeScoringFailed,
		},
		{
			name:  "engine cannot read documents",
			input: &Input{UserID: "user-1"},
			setup: func(sc *MockScorer, st *MockStore) {
				st.On("GetProfile", mock.Anything, "user-1").Return(createTestProfile(), nil)
				sc.On("ComputeScore", mock.Anything, mock.Anything).Return(nil, &scoring.ScoringFailure{
					Cause: fmt.Errorf("%w: list documents: connection reset", store.ErrQueryFailed),
				})
			},
			wantCode: errors.ErrCodeDatabaseConnectionFailed,
		},
		{
			name:  "engine reports missing profile",
			input: &Input{UserID: "user-1"},
			setup: func(sc *MockScorer, st *MockStore) {
				st.On("GetProfile", mock.Anything, "user-1").Return(createTestProfile(), nil)
				sc.On("ComputeScore", mock.Anything, mock.Anything).Return(nil, scoring.ErrProfileNotFound)
			},
			wantCode: errors.ErrCodeProfileNotFound,
		},
		{
			name:  "save fails",
			input: &Input{UserID: "user-1", Persist: boolPtr(true)},
			setup: func(sc *MockScorer, st *MockStore) {
				st.On("GetProfile", mock.Anything, "user-1").Return(createTestProfile(), nil)
				sc.On("ComputeScore", mock.Anything, mock.Anything).Return(createTestResult(), nil)
				st.On("SaveScore", mock.Anything, mock.Anything).Return(nil, stderrors.New("disk full"))
			},
			wantCode: errors.ErrCodeDatabaseInsertFailed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			scorer := new(MockScorer)
			store := new(MockStore)
			tt.setup(scorer, store)

			h := newTestHandler(t, scorer, store)
			out, err := h.Execute(context.Background(), tt.input)

			require.Error(t, err)
			assert.Nil(t, out)
			assert.Equal(t, tt.wantCode, errors.Normalize(err).Code)
		})
	}
}

func TestHandler_Execute_EngineStoreOutageIsRetryable(t *testing.T) {
	scorer := new(MockScorer)
	profiles := new(MockStore)
	profiles.On("GetProfile", mock.Anything, "user-1").Return(createTestProfile(), nil)
	scorer.On("ComputeScore", mock.Anything, mock.Anything).Return(nil, &scoring.ScoringFailure{
		Cause: fmt.Errorf("%w: count completed courses: connection refused", store.ErrQueryFailed),
	})

	h := newTestHandler(t, scorer, profiles)
	_, err := h.Execute(context.Background(), &Input{UserID: "user-1"})

	require.Error(t, err)
	workerErr := errors.Normalize(err)
	assert.Equal(t, errors.ErrCodeDatabaseConnectionFailed, workerErr.Code)
	assert.True(t, workerErr.Retryable)
	assert.Contains(t, workerErr.Details, "connection refused")
}

// ==========================
// Profile freshness
// ==========================

func TestHandler_Execute_ReadsProfileOnEveryJob(t *testing.T) {
	scorer := new(MockScorer)
	profiles := new(MockStore)

	before := createTestProfile()
	before.Skills = "cooking"
	after := createTestProfile()
	after.Skills = "python, sql, communication"

	profiles.On("GetProfile", mock.Anything, "user-1").Return(before, nil).Once()
	profiles.On("GetProfile", mock.Anything, "user-1").Return(after, nil).Once()
	scorer.On("ComputeScore", mock.Anything, mock.MatchedBy(func(p *models.Profile) bool {
		return p.Skills == "cooking"
	})).Return(&models.ScoreResult{Final: 1, Breakdown: map[string]float64{}}, nil).Once()
	scorer.On("ComputeScore", mock.Anything, mock.MatchedBy(func(p *models.Profile) bool {
		return p.Skills == "python, sql, communication"
	})).Return(createTestResult(), nil).Once()

	h := newTestHandler(t, scorer, profiles)

	first, err := h.Execute(context.Background(), &Input{UserID: "user-1"})
	require.NoError(t, err)
	assert.Equal(t, 1, first.Score)

	second, err := h.Execute(context.Background(), &Input{UserID: "user-1"})
	require.NoError(t, err)
	assert.Equal(t, 5, second.Score)

	profiles.AssertNumberOfCalls(t, "GetProfile", 2)
	scorer.AssertExpectations(t)
}

// ==========================
// Config
// ==========================

func TestLoadConfig(t *testing.T) {
	cfg := LoadConfig(nil)
	assert.Equal(t, 10*time.Second, cfg.Timeout)
	assert.False(t, cfg.PersistByDefault)
}
