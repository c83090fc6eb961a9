// internal/workers/career/compute-score/handler.go
package computescore

import (
	"context"
	stderrors "errors"
	"time"

	"career-workers/internal/common/camunda"
	"career-workers/internal/common/errors"
	"career-workers/internal/common/logger"
	"career-workers/internal/common/metrics"
	"career-workers/internal/common/validation"
	"career-workers/internal/models"
	"career-workers/internal/scoring"
	"career-workers/internal/store"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/google/uuid"
)

const (
	TaskType = "compute-career-score"
)

type Scorer interface {
	ComputeScore(ctx context.Context, profile *models.Profile) (*models.ScoreResult, error)
}

type ProfileStore interface {
	GetProfile(ctx context.Context, userID string) (*models.Profile, error)
	SaveScore(ctx context.Context, rec *models.CareerScoreRecord) (*models.CareerScoreRecord, error)
}

type Handler struct {
	config       *Config
	scorer       Scorer
	store        ProfileStore
	validator    *validation.Validator
	errorHandler *errors.ErrorHandler
	logger       logger.Logger
	now          func() time.Time
}

// NewHandler wires the worker. validator may be nil.
func NewHandler(
	config *Config,
	scorer Scorer,
	st ProfileStore,
	validator *validation.Validator,
	log logger.Logger,
) *Handler {
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:       config,
		scorer:       scorer,
		store:        st,
		validator:    validator,
		errorHandler: errors.NewErrorHandler(log),
		logger:       log,
		now:          time.Now,
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) error {
	h.logger.Info("processing job", map[string]interface{}{
		"jobKey":      job.Key,
		"workflowKey": job.ProcessInstanceKey,
	})

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	var input Input
	if err := camunda.DecodeVariables(job, TaskType, h.validator, &input); err != nil {
		h.errorHandler.HandleJobError(ctx, client, job, err)
		return err
	}

	output, err := h.execute(ctx, &input)
	if err != nil {
		h.errorHandler.HandleJobError(ctx, client, job, err)
		return err
	}

	if err := camunda.CompleteJob(ctx, client, job, output); err != nil {
		h.logger.Error("failed to complete job", map[string]interface{}{
			"jobKey": job.Key,
			"error":  err.Error(),
		})
		return err
	}

	h.logger.Info("job completed", map[string]interface{}{
		"jobKey":  job.Key,
		"userId":  output.UserID,
		"score":   output.Score,
		"scoreId": output.ScoreID,
	})
	return nil
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	if input == nil {
		return nil, errors.NewInvalidInputError("input cannot be nil")
	}

	profile, err := h.resolveProfile(ctx, input)
	if err != nil {
		return nil, err
	}

	res, err := h.scorer.ComputeScore(ctx, profile)
	if err != nil {
		switch {
		case stderrors.Is(err, scoring.ErrProfileNotFound):
			return nil, errors.NewProfileNotFoundError(profile.UserID)
		case ctx.Err() == context.DeadlineExceeded:
			return nil, errors.NewQueryTimeoutError("compute_score")
		case stderrors.Is(err, store.ErrQueryFailed):
			return nil, errors.NewDatabaseConnectionFailedError(err)
		case stderrors.Is(err, store.ErrInsertFailed):
			return nil, errors.NewDatabaseInsertFailedError(err)
		default:
			return nil, errors.NewScoringFailedError(err)
		}
	}
	metrics.RecordScore(res.Final)

	computedAt := h.now().UTC()
	output := &Output{
		UserID:       profile.UserID,
		Score:        res.Final,
		Breakdown:    res.Breakdown,
		Confidence:   res.Confidence,
		Strengths:    res.Strengths,
		Improvements: res.Improvements,
		TargetRole:   res.TargetRole,
		ComputedAt:   computedAt.Format(time.RFC3339),
	}

	if h.shouldPersist(input) {
		rec := models.NewCareerScoreRecord(uuid.New().String(), profile.UserID, res, computedAt)
		saved, err := h.store.SaveScore(ctx, rec)
		if err != nil {
			return nil, errors.NewDatabaseInsertFailedError(err)
		}
		output.ScoreID = saved.ID
	}
	return output, nil
}

func (h *Handler) shouldPersist(input *Input) bool {
	if input.Persist != nil {
		return *input.Persist
	}
	return h.config.PersistByDefault
}

// resolveProfile prefers the profile in the job variables. Otherwise the
// profile is read from the store on every job so edits are scored at once.
func (h *Handler) resolveProfile(ctx context.Context, input *Input) (*models.Profile, error) {
	if input.Profile != nil {
		p := *input.Profile
		if p.UserID == "" {
			p.UserID = input.UserID
		}
		if err := models.Validate(&p); err != nil {
			return nil, errors.NewInvalidInputError(err.Error())
		}
		return &p, nil
	}
	if input.UserID == "" {
		return nil, errors.NewInvalidInputError("userId is required")
	}

	p, err := h.store.GetProfile(ctx, input.UserID)
	if err != nil {
		return nil, errors.NewDatabaseConnectionFailedError(err)
	}
	if p == nil {
		return nil, errors.NewProfileNotFoundError(input.UserID)
	}
	return p, nil
}
