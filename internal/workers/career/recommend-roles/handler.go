// internal/workers/career/recommend-roles/handler.go
package recommendroles

import (
	"context"
	stderrors "errors"

	"career-workers/internal/common/camunda"
	"career-workers/internal/common/errors"
	"career-workers/internal/common/logger"
	"career-workers/internal/common/metrics"
	"career-workers/internal/common/validation"
	"career-workers/internal/models"
	"career-workers/internal/scoring"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const (
	TaskType = "recommend-career-roles"
)

type Recommender interface {
	Recommend(ctx context.Context, profile *models.Profile) (*models.RecommendationResult, error)
}

type ProfileStore interface {
	GetProfile(ctx context.Context, userID string) (*models.Profile, error)
}

type Handler struct {
	config       *Config
	recommender  Recommender
	store        ProfileStore
	validator    *validation.Validator
	errorHandler *errors.ErrorHandler
	logger       logger.Logger
}

func NewHandler(config *Config, recommender Recommender, store ProfileStore, validator *validation.Validator, log logger.Logger) *Handler {
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:       config,
		recommender:  recommender,
		store:        store,
		validator:    validator,
		errorHandler: errors.NewErrorHandler(log),
		logger:       log,
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
	return nil
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	if input == nil {
		return nil, errors.NewInvalidInputError("input cannot be nil")
	}

	profile := input.Profile
	if profile == nil {
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
		profile = p
	} else if profile.UserID == "" {
		p := *profile
		p.UserID = input.UserID
		profile = &p
	}

	res, err := h.recommender.Recommend(ctx, profile)
	if err != nil {
		if stderrors.Is(err, scoring.ErrProfileNotFound) {
			return nil, errors.NewProfileNotFoundError(input.UserID)
		}
		return nil, errors.NewScoringFailedError(err)
	}
	if res.UsedFallback {
		metrics.RecordRecommendationFallback()
		h.logger.Debug("no role cleared the match threshold", map[string]interface{}{"userId": profile.UserID})
	}

	return &Output{
		UserID:        profile.UserID,
		JobRoles:      res.JobRoles,
		SkillsToLearn: res.SkillsToLearn,
		UsedFallback:  res.UsedFallback,
	}, nil
}
