// internal/workers/career/evaluate-journey/handler.go
package evaluatejourney

import (
	"context"

	"career-workers/internal/common/camunda"
	"career-workers/internal/common/errors"
	"career-workers/internal/common/logger"
	"career-workers/internal/common/validation"
	"career-workers/internal/journey"
	"career-workers/internal/models"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const (
	TaskType = "evaluate-journey-stage"
)

type Store interface {
	journey.ProgressStore
	GetProfile(ctx context.Context, userID string) (*models.Profile, error)
}

type Handler struct {
	config       *Config
	store        Store
	evaluator    *journey.Evaluator
	validator    *validation.Validator
	errorHandler *errors.ErrorHandler
	logger       logger.Logger
}

func NewHandler(config *Config, store Store, validator *validation.Validator, log logger.Logger) *Handler {
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:       config,
		store:        store,
		evaluator:    journey.NewEvaluator(store),
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
	if input == nil || input.UserID == "" {
		return nil, errors.NewInvalidInputError("userId is required")
	}

	profile, err := h.store.GetProfile(ctx, input.UserID)
	if err != nil {
		return nil, errors.NewQueryExecutionFailedError("get_profile", err)
	}
	if profile == nil {
		return nil, errors.NewProfileNotFoundError(input.UserID)
	}

	status, err := h.evaluator.Evaluate(ctx, profile)
	if err != nil {
		return nil, errors.NewQueryExecutionFailedError("journey_progress", err)
	}

	h.logger.Debug("journey evaluated", map[string]interface{}{
		"userId":     input.UserID,
		"stage":      status.Stage,
		"completion": status.Completion,
	})

	return &Output{
		UserID:          input.UserID,
		Stage:           status.Stage,
		StageName:       status.StageName,
		Completion:      status.Completion,
		NextActions:     status.NextActions,
		Message:         status.Message,
		CanAccessStages: status.CanAccess,
	}, nil
}
