// internal/workers/knowledge-base/search-roles/handler.go
package searchroles

import (
	"context"
	"strings"

	"career-workers/internal/common/camunda"
	"career-workers/internal/common/errors"
	"career-workers/internal/common/logger"
	"career-workers/internal/common/validation"
	"career-workers/internal/knowledgebase"
	"career-workers/internal/models"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const (
	TaskType = "search-career-roles"
)

type RoleSource interface {
	Load(ctx context.Context) ([]models.KnowledgeBaseRow, error)
}

type Searcher interface {
	Search(ctx context.Context, query string, limit int) ([]models.KnowledgeBaseRow, error)
}

type Handler struct {
	config       *Config
	roles        RoleSource
	searcher     Searcher
	validator    *validation.Validator
	errorHandler *errors.ErrorHandler
	logger       logger.Logger
}

// NewHandler wires the worker. searcher may be nil; the in-memory search is used then.
func NewHandler(config *Config, roles RoleSource, searcher Searcher, validator *validation.Validator, log logger.Logger) *Handler {
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:       config,
		roles:        roles,
		searcher:     searcher,
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
	if input == nil || strings.TrimSpace(input.Query) == "" {
		return nil, errors.NewInvalidInputError("query is required")
	}
	query := strings.TrimSpace(input.Query)

	limit := input.Limit
	if limit <= 0 {
		limit = knowledgebase.DefaultSearchLimit
	}
	if h.config.MaxLimit > 0 && limit > h.config.MaxLimit {
		limit = h.config.MaxLimit
	}

	if h.config.SearchEnabled && h.searcher != nil {
		rows, err := h.searcher.Search(ctx, query, limit)
		if err == nil {
			return &Output{Results: toResults(rows), Source: SourceElasticsearch}, nil
		}
		h.logger.Warn("elasticsearch search failed, using in-memory search", map[string]interface{}{
			"query": query,
			"error": err.Error(),
		})
	}

	rows, err := h.roles.Load(ctx)
	if err != nil {
		return nil, errors.NewKBLoadFailedError(err)
	}
	return &Output{
		Results: toResults(knowledgebase.SearchRoles(rows, query, limit)),
		Source:  SourceMemory,
	}, nil
}
