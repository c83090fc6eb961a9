// internal/workers/knowledge-base/refresh-kb/handler.go
package refreshkb

import (
	"context"
	"time"

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
	TaskType = "refresh-knowledge-base"
)

type Provider interface {
	Load(ctx context.Context) ([]models.KnowledgeBaseRow, error)
	Refresh(ctx context.Context, path string) (*knowledgebase.RefreshReport, error)
}

type Indexer interface {
	Reindex(ctx context.Context, rows []models.KnowledgeBaseRow) (int, error)
}

type Handler struct {
	config       *Config
	provider     Provider
	index        Indexer
	validator    *validation.Validator
	errorHandler *errors.ErrorHandler
	logger       logger.Logger
	now          func() time.Time
}

// NewHandler wires the worker. index may be nil when search is disabled.
func NewHandler(config *Config, provider Provider, index Indexer, validator *validation.Validator, log logger.Logger) *Handler {
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:       config,
		provider:     provider,
		index:        index,
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
		"jobKey":   job.Key,
		"rowCount": output.RowCount,
		"invalid":  len(output.InvalidRows),
		"indexed":  output.Indexed,
	})
	return nil
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	path := ""
	if input != nil {
		path = input.FilePath
	}

	report, err := h.provider.Refresh(ctx, path)
	if err != nil {
		return nil, errors.NewKBLoadFailedError(err)
	}

	output := &Output{
		RowCount:    report.RowCount,
		InvalidRows: report.InvalidRows,
		Source:      report.Source,
		RefreshedAt: h.now().UTC().Format(time.RFC3339),
	}
	if output.InvalidRows == nil {
		output.InvalidRows = []knowledgebase.InvalidRow{}
	}

	if h.config.SearchEnabled && h.index != nil {
		rows, err := h.provider.Load(ctx)
		if err != nil {
			return nil, errors.NewKBLoadFailedError(err)
		}
		indexed, err := h.index.Reindex(ctx, rows)
		if err != nil {
			return nil, errors.NewElasticsearchConnectionFailedError(err)
		}
		output.Indexed = indexed
	}
	return output, nil
}
