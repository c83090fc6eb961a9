// internal/workers/communication/send-score-notification/handler.go
package sendscorenotification

import (
	"context"
	"time"

	awsx "career-workers/internal/common/aws"
	"career-workers/internal/common/camunda"
	"career-workers/internal/common/errors"
	"career-workers/internal/common/logger"
	"career-workers/internal/common/validation"
	"career-workers/internal/models"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/google/uuid"
)

const (
	TaskType = "send-score-notification"
)

type ContactStore interface {
	GetProfile(ctx context.Context, userID string) (*models.Profile, error)
}

type EmailSender interface {
	Send(ctx context.Context, e awsx.Email) (string, error)
}

type SMSSender interface {
	SendSMS(ctx context.Context, phone, message string) (string, error)
}

type Handler struct {
	config       *Config
	store        ContactStore
	email        EmailSender
	sms          SMSSender
	validator    *validation.Validator
	errorHandler *errors.ErrorHandler
	logger       logger.Logger
	now          func() time.Time
}

// NewHandler wires the worker. email and sms may be nil when the channel is disabled.
func NewHandler(
	config *Config,
	store ContactStore,
	email EmailSender,
	sms SMSSender,
	validator *validation.Validator,
	log logger.Logger,
) *Handler {
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:       config,
		store:        store,
		email:        email,
		sms:          sms,
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
		"jobKey":         job.Key,
		"notificationId": output.NotificationID,
		"status":         output.Status,
	})
	return nil
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	if input == nil || input.UserID == "" {
		return nil, errors.NewInvalidInputError("userId is required")
	}

	output := &Output{
		NotificationID: uuid.New().String(),
		Status:         models.NotificationDisabled,
		Channels:       []string{},
		SentAt:         h.now().UTC().Format(time.RFC3339),
	}

	profile, err := h.store.GetProfile(ctx, input.UserID)
	if err != nil {
		return nil, errors.NewQueryExecutionFailedError("get_contact", err)
	}
	if profile == nil {
		h.logger.Warn("recipient not found", map[string]interface{}{"userId": input.UserID})
		return output, nil
	}

	data := templateData{
		Name:         profile.Name,
		Score:        input.Score,
		Strengths:    input.Strengths,
		Improvements: input.Improvements,
	}
	if data.Name == "" {
		data.Name = "there"
	}

	failed := false

	if h.config.EmailEnabled && h.email != nil && profile.ContactEmail != "" {
		if err := h.sendEmail(ctx, profile.ContactEmail, data); err != nil {
			h.logger.Error("email send failed", map[string]interface{}{
				"userId": input.UserID,
				"error":  err.Error(),
			})
			failed = true
		} else {
			output.Channels = append(output.Channels, ChannelEmail)
		}
	}

	if h.shouldText(profile, input.Score) {
		if err := h.sendSMS(ctx, profile.ContactPhone, data); err != nil {
			h.logger.Error("SMS send failed", map[string]interface{}{
				"userId": input.UserID,
				"error":  err.Error(),
			})
			failed = true
		} else {
			output.Channels = append(output.Channels, ChannelSMS)
		}
	}

	switch {
	case failed:
		output.Status = models.NotificationFailed
	case len(output.Channels) > 0:
		output.Status = models.NotificationSent
	}
	return output, nil
}

// shouldText limits SMS to low scores with a phone on file.
func (h *Handler) shouldText(profile *models.Profile, score int) bool {
	return h.config.SMSEnabled && h.sms != nil && profile.ContactPhone != "" && score < h.config.LowScoreThreshold
}

func (h *Handler) sendEmail(ctx context.Context, to string, data templateData) error {
	tmpl := templates[TypeScoreReady]
	subject, err := render(tmpl.Subject, data)
	if err != nil {
		return err
	}
	body, err := render(tmpl.Body, data)
	if err != nil {
		return err
	}
	html, err := renderHTML(data)
	if err != nil {
		return err
	}
	_, err = h.email.Send(ctx, awsx.Email{
		From:     h.config.FromEmail,
		To:       to,
		Subject:  subject,
		TextBody: body,
		HTMLBody: html,
	})
	return err
}

func (h *Handler) sendSMS(ctx context.Context, phone string, data templateData) error {
	message, err := render(templates[TypeScoreLow].Body, data)
	if err != nil {
		return err
	}
	_, err = h.sms.SendSMS(ctx, phone, message)
	return err
}
