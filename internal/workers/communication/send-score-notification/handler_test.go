package sendscorenotification

import (
	"context"
	stderrors "errors"
	"testing"
	"time"

	awsx "career-workers/internal/common/aws"
	"career-workers/internal/common/errors"
	"career-workers/internal/common/logger"
	"career-workers/internal/models"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

// ==========================
// Mock Services
// ==========================

type MockSESService struct {
	SendEmailFunc func(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error)
	calls         []*ses.SendEmailInput
}

func (m *MockSESService) SendEmail(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error) {
	m.calls = append(m.calls, params)
	if m.SendEmailFunc != nil {
		return m.SendEmailFunc(ctx, params, optFns...)
	}
	return &ses.SendEmailOutput{MessageId: aws.String("email-1")}, nil
}

type MockSNSService struct {
	PublishFunc func(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
	calls       []*sns.PublishInput
}

func (m *MockSNSService) Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error) {
	m.calls = append(m.calls, params)
	if m.PublishFunc != nil {
		return m.PublishFunc(ctx, params, optFns...)
	}
	return &sns.PublishOutput{MessageId: aws.String("sms-1")}, nil
}

type fakeStore struct {
	profile *models.Profile
	err     error
}

func (f *fakeStore) GetProfile(context.Context, string) (*models.Profile, error) {
	return f.profile, f.err
}

// ==========================
// Test Helpers
// ==========================

func createValidConfig() *Config {
	return &Config{
		EmailEnabled:      true,
		SMSEnabled:        true,
		FromEmail:         "noreply@example.com",
		LowScoreThreshold: 40,
		Timeout:           5 * time.Second,
	}
}

func createTestProfile() *models.Profile {
	return &models.Profile{
		UserID:       "user-1",
		Name:         "Asha",
		ContactEmail: "asha@example.com",
		ContactPhone: "+919800000000",
	}
}

type testDeps struct {
	ses *MockSESService
	sns *MockSNSService
}

func newTestHandler(t *testing.T, cfg *Config, store ContactStore) (*Handler, *testDeps) {
	deps := &testDeps{ses: &MockSESService{}, sns: &MockSNSService{}}
	h := NewHandler(
		cfg,
		store,
		awsx.NewSESClientWithAPI(deps.ses),
		awsx.NewSNSClientWithAPI(deps.sns, "CAREER"),
		nil,
		logger.NewZapAdapter(zaptest.NewLogger(t)),
	)
	h.now = func() time.Time { return time.Date(2026, 6, 1, 8, 0, 0, 0, time.UTC) }
	return h, deps
}

// ==========================
// Execute
// ==========================

func TestHandler_Execute_Channels(t *testing.T) {
	tests := []struct {
		name         string
		cfg          func(*Config)
		profile      func(*models.Profile)
		score        int
		wantStatus   string
		wantChannels []string
		wantEmails   int
		wantSMS      int
	}{
		{
			name:         "high score sends email only",
			score:        72,
			wantStatus:   models.NotificationSent,
			wantChannels: []string{ChannelEmail},
			wantEmails:   1,
		},
		{
			name:         "low score also sends sms",
			score:        25,
			wantStatus:   models.NotificationSent,
			wantChannels: []string{ChannelEmail, ChannelSMS},
			wantEmails:   1,
			wantSMS:      1,
		},
		{
			name:         "score at threshold is not low",
			score:        40,
			wantStatus:   models.NotificationSent,
			wantChannels: []string{ChannelEmail},
			wantEmails:   1,
		},
		{
			name:         "low score without phone",
			profile:      func(p *models.Profile) { p.ContactPhone = "" },
			score:        10,
			wantStatus:   models.NotificationSent,
			wantChannels: []string{ChannelEmail},
			wantEmails:   1,
		},
		{
			name:         "all channels disabled",
			cfg:          func(c *Config) { c.EmailEnabled, c.SMSEnabled = false, false },
			score:        10,
			wantStatus:   models.NotificationDisabled,
			wantChannels: []string{},
		},
		{
			name:         "no email on file and high score",
			profile:      func(p *models.Profile) { p.ContactEmail = "" },
			score:        90,
			wantStatus:   models.NotificationDisabled,
			wantChannels: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := createValidConfig()
			if tt.cfg != nil {
				tt.cfg(cfg)
			}
			profile := createTestProfile()
			if tt.profile != nil {
				tt.profile(profile)
			}

			h, deps := newTestHandler(t, cfg, &fakeStore{profile: profile})
			out, err := h.Execute(context.Background(), &Input{UserID: "user-1", Score: tt.score})

			require.NoError(t, err)
			assert.Equal(t, tt.wantStatus, out.Status)
			assert.Equal(t, tt.wantChannels, out.Channels)
			assert.Equal(t, "2026-06-01T08:00:00Z", out.SentAt)
			_, err = uuid.Parse(out.NotificationID)
			assert.NoError(t, err)
			assert.Len(t, deps.ses.calls, tt.wantEmails)
			assert.Len(t, deps.sns.calls, tt.wantSMS)
		})
	}
}

func TestHandler_Execute_RendersEmail(t *testing.T) {
	h, deps := newTestHandler(t, createValidConfig(), &fakeStore{profile: createTestProfile()})

	_, err := h.Execute(context.Background(), &Input{
		UserID:       "user-1",
		Score:        72,
		Strengths:    []string{"Strong technical skills"},
		Improvements: []string{"Add a portfolio link"},
	})
	require.NoError(t, err)
	require.Len(t, deps.ses.calls, 1)

	msg := deps.ses.calls[0]
	assert.Equal(t, "noreply@example.com", aws.ToString(msg.Source))
	assert.Equal(t, []string{"asha@example.com"}, msg.Destination.ToAddresses)
	assert.Equal(t, "Your career readiness score: 72/100", aws.ToString(msg.Message.Subject.Data))

	text := aws.ToString(msg.Message.Body.Text.Data)
	assert.Contains(t, text, "Hi Asha,")
	assert.Contains(t, text, "  - Strong technical skills")
	assert.Contains(t, text, "  - Add a portfolio link")

	html := aws.ToString(msg.Message.Body.Html.Data)
	assert.Contains(t, html, "<strong>72/100</strong>")
	assert.Contains(t, html, "<li>Add a portfolio link</li>")
}

func TestHandler_Execute_RendersSMS(t *testing.T) {
	profile := createTestProfile()
	profile.Name = ""
	h, deps := newTestHandler(t, createValidConfig(), &fakeStore{profile: profile})

	_, err := h.Execute(context.Background(), &Input{UserID: "user-1", Score: 12})
	require.NoError(t, err)
	require.Len(t, deps.sns.calls, 1)

	assert.Equal(t, "+919800000000", aws.ToString(deps.sns.calls[0].PhoneNumber))
	assert.Equal(t,
		"Hi there, your career readiness score is 12/100. Log in to see the steps that will raise it.",
		aws.ToString(deps.sns.calls[0].Message))
}

func TestHandler_Execute_SendFailure(t *testing.T) {
	h, deps := newTestHandler(t, createValidConfig(), &fakeStore{profile: createTestProfile()})
	deps.ses.SendEmailFunc = func(context.Context, *ses.SendEmailInput, ...func(*ses.Options)) (*ses.SendEmailOutput, error) {
		return nil, stderrors.New("MessageRejected")
	}

	out, err := h.Execute(context.Background(), &Input{UserID: "user-1", Score: 20})

	require.NoError(t, err)
	assert.Equal(t, models.NotificationFailed, out.Status)
	assert.Equal(t, []string{ChannelSMS}, out.Channels)
}

func TestHandler_Execute_UnknownRecipient(t *testing.T) {
	h, deps := newTestHandler(t, createValidConfig(), &fakeStore{})

	out, err := h.Execute(context.Background(), &Input{UserID: "ghost", Score: 20})

	require.NoError(t, err)
	assert.Equal(t, models.NotificationDisabled, out.Status)
	assert.Empty(t, deps.ses.calls)
	assert.Empty(t, deps.sns.calls)
}

func TestHandler_Execute_Errors(t *testing.T) {
	t.Run("missing user id", func(t *testing.T) {
		h, _ := newTestHandler(t, createValidConfig(), &fakeStore{})
		_, err := h.Execute(context.Background(), &Input{Score: 20})
		require.Error(t, err)
		assert.Equal(t, errors.ErrCodeInvalidInput, errors.Normalize(err).Code)
	})

	t.Run("contact lookup fails", func(t *testing.T) {
		h, _ := newTestHandler(t, createValidConfig(), &fakeStore{err: stderrors.New("connection reset")})
		_, err := h.Execute(context.Background(), &Input{UserID: "user-1", Score: 20})
		require.Error(t, err)
		stdErr := errors.Normalize(err)
		assert.Equal(t, errors.ErrCodeQueryExecutionFailed, stdErr.Code)
		assert.True(t, stdErr.Retryable)
	})
}

func TestLoadConfig(t *testing.T) {
	cfg := LoadConfig(nil)
	assert.Equal(t, 40, cfg.LowScoreThreshold)
	assert.Equal(t, 30*time.Second, cfg.Timeout)
	assert.False(t, cfg.EmailEnabled)
}
