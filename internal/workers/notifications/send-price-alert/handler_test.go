// internal/workers/notifications/send-price-alert/handler_test.go
package sendpricealert

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	apperrors "tour-workers/internal/common/errors"
	"tour-workers/internal/common/logger"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/stretchr/testify/assert"
)

// ==========================
// Mock Implementations
// ==========================

type MockSESService struct {
	SendEmailFunc func(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error)
}

func (m *MockSESService) SendEmail(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error) {
	return m.SendEmailFunc(ctx, params, optFns...)
}

type MockSNSService struct {
	PublishFunc func(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
}

func (m *MockSNSService) Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error) {
	return m.PublishFunc(ctx, params, optFns...)
}

// ==========================
// Test Helper Functions
// ==========================

func createTestConfig() *Config {
	return &Config{
		EmailEnabled: true,
		SMSEnabled:   true,
		FromEmail:    "alerts@tours.example",
		AWSRegion:    "eu-central-1",
		SenderID:     "TourAlert",
		Timeout:      10 * time.Second,
	}
}

func createTestInput(channel string) *Input {
	return &Input{
		UserID:  "user-001",
		Channel: channel,
		Alert: Alert{
			HotelID:       "rixos-premium-belek",
			HotelName:     "Rixos Premium Belek",
			PreviousPrice: 200000,
			CurrentPrice:  150000,
			DropPercent:   25,
			Link:          "https://level.travel/rixos-premium-belek",
		},
	}
}

func newTestHandler(t *testing.T, db *sql.DB, sesMock SESService, snsMock SNSService) *Handler {
	log := logger.NewTestLogger(t)
	return &Handler{
		config:    createTestConfig(),
		db:        db,
		logger:    log,
		errs:      apperrors.NewErrorHandler(log),
		sesClient: sesMock,
		snsClient: snsMock,
	}
}

func expectContactLookup(mock sqlmock.Sqlmock) {
	mock.ExpectQuery(`SELECT email, phone FROM users WHERE id = \$1`).
		WithArgs("user-001").
		WillReturnRows(sqlmock.NewRows([]string{"email", "phone"}).
			AddRow("traveler@example.com", "+79000000001"))
}

// ==========================
// Execute Tests
// ==========================

func TestExecute_EmailAlert(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	expectContactLookup(mock)

	var sentSubject, sentBody string
	mockSES := &MockSESService{
		SendEmailFunc: func(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error) {
			assert.Equal(t, "traveler@example.com", params.Destination.ToAddresses[0])
			assert.Equal(t, "alerts@tours.example", *params.Source)
			sentSubject = *params.Message.Subject.Data
			sentBody = *params.Message.Body.Text.Data
			return &ses.SendEmailOutput{}, nil
		},
	}

	handler := newTestHandler(t, db, mockSES, &MockSNSService{})
	output, err := handler.Execute(context.Background(), createTestInput(ChannelEmail))

	assert.NoError(t, err)
	assert.Equal(t, StatusSent, output.Status)
	assert.Equal(t, ChannelEmail, output.Channel)
	assert.NotEmpty(t, output.NotificationID)

	assert.Equal(t, "Снижение цены: Rixos Premium Belek", sentSubject)
	assert.Contains(t, sentBody, "снизилась на 25%")
	assert.Contains(t, sentBody, "200 000 ₽ → 150 000 ₽")
	assert.Contains(t, sentBody, "https://level.travel/rixos-premium-belek")

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestExecute_SMSAlert(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	expectContactLookup(mock)

	mockSNS := &MockSNSService{
		PublishFunc: func(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error) {
			assert.Equal(t, "+79000000001", *params.PhoneNumber)
			assert.Contains(t, *params.Message, "Rixos Premium Belek")
			if assert.Contains(t, params.MessageAttributes, "AWS.SNS.SMS.SenderID") {
				assert.Equal(t, "TourAlert", *params.MessageAttributes["AWS.SNS.SMS.SenderID"].StringValue)
			}
			return &sns.PublishOutput{}, nil
		},
	}

	handler := newTestHandler(t, db, &MockSESService{}, mockSNS)
	output, err := handler.Execute(context.Background(), createTestInput(ChannelSMS))

	assert.NoError(t, err)
	assert.Equal(t, StatusSent, output.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestExecute_RecipientNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`SELECT email, phone FROM users WHERE id = \$1`).
		WithArgs("user-001").
		WillReturnError(sql.ErrNoRows)

	handler := newTestHandler(t, db, &MockSESService{}, &MockSNSService{})
	output, err := handler.Execute(context.Background(), createTestInput(ChannelEmail))

	assert.NoError(t, err)
	assert.Equal(t, StatusDisabled, output.Status)
	assert.NotEmpty(t, output.NotificationID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestExecute_EmailSendFailureIsRetryable(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	expectContactLookup(mock)

	mockSES := &MockSESService{
		SendEmailFunc: func(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error) {
			return nil, errors.New("ses throttled")
		},
	}

	handler := newTestHandler(t, db, mockSES, &MockSNSService{})
	output, err := handler.Execute(context.Background(), createTestInput(ChannelEmail))

	assert.ErrorIs(t, err, ErrNotificationSendFailed)
	assert.Nil(t, output)

	// The failure must be classified so the job is failed with retries
	// left, not thrown as a terminal BPMN error.
	stdErr := classifyError(err, ChannelEmail)
	assert.Equal(t, apperrors.ErrCodeNotificationSendFailed, stdErr.Code)
	assert.True(t, stdErr.Retryable)
	assert.Equal(t, 3, apperrors.ConvertToBPMNError(stdErr).Retries)
}

func TestClassifyError_UnsupportedChannelIsTerminal(t *testing.T) {
	stdErr := classifyError(ErrUnsupportedChannel, "pigeon")

	assert.False(t, stdErr.Retryable)
	assert.Equal(t, 0, apperrors.ConvertToBPMNError(stdErr).Retries)
}

func TestExecute_ChannelDisabled(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	expectContactLookup(mock)

	handler := newTestHandler(t, db, &MockSESService{}, &MockSNSService{})
	handler.config.EmailEnabled = false

	output, err := handler.Execute(context.Background(), createTestInput(ChannelEmail))

	assert.NoError(t, err)
	assert.Equal(t, StatusDisabled, output.Status)
}

func TestExecute_UnsupportedChannel(t *testing.T) {
	db, _, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	handler := newTestHandler(t, db, &MockSESService{}, &MockSNSService{})
	output, err := handler.Execute(context.Background(), createTestInput("pigeon"))

	assert.ErrorIs(t, err, ErrUnsupportedChannel)
	assert.Nil(t, output)
}

func TestFormatPrice(t *testing.T) {
	assert.Equal(t, "950", formatPrice(950))
	assert.Equal(t, "1 500", formatPrice(1500))
	assert.Equal(t, "150 000", formatPrice(150000))
	assert.Equal(t, "1 250 000", formatPrice(1250000))
}
