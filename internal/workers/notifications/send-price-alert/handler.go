// internal/workers/notifications/send-price-alert/handler.go
package sendpricealert

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	apperrors "tour-workers/internal/common/errors"
	"tour-workers/internal/common/logger"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	sestypes "github.com/aws/aws-sdk-go-v2/service/ses/types"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	snstypes "github.com/aws/aws-sdk-go-v2/service/sns/types"
	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/google/uuid"
)

const (
	TaskType = "send-price-alert"
)

var (
	ErrNotificationSendFailed = errors.New("NOTIFICATION_SEND_FAILED")
	ErrUnsupportedChannel     = errors.New("unsupported notification channel")
)

// Define interfaces for mocking
type SESService interface {
	SendEmail(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error)
}

type SNSService interface {
	Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
}

type Handler struct {
	config    *Config
	db        *sql.DB
	logger    logger.Logger
	errs      *apperrors.ErrorHandler
	sesClient SESService
	snsClient SNSService
}

func NewHandler(config *Config, db *sql.DB, log logger.Logger) (*Handler, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(), awsconfig.WithRegion(config.AWSRegion))
	if err != nil {
		return nil, fmt.Errorf("load AWS config: %w", err)
	}

	scoped := log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:    config,
		db:        db,
		logger:    scoped,
		errs:      apperrors.NewErrorHandler(scoped),
		sesClient: ses.NewFromConfig(awsCfg),
		snsClient: sns.NewFromConfig(awsCfg),
	}, nil
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	h.logger.Info("processing job", map[string]interface{}{
		"jobKey":      job.Key,
		"workflowKey": job.ProcessInstanceKey,
	})

	var input Input
	if err := json.Unmarshal([]byte(job.Variables), &input); err != nil {
		h.failJob(client, job, "PARSE_ERROR", fmt.Sprintf("parse input: %v", err))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	output, err := h.execute(ctx, &input)
	if err != nil {
		// Delivery failures fail the job with retries left so a transient
		// SES/SNS outage does not end the process; bad channels are terminal.
		h.errs.HandleJobError(context.Background(), client, job, classifyError(err, input.Channel))
		return
	}

	h.completeJob(client, job, output)
}

// classifyError maps execute errors onto the application taxonomy.
func classifyError(err error, channel string) *apperrors.StandardError {
	if errors.Is(err, ErrNotificationSendFailed) {
		return apperrors.NewNotificationSendFailedError(channel, err)
	}
	return apperrors.NewBusinessRuleError("unsupported notification channel", err.Error())
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	if input.Channel != ChannelEmail && input.Channel != ChannelSMS {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedChannel, input.Channel)
	}

	notificationID := uuid.New().String()
	sentAt := time.Now().UTC().Format(time.RFC3339)

	email, phone, err := h.getRecipientContact(ctx, input.UserID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			h.logger.Warn("recipient not found, alert skipped", map[string]interface{}{
				"userId": input.UserID,
			})
			return &Output{
				NotificationID: notificationID,
				Status:         StatusDisabled,
				Channel:        input.Channel,
				SentAt:         sentAt,
			}, nil
		}
		return nil, fmt.Errorf("%w: recipient lookup: %v", ErrNotificationSendFailed, err)
	}

	subject := fmt.Sprintf("Снижение цены: %s", input.Alert.HotelName)
	body := composeAlertBody(input.Alert)

	switch input.Channel {
	case ChannelEmail:
		if !h.config.EmailEnabled || email == "" {
			return &Output{NotificationID: notificationID, Status: StatusDisabled, Channel: input.Channel, SentAt: sentAt}, nil
		}
		if err := h.sendEmail(ctx, email, subject, body); err != nil {
			return nil, fmt.Errorf("%w: email to %s: %v", ErrNotificationSendFailed, input.UserID, err)
		}
	case ChannelSMS:
		if !h.config.SMSEnabled || phone == "" {
			return &Output{NotificationID: notificationID, Status: StatusDisabled, Channel: input.Channel, SentAt: sentAt}, nil
		}
		if err := h.sendSMS(ctx, phone, body); err != nil {
			return nil, fmt.Errorf("%w: sms to %s: %v", ErrNotificationSendFailed, input.UserID, err)
		}
	}

	h.logger.Info("price alert delivered", map[string]interface{}{
		"notificationId": notificationID,
		"userId":         input.UserID,
		"channel":        input.Channel,
		"hotel":          input.Alert.HotelName,
	})

	return &Output{
		NotificationID: notificationID,
		Status:         StatusSent,
		Channel:        input.Channel,
		SentAt:         sentAt,
	}, nil
}

func (h *Handler) getRecipientContact(ctx context.Context, userID string) (string, string, error) {
	var email, phone string
	err := h.db.QueryRowContext(ctx,
		`SELECT email, phone FROM users WHERE id = $1`, userID,
	).Scan(&email, &phone)
	return email, phone, err
}

func (h *Handler) sendEmail(ctx context.Context, to, subject, body string) error {
	_, err := h.sesClient.SendEmail(ctx, &ses.SendEmailInput{
		Destination: &sestypes.Destination{
			ToAddresses: []string{to},
		},
		Message: &sestypes.Message{
			Subject: &sestypes.Content{Data: aws.String(subject)},
			Body: &sestypes.Body{
				Text: &sestypes.Content{Data: aws.String(body)},
			},
		},
		Source: aws.String(h.config.FromEmail),
	})
	return err
}

func (h *Handler) sendSMS(ctx context.Context, to, message string) error {
	input := &sns.PublishInput{
		PhoneNumber: aws.String(to),
		Message:     aws.String(message),
	}
	if h.config.SenderID != "" {
		input.MessageAttributes = map[string]snstypes.MessageAttributeValue{
			"AWS.SNS.SMS.SenderID": {
				DataType:    aws.String("String"),
				StringValue: aws.String(h.config.SenderID),
			},
		}
	}
	_, err := h.snsClient.Publish(ctx, input)
	return err
}

func composeAlertBody(alert Alert) string {
	body := fmt.Sprintf("Цена на тур в отель %s снизилась на %s%%: %s ₽ → %s ₽.",
		alert.HotelName,
		strconv.FormatFloat(alert.DropPercent, 'f', -1, 64),
		formatPrice(alert.PreviousPrice),
		formatPrice(alert.CurrentPrice),
	)
	if alert.Link != "" {
		body += " Забронировать: " + alert.Link
	}
	return body
}

// formatPrice renders a ruble amount with space-grouped thousands.
func formatPrice(price float64) string {
	s := strconv.FormatFloat(price, 'f', 0, 64)
	if len(s) <= 3 {
		return s
	}
	var out []byte
	lead := len(s) % 3
	if lead > 0 {
		out = append(out, s[:lead]...)
	}
	for i := lead; i < len(s); i += 3 {
		if len(out) > 0 {
			out = append(out, ' ')
		}
		out = append(out, s[i:i+3]...)
	}
	return string(out)
}

func (h *Handler) completeJob(client worker.JobClient, job entities.Job, output *Output) {
	cmd, err := client.NewCompleteJobCommand().
		JobKey(job.Key).
		VariablesFromObject(output)
	if err != nil {
		h.logger.Error("failed to create complete job command", map[string]interface{}{
			"error": err,
		})
		return
	}
	_, err = cmd.Send(context.Background())
	if err != nil {
		h.logger.Error("failed to send complete job command", map[string]interface{}{
			"error": err,
		})
	}
}

func (h *Handler) failJob(client worker.JobClient, job entities.Job, errorCode, errorMessage string) {
	h.logger.Error("job failed", map[string]interface{}{
		"jobKey":       job.Key,
		"errorCode":    errorCode,
		"errorMessage": errorMessage,
	})

	_, err := client.NewThrowErrorCommand().
		JobKey(job.Key).
		ErrorCode(errorCode).
		ErrorMessage(errorMessage).
		Send(context.Background())
	if err != nil {
		h.logger.Error("failed to throw error", map[string]interface{}{
			"error": err,
		})
	}
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
