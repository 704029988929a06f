package consumer

import (
	"context"
	"encoding/json"
	"fmt"

	"go-hrdesk/internal/events"
	"go-hrdesk/internal/notifier"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// ConsumeOnboardingLifecycle sends the welcome email when an onboarding
// approval event lands. Mail failures are logged and the message is still
// committed; the notification contract is best-effort.
func ConsumeOnboardingLifecycle(
	ctx context.Context,
	reader *kafkago.Reader,
	mailer notifier.Mailer,
	logger *zap.Logger,
) {
	log := logger.Named("kafka.consumer.onboarding_lifecycle")
	log.Info("onboarding lifecycle consumer started")

	for {
		msg, err := reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				log.Info("onboarding lifecycle consumer stopped")
				return
			}
			log.Error("fetch onboarding lifecycle message failed", zap.Error(err))
			continue
		}

		var event events.OnboardingApprovedEvent
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			log.Error("decode onboarding_approved event failed", zap.Error(err))
			_ = reader.CommitMessages(ctx, msg)
			continue
		}

		mail := notifier.Message{
			To:      event.OfficialEmail,
			Subject: "Welcome aboard",
			Body: fmt.Sprintf(
				"Hi %s,\n\nYour onboarding has been approved. Your employee ID is %s.\n",
				event.FullName, event.EmployeeCode,
			),
		}
		if err := mailer.Send(ctx, mail); err != nil {
			log.Error("send welcome mail failed",
				zap.String("employee_id", event.EmployeeID),
				zap.Error(err),
			)
		}

		if err := reader.CommitMessages(ctx, msg); err != nil {
			log.Error("commit onboarding lifecycle message failed", zap.Error(err))
			continue
		}

		log.Info("welcome mail dispatched from onboarding_approved event",
			zap.String("employee_id", event.EmployeeID),
			zap.String("employee_code", event.EmployeeCode),
		)
	}
}

// ConsumeLeaveLifecycle notifies the employee when a leave request is decided.
func ConsumeLeaveLifecycle(
	ctx context.Context,
	reader *kafkago.Reader,
	mailer notifier.Mailer,
	logger *zap.Logger,
) {
	log := logger.Named("kafka.consumer.leave_lifecycle")
	log.Info("leave lifecycle consumer started")

	for {
		msg, err := reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				log.Info("leave lifecycle consumer stopped")
				return
			}
			log.Error("fetch leave lifecycle message failed", zap.Error(err))
			continue
		}

		var event events.LeaveDecidedEvent
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			log.Error("decode leave_decided event failed", zap.Error(err))
			_ = reader.CommitMessages(ctx, msg)
			continue
		}

		mail := notifier.Message{
			To:      event.OfficialEmail,
			Subject: fmt.Sprintf("Your %s leave request was %s", event.LeaveType, event.Status),
			Body: fmt.Sprintf(
				"Your %s leave request for %d working day(s) has been %s.\n",
				event.LeaveType, event.TotalDays, event.Status,
			),
		}
		if err := mailer.Send(ctx, mail); err != nil {
			log.Error("send leave decision mail failed",
				zap.String("leave_id", event.LeaveID),
				zap.Error(err),
			)
		}

		if err := reader.CommitMessages(ctx, msg); err != nil {
			log.Error("commit leave lifecycle message failed", zap.Error(err))
			continue
		}

		log.Info("leave decision mail dispatched",
			zap.String("leave_id", event.LeaveID),
			zap.String("status", event.Status),
		)
	}
}
