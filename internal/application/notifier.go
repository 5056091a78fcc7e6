package application

import (
	"context"
	"time"

	"github.com/Kilat-Pet-Delivery/service-care/internal/platform/kafka"
	"github.com/Kilat-Pet-Delivery/service-care/internal/platform/metrics"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Message is a notification template key understood by the notification service.
type Message string

const (
	MessageCareCreated              Message = "care.created"
	MessageCareAcceptedByClient     Message = "care.accepted_by_client"
	MessageCareCancelledByClient    Message = "care.cancelled_by_client"
	MessageCareAcceptedByCaretaker  Message = "care.accepted_by_caretaker"
	MessageCareCancelledByCaretaker Message = "care.cancelled_by_caretaker"
	MessageCarePaid                 Message = "care.paid"
	MessageCareEdited               Message = "care.edited"
)

// ObjectTypeCare marks notifications about a care.
const ObjectTypeCare = "CARE"

// EventNotificationRequested is the CloudEvent type of outgoing notifications.
const EventNotificationRequested = "notification.requested"

// Notification is one request to tell a user something happened to an object.
type Notification struct {
	RecipientID uuid.UUID `json:"recipient_id"`
	ObjectID    uuid.UUID `json:"object_id"`
	ObjectType  string    `json:"object_type"`
	Template    Message   `json:"template"`
	OccurredAt  time.Time `json:"occurred_at"`
}

// Notifier dispatches notifications. Delivery is fire-and-forget: Notify never
// reports failure to the caller.
type Notifier interface {
	Notify(ctx context.Context, n Notification)
}

// EventPublisher publishes CloudEvents to a topic.
type EventPublisher interface {
	PublishEvent(ctx context.Context, topic, key string, event kafka.CloudEvent) error
}

// KafkaNotifier publishes notification requests to the notification topic.
type KafkaNotifier struct {
	publisher EventPublisher
	topic     string
	source    string
	metrics   *metrics.Metrics
	logger    *zap.Logger
}

// NewKafkaNotifier creates a new KafkaNotifier.
func NewKafkaNotifier(publisher EventPublisher, topic, source string, m *metrics.Metrics, logger *zap.Logger) *KafkaNotifier {
	return &KafkaNotifier{
		publisher: publisher,
		topic:     topic,
		source:    source,
		metrics:   m,
		logger:    logger,
	}
}

// Notify publishes n, logging any failure.
func (n *KafkaNotifier) Notify(ctx context.Context, notification Notification) {
	if notification.OccurredAt.IsZero() {
		notification.OccurredAt = time.Now().UTC()
	}

	event, err := kafka.NewCloudEvent(n.source, EventNotificationRequested, notification)
	if err == nil {
		event.Subject = notification.ObjectID.String()
		err = n.publisher.PublishEvent(ctx, n.topic, notification.RecipientID.String(), event)
	}
	n.metrics.ObserveNotification(string(notification.Template), err)

	if err != nil {
		n.logger.Warn("failed to dispatch notification",
			zap.String("template", string(notification.Template)),
			zap.String("recipient_id", notification.RecipientID.String()),
			zap.String("object_id", notification.ObjectID.String()),
			zap.Error(err),
		)
	}
}
