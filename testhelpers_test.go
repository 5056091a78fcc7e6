//go:build integration

package main_test

import (
	"context"
	"fmt"
	"net"
	"testing"
	"time"

	"github.com/Kilat-Pet-Delivery/service-care/internal/application"
	careDomain "github.com/Kilat-Pet-Delivery/service-care/internal/domain/care"
	careEvents "github.com/Kilat-Pet-Delivery/service-care/internal/events"
	"github.com/Kilat-Pet-Delivery/service-care/internal/platform/database"
	"github.com/Kilat-Pet-Delivery/service-care/internal/platform/kafka"
	"github.com/Kilat-Pet-Delivery/service-care/internal/repository"
	"github.com/Kilat-Pet-Delivery/service-care/migrations"
	"github.com/google/uuid"
	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	kafkamodule "github.com/testcontainers/testcontainers-go/modules/kafka"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	accountTopic      = "account.events"
	notificationTopic = "notification.events"
)

// testInfra holds shared test infrastructure.
type testInfra struct {
	DB           *gorm.DB
	KafkaBrokers []string
	Cleanup      func()
}

// careStack holds wired-up care service components.
type careStack struct {
	Cares           *application.CareService
	Offers          *application.OfferService
	Blocks          *application.BlockService
	CareRepo        *repository.GormCareRepository
	Consumer        *careEvents.AccountEventConsumer
	CleanupProducer func()
}

// setupContainers starts PostgreSQL and Kafka testcontainers, applies the
// SQL migrations and returns a connected GORM DB.
func setupContainers(t *testing.T) *testInfra {
	t.Helper()
	ctx := context.Background()

	pgReq := testcontainers.ContainerRequest{
		Image:        "postgres:16-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     "test",
			"POSTGRES_PASSWORD": "test",
			"POSTGRES_DB":       "test_care",
		},
		WaitingFor: wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2).
			WithStartupTimeout(60 * time.Second),
	}
	pgContainer, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: pgReq,
		Started:          true,
	})
	require.NoError(t, err, "failed to start PostgreSQL container")

	pgHost, err := pgContainer.Host(ctx)
	require.NoError(t, err)
	pgPort, err := pgContainer.MappedPort(ctx, "5432")
	require.NoError(t, err)

	cfg := database.PostgresConfig{
		Host:     pgHost,
		Port:     pgPort.Port(),
		User:     "test",
		Password: "test",
		DBName:   "test_care",
		SSLMode:  "disable",
	}
	logger := zap.NewNop()

	var db *gorm.DB
	require.Eventually(t, func() bool {
		db, err = database.Connect(cfg, logger)
		return err == nil
	}, 30*time.Second, time.Second, "PostgreSQL not ready for connections")

	require.NoError(t, database.RunMigrations(cfg.DatabaseURL(), migrations.FS, logger))

	kafkaContainer, err := kafkamodule.Run(ctx, "confluentinc/confluent-local:7.5.0")
	require.NoError(t, err, "failed to start Kafka container")

	kafkaBrokers, err := kafkaContainer.Brokers(ctx)
	require.NoError(t, err, "failed to get Kafka brokers")

	createTopics(t, kafkaBrokers, accountTopic, notificationTopic)

	cleanup := func() {
		if err := kafkaContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate Kafka container: %v", err)
		}
		if err := pgContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate PostgreSQL container: %v", err)
		}
	}

	return &testInfra{
		DB:           db,
		KafkaBrokers: kafkaBrokers,
		Cleanup:      cleanup,
	}
}

// setupCareStack wires the services the way cmd/server does.
func setupCareStack(t *testing.T, db *gorm.DB, brokers []string) *careStack {
	t.Helper()
	logger, _ := zap.NewDevelopment()

	careRepo := repository.NewGormCareRepository(db)
	offerRepo := repository.NewGormOfferRepository(db)
	blockRepo := repository.NewGormBlockRepository(db)

	producer := kafka.NewProducer(brokers, logger)
	notifier := application.NewKafkaNotifier(producer, notificationTopic, "service-care", nil, logger)

	careSvc := application.NewCareService(careRepo, offerRepo, blockRepo, careDomain.NewStateMachine(), notifier, "MYR", logger)
	offerSvc := application.NewOfferService(offerRepo, logger)
	blockSvc := application.NewBlockService(blockRepo, careSvc, logger)

	groupID := fmt.Sprintf("test-care-%s", uuid.New().String()[:8])
	consumer := careEvents.NewAccountEventConsumer(brokers, groupID, accountTopic, blockSvc, logger)

	return &careStack{
		Cares:           careSvc,
		Offers:          offerSvc,
		Blocks:          blockSvc,
		CareRepo:        careRepo,
		Consumer:        consumer,
		CleanupProducer: func() { _ = producer.Close() },
	}
}

// seedCare stores a care in the given statuses.
func seedCare(t *testing.T, repo *repository.GormCareRepository, clientID, caretakerID uuid.UUID, client, caretaker careDomain.Status, start time.Time) *careDomain.Care {
	t.Helper()
	now := time.Now().UTC()
	c := careDomain.ReconstructCare(
		uuid.New(), clientID, caretakerID, uuid.New(),
		"dog", nil,
		5000,
		"MYR", "integration test",
		start, start.AddDate(0, 0, 2),
		client, caretaker,
		now, 1, now,
	)
	require.NoError(t, repo.Save(context.Background(), c), "failed to seed care")
	return c
}

// publishTestEvent publishes a CloudEvent to Kafka.
func publishTestEvent(t *testing.T, brokers []string, topic, key, source, eventType string, data interface{}) {
	t.Helper()
	logger, _ := zap.NewDevelopment()
	producer := kafka.NewProducer(brokers, logger)
	defer func() { _ = producer.Close() }()

	ce, err := kafka.NewCloudEvent(source, eventType, data)
	require.NoError(t, err, "failed to create cloud event")

	err = producer.PublishEvent(context.Background(), topic, key, ce)
	require.NoError(t, err, "failed to publish event")
}

// waitForCareStatus polls the care until its caretaker side matches.
func waitForCareStatus(t *testing.T, repo *repository.GormCareRepository, careID uuid.UUID, expected careDomain.Status, timeout time.Duration) *careDomain.Care {
	t.Helper()
	var result *careDomain.Care
	require.Eventually(t, func() bool {
		c, err := repo.FindByID(context.Background(), careID)
		if err != nil {
			return false
		}
		result = c
		return c.CaretakerStatus() == expected
	}, timeout, 200*time.Millisecond, "care did not reach %s", expected)
	return result
}

// consumeOneEvent reads from a Kafka topic until it finds an event of the expected type.
func consumeOneEvent(t *testing.T, brokers []string, topic, expectedType string, timeout time.Duration) kafka.CloudEvent {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	groupID := fmt.Sprintf("test-assert-%s", uuid.New().String()[:8])
	reader := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:     brokers,
		GroupID:     groupID,
		Topic:       topic,
		MinBytes:    1,
		MaxBytes:    10e6,
		StartOffset: kafkago.FirstOffset,
	})
	defer func() { _ = reader.Close() }()

	for {
		msg, err := reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				t.Fatalf("timed out waiting for event type %q on topic %q", expectedType, topic)
			}
			continue
		}
		ce, err := kafka.ParseCloudEvent(msg.Value)
		if err != nil {
			continue
		}
		if ce.Type == expectedType {
			return ce
		}
	}
}

// createTopics pre-creates Kafka topics so producers don't fail with "Unknown Topic".
func createTopics(t *testing.T, brokers []string, topics ...string) {
	t.Helper()
	conn, err := kafkago.Dial("tcp", brokers[0])
	require.NoError(t, err, "failed to dial Kafka for topic creation")
	defer conn.Close()

	controller, err := conn.Controller()
	require.NoError(t, err, "failed to get Kafka controller")

	controllerConn, err := kafkago.Dial("tcp", net.JoinHostPort(controller.Host, fmt.Sprintf("%d", controller.Port)))
	require.NoError(t, err, "failed to connect to Kafka controller")
	defer controllerConn.Close()

	topicConfigs := make([]kafkago.TopicConfig, len(topics))
	for i, topic := range topics {
		topicConfigs[i] = kafkago.TopicConfig{
			Topic:             topic,
			NumPartitions:     1,
			ReplicationFactor: 1,
		}
	}
	err = controllerConn.CreateTopics(topicConfigs...)
	require.NoError(t, err, "failed to create Kafka topics")

	time.Sleep(1 * time.Second)
}
