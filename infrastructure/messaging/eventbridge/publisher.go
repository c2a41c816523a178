// Package eventbridge implements ports.EventPublisher against AWS
// EventBridge, grounded on the teacher's
// infrastructure/messaging/eventbridge/publisher.go.
package eventbridge

import (
	"context"
	"encoding/json"
	"fmt"

	"ontologykg/application/ports"
	"ontologykg/domain/events"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/eventbridge"
	"github.com/aws/aws-sdk-go-v2/service/eventbridge/types"
	"go.uber.org/zap"
)

// eventBridgeBatchLimit is PutEvents' per-call entry cap.
const eventBridgeBatchLimit = 10

const eventSource = "ontologykg"

// Publisher ships domain events to an EventBridge bus — the
// ExternalPublisherHandler's outbound leg for provenance and
// maintenance-milestone events (spec.md §1/§6).
type Publisher struct {
	client       *eventbridge.Client
	eventBusName string
	logger       *zap.Logger
}

func NewPublisher(client *eventbridge.Client, eventBusName string, logger *zap.Logger) *Publisher {
	return &Publisher{client: client, eventBusName: eventBusName, logger: logger}
}

func (p *Publisher) Publish(ctx context.Context, event events.DomainEvent) error {
	return p.PublishBatch(ctx, []events.DomainEvent{event})
}

func (p *Publisher) PublishBatch(ctx context.Context, batch []events.DomainEvent) error {
	if len(batch) == 0 {
		return nil
	}
	for i := 0; i < len(batch); i += eventBridgeBatchLimit {
		end := i + eventBridgeBatchLimit
		if end > len(batch) {
			end = len(batch)
		}
		if err := p.publishBatch(ctx, batch[i:end]); err != nil {
			return err
		}
	}
	return nil
}

func (p *Publisher) publishBatch(ctx context.Context, batch []events.DomainEvent) error {
	entries := make([]types.PutEventsRequestEntry, 0, len(batch))
	names := make([]string, 0, len(batch))

	for _, event := range batch {
		data, err := json.Marshal(event)
		if err != nil {
			p.logger.Error("failed to marshal domain event", zap.String("event", event.EventName()), zap.Error(err))
			continue
		}
		entries = append(entries, types.PutEventsRequestEntry{
			EventBusName: aws.String(p.eventBusName),
			Source:       aws.String(eventSource),
			DetailType:   aws.String(event.EventName()),
			Detail:       aws.String(string(data)),
			Time:         aws.Time(event.OccurredAt()),
		})
		names = append(names, event.EventName())
	}
	if len(entries) == 0 {
		return nil
	}

	result, err := p.client.PutEvents(ctx, &eventbridge.PutEventsInput{Entries: entries})
	if err != nil {
		return fmt.Errorf("publishing events to eventbridge: %w", err)
	}

	if result.FailedEntryCount > 0 {
		for i, entry := range result.Entries {
			if entry.ErrorCode != nil {
				p.logger.Error("event failed to publish",
					zap.String("event", names[i]),
					zap.String("error_code", *entry.ErrorCode),
					zap.String("error_message", aws.ToString(entry.ErrorMessage)))
			}
		}
		return fmt.Errorf("%d of %d events failed to publish", result.FailedEntryCount, len(entries))
	}

	p.logger.Debug("events published to eventbridge", zap.Int("count", len(entries)), zap.String("event_bus", p.eventBusName))
	return nil
}

var _ ports.EventPublisher = (*Publisher)(nil)
