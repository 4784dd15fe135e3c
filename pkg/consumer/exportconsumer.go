package consumer

import (
	"context"
	"encoding/json"

	"github.com/adjust/rmq/v5"
	"github.com/rs/zerolog/log"
)

const ExportQueueName = "export-queue"

type ExportRequest struct {
	ActivityID string
	TargetUser string
}

type ExportTrigger interface {
	Trigger(ctx context.Context, activityID string, targetUser string) bool
}

type ExportBatchConsumer struct {
	Runner ExportTrigger
}

func (c *ExportBatchConsumer) Consume(batch rmq.Deliveries) {
	for _, delivery := range batch {
		var request ExportRequest
		if err := json.Unmarshal([]byte(delivery.Payload()), &request); err != nil || request.ActivityID == "" {
			log.Error().Err(err).Str("payload", delivery.Payload()).Msg("Failed to decode export request")

			if err := delivery.Reject(); err != nil {
				log.Error().Err(err).Msg("Failed to reject export request")
			}
			continue
		}

		if !c.Runner.Trigger(context.Background(), request.ActivityID, request.TargetUser) {
			log.Info().Str("activity", request.ActivityID).Msg("Skipping export request, one is already running")
		}

		if err := delivery.Ack(); err != nil {
			log.Error().Err(err).Str("activity", request.ActivityID).Msg("Failed to ack export request")
		}
	}
}

// EnqueueExport publishes a request onto the export queue
func EnqueueExport(queue rmq.Queue, request ExportRequest) error {
	payload, err := json.Marshal(request)
	if err != nil {
		return err
	}

	return queue.PublishBytes(payload)
}
