package dbwatch

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const restartDelay = 5 * time.Second

type CacheInvalidator interface {
	Invalidate(ctx context.Context, identifier string) error
	InvalidateDocument(ctx context.Context, documentID string) (string, error)
}

type activityDocument struct {
	PrimaryIdentifier string `bson:"primaryidentifier"`
}

type changeDocumentKey struct {
	ID primitive.ObjectID `bson:"_id"`
}

type activityChange struct {
	OperationType string            `bson:"operationType"`
	DocumentKey   changeDocumentKey `bson:"documentKey"`

	FullDocument             activityDocument `bson:"fullDocument"`
	FullDocumentBeforeChange activityDocument `bson:"fullDocumentBeforeChange"`
}

// ActivitiesWatch drops cached activity metadata whenever the stored activity changes
type ActivitiesWatch struct {
	Collection *mongo.Collection
	Cache      CacheInvalidator
}

func (w *ActivitiesWatch) Run(ctx context.Context) {
	for {
		if err := w.watch(ctx); err != nil {
			log.Error().Err(err).Msg("Activities watch fell over")
		}

		select {
		case <-ctx.Done():
			return
		case <-time.After(restartDelay):
		}
	}
}

func (w *ActivitiesWatch) watch(ctx context.Context) error {
	log.Info().Str("collection", w.Collection.Name()).Msg("Starting dbwatch")

	matchPipeline := bson.D{
		{
			Key: "$match", Value: bson.D{
				{Key: "operationType", Value: bson.D{{Key: "$in", Value: bson.A{"update", "replace", "delete"}}}},
			},
		},
	}
	opts := options.ChangeStream().SetFullDocumentBeforeChange(options.WhenAvailable).SetFullDocument(options.UpdateLookup)

	stream, err := w.Collection.Watch(ctx, mongo.Pipeline{matchPipeline}, opts)
	if err != nil {
		return err
	}
	defer stream.Close(context.Background())

	for stream.Next(ctx) {
		var change activityChange
		if err := stream.Decode(&change); err != nil {
			log.Error().Err(err).Msg("Failed to decode change event")
			continue
		}

		w.handleChange(ctx, change)
	}

	return stream.Err()
}

func (w *ActivitiesWatch) handleChange(ctx context.Context, change activityChange) {
	identifier := change.FullDocument.PrimaryIdentifier
	if identifier == "" {
		identifier = change.FullDocumentBeforeChange.PrimaryIdentifier
	}
	if identifier == "" {
		w.invalidateDocument(ctx, change)
		return
	}

	if err := w.Cache.Invalidate(ctx, identifier); err != nil {
		log.Error().Err(err).Str("activity", identifier).Msg("Failed to invalidate cached activity")
		return
	}

	log.Debug().Str("activity", identifier).Str("operation", change.OperationType).Msg("Invalidated cached activity")
}

// Without pre-images a delete only carries the document key
func (w *ActivitiesWatch) invalidateDocument(ctx context.Context, change activityChange) {
	if change.DocumentKey.ID.IsZero() {
		log.Warn().Str("operation", change.OperationType).Msg("Change event without activity identifier or document key")
		return
	}

	documentID := change.DocumentKey.ID.Hex()

	identifier, err := w.Cache.InvalidateDocument(ctx, documentID)
	if err != nil {
		log.Error().Err(err).Str("document", documentID).Msg("Failed to invalidate cached activity")
		return
	}

	log.Debug().Str("document", documentID).Str("activity", identifier).Str("operation", change.OperationType).Msg("Invalidated cached activity by document key")
}
