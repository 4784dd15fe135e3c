package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/geotracker/geotracker/pkg/trackdata"
	"github.com/jinzhu/copier"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var ErrNotFound = errors.New("not found")

// Store supplies recorded activities and their samples in capture order
type Store interface {
	GetActivity(ctx context.Context, identifier string) (*trackdata.Activity, error)
	GetLocations(ctx context.Context, identifier string) ([]trackdata.LocationSample, error)
	GetMetrics(ctx context.Context, identifier string) ([]trackdata.MetricSample, error)
}

type activityRecord struct {
	ID primitive.ObjectID `bson:"_id,omitempty"`

	PrimaryIdentifier string
	Name              string
	Date              string
	CreationDateTime  time.Time
}

type locationRecord struct {
	ActivityRef string
	Sequence    int

	Latitude  float64
	Longitude float64
	Altitude  float64
}

type metricRecord struct {
	ActivityRef string
	Sequence    int

	ElapsedMillis int64
	Speed         *float64 `bson:",omitempty"`
	HeartRate     *int     `bson:",omitempty"`
	Cadence       *int     `bson:",omitempty"`
}

type MongoStore struct {
	Database *mongo.Database
}

func NewMongoStore(database *mongo.Database) *MongoStore {
	return &MongoStore{Database: database}
}

func (s *MongoStore) GetActivity(ctx context.Context, identifier string) (*trackdata.Activity, error) {
	var record activityRecord

	err := s.Database.Collection(ActivitiesCollection).FindOne(ctx, bson.M{"primaryidentifier": identifier}).Decode(&record)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("activity %s: %w", identifier, ErrNotFound)
	} else if err != nil {
		return nil, fmt.Errorf("failed to get activity %s: %w", identifier, err)
	}

	var activity trackdata.Activity
	if err := copier.Copy(&activity, &record); err != nil {
		return nil, err
	}
	if !record.ID.IsZero() {
		activity.DocumentID = record.ID.Hex()
	}

	return &activity, nil
}

func (s *MongoStore) GetLocations(ctx context.Context, identifier string) ([]trackdata.LocationSample, error) {
	var records []locationRecord
	if err := s.findSamples(ctx, ActivityLocationsCollection, identifier, &records); err != nil {
		return nil, err
	}

	locations := []trackdata.LocationSample{}
	if err := copier.Copy(&locations, &records); err != nil {
		return nil, err
	}

	return locations, nil
}

func (s *MongoStore) GetMetrics(ctx context.Context, identifier string) ([]trackdata.MetricSample, error) {
	var records []metricRecord
	if err := s.findSamples(ctx, ActivityMetricsCollection, identifier, &records); err != nil {
		return nil, err
	}

	metrics := []trackdata.MetricSample{}
	if err := copier.Copy(&metrics, &records); err != nil {
		return nil, err
	}

	return metrics, nil
}

func (s *MongoStore) findSamples(ctx context.Context, collectionName string, identifier string, records interface{}) error {
	opts := options.Find().SetSort(bson.D{{Key: "sequence", Value: 1}})

	cursor, err := s.Database.Collection(collectionName).Find(ctx, bson.M{"activityref": identifier}, opts)
	if err != nil {
		return fmt.Errorf("failed to query %s for %s: %w", collectionName, identifier, err)
	}

	if err := cursor.All(ctx, records); err != nil {
		return fmt.Errorf("failed to decode %s for %s: %w", collectionName, identifier, err)
	}

	return nil
}

// SaveActivity writes an activity and its aligned samples, sequence numbers follow slice order
func (s *MongoStore) SaveActivity(ctx context.Context, activity *trackdata.Activity, locations []trackdata.LocationSample, metrics []trackdata.MetricSample) error {
	record := activityRecord{}
	if err := copier.Copy(&record, activity); err != nil {
		return err
	}
	if record.CreationDateTime.IsZero() {
		record.CreationDateTime = time.Now()
	}

	if _, err := s.Database.Collection(ActivitiesCollection).InsertOne(ctx, record); err != nil {
		return fmt.Errorf("failed to insert activity %s: %w", activity.PrimaryIdentifier, err)
	}

	if len(locations) > 0 {
		documents := make([]interface{}, 0, len(locations))
		for i, location := range locations {
			documents = append(documents, locationRecord{
				ActivityRef: activity.PrimaryIdentifier,
				Sequence:    i,
				Latitude:    location.Latitude,
				Longitude:   location.Longitude,
				Altitude:    location.Altitude,
			})
		}

		if _, err := s.Database.Collection(ActivityLocationsCollection).InsertMany(ctx, documents); err != nil {
			return fmt.Errorf("failed to insert locations for %s: %w", activity.PrimaryIdentifier, err)
		}
	}

	if len(metrics) > 0 {
		documents := make([]interface{}, 0, len(metrics))
		for i, metric := range metrics {
			documents = append(documents, metricRecord{
				ActivityRef:   activity.PrimaryIdentifier,
				Sequence:      i,
				ElapsedMillis: metric.ElapsedMillis,
				Speed:         metric.Speed,
				HeartRate:     metric.HeartRate,
				Cadence:       metric.Cadence,
			})
		}

		if _, err := s.Database.Collection(ActivityMetricsCollection).InsertMany(ctx, documents); err != nil {
			return fmt.Errorf("failed to insert metrics for %s: %w", activity.PrimaryIdentifier, err)
		}
	}

	return nil
}
