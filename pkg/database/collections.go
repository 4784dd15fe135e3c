package database

import (
	"context"

	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	ActivitiesCollection                 = "activities"
	ActivityLocationsCollection          = "activity_locations"
	ActivityMetricsCollection            = "activity_metrics"
	UserPushNotificationTargetCollection = "user_push_notification_target"
)

func createIndexes() {
	createActivityIndexes()
	createSampleIndexes(ActivityLocationsCollection)
	createSampleIndexes(ActivityMetricsCollection)
	createUserIndexes()
}

func createActivityIndexes() {
	activitiesCollection := GetCollection(ActivitiesCollection)
	_, err := activitiesCollection.Indexes().CreateMany(context.Background(), []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "primaryidentifier", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "creationdatetime", Value: -1}},
		},
	}, options.CreateIndexes())
	if err != nil {
		log.Error().Err(err).Str("collection", ActivitiesCollection).Msg("Creating Index")
	}

	enablePreImages(ActivitiesCollection)
}

// Delete events on the collection carry the removed document in fullDocumentBeforeChange
func enablePreImages(collectionName string) {
	err := MongoGlobalInstance.Database.RunCommand(context.Background(), bson.D{
		{Key: "collMod", Value: collectionName},
		{Key: "changeStreamPreAndPostImages", Value: bson.D{{Key: "enabled", Value: true}}},
	}).Err()
	if err != nil {
		log.Warn().Err(err).Str("collection", collectionName).Msg("Enabling change stream pre-images")
	}
}

// Samples are always read back per activity in capture order
func createSampleIndexes(collectionName string) {
	collection := GetCollection(collectionName)
	_, err := collection.Indexes().CreateMany(context.Background(), []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "activityref", Value: 1},
				{Key: "sequence", Value: 1},
			},
			Options: options.Index().SetUnique(true),
		},
	}, options.CreateIndexes())
	if err != nil {
		log.Error().Err(err).Str("collection", collectionName).Msg("Creating Index")
	}
}

func createUserIndexes() {
	userPushNotificationTargetCollection := GetCollection(UserPushNotificationTargetCollection)
	_, err := userPushNotificationTargetCollection.Indexes().CreateMany(context.Background(), []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "userid", Value: 1}},
		},
	}, options.CreateIndexes())
	if err != nil {
		log.Error().Err(err).Str("collection", UserPushNotificationTargetCollection).Msg("Creating Index")
	}
}
