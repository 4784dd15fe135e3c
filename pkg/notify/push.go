package notify

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"github.com/geotracker/geotracker/pkg/database"
	"github.com/geotracker/geotracker/pkg/trackdata"
	"github.com/geotracker/geotracker/pkg/util"
	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"google.golang.org/api/option"
)

const maxPushBodyLength = 240

var ErrNoPushTarget = errors.New("failed to find user push token")

type MessageSender interface {
	Send(ctx context.Context, message *messaging.Message) (string, error)
}

type TokenLookup interface {
	PushToken(ctx context.Context, userID string) (string, error)
}

type UserPushNotificationTarget struct {
	UserID                string
	PushNotificationToken string
}

type MongoTokenLookup struct {
	Collection *mongo.Collection
}

func (l *MongoTokenLookup) PushToken(ctx context.Context, userID string) (string, error) {
	var target *UserPushNotificationTarget

	err := l.Collection.FindOne(ctx, bson.M{"userid": userID}).Decode(&target)
	if errors.Is(err, mongo.ErrNoDocuments) || (err == nil && (target == nil || target.PushNotificationToken == "")) {
		return "", ErrNoPushTarget
	} else if err != nil {
		return "", err
	}

	return target.PushNotificationToken, nil
}

type PushNotifier struct {
	Sender MessageSender
	Tokens TokenLookup
}

// NewPushNotifier sets up firebase messaging from a base64 encoded service account
func NewPushNotifier(ctx context.Context, encodedServiceAccount string) (*PushNotifier, error) {
	decodedKey, err := base64.StdEncoding.DecodeString(encodedServiceAccount)
	if err != nil {
		return nil, fmt.Errorf("failed to decode firebase service account: %w", err)
	}

	app, err := firebase.NewApp(ctx, nil, option.WithCredentialsJSON(decodedKey))
	if err != nil {
		return nil, err
	}

	fcmClient, err := app.Messaging(ctx)
	if err != nil {
		return nil, err
	}

	return &PushNotifier{
		Sender: fcmClient,
		Tokens: &MongoTokenLookup{Collection: database.GetCollection(database.UserPushNotificationTargetCollection)},
	}, nil
}

func (n *PushNotifier) Notify(ctx context.Context, notification trackdata.Notification) error {
	if notification.TargetUser == "" {
		return nil
	}

	token, err := n.Tokens.PushToken(ctx, notification.TargetUser)
	if err != nil {
		return err
	}

	_, err = n.Sender.Send(ctx, &messaging.Message{
		Notification: &messaging.Notification{
			Title: notification.Title,
			Body:  util.TrimString(notification.Message, maxPushBodyLength),
		},
		Token: token,
	})
	if err != nil {
		return err
	}

	log.Info().Str("target", notification.TargetUser).Msg("Sent Push Notification")

	return nil
}
