package exporter

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"cloud.google.com/go/storage"
	"github.com/cenkalti/backoff/v4"
	"github.com/rs/zerolog/log"
)

const uploadMaxElapsedTime = 2 * time.Minute

type GCSUploader struct {
	Client     *storage.Client
	BucketName string
}

func NewGCSUploader(ctx context.Context, bucketName string) (*GCSUploader, error) {
	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("could not create GCP storage client: %w", err)
	}

	return &GCSUploader{Client: client, BucketName: bucketName}, nil
}

// Upload copies the local file into the bucket, retrying transient failures with exponential backoff
func (u *GCSUploader) Upload(ctx context.Context, localPath string, objectName string) (string, error) {
	object := u.Client.Bucket(u.BucketName).Object(objectName)

	retryPolicy := backoff.NewExponentialBackOff()
	retryPolicy.MaxElapsedTime = uploadMaxElapsedTime

	operation := func() error {
		reader, err := os.Open(localPath)
		if err != nil {
			return backoff.Permanent(fmt.Errorf("failed to open file: %w", err))
		}
		defer reader.Close()

		writer := object.NewWriter(ctx)
		if _, err := io.Copy(writer, reader); err != nil {
			writer.Close()
			return err
		}

		return writer.Close()
	}

	onRetry := func(err error, wait time.Duration) {
		log.Warn().Err(err).Dur("retry_in", wait).Str("object", objectName).Msg("Retrying upload")
	}

	if err := backoff.RetryNotify(operation, backoff.WithContext(retryPolicy, ctx), onRetry); err != nil {
		return "", fmt.Errorf("failed to write file to GCP: %w", err)
	}

	log.Info().Msgf("Written file %s to bucket %s", object.ObjectName(), object.BucketName())

	return fmt.Sprintf("gs://%s/%s", object.BucketName(), object.ObjectName()), nil
}

func (u *GCSUploader) Close() error {
	return u.Client.Close()
}
