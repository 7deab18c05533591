// Package storage provides a direct-to-bucket uploader for
// deployments where the client writes receipt images straight into the
// storage bucket (Supabase storage speaks the S3 API) instead of going
// through the backend's /api/files endpoint. It satisfies the same
// Uploader contract, so the pipeline takes either implementation.
package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	cfg "github.com/AnkitDash-code/Expensync/internal/config"
	"github.com/AnkitDash-code/Expensync/internal/errkind"
	"github.com/AnkitDash-code/Expensync/internal/models"
)

type S3Uploader struct {
	client *s3.Client
	region string
	bucket string
}

func NewS3Uploader(ctx context.Context, cfg *cfg.Config) (*S3Uploader, error) {
	if cfg.AwsAccessKey == "" || cfg.AwsSecretKey == "" {
		return nil, fmt.Errorf("AWS credentials not set")
	}
	if cfg.AwsRegion == "" {
		return nil, fmt.Errorf("AWS_REGION not set")
	}
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("bucket name not set")
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(
		ctx,
		awsconfig.WithRegion(cfg.AwsRegion),
		awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AwsAccessKey, cfg.AwsSecretKey, ""),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	return &S3Uploader{
		client: s3.NewFromConfig(awsCfg),
		region: cfg.AwsRegion,
		bucket: cfg.Bucket,
	}, nil
}

// Upload puts the artifact into the bucket and returns its reference.
// Same local pre-flight as the multipart uploader: the size cap is
// checked before any network call.
func (u *S3Uploader) Upload(ctx context.Context, artifact models.UploadArtifact) (models.StoredReference, error) {
	var ref models.StoredReference

	if artifact.Size > models.MaxArtifactBytes {
		return ref, errkind.New(errkind.PayloadTooLarge,
			fmt.Sprintf("receipt is %d bytes, limit is %d", artifact.Size, models.MaxArtifactBytes))
	}
	if artifact.Path == "" || artifact.Name == "" {
		return ref, errkind.New(errkind.InvalidRequest, "no file selected")
	}

	f, err := os.Open(artifact.Path)
	if err != nil {
		return ref, errkind.Wrap(errkind.InvalidRequest, "open receipt file", err)
	}
	defer f.Close()

	mediaType := artifact.MediaType
	if mediaType == "" {
		mediaType = "application/octet-stream"
	}

	// Fresh key per submission; references are never reused across
	// runs even when the same file is reselected.
	key := objectKey(artifact.Name)

	uploader := manager.NewUploader(u.client)

	upCtx, cancel := context.WithTimeout(ctx, 2*time.Minute)
	defer cancel()

	_, err = uploader.Upload(upCtx, &s3.PutObjectInput{
		Bucket:      aws.String(u.bucket),
		Key:         aws.String(key),
		Body:        f,
		ContentType: aws.String(mediaType),
	})
	if err != nil {
		return ref, errkind.Wrap(errkind.UploadRejected, "bucket upload failed", err)
	}

	ref.Path = key
	ref.PublicURL = fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", u.bucket, u.region, key)
	return ref, nil
}

// Delete removes a stored object. Kept for a future orphan-cleanup
// policy; the pipeline itself never deletes after a failed extraction.
func (u *S3Uploader) Delete(ctx context.Context, key string) error {
	delCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	_, err := u.client.DeleteObject(delCtx, &s3.DeleteObjectInput{
		Bucket: aws.String(u.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("s3 delete failed: %w", err)
	}
	return nil
}

// objectKey derives a collision-free key from the declared file name.
// Base() strips any path components a client might sneak in.
func objectKey(name string) string {
	return fmt.Sprintf("%s/%s", uuid.NewString(), filepath.Base(name))
}
