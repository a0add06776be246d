package service

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/goccy/go-json"

	config "github.com/maheshrc27/influence-api/configs"
	"github.com/maheshrc27/influence-api/pkg/utils"
)

// Archiver keeps a copy of what a platform returned during ingestion.
type Archiver interface {
	Archive(ctx context.Context, platform, accountID string, at time.Time, payload any) (string, error)
}

// ObjectPutter is the subset of the S3 client used for archiving.
type ObjectPutter interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// NewR2Client returns an S3 client for the Cloudflare R2 account in cfg.
func NewR2Client(ctx context.Context, cfg config.R2) (*s3.Client, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, "")),
		awsconfig.WithRegion("auto"),
	)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}

	return s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(fmt.Sprintf("https://%s.r2.cloudflarestorage.com", cfg.AccountID))
	}), nil
}

type bucketArchiver struct {
	client ObjectPutter
	bucket string
}

func NewArchiver(client ObjectPutter, bucket string) Archiver {
	return &bucketArchiver{client: client, bucket: bucket}
}

// Archive writes payload as JSON to raw/<platform>/<account>/<yyyy-mm-dd>/<id>.json.
func (a *bucketArchiver) Archive(ctx context.Context, platform, accountID string, at time.Time, payload any) (string, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}

	id, err := utils.NewID()
	if err != nil {
		return "", err
	}
	key := fmt.Sprintf("raw/%s/%s/%s/%s.json", platform, accountID, at.UTC().Format(time.DateOnly), id)

	_, err = a.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(a.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(body),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		slog.Info(err.Error())
		return "", err
	}

	return key, nil
}

type noopArchiver struct{}

// NewNoopArchiver is used when no bucket is configured.
func NewNoopArchiver() Archiver {
	return noopArchiver{}
}

func (noopArchiver) Archive(context.Context, string, string, time.Time, any) (string, error) {
	return "", nil
}
