package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3Presigner issues time-limited GET URLs for bundle files.
type S3Presigner struct {
	bucket    string
	presigner *s3.PresignClient
}

func NewS3Presigner(ctx context.Context, accessKeyID, secretAccessKey, region, bucket string) (*S3Presigner, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(region),
		awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(accessKeyID, secretAccessKey, ""),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := s3.NewFromConfig(cfg)
	return &S3Presigner{
		bucket:    bucket,
		presigner: s3.NewPresignClient(client),
	}, nil
}

func (p *S3Presigner) PresignDownload(ctx context.Context, key string, expires time.Duration) (string, error) {
	input := &s3.GetObjectInput{
		Bucket: aws.String(p.bucket),
		Key:    aws.String(key),
	}

	presigned, err := p.presigner.PresignGetObject(ctx, input, func(o *s3.PresignOptions) {
		o.Expires = expires
	})
	if err != nil {
		return "", fmt.Errorf("failed to presign get object: %w", err)
	}

	return presigned.URL, nil
}
