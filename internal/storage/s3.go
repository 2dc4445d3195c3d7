package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsCfg "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	log "github.com/sirupsen/logrus"

	"spartan/fitness-tracker/internal/config"
)

type s3MediaStore struct {
	presign    func(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (string, error)
	bucketName string
}

// NewS3MediaStore builds a MediaStore over an S3-compatible bucket
// (AWS, MinIO, Spaces). Path-style addressing is forced for compatibility.
func NewS3MediaStore(ctx context.Context, cfg config.S3Config) (MediaStore, error) {
	awsSDKConfig, err := awsCfg.LoadDefaultConfig(ctx,
		awsCfg.WithRegion(cfg.Region),
		awsCfg.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, "")),
	)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	s3Client := s3.NewFromConfig(awsSDKConfig, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
		o.UsePathStyle = true
	})
	presignClient := s3.NewPresignClient(s3Client)

	log.WithFields(log.Fields{
		"endpoint": cfg.Endpoint,
		"bucket":   cfg.BucketName,
	}).Info("s3 media store initialized")

	return &s3MediaStore{
		presign: func(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (string, error) {
			req, err := presignClient.PresignGetObject(ctx, params, optFns...)
			if err != nil {
				return "", err
			}
			return req.URL, nil
		},
		bucketName: cfg.BucketName,
	}, nil
}

func (s *s3MediaStore) PresignDownloadURL(ctx context.Context, objectKey string, expires time.Duration) (string, error) {
	if objectKey == "" {
		return "", ErrEmptyKey
	}
	if expires <= 0 {
		expires = DefaultLinkExpiry
	}

	url, err := s.presign(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucketName),
		Key:    aws.String(objectKey),
	}, s3.WithPresignExpires(expires))
	if err != nil {
		log.WithError(err).WithField("key", objectKey).Error("failed to presign media download")
		return "", fmt.Errorf("presign %q: %w", objectKey, err)
	}
	return url, nil
}
