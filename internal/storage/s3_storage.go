package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/vibeprint/storefront/pkg/logger"
)

var ErrObjectNotFound = errors.New("object not found")

// S3Storage holds the catalog document and product images.
type S3Storage struct {
	client  *s3.Client
	bucket  string
	baseURL string
}

type PresignedURLResponse struct {
	UploadURL string    `json:"upload_url"`
	FileURL   string    `json:"file_url"`
	Key       string    `json:"key"`
	ExpiresAt time.Time `json:"expires_at"`
}

const presignExpiry = 15 * time.Minute

func NewS3Storage(ctx context.Context, region, bucket, accessKeyID, secretAccessKey, baseURL string) *S3Storage {
	var cfg aws.Config
	var err error

	if accessKeyID != "" && secretAccessKey != "" {
		cfg = aws.Config{
			Region:      region,
			Credentials: credentials.NewStaticCredentialsProvider(accessKeyID, secretAccessKey, ""),
		}
	} else {
		// Default chain: environment, shared config, instance role.
		cfg, err = config.LoadDefaultConfig(ctx, config.WithRegion(region))
		if err != nil {
			logger.Warn("Falling back to region-only AWS config", map[string]interface{}{
				"region": region,
				"error":  err.Error(),
			})
			cfg = aws.Config{Region: region}
		}
	}

	return &S3Storage{
		client:  s3.NewFromConfig(cfg),
		bucket:  bucket,
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

// GetObject reads the whole object at key.
func (s *S3Storage) GetObject(ctx context.Context, key string) ([]byte, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		var noSuchKey *types.NoSuchKey
		if errors.As(err, &noSuchKey) {
			return nil, fmt.Errorf("%w: s3://%s/%s", ErrObjectNotFound, s.bucket, key)
		}
		return nil, fmt.Errorf("failed to get s3 object %s: %w", key, err)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read s3 object %s: %w", key, err)
	}

	logger.Debug("S3 object fetched", map[string]interface{}{
		"bucket": s.bucket,
		"key":    key,
		"size":   len(data),
	})
	return data, nil
}

// PutObject uploads data to key.
func (s *S3Storage) PutObject(ctx context.Context, key string, data []byte, contentType string) error {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return fmt.Errorf("failed to put s3 object %s: %w", key, err)
	}

	logger.Info("S3 object uploaded", map[string]interface{}{
		"bucket": s.bucket,
		"key":    key,
		"size":   len(data),
	})
	return nil
}

// PresignUpload returns a short-lived PUT URL for key.
func (s *S3Storage) PresignUpload(ctx context.Context, key, contentType string) (*PresignedURLResponse, error) {
	presignClient := s3.NewPresignClient(s.client)

	req, err := presignClient.PresignPutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		ContentType: aws.String(contentType),
	}, s3.WithPresignExpires(presignExpiry))
	if err != nil {
		return nil, fmt.Errorf("failed to generate presigned URL: %w", err)
	}

	return &PresignedURLResponse{
		UploadURL: req.URL,
		FileURL:   s.ObjectURL(key),
		Key:       key,
		ExpiresAt: time.Now().Add(presignExpiry),
	}, nil
}

// ObjectURL is the public URL of key, through the CDN when one is configured.
func (s *S3Storage) ObjectURL(key string) string {
	key = strings.TrimLeft(key, "/")
	if s.baseURL != "" {
		return fmt.Sprintf("%s/%s", s.baseURL, key)
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.bucket, s.client.Options().Region, key)
}
