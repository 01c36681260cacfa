package kvstore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	aws "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// S3Config holds explicit construction parameters. Without AccessKeyID the
// credentials come from the default AWS chain (env, profiles, roles).
type S3Config struct {
	Bucket          string
	Region          string
	Endpoint        string // optional; enables a custom endpoint (e.g. MinIO)
	Prefix          string // optional; prepended to every key
	PathStyle       bool
	AccessKeyID     string
	SecretAccessKey string
}

// S3 stores every key as one object of a single bucket.
type S3 struct {
	client *s3.Client
	bucket string
	prefix string
}

func NewS3(ctx context.Context, c S3Config) (*S3, error) {
	if c.Bucket == "" {
		c.Bucket = os.Getenv("CALORIETRACKER_S3_BUCKET")
	}
	if c.Bucket == "" {
		return nil, fmt.Errorf("s3 bucket required")
	}
	region := c.Region
	if region == "" {
		region = "us-east-1"
	}
	opts := []func(*config.LoadOptions) error{
		config.WithRegion(region),
	}
	if c.AccessKeyID != "" {
		opts = append(opts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(c.AccessKeyID, c.SecretAccessKey, ""),
		))
	}
	awsCfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = c.PathStyle
		if c.Endpoint != "" {
			o.BaseEndpoint = aws.String(c.Endpoint)
		}
	})
	return newS3(client, c.Bucket, c.Prefix), nil
}

func newS3(client *s3.Client, bucket, prefix string) *S3 {
	return &S3{
		client: client,
		bucket: bucket,
		prefix: prefix,
	}
}

func (s *S3) Driver() Driver { return DriverS3 }

func (s *S3) objectKey(key string) string {
	return s.prefix + key
}

func (s *S3) Get(ctx context.Context, key string) (string, bool, error) {
	if err := checkKey(key); err != nil {
		return "", false, err
	}
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.objectKey(key)),
	})
	if isNotFound(err) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("get object '%s': %w", key, err)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return "", false, fmt.Errorf("read object '%s': %w", key, err)
	}
	return string(data), true, nil
}

func (s *S3) Set(ctx context.Context, key, value string) error {
	if err := checkKey(key); err != nil {
		return err
	}
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(s.objectKey(key)),
		Body:        strings.NewReader(value),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return fmt.Errorf("put object '%s': %w", key, err)
	}
	return nil
}

func (s *S3) Remove(ctx context.Context, key string) error {
	if err := checkKey(key); err != nil {
		return err
	}
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.objectKey(key)),
	})
	if err != nil && !isNotFound(err) {
		return fmt.Errorf("delete object '%s': %w", key, err)
	}
	return nil
}

func (s *S3) Close() error {
	return nil
}

func isNotFound(err error) bool {
	if err == nil {
		return false
	}
	var noSuchKey *types.NoSuchKey
	if errors.As(err, &noSuchKey) {
		return true
	}
	var statusError interface{ HTTPStatusCode() int }
	if errors.As(err, &statusError) {
		return statusError.HTTPStatusCode() == http.StatusNotFound
	}
	return false
}
