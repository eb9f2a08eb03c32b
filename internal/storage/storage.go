// Package storage wraps S3-compatible object storage behind a small facade.
// Every remote call goes through the retry helper; missing objects are
// classified permanent so they fail fast.
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
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/resumely/backend/internal/config"
	"github.com/resumely/backend/internal/retry"
)

// ErrNotFound is returned when the requested object does not exist.
var ErrNotFound = errors.New("object not found")

// Client is the subset of the S3 API the store uses. Tests substitute a fake.
type Client interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
	ListObjectsV2(ctx context.Context, params *s3.ListObjectsV2Input, optFns ...func(*s3.Options)) (*s3.ListObjectsV2Output, error)
	CopyObject(ctx context.Context, params *s3.CopyObjectInput, optFns ...func(*s3.Options)) (*s3.CopyObjectOutput, error)
}

type Store struct {
	client    Client
	presign   *s3.PresignClient
	bucket    string
	publicURL string
	attempts  int
	delay     time.Duration
}

// New builds a Store from config, following the SDK's default credential
// chain unless static keys are provided. A custom endpoint enables
// S3-compatible providers (R2, MinIO).
func New(ctx context.Context, cfg *config.Config) (*Store, error) {
	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.S3Region),
	}
	if cfg.S3AccessKey != "" && cfg.S3SecretKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.S3AccessKey, cfg.S3SecretKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.S3Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.S3Endpoint)
			o.UsePathStyle = true
		}
	})

	return &Store{
		client:    client,
		presign:   s3.NewPresignClient(client),
		bucket:    cfg.S3Bucket,
		publicURL: strings.TrimRight(cfg.S3PublicBaseURL, "/"),
		attempts:  retry.DefaultAttempts,
		delay:     retry.DefaultDelay,
	}, nil
}

// NewWithClient is used by tests to inject a fake client.
func NewWithClient(client Client, bucket string) *Store {
	return &Store{
		client:   client,
		bucket:   bucket,
		attempts: retry.DefaultAttempts,
		delay:    time.Millisecond,
	}
}

// Upload writes data under key and returns the object's public URL.
func (s *Store) Upload(ctx context.Context, key, contentType string, data []byte) (string, error) {
	err := retry.Do(ctx, s.attempts, s.delay, func(ctx context.Context) error {
		_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
			Bucket:      aws.String(s.bucket),
			Key:         aws.String(key),
			Body:        bytes.NewReader(data),
			ContentType: aws.String(contentType),
		})
		return err
	})
	if err != nil {
		return "", fmt.Errorf("upload %s: %w", key, err)
	}
	return s.PublicURL(key), nil
}

// Download reads the object at key into memory.
func (s *Store) Download(ctx context.Context, key string) ([]byte, error) {
	var data []byte
	err := retry.Do(ctx, s.attempts, s.delay, func(ctx context.Context) error {
		out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
			Bucket: aws.String(s.bucket),
			Key:    aws.String(key),
		})
		if err != nil {
			return classify(err)
		}
		defer out.Body.Close()
		data, err = io.ReadAll(out.Body)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("download %s: %w", key, err)
	}
	return data, nil
}

// Delete removes the object at key. Deleting a missing object is not an error.
func (s *Store) Delete(ctx context.Context, key string) error {
	err := retry.Do(ctx, s.attempts, s.delay, func(ctx context.Context) error {
		_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
			Bucket: aws.String(s.bucket),
			Key:    aws.String(key),
		})
		return err
	})
	if err != nil {
		return fmt.Errorf("delete %s: %w", key, err)
	}
	return nil
}

// List returns the keys under prefix.
func (s *Store) List(ctx context.Context, prefix string) ([]string, error) {
	var keys []string
	err := retry.Do(ctx, s.attempts, s.delay, func(ctx context.Context) error {
		keys = keys[:0]
		var token *string
		for {
			out, err := s.client.ListObjectsV2(ctx, &s3.ListObjectsV2Input{
				Bucket:            aws.String(s.bucket),
				Prefix:            aws.String(prefix),
				ContinuationToken: token,
			})
			if err != nil {
				return err
			}
			for _, obj := range out.Contents {
				keys = append(keys, aws.ToString(obj.Key))
			}
			if out.IsTruncated == nil || !*out.IsTruncated {
				return nil
			}
			token = out.NextContinuationToken
		}
	})
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", prefix, err)
	}
	return keys, nil
}

// SignedURL returns a time-limited download URL for key.
func (s *Store) SignedURL(ctx context.Context, key string, expiry time.Duration) (string, error) {
	if s.presign == nil {
		return "", errors.New("presigning not configured")
	}
	var url string
	err := retry.Do(ctx, s.attempts, s.delay, func(ctx context.Context) error {
		req, err := s.presign.PresignGetObject(ctx, &s3.GetObjectInput{
			Bucket: aws.String(s.bucket),
			Key:    aws.String(key),
		}, s3.WithPresignExpires(expiry))
		if err != nil {
			return err
		}
		url = req.URL
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("sign %s: %w", key, err)
	}
	return url, nil
}

// Copy duplicates srcKey to dstKey within the bucket.
func (s *Store) Copy(ctx context.Context, srcKey, dstKey string) error {
	err := retry.Do(ctx, s.attempts, s.delay, func(ctx context.Context) error {
		_, err := s.client.CopyObject(ctx, &s3.CopyObjectInput{
			Bucket:     aws.String(s.bucket),
			CopySource: aws.String(s.bucket + "/" + srcKey),
			Key:        aws.String(dstKey),
		})
		return classify(err)
	})
	if err != nil {
		return fmt.Errorf("copy %s -> %s: %w", srcKey, dstKey, err)
	}
	return nil
}

// Move copies srcKey to dstKey and deletes the source.
func (s *Store) Move(ctx context.Context, srcKey, dstKey string) error {
	if err := s.Copy(ctx, srcKey, dstKey); err != nil {
		return err
	}
	return s.Delete(ctx, srcKey)
}

// PublicURL returns the object's public URL when a public base is configured,
// otherwise just the key.
func (s *Store) PublicURL(key string) string {
	if s.publicURL == "" {
		return key
	}
	return s.publicURL + "/" + key
}

// classify marks "object missing" errors permanent so the retry loop does
// not reissue a request that can never succeed.
func classify(err error) error {
	if err == nil {
		return nil
	}
	var noKey *types.NoSuchKey
	var notFound *types.NotFound
	if errors.As(err, &noKey) || errors.As(err, &notFound) {
		return retry.Permanent(fmt.Errorf("%w: %s", ErrNotFound, err))
	}
	return err
}
