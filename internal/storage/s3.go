package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3API is the subset of the S3 client used by S3Store.
type S3API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	HeadObject(ctx context.Context, params *s3.HeadObjectInput, optFns ...func(*s3.Options)) (*s3.HeadObjectOutput, error)
}

// S3Store persists blobs in an S3 bucket and returns URLs under the bucket's
// public base URL (a CDN or website endpoint in front of the bucket).
type S3Store struct {
	client  S3API
	bucket  string
	baseURL string
}

// NewS3Store builds an S3Store for the given bucket and public base URL.
func NewS3Store(client S3API, bucket, publicBaseURL string) (*S3Store, error) {
	if client == nil {
		return nil, errors.New("storage: s3 client is required")
	}
	bucket = strings.TrimSpace(bucket)
	if bucket == "" {
		return nil, errors.New("storage: s3 bucket is required")
	}
	publicBaseURL = strings.TrimRight(strings.TrimSpace(publicBaseURL), "/")
	if publicBaseURL == "" {
		return nil, errors.New("storage: s3 public base url is required")
	}
	return &S3Store{client: client, bucket: bucket, baseURL: publicBaseURL}, nil
}

// Upload writes the object and returns its public URL. When overwrite is
// false an existing object under the same key is an error.
func (s *S3Store) Upload(ctx context.Context, key string, data []byte, contentType string, overwrite bool) (string, error) {
	cleanKey, err := sanitizeKey(key)
	if err != nil {
		return "", err
	}
	if !overwrite {
		if _, err := s.client.HeadObject(ctx, &s3.HeadObjectInput{Bucket: &s.bucket, Key: &cleanKey}); err == nil {
			return "", fmt.Errorf("storage: key %q already exists", cleanKey)
		}
	}
	input := &s3.PutObjectInput{
		Bucket: &s.bucket,
		Key:    &cleanKey,
		Body:   bytes.NewReader(data),
	}
	if contentType != "" {
		input.ContentType = &contentType
	}
	if _, err := s.client.PutObject(ctx, input); err != nil {
		return "", fmt.Errorf("storage: put object: %w", err)
	}
	return s.baseURL + "/" + cleanKey, nil
}
