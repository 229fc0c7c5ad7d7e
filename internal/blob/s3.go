// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package blob

import (
	"bytes"
	"context"
	"fmt"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/MKhiriev/go-pantry-keeper/internal/config"
	"github.com/MKhiriev/go-pantry-keeper/internal/logger"
)

// s3API is the subset of the AWS S3 client used by [S3Store].
// Declared locally so tests can substitute a fake without network access.
type s3API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Store implements [Store] on top of any S3-compatible object store
// (AWS S3 proper or a MinIO deployment via the endpoint override).
type S3Store struct {
	client   s3API
	bucket   string
	endpoint string
	logger   *logger.Logger
}

// NewS3Store builds the S3 client from static credentials and the configured
// endpoint. Path-style addressing is forced because MinIO does not serve
// virtual-hosted bucket URLs out of the box.
func NewS3Store(ctx context.Context, cfg config.S3, log *logger.Logger) (*S3Store, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AccessKey,
			cfg.SecretKey,
			"",
		)))
	if err != nil {
		log.Err(err).Str("func", "NewS3Store").Msg("error loading aws config")
		return nil, fmt.Errorf("error loading aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(cfg.Endpoint)
		o.UsePathStyle = true
	})

	log.Info().Str("func", "NewS3Store").Str("bucket", cfg.Bucket).Msg("object store client created")

	return &S3Store{
		client:   client,
		bucket:   cfg.Bucket,
		endpoint: strings.TrimSuffix(cfg.Endpoint, "/"),
		logger:   log,
	}, nil
}

// Upload stores data under key and returns the asset's retrieval URL.
// Nothing is written to the record store by this method; callers decide what
// to do with the URL once the upload has definitely succeeded.
func (s *S3Store) Upload(ctx context.Context, key string, contentType string, data []byte) (string, error) {
	log := logger.FromContext(ctx)

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		log.Err(err).
			Str("func", "S3Store.Upload").
			Str("key", key).
			Int("size", len(data)).
			Msg("failed to upload object")
		return "", fmt.Errorf("error uploading object %q: %w", key, err)
	}

	log.Debug().
		Str("func", "S3Store.Upload").
		Str("key", key).
		Int("size", len(data)).
		Msg("object uploaded")

	return s.URL(key), nil
}

// URL resolves the public retrieval URL of an object key using path-style
// addressing: {endpoint}/{bucket}/{key}.
func (s *S3Store) URL(key string) string {
	return fmt.Sprintf("%s/%s/%s", s.endpoint, s.bucket, key)
}

// ItemAssetKey builds the object key for a pantry item image. Keys are
// namespaced per owner so that one user's uploads can never shadow
// another's.
func ItemAssetKey(ownerID int64, fileName string) string {
	return fmt.Sprintf("pantryItems/%d/%s", ownerID, sanitizeFileName(fileName))
}

// AvatarKey builds the object key for a profile avatar image.
func AvatarKey(ownerID int64, fileName string) string {
	return fmt.Sprintf("avatars/%d/%s", ownerID, sanitizeFileName(fileName))
}

// sanitizeFileName strips any path components from a client-supplied file
// name; the multipart filename is attacker-controlled and must not be able
// to nest keys outside the owner's namespace.
func sanitizeFileName(fileName string) string {
	fileName = strings.ReplaceAll(fileName, "\\", "/")
	fileName = path.Base(fileName)
	if fileName == "" || fileName == "." || fileName == ".." || fileName == "/" {
		return "unnamed"
	}
	return fileName
}
