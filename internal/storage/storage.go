// Package storage turns stored avatar references into URLs a client can
// fetch. Uploads are out of scope; objects are expected to exist already.
package storage

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/foodgram/backend/config"
	"github.com/foodgram/backend/internal/logging"
)

// AvatarResolver maps an avatar object key to a URL.
type AvatarResolver interface {
	AvatarURL(ctx context.Context, key string) (string, error)
}

// New picks a resolver from configuration: presigned S3 URLs when a bucket
// is configured, otherwise keys joined onto the public base URL.
func New(ctx context.Context, cfg config.StorageConfig) (AvatarResolver, error) {
	if cfg.Bucket != "" {
		return NewS3Resolver(ctx, cfg)
	}
	return BaseURLResolver{BaseURL: cfg.PublicBaseURL}, nil
}

// S3Resolver presigns GET requests for avatar objects.
type S3Resolver struct {
	presign *s3.PresignClient
	bucket  string
	ttl     time.Duration
}

// NewS3Resolver initializes the S3 client from the default AWS credential chain.
func NewS3Resolver(ctx context.Context, cfg config.StorageConfig) (*S3Resolver, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.Region))
	if err != nil {
		return nil, fmt.Errorf("failed to load aws config: %w", err)
	}
	logging.Info().Str("bucket", cfg.Bucket).Str("region", cfg.Region).Msg("avatar storage on s3")
	return NewS3ResolverFromClient(s3.NewFromConfig(awsCfg), cfg.Bucket, cfg.PresignTTL), nil
}

func NewS3ResolverFromClient(client *s3.Client, bucket string, ttl time.Duration) *S3Resolver {
	return &S3Resolver{
		presign: s3.NewPresignClient(client),
		bucket:  bucket,
		ttl:     ttl,
	}
}

func (r *S3Resolver) AvatarURL(ctx context.Context, key string) (string, error) {
	req, err := r.presign.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(r.bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(r.ttl))
	if err != nil {
		return "", fmt.Errorf("failed to presign avatar %s: %w", key, err)
	}
	return req.URL, nil
}

// BaseURLResolver serves avatars from a static location. With an empty
// BaseURL the key is returned unchanged.
type BaseURLResolver struct {
	BaseURL string
}

func (r BaseURLResolver) AvatarURL(_ context.Context, key string) (string, error) {
	if r.BaseURL == "" {
		return key, nil
	}
	return url.JoinPath(r.BaseURL, key)
}

// Resolve returns nil when there is no avatar or it cannot be resolved.
// A broken avatar never fails the surrounding projection.
func Resolve(ctx context.Context, r AvatarResolver, key *string) *string {
	if r == nil || key == nil || *key == "" {
		return nil
	}
	u, err := r.AvatarURL(ctx, *key)
	if err != nil {
		logging.Ctx(ctx).Warn().Err(err).Str("key", *key).Msg("avatar unresolved")
		return nil
	}
	return &u
}
