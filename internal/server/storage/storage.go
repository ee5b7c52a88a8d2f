// Package storage uploads user avatars to S3-compatible object storage.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
)

// ErrDisabled is returned by a nil-configured uploader.
var ErrDisabled = errors.New("avatar storage disabled")

// Uploader stores a blob and returns a public URL for it.
type Uploader interface {
	Upload(ctx context.Context, filename, contentType string, body io.Reader, size int64) (string, error)
}

// Seams for tests.
var (
	loadDefaultAWSConfig = config.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return s3.NewFromConfig(cfg, optFns...)
	}
)

// S3Config describes the bucket avatars go to.
type S3Config struct {
	RootUser      string
	RootPassword  string
	Bucket        string
	Region        string
	BaseEndpoint  string
	PublicBaseURL string
}

type putObjectFunc func(ctx context.Context, in *s3.PutObjectInput) error

type S3Uploader struct {
	cfg S3Config
	put putObjectFunc
	now func() time.Time
}

// NewS3Uploader builds a path-style client, which MinIO requires.
func NewS3Uploader(ctx context.Context, cfg S3Config) (*S3Uploader, error) {
	awsCfg, err := loadDefaultAWSConfig(ctx,
		config.WithRegion(cfg.Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.RootUser,
			cfg.RootPassword,
			"",
		)))
	if err != nil {
		return nil, err
	}

	client := newS3ClientFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.BaseEndpoint != "" {
			o.BaseEndpoint = aws.String(cfg.BaseEndpoint)
		}
		o.UsePathStyle = true
	})

	return &S3Uploader{
		cfg: cfg,
		put: func(ctx context.Context, in *s3.PutObjectInput) error {
			_, err := client.PutObject(ctx, in)
			return err
		},
		now: time.Now,
	}, nil
}

func (u *S3Uploader) Upload(ctx context.Context, filename, contentType string, body io.Reader, size int64) (string, error) {
	key := u.objectKey(filename)

	in := &s3.PutObjectInput{
		Bucket: aws.String(u.cfg.Bucket),
		Key:    aws.String(key),
		Body:   body,
	}
	if contentType != "" {
		in.ContentType = aws.String(contentType)
	}
	if size > 0 {
		in.ContentLength = aws.Int64(size)
	}

	if err := u.put(ctx, in); err != nil {
		return "", fmt.Errorf("put object: %w", err)
	}

	return u.publicURL(key), nil
}

// objectKey returns avatars/<yyyy>/<mm>/<dd>/<uuid><ext>.
func (u *S3Uploader) objectKey(filename string) string {
	d := u.now().UTC()
	ext := strings.ToLower(path.Ext(filename))
	return fmt.Sprintf("avatars/%04d/%02d/%02d/%s%s", d.Year(), int(d.Month()), d.Day(), uuid.New(), ext)
}

func (u *S3Uploader) publicURL(key string) string {
	base := u.cfg.PublicBaseURL
	if base == "" {
		base = u.cfg.BaseEndpoint
	}
	return strings.TrimSuffix(base, "/") + "/" + u.cfg.Bucket + "/" + key
}

// Disabled rejects every upload. Registration then proceeds without a picture.
type Disabled struct{}

func (Disabled) Upload(context.Context, string, string, io.Reader, int64) (string, error) {
	return "", ErrDisabled
}
