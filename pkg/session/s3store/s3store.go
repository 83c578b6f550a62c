// Package s3store stores sessions as objects in an S3 compatible bucket.
//
// Each session is one object under Prefix. The expiry travels as object
// metadata and is checked on read; pair the bucket with a lifecycle rule
// or call GC to remove stale objects.
package s3store

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"

	"github.com/dmitrymomot/sessionkit/pkg/session"
)

const expiresAtKey = "expires-at"

var ErrInvalidConfig = errors.New("s3store.invalid_config")

// Client is the subset of *s3.Client the store uses.
type Client interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
	ListObjectsV2(ctx context.Context, params *s3.ListObjectsV2Input, optFns ...func(*s3.Options)) (*s3.ListObjectsV2Output, error)
}

// Config holds the bucket settings.
type Config struct {
	Bucket         string `env:"SESSION_S3_BUCKET"`
	Prefix         string `env:"SESSION_S3_PREFIX" envDefault:"sessions/"`
	Region         string `env:"SESSION_S3_REGION" envDefault:"us-east-1"`
	AccessKeyID    string `env:"SESSION_S3_ACCESS_KEY_ID"`
	SecretKey      string `env:"SESSION_S3_SECRET_KEY"`
	Endpoint       string `env:"SESSION_S3_ENDPOINT"` // for S3 compatible services
	ForcePathStyle bool   `env:"SESSION_S3_FORCE_PATH_STYLE" envDefault:"false"`
}

// Store implements session.Store and session.GarbageCollector.
type Store struct {
	client Client
	bucket string
	prefix string
	now    func() time.Time
}

// Option configures New.
type Option func(*options)

type options struct {
	client     Client
	httpClient *http.Client
	now        func() time.Time
}

// WithClient uses a preconfigured client instead of loading AWS config.
func WithClient(c Client) Option {
	return func(o *options) {
		o.client = c
	}
}

// WithHTTPClient sets the HTTP client used by the AWS SDK.
func WithHTTPClient(c *http.Client) Option {
	return func(o *options) {
		o.httpClient = c
	}
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		o.now = now
	}
}

// New creates a store. Without WithClient the AWS default config chain is
// used, with static credentials when both keys are set.
func New(ctx context.Context, cfg Config, opts ...Option) (*Store, error) {
	if cfg.Bucket == "" {
		return nil, errors.Join(ErrInvalidConfig, errors.New("bucket is required"))
	}

	o := &options{now: time.Now}
	for _, opt := range opts {
		opt(o)
	}

	client := o.client
	if client == nil {
		loadOpts := []func(*config.LoadOptions) error{config.WithRegion(cfg.Region)}
		if cfg.AccessKeyID != "" && cfg.SecretKey != "" {
			loadOpts = append(loadOpts, config.WithCredentialsProvider(
				credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretKey, ""),
			))
		}
		if o.httpClient != nil {
			loadOpts = append(loadOpts, config.WithHTTPClient(o.httpClient))
		}

		awsCfg, err := config.LoadDefaultConfig(ctx, loadOpts...)
		if err != nil {
			return nil, fmt.Errorf("s3store: load AWS config: %w", err)
		}
		client = s3.NewFromConfig(awsCfg, func(so *s3.Options) {
			if cfg.Endpoint != "" {
				so.BaseEndpoint = aws.String(cfg.Endpoint)
			}
			so.UsePathStyle = cfg.ForcePathStyle
		})
	}

	return &Store{
		client: client,
		bucket: cfg.Bucket,
		prefix: cfg.Prefix,
		now:    o.now,
	}, nil
}

func (s *Store) Read(ctx context.Context, id string) ([]byte, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key(id)),
	})
	if err != nil {
		if isNotFound(err) {
			return nil, session.ErrSessionNotFound
		}
		return nil, err
	}
	defer func() { _ = out.Body.Close() }()

	if exp, ok := out.Metadata[expiresAtKey]; ok {
		if n, err := strconv.ParseInt(exp, 10, 64); err == nil && !s.now().Before(time.Unix(0, n)) {
			return nil, session.ErrSessionNotFound
		}
	}
	return io.ReadAll(out.Body)
}

func (s *Store) Write(ctx context.Context, id string, data []byte, ttl time.Duration) error {
	in := &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(s.key(id)),
		Body:          bytes.NewReader(data),
		ContentLength: aws.Int64(int64(len(data))),
		ContentType:   aws.String("application/octet-stream"),
	}
	if ttl > 0 {
		in.Metadata = map[string]string{
			expiresAtKey: strconv.FormatInt(s.now().Add(ttl).UnixNano(), 10),
		}
	}
	_, err := s.client.PutObject(ctx, in)
	return err
}

func (s *Store) Destroy(ctx context.Context, id string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key(id)),
	})
	if err != nil && !isNotFound(err) {
		return err
	}
	return nil
}

// GC deletes objects under the prefix not modified for maxLifetime.
// Expiry metadata is not inspected here; that would cost a request per object.
func (s *Store) GC(ctx context.Context, maxLifetime time.Duration) (int, error) {
	if maxLifetime <= 0 {
		return 0, nil
	}
	cutoff := s.now().Add(-maxLifetime)

	paginator := s3.NewListObjectsV2Paginator(s.client, &s3.ListObjectsV2Input{
		Bucket: aws.String(s.bucket),
		Prefix: aws.String(s.prefix),
	})

	removed := 0
	var errs []error
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return removed, err
		}
		for _, obj := range page.Contents {
			if obj.LastModified == nil || !obj.LastModified.Before(cutoff) {
				continue
			}
			if _, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
				Bucket: aws.String(s.bucket),
				Key:    obj.Key,
			}); err != nil {
				errs = append(errs, err)
				continue
			}
			removed++
		}
	}
	return removed, errors.Join(errs...)
}

func (s *Store) key(id string) string {
	return s.prefix + id
}

func isNotFound(err error) bool {
	var nsk *types.NoSuchKey
	if errors.As(err, &nsk) {
		return true
	}
	var nf *types.NotFound
	if errors.As(err, &nf) {
		return true
	}
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "NoSuchKey", "NotFound":
			return true
		}
	}
	return false
}
