// Package s3store implements remote.Store over an S3-compatible bucket.
//
// Endpoints look like s3://bucket[/prefix]. The endpoint username and
// password are used as the access key and secret; region, base endpoint
// (for MinIO and similar) and per-phase timeouts are fixed per Store.
package s3store

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/dmitrijs2005/mindstitch/internal/logging"
	"github.com/dmitrijs2005/mindstitch/internal/netx"
	"github.com/dmitrijs2005/mindstitch/internal/remote"
)

// objectAPI is the part of *s3.Client the store needs.
type objectAPI interface {
	HeadBucket(ctx context.Context, in *s3.HeadBucketInput, optFns ...func(*s3.Options)) (*s3.HeadBucketOutput, error)
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	GetObject(ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

var (
	loadDefaultAWSConfig = config.LoadDefaultConfig

	newS3Client = func(cfg aws.Config, optFns ...func(*s3.Options)) objectAPI {
		return s3.NewFromConfig(cfg, optFns...)
	}
)

var ErrInvalidURL = errors.New("invalid s3 endpoint url")

type Store struct {
	region       string
	baseEndpoint string
	httpClient   *http.Client
	logger       logging.Logger
}

var _ remote.Store = (*Store)(nil)

// New returns a store whose requests are bounded by t, the same way the
// WebDAV client bounds its own.
func New(region, baseEndpoint string, t netx.Timeouts, logger logging.Logger) *Store {
	return &Store{
		region:       region,
		baseEndpoint: baseEndpoint,
		httpClient:   netx.NewHTTPClient(t),
		logger:       logger,
	}
}

// location is a parsed s3:// endpoint.
type location struct {
	bucket string
	prefix string
}

func (l location) key(name string) string {
	return strings.TrimPrefix(path.Join(l.prefix, name), "/")
}

func parseURL(raw string) (location, error) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return location{}, fmt.Errorf("%w: %v", ErrInvalidURL, err)
	}
	if !strings.EqualFold(u.Scheme, "s3") || u.Host == "" {
		return location{}, fmt.Errorf("%w: %q", ErrInvalidURL, raw)
	}
	return location{bucket: u.Host, prefix: strings.Trim(u.Path, "/")}, nil
}

func (s *Store) client(ctx context.Context, ep remote.Endpoint) (objectAPI, location, error) {
	loc, err := parseURL(ep.URL)
	if err != nil {
		return nil, location{}, err
	}

	opts := []func(*config.LoadOptions) error{config.WithHTTPClient(s.httpClient)}
	if s.region != "" {
		opts = append(opts, config.WithRegion(s.region))
	}
	if ep.Username != "" {
		opts = append(opts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(ep.Username, ep.Password, "")))
	}

	cfg, err := loadDefaultAWSConfig(ctx, opts...)
	if err != nil {
		return nil, location{}, fmt.Errorf("load aws config: %w", err)
	}

	c := newS3Client(cfg, func(o *s3.Options) {
		if s.baseEndpoint != "" {
			o.BaseEndpoint = aws.String(s.baseEndpoint)
			o.UsePathStyle = true
		}
	})
	return c, loc, nil
}

func (s *Store) CheckConnection(ctx context.Context, ep remote.Endpoint) bool {
	c, loc, err := s.client(ctx, ep)
	if err != nil {
		s.logger.Debug(ctx, "s3 client", "error", err)
		return false
	}
	if _, err := c.HeadBucket(ctx, &s3.HeadBucketInput{Bucket: aws.String(loc.bucket)}); err != nil {
		s.logger.Debug(ctx, "head bucket failed", "bucket", loc.bucket, "error", err)
		return false
	}
	return true
}

// CreateFolder always succeeds: S3 has no directories, keys imply them.
func (s *Store) CreateFolder(_ context.Context, _ remote.Endpoint, _ string) bool {
	return true
}

func (s *Store) Upload(ctx context.Context, ep remote.Endpoint, name string, data []byte, contentType string) error {
	if contentType == "" {
		contentType = remote.ContentTypeBinary
	}

	c, loc, err := s.client(ctx, ep)
	if err != nil {
		return fmt.Errorf("upload %s: %w", name, err)
	}

	_, err = c.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(loc.bucket),
		Key:           aws.String(loc.key(name)),
		Body:          bytes.NewReader(data),
		ContentLength: aws.Int64(int64(len(data))),
		ContentType:   aws.String(contentType),
	})
	if err != nil {
		return fmt.Errorf("upload %s: %w", name, err)
	}
	return nil
}

func (s *Store) Download(ctx context.Context, ep remote.Endpoint, name string) ([]byte, bool) {
	c, loc, err := s.client(ctx, ep)
	if err != nil {
		s.logger.Debug(ctx, "s3 client", "error", err)
		return nil, false
	}

	out, err := c.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(loc.bucket),
		Key:    aws.String(loc.key(name)),
	})
	if err != nil {
		s.logger.Debug(ctx, "get object failed", "key", loc.key(name), "error", err)
		return nil, false
	}
	defer out.Body.Close()

	b, err := io.ReadAll(out.Body)
	if err != nil {
		s.logger.Debug(ctx, "read object failed", "key", loc.key(name), "error", err)
		return nil, false
	}
	return b, true
}
