package objectstore

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go"

	"AplusBackend/internal/config"
	"AplusBackend/internal/domain"
	"AplusBackend/internal/ports"
)

const (
	defaultRegion   = "us-east-1"
	textContentType = "text/plain; charset=utf-8"
)

// ErrDisabled is returned by Put when no credentials were configured.
var ErrDisabled = errors.New("object store is not configured")

type putObjectAPI interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// Store writes objects to an S3-compatible bucket such as Alibaba OSS.
type Store struct {
	client    putObjectAPI
	bucket    string
	scheme    string
	host      string
	pathStyle bool
	publicURL string
	logger    *slog.Logger
}

var (
	_ ports.ArtifactStore = (*Store)(nil)
	_ ports.ObjectPutter  = (*Store)(nil)
)

// New builds a client with static credentials against cfg.Endpoint.
// An incomplete configuration yields a disabled store, not an error.
func New(ctx context.Context, cfg config.StorageConfig, log *slog.Logger) (*Store, error) {
	if !cfg.Enabled() {
		return Disabled(log), nil
	}

	region := cfg.Region
	if region == "" {
		region = defaultRegion
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(region),
		awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.AccessKeySecret, ""),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("load object store config: %w", err)
	}

	scheme, host := splitEndpoint(cfg.Endpoint)
	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(scheme + "://" + host)
		o.UsePathStyle = cfg.UsePathStyle
	})

	store := newStore(client, cfg.Bucket, cfg.Endpoint, cfg.PublicBaseURL, log)
	store.pathStyle = cfg.UsePathStyle
	return store, nil
}

// Disabled returns a store that never uploads.
func Disabled(log *slog.Logger) *Store {
	return newStore(nil, "", "", "", log)
}

func newStore(client putObjectAPI, bucket, endpoint, publicURL string, log *slog.Logger) *Store {
	if log == nil {
		log = slog.Default()
	}
	scheme, host := splitEndpoint(endpoint)
	return &Store{
		client:    client,
		bucket:    bucket,
		scheme:    scheme,
		host:      host,
		publicURL: strings.TrimRight(publicURL, "/"),
		logger:    log.With("component", "objectstore"),
	}
}

// Enabled reports whether uploads are attempted.
func (s *Store) Enabled() bool {
	return s != nil && s.client != nil
}

// Put uploads body under key and returns its public URL.
func (s *Store) Put(ctx context.Context, key string, body []byte, contentType string) (string, error) {
	if !s.Enabled() {
		return "", ErrDisabled
	}

	in := &s3.PutObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
		Body:   bytes.NewReader(body),
	}
	if contentType != "" {
		in.ContentType = aws.String(contentType)
	}

	if _, err := s.client.PutObject(ctx, in); err != nil {
		return "", fmt.Errorf("put object %s: %w", key, err)
	}
	return s.ObjectURL(key), nil
}

// Store uploads extracted text. Failures are logged and yield an empty reference.
func (s *Store) Store(ctx context.Context, key, content string) domain.ArtifactRef {
	if !s.Enabled() {
		s.logger.Debug("object store disabled, skipping upload", "key", key)
		return domain.ArtifactRef{}
	}

	url, err := s.Put(ctx, key, []byte(content), textContentType)
	if err != nil {
		s.logger.Error("upload artifact", "key", key, "code", errorCode(err), "err", err)
		return domain.ArtifactRef{}
	}
	return domain.ArtifactRef{URL: url}
}

// ObjectURL returns the public address of key. Without a public base URL it
// follows the addressing style the client uploads with.
func (s *Store) ObjectURL(key string) string {
	if s.publicURL != "" {
		return s.publicURL + "/" + key
	}
	if s.pathStyle {
		return s.scheme + "://" + s.host + "/" + s.bucket + "/" + key
	}
	return s.scheme + "://" + s.bucket + "." + s.host + "/" + key
}

// splitEndpoint separates the scheme from the host. https is assumed when
// the endpoint carries none.
func splitEndpoint(endpoint string) (scheme, host string) {
	endpoint = strings.TrimSpace(endpoint)
	scheme = "https"
	if i := strings.Index(endpoint, "://"); i > 0 {
		scheme, endpoint = strings.ToLower(endpoint[:i]), endpoint[i+3:]
	}
	return scheme, strings.TrimRight(endpoint, "/")
}

// errorCode extracts the provider error code (AccessDenied, NoSuchBucket, ...) when present.
func errorCode(err error) string {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		return apiErr.ErrorCode()
	}
	return ""
}
