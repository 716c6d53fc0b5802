// Package publish uploads generated images to S3-compatible object storage.
package publish

import (
	"context"
	"errors"
	"fmt"
	"mime"
	"net/url"
	"path"
	"path/filepath"
	"strings"
	"sync"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
)

var tracer = otel.Tracer("github.com/evanhalley/fig/internal/publish")

// Sentinel errors for publish operations.
var (
	ErrMissingCredentials = errors.New("upload credentials missing")
	ErrInvalidTarget      = errors.New("invalid upload target")
	ErrUpload             = errors.New("upload failed")
)

// Config describes the destination bucket.
type Config struct {
	Endpoint  string // host[:port]
	AccessKey string
	SecretKey string
	Bucket    string
	Prefix    string // Object key prefix, e.g. "images/features"
	UseSSL    bool
	PublicURL string // Base URL for printed links; empty = endpoint/bucket
}

// objectStore is the subset of *minio.Client the publisher needs.
type objectStore interface {
	BucketExists(ctx context.Context, bucket string) (bool, error)
	MakeBucket(ctx context.Context, bucket string, opts minio.MakeBucketOptions) error
	FPutObject(ctx context.Context, bucket, object, filePath string, opts minio.PutObjectOptions) (minio.UploadInfo, error)
}

// Publisher uploads files to one bucket. Safe for concurrent use.
type Publisher struct {
	store objectStore
	cfg   Config

	mu          sync.Mutex
	bucketReady bool
}

// New creates a Publisher backed by a minio client.
func New(cfg Config) (*Publisher, error) {
	if cfg.Endpoint == "" || cfg.Bucket == "" {
		return nil, fmt.Errorf("%w: endpoint and bucket are required", ErrInvalidTarget)
	}
	if cfg.AccessKey == "" || cfg.SecretKey == "" {
		return nil, ErrMissingCredentials
	}

	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidTarget, err)
	}
	return newPublisher(client, cfg), nil
}

func newPublisher(store objectStore, cfg Config) *Publisher {
	return &Publisher{store: store, cfg: cfg}
}

// Publish uploads the file at localPath and returns its public URL.
// The bucket is created on first use when missing.
func (p *Publisher) Publish(ctx context.Context, localPath string) (string, error) {
	key := p.ObjectKey(localPath)

	ctx, span := tracer.Start(ctx, "publish_image")
	defer span.End()
	span.SetAttributes(
		attribute.String("s3.bucket", p.cfg.Bucket),
		attribute.String("s3.key", key),
	)

	if err := p.ensureBucket(ctx); err != nil {
		span.RecordError(err)
		return "", err
	}

	info, err := p.store.FPutObject(ctx, p.cfg.Bucket, key, localPath, minio.PutObjectOptions{
		ContentType: ContentType(localPath),
	})
	if err != nil {
		span.RecordError(err)
		return "", fmt.Errorf("%w: %s: %v", ErrUpload, key, err)
	}
	span.SetAttributes(attribute.Int64("s3.size", info.Size))

	return p.URL(key), nil
}

// ensureBucket checks the bucket once per Publisher and creates it if missing.
func (p *Publisher) ensureBucket(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.bucketReady {
		return nil
	}

	ctx, span := tracer.Start(ctx, "ensure_bucket")
	defer span.End()
	span.SetAttributes(attribute.String("s3.bucket", p.cfg.Bucket))

	exists, err := p.store.BucketExists(ctx, p.cfg.Bucket)
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("%w: checking bucket %s: %v", ErrUpload, p.cfg.Bucket, err)
	}
	if !exists {
		if err := p.store.MakeBucket(ctx, p.cfg.Bucket, minio.MakeBucketOptions{}); err != nil {
			span.RecordError(err)
			return fmt.Errorf("%w: creating bucket %s: %v", ErrUpload, p.cfg.Bucket, err)
		}
	}
	p.bucketReady = true
	return nil
}

// ObjectKey is the prefix joined with the file's base name.
func (p *Publisher) ObjectKey(localPath string) string {
	prefix := strings.Trim(p.cfg.Prefix, "/")
	name := filepath.Base(localPath)
	if prefix == "" {
		return name
	}
	return path.Join(prefix, name)
}

// URL returns the public link for key.
func (p *Publisher) URL(key string) string {
	base := strings.TrimRight(p.cfg.PublicURL, "/")
	if base == "" {
		scheme := "http"
		if p.cfg.UseSSL {
			scheme = "https"
		}
		base = scheme + "://" + p.cfg.Endpoint + "/" + p.cfg.Bucket
	}
	return base + "/" + escapeKey(key)
}

// escapeKey percent-encodes each path segment of key.
func escapeKey(key string) string {
	segments := strings.Split(key, "/")
	for i, s := range segments {
		segments[i] = url.PathEscape(s)
	}
	return strings.Join(segments, "/")
}

// ContentType guesses the MIME type from the file extension.
func ContentType(localPath string) string {
	if ct := mime.TypeByExtension(strings.ToLower(filepath.Ext(localPath))); ct != "" {
		return ct
	}
	return "application/octet-stream"
}
