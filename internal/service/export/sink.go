package export

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"cloud.google.com/go/storage"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"google.golang.org/api/option"

	"parquet-explorer/internal/domain"
)

// Sink stores an export blob at a destination and returns where it landed.
type Sink interface {
	Write(ctx context.Context, destination string, blob *Blob) (string, error)
}

// SinkConfig holds the credentials used by the object storage sinks. A sink
// whose settings are missing refuses to write.
type SinkConfig struct {
	S3Endpoint string
	S3Region   string
	S3KeyID    string
	S3Secret   string

	GCSKeyFile string

	AzureAccountName string
	AzureAccountKey  string
}

// HasS3 reports whether S3 credentials are configured.
func (c SinkConfig) HasS3() bool {
	return c.S3KeyID != "" && c.S3Secret != ""
}

// HasAzure reports whether an Azure storage account key is configured.
func (c SinkConfig) HasAzure() bool {
	return c.AzureAccountName != "" && c.AzureAccountKey != ""
}

// Sinks routes a destination to the sink for its scheme: s3://, gs://,
// az:// or abfss://, and local paths (optionally file://). Cloud clients are
// created on first use.
type Sinks struct {
	cfg SinkConfig

	mu    sync.Mutex
	s3    *S3Sink
	gcs   *GCSSink
	azure *AzureSink
}

// NewSinks creates a sink router.
func NewSinks(cfg SinkConfig) *Sinks {
	return &Sinks{cfg: cfg}
}

// Write implements Sink.
func (s *Sinks) Write(ctx context.Context, destination string, blob *Blob) (string, error) {
	sink, err := s.sinkFor(ctx, destination)
	if err != nil {
		return "", err
	}
	return sink.Write(ctx, destination, blob)
}

func (s *Sinks) sinkFor(ctx context.Context, destination string) (Sink, error) {
	if strings.TrimSpace(destination) == "" {
		return nil, domain.ErrValidation("export destination is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	switch schemeOf(destination) {
	case "s3":
		if s.s3 == nil {
			sink, err := NewS3Sink(s.cfg)
			if err != nil {
				return nil, err
			}
			s.s3 = sink
		}
		return s.s3, nil
	case "gs":
		if s.gcs == nil {
			sink, err := NewGCSSink(ctx, s.cfg)
			if err != nil {
				return nil, err
			}
			s.gcs = sink
		}
		return s.gcs, nil
	case "az", "abfss":
		if s.azure == nil {
			sink, err := NewAzureSink(s.cfg)
			if err != nil {
				return nil, err
			}
			s.azure = sink
		}
		return s.azure, nil
	case "", "file":
		return FileSink{}, nil
	default:
		return nil, domain.ErrValidation("unsupported export destination %q", destination)
	}
}

func schemeOf(destination string) string {
	i := strings.Index(destination, "://")
	if i <= 0 {
		return ""
	}
	return strings.ToLower(destination[:i])
}

// objectKey completes a key that names a prefix ("" or ending in "/") with
// the blob's filename.
func objectKey(key, filename string) string {
	if key == "" || strings.HasSuffix(key, "/") {
		return key + filename
	}
	return key
}

// FileSink writes blobs to the local filesystem.
type FileSink struct{}

// Write implements Sink. A destination that is an existing directory or ends
// with a path separator receives the blob under its filename.
func (FileSink) Write(_ context.Context, destination string, blob *Blob) (string, error) {
	path := strings.TrimPrefix(destination, "file://")
	if strings.HasSuffix(path, "/") || strings.HasSuffix(path, string(filepath.Separator)) {
		path = filepath.Join(path, blob.Filename)
	} else if fi, err := os.Stat(path); err == nil && fi.IsDir() {
		path = filepath.Join(path, blob.Filename)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("create export directory: %w", err)
	}
	if err := os.WriteFile(path, blob.Data, 0o644); err != nil {
		return "", fmt.Errorf("write export file: %w", err)
	}
	return path, nil
}

// S3Sink uploads blobs to S3-compatible object storage.
type S3Sink struct {
	client *s3.Client
}

// NewS3Sink creates an S3 sink with static credentials and path-style
// addressing. An endpoint without a scheme is reached over https.
func NewS3Sink(cfg SinkConfig) (*S3Sink, error) {
	if !cfg.HasS3() {
		return nil, domain.ErrValidation("s3 export sink is not configured")
	}

	region := cfg.S3Region
	if region == "" {
		region = "us-east-1"
	}
	opts := s3.Options{
		Region:       region,
		Credentials:  credentials.NewStaticCredentialsProvider(cfg.S3KeyID, cfg.S3Secret, ""),
		UsePathStyle: true,
	}
	if cfg.S3Endpoint != "" {
		endpoint := cfg.S3Endpoint
		if !strings.Contains(endpoint, "://") {
			endpoint = "https://" + endpoint
		}
		opts.BaseEndpoint = aws.String(endpoint)
	}
	return &S3Sink{client: s3.New(opts)}, nil
}

// Write implements Sink.
func (s *S3Sink) Write(ctx context.Context, destination string, blob *Blob) (string, error) {
	bucket, key, err := ParseS3Path(destination)
	if err != nil {
		return "", domain.ErrValidation("%s", err.Error())
	}
	key = objectKey(key, blob.Filename)

	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(blob.Data),
		ContentType: aws.String(blob.ContentType),
	})
	if err != nil {
		return "", fmt.Errorf("upload to s3://%s/%s: %w", bucket, key, err)
	}
	return fmt.Sprintf("s3://%s/%s", bucket, key), nil
}

// ParseS3Path splits "s3://bucket/prefix/key" into bucket and key. The key
// may be empty.
func ParseS3Path(path string) (bucket, key string, err error) {
	u, err := url.Parse(path)
	if err != nil {
		return "", "", fmt.Errorf("parse S3 path %q: %w", path, err)
	}
	if u.Scheme != "s3" {
		return "", "", fmt.Errorf("expected s3:// scheme, got %q in %q", u.Scheme, path)
	}
	if u.Host == "" {
		return "", "", fmt.Errorf("empty bucket in S3 path %q", path)
	}
	return u.Host, strings.TrimPrefix(u.Path, "/"), nil
}

// GCSSink uploads blobs to Google Cloud Storage.
type GCSSink struct {
	client *storage.Client
}

// NewGCSSink creates a GCS sink. Without a key file the client falls back to
// application default credentials.
func NewGCSSink(ctx context.Context, cfg SinkConfig) (*GCSSink, error) {
	var opts []option.ClientOption
	if cfg.GCSKeyFile != "" {
		opts = append(opts, option.WithAuthCredentialsFile(option.ServiceAccount, cfg.GCSKeyFile))
	}
	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create GCS client: %w", err)
	}
	return &GCSSink{client: client}, nil
}

// Write implements Sink.
func (s *GCSSink) Write(ctx context.Context, destination string, blob *Blob) (string, error) {
	bucket, key, err := ParseGCSPath(destination)
	if err != nil {
		return "", domain.ErrValidation("%s", err.Error())
	}
	key = objectKey(key, blob.Filename)

	w := s.client.Bucket(bucket).Object(key).NewWriter(ctx)
	w.ContentType = blob.ContentType
	if _, err := w.Write(blob.Data); err != nil {
		_ = w.Close()
		return "", fmt.Errorf("upload to gs://%s/%s: %w", bucket, key, err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("upload to gs://%s/%s: %w", bucket, key, err)
	}
	return fmt.Sprintf("gs://%s/%s", bucket, key), nil
}

// ParseGCSPath splits "gs://bucket/prefix/key" into bucket and key. The key
// may be empty.
func ParseGCSPath(path string) (bucket, key string, err error) {
	u, err := url.Parse(path)
	if err != nil {
		return "", "", fmt.Errorf("parse GCS path %q: %w", path, err)
	}
	if u.Scheme != "gs" {
		return "", "", fmt.Errorf("expected gs:// scheme, got %q in %q", u.Scheme, path)
	}
	if u.Host == "" {
		return "", "", fmt.Errorf("empty bucket in GCS path %q", path)
	}
	return u.Host, strings.TrimPrefix(u.Path, "/"), nil
}

// AzureSink uploads blobs to Azure Blob Storage using a shared account key.
type AzureSink struct {
	client *azblob.Client
}

// NewAzureSink creates an Azure sink.
func NewAzureSink(cfg SinkConfig) (*AzureSink, error) {
	if !cfg.HasAzure() {
		return nil, domain.ErrValidation("azure export sink is not configured")
	}
	cred, err := azblob.NewSharedKeyCredential(cfg.AzureAccountName, cfg.AzureAccountKey)
	if err != nil {
		return nil, fmt.Errorf("create shared key credential: %w", err)
	}
	serviceURL := fmt.Sprintf("https://%s.blob.core.windows.net", cfg.AzureAccountName)
	client, err := azblob.NewClientWithSharedKeyCredential(serviceURL, cred, nil)
	if err != nil {
		return nil, fmt.Errorf("create Azure blob client: %w", err)
	}
	return &AzureSink{client: client}, nil
}

// Write implements Sink.
func (s *AzureSink) Write(ctx context.Context, destination string, blob *Blob) (string, error) {
	container, key, err := ParseAzurePath(destination)
	if err != nil {
		return "", domain.ErrValidation("%s", err.Error())
	}
	key = objectKey(key, blob.Filename)

	if _, err := s.client.UploadBuffer(ctx, container, key, blob.Data, nil); err != nil {
		return "", fmt.Errorf("upload to az://%s/%s: %w", container, key, err)
	}
	return fmt.Sprintf("az://%s/%s", container, key), nil
}

// ParseAzurePath extracts container and key from an Azure storage URI:
// az://container/key or abfss://container@account.dfs.core.windows.net/key.
// The key may be empty.
func ParseAzurePath(path string) (container, key string, err error) {
	u, err := url.Parse(path)
	if err != nil {
		return "", "", fmt.Errorf("parse Azure path %q: %w", path, err)
	}

	switch u.Scheme {
	case "abfss":
		// url.Parse reads "container" as the userinfo of container@account.
		if u.User == nil {
			return "", "", fmt.Errorf("abfss path %q missing container@account component", path)
		}
		container = u.User.Username()
	case "az":
		container = u.Host
	default:
		return "", "", fmt.Errorf("unrecognized Azure path scheme %q in %q", u.Scheme, path)
	}

	if container == "" {
		return "", "", fmt.Errorf("empty container in Azure path %q", path)
	}
	return container, strings.TrimPrefix(u.Path, "/"), nil
}
