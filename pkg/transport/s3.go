package transport

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"strings"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3Fetcher fetches s3://bucket/key locators using ambient AWS credentials
// (environment, shared config, or instance role). The client is built
// lazily on first use.
type S3Fetcher struct {
	mu     sync.Mutex
	client *s3.Client
}

func (f *S3Fetcher) getClient(ctx context.Context) (*s3.Client, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.client != nil {
		return f.client, nil
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	f.client = s3.NewFromConfig(cfg)
	return f.client, nil
}

// Fetch opens the object at an s3://bucket/key locator.
func (f *S3Fetcher) Fetch(ctx context.Context, locator string) (io.ReadCloser, int64, error) {
	u, err := url.Parse(locator)
	if err != nil {
		return nil, 0, fmt.Errorf("parse locator: %w", err)
	}

	bucket := u.Host
	key := strings.TrimPrefix(u.Path, "/")
	if bucket == "" || key == "" {
		return nil, 0, fmt.Errorf("invalid s3 locator: %s", locator)
	}

	client, err := f.getClient(ctx)
	if err != nil {
		return nil, 0, err
	}

	out, err := client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, 0, fmt.Errorf("get s3://%s/%s: %w", bucket, key, err)
	}

	return out.Body, aws.ToInt64(out.ContentLength), nil
}
