package loader

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/me/goshop/pkg/jobshop"
)

// Fetcher retrieves instance files by location. Supported schemes:
// bare paths and file:// (local filesystem), http:// and https://, and
// s3://bucket/key.
type Fetcher struct {
	httpClient *http.Client
	s3Client   *s3.Client
}

// NewFetcher creates a fetcher with default clients. The S3 client is
// created lazily on first s3:// fetch so local use needs no AWS
// configuration.
func NewFetcher() *Fetcher {
	return &Fetcher{httpClient: http.DefaultClient}
}

// Fetch retrieves the raw bytes at location.
func (f *Fetcher) Fetch(ctx context.Context, location string) ([]byte, error) {
	switch {
	case strings.HasPrefix(location, "http://"), strings.HasPrefix(location, "https://"):
		return f.fetchHTTP(ctx, location)
	case strings.HasPrefix(location, "s3://"):
		return f.fetchS3(ctx, location)
	case strings.HasPrefix(location, "file://"):
		return os.ReadFile(strings.TrimPrefix(location, "file://"))
	default:
		return os.ReadFile(location)
	}
}

// Load fetches and parses an instance, choosing the format from the
// location suffix: .json decodes the JSON document form, everything
// else parses as Taillard text.
func (f *Fetcher) Load(ctx context.Context, location string) (*jobshop.Instance, error) {
	data, err := f.Fetch(ctx, location)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", location, err)
	}
	if strings.HasSuffix(location, ".json") {
		return DecodeJSON(data)
	}
	return ParseTaillard(InstanceNameFromPath(location), data)
}

func (f *Fetcher) fetchHTTP(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("GET %s: status %d", url, resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}

func (f *Fetcher) fetchS3(ctx context.Context, location string) ([]byte, error) {
	bucket, key, err := splitS3Location(location)
	if err != nil {
		return nil, err
	}

	if f.s3Client == nil {
		cfg, err := awsconfig.LoadDefaultConfig(ctx)
		if err != nil {
			return nil, fmt.Errorf("load aws config: %w", err)
		}
		f.s3Client = s3.NewFromConfig(cfg)
	}

	out, err := f.s3Client.GetObject(ctx, &s3.GetObjectInput{Bucket: &bucket, Key: &key})
	if err != nil {
		return nil, fmt.Errorf("s3 get %s: %w", location, err)
	}
	defer out.Body.Close()
	return io.ReadAll(out.Body)
}

// splitS3Location parses s3://bucket/key into its parts.
func splitS3Location(location string) (bucket, key string, err error) {
	rest := strings.TrimPrefix(location, "s3://")
	slash := strings.IndexByte(rest, '/')
	if slash <= 0 || slash == len(rest)-1 {
		return "", "", fmt.Errorf("invalid s3 location %q, want s3://bucket/key", location)
	}
	return rest[:slash], rest[slash+1:], nil
}
