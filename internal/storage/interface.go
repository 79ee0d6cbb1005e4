package storage

import "context"

// Object prefixes within the store
const (
	PrefixUploads    = "uploads"
	PrefixDashboards = "dashboards"
)

// Store is the blob storage used for uploaded CSVs and rendered dashboards.
// Keys are slash-separated paths under the prefixes above.
type Store interface {
	Put(ctx context.Context, key string, data []byte, contentType string) error
	Get(ctx context.Context, key string) ([]byte, error)
	Delete(ctx context.Context, key string) error
}

// Ensure both backends implement Store
var (
	_ Store = (*S3Store)(nil)
	_ Store = (*LocalStore)(nil)
)
