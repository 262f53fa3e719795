package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"cloud.google.com/go/storage"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
)

const uploadTimeout = 5 * time.Minute

// GCSStorage implements the Storage interface for Google Cloud Storage
type GCSStorage struct {
	client       *storage.Client
	bucket       string
	objectPrefix string
}

// NewGCSStorage creates a new GCSStorage instance
func NewGCSStorage(ctx context.Context, bucketName, objectPrefix, credentialsFile string) (*GCSStorage, error) {
	if bucketName == "" {
		return nil, errors.New("gcs storage requires a bucket name")
	}

	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}

	// Without a credentials file the client uses application default credentials
	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCS client: %w", err)
	}

	return &GCSStorage{
		client:       client,
		bucket:       bucketName,
		objectPrefix: strings.Trim(objectPrefix, "/"),
	}, nil
}

func (s *GCSStorage) objectName(name string) (string, error) {
	name, err := cleanName(name)
	if err != nil {
		return "", err
	}
	if s.objectPrefix != "" {
		name = path.Join(s.objectPrefix, name)
	}
	return name, nil
}

// Save uploads the sheet and returns its gs:// location
func (s *GCSStorage) Save(ctx context.Context, name string, content []byte) (string, error) {
	objectName, err := s.objectName(name)
	if err != nil {
		return "", err
	}

	ctx, cancel := context.WithTimeout(ctx, uploadTimeout)
	defer cancel()

	wc := s.client.Bucket(s.bucket).Object(objectName).NewWriter(ctx)
	wc.ContentType = "application/x-cue"
	if _, err := wc.Write(content); err != nil {
		_ = wc.Close()
		return "", fmt.Errorf("failed to copy file to GCS: %w", err)
	}
	if err := wc.Close(); err != nil {
		return "", fmt.Errorf("failed to close GCS writer: %w", err)
	}

	return fmt.Sprintf("gs://%s/%s", s.bucket, objectName), nil
}

// Open returns a reader for a stored object
func (s *GCSStorage) Open(ctx context.Context, name string) (io.ReadCloser, error) {
	objectName, err := s.objectName(name)
	if err != nil {
		return nil, err
	}
	return s.client.Bucket(s.bucket).Object(objectName).NewReader(ctx)
}

// Exists checks if an object exists
func (s *GCSStorage) Exists(ctx context.Context, name string) (bool, error) {
	objectName, err := s.objectName(name)
	if err != nil {
		return false, err
	}

	_, err = s.client.Bucket(s.bucket).Object(objectName).Attrs(ctx)
	if errors.Is(err, storage.ErrObjectNotExist) {
		return false, nil
	}
	return err == nil, err
}

// List returns object names under the configured prefix, with the prefix
// stripped so they line up with the names passed to Save.
func (s *GCSStorage) List(ctx context.Context, prefix string) ([]string, error) {
	query := prefix
	if s.objectPrefix != "" {
		query = s.objectPrefix + "/" + prefix
	}

	it := s.client.Bucket(s.bucket).Objects(ctx, &storage.Query{
		Prefix: query,
	})

	var results []string
	for {
		attrs, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("error listing objects: %w", err)
		}

		// Skip directories (objects ending with /)
		if strings.HasSuffix(attrs.Name, "/") {
			continue
		}

		name := attrs.Name
		if s.objectPrefix != "" {
			name = strings.TrimPrefix(name, s.objectPrefix+"/")
		}
		results = append(results, name)
	}

	return results, nil
}

// Close closes the GCS client
func (s *GCSStorage) Close() error {
	return s.client.Close()
}
