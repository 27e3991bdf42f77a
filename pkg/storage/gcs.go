package storage

import (
	"context"
	"errors"
	"fmt"
	"io"

	gcs "cloud.google.com/go/storage"
	"github.com/cyclopcam/logs"
	"google.golang.org/api/iterator"
)

// StorageGCS is a Google Cloud Storage-based blob store
type StorageGCS struct {
	bucketName string
	bucket     *gcs.BucketHandle
	log        logs.Log
}

func NewStorageGCS(log logs.Log, bucketName string) (*StorageGCS, error) {
	ctx := context.Background()
	client, err := gcs.NewClient(ctx)
	if err != nil {
		return nil, err
	}
	bucket := client.Bucket(bucketName)
	return &StorageGCS{
		bucketName: bucketName,
		bucket:     bucket,
		log:        log,
	}, nil
}

func (s *StorageGCS) WriteFile(name string) (io.WriteCloser, error) {
	ctx := context.Background()
	w := s.bucket.Object(name).NewWriter(ctx)
	return w, nil
}

func (s *StorageGCS) ReadFile(name string) (*File, error) {
	ctx := context.Background()
	r, err := s.bucket.Object(name).NewReader(ctx)
	if errors.Is(err, gcs.ErrObjectNotExist) {
		return nil, fmt.Errorf("%w: gs://%v/%v", ErrNotFound, s.bucketName, name)
	} else if err != nil {
		return nil, err
	}
	return &File{
		Reader:     r,
		ModifiedAt: r.Attrs.LastModified,
		Size:       r.Attrs.Size,
	}, nil
}

// GCS returns objects in lexical order, so we don't need to sort
func (s *StorageGCS) List(prefix string) ([]string, error) {
	ctx := context.Background()
	it := s.bucket.Objects(ctx, &gcs.Query{Prefix: prefix})
	names := []string{}
	for {
		attrs, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("Failed to list gs://%v/%v: %w", s.bucketName, prefix, err)
		}
		names = append(names, attrs.Name)
	}
	s.log.Debugf("Listed %v objects in gs://%v/%v", len(names), s.bucketName, prefix)
	return names, nil
}
