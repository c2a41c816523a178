// Package blobstore implements ports.BlobStore against Supabase Storage
// — the raw-bytes sink for ingested image chunks spec.md §4.4 names,
// since the graph itself holds no binary payloads.
package blobstore

import (
	"bytes"
	"context"
	"fmt"

	"ontologykg/application/ports"

	storage_go "github.com/supabase-community/storage-go"
)

// Supabase wraps a storage-go client scoped to one bucket.
type Supabase struct {
	client *storage_go.Client
	bucket string
}

func NewSupabase(projectURL, serviceKey, bucket string) *Supabase {
	client := storage_go.NewClient(projectURL+"/storage/v1", serviceKey, nil)
	return &Supabase{client: client, bucket: bucket}
}

func (s *Supabase) Put(ctx context.Context, key string, data []byte, contentType string) error {
	_, err := s.client.UploadFile(s.bucket, key, bytes.NewReader(data), storage_go.FileOptions{
		ContentType: &contentType,
		Upsert:      boolPtr(true),
	})
	if err != nil {
		return fmt.Errorf("uploading %s to supabase bucket %s: %w", key, s.bucket, err)
	}
	return nil
}

func (s *Supabase) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := s.client.DownloadFile(s.bucket, key)
	if err != nil {
		return nil, fmt.Errorf("downloading %s from supabase bucket %s: %w", key, s.bucket, err)
	}
	return data, nil
}

func (s *Supabase) Delete(ctx context.Context, key string) error {
	if _, err := s.client.RemoveFile(s.bucket, []string{key}); err != nil {
		return fmt.Errorf("deleting %s from supabase bucket %s: %w", key, s.bucket, err)
	}
	return nil
}

func boolPtr(b bool) *bool { return &b }

var _ ports.BlobStore = (*Supabase)(nil)
