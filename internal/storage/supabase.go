package storage

import (
	"bytes"
	"fmt"
	"os"

	storage_go "github.com/supabase-community/storage-go"
)

// ReportStore pushes generated spreadsheets to the office's Supabase
// storage bucket so the web UI can offer them for download later.
type ReportStore struct {
	client *storage_go.Client
	bucket string
}

// NewReportStoreFromEnv wires the store from SUPABASE_URL /
// SUPABASE_SERVICE_KEY. Returns nil (not an error) when unconfigured:
// report upload is best-effort, the blob is still returned inline.
func NewReportStoreFromEnv(bucket string) *ReportStore {
	url := os.Getenv("SUPABASE_URL")
	key := os.Getenv("SUPABASE_SERVICE_KEY")
	if url == "" || key == "" {
		return nil
	}
	client := storage_go.NewClient(url+"/storage/v1", key, nil)
	return &ReportStore{client: client, bucket: bucket}
}

// Upload stores the blob under name and returns the bucket-relative key.
func (s *ReportStore) Upload(name string, blob []byte) (string, error) {
	if s == nil || s.client == nil {
		return "", fmt.Errorf("report store not configured")
	}
	_, err := s.client.UploadFile(s.bucket, name, bytes.NewReader(blob))
	if err != nil {
		return "", fmt.Errorf("failed to upload %s: %w", name, err)
	}
	return s.bucket + "/" + name, nil
}
