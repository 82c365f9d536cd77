// Package storage persists rendered reports in Supabase Storage through
// its HTTP object API.
package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"

	"portfolio-reporter/internal/logger"
)

const folderMarker = ".gitkeep"

// SupabaseStore uploads and lists objects in a single storage bucket.
// Uploads always upsert so a rerun overwrites the previous report.
type SupabaseStore struct {
	baseURL    string
	bucket     string
	apiKey     string
	httpClient *http.Client
}

func NewSupabase(baseURL, apiKey, bucket string) *SupabaseStore {
	return &SupabaseStore{
		baseURL:    strings.TrimRight(baseURL, "/"),
		bucket:     bucket,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// ClientPath builds the bucket-relative location of a client's report file.
func ClientPath(clientID, fileName string) string {
	return clientID + "/" + fileName
}

// SharedPath builds the location of a report shared by every client. An
// empty prefix places the file at the bucket root.
func SharedPath(prefix, fileName string) string {
	if prefix == "" {
		return fileName
	}
	return strings.TrimRight(prefix, "/") + "/" + fileName
}

// Upload writes content at objectPath, replacing any previous version.
func (s *SupabaseStore) Upload(ctx context.Context, objectPath, content, contentType string) error {
	timer := logger.StartOperation(ctx, "storage.upload",
		"bucket", s.bucket, "path", objectPath, "bytes", len(content))

	endpoint := fmt.Sprintf("%s/storage/v1/object/%s/%s",
		s.baseURL, url.PathEscape(s.bucket), escapePath(objectPath))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint,
		strings.NewReader(content))
	if err != nil {
		timer.EndWithError(err)
		return fmt.Errorf("create upload request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+s.apiKey)
	req.Header.Set("apikey", s.apiKey)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Cache-Control", "max-age=3600")
	req.Header.Set("x-upsert", "true")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		timer.EndWithError(err)
		return fmt.Errorf("upload %s: %w", objectPath, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		err := fmt.Errorf("upload %s: status %d: %s", objectPath, resp.StatusCode, string(body))
		timer.EndWithError(err)
		return err
	}

	timer.End()
	return nil
}

// Exists reports whether an object is already present at objectPath by
// listing its parent folder.
func (s *SupabaseStore) Exists(ctx context.Context, objectPath string) (bool, error) {
	dir, base := splitObjectPath(objectPath)

	payload, err := json.Marshal(map[string]any{
		"prefix": dir,
		"limit":  100,
	})
	if err != nil {
		return false, fmt.Errorf("encode list request: %w", err)
	}

	endpoint := fmt.Sprintf("%s/storage/v1/object/list/%s", s.baseURL, url.PathEscape(s.bucket))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint,
		bytes.NewReader(payload))
	if err != nil {
		return false, fmt.Errorf("create list request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+s.apiKey)
	req.Header.Set("apikey", s.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return false, fmt.Errorf("list %s: %w", dir, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return false, fmt.Errorf("list %s: status %d: %s", dir, resp.StatusCode, string(body))
	}

	var objects []struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&objects); err != nil {
		return false, fmt.Errorf("decode list response: %w", err)
	}

	for _, obj := range objects {
		if obj.Name == base {
			return true, nil
		}
	}
	return false, nil
}

// EnsureClientFolder materializes the client's folder by writing a marker
// object, since the storage API has no empty folders.
func (s *SupabaseStore) EnsureClientFolder(ctx context.Context, clientID string) error {
	marker := ClientPath(clientID, folderMarker)
	exists, err := s.Exists(ctx, marker)
	if err != nil {
		logger.Warn(ctx, "Folder existence check failed, uploading marker anyway",
			"client_id", clientID, "error", err)
	}
	if exists {
		return nil
	}
	return s.Upload(ctx, marker, "", "text/plain")
}

// escapePath escapes each path segment while keeping the separators.
func escapePath(p string) string {
	segments := strings.Split(p, "/")
	for i, seg := range segments {
		segments[i] = url.PathEscape(seg)
	}
	return strings.Join(segments, "/")
}

func splitObjectPath(p string) (dir, base string) {
	dir, base = path.Split(p)
	return strings.TrimRight(dir, "/"), base
}
