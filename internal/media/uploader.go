package media

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/sony/gobreaker/v2"
)

// Upload identifies a stored image: the public URL plus the storage id
// needed to delete it later.
type Upload struct {
	URL       string `json:"url"`
	StorageID string `json:"storageId"`
}

type Config struct {
	Endpoint string // remote media host upload URL; empty disables remote
	APIKey   string
	Dir      string // local fallback directory
	BaseURL  string // public base URL for locally stored files
}

// Uploader sends images to the remote media host and falls back to local
// disk when the host is unreachable or the circuit breaker is open.
type Uploader struct {
	cfg     Config
	client  *http.Client
	breaker *gobreaker.CircuitBreaker[Upload]
}

func NewUploader(cfg Config) *Uploader {
	settings := gobreaker.Settings{
		Name:    "media-host",
		Timeout: 30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 3
		},
	}

	return &Uploader{
		cfg:     cfg,
		client:  &http.Client{Timeout: 15 * time.Second},
		breaker: gobreaker.NewCircuitBreaker[Upload](settings),
	}
}

func (u *Uploader) Upload(ctx context.Context, filename string, r io.Reader) (Upload, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return Upload{}, fmt.Errorf("failed to read upload: %w", err)
	}

	if u.cfg.Endpoint != "" {
		result, err := u.breaker.Execute(func() (Upload, error) {
			return u.uploadRemote(ctx, filename, data)
		})
		if err == nil {
			return result, nil
		}
		log.Printf("remote upload failed, storing locally: %v", err)
	}

	return u.storeLocal(filename, data)
}

func (u *Uploader) uploadRemote(ctx context.Context, filename string, data []byte) (Upload, error) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	part, err := writer.CreateFormFile("image", filename)
	if err != nil {
		return Upload{}, fmt.Errorf("failed to build form: %w", err)
	}
	if _, err := part.Write(data); err != nil {
		return Upload{}, fmt.Errorf("failed to write form: %w", err)
	}
	if err := writer.Close(); err != nil {
		return Upload{}, fmt.Errorf("failed to close form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u.cfg.Endpoint, &body)
	if err != nil {
		return Upload{}, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	if u.cfg.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+u.cfg.APIKey)
	}

	resp, err := u.client.Do(req)
	if err != nil {
		return Upload{}, fmt.Errorf("media host unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return Upload{}, fmt.Errorf("media host returned %d", resp.StatusCode)
	}

	var result Upload
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return Upload{}, fmt.Errorf("failed to decode media host response: %w", err)
	}
	return result, nil
}

func (u *Uploader) storeLocal(filename string, data []byte) (Upload, error) {
	if err := os.MkdirAll(u.cfg.Dir, 0o755); err != nil {
		return Upload{}, fmt.Errorf("failed to create upload dir: %w", err)
	}

	name := uuid.NewString() + filepath.Ext(filename)
	path := filepath.Join(u.cfg.Dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return Upload{}, fmt.Errorf("failed to write upload: %w", err)
	}

	return Upload{
		URL:       u.cfg.BaseURL + "/static/" + name,
		StorageID: "local:" + name,
	}, nil
}
