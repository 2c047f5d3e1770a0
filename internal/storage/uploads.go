package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
)

// ErrUploadsDisabled is returned when no object storage is configured
var ErrUploadsDisabled = errors.New("prescription uploads are not configured")

// SupabaseUploads issues signed upload URLs from Supabase Storage
type SupabaseUploads struct {
	baseURL string
	apiKey  string
	bucket  string
	timeout time.Duration
}

// NewSupabaseUploads creates a provider for the given project and bucket
func NewSupabaseUploads(baseURL, apiKey, bucket string) (*SupabaseUploads, error) {
	if baseURL == "" || apiKey == "" {
		return nil, fmt.Errorf("SUPABASE_URL and a Supabase key are required")
	}
	if bucket == "" {
		bucket = "prescriptions"
	}
	return &SupabaseUploads{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		bucket:  bucket,
		timeout: 10 * time.Second,
	}, nil
}

type signedUploadResponse struct {
	URL     string `json:"url"`
	Message string `json:"message"`
	Error   string `json:"error"`
}

// CreateUploadTarget returns a one-time URL the user can PUT the photo to
func (s *SupabaseUploads) CreateUploadTarget(ctx context.Context, path string) (string, error) {
	timeout, err := s.requestTimeout(ctx)
	if err != nil {
		return "", err
	}

	endpoint := fmt.Sprintf("%s/storage/v1/object/upload/sign/%s/%s", s.baseURL, s.bucket, strings.TrimLeft(path, "/"))

	agent := fiber.Post(endpoint)
	agent.Set("apikey", s.apiKey)
	agent.Set("Authorization", "Bearer "+s.apiKey)
	agent.JSON(fiber.Map{})
	agent.Timeout(timeout)

	if err := agent.Parse(); err != nil {
		return "", fmt.Errorf("build signed upload request: %w", err)
	}

	code, body, errs := agent.Bytes()
	if len(errs) > 0 {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", fmt.Errorf("signed upload request: %w", ctxErr)
		}
		return "", fmt.Errorf("signed upload request: %w", errors.Join(errs...))
	}

	var out signedUploadResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return "", fmt.Errorf("decode signed upload response (status %d): %w", code, err)
	}
	if code < 200 || code >= 300 {
		msg := out.Message
		if msg == "" {
			msg = out.Error
		}
		return "", fmt.Errorf("signed upload rejected: status %d: %s", code, msg)
	}
	if out.URL == "" {
		return "", fmt.Errorf("signed upload response has no url")
	}

	return s.baseURL + "/storage/v1" + out.URL, nil
}

// requestTimeout caps the client timeout at whatever is left of ctx's deadline.
// The fiber agent does not watch ctx itself.
func (s *SupabaseUploads) requestTimeout(ctx context.Context) (time.Duration, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	timeout := s.timeout
	if deadline, ok := ctx.Deadline(); ok {
		remaining := time.Until(deadline)
		if remaining <= 0 {
			return 0, context.DeadlineExceeded
		}
		if remaining < timeout {
			timeout = remaining
		}
	}
	return timeout, nil
}

// NoUploads is used when object storage is not configured
type NoUploads struct{}

func (NoUploads) CreateUploadTarget(ctx context.Context, path string) (string, error) {
	return "", ErrUploadsDisabled
}
