// Package pinning publishes token images and metadata documents to IPFS
// through the Pinata pinning API.
package pinning

import (
	"context"
	"errors"
	"fmt"

	"spl-token-creator/internal/domain"
)

// Publisher uploads assets and returns their content-addressed URLs.
type Publisher interface {
	// PublishImage uploads the token image and returns its URL.
	PublishImage(ctx context.Context, image domain.Image) (string, error)

	// PublishMetadata uploads the metadata document and returns its URL.
	PublishMetadata(ctx context.Context, doc Metadata) (string, error)
}

var (
	// ErrMissingCredentials is returned when API key, secret or JWT is empty.
	ErrMissingCredentials = errors.New("pinata api key, secret api key and jwt must be set")

	// ErrEmptyImage is returned when there is nothing to upload.
	ErrEmptyImage = errors.New("image is empty")
)

// APIError is a non-2xx response from the pinning service.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("pinata: status %d: %s", e.StatusCode, e.Body)
}
