package pinning

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"
	"time"

	"go.uber.org/zap"

	"spl-token-creator/internal/domain"
	"spl-token-creator/internal/observability"
)

// Default endpoints.
const (
	DefaultAPIURL     = "https://api.pinata.cloud"
	DefaultGatewayURL = "https://gateway.pinata.cloud"
	DefaultTimeout    = 60 * time.Second
)

// Config holds Pinata credentials and endpoints.
type Config struct {
	APIKey       string
	SecretAPIKey string
	JWT          string
	APIURL       string
	GatewayURL   string
}

// Validate checks that all credentials are present.
func (c Config) Validate() error {
	if c.APIKey == "" || c.SecretAPIKey == "" || c.JWT == "" {
		return ErrMissingCredentials
	}
	return nil
}

// PinataClient implements Publisher against the Pinata REST API.
// Each upload is a single request; failures are not retried.
type PinataClient struct {
	cfg    Config
	client *http.Client
	logger *zap.Logger
}

var _ Publisher = (*PinataClient)(nil)

// Option configures PinataClient.
type Option func(*PinataClient)

// WithHTTPClient sets custom http.Client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *PinataClient) {
		c.client = client
	}
}

// WithLogger sets the logger.
func WithLogger(logger *zap.Logger) Option {
	return func(c *PinataClient) {
		c.logger = logger
	}
}

// NewPinataClient creates a client. Missing credentials are an error.
func NewPinataClient(cfg Config, opts ...Option) (*PinataClient, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.APIURL == "" {
		cfg.APIURL = DefaultAPIURL
	}
	if cfg.GatewayURL == "" {
		cfg.GatewayURL = DefaultGatewayURL
	}
	cfg.APIURL = strings.TrimRight(cfg.APIURL, "/")
	cfg.GatewayURL = strings.TrimRight(cfg.GatewayURL, "/")

	c := &PinataClient{
		cfg:    cfg,
		client: &http.Client{Timeout: DefaultTimeout},
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = c.logger.Named("pinata")
	return c, nil
}

// pinResponse is the body returned by both pin endpoints.
type pinResponse struct {
	IpfsHash  string `json:"IpfsHash"`
	PinSize   int64  `json:"PinSize"`
	Timestamp string `json:"Timestamp"`
}

// PublishImage uploads image via pinFileToIPFS.
func (c *PinataClient) PublishImage(ctx context.Context, image domain.Image) (string, error) {
	if image.Empty() {
		return "", ErrEmptyImage
	}

	filename := image.Filename
	if filename == "" {
		filename = "image"
	}

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename="%s"`, escapeQuotes(filename)))
	header.Set("Content-Type", ImageContentType(image))
	part, err := mw.CreatePart(header)
	if err != nil {
		return "", fmt.Errorf("create multipart part: %w", err)
	}
	if _, err := part.Write(image.Data); err != nil {
		return "", fmt.Errorf("write image: %w", err)
	}

	meta, err := json.Marshal(map[string]string{"name": filename})
	if err != nil {
		return "", fmt.Errorf("marshal pinata metadata: %w", err)
	}
	if err := mw.WriteField("pinataMetadata", string(meta)); err != nil {
		return "", fmt.Errorf("write pinata metadata: %w", err)
	}
	if err := mw.Close(); err != nil {
		return "", fmt.Errorf("close multipart: %w", err)
	}

	return c.pin(ctx, "image", "/pinning/pinFileToIPFS", mw.FormDataContentType(), &body)
}

// PublishMetadata uploads doc via pinJSONToIPFS.
func (c *PinataClient) PublishMetadata(ctx context.Context, doc Metadata) (string, error) {
	payload := struct {
		PinataContent  Metadata          `json:"pinataContent"`
		PinataMetadata map[string]string `json:"pinataMetadata"`
	}{
		PinataContent:  doc,
		PinataMetadata: map[string]string{"name": doc.Symbol + ".json"},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("marshal metadata: %w", err)
	}

	return c.pin(ctx, "metadata", "/pinning/pinJSONToIPFS", "application/json", bytes.NewReader(body))
}

// pin posts one upload and converts the returned hash into a gateway URL.
func (c *PinataClient) pin(ctx context.Context, kind, path, contentType string, body io.Reader) (url string, err error) {
	start := time.Now()
	defer func() {
		observability.RecordPin(kind, time.Since(start).Seconds(), err)
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.APIURL+path, body)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("pinata_api_key", c.cfg.APIKey)
	req.Header.Set("pinata_secret_api_key", c.cfg.SecretAPIKey)
	req.Header.Set("Authorization", "Bearer "+c.cfg.JWT)

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("http request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", &APIError{StatusCode: resp.StatusCode, Body: string(respBody)}
	}

	var pr pinResponse
	if err := json.Unmarshal(respBody, &pr); err != nil {
		return "", fmt.Errorf("unmarshal response: %w", err)
	}
	if pr.IpfsHash == "" {
		return "", fmt.Errorf("pinata response missing IpfsHash")
	}

	url = c.GatewayURL(pr.IpfsHash)
	c.logger.Debug("pinned", zap.String("kind", kind), zap.String("url", url), zap.Int64("size", pr.PinSize))
	return url, nil
}

// GatewayURL returns the public URL of a content hash.
func (c *PinataClient) GatewayURL(hash string) string {
	return c.cfg.GatewayURL + "/ipfs/" + hash
}

func escapeQuotes(s string) string {
	return strings.NewReplacer("\\", "\\\\", `"`, "\\\"").Replace(s)
}
