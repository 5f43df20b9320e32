package metadatahandler

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/veriluxe/certificate-registry/api"
	"github.com/veriluxe/certificate-registry/interfaces"
)

// Client uploads and downloads metadata documents through a registry server.
type Client struct {
	baseURL string
	client  *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		client:  &http.Client{Timeout: 60 * time.Second},
	}
}

// Store uploads data and returns the content ID the server recorded it under.
// The ID is checked against the local hash of data.
func (c *Client) Store(ctx context.Context, data []byte, contentType interfaces.ContentType) (interfaces.ContentID, error) {
	endpoint := fmt.Sprintf("%s/api/metadata?type=%s", c.baseURL, url.QueryEscape(contentType.String()))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(data))
	if err != nil {
		return interfaces.ContentID{}, fmt.Errorf("could not initialize request: %w", err)
	}
	req.Header.Set("Content-Type", "application/octet-stream")

	resp, err := c.client.Do(req)
	if err != nil {
		return interfaces.ContentID{}, fmt.Errorf("could not upload document: %w", err)
	}
	defer resp.Body.Close()

	stored, err := api.DecodeResponse[api.MetadataResponse](resp)
	if err != nil {
		return interfaces.ContentID{}, err
	}

	id, err := interfaces.NewContentIDFromHex(stored.ContentID)
	if err != nil {
		return interfaces.ContentID{}, fmt.Errorf("server returned malformed content id: %w", err)
	}
	if expected := interfaces.ComputeID(data); id != expected {
		return interfaces.ContentID{}, fmt.Errorf("server recorded %s, expected %s", id, expected)
	}
	return id, nil
}

// Fetch downloads the document stored under id and checks its hash.
func (c *Client) Fetch(ctx context.Context, id interfaces.ContentID, contentType interfaces.ContentType) ([]byte, error) {
	endpoint := fmt.Sprintf("%s/api/metadata/%s?type=%s", c.baseURL, id.String(), url.QueryEscape(contentType.String()))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("could not initialize request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("could not fetch document: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		_, err := api.DecodeResponse[any](resp)
		if err == nil {
			err = fmt.Errorf("unexpected status %s", resp.Status)
		}
		return nil, err
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("could not read document: %w", err)
	}
	if interfaces.ComputeID(data) != id {
		return nil, fmt.Errorf("document does not match content id %s", id)
	}
	return data, nil
}
