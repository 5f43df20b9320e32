package storage

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/veriluxe/certificate-registry/interfaces"
)

// GitHubBackend implements a read-only storage backend over a GitHub
// repository. Documents are expected at <dir>/<content type>/<hex id>, which
// lets a brand publish its item descriptions through ordinary commits.
type GitHubBackend struct {
	owner       string
	repo        string
	dir         string
	ref         string
	apiBase     string
	client      *http.Client
	log         *slog.Logger
	locationURI string
}

// NewGitHubBackend creates a new GitHub storage backend. An empty ref reads
// from the default branch.
func NewGitHubBackend(owner, repo, dir, ref string, log *slog.Logger) *GitHubBackend {
	dir = strings.Trim(dir, "/")
	uri := fmt.Sprintf("github://%s/%s", owner, repo)
	if dir != "" {
		uri += "/" + dir
	}
	if ref != "" {
		uri += "?ref=" + url.QueryEscape(ref)
	}

	return &GitHubBackend{
		owner:       owner,
		repo:        repo,
		dir:         dir,
		ref:         ref,
		apiBase:     "https://api.github.com",
		client:      &http.Client{Timeout: 30 * time.Second},
		log:         log,
		locationURI: uri,
	}
}

// Fetch downloads the raw file for id and checks it hashes to id.
func (b *GitHubBackend) Fetch(ctx context.Context, id interfaces.ContentID, contentType interfaces.ContentType) ([]byte, error) {
	filePath := path.Join(b.dir, contentType.String(), id.String())
	endpoint := fmt.Sprintf("%s/repos/%s/%s/contents/%s", b.apiBase, b.owner, b.repo, filePath)
	if b.ref != "" {
		endpoint += "?ref=" + url.QueryEscape(b.ref)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/vnd.github.raw+json")

	resp, err := b.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", interfaces.ErrBackendUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, interfaces.ErrContentNotFound
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("GitHub API error: %s, %s", resp.Status, string(body))
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read file content: %w", err)
	}

	if actual := interfaces.ComputeID(data); actual != id {
		b.log.Warn("Content hash mismatch",
			slog.String("expected", id.String()),
			slog.String("actual", actual.String()),
			slog.String("path", filePath))
		return nil, fmt.Errorf("content hash mismatch")
	}

	b.log.Debug("Fetched content from GitHub",
		slog.String("path", filePath),
		slog.Int("size", len(data)))

	return data, nil
}

// Store is not implemented for this read-only backend.
func (b *GitHubBackend) Store(ctx context.Context, data []byte, contentType interfaces.ContentType) (interfaces.ContentID, error) {
	return interfaces.ComputeID(data), fmt.Errorf("GitHub backend is read-only")
}

// Available checks if the repository is reachable.
func (b *GitHubBackend) Available(ctx context.Context) bool {
	endpoint := fmt.Sprintf("%s/repos/%s/%s", b.apiBase, b.owner, b.repo)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		b.log.Debug("Failed to create request", "err", err)
		return false
	}
	req.Header.Set("Accept", "application/vnd.github.v3+json")

	resp, err := b.client.Do(req)
	if err != nil {
		b.log.Debug("GitHub backend unavailable", "err", err)
		return false
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		b.log.Debug("GitHub backend unavailable", slog.String("status", resp.Status))
		return false
	}
	return true
}

// Name returns a unique identifier for this storage backend.
func (b *GitHubBackend) Name() string {
	return fmt.Sprintf("github-%s-%s", b.owner, b.repo)
}

// LocationURI returns the URI that identifies this storage backend.
func (b *GitHubBackend) LocationURI() string {
	return b.locationURI
}
