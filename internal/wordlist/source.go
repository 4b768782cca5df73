package wordlist

import (
	"context"
	"fmt"
	"net/http"
	"path/filepath"
	"strings"
	"time"
)

// File names for the two word list slots.
const (
	DefaultListFile  = "top-1000.txt"
	ExpandedListFile = "common.txt"
)

// Source provides raw word tokens for the default or expanded list.
type Source interface {
	Fetch(ctx context.Context, expanded bool) ([]string, error)
}

// ListFile returns the file name backing a slot.
func ListFile(expanded bool) string {
	if expanded {
		return ExpandedListFile
	}
	return DefaultListFile
}

// FileSource reads word lists from a directory.
type FileSource struct {
	Dir string
}

// Fetch implements Source.
func (s FileSource) Fetch(ctx context.Context, expanded bool) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	path := filepath.Join(s.Dir, ListFile(expanded))
	words, err := LoadWords(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", path, err)
	}
	return words, nil
}

// HTTPSource fetches word lists from a base URL.
type HTTPSource struct {
	BaseURL string
	Client  *http.Client
}

// Fetch implements Source.
func (s HTTPSource) Fetch(ctx context.Context, expanded bool) ([]string, error) {
	url := strings.TrimRight(s.BaseURL, "/") + "/" + ListFile(expanded)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("User-Agent", "monkeydo")
	client := s.Client
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", url, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status fetching %s: %s", url, resp.Status)
	}
	words, err := ReadWords(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", url, err)
	}
	return words, nil
}
