// Package extract pulls plain text content out of episode inputs: local
// files or http(s) URLs.
package extract

import (
	"context"
	"fmt"
	"html"
	"io"
	"net/http"
	"os"
	"regexp"
	"strings"
	"time"
)

var (
	scriptStyleRe = regexp.MustCompile(`(?is)<(script|style)[^>]*>.*?</(script|style)>`)
	tagRe         = regexp.MustCompile(`(?s)<[^>]*>`)
	blankRe       = regexp.MustCompile(`\n{3,}`)
)

// Extract returns the text content of input. URLs are fetched over HTTP;
// anything else is read as a local file path. HTML responses are reduced to
// their visible text.
func Extract(ctx context.Context, input string) (string, error) {
	if strings.HasPrefix(input, "http://") || strings.HasPrefix(input, "https://") {
		return fromURL(ctx, input)
	}
	data, err := os.ReadFile(input)
	if err != nil {
		return "", fmt.Errorf("failed to read input file %s: %w", input, err)
	}
	return string(data), nil
}

func fromURL(ctx context.Context, url string) (string, error) {
	client := &http.Client{Timeout: 30 * time.Second}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("failed to build request: %w", err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to fetch %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("HTTP %d: %s", resp.StatusCode, resp.Status)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	if strings.Contains(resp.Header.Get("Content-Type"), "text/html") {
		return stripHTML(string(body)), nil
	}
	return string(body), nil
}

// stripHTML is a deliberately small reduction: drop script/style blocks,
// drop tags, unescape entities, collapse blank runs.
func stripHTML(page string) string {
	text := scriptStyleRe.ReplaceAllString(page, "")
	text = tagRe.ReplaceAllString(text, "\n")
	text = html.UnescapeString(text)

	var lines []string
	for _, line := range strings.Split(text, "\n") {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			lines = append(lines, trimmed)
		}
	}
	return blankRe.ReplaceAllString(strings.Join(lines, "\n"), "\n\n")
}
