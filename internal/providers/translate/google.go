package translate

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

// GoogleFree calls the keyless "gtx" endpoint of Google Translate.
type GoogleFree struct {
	baseURL string
	client  *http.Client
}

func NewGoogleFree(baseURL string, client *http.Client) *GoogleFree {
	if strings.TrimSpace(baseURL) == "" {
		baseURL = "https://translate.googleapis.com"
	}
	if client == nil {
		client = http.DefaultClient
	}
	return &GoogleFree{baseURL: strings.TrimRight(baseURL, "/"), client: client}
}

func (g *GoogleFree) Name() string { return "google" }

func (g *GoogleFree) Translate(ctx context.Context, text string, source string, target string) (string, error) {
	query := url.Values{}
	query.Set("client", "gtx")
	query.Set("sl", source)
	query.Set("tl", target)
	query.Set("dt", "t")
	query.Set("q", text)

	body, err := getJSON(ctx, g.client, g.baseURL+"/translate_a/single?"+query.Encode())
	if err != nil {
		return "", err
	}
	return parseGoogleSegments(body)
}

// parseGoogleSegments concatenates data[0][i][0] from the array-of-arrays
// response. Entries whose first element is not a string are skipped.
func parseGoogleSegments(body []byte) (string, error) {
	var data []json.RawMessage
	if err := json.Unmarshal(body, &data); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}
	if len(data) == 0 {
		return "", errors.New("empty response")
	}

	var segments []json.RawMessage
	if err := json.Unmarshal(data[0], &segments); err != nil || len(segments) == 0 {
		return "", errors.New("response has no translated segments")
	}

	var out strings.Builder
	for _, raw := range segments {
		var parts []json.RawMessage
		if err := json.Unmarshal(raw, &parts); err != nil || len(parts) == 0 {
			continue
		}
		var piece string
		if err := json.Unmarshal(parts[0], &piece); err != nil {
			continue
		}
		out.WriteString(piece)
	}
	return out.String(), nil
}
