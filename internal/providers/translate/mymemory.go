package translate

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

// MyMemory calls the MyMemory public translation API.
type MyMemory struct {
	baseURL string
	email   string
	client  *http.Client
}

func NewMyMemory(baseURL string, email string, client *http.Client) *MyMemory {
	if strings.TrimSpace(baseURL) == "" {
		baseURL = "https://api.mymemory.translated.net"
	}
	if client == nil {
		client = http.DefaultClient
	}
	return &MyMemory{baseURL: strings.TrimRight(baseURL, "/"), email: email, client: client}
}

func (m *MyMemory) Name() string { return "mymemory" }

type myMemoryResponse struct {
	ResponseData struct {
		TranslatedText string `json:"translatedText"`
	} `json:"responseData"`
	// responseStatus arrives as a number on success and sometimes as a string on errors.
	ResponseStatus  json.Number `json:"responseStatus"`
	ResponseDetails string      `json:"responseDetails"`
}

func (m *MyMemory) Translate(ctx context.Context, text string, source string, target string) (string, error) {
	query := url.Values{}
	query.Set("q", text)
	query.Set("langpair", source+"|"+target)
	if m.email != "" {
		query.Set("de", m.email)
	}

	body, err := getJSON(ctx, m.client, m.baseURL+"/get?"+query.Encode())
	if err != nil {
		return "", err
	}

	var response myMemoryResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}
	if response.ResponseStatus.String() != "200" {
		detail := strings.TrimSpace(response.ResponseDetails)
		if detail == "" {
			detail = "no details"
		}
		return "", fmt.Errorf("response status %s: %s", response.ResponseStatus, detail)
	}
	return response.ResponseData.TranslatedText, nil
}

func getJSON(ctx context.Context, client *http.Client, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("unexpected HTTP status %d", resp.StatusCode)
	}
	return body, nil
}
