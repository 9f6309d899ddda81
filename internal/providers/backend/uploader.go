// Package backend posts recorded audio to the translation server.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"

	"voxbridge/internal/domain"
)

// Uploader implements ports.AudioUploader with multipart POSTs.
type Uploader struct {
	url    string
	client *http.Client
}

func NewUploader(url string, client *http.Client) *Uploader {
	if client == nil {
		client = http.DefaultClient
	}
	return &Uploader{url: url, client: client}
}

// uploadResponse accepts both the Portuguese and English translated field names.
type uploadResponse struct {
	Original   string `json:"original"`
	Translated string `json:"translated"`
	Traduzido  string `json:"traduzido"`
	IsPartial  bool   `json:"is_partial"`
	Error      string `json:"error"`
}

func (u *Uploader) Upload(ctx context.Context, clip domain.AudioClip) (domain.UploadResult, error) {
	if len(clip.Data) == 0 {
		return domain.UploadResult{}, errors.New("empty audio clip")
	}

	body, contentType, err := encodeClip(clip)
	if err != nil {
		return domain.UploadResult{}, fmt.Errorf("failed to build multipart body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u.url, body)
	if err != nil {
		return domain.UploadResult{}, fmt.Errorf("failed to build upload request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", "application/json")

	resp, err := u.client.Do(req)
	if err != nil {
		return domain.UploadResult{}, fmt.Errorf("upload failed: %w", err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return domain.UploadResult{}, fmt.Errorf("failed to read upload response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return domain.UploadResult{}, fmt.Errorf("upload rejected with HTTP status %d", resp.StatusCode)
	}

	var decoded uploadResponse
	if err := json.Unmarshal(payload, &decoded); err != nil {
		return domain.UploadResult{}, fmt.Errorf("failed to decode upload response: %w", err)
	}
	if msg := strings.TrimSpace(decoded.Error); msg != "" {
		return domain.UploadResult{}, fmt.Errorf("backend error: %s", msg)
	}

	translated := decoded.Translated
	if translated == "" {
		translated = decoded.Traduzido
	}
	return domain.UploadResult{
		Original:   strings.TrimSpace(decoded.Original),
		Translated: strings.TrimSpace(translated),
		Partial:    decoded.IsPartial,
	}, nil
}

func encodeClip(clip domain.AudioClip) (io.Reader, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	fileName := clip.FileName
	if fileName == "" {
		fileName = "audio.wav"
	}
	contentType := clip.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="audio"; filename=%q`, fileName))
	header.Set("Content-Type", contentType)
	part, err := w.CreatePart(header)
	if err != nil {
		return nil, "", err
	}
	if _, err := part.Write(clip.Data); err != nil {
		return nil, "", err
	}
	if err := w.WriteField("source_lang", clip.Languages.Source); err != nil {
		return nil, "", err
	}
	if err := w.WriteField("target_lang", clip.Languages.Target); err != nil {
		return nil, "", err
	}
	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return &buf, w.FormDataContentType(), nil
}
