// Package imagehost uploads listing photos to the Cloudflare Images API and
// derives their public delivery URLs.
package imagehost

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"
)

// ErrUpload covers transport and decoding failures where the provider gave
// no usable answer.
var ErrUpload = errors.New("Oops! Something went wrong.")

// UploadError carries a provider-reported message, surfaced to the submitter
// verbatim.
type UploadError struct {
	Message string
}

func (e *UploadError) Error() string {
	return e.Message
}

// UploadedImage is a hosted photo: the provider id, the public delivery URL
// templated from it, and the original filename as alt text.
type UploadedImage struct {
	ID  string
	URL string
	Alt string
}

type Client struct {
	uploadURL    string
	apiToken     string
	deliveryBase string
	httpClient   *http.Client
}

// NewClient builds a client for one Cloudflare account. deliveryHost is the
// image delivery hostname and accountHash the account segment of delivery
// URLs.
func NewClient(accountID, apiToken, deliveryHost, accountHash string) *Client {
	return &Client{
		uploadURL:    fmt.Sprintf("https://api.cloudflare.com/client/v4/accounts/%s/images/v1", accountID),
		apiToken:     apiToken,
		deliveryBase: fmt.Sprintf("https://%s/%s", deliveryHost, accountHash),
		httpClient:   &http.Client{Timeout: 30 * time.Second},
	}
}

// WithUploadURL overrides the upload endpoint. Used in tests.
func (c *Client) WithUploadURL(uploadURL string) *Client {
	c.uploadURL = uploadURL
	return c
}

type uploadResponse struct {
	Errors []struct {
		Message string `json:"message"`
	} `json:"errors"`
	Result struct {
		ID string `json:"id"`
	} `json:"result"`
}

// Upload posts the file bytes as a multipart form and returns the hosted
// image. A single attempt, no retries.
func (c *Client) Upload(ctx context.Context, filename string, file io.Reader) (*UploadedImage, error) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpload, err)
	}
	if _, err := io.Copy(part, file); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpload, err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpload, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.uploadURL, &body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpload, err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiToken)
	req.Header.Set("Content-Type", writer.FormDataContentType())

	res, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpload, err)
	}
	defer res.Body.Close()

	var data uploadResponse
	if err := json.NewDecoder(res.Body).Decode(&data); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpload, err)
	}

	if len(data.Errors) > 0 {
		return nil, &UploadError{Message: data.Errors[0].Message}
	}
	if data.Result.ID == "" {
		return nil, ErrUpload
	}

	return &UploadedImage{
		ID:  data.Result.ID,
		URL: fmt.Sprintf("%s/%s/public", c.deliveryBase, data.Result.ID),
		Alt: filename,
	}, nil
}
