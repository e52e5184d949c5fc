package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
)

const contentTypeJSON = "application/json"

func encodeJSON(v any) ([]byte, error) {
	if v == nil {
		return nil, nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}
	return b, nil
}

func decodeJSON(body []byte, out any) error {
	if out == nil || len(bytes.TrimSpace(body)) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// GetJSON sends a GET with the given query and decodes the body into out.
func (g *Gateway) GetJSON(ctx context.Context, path string, query url.Values, out any) error {
	resp, err := g.Do(ctx, &Request{Method: http.MethodGet, Path: path, Query: query})
	if err != nil {
		return err
	}
	return decodeJSON(resp.Body, out)
}

// SendJSON sends in as a JSON body and decodes the response into out.
// Either may be nil.
func (g *Gateway) SendJSON(ctx context.Context, method, path string, in, out any) error {
	body, err := encodeJSON(in)
	if err != nil {
		return err
	}
	req := &Request{Method: method, Path: path, Body: body}
	if body != nil {
		req.ContentType = contentTypeJSON
	}

	resp, err := g.Do(ctx, req)
	if err != nil {
		return err
	}
	return decodeJSON(resp.Body, out)
}

func (g *Gateway) PostJSON(ctx context.Context, path string, in, out any) error {
	return g.SendJSON(ctx, http.MethodPost, path, in, out)
}

func (g *Gateway) PatchJSON(ctx context.Context, path string, in, out any) error {
	return g.SendJSON(ctx, http.MethodPatch, path, in, out)
}

func (g *Gateway) Delete(ctx context.Context, path string, out any) error {
	return g.SendJSON(ctx, http.MethodDelete, path, nil, out)
}

// PostMultipart uploads the content of r as the file field of a
// multipart/form-data body.
func (g *Gateway) PostMultipart(ctx context.Context, path, field, filename string, r io.Reader, out any) error {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	part, err := mw.CreateFormFile(field, filename)
	if err != nil {
		return fmt.Errorf("create form file: %w", err)
	}
	if _, err := io.Copy(part, r); err != nil {
		return fmt.Errorf("read upload: %w", err)
	}
	if err := mw.Close(); err != nil {
		return fmt.Errorf("close multipart body: %w", err)
	}

	resp, err := g.Do(ctx, &Request{
		Method:      http.MethodPost,
		Path:        path,
		Body:        buf.Bytes(),
		ContentType: mw.FormDataContentType(),
	})
	if err != nil {
		return err
	}
	return decodeJSON(resp.Body, out)
}
