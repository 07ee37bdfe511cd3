package service

import (
	"context"
	"net/http"
	"net/url"

	"github.com/iudanet/nihongo/internal/client/api"
	pkgapi "github.com/iudanet/nihongo/pkg/api"
)

// fetchOne performs a GET and decodes a single entity.
func fetchOne[T any](ctx context.Context, c Doer, path string, query url.Values) (*T, error) {
	var out T
	if err := c.Do(ctx, api.Request{Method: http.MethodGet, Path: path, Query: query}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// fetchList performs a GET and decodes a JSON array.
func fetchList[T any](ctx context.Context, c Doer, path string, query url.Values) ([]T, error) {
	var out []T
	if err := c.Do(ctx, api.Request{Method: http.MethodGet, Path: path, Query: query}, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// send performs a POST/PUT with an optional body and decodes the returned entity.
func send[T any](ctx context.Context, c Doer, method, path string, query url.Values, body any) (*T, error) {
	var out T
	if err := c.Do(ctx, api.Request{Method: method, Path: path, Query: query, Body: body}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// remove performs a DELETE; the server answers with a message.
func remove(ctx context.Context, c Doer, path string) (*pkgapi.MessageResponse, error) {
	var out pkgapi.MessageResponse
	if err := c.Do(ctx, api.Request{Method: http.MethodDelete, Path: path}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
