package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strconv"
)

// MaxPerPage is the largest page size the API accepts.
const MaxPerPage = 100

// ListOptions selects one page of a list endpoint. Zero values leave the
// server defaults (page 1, 20 per page).
type ListOptions struct {
	Page    int
	PerPage int
}

func (o ListOptions) values() url.Values {
	q := url.Values{}
	if o.Page > 0 {
		q.Set("page", strconv.Itoa(o.Page))
	}
	if o.PerPage > 0 {
		per := o.PerPage
		if per > MaxPerPage {
			per = MaxPerPage
		}
		q.Set("per_page", strconv.Itoa(per))
	}
	return q
}

// Page is one page of a list endpoint. TotalCount and TotalPages are nil
// when the server did not report them.
type Page[T any] struct {
	Items      []T
	TotalCount *int
	TotalPages *int
}

// decodeList accepts both list shapes: a bare array, or an object with a
// "list" array (search endpoints call it "items") and an optional
// "total_count".
func decodeList[T any](body []byte) ([]T, *int, error) {
	var items []T
	arrErr := json.Unmarshal(body, &items)
	if arrErr == nil {
		return items, nil, nil
	}

	var wrapped struct {
		List       json.RawMessage `json:"list"`
		Items      json.RawMessage `json:"items"`
		TotalCount *int            `json:"total_count"`
	}
	if err := json.Unmarshal(body, &wrapped); err != nil {
		return nil, nil, errors.Join(arrErr, err)
	}
	raw := wrapped.List
	if raw == nil {
		raw = wrapped.Items
	}
	if raw == nil {
		return nil, nil, errors.Join(arrErr, errors.New(`object has no "list" field`))
	}
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, nil, err
	}
	return items, wrapped.TotalCount, nil
}

func headerInt(h http.Header, key string) *int {
	v := h.Get(key)
	if v == "" {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return nil
	}
	return &n
}

// getList fetches one page from path. Totals from the body win over the
// total_count / total_page response headers.
func getList[T any](ctx context.Context, c *Client, path string, q url.Values) (Page[T], error) {
	resp, err := c.Do(ctx, Request{Method: http.MethodGet, Path: path, Query: q})
	if err != nil {
		return Page[T]{}, err
	}

	items, total, err := decodeList[T](resp.Body)
	if err != nil {
		return Page[T]{}, &DecodeError{Path: path, Err: err}
	}
	if total == nil {
		total = headerInt(resp.Header, "total_count")
	}
	return Page[T]{
		Items:      items,
		TotalCount: total,
		TotalPages: headerInt(resp.Header, "total_page"),
	}, nil
}
