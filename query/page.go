package query

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Page is one page of a resource listing.
type Page[T any] struct {
	Items       []T
	TotalCount  int
	CurrentPage int
	PerPage     int
	LastPage    int
}

type pageMeta struct {
	CurrentPage int `json:"current_page"`
	PerPage     int `json:"per_page"`
	LastPage    int `json:"last_page"`
	Total       int `json:"total"`
}

type pageEnvelope struct {
	Data json.RawMessage `json:"data"`
	Meta *pageMeta       `json:"meta"`
	pageMeta
}

// DecodePage reads the paginated shapes the API uses: data with a meta block, data with
// flat paginator fields, a paginator wrapped in data, or a bare array.
func DecodePage[T any](raw []byte) (Page[T], error) {
	return decodePage[T](bytes.TrimSpace(raw), 0)
}

func decodePage[T any](raw []byte, depth int) (Page[T], error) {
	var page Page[T]
	if len(raw) == 0 {
		return page, fmt.Errorf("decode page: empty body")
	}
	if raw[0] == '[' {
		if err := json.Unmarshal(raw, &page.Items); err != nil {
			return page, fmt.Errorf("decode page items: %w", err)
		}
		fillDefaults(&page, pageMeta{})
		return page, nil
	}

	var env pageEnvelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return page, fmt.Errorf("decode page: %w", err)
	}
	data := bytes.TrimSpace(env.Data)
	if len(data) > 0 && data[0] == '{' && depth == 0 {
		return decodePage[T](data, depth+1)
	}
	if len(data) == 0 || data[0] != '[' {
		return page, fmt.Errorf("decode page: no item list")
	}
	if err := json.Unmarshal(data, &page.Items); err != nil {
		return page, fmt.Errorf("decode page items: %w", err)
	}
	meta := env.pageMeta
	if env.Meta != nil {
		meta = *env.Meta
	}
	fillDefaults(&page, meta)
	return page, nil
}

func fillDefaults[T any](page *Page[T], meta pageMeta) {
	if page.Items == nil {
		page.Items = []T{}
	}
	page.TotalCount = meta.Total
	page.CurrentPage = meta.CurrentPage
	page.PerPage = meta.PerPage
	page.LastPage = meta.LastPage
	if page.TotalCount == 0 {
		page.TotalCount = len(page.Items)
	}
	if page.CurrentPage == 0 {
		page.CurrentPage = 1
	}
	if page.PerPage == 0 {
		page.PerPage = len(page.Items)
	}
	if page.LastPage == 0 {
		page.LastPage = 1
	}
}

// decodeItem unwraps {"data": {...}} when present.
func decodeItem[T any](raw []byte) (T, error) {
	var item T
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return item, nil
	}
	var env struct {
		Data json.RawMessage `json:"data"`
	}
	if raw[0] == '{' && json.Unmarshal(raw, &env) == nil {
		if data := bytes.TrimSpace(env.Data); len(data) > 0 && data[0] == '{' {
			raw = data
		}
	}
	if err := json.Unmarshal(raw, &item); err != nil {
		return item, fmt.Errorf("decode item: %w", err)
	}
	return item, nil
}
