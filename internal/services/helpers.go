package services

import (
	"context"
	"encoding/json"
	"math"
	"strings"

	"gorm.io/datatypes"
)

const (
	defaultPageSize = 10
	maxPageSize     = 100
)

func ensureContext(ctx context.Context) context.Context {
	if ctx != nil {
		return ctx
	}
	return context.Background()
}

func defaultIfEmpty(value, fallback string) string {
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	return value
}

// normalisePage clamps 1-based pagination and returns the row offset. Pages
// too far out for the offset to fit in an int get the largest representable
// offset, which is past every row.
func normalisePage(page, perPage, fallback int) (int, int, int) {
	if fallback <= 0 || fallback > maxPageSize {
		fallback = defaultPageSize
	}
	if page < 1 {
		page = 1
	}
	if perPage <= 0 {
		perPage = fallback
	}
	if perPage > maxPageSize {
		perPage = maxPageSize
	}
	if lastPage := math.MaxInt / perPage; page-1 >= lastPage {
		return page, perPage, lastPage * perPage
	}
	return page, perPage, (page - 1) * perPage
}

func encodeJSON(data map[string]any) (datatypes.JSON, error) {
	if data == nil {
		return nil, nil
	}
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}
	return datatypes.JSON(raw), nil
}

func decodeJSON(data datatypes.JSON) map[string]any {
	if len(data) == 0 {
		return nil
	}
	var out map[string]any
	if err := json.Unmarshal(data, &out); err != nil {
		return nil
	}
	return out
}
