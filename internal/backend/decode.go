package backend

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"Thrive/internal/core/paging"
)

// The platform API answers the same logical list in several shapes depending
// on endpoint age: a bare JSON array, an {items, totalPages, totalCount}
// envelope, a named collection field ({"posts": [...]}), or any of those
// wrapped once more under "data". decodePage normalizes all of them to one
// canonical (items, paging.Info) pair so no call site ever branches on shape.
func decodePage[T any](raw []byte) ([]T, paging.Info, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return nil, paging.Info{}, fmt.Errorf("empty response body")
	}

	// Legacy endpoints: bare array, no totals.
	if raw[0] == '[' {
		var items []T
		if err := json.Unmarshal(raw, &items); err != nil {
			return nil, paging.Info{}, fmt.Errorf("failed to decode list: %w", err)
		}
		return items, paging.Info{}, nil
	}

	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return nil, paging.Info{}, fmt.Errorf("failed to decode list envelope: %w", err)
	}

	// Wrapped envelope: unwrap "data" once and retry.
	if inner, ok := envelope["data"]; ok && len(inner) > 0 && inner[0] == '{' {
		return decodePage[T](inner)
	}

	itemsRaw, ok := findItems(envelope)
	if !ok {
		return nil, paging.Info{}, fmt.Errorf("no list field found in response envelope")
	}

	var items []T
	if err := json.Unmarshal(itemsRaw, &items); err != nil {
		return nil, paging.Info{}, fmt.Errorf("failed to decode list items: %w", err)
	}

	return items, decodeTotals(envelope), nil
}

// findItems locates the envelope field carrying the list. "items" wins when
// present; otherwise the envelope must contain exactly one array-valued
// field (e.g. "posts", "Comments") to be unambiguous.
func findItems(envelope map[string]json.RawMessage) (json.RawMessage, bool) {
	for key, value := range envelope {
		if strings.EqualFold(key, "items") && isArray(value) {
			return value, true
		}
	}

	var found json.RawMessage
	count := 0
	for _, value := range envelope {
		if isArray(value) {
			found = value
			count++
		}
	}
	if count == 1 {
		return found, true
	}
	return nil, false
}

func isArray(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) > 0 && trimmed[0] == '['
}

// decodeTotals extracts pagination totals from an envelope, tolerating the
// field spellings in circulation. Absent totals leave HasTotals false and
// the caller falls back to the page-size heuristic.
func decodeTotals(envelope map[string]json.RawMessage) paging.Info {
	info := paging.Info{}
	for key, value := range envelope {
		switch {
		case equalsAny(key, "totalPages", "total_pages"):
			if n, ok := decodeInt(value); ok {
				info.TotalPages = n
				info.HasTotals = true
			}
		case equalsAny(key, "totalCount", "total_count", "totalItems"):
			if n, ok := decodeInt(value); ok {
				info.TotalCount = n
			}
		}
	}
	return info
}

func equalsAny(key string, candidates ...string) bool {
	for _, c := range candidates {
		if strings.EqualFold(key, c) {
			return true
		}
	}
	return false
}

func decodeInt(raw json.RawMessage) (int, bool) {
	var n int
	if err := json.Unmarshal(raw, &n); err != nil {
		return 0, false
	}
	return n, true
}
