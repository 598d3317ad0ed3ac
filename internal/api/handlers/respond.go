package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"
)

// pageResponse is the envelope paged list endpoints respond with.
type pageResponse struct {
	Items      interface{} `json:"items"`
	TotalPages int         `json:"totalPages"`
	TotalCount int         `json:"totalCount"`
}

func writeJSON(w http.ResponseWriter, statusCode int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("Failed to encode response: %v", err)
	}
}

func writePage(w http.ResponseWriter, items interface{}, total, pageSize int) {
	totalPages := 0
	if pageSize > 0 {
		totalPages = (total + pageSize - 1) / pageSize
	}
	writeJSON(w, http.StatusOK, pageResponse{
		Items:      items,
		TotalPages: totalPages,
		TotalCount: total,
	})
}

// parsePage reads pageNumber/pageSize query parameters, clamping to
// sane bounds. Returns the page number, page size, and the derived
// limit/offset pair.
func parsePage(r *http.Request, defaultSize int) (page, size, limit, offset int) {
	page = queryInt(r, "pageNumber", 1)
	if page < 1 {
		page = 1
	}
	size = queryInt(r, "pageSize", defaultSize)
	if size < 1 {
		size = defaultSize
	}
	if size > 100 {
		size = 100
	}
	return page, size, size, (page - 1) * size
}

func queryInt(r *http.Request, key string, fallback int) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return n
}
