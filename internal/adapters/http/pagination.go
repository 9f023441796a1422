package http

import (
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"
)

const (
	defaultPageLimit = 100
	maxPageLimit     = 200
)

// PaginatedResponse wraps list results with pagination metadata.
type PaginatedResponse struct {
	Data       any        `json:"data"`
	Pagination Pagination `json:"pagination"`
}

// Pagination describes an offset window over the full result set.
type Pagination struct {
	Offset int `json:"offset"`
	Limit  int `json:"limit"`
	Total  int `json:"total"`
}

// pageParams reads offset/limit from the query string, clamping to sane
// bounds.
func pageParams(c *fiber.Ctx) (offset, limit int) {
	offset = c.QueryInt("offset", 0)
	if offset < 0 {
		offset = 0
	}
	limit = c.QueryInt("limit", defaultPageLimit)
	if limit <= 0 || limit > maxPageLimit {
		limit = defaultPageLimit
	}
	return offset, limit
}

// paginate slices one page out of items and returns it with the metadata
// for the full set.
func paginate[T any](items []T, offset, limit int) ([]T, Pagination) {
	pg := Pagination{Offset: offset, Limit: limit, Total: len(items)}
	if offset >= len(items) {
		return nil, pg
	}
	end := offset + limit
	if end > len(items) {
		end = len(items)
	}
	return items[offset:end], pg
}

func pageLink(path string, offset, limit int, rel string) string {
	return fmt.Sprintf(`<%s?offset=%d&limit=%d>; rel=%q`, path, offset, limit, rel)
}

// SetLinkHeaders emits RFC 8288 Link headers (first/prev/next/last) for the
// current page.
func SetLinkHeaders(c *fiber.Ctx, p Pagination) {
	path := c.Path()
	links := []string{pageLink(path, 0, p.Limit, "first")}

	if p.Offset > 0 {
		prev := max(p.Offset-p.Limit, 0)
		links = append(links, pageLink(path, prev, p.Limit, "prev"))
	}
	if p.Offset+p.Limit < p.Total {
		links = append(links, pageLink(path, p.Offset+p.Limit, p.Limit, "next"))
	}
	links = append(links, pageLink(path, max(p.Total-p.Limit, 0), p.Limit, "last"))

	c.Set("Link", strings.Join(links, ", "))
}
