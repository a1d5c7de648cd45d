// Package schema holds the request and response contracts of the HTTP API
// and converts between them and the domain models.
package schema

import "math"

// ResponseModel is the envelope of every successful response.
type ResponseModel struct {
	Code int    `json:"code"`
	Msg  string `json:"msg"`
	Data any    `json:"data"`
}

const (
	DefaultPage     = 1
	DefaultPageSize = 20
	MaxPageSize     = 200
)

// PageParams are the pagination query parameters. Zero values select the defaults.
type PageParams struct {
	Page int `query:"page" validate:"gte=0"`
	Size int `query:"size" validate:"gte=0,lte=200"`
}

// Normalize fills in the defaults.
func (p PageParams) Normalize() PageParams {
	if p.Page < 1 {
		p.Page = DefaultPage
	}
	if p.Size < 1 {
		p.Size = DefaultPageSize
	}
	if p.Size > MaxPageSize {
		p.Size = MaxPageSize
	}
	return p
}

func (p PageParams) Offset() int {
	p = p.Normalize()
	return (p.Page - 1) * p.Size
}

// Page is one page of a listing.
type Page[T any] struct {
	Items      []T `json:"items"`
	Total      int `json:"total"`
	Page       int `json:"page"`
	Size       int `json:"size"`
	TotalPages int `json:"total_pages"`
}

// NewPage builds a page. Items is never encoded as null.
func NewPage[T any](items []T, total int, p PageParams) Page[T] {
	p = p.Normalize()
	if items == nil {
		items = []T{}
	}
	return Page[T]{
		Items:      items,
		Total:      total,
		Page:       p.Page,
		Size:       p.Size,
		TotalPages: int(math.Ceil(float64(total) / float64(p.Size))),
	}
}

// linkTree attaches every node to its parent and returns the roots in input
// order. A node whose parent is not in the set becomes a root.
func linkTree[N any](nodes []*N, key func(*N) (int64, *int64), attach func(parent, child *N)) []*N {
	byID := make(map[int64]*N, len(nodes))
	for _, n := range nodes {
		id, _ := key(n)
		byID[id] = n
	}
	roots := make([]*N, 0)
	for _, n := range nodes {
		if _, pid := key(n); pid != nil {
			if p, ok := byID[*pid]; ok && p != n {
				attach(p, n)
				continue
			}
		}
		roots = append(roots, n)
	}
	return roots
}
