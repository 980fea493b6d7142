package models

// SortOrder is one `sort=property,dir` clause of a page request.
type SortOrder struct {
	Property   string
	Descending bool
}

// Pageable describes a zero-based page request.
type Pageable struct {
	Page int
	Size int
	Sort []SortOrder
}

// Offset returns the number of rows preceding the requested page.
func (p Pageable) Offset() int {
	return p.Page * p.Size
}

// Page is one slice of a larger ordered result.
type Page[T any] struct {
	Content       []T
	Pageable      Pageable
	TotalElements int64
}

// TotalPages returns the number of pages needed for TotalElements.
func (p *Page[T]) TotalPages() int {
	if p.Pageable.Size <= 0 {
		return 1
	}
	return int((p.TotalElements + int64(p.Pageable.Size) - 1) / int64(p.Pageable.Size))
}

// MapPage converts the content of a page while keeping its paging metadata.
func MapPage[T, U any](p *Page[T], fn func(T) U) *Page[U] {
	out := &Page[U]{
		Content:       make([]U, 0, len(p.Content)),
		Pageable:      p.Pageable,
		TotalElements: p.TotalElements,
	}
	for _, item := range p.Content {
		out.Content = append(out.Content, fn(item))
	}
	return out
}
