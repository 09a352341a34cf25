package repository

// DefaultPageSize is used when a pagination call passes a page size of zero
// or less.
const DefaultPageSize = 10

// PageResult is one page of entities plus the numbers a paginator view needs.
// Page and Pages are 1-based; an empty result set still reports one (empty)
// page.
type PageResult[T any] struct {
	Page     int
	Pages    int
	Total    int64
	PageSize int
	Entities []T
}

// paginateSlice cuts one page out of an already sorted slice, clamping page
// and pageSize into their valid ranges.
func paginateSlice[T any](items []T, page, pageSize int) *PageResult[T] {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	total := len(items)
	pages := (total + pageSize - 1) / pageSize
	if pages == 0 {
		pages = 1
	}
	if page < 1 {
		page = 1
	}
	if page > pages {
		page = pages
	}

	start := (page - 1) * pageSize
	end := start + pageSize
	if start > total {
		start = total
	}
	if end > total {
		end = total
	}

	return &PageResult[T]{
		Page:     page,
		Pages:    pages,
		Total:    int64(total),
		PageSize: pageSize,
		Entities: items[start:end],
	}
}
