// Package pagination slices an in-memory list into fixed-size pages.
//
// Out-of-range page requests are clamped, never rejected: asking for page 0
// yields page 1 and asking past the end yields the last page. An empty list
// still has one (empty) page.
package pagination

const DefaultPerPage = 10

type Pager[T any] struct {
	items   []T
	perPage int
	current int
}

// Page is a value snapshot of a pager, shaped for API responses.
type Page[T any] struct {
	Items       []T   `json:"items"`
	CurrentPage int   `json:"current_page"`
	TotalPages  int   `json:"total_pages"`
	TotalItems  int   `json:"total_items"`
	PerPage     int   `json:"per_page"`
	HasNextPage bool  `json:"has_next_page"`
	HasPrevPage bool  `json:"has_prev_page"`
	Pages       []int `json:"pages"`
}

func New[T any](items []T, itemsPerPage int) *Pager[T] {
	if itemsPerPage <= 0 {
		itemsPerPage = DefaultPerPage
	}
	return &Pager[T]{items: items, perPage: itemsPerPage, current: 1}
}

// Paginate returns the requested page of items in one call.
func Paginate[T any](items []T, itemsPerPage, page int) Page[T] {
	p := New(items, itemsPerPage)
	p.GoToPage(page)
	return p.Page()
}

func (p *Pager[T]) CurrentPage() int { return p.current }

func (p *Pager[T]) PerPage() int { return p.perPage }

func (p *Pager[T]) TotalItems() int { return len(p.items) }

func (p *Pager[T]) TotalPages() int {
	n := (len(p.items) + p.perPage - 1) / p.perPage
	if n < 1 {
		return 1
	}
	return n
}

// Items returns the current page's slice of the underlying list.
func (p *Pager[T]) Items() []T {
	start := (p.current - 1) * p.perPage
	if start >= len(p.items) {
		return []T{}
	}
	end := start + p.perPage
	if end > len(p.items) {
		end = len(p.items)
	}
	return p.items[start:end]
}

func (p *Pager[T]) HasNextPage() bool { return p.current < p.TotalPages() }

func (p *Pager[T]) HasPrevPage() bool { return p.current > 1 }

// GoToPage moves to page n clamped into [1, TotalPages] and returns the page
// actually selected.
func (p *Pager[T]) GoToPage(n int) int {
	total := p.TotalPages()
	switch {
	case n < 1:
		n = 1
	case n > total:
		n = total
	}
	p.current = n
	return n
}

func (p *Pager[T]) NextPage() int { return p.GoToPage(p.current + 1) }

func (p *Pager[T]) PrevPage() int { return p.GoToPage(p.current - 1) }

// SetItems swaps the underlying list and restarts from the first page.
func (p *Pager[T]) SetItems(items []T) {
	p.items = items
	p.current = 1
}

func (p *Pager[T]) Page() Page[T] {
	total := p.TotalPages()
	return Page[T]{
		Items:       p.Items(),
		CurrentPage: p.current,
		TotalPages:  total,
		TotalItems:  len(p.items),
		PerPage:     p.perPage,
		HasNextPage: p.HasNextPage(),
		HasPrevPage: p.HasPrevPage(),
		Pages:       Window(p.current, total),
	}
}

const maxVisiblePages = 5

// Window returns the page numbers a pager control should render. The first and
// last pages are always present, neighbours of current are shown, and 0 marks a
// gap (ellipsis).
func Window(current, total int) []int {
	if total <= 1 {
		return []int{1}
	}
	if total <= maxVisiblePages {
		out := make([]int, 0, total)
		for i := 1; i <= total; i++ {
			out = append(out, i)
		}
		return out
	}

	out := []int{1}
	if current > 3 {
		out = append(out, 0)
	}
	lo := max(2, current-1)
	hi := min(total-1, current+1)
	for i := lo; i <= hi; i++ {
		out = append(out, i)
	}
	if current < total-2 {
		out = append(out, 0)
	}
	return append(out, total)
}
