package remote

const DefaultLimit = 10

// Pager tracks 1-indexed page, page size and the total reported by the backend.
type Pager struct {
	page  int
	limit int
	total int
}

func NewPager(limit int) *Pager {
	if limit < 1 {
		limit = DefaultLimit
	}
	return &Pager{page: 1, limit: limit}
}

func (p *Pager) Page() int  { return p.page }
func (p *Pager) Limit() int { return p.limit }
func (p *Pager) Total() int { return p.total }

func (p *Pager) SetPage(page int) {
	if page < 1 {
		page = 1
	}
	p.page = page
}

// SetLimit changes the page size and always goes back to the first page.
func (p *Pager) SetLimit(limit int) {
	if limit < 1 {
		limit = DefaultLimit
	}
	p.limit = limit
	p.page = 1
}

func (p *Pager) SetTotal(total int) {
	if total < 0 {
		total = 0
	}
	p.total = total
}

// TotalPages is ceil(total/limit), never less than 1.
func (p *Pager) TotalPages() int {
	pages := (p.total + p.limit - 1) / p.limit
	if pages < 1 {
		pages = 1
	}
	return pages
}

// Next advances one page and reports whether it moved.
func (p *Pager) Next() bool {
	if p.page >= p.TotalPages() {
		return false
	}
	p.page++
	return true
}

func (p *Pager) Prev() bool {
	if p.page <= 1 {
		return false
	}
	p.page--
	return true
}

// Range returns the 1-indexed first and last row numbers shown on the current page.
func (p *Pager) Range() (int, int) {
	if p.total == 0 {
		return 0, 0
	}
	start := (p.page-1)*p.limit + 1
	end := start + p.limit - 1
	if end > p.total {
		end = p.total
	}
	return start, end
}
