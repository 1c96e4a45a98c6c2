package pagination

// Pagination is bound from list-endpoint query params.
type Pagination struct {
	Page int `form:"page,default=0" validate:"gte=0"`
	Size int `form:"size,default=20" validate:"gte=0,lte=250"` // Max 250
}

// Normalize clamps the request into usable limit/offset values.
func (p Pagination) Normalize() (limit, offset int) {
	size := p.Size
	if size <= 0 {
		size = 20
	}
	if size > 250 {
		size = 250
	}
	page := p.Page
	if page < 0 {
		page = 0
	}
	return size, page * size
}
