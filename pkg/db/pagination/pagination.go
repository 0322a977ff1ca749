package pagination

// Pagination carries offset paging parameters bound from query strings.
type Pagination struct {
	Skip  int `form:"skip,default=0" validate:"gte=0"`
	Limit int `form:"limit,default=100" validate:"gte=1,lte=250"` // Min 1, Max 250
}

const (
	defaultLimit = 100
	maxLimit     = 250
)

// Normalize clamps skip/limit into their allowed ranges.
func (p Pagination) Normalize() Pagination {
	if p.Skip < 0 {
		p.Skip = 0
	}
	if p.Limit <= 0 {
		p.Limit = defaultLimit
	}
	if p.Limit > maxLimit {
		p.Limit = maxLimit
	}
	return p
}
