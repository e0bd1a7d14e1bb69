package models

// PageParams carries skip/take pagination for admin list endpoints.
// Limit is clamped so a bad query cannot drag the whole table back.
type PageParams struct {
	Limit  int `form:"limit" json:"limit"`
	Offset int `form:"offset" json:"offset"`
}

const (
	defaultPageLimit = 25
	maxPageLimit     = 200
)

func (p *PageParams) Normalize() {
	if p.Limit <= 0 {
		p.Limit = defaultPageLimit
	}
	if p.Limit > maxPageLimit {
		p.Limit = maxPageLimit
	}
	if p.Offset < 0 {
		p.Offset = 0
	}
}

// PageInfo is the list-envelope metadata returned alongside rows.
type PageInfo struct {
	Total  int64 `json:"total"`
	Limit  int   `json:"limit"`
	Offset int   `json:"offset"`
}
