package handlers

// PageQuery is embedded by every list request. Zero values are filled with
// the documented defaults after binding.
type PageQuery struct {
	Page  int `form:"page" binding:"omitempty,min=1"`
	Limit int `form:"limit" binding:"omitempty,min=1"`
}

// Normalize applies the defaults: page 1, limit 10.
func (q *PageQuery) Normalize() {
	if q.Page == 0 {
		q.Page = 1
	}
	if q.Limit == 0 {
		q.Limit = 10
	}
}

// Offset converts page/limit into a row offset.
func (q PageQuery) Offset() int {
	return (q.Page - 1) * q.Limit
}
