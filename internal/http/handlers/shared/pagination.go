package shared

const (
	// DefaultPageSize 列表接口默认每页条数。
	DefaultPageSize = 20
	// MaxPageSize 列表接口每页条数上限。
	MaxPageSize = 100
)

// NormalizePagination 归一化分页参数。
func NormalizePagination(page, pageSize int) (int, int) {
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	if pageSize > MaxPageSize {
		pageSize = MaxPageSize
	}
	return page, pageSize
}
