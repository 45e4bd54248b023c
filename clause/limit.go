package clause

// Limit represents a limit clause; a nil Limit with a positive Offset skips
// rows without bounding the result
type Limit struct {
	Limit  *int
	Offset int
}

// Name returns the name of the clause ("LIMIT")
func (limit Limit) Name() string {
	return "LIMIT"
}

// IsZero reports whether the clause neither bounds nor skips rows
func (limit Limit) IsZero() bool {
	return (limit.Limit == nil || *limit.Limit < 0) && limit.Offset <= 0
}

// LimitOf returns a Limit of n rows after skipping offset rows
func LimitOf(n, offset int) Limit {
	return Limit{Limit: &n, Offset: offset}
}
