package clause

// OnConflict is an upsert request; Oracle has no ON CONFLICT so the dialect
// rejects it rather than guess at a MERGE
type OnConflict struct {
	Columns      []Column
	OnConstraint string
	DoNothing    bool
	DoUpdates    Set
}

func (OnConflict) Name() string {
	return "ON CONFLICT"
}
