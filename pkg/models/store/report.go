package store

// Report mirrors one row of the reports table.
type Report struct {
	ID         int64
	UUID       string
	Stock      string
	Start      string
	End        string
	Data       string
	ModifiedAt int64
}
