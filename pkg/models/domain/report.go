package domain

// Report is an immutable stored report. ID only orders rows; UUID is the public identity.
type Report struct {
	ID         int64
	UUID       string
	Stock      string
	Start      string
	End        string
	Data       string
	ModifiedAt int64
}
