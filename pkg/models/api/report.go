package api

type CreateReportRequest struct {
	Stock string `json:"stock"`
	Start string `json:"start"`
	End   string `json:"end"`
}

type Report struct {
	ID         int64  `json:"id"`
	UUID       string `json:"uuid"`
	Stock      string `json:"stock"`
	Start      string `json:"start"`
	End        string `json:"end"`
	Data       string `json:"data"`
	ModifiedAt int64  `json:"modified_at"`
}

type Error struct {
	Detail string `json:"detail"`
}
