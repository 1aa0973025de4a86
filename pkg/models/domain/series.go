package domain

// SeriesPoint is one provider observation: epoch seconds and the JSON row.
type SeriesPoint struct {
	Timestamp int64
	Row       string
}

// Series is the fetcher output. Timestamps[i] belongs to Rows[i].
type Series struct {
	Timestamps []int64
	Rows       []string
}

func (s Series) Len() int {
	return len(s.Timestamps)
}

func (s Series) Points() []SeriesPoint {
	points := make([]SeriesPoint, 0, len(s.Timestamps))
	for i, ts := range s.Timestamps {
		points = append(points, SeriesPoint{Timestamp: ts, Row: s.Rows[i]})
	}
	return points
}

// Observation is the per-row record written into Series.Rows.
// Nil fields were empty in the provider response.
type Observation struct {
	Open     *float64 `json:"Open"`
	High     *float64 `json:"High"`
	Low      *float64 `json:"Low"`
	Close    *float64 `json:"Close"`
	AdjClose *float64 `json:"Adj Close"`
	Volume   *int64   `json:"Volume"`
}

func (o Observation) Empty() bool {
	return o.Open == nil && o.High == nil && o.Low == nil && o.Close == nil && o.AdjClose == nil
}
