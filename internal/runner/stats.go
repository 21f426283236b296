package runner

// Percentiles is the fixed percentile set reported per output key.
type Percentiles struct {
	P10 float64 `json:"p10"`
	P50 float64 `json:"p50"`
	P90 float64 `json:"p90"`
}

// Bin is one histogram bucket. Lo is inclusive; Hi is exclusive except for
// the last bin of a series, which closes the range.
type Bin struct {
	Label string  `json:"label"`
	Lo    float64 `json:"lo"`
	Hi    float64 `json:"hi"`
	Count int     `json:"count"`
}

// OutputStats summarizes all successful samples of one output key.
type OutputStats struct {
	Count       int         `json:"count"`
	Mean        float64     `json:"mean"`
	StdDev      float64     `json:"stddev"`
	Min         float64     `json:"min"`
	Max         float64     `json:"max"`
	Percentiles Percentiles `json:"percentiles"`
	Histogram   []Bin       `json:"histogram"`
}

// Stats is the aggregate result of one run. It is produced once and handed
// to a reporter; the engine itself never persists or formats it.
type Stats struct {
	RunID      string                 `json:"run_id"`
	Seed       uint64                 `json:"seed"`
	Iterations int                    `json:"iterations"`
	Failures   int                    `json:"failures"`
	Outputs    map[string]OutputStats `json:"outputs"`
}
