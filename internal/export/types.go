package export

// Event is one library entry laid out on the playlist timeline.
type Event struct {
	ID       int64
	Name     string
	Source   string
	Duration int // seconds
}

type Request struct {
	Title     string  `json:"title"`
	FrameRate float64 `json:"frame_rate"`
	OutputDir string  `json:"output_dir"`
}

type Response struct {
	Status     string  `json:"status"`
	Format     string  `json:"format"`
	OutputPath string  `json:"output_path"`
	EventCount int     `json:"event_count"`
	Skipped    []int64 `json:"skipped"`
}
