package storage

import "time"

// Batch is one invocation of the verification pipeline.
type Batch struct {
	ID          int        `json:"id"`
	Status      string     `json:"status"` // "running", "completed"
	ResultsFile string     `json:"results_file"`
	TotalJobs   int        `json:"total_jobs"`
	Succeeded   int        `json:"succeeded"`
	Failed      int        `json:"failed"`
	StartedAt   time.Time  `json:"started_at"`
	FinishedAt  *time.Time `json:"finished_at,omitempty"`
	Duration    *string    `json:"duration,omitempty"`
}

// Result is the terminal verdict recorded for one run within a batch.
type Result struct {
	ID         int       `json:"id"`
	BatchID    int       `json:"batch_id"`
	Tool       string    `json:"tool"`
	Model      string    `json:"model"`
	Layer      string    `json:"layer"`
	Conversion string    `json:"conversion"`
	App        string    `json:"app"`
	RunIndex   int       `json:"run_index"`
	RunDir     string    `json:"run_dir"`
	Symbol     string    `json:"symbol"`
	Error      string    `json:"error,omitempty"` // failure classification
	Duration   string    `json:"duration,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}
