package logging

// LogEntry represents a structured log record with fields particularly relevant to oracle-backed search
type LogEntry struct {
	// Standard fields
	Time     int64
	Severity Severity
	Message  string
	File     string
	Line     int
	Function string

	// Oracle-specific fields
	BackendID string    // The oracle backend being used
	ShotInfo  *ShotInfo // Shot usage information
	Latency   int64     // Operation duration in milliseconds

	// General structured data
	Fields map[string]interface{}
}

// ShotInfo tracks shot usage for cost and performance monitoring.
// Every oracle task consumes shots; their running total is the dominant
// real-world cost of a search run.
type ShotInfo struct {
	Shots      int // Shots consumed by this task
	Tasks      int // Oracle tasks submitted so far
	TotalShots int // Cumulative shots across all tasks
}
