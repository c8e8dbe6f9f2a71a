package monitor

import "time"

// Status is the last observed state of the tracker's backing services.
type Status struct {
	TaskStore  bool      `json:"task_store"`
	Cache      bool      `json:"cache"`
	Buffer     bool      `json:"buffer"`
	BufferSize int       `json:"buffer_size"`
	LastCheck  time.Time `json:"last_check"`
}
