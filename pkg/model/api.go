// Package model holds the API surface types of the goshop server:
// response envelopes, stored entities, and structured API errors.
package model

import "time"

// Response is the standard API response envelope.
type Response struct {
	Status     string      `json:"status"`
	RequestID  string      `json:"request_id"`
	Timestamp  time.Time   `json:"timestamp"`
	Data       any         `json:"data"`
	Pagination *Pagination `json:"pagination,omitempty"`
	Error      *APIError   `json:"error"`
}

// Pagination holds pagination metadata for list endpoints.
type Pagination struct {
	Total   int  `json:"total"`
	Limit   int  `json:"limit"`
	Offset  int  `json:"offset"`
	HasMore bool `json:"has_more"`
}

// ListOptions configures list queries with pagination.
type ListOptions struct {
	Limit  int
	Offset int
}

// DefaultListOptions returns sensible defaults.
func DefaultListOptions() ListOptions {
	return ListOptions{Limit: 20, Offset: 0}
}

// Clamp enforces limits (max 100, min 1).
func (o *ListOptions) Clamp() {
	if o.Limit <= 0 {
		o.Limit = 20
	}
	if o.Limit > 100 {
		o.Limit = 100
	}
	if o.Offset < 0 {
		o.Offset = 0
	}
}

// StoredInstance is a persisted benchmark instance record. The matrices
// are kept in the JSON document form used by the loader.
type StoredInstance struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	NumJobs     int       `json:"num_jobs"`
	NumMachines int       `json:"num_machines"`
	NumOps      int       `json:"num_operations"`
	Document    string    `json:"document"`
	CreatedAt   time.Time `json:"created_at"`
}

// Run is a persisted solver run: one rule applied to one instance.
type Run struct {
	ID         string    `json:"id"`
	InstanceID string    `json:"instance_id"`
	Rule       string    `json:"rule"`
	Makespan   int       `json:"makespan"`
	Steps      int       `json:"steps"`
	Schedule   string    `json:"schedule"`
	CreatedAt  time.Time `json:"created_at"`
}

// ScheduleEntry is one committed operation in a run's schedule document.
type ScheduleEntry struct {
	OperationID int `json:"operation_id"`
	JobID       int `json:"job_id"`
	Position    int `json:"position"`
	MachineID   int `json:"machine_id"`
	StartTime   int `json:"start_time"`
	EndTime     int `json:"end_time"`
}
