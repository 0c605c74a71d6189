package domain

// HandleError records why a single creator handle failed to sync
type HandleError struct {
	Handle string `json:"handle"`
	Error  string `json:"error"`
}

// SyncResult represents the outcome of a creator sync batch
type SyncResult struct {
	Success    bool          `json:"success"`
	Synced     int           `json:"synced"`
	ErrorCount int           `json:"errors"`
	Details    []HandleError `json:"details"`
	Duration   float64       `json:"duration_seconds"`
}

// NewSyncResult creates an empty result with a non-nil details list
func NewSyncResult() *SyncResult {
	return &SyncResult{Details: []HandleError{}}
}

// RecordSuccess counts a handle that synced
func (r *SyncResult) RecordSuccess() {
	r.Synced++
}

// RecordError counts a handle that failed without stopping the batch
func (r *SyncResult) RecordError(handle string, err error) {
	r.ErrorCount++
	r.Details = append(r.Details, HandleError{Handle: handle, Error: err.Error()})
}
