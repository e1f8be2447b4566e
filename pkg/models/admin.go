package models

// ModelInfo describes one model plugin registered with the configuration
// service. Streamed by the admin surface; never merged into the registry.
type ModelInfo struct {
	Name         string   `json:"name"`
	Version      string   `json:"version"`
	Module       string   `json:"module,omitempty"`
	SupportedIDs []string `json:"supported_ids,omitempty"`
}

// RollbackResponse reports the outcome of a rollback request. Informational
// to the caller only; rollback results are not merged into registry state.
type RollbackResponse struct {
	Message string `json:"message,omitempty"`
}

// CompactionResponse reports the outcome of a change-compaction request.
type CompactionResponse struct {
	Message string `json:"message,omitempty"`
}
