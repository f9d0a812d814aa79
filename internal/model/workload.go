package model

import "time"

// ActiveRequest is one user request from sys.dm_exec_requests joined with
// its statement text. SQLText is nil when the text is no longer cached.
type ActiveRequest struct {
	SessionID int64     `db:"session_id" json:"session_id"`
	Status    string    `db:"status" json:"status"`
	Command   string    `db:"command" json:"command"`
	StartTime time.Time `db:"start_time" json:"start_time"`
	CPUTimeMS int64     `db:"cpu_time" json:"cpu_time_ms"`
	ElapsedMS int64     `db:"total_elapsed_time" json:"elapsed_ms"`
	SQLText   *string   `db:"sql_text" json:"sql_text,omitempty"`
}

// MemoryGrant is a session whose granted workspace memory is below what it
// requested, from sys.dm_exec_query_memory_grants.
type MemoryGrant struct {
	SessionID   int64 `db:"session_id" json:"session_id"`
	RequestedKB int64 `db:"requested_memory_kb" json:"requested_memory_kb"`
	GrantedKB   int64 `db:"granted_memory_kb" json:"granted_memory_kb"`
}
