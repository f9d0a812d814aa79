package model

// MemoryConfig is a single snapshot of the instance memory settings
// (sp_configure run values) alongside the physical RAM visible to the
// host. Min and Max are nil when the corresponding sp_configure row
// could not be read.
type MemoryConfig struct {
	MinServerMemoryMB         *int64 `json:"min_server_memory_mb,omitempty"`
	MaxServerMemoryMB         *int64 `json:"max_server_memory_mb,omitempty"`
	TotalPhysicalMemoryMB     int64  `json:"total_physical_memory_mb"`
	AvailablePhysicalMemoryMB int64  `json:"available_physical_memory_mb"`
}
