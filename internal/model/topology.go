package model

// SchedulerRecord is one logical scheduler row from sys.dm_os_schedulers,
// an immutable snapshot taken at fetch time. ParentNodeID is nil when the
// server does not expose a NUMA node for the scheduler.
type SchedulerRecord struct {
	SchedulerID  int64  `db:"scheduler_id" json:"scheduler_id"`
	CPUID        int64  `db:"cpu_id" json:"cpu_id"`
	IsOnline     bool   `db:"is_online" json:"is_online"`
	Status       string `db:"status" json:"status"`
	ParentNodeID *int64 `db:"parent_node_id" json:"parent_node_id,omitempty"`
}

// MemoryNodeRecord is one NUMA memory node from sys.dm_os_memory_nodes.
// The DAC node (id 64) is filtered out at query time.
type MemoryNodeRecord struct {
	MemoryNodeID                   int64 `db:"memory_node_id" json:"memory_node_id"`
	VirtualAddressSpaceReservedKB  int64 `db:"virtual_address_space_reserved_kb" json:"virtual_address_space_reserved_kb"`
	VirtualAddressSpaceCommittedKB int64 `db:"virtual_address_space_committed_kb" json:"virtual_address_space_committed_kb"`
	LockedPageAllocationsKB        int64 `db:"locked_page_allocations_kb" json:"locked_page_allocations_kb"`
}
