package model

import "time"

// SystemSpecs mirrors the resource columns of sys.dm_os_sys_info.
type SystemSpecs struct {
	CPUCount           int64     `db:"cpu_count" json:"cpu_count"`
	HyperthreadRatio   int64     `db:"hyperthread_ratio" json:"hyperthread_ratio"`
	PhysicalMemoryMB   int64     `db:"physical_memory_mb" json:"physical_memory_mb"`
	StartTime          time.Time `db:"sqlserver_start_time" json:"start_time"`
	VirtualMachineType string    `db:"virtual_machine_type_desc" json:"virtual_machine_type"`
}

// SocketLayout is the host-OS view of CPU packaging, derived from
// wmic cpu list-format output.
type SocketLayout struct {
	SocketCount       int `json:"socket_count"`
	PhysicalCores     int `json:"physical_cores"`
	LogicalProcessors int `json:"logical_processors"`
}
