package dmv

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"

	"github.com/jmoiron/sqlx"

	"github.com/BMFCloud/InfraSnitch/internal/model"
)

const (
	schedulerLayoutQuery = `
        SELECT scheduler_id, cpu_id, is_online, status, parent_node_id
        FROM sys.dm_os_schedulers
        WHERE scheduler_id < 255
        ORDER BY scheduler_id
        `

	memoryNodesQuery = `
        SELECT memory_node_id,
           virtual_address_space_reserved_kb,
           virtual_address_space_committed_kb,
           locked_page_allocations_kb
        FROM sys.dm_os_memory_nodes
        WHERE memory_node_id != 64
        `

	sysMemoryQuery = `SELECT total_physical_memory_kb, available_physical_memory_kb FROM sys.dm_os_sys_memory`

	sysInfoQuery = `
        SELECT cpu_count,
            hyperthread_ratio,
            physical_memory_kb / 1024 AS physical_memory_mb,
            sqlserver_start_time,
            virtual_machine_type_desc
        FROM sys.dm_os_sys_info
        `

	activeRequestsQuery = `
        SELECT r.session_id,
            r.status,
            r.command,
            r.start_time,
            r.cpu_time,
            r.total_elapsed_time,
            t.text AS sql_text
        FROM sys.dm_exec_requests r
        CROSS APPLY sys.dm_exec_sql_text(r.sql_handle) t
        WHERE r.session_id > 50
        ORDER BY r.total_elapsed_time DESC
        `

	pendingGrantsQuery = `
        SELECT session_id, requested_memory_kb, granted_memory_kb
        FROM sys.dm_exec_query_memory_grants
        WHERE granted_memory_kb < requested_memory_kb
        `
)

// Reader fetches diagnostic facts from the DMVs of one connected instance.
// Every method blocks until the server answers or the query fails.
type Reader struct {
	db     *sqlx.DB
	logger *slog.Logger
}

func NewReader(db *sqlx.DB, logger *slog.Logger) *Reader {
	return &Reader{db: db, logger: logger}
}

func (r *Reader) SchedulerLayout(ctx context.Context) ([]model.SchedulerRecord, error) {
	var out []model.SchedulerRecord
	if err := r.db.SelectContext(ctx, &out, schedulerLayoutQuery); err != nil {
		return nil, &SourceError{Fact: "scheduler layout", Err: err}
	}
	r.logger.Debug("scheduler layout fetched", "schedulers", len(out))
	return out, nil
}

func (r *Reader) MemoryNodes(ctx context.Context) ([]model.MemoryNodeRecord, error) {
	var out []model.MemoryNodeRecord
	if err := r.db.SelectContext(ctx, &out, memoryNodesQuery); err != nil {
		return nil, &SourceError{Fact: "memory nodes", Err: err}
	}
	r.logger.Debug("memory nodes fetched", "nodes", len(out))
	return out, nil
}

// MemoryConfiguration reads the min/max server memory run values together
// with the physical RAM totals. sp_configure values are only readable once
// advanced options are shown, so the session is prepared first.
func (r *Reader) MemoryConfiguration(ctx context.Context) (model.MemoryConfig, error) {
	if err := r.enableAdvancedOptions(ctx); err != nil {
		return model.MemoryConfig{}, &SourceError{Fact: "memory configuration", Err: err}
	}

	minVal, err := r.configRunValue(ctx, "min server memory (MB)")
	if err != nil {
		return model.MemoryConfig{}, err
	}
	maxVal, err := r.configRunValue(ctx, "max server memory (MB)")
	if err != nil {
		return model.MemoryConfig{}, err
	}

	var mem struct {
		TotalKB     int64 `db:"total_physical_memory_kb"`
		AvailableKB int64 `db:"available_physical_memory_kb"`
	}
	if err := r.db.QueryRowxContext(ctx, sysMemoryQuery).StructScan(&mem); err != nil {
		return model.MemoryConfig{}, &SourceError{Fact: "physical memory", Err: err}
	}

	return model.MemoryConfig{
		MinServerMemoryMB:         minVal,
		MaxServerMemoryMB:         maxVal,
		TotalPhysicalMemoryMB:     mem.TotalKB / 1024,
		AvailablePhysicalMemoryMB: mem.AvailableKB / 1024,
	}, nil
}

// MaxDOP returns the configured max degree of parallelism run value, or
// nil with a MissingFactError when the option row is absent.
func (r *Reader) MaxDOP(ctx context.Context) (*int64, error) {
	if err := r.enableAdvancedOptions(ctx); err != nil {
		return nil, &SourceError{Fact: "max degree of parallelism", Err: err}
	}
	return r.configRunValue(ctx, "max degree of parallelism")
}

func (r *Reader) SystemSpecs(ctx context.Context) (model.SystemSpecs, error) {
	var out model.SystemSpecs
	if err := r.db.QueryRowxContext(ctx, sysInfoQuery).StructScan(&out); err != nil {
		return model.SystemSpecs{}, &SourceError{Fact: "system specs", Err: err}
	}
	return out, nil
}

// ActiveRequests returns user requests ordered by elapsed time descending,
// capped client-side at top rows. System sessions (id <= 50) are excluded
// by the query itself.
func (r *Reader) ActiveRequests(ctx context.Context, top int) ([]model.ActiveRequest, error) {
	rows, err := r.db.QueryxContext(ctx, activeRequestsQuery)
	if err != nil {
		return nil, &SourceError{Fact: "active requests", Err: err}
	}
	defer rows.Close()

	var out []model.ActiveRequest
	for rows.Next() {
		if top > 0 && len(out) == top {
			break
		}
		var rec model.ActiveRequest
		if err := rows.StructScan(&rec); err != nil {
			return nil, &SourceError{Fact: "active requests", Err: err}
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, &SourceError{Fact: "active requests", Err: err}
	}
	return out, nil
}

func (r *Reader) PendingGrants(ctx context.Context) ([]model.MemoryGrant, error) {
	var out []model.MemoryGrant
	if err := r.db.SelectContext(ctx, &out, pendingGrantsQuery); err != nil {
		return nil, &SourceError{Fact: "memory grants", Err: err}
	}
	return out, nil
}

// enableAdvancedOptions prepares the session so sp_configure exposes the
// advanced option rows. It changes session state only, never the tuning
// configuration of the instance.
func (r *Reader) enableAdvancedOptions(ctx context.Context) error {
	stmts := []string{
		"SET IMPLICIT_TRANSACTIONS OFF;",
		"EXEC sp_configure 'show advanced options', 1;",
		"RECONFIGURE;",
	}
	for _, stmt := range stmts {
		if _, err := r.db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}

func (r *Reader) configRunValue(ctx context.Context, option string) (*int64, error) {
	var row struct {
		Name        string `db:"name"`
		Minimum     int64  `db:"minimum"`
		Maximum     int64  `db:"maximum"`
		ConfigValue int64  `db:"config_value"`
		RunValue    int64  `db:"run_value"`
	}
	err := r.db.QueryRowxContext(ctx, "EXEC sp_configure '"+option+"'").StructScan(&row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &MissingFactError{Fact: option}
	}
	if err != nil {
		return nil, &SourceError{Fact: option, Err: err}
	}
	return &row.RunValue, nil
}
