package hostprobe

import (
	"context"
	"fmt"
	"log/slog"
	"os/exec"
)

// Prober returns the raw text blocks the host exposes about its own
// hardware. Implementations never interpret the text; extraction lives in
// the parsers so it can be tested against captured output.
type Prober interface {
	SystemInfo(ctx context.Context) (string, error)
	CPULayout(ctx context.Context) (string, error)
	DiskControllers(ctx context.Context) (string, error)
	NetworkAdapters(ctx context.Context) (string, error)
}

// ExecProber shells out to the platform inventory tools and captures
// combined stdout/stderr, mirroring what an operator would see.
type ExecProber struct {
	logger *slog.Logger
}

func NewExecProber(logger *slog.Logger) *ExecProber {
	return &ExecProber{logger: logger}
}

func (p *ExecProber) SystemInfo(ctx context.Context) (string, error) {
	return p.run(ctx, "systeminfo")
}

func (p *ExecProber) CPULayout(ctx context.Context) (string, error) {
	return p.run(ctx, "wmic", "cpu", "get", "Name,NumberOfCores,NumberOfLogicalProcessors,SocketDesignation", "/format:list")
}

func (p *ExecProber) DiskControllers(ctx context.Context) (string, error) {
	return p.run(ctx, "wmic", "diskdrive", "get", "InterfaceType,Model")
}

func (p *ExecProber) NetworkAdapters(ctx context.Context) (string, error) {
	return p.run(ctx, "wmic", "nic", "where", "AdapterTypeId=0 and NetEnabled=true", "get", "Name,Manufacturer,AdapterType")
}

func (p *ExecProber) run(ctx context.Context, name string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	raw, err := cmd.CombinedOutput()
	if err != nil {
		return "", fmt.Errorf("run %s: %w", name, err)
	}
	p.logger.Debug("host probe completed", "tool", name, "bytes", len(raw))
	return string(raw), nil
}
