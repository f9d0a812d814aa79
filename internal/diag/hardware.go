package diag

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/BMFCloud/InfraSnitch/internal/hostprobe"
)

// CheckSocketLayout reports the host-OS view of CPU packaging and flags
// layouts that exceed the two-socket cap of SQL Server Standard Edition.
func (c *Checker) CheckSocketLayout(ctx context.Context) {
	c.info("\n🧩 CPU Socket Layout (Host OS View):")

	text, err := c.probe.CPULayout(ctx)
	if err != nil {
		c.logger.Error("socket layout probe failed", "error", err)
		c.fail("Error retrieving socket layout from OS.")
		return
	}
	layout, err := hostprobe.ParseSocketLayout(text)
	if err != nil {
		c.logger.Error("socket layout parse failed", "error", err)
		c.fail("Error retrieving socket layout from OS.")
		return
	}

	c.infof(" - Sockets: %d", layout.SocketCount)
	c.infof(" - Physical Cores: %d", layout.PhysicalCores)
	c.infof(" - Logical Processors: %d", layout.LogicalProcessors)

	if layout.SocketCount > 2 {
		c.warn("Detected more than 2 sockets.")
		c.fail("SQL Server Standard will only use 2 sockets regardless of core count.")
		c.info("📌 Recommendation: Reconfigure VM to use fewer sockets with more cores per socket (e.g., 1 socket × 8 cores).")
	} else {
		c.ok("Socket count is within SQL Server Standard Edition limits.")
	}
}

// DetectVirtualEnvironment classifies the host platform from its
// systeminfo signature and returns the detected platform name.
func (c *Checker) DetectVirtualEnvironment(ctx context.Context) string {
	text, err := c.probe.SystemInfo(ctx)
	if err != nil {
		c.logger.Error("virtualization probe failed", "error", err)
		c.fail("Error detecting virtual platform.")
		return hostprobe.PlatformUnknown
	}

	detected := hostprobe.ClassifyVirtualization(text)
	c.infof("\n🧭 Host Environment: %s", detected)

	if detected != hostprobe.PlatformBareMetal {
		c.warn("Detected virtualized SQL Server environment.")
		c.info("📌 Ensure vNUMA is exposed and balanced properly in the hypervisor.")
		c.info("📌 Misaligned virtual sockets/cores can cause NUMA fragmentation.")
	}
	return detected
}

// CheckVirtualHardware verifies the virtual hardware the guest was given:
// SCSI disk controllers and VMXNET3 network adapters. The two probes are
// gathered concurrently; each failure is judged on its own and never
// suppresses the other probe's result.
func (c *Checker) CheckVirtualHardware(ctx context.Context) {
	c.info("\n💽 VM Hardware Configuration Check:")

	var (
		diskText, nicText string
		diskErr, nicErr   error
	)
	var g errgroup.Group
	g.Go(func() error {
		diskText, diskErr = c.probe.DiskControllers(ctx)
		return nil
	})
	g.Go(func() error {
		nicText, nicErr = c.probe.NetworkAdapters(ctx)
		return nil
	})
	_ = g.Wait()

	if diskErr != nil {
		c.logger.Error("disk controller probe failed", "error", diskErr)
		c.fail("Error retrieving disk controller info.")
	} else {
		c.info("🔍 Disk Controllers:")
		if hostprobe.HasSCSIDisk(diskText) {
			c.ok("Disks are using SCSI interface.")
		} else {
			c.warn("Disks may not be using SCSI interface:")
			c.info(diskText)
		}
	}

	if nicErr != nil {
		c.logger.Error("network adapter probe failed", "error", nicErr)
		c.fail("Error retrieving network adapter info.")
	} else {
		c.info("\n🔍 Network Adapters:")
		if hostprobe.HasVMXNET3(nicText) {
			c.ok("VMXNET3 network adapter detected.")
		} else {
			c.warn("VMXNET3 not detected. Current adapters:")
			c.info(nicText)
		}
	}
}
