package diag

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BMFCloud/InfraSnitch/internal/hostprobe"
	"github.com/BMFCloud/InfraSnitch/internal/model"
)

const threeSocketLayout = `NumberOfCores=2
NumberOfLogicalProcessors=4
SocketDesignation=CPU0

NumberOfCores=2
NumberOfLogicalProcessors=4
SocketDesignation=CPU1

NumberOfCores=2
NumberOfLogicalProcessors=4
SocketDesignation=CPU2
`

const twoSocketLayout = `NumberOfCores=8
NumberOfLogicalProcessors=16
SocketDesignation=CPU0

NumberOfCores=8
NumberOfLogicalProcessors=16
SocketDesignation=CPU1
`

func TestCheckSocketLayout(t *testing.T) {
	t.Run("three sockets warn, error and recommend", func(t *testing.T) {
		probe := &fakeProber{cpuLayout: threeSocketLayout}
		c, sink := newTestChecker(&fakeFacts{}, probe)

		c.CheckSocketLayout(context.Background())

		require.Equal(t, []model.Judgment{
			{Level: model.LevelInfo, Message: "\n🧩 CPU Socket Layout (Host OS View):"},
			{Level: model.LevelInfo, Message: " - Sockets: 3"},
			{Level: model.LevelInfo, Message: " - Physical Cores: 6"},
			{Level: model.LevelInfo, Message: " - Logical Processors: 12"},
			{Level: model.LevelWarn, Message: "Detected more than 2 sockets."},
			{Level: model.LevelError, Message: "SQL Server Standard will only use 2 sockets regardless of core count."},
			{Level: model.LevelInfo, Message: "📌 Recommendation: Reconfigure VM to use fewer sockets with more cores per socket (e.g., 1 socket × 8 cores)."},
		}, sink.judgments)
	})

	t.Run("two sockets pass the edition limit", func(t *testing.T) {
		probe := &fakeProber{cpuLayout: twoSocketLayout}
		c, sink := newTestChecker(&fakeFacts{}, probe)

		c.CheckSocketLayout(context.Background())

		assert.Equal(t, []string{"Socket count is within SQL Server Standard Edition limits."}, sink.byLevel(model.LevelOK))
		assert.Empty(t, sink.byLevel(model.LevelWarn))
	})

	t.Run("probe failure is one error after the header", func(t *testing.T) {
		probe := &fakeProber{cpuLayoutErr: errors.New("wmic missing")}
		c, sink := newTestChecker(&fakeFacts{}, probe)

		c.CheckSocketLayout(context.Background())

		require.Equal(t, []model.Judgment{
			{Level: model.LevelInfo, Message: "\n🧩 CPU Socket Layout (Host OS View):"},
			{Level: model.LevelError, Message: "Error retrieving socket layout from OS."},
		}, sink.judgments)
	})

	t.Run("unparseable probe text is the same error", func(t *testing.T) {
		probe := &fakeProber{cpuLayout: "no designators here"}
		c, sink := newTestChecker(&fakeFacts{}, probe)

		c.CheckSocketLayout(context.Background())

		assert.Equal(t, []string{"Error retrieving socket layout from OS."}, sink.byLevel(model.LevelError))
	})
}

func TestDetectVirtualEnvironment(t *testing.T) {
	t.Run("vmware guest triggers the vNUMA advisories", func(t *testing.T) {
		probe := &fakeProber{systemInfo: "System Manufacturer: VMware, Inc.\nSystem Model: VMware7,1"}
		c, sink := newTestChecker(&fakeFacts{}, probe)

		detected := c.DetectVirtualEnvironment(context.Background())

		assert.Equal(t, hostprobe.PlatformVMware, detected)
		require.Equal(t, []model.Judgment{
			{Level: model.LevelInfo, Message: "\n🧭 Host Environment: VMware"},
			{Level: model.LevelWarn, Message: "Detected virtualized SQL Server environment."},
			{Level: model.LevelInfo, Message: "📌 Ensure vNUMA is exposed and balanced properly in the hypervisor."},
			{Level: model.LevelInfo, Message: "📌 Misaligned virtual sockets/cores can cause NUMA fragmentation."},
		}, sink.judgments)
	})

	t.Run("vmware wins when hyper-v wording is also present", func(t *testing.T) {
		probe := &fakeProber{systemInfo: "VMware, Inc. guest with Hyper-V role text"}
		c, _ := newTestChecker(&fakeFacts{}, probe)

		assert.Equal(t, hostprobe.PlatformVMware, c.DetectVirtualEnvironment(context.Background()))
	})

	t.Run("bare metal emits no advisory", func(t *testing.T) {
		probe := &fakeProber{systemInfo: "System Manufacturer: Dell Inc.\nSystem Model: PowerEdge R740"}
		c, sink := newTestChecker(&fakeFacts{}, probe)

		detected := c.DetectVirtualEnvironment(context.Background())

		assert.Equal(t, hostprobe.PlatformBareMetal, detected)
		assert.Empty(t, sink.byLevel(model.LevelWarn))
		assert.Equal(t, []string{"\n🧭 Host Environment: Bare Metal"}, sink.byLevel(model.LevelInfo))
	})

	t.Run("probe failure reports unknown", func(t *testing.T) {
		probe := &fakeProber{systemInfoErr: errors.New("systeminfo crashed")}
		c, sink := newTestChecker(&fakeFacts{}, probe)

		detected := c.DetectVirtualEnvironment(context.Background())

		assert.Equal(t, hostprobe.PlatformUnknown, detected)
		assert.Equal(t, []string{"Error detecting virtual platform."}, sink.byLevel(model.LevelError))
	})
}

func TestCheckVirtualHardware(t *testing.T) {
	scsiDisk := "InterfaceType  Model\nSCSI           VMware Virtual disk SCSI Disk Device\n"
	vmxnetNIC := "Name\nvmxnet3 Ethernet Adapter\n"
	ideDisk := "InterfaceType  Model\nIDE            QEMU HARDDISK\n"
	e1000NIC := "Name\nIntel(R) 82574L Gigabit Network Connection\n"

	t.Run("scsi and vmxnet3 both pass", func(t *testing.T) {
		probe := &fakeProber{disks: scsiDisk, nics: vmxnetNIC}
		c, sink := newTestChecker(&fakeFacts{}, probe)

		c.CheckVirtualHardware(context.Background())

		assert.Equal(t, []string{
			"Disks are using SCSI interface.",
			"VMXNET3 network adapter detected.",
		}, sink.byLevel(model.LevelOK))
		assert.Empty(t, sink.byLevel(model.LevelWarn))
	})

	t.Run("missing markers warn with the raw probe text", func(t *testing.T) {
		probe := &fakeProber{disks: ideDisk, nics: e1000NIC}
		c, sink := newTestChecker(&fakeFacts{}, probe)

		c.CheckVirtualHardware(context.Background())

		assert.Equal(t, []string{
			"Disks may not be using SCSI interface:",
			"VMXNET3 not detected. Current adapters:",
		}, sink.byLevel(model.LevelWarn))
		msgs := sink.messages()
		assert.Contains(t, msgs, ideDisk)
		assert.Contains(t, msgs, e1000NIC)
	})

	t.Run("one probe failing never hides the other result", func(t *testing.T) {
		probe := &fakeProber{disksErr: errors.New("access denied"), nics: vmxnetNIC}
		c, sink := newTestChecker(&fakeFacts{}, probe)

		c.CheckVirtualHardware(context.Background())

		assert.Equal(t, []string{"Error retrieving disk controller info."}, sink.byLevel(model.LevelError))
		assert.Equal(t, []string{"VMXNET3 network adapter detected."}, sink.byLevel(model.LevelOK))
	})
}
