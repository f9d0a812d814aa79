package hostprobe

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BMFCloud/InfraSnitch/internal/model"
)

const dualSocketCPUText = `Name=Intel(R) Xeon(R) Gold 6248 CPU @ 2.50GHz
NumberOfCores=4
NumberOfLogicalProcessors=8
SocketDesignation=CPU0

Name=Intel(R) Xeon(R) Gold 6248 CPU @ 2.50GHz
NumberOfCores=4
NumberOfLogicalProcessors=8
SocketDesignation=CPU1
`

const wideSocketCPUText = `NumberOfCores=2
NumberOfLogicalProcessors=2
SocketDesignation=SOCKET_A

NumberOfCores=2
NumberOfLogicalProcessors=2
SocketDesignation=SOCKET_B

NumberOfCores=2
NumberOfLogicalProcessors=2
SocketDesignation=SOCKET_C
`

const vmwareSystemInfoText = `Host Name:                 SQLVM01
OS Name:                   Microsoft Windows Server 2019 Standard
System Manufacturer:       VMware, Inc.
System Model:              VMware7,1
Total Physical Memory:     65,536 MB
`

const hyperVSystemInfoText = `Host Name:                 SQLVM02
OS Name:                   Microsoft Windows Server 2022 Standard
System Manufacturer:       Microsoft Corporation
System Model:              Virtual Machine
`

const bareMetalSystemInfoText = `Host Name:                 SQLHOST01
OS Name:                   Microsoft Windows Server 2019 Standard
System Manufacturer:       Dell Inc.
System Model:              PowerEdge R740
`

func TestParseSocketLayout(t *testing.T) {
	t.Run("dual socket", func(t *testing.T) {
		layout, err := ParseSocketLayout(dualSocketCPUText)
		require.NoError(t, err)
		assert.Equal(t, model.SocketLayout{SocketCount: 2, PhysicalCores: 8, LogicalProcessors: 16}, layout)
	})

	t.Run("three sockets", func(t *testing.T) {
		layout, err := ParseSocketLayout(wideSocketCPUText)
		require.NoError(t, err)
		assert.Equal(t, 3, layout.SocketCount)
		assert.Equal(t, 6, layout.PhysicalCores)
		assert.Equal(t, 6, layout.LogicalProcessors)
	})

	t.Run("repeated designators collapse", func(t *testing.T) {
		text := "SocketDesignation=CPU0\nNumberOfCores=4\nSocketDesignation=CPU0\nNumberOfCores=4\n"
		layout, err := ParseSocketLayout(text)
		require.NoError(t, err)
		assert.Equal(t, 1, layout.SocketCount)
		assert.Equal(t, 8, layout.PhysicalCores)
	})

	t.Run("no designators is an explicit parse error", func(t *testing.T) {
		_, err := ParseSocketLayout("Name=Some CPU\nNumberOfCores=4\n")
		require.Error(t, err)

		var parseErr *ParseError
		require.True(t, errors.As(err, &parseErr))
		assert.Equal(t, "cpu layout", parseErr.Probe)
		assert.Contains(t, parseErr.Error(), "SocketDesignation=")
	})
}

func TestClassifyVirtualization(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{"vmware", vmwareSystemInfoText, PlatformVMware},
		{"hyper-v via model string", hyperVSystemInfoText, PlatformHyperV},
		{"hyper-v via product name", "Hypervisor: Hyper-V detected", PlatformHyperV},
		{"kvm", "System Manufacturer: QEMU\nSystem Model: KVM Standard PC", PlatformKVM},
		{"azure wording", "System Manufacturer: Microsoft Corporation Virtual", PlatformAzure},
		{"bare metal", bareMetalSystemInfoText, PlatformBareMetal},
		{"vmware wins over hyper-v wording", "VMware, Inc. running on Hyper-V host", PlatformVMware},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ClassifyVirtualization(tt.text))
		})
	}
}

func TestHasSCSIDisk(t *testing.T) {
	diskText := "InterfaceType  Model\nSCSI           VMware Virtual disk SCSI Disk Device\n"
	assert.True(t, HasSCSIDisk(diskText))
	assert.False(t, HasSCSIDisk("InterfaceType  Model\nIDE            Generic Disk\n"))
	assert.False(t, HasSCSIDisk("interfacetype scsi"))
}

func TestHasVMXNET3(t *testing.T) {
	nicText := "AdapterType     Manufacturer   Name\nEthernet 802.3  VMware, Inc.   vmxnet3 Ethernet Adapter\n"
	assert.True(t, HasVMXNET3(nicText))
	assert.True(t, HasVMXNET3("Name=VMXNET3 Adapter"))
	assert.False(t, HasVMXNET3("Ethernet 802.3  Intel  Intel(R) 82574L Gigabit Network Connection"))
}
