package hostprobe

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/BMFCloud/InfraSnitch/internal/model"
)

// Virtualization platforms recognized in systeminfo output. Match order is
// significant: VMware branding appears before the generic Hyper-V phrasing,
// which appears before KVM/QEMU, which appears before the Azure wording.
const (
	PlatformBareMetal = "Bare Metal"
	PlatformVMware    = "VMware"
	PlatformHyperV    = "Hyper-V"
	PlatformKVM       = "KVM/QEMU"
	PlatformAzure     = "Azure (Hyper-V core)"
	PlatformUnknown   = "Unknown"
)

var (
	socketPattern  = regexp.MustCompile(`SocketDesignation=(\S+)`)
	corePattern    = regexp.MustCompile(`NumberOfCores=(\d+)`)
	logicalPattern = regexp.MustCompile(`NumberOfLogicalProcessors=(\d+)`)
)

// ParseError reports probe text that matched none of the expected
// patterns. An empty capture is an explicit result here, never a silent
// zero-valued layout.
type ParseError struct {
	Probe   string
	Pattern string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("probe %q: no match for %s", e.Probe, e.Pattern)
}

// ParseSocketLayout extracts the socket layout from wmic cpu list-format
// text. Grammar: one SocketDesignation=<token> line per socket entry, with
// NumberOfCores=<int> and NumberOfLogicalProcessors=<int> lines alongside.
// Distinct designators count sockets; core and logical counts sum across
// entries.
func ParseSocketLayout(text string) (model.SocketLayout, error) {
	sockets := map[string]struct{}{}
	for _, m := range socketPattern.FindAllStringSubmatch(text, -1) {
		sockets[m[1]] = struct{}{}
	}
	if len(sockets) == 0 {
		return model.SocketLayout{}, &ParseError{Probe: "cpu layout", Pattern: "SocketDesignation="}
	}

	return model.SocketLayout{
		SocketCount:       len(sockets),
		PhysicalCores:     sumMatches(corePattern, text),
		LogicalProcessors: sumMatches(logicalPattern, text),
	}, nil
}

// ClassifyVirtualization maps a systeminfo text block onto a platform
// name, first match wins.
func ClassifyVirtualization(text string) string {
	switch {
	case strings.Contains(text, "VMware"):
		return PlatformVMware
	case strings.Contains(text, "Hyper-V") || strings.Contains(text, "Virtual Machine"):
		return PlatformHyperV
	case strings.Contains(text, "KVM") || strings.Contains(text, "QEMU"):
		return PlatformKVM
	case strings.Contains(text, "Microsoft Corporation Virtual"):
		return PlatformAzure
	default:
		return PlatformBareMetal
	}
}

// HasSCSIDisk reports whether the disk controller text names a SCSI
// interface.
func HasSCSIDisk(text string) bool {
	return strings.Contains(text, "SCSI")
}

// HasVMXNET3 reports whether the adapter text names a VMXNET3 NIC,
// case-insensitively.
func HasVMXNET3(text string) bool {
	return strings.Contains(strings.ToUpper(text), "VMXNET3")
}

func sumMatches(pattern *regexp.Regexp, text string) int {
	total := 0
	for _, m := range pattern.FindAllStringSubmatch(text, -1) {
		n, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		total += n
	}
	return total
}
