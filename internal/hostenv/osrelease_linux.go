//go:build linux

package hostenv

import (
	"fmt"
	"os"
)

// RunningKernel reads the running kernel release from procfs.
func RunningKernel() (Kernel, error) {
	data, err := os.ReadFile("/proc/sys/kernel/osrelease") // #nosec G304 -- fixed procfs path
	if err != nil {
		return Kernel{}, fmt.Errorf("read osrelease: %w", err)
	}
	return ParseOSRelease(string(data)), nil
}
