//go:build !linux

package hostenv

import (
	"fmt"
	"runtime"
)

// RunningKernel is only available on linux.
func RunningKernel() (Kernel, error) {
	return Kernel{}, fmt.Errorf("running kernel detection unsupported on %s", runtime.GOOS)
}
