package main

import (
	"os"
	"strconv"
	"strings"
)

// getMemoryLimit returns the container memory limit in bytes from the cgroup
// filesystem, for startup diagnostics.
//
// Supports:
//   - cgroup v2 (modern systems, newer Kubernetes)
//   - cgroup v1 (legacy systems, older Docker versions)
//
// Returns 0 with a nil error when no limit is detected (bare metal, VMs,
// unlimited containers).
func getMemoryLimit() (int64, error) {
	// cgroup v2: /sys/fs/cgroup/memory.max, either a number or "max"
	if data, err := os.ReadFile("/sys/fs/cgroup/memory.max"); err == nil {
		limitStr := strings.TrimSpace(string(data))
		if limitStr != "max" {
			return strconv.ParseInt(limitStr, 10, 64)
		}
		return 0, nil
	}

	// cgroup v1: /sys/fs/cgroup/memory/memory.limit_in_bytes
	if data, err := os.ReadFile("/sys/fs/cgroup/memory/memory.limit_in_bytes"); err == nil {
		limitStr := strings.TrimSpace(string(data))
		limit, err := strconv.ParseInt(limitStr, 10, 64)
		if err != nil {
			return 0, err
		}
		// Unlimited v1 cgroups report a page-rounded value near math.MaxInt64.
		if limit >= 1<<62 {
			return 0, nil
		}
		return limit, nil
	}

	return 0, nil
}
