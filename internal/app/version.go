// Package app holds application metadata and wires configuration into a
// running console.
package app

import (
	"fmt"
	"runtime"
)

var (
	// Version is the application version (set at build time).
	Version = "dev"
	// Commit is the git commit hash (set at build time).
	Commit = "unknown"
	// Date is the build date (set at build time).
	Date = "unknown"
)

// Name is the product name shown in titles and banners.
const Name = "Replicant"

// GetVersion returns the short version string.
func GetVersion() string {
	return fmt.Sprintf("%s (%s)", Version, Commit[:min(7, len(Commit))])
}

// GetVersionInfo returns detailed version information.
func GetVersionInfo() string {
	return fmt.Sprintf(`%s v%s
Commit: %s
Built:  %s
Go:     %s
OS:     %s/%s`,
		Name, Version, Commit, Date, runtime.Version(), runtime.GOOS, runtime.GOARCH)
}

// GetBanner returns the banner shown above the line console.
func GetBanner() string {
	return `
 ____            _ _                 _
|  _ \ ___ _ __ | (_) ___ __ _ _ __ | |_
| |_) / _ \ '_ \| | |/ __/ _' | '_ \| __|
|  _ <  __/ |_) | | | (_| (_| | | | | |_
|_| \_\___| .__/|_|_|\___\__,_|_| |_|\__|
          |_|
`
}
