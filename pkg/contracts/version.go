// Package contracts holds the types shared between the service, its CLI
// and its clients.
package contracts

import (
	"fmt"
	"runtime"
)

// APIVersion is the version of the HTTP and websocket contracts
const APIVersion = "v1"

// Build information, set with
// -ldflags "-X studentpulse/pkg/contracts.Version=1.2.0 -X studentpulse/pkg/contracts.BuildTime=..."
var (
	Version   = "dev"
	BuildTime = ""
	GitCommit = ""
)

// VersionInfo contains detailed version information
type VersionInfo struct {
	Version      string `json:"version"`
	BuildTime    string `json:"build_time,omitempty"`
	GitCommit    string `json:"git_commit,omitempty"`
	GoVersion    string `json:"go_version"`
	OS           string `json:"os"`
	Architecture string `json:"architecture"`
	APIVersion   string `json:"api_version"`
}

// GetVersionInfo returns detailed version information
func GetVersionInfo() VersionInfo {
	return VersionInfo{
		Version:      Version,
		BuildTime:    BuildTime,
		GitCommit:    GitCommit,
		GoVersion:    runtime.Version(),
		OS:           runtime.GOOS,
		Architecture: runtime.GOARCH,
		APIVersion:   APIVersion,
	}
}

// GetVersionString returns a formatted version string
func GetVersionString() string {
	info := GetVersionInfo()
	if info.GitCommit == "" {
		return fmt.Sprintf("%s (%s, %s/%s)", info.Version, info.GoVersion, info.OS, info.Architecture)
	}
	return fmt.Sprintf("%s (commit %s, %s, %s/%s)", info.Version, info.GitCommit, info.GoVersion, info.OS, info.Architecture)
}
