package contracts

import (
	"fmt"
	"runtime"
	"runtime/debug"
)

// Version of the prepare and analyze commands.
const Version = "0.1.0"

// DataFormatVersion tags the snapshot layout. The analyze command refuses
// snapshots written with a different value and rebuilds from the raw files.
const DataFormatVersion = "v1"

// Stamped by build.go through -ldflags -X.
var (
	BuildTime = "unknown"
	GitCommit = "unknown"
)

// BuildInfo describes the running binary.
type BuildInfo struct {
	Version    string `json:"version"`
	DataFormat string `json:"data_format"`
	Commit     string `json:"commit"`
	BuiltAt    string `json:"built_at"`
	Go         string `json:"go"`
	Platform   string `json:"platform"`
}

// GetVersionInfo collects the build stamp. When the binary was built
// without ldflags the VCS revision recorded by the toolchain is used.
func GetVersionInfo() BuildInfo {
	info := BuildInfo{
		Version:    Version,
		DataFormat: DataFormatVersion,
		Commit:     GitCommit,
		BuiltAt:    BuildTime,
		Go:         runtime.Version(),
		Platform:   runtime.GOOS + "/" + runtime.GOARCH,
	}
	if info.Commit == "unknown" {
		info.Commit = vcsRevision()
	}
	return info
}

func vcsRevision() string {
	bi, ok := debug.ReadBuildInfo()
	if !ok {
		return "unknown"
	}
	for _, s := range bi.Settings {
		if s.Key == "vcs.revision" && s.Value != "" {
			if len(s.Value) > 7 {
				return s.Value[:7]
			}
			return s.Value
		}
	}
	return "unknown"
}

// String renders the line printed by -version.
func (b BuildInfo) String() string {
	return fmt.Sprintf("acidentes %s (snapshot %s, commit %s, built %s, %s %s)",
		b.Version, b.DataFormat, b.Commit, b.BuiltAt, b.Go, b.Platform)
}

// GetFullVersionString is GetVersionInfo().String().
func GetFullVersionString() string {
	return GetVersionInfo().String()
}
