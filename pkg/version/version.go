package version

import "fmt"

// Set via -ldflags "-X rpi-dashboard/pkg/version.Version=..."
var (
	Version = "dev"
	Commit  = "none"
	Built   = "unknown"
)

type BuildInfo struct {
	Version string `json:"version"`
	Commit  string `json:"commit"`
	Built   string `json:"built"`
}

func Info() BuildInfo {
	return BuildInfo{Version: Version, Commit: Commit, Built: Built}
}

func (b BuildInfo) String() string {
	return fmt.Sprintf("dash version %s, commit %s, built %s", b.Version, b.Commit, b.Built)
}

// UserAgent is sent with every backend request.
func UserAgent() string {
	return "rpi-dashboard/" + Version
}
