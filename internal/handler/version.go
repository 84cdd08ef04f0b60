package handler

import (
	"net/http"
	"runtime"
	"runtime/debug"
)

// VersionInfo contains version and build information
type VersionInfo struct {
	Service     string `json:"service"`
	Version     string `json:"version"`
	Environment string `json:"environment,omitempty"`
	GoVersion   string `json:"go_version"`
	BuildTime   string `json:"build_time,omitempty"`
	GitCommit   string `json:"git_commit,omitempty"`
}

// Build-time overrides, injected via -ldflags "-X ...". When unset the VCS
// stamp embedded by the go tool is used.
var (
	BuildTime string
	GitCommit string
)

// HandleVersion reports the running build. service, version and environment
// come from configuration.
func HandleVersion(service, version, environment string) http.HandlerFunc {
	info := VersionInfo{
		Service:     service,
		Version:     version,
		Environment: environment,
		GoVersion:   runtime.Version(),
		BuildTime:   BuildTime,
		GitCommit:   GitCommit,
	}
	if info.Version == "" {
		info.Version = DefaultVersion
	}
	fillFromBuildInfo(&info, debug.ReadBuildInfo)

	return func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, info)
	}
}

// fillFromBuildInfo fills commit and build time from the vcs.* settings the
// go tool stamps into binaries built inside a repository
func fillFromBuildInfo(info *VersionInfo, read func() (*debug.BuildInfo, bool)) {
	bi, ok := read()
	if !ok {
		return
	}
	for _, s := range bi.Settings {
		switch s.Key {
		case "vcs.revision":
			if info.GitCommit == "" {
				info.GitCommit = s.Value
			}
		case "vcs.time":
			if info.BuildTime == "" {
				info.BuildTime = s.Value
			}
		}
	}
}
