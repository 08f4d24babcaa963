package version

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"runtime"
	"runtime/debug"
	"strings"
)

// Set at build time with -ldflags "-X github.com/redjax/notetabs/internal/version.Version=...".
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"

	RepoUrl = "https://github.com/redjax/notetabs"
)

type PackageInfo struct {
	PackageName        string `json:"name"`
	RepoUrl            string `json:"repoUrl"`
	RepoUser           string `json:"repoUser"`
	RepoName           string `json:"repoName"`
	PackageVersion     string `json:"version"`
	PackageCommit      string `json:"commit"`
	PackageReleaseDate string `json:"date"`
	GoVersion          string `json:"goVersion"`
	Platform           string `json:"platform"`
}

// GetPackageInfo describes the running binary.
func GetPackageInfo() PackageInfo {
	binName := "<unknown>"
	if exePath, err := os.Executable(); err == nil {
		binName = filepath.Base(exePath)
	}

	repoUser, repoName := parseRepoUrl(RepoUrl)

	return PackageInfo{
		PackageName:        binName,
		RepoUrl:            RepoUrl,
		RepoUser:           repoUser,
		RepoName:           repoName,
		PackageVersion:     GetShortVersion(),
		PackageCommit:      Commit,
		PackageReleaseDate: Date,
		GoVersion:          runtime.Version(),
		Platform:           runtime.GOOS + "/" + runtime.GOARCH,
	}
}

// parseRepoUrl splits "https://host/user/repo" into user and repo.
func parseRepoUrl(raw string) (user, repo string) {
	u, err := url.Parse(raw)
	if err != nil {
		return "<unknown>", "<unknown>"
	}

	parts := strings.Split(strings.Trim(u.Path, "/"), "/")
	if len(parts) >= 2 && parts[0] != "" {
		return parts[0], parts[1]
	}

	return "<unknown>", "<unknown>"
}

func GetVersionString() string {
	return fmt.Sprintf("notetabs version:%s commit:%s date:%s", GetShortVersion(), Commit, Date)
}

// GetShortVersion returns Version, or the module version recorded by
// `go install` when no version was stamped at build time.
func GetShortVersion() string {
	if Version != "dev" {
		return Version
	}
	if info, ok := debug.ReadBuildInfo(); ok {
		if v := info.Main.Version; v != "" && v != "(devel)" {
			return v
		}
	}
	return Version
}
