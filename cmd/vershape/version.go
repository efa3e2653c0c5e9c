package main

import (
	_ "embed"
	"runtime/debug"
	"strings"
)

//go:embed VERSION
var releaseVersion string

// buildVersion reports the module version for `go install pkg@version`
// builds. Other builds report "devel-<release>", with the short VCS
// revision appended when the toolchain recorded one.
func buildVersion() string {
	release := strings.TrimSpace(releaseVersion)
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return release
	}
	if v := info.Main.Version; v != "" && v != "(devel)" {
		return v
	}
	out := "devel-" + release
	for _, s := range info.Settings {
		if s.Key == "vcs.revision" && len(s.Value) >= 7 {
			out += "+" + s.Value[:7]
			break
		}
	}
	return out
}
