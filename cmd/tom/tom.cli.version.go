package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"runtime"
	"runtime/debug"

	"gopkg.in/yaml.v3"
)

// Set with -ldflags "-X main.buildVersion=... -X main.buildCommit=...".
var (
	buildVersion string
	buildCommit  string
	buildBranch  string
	buildTime    string
)

// versionsFileCandidates are searched in order for versions.yaml.
var versionsFileCandidates = []string{"versions.yaml", "../versions.yaml", "../../versions.yaml"}

// versionInfo is both the text and JSON form of the version command output.
type versionInfo struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	Branch    string `json:"branch"`
	BuildTime string `json:"build_time"`
	GoVersion string `json:"go_version"`
}

// versionsFile represents the versions.yaml file structure
type versionsFile struct {
	Project struct {
		Version string `yaml:"version"`
	} `yaml:"project"`
	Git struct {
		Commit string `yaml:"commit"`
		Branch string `yaml:"branch"`
	} `yaml:"git"`
	Build struct {
		Time string `yaml:"time"`
	} `yaml:"build"`
}

func runVersion(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet(CmdNameVersion, flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	var format string
	fs.StringVar(&format, FlagFormat, FlagDefaultFormat, "")
	fs.StringVar(&format, FlagFormatShort, FlagDefaultFormat, "")

	err := fs.Parse(args)
	if err == nil && format != OutputFormatText && format != OutputFormatJSON {
		err = errors.New(ErrMsgInvalidFormat)
	}
	if err != nil {
		fmt.Fprintf(stderr, FmtErrorWithCause, ErrMsgInvalidFormat, err)
		return ExitCodeUsageError
	}

	info := currentVersion()
	if format == OutputFormatJSON {
		jsonBytes, _ := json.MarshalIndent(info, "", "  ")
		fmt.Fprintln(stdout, string(jsonBytes))
		return ExitCodeSuccess
	}

	fmt.Fprintf(stdout, VersionTextTemplate+FmtNewline,
		info.Version, info.Commit, info.Branch, info.BuildTime, info.GoVersion)
	return ExitCodeSuccess
}

// currentVersion layers linker flags over versions.yaml over the module
// build info. Missing values are reported as unknown.
func currentVersion() *versionInfo {
	info := &versionInfo{GoVersion: runtime.Version()}

	if bi, ok := debug.ReadBuildInfo(); ok && bi.Main.Version != "" && bi.Main.Version != "(devel)" {
		info.Version = bi.Main.Version
	}

	for _, path := range versionsFileCandidates {
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		var vf versionsFile
		if err := yaml.Unmarshal(data, &vf); err != nil {
			continue
		}
		info.Version = firstNonEmpty(vf.Project.Version, info.Version)
		info.Commit = vf.Git.Commit
		info.Branch = vf.Git.Branch
		info.BuildTime = vf.Build.Time
		break
	}

	info.Version = firstNonEmpty(buildVersion, info.Version, VersionUnknown)
	info.Commit = firstNonEmpty(buildCommit, info.Commit, VersionUnknown)
	info.Branch = firstNonEmpty(buildBranch, info.Branch, VersionUnknown)
	info.BuildTime = firstNonEmpty(buildTime, info.BuildTime, VersionUnknown)
	return info
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
