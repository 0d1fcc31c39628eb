package model

import (
	"fmt"

	"golang.org/x/mod/semver"
)

// Version information for the spincell model checker.
const (
	// Version is the current version, in semantic version form.
	Version = "v0.1.0"

	// VersionMajor is the major version number.
	VersionMajor = 0

	// VersionMinor is the minor version number.
	VersionMinor = 1

	// VersionPatch is the patch version number.
	VersionPatch = 0
)

// Info provides information about the model checker.
type Info struct {
	// Version is the version string.
	Version string

	// Algorithm is the race detection algorithm used.
	Algorithm string

	// Exploration describes how schedules are enumerated.
	Exploration string

	// MaxThreads is the thread limit per execution.
	MaxThreads int
}

// GetInfo returns information about the model checker.
//
// Example:
//
//	info := model.GetInfo()
//	fmt.Printf("spincell %s (%s)\n", info.Version, info.Algorithm)
func GetInfo() Info {
	return Info{
		Version:     Version,
		Algorithm:   "FastTrack (PLDI 2009)",
		Exploration: "bounded-preemption DFS",
		MaxThreads:  MaxThreads,
	}
}

// Compatible reports whether code written against version required can use
// this version: same major version and not older. Versions before v1 are
// only compatible within the same minor version.
func Compatible(required string) (bool, error) {
	if !semver.IsValid(required) {
		return false, fmt.Errorf("model: invalid version %q", required)
	}

	if semver.Major(required) != semver.Major(Version) {
		return false, nil
	}
	if semver.Major(Version) == "v0" && semver.MajorMinor(required) != semver.MajorMinor(Version) {
		return false, nil
	}
	return semver.Compare(Version, required) >= 0, nil
}
