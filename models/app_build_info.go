// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

// AppBuildInfo is the build metadata linked into the binary with -ldflags.
// Any field may be empty for local builds.
type AppBuildInfo struct {
	buildVersion string
	buildDate    string
	buildCommit  string
}

func NewAppBuildInfo(buildVersion, buildDate, buildCommit string) AppBuildInfo {
	return AppBuildInfo{
		buildVersion: buildVersion,
		buildDate:    buildDate,
		buildCommit:  buildCommit,
	}
}

func (a AppBuildInfo) BuildVersion() string { return a.buildVersion }

func (a AppBuildInfo) BuildDate() string { return a.buildDate }

func (a AppBuildInfo) BuildCommit() string { return a.buildCommit }

// Or returns a copy of a with every empty field set to fallback.
func (a AppBuildInfo) Or(fallback string) AppBuildInfo {
	or := func(s string) string {
		if s == "" {
			return fallback
		}
		return s
	}

	return AppBuildInfo{
		buildVersion: or(a.buildVersion),
		buildDate:    or(a.buildDate),
		buildCommit:  or(a.buildCommit),
	}
}
