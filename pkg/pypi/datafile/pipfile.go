// Copyright 2026 The pymeta Authors
// SPDX-License-Identifier: Apache-2.0

package datafile

import (
	"encoding/json"
	"sort"
	"strings"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/util"
	"github.com/pelletier/go-toml/v2"
	"github.com/pkg/errors"

	"github.com/ossmeta/pymeta/pkg/pypi"
	"github.com/ossmeta/pymeta/pkg/pypi/pep508"
)

const (
	pipfileID     = "pipfile"
	pipfileLockID = "pipfile_lock"
)

var pipfileHandler = Handler{
	DatasourceID:     pipfileID,
	Description:      "Pipfile",
	DocumentationURL: "https://pipenv.pypa.io/en/latest/pipfile.html",
	PathPatterns:     []string{"*Pipfile"},
	Parse:            parsePipfile,
}

var pipfileLockHandler = Handler{
	DatasourceID:     pipfileLockID,
	Description:      "Pipfile.lock",
	DocumentationURL: "https://pipenv.pypa.io/en/latest/pipfile.html",
	PathPatterns:     []string{"*Pipfile.lock"},
	Parse:            parsePipfileLock,
}

type pipfileDocument struct {
	Packages    map[string]any `toml:"packages"`
	DevPackages map[string]any `toml:"dev-packages"`
}

func parsePipfile(fs billy.Filesystem, p string) ([]*pypi.PackageRecord, error) {
	content, err := util.ReadFile(fs, p)
	if err != nil {
		return nil, errors.Wrapf(err, "reading %s", p)
	}
	var doc pipfileDocument
	if err := toml.Unmarshal(content, &doc); err != nil {
		return nil, errors.Wrapf(err, "decoding %s", p)
	}
	rec := pypi.NewRecord(pipfileID)
	rec.Dependencies = pipfileDependencies(doc.Packages, pypi.InstallDefaults)
	rec.Dependencies = append(rec.Dependencies,
		pipfileDependencies(doc.DevPackages, pypi.DevelopmentDefaults)...)
	return []*pypi.PackageRecord{rec}, nil
}

// pipfileDependencies converts a Pipfile package table. A value is
// either a constraint string ("*", "==1.4") or a table with a version
// key.
func pipfileDependencies(table map[string]any, defaults pypi.DependencyDefaults) []pypi.DependentPackage {
	names := make([]string, 0, len(table))
	for name := range table {
		names = append(names, name)
	}
	sort.Strings(names)
	var deps []pypi.DependentPackage
	for _, name := range names {
		constraint := pipfileConstraint(table[name])
		raw := name
		if constraint != "" && constraint != "*" {
			raw += constraint
		}
		req, err := pep508.ParseRequirement(raw)
		if err != nil {
			continue
		}
		deps = append(deps, pypi.Dependency(req, defaults))
	}
	return deps
}

func pipfileConstraint(v any) string {
	switch c := v.(type) {
	case string:
		return c
	case map[string]any:
		if version, ok := c["version"].(string); ok {
			return version
		}
	}
	return ""
}

type pipfileLockDocument struct {
	Meta struct {
		Hash struct {
			SHA256 string `json:"sha256"`
		} `json:"hash"`
	} `json:"_meta"`
	Default map[string]pipfileLockEntry `json:"default"`
	Develop map[string]pipfileLockEntry `json:"develop"`
}

type pipfileLockEntry struct {
	Version string `json:"version"`
}

func parsePipfileLock(fs billy.Filesystem, p string) ([]*pypi.PackageRecord, error) {
	content, err := util.ReadFile(fs, p)
	if err != nil {
		return nil, errors.Wrapf(err, "reading %s", p)
	}
	var doc pipfileLockDocument
	if err := json.Unmarshal(content, &doc); err != nil {
		return nil, errors.Wrapf(err, "decoding %s", p)
	}
	rec := pypi.NewRecord(pipfileLockID)
	rec.SHA256 = doc.Meta.Hash.SHA256
	rec.Dependencies = pipfileLockDependencies(doc.Default, pypi.InstallDefaults)
	rec.Dependencies = append(rec.Dependencies,
		pipfileLockDependencies(doc.Develop, pypi.DevelopmentDefaults)...)
	return []*pypi.PackageRecord{rec}, nil
}

// pipfileLockDependencies converts a lock section. Lock entries carry
// exact "==version" pins, so they resolve through the usual pinning
// rule; entries with an unexpected constraint stay unresolved.
func pipfileLockDependencies(section map[string]pipfileLockEntry, defaults pypi.DependencyDefaults) []pypi.DependentPackage {
	names := make([]string, 0, len(section))
	for name := range section {
		names = append(names, name)
	}
	sort.Strings(names)
	var deps []pypi.DependentPackage
	for _, name := range names {
		raw := name + strings.TrimSpace(section[name].Version)
		req, err := pep508.ParseRequirement(raw)
		if err != nil {
			continue
		}
		deps = append(deps, pypi.Dependency(req, defaults))
	}
	return deps
}
