// Copyright 2026 The pymeta Authors
// SPDX-License-Identifier: Apache-2.0

// Package verguess recovers a package version that is not declared as
// a literal in its descriptor but computed from code, typically via a
// module-level `__version__` sentinel referenced by setup().
package verguess

import (
	"path"
	"regexp"
	"sort"
	"strings"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/util"
)

// maxWalkDepth bounds the candidate-file walk below the descriptor's
// directory. The bound trades completeness for determinism and cost.
const maxWalkDepth = 4

// moduleFileNames are conventional locations for a version sentinel,
// tried in this order.
var moduleFileNames = []string{
	"__init__.py",
	"__main__.py",
	"__version__.py",
	"__about__.py",
	"__version.py",
	"_version.py",
	"version.py",
	"VERSION.py",
	"package_data.py",
}

var (
	// A dunder sentinel is a stronger version signal than a plain
	// `version` variable, which commonly names something unrelated.
	dunderVersionPattern = regexp.MustCompile(`(?m)^__version__\s*=\s*['"]([^'"]*)['"]`)
	plainVersionPattern  = regexp.MustCompile(`(?m)^version\s*=\s*['"]([^'"]*)['"]`)
	versionArgPattern    = regexp.MustCompile(`(?m)^\s*version\s*=\s*(.*__version__)`)
)

func matchPattern(content string, pattern *regexp.Regexp) string {
	if m := pattern.FindStringSubmatch(content); m != nil {
		return strings.TrimSpace(m[1])
	}
	return ""
}

// FindDunderVersion returns the `__version__ = "..."` value assigned at
// line start in content, or "".
func FindDunderVersion(content string) string {
	return matchPattern(content, dunderVersionPattern)
}

// FindPlainVersion returns the `version = "..."` value assigned at line
// start in content, or "".
func FindPlainVersion(content string) string {
	return matchPattern(content, plainVersionPattern)
}

// findVersionArgExpr returns the right-hand side of a
// `version = <expr>.__version__` setup argument in content, or "".
func findVersionArgExpr(content string) string {
	return matchPattern(content, versionArgPattern)
}

// DetectVersion recovers a version for the descriptor at setupPath in
// fs. It first resolves the self-referential case (setup() passing the
// file's own `__version__`), then probes an ordered list of candidate
// module files derived from the dotted reference and from a bounded
// walk, with the dunder detector taking precedence over the plain one
// across the whole list. It returns "" when nothing matches.
func DetectVersion(fs billy.Filesystem, setupPath string) string {
	content, err := util.ReadFile(fs, setupPath)
	if err != nil {
		return ""
	}
	text := string(content)

	versionArg := findVersionArgExpr(text)
	ownDunder := FindDunderVersion(text)
	if versionArg == "__version__" && ownDunder != "" {
		return ownDunder
	}

	candidates := candidateLocations(fs, path.Dir(setupPath), versionArg)

	if v := detectInLocations(fs, candidates, FindDunderVersion); v != "" {
		return v
	}
	return detectInLocations(fs, candidates, FindPlainVersion)
}

// candidateLocations builds the ordered probe list: dotted-reference
// segment paths joined with each conventional module file name, at the
// descriptor's directory and under src/ when that exists, then a plain
// `<segment>.py` at both roots, then every conventionally named file
// found by the bounded walk.
func candidateLocations(fs billy.Filesystem, dir, versionArg string) []string {
	var segments []string
	if strings.Contains(versionArg, ".") {
		parts := strings.Split(versionArg, ".")
		segments = parts[:len(parts)-1]
	}

	srcDir := path.Join(dir, "src")
	hasSrc := false
	if fi, err := fs.Stat(srcDir); err == nil && fi.IsDir() {
		hasSrc = true
	}

	var locs []string
	if len(segments) > 0 {
		for _, name := range moduleFileNames {
			locs = append(locs, path.Join(append([]string{dir}, append(segments, name)...)...))
		}
		if hasSrc {
			for _, name := range moduleFileNames {
				locs = append(locs, path.Join(append([]string{srcDir}, append(segments, name)...)...))
			}
		}
		heads, tail := segments[:len(segments)-1], segments[len(segments)-1]
		locs = append(locs, path.Join(append([]string{dir}, append(heads, tail+".py")...)...))
		if hasSrc {
			locs = append(locs, path.Join(append([]string{srcDir}, append(heads, tail+".py")...)...))
		}
	}

	return append(locs, walkModuleFiles(fs, dir)...)
}

// walkModuleFiles yields conventionally named files below root, level
// by level, visiting directories in name order and stopping at the
// depth bound.
func walkModuleFiles(fs billy.Filesystem, root string) []string {
	interesting := map[string]bool{}
	for _, n := range moduleFileNames {
		interesting[n] = true
	}
	var found []string
	level := []string{root}
	for depth := 0; depth < maxWalkDepth && len(level) > 0; depth++ {
		var next []string
		for _, dir := range level {
			entries, err := fs.ReadDir(dir)
			if err != nil {
				continue
			}
			sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })
			for _, e := range entries {
				full := path.Join(dir, e.Name())
				if e.IsDir() {
					next = append(next, full)
				} else if interesting[e.Name()] {
					found = append(found, full)
				}
			}
		}
		level = next
	}
	return found
}

// detectInLocations runs detector over the candidate files in order and
// returns the first non-empty match. Missing files are skipped.
func detectInLocations(fs billy.Filesystem, locs []string, detector func(string) string) string {
	for _, loc := range locs {
		content, err := util.ReadFile(fs, loc)
		if err != nil {
			continue
		}
		if v := detector(string(content)); v != "" {
			return v
		}
	}
	return ""
}
