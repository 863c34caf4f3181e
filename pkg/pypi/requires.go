// Copyright 2026 The pymeta Authors
// SPDX-License-Identifier: Apache-2.0

package pypi

import (
	"github.com/ossmeta/pymeta/pkg/pypi/pep508"
)

// DependencyDefaults are the scope and flags a dependency gets when its
// own expression does not override them. A marker clause on the
// reserved "extra" variable replaces Scope.
type DependencyDefaults struct {
	Scope    string
	Runtime  bool
	Optional bool
}

// InstallDefaults mark ordinary runtime dependencies.
var InstallDefaults = DependencyDefaults{Scope: "install", Runtime: true}

// DevelopmentDefaults mark dependencies from development-only
// manifests, e.g. requirements files with a dev/test suffix.
var DevelopmentDefaults = DependencyDefaults{Scope: "development", Optional: true}

// ScopeDefaults are InstallDefaults with a different scope name, used
// for extras groups and setup/tests requires.
func ScopeDefaults(scope string) DependencyDefaults {
	return DependencyDefaults{Scope: scope, Runtime: true}
}

// Dependency converts a parsed requirement into a canonical dependency
// reference. The reference carries a version, and the dependency is
// resolved, exactly when the specifier set holds a single equality
// constraint. The extracted requirement is the canonical specifier-set
// string when any specifiers exist.
func Dependency(req *pep508.Requirement, defaults DependencyDefaults) DependentPackage {
	name := pep508.CanonicalizeName(req.Name)
	version, pinned := req.Specifiers.Pinned()
	if !pinned {
		version = ""
	}
	scope := defaults.Scope
	if extra := pep508.Extra(req.Marker); extra != "" {
		scope = extra
	}
	return DependentPackage{
		Purl:                 PackageURL(name, version),
		Scope:                scope,
		IsRuntime:            defaults.Runtime,
		IsOptional:           defaults.Optional,
		IsResolved:           pinned,
		ExtractedRequirement: req.Specifiers.String(),
	}
}

// Dependencies parses a list of raw requirement strings. A malformed
// entry is skipped; it never fails the whole list.
func Dependencies(requires []string, defaults DependencyDefaults) []DependentPackage {
	var deps []DependentPackage
	for _, raw := range requires {
		req, err := pep508.ParseRequirement(raw)
		if err != nil {
			continue
		}
		deps = append(deps, Dependency(req, defaults))
	}
	return deps
}
