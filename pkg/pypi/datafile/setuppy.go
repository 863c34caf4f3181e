// Copyright 2026 The pymeta Authors
// SPDX-License-Identifier: Apache-2.0

package datafile

import (
	"sort"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/util"
	"github.com/pkg/errors"

	"github.com/ossmeta/pymeta/pkg/pypi"
	"github.com/ossmeta/pymeta/pkg/pypi/setuppy"
	"github.com/ossmeta/pymeta/pkg/pypi/verguess"
)

const setupPyID = "pypi_setup_py"

var setupPyHandler = Handler{
	DatasourceID:     setupPyID,
	Description:      "Python setup.py",
	DocumentationURL: "https://docs.python.org/3/distutils/setupscript.html",
	PathPatterns:     []string{"*setup.py"},
	Parse:            parseSetupPy,
}

func parseSetupPy(fs billy.Filesystem, p string) ([]*pypi.PackageRecord, error) {
	content, err := util.ReadFile(fs, p)
	if err != nil {
		return nil, errors.Wrapf(err, "reading %s", p)
	}
	args := setuppy.ExtractArgs(content)

	rec := pypi.NewRecord(setupPyID)
	// a name-less package may be legitimate; do not fail on it
	rec.Name = args.Get("name")
	rec.Version = args.Get("version")
	if rec.Version == "" {
		// the version is often computed from a module sentinel rather
		// than written as a literal
		rec.Version = verguess.DetectVersion(fs, p)
	}
	rec.Description = pypi.Description(args)
	rec.DeclaredLicense = pypi.License(args)
	rec.Keywords = pypi.Keywords(args)
	rec.Parties = pypi.Parties(args)
	rec.Dependencies = setupArgsDependencies(args)
	rec.PartialExtraction = args.Dropped
	pypi.SourceURLs(args).Apply(rec)
	rec.ApplyRegistryURLs()
	return []*pypi.PackageRecord{rec}, nil
}

// setupArgsDependencies collects the requirement list arguments of
// setup(), each under its own scope, with extras groups treated as
// scopes of their own.
func setupArgsDependencies(args *setuppy.Args) []pypi.DependentPackage {
	var deps []pypi.DependentPackage
	deps = append(deps, pypi.Dependencies(args.GetList("install_requires"), pypi.InstallDefaults)...)
	deps = append(deps, pypi.Dependencies(args.GetList("tests_require"), pypi.ScopeDefaults("tests"))...)
	deps = append(deps, pypi.Dependencies(args.GetList("setup_requires"), pypi.ScopeDefaults("setup"))...)

	extras := args.GetMap("extras_require")
	groups := make([]string, 0, len(extras))
	for group := range extras {
		groups = append(groups, group)
	}
	sort.Strings(groups)
	for _, group := range groups {
		var requires []string
		switch v := extras[group].(type) {
		case []string:
			requires = v
		case string:
			requires = []string{v}
		}
		deps = append(deps, pypi.Dependencies(requires, pypi.ScopeDefaults(group))...)
	}
	return deps
}
