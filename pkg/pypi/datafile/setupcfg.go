// Copyright 2026 The pymeta Authors
// SPDX-License-Identifier: Apache-2.0

package datafile

import (
	"sort"

	"github.com/go-git/go-billy/v5"
	"github.com/pkg/errors"

	"github.com/ossmeta/pymeta/pkg/ini"
	"github.com/ossmeta/pymeta/pkg/pypi"
)

const setupCfgID = "pypi_setup_cfg"

var setupCfgHandler = Handler{
	DatasourceID:     setupCfgID,
	Description:      "Python setup.cfg",
	DocumentationURL: "https://peps.python.org/pep-0390/",
	PathPatterns:     []string{"*setup.cfg"},
	Parse:            parseSetupCfg,
}

func parseSetupCfg(fs billy.Filesystem, p string) ([]*pypi.PackageRecord, error) {
	f, err := fs.Open(p)
	if err != nil {
		return nil, errors.Wrapf(err, "opening %s", p)
	}
	defer f.Close()

	cfg, err := ini.Parse(f)
	if err != nil {
		return nil, errors.Wrapf(err, "parsing %s", p)
	}

	rec := pypi.NewRecord(setupCfgID)
	meta := map[string]any{}
	if s := cfg.Section("metadata"); s != nil {
		for _, key := range []string{"name", "version", "license", "url", "author", "author_email"} {
			if v, ok := s.Get(key); ok && v != "" {
				meta[key] = v
			}
		}
	}
	src := pypi.MapSource(meta)
	rec.Name = pypi.Lookup(src, "name")
	rec.Version = pypi.Lookup(src, "version")
	rec.DeclaredLicense = pypi.License(src)
	rec.Parties = pypi.Parties(src)
	rec.HomepageURL = pypi.Lookup(src, "url")
	rec.Dependencies = setupCfgDependencies(cfg)
	rec.ApplyRegistryURLs()
	return []*pypi.PackageRecord{rec}, nil
}

func setupCfgDependencies(cfg *ini.File) []pypi.DependentPackage {
	var deps []pypi.DependentPackage
	opts := cfg.Section("options")
	if opts != nil {
		deps = append(deps, pypi.Dependencies(opts.List("install_requires"), pypi.InstallDefaults)...)
		deps = append(deps, pypi.Dependencies(opts.List("tests_require"), pypi.ScopeDefaults("tests"))...)
		deps = append(deps, pypi.Dependencies(opts.List("setup_requires"), pypi.ScopeDefaults("setup"))...)
	}

	// extras groups appear as keys of [options.extras_require] and,
	// in some projects, as dotted [options.extras_require.group]
	// sections
	groups := map[string][]string{}
	if s := cfg.Section("options.extras_require"); s != nil {
		for key := range s.Values {
			groups[key] = s.List(key)
		}
	}
	for name, s := range cfg.SectionsWithPrefix("options.extras_require.") {
		keys := make([]string, 0, len(s.Values))
		for key := range s.Values {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		var requires []string
		for _, key := range keys {
			requires = append(requires, s.List(key)...)
		}
		groups[name] = requires
	}
	names := make([]string, 0, len(groups))
	for name := range groups {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		deps = append(deps, pypi.Dependencies(groups[name], pypi.ScopeDefaults(name))...)
	}
	return deps
}
