// Copyright 2026 The pymeta Authors
// SPDX-License-Identifier: Apache-2.0

package datafile

import (
	"net/mail"
	"regexp"
	"sort"
	"strings"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/util"
	"github.com/pelletier/go-toml/v2"
	"github.com/pkg/errors"

	"github.com/ossmeta/pymeta/pkg/pypi"
	"github.com/ossmeta/pymeta/pkg/pypi/pep508"
)

const pyprojectID = "pypi_pyproject_toml"

var pyprojectHandler = Handler{
	DatasourceID:     pyprojectID,
	Description:      "Python pyproject.toml",
	DocumentationURL: "https://peps.python.org/pep-0621/",
	PathPatterns:     []string{"*pyproject.toml"},
	Parse:            parsePyproject,
}

type pep621Contact struct {
	Name  string `toml:"name"`
	Email string `toml:"email"`
}

type pep621Project struct {
	Name                 string              `toml:"name"`
	Version              string              `toml:"version"`
	Description          string              `toml:"description"`
	License              any                 `toml:"license"`
	Keywords             []string            `toml:"keywords"`
	Classifiers          []string            `toml:"classifiers"`
	Authors              []pep621Contact     `toml:"authors"`
	Maintainers          []pep621Contact     `toml:"maintainers"`
	URLs                 map[string]string   `toml:"urls"`
	Dependencies         []string            `toml:"dependencies"`
	OptionalDependencies map[string][]string `toml:"optional-dependencies"`
}

type poetryGroup struct {
	Dependencies map[string]any `toml:"dependencies"`
}

type poetryProject struct {
	Name            string                 `toml:"name"`
	Version         string                 `toml:"version"`
	Description     string                 `toml:"description"`
	License         string                 `toml:"license"`
	Keywords        []string               `toml:"keywords"`
	Classifiers     []string               `toml:"classifiers"`
	Authors         []string               `toml:"authors"`
	Maintainers     []string               `toml:"maintainers"`
	Homepage        string                 `toml:"homepage"`
	Repository      string                 `toml:"repository"`
	Documentation   string                 `toml:"documentation"`
	URLs            map[string]string      `toml:"urls"`
	Dependencies    map[string]any         `toml:"dependencies"`
	DevDependencies map[string]any         `toml:"dev-dependencies"`
	Group           map[string]poetryGroup `toml:"group"`
}

type pyprojectFile struct {
	Project pep621Project `toml:"project"`
	Tool    struct {
		Poetry poetryProject `toml:"poetry"`
	} `toml:"tool"`
	BuildSystem struct {
		Requires []string `toml:"requires"`
	} `toml:"build-system"`
}

func parsePyproject(fs billy.Filesystem, p string) ([]*pypi.PackageRecord, error) {
	content, err := util.ReadFile(fs, p)
	if err != nil {
		return nil, errors.Wrapf(err, "reading %s", p)
	}
	var file pyprojectFile
	if err := toml.Unmarshal(content, &file); err != nil {
		return nil, errors.Wrapf(err, "decoding %s", p)
	}

	var rec *pypi.PackageRecord
	if file.Project.Name != "" {
		rec = pep621Record(file.Project)
	} else if file.Tool.Poetry.Name != "" {
		rec = poetryRecord(file.Tool.Poetry)
	} else {
		rec = pypi.NewRecord(pyprojectID)
	}
	rec.Dependencies = append(rec.Dependencies,
		pypi.Dependencies(file.BuildSystem.Requires, pypi.ScopeDefaults("build"))...)
	rec.ApplyRegistryURLs()
	return []*pypi.PackageRecord{rec}, nil
}

func pep621Record(project pep621Project) *pypi.PackageRecord {
	rec := pypi.NewRecord(pyprojectID)
	rec.Name = project.Name
	rec.Version = project.Version
	rec.Description = project.Description

	src := pypi.MapSource{
		"keywords":    project.Keywords,
		"classifiers": project.Classifiers,
		"license":     pep621LicenseText(project.License),
	}
	rec.DeclaredLicense = pypi.License(src)
	rec.Keywords = pypi.Keywords(src)

	for _, c := range project.Authors {
		if c.Name != "" || c.Email != "" {
			rec.Parties = append(rec.Parties, pypi.Party{
				Type: pypi.PartyPerson, Role: pypi.RoleAuthor, Name: c.Name, Email: c.Email})
		}
	}
	for _, c := range project.Maintainers {
		if c.Name != "" || c.Email != "" {
			rec.Parties = append(rec.Parties, pypi.Party{
				Type: pypi.PartyPerson, Role: pypi.RoleMaintainer, Name: c.Name, Email: c.Email})
		}
	}

	rec.Dependencies = pypi.Dependencies(project.Dependencies, pypi.InstallDefaults)
	groups := make([]string, 0, len(project.OptionalDependencies))
	for group := range project.OptionalDependencies {
		groups = append(groups, group)
	}
	sort.Strings(groups)
	for _, group := range groups {
		rec.Dependencies = append(rec.Dependencies,
			pypi.Dependencies(project.OptionalDependencies[group], pypi.ScopeDefaults(group))...)
	}

	var labeled []pypi.LabeledURL
	labels := make([]string, 0, len(project.URLs))
	for label := range project.URLs {
		labels = append(labels, label)
	}
	sort.Strings(labels)
	for _, label := range labels {
		labeled = append(labeled, pypi.LabeledURL{Label: label, URL: project.URLs[label]})
	}
	pypi.ClassifyURLs("", labeled, "").Apply(rec)
	return rec
}

// pep621LicenseText accepts the string form and the {text = "..."}
// table form of the PEP 621 license field.
func pep621LicenseText(v any) string {
	switch l := v.(type) {
	case string:
		return l
	case map[string]any:
		if text, ok := l["text"].(string); ok {
			return text
		}
	}
	return ""
}

func poetryRecord(project poetryProject) *pypi.PackageRecord {
	rec := pypi.NewRecord(pyprojectID)
	rec.Name = project.Name
	rec.Version = project.Version
	rec.Description = project.Description

	src := pypi.MapSource{
		"keywords":    project.Keywords,
		"classifiers": project.Classifiers,
		"license":     project.License,
	}
	rec.DeclaredLicense = pypi.License(src)
	rec.Keywords = pypi.Keywords(src)

	for _, a := range project.Authors {
		rec.Parties = append(rec.Parties, poetryContact(a, pypi.RoleAuthor))
	}
	for _, m := range project.Maintainers {
		rec.Parties = append(rec.Parties, poetryContact(m, pypi.RoleMaintainer))
	}

	rec.Dependencies = poetryDependencies(project.Dependencies, pypi.InstallDefaults)
	rec.Dependencies = append(rec.Dependencies,
		poetryDependencies(project.DevDependencies, pypi.DevelopmentDefaults)...)
	groups := make([]string, 0, len(project.Group))
	for group := range project.Group {
		groups = append(groups, group)
	}
	sort.Strings(groups)
	for _, group := range groups {
		defaults := pypi.ScopeDefaults(group)
		if group == "dev" {
			defaults = pypi.DevelopmentDefaults
		}
		rec.Dependencies = append(rec.Dependencies,
			poetryDependencies(project.Group[group].Dependencies, defaults)...)
	}

	var labeled []pypi.LabeledURL
	if project.Repository != "" {
		labeled = append(labeled, pypi.LabeledURL{Label: "Repository", URL: project.Repository})
	}
	if project.Documentation != "" {
		labeled = append(labeled, pypi.LabeledURL{Label: "Documentation", URL: project.Documentation})
	}
	labels := make([]string, 0, len(project.URLs))
	for label := range project.URLs {
		labels = append(labels, label)
	}
	sort.Strings(labels)
	for _, label := range labels {
		labeled = append(labeled, pypi.LabeledURL{Label: label, URL: project.URLs[label]})
	}
	pypi.ClassifyURLs(project.Homepage, labeled, "").Apply(rec)
	return rec
}

// poetryContact splits the "Name <email>" convention poetry uses.
func poetryContact(s, role string) pypi.Party {
	party := pypi.Party{Type: pypi.PartyPerson, Role: role, Name: strings.TrimSpace(s)}
	if addr, err := mail.ParseAddress(s); err == nil {
		party.Name = addr.Name
		party.Email = addr.Address
	}
	return party
}

var plainVersion = regexp.MustCompile(`^[0-9][0-9a-zA-Z.+!-]*$`)

// poetryDependencies converts a poetry dependency table. The python
// interpreter constraint is not a package dependency and is skipped;
// caret/tilde and multi-clause constraints stay unresolved.
func poetryDependencies(table map[string]any, defaults pypi.DependencyDefaults) []pypi.DependentPackage {
	names := make([]string, 0, len(table))
	for name := range table {
		if name != "python" {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	var deps []pypi.DependentPackage
	for _, name := range names {
		constraint := poetryConstraint(table[name])
		deps = append(deps, poetryDependency(name, constraint, defaults))
	}
	return deps
}

func poetryConstraint(v any) string {
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

func poetryDependency(name, constraint string, defaults pypi.DependencyDefaults) pypi.DependentPackage {
	canonical := pep508.CanonicalizeName(name)
	version := ""
	resolved := false
	switch {
	case strings.HasPrefix(constraint, "=="):
		if v := strings.TrimSpace(constraint[2:]); plainVersion.MatchString(v) {
			version, resolved = v, true
		}
	case plainVersion.MatchString(constraint):
		// a bare version is an exact pin in poetry
		version, resolved = constraint, true
	}
	extracted := constraint
	if extracted == "*" {
		extracted = ""
	}
	return pypi.DependentPackage{
		Purl:                 pypi.PackageURL(canonical, version),
		Scope:                defaults.Scope,
		IsRuntime:            defaults.Runtime,
		IsOptional:           defaults.Optional,
		IsResolved:           resolved,
		ExtractedRequirement: extracted,
	}
}
