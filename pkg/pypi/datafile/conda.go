// Copyright 2026 The pymeta Authors
// SPDX-License-Identifier: Apache-2.0

package datafile

import (
	"strings"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/util"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/ossmeta/pymeta/pkg/pypi"
	"github.com/ossmeta/pymeta/pkg/pypi/pep508"
)

const condaYamlID = "conda_yaml"

var condaHandler = Handler{
	DatasourceID:     condaYamlID,
	Description:      "Conda environment yaml",
	DocumentationURL: "https://docs.conda.io/projects/conda/en/latest/user-guide/tasks/manage-environments.html",
	PathPatterns: []string{
		"*conda*.yaml",
		"*conda*.yml",
		"*environment*.yaml",
		"*environment*.yml",
	},
	Parse: parseCondaYaml,
}

type condaDocument struct {
	Name         string `yaml:"name"`
	Dependencies []any  `yaml:"dependencies"`
}

func parseCondaYaml(fs billy.Filesystem, p string) ([]*pypi.PackageRecord, error) {
	content, err := util.ReadFile(fs, p)
	if err != nil {
		return nil, errors.Wrapf(err, "reading %s", p)
	}
	var doc condaDocument
	if err := yaml.Unmarshal(content, &doc); err != nil {
		return nil, errors.Wrapf(err, "decoding %s", p)
	}
	rec := pypi.NewRecord(condaYamlID)
	rec.Name = doc.Name
	for _, entry := range doc.Dependencies {
		switch d := entry.(type) {
		case string:
			if dep, ok := condaDependency(d); ok {
				rec.Dependencies = append(rec.Dependencies, dep)
			}
		case map[string]any:
			// a nested pip block lists plain PEP 508 requirements
			pip, _ := d["pip"].([]any)
			for _, raw := range pip {
				s, _ := raw.(string)
				req, err := pep508.ParseRequirement(s)
				if err != nil {
					continue
				}
				rec.Dependencies = append(rec.Dependencies, pypi.Dependency(req, pypi.InstallDefaults))
			}
		}
	}
	return []*pypi.PackageRecord{rec}, nil
}

// condaDependency converts one conda match spec. The common
// "name=version" and "name=version=build" forms pin exactly; specs
// using comparison operators go through the requirement grammar.
func condaDependency(spec string) (pypi.DependentPackage, bool) {
	spec = strings.TrimSpace(spec)
	if spec == "" {
		return pypi.DependentPackage{}, false
	}
	if strings.Contains(spec, "=") && !strings.ContainsAny(spec, "<>!~") && !strings.Contains(spec, "==") {
		parts := strings.SplitN(spec, "=", 3)
		name := pep508.CanonicalizeName(parts[0])
		version := ""
		if len(parts) > 1 {
			version = parts[1]
		}
		return pypi.DependentPackage{
			Purl:                 pypi.PackageURL(name, version),
			Scope:                "install",
			IsRuntime:            true,
			IsResolved:           version != "",
			ExtractedRequirement: spec,
		}, true
	}
	req, err := pep508.ParseRequirement(spec)
	if err != nil {
		return pypi.DependentPackage{}, false
	}
	return pypi.Dependency(req, pypi.InstallDefaults), true
}
