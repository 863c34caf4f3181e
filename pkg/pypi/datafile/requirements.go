// Copyright 2026 The pymeta Authors
// SPDX-License-Identifier: Apache-2.0

package datafile

import (
	"bufio"
	"bytes"
	"path"
	"strings"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/util"
	"github.com/pkg/errors"

	"github.com/ossmeta/pymeta/pkg/pypi"
	"github.com/ossmeta/pymeta/pkg/pypi/pep508"
)

const requirementsID = "pip_requirements"

var requirementsHandler = Handler{
	DatasourceID:     requirementsID,
	Description:      "pip requirements file",
	DocumentationURL: "https://pip.pypa.io/en/latest/reference/requirements-file-format/",
	PathPatterns: []string{
		"*requirement*.txt",
		"*requirement*.pip",
		"*requirement*.in",
		"*requirements/*.txt",
		"*requirements/*.pip",
		"*requirements/*.in",
		"*requires.txt",
		"*reqs.txt",
	},
	Parse: parseRequirements,
}

// developmentSuffixes mark requirements files whose dependencies are
// development-only regardless of their content.
var developmentSuffixes = []string{"dev.txt", "test.txt", "tests.txt"}

func requirementsDefaults(p string) pypi.DependencyDefaults {
	base := strings.ToLower(path.Base(p))
	for _, suffix := range developmentSuffixes {
		if strings.HasSuffix(base, suffix) {
			return pypi.DevelopmentDefaults
		}
	}
	return pypi.InstallDefaults
}

func parseRequirements(fs billy.Filesystem, p string) ([]*pypi.PackageRecord, error) {
	content, err := util.ReadFile(fs, p)
	if err != nil {
		return nil, errors.Wrapf(err, "reading %s", p)
	}
	defaults := requirementsDefaults(p)
	rec := pypi.NewRecord(requirementsID)
	for _, line := range requirementLines(content) {
		rec.Dependencies = append(rec.Dependencies, requirementLineDependency(line, defaults))
	}
	return []*pypi.PackageRecord{rec}, nil
}

// requirementLines splits content into logical requirement lines:
// backslash continuations joined, comments stripped, blanks dropped.
func requirementLines(content []byte) []string {
	var lines []string
	var pending strings.Builder
	scanner := bufio.NewScanner(bytes.NewReader(content))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		if strings.HasSuffix(line, `\`) {
			pending.WriteString(strings.TrimSuffix(line, `\`))
			continue
		}
		pending.WriteString(line)
		logical := stripRequirementComment(pending.String())
		pending.Reset()
		if logical != "" {
			lines = append(lines, logical)
		}
	}
	return lines
}

// stripRequirementComment drops a trailing # comment. pip only treats
// # as a comment at line start or after whitespace, so URL fragments
// like #egg=name survive.
func stripRequirementComment(line string) string {
	if i := strings.Index(line, "#"); i == 0 {
		return ""
	} else if i > 0 && (line[i-1] == ' ' || line[i-1] == '\t') {
		line = line[:i]
	}
	return strings.TrimSpace(line)
}

// requirementLineDependency converts one logical line. A bare name
// keeps the raw line as its extracted requirement. Editable installs
// keep their target with the option prefix and name dropped. Other
// option lines (-r, --index-url and friends) and lines the grammar
// rejects keep their raw text with no package reference.
func requirementLineDependency(line string, defaults pypi.DependencyDefaults) pypi.DependentPackage {
	raw := line
	if target, ok := editableTarget(line); ok {
		raw = target
	} else if !strings.HasPrefix(line, "-") {
		if req, err := pep508.ParseRequirement(line); err == nil {
			dep := pypi.Dependency(req, defaults)
			if dep.ExtractedRequirement == "" {
				dep.ExtractedRequirement = line
			}
			return dep
		}
	}
	return pypi.DependentPackage{
		Scope:                defaults.Scope,
		IsRuntime:            defaults.Runtime,
		IsOptional:           defaults.Optional,
		ExtractedRequirement: raw,
	}
}

// editableTarget returns the install target of an editable option line.
func editableTarget(line string) (string, bool) {
	for _, opt := range []string{"-e ", "--editable ", "--editable="} {
		if target, ok := strings.CutPrefix(line, opt); ok {
			return strings.TrimSpace(target), true
		}
	}
	return "", false
}
