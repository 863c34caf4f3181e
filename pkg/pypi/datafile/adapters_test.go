// Copyright 2026 The pymeta Authors
// SPDX-License-Identifier: Apache-2.0

package datafile

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/ossmeta/pymeta/pkg/pypi"
)

func TestParseSetupPy(t *testing.T) {
	fs := writeTree(t, map[string]string{
		"setup.py": `
from setuptools import setup

setup(
    name="sampleproject",
    version="3.0.0",
    description="A sample Python project",
    license="MIT",
    author="A. Random Developer",
    author_email="author@example.com",
    url="https://github.com/pypa/sampleproject",
    keywords="sample,setuptools",
    install_requires=["peppercorn", "requests>=2.20"],
    tests_require=["pytest"],
    extras_require={"dev": ["check-manifest"]},
)
`,
	})
	records, err := parseSetupPy(fs, "setup.py")
	if err != nil {
		t.Fatalf("parseSetupPy() failed: %v", err)
	}
	rec := records[0]
	if rec.Name != "sampleproject" || rec.Version != "3.0.0" {
		t.Errorf("name/version = %q/%q", rec.Name, rec.Version)
	}
	if rec.DeclaredLicense.License != "MIT" {
		t.Errorf("license = %+v", rec.DeclaredLicense)
	}
	if rec.HomepageURL != "https://github.com/pypa/sampleproject" {
		t.Errorf("homepage = %q", rec.HomepageURL)
	}
	if rec.PartialExtraction {
		t.Error("PartialExtraction = true for fully literal setup()")
	}
	wantDeps := []pypi.DependentPackage{
		{Purl: "pkg:pypi/peppercorn", Scope: "install", IsRuntime: true},
		{Purl: "pkg:pypi/requests", Scope: "install", IsRuntime: true, ExtractedRequirement: ">=2.20"},
		{Purl: "pkg:pypi/pytest", Scope: "tests", IsRuntime: true},
		{Purl: "pkg:pypi/check-manifest", Scope: "dev", IsRuntime: true},
	}
	if diff := cmp.Diff(wantDeps, rec.Dependencies); diff != "" {
		t.Errorf("dependencies mismatch (-want +got):\n%s", diff)
	}
	wantParties := []pypi.Party{{
		Type: "person", Role: "author",
		Name: "A. Random Developer", Email: "author@example.com",
	}}
	if diff := cmp.Diff(wantParties, rec.Parties); diff != "" {
		t.Errorf("parties mismatch (-want +got):\n%s", diff)
	}
}

func TestParseSetupPyVersionRecovery(t *testing.T) {
	fs := writeTree(t, map[string]string{
		"setup.py": `
import pkg
setup(
    name="pkg",
    version=pkg.__version__,
)
`,
		"pkg/__init__.py": "__version__ = '2.7.1'\n",
	})
	records, err := parseSetupPy(fs, "setup.py")
	if err != nil {
		t.Fatalf("parseSetupPy() failed: %v", err)
	}
	if got := records[0].Version; got != "2.7.1" {
		t.Errorf("Version = %q, want %q", got, "2.7.1")
	}
	if !records[0].PartialExtraction {
		t.Error("PartialExtraction = false after dropping a non-literal argument")
	}
}

func TestParseSetupCfg(t *testing.T) {
	fs := writeTree(t, map[string]string{
		"setup.cfg": `[metadata]
name = sampleproject
version = 3.0.0
license = MIT
url = https://example.com
author = Dev
author_email = dev@example.com

[options]
install_requires =
    peppercorn
    requests>=2.20
tests_require =
    pytest

[options.extras_require]
dev =
    check-manifest
`,
	})
	records, err := parseSetupCfg(fs, "setup.cfg")
	if err != nil {
		t.Fatalf("parseSetupCfg() failed: %v", err)
	}
	rec := records[0]
	if rec.Name != "sampleproject" || rec.Version != "3.0.0" {
		t.Errorf("name/version = %q/%q", rec.Name, rec.Version)
	}
	if rec.HomepageURL != "https://example.com" {
		t.Errorf("homepage = %q", rec.HomepageURL)
	}
	wantDeps := []pypi.DependentPackage{
		{Purl: "pkg:pypi/peppercorn", Scope: "install", IsRuntime: true},
		{Purl: "pkg:pypi/requests", Scope: "install", IsRuntime: true, ExtractedRequirement: ">=2.20"},
		{Purl: "pkg:pypi/pytest", Scope: "tests", IsRuntime: true},
		{Purl: "pkg:pypi/check-manifest", Scope: "dev", IsRuntime: true},
	}
	if diff := cmp.Diff(wantDeps, rec.Dependencies); diff != "" {
		t.Errorf("dependencies mismatch (-want +got):\n%s", diff)
	}
}

func TestParsePyprojectPEP621(t *testing.T) {
	fs := writeTree(t, map[string]string{
		"pyproject.toml": `[build-system]
requires = ["setuptools>=61.0"]

[project]
name = "sampleproject"
version = "3.0.0"
description = "A sample Python project"
keywords = ["sample", "setuptools"]
license = { text = "MIT" }
classifiers = [
    "License :: OSI Approved :: MIT License",
    "Programming Language :: Python :: 3",
]
dependencies = ["peppercorn", "requests>=2.20"]
authors = [{ name = "A. Random Developer", email = "author@example.com" }]

[project.optional-dependencies]
dev = ["check-manifest"]

[project.urls]
Homepage = "https://github.com/pypa/sampleproject"
Issues = "https://github.com/pypa/sampleproject/issues"
`,
	})
	records, err := parsePyproject(fs, "pyproject.toml")
	if err != nil {
		t.Fatalf("parsePyproject() failed: %v", err)
	}
	rec := records[0]
	if rec.Name != "sampleproject" || rec.Version != "3.0.0" {
		t.Errorf("name/version = %q/%q", rec.Name, rec.Version)
	}
	if rec.DeclaredLicense.License != "MIT" {
		t.Errorf("license = %+v", rec.DeclaredLicense)
	}
	wantKeywords := []string{"sample", "setuptools", "Programming Language :: Python :: 3"}
	if diff := cmp.Diff(wantKeywords, rec.Keywords); diff != "" {
		t.Errorf("keywords mismatch (-want +got):\n%s", diff)
	}
	if rec.HomepageURL != "https://github.com/pypa/sampleproject" {
		t.Errorf("homepage = %q", rec.HomepageURL)
	}
	if rec.BugTrackingURL != "https://github.com/pypa/sampleproject/issues" {
		t.Errorf("bug tracking = %q", rec.BugTrackingURL)
	}
	wantDeps := []pypi.DependentPackage{
		{Purl: "pkg:pypi/peppercorn", Scope: "install", IsRuntime: true},
		{Purl: "pkg:pypi/requests", Scope: "install", IsRuntime: true, ExtractedRequirement: ">=2.20"},
		{Purl: "pkg:pypi/check-manifest", Scope: "dev", IsRuntime: true},
		{Purl: "pkg:pypi/setuptools", Scope: "build", IsRuntime: true, ExtractedRequirement: ">=61.0"},
	}
	if diff := cmp.Diff(wantDeps, rec.Dependencies); diff != "" {
		t.Errorf("dependencies mismatch (-want +got):\n%s", diff)
	}
}

func TestParsePyprojectPoetry(t *testing.T) {
	fs := writeTree(t, map[string]string{
		"pyproject.toml": `[tool.poetry]
name = "poempkg"
version = "0.4.0"
description = "A poetry managed package"
license = "Apache-2.0"
authors = ["Jane Dev <jane@example.com>"]
homepage = "https://example.com"
repository = "https://github.com/o/poempkg"

[tool.poetry.dependencies]
python = "^3.9"
requests = "^2.20"
tomlkit = "0.11.6"
rich = { version = ">=13.0", optional = true }

[tool.poetry.group.dev.dependencies]
pytest = "^7.0"
`,
	})
	records, err := parsePyproject(fs, "pyproject.toml")
	if err != nil {
		t.Fatalf("parsePyproject() failed: %v", err)
	}
	rec := records[0]
	if rec.Name != "poempkg" || rec.Version != "0.4.0" {
		t.Errorf("name/version = %q/%q", rec.Name, rec.Version)
	}
	wantParties := []pypi.Party{{
		Type: "person", Role: "author", Name: "Jane Dev", Email: "jane@example.com",
	}}
	if diff := cmp.Diff(wantParties, rec.Parties); diff != "" {
		t.Errorf("parties mismatch (-want +got):\n%s", diff)
	}
	if rec.HomepageURL != "https://example.com" || rec.VCSURL != "https://github.com/o/poempkg" {
		t.Errorf("urls = %q / %q", rec.HomepageURL, rec.VCSURL)
	}
	wantDeps := []pypi.DependentPackage{
		{Purl: "pkg:pypi/requests", Scope: "install", IsRuntime: true, ExtractedRequirement: "^2.20"},
		{Purl: "pkg:pypi/rich", Scope: "install", IsRuntime: true, ExtractedRequirement: ">=13.0"},
		{Purl: "pkg:pypi/tomlkit@0.11.6", Scope: "install", IsRuntime: true, IsResolved: true, ExtractedRequirement: "0.11.6"},
		{Purl: "pkg:pypi/pytest", Scope: "development", IsOptional: true, ExtractedRequirement: "^7.0"},
	}
	if diff := cmp.Diff(wantDeps, rec.Dependencies); diff != "" {
		t.Errorf("dependencies mismatch (-want +got):\n%s", diff)
	}
}

func TestParseRequirementsFile(t *testing.T) {
	fs := writeTree(t, map[string]string{
		"requirements.txt": `# runtime deps
requests==2.31.0
flask>=2.0 \
    ,<3.0
peppercorn
-e git+https://github.com/pypa/sampleproject.git#egg=sampleproject
-r other.txt
--index-url https://pypi.example.com/simple
`,
	})
	records, err := parseRequirements(fs, "requirements.txt")
	if err != nil {
		t.Fatalf("parseRequirements() failed: %v", err)
	}
	want := []pypi.DependentPackage{
		{Purl: "pkg:pypi/requests@2.31.0", Scope: "install", IsRuntime: true, IsResolved: true, ExtractedRequirement: "==2.31.0"},
		{Purl: "pkg:pypi/flask", Scope: "install", IsRuntime: true, ExtractedRequirement: "<3.0,>=2.0"},
		// an unconstrained name keeps the raw line
		{Purl: "pkg:pypi/peppercorn", Scope: "install", IsRuntime: true, ExtractedRequirement: "peppercorn"},
		// an editable install keeps its target, name omitted
		{Scope: "install", IsRuntime: true, ExtractedRequirement: "git+https://github.com/pypa/sampleproject.git#egg=sampleproject"},
		{Scope: "install", IsRuntime: true, ExtractedRequirement: "-r other.txt"},
		{Scope: "install", IsRuntime: true, ExtractedRequirement: "--index-url https://pypi.example.com/simple"},
	}
	if diff := cmp.Diff(want, records[0].Dependencies); diff != "" {
		t.Errorf("dependencies mismatch (-want +got):\n%s", diff)
	}
}

// A dev-suffixed requirements file flips every entry to the development
// scope with the optional flag set.
func TestParseRequirementsDevFile(t *testing.T) {
	fs := writeTree(t, map[string]string{
		"requirements-dev.txt": "pytest==7.0\n",
	})
	records, err := parseRequirements(fs, "requirements-dev.txt")
	if err != nil {
		t.Fatalf("parseRequirements() failed: %v", err)
	}
	want := []pypi.DependentPackage{{
		Purl:                 "pkg:pypi/pytest@7.0",
		Scope:                "development",
		IsOptional:           true,
		IsResolved:           true,
		ExtractedRequirement: "==7.0",
	}}
	if diff := cmp.Diff(want, records[0].Dependencies); diff != "" {
		t.Errorf("dependencies mismatch (-want +got):\n%s", diff)
	}
}

func TestParsePipfile(t *testing.T) {
	fs := writeTree(t, map[string]string{
		"Pipfile": `[[source]]
url = "https://pypi.org/simple"

[packages]
requests = "==2.31.0"
flask = "*"
records = { version = ">=0.5.0" }

[dev-packages]
pytest = "==7.0"
`,
	})
	records, err := parsePipfile(fs, "Pipfile")
	if err != nil {
		t.Fatalf("parsePipfile() failed: %v", err)
	}
	want := []pypi.DependentPackage{
		{Purl: "pkg:pypi/flask", Scope: "install", IsRuntime: true},
		{Purl: "pkg:pypi/records", Scope: "install", IsRuntime: true, ExtractedRequirement: ">=0.5.0"},
		{Purl: "pkg:pypi/requests@2.31.0", Scope: "install", IsRuntime: true, IsResolved: true, ExtractedRequirement: "==2.31.0"},
		{Purl: "pkg:pypi/pytest@7.0", Scope: "development", IsOptional: true, IsResolved: true, ExtractedRequirement: "==7.0"},
	}
	if diff := cmp.Diff(want, records[0].Dependencies); diff != "" {
		t.Errorf("dependencies mismatch (-want +got):\n%s", diff)
	}
}

func TestParsePipfileLock(t *testing.T) {
	fs := writeTree(t, map[string]string{
		"Pipfile.lock": `{
    "_meta": {
        "hash": {
            "sha256": "abc123"
        }
    },
    "default": {
        "requests": {"version": "==2.31.0"},
        "urllib3": {"version": "==2.0.4"}
    },
    "develop": {
        "pytest": {"version": "==7.0"}
    }
}`,
	})
	records, err := parsePipfileLock(fs, "Pipfile.lock")
	if err != nil {
		t.Fatalf("parsePipfileLock() failed: %v", err)
	}
	rec := records[0]
	if rec.SHA256 != "abc123" {
		t.Errorf("SHA256 = %q", rec.SHA256)
	}
	want := []pypi.DependentPackage{
		{Purl: "pkg:pypi/requests@2.31.0", Scope: "install", IsRuntime: true, IsResolved: true, ExtractedRequirement: "==2.31.0"},
		{Purl: "pkg:pypi/urllib3@2.0.4", Scope: "install", IsRuntime: true, IsResolved: true, ExtractedRequirement: "==2.0.4"},
		{Purl: "pkg:pypi/pytest@7.0", Scope: "development", IsOptional: true, IsResolved: true, ExtractedRequirement: "==7.0"},
	}
	if diff := cmp.Diff(want, rec.Dependencies); diff != "" {
		t.Errorf("dependencies mismatch (-want +got):\n%s", diff)
	}
}

func TestParseCondaYaml(t *testing.T) {
	fs := writeTree(t, map[string]string{
		"environment.yml": `name: science
channels:
  - defaults
dependencies:
  - numpy=1.26.4
  - scipy=1.11.4=py311h64a7726_0
  - python>=3.11
  - pip
  - pip:
      - requests==2.31.0
      - flask
`,
	})
	records, err := parseCondaYaml(fs, "environment.yml")
	if err != nil {
		t.Fatalf("parseCondaYaml() failed: %v", err)
	}
	rec := records[0]
	if rec.Name != "science" {
		t.Errorf("Name = %q", rec.Name)
	}
	want := []pypi.DependentPackage{
		{Purl: "pkg:pypi/numpy@1.26.4", Scope: "install", IsRuntime: true, IsResolved: true, ExtractedRequirement: "numpy=1.26.4"},
		{Purl: "pkg:pypi/scipy@1.11.4", Scope: "install", IsRuntime: true, IsResolved: true, ExtractedRequirement: "scipy=1.11.4=py311h64a7726_0"},
		{Purl: "pkg:pypi/python", Scope: "install", IsRuntime: true, ExtractedRequirement: ">=3.11"},
		{Purl: "pkg:pypi/pip", Scope: "install", IsRuntime: true},
		{Purl: "pkg:pypi/requests@2.31.0", Scope: "install", IsRuntime: true, IsResolved: true, ExtractedRequirement: "==2.31.0"},
		{Purl: "pkg:pypi/flask", Scope: "install", IsRuntime: true},
	}
	if diff := cmp.Diff(want, rec.Dependencies); diff != "" {
		t.Errorf("dependencies mismatch (-want +got):\n%s", diff)
	}
}
