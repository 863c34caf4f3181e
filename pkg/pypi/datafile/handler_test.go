// Copyright 2026 The pymeta Authors
// SPDX-License-Identifier: Apache-2.0

package datafile

import "testing"

func TestHandlerFor(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"PKG-INFO", "pypi_sdist_pkginfo"},
		{"sampleproject-3.0.0/PKG-INFO", "pypi_sdist_pkginfo"},
		{"sampleproject-3.0.0/sample.egg-info/PKG-INFO", "pypi_sdist_pkginfo"},
		{"requests-2.31.0.dist-info/METADATA", "pypi_wheel_metadata"},
		{"site-packages/requests-2.31.0.dist-info/METADATA", "pypi_wheel_metadata"},
		{"requests-2.31.0-py3-none-any.whl", "pypi_wheel"},
		{"dist/pkg-1.0-py2.7.egg", "pypi_egg"},
		{"setup.py", "pypi_setup_py"},
		{"project/setup.py", "pypi_setup_py"},
		{"setup.cfg", "pypi_setup_cfg"},
		{"pyproject.toml", "pypi_pyproject_toml"},
		{"sub/dir/pyproject.toml", "pypi_pyproject_toml"},
		{"Pipfile", "pipfile"},
		{"Pipfile.lock", "pipfile_lock"},
		{"requirements.txt", "pip_requirements"},
		{"requirements-dev.txt", "pip_requirements"},
		{"requirements/base.in", "pip_requirements"},
		{"dev-requirements.pip", "pip_requirements"},
		{"reqs.txt", "pip_requirements"},
		{"environment.yml", "conda_yaml"},
		{"conda-env.yaml", "conda_yaml"},
		{"sampleproject-3.0.0.tar.gz", "pypi_sdist"},
		{"sampleproject-3.0.0.tar.bz2", "pypi_sdist"},
		{"sampleproject-3.0.0.zip", "pypi_sdist"},
	}
	for _, tc := range tests {
		h, ok := HandlerFor(tc.path)
		if !ok {
			t.Errorf("HandlerFor(%q) found no handler, want %s", tc.path, tc.want)
			continue
		}
		if h.DatasourceID != tc.want {
			t.Errorf("HandlerFor(%q) = %s, want %s", tc.path, h.DatasourceID, tc.want)
		}
	}
}

func TestHandlerForUnrecognized(t *testing.T) {
	for _, p := range []string{
		"README.md",
		"main.go",
		"src/app.py",
		"Makefile",
	} {
		if h, ok := HandlerFor(p); ok {
			t.Errorf("HandlerFor(%q) = %s, want no handler", p, h.DatasourceID)
		}
	}
}

func TestHandlersHaveParsers(t *testing.T) {
	seen := map[string]bool{}
	for _, h := range Handlers() {
		if h.DatasourceID == "" || h.Parse == nil || len(h.PathPatterns) == 0 {
			t.Errorf("handler %+v is incomplete", h)
		}
		if seen[h.DatasourceID] {
			t.Errorf("duplicate datasource id %s", h.DatasourceID)
		}
		seen[h.DatasourceID] = true
	}
}
