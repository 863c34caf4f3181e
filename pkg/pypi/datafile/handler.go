// Copyright 2026 The pymeta Authors
// SPDX-License-Identifier: Apache-2.0

// Package datafile routes Python packaging descriptor files to the
// adapter that parses them and normalizes the result into package
// records.
package datafile

import (
	"path"

	"github.com/go-git/go-billy/v5"

	"github.com/ossmeta/pymeta/internal/glob"
	"github.com/ossmeta/pymeta/pkg/pypi"
)

// ParseFunc reads the descriptor at p within fs and returns the
// records it describes. An unparseable descriptor returns an error and
// no records, never a partial record.
type ParseFunc func(fs billy.Filesystem, p string) ([]*pypi.PackageRecord, error)

// Handler describes one descriptor format.
type Handler struct {
	DatasourceID     string
	Description      string
	DocumentationURL string
	// PathPatterns are glob patterns matched against the full path
	// and against the base name.
	PathPatterns []string
	Parse        ParseFunc
}

// Matches reports whether p looks like a descriptor of this format.
func (h Handler) Matches(p string) bool {
	base := path.Base(p)
	for _, pattern := range h.PathPatterns {
		if ok, err := glob.Match(pattern, p); err == nil && ok {
			return true
		}
		if ok, err := glob.Match(pattern, base); err == nil && ok {
			return true
		}
	}
	return false
}

// Handlers returns every registered descriptor handler, in routing
// order. More specific patterns come before catch-alls (the sdist
// archive patterns also match unrelated tarballs).
func Handlers() []Handler {
	return []Handler{
		sdistPkgInfoHandler,
		wheelMetadataHandler,
		wheelHandler,
		eggHandler,
		setupPyHandler,
		setupCfgHandler,
		pyprojectHandler,
		pipfileLockHandler,
		pipfileHandler,
		requirementsHandler,
		condaHandler,
		sdistArchiveHandler,
	}
}

// HandlerFor returns the first handler whose patterns match p.
func HandlerFor(p string) (Handler, bool) {
	for _, h := range Handlers() {
		if h.Matches(p) {
			return h, true
		}
	}
	return Handler{}, false
}
