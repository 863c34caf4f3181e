// Copyright 2026 The pymeta Authors
// SPDX-License-Identifier: Apache-2.0

package datafile

import (
	"io"
	"net/mail"
	"path"
	"strings"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/util"
	"github.com/pkg/errors"

	"github.com/ossmeta/pymeta/pkg/pypi"
)

const (
	sdistPkgInfoID  = "pypi_sdist_pkginfo"
	wheelMetadataID = "pypi_wheel_metadata"
)

var sdistPkgInfoHandler = Handler{
	DatasourceID:     sdistPkgInfoID,
	Description:      "PyPI extracted sdist PKG-INFO",
	DocumentationURL: "https://peps.python.org/pep-0314/",
	PathPatterns:     []string{"**/PKG-INFO"},
	Parse:            parseMetadataFile(sdistPkgInfoID),
}

var wheelMetadataHandler = Handler{
	DatasourceID:     wheelMetadataID,
	Description:      "PyPI installed wheel METADATA",
	DocumentationURL: "https://packaging.python.org/en/latest/specifications/core-metadata/",
	PathPatterns:     []string{"*.dist-info/METADATA", "**/*.dist-info/METADATA"},
	Parse:            parseMetadataFile(wheelMetadataID),
}

func parseMetadataFile(datasourceID string) ParseFunc {
	return func(fs billy.Filesystem, p string) ([]*pypi.PackageRecord, error) {
		return parseMetadataAt(fs, p, datasourceID)
	}
}

func parseMetadataAt(fs billy.Filesystem, p, datasourceID string) ([]*pypi.PackageRecord, error) {
	f, err := fs.Open(p)
	if err != nil {
		return nil, errors.Wrapf(err, "opening %s", p)
	}
	defer f.Close()

	rec, err := parseCoreMetadata(f, datasourceID)
	if err != nil {
		return nil, err
	}
	// older metadata versions ship the long description as a sibling
	// DESCRIPTION.rst file
	if rec.Description == "" {
		if legacy, err := util.ReadFile(fs, path.Join(path.Dir(p), "DESCRIPTION.rst")); err == nil {
			rec.Description = pypi.CleanDescription(string(legacy))
		}
	}
	return []*pypi.PackageRecord{rec}, nil
}

// parseCoreMetadata reads an RFC 822 style core-metadata stream
// (PKG-INFO or METADATA) and normalizes it into a record.
func parseCoreMetadata(r io.Reader, datasourceID string) (*pypi.PackageRecord, error) {
	msg, err := mail.ReadMessage(r)
	if err != nil {
		return nil, errors.Wrap(err, "parsing core metadata headers")
	}
	body, err := io.ReadAll(msg.Body)
	if err != nil {
		return nil, errors.Wrap(err, "reading core metadata payload")
	}
	src := pypi.HeaderSource{Header: msg.Header, Body: string(body)}

	rec := pypi.NewRecord(datasourceID)
	rec.Name = pypi.Lookup(src, "Name")
	rec.Version = pypi.Lookup(src, "Version")
	rec.Description = pypi.Description(src)
	rec.DeclaredLicense = pypi.License(src)
	rec.Keywords = pypi.Keywords(src)
	rec.Parties = pypi.Parties(src)
	rec.Dependencies = pypi.Dependencies(
		pypi.LookupAll(src, "Requires-Dist"), pypi.InstallDefaults)
	pypi.SourceURLs(src).Apply(rec)
	rec.ApplyRegistryURLs()
	return rec, nil
}

// looksLikeCoreMetadata reports whether content starts with a
// Metadata-Version header, the first field of every PKG-INFO and
// METADATA file.
func looksLikeCoreMetadata(content []byte) bool {
	head := content
	if len(head) > 256 {
		head = head[:256]
	}
	return strings.HasPrefix(strings.TrimSpace(string(head)), "Metadata-Version:")
}
