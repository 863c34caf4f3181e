// Copyright 2026 The pymeta Authors
// SPDX-License-Identifier: Apache-2.0

package datafile

import (
	"archive/tar"
	"archive/zip"
	"bytes"
	"compress/bzip2"
	"io"
	"path"
	"sort"
	"strings"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/util"
	"github.com/klauspost/compress/gzip"
	"github.com/pkg/errors"

	"github.com/ossmeta/pymeta/pkg/pypi"
)

// metaDirSuffixes mark the metadata directories embedded in built
// distributions and installed layouts.
var metaDirSuffixes = []string{".dist-info", ".egg-info", "EGG-INFO"}

func isMetaDir(name string) bool {
	for _, suffix := range metaDirSuffixes {
		if strings.HasSuffix(name, suffix) {
			return true
		}
	}
	return false
}

const (
	wheelID        = "pypi_wheel"
	eggID          = "pypi_egg"
	sdistArchiveID = "pypi_sdist"
)

var wheelHandler = Handler{
	DatasourceID:     wheelID,
	Description:      "PyPI wheel",
	DocumentationURL: "https://peps.python.org/pep-0427/",
	PathPatterns:     []string{"*.whl"},
	Parse:            parseZipDistribution(wheelID, "METADATA"),
}

var eggHandler = Handler{
	DatasourceID:     eggID,
	Description:      "PyPI egg",
	DocumentationURL: "https://web.archive.org/web/20210604075235/http://peak.telecommunity.com/DevCenter/PythonEggs",
	PathPatterns:     []string{"*.egg"},
	Parse:            parseZipDistribution(eggID, "PKG-INFO"),
}

var sdistArchiveHandler = Handler{
	DatasourceID:     sdistArchiveID,
	Description:      "Python source distribution",
	DocumentationURL: "https://peps.python.org/pep-0643/",
	PathPatterns:     []string{"*.tar.gz", "*.tar.bz2", "*.zip"},
	Parse:            parseSdistArchive,
}

// parseZipDistribution parses built distributions (wheels and eggs):
// zip archives holding a metadata directory with an embedded
// core-metadata member.
func parseZipDistribution(datasourceID, metaName string) ParseFunc {
	return func(fs billy.Filesystem, p string) ([]*pypi.PackageRecord, error) {
		content, err := util.ReadFile(fs, p)
		if err != nil {
			return nil, errors.Wrapf(err, "reading %s", p)
		}
		zr, err := zip.NewReader(bytes.NewReader(content), int64(len(content)))
		if err != nil {
			return nil, errors.Wrapf(err, "opening %s as zip", p)
		}
		var records []*pypi.PackageRecord
		for _, member := range zr.File {
			dir, base := path.Split(member.Name)
			if base != metaName || !isMetaDir(strings.TrimSuffix(dir, "/")) {
				continue
			}
			rc, err := member.Open()
			if err != nil {
				return nil, errors.Wrapf(err, "opening member %s", member.Name)
			}
			rec, err := parseCoreMetadata(rc, datasourceID)
			rc.Close()
			if err != nil {
				return nil, errors.Wrapf(err, "parsing member %s", member.Name)
			}
			records = append(records, rec)
		}
		if len(records) == 0 {
			return nil, errors.Errorf("no %s member found in %s", metaName, p)
		}
		return records, nil
	}
}

// parseSdistArchive extracts the top-most PKG-INFO of a source
// distribution tarball or zip.
func parseSdistArchive(fs billy.Filesystem, p string) ([]*pypi.PackageRecord, error) {
	content, err := util.ReadFile(fs, p)
	if err != nil {
		return nil, errors.Wrapf(err, "reading %s", p)
	}
	var members []archiveMember
	if strings.HasSuffix(p, ".zip") {
		members, err = zipMembers(content)
	} else {
		members, err = tarMembers(content, strings.HasSuffix(p, ".tar.bz2"))
	}
	if err != nil {
		return nil, errors.Wrapf(err, "listing %s", p)
	}
	// prefer the shallowest PKG-INFO: sdists put it directly under the
	// name-version root directory
	var candidates []archiveMember
	for _, m := range members {
		if path.Base(m.name) == "PKG-INFO" && looksLikeCoreMetadata(m.content) {
			candidates = append(candidates, m)
		}
	}
	if len(candidates) == 0 {
		return nil, errors.Errorf("no PKG-INFO member found in %s", p)
	}
	sort.Slice(candidates, func(i, j int) bool {
		di := strings.Count(candidates[i].name, "/")
		dj := strings.Count(candidates[j].name, "/")
		if di != dj {
			return di < dj
		}
		return candidates[i].name < candidates[j].name
	})
	rec, err := parseCoreMetadata(bytes.NewReader(candidates[0].content), sdistArchiveID)
	if err != nil {
		return nil, errors.Wrapf(err, "parsing %s", candidates[0].name)
	}
	return []*pypi.PackageRecord{rec}, nil
}

type archiveMember struct {
	name    string
	content []byte
}

func zipMembers(content []byte) ([]archiveMember, error) {
	zr, err := zip.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return nil, err
	}
	var members []archiveMember
	for _, f := range zr.File {
		if f.FileInfo().IsDir() || path.Base(f.Name) != "PKG-INFO" {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, err
		}
		data, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return nil, err
		}
		members = append(members, archiveMember{name: f.Name, content: data})
	}
	return members, nil
}

func tarMembers(content []byte, bzip bool) ([]archiveMember, error) {
	var r io.Reader
	if bzip {
		r = bzip2.NewReader(bytes.NewReader(content))
	} else {
		gz, err := gzip.NewReader(bytes.NewReader(content))
		if err != nil {
			return nil, err
		}
		defer gz.Close()
		r = gz
	}
	tr := tar.NewReader(r)
	var members []archiveMember
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		if hdr.Typeflag != tar.TypeReg || path.Base(hdr.Name) != "PKG-INFO" {
			continue
		}
		data, err := io.ReadAll(tr)
		if err != nil {
			return nil, err
		}
		members = append(members, archiveMember{name: hdr.Name, content: data})
	}
	return members, nil
}
