// Copyright 2026 The pymeta Authors
// SPDX-License-Identifier: Apache-2.0

// Package pypi normalizes Python packaging metadata into a canonical
// package record, independent of which descriptor format it came from.
package pypi

import (
	"fmt"

	"github.com/package-url/packageurl-go"
)

const (
	// PackageType is the ecosystem identifier used in package URLs.
	PackageType = "pypi"
	// PrimaryLanguage for every record produced by this module.
	PrimaryLanguage = "Python"
)

// Party roles.
const (
	RoleAuthor     = "author"
	RoleMaintainer = "maintainer"
)

// PartyPerson is the only party type emitted by Python metadata sources.
const PartyPerson = "person"

// Party is a contact attached to a package, one per detected role.
type Party struct {
	Type  string `json:"type"`
	Role  string `json:"role"`
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty"`
}

// DeclaredLicense carries the raw license field and any license
// classifier strings, without interpretation.
type DeclaredLicense struct {
	License     string   `json:"license,omitempty"`
	Classifiers []string `json:"classifiers,omitempty"`
}

// IsZero reports whether nothing was declared.
func (d DeclaredLicense) IsZero() bool {
	return d.License == "" && len(d.Classifiers) == 0
}

// DependentPackage is one entry of a package's dependency list.
//
// IsResolved is true only when the requirement pins exactly one version
// with an equality operator; in that case Purl carries the version and
// otherwise it never does.
type DependentPackage struct {
	Purl                 string `json:"purl,omitempty"`
	Scope                string `json:"scope,omitempty"`
	IsRuntime            bool   `json:"is_runtime"`
	IsOptional           bool   `json:"is_optional"`
	IsResolved           bool   `json:"is_resolved"`
	ExtractedRequirement string `json:"extracted_requirement,omitempty"`
}

// PackageRecord is the canonical output of every descriptor adapter.
type PackageRecord struct {
	DatasourceID    string `json:"datasource_id"`
	Type            string `json:"type"`
	PrimaryLanguage string `json:"primary_language,omitempty"`

	Name        string `json:"name,omitempty"`
	Version     string `json:"version,omitempty"`
	Description string `json:"description,omitempty"`

	DeclaredLicense DeclaredLicense    `json:"declared_license,omitzero"`
	Keywords        []string           `json:"keywords,omitempty"`
	Parties         []Party            `json:"parties,omitempty"`
	Dependencies    []DependentPackage `json:"dependencies,omitempty"`

	HomepageURL           string            `json:"homepage_url,omitempty"`
	VCSURL                string            `json:"vcs_url,omitempty"`
	BugTrackingURL        string            `json:"bug_tracking_url,omitempty"`
	CodeViewURL           string            `json:"code_view_url,omitempty"`
	RepositoryHomepageURL string            `json:"repository_homepage_url,omitempty"`
	RepositoryDownloadURL string            `json:"repository_download_url,omitempty"`
	APIDataURL            string            `json:"api_data_url,omitempty"`
	ExtraURLs             map[string]string `json:"extra_urls,omitempty"`

	SHA256 string `json:"sha256,omitempty"`

	// PartialExtraction marks a best-effort record where non-literal
	// values were silently dropped during extraction (e.g. a call
	// expression inside a setup() list argument).
	PartialExtraction bool `json:"partial_extraction,omitempty"`
}

// NewRecord returns a record with the ecosystem constants filled in.
func NewRecord(datasourceID string) *PackageRecord {
	return &PackageRecord{
		DatasourceID:    datasourceID,
		Type:            PackageType,
		PrimaryLanguage: PrimaryLanguage,
	}
}

// PackageURL renders a pkg:pypi purl for name and an optional version.
func PackageURL(name, version string) string {
	if name == "" {
		return ""
	}
	return packageurl.NewPackageURL(packageurl.TypePyPi, "", name, version, nil, "").ToString()
}

// RegistryURLs are the pypi.org locations computed from a name and version.
type RegistryURLs struct {
	RepositoryHomepageURL string
	RepositoryDownloadURL string
	APIDataURL            string
}

// ComputeRegistryURLs derives the project page, the conventional source
// download location and the JSON API endpoint on pypi.org. These are
// computed, not fetched.
func ComputeRegistryURLs(name, version string) RegistryURLs {
	var u RegistryURLs
	if name == "" {
		return u
	}
	u.RepositoryHomepageURL = fmt.Sprintf("https://pypi.org/project/%s", name)
	if version != "" {
		u.APIDataURL = fmt.Sprintf("https://pypi.org/pypi/%s/%s/json", name, version)
		u.RepositoryDownloadURL = fmt.Sprintf(
			"https://pypi.org/packages/source/%s/%s/%s-%s.tar.gz", name[:1], name, name, version)
	} else {
		u.APIDataURL = fmt.Sprintf("https://pypi.org/pypi/%s/json", name)
	}
	return u
}

// ApplyRegistryURLs fills the computed registry URL fields on the record.
func (r *PackageRecord) ApplyRegistryURLs() {
	u := ComputeRegistryURLs(r.Name, r.Version)
	r.RepositoryHomepageURL = u.RepositoryHomepageURL
	r.RepositoryDownloadURL = u.RepositoryDownloadURL
	r.APIDataURL = u.APIDataURL
}
