// Copyright 2026 The pymeta Authors
// SPDX-License-Identifier: Apache-2.0

package pypi

import (
	"sort"
	"strings"
)

// LabeledURL is one entry of a "project URLs" style field.
type LabeledURL struct {
	Label string
	URL   string
}

// Canonical role synonym sets, matched against lowercased trimmed
// labels. First match by input order wins a slot; later candidates for
// a filled slot fall through to the residual bucket.
var (
	bugTrackerLabels = map[string]bool{
		"tracker":        true,
		"bug reports":    true,
		"github: issues": true,
		"bug tracker":    true,
		"issues":         true,
		"issue tracker":  true,
	}
	codeViewLabels = map[string]bool{
		"source":      true,
		"source code": true,
		"code":        true,
	}
	vcsLabels = map[string]bool{
		"github":       true,
		"gitlab":       true,
		"github: repo": true,
		"repository":   true,
	}
	homepageLabels = map[string]bool{
		"website":  true,
		"homepage": true,
		"home":     true,
	}
)

// downloadURLLabel is the residual label for a Download-URL field that
// did not win the VCS slot.
const downloadURLLabel = "Download-URL"

// URLSet holds the classified URLs of a package: one value per
// canonical slot plus the residual labeled entries.
type URLSet struct {
	Homepage    string
	VCS         string
	BugTracking string
	CodeView    string
	Extra       map[string]string
}

func (u *URLSet) keep(label, url string) {
	if label == "" || url == "" {
		return
	}
	if u.Extra == nil {
		u.Extra = map[string]string{}
	}
	u.Extra[label] = url
}

// add routes url into the slot when the slot is still empty, and into
// the residual bucket under label otherwise. A slot, once filled, is
// never overwritten.
func (u *URLSet) add(slot *string, label, url string) {
	if url == "" {
		return
	}
	if slot != nil && *slot == "" {
		*slot = url
		return
	}
	u.keep(label, url)
}

// ClassifyURLs maps a homepage-like field, a bag of labeled URLs and a
// download URL onto canonical roles. The homepage argument is processed
// first so it takes precedence over any "Homepage" labeled entry; the
// download URL is treated as a VCS candidate.
func ClassifyURLs(homepage string, project []LabeledURL, download string) URLSet {
	var u URLSet
	u.add(&u.Homepage, "", homepage)
	for _, p := range project {
		label := strings.TrimSpace(p.Label)
		url := strings.TrimSpace(p.URL)
		switch l := strings.ToLower(label); {
		case bugTrackerLabels[l]:
			u.add(&u.BugTracking, label, url)
		case codeViewLabels[l]:
			u.add(&u.CodeView, label, url)
		case vcsLabels[l]:
			u.add(&u.VCS, label, url)
		case homepageLabels[l]:
			u.add(&u.Homepage, label, url)
		default:
			u.keep(label, url)
		}
	}
	u.add(&u.VCS, downloadURLLabel, download)
	return u
}

// SourceURLs pulls the URL-bearing fields out of a metadata source and
// classifies them. Project-URL values of the "Label, url" header form
// are split on the first comma; map-valued project_urls fields are
// ordered by label for determinism.
func SourceURLs(src any) URLSet {
	homepage := Lookup(src, "Home-page")
	if homepage == "" {
		homepage = Lookup(src, "url")
	}
	if homepage == "" {
		homepage = Lookup(src, "home")
	}

	var project []LabeledURL
	if entries := LookupAll(src, "Project-URL"); len(entries) > 0 {
		for _, e := range entries {
			label, url, _ := strings.Cut(e, ",")
			project = append(project, LabeledURL{Label: label, URL: url})
		}
	} else if v := LookupAny(src, "project_urls"); v != nil {
		project = labeledFromMap(v)
	}

	return ClassifyURLs(homepage, project, Lookup(src, "Download-URL"))
}

func labeledFromMap(v any) []LabeledURL {
	var out []LabeledURL
	switch m := v.(type) {
	case map[string]string:
		for label, url := range m {
			out = append(out, LabeledURL{Label: label, URL: url})
		}
	case map[string]any:
		for label, url := range m {
			if s, ok := url.(string); ok {
				out = append(out, LabeledURL{Label: label, URL: s})
			}
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Label < out[j].Label })
	return out
}

// Apply writes the classified URLs onto a record.
func (u URLSet) Apply(r *PackageRecord) {
	r.HomepageURL = u.Homepage
	r.VCSURL = u.VCS
	r.BugTrackingURL = u.BugTracking
	r.CodeViewURL = u.CodeView
	if len(u.Extra) > 0 {
		r.ExtraURLs = u.Extra
	}
}
