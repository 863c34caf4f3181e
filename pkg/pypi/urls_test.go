// Copyright 2026 The pymeta Authors
// SPDX-License-Identifier: Apache-2.0

package pypi

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestClassifyURLs(t *testing.T) {
	tests := []struct {
		name     string
		homepage string
		project  []LabeledURL
		download string
		want     URLSet
	}{
		{
			name:     "labels route to their roles",
			homepage: "https://example.com",
			project: []LabeledURL{
				{Label: "Bug Tracker", URL: "https://example.com/issues"},
				{Label: "Source Code", URL: "https://example.com/src"},
				{Label: "Repository", URL: "https://example.com/repo"},
				{Label: "Documentation", URL: "https://example.com/docs"},
			},
			want: URLSet{
				Homepage:    "https://example.com",
				BugTracking: "https://example.com/issues",
				CodeView:    "https://example.com/src",
				VCS:         "https://example.com/repo",
				Extra:       map[string]string{"Documentation": "https://example.com/docs"},
			},
		},
		{
			name: "first match wins, later candidates go residual",
			project: []LabeledURL{
				{Label: "Issues", URL: "https://one.example/issues"},
				{Label: "Tracker", URL: "https://two.example/tracker"},
			},
			want: URLSet{
				BugTracking: "https://one.example/issues",
				Extra:       map[string]string{"Tracker": "https://two.example/tracker"},
			},
		},
		{
			name:     "homepage argument beats a homepage label",
			homepage: "https://primary.example",
			project: []LabeledURL{
				{Label: "Homepage", URL: "https://label.example"},
			},
			want: URLSet{
				Homepage: "https://primary.example",
				Extra:    map[string]string{"Homepage": "https://label.example"},
			},
		},
		{
			name:     "labels match case-insensitively",
			homepage: "",
			project: []LabeledURL{
				{Label: "GitHub: issues", URL: "https://github.com/o/r/issues"},
				{Label: "  source  ", URL: "https://github.com/o/r"},
			},
			want: URLSet{
				BugTracking: "https://github.com/o/r/issues",
				CodeView:    "https://github.com/o/r",
			},
		},
		{
			name:     "download url is a vcs candidate",
			download: "https://example.com/pkg-1.0.tar.gz",
			want: URLSet{
				VCS: "https://example.com/pkg-1.0.tar.gz",
			},
		},
		{
			name: "download url falls to residual when vcs is taken",
			project: []LabeledURL{
				{Label: "GitHub", URL: "https://github.com/o/r"},
			},
			download: "https://example.com/pkg-1.0.tar.gz",
			want: URLSet{
				VCS: "https://github.com/o/r",
				Extra: map[string]string{
					"Download-URL": "https://example.com/pkg-1.0.tar.gz",
				},
			},
		},
		{
			name: "empty urls are ignored",
			project: []LabeledURL{
				{Label: "Source", URL: ""},
			},
			want: URLSet{},
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := ClassifyURLs(tc.homepage, tc.project, tc.download)
			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Errorf("ClassifyURLs() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestSourceURLs(t *testing.T) {
	tests := []struct {
		name string
		src  any
		want URLSet
	}{
		{
			name: "core metadata headers",
			src: headerSource(t, "Home-page: https://example.com\n"+
				"Project-URL: Bug Tracker, https://example.com/issues\n"+
				"Project-URL: Source, https://example.com/src\n"+
				"Project-URL: Documentation, https://example.com/docs\n"+
				"Download-URL: https://example.com/dl\n\n"),
			want: URLSet{
				Homepage:    "https://example.com",
				BugTracking: "https://example.com/issues",
				CodeView:    "https://example.com/src",
				VCS:         "https://example.com/dl",
				Extra:       map[string]string{"Documentation": "https://example.com/docs"},
			},
		},
		{
			name: "setup arguments with a project_urls map",
			src: MapSource{
				"url": "https://example.com",
				"project_urls": map[string]string{
					"Tracker": "https://example.com/issues",
					"Docs":    "https://example.com/docs",
				},
			},
			want: URLSet{
				Homepage:    "https://example.com",
				BugTracking: "https://example.com/issues",
				Extra:       map[string]string{"Docs": "https://example.com/docs"},
			},
		},
		{
			name: "nothing to classify",
			src:  MapSource{"name": "pkg"},
			want: URLSet{},
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := SourceURLs(tc.src)
			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Errorf("SourceURLs() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestURLSetApply(t *testing.T) {
	u := URLSet{
		Homepage:    "https://example.com",
		VCS:         "https://github.com/o/r",
		BugTracking: "https://github.com/o/r/issues",
		CodeView:    "https://github.com/o/r/tree",
		Extra:       map[string]string{"Docs": "https://docs.example.com"},
	}
	rec := NewRecord("pypi_setup_py")
	u.Apply(rec)
	if rec.HomepageURL != u.Homepage || rec.VCSURL != u.VCS ||
		rec.BugTrackingURL != u.BugTracking || rec.CodeViewURL != u.CodeView {
		t.Errorf("Apply() left record slots wrong: %+v", rec)
	}
	if diff := cmp.Diff(u.Extra, rec.ExtraURLs); diff != "" {
		t.Errorf("Apply() extra urls mismatch (-want +got):\n%s", diff)
	}
}
