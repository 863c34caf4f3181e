// Copyright 2026 The pymeta Authors
// SPDX-License-Identifier: Apache-2.0

package pypi

import (
	"io"
	"net/mail"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

type singleSourceStub map[string]string

func (s singleSourceStub) GetOne(name string) (string, bool) {
	v, ok := s[name]
	return v, ok
}

type multiSourceStub map[string][]string

func (m multiSourceStub) GetMulti(name string) ([]string, bool) {
	vs, ok := m[name]
	return vs, ok
}

func headerSource(t *testing.T, raw string) HeaderSource {
	t.Helper()
	msg, err := mail.ReadMessage(strings.NewReader(raw))
	if err != nil {
		t.Fatalf("reading message: %v", err)
	}
	body, err := io.ReadAll(msg.Body)
	if err != nil {
		t.Fatalf("reading body: %v", err)
	}
	return HeaderSource{Header: msg.Header, Body: string(body)}
}

// The same field must resolve identically regardless of which accessor
// shape the source implements.
func TestLookupShapeInvariance(t *testing.T) {
	sources := map[string]any{
		"field source":  MapSource{"author_email": "dev@example.com"},
		"single source": singleSourceStub{"Author-email": "dev@example.com"},
		"single source lowercase": singleSourceStub{
			"author-email": "dev@example.com",
		},
		"mail headers": headerSource(t, "Author-email: dev@example.com\n\n"),
	}
	for name, src := range sources {
		t.Run(name, func(t *testing.T) {
			if got := Lookup(src, "Author-email"); got != "dev@example.com" {
				t.Errorf("Lookup(Author-email) = %q, want %q", got, "dev@example.com")
			}
		})
	}
}

func TestLookup(t *testing.T) {
	tests := []struct {
		name  string
		src   any
		field string
		want  string
	}{
		{
			name:  "dash becomes underscore for field sources",
			src:   MapSource{"home_page": "https://example.com"},
			field: "Home-page",
			want:  "https://example.com",
		},
		{
			name:  "as-given name beats lowercase",
			src:   MapSource{"Name": "upper", "name": "lower"},
			field: "Name",
			want:  "upper",
		},
		{
			name:  "empty value falls through to lowercase",
			src:   MapSource{"Name": "", "name": "lower"},
			field: "Name",
			want:  "lower",
		},
		{
			name:  "absent field",
			src:   MapSource{},
			field: "Name",
			want:  "",
		},
		{
			name:  "non-source value",
			src:   42,
			field: "Name",
			want:  "",
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := Lookup(tc.src, tc.field); got != tc.want {
				t.Errorf("Lookup(%q) = %q, want %q", tc.field, got, tc.want)
			}
		})
	}
}

func TestLookupAll(t *testing.T) {
	tests := []struct {
		name  string
		src   any
		field string
		want  []string
	}{
		{
			name:  "multi source returns all values",
			src:   multiSourceStub{"Requires-Dist": {"a", "b"}},
			field: "Requires-Dist",
			want:  []string{"a", "b"},
		},
		{
			name:  "field source list value",
			src:   MapSource{"classifiers": []string{"x", "y"}},
			field: "Classifiers",
			want:  []string{"x", "y"},
		},
		{
			name:  "single source scalar wraps into a list",
			src:   singleSourceStub{"Requires-Dist": "a"},
			field: "Requires-Dist",
			want:  []string{"a"},
		},
		{
			name: "repeated mail headers",
			src: headerSource(t,
				"Classifier: one\nClassifier: two\n\n"),
			field: "Classifier",
			want:  []string{"one", "two"},
		},
		{
			name:  "absent field",
			src:   MapSource{},
			field: "Classifier",
			want:  nil,
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if diff := cmp.Diff(tc.want, LookupAll(tc.src, tc.field)); diff != "" {
				t.Errorf("LookupAll(%q) mismatch (-want +got):\n%s", tc.field, diff)
			}
		})
	}
}

func TestHeaderSourcePayload(t *testing.T) {
	src := headerSource(t, "Name: pkg\n\n  long description\n")
	if got := src.Payload(); got != "long description" {
		t.Errorf("Payload() = %q, want %q", got, "long description")
	}
}
