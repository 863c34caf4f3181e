// Copyright 2026 The pymeta Authors
// SPDX-License-Identifier: Apache-2.0

package pep508

import (
	"regexp"
	"strings"

	"github.com/pkg/errors"
)

// Requirement is a parsed dependency specification line.
type Requirement struct {
	Name       string
	Extras     []string
	Specifiers SpecifierSet
	// URL is set for direct references (`name @ url`).
	URL    string
	Marker MarkerNode
}

var namePattern = regexp.MustCompile(`^[A-Za-z0-9]([A-Za-z0-9._-]*[A-Za-z0-9])?`)

// ParseRequirement parses a PEP 508 dependency line such as
// `requests[security]>=2.8.1,==2.8.* ; python_version < "2.7"`.
func ParseRequirement(line string) (*Requirement, error) {
	rest := strings.TrimSpace(line)
	if rest == "" {
		return nil, errors.New("empty requirement")
	}
	if i := strings.Index(rest, "#"); i == 0 {
		return nil, errors.New("comment line is not a requirement")
	}

	var req Requirement
	var markerText string
	if body, marker, found := cutUnquoted(rest, ';'); found {
		rest = strings.TrimSpace(body)
		markerText = strings.TrimSpace(marker)
	}

	name := namePattern.FindString(rest)
	if name == "" {
		return nil, errors.Errorf("no package name in requirement %q", line)
	}
	req.Name = name
	rest = strings.TrimSpace(rest[len(name):])

	if strings.HasPrefix(rest, "[") {
		end := strings.IndexByte(rest, ']')
		if end < 0 {
			return nil, errors.Errorf("unterminated extras in requirement %q", line)
		}
		for _, e := range strings.Split(rest[1:end], ",") {
			if e = strings.TrimSpace(e); e != "" {
				req.Extras = append(req.Extras, e)
			}
		}
		rest = strings.TrimSpace(rest[end+1:])
	}

	if strings.HasPrefix(rest, "@") {
		req.URL = strings.TrimSpace(rest[1:])
	} else if rest != "" {
		rest = strings.TrimPrefix(rest, "(")
		rest = strings.TrimSuffix(rest, ")")
		set, err := ParseSpecifierSet(rest)
		if err != nil {
			return nil, errors.Wrapf(err, "parsing specifiers of %q", line)
		}
		req.Specifiers = set
	}

	if markerText != "" {
		marker, err := ParseMarker(markerText)
		if err != nil {
			return nil, errors.Wrapf(err, "parsing marker of %q", line)
		}
		req.Marker = marker
	}
	return &req, nil
}

// cutUnquoted splits s around the first occurrence of sep that is not
// inside a quoted string.
func cutUnquoted(s string, sep byte) (before, after string, found bool) {
	var quote byte
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case quote != 0:
			if c == quote {
				quote = 0
			}
		case c == '"' || c == '\'':
			quote = c
		case c == sep:
			return s[:i], s[i+1:], true
		}
	}
	return s, "", false
}

// String renders the requirement in its normalized form.
func (r *Requirement) String() string {
	var b strings.Builder
	b.WriteString(r.Name)
	if len(r.Extras) > 0 {
		b.WriteString("[" + strings.Join(r.Extras, ",") + "]")
	}
	if r.URL != "" {
		b.WriteString(" @ " + r.URL)
	} else if len(r.Specifiers) > 0 {
		b.WriteString(r.Specifiers.String())
	}
	return b.String()
}
