// Copyright 2026 The pymeta Authors
// SPDX-License-Identifier: Apache-2.0

// Package glob matches slash-separated paths against patterns with
// globstar support.
package glob

import (
	"path"
	"strings"
)

// Match reports whether name matches pattern. Pattern syntax is that of
// path.Match, extended with "**": a pattern segment consisting solely
// of "**" matches zero or more path segments. "**" inside a segment
// (as in "a**b") has no special meaning and matches like "a*b".
func Match(pattern, name string) (bool, error) {
	if !strings.Contains(pattern, "**") {
		return path.Match(pattern, name)
	}
	// Validate segment patterns up front so malformed patterns fail
	// the same way path.Match fails them.
	for _, seg := range strings.Split(pattern, "/") {
		if seg == "**" {
			continue
		}
		if _, err := path.Match(seg, ""); err != nil {
			return false, err
		}
	}
	return matchSegments(strings.Split(pattern, "/"), strings.Split(name, "/")), nil
}

func matchSegments(pattern, name []string) bool {
	for len(pattern) > 0 {
		if pattern[0] == "**" {
			// try consuming zero segments first, then one more at a
			// time
			for i := 0; i <= len(name); i++ {
				if matchSegments(pattern[1:], name[i:]) {
					return true
				}
			}
			return false
		}
		if len(name) == 0 {
			return false
		}
		if ok, _ := path.Match(pattern[0], name[0]); !ok {
			return false
		}
		pattern, name = pattern[1:], name[1:]
	}
	return len(name) == 0
}
