// Copyright 2026 The pymeta Authors
// SPDX-License-Identifier: Apache-2.0

// Package pep508 parses Python dependency specifiers: package names,
// version specifier sets and environment markers.
// See https://packaging.python.org/en/latest/specifications/dependency-specifiers/
package pep508

import (
	"regexp"
	"sort"
	"strings"

	"github.com/pkg/errors"
)

// Specifier is a single version constraint, an operator applied to a
// version literal.
type Specifier struct {
	Operator string
	Version  string
}

// IsEquality reports whether the operator pins an exact version.
func (s Specifier) IsEquality() bool {
	return s.Operator == "==" || s.Operator == "==="
}

func (s Specifier) String() string {
	return s.Operator + s.Version
}

// SpecifierSet is a conjunction of version constraints.
type SpecifierSet []Specifier

// Operators ordered longest-first so the three-character forms win the
// prefix match.
var specifierOps = []string{"===", "==", "!=", "~=", "<=", ">=", "<", ">"}

var versionPattern = regexp.MustCompile(`^[a-zA-Z0-9._*+!-]+$`)

// ParseSpecifierSet parses a comma-separated specifier list such as
// ">=1.0,<2.0". An empty input yields an empty set.
func ParseSpecifierSet(input string) (SpecifierSet, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return nil, nil
	}
	var set SpecifierSet
	for _, clause := range strings.Split(input, ",") {
		clause = strings.TrimSpace(clause)
		if clause == "" {
			continue
		}
		spec, err := parseSpecifier(clause)
		if err != nil {
			return nil, err
		}
		set = append(set, spec)
	}
	return set, nil
}

func parseSpecifier(clause string) (Specifier, error) {
	for _, op := range specifierOps {
		if !strings.HasPrefix(clause, op) {
			continue
		}
		version := strings.TrimSpace(clause[len(op):])
		if version == "" || !versionPattern.MatchString(version) {
			return Specifier{}, errors.Errorf("invalid version in specifier %q", clause)
		}
		return Specifier{Operator: op, Version: version}, nil
	}
	return Specifier{}, errors.Errorf("missing operator in specifier %q", clause)
}

// String renders the canonical form of the set: specifiers sorted by
// their string form and joined with commas.
func (s SpecifierSet) String() string {
	if len(s) == 0 {
		return ""
	}
	parts := make([]string, len(s))
	for i, spec := range s {
		parts[i] = spec.String()
	}
	sort.Strings(parts)
	return strings.Join(parts, ",")
}

// Pinned returns the single exact version the set resolves to, if any.
// A set pins iff it holds exactly one equality-type specifier.
func (s SpecifierSet) Pinned() (string, bool) {
	if len(s) == 1 && s[0].IsEquality() {
		return s[0].Version, true
	}
	return "", false
}

var nameSeparators = regexp.MustCompile(`[-_.]+`)

// CanonicalizeName normalizes a package name according to PEP 503.
func CanonicalizeName(name string) string {
	return strings.ToLower(nameSeparators.ReplaceAllString(name, "-"))
}
