// Copyright 2026 The pymeta Authors
// SPDX-License-Identifier: Apache-2.0

package pypi

import "strings"

// licenseClassifierPrefix marks trove classifiers that declare a
// license rather than a topic.
const licenseClassifierPrefix = "License"

// unspecifiedLicense is the legacy placeholder distutils writes when no
// license was declared.
const unspecifiedLicense = "UNKNOWN"

// legacyPadding is the fixed indent some metadata writers prepend to
// every line of a multi-line field.
const legacyPadding = "        "

// BuildDescription combines a one-line summary and a longer body into a
// single description. Either part may be empty; the summary is not
// repeated when the body already starts with it.
func BuildDescription(summary, body string) string {
	summary = strings.TrimSpace(summary)
	body = strings.TrimSpace(body)
	if summary == "" {
		return body
	}
	if body == "" {
		return summary
	}
	if strings.HasPrefix(body, summary) {
		return body
	}
	return summary + "\n" + body
}

// CleanDescription strips the legacy 8-space line padding when either
// of the first two lines carries it, and trims the text otherwise.
// Applying it twice yields the same result as once.
func CleanDescription(text string) string {
	text = strings.TrimSpace(text)
	if text == "" {
		return ""
	}
	lines := strings.Split(text, "\n")
	probe := lines
	if len(probe) > 2 {
		probe = probe[:2]
	}
	padded := false
	for _, l := range probe {
		if strings.HasPrefix(l, legacyPadding) {
			padded = true
			break
		}
	}
	if !padded {
		return text
	}
	cleaned := make([]string, len(lines))
	for i, l := range lines {
		cleaned[i] = strings.TrimPrefix(l, legacyPadding)
	}
	return strings.Join(cleaned, "\n")
}

// Description resolves the description of src: the message payload when
// the source has one, falling back to the legacy Description field,
// then combines it with the Summary field.
func Description(src any) string {
	var body string
	if p, ok := src.(interface{ Payload() string }); ok {
		body = p.Payload()
	}
	if body == "" {
		body = Lookup(src, "Description")
	}
	summary := Lookup(src, "Summary")
	return BuildDescription(summary, CleanDescription(body))
}

// SplitClassifiers partitions the classifier entries of src into
// license classifiers and everything else.
func SplitClassifiers(src any) (license, other []string) {
	classifiers := LookupAll(src, "Classifier")
	if len(classifiers) == 0 {
		classifiers = LookupAll(src, "Classifiers")
	}
	for _, c := range classifiers {
		if strings.HasPrefix(c, licenseClassifierPrefix) {
			license = append(license, c)
		} else {
			other = append(other, c)
		}
	}
	return license, other
}

// License returns the declared license information of src: the raw
// License field unless it is the unspecified placeholder, plus any
// license classifiers.
func License(src any) DeclaredLicense {
	var d DeclaredLicense
	if lic := Lookup(src, "License"); lic != "" && lic != unspecifiedLicense {
		d.License = lic
	}
	d.Classifiers, _ = SplitClassifiers(src)
	return d
}

// Keywords returns the keyword list of src: the Keywords field split on
// commas when it is a single string, plus every classifier that is not
// a license classifier. Duplicates are dropped, keeping insertion order.
func Keywords(src any) []string {
	var kws []string
	switch v := LookupAny(src, "Keywords").(type) {
	case string:
		kws = strings.Split(v, ",")
	case []string:
		kws = v
	case []any:
		kws = toStringList(v)
	}
	var out []string
	seen := map[string]bool{}
	add := func(k string) {
		k = strings.TrimSpace(k)
		if k != "" && !seen[k] {
			seen[k] = true
			out = append(out, k)
		}
	}
	for _, k := range kws {
		add(k)
	}
	_, other := SplitClassifiers(src)
	for _, c := range other {
		add(c)
	}
	return out
}
