// Copyright 2026 The pymeta Authors
// SPDX-License-Identifier: Apache-2.0

package pypi

import (
	"fmt"
	"net/mail"
	"net/textproto"
	"strings"
)

// The same logical field is exposed under different access protocols
// depending on the descriptor format: a named property on a typed
// object, a single-value getter, or a multi-value getter. Sources
// implement whichever capabilities they have and Lookup tries them in
// a fixed priority order so the engine never special-cases a format.

// FieldSource exposes named properties. Implementations receive the
// field name with dashes already replaced by underscores.
type FieldSource interface {
	Attr(name string) (any, bool)
}

// SingleSource exposes a single-value getter keyed by the original
// field name.
type SingleSource interface {
	GetOne(name string) (string, bool)
}

// MultiSource exposes a multi-value getter keyed by the original
// field name.
type MultiSource interface {
	GetMulti(name string) ([]string, bool)
}

// LookupAny returns the raw value for field name in src, trying the
// as-given name first and the lowercased name second within each
// capability. It returns nil when no shape yields a value.
func LookupAny(src any, name string) any {
	if fs, ok := src.(FieldSource); ok {
		attr := strings.ReplaceAll(name, "-", "_")
		if v, ok := fs.Attr(attr); ok && !isEmptyValue(v) {
			return v
		}
		if v, ok := fs.Attr(strings.ToLower(attr)); ok && !isEmptyValue(v) {
			return v
		}
	}
	if ss, ok := src.(SingleSource); ok {
		if v, ok := ss.GetOne(name); ok && v != "" {
			return v
		}
		if v, ok := ss.GetOne(strings.ToLower(name)); ok && v != "" {
			return v
		}
	}
	return nil
}

// Lookup returns the scalar string value for field name, or "".
func Lookup(src any, name string) string {
	switch v := LookupAny(src, name).(type) {
	case nil:
		return ""
	case string:
		return v
	default:
		return fmt.Sprintf("%v", v)
	}
}

// LookupAll returns all values for field name. The result is never nil
// for a present field and is empty when the field is absent.
func LookupAll(src any, name string) []string {
	if fs, ok := src.(FieldSource); ok {
		attr := strings.ReplaceAll(name, "-", "_")
		for _, n := range []string{attr, strings.ToLower(attr)} {
			if v, ok := fs.Attr(n); ok {
				if vs := toStringList(v); len(vs) > 0 {
					return vs
				}
			}
		}
	}
	if ms, ok := src.(MultiSource); ok {
		for _, n := range []string{name, strings.ToLower(name)} {
			if vs, ok := ms.GetMulti(n); ok && len(vs) > 0 {
				return vs
			}
		}
	}
	if ss, ok := src.(SingleSource); ok {
		for _, n := range []string{name, strings.ToLower(name)} {
			if v, ok := ss.GetOne(n); ok && v != "" {
				return []string{v}
			}
		}
	}
	return nil
}

func isEmptyValue(v any) bool {
	switch v := v.(type) {
	case nil:
		return true
	case string:
		return v == ""
	case []string:
		return len(v) == 0
	case []any:
		return len(v) == 0
	}
	return false
}

func toStringList(v any) []string {
	switch v := v.(type) {
	case []string:
		return v
	case string:
		if v == "" {
			return nil
		}
		return []string{v}
	case []any:
		var out []string
		for _, e := range v {
			if s, ok := e.(string); ok {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}

// HeaderSource adapts RFC 822 style headers (PKG-INFO, METADATA) to the
// accessor shapes. Header keys are canonicalized the way net/mail does.
type HeaderSource struct {
	Header mail.Header
	// Body is the message payload, used by newer metadata versions as
	// the long description.
	Body string
}

func (h HeaderSource) GetOne(name string) (string, bool) {
	v := h.Header.Get(name)
	return v, v != ""
}

func (h HeaderSource) GetMulti(name string) ([]string, bool) {
	vs := h.Header[textproto.CanonicalMIMEHeaderKey(name)]
	return vs, len(vs) > 0
}

// Payload returns the trimmed message body, if any.
func (h HeaderSource) Payload() string {
	return strings.TrimSpace(h.Body)
}

// MapSource adapts a plain key-value mapping (setup() arguments,
// setup.cfg metadata, pyproject tables) to the named-property shape.
// Keys are matched case-sensitively, as stored.
type MapSource map[string]any

func (m MapSource) Attr(name string) (any, bool) {
	v, ok := m[name]
	return v, ok
}
