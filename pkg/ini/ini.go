// Copyright 2026 The pymeta Authors
// SPDX-License-Identifier: Apache-2.0

// Package ini parses the INI dialect used by Python's setup.cfg:
// sections, = or : separators, comments, and indented multiline values.
package ini

import (
	"bufio"
	"io"
	"strings"
	"unicode"

	"github.com/pkg/errors"
)

// Section is one [name] block of key-value pairs.
type Section struct {
	Name   string
	Values map[string]string
}

// Get returns the value for key and whether it was present.
func (s *Section) Get(key string) (string, bool) {
	v, ok := s.Values[key]
	return v, ok
}

// List returns the value for key split into its list entries. setup.cfg
// accepts dangling lists (one entry per indented line), comma-separated
// and semicolon-separated forms.
func (s *Section) List(key string) []string {
	v, ok := s.Values[key]
	if !ok {
		return nil
	}
	sep := "\n"
	if !strings.Contains(v, "\n") {
		if strings.Contains(v, ";") {
			sep = ";"
		} else if strings.Contains(v, ",") {
			sep = ","
		}
	}
	var out []string
	for _, item := range strings.Split(v, sep) {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

// File is a parsed INI document.
type File struct {
	Sections map[string]*Section
}

// Section returns the named section, or nil.
func (f *File) Section(name string) *Section {
	return f.Sections[name]
}

// GetValue returns the value for key in the named section.
func (f *File) GetValue(section, key string) (string, bool) {
	if s := f.Sections[section]; s != nil {
		return s.Get(key)
	}
	return "", false
}

// SectionsWithPrefix returns the sections whose name starts with
// prefix, keyed by the remainder of the name. setup.cfg spells extras
// groups as [options.extras_require] keys but tools also accept
// [options.extras_require.group] sections.
func (f *File) SectionsWithPrefix(prefix string) map[string]*Section {
	out := map[string]*Section{}
	for name, s := range f.Sections {
		if rest, ok := strings.CutPrefix(name, prefix); ok && rest != "" {
			out[rest] = s
		}
	}
	return out
}

func (f *File) section(name string) *Section {
	if s, ok := f.Sections[name]; ok {
		return s
	}
	s := &Section{Name: name, Values: map[string]string{}}
	f.Sections[name] = s
	return s
}

type parser struct {
	file    *File
	current *Section

	key     string
	value   strings.Builder
	indent  int
	open    bool
	blanks  int
	lineNum int
}

// Parse reads an INI document from r.
func Parse(r io.Reader) (*File, error) {
	p := &parser{file: &File{Sections: map[string]*Section{}}}
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		p.lineNum++
		if err := p.line(scanner.Text()); err != nil {
			return nil, err
		}
	}
	p.flush()
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, "reading input")
	}
	return p.file, nil
}

func (p *parser) flush() {
	if p.key == "" {
		return
	}
	if p.current == nil {
		p.current = p.file.section("")
	}
	p.current.Values[p.key] = p.value.String()
	p.key = ""
	p.value.Reset()
	p.open = false
	p.blanks = 0
}

func (p *parser) line(raw string) error {
	trimmed := strings.TrimLeftFunc(raw, unicode.IsSpace)
	indent := len(raw) - len(trimmed)
	switch {
	case len(trimmed) == 0:
		if p.open {
			// kept only when another continuation follows
			p.blanks++
		}
		return nil
	case trimmed[0] == '#' || trimmed[0] == ';':
		return nil
	}
	if p.open && indent > p.indent {
		// continuation of the current value
		for ; p.blanks > 0; p.blanks-- {
			p.value.WriteByte('\n')
		}
		p.value.WriteByte('\n')
		p.value.WriteString(strings.TrimSpace(stripValueComment(trimmed)))
		return nil
	}
	p.flush()

	line := trimmed
	ci := inlineComment(line)
	if line[0] == '[' {
		hdr := line
		if ci != -1 {
			hdr = strings.TrimSpace(hdr[:ci])
		}
		end := strings.LastIndexByte(hdr, ']')
		if end > 1 {
			p.current = p.file.section(hdr[1:end])
			return nil
		}
		// configparser tolerates bracketed text holding a separator,
		// treating it as a key-value line
		if !strings.ContainsAny(hdr, "=:") {
			if end == -1 {
				return errors.Errorf("line %d: unclosed section header", p.lineNum)
			}
			return errors.Errorf("line %d: empty section name", p.lineNum)
		}
	}
	sep := strings.IndexAny(line, "=:")
	if sep == -1 || (ci != -1 && ci < sep) {
		// any separator sits inside a trailing comment
		return errors.Errorf("line %d: no key-value separator found", p.lineNum)
	}
	key := strings.TrimSpace(line[:sep])
	if key == "" {
		return errors.Errorf("line %d: empty key name", p.lineNum)
	}
	p.key = key
	p.indent = indent
	p.open = true
	p.value.WriteString(strings.TrimSpace(stripValueComment(line[sep+1:])))
	return nil
}

// stripValueComment drops a whitespace-preceded # or ; comment from a
// value, but only when value content precedes it: a value that begins
// with a comment character, like "color = #ff0000", is kept whole.
func stripValueComment(v string) string {
	if idx := inlineComment(v); idx != -1 {
		if head := strings.TrimSpace(v[:idx]); head != "" {
			return head
		}
	}
	return v
}

// inlineComment returns the index of a # or ; preceded by whitespace,
// or -1.
func inlineComment(s string) int {
	prev := rune(-1)
	idx := 0
	for _, r := range s {
		if (r == '#' || r == ';') && prev != -1 && unicode.IsSpace(prev) {
			return idx
		}
		prev = r
		idx += len(string(r))
	}
	return -1
}
