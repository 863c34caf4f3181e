// Copyright 2026 The pymeta Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"bufio"
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/ossmeta/pymeta/pkg/pypi"
)

func writeFixture(t *testing.T, root, name, content string) {
	t.Helper()
	p := filepath.Join(root, name)
	if err := os.MkdirAll(filepath.Dir(p), 0755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(p, []byte(content), 0644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
}

func TestScan(t *testing.T) {
	root := t.TempDir()
	writeFixture(t, root, "pkg-1.0/PKG-INFO",
		"Metadata-Version: 2.1\nName: pkg\nVersion: 1.0\n\n")
	writeFixture(t, root, "requirements.txt", "requests==2.31.0\n")
	writeFixture(t, root, "README.md", "not a descriptor")
	writeFixture(t, root, "broken/setup.cfg", "[unclosed\n")

	var out bytes.Buffer
	summary, err := scan(Config{Root: root}, &out)
	if err != nil {
		t.Fatalf("scan() failed: %v", err)
	}
	if summary.records != 2 {
		t.Errorf("records = %d, want 2", summary.records)
	}
	if summary.failures != 1 {
		t.Errorf("failures = %d, want 1", summary.failures)
	}

	byID := map[string]pypi.PackageRecord{}
	scanner := bufio.NewScanner(&out)
	for scanner.Scan() {
		var rec pypi.PackageRecord
		if err := json.Unmarshal(scanner.Bytes(), &rec); err != nil {
			t.Fatalf("decoding output line: %v", err)
		}
		byID[rec.DatasourceID] = rec
	}
	if rec, ok := byID["pypi_sdist_pkginfo"]; !ok || rec.Name != "pkg" {
		t.Errorf("PKG-INFO record = %+v", rec)
	}
	if rec, ok := byID["pip_requirements"]; !ok || len(rec.Dependencies) != 1 {
		t.Errorf("requirements record = %+v", rec)
	}
}

func TestScanMaxDepth(t *testing.T) {
	root := t.TempDir()
	writeFixture(t, root, "a/b/c/PKG-INFO",
		"Metadata-Version: 2.1\nName: deep\nVersion: 1.0\n\n")

	var out bytes.Buffer
	summary, err := scan(Config{Root: root, MaxDepth: 2}, &out)
	if err != nil {
		t.Fatalf("scan() failed: %v", err)
	}
	if summary.records != 0 {
		t.Errorf("records = %d, want 0 with the walk bounded", summary.records)
	}
}

func TestConfigValidate(t *testing.T) {
	if err := (Config{}).Validate(); err == nil {
		t.Error("empty config validated")
	}
	if err := (Config{Root: ".", MaxDepth: -1}).Validate(); err == nil {
		t.Error("negative max-depth validated")
	}
	if err := (Config{Root: "."}).Validate(); err != nil {
		t.Errorf("valid config rejected: %v", err)
	}
}
