// Copyright 2026 The pymeta Authors
// SPDX-License-Identifier: Apache-2.0

// Package safememfs wraps an in-memory billy filesystem with a mutex so
// concurrent scans can share one fixture tree.
package safememfs

import (
	"os"
	"sync"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/memfs"
)

// SafeMemory serializes the map operations of a memfs.Memory.
// Simultaneous reads and writes to one open file are left to the
// underlying storage.
type SafeMemory struct {
	fs billy.Filesystem
	mu *sync.Mutex
}

var (
	_ billy.Filesystem = (*SafeMemory)(nil)
	_ billy.Capable    = (*SafeMemory)(nil)
)

// New creates a thread-safe in-memory filesystem.
func New() *SafeMemory {
	return &SafeMemory{fs: memfs.New(), mu: new(sync.Mutex)}
}

func (s *SafeMemory) Chroot(path string) (billy.Filesystem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sub, err := s.fs.Chroot(path)
	if err != nil {
		return nil, err
	}
	// the chroot view shares the parent's mutex
	return &SafeMemory{fs: sub, mu: s.mu}, nil
}

func (s *SafeMemory) Root() string { return "/" }

func (s *SafeMemory) Create(filename string) (billy.File, error) {
	return s.OpenFile(filename, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0666)
}

func (s *SafeMemory) Open(filename string) (billy.File, error) {
	return s.OpenFile(filename, os.O_RDONLY, 0666)
}

func (s *SafeMemory) OpenFile(filename string, flag int, perm os.FileMode) (billy.File, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.fs.OpenFile(filename, flag, perm)
}

func (s *SafeMemory) Stat(filename string) (os.FileInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.fs.Stat(filename)
}

func (s *SafeMemory) Lstat(filename string) (os.FileInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.fs.Lstat(filename)
}

func (s *SafeMemory) ReadDir(path string) ([]os.FileInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.fs.ReadDir(path)
}

func (s *SafeMemory) Rename(from, to string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.fs.Rename(from, to)
}

func (s *SafeMemory) Remove(filename string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.fs.Remove(filename)
}

func (s *SafeMemory) MkdirAll(path string, perm os.FileMode) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.fs.MkdirAll(path, perm)
}

func (s *SafeMemory) Symlink(target, link string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.fs.Symlink(target, link)
}

func (s *SafeMemory) Readlink(link string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.fs.Readlink(link)
}

func (s *SafeMemory) TempFile(dir, prefix string) (billy.File, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.fs.TempFile(dir, prefix)
}

// Join is pure and needs no lock.
func (s *SafeMemory) Join(elem ...string) string {
	return s.fs.Join(elem...)
}

func (s *SafeMemory) Capabilities() billy.Capability {
	if capable, ok := s.fs.(billy.Capable); ok {
		return capable.Capabilities()
	}
	return 0
}
