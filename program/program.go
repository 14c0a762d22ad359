// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package program holds the WGSL programs used when software frames are
// presented through the GPU, and compiles them to SPIR-V with naga.
package program

import (
	_ "embed"
	"errors"
	"fmt"
	"sync"

	"github.com/gogpu/naga"
)

// ErrEmptySource is returned when compiling an empty program.
var ErrEmptySource = errors.New("program: empty source")

//go:embed shaders/blit.wgsl
var blitSource string

// Program is a WGSL shader with its entry points.
type Program struct {
	Name          string
	Source        string
	VertexEntry   string
	FragmentEntry string
}

// Blit draws a texture over the whole viewport.
var Blit = Program{Name: "blit", Source: blitSource, VertexEntry: "vs_main", FragmentEntry: "fs_main"}

// All returns the built-in programs.
func All() []Program { return []Program{Blit} }

var compiled sync.Map // source -> []uint32

// SPIRV compiles the program, caching the result by source.
func (p Program) SPIRV() ([]uint32, error) {
	if v, ok := compiled.Load(p.Source); ok {
		return v.([]uint32), nil
	}
	code, err := Compile(p.Source)
	if err != nil {
		return nil, fmt.Errorf("program %s: %w", p.Name, err)
	}
	compiled.Store(p.Source, code)
	return code, nil
}

// Compile translates WGSL to SPIR-V words.
func Compile(source string) ([]uint32, error) {
	if source == "" {
		return nil, ErrEmptySource
	}
	spirvBytes, err := naga.Compile(source)
	if err != nil {
		return nil, fmt.Errorf("program: compile: %w", err)
	}

	// SPIR-V is little-endian 32-bit words
	code := make([]uint32, len(spirvBytes)/4)
	for i := range code {
		code[i] = uint32(spirvBytes[i*4]) |
			uint32(spirvBytes[i*4+1])<<8 |
			uint32(spirvBytes[i*4+2])<<16 |
			uint32(spirvBytes[i*4+3])<<24
	}
	return code, nil
}
