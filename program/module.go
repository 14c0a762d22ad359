//go:build !nogpu

// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package program

import "github.com/gogpu/wgpu/hal"

// CreateModule compiles the program and creates a shader module on
// device.
func (p Program) CreateModule(device hal.Device) (hal.ShaderModule, error) {
	code, err := p.SPIRV()
	if err != nil {
		return nil, err
	}
	return device.CreateShaderModule(&hal.ShaderModuleDescriptor{
		Label: p.Name,
		Source: hal.ShaderSource{
			SPIRV: code,
		},
	})
}
