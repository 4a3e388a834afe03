package renderer

import "github.com/cogentcore/webgpu/wgpu"

// TextureStagingData holds decoded RGBA8 pixels ready for upload.
type TextureStagingData struct {
	Width  uint32
	Height uint32
	Pixels []byte
}

// SamplerStagingData describes a sampler to create. Zero fields fall back to linear filtering with repeat addressing.
type SamplerStagingData struct {
	AddressModeU  wgpu.AddressMode
	AddressModeV  wgpu.AddressMode
	AddressModeW  wgpu.AddressMode
	MagFilter     wgpu.FilterMode
	MinFilter     wgpu.FilterMode
	MipmapFilter  wgpu.MipmapFilterMode
	LodMinClamp   float32
	LodMaxClamp   float32
	MaxAnisotropy uint16
	Compare       wgpu.CompareFunction
}

// LinearClampSampler samples render targets without wrapping at the screen edges.
var LinearClampSampler = SamplerStagingData{
	AddressModeU: wgpu.AddressModeClampToEdge,
	AddressModeV: wgpu.AddressModeClampToEdge,
	AddressModeW: wgpu.AddressModeClampToEdge,
	MagFilter:    wgpu.FilterModeLinear,
	MinFilter:    wgpu.FilterModeLinear,
	MipmapFilter: wgpu.MipmapFilterModeNearest,
}

// ShadowComparisonSampler is the PCF sampler used against the shadow depth target.
var ShadowComparisonSampler = SamplerStagingData{
	AddressModeU: wgpu.AddressModeClampToEdge,
	AddressModeV: wgpu.AddressModeClampToEdge,
	AddressModeW: wgpu.AddressModeClampToEdge,
	MagFilter:    wgpu.FilterModeLinear,
	MinFilter:    wgpu.FilterModeLinear,
	MipmapFilter: wgpu.MipmapFilterModeNearest,
	Compare:      wgpu.CompareFunctionLessEqual,
}
