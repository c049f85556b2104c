// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types holds the configuration and result records shared between
// the conversion stages and the CLI.
package types

// ConversionStatus indicates the outcome of converting one diagram.
type ConversionStatus string

const (
	StatusConverted ConversionStatus = "converted"
	StatusSkipped   ConversionStatus = "skipped"
	StatusFailed    ConversionStatus = "failed"
)

// UnknownDimension is the placeholder reported when the metadata probe
// cannot determine a pixel dimension. A missing dimension is cosmetic and
// never fails the item.
const UnknownDimension = "?"

// Dimensions holds the pixel size of a finished image. Values are strings
// so a failed probe degrades to the "?" placeholder.
type Dimensions struct {
	Width  string `json:"width" yaml:"width"`
	Height string `json:"height" yaml:"height"`
}

// Unknown reports whether either dimension could not be determined.
func (d Dimensions) Unknown() bool {
	return d.Width == UnknownDimension || d.Height == UnknownDimension
}

// String renders the dimensions as "WxH".
func (d Dimensions) String() string {
	return d.Width + "x" + d.Height
}

// UnknownDimensions is the probe result when nothing could be read.
func UnknownDimensions() Dimensions {
	return Dimensions{Width: UnknownDimension, Height: UnknownDimension}
}

// DiagramResult is the per-item outcome of a conversion run.
type DiagramResult struct {
	// Name is the diagram base name without extension (e.g. "flow").
	Name string `json:"name" yaml:"name"`

	// Status is the conversion outcome.
	Status ConversionStatus `json:"status" yaml:"status"`

	// OutputPath is the final JPEG location, set on success.
	OutputPath string `json:"output_path,omitempty" yaml:"output_path,omitempty"`

	// Width and Height are the probed pixel dimensions, "?" when unknown.
	Width  string `json:"width,omitempty" yaml:"width,omitempty"`
	Height string `json:"height,omitempty" yaml:"height,omitempty"`

	// Reason describes the failure, set when Status is StatusFailed.
	Reason string `json:"reason,omitempty" yaml:"reason,omitempty"`
}
