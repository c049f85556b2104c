// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package imgmeta

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/diagram-capture/pkg/types"
)

func TestParseDimensions(t *testing.T) {
	tests := []struct {
		name       string
		output     string
		wantWidth  string
		wantHeight string
	}{
		{
			name: "sips output",
			output: "/Users/dev/images/flow.jpg\n" +
				"  pixelHeight: 12000\n" +
				"  pixelWidth: 3000\n",
			wantWidth:  "3000",
			wantHeight: "12000",
		},
		{
			name:       "identify formatted output",
			output:     "pixelWidth: 3000\npixelHeight: 12000",
			wantWidth:  "3000",
			wantHeight: "12000",
		},
		{
			name:       "missing width",
			output:     "  pixelHeight: 12000\n",
			wantWidth:  "?",
			wantHeight: "12000",
		},
		{
			name:       "empty output",
			output:     "",
			wantWidth:  "?",
			wantHeight: "?",
		},
		{
			name:       "malformed line without separator",
			output:     "pixelWidth 3000\npixelHeight: 12000\n",
			wantWidth:  "?",
			wantHeight: "12000",
		},
		{
			name:       "empty value keeps placeholder",
			output:     "pixelWidth:   \npixelHeight: 12000\n",
			wantWidth:  "?",
			wantHeight: "12000",
		},
		{
			name: "unrelated lines ignored",
			output: "Warning: something\n" +
				"  format: jpeg\n" +
				"  pixelWidth: 640\n" +
				"  pixelHeight: 480\n",
			wantWidth:  "640",
			wantHeight: "480",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dims := ParseDimensions([]byte(tt.output))
			assert.Equal(t, tt.wantWidth, dims.Width)
			assert.Equal(t, tt.wantHeight, dims.Height)
		})
	}
}

func TestDimensionsString(t *testing.T) {
	dims := types.Dimensions{Width: "3000", Height: "12000"}
	assert.Equal(t, "3000x12000", dims.String())
	assert.False(t, dims.Unknown())

	unknown := types.UnknownDimensions()
	assert.Equal(t, "?x?", unknown.String())
	assert.True(t, unknown.Unknown())
}

// fakeExecutor resolves lookups from available and returns canned probe
// output.
type fakeExecutor struct {
	available map[string]bool
	output    []byte
	err       error
	name      string
	args      []string
}

func (f *fakeExecutor) LookPath(file string) (string, error) {
	if f.available[file] {
		return "/usr/bin/" + file, nil
	}
	return "", errors.New("executable file not found in $PATH")
}

func (f *fakeExecutor) Output(ctx context.Context, name string, args ...string) ([]byte, error) {
	f.name = name
	f.args = args
	return f.output, f.err
}

func TestDetect(t *testing.T) {
	tests := []struct {
		name      string
		available map[string]bool
		want      string
		wantErr   bool
	}{
		{"prefers sips", map[string]bool{"sips": true, "identify": true}, "sips", false},
		{"identify fallback", map[string]bool{"identify": true}, "identify", false},
		{"magick identify fallback", map[string]bool{"magick": true}, "identify", false},
		{"nothing available", map[string]bool{}, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := detect(&fakeExecutor{available: tt.available})
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.Name())
		})
	}
}

func TestDimensions_ProbeFailure(t *testing.T) {
	fake := &fakeExecutor{available: map[string]bool{"sips": true}, err: errors.New("exit status 1")}
	p := newSips(fake)

	dims, err := p.Dimensions(context.Background(), "flow.jpg")
	require.Error(t, err)
	assert.True(t, dims.Unknown(), "failed probe should still return printable placeholders")
}

func TestDimensions_MagickIdentifyArgs(t *testing.T) {
	fake := &fakeExecutor{output: []byte("pixelWidth: 10\npixelHeight: 20")}
	p := newIdentify(fake, "magick", []string{"identify"})

	dims, err := p.Dimensions(context.Background(), "flow.jpg")
	require.NoError(t, err)
	assert.Equal(t, "10", dims.Width)
	assert.Equal(t, "20", dims.Height)

	assert.Equal(t, "magick", fake.name)
	require.NotEmpty(t, fake.args)
	assert.Equal(t, "identify", fake.args[0], "magick backend should run the identify subcommand")
	assert.Equal(t, "flow.jpg", fake.args[len(fake.args)-1])
}
