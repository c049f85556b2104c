// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package render

import (
	"errors"
	"strings"
	"testing"
)

// fakeLocator resolves bare names from onPath and absolute paths from
// present.
type fakeLocator struct {
	onPath  map[string]string
	present map[string]bool
}

func (f *fakeLocator) LookPath(file string) (string, error) {
	if path, ok := f.onPath[file]; ok {
		return path, nil
	}
	return "", errors.New("executable file not found in $PATH")
}

func (f *fakeLocator) Stat(path string) error {
	if f.present[path] {
		return nil
	}
	return errors.New("no such file or directory")
}

func TestDetect(t *testing.T) {
	tests := []struct {
		name       string
		configured string
		loc        *fakeLocator
		want       string
		wantErr    bool
	}{
		{
			name:       "configured absolute path exists",
			configured: "/opt/chrome/chrome",
			loc:        &fakeLocator{present: map[string]bool{"/opt/chrome/chrome": true}},
			want:       "/opt/chrome/chrome",
		},
		{
			name:       "configured absolute path missing",
			configured: "/opt/chrome/chrome",
			loc:        &fakeLocator{},
			wantErr:    true,
		},
		{
			name:       "configured bare name resolved on PATH",
			configured: "chromium",
			loc:        &fakeLocator{onPath: map[string]string{"chromium": "/usr/bin/chromium"}},
			want:       "/usr/bin/chromium",
		},
		{
			name: "first candidate wins",
			loc: &fakeLocator{onPath: map[string]string{
				"google-chrome": "/usr/bin/google-chrome",
				"chromium":      "/usr/bin/chromium",
			}},
			want: "/usr/bin/google-chrome",
		},
		{
			name: "falls through to later candidate",
			loc:  &fakeLocator{onPath: map[string]string{"chromium-browser": "/usr/bin/chromium-browser"}},
			want: "/usr/bin/chromium-browser",
		},
		{
			name: "macOS app binary",
			loc: &fakeLocator{present: map[string]bool{
				"/Applications/Google Chrome.app/Contents/MacOS/Google Chrome": true,
			}},
			want: "/Applications/Google Chrome.app/Contents/MacOS/Google Chrome",
		},
		{
			name:    "nothing found",
			loc:     &fakeLocator{},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := detect(tt.configured, tt.loc)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("detect: %v", err)
			}
			if got != tt.want {
				t.Errorf("detect = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDetect_ErrorMentionsRendererPath(t *testing.T) {
	_, err := detect("", &fakeLocator{})
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "renderer_path") {
		t.Errorf("error %q should point at the renderer_path setting", err)
	}
}
