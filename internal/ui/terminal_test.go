package ui

import (
	"strings"
	"testing"
)

func TestShouldUseColor(t *testing.T) {
	tests := []struct {
		name          string
		noColor       string
		cliColor      string
		cliColorForce string
		want          bool
	}{
		{name: "NO_COLOR disables", noColor: "1", cliColorForce: "1", want: false},
		{name: "CLICOLOR=0 disables", cliColor: "0", want: false},
		{name: "CLICOLOR_FORCE forces on", cliColorForce: "1", want: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("NO_COLOR", tt.noColor)
			t.Setenv("CLICOLOR", tt.cliColor)
			t.Setenv("CLICOLOR_FORCE", tt.cliColorForce)
			if got := ShouldUseColor(); got != tt.want {
				t.Errorf("ShouldUseColor() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRenderMarkersPlainWithoutColor(t *testing.T) {
	t.Setenv("NO_COLOR", "1")
	t.Setenv("CLICOLOR_FORCE", "")

	if got := RenderPass("✓"); got != "✓" {
		t.Errorf("RenderPass with color off = %q, want bare marker", got)
	}
	if got := RenderFail("✗"); got != "✗" {
		t.Errorf("RenderFail with color off = %q, want bare marker", got)
	}
}

func TestRenderMarkersStyledWhenForced(t *testing.T) {
	t.Setenv("NO_COLOR", "")
	t.Setenv("CLICOLOR", "")
	t.Setenv("CLICOLOR_FORCE", "1")

	if got := RenderFail("✗"); !strings.Contains(got, "✗") {
		t.Errorf("RenderFail lost the marker: %q", got)
	}
}
