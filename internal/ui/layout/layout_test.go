package layout

import (
	"strings"
	"testing"

	"charm.land/lipgloss/v2"
)

func TestRenderHeader(t *testing.T) {
	h := RenderHeader("Editor", "ada", 80)
	if !strings.Contains(h, "BrianQuiz") || !strings.Contains(h, "Editor") || !strings.Contains(h, "ada") {
		t.Fatalf("header missing parts:\n%s", h)
	}
	if lipgloss.Height(h) != HeaderHeight {
		t.Errorf("header height = %d", lipgloss.Height(h))
	}
}

func TestRenderFooterStatusReplacesHints(t *testing.T) {
	f := RenderFooter([]KeyHint{{Key: "Enter", Description: "Select"}}, "", 80)
	if !strings.Contains(f, "Select") {
		t.Fatal("hints not rendered")
	}
	f = RenderFooter([]KeyHint{{Key: "Enter", Description: "Select"}}, "Saved", 80)
	if strings.Contains(f, "Select") || !strings.Contains(f, "Saved") {
		t.Fatalf("status should replace hints:\n%s", f)
	}
}

func TestRenderFrameHeight(t *testing.T) {
	header := RenderHeader("T", "", 70)
	footer := RenderFooter(nil, "", 70)
	frame := RenderFrame(header, "body", footer, 70, 24)
	if got := lipgloss.Height(frame); got != 24 {
		t.Errorf("frame height = %d, want 24", got)
	}
}

func TestIsTooSmall(t *testing.T) {
	if !IsTooSmall(40, 30) || !IsTooSmall(100, 10) || IsTooSmall(MinWidth, MinHeight) {
		t.Error("size thresholds wrong")
	}
}
