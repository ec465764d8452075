package bubbleview

import "testing"

// fixed-width measurer: 7 px per rune, so the wrap math is deterministic.
func measureFixed(line string) int { return len(line) * 7 }

func TestWrapLineCountGreedyPacking(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		width int
		want  int
	}{
		{"empty", "", 100, 1},
		{"single word", "hello", 100, 1},
		{"fits on one line", "take a sip", 100, 1},
		{"wraps at width", "stand up for thirty seconds", 70, 3},
		{"paragraph break", "one\ntwo", 100, 2},
		{"blank paragraph keeps its line", "one\n\ntwo", 100, 3},
		{"overlong word stays on one line", "extraordinary", 35, 1},
		{"unknown width means no wrapping", "a b c d e f", 0, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := wrapLineCount(tt.text, tt.width, measureFixed); got != tt.want {
				t.Errorf("wrapLineCount(%q, %d) = %d, want %d", tt.text, tt.width, got, tt.want)
			}
		})
	}
}

func TestWrappedHeightUsesFullLineGap(t *testing.T) {
	tests := []struct {
		name       string
		lines      int
		lineHeight int
		want       int
	}{
		{"single line has no gap", 1, 16, 16},
		{"two lines", 2, 16, 2*16 + lineGap},
		{"three lines", 3, 16, 3*16 + 2*lineGap},
		{"zero clamps to one line", 0, 16, 16},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := wrappedHeight(tt.lines, tt.lineHeight); got != tt.want {
				t.Errorf("wrappedHeight(%d, %d) = %d, want %d", tt.lines, tt.lineHeight, got, tt.want)
			}
		})
	}
}
