package render

import "testing"

func TestExtractYouTubeID(t *testing.T) {
	cases := []struct {
		url    string
		want   string
		wantOK bool
	}{
		{"https://www.youtube.com/watch?v=dQw4w9WgXcQ", "dQw4w9WgXcQ", true},
		{"https://youtu.be/dQw4w9WgXcQ", "dQw4w9WgXcQ", true},
		{"https://www.youtube.com/embed/dQw4w9WgXcQ?start=30", "dQw4w9WgXcQ", true},
		{"https://www.youtube.com/v/dQw4w9WgXcQ", "dQw4w9WgXcQ", true},
		{"https://www.youtube.com/u/x/dQw4w9WgXcQ", "dQw4w9WgXcQ", true},
		{"https://www.youtube.com/watch?feature=share&v=dQw4w9WgXcQ", "dQw4w9WgXcQ", true},
		{"https://youtu.be/short", "", false},
		{"https://example.com/not-a-video", "", false},
		{"", "", false},
	}
	for _, tc := range cases {
		got, ok := ExtractYouTubeID(tc.url)
		if ok != tc.wantOK || got != tc.want {
			t.Fatalf("ExtractYouTubeID(%q) = %q, %v; want %q, %v", tc.url, got, ok, tc.want, tc.wantOK)
		}
	}
}

func TestDividerStyleFallsBackToLine(t *testing.T) {
	for style, want := range map[string]string{"dots": DividerDots, "gradient": DividerGradient, "": DividerLine, "wavy": DividerLine} {
		if got := DividerStyle(style); got != want {
			t.Fatalf("DividerStyle(%q) = %q, want %q", style, got, want)
		}
	}
}
