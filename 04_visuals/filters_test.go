package visuals

import (
	"strings"
	"testing"
)

func TestGradientFilter(t *testing.T) {
	t.Parallel()

	got := GradientFilter(GradientTop, GradientBottom)
	want := "format=rgb24,geq=r='26+(15-26)*Y/H':g='26+(52-26)*Y/H':b='46+(78-46)*Y/H'"
	if got != want {
		t.Fatalf("got %s\nwant %s", got, want)
	}
}

func TestBorderFiltersOrder(t *testing.T) {
	t.Parallel()

	got := BorderFilters(20)
	want := []string{
		"drawbox=x=0:y=0:w=iw:h=20:color=0xFF9933:t=fill",
		"drawbox=x=0:y=20:w=iw:h=20:color=0xFFFFFF:t=fill",
		"drawbox=x=0:y=ih-40:w=iw:h=20:color=0xFFFFFF:t=fill",
		"drawbox=x=0:y=ih-20:w=iw:h=20:color=0x138808:t=fill",
	}
	if strings.Join(got, "\n") != strings.Join(want, "\n") {
		t.Fatalf("got\n%s", strings.Join(got, "\n"))
	}
}

func TestDrawTextEscapesPaths(t *testing.T) {
	t.Parallel()

	got := DrawText(TextSpec{File: "/tmp/a:b/title's.txt", FontFile: "/f.ttf", Size: 80, Color: SubtitleColor, Y: 520, Shadow: 3})
	want := `drawtext=fontfile='/f.ttf':textfile='/tmp/a\:b/title\'s.txt':expansion=none:fontsize=80:fontcolor=0xFFC864:x=(w-text_w)/2:y=520:shadowcolor=black:shadowx=3:shadowy=3`
	if got != want {
		t.Fatalf("got  %s\nwant %s", got, want)
	}

	if plain := DrawText(TextSpec{File: "t.txt", Size: 10}); strings.Contains(plain, "fontfile") || strings.Contains(plain, "shadow") {
		t.Fatalf("unset font and shadow must be omitted: %s", plain)
	}
}

func TestPhotoFilters(t *testing.T) {
	t.Parallel()

	got := Chain(PhotoFilters(1920, 1080, -0.25, 0.55)...)
	want := "scale=1920:1080:force_original_aspect_ratio=increase,crop=1920:1080,format=rgb24,eq=brightness=-0.25,drawbox=x=0:y=0:w=iw:h=ih:color=black@0.55:t=fill"
	if got != want {
		t.Fatalf("got %s", got)
	}
}

func TestDiscFilter(t *testing.T) {
	t.Parallel()

	if got := DiscFilter(60); !strings.Contains(got, "hypot(X-60,Y-60),60") {
		t.Fatalf("unexpected disc filter %s", got)
	}
}
