package visuals

import (
	"fmt"
	"strings"
)

// RGB is an 8-bit colour.
type RGB struct{ R, G, B int }

func (c RGB) Hex() string { return fmt.Sprintf("0x%02X%02X%02X", c.R, c.G, c.B) }

var (
	GradientTop    = RGB{26, 26, 46}
	GradientBottom = RGB{15, 52, 78}
	Saffron        = RGB{0xFF, 0x99, 0x33}
	White          = RGB{0xFF, 0xFF, 0xFF}
	IndiaGreen     = RGB{0x13, 0x88, 0x08}
	Navy           = RGB{0x00, 0x00, 0x80}
	SubtitleColor  = RGB{255, 200, 100}
	DateColor      = RGB{220, 220, 220}
)

// TextSpec is one centred line of text read from a file.
type TextSpec struct {
	File     string
	FontFile string
	Size     int
	Color    RGB
	Y        int
	Shadow   int
}

// escapePath quotes a path for use as a filter option value.
func escapePath(p string) string {
	r := strings.NewReplacer(`\`, `\\`, `'`, `\'`, `:`, `\:`)
	return "'" + r.Replace(p) + "'"
}

// GradientFilter paints a vertical gradient over an rgb24 frame, top to bottom.
func GradientFilter(top, bottom RGB) string {
	ch := func(a, b int) string { return fmt.Sprintf("'%d+(%d-%d)*Y/H'", a, b, a) }
	return fmt.Sprintf("format=rgb24,geq=r=%s:g=%s:b=%s",
		ch(top.R, bottom.R), ch(top.G, bottom.G), ch(top.B, bottom.B))
}

// BorderFilters draws saffron/white bands on top and white/green at the bottom.
func BorderFilters(t int) []string {
	return []string{
		drawbox("0", "0", fmt.Sprint(t), Saffron.Hex()),
		drawbox("0", fmt.Sprint(t), fmt.Sprint(t), White.Hex()),
		drawbox("0", fmt.Sprintf("ih-%d", 2*t), fmt.Sprint(t), White.Hex()),
		drawbox("0", fmt.Sprintf("ih-%d", t), fmt.Sprint(t), IndiaGreen.Hex()),
	}
}

func drawbox(x, y, h, color string) string {
	return fmt.Sprintf("drawbox=x=%s:y=%s:w=iw:h=%s:color=%s:t=fill", x, y, h, color)
}

// PhotoFilters fits a photo to w x h, darkens it and lays a translucent black sheet over it.
func PhotoFilters(w, h int, brightness, alpha float64) []string {
	return []string{
		fmt.Sprintf("scale=%d:%d:force_original_aspect_ratio=increase", w, h),
		fmt.Sprintf("crop=%d:%d", w, h),
		"format=rgb24",
		fmt.Sprintf("eq=brightness=%.2f", brightness),
		fmt.Sprintf("drawbox=x=0:y=0:w=iw:h=ih:color=black@%.2f:t=fill", alpha),
	}
}

// DrawText centres one line horizontally, with an optional drop shadow.
func DrawText(s TextSpec) string {
	opts := []string{}
	if s.FontFile != "" {
		opts = append(opts, "fontfile="+escapePath(s.FontFile))
	}
	opts = append(opts,
		"textfile="+escapePath(s.File),
		"expansion=none",
		fmt.Sprintf("fontsize=%d", s.Size),
		"fontcolor="+s.Color.Hex(),
		"x=(w-text_w)/2",
		fmt.Sprintf("y=%d", s.Y),
	)
	if s.Shadow > 0 {
		opts = append(opts, "shadowcolor=black", fmt.Sprintf("shadowx=%d", s.Shadow), fmt.Sprintf("shadowy=%d", s.Shadow))
	}
	return "drawtext=" + strings.Join(opts, ":")
}

// DiscFilter turns a square colour source into a filled circle with a transparent surround.
func DiscFilter(radius int) string {
	return fmt.Sprintf("format=rgba,geq=r='r(X,Y)':g='g(X,Y)':b='b(X,Y)':a='if(lte(hypot(X-%d,Y-%d),%d),255,0)'",
		radius, radius, radius)
}

// Chain joins filters into one comma-separated chain.
func Chain(filters ...string) string {
	return strings.Join(filters, ",")
}
