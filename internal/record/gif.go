package record

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/gif"
	"math"
	"os"
	"sort"

	"github.com/nfnt/resize"
)

// Generate downscales frames to maxWidth and writes them as a looping GIF.
// It returns the size of the written file.
func Generate(frames []image.Image, delays []int, outputPath string, maxWidth uint) (int64, error) {
	if len(frames) == 0 {
		return 0, nil
	}
	if len(delays) != len(frames) {
		return 0, fmt.Errorf("got %d delays for %d frames", len(delays), len(frames))
	}

	bounds := frames[0].Bounds()
	width := maxWidth
	if width == 0 || width > uint(bounds.Dx()) {
		width = uint(bounds.Dx())
	}
	height := uint(float64(width) * float64(bounds.Dy()) / float64(bounds.Dx()))
	if height == 0 {
		height = 1
	}

	g := &gif.GIF{
		Image:     make([]*image.Paletted, len(frames)),
		Delay:     delays,
		LoopCount: 0,
	}

	pal := buildPalette(frames)

	canvas := image.Rect(0, 0, int(width), int(height))
	for i, frame := range frames {
		p := image.NewPaletted(canvas, pal)
		draw.FloydSteinberg.Draw(p, canvas, letterbox(frame, canvas), image.Point{})
		g.Image[i] = p
	}

	f, err := os.Create(outputPath)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	if err := gif.EncodeAll(f, g); err != nil {
		return 0, err
	}

	info, err := f.Stat()
	if err != nil {
		return 0, err
	}
	return info.Size(), nil
}

// letterbox scales frame to fit canvas, keeping its aspect ratio, and
// centres it on a white background. Frames taken after a viewport change
// have a different shape than the first one.
func letterbox(frame image.Image, canvas image.Rectangle) image.Image {
	fb := frame.Bounds()
	scale := math.Min(float64(canvas.Dx())/float64(fb.Dx()), float64(canvas.Dy())/float64(fb.Dy()))
	w := max(1, int(math.Round(float64(fb.Dx())*scale)))
	h := max(1, int(math.Round(float64(fb.Dy())*scale)))
	scaled := resize.Resize(uint(w), uint(h), frame, resize.Lanczos3)

	dst := image.NewRGBA(canvas)
	draw.Draw(dst, canvas, image.White, image.Point{}, draw.Src)
	offset := image.Pt((canvas.Dx()-w)/2, (canvas.Dy()-h)/2)
	draw.Draw(dst, image.Rectangle{Min: offset, Max: offset.Add(image.Pt(w, h))}, scaled, scaled.Bounds().Min, draw.Src)
	return dst
}

// buildPalette keeps the most frequent colours sampled across all frames,
// reserving room for the cursor colours, and pads with greys up to 256 entries.
func buildPalette(frames []image.Image) color.Palette {
	counts := make(map[color.RGBA]int)
	const step = 4
	for _, img := range frames {
		b := img.Bounds()
		for y := b.Min.Y; y < b.Max.Y; y += step {
			for x := b.Min.X; x < b.Max.X; x += step {
				r, g, bl, a := img.At(x, y).RGBA()
				counts[color.RGBA{uint8(r >> 8), uint8(g >> 8), uint8(bl >> 8), uint8(a >> 8)}]++
			}
		}
	}

	type entry struct {
		c color.RGBA
		n int
	}
	entries := make([]entry, 0, len(counts))
	for c, n := range counts {
		entries = append(entries, entry{c, n})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].n != entries[j].n {
			return entries[i].n > entries[j].n
		}
		ci, cj := entries[i].c, entries[j].c
		return uint32(ci.R)<<24|uint32(ci.G)<<16|uint32(ci.B)<<8|uint32(ci.A) <
			uint32(cj.R)<<24|uint32(cj.G)<<16|uint32(cj.B)<<8|uint32(cj.A)
	})

	pal := color.Palette{outline, fill, ring}
	have := map[color.RGBA]bool{outline: true, fill: true, ring: true}
	for _, e := range entries {
		if len(pal) == 256 {
			break
		}
		if !have[e.c] {
			pal = append(pal, e.c)
			have[e.c] = true
		}
	}
	for g := 0; len(pal) < 256; g++ {
		grey := color.RGBA{uint8(g), uint8(g), uint8(g), 255}
		if !have[grey] {
			pal = append(pal, grey)
			have[grey] = true
		}
	}
	return pal
}
