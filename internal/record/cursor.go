package record

import (
	"image"
	"image/color"
	"image/draw"
	"math"
)

// Animate draws the cursor on every captured frame and inserts glide frames
// so the pointer moves between steps instead of jumping. It returns the
// frames with their GIF delays.
func Animate(frames []image.Image, marks []Mark, moveFrames, stepDelay int) ([]image.Image, []int) {
	var out []image.Image
	var delays []int

	var prev image.Point
	for i, frame := range frames {
		mark := Mark{}
		if i < len(marks) {
			mark = marks[i]
		}

		// glide over the previous screenshot towards the element about to be used
		if i > 0 && mark.Point != prev && moveFrames > 0 {
			for step := 1; step <= moveFrames; step++ {
				t := easeInOut(float64(step) / float64(moveFrames+1))
				at := image.Point{
					X: prev.X + int(t*float64(mark.Point.X-prev.X)),
					Y: prev.Y + int(t*float64(mark.Point.Y-prev.Y)),
				}
				out = append(out, drawMark(frames[i-1], Mark{Point: at}))
				delays = append(delays, 4)
			}
		}

		out = append(out, drawMark(frame, mark))
		delays = append(delays, stepDelay)
		prev = mark.Point
	}
	return out, delays
}

func easeInOut(t float64) float64 {
	if t < 0.5 {
		return 2 * t * t
	}
	return 1 - math.Pow(-2*t+2, 2)/2
}

var (
	outline = color.RGBA{0, 0, 0, 255}
	fill    = color.RGBA{255, 255, 255, 255}
	ring    = color.RGBA{66, 133, 244, 255}
)

// arrow is the pointer outline relative to its tip.
var arrow = []image.Point{{0, 0}, {0, 16}, {4, 12}, {7, 18}, {10, 17}, {7, 11}, {12, 11}}

// drawMark copies frame and draws the pointer (and a ring for clicks) on it.
// A zero point means the cursor was never placed.
func drawMark(frame image.Image, m Mark) image.Image {
	b := frame.Bounds()
	dst := image.NewRGBA(b)
	draw.Draw(dst, b, frame, b.Min, draw.Src)

	if m.Point == (image.Point{}) {
		return dst
	}
	if m.Click {
		circle(dst, m.Point, 15, ring)
		circle(dst, m.Point, 16, ring)
	}

	for y := 0; y <= 18; y++ {
		for x := 0; x <= 12; x++ {
			if insidePolygon(arrow, float64(x)+0.5, float64(y)+0.5) {
				set(dst, m.Point.X+x, m.Point.Y+y, fill)
			}
		}
	}
	for i := range arrow {
		a, c := arrow[i], arrow[(i+1)%len(arrow)]
		line(dst, m.Point.Add(a), m.Point.Add(c), outline)
	}
	return dst
}

// insidePolygon is an even-odd ray cast.
func insidePolygon(poly []image.Point, x, y float64) bool {
	in := false
	for i, j := 0, len(poly)-1; i < len(poly); j, i = i, i+1 {
		xi, yi := float64(poly[i].X), float64(poly[i].Y)
		xj, yj := float64(poly[j].X), float64(poly[j].Y)
		if (yi > y) != (yj > y) && x < (xj-xi)*(y-yi)/(yj-yi)+xi {
			in = !in
		}
	}
	return in
}

// line is Bresenham's algorithm.
func line(img *image.RGBA, p, q image.Point, c color.RGBA) {
	dx, dy := abs(q.X-p.X), -abs(q.Y-p.Y)
	sx, sy := 1, 1
	if p.X > q.X {
		sx = -1
	}
	if p.Y > q.Y {
		sy = -1
	}
	e := dx + dy
	for {
		set(img, p.X, p.Y, c)
		if p == q {
			return
		}
		e2 := 2 * e
		if e2 >= dy {
			e += dy
			p.X += sx
		}
		if e2 <= dx {
			e += dx
			p.Y += sy
		}
	}
}

func circle(img *image.RGBA, center image.Point, r int, c color.RGBA) {
	steps := int(2 * math.Pi * float64(r))
	for i := 0; i < steps; i++ {
		a := 2 * math.Pi * float64(i) / float64(steps)
		set(img, center.X+int(math.Round(float64(r)*math.Cos(a))), center.Y+int(math.Round(float64(r)*math.Sin(a))), c)
	}
}

func set(img *image.RGBA, x, y int, c color.RGBA) {
	if image.Pt(x, y).In(img.Bounds()) {
		img.SetRGBA(x, y, c)
	}
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
