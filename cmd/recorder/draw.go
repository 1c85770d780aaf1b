package main

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"math"
	"time"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

var (
	slateBg = image.NewUniform(color.RGBA{A: 255})
	slateFg = image.NewUniform(color.RGBA{R: 255, G: 255, B: 255, A: 255})
)

// drawSlate prints the lines on an opaque box with the top left corner at x, y.
func drawSlate(img *image.RGBA, x, y int, lines ...string) {
	face := basicfont.Face7x13
	width := 0
	for _, l := range lines {
		width = max(width, font.MeasureString(face, l).Ceil())
	}
	h := face.Metrics().Height.Ceil()
	draw.Draw(img, image.Rect(x, y, x+width+4, y+len(lines)*h+4), slateBg, image.Point{}, draw.Src)

	d := font.Drawer{Dst: img, Src: slateFg, Face: face}
	for i, l := range lines {
		d.Dot = fixed.P(x+2, y+2+i*h+face.Metrics().Ascent.Ceil())
		d.DrawString(l)
	}
}

// timecode formats the time as HH:MM:SS:FF with frames of the rate.
func timecode(d time.Duration, fps float64) string {
	if d < 0 {
		d = 0
	}
	s := int64(d / time.Second)
	ff := 0
	if fps > 0 {
		ff = int(math.Floor((d - time.Duration(s)*time.Second).Seconds() * fps))
	}
	return fmt.Sprintf("%02d:%02d:%02d:%02d", s/3600%24, s/60%60, s%60, ff)
}
