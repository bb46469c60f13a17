package viz

import (
	"image"
	"image/color"
	"image/gif"
	"io"
)

// Recorder rasterizes canvas snapshots into GIF frames.
type Recorder struct {
	frames []*image.Paletted
	// Delay between frames in 1/100 s.
	Delay int
}

func NewRecorder() *Recorder { return &Recorder{Delay: 2} }

func (r *Recorder) Len() int { return len(r.frames) }

// Capture draws every lit sub-pixel of c as a block of pixels.
func (r *Recorder) Capture(c *Canvas, fg color.Color) {
	const charW, charH = 8, 16
	const dotW, dotH = charW / 2, charH / 4

	img := image.NewPaletted(image.Rect(0, 0, c.Width*charW, c.Height*charH), color.Palette{color.Black, fg})
	pw, ph := c.PixelSize()
	for y := 0; y < ph; y++ {
		for x := 0; x < pw; x++ {
			if !c.IsSet(x, y) {
				continue
			}
			for py := 0; py < dotH; py++ {
				for px := 0; px < dotW; px++ {
					img.SetColorIndex(x*dotW+px, y*dotH+py, 1)
				}
			}
		}
	}
	r.frames = append(r.frames, img)
}

// Encode writes the animation and keeps the frames.
func (r *Recorder) Encode(w io.Writer) error {
	anim := gif.GIF{LoopCount: 0}
	for _, frame := range r.frames {
		anim.Image = append(anim.Image, frame)
		anim.Delay = append(anim.Delay, r.Delay)
	}
	return gif.EncodeAll(w, &anim)
}

func (r *Recorder) Reset() { r.frames = r.frames[:0] }
