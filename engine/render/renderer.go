package render

import (
	"image"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/gajop/pinkskins/engine/core"
)

var (
	LetterboxColor = color.RGBA{0, 0, 0, 255}
	SpaceColor     = color.RGBA{8, 8, 20, 255}
)

// maxCachedLabels bounds the label cache; damage numbers vary a lot
const maxCachedLabels = 256

// Renderer draws the entity store through the camera. It only reads the
// world.
type Renderer struct {
	Camera *Camera
	face   *basicfont.Face
	labels map[string]*ebiten.Image // white glyphs, tinted at draw time
}

// NewRenderer creates a renderer fitted to the screen
func NewRenderer(screenW, screenH int) *Renderer {
	return &Renderer{
		Camera: NewCamera(screenW, screenH),
		face:   basicfont.Face7x13,
		labels: make(map[string]*ebiten.Image),
	}
}

// Draw renders every shape: circles first in id order, labels on top
func (r *Renderer) Draw(screen *ebiten.Image, w *core.World) {
	screen.Fill(LetterboxColor)
	c := r.Camera
	vector.DrawFilledRect(screen, float32(c.OffsetX), float32(c.OffsetY),
		float32(c.Scale), float32(c.Scale), SpaceColor, false)

	var labels []*core.Entity
	w.Each(func(e *core.Entity) {
		switch s := e.Shape.(type) {
		case *core.Circle:
			x, y := c.WorldToScreen(e.Transform.Pos)
			vector.DrawFilledCircle(screen, x, y, max(c.Length(s.Radius), 1), s.Color, true)
		case *core.Text:
			labels = append(labels, e)
		}
	})
	for _, e := range labels {
		r.drawText(screen, e.Transform.Pos, e.Shape.(*core.Text))
	}
}

// drawText centers a label horizontally on pos, scaled to its world size
func (r *Renderer) drawText(screen *ebiten.Image, pos core.Vec2, t *core.Text) {
	img := r.label(t.Text)
	h := img.Bounds().Dy()
	scale := float64(r.Camera.Length(t.Size)) / float64(h)
	if scale <= 0 {
		return
	}
	x, y := r.Camera.WorldToScreen(pos)

	op := &ebiten.DrawImageOptions{}
	op.GeoM.Translate(-float64(img.Bounds().Dx())/2, 0)
	op.GeoM.Scale(scale, scale)
	op.GeoM.Translate(float64(x), float64(y))
	op.ColorScale.ScaleWithColor(t.Color)
	op.Filter = ebiten.FilterLinear
	screen.DrawImage(img, op)
}

// label rasterizes s once with the bitmap face
func (r *Renderer) label(s string) *ebiten.Image {
	if img, ok := r.labels[s]; ok {
		return img
	}
	if len(r.labels) >= maxCachedLabels {
		for k, img := range r.labels {
			img.Deallocate()
			delete(r.labels, k)
		}
	}

	w := max(font.MeasureString(r.face, s).Ceil(), 1)
	rgba := image.NewRGBA(image.Rect(0, 0, w, r.face.Height))
	d := font.Drawer{
		Dst:  rgba,
		Src:  image.White,
		Face: r.face,
		Dot:  fixed.P(0, r.face.Ascent),
	}
	d.DrawString(s)

	img := ebiten.NewImageFromImage(rgba)
	r.labels[s] = img
	return img
}
