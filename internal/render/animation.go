package render

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/jpeg"

	"github.com/icza/mjpeg"

	"github.com/outbreaklab/epidemic-core/internal/epidemic"
	"github.com/outbreaklab/epidemic-core/pkg/models"
	"github.com/outbreaklab/epidemic-core/pkg/utils"
)

// LatticeAnimation accumulates per-step grid snapshots from a lattice
// trial and writes them as an MJPEG AVI, one frame per step. ObserveStep
// is shaped to plug directly into the trial's OnStep hook.
type LatticeAnimation struct {
	cellPixels int
	fps        int
	frames     [][][]models.Cell
}

// NewLatticeAnimation creates a recorder. Cell pixels below 1 are raised
// to 1; frame rates below 1 to 1.
func NewLatticeAnimation(cellPixels, fps int) *LatticeAnimation {
	return &LatticeAnimation{
		cellPixels: utils.Max(cellPixels, 1),
		fps:        utils.Max(fps, 1),
	}
}

// ObserveStep snapshots the population grid. Non-lattice populations are
// ignored.
func (a *LatticeAnimation) ObserveStep(step int, pop *epidemic.Population) {
	grid := pop.Grid()
	if grid == nil {
		return
	}
	a.frames = append(a.frames, grid)
}

// Frames returns the number of recorded frames.
func (a *LatticeAnimation) Frames() int { return len(a.frames) }

// WriteAVI encodes the recorded frames to path.
func (a *LatticeAnimation) WriteAVI(path string) error {
	if len(a.frames) == 0 {
		return fmt.Errorf("nothing to animate: no frames recorded")
	}

	side := len(a.frames[0])
	size := side * a.cellPixels
	video, err := mjpeg.New(path, int32(size), int32(size), int32(a.fps))
	if err != nil {
		return fmt.Errorf("failed to create avi writer: %w", err)
	}

	var buf bytes.Buffer
	options := &jpeg.Options{Quality: 90}
	for i, grid := range a.frames {
		if err := jpeg.Encode(&buf, a.frameImage(grid), options); err != nil {
			video.Close()
			return fmt.Errorf("failed to encode frame %d: %w", i, err)
		}
		if err := video.AddFrame(buf.Bytes()); err != nil {
			video.Close()
			return fmt.Errorf("failed to add frame %d: %w", i, err)
		}
		buf.Reset()
	}

	if err := video.Close(); err != nil {
		return fmt.Errorf("failed to finalize avi: %w", err)
	}
	return nil
}

func (a *LatticeAnimation) frameImage(grid [][]models.Cell) *image.RGBA {
	side := len(grid)
	px := a.cellPixels
	img := image.NewRGBA(image.Rect(0, 0, side*px, side*px))

	for row := 0; row < side; row++ {
		for col := 0; col < side; col++ {
			c := cellColor(grid[row][col])
			for y := row * px; y < (row+1)*px; y++ {
				for x := col * px; x < (col+1)*px; x++ {
					img.Set(x, y, c)
				}
			}
		}
	}
	return img
}

// cellColor maps a cell to its frame color: blue for susceptible, red
// for infected, green for recovered, with vaccinated cells lightened so
// the tag stays visible through state changes.
func cellColor(cell models.Cell) color.RGBA {
	var c color.RGBA
	switch cell.State {
	case models.StateInfected:
		c = color.RGBA{R: colorInfected.R, G: colorInfected.G, B: colorInfected.B, A: 255}
	case models.StateRecovered:
		c = color.RGBA{R: colorRecovered.R, G: colorRecovered.G, B: colorRecovered.B, A: 255}
	default:
		c = color.RGBA{R: colorSusceptible.R, G: colorSusceptible.G, B: colorSusceptible.B, A: 255}
	}
	if cell.Vaccinated {
		c = lighten(c)
	}
	return c
}

func lighten(c color.RGBA) color.RGBA {
	return color.RGBA{
		R: uint8(int(c.R) + (255-int(c.R))/2),
		G: uint8(int(c.G) + (255-int(c.G))/2),
		B: uint8(int(c.B) + (255-int(c.B))/2),
		A: 255,
	}
}
