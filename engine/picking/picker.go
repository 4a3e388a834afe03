// Package picking turns window coordinates into board squares by casting a ray against the board plane.
package picking

import (
	"sync"

	"github.com/Carmen-Shannon/neon-chess/common"
	"github.com/Carmen-Shannon/neon-chess/engine/board"
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// ViewSource supplies the camera matrices a Picker unprojects through.
// Revision must change whenever ViewProjection would return a different matrix.
type ViewSource interface {
	ViewProjection(aspect float32) mgl32.Mat4
	Revision() uint64
}

// SquareCenter returns the world X and Z of the middle of sq. The board spans [-4, 4] on both axes.
func SquareCenter(sq board.Square) (x, z float32) {
	return float32(sq.File()) - 3.5, float32(sq.Rank()) - 3.5
}

// SquareAt returns the square containing world X and Z.
func SquareAt(x, z float32) (board.Square, bool) {
	file := int(math32.Floor(x + 4))
	rank := int(math32.Floor(z + 4))
	if file < 0 || file > 7 || rank < 0 || rank > 7 {
		return board.NoSquare, false
	}
	return board.NewSquare(file, rank), true
}

// pickerImpl is the implementation of the Picker interface.
type pickerImpl struct {
	mu *sync.Mutex

	source ViewSource
	boardY float32

	width, height int

	inverse  mgl32.Mat4
	revision uint64
	dirty    bool
}

// Picker maps framebuffer pixels to board squares.
//
// The inverse view-projection is cached and rebuilt only after Invalidate, Resize,
// or a change of the source revision.
type Picker interface {
	// Pick returns the square under pixel (x, y), origin top-left.
	Pick(x, y float32) (board.Square, bool)

	// Ray returns the world ray through pixel (x, y). ok is false when the matrix cannot be inverted.
	Ray(x, y float32) (origin, direction mgl32.Vec3, ok bool)

	// Invalidate marks the cached inverse stale.
	Invalidate()

	// Resize sets the framebuffer size, clamping each side to at least one.
	Resize(width, height int)
}

var _ Picker = &pickerImpl{}

// NewPicker creates a Picker intersecting rays with the horizontal plane y = boardY.
//
// Parameters:
//   - source: the camera to unproject through
//   - boardY: the height of the board surface
//   - width, height: the framebuffer size in pixels
//
// Returns:
//   - Picker: the picker
func NewPicker(source ViewSource, boardY float32, width, height int) Picker {
	p := &pickerImpl{
		mu:     &sync.Mutex{},
		source: source,
		boardY: boardY,
		dirty:  true,
	}
	p.Resize(width, height)
	return p
}

func (p *pickerImpl) Invalidate() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.dirty = true
}

func (p *pickerImpl) Resize(width, height int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.width, p.height = max(width, 1), max(height, 1)
	p.dirty = true
}

// inverseViewProjection returns the cached inverse, rebuilding it when stale. Caller holds mu.
func (p *pickerImpl) inverseViewProjection() mgl32.Mat4 {
	rev := p.source.Revision()
	if p.dirty || rev != p.revision {
		aspect := float32(p.width) / float32(p.height)
		p.inverse = p.source.ViewProjection(aspect).Inv()
		p.revision = rev
		p.dirty = false
	}
	return p.inverse
}

func (p *pickerImpl) Ray(x, y float32) (mgl32.Vec3, mgl32.Vec3, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	inv := p.inverseViewProjection()
	ndcX := 2*x/float32(p.width) - 1
	ndcY := 1 - 2*y/float32(p.height)

	// WebGPU clip depth runs 0 at the near plane to 1 at the far plane
	near, ok := common.Unproject(inv, mgl32.Vec3{ndcX, ndcY, 0})
	if !ok {
		return mgl32.Vec3{}, mgl32.Vec3{}, false
	}
	far, ok := common.Unproject(inv, mgl32.Vec3{ndcX, ndcY, 1})
	if !ok {
		return mgl32.Vec3{}, mgl32.Vec3{}, false
	}
	return near, common.Normalize(far.Sub(near), mgl32.Vec3{}), true
}

func (p *pickerImpl) Pick(x, y float32) (board.Square, bool) {
	origin, dir, ok := p.Ray(x, y)
	if !ok || math32.Abs(dir.Y()) < common.Epsilon {
		return board.NoSquare, false
	}
	t := (p.boardY - origin.Y()) / dir.Y()
	if t < 0 {
		return board.NoSquare, false
	}
	hit := origin.Add(dir.Mul(t))
	return SquareAt(hit.X(), hit.Z())
}
