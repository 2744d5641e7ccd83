package gpurender

import "io"

// Renderer is the facade over the runtime pipeline: one loaded atlas
// (texture plus frozen resolver) and one TerminalGrid over a surface.
// Hosts that share an atlas across several grids skip this type and
// compose LoadAtlas/NewTerminalGrid themselves.
type Renderer struct {
	Atlas    *GpuAtlas
	Resolver *GlyphResolver
	Grid     *TerminalGrid
}

// NewRenderer decodes a wire-format atlas from r, provisions the GPU
// texture, and constructs a TerminalGrid sized to (pixelW, pixelH).
// Failure at any step is terminal: no partial renderer is returned.
func NewRenderer(r io.Reader, pixelW, pixelH int, logger Logger) (*Renderer, error) {
	gpuAtlas, resolver, err := LoadAtlas(r)
	if err != nil {
		return nil, err
	}
	resolver.SetLogger(logger)
	grid, err := NewTerminalGrid(gpuAtlas, resolver, pixelW, pixelH, logger)
	if err != nil {
		gpuAtlas.Release()
		return nil, err
	}
	return &Renderer{Atlas: gpuAtlas, Resolver: resolver, Grid: grid}, nil
}

// Batch forwards to the grid; see TerminalGrid.Batch.
func (r *Renderer) Batch() (*Batch, error) { return r.Grid.Batch() }

// Render forwards to the grid; see TerminalGrid.Render.
func (r *Renderer) Render() { r.Grid.Render() }

// Resize forwards to the grid; see TerminalGrid.Resize.
func (r *Renderer) Resize(pixelW, pixelH int) error { return r.Grid.Resize(pixelW, pixelH) }

// Release drops the grid's GL objects, then the atlas texture. Only
// correct when this renderer is the texture's sole owner.
func (r *Renderer) Release() {
	r.Grid.Release()
	r.Atlas.Release()
}
