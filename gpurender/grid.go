package gpurender

import (
	"math"
	"strings"

	"github.com/bloeys/gglm/gglm"
	"github.com/go-gl/gl/v4.1-core/gl"
)

// quadVertices is the unit quad all instances share: 4 vertices of
// {pos: vec2, uv: vec2}, attribute locations 0 and 1. The projection
// maps y down, matching the grid's top-left origin, so uv follows pos
// directly: texture row 0 is the top of the glyph.
var quadVertices = [...]float32{
	// pos.x, pos.y, uv.x, uv.y
	0, 0, 0, 0,
	1, 0, 1, 0,
	1, 1, 1, 1,
	0, 1, 0, 1,
}

var quadIndices = [...]uint32{0, 1, 2, 2, 3, 0}

// TerminalGrid owns the GPU resources behind one rendered terminal
// surface: the static unit quad, the shader program, both UBOs, the
// size-dependent CellStatic/CellDynamic instance buffers, and a shared
// reference to the GpuAtlas texture they sample.
type TerminalGrid struct {
	atlas    *GpuAtlas
	resolver *GlyphResolver

	vao uint32

	quadVBO, quadEBO uint32
	staticBuf        uint32
	dynamicBuf       uint32
	vertexUBO        uint32
	fragmentUBO      uint32
	program          uint32

	cellsWide, cellsHigh int
	pixelW, pixelH       int

	dynamicShadow []byte
	activeBatch   *Batch

	logger Logger
}

// Logger is the injected logging capability per-frame GPU errors and
// resolver misses are reported through; see the logging package for
// the default implementation. A nil Logger silently drops the reports.
type Logger interface {
	Warnf(msg string, args ...any)
	Errorf(msg string, args ...any)
}

// NewTerminalGrid compiles the shader program, uploads the static quad
// and the UBOs, and sizes the grid to fit (pixelW, pixelH) given the
// atlas's cell dimensions. The atlas is shared by reference and must
// outlive the grid.
func NewTerminalGrid(gpuAtlas *GpuAtlas, resolver *GlyphResolver, pixelW, pixelH int, logger Logger) (*TerminalGrid, error) {
	program, err := compileProgram(vertexShaderSrc, fragmentShaderSrc)
	if err != nil {
		return nil, err
	}

	g := &TerminalGrid{
		atlas:    gpuAtlas,
		resolver: resolver,
		program:  program,
		logger:   logger,
	}

	gl.GenVertexArrays(1, &g.vao)
	if g.vao == 0 {
		return nil, &ResourceAllocationFailedError{Resource: "VAO"}
	}
	gl.BindVertexArray(g.vao)

	gl.GenBuffers(1, &g.quadVBO)
	gl.BindBuffer(gl.ARRAY_BUFFER, g.quadVBO)
	gl.BufferData(gl.ARRAY_BUFFER, len(quadVertices)*4, gl.Ptr(&quadVertices[0]), gl.STATIC_DRAW)
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointer(0, 2, gl.FLOAT, false, 4*4, gl.PtrOffset(0))
	gl.EnableVertexAttribArray(1)
	gl.VertexAttribPointer(1, 2, gl.FLOAT, false, 4*4, gl.PtrOffset(2*4))

	gl.GenBuffers(1, &g.quadEBO)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, g.quadEBO)
	gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(quadIndices)*4, gl.Ptr(&quadIndices[0]), gl.STATIC_DRAW)

	gl.GenBuffers(1, &g.staticBuf)
	gl.GenBuffers(1, &g.dynamicBuf)

	gl.GenBuffers(1, &g.vertexUBO)
	gl.BindBuffer(gl.UNIFORM_BUFFER, g.vertexUBO)
	gl.BufferData(gl.UNIFORM_BUFFER, vertexUBOSize, nil, gl.DYNAMIC_DRAW)
	gl.BindBufferBase(gl.UNIFORM_BUFFER, 0, g.vertexUBO)

	gl.GenBuffers(1, &g.fragmentUBO)
	gl.BindBuffer(gl.UNIFORM_BUFFER, g.fragmentUBO)
	gl.BufferData(gl.UNIFORM_BUFFER, fragmentUBOSize, nil, gl.DYNAMIC_DRAW)
	gl.BindBufferBase(gl.UNIFORM_BUFFER, 1, g.fragmentUBO)

	gl.BindVertexArray(0)

	// GLSL 410 has no binding= layout qualifier; wire both uniform
	// blocks and the atlas sampler to their slots here instead.
	gl.UniformBlockBinding(program, gl.GetUniformBlockIndex(program, gl.Str("VertexParams\x00")), 0)
	gl.UniformBlockBinding(program, gl.GetUniformBlockIndex(program, gl.Str("FragmentParams\x00")), 1)
	gl.UseProgram(program)
	gl.Uniform1i(gl.GetUniformLocation(program, gl.Str("u_atlas\x00")), 0)
	gl.UseProgram(0)

	if err := g.writeFragmentUBO(); err != nil {
		return nil, err
	}
	if err := g.Resize(pixelW, pixelH); err != nil {
		return nil, err
	}

	return g, nil
}

// TerminalSize returns the grid's dimensions in cells.
func (g *TerminalGrid) TerminalSize() (cellsWide, cellsHigh int) {
	return g.cellsWide, g.cellsHigh
}

// CellSize returns the atlas's content+padding cell size in pixels.
func (g *TerminalGrid) CellSize() (pxW, pxH int) {
	return int(g.atlas.CellWidth), int(g.atlas.CellHeight)
}

// Resize recomputes the grid's cell dimensions for a (pixelW, pixelH)
// surface. If the cell dimensions change, CellStatic and CellDynamic
// are reallocated and CellStatic is refilled; the projection UBO is
// always rewritten. Idempotent when the cell dimensions are unchanged.
func (g *TerminalGrid) Resize(pixelW, pixelH int) error {
	g.pixelW, g.pixelH = pixelW, pixelH

	cellsWide, cellsHigh := g.computeGridSize(pixelW, pixelH)

	if cellsWide != g.cellsWide || cellsHigh != g.cellsHigh {
		g.cellsWide, g.cellsHigh = cellsWide, cellsHigh
		g.reallocateInstanceBuffers()
	}

	return g.writeVertexUBO()
}

// computeGridSize derives cell counts for a surface of the given pixel
// dimensions. Never returns less than 1 in either axis: a minimized or
// degenerately sized surface still gets a 1-cell floor rather than
// zero-length instance buffers.
func (g *TerminalGrid) computeGridSize(pixelW, pixelH int) (cellsWide, cellsHigh int) {
	cellsWide = max(1, pixelW/int(g.atlas.CellWidth))
	cellsHigh = max(1, pixelH/int(g.atlas.CellHeight))
	return cellsWide, cellsHigh
}

func (g *TerminalGrid) reallocateInstanceBuffers() {
	count := g.cellsWide * g.cellsHigh

	staticData := make([]byte, count*cellStaticSize)
	for y := 0; y < g.cellsHigh; y++ {
		for x := 0; x < g.cellsWide; x++ {
			encodeCellStatic(staticData, (y*g.cellsWide+x)*cellStaticSize, uint16(x), uint16(y))
		}
	}

	gl.BindVertexArray(g.vao)

	gl.BindBuffer(gl.ARRAY_BUFFER, g.staticBuf)
	gl.BufferData(gl.ARRAY_BUFFER, len(staticData), gl.Ptr(staticData), gl.STATIC_DRAW)
	gl.EnableVertexAttribArray(2)
	gl.VertexAttribIPointer(2, 2, gl.UNSIGNED_SHORT, cellStaticSize, gl.PtrOffset(0))
	gl.VertexAttribDivisor(2, 1)

	g.dynamicShadow = make([]byte, count*cellDynamicSize)
	gl.BindBuffer(gl.ARRAY_BUFFER, g.dynamicBuf)
	gl.BufferData(gl.ARRAY_BUFFER, len(g.dynamicShadow), gl.Ptr(g.dynamicShadow), gl.DYNAMIC_DRAW)
	gl.EnableVertexAttribArray(3)
	gl.VertexAttribIPointer(3, 2, gl.UNSIGNED_INT, cellDynamicSize, gl.PtrOffset(0))
	gl.VertexAttribDivisor(3, 1)

	gl.BindVertexArray(0)
}

// vertexUBOSize/fragmentUBOSize are the std140 sizes of the two
// uniform blocks, rounded up to a 16-byte boundary: mat4 + vec2 +
// vec2 + float occupies 84 bytes, vec2 + 4 floats occupies 24.
const (
	vertexUBOSize   = 96
	fragmentUBOSize = 32
)

func (g *TerminalGrid) writeVertexUBO() error {
	// Top-left origin, y growing downward, matching CellStatic's grid
	// convention: map (0,0)..(pixelW,pixelH) to NDC with y inverted.
	proj := gglm.Ortho(0, float32(g.pixelW), float32(g.pixelH), 0, -1, 1)

	buf := make([]byte, 0, vertexUBOSize)
	for col := 0; col < 4; col++ {
		buf = appendFloat32s(buf, proj.Mat4.Data[col][:]...)
	}
	buf = appendFloat32s(buf, float32(g.atlas.CellWidth), float32(g.atlas.CellHeight))
	buf = appendFloat32s(buf, g.atlas.PaddingFracX, g.atlas.PaddingFracY)
	buf = appendFloat32s(buf, float32(g.atlas.Layers))
	buf = append(buf, make([]byte, vertexUBOSize-len(buf))...)

	gl.BindBuffer(gl.UNIFORM_BUFFER, g.vertexUBO)
	gl.BufferSubData(gl.UNIFORM_BUFFER, 0, len(buf), gl.Ptr(buf))
	return nil
}

func (g *TerminalGrid) writeFragmentUBO() error {
	buf := make([]byte, 0, fragmentUBOSize)
	buf = appendFloat32s(buf, g.atlas.PaddingFracX, g.atlas.PaddingFracY)
	buf = appendFloat32s(buf, g.atlas.UnderlinePos, g.atlas.UnderlineThickness)
	buf = appendFloat32s(buf, g.atlas.StrikethroughPos, g.atlas.StrikethroughThickness)
	buf = append(buf, make([]byte, fragmentUBOSize-len(buf))...)

	gl.BindBuffer(gl.UNIFORM_BUFFER, g.fragmentUBO)
	gl.BufferSubData(gl.UNIFORM_BUFFER, 0, len(buf), gl.Ptr(buf))
	return nil
}

// Batch returns a mutation handle over the dynamic cell buffer's host
// shadow. Fails with *BatchInProgressError if a previously obtained
// Batch has not yet been Flush-ed.
func (g *TerminalGrid) Batch() (*Batch, error) {
	if g.activeBatch != nil {
		return nil, &BatchInProgressError{}
	}
	b := newBatch(g)
	g.activeBatch = b
	return b, nil
}

func (g *TerminalGrid) uploadDynamicRange(min, max int) {
	gl.BindBuffer(gl.ARRAY_BUFFER, g.dynamicBuf)
	gl.BufferSubData(gl.ARRAY_BUFFER, min, max-min, gl.Ptr(g.dynamicShadow[min:max]))
}

// Render binds the VAO, program, UBOs, and atlas texture, and issues
// one instanced indexed draw covering every cell. Any GL error is
// logged and the frame is dropped; the grid's own state is left
// consistent for the next frame.
func (g *TerminalGrid) Render() {
	gl.UseProgram(g.program)
	gl.BindVertexArray(g.vao)

	// Rebind both UBO bases every frame: another grid sharing the
	// context may have claimed the binding points since.
	gl.BindBufferBase(gl.UNIFORM_BUFFER, 0, g.vertexUBO)
	gl.BindBufferBase(gl.UNIFORM_BUFFER, 1, g.fragmentUBO)

	gl.ActiveTexture(gl.TEXTURE0)
	gl.BindTexture(gl.TEXTURE_2D_ARRAY, g.atlas.TextureID())

	gl.DrawElementsInstanced(gl.TRIANGLES, int32(len(quadIndices)), gl.UNSIGNED_INT, gl.PtrOffset(0), int32(g.cellsWide*g.cellsHigh))

	if err := gl.GetError(); err != gl.NO_ERROR && g.logger != nil {
		g.logger.Errorf("gpurender: frame dropped, GL error 0x%X", err)
	}

	gl.BindVertexArray(0)
}

// Release deletes every GL object this grid owns. It does not release
// the shared GpuAtlas texture.
func (g *TerminalGrid) Release() {
	gl.DeleteVertexArrays(1, &g.vao)
	bufs := []uint32{g.quadVBO, g.quadEBO, g.staticBuf, g.dynamicBuf, g.vertexUBO, g.fragmentUBO}
	gl.DeleteBuffers(int32(len(bufs)), &bufs[0])
	gl.DeleteProgram(g.program)
}

func compileProgram(vertexSrc, fragmentSrc string) (uint32, error) {
	vs, err := compileShader(gl.VERTEX_SHADER, vertexSrc, "vertex")
	if err != nil {
		return 0, err
	}
	fs, err := compileShader(gl.FRAGMENT_SHADER, fragmentSrc, "fragment")
	if err != nil {
		return 0, err
	}

	program := gl.CreateProgram()
	gl.AttachShader(program, vs)
	gl.AttachShader(program, fs)
	gl.LinkProgram(program)

	var status int32
	gl.GetProgramiv(program, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var logLen int32
		gl.GetProgramiv(program, gl.INFO_LOG_LENGTH, &logLen)
		log := strings.Repeat("\x00", int(logLen+1))
		gl.GetProgramInfoLog(program, logLen, nil, gl.Str(log))
		return 0, &ShaderLinkFailedError{Log: log}
	}

	gl.DeleteShader(vs)
	gl.DeleteShader(fs)
	return program, nil
}

func compileShader(shaderType uint32, source, stageName string) (uint32, error) {
	shader := gl.CreateShader(shaderType)
	csource, free := gl.Strs(source + "\x00")
	gl.ShaderSource(shader, 1, csource, nil)
	free()
	gl.CompileShader(shader)

	var status int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLen int32
		gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &logLen)
		log := strings.Repeat("\x00", int(logLen+1))
		gl.GetShaderInfoLog(shader, logLen, nil, gl.Str(log))
		return 0, &ShaderCompileFailedError{Stage: stageName, Source: log}
	}

	return shader, nil
}

func appendFloat32s(dst []byte, vs ...float32) []byte {
	for _, v := range vs {
		bits := math.Float32bits(v)
		dst = append(dst, byte(bits), byte(bits>>8), byte(bits>>16), byte(bits>>24))
	}
	return dst
}
