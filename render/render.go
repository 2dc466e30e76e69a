// Package render is the reference renderer: each tick it composes the
// current screen.Screen into an OpenGL frame buffer, one textured quad per
// glyph plus a background/underline/cursor rect per cell. It owns no event
// loop and no window-system decoding (that belongs to cmd/vtcore) and no
// chrome (tabs, menus, panels are out of scope) — it only draws a grid of
// cells, the way the teacher's own renderGridAt draws one pane.
package render

import (
	"fmt"
	"image"
	"image/draw"
	"os"
	"strings"

	"github.com/go-gl/gl/v4.1-core/gl"
	"golang.org/x/image/font"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"

	"github.com/javanhut/vtcore/screen"
)

// Theme is the palette a Renderer draws with: per spec.md's glossary, these
// colors stand in for the default foreground/background and the cursor
// block, independent of the terminal's own 256-color palette.
type Theme struct {
	Background [4]float32
	Foreground [4]float32
	Cursor     [4]float32
	Selection  [4]float32
}

// DefaultTheme returns the classic green phosphor theme.
func DefaultTheme() Theme {
	return ThemeByName("classic-green")
}

// ThemeByName returns a theme for one of config.ThemeOptions' names,
// defaulting to classic-green for anything unrecognized.
func ThemeByName(name string) Theme {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "amber":
		return Theme{
			Background: [4]float32{0.043, 0.027, 0.004, 1.0}, // #0b0701
			Foreground: [4]float32{1.000, 0.690, 0.000, 1.0}, // #ffb000
			Cursor:     [4]float32{1.000, 0.800, 0.235, 1.0}, // #ffcc3c
			Selection:  [4]float32{1.000, 0.690, 0.000, 0.35},
		}
	case "paper-white":
		return Theme{
			Background: [4]float32{0.976, 0.973, 0.961, 1.0}, // #f9f8f5
			Foreground: [4]float32{0.118, 0.118, 0.118, 1.0}, // #1e1e1e
			Cursor:     [4]float32{0.290, 0.290, 0.290, 1.0}, // #4a4a4a
			Selection:  [4]float32{0.118, 0.118, 0.118, 0.20},
		}
	case "solarized-dark":
		return Theme{
			Background: [4]float32{0.000, 0.169, 0.212, 1.0}, // #002b36
			Foreground: [4]float32{0.514, 0.580, 0.588, 1.0}, // #839496
			Cursor:     [4]float32{0.345, 0.431, 0.459, 1.0}, // #586e75
			Selection:  [4]float32{0.345, 0.431, 0.459, 0.35},
		}
	case "classic-green":
		fallthrough
	default:
		return Theme{
			Background: [4]float32{0.004, 0.012, 0.004, 1.0}, // #010301
			Foreground: [4]float32{0.188, 1.000, 0.243, 1.0}, // #30ff3e
			Cursor:     [4]float32{0.557, 1.000, 0.588, 1.0}, // #8eff96
			Selection:  [4]float32{0.188, 1.000, 0.243, 0.35},
		}
	}
}

// SetThemeByName applies a named theme to the renderer.
func (r *Renderer) SetThemeByName(name string) {
	r.theme = ThemeByName(name)
}

// Glyph records where one rune's bitmap sits within the font atlas texture.
type Glyph struct {
	X, Y          float32 // Position in atlas (normalized 0-1)
	Width, Height float32 // Size in atlas (normalized 0-1)
	PixelWidth    int
	PixelHeight   int
}

const defaultFontSize = 16.0
const defaultAtlasSize = 512

// systemFontCandidates lists monospace TrueType paths to try, in order, on
// the platforms a terminal emulator is likely to run on. No font is
// bundled: the first one found on disk is loaded, matching spec.md's
// documented non-goal of shipping glyph bitmaps.
var systemFontCandidates = []string{
	"/usr/share/fonts/truetype/dejavu/DejaVuSansMono.ttf",
	"/usr/share/fonts/TTF/DejaVuSansMono.ttf",
	"/usr/share/fonts/truetype/liberation/LiberationMono-Regular.ttf",
	"/usr/share/fonts/liberation/LiberationMono-Regular.ttf",
	"/usr/share/fonts/noto/NotoSansMono-Regular.ttf",
	"/System/Library/Fonts/Menlo.ttc",
	"/System/Library/Fonts/Monaco.ttf",
	"/Library/Fonts/Courier New.ttf",
	"C:\\Windows\\Fonts\\consola.ttf",
	"C:\\Windows\\Fonts\\cour.ttf",
}

// Renderer draws screen.Screen cell grids into an OpenGL context using a
// glyph atlas built from a system monospace font.
type Renderer struct {
	theme      Theme
	cellWidth  float32
	cellHeight float32
	fontSize   float32
	fontPath   string

	glyphs    map[rune]Glyph
	fontAtlas uint32
	atlasSize int

	quadVAO     uint32
	quadVBO     uint32
	program     uint32
	fontProgram uint32
	fontVAO     uint32
	fontVBO     uint32

	colorLoc    int32
	projLoc     int32
	texColorLoc int32
	texProjLoc  int32
	texLoc      int32
}

// NewRenderer builds the GL resources and loads the first system font it
// finds. Call this only on a thread with a current GL context, per
// go-gl/glfw's threading contract.
func NewRenderer() (*Renderer, error) {
	r := &Renderer{
		theme:     DefaultTheme(),
		fontSize:  defaultFontSize,
		glyphs:    make(map[rune]Glyph),
		atlasSize: defaultAtlasSize,
	}

	if err := r.initGL(); err != nil {
		return nil, err
	}

	if err := r.loadFont(); err != nil {
		return nil, err
	}

	return r, nil
}

// loadFont locates and parses the first available system monospace TTF.
func (r *Renderer) loadFont() error {
	for _, path := range systemFontCandidates {
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		if err := r.loadFontData(data); err != nil {
			continue
		}
		r.fontPath = path
		return nil
	}
	return fmt.Errorf("render: no system monospace font found among %d candidates", len(systemFontCandidates))
}

// loadFontData parses font bytes and rebuilds the glyph atlas texture.
func (r *Renderer) loadFontData(fontData []byte) error {
	parsedFont, err := opentype.Parse(fontData)
	if err != nil {
		return fmt.Errorf("failed to parse font: %w", err)
	}

	face, err := opentype.NewFace(parsedFont, &opentype.FaceOptions{
		Size:    float64(r.fontSize),
		DPI:     96,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return fmt.Errorf("failed to create font face: %w", err)
	}
	defer face.Close()

	metrics := face.Metrics()
	r.cellHeight = float32((metrics.Ascent + metrics.Descent).Ceil())

	advance, _ := face.GlyphAdvance('M')
	r.cellWidth = float32(advance.Ceil())

	atlas := image.NewRGBA(image.Rect(0, 0, r.atlasSize, r.atlasSize))
	draw.Draw(atlas, atlas.Bounds(), image.Transparent, image.Point{}, draw.Src)

	drawer := &font.Drawer{
		Dst:  atlas,
		Src:  image.White,
		Face: face,
	}

	charRanges := []struct{ start, end rune }{
		{32, 126},        // printable ASCII
		{160, 255},       // Latin-1 supplement
		{0x2500, 0x257F}, // box drawing
		{0x2580, 0x259F}, // block elements
		{0x25A0, 0x25FF}, // geometric shapes
	}

	x, y := 0, metrics.Ascent.Ceil()
	charHeight := int(r.cellHeight)
	charWidth := int(r.cellWidth)

	for _, cr := range charRanges {
		for c := cr.start; c <= cr.end; c++ {
			if x+charWidth > r.atlasSize {
				x = 0
				y += charHeight
			}
			if y+charHeight > r.atlasSize {
				break
			}

			if _, hasGlyph := face.GlyphAdvance(c); !hasGlyph {
				continue
			}

			drawer.Dot = fixed.P(x, y)
			drawer.DrawString(string(c))

			r.glyphs[c] = Glyph{
				X:           float32(x) / float32(r.atlasSize),
				Y:           float32(y-metrics.Ascent.Ceil()) / float32(r.atlasSize),
				Width:       float32(charWidth) / float32(r.atlasSize),
				Height:      float32(charHeight) / float32(r.atlasSize),
				PixelWidth:  charWidth,
				PixelHeight: charHeight,
			}

			x += charWidth
		}
	}

	alphaAtlas := make([]byte, r.atlasSize*r.atlasSize)
	for i := 0; i < r.atlasSize*r.atlasSize; i++ {
		alphaAtlas[i] = atlas.Pix[i*4+3]
	}

	if r.fontAtlas != 0 {
		gl.DeleteTextures(1, &r.fontAtlas)
	}
	gl.GenTextures(1, &r.fontAtlas)
	gl.BindTexture(gl.TEXTURE_2D, r.fontAtlas)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RED, int32(r.atlasSize), int32(r.atlasSize), 0,
		gl.RED, gl.UNSIGNED_BYTE, gl.Ptr(alphaAtlas))

	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)

	gl.BindTexture(gl.TEXTURE_2D, 0)

	return nil
}

// initGL compiles the two shader programs (flat-colored quads, alpha-blended
// glyph quads) and allocates their vertex buffers.
func (r *Renderer) initGL() error {
	vertShader := `
		#version 410 core
		layout (location = 0) in vec2 aPos;
		uniform mat4 projection;
		void main() {
			gl_Position = projection * vec4(aPos, 0.0, 1.0);
		}
	` + "\x00"

	fragShader := `
		#version 410 core
		out vec4 FragColor;
		uniform vec4 color;
		void main() {
			FragColor = color;
		}
	` + "\x00"

	var err error
	r.program, err = createProgram(vertShader, fragShader)
	if err != nil {
		return fmt.Errorf("failed to create quad shader: %w", err)
	}

	r.colorLoc = gl.GetUniformLocation(r.program, gl.Str("color\x00"))
	r.projLoc = gl.GetUniformLocation(r.program, gl.Str("projection\x00"))

	textVertShader := `
		#version 410 core
		layout (location = 0) in vec4 vertex; // <vec2 pos, vec2 tex>
		out vec2 TexCoords;
		uniform mat4 projection;
		void main() {
			gl_Position = projection * vec4(vertex.xy, 0.0, 1.0);
			TexCoords = vertex.zw;
		}
	` + "\x00"

	textFragShader := `
		#version 410 core
		in vec2 TexCoords;
		out vec4 FragColor;
		uniform sampler2D text;
		uniform vec4 textColor;
		void main() {
			float alpha = texture(text, TexCoords).r;
			FragColor = vec4(textColor.rgb, textColor.a * alpha);
		}
	` + "\x00"

	r.fontProgram, err = createProgram(textVertShader, textFragShader)
	if err != nil {
		return fmt.Errorf("failed to create text shader: %w", err)
	}

	r.texColorLoc = gl.GetUniformLocation(r.fontProgram, gl.Str("textColor\x00"))
	r.texProjLoc = gl.GetUniformLocation(r.fontProgram, gl.Str("projection\x00"))
	r.texLoc = gl.GetUniformLocation(r.fontProgram, gl.Str("text\x00"))

	gl.GenVertexArrays(1, &r.quadVAO)
	gl.GenBuffers(1, &r.quadVBO)
	gl.BindVertexArray(r.quadVAO)
	gl.BindBuffer(gl.ARRAY_BUFFER, r.quadVBO)
	gl.BufferData(gl.ARRAY_BUFFER, 6*2*4, nil, gl.DYNAMIC_DRAW)
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointerWithOffset(0, 2, gl.FLOAT, false, 2*4, 0)
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
	gl.BindVertexArray(0)

	gl.GenVertexArrays(1, &r.fontVAO)
	gl.GenBuffers(1, &r.fontVBO)
	gl.BindVertexArray(r.fontVAO)
	gl.BindBuffer(gl.ARRAY_BUFFER, r.fontVBO)
	gl.BufferData(gl.ARRAY_BUFFER, 6*4*4, nil, gl.DYNAMIC_DRAW)
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointerWithOffset(0, 4, gl.FLOAT, false, 4*4, 0)
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
	gl.BindVertexArray(0)

	return nil
}

// Render draws one full frame of s at the window's current pixel
// dimensions, with the cursor block visible exactly when cursorVisible is
// true and DECTCEM is set (callers blink it by toggling cursorVisible on
// alternating calls).
func (r *Renderer) Render(s *screen.Screen, width, height int, cursorVisible bool) {
	proj := orthoMatrix(0, float32(width), float32(height), 0, -1, 1)

	gl.ClearColor(r.theme.Background[0], r.theme.Background[1], r.theme.Background[2], r.theme.Background[3])
	gl.Clear(gl.COLOR_BUFFER_BIT)

	r.renderScreen(s, proj, cursorVisible)
}

// renderScreen draws every cell of s, then the cursor block on top.
func (r *Renderer) renderScreen(s *screen.Screen, proj [16]float32, cursorVisible bool) {
	screenReverse := s.Modes.Get(screen.ModeDECSCNM)

	for row, line := range s.Lines {
		for col := range line.Cells {
			cell := &line.Cells[col]
			x := float32(col) * r.cellWidth
			y := float32(row) * r.cellHeight

			fgColor := r.colorToRGBA(cell.Foreground, cell.FgTruecolor, false)
			bgColor := r.colorToRGBA(cell.Background, cell.BgTruecolor, true)

			if cell.Negative != screenReverse {
				fgColor, bgColor = bgColor, fgColor
			}

			if bgColor != r.theme.Background {
				r.drawRect(x, y, r.cellWidth, r.cellHeight, bgColor, proj)
			}

			drawColor := fgColor
			if cell.Intensity == screen.IntensityFaint {
				drawColor[3] *= 0.6
			}

			if cell.CodePoint != 0 && cell.CodePoint != ' ' {
				r.drawChar(x, y+r.cellHeight, cell.CodePoint, drawColor, proj)
			}

			if cell.Underline != screen.UnderlineNone {
				r.drawRect(x, y+r.cellHeight-1, r.cellWidth, 1, fgColor, proj)
			}
			if cell.Underline == screen.UnderlineDouble {
				r.drawRect(x, y+r.cellHeight-3, r.cellWidth, 1, fgColor, proj)
			}
			if cell.Overline {
				r.drawRect(x, y, r.cellWidth, 1, fgColor, proj)
			}
			if cell.CrossedOut {
				r.drawRect(x, y+r.cellHeight/2, r.cellWidth, 1, fgColor, proj)
			}
			if cell.Frame == screen.FrameFramed || cell.Frame == screen.FrameEncircled {
				r.drawFrame(x, y, r.cellWidth, r.cellHeight, fgColor, proj)
			}
		}
	}

	if cursorVisible && s.Modes.Get(screen.ModeDECTCEM) {
		cx := float32(s.Cursor.X) * r.cellWidth
		cy := float32(s.Cursor.Y) * r.cellHeight
		r.drawRect(cx, cy, r.cellWidth, r.cellHeight, r.theme.Cursor, proj)

		cell := &s.Lines[s.Cursor.Y].Cells[s.Cursor.X]
		if cell.CodePoint != 0 && cell.CodePoint != ' ' {
			r.drawChar(cx, cy+r.cellHeight, cell.CodePoint, r.theme.Background, proj)
		}
	}
}

// drawFrame outlines a cell with a 1px border, used for SGR 51/52 (FrameNone
// is never passed here).
func (r *Renderer) drawFrame(x, y, w, h float32, clr [4]float32, proj [16]float32) {
	r.drawRect(x, y, w, 1, clr, proj)
	r.drawRect(x, y+h-1, w, 1, clr, proj)
	r.drawRect(x, y, 1, h, clr, proj)
	r.drawRect(x+w-1, y, 1, h, clr, proj)
}

// drawRect draws a flat-colored rectangle.
func (r *Renderer) drawRect(x, y, w, h float32, clr [4]float32, proj [16]float32) {
	vertices := []float32{
		x, y,
		x + w, y,
		x + w, y + h,
		x, y,
		x + w, y + h,
		x, y + h,
	}

	gl.UseProgram(r.program)
	gl.UniformMatrix4fv(r.projLoc, 1, false, &proj[0])
	gl.Uniform4fv(r.colorLoc, 1, &clr[0])

	gl.BindVertexArray(r.quadVAO)
	gl.BindBuffer(gl.ARRAY_BUFFER, r.quadVBO)
	gl.BufferSubData(gl.ARRAY_BUFFER, 0, len(vertices)*4, gl.Ptr(vertices))
	gl.DrawArrays(gl.TRIANGLES, 0, 6)
	gl.BindVertexArray(0)
}

// drawChar draws a single glyph from the atlas, its baseline at (x,y).
func (r *Renderer) drawChar(x, y float32, char rune, clr [4]float32, proj [16]float32) {
	glyph, ok := r.glyphs[char]
	if !ok {
		glyph, ok = r.glyphs['?']
		if !ok {
			return
		}
	}

	w := float32(glyph.PixelWidth)
	h := float32(glyph.PixelHeight)

	tx, ty, tw, th := glyph.X, glyph.Y, glyph.Width, glyph.Height

	vertices := []float32{
		x, y - h, tx, ty,
		x + w, y - h, tx + tw, ty,
		x + w, y, tx + tw, ty + th,
		x, y - h, tx, ty,
		x + w, y, tx + tw, ty + th,
		x, y, tx, ty + th,
	}

	gl.UseProgram(r.fontProgram)
	gl.UniformMatrix4fv(r.texProjLoc, 1, false, &proj[0])
	gl.Uniform4fv(r.texColorLoc, 1, &clr[0])
	gl.Uniform1i(r.texLoc, 0)

	gl.ActiveTexture(gl.TEXTURE0)
	gl.BindTexture(gl.TEXTURE_2D, r.fontAtlas)

	gl.BindVertexArray(r.fontVAO)
	gl.BindBuffer(gl.ARRAY_BUFFER, r.fontVBO)
	gl.BufferSubData(gl.ARRAY_BUFFER, 0, len(vertices)*4, gl.Ptr(vertices))
	gl.DrawArrays(gl.TRIANGLES, 0, 6)
	gl.BindVertexArray(0)
}

// colorToRGBA resolves a cell's color field (palette index or truecolor
// triple) to an RGBA quad, falling back to the theme's foreground/background
// for the default-attribute colors (palette slots 7 and 0).
func (r *Renderer) colorToRGBA(c screen.Color, truecolor, isBackground bool) [4]float32 {
	if truecolor {
		return [4]float32{float32(c.R) / 255, float32(c.G) / 255, float32(c.B) / 255, 1.0}
	}
	if isBackground && c.Index == 0 {
		return r.theme.Background
	}
	if !isBackground && c.Index == 7 {
		return r.theme.Foreground
	}
	return indexedColor(c.Index)
}

// indexedColor looks a palette index up in screen.DefaultPalette, rather
// than keeping a second, parallel color table.
func indexedColor(index uint8) [4]float32 {
	c := screen.DefaultPalette[index]
	return [4]float32{float32(c.R) / 255, float32(c.G) / 255, float32(c.B) / 255, 1.0}
}

// CellDimensions returns the current glyph cell size in pixels.
func (r *Renderer) CellDimensions() (float32, float32) {
	return r.cellWidth, r.cellHeight
}

// CalculateGridSize returns the column/row count that fits a window of the
// given pixel dimensions, used to drive Pump.Resize and screen.Resize.
func (r *Renderer) CalculateGridSize(width, height int) (cols, rows int) {
	cols = int(float32(width) / r.cellWidth)
	rows = int(float32(height) / r.cellHeight)
	if cols < 1 {
		cols = 1
	}
	if rows < 1 {
		rows = 1
	}
	return
}

// Destroy releases every GL resource the renderer owns.
func (r *Renderer) Destroy() {
	gl.DeleteVertexArrays(1, &r.quadVAO)
	gl.DeleteBuffers(1, &r.quadVBO)
	gl.DeleteVertexArrays(1, &r.fontVAO)
	gl.DeleteBuffers(1, &r.fontVBO)
	gl.DeleteProgram(r.program)
	gl.DeleteProgram(r.fontProgram)
	gl.DeleteTextures(1, &r.fontAtlas)
}

// orthoMatrix builds a column-major orthographic projection matrix.
func orthoMatrix(left, right, bottom, top, near, far float32) [16]float32 {
	return [16]float32{
		2 / (right - left), 0, 0, 0,
		0, 2 / (top - bottom), 0, 0,
		0, 0, -2 / (far - near), 0,
		-(right + left) / (right - left), -(top + bottom) / (top - bottom), -(far + near) / (far - near), 1,
	}
}

// createProgram links a vertex+fragment shader pair into a program.
func createProgram(vertexSource, fragmentSource string) (uint32, error) {
	vertexShader, err := compileShader(vertexSource, gl.VERTEX_SHADER)
	if err != nil {
		return 0, err
	}

	fragmentShader, err := compileShader(fragmentSource, gl.FRAGMENT_SHADER)
	if err != nil {
		return 0, err
	}

	program := gl.CreateProgram()
	gl.AttachShader(program, vertexShader)
	gl.AttachShader(program, fragmentShader)
	gl.LinkProgram(program)

	var status int32
	gl.GetProgramiv(program, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetProgramiv(program, gl.INFO_LOG_LENGTH, &logLength)
		log := strings.Repeat("\x00", int(logLength+1))
		gl.GetProgramInfoLog(program, logLength, nil, gl.Str(log))
		return 0, fmt.Errorf("failed to link program: %v", log)
	}

	gl.DeleteShader(vertexShader)
	gl.DeleteShader(fragmentShader)

	return program, nil
}

// compileShader compiles one shader stage from source.
func compileShader(source string, shaderType uint32) (uint32, error) {
	shader := gl.CreateShader(shaderType)

	csources, free := gl.Strs(source)
	gl.ShaderSource(shader, 1, csources, nil)
	free()
	gl.CompileShader(shader)

	var status int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &logLength)
		log := strings.Repeat("\x00", int(logLength+1))
		gl.GetShaderInfoLog(shader, logLength, nil, gl.Str(log))
		return 0, fmt.Errorf("failed to compile shader: %v", log)
	}

	return shader, nil
}
