package glxwindow

import (
	"fmt"
	"image"
	"image/draw"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-gl/gl/v4.1-core/gl"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"

	"github.com/kowhai-term/kowhai/internal/grid"
	"github.com/kowhai-term/kowhai/internal/render"
)

const atlasSize = 1024

// atlas holds the glyph texture and per-rune lookup table, embedded into
// Window so LoadFont/XftDrawString share state with the GL setup.
type atlas struct {
	face       font.Face
	glyphs     map[rune]glyphInfo
	texture    uint32
	cellWidth  int
	cellHeight int
}

type glyphInfo struct {
	x, y, w, h  float32 // normalized atlas coordinates
	pixW, pixH  int
	hasGlyph    bool
}

// LoadFont resolves an Xft-style "Family:style=Regular" spec to a concrete
// font face: it looks for a matching file under the usual system font
// directories and falls back to the Go core team's bundled gofont if
// nothing matches (spec.md §6.2 "load_font(spec) → handle"; spec.md §7
// "Fatal init" only if even the fallback fails, which it cannot since
// gofont is compiled in).
func (w *Window) LoadFont(spec string) (render.Font, error) {
	family := spec
	if i := strings.IndexByte(spec, ':'); i >= 0 {
		family = spec[:i]
	}

	data := findSystemFont(family)
	if data == nil {
		data = goregular.TTF
	}

	parsed, err := opentype.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("glxwindow: parse font: %w", err)
	}
	face, err := opentype.NewFace(parsed, &opentype.FaceOptions{
		Size:    16,
		DPI:     96,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("glxwindow: create face: %w", err)
	}

	metrics := face.Metrics()
	w.face = face
	w.cellHeight = (metrics.Ascent + metrics.Descent).Ceil()
	adv, _ := face.GlyphAdvance('M')
	w.cellWidth = adv.Ceil()
	w.glyphs = make(map[rune]glyphInfo)
	w.buildAtlas()
	return w.face, nil
}

// findSystemFont best-effort-matches family against ttf/otf files under
// common system font directories, the way fontconfig would resolve an Xft
// spec string — without actually linking fontconfig, which is not part of
// this pack's dependency surface.
func findSystemFont(family string) []byte {
	needle := strings.ToLower(strings.ReplaceAll(family, " ", ""))
	roots := []string{"/usr/share/fonts", "/usr/local/share/fonts", os.ExpandEnv("$HOME/.local/share/fonts")}
	var found string
	for _, root := range roots {
		_ = filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
			if err != nil || info == nil || info.IsDir() {
				return nil
			}
			ext := strings.ToLower(filepath.Ext(path))
			if ext != ".ttf" && ext != ".otf" {
				return nil
			}
			name := strings.ToLower(strings.ReplaceAll(filepath.Base(path), " ", ""))
			if strings.Contains(name, needle) {
				found = path
				return filepath.SkipAll
			}
			return nil
		})
		if found != "" {
			break
		}
	}
	if found == "" {
		return nil
	}
	b, err := os.ReadFile(found)
	if err != nil {
		return nil
	}
	return b
}

func (w *Window) buildAtlas() {
	img := image.NewRGBA(image.Rect(0, 0, atlasSize, atlasSize))
	draw.Draw(img, img.Bounds(), image.Transparent, image.Point{}, draw.Src)
	drawer := &font.Drawer{Dst: img, Src: image.White, Face: w.face}

	ranges := []struct{ lo, hi rune }{
		{32, 126},
		{160, 255},
		{0x2500, 0x257F},
	}

	x, y := 0, w.face.Metrics().Ascent.Ceil()
	for _, rg := range ranges {
		for c := rg.lo; c <= rg.hi; c++ {
			if x+w.cellWidth > atlasSize {
				x = 0
				y += w.cellHeight
			}
			if y+w.cellHeight > atlasSize {
				break
			}
			if _, ok := w.face.GlyphAdvance(c); !ok {
				continue
			}
			drawer.Dot = fixed.P(x, y)
			drawer.DrawString(string(c))
			w.glyphs[c] = glyphInfo{
				x:        float32(x) / atlasSize,
				y:        float32(y-w.face.Metrics().Ascent.Ceil()) / atlasSize,
				w:        float32(w.cellWidth) / atlasSize,
				h:        float32(w.cellHeight) / atlasSize,
				pixW:     w.cellWidth,
				pixH:     w.cellHeight,
				hasGlyph: true,
			}
			x += w.cellWidth
		}
	}

	alpha := make([]byte, atlasSize*atlasSize)
	for i := 0; i < atlasSize*atlasSize; i++ {
		alpha[i] = img.Pix[i*4+3]
	}

	gl.GenTextures(1, &w.texture)
	gl.BindTexture(gl.TEXTURE_2D, w.texture)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RED, atlasSize, atlasSize, 0, gl.RED, gl.UNSIGNED_BYTE, gl.Ptr(alpha))
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	gl.BindTexture(gl.TEXTURE_2D, 0)
}

const quadVertShader = `
#version 410 core
layout (location = 0) in vec2 aPos;
uniform mat4 projection;
void main() {
	gl_Position = projection * vec4(aPos, 0.0, 1.0);
}
` + "\x00"

const quadFragShader = `
#version 410 core
out vec4 FragColor;
uniform vec4 color;
void main() {
	FragColor = color;
}
` + "\x00"

const textVertShader = `
#version 410 core
layout (location = 0) in vec4 vertex;
out vec2 TexCoords;
uniform mat4 projection;
void main() {
	gl_Position = projection * vec4(vertex.xy, 0.0, 1.0);
	TexCoords = vertex.zw;
}
` + "\x00"

const textFragShader = `
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

func (w *Window) initGL() error {
	var err error
	w.program, err = createProgram(quadVertShader, quadFragShader)
	if err != nil {
		return fmt.Errorf("glxwindow: quad shader: %w", err)
	}
	w.colorLoc = gl.GetUniformLocation(w.program, gl.Str("color\x00"))
	w.projLoc = gl.GetUniformLocation(w.program, gl.Str("projection\x00"))

	w.fontProgram, err = createProgram(textVertShader, textFragShader)
	if err != nil {
		return fmt.Errorf("glxwindow: text shader: %w", err)
	}
	w.texColorLoc = gl.GetUniformLocation(w.fontProgram, gl.Str("textColor\x00"))
	w.texProjLoc = gl.GetUniformLocation(w.fontProgram, gl.Str("projection\x00"))
	w.texLoc = gl.GetUniformLocation(w.fontProgram, gl.Str("text\x00"))

	gl.GenVertexArrays(1, &w.quadVAO)
	gl.GenBuffers(1, &w.quadVBO)
	gl.BindVertexArray(w.quadVAO)
	gl.BindBuffer(gl.ARRAY_BUFFER, w.quadVBO)
	gl.BufferData(gl.ARRAY_BUFFER, 6*2*4, nil, gl.DYNAMIC_DRAW)
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointerWithOffset(0, 2, gl.FLOAT, false, 2*4, 0)
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
	gl.BindVertexArray(0)

	gl.GenVertexArrays(1, &w.fontVAO)
	gl.GenBuffers(1, &w.fontVBO)
	gl.BindVertexArray(w.fontVAO)
	gl.BindBuffer(gl.ARRAY_BUFFER, w.fontVBO)
	gl.BufferData(gl.ARRAY_BUFFER, 6*4*4, nil, gl.DYNAMIC_DRAW)
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointerWithOffset(0, 4, gl.FLOAT, false, 4*4, 0)
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
	gl.BindVertexArray(0)
	return nil
}

func (w *Window) destroyGL() {
	gl.DeleteVertexArrays(1, &w.quadVAO)
	gl.DeleteBuffers(1, &w.quadVBO)
	gl.DeleteVertexArrays(1, &w.fontVAO)
	gl.DeleteBuffers(1, &w.fontVBO)
	gl.DeleteProgram(w.program)
	gl.DeleteProgram(w.fontProgram)
	if w.texture != 0 {
		gl.DeleteTextures(1, &w.texture)
	}
}

func orthoMatrix(width, height int) [16]float32 {
	left, right, bottom, top := float32(0), float32(width), float32(height), float32(0)
	return [16]float32{
		2 / (right - left), 0, 0, 0,
		0, 2 / (top - bottom), 0, 0,
		0, 0, -1, 0,
		-(right + left) / (right - left), -(top + bottom) / (top - bottom), 0, 1,
	}
}

func (w *Window) proj() [16]float32 {
	width, height := w.win.GetSize()
	return orthoMatrix(width, height)
}

// DrawRect fills a cell-sized rectangle, spec.md §6.2 "draw_rec".
func (w *Window) DrawRect(x, y, width, height int, c render.Color) {
	w.fillRect(float32(x), float32(y), float32(width), float32(height), colorValue(c))
}

// OutlineRect draws the four edges of a rectangle, spec.md §6.2
// "outline_rec" — used for an unfocused Block cursor.
func (w *Window) OutlineRect(x, y, width, height int, c render.Color) {
	v := colorValue(c)
	fx, fy, fw, fh := float32(x), float32(y), float32(width), float32(height)
	const t = 1
	w.fillRect(fx, fy, fw, t, v)
	w.fillRect(fx, fy+fh-t, fw, t, v)
	w.fillRect(fx, fy, t, fh, v)
	w.fillRect(fx+fw-t, fy, t, fh, v)
}

func (w *Window) fillRect(x, y, width, height float32, c [4]float32) {
	proj := w.proj()
	vertices := []float32{
		x, y,
		x + width, y,
		x + width, y + height,
		x, y,
		x + width, y + height,
		x, y + height,
	}
	gl.UseProgram(w.program)
	gl.UniformMatrix4fv(w.projLoc, 1, false, &proj[0])
	gl.Uniform4fv(w.colorLoc, 1, &c[0])
	gl.BindVertexArray(w.quadVAO)
	gl.BindBuffer(gl.ARRAY_BUFFER, w.quadVBO)
	gl.BufferSubData(gl.ARRAY_BUFFER, 0, len(vertices)*4, gl.Ptr(vertices))
	gl.DrawArrays(gl.TRIANGLES, 0, 6)
	gl.BindVertexArray(0)
}

// XftDrawString draws one cell's worth of text, spec.md §6.2
// "xft_draw_string". Only the first rune of text is drawn — the core calls
// this once per cell.
func (w *Window) XftDrawString(text string, x, y int, _ render.Font, c render.Color) {
	if text == "" {
		return
	}
	r := []rune(text)[0]
	glyph, ok := w.glyphs[r]
	if !ok {
		glyph, ok = w.glyphs['?']
		if !ok {
			return
		}
	}

	fx, fy := float32(x), float32(y)+float32(w.cellHeight)
	fw, fh := float32(glyph.pixW), float32(glyph.pixH)
	tx, ty, tw, th := glyph.x, glyph.y, glyph.w, glyph.h

	vertices := []float32{
		fx, fy - fh, tx, ty,
		fx + fw, fy - fh, tx + tw, ty,
		fx + fw, fy, tx + tw, ty + th,
		fx, fy - fh, tx, ty,
		fx + fw, fy, tx + tw, ty + th,
		fx, fy, tx, ty + th,
	}

	proj := w.proj()
	col := colorValue(c)
	gl.UseProgram(w.fontProgram)
	gl.UniformMatrix4fv(w.texProjLoc, 1, false, &proj[0])
	gl.Uniform4fv(w.texColorLoc, 1, &col[0])
	gl.Uniform1i(w.texLoc, 0)
	gl.ActiveTexture(gl.TEXTURE0)
	gl.BindTexture(gl.TEXTURE_2D, w.texture)
	gl.BindVertexArray(w.fontVAO)
	gl.BindBuffer(gl.ARRAY_BUFFER, w.fontVBO)
	gl.BufferSubData(gl.ARRAY_BUFFER, 0, len(vertices)*4, gl.Ptr(vertices))
	gl.DrawArrays(gl.TRIANGLES, 0, 6)
	gl.BindVertexArray(0)
}

// XftColorAllocValue converts a grid.Color to the [4]float32 this driver
// uses as its opaque render.Color handle. It never fails: unlike real Xft
// color allocation against a limited X11 colormap, an RGBA float quad has
// no allocation to exhaust.
func (w *Window) XftColorAllocValue(c grid.Color) (render.Color, error) {
	return [4]float32{float32(c.R) / 255, float32(c.G) / 255, float32(c.B) / 255, 1}, nil
}

func colorValue(c render.Color) [4]float32 {
	if v, ok := c.([4]float32); ok {
		return v
	}
	return [4]float32{1, 1, 1, 1}
}

func createProgram(vertexSource, fragmentSource string) (uint32, error) {
	vs, err := compileShader(vertexSource, gl.VERTEX_SHADER)
	if err != nil {
		return 0, err
	}
	fs, err := compileShader(fragmentSource, gl.FRAGMENT_SHADER)
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
		return 0, fmt.Errorf("link program: %s", log)
	}
	gl.DeleteShader(vs)
	gl.DeleteShader(fs)
	return program, nil
}

func compileShader(source string, shaderType uint32) (uint32, error) {
	shader := gl.CreateShader(shaderType)
	csources, free := gl.Strs(source)
	gl.ShaderSource(shader, 1, csources, nil)
	free()
	gl.CompileShader(shader)

	var status int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLen int32
		gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &logLen)
		log := strings.Repeat("\x00", int(logLen+1))
		gl.GetShaderInfoLog(shader, logLen, nil, gl.Str(log))
		return 0, fmt.Errorf("compile shader: %s", log)
	}
	return shader, nil
}
