package canvasrenderer

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"math"
	"os"
	"strings"
	"sync"
	"unicode"

	"github.com/tdewolff/canvas"
	"github.com/tdewolff/canvas/renderers/pdf"
	"github.com/tdewolff/canvas/renderers/rasterizer"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/ByLCY/etikett/fit"
	"github.com/ByLCY/etikett/label"
	"github.com/ByLCY/etikett/renderer"
)

// Renderer 基于 github.com/tdewolff/canvas 绘制组版结果。
// 同时实现 fit.Measurer，向组版阶段提供真实字体的高度测量。
type Renderer struct {
	opts Options

	fontMu sync.Mutex
	family *canvas.FontFamily
}

var (
	_ renderer.Renderer = (*Renderer)(nil)
	_ fit.Measurer      = (*Renderer)(nil)
)

// Options configures the canvas renderer.
type Options struct {
	Format   string // "png"（默认，打印机光栅，1 px/dot）或 "pdf"
	FontPath string // 可选 TTF 字体路径；为空或加载失败时使用内置 Go Regular
}

// NewRenderer 创建默认配置（PNG 输出、内置字体）的渲染器。
func NewRenderer() *Renderer { return NewRendererWithOptions(Options{}) }

// NewRendererWithOptions 创建带配置的渲染器。
func NewRendererWithOptions(opts Options) *Renderer {
	return &Renderer{opts: opts}
}

// Render 将组版结果输出为二进制数据。
// PNG 仅支持单页（一张标签一个文件）；PDF 支持多页批量输出。
func (r *Renderer) Render(result *label.Result) ([]byte, error) {
	if result == nil {
		return nil, fmt.Errorf("渲染结果为空")
	}
	if len(result.Pages) == 0 {
		return nil, fmt.Errorf("缺少可渲染的页面")
	}
	switch r.opts.Format {
	case "", "png":
		if len(result.Pages) != 1 {
			return nil, fmt.Errorf("PNG 输出仅支持单页，实际 %d 页（批量请使用 PDF）", len(result.Pages))
		}
		return r.renderPNG(result.Pages[0])
	case "pdf":
		return r.renderPDF(result.Pages)
	default:
		return nil, fmt.Errorf("不支持的输出格式: %s", r.opts.Format)
	}
}

// renderPNG 以 1 像素/dot 的打印机分辨率输出单页 PNG。
func (r *Renderer) renderPNG(page label.Page) ([]byte, error) {
	c := canvas.New(page.Width*label.DotToMm, page.Height*label.DotToMm)
	ctx := canvas.NewContext(c)
	ctx.SetCoordSystem(canvas.CartesianIV) // 使坐标与组版保持左上角为原点

	if err := r.drawPage(ctx, page); err != nil {
		return nil, err
	}

	img := rasterizer.Draw(c, canvas.DPMM(label.MmToDot), canvas.DefaultColorSpace)
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("编码 PNG 失败: %w", err)
	}
	return buf.Bytes(), nil
}

func (r *Renderer) renderPDF(pages []label.Page) ([]byte, error) {
	var buf bytes.Buffer
	writer := pdf.New(&buf, pages[0].Width*label.DotToMm, pages[0].Height*label.DotToMm, nil)
	for i, page := range pages {
		if i > 0 {
			writer.NewPage(page.Width*label.DotToMm, page.Height*label.DotToMm)
		}
		c := canvas.New(page.Width*label.DotToMm, page.Height*label.DotToMm)
		ctx := canvas.NewContext(c)
		ctx.SetCoordSystem(canvas.CartesianIV)

		if err := r.drawPage(ctx, page); err != nil {
			return nil, err
		}
		c.RenderTo(writer)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("写入 PDF 失败: %w", err)
	}
	return buf.Bytes(), nil
}

// MeasureHeight 实现 fit.Measurer。
// 约定：size 为字号（pt），width 与返回高度为打印点（dot）。
// 内部用贪心换行在固定宽度下拆行，总高度 = 行数 × 字体行高。
func (r *Renderer) MeasureHeight(content string, size, width float64) (float64, error) {
	face, err := r.fontFace(size)
	if err != nil {
		return 0, err
	}
	lines := greedyWrap(content, width*label.DotToMm, face)
	lineHeight := face.Metrics().LineHeight // mm
	if lineHeight <= 0 {
		lineHeight = size * label.PtToMm
	}
	return float64(len(lines)) * lineHeight * label.MmToDot, nil
}

func (r *Renderer) drawPage(ctx *canvas.Context, page label.Page) error {
	// 白底：热敏打印黑白两色，光栅输出不能留透明背景
	ctx.SetFillColor(canvas.White)
	ctx.DrawPath(0, 0, canvas.Rectangle(page.Width*label.DotToMm, page.Height*label.DotToMm))

	for _, tb := range page.Texts {
		if err := r.drawTextBox(ctx, tb); err != nil {
			return err
		}
	}
	for _, img := range page.Images {
		if err := r.drawImage(ctx, img); err != nil {
			return err
		}
	}
	return nil
}

func (r *Renderer) drawTextBox(ctx *canvas.Context, tb label.TextBox) error {
	face, err := r.fontFace(tb.FontSize)
	if err != nil {
		return err
	}

	xMm := tb.X * label.DotToMm
	widthMm := tb.Width * label.DotToMm

	// 水平对齐：left（默认）/center/right，锚点随对齐方式移动
	var textAlign canvas.TextAlign
	var anchorX float64
	switch strings.ToLower(tb.Align) {
	case "center":
		textAlign = canvas.Center
		anchorX = xMm + widthMm/2
	case "right":
		textAlign = canvas.Right
		anchorX = xMm + widthMm
	default:
		textAlign = canvas.Left
		anchorX = xMm
	}

	metrics := face.Metrics()
	lineHeight := metrics.LineHeight
	if lineHeight <= 0 {
		lineHeight = tb.FontSize * label.PtToMm
	}

	cursorY := tb.Y * label.DotToMm
	for _, line := range greedyWrap(tb.Content, widthMm, face) {
		textLine := canvas.NewTextLine(face, line, textAlign)
		// 基线位置：行顶部加上字体上升部
		ctx.DrawText(anchorX, cursorY+metrics.Ascent, textLine)
		cursorY += lineHeight
	}
	return nil
}

func (r *Renderer) drawImage(ctx *canvas.Context, box label.ImageBox) error {
	if len(box.Data) == 0 {
		return fmt.Errorf("码区图片数据为空")
	}
	img, _, err := image.Decode(bytes.NewReader(box.Data))
	if err != nil {
		return fmt.Errorf("解码码区图片失败: %w", err)
	}
	widthMm := box.Width * label.DotToMm
	if widthMm <= 0 {
		return fmt.Errorf("码区宽度无效: %g", box.Width)
	}
	dpmm := float64(img.Bounds().Dx()) / widthMm
	if dpmm <= 0 {
		dpmm = 1
	}
	ctx.DrawImage(box.X*label.DotToMm, box.Y*label.DotToMm, img, canvas.DPMM(dpmm))
	return nil
}

func (r *Renderer) fontFace(size float64) (*canvas.FontFace, error) {
	family, err := r.ensureFamily()
	if err != nil {
		return nil, err
	}
	return family.Face(size, canvas.Black, canvas.FontRegular, canvas.FontNormal), nil
}

// ensureFamily 惰性加载字体族：优先配置的 TTF 路径，失败时回退内置 Go Regular。
func (r *Renderer) ensureFamily() (*canvas.FontFamily, error) {
	r.fontMu.Lock()
	defer r.fontMu.Unlock()

	if r.family != nil {
		return r.family, nil
	}
	if r.opts.FontPath != "" {
		if data, err := os.ReadFile(r.opts.FontPath); err == nil {
			family := canvas.NewFontFamily("etikett")
			if err := family.LoadFont(data, 0, canvas.FontRegular); err == nil {
				r.family = family
				return family, nil
			}
		}
	}
	family := canvas.NewFontFamily("etikett-builtin")
	if err := family.LoadFont(goregular.TTF, 0, canvas.FontRegular); err != nil {
		return nil, fmt.Errorf("加载内置字体失败: %w", err)
	}
	r.family = family
	return family, nil
}

// greedyWrap 将内容在给定宽度（mm）内贪心拆行：优先在空白处分割，单个词超宽时在词内切分。
func greedyWrap(content string, limit float64, face *canvas.FontFace) []string {
	if limit <= 0 {
		limit = math.MaxFloat64
	}

	var lines []string
	var builder strings.Builder
	currentWidth := 0.0

	emit := func(force bool) {
		if builder.Len() == 0 {
			if force {
				lines = append(lines, "")
			}
			return
		}
		lines = append(lines, builder.String())
		builder.Reset()
		currentWidth = 0
	}
	appendToken := func(token string) {
		builder.WriteString(token)
		currentWidth += face.TextWidth(token)
	}

	for _, token := range tokenizeContent(content) {
		if token == "\n" {
			emit(true)
			continue
		}

		tokenWidth := face.TextWidth(token)
		if currentWidth > 0 && currentWidth+tokenWidth > limit {
			emit(false)
		}
		if tokenWidth <= limit {
			appendToken(token)
			if currentWidth > limit {
				emit(false)
			}
			continue
		}

		for _, chunk := range splitTokenByWidth(token, limit, face) {
			chunkWidth := face.TextWidth(chunk)
			if currentWidth > 0 && currentWidth+chunkWidth > limit {
				emit(false)
			}
			appendToken(chunk)
			if currentWidth > limit {
				emit(false)
			}
		}
	}

	emit(false)
	if len(lines) == 0 {
		lines = []string{""}
	}
	return lines
}

// tokenizeContent 把文本切成空白串、非空白串与换行三类 token。
func tokenizeContent(s string) []string {
	var tokens []string
	var builder strings.Builder
	lastWasSpace := false
	flush := func() {
		if builder.Len() == 0 {
			return
		}
		tokens = append(tokens, builder.String())
		builder.Reset()
	}

	for _, r := range s {
		if r == '\r' {
			continue
		}
		if r == '\n' {
			flush()
			tokens = append(tokens, "\n")
			lastWasSpace = false
			continue
		}
		isSpace := unicode.IsSpace(r)
		if builder.Len() == 0 {
			lastWasSpace = isSpace
		} else if lastWasSpace != isSpace {
			flush()
			lastWasSpace = isSpace
		}
		builder.WriteRune(r)
	}
	flush()
	return tokens
}

func splitTokenByWidth(token string, limit float64, face *canvas.FontFace) []string {
	if limit <= 0 || limit == math.MaxFloat64 {
		return []string{token}
	}
	var parts []string
	var builder strings.Builder
	for _, r := range token {
		builder.WriteRune(r)
		if face.TextWidth(builder.String()) > limit && builder.Len() > 1 {
			runes := []rune(builder.String())
			parts = append(parts, string(runes[:len(runes)-1]))
			builder.Reset()
			builder.WriteRune(r)
		}
	}
	if builder.Len() > 0 {
		parts = append(parts, builder.String())
	}
	return parts
}
