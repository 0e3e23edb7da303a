package canvasrenderer

import (
	"bytes"
	"image"
	"image/png"
	"testing"

	"github.com/ByLCY/etikett/label"
)

func TestMeasureHeightGrowsWithSize(t *testing.T) {
	r := NewRenderer()
	small, err := r.MeasureHeight("Test Dish", 5, 696)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	big, err := r.MeasureHeight("Test Dish", 20, 696)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if big <= small {
		t.Fatalf("height should grow with font size: size5=%g size20=%g", small, big)
	}
}

// TestMeasureHeightMonotonic 验证固定内容与宽度下，高度随字号单调不减（fit 的前提假设）。
func TestMeasureHeightMonotonic(t *testing.T) {
	r := NewRenderer()
	content := "Hearty beef stew with vegetables"
	prev := 0.0
	for _, size := range []float64{0.3, 1, 2, 4, 6, 8, 10, 14} {
		h, err := r.MeasureHeight(content, size, 300)
		if err != nil {
			t.Fatalf("size=%g: %v", size, err)
		}
		if h < prev {
			t.Fatalf("height decreased with size: size=%g h=%g prev=%g", size, h, prev)
		}
		prev = h
	}
}

func TestMeasureHeightWrapsAtNarrowWidth(t *testing.T) {
	r := NewRenderer()
	wide, err := r.MeasureHeight("hello world again", 10, 696)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	narrow, err := r.MeasureHeight("hello world again", 10, 60)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if narrow <= wide {
		t.Fatalf("narrow width should wrap into more lines: narrow=%g wide=%g", narrow, wide)
	}
}

func testImagePNG(t *testing.T, w, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, w, h))); err != nil {
		t.Fatalf("构造测试图片失败: %v", err)
	}
	return buf.Bytes()
}

func testPage(t *testing.T) label.Page {
	t.Helper()
	return label.Page{
		Width:  696,
		Height: 300,
		Texts: []label.TextBox{
			{Content: "Test Dish", X: 0, Y: 10, Width: 696, Height: 40, FontSize: 10, Align: "center"},
			{Content: "12/25", X: 137, Y: 221, Width: 539, Height: 30, FontSize: 10, Align: "right"},
		},
		Images: []label.ImageBox{
			{Data: testImagePNG(t, 32, 32), X: 20, Y: 195, Width: 105, Height: 105},
		},
	}
}

// TestRenderPNGDimensions 验证 PNG 输出按 1 px/dot 光栅化，像素尺寸与画布一致。
func TestRenderPNGDimensions(t *testing.T) {
	r := NewRenderer()
	out, err := r.Render(&label.Result{Pages: []label.Page{testPage(t)}})
	if err != nil {
		t.Fatalf("render failed: %v", err)
	}
	img, err := png.Decode(bytes.NewReader(out))
	if err != nil {
		t.Fatalf("输出不是合法 PNG: %v", err)
	}
	b := img.Bounds()
	if b.Dx() != 696 || b.Dy() != 300 {
		t.Fatalf("PNG 尺寸应为 696×300，实际 %d×%d", b.Dx(), b.Dy())
	}
}

func TestRenderPNGRejectsMultiPage(t *testing.T) {
	r := NewRenderer()
	pages := []label.Page{testPage(t), testPage(t)}
	if _, err := r.Render(&label.Result{Pages: pages}); err == nil {
		t.Fatalf("PNG 多页输出应报错")
	}
}

func TestRenderPDFMultiPage(t *testing.T) {
	r := NewRendererWithOptions(Options{Format: "pdf"})
	pages := []label.Page{testPage(t), testPage(t)}
	out, err := r.Render(&label.Result{Pages: pages})
	if err != nil {
		t.Fatalf("render failed: %v", err)
	}
	if !bytes.HasPrefix(out, []byte("%PDF")) {
		t.Fatalf("输出缺少 PDF 文件头")
	}
}

func TestRenderRejectsEmptyResult(t *testing.T) {
	r := NewRenderer()
	if _, err := r.Render(nil); err == nil {
		t.Fatalf("空结果应报错")
	}
	if _, err := r.Render(&label.Result{}); err == nil {
		t.Fatalf("零页结果应报错")
	}
}
