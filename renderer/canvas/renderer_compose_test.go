package canvasrenderer

import (
	"bytes"
	"errors"
	"image/png"
	"strings"
	"testing"

	"github.com/ByLCY/etikett/fit"
	"github.com/ByLCY/etikett/label"
)

// TestComposeAndRenderScenario 用真实字体跑通组版 + 渲染全流程：
// 696×300、无码内容（走占位图），输出 696×300 的 PNG。
func TestComposeAndRenderScenario(t *testing.T) {
	r := NewRenderer()
	result, err := label.Compose(label.Spec{
		Width:  696,
		Height: 300,
		Name:   "Test Dish",
		Date:   "12/25",
	}, label.ComposeOptions{Measurer: r})
	if err != nil {
		t.Fatalf("组版失败: %v", err)
	}

	for _, tb := range result.Pages[0].Texts {
		h, err := r.MeasureHeight(tb.Content, tb.FontSize, tb.Width)
		if err != nil {
			t.Fatalf("回测失败: %v", err)
		}
		if h > tb.Height+1e-6 {
			t.Fatalf("求得字号下的高度与组版记录不符: content=%q h=%g box=%g", tb.Content, h, tb.Height)
		}
	}

	out, err := r.Render(result)
	if err != nil {
		t.Fatalf("渲染失败: %v", err)
	}
	img, err := png.Decode(bytes.NewReader(out))
	if err != nil {
		t.Fatalf("输出不是合法 PNG: %v", err)
	}
	if img.Bounds().Dx() != 696 || img.Bounds().Dy() != 300 {
		t.Fatalf("PNG 尺寸应为 696×300，实际 %v", img.Bounds())
	}
}

// TestComposeImpossibleFitWithRealFont 构造在最小字号下也放不下的超长名称，
// 整个组版应以 ErrImpossibleFit 失败，无部分输出。
func TestComposeImpossibleFitWithRealFont(t *testing.T) {
	r := NewRenderer()
	longName := strings.TrimSpace(strings.Repeat("Gorgonzola ", 40000))
	_, err := label.Compose(label.Spec{
		Width:  696,
		Height: 300,
		Name:   longName,
		Date:   "12/25",
	}, label.ComposeOptions{Measurer: r})
	if err == nil {
		t.Fatalf("超长名称应组版失败")
	}
	if !errors.Is(err, fit.ErrImpossibleFit) {
		t.Fatalf("错误类型不符: %v", err)
	}
}
