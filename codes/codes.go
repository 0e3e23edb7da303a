// Package codes 负责码区图片的生成与兜底：字符串编码为 DataMatrix，缺省时提供内置占位图。
package codes

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"image/png"

	"github.com/boombuler/barcode"
	"github.com/boombuler/barcode/datamatrix"
)

//go:embed placeholder.png
var placeholderFS embed.FS

// ErrMissingResource 表示内置占位图资源不可用，此时无法产出任何标签。
var ErrMissingResource = errors.New("内置占位图资源不可用")

// 每个 DataMatrix 模块放大的像素倍数，避免渲染缩放时边缘模糊。
const moduleScale = 7

// Encode 将文本编码为正方形 DataMatrix 码图，返回 PNG 字节。
func Encode(text string) ([]byte, error) {
	if text == "" {
		return nil, fmt.Errorf("码内容为空，无法编码")
	}
	sym, err := datamatrix.Encode(text)
	if err != nil {
		return nil, fmt.Errorf("DataMatrix 编码失败: %w", err)
	}
	side := sym.Bounds().Dx() * moduleScale
	scaled, err := barcode.Scale(sym, side, side)
	if err != nil {
		return nil, fmt.Errorf("缩放 DataMatrix 码图失败: %w", err)
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, scaled); err != nil {
		return nil, fmt.Errorf("编码码图 PNG 失败: %w", err)
	}
	return buf.Bytes(), nil
}

// Placeholder 返回内置占位图的 PNG 字节，在没有码内容时替代码区图片。
func Placeholder() ([]byte, error) {
	data, err := placeholderFS.ReadFile("placeholder.png")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMissingResource, err)
	}
	return data, nil
}
