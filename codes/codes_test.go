package codes

import (
	"bytes"
	"image/png"
	"testing"
)

func TestEncodeProducesSquarePNG(t *testing.T) {
	data, err := Encode("L-2024-001")
	if err != nil {
		t.Fatalf("编码失败: %v", err)
	}
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("产出的码图不是合法 PNG: %v", err)
	}
	b := img.Bounds()
	if b.Dx() != b.Dy() {
		t.Fatalf("DataMatrix 码图应为正方形，实际 %d×%d", b.Dx(), b.Dy())
	}
	if b.Dx() == 0 {
		t.Fatalf("码图尺寸为零")
	}
}

func TestEncodeRejectsEmpty(t *testing.T) {
	if _, err := Encode(""); err == nil {
		t.Fatalf("空内容应编码失败")
	}
}

func TestPlaceholderDecodes(t *testing.T) {
	data, err := Placeholder()
	if err != nil {
		t.Fatalf("读取占位图失败: %v", err)
	}
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("占位图不是合法 PNG: %v", err)
	}
	if img.Bounds().Dx() == 0 || img.Bounds().Dy() == 0 {
		t.Fatalf("占位图尺寸无效: %v", img.Bounds())
	}
}
