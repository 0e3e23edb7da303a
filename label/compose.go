package label

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/ByLCY/etikett/binding"
	"github.com/ByLCY/etikett/codes"
	"github.com/ByLCY/etikett/dsl"
	"github.com/ByLCY/etikett/fit"
)

// 区域划分常量（比例相对画布，绝对量为 dot）。
const (
	nameHeightRatio = 0.50 // 名称区占画布高度的比例
	bandHeightRatio = 0.35 // 底部条带占画布高度的比例
	dateHeightRatio = 0.50 // 日期区占条带高度的比例

	nameTopMargin  = 10.0 // 名称区向下偏移，避免贴边裁切
	bandSideMargin = 20.0 // 条带左右留白
	bandInnerGap   = 12.0 // 码区与日期区之间的间隔
)

// Compose 对单张标签做组版：划分区域、逐文本区域求解字号，生成可渲染的 Result。
// 任一文本在最小字号下仍放不下，或码区图片无法解析时，整次组版失败，不产出部分结果。
func Compose(spec Spec, opts ComposeOptions) (*Result, error) {
	page, err := composePage(spec, opts.withDefaults())
	if err != nil {
		return nil, err
	}
	return &Result{Pages: []Page{page}}, nil
}

// ComposeBatch 按批量标签文档逐条组版，每条 label 对应 Result 中的一页。
// name/date 中的 ${path} 占位符会先用 data 做插值。
func ComposeBatch(doc *dsl.Document, data any, opts ComposeOptions) (*Result, error) {
	if doc == nil {
		return nil, fmt.Errorf("标签文档为空")
	}
	if len(doc.Labels) == 0 {
		return nil, fmt.Errorf("文档 %s 中没有 label 条目", doc.Name)
	}
	opts = opts.withDefaults()

	defWidth, defHeight, err := batchDefaults(doc)
	if err != nil {
		return nil, err
	}

	result := &Result{Pages: make([]Page, 0, len(doc.Labels))}
	for i, entry := range doc.Labels {
		spec, err := entrySpec(entry, data, defWidth, defHeight)
		if err != nil {
			return nil, fmt.Errorf("第 %d 条标签无效: %w", i+1, err)
		}
		page, err := composePage(spec, opts)
		if err != nil {
			return nil, fmt.Errorf("第 %d 条标签组版失败: %w", i+1, err)
		}
		result.Pages = append(result.Pages, page)
	}
	return result, nil
}

func batchDefaults(doc *dsl.Document) (width, height float64, err error) {
	width, height = DefaultWidth, DefaultHeight
	if doc.Defaults == nil {
		return width, height, nil
	}
	if v, ok := doc.Defaults.Lookup("width"); ok {
		if width, err = ParseLength(v); err != nil {
			return 0, 0, fmt.Errorf("defaults.width 无效: %w", err)
		}
	}
	if v, ok := doc.Defaults.Lookup("height"); ok {
		if height, err = ParseLength(v); err != nil {
			return 0, 0, fmt.Errorf("defaults.height 无效: %w", err)
		}
	}
	return width, height, nil
}

func entrySpec(entry *dsl.Label, data any, defWidth, defHeight float64) (Spec, error) {
	spec := Spec{Width: defWidth, Height: defHeight}
	if v, ok := entry.Lookup("width"); ok {
		w, err := ParseLength(v)
		if err != nil {
			return Spec{}, fmt.Errorf("width 无效: %w", err)
		}
		spec.Width = w
	}
	if v, ok := entry.Lookup("height"); ok {
		h, err := ParseLength(v)
		if err != nil {
			return Spec{}, fmt.Errorf("height 无效: %w", err)
		}
		spec.Height = h
	}
	if v, ok := entry.Lookup("name"); ok {
		spec.Name = binding.Interpolate(v, data)
	}
	if v, ok := entry.Lookup("date"); ok {
		spec.Date = binding.Interpolate(v, data)
	}
	if v, ok := entry.Lookup("code"); ok && v != "" {
		code, err := codes.Encode(binding.Interpolate(v, data))
		if err != nil {
			return Spec{}, err
		}
		spec.Code = code
	}
	return spec, nil
}

func composePage(spec Spec, opts ComposeOptions) (Page, error) {
	if spec.Width <= 0 || spec.Height <= 0 {
		return Page{}, fmt.Errorf("标签尺寸必须为正，实际 %g×%g", spec.Width, spec.Height)
	}

	// 先解析码区图片：缺省时换成占位图，后续布局对此无感知。
	codeData := spec.Code
	if len(codeData) == 0 {
		var err error
		codeData, err = codes.Placeholder()
		if err != nil {
			return Page{}, err
		}
	}
	cfg, _, err := image.DecodeConfig(bytes.NewReader(codeData))
	if err != nil {
		return Page{}, fmt.Errorf("解析码区图片失败: %w", err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return Page{}, fmt.Errorf("码区图片尺寸无效: %d×%d", cfg.Width, cfg.Height)
	}
	aspect := float64(cfg.Width) / float64(cfg.Height)

	nameRegion, _, codeRegion, dateRegion := splitRegions(spec.Width, spec.Height, aspect)

	nameBox, err := solveTextBox(spec.Name, nameRegion, "center", opts)
	if err != nil {
		return Page{}, fmt.Errorf("名称区域组版失败: %w", err)
	}
	dateBox, err := solveTextBox(spec.Date, dateRegion, "right", opts)
	if err != nil {
		return Page{}, fmt.Errorf("日期区域组版失败: %w", err)
	}
	// 日期在其子区域内垂直居中
	dateBox.Y += (dateRegion.Height - dateBox.Height) / 2

	return Page{
		Width:  spec.Width,
		Height: spec.Height,
		Texts:  []TextBox{nameBox, dateBox},
		Images: []ImageBox{{
			Data:   codeData,
			X:      codeRegion.X,
			Y:      codeRegion.Y,
			Width:  codeRegion.Width,
			Height: codeRegion.Height,
		}},
	}, nil
}

// splitRegions 把画布划分为互不重叠的名称区、底部条带、码区与日期区。
// aspect 是码区图片的宽高比，码区宽度按条带高度乘以该比例计算。
func splitRegions(width, height, aspect float64) (name, band, code, date Region) {
	name = Region{
		X:      0,
		Y:      nameTopMargin,
		Width:  width,
		Height: height*nameHeightRatio - nameTopMargin,
	}

	bandHeight := height * bandHeightRatio
	band = Region{
		X:      bandSideMargin,
		Y:      height - bandHeight,
		Width:  width - 2*bandSideMargin,
		Height: bandHeight,
	}

	codeWidth := bandHeight * aspect
	if codeWidth > band.Width {
		codeWidth = band.Width
	}
	// 码区高度即条带高度，垂直居中自然成立
	code = Region{X: band.X, Y: band.Y, Width: codeWidth, Height: bandHeight}

	dateHeight := bandHeight * dateHeightRatio
	date = Region{
		X:      band.X + codeWidth + bandInnerGap,
		Y:      band.Y + (bandHeight-dateHeight)/2,
		Width:  band.Width - codeWidth - bandInnerGap,
		Height: dateHeight,
	}
	return name, band, code, date
}

// solveTextBox 对单个文本区域求解最大字号，并回填该字号下的测量高度。
func solveTextBox(content string, region Region, align string, opts ComposeOptions) (TextBox, error) {
	if opts.Measurer == nil {
		return TextBox{}, fmt.Errorf("缺少测量后端 Measurer")
	}
	size, err := fit.Solve(opts.Measurer, fit.Request{
		Content:   content,
		MinSize:   opts.MinSize,
		MaxSize:   opts.MaxSize,
		Tolerance: opts.Tolerance,
		Available: fit.Dimension{Width: region.Width, Height: region.Height},
	})
	if err != nil {
		return TextBox{}, err
	}
	height, err := opts.Measurer.MeasureHeight(content, size, region.Width)
	if err != nil {
		return TextBox{}, fmt.Errorf("回测字号 %g 高度失败: %w", size, err)
	}
	return TextBox{
		Content:  content,
		X:        region.X,
		Y:        region.Y,
		Width:    region.Width,
		Height:   height,
		FontSize: size,
		Align:    align,
	}, nil
}
