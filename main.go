package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/ByLCY/etikett/codes"
	"github.com/ByLCY/etikett/dsl"
	"github.com/ByLCY/etikett/fit"
	"github.com/ByLCY/etikett/label"
	"github.com/ByLCY/etikett/renderer"
	canvasrenderer "github.com/ByLCY/etikett/renderer/canvas"
)

func main() {
	width := flag.String("width", "696", "标签宽度（dot，可带 mm/cm/in/pt 后缀）")
	height := flag.String("height", "300", "标签高度（dot，可带 mm/cm/in/pt 后缀）")
	name := flag.String("name", "红烧牛肉", "菜名")
	date := flag.String("date", "12/25", "日期")
	code := flag.String("code", "", "编码为 DataMatrix 的内容")
	codeImage := flag.String("code-image", "", "码区图片文件路径（优先于 -code）")
	batch := flag.String("batch", "", "批量标签 DSL 文件路径，设置后忽略单标签参数")
	dataJSON := flag.String("data", "", "绑定到批量标签的 JSON 数据")
	fontPath := flag.String("font", "", "TTF 字体文件路径，缺省使用内置字体")
	output := flag.String("out", "output/label.png", "输出路径，.pdf 后缀时输出 PDF")
	debug := flag.String("debug", "", "组版调试 JSON 输出路径")
	flag.Parse()

	var inputData any
	if *dataJSON != "" {
		if err := json.Unmarshal([]byte(*dataJSON), &inputData); err != nil {
			log.Fatalf("解析 data JSON 失败: %v", err)
		}
	}

	format := "png"
	if strings.EqualFold(filepath.Ext(*output), ".pdf") {
		format = "pdf"
	}
	var r renderer.Renderer = canvasrenderer.NewRendererWithOptions(canvasrenderer.Options{
		Format:   format,
		FontPath: *fontPath,
	})

	opts := options{
		width:     *width,
		height:    *height,
		name:      *name,
		date:      *date,
		code:      *code,
		codeImage: *codeImage,
		batch:     *batch,
		data:      inputData,
		output:    *output,
		debug:     *debug,
	}
	if err := run(opts, r); err != nil {
		log.Fatalf("生成标签失败: %v", err)
	}
	fmt.Printf("已生成标签：%s\n", *output)
}

type options struct {
	width, height string
	name, date    string
	code          string
	codeImage     string
	batch         string
	data          any
	output        string
	debug         string
}

// run 串联组版与渲染。
func run(opts options, r renderer.Renderer) error {
	if r == nil {
		return fmt.Errorf("renderer 不能为空")
	}
	m, ok := r.(fit.Measurer)
	if !ok {
		return fmt.Errorf("renderer 未实现测量接口")
	}
	composeOpts := label.ComposeOptions{Measurer: m}

	var result *label.Result
	var err error
	if opts.batch != "" {
		result, err = composeBatch(opts, composeOpts)
	} else {
		result, err = composeSingle(opts, composeOpts)
	}
	if err != nil {
		return err
	}

	if opts.debug != "" {
		if err := writeDebug(result, opts.debug); err != nil {
			return err
		}
	}

	if err := os.MkdirAll(filepath.Dir(opts.output), 0o755); err != nil {
		return fmt.Errorf("创建输出目录失败: %w", err)
	}
	out, err := r.Render(result)
	if err != nil {
		return fmt.Errorf("渲染失败: %w", err)
	}
	if err := os.WriteFile(opts.output, out, 0o644); err != nil {
		return fmt.Errorf("写入输出文件失败: %w", err)
	}
	return nil
}

func composeSingle(opts options, composeOpts label.ComposeOptions) (*label.Result, error) {
	width, err := label.ParseLength(opts.width)
	if err != nil {
		return nil, fmt.Errorf("width 无效: %w", err)
	}
	height, err := label.ParseLength(opts.height)
	if err != nil {
		return nil, fmt.Errorf("height 无效: %w", err)
	}

	spec := label.Spec{
		Width:  width,
		Height: height,
		Name:   opts.name,
		Date:   opts.date,
	}
	switch {
	case opts.codeImage != "":
		data, err := os.ReadFile(opts.codeImage)
		if err != nil {
			return nil, fmt.Errorf("读取码区图片失败: %w", err)
		}
		spec.Code = data
	case opts.code != "":
		data, err := codes.Encode(opts.code)
		if err != nil {
			return nil, fmt.Errorf("编码 DataMatrix 失败: %w", err)
		}
		spec.Code = data
	}

	result, err := label.Compose(spec, composeOpts)
	if err != nil {
		return nil, fmt.Errorf("组版失败: %w", err)
	}
	return result, nil
}

func composeBatch(opts options, composeOpts label.ComposeOptions) (*label.Result, error) {
	file, err := os.Open(opts.batch)
	if err != nil {
		return nil, fmt.Errorf("无法打开批量标签文件 %s: %w", opts.batch, err)
	}
	defer file.Close()

	doc, err := dsl.Parse(file)
	if err != nil {
		return nil, fmt.Errorf("解析批量标签文件失败: %w", err)
	}
	result, err := label.ComposeBatch(doc, opts.data, composeOpts)
	if err != nil {
		return nil, fmt.Errorf("批量组版失败: %w", err)
	}
	return result, nil
}

func writeDebug(result *label.Result, debugPath string) error {
	if err := os.MkdirAll(filepath.Dir(debugPath), 0o755); err != nil {
		return fmt.Errorf("创建调试目录失败: %w", err)
	}
	if err := label.WriteDebugJSON(result, debugPath); err != nil {
		return fmt.Errorf("输出调试 JSON 失败: %w", err)
	}
	return nil
}
