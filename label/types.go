package label

// 该文件定义标签组版的输入描述与结果结构，供组版、渲染与调试 JSON 共用。

// Spec 描述一张待渲染的标签。长度单位为打印点（dot，203 dpi）。
type Spec struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Name   string  `json:"name"`
	Date   string  `json:"date"`
	// Code 为码区图片数据（任意可解码的图片格式）。为空时用内置占位图替代。
	Code []byte `json:"-"`
}

// Result 保存组版后的页面信息，每张标签对应一页。
type Result struct {
	Pages []Page `json:"pages"`
}

// Page 记录单张标签的画布尺寸与可直接渲染的元素，无页边距。
type Page struct {
	Width  float64    `json:"width"`
	Height float64    `json:"height"`
	Texts  []TextBox  `json:"texts"`
	Images []ImageBox `json:"images"`
}

// TextBox 表示一个已求得字号与坐标的文本块。
// 坐标与宽高为 dot，FontSize 为字号（pt），Height 是该字号下的测量高度。
type TextBox struct {
	Content  string  `json:"content"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Width    float64 `json:"width"`
	Height   float64 `json:"height"`
	FontSize float64 `json:"fontSize"`
	Align    string  `json:"align,omitempty"` // left（默认）/center/right
}

// ImageBox 描述码区图片的位置与尺寸（dot）。
type ImageBox struct {
	Data   []byte  `json:"-"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Region 是画布上为单块内容保留的子矩形，按值传递，不被共享。
type Region struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}
