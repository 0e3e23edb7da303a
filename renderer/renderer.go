package renderer

import "github.com/ByLCY/etikett/label"

// Renderer 将组版结果输出为最终文件，例如打印用 PNG 或 PDF。
// Render 返回生成的二进制数据以及可能的错误。
type Renderer interface {
	Render(result *label.Result) ([]byte, error)
}
