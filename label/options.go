package label

import "github.com/ByLCY/etikett/fit"

// 字号求解默认参数与画布默认尺寸。
const (
	DefaultWidth  = 696.0 // dot
	DefaultHeight = 300.0 // dot

	DefaultMinSize   = 0.3 // pt
	DefaultMaxSize   = 10.0
	DefaultTolerance = 0.1
)

// ComposeOptions 配置组版阶段所需的依赖与字号求解参数。
// 字号参数为零值时采用上面的默认值。
type ComposeOptions struct {
	Measurer  fit.Measurer
	MinSize   float64
	MaxSize   float64
	Tolerance float64
}

func (o ComposeOptions) withDefaults() ComposeOptions {
	if o.MinSize == 0 {
		o.MinSize = DefaultMinSize
	}
	if o.MaxSize == 0 {
		o.MaxSize = DefaultMaxSize
	}
	if o.Tolerance == 0 {
		o.Tolerance = DefaultTolerance
	}
	return o
}
