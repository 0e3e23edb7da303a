// Package fit 实现字号求解：在给定区域内寻找能放下内容的最大字号。
package fit

import (
	"errors"
	"fmt"
)

// ErrImpossibleFit 表示内容在最小字号下仍超出可用区域，属于配置错误，不可恢复。
var ErrImpossibleFit = errors.New("内容在最小字号下仍超出可用区域")

// Dimension 表示一块可用的矩形空间（宽 × 高，单位由调用方约定）。
type Dimension struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Measurer 负责测量内容在给定字号与固定宽度下的排版总高度。
// 要求实现是纯函数：相同入参必须返回相同高度，且高度随字号单调不减。
type Measurer interface {
	MeasureHeight(content string, size, width float64) (float64, error)
}

// Request 描述一次字号求解请求。
type Request struct {
	Content   string
	MinSize   float64
	MaxSize   float64
	Tolerance float64
	Available Dimension
}

func (req Request) validate() error {
	if req.MinSize < 0 {
		return fmt.Errorf("fit: 最小字号不能为负数，实际 %g", req.MinSize)
	}
	if req.MinSize >= req.MaxSize {
		return fmt.Errorf("fit: 字号区间无效，要求 min < max，实际 [%g, %g]", req.MinSize, req.MaxSize)
	}
	if req.Tolerance <= 0 {
		return fmt.Errorf("fit: 容差必须为正数，实际 %g", req.Tolerance)
	}
	if req.Available.Width <= 0 || req.Available.Height <= 0 {
		return fmt.Errorf("fit: 可用区域必须为正，实际 %g×%g", req.Available.Width, req.Available.Height)
	}
	return nil
}

// Solve 在 [MinSize, MaxSize] 上二分查找满足高度约束的最大字号。
// 宽度固定为 Available.Width，只检查测量高度不超过 Available.Height（等于视为放得下）。
//
// 语义约定：
//   - 内容在 MinSize 下放不下 → 返回包裹 ErrImpossibleFit 的错误，且不再进行任何测量；
//   - 内容在 MaxSize 下放得下 → 直接返回 MaxSize（快路径，不进入二分）；
//   - 否则维持区间 [a, b]，a 已知放得下、b 已知放不下，循环二分直到 b-a ≤ Tolerance，
//     返回 a。返回值必然放得下，且与真实临界字号的距离不超过 Tolerance。
func Solve(m Measurer, req Request) (float64, error) {
	if m == nil {
		return 0, fmt.Errorf("fit: 缺少测量后端 Measurer")
	}
	if err := req.validate(); err != nil {
		return 0, err
	}

	fits := func(size float64) (bool, error) {
		h, err := m.MeasureHeight(req.Content, size, req.Available.Width)
		if err != nil {
			return false, fmt.Errorf("测量字号 %g 失败: %w", size, err)
		}
		return h <= req.Available.Height, nil
	}

	ok, err := fits(req.MinSize)
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, fmt.Errorf("内容 %q 在最小字号 %g 下超出 %g×%g 区域: %w",
			req.Content, req.MinSize, req.Available.Width, req.Available.Height, ErrImpossibleFit)
	}

	ok, err = fits(req.MaxSize)
	if err != nil {
		return 0, err
	}
	if ok {
		return req.MaxSize, nil
	}

	a, b := req.MinSize, req.MaxSize
	for b-a > req.Tolerance {
		mid := (a + b) / 2
		ok, err := fits(mid)
		if err != nil {
			return 0, err
		}
		if ok {
			a = mid
		} else {
			b = mid
		}
	}
	return a, nil
}
