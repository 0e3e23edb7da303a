package label

import (
	"encoding/json"
	"os"
)

// WriteDebugJSON 将组版结果输出为 JSON，便于调试或可视化（图片字节不输出）。
func WriteDebugJSON(res *Result, path string) error {
	if res == nil {
		return nil
	}
	data, err := json.MarshalIndent(res, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
