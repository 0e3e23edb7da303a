package binding

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var placeholderPattern = regexp.MustCompile(`\$\{([^}]+)\}`)

// Interpolate 将文本中的 ${path.to.value} 替换为 data 中的值。
// 若 data 为空或路径不存在，保留原占位符不变。
func Interpolate(text string, data any) string {
	if data == nil {
		return text
	}
	return placeholderPattern.ReplaceAllStringFunc(text, func(match string) string {
		groups := placeholderPattern.FindStringSubmatch(match)
		if len(groups) < 2 {
			return match
		}
		path := strings.TrimSpace(groups[1])
		if path == "" {
			return match
		}
		if val, ok := resolvePath(data, path); ok {
			return fmt.Sprint(val)
		}
		return match
	})
}

// resolvePath 沿 a.b[0].c 形式的路径向下取值，支持 map 与切片。
func resolvePath(data any, path string) (any, bool) {
	current := data
	for _, segment := range strings.Split(path, ".") {
		name, indexes, ok := splitSegment(segment)
		if !ok {
			return nil, false
		}
		if name != "" {
			next, ok := descendKey(current, name)
			if !ok {
				return nil, false
			}
			current = next
		}
		for _, idx := range indexes {
			next, ok := descendIndex(current, idx)
			if !ok {
				return nil, false
			}
			current = next
		}
	}
	return current, true
}

// splitSegment 拆出段名与其后缀的下标序列，如 items[0][2] → ("items", [0 2])。
func splitSegment(segment string) (string, []int, bool) {
	name := segment
	var indexes []int
	for {
		open := strings.IndexByte(name, '[')
		if open < 0 {
			break
		}
		rest := name[open:]
		name = name[:open]
		for rest != "" {
			if rest[0] != '[' {
				return "", nil, false
			}
			close := strings.IndexByte(rest, ']')
			if close < 0 {
				return "", nil, false
			}
			idx, err := strconv.Atoi(rest[1:close])
			if err != nil {
				return "", nil, false
			}
			indexes = append(indexes, idx)
			rest = rest[close+1:]
		}
	}
	if name == "" && len(indexes) == 0 {
		return "", nil, false
	}
	return name, indexes, true
}

func descendKey(data any, key string) (any, bool) {
	switch v := data.(type) {
	case map[string]any:
		val, ok := v[key]
		return val, ok
	case map[string]string:
		val, ok := v[key]
		return val, ok
	default:
		return nil, false
	}
}

func descendIndex(data any, idx int) (any, bool) {
	switch v := data.(type) {
	case []any:
		if idx < 0 || idx >= len(v) {
			return nil, false
		}
		return v[idx], true
	case []string:
		if idx < 0 || idx >= len(v) {
			return nil, false
		}
		return v[idx], true
	default:
		return nil, false
	}
}
