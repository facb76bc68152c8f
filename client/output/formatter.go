// Package output provides output formatting functionality for client commands.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"text/tabwriter"
)

// Format 输出格式
type Format string

const (
	// FormatJSON 美化JSON（默认）
	FormatJSON Format = "json"
	// FormatText 键值对齐的纯文本
	FormatText Format = "text"
)

// ParseFormat 解析输出格式
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case FormatJSON, FormatText:
		return Format(s), nil
	default:
		return "", fmt.Errorf("未知输出格式 %q，有效选项: json | text", s)
	}
}

// Formatter 输出格式化器
// 数据写到 writer，提示信息写到 logWriter，避免污染 JSON 输出
type Formatter struct {
	format    Format
	writer    io.Writer
	logWriter io.Writer
}

// NewFormatter 创建格式化器
func NewFormatter(format Format, writer io.Writer) *Formatter {
	if writer == nil {
		writer = os.Stdout
	}
	return &Formatter{
		format:    format,
		writer:    writer,
		logWriter: os.Stderr,
	}
}

// SetLogWriter 设置提示信息输出目标（默认 stderr）
func (f *Formatter) SetLogWriter(writer io.Writer) {
	if writer == nil {
		writer = os.Stderr
	}
	f.logWriter = writer
}

// Print 打印输出
func (f *Formatter) Print(data interface{}) error {
	if f.format == FormatText {
		return f.printText(data)
	}
	return f.printJSON(data)
}

func (f *Formatter) printJSON(data interface{}) error {
	out, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal json: %w", err)
	}
	if _, err := fmt.Fprintln(f.writer, string(out)); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	return nil
}

// printText 结构体与 map 按键排序对齐输出，其它值直接打印
func (f *Formatter) printText(data interface{}) error {
	fields, ok := toMap(data)
	if !ok {
		if _, err := fmt.Fprintf(f.writer, "%v\n", data); err != nil {
			return fmt.Errorf("write output: %w", err)
		}
		return nil
	}

	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	tw := tabwriter.NewWriter(f.writer, 0, 0, 2, ' ', 0)
	for _, k := range keys {
		if _, err := fmt.Fprintf(tw, "%s:\t%s\n", k, formatValue(fields[k])); err != nil {
			return fmt.Errorf("write row: %w", err)
		}
	}
	return tw.Flush()
}

// PrintSuccess 打印成功消息
func (f *Formatter) PrintSuccess(message string) {
	_, _ = fmt.Fprintf(f.logWriter, "✅ %s\n", message)
}

// PrintError 打印错误消息
func (f *Formatter) PrintError(err error) {
	_, _ = fmt.Fprintf(f.logWriter, "❌ Error: %v\n", err)
}

// toMap 经由 JSON 将结构体转为 map
func toMap(data interface{}) (map[string]interface{}, bool) {
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, false
	}
	var m map[string]interface{}
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, false
	}
	return m, true
}

// formatValue 格式化值
func formatValue(value interface{}) string {
	switch v := value.(type) {
	case string:
		return v
	case float64:
		// JSON 数字统一为 float64，整数按整数输出
		if v == float64(int64(v)) {
			return fmt.Sprintf("%d", int64(v))
		}
		return fmt.Sprintf("%g", v)
	case bool:
		if v {
			return "true"
		}
		return "false"
	case nil:
		return "-"
	default:
		data, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprintf("%v", v)
		}
		return string(data)
	}
}
