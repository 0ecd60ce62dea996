package sheet

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Format 上传文件的表格格式
type Format string

const (
	FormatXLSX Format = "xlsx"
	FormatCSV  Format = "csv"
)

// Row 单行数据：表头 → 单元格值，缺失单元格补空串
type Row map[string]string

// Table 解析结果，保留表头顺序供连接键选择和定位列兜底使用
type Table struct {
	Headers []string `json:"headers"`
	Rows    []Row    `json:"rows"`
}

// ParseError 文件内容无法按声明格式解码
type ParseError struct {
	Format Format
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("failed to parse %s content: %v", e.Format, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// FormatForFilename 按扩展名猜测格式，csv 之外一律按 xlsx 处理
func FormatForFilename(name string) Format {
	if strings.EqualFold(filepath.Ext(name), ".csv") {
		return FormatCSV
	}
	return FormatXLSX
}

// Read 把文件字节解码成表格，第一行为表头
// 不做任何列类型推断，所有值原样透传，规范化在下游完成
func Read(data []byte, format Format) (*Table, error) {
	rows, err := ReadRaw(data, format)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return &Table{}, nil
	}

	headers := make([]string, len(rows[0]))
	for i, h := range rows[0] {
		headers[i] = strings.TrimSpace(h)
	}

	table := &Table{Headers: headers}
	for _, raw := range rows[1:] {
		row := make(Row, len(headers))
		for i, h := range headers {
			if i < len(raw) {
				row[h] = raw[i]
			} else {
				row[h] = ""
			}
		}
		table.Rows = append(table.Rows, row)
	}
	return table, nil
}

// ReadRaw 解码为按位置排列的行，供无表头的旧版定位 CSV 模式使用
func ReadRaw(data []byte, format Format) ([][]string, error) {
	switch format {
	case FormatCSV:
		return readCSV(data)
	default:
		return readXLSX(data)
	}
}

func readXLSX(data []byte) ([][]string, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, &ParseError{Format: FormatXLSX, Err: err}
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, &ParseError{Format: FormatXLSX, Err: errors.New("workbook has no sheets")}
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, &ParseError{Format: FormatXLSX, Err: err}
	}
	return rows, nil
}

func readCSV(data []byte) ([][]string, error) {
	decoded := decodeToUTF8(data)

	reader := csv.NewReader(bytes.NewReader(decoded))
	// 列数不齐的真实文件很常见，自行补齐/截断
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	var rows [][]string
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, &ParseError{Format: FormatCSV, Err: err}
		}
		rows = append(rows, row)
	}
	return rows, nil
}
