package pipeline

import (
	"encoding/csv"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/papan-connect/Heart-Disease-Prediction/ml"
)

// Record 一条训练记录，13个临床特征加二分类标签
type Record struct {
	Features []float64 `json:"features"`
	Label    int       `json:"label"`
	Line     int       `json:"line"`
}

// LoadCSV 读取训练数据CSV，每行13个特征列加1个目标列。
// 空值与"?"视为缺失，用NaN标记，由清洗阶段填充或剔除。
// 目标列大于0的值归一为1。
func LoadCSV(path string) ([]*Record, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.TrimLeadingSpace = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, err
	}

	records := make([]*Record, 0, len(rows))
	for i, row := range rows {
		if len(row) != ml.FeatureCount+1 {
			return nil, fmt.Errorf("row %d: expected %d columns, got %d", i+1, ml.FeatureCount+1, len(row))
		}

		// 首行可能是表头
		if i == 0 && !isNumeric(row[0]) && !isMissing(row[0]) {
			continue
		}

		features := make([]float64, ml.FeatureCount)
		for j := 0; j < ml.FeatureCount; j++ {
			value, err := parseCell(row[j])
			if err != nil {
				return nil, fmt.Errorf("row %d: invalid value %q for %s", i+1, row[j], ml.FeatureNames()[j])
			}
			features[j] = value
		}

		labelCell := strings.TrimSpace(row[ml.FeatureCount])
		if isMissing(labelCell) {
			return nil, fmt.Errorf("row %d: missing label", i+1)
		}
		raw, err := strconv.ParseFloat(labelCell, 64)
		if err != nil {
			return nil, fmt.Errorf("row %d: invalid label %q", i+1, labelCell)
		}
		label := 0
		if raw != 0 {
			label = 1
		}

		records = append(records, &Record{
			Features: features,
			Label:    label,
			Line:     i + 1,
		})
	}

	if len(records) == 0 {
		return nil, fmt.Errorf("no usable rows in %s", path)
	}
	return records, nil
}

// parseCell 解析单元格，缺失值返回NaN
func parseCell(cell string) (float64, error) {
	cell = strings.TrimSpace(cell)
	if isMissing(cell) {
		return math.NaN(), nil
	}
	return strconv.ParseFloat(cell, 64)
}

func isMissing(cell string) bool {
	return cell == "" || cell == "?"
}

func isNumeric(cell string) bool {
	_, err := strconv.ParseFloat(strings.TrimSpace(cell), 64)
	return err == nil
}
