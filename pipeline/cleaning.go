package pipeline

import (
	"fmt"
	"math"
	"sort"
	"sync"
	"time"

	"github.com/papan-connect/Heart-Disease-Prediction/ml"
)

// CleaningRule 清洗规则
type CleaningRule interface {
	Apply(*Record) (*Record, error)
	Name() string
}

// QualityIssue 质量问题
type QualityIssue struct {
	Type      string    `json:"type"`
	Severity  string    `json:"severity"`
	Message   string    `json:"message"`
	Line      int       `json:"line"`
	Timestamp time.Time `json:"timestamp"`
}

// CleaningStats 清洗统计
type CleaningStats struct {
	TotalProcessed int64            `json:"total_processed"`
	Passed         int64            `json:"passed"`
	Rejected       int64            `json:"rejected"`
	Imputed        int64            `json:"imputed"`
	Issues         map[string]int64 `json:"issues"`
	LastClean      time.Time        `json:"last_clean"`
}

// Cleaner 训练数据清洗器
type Cleaner struct {
	rules      []CleaningRule
	issues     []QualityIssue
	issuesLock sync.RWMutex

	stats     CleaningStats
	statsLock sync.RWMutex
}

// NewCleaner 创建清洗器并注册默认规则
func NewCleaner() *Cleaner {
	cleaner := &Cleaner{
		rules:  make([]CleaningRule, 0),
		issues: make([]QualityIssue, 0),
		stats: CleaningStats{
			Issues: make(map[string]int64),
		},
	}

	cleaner.AddRule(NewMissingValueRule())
	cleaner.AddRule(NewRangeValidationRule())
	cleaner.AddRule(NewLabelValidationRule())
	cleaner.AddRule(NewDuplicateDetectionRule())

	return cleaner
}

// AddRule 添加清洗规则
func (c *Cleaner) AddRule(rule CleaningRule) {
	c.rules = append(c.rules, rule)
}

// Clean 清洗记录，返回通过的记录与质量问题列表
func (c *Cleaner) Clean(records []*Record) ([]*Record, []QualityIssue) {
	var cleaned []*Record
	var issues []QualityIssue

	c.statsLock.Lock()
	defer c.statsLock.Unlock()

	for _, record := range records {
		c.stats.TotalProcessed++

		var recordIssues []QualityIssue

		for _, rule := range c.rules {
			cleanedRecord, err := rule.Apply(record)
			if err != nil {
				issue := QualityIssue{
					Type:      rule.Name(),
					Severity:  "high",
					Message:   err.Error(),
					Line:      record.Line,
					Timestamp: time.Now(),
				}
				recordIssues = append(recordIssues, issue)
				c.stats.Issues[rule.Name()]++
				continue
			}

			if cleanedRecord != nil {
				record = cleanedRecord
			}
		}

		if len(recordIssues) > 0 {
			c.stats.Rejected++
			issues = append(issues, recordIssues...)
			c.issuesLock.Lock()
			c.issues = append(c.issues, recordIssues...)
			c.issuesLock.Unlock()
		} else {
			c.stats.Passed++
			cleaned = append(cleaned, record)
		}
	}

	c.stats.LastClean = time.Now()

	return cleaned, issues
}

// FillMissing 用各列中位数填充缺失值，返回被填充的记录数。
// 应在Clean之前调用，否则缺失值规则会剔除整条记录。
func (c *Cleaner) FillMissing(records []*Record) int {
	if len(records) == 0 {
		return 0
	}

	columns := Summarize(records)

	filled := 0
	for _, record := range records {
		touched := false
		for j, value := range record.Features {
			if math.IsNaN(value) {
				record.Features[j] = columns[j].Median
				touched = true
			}
		}
		if touched {
			filled++
		}
	}

	c.statsLock.Lock()
	c.stats.Imputed += int64(filled)
	c.statsLock.Unlock()

	return filled
}

// GetStats 获取统计信息
func (c *Cleaner) GetStats() CleaningStats {
	c.statsLock.RLock()
	defer c.statsLock.RUnlock()

	return c.stats
}

// GetIssues 获取问题列表
func (c *Cleaner) GetIssues(limit int) []QualityIssue {
	c.issuesLock.RLock()
	defer c.issuesLock.RUnlock()

	if limit <= 0 || limit > len(c.issues) {
		limit = len(c.issues)
	}

	issues := make([]QualityIssue, limit)
	copy(issues, c.issues[len(c.issues)-limit:])
	return issues
}

// ============ 清洗规则实现 ============

// MissingValueRule 缺失值规则，剔除仍含NaN的记录
type MissingValueRule struct{}

func NewMissingValueRule() *MissingValueRule {
	return &MissingValueRule{}
}

func (r *MissingValueRule) Name() string {
	return "missing_value"
}

func (r *MissingValueRule) Apply(record *Record) (*Record, error) {
	for j, value := range record.Features {
		if math.IsNaN(value) {
			return nil, fmt.Errorf("missing value for %s", ml.FeatureNames()[j])
		}
	}
	return record, nil
}

// RangeValidationRule 取值范围规则，按临床合理区间校验每个特征
type RangeValidationRule struct {
	Bounds []FeatureBound
}

// FeatureBound 单个特征的取值区间
type FeatureBound struct {
	Min float64
	Max float64
}

func NewRangeValidationRule() *RangeValidationRule {
	return &RangeValidationRule{
		Bounds: []FeatureBound{
			{1, 120},   // age
			{0, 1},     // sex
			{0, 4},     // cp
			{50, 300},  // trestbps
			{50, 700},  // chol
			{0, 1},     // fbs
			{0, 2},     // restecg
			{40, 250},  // thalach
			{0, 1},     // exang
			{0, 10},    // oldpeak
			{0, 3},     // slope
			{0, 4},     // ca
			{0, 7},     // thal
		},
	}
}

func (r *RangeValidationRule) Name() string {
	return "range_validation"
}

func (r *RangeValidationRule) Apply(record *Record) (*Record, error) {
	for j, value := range record.Features {
		if math.IsNaN(value) {
			continue
		}
		bound := r.Bounds[j]
		if value < bound.Min || value > bound.Max {
			return nil, fmt.Errorf("%s value %g out of range [%g, %g]", ml.FeatureNames()[j], value, bound.Min, bound.Max)
		}
	}
	return record, nil
}

// LabelValidationRule 标签规则，标签必须是0或1
type LabelValidationRule struct{}

func NewLabelValidationRule() *LabelValidationRule {
	return &LabelValidationRule{}
}

func (r *LabelValidationRule) Name() string {
	return "label_validation"
}

func (r *LabelValidationRule) Apply(record *Record) (*Record, error) {
	if record.Label != 0 && record.Label != 1 {
		return nil, fmt.Errorf("label %d is not binary", record.Label)
	}
	return record, nil
}

// DuplicateDetectionRule 重复检测规则
type DuplicateDetectionRule struct {
	seenMap map[string]struct{}
	mu      sync.Mutex
}

func NewDuplicateDetectionRule() *DuplicateDetectionRule {
	return &DuplicateDetectionRule{
		seenMap: make(map[string]struct{}),
	}
}

func (r *DuplicateDetectionRule) Name() string {
	return "duplicate_detection"
}

func (r *DuplicateDetectionRule) Apply(record *Record) (*Record, error) {
	key := fmt.Sprintf("%v|%d", record.Features, record.Label)

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.seenMap[key]; exists {
		return nil, fmt.Errorf("duplicate record at line %d", record.Line)
	}

	r.seenMap[key] = struct{}{}
	return record, nil
}

// ============ 列统计 ============

// ColumnStats 单个特征列的统计量，缺失值不计入
type ColumnStats struct {
	Name    string  `json:"name"`
	Mean    float64 `json:"mean"`
	StdDev  float64 `json:"std_dev"`
	Median  float64 `json:"median"`
	Min     float64 `json:"min"`
	Max     float64 `json:"max"`
	Missing int     `json:"missing"`
}

// Summarize 计算每个特征列的统计量
func Summarize(records []*Record) []ColumnStats {
	columns := make([]ColumnStats, ml.FeatureCount)
	names := ml.FeatureNames()

	for j := 0; j < ml.FeatureCount; j++ {
		values := make([]float64, 0, len(records))
		missing := 0
		for _, record := range records {
			value := record.Features[j]
			if math.IsNaN(value) {
				missing++
				continue
			}
			values = append(values, value)
		}

		mean, stdDev := meanStdDev(values)
		stats := ColumnStats{
			Name:    names[j],
			Mean:    mean,
			StdDev:  stdDev,
			Median:  median(values),
			Missing: missing,
		}
		if len(values) > 0 {
			stats.Min = values[0]
			stats.Max = values[0]
			for _, value := range values {
				stats.Min = math.Min(stats.Min, value)
				stats.Max = math.Max(stats.Max, value)
			}
		}
		columns[j] = stats
	}

	return columns
}

func meanStdDev(values []float64) (float64, float64) {
	n := len(values)
	if n == 0 {
		return 0, 0
	}

	sum := 0.0
	for _, v := range values {
		sum += v
	}
	mean := sum / float64(n)

	variance := 0.0
	for _, v := range values {
		diff := v - mean
		variance += diff * diff
	}
	variance /= float64(n)

	return mean, math.Sqrt(variance)
}

func median(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}

	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	n := len(sorted)
	if n%2 == 0 {
		return (sorted[n/2-1] + sorted[n/2]) / 2.0
	}
	return sorted[n/2]
}
