package pipeline

import (
	"math"
	"testing"
)

func validRecord(line int) *Record {
	return &Record{
		Features: []float64{63, 1, 3, 145, 233, 1, 0, 150, 0, 2.3, 0, 0, 1},
		Label:    1,
		Line:     line,
	}
}

func TestCleanerPassesValidRecords(t *testing.T) {
	cleaner := NewCleaner()

	second := validRecord(3)
	second.Features[0] = 45

	cleaned, issues := cleaner.Clean([]*Record{validRecord(2), second})
	if len(issues) != 0 {
		t.Fatalf("expected no issues, got %v", issues)
	}
	if len(cleaned) != 2 {
		t.Fatalf("expected 2 cleaned records, got %d", len(cleaned))
	}

	stats := cleaner.GetStats()
	if stats.TotalProcessed != 2 || stats.Passed != 2 || stats.Rejected != 0 {
		t.Errorf("unexpected stats: %+v", stats)
	}
}

func TestCleanerRejectsOutOfRange(t *testing.T) {
	cleaner := NewCleaner()

	bad := validRecord(2)
	bad.Features[0] = 300

	cleaned, issues := cleaner.Clean([]*Record{bad})
	if len(cleaned) != 0 {
		t.Fatal("expected record to be rejected")
	}
	if len(issues) != 1 {
		t.Fatalf("expected 1 issue, got %d", len(issues))
	}
	if issues[0].Type != "range_validation" {
		t.Errorf("expected range_validation issue, got %s", issues[0].Type)
	}
	if issues[0].Line != 2 {
		t.Errorf("expected line 2, got %d", issues[0].Line)
	}
}

func TestCleanerRejectsMissingValues(t *testing.T) {
	cleaner := NewCleaner()

	bad := validRecord(2)
	bad.Features[11] = math.NaN()

	cleaned, issues := cleaner.Clean([]*Record{bad})
	if len(cleaned) != 0 {
		t.Fatal("expected record to be rejected")
	}

	found := false
	for _, issue := range issues {
		if issue.Type == "missing_value" {
			found = true
		}
	}
	if !found {
		t.Errorf("expected missing_value issue, got %v", issues)
	}
}

func TestCleanerRejectsBadLabel(t *testing.T) {
	cleaner := NewCleaner()

	bad := validRecord(2)
	bad.Label = 4

	cleaned, issues := cleaner.Clean([]*Record{bad})
	if len(cleaned) != 0 {
		t.Fatal("expected record to be rejected")
	}
	if len(issues) != 1 || issues[0].Type != "label_validation" {
		t.Fatalf("expected label_validation issue, got %v", issues)
	}
}

func TestCleanerRejectsDuplicates(t *testing.T) {
	cleaner := NewCleaner()

	cleaned, issues := cleaner.Clean([]*Record{validRecord(2), validRecord(3)})
	if len(cleaned) != 1 {
		t.Fatalf("expected 1 cleaned record, got %d", len(cleaned))
	}
	if len(issues) != 1 || issues[0].Type != "duplicate_detection" {
		t.Fatalf("expected duplicate_detection issue, got %v", issues)
	}

	if got := cleaner.GetIssues(10); len(got) != 1 {
		t.Errorf("expected 1 stored issue, got %d", len(got))
	}
}

func TestFillMissingImputesMedian(t *testing.T) {
	cleaner := NewCleaner()

	a := validRecord(2)
	a.Features[4] = 200
	b := validRecord(3)
	b.Features[4] = 250
	c := validRecord(4)
	c.Features[4] = math.NaN()

	filled := cleaner.FillMissing([]*Record{a, b, c})
	if filled != 1 {
		t.Fatalf("expected 1 filled record, got %d", filled)
	}
	if c.Features[4] != 225 {
		t.Errorf("expected imputed median 225, got %v", c.Features[4])
	}
	if got := cleaner.GetStats().Imputed; got != 1 {
		t.Errorf("expected imputed stat 1, got %d", got)
	}
}

func TestSummarize(t *testing.T) {
	a := validRecord(2)
	b := validRecord(3)
	b.Features[0] = 45
	b.Features[12] = math.NaN()

	columns := Summarize([]*Record{a, b})
	if len(columns) != 13 {
		t.Fatalf("expected 13 columns, got %d", len(columns))
	}

	age := columns[0]
	if age.Name != "age" {
		t.Errorf("expected column name age, got %s", age.Name)
	}
	if age.Min != 45 || age.Max != 63 {
		t.Errorf("unexpected min/max: %v/%v", age.Min, age.Max)
	}
	if age.Mean != 54 || age.Median != 54 {
		t.Errorf("unexpected mean/median: %v/%v", age.Mean, age.Median)
	}
	if age.StdDev != 9 {
		t.Errorf("unexpected std dev: %v", age.StdDev)
	}

	thal := columns[12]
	if thal.Missing != 1 {
		t.Errorf("expected 1 missing thal value, got %d", thal.Missing)
	}
	if thal.Median != 1 {
		t.Errorf("expected thal median 1, got %v", thal.Median)
	}
}
