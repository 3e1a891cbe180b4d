package etl

import (
	"testing"
	"time"
)

func TestParseDateExcelSerials(t *testing.T) {
	tests := []struct {
		name string
		cell string
		want string // ISO date, "" means nil
	}{
		{"UnixEpoch", "25569", "1970-01-01"},
		{"Jan2024", "45292", "2024-01-01"},
		{"SerialWithTimeFraction", "45292.75", "2024-01-01"},
		{"SmallNumberIsNotADate", "5", ""},
		{"SerialSixtyOneRejected", "61", ""},
		{"SerialSixtyTwoAccepted", "62", "1900-03-02"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseDate(tt.cell)
			if tt.want == "" {
				if got != nil {
					t.Fatalf("ParseDate(%q) = %v, want nil", tt.cell, got)
				}
				return
			}
			if got == nil {
				t.Fatalf("ParseDate(%q) = nil, want %s", tt.cell, tt.want)
			}
			if FormatDate(got) != tt.want {
				t.Errorf("ParseDate(%q) = %s, want %s", tt.cell, FormatDate(got), tt.want)
			}
		})
	}
}

func TestParseDateTextLayouts(t *testing.T) {
	tests := []struct {
		cell string
		want string
	}{
		{"2024-03-15", "2024-03-15"},
		{"03/15/2024", "2024-03-15"},
		{"3/5/2024", "2024-03-05"},
		{"2024/03/15", "2024-03-15"},
		{"15-Mar-2024", "2024-03-15"},
		{"  2024-03-15  ", "2024-03-15"},
		{"not a date", ""},
		{"", ""},
	}

	for _, tt := range tests {
		got := ParseDate(tt.cell)
		if tt.want == "" {
			if got != nil {
				t.Errorf("ParseDate(%q) = %v, want nil", tt.cell, got)
			}
			continue
		}
		if got == nil || FormatDate(got) != tt.want {
			t.Errorf("ParseDate(%q) = %v, want %s", tt.cell, got, tt.want)
		}
	}
}

func TestParseDateTruncatesToMidnightUTC(t *testing.T) {
	got := ParseDate("2024-03-15 13:45:00")
	if got == nil {
		t.Fatal("expected a date")
	}
	want := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestParseAmount(t *testing.T) {
	tests := []struct {
		cell string
		want float64
	}{
		{"1234.56", 1234.56},
		{"$1,234.56", 1234.56},
		{"£1,000", 1000},
		{"(500.00)", -500},
		{"-42.5", -42.5},
		{"$ 99", 99},
		{"", 0},
		{"n/a", 0},
		{"-", 0},
	}

	for _, tt := range tests {
		if got := ParseAmount(tt.cell); got != tt.want {
			t.Errorf("ParseAmount(%q) = %v, want %v", tt.cell, got, tt.want)
		}
	}
}

func TestParseInt(t *testing.T) {
	tests := []struct {
		cell string
		want int
	}{
		{"680", 680},
		{"680.0", 680},
		{"$1,200", 1200},
		{"", 0},
		{"abc", 0},
	}

	for _, tt := range tests {
		if got := ParseInt(tt.cell); got != tt.want {
			t.Errorf("ParseInt(%q) = %d, want %d", tt.cell, got, tt.want)
		}
	}
}

func TestParseBool(t *testing.T) {
	tests := []struct {
		cell string
		want bool
	}{
		{"true", true},
		{"TRUE", true},
		{"1", true},
		{"Yes", true},
		{"yes", false}, // only the exact spellings count
		{"True", false},
		{"0", false},
		{"No", false},
		{"", false},
		{" Yes ", true}, // whitespace is trimmed first
	}

	for _, tt := range tests {
		if got := ParseBool(tt.cell); got != tt.want {
			t.Errorf("ParseBool(%q) = %v, want %v", tt.cell, got, tt.want)
		}
	}
}
