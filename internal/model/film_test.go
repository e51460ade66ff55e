package model

import (
	"reflect"
	"testing"
)

func TestSplitList(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{"empty", "", []string{}},
		{"single", "CGV PVJ Bandung", []string{"CGV PVJ Bandung"}},
		{"trims spaces", " 19:00 , 21:30 ", []string{"19:00", "21:30"}},
		{"drops empty items", "a,,b, ,c", []string{"a", "b", "c"}},
		{"only separators", ", ,", []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SplitList(tt.in)
			if got == nil {
				t.Fatal("SplitList() returned nil, want empty slice")
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("SplitList(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestJoinList(t *testing.T) {
	tests := []struct {
		name string
		in   []string
		want string
	}{
		{"nil", nil, ""},
		{"single", []string{"XXI Plaza Indonesia"}, "XXI Plaza Indonesia"},
		{"trims and skips blanks", []string{" 19:00 ", "", "21:30"}, "19:00,21:30"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := JoinList(tt.in); got != tt.want {
				t.Errorf("JoinList(%v) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestSplitJoinRoundTrip(t *testing.T) {
	in := []string{"2025-08-20 19:00", "2025-08-21 16:30", "2025-08-22 20:00"}
	if got := SplitList(JoinList(in)); !reflect.DeepEqual(got, in) {
		t.Errorf("round trip = %v, want %v", got, in)
	}
}

func TestParsePrice(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want int64
	}{
		{"valid", "65000", 65000},
		{"valid with spaces", " 75000 ", 75000},
		{"zero falls back", "0", DefaultPrice},
		{"negative falls back", "-100", DefaultPrice},
		{"garbage falls back", "cheap", DefaultPrice},
		{"empty falls back", "", DefaultPrice},
		{"decimal falls back", "65000.50", DefaultPrice},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ParsePrice(tt.in); got != tt.want {
				t.Errorf("ParsePrice(%q) = %d, want %d", tt.in, got, tt.want)
			}
		})
	}
}
