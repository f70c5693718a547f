package parser

import "testing"

func TestConvertDateDMY(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"05-JAN-2024", "2024-01-05", false},
		{"31-DEC-2023", "2023-12-31", false},
		{"29-FEB-2024", "2024-02-29", false},
		{"05-Jan-2024", "2024-01-05", false},
		{"", "", false},
		{"2024-01-05", "", true},
		{"32-JAN-2024", "", true},
	}

	for _, tt := range tests {
		got, err := ConvertDateDMY(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ConvertDateDMY(%q): expected error, got %v", tt.in, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("ConvertDateDMY(%q): unexpected error: %v", tt.in, err)
			continue
		}
		if tt.in == "" {
			if got != nil {
				t.Errorf("ConvertDateDMY(%q) = %v, want nil", tt.in, got)
			}
			continue
		}
		if got != tt.want {
			t.Errorf("ConvertDateDMY(%q) = %v, want %q", tt.in, got, tt.want)
		}
	}
}

func TestConvertDateMDY(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"01/05/2024", "2024-01-05", false},
		{"12/31/2023", "2023-12-31", false},
		{"13/01/2024", "", true},
		{"01-05-2024", "", true},
	}

	for _, tt := range tests {
		got, err := ConvertDateMDY(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ConvertDateMDY(%q): expected error, got %v", tt.in, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("ConvertDateMDY(%q): unexpected error: %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ConvertDateMDY(%q) = %v, want %q", tt.in, got, tt.want)
		}
	}
}

func TestConvertNumber(t *testing.T) {
	tests := []struct {
		in      string
		want    float64
		wantErr bool
	}{
		{"1,234.50", 1234.5, false},
		{"0.00", 0, false},
		{"12", 12, false},
		{"1,234,567.89", 1234567.89, false},
		{"(500.00)", -500, false},
		{"500.00-", -500, false},
		{"abc", 0, true},
	}

	for _, tt := range tests {
		got, err := ConvertNumber(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ConvertNumber(%q): expected error, got %v", tt.in, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("ConvertNumber(%q): unexpected error: %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ConvertNumber(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
