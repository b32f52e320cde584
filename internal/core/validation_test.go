// AngelaMos | 2026
// validation_test.go

package core

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

type sample struct {
	Name     string `json:"name"      validate:"required,notblank"`
	Phone    string `json:"phone"     validate:"omitempty,phone"`
	Forecast string `json:"forecast"  validate:"omitempty,forecast"`
	Close    string `json:"close_date" validate:"omitempty,isodate"`
}

func TestValidatorCustomTags(t *testing.T) {
	v := NewValidator()

	tests := []struct {
		name    string
		in      sample
		wantErr string
	}{
		{"valid", sample{Name: "Acme", Phone: "+1 (555) 010-0100", Forecast: "45%", Close: "2026-05-01"}, ""},
		{"blank name", sample{Name: "   "}, "name is required"},
		{"short phone", sample{Name: "a", Phone: "12-34"}, "phone must contain 7 to 15 digits"},
		{"forecast above 100", sample{Name: "a", Forecast: "120%"}, "forecast must be between 0% and 100%"},
		{"forecast not numeric", sample{Name: "a", Forecast: "high"}, "forecast must be between 0% and 100%"},
		{"bad date", sample{Name: "a", Close: "05/01/2026"}, "close_date must use the YYYY-MM-DD format"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Struct(tt.in)
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatal("expected a validation error")
			}
			if got := FormatValidationError(err); !strings.Contains(got, tt.wantErr) {
				t.Fatalf("got %q, want it to contain %q", got, tt.wantErr)
			}
		})
	}
}

func TestIsValidForecast(t *testing.T) {
	for value, want := range map[string]bool{
		"0%":    true,
		"100":   true,
		"55.5%": true,
		"-1%":   false,
		"101%":  false,
		"":      false,
		"abc":   false,
	} {
		if got := IsValidForecast(value); got != want {
			t.Errorf("IsValidForecast(%q) = %v, want %v", value, got, want)
		}
	}
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("")
	if err != nil || d != nil {
		t.Fatalf("empty: got %v, %v", d, err)
	}

	d, err = ParseDate("2026-02-03")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if got := *FormatDate(d); got != "2026-02-03" {
		t.Fatalf("round trip = %q", got)
	}

	if _, err := ParseDate("2026-13-01"); err == nil {
		t.Fatal("expected an error for month 13")
	}
}

func TestParseListParams(t *testing.T) {
	tests := []struct {
		query    string
		page     int
		pageSize int
		search   string
		offset   int
	}{
		{"", 1, DefaultPageSize, "", 0},
		{"page=3&page_size=10", 3, 10, "", 20},
		{"page=0&page_size=1000", 1, MaxPageSize, "", 0},
		{"page=abc&search=%20acme%20", 1, DefaultPageSize, "acme", 0},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/leads?"+tt.query, nil)
			p := ParseListParams(r)
			if p.Page != tt.page || p.PageSize != tt.pageSize || p.Search != tt.search {
				t.Fatalf("got %+v", p)
			}
			if p.Offset() != tt.offset {
				t.Fatalf("offset = %d, want %d", p.Offset(), tt.offset)
			}
		})
	}
}

func TestSearchPatternEscapesWildcards(t *testing.T) {
	p := ListParams{Search: `50%_off\`}
	if got, want := p.SearchPattern(), `%50\%\_off\\%`; got != want {
		t.Fatalf("pattern = %q, want %q", got, want)
	}
}

func TestDecodeAndValidate(t *testing.T) {
	v := NewValidator()

	tests := []struct {
		name     string
		body     string
		wantOK   bool
		wantCode int
	}{
		{"valid", `{"name":"Acme"}`, true, http.StatusOK},
		{"malformed", `{"name":`, false, http.StatusBadRequest},
		{"unknown field", `{"name":"Acme","extra":1}`, false, http.StatusBadRequest},
		{"fails validation", `{"name":""}`, false, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tt.body))

			var dst sample
			ok := DecodeAndValidate(rec, req, v, &dst)
			if ok != tt.wantOK {
				t.Fatalf("ok = %v, want %v", ok, tt.wantOK)
			}
			if !ok && rec.Code != tt.wantCode {
				t.Fatalf("status = %d, want %d", rec.Code, tt.wantCode)
			}
		})
	}
}
