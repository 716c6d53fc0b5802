package dateutil

import (
	"errors"
	"testing"
	"time"
)

// ---------------------------------------------------------------------------
// TestParse - Accepted input layouts
// ---------------------------------------------------------------------------

func TestParse(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   string
		want    string // YYYY-MM-DD
		wantErr bool
	}{
		{"iso date", "2021-01-02", "2021-01-02", false},
		{"iso with spaces", "  2021-01-02 ", "2021-01-02", false},
		{"rfc3339", "2021-01-02T15:04:05Z", "2021-01-02", false},
		{"rfc3339 with offset", "2021-03-15T10:00:00+02:00", "2021-03-15", false},
		{"datetime without zone", "2021-01-02 08:30:00", "2021-01-02", false},
		{"slashes", "2021/12/31", "2021-12-31", false},
		{"long month", "March 3, 2020", "2020-03-03", false},
		{"short month", "Mar 3, 2020", "2020-03-03", false},
		{"day first", "3 March 2020", "2020-03-03", false},
		{"us numeric", "07/04/2022", "2022-07-04", false},
		{"empty", "", "", true},
		{"garbage", "not a date", "", true},
		{"impossible day", "2021-02-30", "", true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := Parse(tt.input)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidDate) {
					t.Fatalf("Parse(%q) error = %v, want ErrInvalidDate", tt.input, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Parse(%q) unexpected error: %v", tt.input, err)
			}
			if s := got.Format("2006-01-02"); s != tt.want {
				t.Errorf("Parse(%q) = %s, want %s", tt.input, s, tt.want)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestFormat - Token rendering
// ---------------------------------------------------------------------------

func TestFormat(t *testing.T) {
	t.Parallel()

	day := time.Date(2021, time.January, 2, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name   string
		format string
		want   string
	}{
		{"default display format", DefaultDisplayFormat, "Jan 2nd"},
		{"long month", "MMMM Do, YYYY", "January 2nd, 2021"},
		{"numeric", "YYYY-MM-DD", "2021-01-02"},
		{"short numeric", "D/M/YY", "2/1/21"},
		{"escaped literal", "[Published] MMM Do", "Published Jan 2nd"},
		{"literal characters kept", "MMM Do •", "Jan 2nd •"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := Format(day, tt.format)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("Format(%q) = %q, want %q", tt.format, got, tt.want)
			}
		})
	}
}

func TestFormat_InvalidFormat(t *testing.T) {
	t.Parallel()

	day := time.Date(2021, time.January, 2, 0, 0, 0, 0, time.UTC)

	for _, format := range []string{"", "[unclosed MMM", "[[nested]]", string(make([]byte, MaxDateFormatLength+1))} {
		if _, err := Format(day, format); !errors.Is(err, ErrInvalidDateFormat) {
			t.Errorf("Format(%q) error = %v, want ErrInvalidDateFormat", format, err)
		}
	}
}

// ---------------------------------------------------------------------------
// TestOrdinal - English suffixes
// ---------------------------------------------------------------------------

func TestOrdinal(t *testing.T) {
	t.Parallel()

	cases := map[int]string{
		1: "1st", 2: "2nd", 3: "3rd", 4: "4th",
		11: "11th", 12: "12th", 13: "13th",
		21: "21st", 22: "22nd", 23: "23rd", 31: "31st",
		111: "111th", 112: "112th", 101: "101st",
	}
	for n, want := range cases {
		if got := Ordinal(n); got != want {
			t.Errorf("Ordinal(%d) = %q, want %q", n, got, want)
		}
	}
}

// ---------------------------------------------------------------------------
// TestResolveDate - "auto" expansion
// ---------------------------------------------------------------------------

func TestResolveDate(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, time.October, 17, 9, 0, 0, 0, time.UTC)

	tests := []struct {
		input string
		want  string
	}{
		{"auto", "2026-10-17"},
		{"AUTO", "2026-10-17"},
		{" Auto ", "2026-10-17"},
		{"2021-01-02", "2021-01-02"},
		{"", ""},
		{"automatic", "automatic"},
	}

	for _, tt := range tests {
		tt := tt
		if got := ResolveDate(tt.input, now); got != tt.want {
			t.Errorf("ResolveDate(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}
