package duration

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		give    string
		want    int
		wantErr bool
	}{
		{name: "hours", give: "PT2H", want: 7200},
		{name: "minutes", give: "PT30M", want: 1800},
		{name: "seconds", give: "PT45S", want: 45},
		{name: "hours_minutes", give: "PT1H30M", want: 5400},
		{name: "full_triplet", give: "PT1H1M1S", want: 3661},
		{name: "zero_hours", give: "PT0H", want: 0},
		{name: "marker_only", give: "PT", wantErr: true},
		{name: "empty", give: "", wantErr: true},
		{name: "no_marker", give: "2H", wantErr: true},
		{name: "wrong_order", give: "PT30M1H", wantErr: true},
		{name: "plain_number", give: "3600", wantErr: true},
		{name: "lowercase", give: "pt2h", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.give)
			if tt.wantErr {
				assert.Error(t, err)
				var fe *FormatError
				assert.ErrorAs(t, err, &fe)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFormat(t *testing.T) {
	tests := []struct {
		name    string
		seconds int
		want    string
	}{
		{name: "hour_and_a_half", seconds: 5400, want: "1.5 hours"},
		{name: "exactly_one_hour", seconds: 3600, want: "1.0 hours"},
		{name: "minute_boundary_truncates", seconds: 90, want: "1 minutes"},
		{name: "exact_minutes", seconds: 600, want: "10 minutes"},
		{name: "under_a_minute", seconds: 45, want: "45 seconds"},
		{name: "zero", seconds: 0, want: "0 seconds"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Format(tt.seconds))
		})
	}
}

// Format(Parse(d)) must agree with the seconds value of d, not the
// original encoding.
func TestFormatParseRoundTrip(t *testing.T) {
	tests := []struct {
		give string
		want string
	}{
		{give: "PT1H30M", want: "1.5 hours"},
		{give: "PT90M", want: "1.5 hours"},
		{give: "PT1M30S", want: "1 minutes"},
		{give: "PT45S", want: "45 seconds"},
	}
	for _, tt := range tests {
		t.Run(tt.give, func(t *testing.T) {
			seconds, err := Parse(tt.give)
			assert.NoError(t, err)
			assert.Equal(t, tt.want, Format(seconds))
		})
	}
}

func TestClamp(t *testing.T) {
	tests := []struct {
		name      string
		requested string
		ceiling   string
		want      string
	}{
		{name: "under_ceiling", requested: "PT1H", ceiling: "PT8H", want: "PT1H"},
		{name: "equal_to_ceiling", requested: "PT8H", ceiling: "PT8H", want: "PT8H"},
		{name: "over_ceiling", requested: "PT12H", ceiling: "PT8H", want: "PT8H"},
		{name: "over_ceiling_mixed_units", requested: "PT481M", ceiling: "PT8H", want: "PT8H"},
		{name: "malformed_request", requested: "8 hours", ceiling: "PT8H", want: "PT8H"},
		{name: "empty_request", requested: "", ceiling: "PT2H", want: "PT2H"},
		{name: "malformed_ceiling", requested: "PT30M", ceiling: "whenever", want: "PT30M"},
		{name: "malformed_ceiling_over_default", requested: "PT4H", ceiling: "whenever", want: "PT1H"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Clamp(tt.requested, tt.ceiling))
		})
	}
}
