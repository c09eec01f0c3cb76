package fetch

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseRelativeTime(t *testing.T) {
	now := time.Date(2025, 3, 15, 12, 0, 0, 0, time.UTC)
	tests := []struct {
		text   string
		want   time.Time
		wantOK bool
	}{
		{"30 seconds ago", now.Add(-30 * time.Second), true},
		{"1 minute ago", now.Add(-time.Minute), true},
		{"5 hours ago", now.Add(-5 * time.Hour), true},
		{"opened 2 days ago by alice", time.Date(2025, 3, 13, 12, 0, 0, 0, time.UTC), true},
		{"3 Weeks ago", time.Date(2025, 2, 22, 12, 0, 0, 0, time.UTC), true},
		{"1 month ago", time.Date(2025, 2, 15, 12, 0, 0, 0, time.UTC), true},
		{"2 years ago", time.Date(2023, 3, 15, 12, 0, 0, 0, time.UTC), true},
		{"yesterday", time.Time{}, false},
		{"", time.Time{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			got, ok := ParseRelativeTime(tt.text, now)
			assert.Equal(t, tt.wantOK, ok)
			assert.True(t, tt.want.Equal(got), "got %s want %s", got, tt.want)
		})
	}
}
