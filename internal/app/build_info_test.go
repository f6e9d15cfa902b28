package app

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewBuildInfo(t *testing.T) {
	tests := []struct {
		name                  string
		version, date, commit string
		want                  BuildInfo
	}{
		{name: "all set", version: "v1.2.0", date: "2026-01-02", commit: "abc123", want: BuildInfo{"v1.2.0", "2026-01-02", "abc123"}},
		{name: "none set", want: BuildInfo{"N/A", "N/A", "N/A"}},
		{name: "partial", version: "v1.2.0", want: BuildInfo{"v1.2.0", "N/A", "N/A"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NewBuildInfo(tt.version, tt.date, tt.commit))
		})
	}
}

func TestBuildInfo_String(t *testing.T) {
	got := NewBuildInfo("v1", "", "abc").String()
	assert.Equal(t, "Build version: v1\nBuild date: N/A\nBuild commit: abc\n", got)
}
