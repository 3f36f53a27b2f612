package check

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/teemow/drivecheck/internal/drive"
)

func TestFormatStorage(t *testing.T) {
	tests := []struct {
		name  string
		quota drive.StorageQuota
		want  string
	}{
		{
			name:  "limited",
			quota: drive.StorageQuota{Limit: 15 << 30, Usage: 1 << 30},
			want:  "1.00 GB used / 15.00 GB total",
		},
		{
			name:  "zero limit is unlimited",
			quota: drive.StorageQuota{Limit: 0, Usage: 5 << 29},
			want:  "2.50 GB used (unlimited)",
		},
		{
			name:  "empty account",
			quota: drive.StorageQuota{Limit: 1 << 30},
			want:  "0.00 GB used / 1.00 GB total",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, formatStorage(&tt.quota))
		})
	}
}

func TestTestFolderName(t *testing.T) {
	now := time.Date(2025, 12, 31, 23, 59, 7, 0, time.UTC)
	assert.Equal(t, "CtrlE_Test_20251231_235907", testFolderName(DefaultFolderPrefix, now))
	assert.Equal(t, "x_20251231_235907", testFolderName("x_", now))
}

func TestFormatExpiry(t *testing.T) {
	assert.Equal(t, "unknown", formatExpiry(time.Time{}))
	assert.NotEqual(t, "unknown", formatExpiry(time.Now()))
}

func TestOrUnknown(t *testing.T) {
	assert.Equal(t, "Unknown", orUnknown(""))
	assert.Equal(t, "Alice", orUnknown("Alice"))
}
