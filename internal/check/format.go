package check

import (
	"fmt"
	"time"

	"github.com/teemow/drivecheck/internal/drive"
)

const sizeGB = 1024 * 1024 * 1024

// folderTimestampLayout is YYYYMMDD_HHMMSS
const folderTimestampLayout = "20060102_150405"

// formatGB renders bytes as gibibytes with two decimals.
func formatGB(bytes int64) string {
	return fmt.Sprintf("%.2f GB", float64(bytes)/float64(sizeGB))
}

// formatStorage renders quota usage, or usage alone when the account is unlimited.
func formatStorage(q *drive.StorageQuota) string {
	if q.Unlimited() {
		return formatGB(q.Usage) + " used (unlimited)"
	}
	return formatGB(q.Usage) + " used / " + formatGB(q.Limit) + " total"
}

// testFolderName returns the name of the folder created by the Folder Operations probe.
func testFolderName(prefix string, now time.Time) string {
	return prefix + now.Format(folderTimestampLayout)
}

// formatExpiry renders a token expiry, which is zero when the endpoint sent none.
func formatExpiry(t time.Time) string {
	if t.IsZero() {
		return "unknown"
	}
	return t.Local().Format(time.RFC3339)
}

func orUnknown(s string) string {
	if s == "" {
		return "Unknown"
	}
	return s
}
