package formatter

import "fmt"

const (
	kib = 1024
	mib = 1024 * 1024
)

// FormatSize renders a byte count the way the toolbar shows it: bytes up to
// 1 KB, then one decimal of KB up to 1 MB, then MB.
func FormatSize(n int) string {
	switch {
	case n > mib:
		return fmt.Sprintf("%.1f MB", float64(n)/mib)
	case n > kib:
		return fmt.Sprintf("%.1f KB", float64(n)/kib)
	default:
		return fmt.Sprintf("%d B", n)
	}
}
