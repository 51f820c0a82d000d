package inventory

import "fmt"

// FormatSequence da formato legible a un consecutivo: PREFIX-000042.
func FormatSequence(prefix string, n int64) string {
	return fmt.Sprintf("%s-%06d", prefix, n)
}
