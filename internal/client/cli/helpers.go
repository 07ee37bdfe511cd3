package cli

import (
	"maps"
	"slices"
	"strconv"
	"time"

	pkgapi "github.com/iudanet/nihongo/pkg/api"
)

func sortedKeys(m map[string]string) []string {
	return slices.Sorted(maps.Keys(m))
}

// formatTime печатает дату или "-" для пустого значения
func formatTime(t pkgapi.Timestamp) string {
	if t.IsZero() {
		return "-"
	}
	return t.Local().Format(time.DateTime)
}

func formatPercent(v float64) string {
	return strconv.FormatFloat(v, 'f', 0, 64) + "%"
}

// orDash заменяет пустую строку прочерком для табличного вывода
func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
