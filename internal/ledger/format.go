package ledger

import (
	"fmt"
	"io"
	"strings"
	"time"
)

// FormatTable writes finds as a fixed-width table to the provided writer.
// Returns the number of finds formatted.
func FormatTable(w io.Writer, finds []*Find) int {
	if len(finds) == 0 {
		fmt.Fprintln(w, "No finds recorded yet")
		return 0
	}

	fmt.Fprintf(w, "%-20s %-10s %-8s %-10s %-10s %-10s %s\n",
		"WHEN", "MATCHED", "TYPE", "ATTEMPTS", "DURATION", "OUTPUT", "FINGERPRINT")
	fmt.Fprintf(w, "%-20s %-10s %-8s %-10s %-10s %-10s %s\n",
		"--------------------", "----------", "--------", "----------", "----------", "----------", "---------------------------")

	for _, f := range finds {
		fmt.Fprintf(w, "%-20s %-10s %-8s %-10d %-10s %-10s %s\n",
			f.CreatedAt.Local().Format("2006-01-02 15:04:05"),
			truncate(f.MatchedTerm, 10),
			truncate(f.KeyType, 8),
			f.Attempts,
			f.Duration.Round(time.Second),
			truncate(f.Output, 10),
			f.Fingerprint,
		)
	}

	countMsg := "find"
	if len(finds) != 1 {
		countMsg = "finds"
	}
	fmt.Fprintf(w, "\n%d %s recorded\n", len(finds), countMsg)

	return len(finds)
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return strings.TrimSpace(s[:maxLen-3]) + "..."
}
