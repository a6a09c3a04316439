package models

import (
	"fmt"
	"strings"
	"time"
)

// timestampLayout matches how the cleanup log has always printed times
const timestampLayout = "2006-01-02 15:04:05"

// ExpiredRoute identifies a route removed by a sweep
type ExpiredRoute struct {
	ID         int64     `json:"id" db:"id"`
	Name       string    `json:"name" db:"name"`
	Expiration time.Time `json:"expiration" db:"expiration"`
}

// SweepReport describes one run of the expiry sweeper
type SweepReport struct {
	StartedAt time.Time      `json:"started_at"`
	Deleted   []ExpiredRoute `json:"deleted"`
	Elapsed   time.Duration  `json:"elapsed"`
	DryRun    bool           `json:"dry_run"`
}

// Count is the number of expired routes found
func (r *SweepReport) Count() int {
	return len(r.Deleted)
}

// String renders the human readable cleanup log
func (r *SweepReport) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Route cleanup started at %s\n", r.StartedAt.Format(timestampLayout))
	fmt.Fprintf(&b, "Found %d expired routes\n", r.Count())

	if r.Count() > 0 {
		if r.DryRun {
			b.WriteString("Routes that would be deleted:\n")
		} else {
			b.WriteString("Deleted routes:\n")
		}
		for _, route := range r.Deleted {
			fmt.Fprintf(&b, "- ID: %d, Name: %s, Expired: %s\n",
				route.ID, route.Name, route.Expiration.Format(timestampLayout))
		}
	} else {
		b.WriteString("No expired routes found\n")
	}

	fmt.Fprintf(&b, "Cleanup completed in %.4f seconds\n", r.Elapsed.Seconds())
	return b.String()
}
