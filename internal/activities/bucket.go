package activities

import (
	"fmt"
	"strconv"
	"time"
)

// MonthlyBucket groups the activities of one user, discipline and
// month. Totals are never stored - they are derived from the member
// activities on each stats read.
type MonthlyBucket struct {
	ID         int        `json:"id"`
	Period     string     `json:"period"`
	Discipline Discipline `json:"discipline"`
	UserID     int        `json:"userId"`
}

type YearlyBucket struct {
	ID         int        `json:"id"`
	Period     string     `json:"period"`
	Discipline Discipline `json:"discipline"`
	UserID     int        `json:"userId"`
}

// MonthKey formats a month period key as "YYYY-M", without zero
// padding the month ("2023-1", not "2023-01"), for compatibility with
// previously stored buckets.
func MonthKey(date time.Time) string {
	return fmt.Sprintf("%d-%d", date.Year(), int(date.Month()))
}

// YearKey formats a year period key as "YYYY".
func YearKey(date time.Time) string {
	return strconv.Itoa(date.Year())
}
