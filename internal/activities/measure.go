package activities

import (
	"errors"
	"math"
)

// ErrInvalidMeasurement marks a zero or negative time or distance.
// Such measurements are rejected before anything is persisted.
var ErrInvalidMeasurement = errors.New("invalid measurement: time and distance must be positive")

// Pace derives the pace in seconds per kilometer, rounded to the
// nearest integer with halves rounding away from zero (math.Round).
func Pace(timeSeconds int, distanceKm float64) (int, error) {
	if timeSeconds <= 0 || distanceKm <= 0 {
		return 0, ErrInvalidMeasurement
	}
	return int(math.Round(float64(timeSeconds) / distanceKm)), nil
}

// Speed derives the speed in kilometers per hour.
func Speed(timeSeconds int, distanceKm float64) (float64, error) {
	if timeSeconds <= 0 || distanceKm <= 0 {
		return 0, ErrInvalidMeasurement
	}
	return distanceKm * 3600 / float64(timeSeconds), nil
}
