// SPDX-License-Identifier: EPL-2.0

package utils

import "math"

// DBToGain converts decibels to a linear amplitude factor.
func DBToGain(db float64) float64 {
	return math.Pow(10, db/20)
}

// CentsToRatio converts a pitch offset in cents to a playback speed ratio.
func CentsToRatio(cents float64) float64 {
	return math.Exp2(cents / 1200)
}

// PanGains returns equal-power left/right gains for pan in [-100, 100].
// Centre yields 1/sqrt(2) on both sides.
func PanGains(pan float64) (left, right float64) {
	pan = max(-100, min(100, pan))

	angle := (pan + 100) / 200 * math.Pi / 2
	return math.Cos(angle), math.Sin(angle)
}

// VelocityGain maps a MIDI velocity to gain with a square-law curve.
// veltrack is the amp_veltrack percentage; 0 makes velocity irrelevant.
func VelocityGain(velocity int, veltrack float64) float64 {
	v := float64(max(0, min(127, velocity))) / 127
	track := veltrack / 100

	if track < 0 {
		// Negative tracking inverts the curve: soft notes play loud.
		v = 1 - v
		track = -track
	}

	return 1 - track*(1-v*v)
}
