// Package systems contains the per-concern simulation passes: movement,
// energy, foraging, fitness, reproduction, and the resource environment.
package systems

import "math"

// clampFloat clamps v between minVal and maxVal.
func clampFloat(v, minVal, maxVal float64) float64 {
	if v < minVal {
		return minVal
	}
	if v > maxVal {
		return maxVal
	}
	return v
}

// clamp01 clamps v to the [0, 1] range.
func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// normalizeAngle wraps an angle to [-Pi, Pi].
func normalizeAngle(angle float64) float64 {
	for angle > math.Pi {
		angle -= 2 * math.Pi
	}
	for angle < -math.Pi {
		angle += 2 * math.Pi
	}
	return angle
}

// distanceSq returns the squared distance between two points.
func distanceSq(x1, y1, x2, y2 float64) float64 {
	dx := x1 - x2
	dy := y1 - y2
	return dx*dx + dy*dy
}

// distance returns the Euclidean distance between two points.
func distance(x1, y1, x2, y2 float64) float64 {
	return math.Sqrt(distanceSq(x1, y1, x2, y2))
}

// velocityMagnitude returns the magnitude of a velocity vector.
func velocityMagnitude(vx, vy float64) float64 {
	return math.Sqrt(vx*vx + vy*vy)
}

// lerp linearly interpolates between a and b by t in [0, 1].
func lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}
