// SPDX-License-Identifier: EPL-2.0

package utils

func Float32ToInt16(x float32) int16 {
	// Clamp and scale
	if x > 1 {
		x = 1
	} else if x < -1 {
		x = -1
	}

	// Use 32767 for positive max to avoid overflow
	return int16(x * 32767.0)
}

// Float32ToInt24 scales x into the signed 24-bit range, clamped.
func Float32ToInt24(x float32) int32 {
	if x > 1 {
		x = 1
	} else if x < -1 {
		x = -1
	}

	return int32(float64(x) * 8388607.0)
}

// IntToFloat32 normalizes an integer PCM sample of the given bit depth.
func IntToFloat32(v int, bitDepth int) float32 {
	switch bitDepth {
	case 8:
		return float32(v) / 128.0
	case 24:
		return float32(v) / 8388608.0
	case 32:
		return float32(float64(v) / 2147483648.0)
	default:
		return float32(v) / 32768.0
	}
}
