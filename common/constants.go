package common

import "time"

const (
	BaseWidth  = 1280
	BaseHeight = 720

	// TargetTPS is the simulation rate the loop driver throttles to.
	TargetTPS = 60
)

// FrameInterval is the fixed simulation interval derived from TargetTPS.
func FrameInterval(tps int) time.Duration {
	if tps <= 0 {
		tps = TargetTPS
	}
	return time.Second / time.Duration(tps)
}
