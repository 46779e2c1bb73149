package game

import "math"

// PredictiveAim returns the point a projectile of the given speed fired from shooter
// should be aimed at to intercept a target moving at constant velocity
func PredictiveAim(shooter, target, targetVel Vec2, projectileSpeed float64) Vec2 {
	// If target is not moving, just return current position
	if math.Abs(targetVel.X) < 0.1 && math.Abs(targetVel.Y) < 0.1 {
		return target
	}

	distance := shooter.Dist(target)
	if distance < 1.0 || projectileSpeed <= 0 {
		return target
	}

	// Solve distance(shooter, target + vel*t) = speed*t by fixed-point iteration,
	// starting from the time to reach the current position
	t := distance / projectileSpeed
	for i := 0; i < 5; i++ {
		predicted := target.Add(targetVel.Scale(t))
		newT := shooter.Dist(predicted) / projectileSpeed
		if math.Abs(newT-t) < 0.001 {
			break
		}
		t = newT
	}

	return target.Add(targetVel.Scale(t))
}

// RotateTowards turns current toward target by at most maxAngularVelocity*deltaTime.
// The difference is wrapped first, so the shorter way round is always taken.
func RotateTowards(current, target, maxAngularVelocity, deltaTime float64) float64 {
	angleDiff := NormalizeAngle(target - current)

	maxStep := maxAngularVelocity * deltaTime
	step := angleDiff
	if math.Abs(step) > maxStep {
		if step > 0 {
			step = maxStep
		} else {
			step = -maxStep
		}
	}

	return NormalizeAngle(current + step)
}
