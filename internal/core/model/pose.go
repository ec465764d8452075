package model

// Pose is what the pet is doing right now. Exactly one value is active at a
// time; it is owned by the pet state machine and mutated only through its
// SetState transition.
type Pose int

const (
	PoseSitting Pose = iota
	PoseLyingDown
	PoseWalkingLeft
	PoseWalkingRight
)

// String returns the asset-facing name of the pose.
func (p Pose) String() string {
	switch p {
	case PoseSitting:
		return "sit"
	case PoseLyingDown:
		return "laydown"
	case PoseWalkingLeft:
		return "walk_left"
	case PoseWalkingRight:
		return "walk_right"
	default:
		return "unknown"
	}
}

// Walking reports whether the pose drives the walk kinematics.
func (p Pose) Walking() bool {
	return p == PoseWalkingLeft || p == PoseWalkingRight
}

// WalkDirection returns -1 for walking left, +1 for walking right,
// 0 for stationary poses.
func (p Pose) WalkDirection() int {
	switch p {
	case PoseWalkingLeft:
		return -1
	case PoseWalkingRight:
		return +1
	default:
		return 0
	}
}

// WalkingPose returns the walking pose facing the given direction.
func WalkingPose(direction int) Pose {
	if direction < 0 {
		return PoseWalkingLeft
	}
	return PoseWalkingRight
}
