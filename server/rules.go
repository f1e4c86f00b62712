package main

// Arena geometry
const (
	FieldMin     = -93.0 // random placement bounds, both axes
	FieldMax     = 93.0
	BorderMargin = 7.0 // border wall sits this far outside the field
)

// Snake movement and body
const (
	MoveSpeedMax              = 8.0    // units/s at minimal size
	MinMoveSpeed              = 1.0    // units/s
	SizeBasedSpeedPenalty     = 0.0015 // units/s lost per segment
	BoostSpeedMultiplier      = 2.0
	RotationSpeed             = 3.0 // rad/s
	RotationBoostPenalty      = 0.6
	FollowDelayNormal         = 0.12 // s, segment smoothing time
	FollowDelayBoost          = 0.08
	SegmentRotationDamp       = 10.0
	FramesNeededForBodyReduce = 100 // boosted ticks per lost segment
	MinimumBodyparts          = 3
	MaxSnakeSizeForScale      = 500
	ScaleUpStepsRatio         = 0.01
	HeadRadius                = 0.5 // at scale 1
	SegmentRadius             = 0.5
	KillPrizeDivisor          = 10
)

// Food
const (
	FoodIntoBodypart      = 3
	GhostFoodIntoBodypart = 1
	FoodScore             = 1
	GhostFoodScore        = 1
	FoodRadius            = 0.6
	GhostFoodRadius       = 0.5
	FoodAbsorbDuration    = 0.25 // s
	FoodAbsorbSpeed       = 2.5  // interpolation rate toward consumer
	GhostAbsorbSpeed      = 3.5
	FoodRespawnDelay      = 2.0  // s
	GhostFoodTTL          = 12.0 // s
)

// Rules are the per-match tunables. Presets override a subset.
type Rules struct {
	FoodIntoBodypart          int
	GhostFoodIntoBodypart     int
	FoodScore                 int
	GhostFoodScore            int
	MinimumBodyparts          int
	FramesNeededForBodyReduce int
	MaxSnakeSizeForScale      int
	ScaleUpStepsRatio         float64

	MoveSpeedMax          float64
	SizeBasedSpeedPenalty float64
	BoostSpeedMultiplier  float64
	RotationSpeed         float64
	RotationBoostPenalty  float64
	FollowDelayNormal     float64
	FollowDelayBoost      float64

	InitialBodyparts  int
	GhostFoodFromDead bool
	RegenerateFood    bool
	RespawnDeadBots   bool
}

// DefaultRules returns the stock tunables
func DefaultRules() Rules {
	return Rules{
		FoodIntoBodypart:          FoodIntoBodypart,
		GhostFoodIntoBodypart:     GhostFoodIntoBodypart,
		FoodScore:                 FoodScore,
		GhostFoodScore:            GhostFoodScore,
		MinimumBodyparts:          MinimumBodyparts,
		FramesNeededForBodyReduce: FramesNeededForBodyReduce,
		MaxSnakeSizeForScale:      MaxSnakeSizeForScale,
		ScaleUpStepsRatio:         ScaleUpStepsRatio,
		MoveSpeedMax:              MoveSpeedMax,
		SizeBasedSpeedPenalty:     SizeBasedSpeedPenalty,
		BoostSpeedMultiplier:      BoostSpeedMultiplier,
		RotationSpeed:             RotationSpeed,
		RotationBoostPenalty:      RotationBoostPenalty,
		FollowDelayNormal:         FollowDelayNormal,
		FollowDelayBoost:          FollowDelayBoost,
		InitialBodyparts:          5,
		GhostFoodFromDead:         true,
		RegenerateFood:            true,
		RespawnDeadBots:           true,
	}
}

// KillPrize is the number of segments granted for killing an actor of n segments
func KillPrize(n int) int {
	p := n / KillPrizeDivisor
	if p < 1 {
		return 1
	}
	return p
}

// InBorder reports whether p is inside the border walls
func InBorder(p Vec2) bool {
	lo, hi := FieldMin-BorderMargin, FieldMax+BorderMargin
	return p.X > lo && p.X < hi && p.Y > lo && p.Y < hi
}
