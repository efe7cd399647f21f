package arena

import (
	"sort"
	"time"

	"riftarena.io/internal/protocol"
	"riftarena.io/internal/sim/tuning"
)

// Config is the per-room simulation configuration. It is fixed for a
// room's lifetime; every room created by a Directory shares one Config.
type Config struct {
	TickRateHz          int
	OrbResyncEveryTicks int

	WorldWidth  float64
	WorldHeight float64

	RoomCapacity    int
	MinPlayers      int
	MaxNameLen      int
	MoveMinInterval time.Duration
	MatchDuration   time.Duration

	StartSize   float64
	SizeFloor   float64
	DecayPerSec float64

	SpeedBase  float64
	SpeedFloor float64

	OrbCount    int
	OrbSize     float64
	OrbGrowth   float64
	OrbScore    int
	PickupSlack float64

	AbsorbRatio        float64
	AbsorbRangeFactor  float64
	AbsorbGrowthFactor float64
	AbsorbScoreBase    int

	RespawnDelay time.Duration
	InvulnWindow time.Duration

	BotCount      int
	BotDecideMin  time.Duration
	BotDecideMax  time.Duration
	BotSeekProb   float64
	RiftRadius    float64
	RiftTolerance float64

	Dimensions map[string]DimensionConfig
}

// DimensionConfig mirrors tuning.Dimension with durations resolved.
type DimensionConfig struct {
	Width        float64
	Height       float64
	Bots         int
	OrbFraction  float64
	SpeedMult    float64
	OrbValueMult float64
	Countdown    time.Duration
	RiftX        float64
	RiftY        float64
}

func ConfigFromTuning(t tuning.Tuning) Config {
	cfg := Config{
		TickRateHz:          t.TickRateHz,
		OrbResyncEveryTicks: t.OrbResyncEveryTicks,
		WorldWidth:          t.WorldWidth,
		WorldHeight:         t.WorldHeight,
		RoomCapacity:        t.RoomCapacity,
		MinPlayers:          t.MinPlayers,
		MaxNameLen:          t.MaxNameLen,
		MoveMinInterval:     time.Duration(t.MoveMinIntervalMs) * time.Millisecond,
		MatchDuration:       time.Duration(t.MatchDurationSec) * time.Second,
		StartSize:           t.StartSize,
		SizeFloor:           t.SizeFloor,
		DecayPerSec:         t.DecayPerSec,
		SpeedBase:           t.SpeedBase,
		SpeedFloor:          t.SpeedFloor,
		OrbCount:            t.OrbCount,
		OrbSize:             t.OrbSize,
		OrbGrowth:           t.OrbGrowth,
		OrbScore:            t.OrbScore,
		PickupSlack:         t.PickupSlack,
		AbsorbRatio:         t.AbsorbRatio,
		AbsorbRangeFactor:   t.AbsorbRangeFactor,
		AbsorbGrowthFactor:  t.AbsorbGrowthFactor,
		AbsorbScoreBase:     t.AbsorbScoreBase,
		RespawnDelay:        time.Duration(t.RespawnDelayMs) * time.Millisecond,
		InvulnWindow:        time.Duration(t.InvulnMs) * time.Millisecond,
		BotCount:            t.BotCount,
		BotDecideMin:        time.Duration(t.BotDecideMinMs) * time.Millisecond,
		BotDecideMax:        time.Duration(t.BotDecideMaxMs) * time.Millisecond,
		BotSeekProb:         t.BotSeekProb,
		RiftRadius:          t.RiftRadius,
		RiftTolerance:       t.RiftTolerance,
		Dimensions:          make(map[string]DimensionConfig, len(t.Dimensions)),
	}
	for tag, d := range t.Dimensions {
		cfg.Dimensions[tag] = DimensionConfig{
			Width:        d.Width,
			Height:       d.Height,
			Bots:         d.Bots,
			OrbFraction:  d.OrbFraction,
			SpeedMult:    d.SpeedMult,
			OrbValueMult: d.OrbValueMult,
			Countdown:    time.Duration(d.CountdownSec) * time.Second,
			RiftX:        d.RiftX,
			RiftY:        d.RiftY,
		}
	}
	return cfg
}

// dimensionTags returns the fixed dimension tags in stable order.
func (c Config) dimensionTags() []string {
	tags := make([]string, 0, len(c.Dimensions))
	for tag := range c.Dimensions {
		tags = append(tags, tag)
	}
	sort.Strings(tags)
	return tags
}

// bounds returns the world extent for a dimension tag ("" = primary).
func (c Config) bounds(dimension string) (w, h float64) {
	if dimension == "" {
		return c.WorldWidth, c.WorldHeight
	}
	d, ok := c.Dimensions[dimension]
	if !ok {
		return c.WorldWidth, c.WorldHeight
	}
	return d.Width, d.Height
}

// speedMult and orbValueMult fall back to 1 for the primary world.
func (c Config) speedMult(dimension string) float64 {
	if d, ok := c.Dimensions[dimension]; ok && d.SpeedMult > 0 {
		return d.SpeedMult
	}
	return 1
}

func (c Config) orbValueMult(dimension string) float64 {
	if d, ok := c.Dimensions[dimension]; ok && d.OrbValueMult > 0 {
		return d.OrbValueMult
	}
	return 1
}

// orbTarget is the invariant orb population for a dimension.
func (c Config) orbTarget(dimension string) int {
	if dimension == "" {
		return c.OrbCount
	}
	d, ok := c.Dimensions[dimension]
	if !ok {
		return 0
	}
	return int(float64(c.OrbCount) * d.OrbFraction)
}

func (c Config) worldParams() protocol.WorldParams {
	wp := protocol.WorldParams{
		TickRateHz: c.TickRateHz,
		Width:      c.WorldWidth,
		Height:     c.WorldHeight,
		Dimensions: make(map[string]protocol.DimensionParams, len(c.Dimensions)),
	}
	for tag, d := range c.Dimensions {
		wp.Dimensions[tag] = protocol.DimensionParams{
			Width:        d.Width,
			Height:       d.Height,
			SpeedMult:    d.SpeedMult,
			OrbValueMult: d.OrbValueMult,
			CountdownMs:  d.Countdown.Milliseconds(),
		}
	}
	return wp
}
