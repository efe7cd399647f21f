package tuning

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Tuning struct {
	ProtocolVersion string `yaml:"protocol_version"`

	TickRateHz          int `yaml:"tick_rate_hz"`
	OrbResyncEveryTicks int `yaml:"orb_resync_every_ticks"`

	WorldWidth  float64 `yaml:"world_width"`
	WorldHeight float64 `yaml:"world_height"`

	RoomCapacity      int `yaml:"room_capacity"`
	MinPlayers        int `yaml:"min_players"`
	MaxNameLen        int `yaml:"max_name_len"`
	MoveMinIntervalMs int `yaml:"move_min_interval_ms"`
	MatchDurationSec  int `yaml:"match_duration_sec"`

	StartSize   float64 `yaml:"start_size"`
	SizeFloor   float64 `yaml:"size_floor"`
	DecayPerSec float64 `yaml:"decay_per_sec"`

	SpeedBase  float64 `yaml:"speed_base"`
	SpeedFloor float64 `yaml:"speed_floor"`

	OrbCount    int     `yaml:"orb_count"`
	OrbSize     float64 `yaml:"orb_size"`
	OrbGrowth   float64 `yaml:"orb_growth"`
	OrbScore    int     `yaml:"orb_score"`
	PickupSlack float64 `yaml:"pickup_slack"`

	AbsorbRatio        float64 `yaml:"absorb_ratio"`
	AbsorbRangeFactor  float64 `yaml:"absorb_range_factor"`
	AbsorbGrowthFactor float64 `yaml:"absorb_growth_factor"`
	AbsorbScoreBase    int     `yaml:"absorb_score_base"`

	RespawnDelayMs int `yaml:"respawn_delay_ms"`
	InvulnMs       int `yaml:"invuln_ms"`

	BotCount       int     `yaml:"bot_count"`
	BotDecideMinMs int     `yaml:"bot_decide_min_ms"`
	BotDecideMaxMs int     `yaml:"bot_decide_max_ms"`
	BotSeekProb    float64 `yaml:"bot_seek_prob"`

	RiftRadius    float64 `yaml:"rift_radius"`
	RiftTolerance float64 `yaml:"rift_tolerance"`

	Dimensions map[string]Dimension `yaml:"dimensions"`
}

// Dimension is the static configuration of one alternate play space.
// RiftX/RiftY position its rift relative to the primary world (0..1).
type Dimension struct {
	Width        float64 `yaml:"width"`
	Height       float64 `yaml:"height"`
	Bots         int     `yaml:"bots"`
	OrbFraction  float64 `yaml:"orb_fraction"`
	SpeedMult    float64 `yaml:"speed_mult"`
	OrbValueMult float64 `yaml:"orb_value_mult"`
	CountdownSec int     `yaml:"countdown_sec"`
	RiftX        float64 `yaml:"rift_x"`
	RiftY        float64 `yaml:"rift_y"`
}

func Defaults() Tuning {
	return Tuning{
		ProtocolVersion:     "1.0",
		TickRateHz:          20,
		OrbResyncEveryTicks: 40,
		WorldWidth:          2400,
		WorldHeight:         1600,
		RoomCapacity:        8,
		MinPlayers:          2,
		MaxNameLen:          16,
		MoveMinIntervalMs:   40,
		MatchDurationSec:    180,
		StartSize:           20,
		SizeFloor:           10,
		DecayPerSec:         0.02,
		SpeedBase:           180,
		SpeedFloor:          60,
		OrbCount:            60,
		OrbSize:             6,
		OrbGrowth:           1,
		OrbScore:            10,
		PickupSlack:         4,
		AbsorbRatio:         1.1,
		AbsorbRangeFactor:   0.9,
		AbsorbGrowthFactor:  0.25,
		AbsorbScoreBase:     50,
		RespawnDelayMs:      3000,
		InvulnMs:            4000,
		BotCount:            6,
		BotDecideMinMs:      1000,
		BotDecideMaxMs:      3000,
		BotSeekProb:         0.7,
		RiftRadius:          40,
		RiftTolerance:       8,
		Dimensions: map[string]Dimension{
			"void": {
				Width:        900,
				Height:       700,
				Bots:         2,
				OrbFraction:  0.25,
				SpeedMult:    1.25,
				OrbValueMult: 2,
				CountdownSec: 20,
				RiftX:        0.25,
				RiftY:        0.25,
			},
			"prism": {
				Width:        1200,
				Height:       800,
				Bots:         3,
				OrbFraction:  0.4,
				SpeedMult:    0.9,
				OrbValueMult: 3,
				CountdownSec: 15,
				RiftX:        0.75,
				RiftY:        0.75,
			},
		},
	}
}

// Load reads a tuning file, layered over Defaults so a partial file is
// valid. A missing file is an error the caller may choose to ignore.
func Load(path string) (Tuning, error) {
	t := Defaults()
	raw, err := os.ReadFile(path)
	if err != nil {
		return t, err
	}
	if err := yaml.Unmarshal(raw, &t); err != nil {
		return t, fmt.Errorf("tuning.yaml: %w", err)
	}
	return t, nil
}
