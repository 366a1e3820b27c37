package prefabs

import (
	"fmt"

	"github.com/milk9111/drillboss/fixed"
	"gopkg.in/yaml.v3"
)

func LoadSpec[T any](filename string) (T, error) {
	var zero T
	data, err := Load(filename)
	if err != nil {
		return zero, fmt.Errorf("prefabs: load %s: %w", filename, err)
	}

	var spec T
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return zero, fmt.Errorf("prefabs: unmarshal %s: %w", filename, err)
	}

	return spec, nil
}

type VectorSpec struct {
	X fixed.Fixed `yaml:"x"`
	Y fixed.Fixed `yaml:"y"`
}

func (v VectorSpec) Vector() fixed.Vector2 {
	return fixed.Vec(v.X, v.Y)
}

type HitboxSpec struct {
	Left   int `yaml:"left"`
	Top    int `yaml:"top"`
	Right  int `yaml:"right"`
	Bottom int `yaml:"bottom"`
}

type AnimationSpec struct {
	Name   string  `yaml:"name"`
	Frames int     `yaml:"frames"`
	FPS    float64 `yaml:"fps"`
	Loop   bool    `yaml:"loop"`
}

type SoundSpec struct {
	Name      string  `yaml:"name"`
	Frequency float64 `yaml:"frequency"`
	Frames    int     `yaml:"frames"`
	Volume    float64 `yaml:"volume"`
}

type PhaseDurationsSpec struct {
	FlyIn    int `yaml:"fly_in"`
	StartCar int `yaml:"start_car"`
	Explode  int `yaml:"explode"`
	Flee     int `yaml:"flee"`
}

type ExplosionSpec struct {
	CadenceMask int    `yaml:"cadence_mask"`
	SpreadX     int    `yaml:"spread_x"`
	SpreadY     int    `yaml:"spread_y"`
	DrawLayer   int    `yaml:"draw_layer"`
	TTLFrames   int    `yaml:"ttl_frames"`
	Sound       string `yaml:"sound"`
}

type WheelOffsetsSpec struct {
	Rear     fixed.Fixed `yaml:"rear"`
	ForwardA fixed.Fixed `yaml:"forward_a"`
	ForwardB fixed.Fixed `yaml:"forward_b"`
}

type VehicleSpec struct {
	ChassisOffset       VectorSpec       `yaml:"chassis_offset"`
	ParkOffsetX         fixed.Fixed      `yaml:"park_offset_x"`
	BoundsLeft          fixed.Fixed      `yaml:"bounds_left"`
	BoundsRight         fixed.Fixed      `yaml:"bounds_right"`
	ScrollStopOffset    int              `yaml:"scroll_stop_offset"`
	DriveVelocityX      fixed.Fixed      `yaml:"drive_velocity_x"`
	DetonateVelocityY   fixed.Fixed      `yaml:"detonate_velocity_y"`
	WeaponReleaseSpeed  fixed.Fixed      `yaml:"weapon_release_speed"`
	WeaponOffset        VectorSpec       `yaml:"weapon_offset"`
	WheelOffsets        WheelOffsetsSpec `yaml:"wheel_offsets"`
	WheelOffsetY        fixed.Fixed      `yaml:"wheel_offset_y"`
	WheelRollSpeed      fixed.Fixed      `yaml:"wheel_roll_speed"`
	Gravity             fixed.Fixed      `yaml:"gravity"`
	ChassisHitbox       HitboxSpec       `yaml:"chassis_hitbox"`
	DrawLayer           int              `yaml:"draw_layer"`
	RearWheelDrawLayer  int              `yaml:"rear_wheel_draw_layer"`
	WheelSpinFrames     int              `yaml:"wheel_spin_frames"`
	WheelSpinFPS        float64          `yaml:"wheel_spin_fps"`
	ReleasedWeaponLayer int              `yaml:"released_weapon_layer"`
}

type MusicSpec struct {
	BossTrack string  `yaml:"boss_track"`
	FadeSpeed float64 `yaml:"fade_speed"`
}

type EncounterSounds struct {
	Engine string `yaml:"engine"`
	Hit    string `yaml:"hit"`
}

type EncounterAnimations struct {
	Pilot []AnimationSpec `yaml:"pilot"`
	Rotor []AnimationSpec `yaml:"rotor"`
}

// EncounterSpec is the tuning of the drill-car boss. Distances and speeds
// are 16.16 fixed point unless the field is documented as pixels.
type EncounterSpec struct {
	Name                string             `yaml:"name"`
	Health              int                `yaml:"health"`
	InvincibilityFrames int                `yaml:"invincibility_frames"`
	ScoreBonus          int                `yaml:"score_bonus"`
	Hitbox              HitboxSpec         `yaml:"hitbox"`
	Phases              PhaseDurationsSpec `yaml:"phases"`
	EngineSFXCycle      int                `yaml:"engine_sfx_cycle"`
	ApproachOffset      VectorSpec         `yaml:"approach_offset"`
	FlyInVelocity       VectorSpec         `yaml:"fly_in_velocity"`
	FleeVelocityY       fixed.Fixed        `yaml:"flee_velocity_y"`
	EscapeVelocityX     fixed.Fixed        `yaml:"escape_velocity_x"`
	// VisibleRange is how far, in pixels, outside the view the controller
	// still counts as on screen.
	VisibleRange int                 `yaml:"visible_range"`
	DrawLayer    int                 `yaml:"draw_layer"`
	Explosion    ExplosionSpec       `yaml:"explosion"`
	Vehicle      VehicleSpec         `yaml:"vehicle"`
	Music        MusicSpec           `yaml:"music"`
	Sounds       EncounterSounds     `yaml:"sounds"`
	Animations   EncounterAnimations `yaml:"animations"`
	Script       string              `yaml:"script"`
}

func LoadEncounterSpec() (*EncounterSpec, error) {
	spec, err := LoadSpec[EncounterSpec]("encounter.yaml")
	if err != nil {
		return nil, err
	}
	return &spec, nil
}

type PlayerSpec struct {
	MoveSpeed         fixed.Fixed     `yaml:"move_speed"`
	Acceleration      fixed.Fixed     `yaml:"acceleration"`
	JumpVelocity      fixed.Fixed     `yaml:"jump_velocity"`
	JumpReleaseCap    fixed.Fixed     `yaml:"jump_release_cap"`
	Gravity           fixed.Fixed     `yaml:"gravity"`
	HurtVelocity      VectorSpec      `yaml:"hurt_velocity"`
	HurtFrames        int             `yaml:"hurt_frames"`
	InvulnerableTicks int             `yaml:"invulnerable_ticks"`
	Hitbox            HitboxSpec      `yaml:"hitbox"`
	DrawLayer         int             `yaml:"draw_layer"`
	Animations        []AnimationSpec `yaml:"animations"`
}

func LoadPlayerSpec() (*PlayerSpec, error) {
	spec, err := LoadSpec[PlayerSpec]("player.yaml")
	if err != nil {
		return nil, err
	}
	return &spec, nil
}

// SoundBankSpec lists the synthesized sound effects and music loops.
type SoundBankSpec struct {
	Effects []SoundSpec `yaml:"effects"`
	Tracks  []SoundSpec `yaml:"tracks"`
}

func LoadSoundBankSpec() (*SoundBankSpec, error) {
	spec, err := LoadSpec[SoundBankSpec]("sounds.yaml")
	if err != nil {
		return nil, err
	}
	return &spec, nil
}
