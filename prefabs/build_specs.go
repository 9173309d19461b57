package prefabs

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// ActorSpec describes a character: its body, which controller each system
// starts with, and the raw config for every controller it can switch to.
type ActorSpec struct {
	Name        string         `yaml:"name"`
	Spawn       PointSpec      `yaml:"spawn"`
	Body        BodySpec       `yaml:"body"`
	Movement    string         `yaml:"movement"`
	Combat      string         `yaml:"combat"`
	Loadout     []string       `yaml:"loadout"`
	Controllers map[string]any `yaml:"controllers"`
	Sensors     []SensorSpec   `yaml:"sensors"`
}

type PointSpec struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
}

type BodySpec struct {
	Width          float64 `yaml:"width"`
	Height         float64 `yaml:"height"`
	Mass           float64 `yaml:"mass"`
	Friction       float64 `yaml:"friction"`
	FeetProbeDepth float64 `yaml:"feet_probe_depth"`
	MuzzleOffsetX  float64 `yaml:"muzzle_offset_x"`
	MuzzleOffsetY  float64 `yaml:"muzzle_offset_y"`
}

func LoadActorSpec(filename string) (ActorSpec, error) {
	spec, err := LoadSpec[ActorSpec](filename)
	if err != nil {
		return spec, err
	}
	if spec.Movement == "" && spec.Combat == "" {
		return spec, fmt.Errorf("prefabs: %s: actor has no controllers", filename)
	}
	return spec, nil
}

// Controller decodes the raw config stored under name.
func Controller[T any](spec ActorSpec, name string) (T, error) {
	raw, ok := spec.Controllers[name]
	if !ok {
		var zero T
		return zero, fmt.Errorf("prefabs: %s: no controller config %q", spec.Name, name)
	}
	return DecodeComponentSpec[T](raw)
}

func DecodeComponentSpec[T any](raw any) (T, error) {
	var zero T
	if raw == nil {
		return zero, nil
	}
	b, err := yaml.Marshal(raw)
	if err != nil {
		return zero, err
	}
	var out T
	if err := yaml.Unmarshal(b, &out); err != nil {
		return zero, err
	}
	return out, nil
}

type GunSpec struct {
	ChargeCapacity int     `yaml:"charge_capacity"`
	ReattackTime   float64 `yaml:"reattack_time"`
	ReloadTime     float64 `yaml:"reload_time"`
	MinAimDistance float64 `yaml:"min_aim_distance"`
	Range          float64 `yaml:"range"`
	TracerTicks    int     `yaml:"tracer_ticks"`
	ReloadCue      string  `yaml:"reload_cue"`
	FireCue        string  `yaml:"fire_cue"`
}

type SpearSpec struct {
	AimDuration   float64 `yaml:"aim_duration"`
	PullDistance  float64 `yaml:"pull_distance"`
	PullDuration  float64 `yaml:"pull_duration"`
	ThrowForce    float64 `yaml:"throw_force"`
	ResetDuration float64 `yaml:"reset_duration"`
	Length        float64 `yaml:"length"`
	ThrowCue      string  `yaml:"throw_cue"`
}

type RbMoverSpec struct {
	MoveSpeed      float64 `yaml:"move_speed"`
	AirborneSpeed  float64 `yaml:"airborne_speed"`
	Acceleration   float64 `yaml:"acceleration"`
	DashSpeed      float64 `yaml:"dash_speed"`
	DashDuration   float64 `yaml:"dash_duration"`
	JumpHeight     float64 `yaml:"jump_height"`
	JumpTimeToPeak float64 `yaml:"jump_time_to_peak"`
	FaceDeadzone   float64 `yaml:"face_deadzone"`
}

type BossMoverSpec struct {
	MaxSpeed     float64 `yaml:"max_speed"`
	Acceleration float64 `yaml:"acceleration"`
	FaceDeadzone float64 `yaml:"face_deadzone"`
}

// PointMoverSpec points at a graph prefab and scales its output.
type PointMoverSpec struct {
	Graph    string  `yaml:"graph"`
	MaxSpeed float64 `yaml:"max_speed"`
}

// SensorSpec is one cast the boss makes every tick. Direction is relative
// to the boss's facing: x > 0 is forward.
type SensorSpec struct {
	Name       string  `yaml:"name"`
	Type       string  `yaml:"type"`
	Range      float64 `yaml:"range"`
	Radius     float64 `yaml:"radius"`
	DirectionX float64 `yaml:"direction_x"`
	DirectionY float64 `yaml:"direction_y"`
	Eventful   bool    `yaml:"eventful"`
}
