package telemetry

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/reactor/board"
	"github.com/pthm-cable/reactor/config"
)

// SnapshotVersion is incremented when the format changes.
const SnapshotVersion = 2

// RuleParams holds the settings that, together with the rule seed, determine the
// species table.
type RuleParams struct {
	MaxPullingAcc float64 `json:"max_field_pulling_acc"`
	MaxPushingAcc float64 `json:"max_field_pushing_acc"`
	MaxRadius     float64 `json:"max_radius"`
	Chemistry     bool    `json:"generate_chemistry"`
}

// RuleParamsFrom extracts the rule generation settings of cfg.
func RuleParamsFrom(cfg *config.Config) RuleParams {
	return RuleParams{
		MaxPullingAcc: cfg.Physics.MaxFieldPullingAcc,
		MaxPushingAcc: cfg.Physics.MaxFieldPushingAcc,
		MaxRadius:     cfg.Physics.MaxRadius,
		Chemistry:     cfg.Species.GenerateChemistry,
	}
}

// Snapshot holds the complete board state of a run. Species rules are not stored;
// they are regenerated from the rule and color seeds, so the rule settings are kept
// and must match on restore.
type Snapshot struct {
	Version int          `json:"version"`
	Seeds   config.Seeds `json:"seeds"`
	Rules   RuleParams   `json:"rules"`
	Tick    uint64       `json:"tick"`

	Width   float64 `json:"width"`
	Height  float64 `json:"height"`
	Cols    int     `json:"cols"`
	Rows    int     `json:"rows"`
	Species int     `json:"species"`

	Particles []ParticleState `json:"particles"`
}

// ParticleState holds one particle in cell-local coordinates.
type ParticleState struct {
	Species int     `json:"species"`
	Col     int     `json:"col"`
	Row     int     `json:"row"`
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
	VelX    float64 `json:"vel_x"`
	VelY    float64 `json:"vel_y"`
}

// Capture records the state of b between ticks. rules are the settings its
// species were generated with.
func Capture(b *board.Board, seeds config.Seeds, rules RuleParams) *Snapshot {
	w, h := b.Size()
	s := &Snapshot{
		Version:   SnapshotVersion,
		Seeds:     seeds,
		Rules:     rules,
		Tick:      b.Ticks(),
		Width:     w,
		Height:    h,
		Cols:      b.Cols(),
		Rows:      b.Rows(),
		Species:   len(b.Species()),
		Particles: make([]ParticleState, 0, b.Count()),
	}
	b.Each(func(v board.CellView) {
		for i := 0; i < v.Len(); i++ {
			p := v.At(i)
			s.Particles = append(s.Particles, ParticleState{
				Species: p.Species,
				Col:     v.Col,
				Row:     v.Row,
				X:       p.Pos.X,
				Y:       p.Pos.Y,
				VelX:    p.Vel.X,
				VelY:    p.Vel.Y,
			})
		}
	})
	return s
}

// Restore places the snapshot's particles onto an empty board of the same shape
// whose species were generated with the same rule settings.
func (s *Snapshot) Restore(b *board.Board, rules RuleParams) error {
	if s.Version != SnapshotVersion {
		return fmt.Errorf("restoring snapshot: version %d, want %d", s.Version, SnapshotVersion)
	}
	if s.Rules != rules {
		return fmt.Errorf("restoring snapshot: rule settings %+v, snapshot has %+v", rules, s.Rules)
	}
	if b.Count() != 0 {
		return fmt.Errorf("restoring snapshot: board already holds %d particles", b.Count())
	}
	w, h := b.Size()
	if s.Cols != b.Cols() || s.Rows != b.Rows() || s.Width != w || s.Height != h {
		return fmt.Errorf("restoring snapshot: board is %dx%d cells over %vx%v, snapshot is %dx%d over %vx%v",
			b.Cols(), b.Rows(), w, h, s.Cols, s.Rows, s.Width, s.Height)
	}
	if s.Species != len(b.Species()) {
		return fmt.Errorf("restoring snapshot: %d species, board has %d", s.Species, len(b.Species()))
	}

	for i, p := range s.Particles {
		pos := r2.Vec{X: p.X, Y: p.Y}
		vel := r2.Vec{X: p.VelX, Y: p.VelY}
		if err := b.PlaceInCell(p.Species, p.Col, p.Row, pos, vel); err != nil {
			return fmt.Errorf("restoring snapshot particle %d: %w", i, err)
		}
	}
	b.SetTicks(s.Tick)
	return nil
}

// SaveSnapshot writes a snapshot to dir and returns the file path.
func SaveSnapshot(snapshot *Snapshot, dir string) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("create snapshot dir: %w", err)
	}

	path := filepath.Join(dir, fmt.Sprintf("snapshot_%d.json", snapshot.Tick))
	data, err := json.Marshal(snapshot)
	if err != nil {
		return "", fmt.Errorf("marshal snapshot: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("write snapshot: %w", err)
	}

	return path, nil
}

// LoadSnapshot reads a snapshot from disk.
func LoadSnapshot(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}

	var snapshot Snapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return nil, fmt.Errorf("unmarshal snapshot: %w", err)
	}

	return &snapshot, nil
}
