package khalon

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"math"
	"os"
	"slices"
	"sync"

	"gopkg.in/yaml.v3"
)

// LevelCurve tunes how much experience each level requires. The total XP
// needed to reach level n is Base * Multiplier^(n-1), rounded down.
type LevelCurve struct {
	Base       int64   `yaml:"base"`
	Multiplier float64 `yaml:"multiplier"`
}

// DefaultLevelCurve is used when the config omits the leveling section.
var DefaultLevelCurve = LevelCurve{Base: 100, Multiplier: 1.5}

// Threshold returns the total XP required to reach the given level.
// Level 0 requires nothing.
func (c LevelCurve) Threshold(level int) int64 {
	if level <= 0 {
		return 0
	}
	return int64(float64(c.Base) * math.Pow(c.Multiplier, float64(level-1)))
}

// Config is the bot tuning loaded once at startup from xp.yml: the leveling
// curve and the operator identities allowed to run admin operations. The
// engines themselves never check authorization, the dispatcher does.
type Config struct {
	Leveling  LevelCurve `yaml:"leveling"`
	Operators []string   `yaml:"operators"`
}

// LoadConfig reads the YAML config at path. A missing file yields the
// defaults; an unparseable one is an error because silently dropping the
// operator list would be worse than failing startup.
func LoadConfig(path string) (Config, error) {
	cfg := Config{Leveling: DefaultLevelCurve}
	content, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return Config{}, fmt.Errorf("could not read config %q: %w", path, err)
	}
	if err := yaml.Unmarshal(content, &cfg); err != nil {
		return Config{}, fmt.Errorf("could not parse config %q: %w", path, err)
	}
	if cfg.Leveling.Base <= 0 {
		cfg.Leveling.Base = DefaultLevelCurve.Base
	}
	if cfg.Leveling.Multiplier <= 1 {
		cfg.Leveling.Multiplier = DefaultLevelCurve.Multiplier
	}
	return cfg, nil
}

// IsOperator reports whether the account id is on the operator allow-list.
func (c Config) IsOperator(accountID string) bool {
	return slices.Contains(c.Operators, accountID)
}

// Progress is an account's experience record.
type Progress struct {
	XP    int64 `json:"xp"`
	Level int   `json:"level"`
}

// Levels tracks per-account experience points and computes levels from the
// configured curve. Like the ledger it owns its collection exclusively and
// persists after each mutation.
type Levels struct {
	mu      sync.RWMutex
	store   *Store
	curve   LevelCurve
	records map[string]Progress
}

// NewLevels loads the XP collection from the store, recovering from
// corruption with an empty one. A degenerate curve whose thresholds do not
// grow (Base <= 0 or Multiplier <= 1) is replaced by the default, because
// level computation would not terminate on it.
func NewLevels(store *Store, curve LevelCurve) (*Levels, error) {
	if curve.Base <= 0 {
		curve.Base = DefaultLevelCurve.Base
	}
	if curve.Multiplier <= 1 {
		curve.Multiplier = DefaultLevelCurve.Multiplier
	}
	v := &Levels{
		store:   store,
		curve:   curve,
		records: make(map[string]Progress),
	}
	if err := store.Load(colXP, &v.records); err != nil {
		if !errors.Is(err, ErrStoreCorrupt) {
			return nil, err
		}
		log.Printf("warning: %v, starting with an empty xp collection", err)
		v.records = make(map[string]Progress)
	}
	return v, nil
}

// AwardXP grants experience points to an account and recomputes its level.
// It returns the updated progress and whether a level was gained.
func (v *Levels) AwardXP(accountID string, points int64) (Progress, bool, error) {
	if points <= 0 {
		return Progress{}, false, fmt.Errorf("cannot award %d xp: %w", points, ErrInvalidAmount)
	}

	v.mu.Lock()
	defer v.mu.Unlock()

	prev, existed := v.records[accountID]
	rec := prev
	rec.XP += points
	for rec.XP >= v.curve.Threshold(rec.Level+1) {
		rec.Level++
	}

	v.records[accountID] = rec
	if err := v.store.Save(colXP, v.records); err != nil {
		if existed {
			v.records[accountID] = prev
		} else {
			delete(v.records, accountID)
		}
		return Progress{}, false, err
	}
	return rec, rec.Level > prev.Level, nil
}

// Rank returns the account's progress. Reading never creates a record.
func (v *Levels) Rank(accountID string) (Progress, bool) {
	v.mu.RLock()
	defer v.mu.RUnlock()
	rec, ok := v.records[accountID]
	return rec, ok
}

// setRecords replaces the XP collection wholesale, for the legacy import.
func (v *Levels) setRecords(records map[string]Progress) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	prev := v.records
	v.records = records
	if err := v.store.Save(colXP, v.records); err != nil {
		v.records = prev
		return err
	}
	return nil
}
