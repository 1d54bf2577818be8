// Package profile persists per-character advisor state: the player's build
// configuration, item overrides, keep quantities, ignored NPCs and archived
// items. Profiles are loaded before an analysis pass and saved after any
// edit; the engine itself never touches storage.
package profile

import (
	"errors"
	"fmt"
	"time"

	"github.com/veyrane/stashwise/internal/engine"
)

// Profile is the persisted advisor state for one character.
type Profile struct {
	// Character is the character name the profile belongs to; it is the
	// storage key and must be non-empty.
	Character string `json:"character" yaml:"character"`

	// Build is the player's chosen or auto-detected skill build. Nil means
	// auto-detect on every analysis pass.
	Build *engine.BuildConfig `json:"build,omitempty" yaml:"build,omitempty"`

	// Overrides maps item display names or "TypeID_Vault" composite keys
	// to player-chosen dispositions.
	Overrides map[string]engine.Override `json:"overrides,omitempty" yaml:"overrides,omitempty"`

	// KeepQuantities maps item display names to keep thresholds.
	KeepQuantities map[string]int `json:"keepQuantities,omitempty" yaml:"keep_quantities,omitempty"`

	// IgnoredNPCs lists NPC ids excluded from gift suggestions.
	IgnoredNPCs []string `json:"ignoredNpcs,omitempty" yaml:"ignored_npcs,omitempty"`

	// Archived lists "TypeID_Vault" keys the player has dismissed from
	// the review list.
	Archived []string `json:"archived,omitempty" yaml:"archived,omitempty"`

	// DefaultGemKeep is the gem keep threshold; zero uses the engine
	// default.
	DefaultGemKeep int `json:"defaultGemKeep,omitempty" yaml:"default_gem_keep,omitempty"`

	CreatedAt time.Time `json:"createdAt,omitempty" yaml:"created_at,omitempty"`
	UpdatedAt time.Time `json:"updatedAt,omitempty" yaml:"updated_at,omitempty"`
}

// Validate checks the profile for structural problems. All problems are
// reported at once via [errors.Join].
func (p *Profile) Validate() error {
	var errs []error
	if p.Character == "" {
		errs = append(errs, errors.New("profile: character name must not be empty"))
	}
	for key, ov := range p.Overrides {
		if key == "" {
			errs = append(errs, errors.New("profile: override key must not be empty"))
		}
		if ov.Action == "" {
			errs = append(errs, fmt.Errorf("profile: override %q: action must not be empty", key))
		}
	}
	for name, qty := range p.KeepQuantities {
		if qty < 0 {
			errs = append(errs, fmt.Errorf("profile: keep quantity for %q must not be negative", name))
		}
	}
	if p.DefaultGemKeep < 0 {
		errs = append(errs, errors.New("profile: default gem keep must not be negative"))
	}
	return errors.Join(errs...)
}

// EngineInputs copies the profile's state into the corresponding fields of
// an [engine.Inputs] snapshot. Legacy override actions are left as stored;
// the engine normalizes them at evaluation time.
func (p *Profile) EngineInputs(in *engine.Inputs) {
	in.Build = p.Build
	in.Overrides = p.Overrides
	in.KeepQuantities = p.KeepQuantities
	in.DefaultGemKeep = p.DefaultGemKeep
	if len(p.IgnoredNPCs) > 0 {
		in.IgnoredNPCs = make(map[string]struct{}, len(p.IgnoredNPCs))
		for _, id := range p.IgnoredNPCs {
			in.IgnoredNPCs[id] = struct{}{}
		}
	}
}

// IsArchived reports whether the "TypeID_Vault" key is in the archive list.
func (p *Profile) IsArchived(key string) bool {
	for _, k := range p.Archived {
		if k == key {
			return true
		}
	}
	return false
}

// SetOverride records a disposition override under the given key.
// Maps are allocated lazily so the zero Profile is usable.
func (p *Profile) SetOverride(key string, ov engine.Override) {
	if p.Overrides == nil {
		p.Overrides = make(map[string]engine.Override)
	}
	p.Overrides[key] = ov
}

// SetKeepQuantity records a keep threshold for the named item.
func (p *Profile) SetKeepQuantity(name string, qty int) {
	if p.KeepQuantities == nil {
		p.KeepQuantities = make(map[string]int)
	}
	p.KeepQuantities[name] = qty
}
