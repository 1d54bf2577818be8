// Package engine is the recommendation core: a priority-ordered decision
// pipeline that resolves every inventory item to exactly one disposition
// recommendation with a human-readable justification.
//
// The pipeline cross-references each item against five knowledge domains
// (active quests, equipment build fit, crafting recipes, consumable utility,
// NPC gift preferences) and falls back to a category-keyed heuristic table.
// Stage order is an explicit data structure ([Engine] runs the stages in
// sequence and takes the first non-nil result), so each stage is
// independently testable.
//
// The engine is pure and synchronous: all inputs are immutable snapshots
// for the duration of one analysis pass, it performs no I/O, and it never
// fails — every item, however malformed, receives some [Recommendation]
// (worst case Keep + uncertain + "review manually").
package engine

import (
	"github.com/veyrane/stashwise/pkg/catalog"
	"github.com/veyrane/stashwise/pkg/loreexport"
)

// Action is a disposition the advisor can recommend for an item.
type Action string

const (
	ActionKeep       Action = "KEEP"
	ActionSellSome   Action = "SELL_SOME"
	ActionSellAll    Action = "SELL_ALL"
	ActionDisenchant Action = "DISENCHANT"
	ActionUse        Action = "USE"
	ActionQuest      Action = "QUEST"
	ActionLevelLater Action = "LEVEL_LATER"
	ActionIngredient Action = "INGREDIENT"
	ActionDeploy     Action = "DEPLOY"
	ActionGift       Action = "GIFT"
)

// legacyActionEvaluate is an action value older persisted overrides may
// still carry. It is remapped to Keep + uncertain on normalization.
const legacyActionEvaluate = "EVALUATE"

// actionLabels maps actions to their display labels.
var actionLabels = map[Action]string{
	ActionKeep:       "Keep",
	ActionSellSome:   "Sell Some",
	ActionSellAll:    "Sell All",
	ActionDisenchant: "Distill",
	ActionUse:        "Use/Eat",
	ActionQuest:      "Quest Item",
	ActionLevelLater: "Save for Leveling",
	ActionIngredient: "Crafting Ingredient",
	ActionDeploy:     "Deploy/Use",
	ActionGift:       "Gift to NPC",
}

// IsValid reports whether a is a recognised action.
func (a Action) IsValid() bool {
	_, ok := actionLabels[a]
	return ok
}

// Label returns the display label for the action.
func (a Action) Label() string {
	if l, ok := actionLabels[a]; ok {
		return l
	}
	return string(a)
}

// NormalizeAction converts a persisted action string into a valid [Action].
// The legacy "EVALUATE" value maps to Keep with the uncertain flag; any
// unrecognised value also degrades to Keep + uncertain rather than failing.
func NormalizeAction(s string) (action Action, uncertain bool) {
	if s == legacyActionEvaluate {
		return ActionKeep, true
	}
	a := Action(s)
	if !a.IsValid() {
		return ActionKeep, true
	}
	return a, false
}

// ReasonKind tags which analysis stage produced a reason entry.
type ReasonKind string

const (
	ReasonOverride   ReasonKind = "override"
	ReasonQuest      ReasonKind = "quest"
	ReasonEquipment  ReasonKind = "equipment"
	ReasonRecipe     ReasonKind = "recipe"
	ReasonConsumable ReasonKind = "consumable"
	ReasonGift       ReasonKind = "gift"
	ReasonHeuristic  ReasonKind = "heuristic"
	ReasonFallback   ReasonKind = "fallback"
)

// Confidence is a reason's confidence tier.
type Confidence string

const (
	ConfidenceHigh   Confidence = "high"
	ConfidenceMedium Confidence = "medium"
	ConfidenceLow    Confidence = "low"
)

// Reason is one justification entry on a recommendation.
type Reason struct {
	Kind       ReasonKind `json:"kind"`
	Text       string     `json:"text"`
	Confidence Confidence `json:"confidence"`
	Detail     string     `json:"detail,omitempty"`
}

// Recommendation is the engine's verdict for a single inventory item. It is
// a pure, stateless projection: recomputed, never mutated, whenever its
// inputs change.
type Recommendation struct {
	Action  Action   `json:"action"`
	Reasons []Reason `json:"reasons"`

	// Summary is the primary display reason (the first entry's text).
	Summary string `json:"summary"`

	// Category is the item category determined during analysis.
	Category Category `json:"category"`

	// GearScore is the 0-100 build-fit score, present for equipment only.
	GearScore *int `json:"gearScore,omitempty"`

	// KeepQuantity is the suggested number to keep for stackables, when a
	// partial disposition applies.
	KeepQuantity *int `json:"keepQuantity,omitempty"`

	// Uncertain marks a low-confidence best guess warranting manual review.
	Uncertain bool `json:"uncertain,omitempty"`
}

// BuildConfig is the player's primary/support combat skill set, either
// auto-detected from the character export or chosen by the player.
type BuildConfig struct {
	PrimarySkills []string `json:"primarySkills" yaml:"primary_skills"`
	SupportSkills []string `json:"supportSkills" yaml:"support_skills"`
	AutoDetected  bool     `json:"autoDetected" yaml:"auto_detected"`
}

// HasSkill reports whether the named skill is anywhere in the build.
func (b *BuildConfig) HasSkill(name string) bool {
	if b == nil {
		return false
	}
	for _, s := range b.PrimarySkills {
		if s == name {
			return true
		}
	}
	for _, s := range b.SupportSkills {
		if s == name {
			return true
		}
	}
	return false
}

// HasPrimarySkill reports whether the named skill is a primary build skill.
func (b *BuildConfig) HasPrimarySkill(name string) bool {
	if b == nil {
		return false
	}
	for _, s := range b.PrimarySkills {
		if s == name {
			return true
		}
	}
	return false
}

// Override is a player-chosen disposition for a specific item. The action
// is kept as a raw string so that legacy persisted values survive loading;
// it is normalized via [NormalizeAction] at evaluation time.
type Override struct {
	Action string `json:"action" yaml:"action"`
	Reason string `json:"reason" yaml:"reason"`
}

// Inputs is the immutable snapshot an [Engine] analyses against.
type Inputs struct {
	Character *loreexport.CharacterExport
	Indexes   *catalog.Indexes
	Build     *BuildConfig

	// Overrides is keyed by item display name, or by the "TypeID_Vault"
	// composite key which takes precedence.
	Overrides map[string]Override

	// KeepQuantities maps item display names to keep thresholds for
	// partial-sell heuristics and override stack consumption.
	KeepQuantities map[string]int

	// IgnoredNPCs suppresses gift suggestions for the listed NPC ids.
	IgnoredNPCs map[string]struct{}

	// DefaultGemKeep is the gem keep threshold used when no per-item keep
	// quantity is set. Zero means the package default (5).
	DefaultGemKeep int
}

// Analyzed pairs an inventory item with its recommendation, the unit the
// presentation and export layers consume.
type Analyzed struct {
	loreexport.InventoryItem
	Recommendation Recommendation `json:"recommendation"`
}

func intPtr(n int) *int { return &n }
