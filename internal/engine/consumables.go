package engine

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/veyrane/stashwise/pkg/catalog"
	"github.com/veyrane/stashwise/pkg/loreexport"
)

// ConsumableVerdict classifies a usable item's utility for the character.
type ConsumableVerdict int

const (
	// ConsumableNotUseful means the item has no sensible use for this
	// character; the engine lets it fall through to later stages.
	ConsumableNotUseful ConsumableVerdict = iota

	// ConsumableUsable means the item is worth using (eating, reading).
	ConsumableUsable

	// ConsumableCombatSupply means the item should be kept stocked for
	// combat (potions, first-aid kits).
	ConsumableCombatSupply

	// ConsumableLevelLater means the item will become usable after modest
	// skill leveling and should be saved.
	ConsumableLevelLater

	// ConsumableAlreadyKnown means the item teaches something the
	// character already has; dispose of it.
	ConsumableAlreadyKnown
)

// ConsumableResult is the consumable analyzer's output.
type ConsumableResult struct {
	Verdict ConsumableVerdict
	Reason  string
}

// levelLaterMaxGap bounds the per-skill shortfall below which an unusable
// consumable is worth saving rather than discarding.
const levelLaterMaxGap = 15

// outlevelGap is how far below the character's best skill an item level
// must be before the consumable counts as outleveled.
const outlevelGap = 20

// abilityScrollPattern matches ability-scroll names ("Sword: Parry").
var abilityScrollPattern = regexp.MustCompile(`^([A-Za-z ]+): (.+)$`)

// AnalyzeConsumable judges a usable item's utility. Checks run in a fixed
// order: ability scrolls already known, unmet skill prerequisites, scrolls
// worth learning, outleveled items, then keyword classes (food, potions,
// combat kits), with a generic usable verdict last.
func AnalyzeConsumable(item loreexport.InventoryItem, catItem *catalog.Item, char *loreexport.CharacterExport, idx *catalog.Indexes) ConsumableResult {
	if catItem == nil {
		return ConsumableResult{ConsumableNotUseful, "Unknown consumable"}
	}
	if !catItem.Usable() {
		return ConsumableResult{ConsumableNotUseful, "No use action found"}
	}

	scrollAbility := resolveScrollAbility(item.Name, idx)
	if scrollAbility != nil && char.KnowsAbility(scrollAbility.InternalName) {
		return ConsumableResult{ConsumableAlreadyKnown, fmt.Sprintf("Already know %s", scrollAbility.Name)}
	}

	if res, blocked := checkSkillPrereqs(catItem, char); blocked {
		return res
	}

	if scrollAbility != nil {
		have := char.SkillLevel(scrollAbility.Skill)
		switch {
		case have >= scrollAbility.Level:
			return ConsumableResult{ConsumableUsable, fmt.Sprintf("Learn %s (%s %d)",
				scrollAbility.Name, scrollAbility.Skill, scrollAbility.Level)}
		case have > 0 && scrollAbility.Level-have <= levelLaterMaxGap:
			return ConsumableResult{ConsumableLevelLater, fmt.Sprintf("Save until %s %d (you have %d)",
				scrollAbility.Skill, scrollAbility.Level, have)}
		default:
			return ConsumableResult{ConsumableNotUseful, fmt.Sprintf("Requires %s %d (you have %d)",
				scrollAbility.Skill, scrollAbility.Level, have)}
		}
	}

	if item.Level > 0 {
		if maxSkill := maxSkillLevel(char); item.Level < maxSkill-outlevelGap {
			return ConsumableResult{ConsumableNotUseful,
				fmt.Sprintf("Outleveled consumable (L%d vs your L%d)", item.Level, maxSkill)}
		}
	}

	if hasKeywordContaining(catItem, "Food", "Meal", "Snack") {
		gourmand := char.SkillLevel("Gourmand")
		return ConsumableResult{ConsumableUsable,
			fmt.Sprintf("Food item - eat if new for Gourmand XP (Gourmand %d)", gourmand)}
	}

	if hasKeywordContaining(catItem, "Potion", "Elixir") {
		return ConsumableResult{ConsumableCombatSupply, "Potion - use in combat"}
	}

	if strings.Contains(item.Name, "First Aid Kit") || strings.Contains(item.Name, "Armor Patch Kit") {
		return ConsumableResult{ConsumableCombatSupply, "Combat supply - keep stocked"}
	}

	return ConsumableResult{ConsumableUsable, "Consumable - use when needed"}
}

// checkSkillPrereqs inspects the item's skill requirements. When any are
// unmet it returns a blocking result: level-later if every shortfall is
// within reach of a skill the character has started, not-useful otherwise.
func checkSkillPrereqs(catItem *catalog.Item, char *loreexport.CharacterExport) (ConsumableResult, bool) {
	if len(catItem.SkillReqs) == 0 {
		return ConsumableResult{}, false
	}

	skills := make([]string, 0, len(catItem.SkillReqs))
	for s := range catItem.SkillReqs {
		skills = append(skills, s)
	}
	sort.Strings(skills)

	withinReach := true
	var firstUnmet string
	for _, skill := range skills {
		required := catItem.SkillReqs[skill]
		have := char.SkillLevel(skill)
		if have >= required {
			continue
		}
		if firstUnmet == "" {
			firstUnmet = fmt.Sprintf("%s %d (you have %d)", skill, required, have)
		}
		if have <= 0 || required-have > levelLaterMaxGap {
			withinReach = false
		}
	}
	if firstUnmet == "" {
		return ConsumableResult{}, false
	}
	if withinReach {
		return ConsumableResult{ConsumableLevelLater, "Save until " + firstUnmet}, true
	}
	return ConsumableResult{ConsumableNotUseful, "Requires " + firstUnmet}, true
}

// resolveScrollAbility parses an ability-scroll name ("Sword: Parry") and
// resolves the named ability in the catalog. Returns nil when the name is
// not scroll-shaped or no ability matches.
func resolveScrollAbility(name string, idx *catalog.Indexes) *catalog.Ability {
	m := abilityScrollPattern.FindStringSubmatch(name)
	if m == nil {
		return nil
	}
	skillPart := strings.TrimSpace(m[1])
	abilityPart := strings.TrimSpace(m[2])

	var best *catalog.Ability
	var bestKey string
	for key, ab := range idx.AbilitiesByName {
		if ab.Name != abilityPart {
			continue
		}
		// Prefer the ability on the scroll's own skill; break remaining
		// ties on key so repeated runs resolve identically.
		if best != nil {
			if best.Skill == skillPart && ab.Skill != skillPart {
				continue
			}
			if (ab.Skill == skillPart) == (best.Skill == skillPart) && key >= bestKey {
				continue
			}
		}
		best, bestKey = ab, key
	}
	return best
}

// hasKeywordContaining reports whether any catalog keyword on the item
// contains one of the given fragments.
func hasKeywordContaining(catItem *catalog.Item, fragments ...string) bool {
	for _, kw := range catItem.Keywords {
		for _, frag := range fragments {
			if strings.Contains(kw, frag) {
				return true
			}
		}
	}
	return false
}
