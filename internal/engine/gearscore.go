package engine

import (
	"math"
	"sort"
	"strings"

	"github.com/veyrane/stashwise/pkg/catalog"
	"github.com/veyrane/stashwise/pkg/loreexport"
)

// rarityPoints is the fixed rarity contribution to the gear score.
var rarityPoints = map[string]int{
	"Common":      0,
	"Uncommon":    3,
	"Rare":        6,
	"Exceptional": 9,
	"Epic":        12,
	"Legendary":   15,
}

// ScoreGear computes the deterministic 0-100 build-fit score for an
// equipment item. The score is display/sorting metadata only; the
// disposition decision never branches on it.
//
// Breakdown:
//   - 40 pts: fraction of the item's powers whose skill is in the build
//   - 25 pts: banded distance between item level and the player's max
//     primary combat level (over-level items bank 5 pts for later)
//   - 15 pts: fixed rarity table
//   - 20 pts: tier-weighted build-relevant powers
//
// An item with no powers always scores exactly 0.
func ScoreGear(item loreexport.InventoryItem, char *loreexport.CharacterExport, build *BuildConfig, idx *catalog.Indexes) int {
	if len(item.TSysPowers) == 0 {
		return 0
	}

	score := 0

	// Skill match: 40 pts scaled by matching power fraction.
	matching := 0
	for _, p := range item.TSysPowers {
		power := idx.PowersByName[p.Power]
		if power != nil && power.Skill != "" && build.HasSkill(power.Skill) {
			matching++
		}
	}
	score += int(math.Round(float64(matching) / float64(len(item.TSysPowers)) * 40))

	// Level appropriateness: 25 pts banded by distance from the player's
	// max primary combat level.
	if item.Level > 0 {
		maxCombat := MaxCombatLevel(char, build)
		if maxCombat > 0 {
			diff := item.Level - maxCombat
			if diff < 0 {
				diff = -diff
			}
			switch {
			case diff == 0:
				score += 25
			case diff <= 5:
				score += 20
			case diff <= 10:
				score += 15
			case diff <= 20:
				score += 8
			case item.Level > maxCombat:
				// Banked for later: still worth a few points.
				score += 5
			}
		}
	}

	// Rarity bonus: 15 pts.
	score += rarityPoints[rarityOrCommon(item.Rarity)]

	// Power quality: 20 pts from tier-weighted build-relevant powers.
	quality := 0.0
	for _, p := range item.TSysPowers {
		power := idx.PowersByName[p.Power]
		if power != nil && power.Skill != "" && build.HasSkill(power.Skill) {
			quality += math.Min(float64(p.Tier)/20, 1)
		}
	}
	score += int(math.Min(20, math.Round(quality*5)))

	if score > 100 {
		score = 100
	}
	return score
}

// GearSkills returns the distinct skills the item's treasure-system powers
// resolve to, sorted for stable output.
func GearSkills(item loreexport.InventoryItem, idx *catalog.Indexes) []string {
	seen := make(map[string]struct{})
	var skills []string
	for _, p := range item.TSysPowers {
		power := idx.PowersByName[p.Power]
		if power == nil || power.Skill == "" {
			continue
		}
		if _, dup := seen[power.Skill]; dup {
			continue
		}
		seen[power.Skill] = struct{}{}
		skills = append(skills, power.Skill)
	}
	sort.Strings(skills)
	return skills
}

// InferGearSkills guesses an equipment item's skills from catalog keywords
// and skill-name matching when its powers resolve to no skill. Results come
// with lower confidence than power-derived skills.
func InferGearSkills(item loreexport.InventoryItem, idx *catalog.Indexes) []string {
	catItem := idx.Item(item.TypeID)
	if catItem == nil {
		return nil
	}

	seen := make(map[string]struct{})
	var inferred []string

	// Catalog item keywords -> associated skills, combat only.
	for _, kw := range catItem.Keywords {
		for _, skill := range idx.SkillsByItemKeyword[kw] {
			if !idx.IsCombatSkill(skill) {
				continue
			}
			if _, dup := seen[skill]; dup {
				continue
			}
			seen[skill] = struct{}{}
			inferred = append(inferred, skill)
		}
	}
	if len(inferred) > 0 {
		sort.Strings(inferred)
		return inferred
	}

	// Fall back to matching the item name against combat skill names.
	nameLower := strings.ToLower(item.Name)
	for skillKey := range idx.CombatSkills {
		skill := idx.SkillsByName[skillKey]
		displayName := skillKey
		if skill != nil && skill.Name != "" {
			displayName = skill.Name
		}
		root := trimSkillSuffix(displayName)
		if len(root) >= 4 && strings.Contains(nameLower, strings.ToLower(root)) {
			if _, dup := seen[skillKey]; !dup {
				seen[skillKey] = struct{}{}
				inferred = append(inferred, skillKey)
			}
		}
	}
	sort.Strings(inferred)
	return inferred
}

// trimSkillSuffix strips common skill-name suffixes so that e.g. "Archery"
// can match "Arche[r]" item names.
func trimSkillSuffix(name string) string {
	for _, suffix := range []string{"y", "ing", "ry"} {
		if trimmed, ok := strings.CutSuffix(name, suffix); ok {
			return trimmed
		}
	}
	return name
}

func rarityOrCommon(rarity string) string {
	if rarity == "" {
		return "Common"
	}
	return rarity
}
