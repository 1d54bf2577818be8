package engine

import (
	"fmt"
	"strings"

	"github.com/veyrane/stashwise/pkg/loreexport"
)

// equipmentSlots are the wearable slot names; only items in one of them go
// through the equipment evaluator.
var equipmentSlots = map[string]struct{}{
	"Head": {}, "Chest": {}, "Legs": {}, "Hands": {}, "Feet": {},
	"MainHand": {}, "OffHand": {}, "Necklace": {}, "Ring": {}, "Waist": {}, "Banner": {},
}

// IsEquipment reports whether the inventory item occupies a wearable slot.
func IsEquipment(item loreexport.InventoryItem) bool {
	_, ok := equipmentSlots[item.Slot]
	return ok
}

const (
	endgameLevel      = 80
	currentTierWindow = 5
	outleveledGearGap = 15
)

// evaluateEquipment classifies a wearable item against the player's build:
// skill relevance from its rolled powers (inferred from the catalog when no
// power resolves, at reduced confidence), crossed with rarity tier and item
// level versus the player's max combat level.
func (e *Engine) evaluateEquipment(item loreexport.InventoryItem, category Category) Recommendation {
	gearScore := ScoreGear(item, e.in.Character, e.in.Build, e.in.Indexes)
	gearSkills := GearSkills(item, e.in.Indexes)

	confidence := ConfidenceHigh
	if len(gearSkills) == 0 {
		gearSkills = InferGearSkills(item, e.in.Indexes)
		confidence = ConfidenceMedium
	}
	if len(gearSkills) == 0 {
		return Recommendation{
			Action: ActionKeep,
			Reasons: []Reason{{Kind: ReasonEquipment,
				Text:       "Could not determine skills - review manually",
				Confidence: ConfidenceLow}},
			Summary:   "Could not determine skills - review manually",
			Category:  category,
			GearScore: intPtr(gearScore),
			Uncertain: true,
		}
	}

	maxCombat := MaxCombatLevel(e.in.Character, e.in.Build)
	hasBuildSkill := false
	hasPrimarySkill := false
	for _, s := range gearSkills {
		if e.in.Build.HasSkill(s) {
			hasBuildSkill = true
		}
		if e.in.Build.HasPrimarySkill(s) {
			hasPrimarySkill = true
		}
	}

	rarity := rarityOrCommon(item.Rarity)
	level := item.Level
	skillList := strings.Join(gearSkills, "/")

	equipRec := func(action Action, text string, conf Confidence, uncertain bool) Recommendation {
		return Recommendation{
			Action:    action,
			Reasons:   []Reason{{Kind: ReasonEquipment, Text: text, Confidence: conf}},
			Summary:   text,
			Category:  category,
			GearScore: intPtr(gearScore),
			Uncertain: uncertain,
		}
	}

	if hasPrimarySkill && level >= endgameLevel {
		return equipRec(ActionKeep,
			fmt.Sprintf("Endgame %s gear - save for later", skillList), confidence, false)
	}

	if hasPrimarySkill && level >= maxCombat-currentTierWindow &&
		(rarity == "Epic" || rarity == "Legendary" || rarity == "Exceptional") {
		return equipRec(ActionKeep,
			fmt.Sprintf("Current-tier %s gear for your build", rarity), confidence, false)
	}

	if hasPrimarySkill && level < maxCombat-outleveledGearGap &&
		rarity != "Epic" && rarity != "Legendary" {
		return equipRec(ActionDisenchant,
			fmt.Sprintf("Outleveled %s L%d - distill for phlogiston", rarity, level), confidence, false)
	}

	if hasBuildSkill {
		conf := ConfidenceMedium
		if confidence == ConfidenceMedium {
			conf = ConfidenceLow
		}
		return equipRec(ActionKeep,
			fmt.Sprintf("%s L%d %s - compare to current gear", rarity, level, skillList), conf, true)
	}

	if rarity == "Legendary" || rarity == "Epic" {
		return equipRec(ActionDisenchant,
			fmt.Sprintf("Off-build %s - good phlogiston from distilling", rarity), confidence, false)
	}
	return equipRec(ActionSellAll, "Off-build gear, no relevant skills", confidence, false)
}

// evaluateAugment handles augment items: power payload but no equip slot.
// Augments for a build skill, for "AnySkill", or with no resolvable skill
// are kept; off-build augments sold.
func (e *Engine) evaluateAugment(item loreexport.InventoryItem, category Category) Recommendation {
	gearSkills := GearSkills(item, e.in.Indexes)

	relevant := len(gearSkills) == 0
	for _, s := range gearSkills {
		if s == "AnySkill" || e.in.Build.HasSkill(s) {
			relevant = true
			break
		}
	}

	skillList := strings.Join(gearSkills, "/")
	if relevant {
		target := skillList
		if target == "" {
			target = "general use"
		}
		text := fmt.Sprintf("Augment for %s - save for gear", target)
		return Recommendation{
			Action:   ActionKeep,
			Reasons:  []Reason{{Kind: ReasonEquipment, Text: text, Confidence: ConfidenceMedium}},
			Summary:  text,
			Category: category,
		}
	}

	text := fmt.Sprintf("Off-build augment (%s)", skillList)
	return Recommendation{
		Action:   ActionSellAll,
		Reasons:  []Reason{{Kind: ReasonEquipment, Text: text, Confidence: ConfidenceMedium}},
		Summary:  text,
		Category: category,
	}
}
