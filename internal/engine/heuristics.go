package engine

import (
	"fmt"
	"strings"

	"github.com/veyrane/stashwise/pkg/loreexport"
)

// DefaultGemKeep is the gem keep threshold used when the player set none.
const DefaultGemKeep = 5

// heuristicResult is one canned disposition from the fallback table.
type heuristicResult struct {
	action    Action
	reason    Reason
	keepQty   *int
	uncertain bool
}

// recipeScrollSkills maps the skill prefix on a recipe-scroll name to the
// character skill that actually levels it. Prefixes absent from the map
// use the prefix itself.
var recipeScrollSkills = map[string]string{
	"Alchemy": "Alchemy", "Cooking": "Cooking", "Carpentry": "Carpentry",
	"Tailoring": "Tailoring", "Leatherworking": "Leatherworking",
	"Saddlery": "AnimalHandling", "Calligraphy": "Sword", "Staff": "Staff",
	"Art": "Artistry", "Psychology": "Psychology", "Shield": "Shield", "Sword": "Sword",
}

// goodPotions are high-tier potions always worth carrying.
var goodPotions = stringSet(
	"Healing Potion Extreme", "Healing Potion Omega", "Power Potion Extreme",
	"Regeneration Potion", "Armor Potion Extreme", "Fire Shield Potion",
	"Strong Psychic Resistance Potion", "Cold Resistance Potion",
	"Steroid Drink", "Hulking Gel", "Enhanced Pineal Juice", "Pineal Juice",
)

func heuristicReason(text string, conf Confidence) Reason {
	return Reason{Kind: ReasonHeuristic, Text: text, Confidence: conf}
}

// heuristicRecommendation is the category-keyed fallback table. It returns
// nil for categories the main chain fully owns (equipment, augments) and
// for misc items with no canned rule.
func heuristicRecommendation(item loreexport.InventoryItem, char *loreexport.CharacterExport, category Category, keepQuantities map[string]int, defaultGemKeep int) *heuristicResult {
	name := item.Name

	keepFor := func(def int) int {
		if q, ok := keepQuantities[name]; ok {
			return q
		}
		return def
	}

	switch category {
	case CategoryPhlogiston:
		return &heuristicResult{action: ActionKeep,
			reason: heuristicReason("Critical for Transmutation - never sell", ConfidenceHigh)}

	case CategoryGem:
		keep := keepFor(defaultGemKeep)
		if item.StackSize <= keep {
			return &heuristicResult{action: ActionKeep,
				reason: heuristicReason(fmt.Sprintf("Keep %d for Transmutation/crafting", keep), ConfidenceHigh)}
		}
		surplus := item.StackSize - keep
		return &heuristicResult{
			action:  ActionSellSome,
			reason:  heuristicReason(fmt.Sprintf("Keep %d, sell %d (%dg)", keep, surplus, surplus*item.Value), ConfidenceHigh),
			keepQty: intPtr(keep),
		}

	case CategoryTool:
		if strings.Contains(name, "Storage Crate") {
			return &heuristicResult{action: ActionKeep,
				reason: heuristicReason("Portable temp storage - keep for field use", ConfidenceHigh)}
		}
		return &heuristicResult{action: ActionKeep,
			reason: heuristicReason("Essential tool - always carry", ConfidenceHigh)}

	case CategoryPainting:
		if name == "Unidentified Painting" {
			return &heuristicResult{action: ActionKeep,
				reason: heuristicReason(fmt.Sprintf("Identify for Art History XP (currently level %d), then sell",
					char.SkillLevel("ArtHistory")), ConfidenceHigh)}
		}
		return &heuristicResult{action: ActionSellAll,
			reason: heuristicReason("Identified painting - sell for gold", ConfidenceHigh)}

	case CategoryRecipeScroll:
		return recipeScrollHeuristic(item, char)

	case CategoryPotion:
		if goodPotions[name] {
			return &heuristicResult{action: ActionKeep,
				reason: heuristicReason("High-tier consumable - use in combat", ConfidenceHigh)}
		}
		if name == "Healing Potion" || name == "Armor Potion" {
			return &heuristicResult{action: ActionSellAll,
				reason: heuristicReason(fmt.Sprintf("Basic potion, outleveled - sell all (%dg)", item.TotalValue()), ConfidenceHigh)}
		}
		return &heuristicResult{action: ActionKeep, uncertain: true,
			reason: heuristicReason("Potion - check if you have better versions", ConfidenceLow)}

	case CategoryFoodIngredient:
		if item.Value >= 50 && !foodRawNames[name] {
			return &heuristicResult{action: ActionUse,
				reason: heuristicReason(fmt.Sprintf("Eat if new for Gourmand XP (Gourmand %d), use in combat",
					char.SkillLevel("Gourmand")), ConfidenceMedium)}
		}
		if keep, ok := keepQuantities[name]; ok && item.StackSize > keep {
			return &heuristicResult{
				action:  ActionSellSome,
				reason:  heuristicReason(fmt.Sprintf("Keep %d, cook/sell rest", keep), ConfidenceMedium),
				keepQty: intPtr(keep),
			}
		}
		return &heuristicResult{action: ActionKeep,
			reason: heuristicReason(fmt.Sprintf("Cooking ingredient (Cooking %d)", char.SkillLevel("Cooking")), ConfidenceMedium)}

	case CategoryGardening:
		if name == "Strange Dirt" {
			keep := keepFor(25)
			if item.StackSize > keep {
				return &heuristicResult{
					action:  ActionSellSome,
					reason:  heuristicReason(fmt.Sprintf("Keep %d for fertilizer, sell rest", keep), ConfidenceHigh),
					keepQty: intPtr(keep),
				}
			}
			return &heuristicResult{action: ActionIngredient,
				reason: heuristicReason("Fertilizer ingredient - keep for Gardening", ConfidenceHigh)}
		}
		return &heuristicResult{action: ActionKeep,
			reason: heuristicReason("Gardening supply", ConfidenceMedium)}

	case CategoryCraftingMat:
		return craftingMatHeuristic(item, char, keepQuantities)

	case CategoryAnimalPart:
		keep := keepFor(3)
		if keep == 0 {
			return &heuristicResult{action: ActionSellAll,
				reason: heuristicReason("Low-use animal part", ConfidenceMedium)}
		}
		if item.StackSize > keep {
			return &heuristicResult{
				action:  ActionSellSome,
				reason:  heuristicReason(fmt.Sprintf("Keep %d for quests/recipes, sell rest", keep), ConfidenceMedium),
				keepQty: intPtr(keep),
			}
		}
		return &heuristicResult{action: ActionKeep,
			reason: heuristicReason("Possible quest/recipe use - check before selling", ConfidenceLow)}

	case CategoryCurrency:
		switch {
		case name == "Council Certificate":
			return &heuristicResult{action: ActionKeep,
				reason: heuristicReason("High-value currency (1000g each) - save for NPC purchases", ConfidenceHigh)}
		case strings.Contains(name, "Coin"), name == "Big Coin Sack":
			return &heuristicResult{action: ActionSellAll,
				reason: heuristicReason(fmt.Sprintf("Currency item - sell for %dg", item.TotalValue()), ConfidenceHigh)}
		case strings.Contains(name, "Calling Card"):
			return &heuristicResult{action: ActionKeep,
				reason: heuristicReason("Goblin calling card - may have quest/favor use", ConfidenceLow)}
		}
		return nil

	case CategoryConsumable:
		if strings.Contains(name, "Simple First Aid") {
			return &heuristicResult{action: ActionSellAll,
				reason: heuristicReason("Outleveled - you have better kits", ConfidenceHigh)}
		}
		if strings.Contains(name, "First Aid Kit") || strings.Contains(name, "Armor Patch Kit") {
			return &heuristicResult{action: ActionKeep,
				reason: heuristicReason("Combat supply - keep stocked", ConfidenceHigh)}
		}
		return &heuristicResult{action: ActionKeep,
			reason: heuristicReason("Consumable", ConfidenceLow)}

	case CategoryFun:
		return &heuristicResult{action: ActionKeep,
			reason: heuristicReason("Fun/event item - keep if you enjoy it", ConfidenceMedium)}

	case CategoryWorkOrder:
		return &heuristicResult{action: ActionKeep,
			reason: heuristicReason("Active work order - complete for rewards", ConfidenceHigh)}

	case CategoryJunk:
		return &heuristicResult{action: ActionSellAll,
			reason: heuristicReason(fmt.Sprintf("Vendor trash - %dg", item.TotalValue()), ConfidenceHigh)}

	case CategoryKey:
		return &heuristicResult{action: ActionQuest,
			reason: heuristicReason("Quest/dungeon access item", ConfidenceHigh)}
	}

	// Equipment and augments are handled upstream; anything else falls
	// through to the ultimate fallback.
	return nil
}

func recipeScrollHeuristic(item loreexport.InventoryItem, char *loreexport.CharacterExport) *heuristicResult {
	name := item.Name
	if idx := strings.Index(name, ":"); idx > 0 {
		prefix := strings.TrimSpace(name[:idx])
		mapped := prefix
		if m, ok := recipeScrollSkills[prefix]; ok {
			mapped = m
		}
		level := char.SkillLevel(mapped)

		switch {
		case prefix == "Saddlery":
			return &heuristicResult{action: ActionKeep,
				reason: heuristicReason("Saddlery recipe - valuable for AH pet build", ConfidenceHigh)}
		case prefix == "Knife":
			return &heuristicResult{action: ActionSellAll,
				reason: heuristicReason(fmt.Sprintf("Knife combat not used - sell for %dg", item.Value), ConfidenceMedium)}
		case level >= 15:
			return &heuristicResult{action: ActionLevelLater,
				reason: heuristicReason(fmt.Sprintf("%s recipe - %s is level %d", prefix, mapped, level), ConfidenceMedium)}
		case level <= 3 && item.Value >= 200:
			return &heuristicResult{action: ActionSellAll,
				reason: heuristicReason(fmt.Sprintf("%s skill only level %d - sell for %dg", prefix, level, item.Value), ConfidenceMedium)}
		}
	}
	return &heuristicResult{action: ActionKeep, uncertain: true,
		reason: heuristicReason("Recipe - check if skill is worth leveling", ConfidenceLow)}
}

func craftingMatHeuristic(item loreexport.InventoryItem, char *loreexport.CharacterExport, keepQuantities map[string]int) *heuristicResult {
	name := item.Name

	if necroIngredients[name] {
		return &heuristicResult{action: ActionIngredient,
			reason: heuristicReason("Necromancy crafting material - keep for build", ConfidenceHigh)}
	}

	if skinNames[name] {
		tanning := char.SkillLevel("Tanning")
		keep := 15
		if q, ok := keepQuantities[name]; ok {
			keep = q
		}
		if item.StackSize > keep {
			return &heuristicResult{
				action:  ActionSellSome,
				reason:  heuristicReason(fmt.Sprintf("Keep %d for Tanning (level %d), sell rest", keep, tanning), ConfidenceMedium),
				keepQty: intPtr(keep),
			}
		}
		return &heuristicResult{action: ActionKeep,
			reason: heuristicReason(fmt.Sprintf("Tanning material (level %d)", tanning), ConfidenceMedium)}
	}

	if keep, ok := keepQuantities[name]; ok {
		if keep == 0 {
			return &heuristicResult{action: ActionSellAll,
				reason: heuristicReason("Low value, not actively used", ConfidenceMedium)}
		}
		if item.StackSize > keep {
			return &heuristicResult{
				action:  ActionSellSome,
				reason:  heuristicReason(fmt.Sprintf("Keep %d, sell %d", keep, item.StackSize-keep), ConfidenceMedium),
				keepQty: intPtr(keep),
			}
		}
	}
	return &heuristicResult{action: ActionKeep,
		reason: heuristicReason("Crafting material", ConfidenceLow)}
}
