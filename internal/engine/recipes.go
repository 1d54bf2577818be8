package engine

import (
	"fmt"

	"github.com/veyrane/stashwise/pkg/catalog"
	"github.com/veyrane/stashwise/pkg/loreexport"
)

// RecipeMatch pairs a recipe consuming the item with the character's
// craftability status for it.
type RecipeMatch struct {
	Recipe      *catalog.Recipe
	CanCraftNow bool
	Reason      string
}

// AnalyzeRecipeUses finds every recipe that consumes the item as an
// ingredient and cross-references the character's known recipes and skill
// levels. Matches follow catalog document order.
func AnalyzeRecipeUses(item loreexport.InventoryItem, char *loreexport.CharacterExport, idx *catalog.Indexes) []RecipeMatch {
	recipes := idx.RecipesByIngredient[item.TypeID]
	if len(recipes) == 0 {
		return nil
	}

	matches := make([]RecipeMatch, 0, len(recipes))
	for _, recipe := range recipes {
		hasRecipe := char.KnowsRecipe(recipe.InternalName)
		skillLevel := char.SkillLevel(recipe.Skill)
		meetsLevel := skillLevel >= recipe.SkillLevelReq
		canCraftNow := hasRecipe && meetsLevel

		var reason string
		switch {
		case canCraftNow:
			reason = fmt.Sprintf("Can craft now: %s (%s %d)", recipe.DisplayName(), recipe.Skill, recipe.SkillLevelReq)
		case hasRecipe:
			reason = fmt.Sprintf("Recipe known, need %s %d (you have %d)", recipe.Skill, recipe.SkillLevelReq, skillLevel)
		case meetsLevel:
			reason = fmt.Sprintf("Need recipe: %s (%s)", recipe.DisplayName(), recipe.Skill)
		default:
			reason = fmt.Sprintf("Future: %s (%s %d)", recipe.DisplayName(), recipe.Skill, recipe.SkillLevelReq)
		}

		matches = append(matches, RecipeMatch{Recipe: recipe, CanCraftNow: canCraftNow, Reason: reason})
	}
	return matches
}

// RecipeKeepQuantity computes how many of the item to stock for crafting,
// summed across every recipe the character has a connection to (knows it,
// or has levels in its skill). Known recipes count their ingredient stack
// tenfold, speculative ones threefold. The total is capped at the item's
// MaxStackSize. Returns 0 when no recipe motivates keeping any.
func RecipeKeepQuantity(item loreexport.InventoryItem, char *loreexport.CharacterExport, idx *catalog.Indexes) int {
	recipes := idx.RecipesByIngredient[item.TypeID]
	if len(recipes) == 0 {
		return 0
	}

	total := 0
	for _, recipe := range recipes {
		hasRecipe := char.KnowsRecipe(recipe.InternalName)
		skillLevel := char.SkillLevel(recipe.Skill)
		if !hasRecipe && skillLevel <= 0 {
			continue
		}
		for _, ing := range recipe.Ingredients {
			if ing.ItemCode != item.TypeID {
				continue
			}
			mult := 3
			if hasRecipe {
				mult = 10
			}
			total += ing.StackSize * mult
		}
	}
	if total == 0 {
		return 0
	}

	if catItem := idx.Item(item.TypeID); catItem != nil && catItem.MaxStackSize > 0 && total > catItem.MaxStackSize {
		total = catItem.MaxStackSize
	}
	return total
}

// recipeSellBuffer is the surplus threshold above the keep quantity at
// which a partial sell becomes worth suggesting: at least 5 extra, or 20%
// over the keep quantity, whichever is larger.
func recipeSellBuffer(keep int) int {
	buffer := keep + 5
	if pct := keep + (keep+4)/5; pct > buffer {
		buffer = pct
	}
	return buffer
}
