package engine

import (
	"testing"

	"github.com/veyrane/stashwise/pkg/catalog"
	"github.com/veyrane/stashwise/pkg/loreexport"
)

func TestAnalyzeConsumable_ScrollVerdicts(t *testing.T) {
	idx := testIndexes()

	t.Run("learnable now", func(t *testing.T) {
		res := AnalyzeConsumable(loreexport.InventoryItem{TypeID: 401, Name: "Sword: Parry"},
			idx.Item(401), testCharacter(), idx)
		if res.Verdict != ConsumableUsable || res.Reason != "Learn Parry (Sword 50)" {
			t.Errorf("got %d %q", res.Verdict, res.Reason)
		}
	})

	t.Run("within leveling reach", func(t *testing.T) {
		// Riposte needs Sword 70; the character is at 62, 8 short.
		res := AnalyzeConsumable(loreexport.InventoryItem{TypeID: 402, Name: "Sword: Riposte"},
			idx.Item(402), testCharacter(), idx)
		if res.Verdict != ConsumableLevelLater {
			t.Fatalf("verdict = %d, want level-later", res.Verdict)
		}
		if res.Reason != "Save until Sword 70 (you have 62)" {
			t.Errorf("reason = %q", res.Reason)
		}
	})

	t.Run("already known", func(t *testing.T) {
		char := testCharacter()
		sword := char.Skills["Sword"]
		sword.Abilities = append(sword.Abilities, "ParrySword")
		char.Skills["Sword"] = sword

		res := AnalyzeConsumable(loreexport.InventoryItem{TypeID: 401, Name: "Sword: Parry"},
			idx.Item(401), char, idx)
		if res.Verdict != ConsumableAlreadyKnown || res.Reason != "Already know Parry" {
			t.Errorf("got %d %q", res.Verdict, res.Reason)
		}
	})

	t.Run("skill never started", func(t *testing.T) {
		char := testCharacter()
		delete(char.Skills, "Sword")

		res := AnalyzeConsumable(loreexport.InventoryItem{TypeID: 401, Name: "Sword: Parry"},
			idx.Item(401), char, idx)
		if res.Verdict != ConsumableNotUseful {
			t.Errorf("verdict = %d, want not-useful for an unstarted skill", res.Verdict)
		}
	})
}

func TestAnalyzeConsumable_SkillPrereqs(t *testing.T) {
	idx := testIndexes()
	char := testCharacter()

	withReqs := &catalog.Item{
		Name:      "Fancy Tonic",
		Behaviors: []catalog.ItemBehavior{{UseVerb: "Drink"}},
		SkillReqs: map[string]int{"Cooking": 40},
	}
	res := AnalyzeConsumable(loreexport.InventoryItem{Name: "Fancy Tonic"}, withReqs, char, idx)
	if res.Verdict != ConsumableLevelLater || res.Reason != "Save until Cooking 40 (you have 31)" {
		t.Errorf("got %d %q, want level-later within reach", res.Verdict, res.Reason)
	}

	farOff := &catalog.Item{
		Name:      "Master Tonic",
		Behaviors: []catalog.ItemBehavior{{UseVerb: "Drink"}},
		SkillReqs: map[string]int{"Alchemy": 30},
	}
	res = AnalyzeConsumable(loreexport.InventoryItem{Name: "Master Tonic"}, farOff, char, idx)
	if res.Verdict != ConsumableNotUseful || res.Reason != "Requires Alchemy 30 (you have 0)" {
		t.Errorf("got %d %q, want not-useful", res.Verdict, res.Reason)
	}
}

func TestAnalyzeConsumable_Outleveled(t *testing.T) {
	idx := testIndexes()
	plain := &catalog.Item{Name: "Weak Snackbar", Behaviors: []catalog.ItemBehavior{{UseVerb: "Eat"}}}

	// Item level 30 against a level-62 character is past the outlevel gap.
	res := AnalyzeConsumable(loreexport.InventoryItem{Name: "Weak Snackbar", Level: 30},
		plain, testCharacter(), idx)
	if res.Verdict != ConsumableNotUseful {
		t.Errorf("verdict = %d, want not-useful for outleveled item", res.Verdict)
	}
}

func TestAnalyzeConsumable_KeywordClasses(t *testing.T) {
	idx := testIndexes()
	char := testCharacter()

	res := AnalyzeConsumable(loreexport.InventoryItem{TypeID: 301, Name: "Onion"}, idx.Item(301), char, idx)
	if res.Verdict != ConsumableUsable || res.Reason != "Food item - eat if new for Gourmand XP (Gourmand 17)" {
		t.Errorf("food: got %d %q", res.Verdict, res.Reason)
	}

	potion := &catalog.Item{Name: "Odd Brew", Keywords: []string{"Potion"},
		Behaviors: []catalog.ItemBehavior{{UseVerb: "Drink"}}}
	res = AnalyzeConsumable(loreexport.InventoryItem{Name: "Odd Brew"}, potion, char, idx)
	if res.Verdict != ConsumableCombatSupply {
		t.Errorf("potion: verdict = %d, want combat-supply", res.Verdict)
	}

	kit := &catalog.Item{Name: "First Aid Kit IV", Behaviors: []catalog.ItemBehavior{{UseVerb: "Use"}}}
	res = AnalyzeConsumable(loreexport.InventoryItem{Name: "First Aid Kit IV"}, kit, char, idx)
	if res.Verdict != ConsumableCombatSupply {
		t.Errorf("kit: verdict = %d, want combat-supply", res.Verdict)
	}
}

func TestAnalyzeConsumable_NotUsable(t *testing.T) {
	idx := testIndexes()
	res := AnalyzeConsumable(loreexport.InventoryItem{TypeID: 102, Name: "Amber"},
		idx.Item(102), testCharacter(), idx)
	if res.Verdict != ConsumableNotUseful {
		t.Errorf("verdict = %d, want not-useful for an item with no use action", res.Verdict)
	}

	res = AnalyzeConsumable(loreexport.InventoryItem{Name: "Nothing"}, nil, testCharacter(), idx)
	if res.Verdict != ConsumableNotUseful {
		t.Errorf("verdict = %d, want not-useful for an unknown item", res.Verdict)
	}
}

func TestResolveScrollAbility(t *testing.T) {
	idx := testIndexes()

	if ab := resolveScrollAbility("Sword: Parry", idx); ab == nil || ab.InternalName != "ParrySword" {
		t.Errorf("got %+v, want ParrySword", ab)
	}
	if ab := resolveScrollAbility("Sword: Nonexistent", idx); ab != nil {
		t.Errorf("got %+v, want nil for unknown ability", ab)
	}
	if ab := resolveScrollAbility("Not a scroll", idx); ab != nil {
		t.Errorf("got %+v, want nil for non-scroll name", ab)
	}
}
