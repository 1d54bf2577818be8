package engine

import (
	"testing"

	"github.com/veyrane/stashwise/pkg/catalog"
	"github.com/veyrane/stashwise/pkg/loreexport"
)

func TestScoreGear(t *testing.T) {
	idx := testIndexes()
	char := testCharacter()
	build := DetectBuild(char, idx)

	t.Run("no powers scores zero", func(t *testing.T) {
		item := loreexport.InventoryItem{Name: "Shoddy Sword", Slot: "MainHand", Level: 62, Rarity: "Legendary"}
		if got := ScoreGear(item, char, build, idx); got != 0 {
			t.Errorf("score = %d, want 0", got)
		}
	})

	t.Run("perfect fit", func(t *testing.T) {
		// Both powers on a build skill at max tier, level matching the
		// player's combat level, legendary rarity:
		// 40 (skill) + 25 (level) + 15 (rarity) + 10 (2 powers x5 quality).
		item := loreexport.InventoryItem{
			Name: "Masterwork Sword", Slot: "MainHand", Level: 62, Rarity: "Legendary",
			TSysPowers: []loreexport.ItemPower{
				{Tier: 20, Power: "PowerSwordCrit"},
				{Tier: 20, Power: "PowerSwordCrit"},
			},
		}
		if got := ScoreGear(item, char, build, idx); got != 90 {
			t.Errorf("score = %d, want 90", got)
		}
	})

	t.Run("off-build powers", func(t *testing.T) {
		// Staff powers on a sword/archery build: no skill or quality
		// points, level band 8 pts (diff 12), no rarity.
		item := loreexport.InventoryItem{
			Name: "Fire Staff", Slot: "MainHand", Level: 50,
			TSysPowers: []loreexport.ItemPower{{Tier: 10, Power: "PowerStaffFire"}},
		}
		if got := ScoreGear(item, char, build, idx); got != 8 {
			t.Errorf("score = %d, want 8", got)
		}
	})
}

func TestGearSkills(t *testing.T) {
	idx := testIndexes()
	item := loreexport.InventoryItem{
		TSysPowers: []loreexport.ItemPower{
			{Tier: 5, Power: "PowerStaffFire"},
			{Tier: 5, Power: "PowerSwordCrit"},
			{Tier: 3, Power: "PowerSwordCrit"},
			{Tier: 1, Power: "NoSuchPower"},
		},
	}
	got := GearSkills(item, idx)
	if len(got) != 2 || got[0] != "Staff" || got[1] != "Sword" {
		t.Errorf("skills = %v, want sorted distinct [Staff Sword]", got)
	}
}

func TestInferGearSkills(t *testing.T) {
	tables := testTables()
	tables.Items = append(tables.Items, catalog.Keyed[*catalog.Item]{
		Key: "item_202", Record: &catalog.Item{
			Name: "Quenched Blade", InternalName: "QuenchedBlade",
			Keywords: []string{"SwordWeapon"}},
	}, catalog.Keyed[*catalog.Item]{
		Key: "item_203", Record: &catalog.Item{
			Name: "Longsword of Woe", InternalName: "LongswordOfWoe"},
	})
	idx := catalog.BuildIndexes(tables)

	// Keyword path: the Sword skill lists SwordWeapon as an associated
	// item keyword.
	got := InferGearSkills(loreexport.InventoryItem{TypeID: 202, Name: "Quenched Blade"}, idx)
	if len(got) != 1 || got[0] != "Sword" {
		t.Errorf("keyword inference = %v, want [Sword]", got)
	}

	// Name path: no keywords, but the item name contains the skill name.
	got = InferGearSkills(loreexport.InventoryItem{TypeID: 203, Name: "Longsword of Woe"}, idx)
	if len(got) != 1 || got[0] != "Sword" {
		t.Errorf("name inference = %v, want [Sword]", got)
	}

	if got := InferGearSkills(loreexport.InventoryItem{TypeID: 99999, Name: "Ghost Item"}, idx); got != nil {
		t.Errorf("unknown item inference = %v, want nil", got)
	}
}
