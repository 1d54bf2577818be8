package engine

import (
	"testing"

	"github.com/veyrane/stashwise/pkg/catalog"
	"github.com/veyrane/stashwise/pkg/loreexport"
)

func TestCategorize(t *testing.T) {
	tests := []struct {
		name    string
		item    loreexport.InventoryItem
		catItem *catalog.Item
		want    Category
	}{
		{"equip slot wins", loreexport.InventoryItem{Name: "Shoddy Sword", Slot: "MainHand"}, nil, CategoryEquipment},
		{"augment keyword", loreexport.InventoryItem{Name: "Nifty Thing"}, &catalog.Item{Keywords: []string{"Augment"}}, CategoryAugment},
		{"augment name", loreexport.InventoryItem{Name: "Max-Armor Augment"}, nil, CategoryAugment},
		{"painting", loreexport.InventoryItem{Name: "Unidentified Painting"}, nil, CategoryPainting},
		{"phlogiston", loreexport.InventoryItem{Name: "Crude Phlogiston"}, nil, CategoryPhlogiston},
		{"recipe scroll", loreexport.InventoryItem{Name: "Alchemy: Transmute Copper"}, nil, CategoryRecipeScroll},
		{"work order", loreexport.InventoryItem{Name: "Work Order: Cotton"}, nil, CategoryWorkOrder},
		{"gem keyword", loreexport.InventoryItem{Name: "Polished Stone"}, &catalog.Item{Keywords: []string{"Gem"}}, CategoryGem},
		{"gem name", loreexport.InventoryItem{Name: "Amber"}, nil, CategoryGem},
		{"key", loreexport.InventoryItem{Name: "Gulagra's Sigil Key"}, nil, CategoryKey},
		{"tool", loreexport.InventoryItem{Name: "Butcher Knife"}, nil, CategoryTool},
		{"storage crate", loreexport.InventoryItem{Name: "Small Storage Crate"}, nil, CategoryTool},
		{"potion", loreexport.InventoryItem{Name: "Healing Potion"}, nil, CategoryPotion},
		{"food pattern", loreexport.InventoryItem{Name: "Bacon Sandwich"}, nil, CategoryFoodIngredient},
		{"food raw", loreexport.InventoryItem{Name: "Pork Shoulder"}, nil, CategoryFoodIngredient},
		{"gardening", loreexport.InventoryItem{Name: "Strange Dirt"}, nil, CategoryGardening},
		{"seeds", loreexport.InventoryItem{Name: "Mystery Seeds"}, nil, CategoryGardening},
		{"fun", loreexport.InventoryItem{Name: "Small Firework"}, nil, CategoryFun},
		{"necro mat", loreexport.InventoryItem{Name: "Femur"}, nil, CategoryCraftingMat},
		{"crafting pattern", loreexport.InventoryItem{Name: "Oak Wood"}, nil, CategoryCraftingMat},
		{"animal part", loreexport.InventoryItem{Name: "Wolf Claw"}, nil, CategoryAnimalPart},
		{"currency", loreexport.InventoryItem{Name: "Ancient Silver Coin"}, nil, CategoryCurrency},
		{"first aid", loreexport.InventoryItem{Name: "Simple First Aid Kit"}, nil, CategoryConsumable},
		{"junk", loreexport.InventoryItem{Name: "Grass"}, nil, CategoryJunk},
		{"unknown defaults to misc", loreexport.InventoryItem{Name: "Mystery Object"}, nil, CategoryCurrency},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := Categorize(tc.item, tc.catItem); got != tc.want {
				t.Errorf("Categorize(%q) = %s, want %s", tc.item.Name, got, tc.want)
			}
		})
	}
}

func TestIsEquipment(t *testing.T) {
	if !IsEquipment(loreexport.InventoryItem{Slot: "Head"}) {
		t.Error("Head slot should be equipment")
	}
	if IsEquipment(loreexport.InventoryItem{Slot: ""}) {
		t.Error("slotless item should not be equipment")
	}
	if IsEquipment(loreexport.InventoryItem{Slot: "Backpack"}) {
		t.Error("unknown slot should not be equipment")
	}
}
