package loreexport

import (
	"strings"
	"testing"
)

const inventoryJSON = `{
	"Character": "Veyrane",
	"Report": "Storage",
	"ReportVersion": 1,
	"Items": [
		{"TypeID": 101, "Name": "Rotten Meat", "StackSize": 10, "Value": 3},
		{"TypeID": 102, "Name": "Amber", "StorageVault": "SerbuleBank", "StackSize": 12, "Value": 100}
	]
}`

const characterJSON = `{
	"Character": "Veyrane",
	"Report": "CharacterSheet",
	"ReportVersion": 1,
	"Skills": {
		"Sword": {"Level": 62, "Abilities": ["Slice1", "Slice2"]},
		"Cooking": {"Level": 31}
	},
	"RecipeCompletions": {"ApplePie": 4},
	"ActiveQuests": ["Quest_BrokenKey"],
	"NPCs": {"NPC_Joeh": {"FavorLevel": "Close Friends"}}
}`

func TestDetect_Inventory(t *testing.T) {
	res, err := Detect([]byte(inventoryJSON))
	if err != nil {
		t.Fatalf("Detect: %v", err)
	}
	if res.Kind != KindInventory {
		t.Fatalf("kind = %q, want %q", res.Kind, KindInventory)
	}
	if res.Inventory.Character != "Veyrane" {
		t.Errorf("character = %q, want Veyrane", res.Inventory.Character)
	}
	if len(res.Inventory.Items) != 2 {
		t.Fatalf("got %d items, want 2", len(res.Inventory.Items))
	}
	// Vaultless items get the sentinel assigned.
	if got := res.Inventory.Items[0].StorageVault; got != PlayerInventory {
		t.Errorf("vaultless item StorageVault = %q, want sentinel", got)
	}
	if res.Summary != "2 items across 2 locations" {
		t.Errorf("summary = %q", res.Summary)
	}
}

func TestDetect_Character(t *testing.T) {
	res, err := Detect([]byte(characterJSON))
	if err != nil {
		t.Fatalf("Detect: %v", err)
	}
	if res.Kind != KindCharacter {
		t.Fatalf("kind = %q, want %q", res.Kind, KindCharacter)
	}
	char := res.Character
	if got := char.SkillLevel("Sword"); got != 62 {
		t.Errorf("SkillLevel(Sword) = %d, want 62", got)
	}
	if got := char.SkillLevel("Staff"); got != 0 {
		t.Errorf("SkillLevel(Staff) = %d, want 0 for absent skill", got)
	}
	if !char.KnowsRecipe("ApplePie") {
		t.Error("KnowsRecipe(ApplePie) = false, want true")
	}
	if !char.KnowsAbility("Slice2") {
		t.Error("KnowsAbility(Slice2) = false, want true")
	}
	if char.KnowsAbility("Fireball1") {
		t.Error("KnowsAbility(Fireball1) = true, want false")
	}
	if got := char.FavorWith("NPC_Joeh"); got != "Close Friends" {
		t.Errorf("FavorWith(NPC_Joeh) = %q", got)
	}
	if got := char.FavorWith("NPC_Unknown"); got != "Unknown" {
		t.Errorf("FavorWith on missing NPC = %q, want Unknown", got)
	}
}

func TestDetect_Rejections(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"not json", "hello", "not valid JSON"},
		{"unknown report", `{"Report": "Bank"}`, "unrecognised"},
		{"inventory without items", `{"Report": "Storage", "Character": "V", "Items": []}`, "no items"},
		{"inventory without character", `{"Report": "Storage", "Items": [{"TypeID": 1, "Name": "X", "StackSize": 1}]}`, "character name"},
		{"item missing TypeID", `{"Report": "Storage", "Character": "V", "Items": [{"Name": "X", "StackSize": 1}]}`, "TypeID"},
		{"character without skills", `{"Report": "CharacterSheet", "Character": "V"}`, "Skills"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Detect([]byte(tc.raw))
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Errorf("error %q should contain %q", err, tc.want)
			}
		})
	}
}
