// Package loreexport defines the JSON structures produced by the in-game
// "Lore Exporter" addon and the detection/validation logic for imported
// export files.
//
// Two report kinds exist:
//
//   - "Storage": a full inventory snapshot, one [InventoryItem] per
//     physically distinct stack ([InventoryExport]).
//   - "CharacterSheet": skill levels, recipe completions, active quests and
//     NPC favor standings ([CharacterExport]).
//
// Use [Detect] to classify and validate an unknown uploaded file. Malformed
// files are rejected here; downstream analysis assumes well-formed inputs.
package loreexport

// PlayerInventory is the sentinel vault name assigned to items that carry no
// StorageVault field (items in the player's bags or currently equipped).
const PlayerInventory = "__PlayerInventory__"

// InventoryExport is the raw "Storage" report.
type InventoryExport struct {
	Character     string          `json:"Character"`
	Timestamp     string          `json:"Timestamp"`
	Report        string          `json:"Report"`
	ReportVersion int             `json:"ReportVersion"`
	Items         []InventoryItem `json:"Items"`
}

// InventoryItem is one physically distinct item stack from the export.
type InventoryItem struct {
	TypeID       int         `json:"TypeID"`
	StorageVault string      `json:"StorageVault,omitempty"`
	StackSize    int         `json:"StackSize"`
	Value        int         `json:"Value"`
	Name         string      `json:"Name"`
	Rarity       string      `json:"Rarity,omitempty"`
	Slot         string      `json:"Slot,omitempty"`
	Level        int         `json:"Level,omitempty"`
	Durability   int         `json:"Durability,omitempty"`
	CraftPoints  int         `json:"CraftPoints,omitempty"`
	TSysPowers   []ItemPower `json:"TSysPowers,omitempty"`
}

// ItemPower is one treasure-system power rolled on an equipment instance.
type ItemPower struct {
	Tier  int    `json:"Tier"`
	Power string `json:"Power"`
}

// TotalValue returns the vendor value of the whole stack.
func (it InventoryItem) TotalValue() int {
	return it.Value * it.StackSize
}

// Vault returns the owning vault, substituting [PlayerInventory] when the
// export omitted the field.
func (it InventoryItem) Vault() string {
	if it.StorageVault == "" {
		return PlayerInventory
	}
	return it.StorageVault
}

// CharacterExport is the raw "CharacterSheet" report.
type CharacterExport struct {
	Character           string                    `json:"Character"`
	Timestamp           string                    `json:"Timestamp"`
	Report              string                    `json:"Report"`
	ReportVersion       int                       `json:"ReportVersion"`
	Race                string                    `json:"Race"`
	Skills              map[string]CharacterSkill `json:"Skills"`
	RecipeCompletions   map[string]int            `json:"RecipeCompletions"`
	CurrentStats        map[string]float64        `json:"CurrentStats"`
	ActiveQuests        []string                  `json:"ActiveQuests"`
	ActiveWorkOrders    []string                  `json:"ActiveWorkOrders"`
	CompletedWorkOrders []string                  `json:"CompletedWorkOrders"`
	NPCs                map[string]NPCStanding    `json:"NPCs"`
}

// CharacterSkill is the character's progress in one skill.
type CharacterSkill struct {
	Level                int      `json:"Level"`
	BonusLevels          int      `json:"BonusLevels"`
	XpTowardNextLevel    int      `json:"XpTowardNextLevel"`
	XpNeededForNextLevel int      `json:"XpNeededForNextLevel"` // -1 means maxed
	Abilities            []string `json:"Abilities,omitempty"`
}

// NPCStanding is the character's relationship with one NPC.
type NPCStanding struct {
	FavorLevel string `json:"FavorLevel"`
}

// SkillLevel returns the character's level in the named skill, or 0 when the
// skill is absent from the export.
func (c *CharacterExport) SkillLevel(name string) int {
	if c == nil {
		return 0
	}
	return c.Skills[name].Level
}

// KnowsRecipe reports whether the character has the named recipe in their
// completion list.
func (c *CharacterExport) KnowsRecipe(internalName string) bool {
	if c == nil {
		return false
	}
	_, ok := c.RecipeCompletions[internalName]
	return ok
}

// KnowsAbility reports whether the named ability appears in any skill's
// learned-ability list.
func (c *CharacterExport) KnowsAbility(internalName string) bool {
	if c == nil {
		return false
	}
	for _, skill := range c.Skills {
		for _, ab := range skill.Abilities {
			if ab == internalName {
				return true
			}
		}
	}
	return false
}

// FavorWith returns the character's favor level toward the NPC with the
// given internal name, or "Unknown" when no standing is recorded.
func (c *CharacterExport) FavorWith(npcID string) string {
	if c == nil {
		return "Unknown"
	}
	standing, ok := c.NPCs[npcID]
	if !ok {
		return "Unknown"
	}
	return standing.FavorLevel
}
