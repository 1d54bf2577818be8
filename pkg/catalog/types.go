// Package catalog models the static Project Gorgon game-content catalog
// (the CDN "data" tables) and builds the cross-reference indexes the
// recommendation engine consumes.
//
// The catalog is immutable once loaded: [ParseTables] turns the raw JSON
// tables into typed records and [BuildIndexes] derives the read-only lookup
// bundle. Both are total — malformed records and keys are skipped with a
// warning, never a failure — so a partially corrupt catalog still yields a
// usable (if smaller) index set.
package catalog

// TableName identifies one of the flat CDN data tables.
type TableName string

// The nine tables the advisor consumes. Each is a flat JSON object keyed by
// internal-name string.
const (
	TableItems     TableName = "items"
	TableRecipes   TableName = "recipes"
	TableQuests    TableName = "quests"
	TableSkills    TableName = "skills"
	TableNPCs      TableName = "npcs"
	TableSources   TableName = "sources_items"
	TableVaults    TableName = "storagevaults"
	TablePowers    TableName = "tsysclientinfo"
	TableAbilities TableName = "abilities"
)

// TableNames lists all tables in fetch order.
var TableNames = []TableName{
	TableItems, TableRecipes, TableQuests, TableSkills, TableNPCs,
	TableSources, TableVaults, TablePowers, TableAbilities,
}

// Item is one entry of the items table, keyed by "item_<TypeID>".
type Item struct {
	Name               string         `json:"Name"`
	InternalName       string         `json:"InternalName"`
	Keywords           []string       `json:"Keywords"`
	Behaviors          []ItemBehavior `json:"Behaviors,omitempty"`
	Value              int            `json:"Value,omitempty"`
	IconID             int            `json:"IconId,omitempty"`
	Description        string         `json:"Description,omitempty"`
	MacGuffinQuestName string         `json:"MacGuffinQuestName,omitempty"`
	EquipSlot          string         `json:"EquipSlot,omitempty"`
	MaxStackSize       int            `json:"MaxStackSize,omitempty"`
	SkillReqs          map[string]int `json:"SkillReqs,omitempty"`
}

// HasKeyword reports whether the item carries the given catalog keyword.
func (it *Item) HasKeyword(kw string) bool {
	for _, k := range it.Keywords {
		if k == kw {
			return true
		}
	}
	return false
}

// Usable reports whether any behavior gives the item a use action
// (a non-empty UseVerb), which is what makes it a consumable.
func (it *Item) Usable() bool {
	if it == nil {
		return false
	}
	for _, b := range it.Behaviors {
		if b.UseVerb != "" {
			return true
		}
	}
	return false
}

// ItemBehavior is one interactive behavior attached to an item.
type ItemBehavior struct {
	UseVerb         string   `json:"UseVerb,omitempty"`
	UseRequirements []string `json:"UseRequirements,omitempty"`
	UseAnimation    string   `json:"UseAnimation,omitempty"`
}

// Recipe is one entry of the recipes table, keyed by recipe InternalName.
type Recipe struct {
	InternalName  string             `json:"InternalName"`
	Name          string             `json:"Name,omitempty"`
	Description   string             `json:"Description,omitempty"`
	Skill         string             `json:"Skill"`
	SkillLevelReq int                `json:"SkillLevelReq"`
	Ingredients   []RecipeIngredient `json:"Ingredients"`
	ResultItems   []RecipeResult     `json:"ResultItems"`
}

// DisplayName returns the recipe's display name, falling back to its
// internal name.
func (r *Recipe) DisplayName() string {
	if r.Name != "" {
		return r.Name
	}
	return r.InternalName
}

// RecipeIngredient is one required input stack for a recipe.
type RecipeIngredient struct {
	ItemCode  int      `json:"ItemCode"`
	StackSize int      `json:"StackSize"`
	ItemKeys  []string `json:"ItemKeys,omitempty"`
}

// RecipeResult is one output stack of a recipe.
type RecipeResult struct {
	ItemCode  int `json:"ItemCode"`
	StackSize int `json:"StackSize"`
}

// Quest is one entry of the quests table, keyed by quest InternalName.
type Quest struct {
	InternalName string           `json:"InternalName"`
	Name         string           `json:"Name,omitempty"`
	Description  string           `json:"Description,omitempty"`
	Objectives   []QuestObjective `json:"Objectives,omitempty"`
	FavorNpc     string           `json:"FavorNpc,omitempty"`
	Level        int              `json:"Level,omitempty"`
}

// QuestObjective is one step of a quest. Collect/Deliver/Have objectives
// name an item the player must hold.
type QuestObjective struct {
	Type        string `json:"Type"`
	Target      string `json:"Target,omitempty"`
	ItemName    string `json:"ItemName,omitempty"`
	Number      int    `json:"Number,omitempty"`
	Description string `json:"Description,omitempty"`
}

// Skill is one entry of the skills table, keyed by skill InternalName.
type Skill struct {
	ID                         int      `json:"Id"`
	Name                       string   `json:"Name,omitempty"`
	Combat                     bool     `json:"Combat"`
	TSysCompatibleCombatSkills []string `json:"TSysCompatibleCombatSkills,omitempty"`
	CompatibleCombatSkills     []string `json:"CompatibleCombatSkills,omitempty"`
	AssociatedItemKeywords     []string `json:"AssociatedItemKeywords,omitempty"`
	MaxLevel                   int      `json:"MaxLevel,omitempty"`
	Parents                    []string `json:"Parents,omitempty"`
}

// CompatibleWith reports whether other is listed as a compatible combat
// skill of s (either compatibility list counts).
func (s *Skill) CompatibleWith(other string) bool {
	if s == nil {
		return false
	}
	for _, c := range s.TSysCompatibleCombatSkills {
		if c == other {
			return true
		}
	}
	for _, c := range s.CompatibleCombatSkills {
		if c == other {
			return true
		}
	}
	return false
}

// NPC is one entry of the npcs table, keyed by NPC internal name
// (e.g. "NPC_Joe").
type NPC struct {
	Name        string          `json:"Name"`
	AreaName    string          `json:"AreaName,omitempty"`
	Preferences []NPCPreference `json:"Preferences,omitempty"`
}

// NPCPreference is one gift preference: Keywords are AND-combined — an item
// must satisfy every keyword for the preference to apply. Keywords may be
// literal catalog keywords or virtual predicates ("SkillPrereq:X",
// "EquipmentSlot:X", "MinRarity:X").
type NPCPreference struct {
	Desire   string   `json:"Desire"`
	Keywords []string `json:"Keywords"`
	Pref     float64  `json:"Pref"`
	Favor    string   `json:"Favor,omitempty"`
}

// Vault is one entry of the storagevaults table, keyed by vault internal
// name. A vault has either a fixed slot count (NumSlots) or a favor-tiered
// map of slot counts (Levels).
type Vault struct {
	NpcFriendlyName string            `json:"NpcFriendlyName"`
	Area            string            `json:"Area"`
	ID              int               `json:"ID"`
	NumSlots        int               `json:"NumSlots,omitempty"`
	Levels          map[string]int    `json:"Levels,omitempty"`
	Grouping        string            `json:"Grouping,omitempty"`
	Requirements    map[string]string `json:"Requirements,omitempty"`
}

// Power is one entry of the tsysclientinfo table: a treasure-system
// equipment power, keyed by power InternalName.
type Power struct {
	InternalName string      `json:"InternalName"`
	Prefix       string      `json:"Prefix,omitempty"`
	Suffix       string      `json:"Suffix,omitempty"`
	Skill        string      `json:"Skill,omitempty"`
	Slots        []string    `json:"Slots,omitempty"`
	Tiers        []PowerTier `json:"Tiers,omitempty"`
}

// PowerTier describes one tier of a power's effect ladder.
type PowerTier struct {
	EffectDescs      []string `json:"EffectDescs,omitempty"`
	MinLevel         int      `json:"MinLevel,omitempty"`
	MinRarity        string   `json:"MinRarity,omitempty"`
	SkillLevelPrereq int      `json:"SkillLevelPrereq,omitempty"`
}

// ItemSource is one entry of the sources_items table, keyed by item
// InternalName: the known acquisition methods for an item.
type ItemSource struct {
	Sources []Source `json:"Sources"`
}

// Source is one acquisition method.
type Source struct {
	Type  string `json:"Type"`
	Npc   string `json:"Npc,omitempty"`
	Area  string `json:"Area,omitempty"`
	Quest string `json:"Quest,omitempty"`
}

// Ability is one entry of the abilities table, keyed by ability
// InternalName.
type Ability struct {
	InternalName string `json:"InternalName"`
	Name         string `json:"Name,omitempty"`
	Skill        string `json:"Skill,omitempty"`
	Level        int    `json:"Level,omitempty"`
	Description  string `json:"Description,omitempty"`
}

// Tables holds the fully parsed catalog: every table as an ordered list of
// key/record pairs. Order follows the source document, which gives all
// downstream iteration a stable, deterministic sequence.
type Tables struct {
	Items     []Keyed[*Item]
	Recipes   []Keyed[*Recipe]
	Quests    []Keyed[*Quest]
	Skills    []Keyed[*Skill]
	NPCs      []Keyed[*NPC]
	Sources   []Keyed[*ItemSource]
	Vaults    []Keyed[*Vault]
	Powers    []Keyed[*Power]
	Abilities []Keyed[*Ability]

	// Skipped counts records per table that failed to decode and were
	// dropped during parsing.
	Skipped map[TableName]int
}

// Keyed pairs a table key with its decoded record, preserving document order.
type Keyed[T any] struct {
	Key    string
	Record T
}
