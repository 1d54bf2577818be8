package catalog

import (
	"log/slog"
	"strconv"
	"strings"
)

// Indexes is the read-only cross-reference bundle derived from a parsed
// catalog. Building it is a pure function of the catalog snapshot: the same
// [Tables] always yields identical indexes. Multi-valued indexes accumulate
// in document order; ranking, where it matters, happens downstream.
type Indexes struct {
	// ItemsByID maps numeric item TypeIDs (parsed from "item_NNNNN" table
	// keys) to their catalog records.
	ItemsByID map[int]*Item

	// ItemsByInternalName maps item internal names to their records.
	ItemsByInternalName map[string]*Item

	// RecipesByName maps recipe internal names to their records.
	RecipesByName map[string]*Recipe

	// RecipesByIngredient maps an ingredient item TypeID to every recipe
	// that consumes it, in document order.
	RecipesByIngredient map[int][]*Recipe

	// QuestsByName maps quest internal names to their records.
	QuestsByName map[string]*Quest

	// QuestItemRequirements maps an item name (as it appears in
	// Collect/Deliver/Have objectives) to the quests requiring it.
	QuestItemRequirements map[string][]QuestItemReq

	// PowersByName maps treasure-system power internal names to records.
	PowersByName map[string]*Power

	// CombatSkills is the set of skill internal names flagged Combat.
	CombatSkills map[string]struct{}

	// SkillsByName maps skill internal names to their records.
	SkillsByName map[string]*Skill

	// SkillsByItemKeyword inverts each skill's AssociatedItemKeywords:
	// item keyword -> skills associated with it, in document order.
	SkillsByItemKeyword map[string][]string

	// VaultsByName maps storage-vault internal names to their records.
	VaultsByName map[string]*Vault

	// SourcesByItem maps item internal names to acquisition sources.
	SourcesByItem map[string]*ItemSource

	// AbilitiesByName maps ability internal names to their records.
	AbilitiesByName map[string]*Ability

	// NPCs lists every NPC in catalog document order. The gift matcher
	// scans this slice (rather than a map) so its output is deterministic.
	NPCs []NPCEntry
}

// NPCEntry pairs an NPC's internal name with its record.
type NPCEntry struct {
	ID  string
	NPC *NPC
}

// QuestItemReq records that a quest objective requires an item.
type QuestItemReq struct {
	QuestInternalName string
	QuestName         string
	ItemName          string
	Count             int
}

// itemKeyPrefix is the prefix on items-table keys ("item_12003" -> 12003).
const itemKeyPrefix = "item_"

// BuildIndexes derives the full cross-reference bundle from a parsed
// catalog. It never fails: items with no recipes, quests with no item
// objectives, NPCs with no preferences and so on simply contribute nothing
// to the corresponding indexes.
func BuildIndexes(t *Tables) *Indexes {
	idx := &Indexes{
		ItemsByID:             make(map[int]*Item, len(t.Items)),
		ItemsByInternalName:   make(map[string]*Item, len(t.Items)),
		RecipesByName:         make(map[string]*Recipe, len(t.Recipes)),
		RecipesByIngredient:   make(map[int][]*Recipe),
		QuestsByName:          make(map[string]*Quest, len(t.Quests)),
		QuestItemRequirements: make(map[string][]QuestItemReq),
		PowersByName:          make(map[string]*Power, len(t.Powers)),
		CombatSkills:          make(map[string]struct{}),
		SkillsByName:          make(map[string]*Skill, len(t.Skills)),
		SkillsByItemKeyword:   make(map[string][]string),
		VaultsByName:          make(map[string]*Vault, len(t.Vaults)),
		SourcesByItem:         make(map[string]*ItemSource, len(t.Sources)),
		AbilitiesByName:       make(map[string]*Ability, len(t.Abilities)),
	}

	for _, kv := range t.Items {
		if id, ok := parseItemKey(kv.Key); ok {
			idx.ItemsByID[id] = kv.Record
		} else {
			slog.Debug("catalog: skipping malformed item key", "key", kv.Key)
		}
		if kv.Record.InternalName != "" {
			idx.ItemsByInternalName[kv.Record.InternalName] = kv.Record
		}
	}

	for _, kv := range t.Recipes {
		idx.RecipesByName[kv.Key] = kv.Record
		for _, ing := range kv.Record.Ingredients {
			idx.RecipesByIngredient[ing.ItemCode] = append(idx.RecipesByIngredient[ing.ItemCode], kv.Record)
		}
	}

	for _, kv := range t.Quests {
		idx.QuestsByName[kv.Key] = kv.Record
		for _, obj := range kv.Record.Objectives {
			if obj.Type != "Collect" && obj.Type != "Deliver" && obj.Type != "Have" {
				continue
			}
			itemName := obj.ItemName
			if itemName == "" {
				itemName = obj.Target
			}
			if itemName == "" {
				continue
			}
			count := obj.Number
			if count <= 0 {
				count = 1
			}
			questName := kv.Record.Name
			if questName == "" {
				questName = kv.Key
			}
			idx.QuestItemRequirements[itemName] = append(idx.QuestItemRequirements[itemName], QuestItemReq{
				QuestInternalName: kv.Key,
				QuestName:         questName,
				ItemName:          itemName,
				Count:             count,
			})
		}
	}

	for _, kv := range t.Skills {
		idx.SkillsByName[kv.Key] = kv.Record
		if kv.Record.Combat {
			idx.CombatSkills[kv.Key] = struct{}{}
		}
		for _, kw := range kv.Record.AssociatedItemKeywords {
			idx.SkillsByItemKeyword[kw] = append(idx.SkillsByItemKeyword[kw], kv.Key)
		}
	}

	for _, kv := range t.Powers {
		idx.PowersByName[kv.Key] = kv.Record
	}

	for _, kv := range t.NPCs {
		idx.NPCs = append(idx.NPCs, NPCEntry{ID: kv.Key, NPC: kv.Record})
	}

	for _, kv := range t.Vaults {
		idx.VaultsByName[kv.Key] = kv.Record
	}

	for _, kv := range t.Sources {
		idx.SourcesByItem[kv.Key] = kv.Record
	}

	for _, kv := range t.Abilities {
		idx.AbilitiesByName[kv.Key] = kv.Record
	}

	return idx
}

// parseItemKey extracts the numeric TypeID from an items-table key of the
// form "item_12003". Keys without the prefix or a numeric suffix are
// rejected.
func parseItemKey(key string) (int, bool) {
	numStr, ok := strings.CutPrefix(key, itemKeyPrefix)
	if !ok {
		return 0, false
	}
	id, err := strconv.Atoi(numStr)
	if err != nil {
		return 0, false
	}
	return id, true
}

// Item returns the catalog record for the given TypeID, or nil when the
// catalog does not know the item. Callers treat nil as "no catalog data"
// and degrade gracefully.
func (idx *Indexes) Item(typeID int) *Item {
	return idx.ItemsByID[typeID]
}

// IsCombatSkill reports whether the named skill is flagged Combat.
func (idx *Indexes) IsCombatSkill(name string) bool {
	_, ok := idx.CombatSkills[name]
	return ok
}
