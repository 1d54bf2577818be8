package engine

import (
	"sort"
	"strings"

	"github.com/veyrane/stashwise/pkg/catalog"
	"github.com/veyrane/stashwise/pkg/loreexport"
)

// giftLowValueThreshold is the vendor value below which a merely liked item
// is still worth gifting instead of selling.
const giftLowValueThreshold = 50

// GiftSuggestion names an NPC who would appreciate the item as a gift.
type GiftSuggestion struct {
	NPCID       string  `json:"npcId"`
	NPCName     string  `json:"npcName"`
	Desire      string  `json:"desire"`
	Pref        float64 `json:"pref"`
	PlayerFavor string  `json:"playerFavor"`
}

// MatchesGiftKeyword reports whether one preference keyword matches the
// item. Literal keywords check the catalog keyword set; three virtual
// predicate forms check item fields instead:
//
//	SkillPrereq:X    item requires skill X
//	EquipmentSlot:X  item equips to slot X
//	MinRarity:X      the inventory instance's rarity is at least X
func MatchesGiftKeyword(keyword string, catItem *catalog.Item, item loreexport.InventoryItem) bool {
	if skill, ok := strings.CutPrefix(keyword, "SkillPrereq:"); ok {
		_, has := catItem.SkillReqs[skill]
		return has
	}
	if slot, ok := strings.CutPrefix(keyword, "EquipmentSlot:"); ok {
		return catItem.EquipSlot == slot
	}
	if required, ok := strings.CutPrefix(keyword, "MinRarity:"); ok {
		if item.Rarity == "" {
			return false
		}
		return catalog.RarityRank(item.Rarity) >= catalog.RarityRank(required)
	}
	return catItem.HasKeyword(keyword)
}

// matchesPreference applies a preference's keywords with AND logic: every
// keyword must match for the preference to apply. Preferences with no
// keywords never match.
func matchesPreference(pref catalog.NPCPreference, catItem *catalog.Item, item loreexport.InventoryItem) bool {
	if len(pref.Keywords) == 0 {
		return false
	}
	for _, kw := range pref.Keywords {
		if !MatchesGiftKeyword(kw, catItem, item) {
			return false
		}
	}
	return true
}

// AnalyzeGiftPotential scans every catalog NPC for gift preferences the
// item satisfies. One suggestion per NPC: the first matching Love
// preference, else the first matching Like (other desires never produce
// suggestions). Results sort by preference weight descending; ties keep
// catalog NPC order.
func AnalyzeGiftPotential(item loreexport.InventoryItem, catItem *catalog.Item, char *loreexport.CharacterExport, idx *catalog.Indexes, ignored map[string]struct{}) []GiftSuggestion {
	if catItem == nil {
		return nil
	}

	var suggestions []GiftSuggestion
	for _, entry := range idx.NPCs {
		if _, skip := ignored[entry.ID]; skip {
			continue
		}
		var chosen *catalog.NPCPreference
		for i := range entry.NPC.Preferences {
			pref := &entry.NPC.Preferences[i]
			if pref.Desire != "Like" && pref.Desire != "Love" {
				continue
			}
			if !matchesPreference(*pref, catItem, item) {
				continue
			}
			if chosen == nil || (chosen.Desire == "Like" && pref.Desire == "Love") {
				chosen = pref
			}
			if chosen.Desire == "Love" {
				break
			}
		}
		if chosen == nil {
			continue
		}
		suggestions = append(suggestions, GiftSuggestion{
			NPCID:       entry.ID,
			NPCName:     entry.NPC.Name,
			Desire:      chosen.Desire,
			Pref:        chosen.Pref,
			PlayerFavor: char.FavorWith(entry.ID),
		})
	}

	sort.SliceStable(suggestions, func(i, j int) bool {
		return suggestions[i].Pref > suggestions[j].Pref
	})
	return suggestions
}

// ShouldSuggestGift reports whether gifting beats selling: any NPC loves
// the item, or someone likes it and the vendor value is low.
func ShouldSuggestGift(suggestions []GiftSuggestion, itemValue int) bool {
	for _, s := range suggestions {
		if s.Desire == "Love" {
			return true
		}
	}
	return len(suggestions) > 0 && itemValue < giftLowValueThreshold
}
