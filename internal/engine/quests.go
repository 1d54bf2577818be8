package engine

import (
	"strings"

	"github.com/veyrane/stashwise/pkg/catalog"
	"github.com/veyrane/stashwise/pkg/loreexport"
)

// QuestMatch records that a quest objective needs an inventory item.
type QuestMatch struct {
	QuestInternalName string
	QuestName         string
	ItemName          string
	Count             int
	IsActive          bool
}

// AnalyzeQuestUses finds every quest requirement referencing the item, by
// display name, catalog internal name, and MacGuffin quest reference, and
// marks which of those quests the character currently has active.
func AnalyzeQuestUses(item loreexport.InventoryItem, catItem *catalog.Item, char *loreexport.CharacterExport, idx *catalog.Indexes) []QuestMatch {
	active := make(map[string]struct{}, len(char.ActiveQuests))
	for _, q := range char.ActiveQuests {
		active[q] = struct{}{}
	}
	isActive := func(quest string) bool {
		_, ok := active[quest]
		return ok
	}

	var matches []QuestMatch
	seen := make(map[string]struct{})

	appendReqs := func(reqs []catalog.QuestItemReq) {
		for _, req := range reqs {
			if _, dup := seen[req.QuestInternalName]; dup {
				continue
			}
			seen[req.QuestInternalName] = struct{}{}
			matches = append(matches, QuestMatch{
				QuestInternalName: req.QuestInternalName,
				QuestName:         req.QuestName,
				ItemName:          req.ItemName,
				Count:             req.Count,
				IsActive:          isActive(req.QuestInternalName),
			})
		}
	}

	appendReqs(idx.QuestItemRequirements[item.Name])
	if catItem != nil && catItem.InternalName != "" && catItem.InternalName != item.Name {
		appendReqs(idx.QuestItemRequirements[catItem.InternalName])
	}

	// MacGuffin items name their quest directly on the catalog record.
	if catItem != nil && catItem.MacGuffinQuestName != "" && isActive(catItem.MacGuffinQuestName) {
		if _, dup := seen[catItem.MacGuffinQuestName]; !dup {
			questName := catItem.MacGuffinQuestName
			if quest, ok := idx.QuestsByName[catItem.MacGuffinQuestName]; ok && quest.Name != "" {
				questName = quest.Name
			}
			matches = append(matches, QuestMatch{
				QuestInternalName: catItem.MacGuffinQuestName,
				QuestName:         questName,
				ItemName:          item.Name,
				Count:             1,
				IsActive:          true,
			})
		}
	}

	return matches
}

// hasActiveQuestNameMatch is the fallback heuristic: the item name and an
// active quest id textually contain each other after normalization.
func hasActiveQuestNameMatch(itemName string, char *loreexport.CharacterExport) bool {
	normalizedItem := normalizeQuestName(itemName)
	if normalizedItem == "" {
		return false
	}
	for _, quest := range char.ActiveQuests {
		normalizedQuest := normalizeQuestName(quest)
		if normalizedQuest == "" {
			continue
		}
		if strings.Contains(normalizedQuest, normalizedItem) || strings.Contains(normalizedItem, normalizedQuest) {
			return true
		}
	}
	return false
}

// normalizeQuestName lowercases and strips everything but letters.
func normalizeQuestName(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		if r >= 'a' && r <= 'z' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
