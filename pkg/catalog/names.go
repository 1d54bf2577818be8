package catalog

import (
	"regexp"
	"strings"

	"github.com/antzucaro/matchr"
)

// camelBoundary splits CamelCase internal names for display
// ("KhyrulekMementoChest" -> "Khyrulek Memento Chest").
var (
	camelBoundary   = regexp.MustCompile(`([a-z])([A-Z])`)
	acronymBoundary = regexp.MustCompile(`([A-Z])([A-Z][a-z])`)
)

// FriendlyName converts an internal CamelCase identifier into a spaced
// display form, stripping a leading "NPC_" prefix.
func FriendlyName(internal string) string {
	s := strings.TrimPrefix(internal, "NPC_")
	s = camelBoundary.ReplaceAllString(s, "$1 $2")
	s = acronymBoundary.ReplaceAllString(s, "$1 $2")
	return s
}

// VaultDisplayName resolves a storage-vault internal name to a display
// label, using the vault registry when the vault is known and a formatted
// fallback otherwise. The empty vault name denotes the player's own bags.
func (idx *Indexes) VaultDisplayName(vaultID string) string {
	if vaultID == "" || vaultID == "__PlayerInventory__" {
		return "Inventory / Equipped"
	}
	if v, ok := idx.VaultsByName[vaultID]; ok {
		return v.NpcFriendlyName + " (" + v.Area + ")"
	}
	if vaultID == "StorageCrate" {
		return "Storage Crate"
	}
	return FriendlyName(vaultID)
}

// NPCDisplayName resolves an NPC internal name to its catalog display name,
// falling back to a formatted version of the internal name.
func (idx *Indexes) NPCDisplayName(npcID string) string {
	for _, e := range idx.NPCs {
		if e.ID == npcID && e.NPC.Name != "" {
			return e.NPC.Name
		}
	}
	return FriendlyName(npcID)
}

// maxSuggestDistance caps how far a fuzzy match may stray before
// SuggestItemName declines to suggest anything.
const maxSuggestDistance = 5

// SuggestItemName returns the catalog item whose display name is closest to
// the query by optimal string alignment distance, for "did you mean"
// resolution of hand-typed item names. The match is case-insensitive. It
// returns ("", false) when nothing is within a sane edit distance.
func (idx *Indexes) SuggestItemName(query string) (string, bool) {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return "", false
	}

	best := ""
	bestDist := maxSuggestDistance + 1
	for _, item := range idx.ItemsByID {
		if item.Name == "" {
			continue
		}
		d := matchr.OSA(q, strings.ToLower(item.Name))
		if d < bestDist || (d == bestDist && best != "" && item.Name < best) {
			bestDist = d
			best = item.Name
		}
	}
	if bestDist > maxSuggestDistance {
		return "", false
	}
	return best, true
}

// LookupItemByName finds a catalog item by exact display name
// (case-insensitive). Returns nil when no item matches.
func (idx *Indexes) LookupItemByName(name string) *Item {
	for _, item := range idx.ItemsByID {
		if strings.EqualFold(item.Name, name) {
			return item
		}
	}
	return nil
}
