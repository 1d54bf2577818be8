package catalog

// favorRanks orders NPC favor tiers from worst to best. Unknown levels rank
// as Neutral.
var favorRanks = map[string]int{
	"Despised":     -1,
	"Neutral":      0,
	"Tolerated":    1,
	"Comfortable":  2,
	"Friends":      3,
	"CloseFriends": 4,
	"BestFriends":  5,
	"LikeFamily":   6,
	"SoulMates":    7,
}

// FavorRank returns a numeric rank for comparing favor tiers
// (higher = better). Unrecognised tiers rank 0 (Neutral).
func FavorRank(level string) int {
	return favorRanks[level]
}

// MeetsFavor reports whether playerLevel meets or exceeds requiredLevel.
// An empty player level counts as Neutral.
func MeetsFavor(playerLevel, requiredLevel string) bool {
	if playerLevel == "" {
		playerLevel = "Neutral"
	}
	return FavorRank(playerLevel) >= FavorRank(requiredLevel)
}

// rarityRanks orders item rarity tiers. Used by the gift matcher's
// MinRarity virtual predicate. Unknown rarities rank as Common.
var rarityRanks = map[string]int{
	"Common":      0,
	"Uncommon":    1,
	"Rare":        2,
	"Exceptional": 3,
	"Epic":        4,
	"Legendary":   5,
}

// RarityRank returns a numeric rank for comparing rarities
// (higher = rarer). Unrecognised rarities rank 0 (Common).
func RarityRank(rarity string) int {
	return rarityRanks[rarity]
}

// Capacity returns the vault's slot count given the player's favor tier
// toward the owning NPC. Fixed-slot vaults ignore favor; favor-tiered
// vaults grant the best tier at or below the player's rank.
func (v *Vault) Capacity(playerFavorLevel string) int {
	if v.NumSlots > 0 {
		return v.NumSlots
	}
	playerRank := FavorRank(playerFavorLevel)
	best := 0
	for level, slots := range v.Levels {
		if FavorRank(level) <= playerRank && slots > best {
			best = slots
		}
	}
	return best
}

// MinFavorForAccess returns the lowest favor tier that grants the vault a
// non-zero slot count, or "" for vaults with no favor-tiered access.
func (v *Vault) MinFavorForAccess() string {
	minRank := 0
	minLevel := ""
	first := true
	for level, slots := range v.Levels {
		if slots <= 0 {
			continue
		}
		rank := FavorRank(level)
		if first || rank < minRank {
			minRank = rank
			minLevel = level
			first = false
		}
	}
	return minLevel
}
