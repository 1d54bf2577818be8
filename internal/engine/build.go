package engine

import (
	"sort"
	"strings"

	"github.com/veyrane/stashwise/pkg/catalog"
	"github.com/veyrane/stashwise/pkg/loreexport"
)

// nonPrimaryCombat lists skills the catalog flags Combat but that are never
// primary build skills (mount, race and cosmetic skills).
var nonPrimaryCombat = map[string]struct{}{
	"Riding":    {},
	"Race":      {},
	"SpiritFox": {},
}

// supportCompatMinLevel is the floor below which a combat skill is never
// considered support.
const supportCompatMinLevel = 5

// supportInvestedLevel is the level at which a combat skill counts as
// support purely by investment, without catalog compatibility.
const supportInvestedLevel = 15

// DetectBuild infers the character's combat build from their skill levels
// and catalog skill metadata: the two highest-level combat skills become
// primary, and further combat skills become support when the catalog lists
// them as compatible with a primary or when the character has invested
// level 15+ in them (level 5 floor either way).
//
// The result is deterministic: level ties break on skill name.
func DetectBuild(char *loreexport.CharacterExport, idx *catalog.Indexes) *BuildConfig {
	type entry struct {
		name  string
		level int
	}
	var combat []entry

	for name, data := range char.Skills {
		// Anatomy sub-skills and utility pseudo-skills never drive a build.
		if strings.HasPrefix(name, "Anatomy_") || name == "Anatomy" || name == "Unknown" {
			continue
		}
		if _, ok := nonPrimaryCombat[name]; ok {
			continue
		}
		if !idx.IsCombatSkill(name) || data.Level <= 0 {
			continue
		}
		combat = append(combat, entry{name: name, level: data.Level})
	}

	sort.Slice(combat, func(i, j int) bool {
		if combat[i].level != combat[j].level {
			return combat[i].level > combat[j].level
		}
		return combat[i].name < combat[j].name
	})

	build := &BuildConfig{AutoDetected: true}
	for _, e := range combat[:min(2, len(combat))] {
		build.PrimarySkills = append(build.PrimarySkills, e.name)
	}

	for _, e := range combat {
		if build.HasPrimarySkill(e.name) || e.level < supportCompatMinLevel {
			continue
		}

		isSupport := false
		for _, primary := range build.PrimarySkills {
			if idx.SkillsByName[primary].CompatibleWith(e.name) {
				isSupport = true
				break
			}
		}
		if isSupport || e.level >= supportInvestedLevel {
			build.SupportSkills = append(build.SupportSkills, e.name)
		}
	}

	return build
}

// MaxCombatLevel returns the highest level among the build's primary combat
// skills.
func MaxCombatLevel(char *loreexport.CharacterExport, build *BuildConfig) int {
	max := 0
	if build == nil {
		return 0
	}
	for _, skill := range build.PrimarySkills {
		if lvl := char.SkillLevel(skill); lvl > max {
			max = lvl
		}
	}
	return max
}

// maxSkillLevel returns the highest level of any skill the character has.
func maxSkillLevel(char *loreexport.CharacterExport) int {
	max := 0
	for _, data := range char.Skills {
		if data.Level > max {
			max = data.Level
		}
	}
	return max
}
