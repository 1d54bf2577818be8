package catalog

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/tidwall/gjson"
)

// ParseTables decodes the raw bytes of each catalog table into typed
// records. Traversal uses gjson so that document order is preserved (Go's
// encoding/json map decoding would randomise it) and so that a single
// malformed record can be skipped without aborting the table.
//
// Missing tables yield empty slices; the build is total. The only error
// case is a table whose top level is not a JSON object.
func ParseTables(raw map[TableName][]byte) (*Tables, error) {
	t := &Tables{Skipped: make(map[TableName]int)}

	var err error
	if t.Items, err = parseTable[*Item](raw, TableItems, t.Skipped); err != nil {
		return nil, err
	}
	if t.Recipes, err = parseTable[*Recipe](raw, TableRecipes, t.Skipped); err != nil {
		return nil, err
	}
	if t.Quests, err = parseTable[*Quest](raw, TableQuests, t.Skipped); err != nil {
		return nil, err
	}
	if t.Skills, err = parseTable[*Skill](raw, TableSkills, t.Skipped); err != nil {
		return nil, err
	}
	if t.NPCs, err = parseTable[*NPC](raw, TableNPCs, t.Skipped); err != nil {
		return nil, err
	}
	if t.Sources, err = parseTable[*ItemSource](raw, TableSources, t.Skipped); err != nil {
		return nil, err
	}
	if t.Vaults, err = parseTable[*Vault](raw, TableVaults, t.Skipped); err != nil {
		return nil, err
	}
	if t.Powers, err = parseTable[*Power](raw, TablePowers, t.Skipped); err != nil {
		return nil, err
	}
	if t.Abilities, err = parseTable[*Ability](raw, TableAbilities, t.Skipped); err != nil {
		return nil, err
	}
	return t, nil
}

// parseTable walks one flat JSON object table in document order, decoding
// each record. Records that fail to decode are counted and skipped.
func parseTable[T any](raw map[TableName][]byte, name TableName, skipped map[TableName]int) ([]Keyed[T], error) {
	data, ok := raw[name]
	if !ok || len(data) == 0 {
		return nil, nil
	}

	parsed := gjson.ParseBytes(data)
	if !parsed.IsObject() {
		return nil, fmt.Errorf("catalog: table %s: expected a JSON object at top level", name)
	}

	var out []Keyed[T]
	parsed.ForEach(func(key, value gjson.Result) bool {
		var rec T
		if err := json.Unmarshal([]byte(value.Raw), &rec); err != nil {
			skipped[name]++
			slog.Warn("catalog: skipping malformed record",
				"table", string(name), "key", key.String(), "err", err)
			return true
		}
		out = append(out, Keyed[T]{Key: key.String(), Record: rec})
		return true
	})

	if n := skipped[name]; n > 0 {
		slog.Warn("catalog: table parsed with skipped records",
			"table", string(name), "skipped", n, "kept", len(out))
	}
	return out, nil
}
