package catalog

import (
	"strings"
	"testing"
)

func TestParseTables(t *testing.T) {
	raw := map[TableName][]byte{
		TableItems: []byte(`{
			"item_101": {"Name": "Rotten Meat", "InternalName": "RottenMeat", "Keywords": ["Meat"], "Value": 3},
			"item_102": {"Name": "Amber", "InternalName": "Amber", "Keywords": ["Gem"]}
		}`),
		TableSkills: []byte(`{
			"Sword": {"Id": 11, "Name": "Sword", "Combat": true}
		}`),
	}

	tables, err := ParseTables(raw)
	if err != nil {
		t.Fatalf("ParseTables: %v", err)
	}
	if len(tables.Items) != 2 {
		t.Fatalf("got %d items, want 2", len(tables.Items))
	}
	// Document order is preserved.
	if tables.Items[0].Key != "item_101" || tables.Items[1].Key != "item_102" {
		t.Errorf("keys = %q, %q", tables.Items[0].Key, tables.Items[1].Key)
	}
	if tables.Items[0].Record.Name != "Rotten Meat" {
		t.Errorf("first item = %+v", tables.Items[0].Record)
	}
	if !tables.Skills[0].Record.Combat {
		t.Error("Sword should parse as a combat skill")
	}
	// Missing tables are simply empty.
	if len(tables.Recipes) != 0 || len(tables.NPCs) != 0 {
		t.Error("absent tables should yield empty slices")
	}
}

func TestParseTables_SkipsMalformedRecords(t *testing.T) {
	raw := map[TableName][]byte{
		TableItems: []byte(`{
			"item_101": {"Name": "Good Item"},
			"item_102": {"Name": 12345},
			"item_103": {"Name": "Another Good Item"}
		}`),
	}

	tables, err := ParseTables(raw)
	if err != nil {
		t.Fatalf("ParseTables: %v", err)
	}
	if len(tables.Items) != 2 {
		t.Errorf("got %d items, want 2 (one skipped)", len(tables.Items))
	}
	if tables.Skipped[TableItems] != 1 {
		t.Errorf("skipped count = %d, want 1", tables.Skipped[TableItems])
	}
}

func TestParseTables_RejectsNonObjectTable(t *testing.T) {
	raw := map[TableName][]byte{
		TableQuests: []byte(`["not", "an", "object"]`),
	}
	_, err := ParseTables(raw)
	if err == nil {
		t.Fatal("expected error for a non-object table")
	}
	if !strings.Contains(err.Error(), "quests") {
		t.Errorf("error %q should name the table", err)
	}
}
