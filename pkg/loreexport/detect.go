package loreexport

import (
	"encoding/json"
	"fmt"
)

// FileKind classifies an imported export file.
type FileKind string

const (
	KindInventory FileKind = "inventory"
	KindCharacter FileKind = "character"
	KindUnknown   FileKind = "unknown"
)

// DetectionResult is the outcome of [Detect] on an uploaded file.
type DetectionResult struct {
	Kind      FileKind
	Inventory *InventoryExport
	Character *CharacterExport

	// Summary is a one-line description of the imported data, suitable for
	// display ("412 items across 9 locations").
	Summary string
}

// probe is the minimal shape needed to classify a file without fully
// decoding it.
type probe struct {
	Report string          `json:"Report"`
	Items  json.RawMessage `json:"Items"`
	Skills json.RawMessage `json:"Skills"`
}

// Detect classifies raw as a Lore Exporter file, fully decodes it, and
// validates the result. It returns an error for files that are not valid
// exports; data that passes Detect is safe to hand to the analysis core.
func Detect(raw []byte) (*DetectionResult, error) {
	var p probe
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, fmt.Errorf("loreexport: not valid JSON: %w", err)
	}

	switch p.Report {
	case "Storage":
		var inv InventoryExport
		if err := json.Unmarshal(raw, &inv); err != nil {
			return nil, fmt.Errorf("loreexport: decode inventory export: %w", err)
		}
		if err := ValidateInventory(&inv); err != nil {
			return nil, err
		}
		normalizeVaults(&inv)
		return &DetectionResult{
			Kind:      KindInventory,
			Inventory: &inv,
			Summary:   inventorySummary(&inv),
		}, nil

	case "CharacterSheet":
		var char CharacterExport
		if err := json.Unmarshal(raw, &char); err != nil {
			return nil, fmt.Errorf("loreexport: decode character export: %w", err)
		}
		if err := ValidateCharacter(&char); err != nil {
			return nil, err
		}
		return &DetectionResult{
			Kind:      KindCharacter,
			Character: &char,
			Summary:   characterSummary(&char),
		}, nil
	}

	return nil, fmt.Errorf("loreexport: unrecognised file format (Report %q), expected a Lore Exporter export", p.Report)
}

// ValidateInventory checks the structural invariants of an inventory export.
func ValidateInventory(inv *InventoryExport) error {
	if inv.Report != "Storage" {
		return fmt.Errorf(`loreexport: inventory export missing Report: "Storage"`)
	}
	if inv.Character == "" {
		return fmt.Errorf("loreexport: inventory export missing character name")
	}
	if len(inv.Items) == 0 {
		return fmt.Errorf("loreexport: inventory export has no items")
	}
	// Spot-check the first item for the fields the engine requires.
	first := inv.Items[0]
	if first.TypeID == 0 {
		return fmt.Errorf("loreexport: inventory items missing TypeID")
	}
	if first.Name == "" {
		return fmt.Errorf("loreexport: inventory items missing Name")
	}
	return nil
}

// ValidateCharacter checks the structural invariants of a character export.
func ValidateCharacter(char *CharacterExport) error {
	if char.Report != "CharacterSheet" {
		return fmt.Errorf(`loreexport: character export missing Report: "CharacterSheet"`)
	}
	if char.Character == "" {
		return fmt.Errorf("loreexport: character export missing character name")
	}
	if char.Skills == nil {
		return fmt.Errorf("loreexport: character export missing Skills")
	}
	return nil
}

// normalizeVaults assigns the PlayerInventory sentinel to items the export
// left without a vault, so every item has a stable location key.
func normalizeVaults(inv *InventoryExport) {
	for i := range inv.Items {
		if inv.Items[i].StorageVault == "" {
			inv.Items[i].StorageVault = PlayerInventory
		}
	}
}

func inventorySummary(inv *InventoryExport) string {
	vaults := make(map[string]struct{})
	for _, it := range inv.Items {
		vaults[it.Vault()] = struct{}{}
	}
	return fmt.Sprintf("%d items across %d locations", len(inv.Items), len(vaults))
}

func characterSummary(char *CharacterExport) string {
	return fmt.Sprintf("%d skills, %d active quests", len(char.Skills), len(char.ActiveQuests))
}
