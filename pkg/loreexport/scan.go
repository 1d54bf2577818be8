package loreexport

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// ErrNoExports is returned by [ScanDir] when the directory contains no valid
// export of the requested character.
var ErrNoExports = errors.New("loreexport: no export files found")

// ScanResult pairs the newest inventory and character exports found in a
// directory. Either field may be nil when that kind is absent.
type ScanResult struct {
	Inventory *InventoryExport
	Character *CharacterExport

	// InventoryPath and CharacterPath name the files the exports came from.
	InventoryPath string
	CharacterPath string
}

// ScanDir walks dir for Lore Exporter JSON files and returns the newest
// inventory and character export per modification time. When character is
// non-empty, exports belonging to other characters are skipped. Files that
// fail detection are logged and ignored so one stray JSON file cannot block
// an import.
func ScanDir(dir, character string) (*ScanResult, error) {
	var (
		res           ScanResult
		invMtime      time.Time
		charMtime     time.Time
		filesExamined int
	)

	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.EqualFold(filepath.Ext(path), ".json") {
			return nil
		}
		filesExamined++

		info, err := d.Info()
		if err != nil {
			return nil
		}
		raw, err := os.ReadFile(path)
		if err != nil {
			slog.Warn("skipping unreadable export file", "path", path, "error", err)
			return nil
		}
		det, err := Detect(raw)
		if err != nil {
			slog.Debug("skipping non-export file", "path", path, "error", err)
			return nil
		}

		switch det.Kind {
		case KindInventory:
			if character != "" && !strings.EqualFold(det.Inventory.Character, character) {
				return nil
			}
			if info.ModTime().After(invMtime) {
				invMtime = info.ModTime()
				res.Inventory = det.Inventory
				res.InventoryPath = path
			}
		case KindCharacter:
			if character != "" && !strings.EqualFold(det.Character.Character, character) {
				return nil
			}
			if info.ModTime().After(charMtime) {
				charMtime = info.ModTime()
				res.Character = det.Character
				res.CharacterPath = path
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("loreexport: scan %q: %w", dir, err)
	}

	if res.Inventory == nil && res.Character == nil {
		return nil, fmt.Errorf("%w in %q (%d files examined)", ErrNoExports, dir, filesExamined)
	}
	return &res, nil
}
