package plan

import (
	"strings"
	"testing"
	"time"

	"github.com/veyrane/stashwise/internal/engine"
	"github.com/veyrane/stashwise/pkg/loreexport"
)

func analyzed(name, vault string, stack, value int, action engine.Action, summary string) engine.Analyzed {
	return engine.Analyzed{
		InventoryItem: loreexport.InventoryItem{
			Name:         name,
			StorageVault: vault,
			StackSize:    stack,
			Value:        value,
		},
		Recommendation: engine.Recommendation{
			Action:   action,
			Summary:  summary,
			Category: engine.CategoryJunk,
		},
	}
}

func TestFormatGold(t *testing.T) {
	tests := []struct {
		amount int
		want   string
	}{
		{0, "0g"},
		{950, "950g"},
		{1000, "1,000g"},
		{12450, "12,450g"},
		{1234567, "1,234,567g"},
	}
	for _, tc := range tests {
		if got := FormatGold(tc.amount); got != tc.want {
			t.Errorf("FormatGold(%d) = %q, want %q", tc.amount, got, tc.want)
		}
	}
}

func TestRecoverableGold(t *testing.T) {
	keep := 5
	items := []engine.Analyzed{
		analyzed("Rotten Meat", "", 10, 3, engine.ActionSellAll, "junk"),
		analyzed("Amber", "", 12, 100, engine.ActionSellSome, "keep some"),
		analyzed("Sword", "", 1, 500, engine.ActionKeep, "keep"),
	}
	items[1].Recommendation.KeepQuantity = &keep

	// 10*3 for the full sale plus (12-5)*100 beyond the keep threshold.
	if got := RecoverableGold(items); got != 730 {
		t.Errorf("RecoverableGold = %d, want 730", got)
	}
}

func TestRecoverableGold_KeepExceedsStack(t *testing.T) {
	keep := 20
	it := analyzed("Amber", "", 12, 100, engine.ActionSellSome, "keep some")
	it.Recommendation.KeepQuantity = &keep

	if got := RecoverableGold([]engine.Analyzed{it}); got != 0 {
		t.Errorf("RecoverableGold = %d, want 0 when keep exceeds stack", got)
	}
}

func TestText_GroupsAndOrder(t *testing.T) {
	items := []engine.Analyzed{
		analyzed("Zebra Hide", "Serbule Bank", 3, 10, engine.ActionKeep, "keep hides"),
		analyzed("Rotten Meat", "Serbule Bank", 10, 3, engine.ActionSellAll, "junk"),
		analyzed("Apple Pie", "", 2, 40, engine.ActionSellAll, "surplus food"),
	}

	got := Text(items, "Veyrane", time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC))

	if !strings.HasPrefix(got, "=== Veyrane's Inventory Action Plan ===\nGenerated: 2026-08-31\nTotal items: 3\n") {
		t.Errorf("unexpected header:\n%s", got)
	}

	// Sell All group comes before Keep.
	sellIdx := strings.Index(got, "--- Sell All (2 items) ---")
	keepIdx := strings.Index(got, "--- Keep (1 items) ---")
	if sellIdx == -1 || keepIdx == -1 {
		t.Fatalf("missing group headers:\n%s", got)
	}
	if sellIdx > keepIdx {
		t.Error("Sell All group should precede Keep group")
	}

	// Inside Sell All, the vaultless item sorts before Serbule Bank.
	pieIdx := strings.Index(got, "Apple Pie")
	meatIdx := strings.Index(got, "Rotten Meat")
	if pieIdx > meatIdx {
		t.Error("vaultless item should sort before vaulted item inside a group")
	}

	if !strings.Contains(got, "Rotten Meat x10 (30g)") {
		t.Errorf("stack quantity and value missing:\n%s", got)
	}
	if !strings.Contains(got, "-> junk") {
		t.Errorf("summary line missing:\n%s", got)
	}
	if !strings.Contains(got, "=== Estimated recoverable gold: ~110g ===") {
		t.Errorf("gold summary missing or wrong:\n%s", got)
	}
}

func TestText_EmptyInventory(t *testing.T) {
	got := Text(nil, "Veyrane", time.Now())
	if !strings.Contains(got, "Total items: 0") {
		t.Errorf("empty plan should report zero items:\n%s", got)
	}
	if !strings.Contains(got, "~0g") {
		t.Errorf("empty plan should report zero gold:\n%s", got)
	}
}

func TestCSV(t *testing.T) {
	score := 85
	eq := engine.Analyzed{
		InventoryItem: loreexport.InventoryItem{
			Name:         `Sword of "Testing"`,
			StorageVault: "Serbule Bank",
			StackSize:    1,
			Value:        500,
			Rarity:       "Epic",
			Level:        70,
		},
		Recommendation: engine.Recommendation{
			Action:    engine.ActionKeep,
			Summary:   "Current-tier Sword gear for your build",
			Category:  engine.CategoryEquipment,
			GearScore: &score,
		},
	}
	junk := analyzed("Rotten Meat", "", 10, 3, engine.ActionSellAll, "junk")

	got, err := CSV([]engine.Analyzed{eq, junk})
	if err != nil {
		t.Fatalf("CSV: %v", err)
	}

	lines := strings.Split(strings.TrimRight(got, "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("got %d lines, want 3:\n%s", len(lines), got)
	}
	if lines[0] != "Action,Item Name,Vault,Category,Quantity,Value Each,Total Value,Reason,Rarity,Level,Gear Score" {
		t.Errorf("unexpected header: %s", lines[0])
	}
	// Sell All sorts before Keep.
	if !strings.HasPrefix(lines[1], "Sell All,Rotten Meat,") {
		t.Errorf("first row should be the Sell All item: %s", lines[1])
	}
	// Quotes in names survive CSV escaping.
	if !strings.Contains(lines[2], `"Sword of ""Testing"""`) {
		t.Errorf("quoted name not escaped: %s", lines[2])
	}
	if !strings.HasSuffix(lines[2], ",Epic,70,85") {
		t.Errorf("rarity/level/gear score columns wrong: %s", lines[2])
	}
}

func TestCSV_EmptyOptionalColumns(t *testing.T) {
	got, err := CSV([]engine.Analyzed{analyzed("Rotten Meat", "", 10, 3, engine.ActionSellAll, "junk")})
	if err != nil {
		t.Fatalf("CSV: %v", err)
	}
	lines := strings.Split(strings.TrimRight(got, "\n"), "\n")
	if !strings.HasSuffix(lines[1], ",,,") {
		t.Errorf("missing rarity/level/gear score should be empty: %s", lines[1])
	}
}
