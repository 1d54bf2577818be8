// Package plan renders an analyzed inventory into exportable action plans: a
// human-readable text plan grouped by action, and a CSV with one row per item
// for spreadsheet triage.
package plan

import (
	"encoding/csv"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/veyrane/stashwise/internal/engine"
)

// ActionOrder is the fixed presentation order for action groups: things to get
// rid of first, things to hold on to last.
var ActionOrder = []engine.Action{
	engine.ActionSellAll,
	engine.ActionSellSome,
	engine.ActionDisenchant,
	engine.ActionUse,
	engine.ActionGift,
	engine.ActionLevelLater,
	engine.ActionIngredient,
	engine.ActionDeploy,
	engine.ActionQuest,
	engine.ActionKeep,
}

// actionRank returns the position of a in [ActionOrder]. Unknown actions sort
// last.
func actionRank(a engine.Action) int {
	for i, o := range ActionOrder {
		if o == a {
			return i
		}
	}
	return len(ActionOrder)
}

// FormatGold renders a gold amount with thousand separators, e.g. "12,450g".
func FormatGold(amount int) string {
	s := strconv.Itoa(amount)
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}
	var b strings.Builder
	for i, r := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	out := b.String()
	if neg {
		out = "-" + out
	}
	return out + "g"
}

// RecoverableGold sums the vendor value a player can expect from following the
// plan: full stack value for Sell All, value beyond the keep quantity for
// Sell Some.
func RecoverableGold(items []engine.Analyzed) int {
	total := 0
	for _, it := range items {
		switch it.Recommendation.Action {
		case engine.ActionSellAll:
			total += it.Value * it.StackSize
		case engine.ActionSellSome:
			keep := 0
			if it.Recommendation.KeepQuantity != nil {
				keep = *it.Recommendation.KeepQuantity
			}
			if sell := it.StackSize - keep; sell > 0 {
				total += sell * it.Value
			}
		}
	}
	return total
}

// sortGroup orders items by vault, then name, for stable plan output.
func sortGroup(group []engine.Analyzed) {
	sort.SliceStable(group, func(i, j int) bool {
		if group[i].StorageVault != group[j].StorageVault {
			return group[i].StorageVault < group[j].StorageVault
		}
		return group[i].Name < group[j].Name
	})
}

// Text renders the full action plan as plain text, grouped by action in
// [ActionOrder], vault-then-name sorted inside each group, with a recoverable
// gold estimate at the end. now supplies the generation date so output is
// reproducible in tests.
func Text(items []engine.Analyzed, characterName string, now time.Time) string {
	var b strings.Builder
	fmt.Fprintf(&b, "=== %s's Inventory Action Plan ===\n", characterName)
	fmt.Fprintf(&b, "Generated: %s\n", now.Format("2006-01-02"))
	fmt.Fprintf(&b, "Total items: %d\n\n", len(items))

	groups := make(map[engine.Action][]engine.Analyzed)
	for _, it := range items {
		groups[it.Recommendation.Action] = append(groups[it.Recommendation.Action], it)
	}

	for _, action := range ActionOrder {
		group := groups[action]
		if len(group) == 0 {
			continue
		}
		fmt.Fprintf(&b, "--- %s (%d items) ---\n", action.Label(), len(group))
		sortGroup(group)

		currentVault := ""
		for _, it := range group {
			if it.StorageVault != currentVault {
				currentVault = it.StorageVault
				fmt.Fprintf(&b, "  [%s]\n", currentVault)
			}
			qty := ""
			if it.StackSize > 1 {
				qty = fmt.Sprintf(" x%d", it.StackSize)
			}
			valueStr := ""
			if v := it.Value * it.StackSize; v > 0 {
				valueStr = fmt.Sprintf(" (%s)", FormatGold(v))
			}
			fmt.Fprintf(&b, "    %s%s%s\n", it.Name, qty, valueStr)
			fmt.Fprintf(&b, "      -> %s\n", it.Recommendation.Summary)
		}
		b.WriteString("\n")
	}

	fmt.Fprintf(&b, "=== Estimated recoverable gold: ~%s ===\n", FormatGold(RecoverableGold(items)))
	return b.String()
}

// csvHeader lists the stable CSV column names.
var csvHeader = []string{
	"Action", "Item Name", "Vault", "Category", "Quantity",
	"Value Each", "Total Value", "Reason", "Rarity", "Level", "Gear Score",
}

// CSV renders the plan as CSV, one row per item, sorted by action in
// [ActionOrder] with vault-then-name order inside each action.
func CSV(items []engine.Analyzed) (string, error) {
	sorted := make([]engine.Analyzed, len(items))
	copy(sorted, items)
	sortGroup(sorted)
	sort.SliceStable(sorted, func(i, j int) bool {
		return actionRank(sorted[i].Recommendation.Action) < actionRank(sorted[j].Recommendation.Action)
	})

	var b strings.Builder
	w := csv.NewWriter(&b)
	if err := w.Write(csvHeader); err != nil {
		return "", fmt.Errorf("plan: write csv header: %w", err)
	}
	for _, it := range sorted {
		rec := it.Recommendation
		level := ""
		if it.Level > 0 {
			level = strconv.Itoa(it.Level)
		}
		gearScore := ""
		if rec.GearScore != nil {
			gearScore = strconv.Itoa(*rec.GearScore)
		}
		row := []string{
			rec.Action.Label(),
			it.Name,
			it.StorageVault,
			string(rec.Category),
			strconv.Itoa(it.StackSize),
			strconv.Itoa(it.Value),
			strconv.Itoa(it.Value * it.StackSize),
			rec.Summary,
			it.Rarity,
			level,
			gearScore,
		}
		if err := w.Write(row); err != nil {
			return "", fmt.Errorf("plan: write csv row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", fmt.Errorf("plan: flush csv: %w", err)
	}
	return b.String(), nil
}
