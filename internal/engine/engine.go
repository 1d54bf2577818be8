package engine

import (
	"fmt"
	"strings"

	"github.com/veyrane/stashwise/pkg/catalog"
	"github.com/veyrane/stashwise/pkg/loreexport"
)

// Engine evaluates inventory items against one immutable input snapshot.
// It is safe for concurrent use: [Engine.Recommend] reads only the
// snapshot, and the batch override-consumption counter lives inside one
// [Engine.RecommendAll] call.
type Engine struct {
	in             Inputs
	defaultGemKeep int
	stages         []stage
}

// stage is one step of the priority chain. A nil result falls through to
// the next stage; the first non-nil result wins.
type stage struct {
	name string
	eval func(e *Engine, st *itemState) *Recommendation
}

// itemState carries one item through the chain.
type itemState struct {
	item     loreexport.InventoryItem
	catItem  *catalog.Item
	category Category

	// honorNameOverride is cleared by the batch orchestrator once a
	// name-keyed override's keep quantity is exhausted.
	honorNameOverride bool

	// notes are non-deciding reasons gathered along the way (for example
	// future recipe potential) that attach to whichever later stage wins.
	notes []Reason
}

// New builds an Engine over the given snapshot. The snapshot's Indexes,
// Character and Build must be non-nil; overrides and quantity maps may be
// nil.
func New(in Inputs) *Engine {
	gemKeep := in.DefaultGemKeep
	if gemKeep <= 0 {
		gemKeep = DefaultGemKeep
	}
	return &Engine{
		in:             in,
		defaultGemKeep: gemKeep,
		stages: []stage{
			{"override", (*Engine).overrideStage},
			{"quest", (*Engine).questStage},
			{"equipment", (*Engine).equipmentStage},
			{"augment", (*Engine).augmentStage},
			{"recipe", (*Engine).recipeStage},
			{"consumable", (*Engine).consumableStage},
			{"gift", (*Engine).giftStage},
			{"heuristic", (*Engine).heuristicStage},
		},
	}
}

// Stages lists the chain's stage names in evaluation order.
func (e *Engine) Stages() []string {
	names := make([]string, len(e.stages))
	for i, s := range e.stages {
		names[i] = s.name
	}
	return names
}

// Recommend resolves one item through the priority chain. Every item gets
// a recommendation; when no stage matches the result is Keep + uncertain.
func (e *Engine) Recommend(item loreexport.InventoryItem) Recommendation {
	return e.run(e.newItemState(item, true))
}

func (e *Engine) newItemState(item loreexport.InventoryItem, honorNameOverride bool) *itemState {
	catItem := e.in.Indexes.Item(item.TypeID)
	return &itemState{
		item:              item,
		catItem:           catItem,
		category:          Categorize(item, catItem),
		honorNameOverride: honorNameOverride,
	}
}

func (e *Engine) run(st *itemState) Recommendation {
	for _, s := range e.stages {
		if rec := s.eval(e, st); rec != nil {
			return *rec
		}
	}

	reasons := st.notes
	if len(reasons) == 0 {
		reasons = []Reason{{Kind: ReasonFallback,
			Text: "Uncategorized - review manually", Confidence: ConfidenceLow}}
	}
	return Recommendation{
		Action:    ActionKeep,
		Reasons:   reasons,
		Summary:   reasons[0].Text,
		Category:  st.category,
		Uncertain: true,
	}
}

// Stage 1: user override. A composite-key override wins over a name-keyed
// one for the same item instance.
func (e *Engine) overrideStage(st *itemState) *Recommendation {
	compositeKey := fmt.Sprintf("%d_%s", st.item.TypeID, st.item.Vault())
	ov, ok := e.in.Overrides[compositeKey]
	if !ok {
		if !st.honorNameOverride {
			return nil
		}
		ov, ok = e.in.Overrides[st.item.Name]
		if !ok {
			return nil
		}
	}

	action, uncertain := NormalizeAction(ov.Action)
	text := ov.Reason
	if text == "" {
		text = "User override"
	}
	return &Recommendation{
		Action:    action,
		Reasons:   []Reason{{Kind: ReasonOverride, Text: text, Confidence: ConfidenceHigh}},
		Summary:   text,
		Category:  st.category,
		Uncertain: uncertain,
	}
}

// Stage 2: active quest need, plus the name-matching heuristic for keys
// and quest-named items.
func (e *Engine) questStage(st *itemState) *Recommendation {
	matches := AnalyzeQuestUses(st.item, st.catItem, e.in.Character, e.in.Indexes)

	var active []QuestMatch
	for _, m := range matches {
		if m.IsActive {
			active = append(active, m)
		}
	}

	if len(active) > 0 {
		names := make([]string, len(active))
		reasons := make([]Reason, len(active))
		maxCount := 0
		for i, m := range active {
			names[i] = m.QuestName
			reasons[i] = Reason{
				Kind:       ReasonQuest,
				Text:       "Needed for quest: " + m.QuestName,
				Confidence: ConfidenceHigh,
				Detail:     fmt.Sprintf("%d needed", m.Count),
			}
			if m.Count > maxCount {
				maxCount = m.Count
			}
		}
		return &Recommendation{
			Action:       ActionQuest,
			Reasons:      reasons,
			Summary:      "Quest item: " + strings.Join(names, ", "),
			Category:     st.category,
			KeepQuantity: intPtr(maxCount),
		}
	}

	if st.category == CategoryKey || hasActiveQuestNameMatch(st.item.Name, e.in.Character) {
		return &Recommendation{
			Action: ActionQuest,
			Reasons: []Reason{{Kind: ReasonQuest,
				Text: "Quest/dungeon access item", Confidence: ConfidenceMedium}},
			Summary:  "Quest/dungeon access item",
			Category: st.category,
		}
	}
	return nil
}

// Stages 3 and 4: wearable equipment, then slotless augments.
func (e *Engine) equipmentStage(st *itemState) *Recommendation {
	if !IsEquipment(st.item) {
		return nil
	}
	rec := e.evaluateEquipment(st.item, st.category)
	return &rec
}

func (e *Engine) augmentStage(st *itemState) *Recommendation {
	if st.category != CategoryAugment {
		return nil
	}
	rec := e.evaluateAugment(st.item, st.category)
	return &rec
}

// Stage 5: recipe ingredient.
func (e *Engine) recipeStage(st *itemState) *Recommendation {
	matches := AnalyzeRecipeUses(st.item, e.in.Character, e.in.Indexes)
	if len(matches) == 0 {
		return nil
	}

	var craftable *RecipeMatch
	for i := range matches {
		if matches[i].CanCraftNow {
			craftable = &matches[i]
			break
		}
	}

	if craftable != nil {
		keep := RecipeKeepQuantity(st.item, e.in.Character, e.in.Indexes)
		reason := Reason{
			Kind:       ReasonRecipe,
			Text:       "Crafting ingredient: " + craftable.Reason,
			Confidence: ConfidenceHigh,
		}

		// Partial sells only trigger past a buffer above the keep
		// quantity, so small surpluses stay put.
		if keep > 0 && st.item.StackSize > recipeSellBuffer(keep) {
			return &Recommendation{
				Action:       ActionSellSome,
				Reasons:      []Reason{reason},
				Summary:      fmt.Sprintf("Keep %d for crafting, sell rest", keep),
				Category:     st.category,
				KeepQuantity: intPtr(keep),
			}
		}

		rec := &Recommendation{
			Action:   ActionIngredient,
			Reasons:  []Reason{reason},
			Summary:  reason.Text,
			Category: st.category,
		}
		if keep > 0 {
			rec.KeepQuantity = intPtr(keep)
		}
		return rec
	}

	// Future potential only: note it and keep going.
	st.notes = append(st.notes, Reason{
		Kind:       ReasonRecipe,
		Text:       matches[0].Reason,
		Confidence: ConfidenceMedium,
	})
	return nil
}

// Stage 6: consumable utility.
func (e *Engine) consumableStage(st *itemState) *Recommendation {
	if !st.catItem.Usable() {
		return nil
	}

	res := AnalyzeConsumable(st.item, st.catItem, e.in.Character, e.in.Indexes)

	var action Action
	conf := ConfidenceMedium
	switch res.Verdict {
	case ConsumableUsable:
		action = ActionUse
	case ConsumableCombatSupply:
		action = ActionKeep
	case ConsumableLevelLater:
		action = ActionLevelLater
	case ConsumableAlreadyKnown:
		action = ActionSellAll
		conf = ConfidenceHigh
	default:
		// Not useful here; a later stage may still want it.
		return nil
	}

	return &Recommendation{
		Action:   action,
		Reasons:  []Reason{{Kind: ReasonConsumable, Text: res.Reason, Confidence: conf}},
		Summary:  res.Reason,
		Category: st.category,
	}
}

// Stage 7: NPC gift.
func (e *Engine) giftStage(st *itemState) *Recommendation {
	if st.catItem == nil {
		return nil
	}
	suggestions := AnalyzeGiftPotential(st.item, st.catItem, e.in.Character, e.in.Indexes, e.in.IgnoredNPCs)
	if !ShouldSuggestGift(suggestions, st.item.Value) {
		return nil
	}

	top := suggestions[0]
	text := fmt.Sprintf("%s %ss this (favor: %s)", top.NPCName, top.Desire, top.PlayerFavor)
	return &Recommendation{
		Action:   ActionGift,
		Reasons:  []Reason{{Kind: ReasonGift, Text: text, Confidence: ConfidenceMedium}},
		Summary:  fmt.Sprintf("Gift to %s (%s)", top.NPCName, top.Desire),
		Category: st.category,
	}
}

// Stage 8: category heuristic table.
func (e *Engine) heuristicStage(st *itemState) *Recommendation {
	h := heuristicRecommendation(st.item, e.in.Character, st.category, e.in.KeepQuantities, e.defaultGemKeep)
	if h == nil {
		return nil
	}
	return &Recommendation{
		Action:       h.action,
		Reasons:      append([]Reason{h.reason}, st.notes...),
		Summary:      h.reason.Text,
		Category:     st.category,
		KeepQuantity: h.keepQty,
		Uncertain:    h.uncertain,
	}
}

// RecommendAll runs every inventory item through the chain in input order.
// One batch-only rule applies on top of the single-item chain: a non-
// stacking item whose name-keyed override has a keep quantity N honors the
// override for only its first N occurrences; later copies fall through to
// the normal stages.
func (e *Engine) RecommendAll(items []loreexport.InventoryItem) []Analyzed {
	used := make(map[string]int)

	out := make([]Analyzed, 0, len(items))
	for _, item := range items {
		honorName := true
		if item.StackSize <= 1 {
			// A composite-key override decides this unit outright, so it
			// must not consume a name-override slot.
			compositeKey := fmt.Sprintf("%d_%s", item.TypeID, item.Vault())
			_, composite := e.in.Overrides[compositeKey]
			if _, hasOverride := e.in.Overrides[item.Name]; hasOverride && !composite {
				if keep, hasKeep := e.in.KeepQuantities[item.Name]; hasKeep {
					if used[item.Name] >= keep {
						honorName = false
					} else {
						used[item.Name]++
					}
				}
			}
		}

		out = append(out, Analyzed{
			InventoryItem:  item,
			Recommendation: e.run(e.newItemState(item, honorName)),
		})
	}
	return out
}
