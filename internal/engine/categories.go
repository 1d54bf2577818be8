package engine

import (
	"regexp"
	"strings"

	"github.com/veyrane/stashwise/pkg/catalog"
	"github.com/veyrane/stashwise/pkg/loreexport"
)

// Category is the derived item class the fallback heuristic table keys on.
type Category string

const (
	CategoryEquipment      Category = "Equipment"
	CategoryConsumable     Category = "Consumable"
	CategoryCraftingMat    Category = "Crafting Material"
	CategoryRecipeScroll   Category = "Recipe Scroll"
	CategoryGem            Category = "Gem"
	CategoryQuestItem      Category = "Quest Item"
	CategoryFoodIngredient Category = "Food Ingredient"
	CategoryPotion         Category = "Potion"
	CategoryCurrency       Category = "Currency/Misc"
	CategoryTool           Category = "Tool"
	CategoryFun            Category = "Fun/Event"
	CategoryPhlogiston     Category = "Phlogiston"
	CategoryJunk           Category = "Junk"
	CategoryGardening      Category = "Gardening"
	CategoryAnimalPart     Category = "Animal Part"
	CategoryKey            Category = "Key/Access"
	CategoryAugment        Category = "Augment"
	CategoryWorkOrder      Category = "Work Order"
	CategoryPainting       Category = "Painting"
)

var (
	recipeScrollPattern = regexp.MustCompile(`^(Alchemy|Cooking|Carpentry|Tailoring|Leatherworking|Saddlery|Calligraphy|Knife|Staff|Art|Sword|Psychology|Shield):`)
	foodNamePattern     = regexp.MustCompile(`^(Bacon|Sausage|Honey Ham|Venison|Chicken|Baked|Boiled|Fried|Candied|Jerky|Steak|Drumstick|Hash|Onion Rings|Fruit Cocktail|Hardtack|Hard Roll|BBQ|Flatbread|Bowl|Roast|Juicy|Duke)`)
	craftingMatPattern  = regexp.MustCompile(`(Wood|Crystal|Thread|Dust|Wool|Slab|Chips|Spiderweb|Ink|Parchment|Saltpeter|Sulfur|Oil)`)
	animalPartPattern   = regexp.MustCompile(`(Claw|Tail|Tooth|Teeth|Tongue|Lobe|Gallbladder|Guts|Tusk|Foot|Scales|Egg|Eyeball|Lung|Stinger|Flesh)`)
)

// Categorize maps an inventory item to its heuristic category using the
// catalog keyword set when the item is known and name patterns otherwise.
// Rules are ordered; the first match wins.
func Categorize(item loreexport.InventoryItem, catItem *catalog.Item) Category {
	name := item.Name
	var keywords []string
	if catItem != nil {
		keywords = catItem.Keywords
	}
	hasKw := func(kw string) bool {
		for _, k := range keywords {
			if k == kw {
				return true
			}
		}
		return false
	}

	if item.Slot != "" {
		return CategoryEquipment
	}

	switch {
	case hasKw("Augment"):
		return CategoryAugment
	case hasKw("Painting"):
		return CategoryPainting
	case hasKw("Phlogiston"):
		return CategoryPhlogiston
	}

	switch {
	case strings.Contains(name, "Augment"):
		return CategoryAugment
	case strings.Contains(name, "Painting"), strings.Contains(name, "Portrait"):
		return CategoryPainting
	case recipeScrollPattern.MatchString(name):
		return CategoryRecipeScroll
	case strings.Contains(name, "Work Order"):
		return CategoryWorkOrder
	}

	if phlogistonNames[name] {
		return CategoryPhlogiston
	}
	if hasKw("Gem") || gemNames[name] {
		return CategoryGem
	}
	for _, k := range keyPatterns {
		if strings.Contains(name, k) {
			return CategoryKey
		}
	}
	if toolNames[name] || strings.Contains(name, "Storage Crate") {
		return CategoryTool
	}
	if hasKw("Potion") || strings.Contains(name, "Potion") || strings.Contains(name, "Juice") ||
		strings.Contains(name, "Drink") || strings.Contains(name, "Gel") {
		return CategoryPotion
	}

	if hasKw("Food") || hasKw("Meal") || hasKw("Snack") || foodRawNames[name] ||
		foodNamePattern.MatchString(name) || strings.Contains(name, "Cheese") || name == "Butter" {
		return CategoryFoodIngredient
	}

	if hasKw("Gardening") || gardeningNames[name] ||
		strings.Contains(name, "Seeds") || strings.Contains(name, "Seedling") {
		return CategoryGardening
	}

	if funNames[name] {
		return CategoryFun
	}

	if necroIngredients[name] || skinNames[name] ||
		craftingMatPattern.MatchString(name) ||
		strings.Contains(name, "Mushroom") || strings.Contains(name, "Bottle") {
		return CategoryCraftingMat
	}

	if animalPartPattern.MatchString(name) {
		return CategoryAnimalPart
	}

	if coinNames[name] || strings.Contains(name, "Calling Card") {
		return CategoryCurrency
	}

	if strings.Contains(name, "First Aid Kit") || strings.Contains(name, "Armor Patch Kit") ||
		strings.Contains(name, "Blanket") {
		return CategoryConsumable
	}

	if junkNames[name] {
		return CategoryJunk
	}

	return CategoryCurrency
}

var gemNames = stringSet(
	"Quartz", "Diamond", "Amethyst", "Lapis Lazuli", "Obsidian", "Azurite", "Moss Agate",
	"Blue Spinel", "Fluorite", "Ruby", "Emerald", "Sapphire", "Topaz", "Citrine", "Garnet",
	"Turquoise", "Onyx", "Opal", "Jasper", "Moonstone", "Sunstone", "Jet", "Peridot",
	"Carnelian", "Alexandrite", "Aquamarine", "Zircon", "Malachite", "Agate", "Amber",
)

var phlogistonNames = stringSet(
	"Crude Phlogiston", "Rough Phlogiston", "Shoddy Phlogiston", "Decent Phlogiston",
	"Nice Phlogiston", "Quality Phlogiston", "Great Phlogiston", "Amazing Phlogiston",
)

var toolNames = stringSet(
	"Butcher Knife", "Skinning Knife", "Simple Skinning Knife", "Autopsy Kit",
	"Handsaw", "Shovel", "Magnifying Glass",
)

var funNames = stringSet(
	"Small Firework", "Small Confetti Bomb", "Keg of Love", "Valentine's Banner",
	"Pig Juice", "Spider Juice",
)

var junkNames = stringSet(
	"Grass", "Matted Hair", "Red Game Chip", "Basic Spore Bomb", "Horse Apple",
	"Piece of Green Glass", "Perfectly Round Pebble", "Broken Necklace",
)

var keyPatterns = []string{
	"Gulagra's Sigil Key", "Steven Muradrake's Lab Key", "Sarina's Backpack",
}

var necroIngredients = stringSet(
	"Femur", "Rib Bone", "Bone Meal", "Nightmare Flesh", "Necromancy Dust",
	"Zombified Hand", "Skull",
)

var foodRawNames = stringSet(
	"Pork Shoulder", "Raw Chicken", "Venison", "Mutton", "Egg", "Flour", "Salt",
	"Sugar", "Peppercorns", "Oregano", "Broccoli", "Onion", "Beet", "Orange",
	"Grapes", "Red Apple", "Large Strawberry", "Crab Meat", "Clownfish",
	"Sinewy Dog Meat", "Sinewy Cat Meat", "Sinewy Beast Meat", "Sinewy Insect Meat",
	"Sinewy Dinosaur Meat", "Seaweed", "Perch", "Grapefish", "Hops", "Watercress",
	"Sugarcane", "Pixie Sugar",
)

var gardeningNames = stringSet(
	"Bottle of Fertilizer", "Bottle of Water", "Strange Dirt", "Bluebell Seeds",
	"Red Aster Seeds", "Violet Seeds", "Dahlia Seeds", "Daisy Seeds", "Pansy Seeds",
	"Red Aster", "Bluebell", "Eternal Greens", "Evil Grass", "Cotton", "Mandrake Root",
)

var skinNames = stringSet(
	"Shoddy Animal Skin", "Rough Animal Skin", "Crude Animal Skin", "Shoddy Leather Roll",
)

var coinNames = stringSet(
	"Ancient Silver Coin", "Ancient Bronze Coin", "Council Certificate", "Big Coin Sack",
)

func stringSet(names ...string) map[string]bool {
	set := make(map[string]bool, len(names))
	for _, n := range names {
		set[n] = true
	}
	return set
}
