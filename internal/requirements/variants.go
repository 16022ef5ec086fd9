package requirements

// Fixed integer->name tables for entities whose NBT stores their visual
// variant as a bare number rather than a string, per §6's entity variant
// tables. Copied as literal tables rather than derived.

var horseVariantByIndex = map[int64]string{
	0: "white", 1: "creamy", 2: "chestnut", 3: "brown",
	4: "black", 5: "gray", 6: "dark_brown",
}

var rabbitVariantByIndex = map[int64]string{
	0: "brown", 1: "white", 2: "black", 3: "white_splotched",
	4: "gold", 5: "salt", 99: "evil",
}

var parrotVariantByIndex = map[int64]string{
	0: "red_blue", 1: "blue", 2: "green", 3: "yellow_blue", 4: "gray",
}

var axolotlVariantByIndex = map[int64]string{
	0: "lucy", 1: "wild", 2: "gold", 3: "cyan", 4: "blue",
}

var catVariantByIndex = map[int64]string{
	0: "tabby", 1: "black", 2: "red", 3: "siamese", 4: "british_shorthair",
	5: "calico", 6: "persian", 7: "ragdoll", 8: "white", 9: "jellie", 10: "all_black",
}

var llamaVariantByIndex = map[int64]string{
	0: "creamy", 1: "white", 2: "brown", 3: "gray",
}

var traderLlamaVariantByIndex = llamaVariantByIndex

var tropicalFishPatternByIndex = map[int64]string{
	0: "kob", 1: "sunstreak", 2: "snooper", 3: "dasher", 4: "brinely",
	5: "spotty", 6: "flopper", 7: "stripey", 8: "glitter", 9: "blockfish",
	10: "betty", 11: "clayfish",
}

func lookupVariant(table map[int64]string, n int64) (string, bool) {
	name, ok := table[n]
	return name, ok
}

// tropicalFishVariant decodes the packed "Variant" int: the low byte is the
// size (0 small, 1 large), the next byte the pattern (0-5), and the upper
// two bytes the base and pattern colors, which are not used here. Size and
// pattern together select the table entry (0-5 small, 6-11 large).
func tropicalFishVariant(packed int64) (string, bool) {
	size := packed & 0xFF
	pattern := (packed >> 8) & 0xFF
	if size > 1 || pattern > 5 {
		return "", false
	}
	return lookupVariant(tropicalFishPatternByIndex, size*6+pattern)
}
