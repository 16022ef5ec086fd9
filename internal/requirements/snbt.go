package requirements

import (
	"regexp"
	"strconv"

	"advancetrack/internal/model"
)

// Entity NBT predicates arrive as a stringified SNBT fragment, not JSON.
// Rather than writing a full SNBT grammar, we probe it with small targeted
// regular expressions the same way the upstream extractor does, since the
// fields we care about (CustomName, type-specific variant keys, nested
// Passengers/Item/weapon/potion) have a narrow, well-known shape.
var (
	reCustomName      = regexp.MustCompile(`CustomName:"((?:[^"\\]|\\.)*)"`)
	reProfession      = regexp.MustCompile(`profession:"?([a-z_:]+)"?`)
	reMainGene        = regexp.MustCompile(`MainGene:"?([a-z_:]+)"?`)
	reHiddenGene       = regexp.MustCompile(`HiddenGene:"?([a-z_:]+)"?`)
	reFoxType         = regexp.MustCompile(`Type:"?([a-z_:]+)"?`)
	reScreamingGoat    = regexp.MustCompile(`IsScreamingGoat:1b?`)
	reNumericVariant   = regexp.MustCompile(`Variant:(-?\d+)`)
	reCarriedBlockState = regexp.MustCompile(`carriedBlockState:\{id:"?([a-z_:]+)"?`)
	rePassengerID      = regexp.MustCompile(`id:"?([a-z_:]+)"?`)
	reItemID           = regexp.MustCompile(`Item:\{id:"?([a-z_:]+)"?`)
	reWeaponID         = regexp.MustCompile(`weapon:\{id:"?([a-z_:]+)"?`)
	rePotion           = regexp.MustCompile(`potion:"?([a-z_:]+)"?`)
	reVillagerType     = regexp.MustCompile(`type:"?([a-z_:]+)"?`)
	rePassengersBlock  = regexp.MustCompile(`Passengers:\[(.*)\]`)
)

// nbtExtraction holds everything the SNBT subparser can pull out of one
// entity's NBT predicate fragment.
type nbtExtraction struct {
	customName     string
	variant        string
	entitySupp     *model.EntitySupplement
	blockSubject   *model.Subject
	entitySubjects []model.Subject
	itemSubjects   []model.Subject
	biome          string
}

// parseEntityNBT probes snbt for the entity-specific fragments described in
// §4.6's NBT subparser, given the entity's own type (to exclude
// self-references in nested Passengers).
func parseEntityNBT(snbt string, selfType string) nbtExtraction {
	var out nbtExtraction

	if m := reCustomName.FindStringSubmatch(snbt); m != nil {
		out.customName = m[1]
	}

	switch selfType {
	case "villager", "zombie_villager":
		if m := reProfession.FindStringSubmatch(snbt); m != nil {
			out.variant = model.StripNamespace(m[1])
		}
		if m := reVillagerType.FindStringSubmatch(snbt); m != nil {
			out.biome = model.StripNamespace(m[1])
		}
	case "panda":
		var main, hidden string
		if m := reMainGene.FindStringSubmatch(snbt); m != nil {
			main = m[1]
			out.variant = main
		}
		if m := reHiddenGene.FindStringSubmatch(snbt); m != nil {
			hidden = m[1]
		}
		if hidden != "" {
			out.entitySupp = &model.EntitySupplement{ID: "panda", Variant: hidden}
		}
	case "fox":
		if m := reFoxType.FindStringSubmatch(snbt); m != nil {
			out.variant = m[1]
		}
	case "goat":
		if reScreamingGoat.MatchString(snbt) {
			out.variant = "screaming"
		}
	case "horse":
		if n, ok := numericVariant(snbt); ok {
			out.variant, _ = lookupVariant(horseVariantByIndex, n)
		}
	case "tropical_fish":
		if n, ok := numericVariant(snbt); ok {
			out.variant, _ = tropicalFishVariant(n)
		}
	case "axolotl":
		if n, ok := numericVariant(snbt); ok {
			out.variant, _ = lookupVariant(axolotlVariantByIndex, n)
		}
	case "parrot":
		if n, ok := numericVariant(snbt); ok {
			out.variant, _ = lookupVariant(parrotVariantByIndex, n)
		}
	case "rabbit":
		if n, ok := numericVariant(snbt); ok {
			out.variant, _ = lookupVariant(rabbitVariantByIndex, n)
		}
	case "cat":
		if n, ok := numericVariant(snbt); ok {
			out.variant, _ = lookupVariant(catVariantByIndex, n)
		}
	case "llama":
		if n, ok := numericVariant(snbt); ok {
			out.variant, _ = lookupVariant(llamaVariantByIndex, n)
		}
	case "trader_llama":
		if n, ok := numericVariant(snbt); ok {
			out.variant, _ = lookupVariant(traderLlamaVariantByIndex, n)
		}
	case "enderman":
		if m := reCarriedBlockState.FindStringSubmatch(snbt); m != nil {
			id := model.StripNamespace(m[1])
			out.blockSubject = &model.Subject{Base: model.BaseBlock, IDs: []string{id}}
		}
	}

	if m := rePassengersBlock.FindStringSubmatch(snbt); m != nil {
		for _, idm := range rePassengerID.FindAllStringSubmatch(m[1], -1) {
			id := model.StripNamespace(idm[1])
			if id == "" || id == selfType {
				continue
			}
			out.entitySubjects = append(out.entitySubjects, model.Subject{Base: model.BaseEntity, ID: id})
		}
	}

	if m := reItemID.FindStringSubmatch(snbt); m != nil {
		out.itemSubjects = append(out.itemSubjects, model.Subject{Base: model.BaseItem, IDs: []string{model.StripNamespace(m[1])}})
	}
	if m := reWeaponID.FindStringSubmatch(snbt); m != nil {
		out.itemSubjects = append(out.itemSubjects, model.Subject{Base: model.BaseItem, IDs: []string{model.StripNamespace(m[1])}})
	}
	if m := rePotion.FindStringSubmatch(snbt); m != nil {
		potionID := model.StripNamespace(m[1])
		subj := model.Subject{Base: model.BaseItem, IDs: []string{potionID}}
		subj.AddEffectSupplement(model.EffectSupplement{ID: potionID})
		out.itemSubjects = append(out.itemSubjects, subj)
	}

	return out
}

func numericVariant(snbt string) (int64, bool) {
	m := reNumericVariant.FindStringSubmatch(snbt)
	if m == nil {
		return 0, false
	}
	n, err := strconv.ParseInt(m[1], 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}
