// Package models contains domain models for facetscope.
package models

// Trait is one of the five broad personality dimensions.
type Trait string

const (
	TraitOpenness          Trait = "openness"
	TraitConscientiousness Trait = "conscientiousness"
	TraitExtraversion      Trait = "extraversion"
	TraitAgreeableness     Trait = "agreeableness"
	TraitNeuroticism       Trait = "neuroticism"
)

// AllTraits lists the trait families in OCEAN order.
var AllTraits = []Trait{
	TraitOpenness,
	TraitConscientiousness,
	TraitExtraversion,
	TraitAgreeableness,
	TraitNeuroticism,
}

// FacetName identifies one of the 30 personality facets.
type FacetName string

const (
	// Openness
	FacetImagination       FacetName = "imagination"
	FacetArtisticInterests FacetName = "artistic_interests"
	FacetEmotionality      FacetName = "emotionality"
	FacetAdventurousness   FacetName = "adventurousness"
	FacetIntellect         FacetName = "intellect"
	FacetLiberalism        FacetName = "liberalism"

	// Conscientiousness
	FacetSelfEfficacy        FacetName = "self_efficacy"
	FacetOrderliness         FacetName = "orderliness"
	FacetDutifulness         FacetName = "dutifulness"
	FacetAchievementStriving FacetName = "achievement_striving"
	FacetSelfDiscipline      FacetName = "self_discipline"
	FacetCautiousness        FacetName = "cautiousness"

	// Extraversion
	FacetFriendliness      FacetName = "friendliness"
	FacetGregariousness    FacetName = "gregariousness"
	FacetAssertiveness     FacetName = "assertiveness"
	FacetActivityLevel     FacetName = "activity_level"
	FacetExcitementSeeking FacetName = "excitement_seeking"
	FacetCheerfulness      FacetName = "cheerfulness"

	// Agreeableness
	FacetTrust       FacetName = "trust"
	FacetMorality    FacetName = "morality"
	FacetAltruism    FacetName = "altruism"
	FacetCooperation FacetName = "cooperation"
	FacetModesty     FacetName = "modesty"
	FacetSympathy    FacetName = "sympathy"

	// Neuroticism
	FacetAnxiety           FacetName = "anxiety"
	FacetAnger             FacetName = "anger"
	FacetDepression        FacetName = "depression"
	FacetSelfConsciousness FacetName = "self_consciousness"
	FacetImmoderation      FacetName = "immoderation"
	FacetVulnerability     FacetName = "vulnerability"
)

// TraitFacets maps each trait to its six facets in catalogue order.
var TraitFacets = map[Trait][]FacetName{
	TraitOpenness: {
		FacetImagination, FacetArtisticInterests, FacetEmotionality,
		FacetAdventurousness, FacetIntellect, FacetLiberalism,
	},
	TraitConscientiousness: {
		FacetSelfEfficacy, FacetOrderliness, FacetDutifulness,
		FacetAchievementStriving, FacetSelfDiscipline, FacetCautiousness,
	},
	TraitExtraversion: {
		FacetFriendliness, FacetGregariousness, FacetAssertiveness,
		FacetActivityLevel, FacetExcitementSeeking, FacetCheerfulness,
	},
	TraitAgreeableness: {
		FacetTrust, FacetMorality, FacetAltruism,
		FacetCooperation, FacetModesty, FacetSympathy,
	},
	TraitNeuroticism: {
		FacetAnxiety, FacetAnger, FacetDepression,
		FacetSelfConsciousness, FacetImmoderation, FacetVulnerability,
	},
}

// FacetsPerTrait is the number of facets in each trait family.
const FacetsPerTrait = 6

// AllFacets lists the 30 facets grouped by trait (OCEAN order, then catalogue order).
var AllFacets = func() []FacetName {
	facets := make([]FacetName, 0, len(AllTraits)*FacetsPerTrait)
	for _, t := range AllTraits {
		facets = append(facets, TraitFacets[t]...)
	}
	return facets
}()

// InterleavedFacets is the canonical tie-break order: the i-th facet of every
// trait, in OCEAN order, before the (i+1)-th facet of any trait.
var InterleavedFacets = func() []FacetName {
	facets := make([]FacetName, 0, len(AllTraits)*FacetsPerTrait)
	for i := 0; i < FacetsPerTrait; i++ {
		for _, t := range AllTraits {
			facets = append(facets, TraitFacets[t][i])
		}
	}
	return facets
}()

var facetTraits = func() map[FacetName]Trait {
	m := make(map[FacetName]Trait, len(AllTraits)*FacetsPerTrait)
	for t, facets := range TraitFacets {
		for _, f := range facets {
			m[f] = t
		}
	}
	return m
}()

// TraitOf returns the trait a facet belongs to.
func TraitOf(f FacetName) (Trait, bool) {
	t, ok := facetTraits[f]
	return t, ok
}

// IsValid reports whether f is one of the 30 known facets.
func (f FacetName) IsValid() bool {
	_, ok := facetTraits[f]
	return ok
}

// LifeDomain is the context bucket an evidence item was observed in.
type LifeDomain string

const (
	DomainWork          LifeDomain = "work"
	DomainRelationships LifeDomain = "relationships"
	DomainFamily        LifeDomain = "family"
	DomainLeisure       LifeDomain = "leisure"
	DomainSolo          LifeDomain = "solo"
	DomainOther         LifeDomain = "other"
)

// AllDomains lists every life domain in canonical order.
var AllDomains = []LifeDomain{
	DomainWork,
	DomainRelationships,
	DomainFamily,
	DomainLeisure,
	DomainSolo,
	DomainOther,
}

// SteerableDomains are the domains the steering engine may target.
// "other" still counts toward volume and diversity but is never a target.
var SteerableDomains = []LifeDomain{
	DomainWork,
	DomainRelationships,
	DomainFamily,
	DomainLeisure,
	DomainSolo,
}

// IsValid reports whether d is a known life domain.
func (d LifeDomain) IsValid() bool {
	for _, known := range AllDomains {
		if d == known {
			return true
		}
	}
	return false
}

// IsSteerable reports whether d may be chosen as a steering target.
func (d LifeDomain) IsSteerable() bool {
	return d.IsValid() && d != DomainOther
}
