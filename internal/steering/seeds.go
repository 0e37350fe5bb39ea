package steering

import "github.com/thebtf/facetscope/pkg/models"

// Seed is a fixed opening (domain, facet) pair used before any evidence exists.
type Seed struct {
	Domain models.LifeDomain
	Facet  models.FacetName
	Hint   string
}

// seedPool covers one facet per trait and one steerable domain per seed.
var seedPool = [...]Seed{
	{Domain: models.DomainLeisure, Facet: models.FacetImagination, Hint: "Ask what they like to do in their free time and what draws them to it"},
	{Domain: models.DomainWork, Facet: models.FacetOrderliness, Hint: "Ask how they organise a typical working day"},
	{Domain: models.DomainRelationships, Facet: models.FacetFriendliness, Hint: "Ask how they usually get to know new people"},
	{Domain: models.DomainFamily, Facet: models.FacetTrust, Hint: "Ask who in their family they turn to and why"},
	{Domain: models.DomainSolo, Facet: models.FacetAnxiety, Hint: "Ask how they feel when facing something uncertain on their own"},
}

// SeedPoolSize is the number of cold-start seeds.
const SeedPoolSize = len(seedPool)

// ColdStart returns the seed for the given rotation counter.
// The same counter always yields the same seed.
func ColdStart(counter int) Seed {
	i := counter % SeedPoolSize
	if i < 0 {
		i += SeedPoolSize
	}
	return seedPool[i]
}
