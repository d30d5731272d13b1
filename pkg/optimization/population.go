package optimization

import "sort"

// Population is an ordered collection of individuals, re-ranked every
// generation.
type Population []*Individual

// SortByFitness orders the population best-first. The sort is stable so
// equal-fitness runs stay deterministic.
func (p Population) SortByFitness() {
	sort.SliceStable(p, func(i, j int) bool {
		return p[i].Fitness > p[j].Fitness
	})
}

// Best returns the highest-fitness individual, or nil for an empty
// population.
func (p Population) Best() *Individual {
	if len(p) == 0 {
		return nil
	}
	best := p[0]
	for _, ind := range p[1:] {
		if ind.Fitness > best.Fitness {
			best = ind
		}
	}
	return best
}

// AverageFitness returns the mean fitness across the population.
func (p Population) AverageFitness() float64 {
	if len(p) == 0 {
		return 0
	}
	sum := 0.0
	for _, ind := range p {
		sum += ind.Fitness
	}
	return sum / float64(len(p))
}

// MedianFitness returns the median fitness of a sorted-or-not population.
func (p Population) MedianFitness() float64 {
	if len(p) == 0 {
		return 0
	}
	fitness := make([]float64, len(p))
	for i, ind := range p {
		fitness[i] = ind.Fitness
	}
	sort.Float64s(fitness)
	mid := len(fitness) / 2
	if len(fitness)%2 == 0 {
		return (fitness[mid-1] + fitness[mid]) / 2
	}
	return fitness[mid]
}

// Elite returns clones of the top n individuals. The population must be
// sorted best-first.
func (p Population) Elite(n int) []*Individual {
	if n > len(p) {
		n = len(p)
	}
	elite := make([]*Individual, n)
	for i := 0; i < n; i++ {
		elite[i] = p[i].Clone()
	}
	return elite
}
