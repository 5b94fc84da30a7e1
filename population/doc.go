// Package population provides models of parameter variation across the
// individuals of a cohort.
//
// Every variant implements the same flat PopulationModel interface: a joint
// log-density of individual-level values given hyperparameters, a sampler
// for individual values, and slot accounting that tells the inference
// machinery how many bottom-level (per-individual) and top-level
// (hyperparameter) entries the model contributes to the flat parameter
// vector. Composed holds an ordered list of sibling instances over disjoint
// parameter subsets; it does not subclass them.
//
// Slot accounting invariant: for a cohort of n individuals the flat vector
// exposed to the sampler contains exactly the sum of per-model
// NHierarchical(n) counts.
package population
