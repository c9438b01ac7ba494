// Package ecotraj implements Ecological Trajectory Analysis: the study of
// the temporal dynamics of ecological entities (sites, individuals,
// communities) represented as ordered sequences of states in a space defined
// only by pairwise dissimilarities.
//
// The engine never materializes coordinates. Every geometric quantity
// (segment length, angle, projection, variance) is derived directly from a
// dissimilarity matrix through generalized distance formulas (law of cosines,
// Huygens identity), so it works in metric and near-metric spaces produced by
// arbitrary dissimilarity coefficients.
//
// Packages:
//
//   - trajectory: the data model binding a dissimilarity matrix to
//     per-observation entity/survey/time metadata
//   - geom: metricity checks and coordinate-free geometric primitives
//   - metrics: single-trajectory metrics (lengths, speeds, angles,
//     directionality, internal variation, projection)
//   - compare: multi-trajectory comparison (segment and trajectory
//     distances, shifts, convergence tests, dynamic variation)
//   - transform: centering, smoothing and temporal interpolation
//   - logging: structured logging facade for library consumers
package ecotraj
