// Package sketch implements locality-sensitive strip sketches for
// approximate nearest-neighbor candidate filtering.
//
// A sketch is built from a family of random hyperplane projections: each
// basis row partitions the projected line into periodic strips of a fixed
// width, and a vector's bit for that row is the parity of the strip it lands
// in. Nearby vectors tend to land in the same or an adjacent strip and hence
// share bits with probability decreasing in their true distance.
//
// Alongside each bit the encoder can emit a confidence weight: the distance,
// in strip units, from the projected coordinate to the nearest strip
// boundary. A coordinate in the middle of a strip (weight near 0.5) keeps its
// bit under small perturbations; a coordinate on a boundary (weight 0) could
// have landed on either side. Asymmetric sketch distances use the query's
// weights to discount unreliable bit disagreements.
//
// The technique follows "Asymmetric Distance Estimation with Sketches for
// Similarity Search in High-Dimensional Spaces" (Dong, Charikar, Li).
package sketch
