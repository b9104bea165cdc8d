// Package dataset holds the multi-layer ("omics") input model consumed by the
// hypergraph encoder, plus deterministic synthetic generators.
//
// A Dataset is a set of samples measured across one or more named layers
// (transcriptomics, proteomics, ...). Every layer is a samples×features table.
//
// What is inside?
//
//   - Dataset / Layer:   validated, deep-copied, read-only after construction.
//   - Profile:           enum of synthetic toy profiles backed by a lookup table.
//   - Synthesize:        latent-factor generator so features correlate within
//     and across layers, tuned by functional options (WithSeed, WithNoise,
//     WithLatentFactors).
//
// Guarantees:
//
//   - Same profile, sizes and options ⇒ bit-identical dataset.
//   - Empty datasets (0 samples or 0 features) are legal values; the encoder
//     is the stage that rejects them with pce.ErrEmptyInput.
//   - Option constructors panic on meaningless arguments; Synthesize and New
//     return errors instead.
package dataset
