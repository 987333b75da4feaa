// Package diff implements the visual difference engine for page rasters.
//
// The engine compares two RGB page images and produces a highlighted overlay
// plus a deviation percentage. Rendering noise (antialiasing jitter, minor
// color shifts) is suppressed so that only visually significant differences
// survive.
//
// # Pipeline
//
// [Engine.Compare] runs a fixed pipeline, strictly in this order:
//
//  1. Size normalization: differing dimensions are padded onto white
//     canvases sized to the per-axis maximum.
//  2. Color conversion to RGB.
//  3. A perceptually weighted per-pixel difference field
//     (0.299·|ΔR| + 0.587·|ΔG| + 0.114·|ΔB|).
//  4. Gaussian smoothing (sigma 1.5) to merge sub-pixel antialiasing noise.
//  5. Thresholding against the configured sensitivity.
//  6. Morphological opening (3×3) then closing (5×5).
//  7. Exclusion-zone masking: zone pixels are vetoed after cleanup.
//  8. Deviation percentage over the final mask.
//  9. Region extraction with the configured minimum area.
//  10. Overlay rendering: semi-transparent red fill and an opaque red
//     outline over each region, composited onto the second image.
//
// # Masks and regions
//
// [Mask] is a flat boolean grid with morphology helpers. [ExtractRegions]
// labels connected components with a stack-based flood fill
// (8-connectivity) and returns padded, clamped bounding boxes. [ExtentBox]
// is the coarse alternative: a single box covering every set pixel.
package diff
