// Package physics implements the analytical stress model for Type-IV
// composite pressure vessels.
//
// The package is the computational core of the engine and has four parts,
// leaves first:
//
//  1. Dome profile: the netting-theory isotensoid meridian for the end caps.
//  2. Thin-wall calculator: closed-form hoop/axial/von Mises/shear stresses.
//  3. Concentration model: bounded empirical multipliers for the geometric
//     discontinuities (dome-cylinder transition, boss bore, ply drops).
//  4. Field: the local stress evaluator combining the above with a region
//     classifier and a through-thickness gradient.
//
// Everything here is a pure function of its inputs. There is no shared
// mutable state; two concurrent evaluations of the same design always
// produce identical results.
//
// The concentration coefficients are calibrated constants, not derived
// solutions. They are regression-pinned by tests and must not be "improved"
// without recalibrating against the measurement set.
package physics
