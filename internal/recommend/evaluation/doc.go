// CoursePath - Next-Course Recommendation from Academic Trajectories
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/coursepath

// Package evaluation scores recommenders offline and searches their thresholds.
//
// Holdout hides each student's last term and checks whether the top-k PM
// recommendations hit it. SimulatePM and SimulateSPM estimate the GPA a cohort
// would get on its next term by following recommendations, against what it
// actually got. TunePM and TuneSPM repeat the simulation over threshold grids.
//
// Everything here is single-threaded and deterministic. The only randomness is
// cohort sampling in SimulatePM, driven by an explicit seed.
package evaluation
