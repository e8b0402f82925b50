// Package domain models normalized GRIB1 decode output and the tolerant
// comparison math used to check one decoder against another.
//
// # Data Source
//
// Records originate from two collaborating decoders run against the same
// binary GRIB edition 1 file: the pygrib-based reference extractor and the
// candidate decoder under validation. Each decoder walks the file's message
// sequence and emits one JSON object per message. Neither decoder is part of
// this module; only their serialized output is.
//
// # GRIB1 Conventions
//
// Parameter indicators (WMO code table 2, the ones this tool cares about):
//
//	33 = U-component of wind (eastward, m/s)
//	34 = V-component of wind (northward, m/s)
//
// Grids are regular latitude/longitude rasters scanned row-major: Ni columns
// by Nj rows, corners given by the first/last grid-point coordinates. The
// flattened value array and the flattened coordinate arrays are index-aligned,
// so firstLat/lastLon and the corner metadata fields are redundant on purpose:
// they cross-check the decoder's coordinate reconstruction against its own
// grid-description section.
//
// # Meteorological Wind Direction
//
// Direction is the compass bearing the wind blows FROM, clockwise from true
// north:
//
//	direction = degrees(atan2(-u, -v)), normalized into [0, 360)
//
// A pure westerly (u > 0, air moving east) therefore reads 270°, and a pure
// northerly (v < 0, air moving south) reads 0°. The bearing the wind blows
// toward — what a wind barb arrow shows — is direction + 180 mod 360.
//
// # Sampling
//
// Full value arrays are large (tens of thousands of floats per message), so
// only messages selected by [SamplingPolicy] carry allValues; the rest carry a
// 10-element head and tail plus spot values at fixed index fractions. The
// default policy (first 5 messages, then the first 2 of every 51-message
// block) mirrors the parameter-block layout of the reference dataset and is
// configuration, not a rule.
//
// # Comparison Semantics
//
// All numeric comparisons are absolute-difference thresholds. The domain
// values sit in bounded, known magnitude ranges (wind components, geopotential
// heights), so an absolute tolerance is meaningful and a relative one would
// only complicate near-zero values. A difference exactly equal to the
// tolerance passes. Means get a looser tolerance than min/max because a mean
// accumulates rounding across every element.
package domain
