// Package data normalizes measurement tables into per-individual
// observation indexes and dosing regimens.
//
// A Dataset is a flat list of records in long format, one row per
// measurement or dose event. Build indexes it by individual, splits
// measurement rows from dose rows, and validates the result; downstream
// code consumes the per-individual view only.
package data
