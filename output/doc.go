// Package output writes match results to versioned JSON files.
//
// Two files are produced per run: a results file holding one entry per query that
// found a best match, and a details file holding every column's best match for
// every query. File names carry the run timestamp and a version number so that
// repeated runs never overwrite each other.
package output
