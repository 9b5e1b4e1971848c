// Package table decodes the #~ table stream of ECMA-335 metadata.
//
// Decoding happens in three steps. ParseHeader reads the stream header and
// assigns row counts to the tables marked in the valid mask. ResolveLayouts
// combines the static column schema of each table with the header to fix
// every column's byte width: heap indices are 2 or 4 bytes depending on the
// heap size flags, simple indices depend on the target table's row count and
// coded indices on the largest table in their tag set. DecodeTable then
// reads fixed-size rows into Values.
//
// Decode runs all three and returns a Set. Rows are addressed by 1-based
// RIDs; RID 0 is the null reference.
package table
