// Package literal converts between Lua table literal text and value trees.
//
// A save file, once inflated, is a single Lua chunk that returns one table:
//
//	return {["GAME"]={["round"]=3,["hands"]={[1]="Pair",[2]="Flush",},},}
//
// Decoding is two steps:
//
//  1. Parse reads the text into a keyed tree: every table is a value.Mapping whose
//     keys are value.StringKey ("GAME") or value.IndexKey ([1]).
//  2. Promote turns tables whose keys are all indices into sequences, shifting the
//     1-based Lua index to a 0-based position.
//
// Encoding mirrors it:
//
//  1. Demote turns sequences back into index-keyed mappings, restoring 1-based keys,
//     and rejects trees that have no literal form (NaN, cycles).
//  2. Format writes the keyed tree with the game's key syntax and trailing commas.
//
// The parser is a hand-written recursive-descent parser; it never rewrites the text
// with substitutions, so string values containing things like `["x"]=` or `,}` are
// read verbatim.
package literal
