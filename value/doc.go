// Package value defines the generic tree a decoded save is materialized into.
//
// A Value is an explicit tagged variant:
//
//	KindNull | KindBool | KindNumber | KindString | KindSequence | KindMapping
//
// Lua has a single table type that serves both as a 1-indexed array and as a
// record. The literal package decides once, while decoding, which of the two a
// table is: tables whose keys are all integers become sequences, everything else
// becomes a Mapping. Mapping keys are themselves variants (StringKey or
// IndexKey), so a table mixing both kinds of keys is kept intact.
//
// Building a tree by hand:
//
//	hand := value.MapOf(
//	    "level", value.Int(2),
//	    "chips", value.Int(10),
//	)
//	deck := value.Sequence(value.String("c_base"), value.String("c_base"))
//
// Reading one:
//
//	if lvl, ok := tree.Lookup("GAME", "hands", "Pair", "level"); ok {
//	    n, _ := lvl.AsInt()
//	}
package value
