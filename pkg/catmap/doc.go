// Package catmap reads and writes category maps, the JSON documents a mind
// map is built from.
//
// A category map is an ordered JSON object. Each key is a category label and
// each value is either an array of leaf items or a single scalar that stands
// for one leaf:
//
//	{
//	  "Nature": ["roots", "leaves"],
//	  "Cycle": "growth"
//	}
//
// Key order is significant: it decides the angular order of categories
// around the central node. [Parse] keeps that order, and [MarshalIndent]
// writes it back unchanged, so a map survives a read/write cycle byte for
// byte once formatted.
//
// # Shape
//
// Items may be strings, numbers or booleans. Anything else is rejected by
// [Parse] with an error coded MALFORMED_INPUT whose cause is a [*ShapeError]
// naming the offending category and, for list items, the index:
//
//	_, err := catmap.Parse([]byte(`{"Nature": [["nested"]]}`))
//	var se *catmap.ShapeError
//	errors.As(err, &se) // se.Key == "Nature", se.Index == 0
//
// # Files
//
// Saved maps are UTF-8 JSON with two-space indentation. HTML characters are
// not escaped, so labels like "R&D" stay readable.
//
//	m, err := catmap.ReadFile("json/Tree.json")
//	err = catmap.WriteFile(m, "json/Tree.json")
package catmap
