package coercez

// Ready-made pipelines for common form fields.
var (
	// ProperName cleans a person or company name: irregular spaces, typographic
	// quotes, capitalization, and at most 100 characters.
	ProperName = To[string](String, Spaces, Trim, Quotes, Proper, NonEmpty, Limit[string](100))

	// CleanEmail normalizes an email address to at most 100 characters.
	CleanEmail = To[string](String, Email, Limit[string](100))

	// CleanPhone formats a US phone number as "(NNN) NNN-NNNN".
	CleanPhone = To[string](String, PrettyPhone)
)

// IsDefinedTuple reports whether no element of values is nil.
func IsDefinedTuple(values ...any) bool {
	for _, v := range values {
		if !Defined.Test(v) {
			return false
		}
	}
	return true
}

// MapKeyAValB pairs each key of a with the value b holds under a's value,
// dropping keys whose lookup is missing or nil.
//
//	a := map[string]string{"foo": "a", "bar": "b", "baz": "c"}
//	b := map[string]int{"a": 1, "b": 2}
//	coercez.MapKeyAValB(a, b) // map[bar:2 foo:1]
func MapKeyAValB[K, V comparable, W any](a map[K]V, b map[V]W) map[K]W {
	out := make(map[K]W, len(a))
	for key, ref := range a {
		val, ok := b[ref]
		if ok && IsDefinedTuple(key, val) {
			out[key] = val
		}
	}
	return out
}

// MapKeys renames the keys of b using a as a mapping from old key to new key,
// dropping keys that are missing from b or hold nil.
//
//	a := map[string]string{"a": "foo", "b": "bar", "c": "baz"}
//	b := map[string]int{"a": 1, "b": 2}
//	coercez.MapKeys(a, b) // map[bar:2 foo:1]
func MapKeys[K, V comparable, W any](a map[K]V, b map[K]W) map[V]W {
	out := make(map[V]W, len(a))
	for key, renamed := range a {
		val, ok := b[key]
		if ok && IsDefinedTuple(renamed, val) {
			out[renamed] = val
		}
	}
	return out
}
