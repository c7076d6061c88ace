// Package canonical renders Go values as JSON text with the exact shape
// ECMAScript JSON.stringify produces, and orders object keys by UTF-16 code
// units as RFC 8785 requires.
//
// The package is the shared text layer of the module:
//   - params uses Marshal to coerce non-string values before storing them
//   - params uses CompareUTF16 to sort keys in ECMAScript default sort order
//   - harness uses Marshal to produce byte-stable golden traces
//
// Key design constraints:
//   - No HTML escaping (<, > and & stay literal)
//   - U+2028 and U+2029 stay literal
//   - Numbers use the ECMAScript Number-to-String algorithm
//   - NaN and the infinities become null, as in JSON.stringify
//   - Map keys are sorted by UTF-16 code units, never by UTF-8 bytes
package canonical
