// Package filename extracts the date a filename claims to carry.
package filename

import "strings"

// tokenSeparators are applied in order, each to the result of the previous split.
var tokenSeparators = []string{"_", " ", "-"}

// Stem returns the name up to its first dot, so "20200101.edited.jpg" yields "20200101".
func Stem(name string) string {
	stem, _, _ := strings.Cut(name, ".")
	return stem
}

// FirstToken returns s up to the first occurrence of sep.
func FirstToken(s, sep string) string {
	token, _, _ := strings.Cut(s, sep)
	return token
}

// ExtractDate returns the leading token of the stem after splitting on "_",
// then " ", then "-". The token is not validated: "vacation.jpg" yields "vacation".
func ExtractDate(name string) string {
	token := Stem(name)
	for _, sep := range tokenSeparators {
		token = FirstToken(token, sep)
	}
	return token
}
