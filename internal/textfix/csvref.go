// Package textfix repairs test case text damaged by imports: broken CSV
// markdown references, leftover HTML markup, dead attachment links. It
// also extracts JIRA issue IDs from refs text.
package textfix

import (
	"regexp"
	"strings"
)

// Markdown image syntax renders CSV links as broken inline images. Three
// damage variants occur in exported test cases: a plain "![name.csv](url)",
// the same with the bang escaped, and a fully escaped form where every
// markdown metacharacter carries a backslash.
var (
	csvImageRef   = regexp.MustCompile(`(\\?)!\[([^\]]+\.csv[^\]]*)\]\(([^)]+)\)`)
	csvEscapedRef = regexp.MustCompile(`\\!\\\[(.*?\.csv.*?)\\\]\\\((.*?)\\\)`)

	nameUnescaper = strings.NewReplacer(`\\`, `\`, `\_`, "_", `\(`, "(", `\)`, ")", `\.`, ".")
	urlUnescaper  = strings.NewReplacer(`\\`, `\`, `\_`, "_", `\(`, "(", `\)`, ")", `\.`, ".", `\/`, "/")
)

// Replacement pairs a broken CSV reference with its repaired form.
type Replacement struct {
	Broken string
	Fixed  string
}

// FindBrokenCSVRefs returns every broken CSV file reference in text along
// with the link it should become.
func FindBrokenCSVRefs(text string) []Replacement {
	if text == "" {
		return nil
	}

	var refs []Replacement
	for _, m := range csvImageRef.FindAllStringSubmatch(text, -1) {
		refs = append(refs, Replacement{
			Broken: m[0],
			Fixed:  "[" + m[2] + "](" + m[3] + ")",
		})
	}
	for _, m := range csvEscapedRef.FindAllStringSubmatch(text, -1) {
		refs = append(refs, Replacement{
			Broken: m[0],
			Fixed:  "[" + nameUnescaper.Replace(m[1]) + "](" + urlUnescaper.Replace(m[2]) + ")",
		})
	}
	return refs
}

// FixCSVRefs repairs broken CSV references by stripping the image prefix
// and unescaping the link. The second return reports whether text changed.
func FixCSVRefs(text string) (string, bool) {
	refs := FindBrokenCSVRefs(text)
	if len(refs) == 0 {
		return text, false
	}

	fixed := text
	for _, r := range refs {
		fixed = strings.ReplaceAll(fixed, r.Broken, r.Fixed)
	}
	return fixed, fixed != text
}
