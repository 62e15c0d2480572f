package linksource

import (
	"fmt"
	"regexp"
	"strings"
)

// unsafeRE matches every character that is not allowed to appear unescaped in
// a cleaned link. '%' is allowed, which is what makes cleaning idempotent.
var unsafeRE = regexp.MustCompile(`[^a-zA-Z0-9$&+,/:;=?@.#%_\\|-]`)

// CleanLink makes sure a link is fully encoded: a ' ' in the link becomes
// "%20", while '%' and the other reserved characters are left alone.
// Characters outside ASCII are encoded byte by byte from their UTF-8 form.
//
// CleanLink(CleanLink(s)) == CleanLink(s) for every s.
func CleanLink(url string) string {
	return unsafeRE.ReplaceAllStringFunc(url, func(s string) string {
		var b strings.Builder
		for i := 0; i < len(s); i++ {
			fmt.Fprintf(&b, "%%%02x", s[i])
		}
		return b.String()
	})
}
