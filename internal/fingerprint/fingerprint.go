// Package fingerprint builds and verifies the canonical signed representation
// of a package's narinfo.
package fingerprint

import (
	"strconv"
	"strings"

	"github.com/DanielSidhion/nixless-agent/internal/core/domain"
	"github.com/DanielSidhion/nixless-agent/internal/keychain"
)

// Build produces the canonical fingerprint string:
// "1;<store_path>;<nar_hash>;<nar_size>;<refs>" where refs is a
// comma-separated list of "<store_dir>/<ref>" with no trailing comma.
func Build(n *domain.Narinfo) string {
	storeDir := n.StoreDir()

	refs := make([]string, len(n.References))
	for i, ref := range n.References {
		refs[i] = storeDir + "/" + ref
	}

	var b strings.Builder
	b.WriteString("1;")
	b.WriteString(n.StorePath)
	b.WriteByte(';')
	b.WriteString(n.NarHash)
	b.WriteByte(';')
	b.WriteString(strconv.FormatUint(n.NarSize, 10))
	b.WriteByte(';')
	b.WriteString(strings.Join(refs, ","))

	return b.String()
}

// Verify reports whether any signature on n verifies, under its declared key
// name, against the fingerprint built from n's own fields.
func Verify(n *domain.Narinfo, kc *keychain.Keychain) bool {
	fp := []byte(Build(n))
	return kc.VerifyAny(fp, n.Signatures)
}
