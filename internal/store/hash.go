package store

import (
	"crypto/sha256"
	"fmt"
	"sort"
	"strings"

	"github.com/rocketindex/rocketindex/internal/model"
)

// ComputeSignatureHash computes a deterministic hash of a symbol's semantic
// identity: name, kind, visibility, signature, and sorted base/mixin lists.
// Location changes do not affect the hash. internal/project's incremental
// build uses this to decide whether a changed file's blast radius (files
// whose resolution might now be stale) extends beyond the file itself.
func ComputeSignatureHash(sym model.Symbol) string {
	h := sha256.New()
	fmt.Fprintf(h, "name:%s\n", sym.Name)
	fmt.Fprintf(h, "kind:%s\n", sym.Kind)
	fmt.Fprintf(h, "visibility:%s\n", sym.Visibility)
	fmt.Fprintf(h, "signature:%s\n", sym.Signature)

	bases := append([]string(nil), sym.Implements...)
	sort.Strings(bases)
	fmt.Fprintf(h, "implements:%s\n", strings.Join(bases, ","))

	mixins := append([]string(nil), sym.Mixins...)
	sort.Strings(mixins)
	fmt.Fprintf(h, "mixins:%s\n", strings.Join(mixins, ","))

	return fmt.Sprintf("%x", h.Sum(nil))
}
