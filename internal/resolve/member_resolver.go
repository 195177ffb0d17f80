package resolve

import (
	"path/filepath"
	"strings"

	"github.com/rocketindex/rocketindex/internal/index"
	"github.com/rocketindex/rocketindex/internal/model"
)

func init() {
	r := ResolverFunc(resolveMemberStyle)
	// Java, C#, Kotlin, Swift, and Haxe share one resolution ordering:
	// (1) exact; (2) same file; (3) via imports/using, including suffix
	// matches for wildcard-equivalent imports; (4) nested-type fallback
	// parent.name. PHP follows the same shape since its \-namespacing
	// and `use` statements behave analogously, but its Qualified values
	// join with "\" rather than ".".
	register([]string{".java", ".cs", ".kt", ".kts", ".swift", ".hx", ".php"}, r)
}

// memberSep returns the qualified-name join separator for fromFile's
// language: "\" for PHP (internal/extract's phpSpec.qualSep), "." for
// every other language sharing this resolver.
func memberSep(fromFile string) string {
	if strings.ToLower(filepath.Ext(fromFile)) == ".php" {
		return "\\"
	}
	return "."
}

func resolveMemberStyle(idx *index.CodeIndex, name, fromFile string) (*model.ResolveResult, error) {
	sep := memberSep(fromFile)

	if s, ok := idx.Get(name); ok {
		return &model.ResolveResult{Symbol: s, ResolutionPath: model.PathQualified}, nil
	}

	if s, ok := sameFileShortNameMatch(idx, name, fromFile); ok {
		return &model.ResolveResult{Symbol: s, ResolutionPath: model.PathSameModule}, nil
	}

	for _, open := range idx.OpensForFile(fromFile) {
		// Exact "import<sep>name".
		if s, ok := idx.Get(open + sep + name); ok {
			return &model.ResolveResult{Symbol: s, ResolutionPath: model.PathViaOpen, Detail: open}, nil
		}
		// Wildcard-equivalent imports ("com.example.*", "App\Example\*")
		// match by trailing path component, same as a suffix comparison.
		base := strings.TrimSuffix(strings.TrimSuffix(open, ".*"), "\\*")
		if base != open {
			if s, ok := idx.Get(base + sep + name); ok {
				return &model.ResolveResult{Symbol: s, ResolutionPath: model.PathViaOpen, Detail: open}, nil
			}
		}
	}

	modulePath := moduleOfFile(idx, fromFile)
	if modulePath != "" {
		if s, parent, ok := walkUpParentModule(idx, name, modulePath, sep); ok {
			return &model.ResolveResult{Symbol: s, ResolutionPath: model.PathParentModule, Detail: parent}, nil
		}
	}

	return nil, nil
}
