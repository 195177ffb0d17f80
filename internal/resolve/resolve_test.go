package resolve

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketindex/rocketindex/internal/index"
	"github.com/rocketindex/rocketindex/internal/model"
)

func loc(file string, line int) model.Location {
	return model.Location{File: file, StartLine: line, StartCol: 1, EndLine: line + 2, EndCol: 1}
}

// main.py's MyClass.greet resolves by exact qualified match.
func TestResolvePython_MethodResolution(t *testing.T) {
	idx := index.New("/ws")
	idx.AddSymbol(model.Symbol{Name: "MyClass", Qualified: "MyClass", Kind: model.KindClass, Location: loc("main.py", 1), Language: "python"})
	idx.AddSymbol(model.Symbol{Name: "greet", Qualified: "MyClass.greet", Kind: model.KindFunction, Parent: "MyClass", Location: loc("main.py", 2), Language: "python"})

	res, err := Resolve(idx, "MyClass.greet", "main.py")
	require.NoError(t, err)
	require.NotNil(t, res)
	assert.Equal(t, "MyClass.greet", res.Symbol.Qualified)
	assert.Equal(t, model.KindFunction, res.Symbol.Kind)
	assert.Equal(t, model.PathQualified, res.ResolutionPath)
}

// main.go imports github.com/gin-gonic/gin; gin.Router resolves via
// that open, matching the import's trailing path component.
func TestResolveGo_ImportChain(t *testing.T) {
	idx := index.New("/ws")
	idx.AddSymbol(model.Symbol{
		Name: "Router", Qualified: "github.com/gin-gonic/gin.Router",
		Kind: model.KindType, Location: loc("gin.go", 10), Language: "go",
	})
	idx.AddOpen("main.go", "github.com/gin-gonic/gin")

	res, err := Resolve(idx, "gin.Router", "main.go")
	require.NoError(t, err)
	require.NotNil(t, res)
	assert.Equal(t, "github.com/gin-gonic/gin.Router", res.Symbol.Qualified)
	assert.Equal(t, model.PathViaOpen, res.ResolutionPath)
	assert.Equal(t, "github.com/gin-gonic/gin", res.Detail)
}

func TestResolveGo_SamePackageFallback(t *testing.T) {
	idx := index.New("/ws")
	idx.AddSymbol(model.Symbol{Name: "Helper", Qualified: "pkg.Helper", Kind: model.KindFunction, Location: loc("a.go", 1), Language: "go"})

	res, err := Resolve(idx, "Helper", "b.go")
	assert.NoError(t, err)
	assert.Nil(t, res, "b.go has no symbols of its own, so there's no package prefix to derive")
}

func TestResolve_UnsupportedExtensionReturnsNilNotError(t *testing.T) {
	idx := index.New("/ws")
	res, err := Resolve(idx, "anything", "file.unknownlang")
	assert.NoError(t, err)
	assert.Nil(t, res)
}

func TestResolveFSharp_RespectsCompilationOrder(t *testing.T) {
	idx := index.New("/ws")
	idx.SetCompilationOrder([]string{"A.fs", "B.fs"})
	idx.AddSymbol(model.Symbol{Name: "helper", Qualified: "App.helper", Kind: model.KindFunction, Location: loc("B.fs", 1), Language: "fsharp"})

	// A.fs comes before B.fs, so it must not see B.fs's symbol.
	res, err := Resolve(idx, "App.helper", "A.fs")
	require.NoError(t, err)
	assert.Nil(t, res)

	// A symbol in A.fs is visible from the later B.fs.
	idx.AddSymbol(model.Symbol{Name: "shared", Qualified: "App.shared", Kind: model.KindFunction, Location: loc("A.fs", 1), Language: "fsharp"})
	res, err = Resolve(idx, "App.shared", "B.fs")
	require.NoError(t, err)
	require.NotNil(t, res)
}

func TestResolveRuby_DoubleColonScope(t *testing.T) {
	idx := index.New("/ws")
	idx.AddSymbol(model.Symbol{Name: "Widget", Qualified: "App", Kind: model.KindModule, Location: loc("app.rb", 1), Language: "ruby"})
	idx.AddSymbol(model.Symbol{Name: "Widget", Qualified: "App::Widget", Kind: model.KindClass, Location: loc("app.rb", 2), Language: "ruby"})

	res, err := Resolve(idx, "App::Widget", "app.rb")
	require.NoError(t, err)
	require.NotNil(t, res)
	assert.Equal(t, model.PathQualified, res.ResolutionPath)
}
