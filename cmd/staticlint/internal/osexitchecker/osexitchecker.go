// Package osexitchecker reports direct os.Exit calls in the main
// function of a main package. Exiting there skips deferred cleanup,
// so commands funnel errors through log.Fatal in one place instead.
package osexitchecker

import (
	"go/ast"

	"golang.org/x/tools/go/analysis"
)

var Analyzer = &analysis.Analyzer{
	Name: "osexitcheck",
	Doc:  "reports direct os.Exit calls in the main func of a main package",
	Run:  run,
}

func run(pass *analysis.Pass) (interface{}, error) {
	for _, file := range pass.Files {
		ast.Inspect(file, func(node ast.Node) bool {
			switch x := node.(type) {
			case *ast.File:
				if x.Name.Name != "main" {
					return false
				}
			case *ast.FuncDecl:
				if x.Name.String() != "main" {
					return false
				}
			case *ast.CallExpr:
				if sel, ok := x.Fun.(*ast.SelectorExpr); ok {
					if ident, ok := sel.X.(*ast.Ident); ok {
						if ident.Name == "os" && sel.Sel.Name == "Exit" {
							pass.Reportf(sel.Pos(), "direct os.Exit call in main func")
						}
					}
				}
			}

			return true
		})
	}

	return nil, nil
}
