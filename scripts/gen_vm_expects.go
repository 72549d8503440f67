// gen_vm_expects writes, for each with* and expect* method of vmTestCase
// that takes arguments, a function returning that builder step as a value:
//
//	vmTest("x").apply(withVMStack(...), expectVMError(...))
//
// Usage: go run scripts/gen_vm_expects.go -- OUTPUT INPUT...
package main

import (
	"bytes"
	"flag"
	"fmt"
	"go/ast"
	"go/format"
	"go/parser"
	"go/printer"
	"go/token"
	"log"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"golang.org/x/net/context"
	"golang.org/x/sync/errgroup"
)

const (
	builderType  = "vmTestCase"
	wrapperInfix = "VM"
)

func main() {
	flag.Parse()
	args := flag.Args()
	if len(args) < 2 {
		log.Fatalln("usage: gen_vm_expects.go -- OUTPUT INPUT...")
	}
	outName, inNames := args[0], args[1:]

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	fset := token.NewFileSet()
	files, err := parseFiles(ctx, fset, inNames)
	if err != nil {
		log.Fatalln(err)
	}

	gen := generator{fset: fset, imports: make(map[string]struct{})}
	for _, f := range files {
		if err := gen.scan(f); err != nil {
			log.Fatalln(err)
		}
	}

	src, err := gen.render(outName, inNames)
	if err != nil {
		log.Fatalln(err)
	}
	if err := os.WriteFile(outName, src, 0644); err != nil {
		log.Fatalln(err)
	}
}

// parseFiles parses every input concurrently, returning them in given order.
func parseFiles(ctx context.Context, fset *token.FileSet, names []string) ([]*ast.File, error) {
	files := make([]*ast.File, len(names))
	eg, ctx := errgroup.WithContext(ctx)
	for i, name := range names {
		i, name := i, name
		eg.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			f, err := parser.ParseFile(fset, name, nil, parser.SkipObjectResolution)
			if err != nil {
				return fmt.Errorf("failed to parse %v: %w", name, err)
			}
			files[i] = f
			return nil
		})
	}
	return files, eg.Wait()
}

type wrapper struct {
	name   string
	method string
	params []string
	args   []string
}

type generator struct {
	fset     *token.FileSet
	imports  map[string]struct{}
	wrappers []wrapper
}

func (gen *generator) scan(f *ast.File) error {
	imports := fileImports(f)
	for _, decl := range f.Decls {
		fn, ok := decl.(*ast.FuncDecl)
		if !ok || !isBuilderMethod(fn) {
			continue
		}
		w, err := gen.wrap(fn, imports)
		if err != nil {
			return err
		}
		gen.wrappers = append(gen.wrappers, w)
	}
	return nil
}

// isBuilderMethod matches builder methods that take arguments; argument-less
// ones are left for callers to use directly.
func isBuilderMethod(fn *ast.FuncDecl) bool {
	if fn.Recv == nil || len(fn.Recv.List) != 1 || fn.Type.Params.NumFields() == 0 {
		return false
	}
	if !isIdent(fn.Recv.List[0].Type, builderType) {
		return false
	}
	if res := fn.Type.Results; res == nil || len(res.List) != 1 || !isIdent(res.List[0].Type, builderType) {
		return false
	}
	_, _, ok := splitBuilderName(fn.Name.Name)
	return ok
}

func isIdent(expr ast.Expr, name string) bool {
	id, ok := expr.(*ast.Ident)
	return ok && id.Name == name
}

func splitBuilderName(name string) (prefix, rest string, ok bool) {
	for _, prefix := range []string{"with", "expect"} {
		if rest := strings.TrimPrefix(name, prefix); rest != name && rest != "" {
			return prefix, rest, true
		}
	}
	return "", "", false
}

func (gen *generator) wrap(fn *ast.FuncDecl, imports map[string]string) (w wrapper, _ error) {
	prefix, rest, _ := splitBuilderName(fn.Name.Name)
	w.name = prefix + wrapperInfix + rest
	w.method = fn.Name.Name
	for _, field := range fn.Type.Params.List {
		if len(field.Names) == 0 {
			return w, fmt.Errorf("%v: %v has an unnamed parameter", gen.fset.Position(fn.Pos()), fn.Name.Name)
		}
		typ, err := gen.typeString(field.Type, imports)
		if err != nil {
			return w, err
		}
		_, variadic := field.Type.(*ast.Ellipsis)
		names := make([]string, len(field.Names))
		for i, id := range field.Names {
			names[i] = id.Name
			if variadic {
				w.args = append(w.args, id.Name+"...")
			} else {
				w.args = append(w.args, id.Name)
			}
		}
		w.params = append(w.params, strings.Join(names, ", ")+" "+typ)
	}
	return w, nil
}

// typeString prints a parameter type, noting any package it refers to.
func (gen *generator) typeString(expr ast.Expr, imports map[string]string) (string, error) {
	ast.Inspect(expr, func(node ast.Node) bool {
		if sel, ok := node.(*ast.SelectorExpr); ok {
			if id, ok := sel.X.(*ast.Ident); ok {
				if path, ok := imports[id.Name]; ok {
					gen.imports[path] = struct{}{}
				}
			}
		}
		return true
	})
	var buf bytes.Buffer
	if err := printer.Fprint(&buf, gen.fset, expr); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// fileImports maps the names a file refers to its imports by onto their paths.
func fileImports(f *ast.File) map[string]string {
	imports := make(map[string]string, len(f.Imports))
	for _, spec := range f.Imports {
		path, err := strconv.Unquote(spec.Path.Value)
		if err != nil {
			continue
		}
		name := path[strings.LastIndex(path, "/")+1:]
		if spec.Name != nil {
			name = spec.Name.Name
		}
		imports[name] = path
	}
	return imports
}

func (gen *generator) render(outName string, inNames []string) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString("package main\n\n")

	if len(gen.imports) > 0 {
		paths := make([]string, 0, len(gen.imports))
		for path := range gen.imports {
			paths = append(paths, path)
		}
		sort.Strings(paths)
		buf.WriteString("import (\n")
		for _, path := range paths {
			fmt.Fprintf(&buf, "%q\n", path)
		}
		buf.WriteString(")\n\n")
	}

	fmt.Fprintf(&buf, "// @generated from %v\n\n", strings.Join(inNames, ", "))
	fmt.Fprintf(&buf, "//go:generate go run scripts/gen_vm_expects.go -- %v %v\n\n", outName, strings.Join(inNames, " "))

	for _, w := range gen.wrappers {
		fmt.Fprintf(&buf, "func %v(%v) func(%v) %v {\n", w.name, strings.Join(w.params, ", "), builderType, builderType)
		fmt.Fprintf(&buf, "return func(vmt %[1]v) %[1]v {\n", builderType)
		fmt.Fprintf(&buf, "return vmt.%v(%v)\n", w.method, strings.Join(w.args, ", "))
		buf.WriteString("}\n}\n\n")
	}

	return format.Source(buf.Bytes())
}
