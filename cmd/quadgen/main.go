/*
Copyright 2025 The goARRG Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package main

import (
	"encoding/binary"
	"encoding/json"
	"flag"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/gogpu/gputypes"
	"goarrg.com/debug"
	"goarrg.com/rhi/interconnect/internal/quads"

	"golang.org/x/tools/go/packages"
)

var flags flag.FlagSet

type indexFormat gputypes.IndexFormat

func (f *indexFormat) UnmarshalText(data []byte) error {
	switch strings.ToLower(string(data)) {
	case "uint16":
		*f = indexFormat(gputypes.IndexFormatUint16)
	case "uint32":
		*f = indexFormat(gputypes.IndexFormatUint32)
	default:
		return debug.Errorf("Invalid index format: %q", data)
	}
	return nil
}

func (f indexFormat) MarshalText() (text []byte, err error) {
	switch gputypes.IndexFormat(f) {
	case gputypes.IndexFormatUint16:
		return ([]byte)("uint16"), nil
	case gputypes.IndexFormatUint32:
		return ([]byte)("uint32"), nil
	default:
		return nil, debug.Errorf("Invalid index format: %d", f)
	}
}

type generator uint32

const (
	generatorJSON generator = iota
	generatorGO
	generatorBinary
)

func (g *generator) UnmarshalText(data []byte) error {
	switch string(data) {
	case "json":
		*g = generatorJSON
	case "go":
		*g = generatorGO
	case "bin":
		*g = generatorBinary
	default:
		return debug.Errorf("Invalid value: %q", data)
	}
	return nil
}

func (g generator) MarshalText() (text []byte, err error) {
	switch g {
	case generatorJSON:
		return ([]byte)("json"), nil
	case generatorGO:
		return ([]byte)("go"), nil
	case generatorBinary:
		return ([]byte)("bin"), nil
	default:
		return nil, debug.Errorf("Invalid value: %d", g)
	}
}

type table struct {
	Format   string
	Vertices uint32
	// Covered is the number of vertices that form whole quads.
	Covered uint32
	Indices []uint32
}

// buildTable returns the triangle list indices of every whole quad in vertices quad list vertices.
func buildTable(vertices uint32, format indexFormat) (*table, error) {
	if format == indexFormat(gputypes.IndexFormatUint16) && vertices > math.MaxUint16+1 {
		return nil, debug.Errorf("%d vertices can not be indexed with uint16 indices", vertices)
	}

	name, err := format.MarshalText()
	if err != nil {
		return nil, err
	}

	t := &table{
		Format:   string(name),
		Vertices: vertices,
		Indices:  make([]uint32, quads.IndexCount(vertices)),
	}
	quads.Generate(t.Indices, vertices)
	t.Covered = quads.VertexCount(uint32(len(t.Indices)))
	return t, nil
}

func (t *table) bytes() []byte {
	if t.Format == "uint16" {
		out := make([]byte, 0, len(t.Indices)*2)
		for _, i := range t.Indices {
			out = binary.LittleEndian.AppendUint16(out, uint16(i))
		}
		return out
	}

	out := make([]byte, 0, len(t.Indices)*4)
	for _, i := range t.Indices {
		out = binary.LittleEndian.AppendUint32(out, i)
	}
	return out
}

func main() {
	debug.SetLevel(debug.LogLevelWarn)

	flags.Usage = help
	flags.Init("", flag.ExitOnError)

	v := flags.Bool("v", false, "Verbose - Print high level tasks")
	vv := flags.Bool("vv", false, "Very Verbose - Print everything")

	outDir := flags.String("out-dir", ".", "Sets the output directory.")
	vertices := flags.Uint("vertices", 4096, "Sets the number of quad list vertices the table covers.\n"+
		"Trailing vertices that do not form a whole quad are ignored.")

	format := indexFormat(gputypes.IndexFormatUint32)
	flags.TextVar(&format, "format", indexFormat(gputypes.IndexFormatUint32), "Sets the index format.\n"+
		"Valid values are \"uint16\" and \"uint32\".")

	g := generator(0)
	flags.TextVar(&g, "generator", generatorJSON, "Sets the generator to use when outputting the table.\n"+
		"Valid values are \"json\", \"go\" and \"bin\".")

	err := flags.Parse(os.Args[1:])
	if err != nil {
		panic(err)
	}

	if *v {
		debug.SetLevel(debug.LogLevelInfo)
	} else if *vv {
		debug.SetLevel(debug.LogLevelVerbose)
	}

	args := flags.Args()
	if len(args) != 1 {
		debug.EPrintf("quadgen needs exactly one output name.")
		help()
		os.Exit(2)
	}
	if *vertices > math.MaxUint32 {
		debug.EPrintf("-vertices must fit in 32 bits.")
		os.Exit(2)
	}

	t, err := buildTable(uint32(*vertices), format)
	if err != nil {
		debug.EPrintf("%v", err)
		os.Exit(2)
	}
	debug.IPrintf("Generated %d %s indices covering %d of %d vertices", len(t.Indices), t.Format, t.Covered, t.Vertices)

	name := args[0]
	err = os.MkdirAll(*outDir, 0o755)
	if err != nil {
		panic(err)
	}

	switch g {
	case generatorJSON:
		genJson(*outDir, name, t)
	case generatorGO:
		genGo(*outDir, name, t)
	case generatorBinary:
		genBinary(*outDir, name, t)
	}
}

func help() {
	fmt.Fprintf(os.Stderr, "quadgen writes the quad list to triangle list index table used for quad conversion.\n"+
		"\nEach quad (v0, v1, v2, v3) becomes the triangles (v0, v1, v2) and (v0, v2, v3).\n"+
		"Binary output is little endian.\n"+
		"\n")
	args := ""
	flags.VisitAll(func(f *flag.Flag) {
		n, u := flag.UnquoteUsage(f)
		if f.DefValue != "" {
			u += "\n\nDefaults to \"" + f.DefValue + "\"."
		}
		args += "\t-" + f.Name + " " + n + "\n\t\t" + strings.ReplaceAll(strings.TrimSpace(u), "\n", "\n\t\t") + "\n"
	})
	fmt.Fprintf(os.Stderr, "Usage:\n\t%s [arguments] <name>\n\nArguments:\n%s", filepath.Base(os.Args[0]), args)
}

func genJson(dir, name string, t *table) {
	j, err := json.Marshal(t)
	if err != nil {
		panic(err)
	}

	jsonFile := filepath.Join(dir, name+".json")
	debug.IPrintf("Writing table to: %q", jsonFile)
	err = os.WriteFile(jsonFile, j, 0o655)
	if err != nil {
		panic(err)
	}
}

func genBinary(dir, name string, t *table) {
	binFile := filepath.Join(dir, name+".bin")
	debug.IPrintf("Writing table to: %q", binFile)
	err := os.WriteFile(binFile, t.bytes(), 0o655)
	if err != nil {
		panic(err)
	}
}

// goIdentifier keeps the letters and digits of name, mapping path separators and dots to underscores.
func goIdentifier(name string) string {
	sb := strings.Builder{}
	sb.Grow(len(name))
	for _, r := range filepath.ToSlash(name) {
		if unicode.IsDigit(r) || unicode.IsLetter(r) {
			sb.WriteRune(r)
		}
		if r == '/' || r == '.' || r == '-' || r == '_' {
			sb.WriteRune('_')
		}
	}
	return sb.String()
}

func genGo(dir, name string, t *table) {
	filename := filepath.Join(dir, "zquadgen_"+name+".go")
	debug.IPrintf("Writing table to: %q", filename)
	fOut, err := os.Create(filename)
	if err != nil {
		panic(err)
	}
	defer fOut.Close()

	{
		args := ""
		for _, arg := range os.Args[1:] {
			args += arg + " "
		}
		fmt.Fprintf(fOut, "// go run goarrg.com/rhi/interconnect/cmd/quadgen %s\n", args)
		fmt.Fprintf(fOut, "// Code generated by the command above; DO NOT EDIT.\n\n")
	}

	{
		p, err := packages.Load(&packages.Config{Mode: packages.NeedName}, dir)
		if err != nil {
			panic(debug.ErrorWrapf(err, "Failed to load package at %q", dir))
		}
		if len(p) == 0 {
			fmt.Fprintf(fOut, "package %s\n\n", filepath.Base(dir))
		} else if p[0].Name != "" {
			fmt.Fprintf(fOut, "package %s\n\n", filepath.Base(p[0].Name))
		} else {
			fmt.Fprintf(fOut, "package %s\n\n", filepath.Base(p[0].PkgPath))
		}
	}

	{
		elem := "uint32"
		if t.Format == "uint16" {
			elem = "uint16"
		}
		fmt.Fprintf(fOut, "var quadgen_%s = [...]%s{", goIdentifier(name), elem)
		for i, index := range t.Indices {
			if i%quads.IndicesPerQuad == 0 {
				fmt.Fprintf(fOut, "\n\t")
			} else {
				fmt.Fprintf(fOut, " ")
			}
			fmt.Fprintf(fOut, "%d,", index)
		}
		fmt.Fprintf(fOut, "\n}\n")
	}
}
