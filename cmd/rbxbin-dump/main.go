// The rbxbin-dump command reports statistics about a binary rbxm/rbxl file.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/robloxapi/rbxbin"
	"github.com/robloxapi/rbxbin/dom"
)

const usage = `usage: rbxbin-dump [INPUT] [OUTPUT]

Reads a binary RBXM or RBXL file from INPUT and writes statistics about it,
as JSON, to OUTPUT.

INPUT and OUTPUT are paths to files. If INPUT is "-" or unspecified, stdin is
used. If OUTPUT is "-" or unspecified, stdout is used. Decode diagnostics are
written to stderr.
`

type propLen struct {
	Class    string
	Property string
	Type     string
	Length   int
}

func (p propLen) String() string {
	return fmt.Sprintf("%s.%s:%s(%d)", p.Class, p.Property, p.Type, p.Length)
}

type propLenCount map[propLen]int

func (p propLenCount) MarshalJSON() ([]byte, error) {
	list := make([]propLen, 0, len(p))
	for k := range p {
		list = append(list, k)
	}
	sort.Slice(list, func(i, j int) bool {
		return list[i].Length > list[j].Length
	})
	if len(list) > 20 {
		list = list[:20]
	}
	return json.Marshal(list)
}

type stats struct {
	InstanceCount     int
	PropertyCount     int
	ClassCount        map[string]int
	TypeCount         map[string]int
	DiagnosticCount   int
	LargestProperties propLenCount `json:",omitempty"`
}

func (s *stats) fill(doc *dom.Document) {
	s.ClassCount = map[string]int{}
	s.TypeCount = map[string]int{}
	s.LargestProperties = propLenCount{}

	for _, inst := range doc.AllInstances() {
		s.InstanceCount++
		s.ClassCount[inst.ClassName]++
		inst.Properties(func(name string, value dom.Value) {
			s.PropertyCount++
			s.TypeCount[value.Type().String()]++
			if sv, ok := value.(dom.ValueString); ok {
				s.LargestProperties[propLen{
					Class:    inst.ClassName,
					Property: name,
					Type:     value.Type().String(),
					Length:   len(sv),
				}]++
			}
		})
	}
}

func main() {
	var input io.Reader = os.Stdin
	var output io.Writer = os.Stdout

	flag.Usage = func() { fmt.Fprint(flag.CommandLine.Output(), usage) }
	flag.Parse()
	args := flag.Args()
	if len(args) >= 1 && args[0] != "-" {
		in, err := os.Open(args[0])
		if err != nil {
			fmt.Fprintln(os.Stderr, fmt.Errorf("open input: %w", err))
			os.Exit(1)
		}
		defer in.Close()
		input = in
	}
	if len(args) >= 2 && args[1] != "-" {
		out, err := os.Create(args[1])
		if err != nil {
			fmt.Fprintln(os.Stderr, fmt.Errorf("create output: %w", err))
			os.Exit(1)
		}
		defer out.Close()
		output = out
	}

	doc, diags, err := (rbxbin.Decoder{}).Decode(input)
	for _, d := range diags {
		fmt.Fprintln(os.Stderr, fmt.Errorf("diagnostic: %w", d))
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, fmt.Errorf("decode error: %w", err))
		os.Exit(1)
	}

	var s stats
	s.DiagnosticCount = len(diags)
	s.fill(doc)

	je := json.NewEncoder(output)
	je.SetEscapeHTML(false)
	je.SetIndent("", "\t")
	if err := je.Encode(s); err != nil {
		fmt.Fprintln(os.Stderr, fmt.Errorf("write error: %w", err))
		os.Exit(1)
	}
}
