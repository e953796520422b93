package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	j "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	jsonmend "github.com/reoring/jsonmend"
	gojson "github.com/reoring/jsonmend/source/gojson"
)

func main() {
	jsonmend.SetDriver(gojson.Driver())
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}
	sub := os.Args[1]
	switch sub {
	case "fix":
		fixCmd(os.Args[2:])
	case "decode":
		decodeCmd(os.Args[2:])
	default:
		usage()
		os.Exit(2)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "jsonmend CLI\n\nUsage:\n  jsonmend fix [-o out.json] [file]\n  jsonmend decode [-format json|yaml] [-verbose] [file]\n\nNotes:\n  - Reads stdin when no file is given (or when file is \"-\").\n  - decode always produces a value: repaired input, recovered prefix, or fallback envelope.")
}

func fixCmd(args []string) {
	fs := flag.NewFlagSet("fix", flag.ExitOnError)
	var out string
	fs.StringVar(&out, "o", "", "output filename (default stdout)")
	_ = fs.Parse(args)
	data := readInput(fs.Arg(0))
	writeOutput(out, jsonmend.FixBytes(data))
}

func decodeCmd(args []string) {
	fs := flag.NewFlagSet("decode", flag.ExitOnError)
	var format string
	var verbose bool
	fs.StringVar(&format, "format", "json", "output format: json or yaml")
	fs.BoolVar(&verbose, "verbose", false, "print stage diagnostics to stderr")
	_ = fs.Parse(args)
	data := readInput(fs.Arg(0))

	var opt jsonmend.ParseOpt
	if verbose {
		opt.Observer = func(d jsonmend.Diagnostic) {
			if d.Pass != "" {
				fmt.Fprintf(os.Stderr, "jsonmend: %s/%s (%s): %s\n", d.Stage, d.Code, d.Pass, d.Message)
				return
			}
			fmt.Fprintf(os.Stderr, "jsonmend: %s/%s: %s\n", d.Stage, d.Code, d.Message)
		}
	}
	v, _ := jsonmend.Parse(string(data), opt)

	switch format {
	case "json":
		b, err := j.MarshalIndent(v, "", "  ")
		if err != nil {
			fatalf("encode json: %v", err)
		}
		fmt.Println(string(b))
	case "yaml":
		enc := yaml.NewEncoder(os.Stdout)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			fatalf("encode yaml: %v", err)
		}
		_ = enc.Close()
	default:
		fatalf("unknown format %q", format)
	}
}

func readInput(path string) []byte {
	if path == "" || path == "-" {
		b, err := io.ReadAll(os.Stdin)
		if err != nil {
			fatalf("read stdin: %v", err)
		}
		return b
	}
	b, err := os.ReadFile(path)
	if err != nil {
		fatalf("read %s: %v", path, err)
	}
	return b
}

func writeOutput(path string, data []byte) {
	if path == "" {
		_, _ = os.Stdout.Write(data)
		if len(data) == 0 || data[len(data)-1] != '\n' {
			fmt.Println()
		}
		return
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		fatalf("write %s: %v", path, err)
	}
}

func fatalf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "jsonmend: "+format+"\n", args...)
	os.Exit(1)
}
