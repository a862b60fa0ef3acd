package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"vm16asm/browse"
	"vm16asm/config"
	"vm16asm/diag"
	"vm16asm/fsys"
	"vm16asm/locater"
	"vm16asm/pass1"
	"vm16asm/pass2"
	"vm16asm/source"
	"vm16asm/writer"
)

// reClsParam matches the "-cls" combined-flag shorthand (and any
// c/l/s subset of it, 1-3 characters), mirroring rePARAM in
// original_source/vm16asm/assembler.py.
var reClsParam = regexp.MustCompile(`^-[cls]{1,3}$`)

// expandClsArgs rewrites os.Args before flag.Parse: it expands each
// "-cls"-style shorthand argument into its long-form flags (assembler.py's
// parameter() appends "--com"/"--lst"/"--sym" to sys.argv for the same
// purpose) and moves every flag ahead of the source file name, since
// flag.Parse stops at the first non-flag argument.
func expandClsArgs() {
	args := os.Args[1:]
	var flags, positional []string
	for _, a := range args {
		if reClsParam.MatchString(a) {
			if strings.Contains(a, "c") {
				flags = append(flags, "-com")
			}
			if strings.Contains(a, "l") {
				flags = append(flags, "-lst")
			}
			if strings.Contains(a, "s") {
				flags = append(flags, "-sym")
			}
			continue
		}
		if strings.HasPrefix(a, "-") {
			flags = append(flags, a)
		} else {
			positional = append(positional, a)
		}
	}
	os.Args = append([]string{os.Args[0]}, append(flags, positional...)...)
}

// Version information - can be overridden at build time with:
// go build -ldflags "-X main.Version=v1.2.3"
var (
	Version = "dev"     // Version number (set by git tag at build time)
	Commit  = "unknown" // Git commit hash
	Date    = "unknown" // Build date
)

func main() {
	var (
		showVersion = flag.Bool("version", false, "Show version information")
		quiet       = flag.Bool("quiet", false, "Suppress the startup banner")
		com         = flag.Bool("com", false, "Generate a COM file (instead of H16)")
		lst         = flag.Bool("lst", false, "Generate a listing file")
		sym         = flag.Bool("sym", false, "Print the symbol table")
		tbl         = flag.Bool("tbl", false, "Generate a .tbl constant table")
		browseMode  = flag.Bool("browse", false, "Open the assembled listing in an interactive browser")
	)

	flag.Usage = func() {
		fmt.Fprintln(os.Stderr, "Syntax: vm16asm <asm-file> [options]")
		fmt.Fprintln(os.Stderr, "Options:")
		fmt.Fprintln(os.Stderr, "  -cls            Short for -com -lst -sym (and any c/l/s subset, e.g. -cl)")
		flag.PrintDefaults()
	}
	expandClsArgs()
	flag.Parse()

	if *showVersion {
		fmt.Printf("vm16asm %s\n", Version)
		if Commit != "unknown" {
			fmt.Printf("Commit: %s\n", Commit)
		}
		if Date != "unknown" {
			fmt.Printf("Built: %s\n", Date)
		}
		os.Exit(0)
	}

	if flag.NArg() < 1 {
		flag.Usage()
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: could not load config: %v\n", err)
		cfg = config.DefaultConfig()
	}

	asmFile := flag.Arg(0)
	dir := filepath.Dir(asmFile)
	base := filepath.Base(asmFile)

	if !*quiet {
		fmt.Printf("VM16 ASSEMBLER v%s\n", Version)
		fmt.Printf(" - read %s...\n", base)
	}

	fs := fsys.OS{}
	loader := source.NewLoader(fs)
	lines := loader.Load(dir, base)
	if reportErrors(loader.Errors()) {
		os.Exit(1)
	}

	p1 := pass1.New(loader.Namespaces())
	records := p1.Run(lines)
	if reportErrors(p1.Errors()) {
		os.Exit(1)
	}

	p2 := pass2.New(loader.Namespaces(), p1.Symbols, p1.Aliases)
	records = p2.Run(records)
	if reportErrors(p2.Errors()) {
		os.Exit(1)
	}

	if *lst {
		if err := writeAuxFile(asmFile, ".lst", func(w *os.File) error {
			header := fmt.Sprintf("VM16ASM v%s  %s", Version, base)
			return writer.WriteListing(w, header, records)
		}); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	}

	errs := &diag.List{}
	img, err := locater.Build(records, errs)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	for _, w := range errs.Warnings {
		fmt.Fprintln(os.Stderr, w.String())
	}
	if cfg.Assembly.OverlapIsError && len(errs.Warnings) > 0 {
		os.Exit(1)
	}

	var size int
	if *com || cfg.Output.Format == "com" {
		if err := writeAuxFile(asmFile, ".com", func(w *os.File) error {
			return writer.WriteCOM(w, img)
		}); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		size = len(img.Words)
	} else {
		if err := writeAuxFile(asmFile, ".h16", func(w *os.File) error {
			return writer.WriteH16(w, img)
		}); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		size = len(img.Words)
	}

	if *tbl {
		if err := writeAuxFile(asmFile, ".tbl", func(w *os.File) error {
			return writer.WriteTable(w, img)
		}); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	}

	if *sym {
		if err := writer.WriteSymbols(os.Stdout, p1.Symbols); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	}

	if *browseMode {
		b := browse.New(records, p1.Symbols)
		if err := b.Run(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	}

	if !*quiet {
		fmt.Println()
		fmt.Printf("Code start address: $%04X\n", img.Start)
		fmt.Printf("Last used address:  $%04X\n", img.Last)
		fmt.Printf("Code size: $%04X/%d words\n", size, size)
	}
}

// reportErrors prints every fatal error accumulated so far and reports
// whether any were found.
func reportErrors(errs *diag.List) bool {
	for _, e := range errs.Errors {
		fmt.Fprintln(os.Stderr, e.Error())
	}
	return errs.HasErrors()
}

func writeAuxFile(asmFile, ext string, write func(*os.File) error) error {
	out := trimExt(asmFile) + ext
	f, err := os.Create(out) // #nosec G304 -- user-selected output path derived from their own source file
	if err != nil {
		return err
	}
	defer f.Close()
	return write(f)
}

func trimExt(path string) string {
	ext := filepath.Ext(path)
	return path[:len(path)-len(ext)]
}
