// Command nih-dbus-tool reads a D-Bus introspection XML document and
// writes a matched .c/.h pair implementing the object or proxy side of
// every interface it describes (spec.md §6). The CLI shell itself — flag
// parsing, file I/O, atomic rename — is out of the synthesis engine's
// scope; this file exists only to drive internal/schema, internal/
// ifacegen, and internal/assemble from a command line.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"goa.design/clue/log"

	"github.com/keybuk/libnih/internal/assemble"
	"github.com/keybuk/libnih/internal/gencontext"
	"github.com/keybuk/libnih/internal/ifacegen"
	"github.com/keybuk/libnih/internal/schema"
)

func main() {
	var (
		modeFlag      = flag.String("mode", "object", `generation mode: "object" or "proxy"`)
		outputFlag    = flag.String("output", "", "output basename (default: input file basename)")
		prefixFlag    = flag.String("prefix", "", "extern symbol prefix (required)")
		configFlag    = flag.String("config", "", "optional YAML defaults file")
		packageFlag   = flag.String("package-name", "nih-dbus-tool", "package name for license preamble")
		copyrightFlag = flag.String("copyright", "", "copyright line for license preamble")
	)
	flag.StringVar(outputFlag, "o", "", "shorthand for -output")
	flag.Parse()

	ctx := log.Context(context.Background(), log.WithFormat(log.FormatTerminal))

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: nih-dbus-tool [flags] <introspection.xml>")
		os.Exit(2)
	}
	xmlPath := flag.Arg(0)

	cfg := assemble.Config{Prefix: *prefixFlag, PackageName: *packageFlag, Copyright: *copyrightFlag}
	if *configFlag != "" {
		fileCfg, err := assemble.LoadConfig(*configFlag)
		if err != nil {
			log.Printf(ctx, "ERROR: %s", err)
			os.Exit(1)
		}
		if cfg.Prefix == "" {
			cfg.Prefix = fileCfg.Prefix
		}
		if cfg.Copyright == "" {
			cfg.Copyright = fileCfg.Copyright
		}
		if *packageFlag == "nih-dbus-tool" && fileCfg.PackageName != "" {
			cfg.PackageName = fileCfg.PackageName
		}
	}
	if cfg.Prefix == "" {
		log.Printf(ctx, "ERROR: --prefix is required (directly or via --config)")
		os.Exit(1)
	}

	mode, err := gencontext.ParseMode(*modeFlag)
	if err != nil {
		log.Printf(ctx, "ERROR: %s", err)
		os.Exit(1)
	}
	genCtx := gencontext.New(mode, cfg.Prefix)

	f, err := os.Open(xmlPath)
	if err != nil {
		log.Printf(ctx, "ERROR: %s", err)
		os.Exit(1)
	}
	defer f.Close()

	interfaces, err := schema.Load(f, schema.DirectionIn, mode)
	if err != nil {
		log.Printf(ctx, "ERROR: %s", err)
		os.Exit(1)
	}

	basename := *outputFlag
	if basename == "" {
		basename = strings.TrimSuffix(filepath.Base(xmlPath), filepath.Ext(xmlPath))
	}

	for _, iface := range interfaces {
		built, err := ifacegen.Build(genCtx, iface, func(m schema.Member, err error) {
			log.Print(ctx, log.KV{K: "msg", V: "skipping unsupported member"},
				log.KV{K: "interface", V: iface.Name}, log.KV{K: "member", V: m.Name}, log.KV{K: "reason", V: err.Error()})
		})
		if err != nil {
			log.Printf(ctx, "ERROR: %s", err)
			os.Exit(1)
		}

		out := assemble.Output{
			Basename: basename,
			Meta:     assemble.PackageMeta{PackageName: cfg.PackageName, Copyright: cfg.Copyright},
			Mode:     genCtx,
			Iface:    built,
		}

		if err := assemble.WriteFile(basename+".c", []byte(out.SourceFile()), 0o644); err != nil {
			log.Printf(ctx, "ERROR: %s", err)
			os.Exit(1)
		}
		if err := assemble.WriteFile(basename+".h", []byte(out.HeaderFile()), 0o644); err != nil {
			log.Printf(ctx, "ERROR: %s", err)
			os.Exit(1)
		}

		log.Print(ctx, log.KV{K: "msg", V: "generated bindings"}, log.KV{K: "interface", V: iface.Name}, log.KV{K: "basename", V: basename})
	}
}
