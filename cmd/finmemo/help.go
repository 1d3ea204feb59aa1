package main

import (
	"fmt"
	"io"
)

// printUsage prints the main usage message.
func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: finmemo <command> [flags] [args]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  serve      Run the memorandum HTTP API")
	fmt.Fprintln(w, "  render     Render one payload file to PDF")
	fmt.Fprintln(w, "  doctor     Check Chrome, Tectonic and the environment")
	fmt.Fprintln(w, "  version    Show version information")
	fmt.Fprintln(w, "  help       Show help for a command")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Run 'finmemo help <command>' for details on a specific command.")
}

func printEngineUsage(w io.Writer) {
	fmt.Fprintln(w, "Rendering:")
	fmt.Fprintln(w, "  -w, --workers <n>         Pooled generators (0 = auto)")
	fmt.Fprintln(w, "  -t, --timeout <d>         Per-document timeout (e.g. 60s, 2m)")
	fmt.Fprintln(w, "      --engine <s>          Body renderer: rod, chromedp")
	fmt.Fprintln(w, "      --browser <path>      Chrome/Chromium binary")
	fmt.Fprintln(w, "      --tectonic <path>     Cover compiler binary")
	fmt.Fprintln(w, "      --asset-path <dir>    Directory overriding embedded assets")
	fmt.Fprintln(w, "  -p, --page-size <s>       Body page size: a4, letter, legal")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Output Control:")
	fmt.Fprintln(w, "  -c, --config <name>       Config file name or path")
	fmt.Fprintln(w, "  -q, --quiet               Only show errors")
	fmt.Fprintln(w, "  -v, --v <level>           Log verbosity (klog)")
}

// printServeUsage prints usage for the serve command.
func printServeUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: finmemo serve [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Serve GET /health and POST /api/generate until interrupted.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Listener:")
	fmt.Fprintln(w, "      --addr <host>         Listen host (empty = all interfaces)")
	fmt.Fprintln(w, "      --port <n>            Listen port (env: FINMEMO_PORT, PORT; default 10000)")
	fmt.Fprintln(w)
	printEngineUsage(w)
}

// printRenderUsage prints usage for the render command.
func printRenderUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: finmemo render <payload> [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Render a JSON or YAML payload file to a finance memorandum PDF.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Arguments:")
	fmt.Fprintln(w, "  payload    Payload file (.json, .yaml, .yml)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Input/Output:")
	fmt.Fprintln(w, "  -o, --output <path>       Output file or directory")
	fmt.Fprintln(w, "      --html <path>         Also write the body HTML")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Images:")
	fmt.Fprintln(w, "      --cover-image <path>  Cover photograph")
	fmt.Fprintln(w, "      --logo <path>         Header logo")
	fmt.Fprintln(w, "      --footer-logo <path>  Footer logo")
	fmt.Fprintln(w, "      --property-image <p>  Property photograph (repeatable, max 6)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Cover date (payload or config):")
	fmt.Fprintln(w, "  \"auto\", \"auto:FORMAT\", or literal")
	fmt.Fprintln(w, "  Tokens: dddd, ddd, YYYY, YY, MMMM, MMM, MM, M, DD, D")
	fmt.Fprintln(w, "  Presets (case-insensitive): memo, iso, european, us, long, month")
	fmt.Fprintln(w)
	printEngineUsage(w)
}

// runHelp prints help for a specific command.
func runHelp(args []string, env *Environment) int {
	if len(args) == 0 {
		printUsage(env.Stdout)
		return ExitSuccess
	}

	switch args[0] {
	case "serve":
		printServeUsage(env.Stdout)
	case "render":
		printRenderUsage(env.Stdout)
	case "doctor":
		fmt.Fprintln(env.Stdout, "Usage: finmemo doctor [--json]")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Check that Chrome and Tectonic are installed and usable.")
	case "version":
		fmt.Fprintln(env.Stdout, "Usage: finmemo version")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show version information.")
	case "help":
		fmt.Fprintln(env.Stdout, "Usage: finmemo help [command]")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show help for a command.")
	default:
		fmt.Fprintf(env.Stderr, "Unknown command: %s\n", args[0])
		printUsage(env.Stderr)
		return ExitUsage
	}
	return ExitSuccess
}
