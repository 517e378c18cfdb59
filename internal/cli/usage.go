package cli

import (
	"fmt"
	"strings"

	"github.com/arodd/go-cbzflat/internal/hooks"
)

// Usage renders command usage text.
func Usage(program string) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Usage: %s [options] <INPUT> <OUTPUT>\n", program)
	fmt.Fprintf(&b, "       %s --help\n", program)
	fmt.Fprintf(&b, "       %s --version\n\n", program)

	b.WriteString("Rebuild every CBZ/ZIP archive in INPUT into OUTPUT with nested entries\n")
	b.WriteString("flattened into a single level below the top-level folder.\n\n")

	b.WriteString("Options:\n")
	b.WriteString("  -h, --help               Show this help message and exit.\n")
	b.WriteString("      --version            Show version information and exit.\n")
	b.WriteString("  -v, --verbose            Enable verbose logging.\n")
	b.WriteString("  -q, --quiet              Suppress command output.\n")
	b.WriteString("      --log-file FILE      Append all output to FILE.\n")
	b.WriteString("      --no-color           Disable coloured warnings and errors.\n")
	b.WriteString("      --progress           Show a per-archive progress bar.\n")
	b.WriteString("  -d, --dry                Dry-run mode; report what would be rebuilt.\n")
	b.WriteString("  -f, --force              Overwrite archives already present in OUTPUT.\n")
	b.WriteString("  -r, --recurse            Descend into subdirectories of INPUT.\n")
	b.WriteString("      --allow-failures     Return success when some archives were rebuilt.\n")
	b.WriteString("      --cbr                Also accept CBR/RAR archives (written as ZIP).\n")
	b.WriteString("      --password PASS      Password for encrypted RAR archives.\n")
	b.WriteString("      --max-dict BYTES     Max allowed RAR dictionary bytes (default: 1073741824).\n")
	b.WriteString("      --compression MODE   deflate|store (default: deflate).\n")
	b.WriteString("      --level N            Deflate level 1-9; 0 keeps the library default.\n")
	b.WriteString("      --collisions MODE    last|fail|suffix (default: last).\n")
	b.WriteString("      --clean=SPEC         none|all|hook1,hook2 (default: none).\n")
	b.WriteString("      --verify             Check CRC32 of every written entry before replacing.\n")
	b.WriteString("      --temp-dir DIR       Parent directory for scratch extraction.\n")
	b.WriteString("\n")

	b.WriteString("Clean Hooks:\n")
	for _, hook := range hooks.Docs() {
		fmt.Fprintf(&b, "  %s: %s\n", hook.Name, hook.Help)
	}
	b.WriteString("  all: Run all hooks in default order.\n")
	b.WriteString("  none: Disable cleanup hooks.\n")

	return b.String()
}
