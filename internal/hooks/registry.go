package hooks

import "slices"

type definition struct {
	Name string
	Help string
	Run  func(Context) error
}

var definitions = []definition{
	{
		Name: "osx_junk",
		Help: "Remove .DS_Store, ._* resource forks and __MACOSX folders.",
		Run:  runOSXJunk,
	},
	{
		Name: "windows_junk",
		Help: "Remove Thumbs.db and desktop.ini files.",
		Run:  runWindowsJunk,
	},
	{
		Name: "nfo",
		Help: "Remove *.nfo release notes.",
		Run:  runNFO,
	},
	{
		Name: "sfv",
		Help: "Remove *.sfv checksum files.",
		Run:  runSFV,
	},
}

// Doc describes a cleanup hook for usage/help rendering.
type Doc struct {
	Name string
	Help string
}

// Docs returns the available cleanup hooks in execution order.
func Docs() []Doc {
	out := make([]Doc, 0, len(definitions))
	for _, def := range definitions {
		out = append(out, Doc{
			Name: def.Name,
			Help: def.Help,
		})
	}
	return out
}

// IsKnown reports whether name is a recognized cleanup hook token.
func IsKnown(name string) bool {
	if isVirtual(name) {
		return true
	}
	_, ok := lookup(name)
	return ok
}

// Enabled reports whether selection runs at least one hook.
func Enabled(selection []string) bool {
	return len(resolveNames(selection)) > 0
}

func isVirtual(name string) bool {
	return name == "none" || name == "all"
}

func resolveNames(selection []string) []string {
	if len(selection) == 0 {
		return nil
	}
	if len(selection) == 1 && selection[0] == "none" {
		return nil
	}
	if len(selection) == 1 && selection[0] == "all" {
		out := make([]string, 0, len(definitions))
		for _, def := range definitions {
			out = append(out, def.Name)
		}
		return out
	}

	out := make([]string, 0, len(selection))
	for _, name := range selection {
		if isVirtual(name) {
			continue
		}
		if slices.Contains(out, name) {
			continue
		}
		out = append(out, name)
	}
	return out
}

func lookup(name string) (definition, bool) {
	for _, def := range definitions {
		if def.Name == name {
			return def, true
		}
	}
	return definition{}, false
}
