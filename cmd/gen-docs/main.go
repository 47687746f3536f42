// Command gen-docs writes shell completions and a man page for sentinel from
// the flag table in internal/config.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/stigoleg/silent-sentinel/internal/config"
)

const (
	appName        = "sentinel"
	appDescription = "Keeps a workstation from going idle by clicking along a small circle, and resumes on its own after the user walks away."
)

type document struct {
	path string
	body string
}

func main() {
	out := flag.String("out", ".", "output directory")
	flag.Parse()

	for _, doc := range documents(config.Flags) {
		path := filepath.Join(*out, doc.path)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			log.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(doc.body), 0o644); err != nil {
			log.Fatal(err)
		}
		fmt.Println("wrote", path)
	}
}

func documents(flags []config.FlagDoc) []document {
	completions := filepath.Join("docs", "completions")
	return []document{
		{path: filepath.Join(completions, appName+".bash"), body: bashCompletion(flags)},
		{path: filepath.Join(completions, "_"+appName), body: zshCompletion(flags)},
		{path: filepath.Join(completions, appName+".fish"), body: fishCompletion(flags)},
		{path: filepath.Join("man", appName+".1"), body: manPage(flags)},
	}
}

func optionNames(flags []config.FlagDoc) []string {
	var opts []string
	for _, f := range flags {
		if f.Short != "" {
			opts = append(opts, f.Short)
		}
		if f.Long != "" {
			opts = append(opts, f.Long)
		}
	}
	return opts
}

func bashCompletion(flags []config.FlagDoc) string {
	var b strings.Builder
	fmt.Fprintf(&b, "_%s() {\n", appName)
	b.WriteString("  local cur\n")
	b.WriteString("  COMPREPLY=()\n")
	b.WriteString("  cur=\"${COMP_WORDS[COMP_CWORD]}\"\n")
	fmt.Fprintf(&b, "  local opts=\"%s\"\n", strings.Join(optionNames(flags), " "))
	b.WriteString("  if [[ ${cur} == -* ]] ; then\n")
	b.WriteString("    COMPREPLY=( $(compgen -W \"${opts}\" -- ${cur}) )\n")
	b.WriteString("  fi\n")
	b.WriteString("}\n")
	fmt.Fprintf(&b, "complete -F _%s %s\n", appName, appName)
	return b.String()
}

func zshCompletion(flags []config.FlagDoc) string {
	parts := make([]string, 0, len(flags))
	for _, f := range flags {
		parts = append(parts, fmt.Sprintf("'%s[%s]%s'", zshFlagName(f), f.Desc, zshArgSuffix(f.Arg)))
	}
	return "#compdef " + appName + "\n_arguments " + strings.Join(parts, " ") + "\n"
}

func zshFlagName(f config.FlagDoc) string {
	name := f.Long
	if name == "" {
		name = f.Short
	}
	if f.Arg != "" {
		return name + "="
	}
	return name
}

func zshArgSuffix(arg string) string {
	if arg == "" {
		return ""
	}
	return ":value:" + strings.Trim(arg, "<>")
}

func fishCompletion(flags []config.FlagDoc) string {
	var b strings.Builder
	fmt.Fprintf(&b, "complete -c %s -f\n", appName)
	for _, f := range flags {
		b.WriteString("complete -c " + appName)
		if f.Short != "" {
			b.WriteString(" -s " + strings.TrimPrefix(f.Short, "-"))
		}
		if f.Long != "" {
			b.WriteString(" -l " + strings.TrimPrefix(f.Long, "--"))
		}
		if f.Arg != "" {
			b.WriteString(" -r")
		}
		fmt.Fprintf(&b, " -d \"%s\"\n", strings.ReplaceAll(f.Desc, "\"", "\\\""))
	}
	return b.String()
}

// roff escapes hyphens so man renders them as minus signs.
func roff(s string) string {
	return strings.ReplaceAll(s, "-", "\\-")
}

func manPage(flags []config.FlagDoc) string {
	var b strings.Builder
	fmt.Fprintf(&b, ".TH \"%s\" \"1\" \"\" \"silent-sentinel\" \"User Commands\"\n", strings.ToUpper(appName))
	fmt.Fprintf(&b, ".SH NAME\n%s \\- %s\n", appName, appDescription)

	b.WriteString(".SH SYNOPSIS\n.B " + appName + "\n")
	for _, f := range flags {
		name := f.Long
		if f.Short != "" {
			name = f.Short + "|" + f.Long
		}
		if f.Arg != "" {
			name += " " + f.Arg
		}
		b.WriteString("[" + roff(name) + "]\n")
	}

	b.WriteString(".SH DESCRIPTION\n" + appDescription + "\n")
	b.WriteString(".SH OPTIONS\n")
	for _, f := range flags {
		names := f.Long
		if f.Short != "" {
			names = f.Short + ", " + f.Long
		}
		if f.Arg != "" {
			names += " " + f.Arg
		}
		fmt.Fprintf(&b, ".TP\n\\fB%s\\fR\n%s\n", roff(names), f.Desc)
	}

	b.WriteString(".SH FILES\n.TP\n~/.config/sentinel/config.yaml\nOptional YAML configuration. Flags given on the command line override it.\n")
	b.WriteString(".SH EXAMPLES\n")
	fmt.Fprintf(&b, ".TP\n\\fB%s\\fR\nStart the interactive TUI.\n", appName)
	fmt.Fprintf(&b, ".TP\n\\fB%s \\-\\-idle\\-threshold 10m\\fR\nResume only after ten minutes without input.\n", appName)
	fmt.Fprintf(&b, ".TP\n\\fB%s \\-\\-headless\\fR\nRun without a terminal UI until interrupted.\n", appName)
	return b.String()
}
