package main

import (
	"strings"

	"github.com/urfave/cli/v2"
)

// hoistFlags moves command flags that follow positional arguments in front
// of them, so "send <file> --via qr" parses like "send --via qr <file>".
// urfave/cli stops parsing flags at the first positional argument.
func hoistFlags(app *cli.App, args []string) []string {
	i := 1
	for i < len(args) && isFlag(args[i]) {
		if args[i] == "--" {
			return args
		}
		if takesValue(app.Flags, args[i]) {
			i++
		}
		i++
	}
	if i >= len(args) {
		return args
	}
	cmd := app.Command(args[i])
	if cmd == nil {
		return args
	}

	var flags, positional, tail []string
	rest := args[i+1:]
	for j := 0; j < len(rest); j++ {
		tok := rest[j]
		if tok == "--" {
			tail = rest[j:]
			break
		}
		if !isFlag(tok) {
			positional = append(positional, tok)
			continue
		}
		flags = append(flags, tok)
		if takesValue(cmd.Flags, tok) && j+1 < len(rest) {
			j++
			flags = append(flags, rest[j])
		}
	}

	out := make([]string, 0, len(args))
	out = append(out, args[:i+1]...)
	out = append(out, flags...)
	if len(tail) > 0 {
		// Everything after "--" stays positional, so earlier positionals
		// must follow it too.
		out = append(out, "--")
		out = append(out, positional...)
		return append(out, tail[1:]...)
	}
	return append(out, positional...)
}

// isFlag reports whether tok looks like a flag. A lone "-" is a positional.
func isFlag(tok string) bool {
	return len(tok) > 1 && tok[0] == '-'
}

// takesValue reports whether tok names a known non-boolean flag given
// without an inline "=value".
func takesValue(flags []cli.Flag, tok string) bool {
	name := strings.TrimLeft(tok, "-")
	if strings.Contains(name, "=") {
		return false
	}
	for _, f := range flags {
		for _, n := range f.Names() {
			if n != name {
				continue
			}
			_, isBool := f.(*cli.BoolFlag)
			return !isBool
		}
	}
	return false
}
