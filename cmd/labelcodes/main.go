// Command labelcodes lists the shader label codes the renderer can request,
// or explains a single forward code.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/gekko3d/forward/label"
)

var kinds = []string{"forward", "lit", "depth", "caster", "shadow", "light", "all"}

func main() {
	log.SetFlags(0)
	if err := run(os.Stdout, os.Args[1:]); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		log.Fatalf("labelcodes: %v", err)
	}
}

func run(w io.Writer, args []string) error {
	fs := flag.NewFlagSet("labelcodes", flag.ContinueOnError)
	fs.SetOutput(w)
	var (
		kind  = fs.String("kind", "forward", "label family: "+strings.Join(kinds, ", "))
		parse = fs.String("parse", "", "explain a forward code instead of listing")
		attrs = fs.Bool("attributes", false, "print vertex attributes next to forward codes")
		count = fs.Bool("count", false, "print only the number of codes")
	)
	if err := fs.Parse(args); err != nil {
		return err
	}

	if *parse != "" {
		return explain(w, *parse)
	}

	codes, err := list(*kind, *attrs)
	if err != nil {
		return err
	}
	if *count {
		_, err = fmt.Fprintln(w, len(codes))
		return err
	}
	for _, c := range codes {
		if _, err := fmt.Fprintln(w, c); err != nil {
			return err
		}
	}
	return nil
}

func list(kind string, attrs bool) ([]string, error) {
	var out []string
	switch kind {
	case "forward":
		var buf []label.Attribute
		for _, f := range label.AllForward() {
			if !attrs {
				out = append(out, f.Code())
				continue
			}
			buf = label.AppendAttributes(buf[:0], f)
			out = append(out, f.Code()+"\t"+attributeNames(buf))
		}
	case "lit":
		out = label.Permutations()
	case "depth":
		for _, d := range label.AllDepth() {
			out = append(out, d.Code())
		}
	case "caster":
		var buf []label.Attribute
		for _, c := range label.AllCasters() {
			code := c.Code() + "\t" + label.ShadowCastFor(c).Code()
			if attrs {
				buf = label.AppendCasterAttributes(buf[:0], c)
				code += "\t" + attributeNames(buf)
			}
			out = append(out, code)
		}
	case "shadow":
		for _, s := range label.AllShadow() {
			out = append(out, s.Code())
		}
	case "light":
		for _, l := range label.AllLights() {
			out = append(out, l.Code())
		}
	case "all":
		for _, k := range kinds[:len(kinds)-1] {
			codes, err := list(k, attrs)
			if err != nil {
				return nil, err
			}
			out = append(out, codes...)
		}
	default:
		return nil, fmt.Errorf("unknown kind %q (want one of %s)", kind, strings.Join(kinds, ", "))
	}
	return out, nil
}

func explain(w io.Writer, code string) error {
	f, ok := label.ParseForward(code)
	if !ok {
		return fmt.Errorf("%q is not a forward label code", code)
	}
	_, err := fmt.Fprintf(w,
		"alpha:       %s\nalbedo:      %s\nemissive:    %s\nnormal:      %s\nenvironment: %s\nspecular:    %s\ncaster:      %s\nattributes:  %s\n",
		f.Alpha, f.Albedo, f.Emissive, f.Normal, f.Environment, f.Specular,
		f.Caster(), attributeNames(label.AppendAttributes(nil, f)))
	return err
}

func attributeNames(attrs []label.Attribute) string {
	names := make([]string, len(attrs))
	for i, a := range attrs {
		names[i] = a.Name
	}
	return strings.Join(names, ",")
}
