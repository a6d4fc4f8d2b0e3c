package commands

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"git.home.luguber.info/inful/codedoc/internal/config"
	"git.home.luguber.info/inful/codedoc/internal/format"
)

// FormatsCmd implements the 'formats' command.
type FormatsCmd struct {
	Search   string `short:"s" help:"Only list formats whose name contains this text"`
	Category string `help:"Only list formats in this category (code, structured-data, document)"`
	JSON     bool   `name:"json" help:"Print descriptors as JSON"`
}

func (f *FormatsCmd) Run(g *Global, root *CLI) error {
	cfg, err := root.loadConfig(g, config.Overrides{})
	if err != nil {
		return err
	}
	list, err := f.filter(cfg.Registry())
	if err != nil {
		return err
	}

	if f.JSON {
		enc := json.NewEncoder(root.stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(list)
	}

	tw := tabwriter.NewWriter(root.stdout, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "EXTENSION\tNAME\tCATEGORY\tHIGHLIGHT")
	for _, d := range list {
		_, _ = fmt.Fprintf(tw, ".%s\t%s\t%s\t%s\n", d.Key, d.Name, d.Category, d.Highlight)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	if !root.Quiet {
		_, _ = fmt.Fprintf(root.stderr, "%d formats\n", len(list))
	}
	return nil
}

func (f *FormatsCmd) filter(reg *format.Registry) ([]format.Descriptor, error) {
	list := reg.List()
	if f.Search != "" {
		list = reg.SearchByName(f.Search)
	}
	if f.Category == "" {
		return list, nil
	}
	cat, err := format.ParseCategory(f.Category)
	if err != nil {
		return nil, err
	}
	out := list[:0:0]
	for _, d := range list {
		if d.Category == cat {
			out = append(out, d)
		}
	}
	return out, nil
}
