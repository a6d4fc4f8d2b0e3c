package commands

import (
	"fmt"
	"io"
	"path/filepath"

	"git.home.luguber.info/inful/codedoc/internal/config"
)

// InitCmd implements the 'init' command.
type InitCmd struct {
	Force  bool   `help:"Overwrite existing configuration file"`
	Output string `short:"o" name:"output" help:"Directory to write codedoc.yaml into"`
}

func (i *InitCmd) Run(_ *Global, root *CLI) error {
	if i.Output != "" {
		return RunInit(root.stdout, filepath.Join(i.Output, config.DefaultPath), i.Force)
	}
	path := root.Config
	if path == "" {
		path = config.DefaultPath
	}
	return RunInit(root.stdout, path, i.Force)
}

// RunInit writes the example configuration to path and reports progress on w.
func RunInit(w io.Writer, path string, force bool) error {
	_, _ = fmt.Fprintln(w, "Initializing codedoc project")
	_, _ = fmt.Fprintf(w, "Writing configuration to %s\n", path)
	if err := config.Init(path, force); err != nil {
		_, _ = fmt.Fprintln(w, "Initialization failed")
		return err
	}
	_, _ = fmt.Fprintln(w, "initialized successfully")
	return nil
}
