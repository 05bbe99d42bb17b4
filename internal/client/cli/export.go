package cli

import (
	"context"
	"fmt"
	"sort"

	"github.com/dmitrijs2005/quickqr/internal/client/render"
)

func (a *App) download(ctx context.Context, args []string) error {
	f := render.FormatPNG
	if len(args) > 0 {
		var err error
		if f, err = render.ParseFormat(args[0]); err != nil {
			return err
		}
	}
	name := a.editor.Snapshot().Name
	if len(args) > 1 {
		name = args[1]
	}

	path, err := a.preview.SaveAs(ctx, surfaceExport, f, a.config.DownloadDir, name)
	if err != nil {
		return err
	}
	if path == "" {
		fmt.Fprintln(a.out, "Preview is not ready yet, try again.")
		return nil
	}
	fmt.Fprintln(a.out, "Saved", path)
	return nil
}

// previewCmd toggles the user facing surfaces. The export surface always
// stays mounted.
func (a *App) previewCmd(_ context.Context, args []string) error {
	var names []string
	for _, n := range a.surfaces {
		if n != surfaceExport {
			names = append(names, n)
		}
	}

	if len(args) == 0 || args[0] == "status" {
		states := a.preview.Surfaces()
		if len(names) == 0 {
			fmt.Fprintln(a.out, "No live previews configured (see --preview-addr and --preview-file).")
			return nil
		}
		sort.Strings(names)
		for _, n := range names {
			fmt.Fprintf(a.out, "%s: %s\n", n, states[n])
		}
		return nil
	}

	var toggle func(string) error
	switch args[0] {
	case "on":
		toggle = a.preview.Show
	case "off":
		toggle = a.preview.Hide
	default:
		return errUsage
	}
	for _, n := range names {
		if err := toggle(n); err != nil {
			return err
		}
	}
	return nil
}
