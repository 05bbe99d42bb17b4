package cli

import (
	"context"
	"fmt"
	"strings"
	"text/tabwriter"
)

func (a *App) draft(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return errUsage
	}
	sub, rest := args[0], args[1:]
	name := strings.Join(rest, " ")

	switch sub {
	case "list":
		return a.listDrafts(ctx)
	case "save":
		if name == "" {
			name = a.editor.Snapshot().Name
		}
		if name == "" {
			return errUsage
		}
		if err := a.draftService.Save(ctx, name, a.editor.Snapshot()); err != nil {
			return err
		}
		fmt.Fprintf(a.out, "Draft %q saved.\n", name)
	case "load":
		if name == "" {
			return errUsage
		}
		snap, err := a.draftService.Load(ctx, name)
		if err != nil {
			return err
		}
		a.editor.Restore(snap)
		fmt.Fprintf(a.out, "Draft %q loaded.\n", name)
	case "delete":
		if name == "" {
			return errUsage
		}
		if err := a.draftService.Delete(ctx, name); err != nil {
			return err
		}
		fmt.Fprintf(a.out, "Draft %q deleted.\n", name)
	default:
		return errUsage
	}
	return nil
}

func (a *App) listDrafts(ctx context.Context) error {
	list, err := a.draftService.List(ctx)
	if err != nil {
		return err
	}
	if len(list) == 0 {
		fmt.Fprintln(a.out, "No drafts.")
		return nil
	}
	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tTYPE\tMODE\tUPDATED")
	for _, d := range list {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", d.Name, d.Type, d.Mode, d.UpdatedAt.Local().Format("2006-01-02 15:04"))
	}
	return tw.Flush()
}
