package cli

import (
	"context"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/dmitrijs2005/quickqr/internal/qr"
)

func (a *App) save(ctx context.Context, _ []string) error {
	snap := a.editor.Snapshot()
	saved, err := a.codeService.Save(ctx, snap)
	if err != nil {
		return err
	}
	a.editor.MarkSaved(saved.ID, saved.Mode)

	fmt.Fprintf(a.out, "Saved %q as %s\n", saved.Name, saved.ID)
	if saved.Mode == qr.ModeDynamic {
		fmt.Fprintf(a.out, "Redirect URL: %s\n", qr.RedirectURL(a.config.AppOrigin, saved.ID))
	}
	return nil
}

func (a *App) list(ctx context.Context, args []string) error {
	var (
		codes []qr.SavedCode
		err   error
	)
	switch {
	case len(args) == 0:
		u, _ := a.authService.Current()
		codes, err = a.codeService.List(ctx, u.ID)
	case args[0] == "all":
		codes, err = a.codeService.AdminList(ctx)
	default:
		codes, err = a.codeService.List(ctx, args[0])
	}
	if err != nil {
		return err
	}

	if len(codes) == 0 {
		fmt.Fprintln(a.out, "No codes saved yet.")
		return nil
	}

	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tTYPE\tMODE\tSCANS\tUPDATED")
	for _, c := range codes {
		scans := "-"
		if c.Mode == qr.ModeDynamic {
			scans = fmt.Sprint(c.ScanCount)
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
			c.ID, c.Name, c.Type(), c.Mode, scans, c.UpdatedAt.Local().Format("2006-01-02 15:04"))
	}
	return tw.Flush()
}

func (a *App) open(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return errUsage
	}
	code, err := a.codeService.Get(ctx, args[0])
	if err != nil {
		return err
	}
	a.editor.Load(code)
	fmt.Fprintf(a.out, "Editing %q (%s, %s)\n", code.Name, code.Type(), code.Mode)
	return nil
}

func (a *App) deleteCode(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return errUsage
	}
	id := args[0]
	if err := a.codeService.Delete(ctx, id); err != nil {
		return err
	}
	if a.editor.Snapshot().ID == id {
		a.editor.Reset()
	}
	fmt.Fprintln(a.out, "Deleted", id)
	return nil
}

func (a *App) scans(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return errUsage
	}
	list, err := a.codeService.Scans(ctx, args[0])
	if err != nil {
		return err
	}
	if len(list) == 0 {
		fmt.Fprintln(a.out, "No scans recorded.")
		return nil
	}

	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "WHEN\tDEVICE\tOS\tTIMEZONE\tREFERRER")
	for _, s := range list {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
			s.ScannedAt.Local().Format("2006-01-02 15:04:05"), s.Device, s.OS, s.Timezone, s.Referrer)
	}
	return tw.Flush()
}

// logo accepts a local image (uploaded through the backend), a URL or
// "clear".
func (a *App) logo(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return errUsage
	}
	src := args[0]

	switch {
	case src == "clear":
		a.editor.EditStyle(func(s *qr.Style) { s.SetLogo("") })
		return nil
	case strings.HasPrefix(src, "http://"), strings.HasPrefix(src, "https://"), strings.HasPrefix(src, "data:"):
		a.editor.EditStyle(func(s *qr.Style) { s.SetLogo(src) })
		return nil
	}

	if !a.isLoggedIn() {
		fmt.Fprintln(a.out, "Please log in first to upload a logo.")
		return nil
	}
	data, err := os.ReadFile(src)
	if err != nil {
		return fmt.Errorf("read logo: %w", err)
	}
	url, err := a.codeService.UploadLogo(ctx, data)
	if err != nil {
		return err
	}
	a.editor.EditStyle(func(s *qr.Style) { s.SetLogo(url) })
	fmt.Fprintln(a.out, "Logo uploaded:", url)
	return nil
}
