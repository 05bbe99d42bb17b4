package cli

import (
	"context"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/dmitrijs2005/quickqr/internal/client/presets"
	"github.com/dmitrijs2005/quickqr/internal/flagx"
	"github.com/dmitrijs2005/quickqr/internal/qr"
)

func (a *App) newCode(ctx context.Context, args []string) error {
	a.editor.Reset()
	if len(args) > 0 {
		return a.setType(ctx, args)
	}
	fmt.Fprintln(a.out, "Started a new URL code.")
	return nil
}

func (a *App) setType(_ context.Context, args []string) error {
	if len(args) != 1 {
		fmt.Fprintf(a.out, "Types: %s\n", joinTypes())
		return errUsage
	}
	t, err := qr.ParseContentType(args[0])
	if err != nil {
		return err
	}
	if err := a.editor.SetType(t); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Type %s, fields: %s\n", t, strings.Join(qr.FieldsOf(t), ", "))
	return nil
}

// setField accepts "set field value words" and "set field=value".
func (a *App) setField(_ context.Context, args []string) error {
	field, value, ok := splitAssignment(args)
	if !ok {
		return errUsage
	}
	return a.editor.SetField(field, value)
}

func (a *App) style(_ context.Context, args []string) error {
	if len(args) == 0 {
		fmt.Fprintf(a.out, "Style keys: %s\n", strings.Join(qr.StyleKeys(), ", "))
		return nil
	}
	if strings.Contains(args[0], "=") {
		kvs, err := flagx.ParseKeyValues(args)
		if err != nil {
			return err
		}
		for _, kv := range kvs {
			if err := a.editor.SetStyle(kv.Key, kv.Value); err != nil {
				return err
			}
		}
		return nil
	}
	key, value, ok := splitAssignment(args)
	if !ok {
		return errUsage
	}
	return a.editor.SetStyle(key, value)
}

func (a *App) preset(_ context.Context, args []string) error {
	switch {
	case len(args) == 0:
		fmt.Fprintf(a.out, "Built-in presets: %s\n", strings.Join(presets.Builtin(), ", "))
		return nil
	case args[0] == "save" && len(args) == 2:
		if err := presets.Save(args[1], a.editor.Snapshot().Style); err != nil {
			return err
		}
		fmt.Fprintf(a.out, "Preset written to %s\n", args[1])
		return nil
	case len(args) == 1:
		s, err := presets.Load(args[0])
		if err != nil {
			return err
		}
		a.editor.ApplyStyle(s)
		return nil
	}
	return errUsage
}

func (a *App) setName(_ context.Context, args []string) error {
	if len(args) == 0 {
		return errUsage
	}
	a.editor.SetName(strings.Join(args, " "))
	return nil
}

func (a *App) setCodeMode(_ context.Context, args []string) error {
	if len(args) != 1 {
		return errUsage
	}
	m, ok := qr.ParseMode(args[0])
	if !ok {
		return errUsage
	}
	return a.editor.SetMode(m)
}

func (a *App) show(_ context.Context, _ []string) error {
	snap := a.editor.Snapshot()

	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	id := snap.ID
	if id == "" {
		id = "(unsaved)"
	}
	fmt.Fprintf(tw, "id\t%s\n", id)
	fmt.Fprintf(tw, "name\t%s\n", snap.Name)
	fmt.Fprintf(tw, "type\t%s\n", snap.Content.Type)
	fmt.Fprintf(tw, "mode\t%s\n", snap.Mode)
	for _, f := range snap.Content.Fields() {
		v, _ := snap.Content.Field(f)
		fmt.Fprintf(tw, "  %s\t%s\n", f, v)
	}
	st := snap.Style
	fmt.Fprintf(tw, "style\t%dpx, margin %d, ecc %s\n", st.Size, st.Margin, st.ErrorCorrectionLevel)
	fmt.Fprintf(tw, "  dots\t%s %s\n", st.Dots.Type, fill(st.Dots.Color, st.Dots.UseGradient, st.Dots.Gradient))
	fmt.Fprintf(tw, "  corners\t%s %s\n", st.CornersSquare.Type, fill(st.CornersSquare.Color, st.CornersSquare.UseGradient, st.CornersSquare.Gradient))
	fmt.Fprintf(tw, "  background\t%s\n", st.Background.Color)
	if st.Image.URL != "" {
		fmt.Fprintf(tw, "  logo\t%s (%.0f%%)\n", st.Image.URL, st.LogoRatio()*100)
	}
	return tw.Flush()
}

func (a *App) payload(_ context.Context, _ []string) error {
	fmt.Fprintln(a.out, a.editor.Payload())
	return nil
}

func fill(color string, gradient bool, g qr.Gradient) string {
	if gradient {
		return fmt.Sprintf("%s gradient %s→%s", g.Type, g.StartColor, g.EndColor)
	}
	return color
}

func splitAssignment(args []string) (string, string, bool) {
	if len(args) == 0 {
		return "", "", false
	}
	if k, v, ok := strings.Cut(args[0], "="); ok && len(args) == 1 {
		return k, v, k != ""
	}
	if len(args) < 2 {
		return args[0], "", true
	}
	return args[0], strings.Join(args[1:], " "), true
}

func joinTypes() string {
	names := make([]string, len(qr.ContentTypes))
	for i, t := range qr.ContentTypes {
		names[i] = string(t)
	}
	return strings.Join(names, ", ")
}
