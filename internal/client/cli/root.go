package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/dmitrijs2005/quickqr/internal/buildinfo"
	"github.com/dmitrijs2005/quickqr/internal/client/config"
	"github.com/dmitrijs2005/quickqr/internal/client/presets"
	"github.com/dmitrijs2005/quickqr/internal/client/render"
	"github.com/dmitrijs2005/quickqr/internal/flagx"
	"github.com/dmitrijs2005/quickqr/internal/logging"
	"github.com/dmitrijs2005/quickqr/internal/qr"
)

// logOutput receives diagnostic logs; swapped in tests.
var logOutput io.Writer = os.Stderr

// contentFlags are shared by encode and render.
type contentFlags struct {
	typ    string
	fields []string
}

func (f *contentFlags) bind(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.typ, "type", "t", string(qr.TypeURL), "content type")
	cmd.Flags().StringArrayVarP(&f.fields, "field", "f", nil, "content field as name=value (repeatable)")
}

func (f *contentFlags) content() (qr.Content, error) {
	t, err := qr.ParseContentType(f.typ)
	if err != nil {
		return qr.Content{}, err
	}
	c := qr.NewContent(t)
	kvs, err := flagx.ParseKeyValues(f.fields)
	if err != nil {
		return qr.Content{}, err
	}
	for _, kv := range kvs {
		if err := c.SetField(kv.Key, kv.Value); err != nil {
			return qr.Content{}, err
		}
	}
	return c, nil
}

// NewRootCommand builds the quickqr command tree. Without a subcommand the
// interactive shell is started.
func NewRootCommand(in io.Reader, out io.Writer) *cobra.Command {
	cfg := config.New()
	var logger logging.Logger = logging.NopLogger{}
	var shell ShellOptions

	runShell := func(cmd *cobra.Command, _ []string) error {
		app, err := NewApp(cmd.Context(), cfg, logger, shell, in, out)
		if err != nil {
			return err
		}
		app.Run(cmd.Context())
		return nil
	}

	root := &cobra.Command{
		Use:           "quickqr",
		Short:         "Design, preview and manage QR codes",
		Version:       buildinfo.Version(),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if err := cfg.Load(cmd.Flags()); err != nil {
				return err
			}
			logger = logging.New(logOutput, cfg.LogFormat, cfg.LogLevel)
			return nil
		},
		RunE: runShell,
	}
	root.SetIn(in)
	root.SetOut(out)
	root.SetErr(out)
	config.BindFlags(root.PersistentFlags(), cfg)

	shellCmd := &cobra.Command{
		Use:   "shell",
		Short: "Start the interactive editor",
		Args:  cobra.NoArgs,
		RunE:  runShell,
	}
	for _, c := range []*cobra.Command{root, shellCmd} {
		c.Flags().StringVar(&shell.PreviewAddr, "preview-addr", "", "serve a live browser preview on this address, e.g. 127.0.0.1:8090")
		c.Flags().StringVar(&shell.PreviewFile, "preview-file", "", "keep a PNG preview of the current code at this path")
	}

	root.AddCommand(shellCmd, newEncodeCommand(), newRenderCommand(func() logging.Logger { return logger }))
	return root
}

func newEncodeCommand() *cobra.Command {
	var cf contentFlags
	cmd := &cobra.Command{
		Use:     "encode",
		Short:   "Print the payload a code would carry",
		Example: "  quickqr encode -t wifi -f ssid=Home -f password=secret",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := cf.content()
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), qr.Encode(c))
			return err
		},
	}
	cf.bind(cmd)
	return cmd
}

func newRenderCommand(logger func() logging.Logger) *cobra.Command {
	var (
		cf      contentFlags
		styles  []string
		preset  string
		format  string
		outPath string
	)
	cmd := &cobra.Command{
		Use:     "render",
		Short:   "Render a styled code to an image file",
		Example: "  quickqr render -f url=https://example.com --preset ocean --style dots.type=dots -o code.png",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := cf.content()
			if err != nil {
				return err
			}

			st := qr.DefaultStyle()
			if preset != "" {
				if st, err = presets.Load(preset); err != nil {
					return err
				}
			}
			kvs, err := flagx.ParseKeyValues(styles)
			if err != nil {
				return err
			}
			for _, kv := range kvs {
				if err := st.Set(kv.Key, kv.Value); err != nil {
					return err
				}
			}

			if format == "" {
				format = formatFromPath(outPath)
			}
			f, err := render.ParseFormat(format)
			if err != nil {
				return err
			}

			r := render.NewRaster(render.NewLogoLoader(nil), logger())
			data, err := r.Export(cmd.Context(), qr.Compose(qr.Encode(c), st), f)
			if err != nil {
				return err
			}
			return writeOutput(cmd, outPath, data)
		},
	}
	cf.bind(cmd)
	cmd.Flags().StringArrayVarP(&styles, "style", "s", nil, "style override as key=value (repeatable)")
	cmd.Flags().StringVarP(&preset, "preset", "p", "", "built-in preset name or TOML file")
	cmd.Flags().StringVar(&format, "format", "", "png, jpeg, webp or svg (default from -o, else png)")
	cmd.Flags().StringVarP(&outPath, "output", "o", "-", "output file, - for stdout")
	return cmd
}

func formatFromPath(p string) string {
	if ext := filepath.Ext(p); ext != "" && p != "-" {
		return ext
	}
	return string(render.FormatPNG)
}

func writeOutput(cmd *cobra.Command, path string, data []byte) error {
	if path == "-" {
		_, err := cmd.OutOrStdout().Write(data)
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	fmt.Fprintln(cmd.ErrOrStderr(), "Saved", path)
	return nil
}

// Execute runs the root command with the process arguments.
func Execute(ctx context.Context) error {
	return NewRootCommand(os.Stdin, os.Stdout).ExecuteContext(ctx)
}
