package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/cristianadrielbraun/qrcompose/internal/config"
	"github.com/cristianadrielbraun/qrcompose/internal/qr"
)

type flags struct {
	contentType string
	preset      string
	fg, bg      string
	drawer      string
	box         int
	border      int
	dpi         int
	ec          string
	logo        string
	logoSize    int
	top         string
	bottom      string
	fontSize    int
	textColor   string
	bold        bool
	padding     int
	font        string
	contact     map[string]string
	outDir      string
	output      string
}

func main() {
	cfg := config.Load()
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).Level(cfg.LogLevel).With().Timestamp().Logger()
	gen := qr.New(
		qr.WithLogger(log),
		qr.WithFontResolver(cfg.Fonts()),
		qr.WithDefaultLogoPath(cfg.DefaultLogo),
		qr.WithBatchWorkers(cfg.BatchWorkers),
	)
	if err := newRootCmd(gen, log).Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd(gen *qr.Generator, log zerolog.Logger) *cobra.Command {
	f := &flags{}
	root := &cobra.Command{
		Use:          "qrgen",
		Short:        "Generate styled QR codes with logos and captions",
		SilenceUsage: true,
	}
	pf := root.PersistentFlags()
	pf.StringVarP(&f.contentType, "type", "t", "text", "content type: text, url, contact")
	pf.StringVar(&f.preset, "preset", "classic", "color preset")
	pf.StringVar(&f.fg, "fg", "", "foreground color for the custom preset")
	pf.StringVar(&f.bg, "bg", "", "background color for the custom preset")
	pf.StringVar(&f.drawer, "drawer", qr.DrawerGappedSquare.String(), "module shape: square, circle, rounded, gapped, vertical, horizontal")
	pf.IntVar(&f.box, "box", qr.DefaultModulePixelSize, "pixels per module")
	pf.IntVar(&f.border, "border", qr.DefaultBorderModules, "quiet zone width in modules")
	pf.IntVar(&f.dpi, "dpi", qr.DefaultDPI, "output resolution")
	pf.StringVar(&f.ec, "ec", "H", "error correction level: L, M, Q, H")
	pf.StringVar(&f.logo, "logo", "", `logo file, or "default" for the bundled icon`)
	pf.IntVar(&f.logoSize, "logo-size", qr.DefaultLogoPercent, "logo size in percent of the image width")
	pf.StringVar(&f.top, "top", "", "caption above the code")
	pf.StringVar(&f.bottom, "bottom", "", "caption below the code")
	pf.IntVar(&f.fontSize, "font-size", qr.DefaultFontSizePx, "caption font size in pixels")
	pf.StringVar(&f.textColor, "text-color", qr.DefaultCaptionColor, "caption color")
	pf.BoolVar(&f.bold, "bold", false, "bold captions")
	pf.IntVar(&f.padding, "padding", qr.DefaultCaptionPadding, "caption vertical padding in pixels")
	pf.StringVar(&f.font, "font", "", "caption font file (TTF/OTF/TTC)")
	pf.StringToStringVar(&f.contact, "field", nil, "contact field, e.g. --field name=Zhang --field tel=138")
	pf.StringVarP(&f.outDir, "out-dir", "d", ".", "output directory")

	gencmd := &cobra.Command{
		Use:   "generate [content]",
		Short: "Generate a single QR code",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := f.config(args, false)
			if err != nil {
				return err
			}
			warn(log, cfg)
			res, err := gen.Generate(cfg)
			if err != nil {
				return err
			}
			name := f.output
			if name == "" {
				name = res.Filename
			}
			path := filepath.Join(f.outDir, name)
			if err := os.WriteFile(path, res.PNG, 0o644); err != nil {
				return errors.Wrap(err, "write output")
			}
			log.Info().Str("file", path).Int("version", res.Version).Int("width", res.Width).Int("height", res.Height).Msg("generated")
			return nil
		},
	}
	gencmd.Flags().StringVarP(&f.output, "output", "o", "", "output file name (default qrcode_<dpi>dpi.png)")

	batchcmd := &cobra.Command{
		Use:   "batch <file|->",
		Short: "Generate one QR code per URL line",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				data []byte
				err  error
			)
			if args[0] == "-" {
				data, err = io.ReadAll(cmd.InOrStdin())
			} else {
				data, err = os.ReadFile(args[0])
			}
			if err != nil {
				return errors.Wrap(err, "read batch input")
			}
			cfg, err := f.config([]string{string(data)}, true)
			if err != nil {
				return err
			}
			warn(log, cfg)
			items, err := gen.GenerateBatch(context.Background(), cfg)
			if err != nil {
				return err
			}
			for _, it := range items {
				if it.Err != nil {
					log.Error().Err(it.Err).Int("index", it.Index).Str("url", it.URL).Msg("failed")
					continue
				}
				path := filepath.Join(f.outDir, it.Result.Filename)
				if err := os.WriteFile(path, it.Result.PNG, 0o644); err != nil {
					return errors.Wrap(err, "write output")
				}
				log.Info().Str("file", path).Str("url", it.URL).Msg("generated")
			}
			log.Info().Int("total", len(items)).Int("ok", len(qr.Succeeded(items))).Msg("batch done")
			return nil
		},
	}

	previewcmd := &cobra.Command{
		Use:   "preview [content]",
		Short: "Print the payload that would be encoded",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := f.config(args, false)
			if err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			payload, err := qr.Payload(cfg)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, payload)
			if cfg.ContentType == qr.ContentContact {
				fmt.Fprintln(out)
				fmt.Fprintln(out, cfg.Contact.Preview(qr.LabelsFor(os.Getenv("LANG"))))
			}
			return nil
		},
	}

	presetscmd := &cobra.Command{
		Use:   "presets",
		Short: "List color presets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(qr.Presets())
		},
	}

	root.AddCommand(gencmd, batchcmd, previewcmd, presetscmd)
	return root
}

func warn(log zerolog.Logger, cfg qr.GenerationConfig) {
	for _, w := range cfg.Warnings() {
		log.Warn().Msg(w)
	}
}

// config turns the flags into a GenerationConfig.
func (f *flags) config(args []string, batch bool) (qr.GenerationConfig, error) {
	content := ""
	if len(args) > 0 {
		content = args[0]
	}
	ec, err := qr.ParseErrorCorrection(f.ec)
	if err != nil {
		return qr.GenerationConfig{}, err
	}
	opts := []qr.Option{
		qr.WithDrawer(qr.ParseDrawer(f.drawer)),
		qr.WithSize(f.box, f.border),
		qr.WithDPI(f.dpi),
		qr.WithErrorCorrection(ec),
	}
	if strings.EqualFold(f.preset, "custom") {
		opts = append(opts, qr.WithCustomColors(f.fg, f.bg))
	} else {
		opts = append(opts, qr.WithPreset(qr.ParsePreset(f.preset)))
	}

	ct, err := qr.ParseContentType(f.contentType)
	if err != nil {
		return qr.GenerationConfig{}, err
	}
	switch {
	case batch:
		opts = append(opts, qr.WithBatchURLs(content))
	case ct == qr.ContentBatchURLs:
		return qr.GenerationConfig{}, errors.Wrap(qr.ErrInvalidConfig, "batch content needs the batch command")
	case ct == qr.ContentContact:
		card := qr.ContactCard{}
		for k, v := range f.contact {
			field := qr.ContactField(strings.ToLower(k))
			if !knownField(field) {
				return qr.GenerationConfig{}, errors.Wrapf(qr.ErrInvalidConfig, "unknown contact field %q", k)
			}
			card[field] = v
		}
		opts = append(opts, qr.WithContact(card))
	case ct == qr.ContentURL:
		opts = append(opts, qr.WithURL(content))
	default:
		opts = append(opts, qr.WithText(content))
	}

	switch {
	case strings.EqualFold(f.logo, "default"):
		opts = append(opts, qr.WithDefaultLogo(f.logoSize))
	case f.logo != "":
		opts = append(opts, qr.WithLogo(qr.FileResource(f.logo), f.logoSize))
	}
	if f.top != "" || f.bottom != "" {
		opts = append(opts,
			qr.WithCaption(f.top, f.bottom),
			qr.WithCaptionStyle(f.fontSize, f.textColor, f.bold, f.padding),
		)
		if f.font != "" {
			opts = append(opts, qr.WithCaptionFont(qr.FileResource(f.font)))
		}
	}
	return qr.NewConfig(opts...), nil
}

func knownField(f qr.ContactField) bool {
	for _, known := range qr.ContactFields {
		if f == known {
			return true
		}
	}
	return false
}
