package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/conneroisu/mtempl/internal/cache"
	"github.com/conneroisu/mtempl/internal/capture"
	"github.com/conneroisu/mtempl/internal/catalog"
	"github.com/conneroisu/mtempl/internal/config"
	mterrors "github.com/conneroisu/mtempl/internal/errors"
	"github.com/conneroisu/mtempl/internal/format"
	"github.com/conneroisu/mtempl/internal/render"
)

var (
	renderFromCatalog bool
	renderLocale      string
	renderEmitEvent   bool
	renderSentinel    string
)

// renderCmd represents the render command.
var renderCmd = &cobra.Command{
	Use:   "render <template> [arg...]",
	Short: "Bind arguments to a template and render it",
	Long: `Render a message template with the given arguments.

Arguments are strings unless they parse as integers, floats, or booleans,
or are prefixed with 'json:' for structured values. With --name the first
argument is looked up in the configured catalogs instead of being parsed
as template source.

Examples:
  mtempl render 'User {username} from {ip}' alice 10.0.0.1
  mtempl render '{1} before {0}' a b
  mtempl render 'Total {total,10:n}' 1234567 --locale de
  mtempl render user-login alice 10.0.0.1 --name --event`,
	Args: cobra.MinimumNArgs(1),
	RunE: runRenderCommand,
}

func init() {
	rootCmd.AddCommand(renderCmd)
	addCatalogFlags(renderCmd)
	renderCmd.Flags().BoolVar(&renderFromCatalog, "name", false, "treat <template> as a catalog entry name")
	renderCmd.Flags().StringVar(&renderLocale, "locale", "", "BCP 47 locale for the default formatter")
	renderCmd.Flags().BoolVar(&renderEmitEvent, "event", false, "also print the captured event as JSON")
	renderCmd.Flags().StringVar(&renderSentinel, "sentinel", "", "render unbound holes as this sentinel instead of verbatim")
}

func runRenderCommand(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	raw := args[0]
	store := cache.NewStore()
	if renderFromCatalog {
		cat, err := catalog.LoadPaths(cfg.Catalog.Paths, cfg.Catalog.ExcludePatterns, store)
		if err != nil {
			return err
		}
		entry, ok := cat.Get(args[0])
		if !ok {
			return fmt.Errorf("catalog has no template named %q", args[0])
		}
		raw = entry.Raw
	}

	tmpl, err := store.GetOrParse(raw)
	if err != nil {
		var ge *mterrors.GrammarError
		if errors.As(err, &ge) && ge.Suggestion() != "" {
			return fmt.Errorf("%w\n  hint: %s", err, ge.Suggestion())
		}
		return err
	}

	values := make([]any, 0, len(args)-1)
	for _, arg := range args[1:] {
		values = append(values, coerceArg(arg))
	}

	locale := renderLocale
	if locale == "" {
		locale = cfg.Render.Locale
	}
	formatter := format.ForLocale(locale)

	opts := render.Options{}
	if cmd.Flags().Changed("sentinel") {
		opts.Unbound = render.UnboundSentinel
		opts.Sentinel = renderSentinel
	} else if cfg.Render.UnboundPolicy == "sentinel" {
		opts.Unbound = render.UnboundSentinel
		opts.Sentinel = cfg.Render.Sentinel
	}

	event := capture.Bind(tmpl, values...)
	fmt.Println(render.RenderWith(event, formatter.Format, opts))

	if renderEmitEvent {
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(event); err != nil {
			return fmt.Errorf("encoding event: %w", err)
		}
	}
	return nil
}

// coerceArg converts a CLI argument to the most specific value it parses
// as. A 'json:' prefix unmarshals the remainder, so structure-capture
// holes can be exercised from the shell.
func coerceArg(arg string) any {
	if len(arg) > 5 && arg[:5] == "json:" {
		var v any
		if err := json.Unmarshal([]byte(arg[5:]), &v); err == nil {
			return v
		}
		return arg[5:]
	}
	if i, err := strconv.ParseInt(arg, 10, 64); err == nil {
		return i
	}
	if f, err := strconv.ParseFloat(arg, 64); err == nil {
		return f
	}
	if b, err := strconv.ParseBool(arg); err == nil {
		return b
	}
	return arg
}
