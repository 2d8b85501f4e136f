package cli

import (
	"context"

	"github.com/alecthomas/kong"

	"github.com/ardnew/plate/cli/cmd"
	"github.com/ardnew/plate/pkg"
	"github.com/ardnew/plate/site"
)

// CLI is the top-level command-line interface for plate.
type CLI struct {
	Log   logConfig   `embed:"" group:"log"   prefix:"log-"`
	Pprof pprofConfig `embed:"" group:"pprof" prefix:"pprof-"`

	Version kong.VersionFlag `help:"Print version and exit." short:"V"`

	Site siteFlags `embed:"" group:"site"`

	Build  cmd.Build  `cmd:"" default:"withargs" help:"Render every content file into the output directory."`
	Render cmd.Render `cmd:""                    help:"Render content files to stdout."`
	Check  cmd.Check  `cmd:""                    help:"Validate a template without rendering."`
	Fmt    cmd.Fmt    `cmd:""                    help:"Format a template."`
	Watch  cmd.Watch  `cmd:""                    help:"Build, then rebuild whenever an input changes."`
	Init   cmd.Init   `cmd:""                    help:"Initialize configuration file."`
}

// siteFlags locate a site's inputs and outputs.
type siteFlags struct {
	Source    string `default:"content"        help:"Directory of content files."                          short:"s" type:"path"`
	Template  string `default:"template.plate" help:"Template applied to every content file."              short:"t" type:"path"`
	Output    string `default:"public"         help:"Output directory."                                    short:"o" type:"path"`
	Assets    string `                         help:"Directory copied verbatim into the output directory." short:"a" type:"path"`
	Ext       string `default:".html"          help:"Output file extension (empty keeps the content's)."`
	Jobs      int    `default:"0"              help:"Maximum parallel renders (0 uses every CPU)."        short:"j"`
	KeepGoing bool   `                         help:"Render every page even after a failure."             short:"k"`
	Rewrite   bool   `                         help:"Rewrite outputs even when their contents are unchanged."`
}

func (f siteFlags) config() site.Config {
	return site.Config{
		SourceDir:    f.Source,
		TemplatePath: f.Template,
		OutputDir:    f.Output,
		AssetDir:     f.Assets,
		Ext:          f.Ext,
		Jobs:         f.Jobs,
		KeepGoing:    f.KeepGoing,
		Force:        f.Rewrite,
	}
}

func (siteFlags) group() kong.Group {
	return kong.Group{Key: "site", Title: "Site options"}
}

// Run executes the plate CLI with the given context and arguments.
// The exit function is called with the appropriate exit code upon completion.
func Run(
	ctx context.Context,
	exit func(code int),
	args ...string,
) error {
	var cli CLI

	err := mkdirAllRequired()
	if err != nil {
		return err
	}

	vars := kong.Vars{
		cmd.ConfigIdentifier: configPath(userConfig),
		cmd.CacheIdentifier:  cacheDir(),
		"version":            pkg.Version(),
	}.
		CloneWith(cli.Log.vars()).
		CloneWith(cli.Pprof.vars())

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Pre-scan for logger flags to ensure early configuration regardless of
	// flag position.
	cli.Log.scan(args)

	parser, err := kong.New(&cli,
		kong.Name(pkg.Name),
		kong.Description(pkg.Description),
		kong.UsageOnError(),
		kong.Exit(exit),
		kong.ExplicitGroups(
			[]kong.Group{cli.Site.group(), cli.Log.group(), cli.Pprof.group()},
		),
		kong.BindSingletonProvider(func() context.Context {
			return ctx
		}),
		kong.ConfigureHelp(
			kong.HelpOptions{
				Compact:             true,
				Summary:             true,
				Tree:                true,
				FlagsLast:           false,
				NoAppSummary:        false,
				NoExpandSubcommands: true,
			}),
		// Later files override earlier ones.
		kong.Configuration(resolve, configPath(userConfig), siteConfig),
		vars,
	)
	if err != nil {
		return err
	}

	ktx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	ctx = cmd.WithContext(ctx, ktx)
	ctx = cmd.WithSite(ctx, cli.Site.config())

	// Finalize logger configuration with all parsed values including
	// TimeLayout and Caller which don't use TextUnmarshaler.
	cli.Log.start(ctx)

	// [pprofConfig.start] is no-op unless built with tag pprof and enabled.
	defer cli.Pprof.start(ctx)()

	return ktx.Run(ctx)
}
