package main

import (
	"fmt"
	"os"
	"sort"

	"github.com/alecthomas/kong"
	"github.com/rs/zerolog/log"

	"github.com/austin/hoarder/internal/app"
	"github.com/austin/hoarder/internal/config"
	"github.com/austin/hoarder/internal/logging"
	"github.com/austin/hoarder/internal/password"
	"github.com/austin/hoarder/internal/rarpath"
)

var version = "dev"

// runContext is handed to every subcommand.
type runContext struct {
	cfg config.Config
}

type cli struct {
	LogLevel string           `kong:"name='log-level',default='info',help='Log level.'"`
	LogJSON  bool             `kong:"name='log-json',help='Log as JSON instead of console output.'"`
	Config   string           `kong:"name='config',default='config.toml',help='Path to the config file.'"`
	Version  kong.VersionFlag `kong:"name='version',help='Print version and quit.'"`

	Volumes   volumesCmd   `kong:"cmd,help='Resolve and order the volumes of RAR sets.'"`
	Add       addCmd       `kong:"cmd,help='Catalog checksum containers under a storage root.'"`
	Show      showCmd      `kong:"cmd,help='Show a cataloged archive and its file entries.'"`
	ImportNZB importNZBCmd `kong:"cmd,name='import-nzb',help='Harvest passwords from NZB directories into the catalog.'"`
}

func main() {
	var flags cli
	ktx := kong.Parse(&flags,
		kong.Name("hoarder"),
		kong.Description("Catalog checksum metadata from SFV listings, RAR volume sets and hash-name files."),
		kong.UsageOnError(),
		kong.Vars{
			"version": version,
		},
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
			Summary: true,
		}))

	logging.Configure(logging.Options{
		Level: flags.LogLevel,
		JSON:  flags.LogJSON,
	})

	cfg, err := config.Load(flags.Config)
	if err != nil {
		log.Fatal().Err(err).Msg("cannot load configuration")
	}

	err = ktx.Run(&runContext{cfg: cfg})
	ktx.FatalIfErrorf(err)
}

// volumesCmd resolves naming schemes without touching the catalog.
type volumesCmd struct {
	Paths []string `kong:"arg,help='Volume paths of one set in any order, or a single directory to scan.'"`
}

func (c *volumesCmd) Run(_ *runContext) error {
	if len(c.Paths) == 1 {
		if info, err := os.Stat(c.Paths[0]); err == nil && info.IsDir() {
			groups, err := rarpath.Scan(c.Paths[0], "")
			if err != nil {
				return err
			}
			stems := make([]string, 0, len(groups))
			for stem := range groups {
				stems = append(stems, stem)
			}
			sort.Strings(stems)
			for _, stem := range stems {
				group := groups[stem]
				fmt.Printf("%s: %s\n", stem, group.Scheme)
				for _, path := range group.Volumes {
					fmt.Println("  " + path)
				}
			}
			return nil
		}
	}

	scheme, ordered, err := rarpath.Sort(c.Paths)
	if err != nil {
		return err
	}
	fmt.Printf("scheme: %s\n", scheme)
	for _, path := range ordered {
		fmt.Println(path)
	}
	return nil
}

type addCmd struct {
	Root string `kong:"arg,help='Storage root to catalog.'"`
	Path string `kong:"arg,optional,help='Single container under the root; the whole tree is walked when omitted.'"`

	Delete       bool   `kong:"help='Remove deletable containers from disk after cataloging.'"`
	DryRun       bool   `kong:"name='dry-run',help='Report what would be cataloged without writing.'"`
	PasswordFile string `kong:"name='password-file',help='Plain list of candidate passwords, one per line.'"`
}

func (c *addCmd) Run(ctx *runContext) error {
	runner, cleanup, err := newRunner(ctx.cfg, c.Root, c.PasswordFile)
	if err != nil {
		return err
	}
	defer cleanup()
	runner.Delete = c.Delete
	runner.DryRun = c.DryRun

	if c.Path != "" {
		a, err := runner.Add(c.Root, c.Path)
		if err != nil {
			return err
		}
		fmt.Printf("cataloged %s (%s, %d entries)\n", a.RelPath(), a.Kind(), len(a.Entries()))
		return nil
	}

	stats, err := runner.AddTree(c.Root)
	if err != nil {
		return err
	}
	fmt.Printf("found %d, added %d, deleted %d, failures %d\n",
		stats.Found, stats.Added, stats.Deleted, stats.Failures)
	if code := app.ExitCode(stats); code != 0 {
		return fmt.Errorf("%d containers failed", stats.Failures)
	}
	return nil
}

type showCmd struct {
	Root string `kong:"arg,help='Storage root the archive lives under.'"`
	Path string `kong:"arg,help='Archive path relative to the root.'"`
}

func (c *showCmd) Run(ctx *runContext) error {
	s, err := openStore(ctx.cfg, c.Root)
	if err != nil {
		return err
	}
	defer s.Close()

	a, err := s.LoadArchive(c.Root, c.Path)
	if err != nil {
		return err
	}

	fmt.Printf("%s (%s)\n", a.RelPath(), a.Kind())
	for _, entry := range a.Entries() {
		size := "?"
		if entry.Size >= 0 {
			size = fmt.Sprintf("%d", entry.Size)
		}
		hash := "-"
		if len(entry.Hash) > 0 {
			hash = fmt.Sprintf("%s:%x", entry.Algo, entry.Hash)
		}
		marker := " "
		if entry.IsDir {
			marker = "d"
		}
		fmt.Printf("%s %10s  %-24s %s\n", marker, size, hash, entry.Path)
	}
	return nil
}

type importNZBCmd struct {
	Dirs []string `kong:"arg,optional,help='NZB directories; defaults to the configured nzb.paths.'"`
}

func (c *importNZBCmd) Run(ctx *runContext) error {
	dirs := c.Dirs
	if len(dirs) == 0 {
		dirs = ctx.cfg.NZB.Paths
	}
	if len(dirs) == 0 {
		return fmt.Errorf("no NZB directories given and nzb.paths is not configured")
	}

	s, err := openStore(ctx.cfg, "")
	if err != nil {
		return err
	}
	defer s.Close()

	harvested, err := password.Harvest(dirs)
	if err != nil {
		return err
	}
	if err := s.SavePasswords(harvested); err != nil {
		return err
	}
	fmt.Printf("imported passwords for %d titles\n", harvested.Len())
	return nil
}
