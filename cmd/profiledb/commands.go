package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/poiesic/profiledb"
	"github.com/poiesic/profiledb/config"
	"github.com/poiesic/profiledb/core"
	"github.com/poiesic/profiledb/ingestion"
	"github.com/poiesic/profiledb/mcpserver"
	"github.com/poiesic/profiledb/search"
	"github.com/urfave/cli/v2"
)

// loadConfig reads the config file and applies the global flag overrides.
func loadConfig(c *cli.Context) (*config.Config, error) {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	overrides := map[string]*string{
		"root":            &cfg.Root,
		"provider":        &cfg.AI.Provider,
		"embedding-host":  &cfg.AI.EmbeddingHost,
		"embedding-model": &cfg.AI.EmbeddingModel,
		"backend":         &cfg.Store.Backend,
	}
	for flag, dst := range overrides {
		if c.IsSet(flag) {
			*dst = c.String(flag)
		}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func openEngine(c *cli.Context, extra ...profiledb.Option) (*profiledb.Engine, error) {
	cfg, err := loadConfig(c)
	if err != nil {
		return nil, err
	}
	engine, err := cfg.Open(c.Context, append([]profiledb.Option{profiledb.WithProgress(os.Stderr)}, extra...)...)
	if err != nil {
		return nil, fmt.Errorf("failed to open index at %s: %w", cfg.Root, err)
	}
	return engine, nil
}

func printJSON(c *cli.Context, v any) error {
	enc := json.NewEncoder(c.App.Writer)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func requireArg(c *cli.Context, name string) (string, error) {
	if c.NArg() < 1 || c.Args().First() == "" {
		return "", fmt.Errorf("%s is required", name)
	}
	return c.Args().First(), nil
}

func syncCommand(c *cli.Context) error {
	paths := c.Args().Slice()
	if dir := c.String("dir"); dir != "" {
		found, err := ingestion.FindProfiles(dir)
		if err != nil {
			return fmt.Errorf("failed to list profiles: %w", err)
		}
		paths = append(paths, found...)
	}
	if len(paths) == 0 {
		return errors.New("no profile files given")
	}
	if c.IsSet("name") && len(paths) != 1 {
		return errors.New("--name requires exactly one file")
	}

	engine, err := openEngine(c)
	if err != nil {
		return err
	}
	defer engine.Close()

	pipeline, err := ingestion.NewPipeline(engine, ingestion.WithPoolSize(c.Int("workers")))
	if err != nil {
		return err
	}
	defer pipeline.Release()

	docs := make([]ingestion.Document, len(paths))
	for i, path := range paths {
		docs[i] = ingestion.Document{Name: ingestion.ProfileName(path), Source: path}
	}
	if c.IsSet("name") {
		docs[0].Name = c.String("name")
	}

	results, err := pipeline.Ingest(c.Context, docs)
	if err != nil {
		return err
	}

	failed := 0
	for _, r := range results {
		if r.Err != nil {
			failed++
			fmt.Fprintf(c.App.Writer, "FAIL  %s (%s): %v\n", r.Name, r.Source, r.Err)
			continue
		}
		fmt.Fprintf(c.App.Writer, "ok    %s: %d entries\n", r.Name, len(r.EntryIDs))
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d profiles failed", failed, len(results))
	}
	return nil
}

func removeCommand(c *cli.Context) error {
	name, err := requireArg(c, "profile name")
	if err != nil {
		return err
	}
	engine, err := openEngine(c)
	if err != nil {
		return err
	}
	defer engine.Close()

	n, err := engine.RemoveProfile(c.Context, name)
	if err != nil {
		return err
	}
	fmt.Fprintf(c.App.Writer, "removed %d entries of %s\n", n, name)
	return nil
}

func searchCommand(c *cli.Context) error {
	query, err := requireArg(c, "query")
	if err != nil {
		return err
	}
	categories, err := core.ParseCategories(c.StringSlice("category"))
	if err != nil {
		return err
	}
	mode := core.SearchMode(c.String("mode"))
	if mode.Normalize() != mode {
		slog.Warn("unknown search mode, using hybrid", "mode", mode)
	}

	engine, err := openEngine(c)
	if err != nil {
		return err
	}
	defer engine.Close()

	results, err := engine.Search(c.Context, search.Request{
		Query:       query,
		ProfileName: c.String("profile"),
		Categories:  categories,
		TopK:        c.Int("top-k"),
		MinScore:    c.Float64("min-score"),
		Mode:        mode,
	})
	if err != nil {
		return err
	}
	if c.Bool("json") {
		return printJSON(c, results)
	}

	if len(results) == 0 {
		fmt.Fprintln(c.App.Writer, "no results")
		return nil
	}
	w := tabwriter.NewWriter(c.App.Writer, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSCORE\tSEMANTIC\tKEYWORD\tPROFILE\tCATEGORY\tTEXT")
	for _, r := range results {
		fmt.Fprintf(w, "%d\t%.3f\t%.3f\t%.3f\t%s\t%s\t%s\n",
			r.ID, r.Score, r.SemanticScore, r.KeywordScore, r.Meta.ProfileName, r.Meta.Category, preview(r.Text, 60))
	}
	return w.Flush()
}

func preview(text string, n int) string {
	runes := []rune(text)
	if len(runes) <= n {
		return text
	}
	return string(runes[:n]) + "…"
}

func getCommand(c *cli.Context) error {
	arg, err := requireArg(c, "entry id")
	if err != nil {
		return err
	}
	id, err := strconv.Atoi(arg)
	if err != nil {
		return fmt.Errorf("invalid entry id %q: %w", arg, err)
	}

	engine, err := openEngine(c)
	if err != nil {
		return err
	}
	defer engine.Close()

	entry, err := engine.GetEntryWithData(c.Context, id)
	if err != nil {
		return err
	}
	return printJSON(c, entry)
}

func statsCommand(c *cli.Context) error {
	engine, err := openEngine(c)
	if err != nil {
		return err
	}
	defer engine.Close()
	return printJSON(c, engine.Stats())
}

func summaryCommand(c *cli.Context) error {
	name, err := requireArg(c, "profile name")
	if err != nil {
		return err
	}
	engine, err := openEngine(c)
	if err != nil {
		return err
	}
	defer engine.Close()

	summary, err := engine.ProfileSummary(c.Context, name)
	if err != nil {
		return err
	}
	return printJSON(c, summary)
}

func contextCommand(c *cli.Context) error {
	name, err := requireArg(c, "profile name")
	if err != nil {
		return err
	}
	engine, err := openEngine(c)
	if err != nil {
		return err
	}
	defer engine.Close()

	agentCtx, err := engine.AgentContext(c.Context, name, c.String("agent"), c.String("task"))
	if err != nil {
		return err
	}
	return printJSON(c, agentCtx)
}

func compactCommand(c *cli.Context) error {
	engine, err := openEngine(c)
	if err != nil {
		return err
	}
	defer engine.Close()

	before := engine.Stats().Tombstones
	if err := engine.Compact(c.Context); err != nil {
		return err
	}
	fmt.Fprintf(c.App.Writer, "dropped %d entries, %d remain\n", before, engine.Stats().IndexSize)
	return nil
}

func reindexCommand(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	if c.IsSet("batch-size") {
		cfg.Reembed.BatchSize = c.Int("batch-size")
	}
	if c.IsSet("max-retries") {
		cfg.Reembed.MaxRetries = c.Int("max-retries")
	}
	if c.IsSet("retry-delay") {
		cfg.Reembed.RetryDelay = c.Duration("retry-delay").String()
	}
	if cfg.Reembed.BatchSize <= 0 {
		return errors.New("batch-size must be greater than 0")
	}
	if cfg.Reembed.MaxRetries <= 0 {
		return errors.New("max-retries must be greater than 0")
	}

	engine, err := cfg.Open(c.Context, profiledb.WithProgress(os.Stderr))
	if err != nil {
		return fmt.Errorf("failed to open index at %s: %w", cfg.Root, err)
	}
	defer engine.Close()

	fmt.Fprintf(os.Stderr, "Index: %s\n", cfg.Root)
	fmt.Fprintf(os.Stderr, "Embedding host: %s\n", cfg.AI.EmbeddingHost)
	fmt.Fprintf(os.Stderr, "Embedding model: %s\n", cfg.AI.EmbeddingModel)
	fmt.Fprintln(os.Stderr)

	if err := engine.Reindex(c.Context); err != nil {
		return fmt.Errorf("reindexing failed: %w", err)
	}
	fmt.Fprintf(c.App.Writer, "reindexed %d entries\n", engine.Stats().IndexSize)
	return nil
}

func serveCommand(c *cli.Context) error {
	engine, err := openEngine(c)
	if err != nil {
		return err
	}
	defer engine.Close()

	srv, err := mcpserver.NewServer(engine)
	if err != nil {
		return err
	}
	return srv.Serve(c.Context)
}
