package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/af-corp/draftgen/internal/app"
	"github.com/af-corp/draftgen/internal/config"
	"github.com/af-corp/draftgen/internal/invoker/adapters"
	"github.com/af-corp/draftgen/internal/types"
)

func newRootCmd() *cobra.Command {
	var (
		configDir string
		verbose   bool
	)

	root := &cobra.Command{
		Use:           "draftctl",
		Short:         "Generate political blog drafts without the HTTP server",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			level := slog.LevelWarn
			if verbose {
				level = slog.LevelDebug
			}
			slog.SetDefault(slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level})))
		},
	}
	root.PersistentFlags().StringVar(&configDir, "config", "configs", "path to configuration directory")
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log pipeline stages to stderr")

	root.AddCommand(newGenerateCmd(&configDir), newCategoriesCmd())
	return root
}

type generateFlags struct {
	req     types.GenerationRequest
	mock    bool
	timeout time.Duration
}

func newGenerateCmd(configDir *string) *cobra.Command {
	var f generateFlags

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate up to three drafts and print them as JSON",
		Example: `  draftctl generate --name 홍길동 --position 국회의원 --region-metro 서울시 \
    --region-local 강남구 --prompt "신년 인사말" --category 일반 --mock`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runGenerate(cmd.Context(), cmd.OutOrStdout(), *configDir, f)
		},
	}

	fl := cmd.Flags()
	fl.StringVar(&f.req.Profile.Name, "name", "", "writer name")
	fl.StringVar(&f.req.Profile.Position, "position", "", "writer position, e.g. 국회의원")
	fl.StringVar(&f.req.Profile.RegionMetro, "region-metro", "", "metropolitan region")
	fl.StringVar(&f.req.Profile.RegionLocal, "region-local", "", "local region")
	fl.StringVar(&f.req.Profile.ElectoralDistrict, "district", "", "electoral district")
	fl.StringVar(&f.req.Prompt, "prompt", "", "topic to write about")
	fl.StringVar(&f.req.Keywords, "keywords", "", "comma-separated keywords")
	fl.StringVar(&f.req.Category, "category", "", "category (see 'draftctl categories')")
	fl.StringVar(&f.req.SubCategory, "sub-category", "", "sub-category of the category")
	fl.BoolVar(&f.mock, "mock", false, "answer with the built-in exemplar instead of calling a provider")
	fl.DurationVar(&f.timeout, "timeout", 3*time.Minute, "overall deadline for the generation")
	_ = cmd.MarkFlagRequired("prompt")

	return cmd
}

func runGenerate(ctx context.Context, out io.Writer, configDir string, f generateFlags) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	loader := config.NewLoader(configDir, slog.Default())
	if err := loader.Load(); err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}

	var opts app.Options
	if f.mock {
		opts.Generator = adapters.NewMock()
	}
	a, err := app.Build(ctx, loader, nil, opts)
	if err != nil {
		return err
	}

	req := f.req
	req.RequestID = "cli_" + uuid.NewString()
	req.CallerID = "draftctl"

	result, err := a.Pipeline.Generate(ctx, req)
	if err != nil {
		return err
	}
	return writeJSON(out, result)
}

func newCategoriesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "categories",
		Short: "List categories and their sub-categories",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return writeJSON(cmd.OutOrStdout(), types.Categories())
		},
	}
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}
