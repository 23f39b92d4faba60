package main

import (
	"context"
	"fmt"
	"os"

	"pet-tag-lookup/internal/config"
	"pet-tag-lookup/internal/domain/tags"

	"github.com/spf13/cobra"
)

func tagsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tags",
		Short: "Seed tag IDs (admin)",
		Long: `Da de alta tags available. Los IDs que ya existen se saltan
sin modificarse, así que re-ejecutar un seed nunca libera un tag vinculado.`,
	}
	cmd.AddCommand(tagsCreateCmd(), tagsSeedCmd(), tagsRandomCmd())
	return cmd
}

func tagsCreateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "create ID [ID...]",
		Short: "Create tags with explicit IDs",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withTagService(cmd.Context(), func(ctx context.Context, svc *tags.Service) (tags.CreateResult, error) {
				var all tags.CreateResult
				for _, id := range args {
					res, err := svc.Create(ctx, id)
					if err != nil {
						return all, err
					}
					all.Created = append(all.Created, res.Created...)
					all.Skipped = append(all.Skipped, res.Skipped...)
				}
				return all, nil
			})
		},
	}
}

func tagsSeedCmd() *cobra.Command {
	var in tags.SequenceInput
	cmd := &cobra.Command{
		Use:     "seed",
		Short:   "Create a sequential batch ({prefix}{zero-padded number})",
		Example: "  api tags seed --prefix PET- --start 100 --count 10",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withTagService(cmd.Context(), func(ctx context.Context, svc *tags.Service) (tags.CreateResult, error) {
				return svc.CreateSequence(ctx, in)
			})
		},
	}
	cmd.Flags().StringVar(&in.Prefix, "prefix", "", "prefijo de los IDs")
	cmd.Flags().IntVar(&in.Start, "start", 1, "primer número")
	cmd.Flags().IntVar(&in.Count, "count", 10, "cantidad de tags")
	cmd.Flags().IntVar(&in.Pad, "pad", tags.DefaultPad, "dígitos con ceros a la izquierda")
	return cmd
}

func tagsRandomCmd() *cobra.Command {
	var count, length int
	cmd := &cobra.Command{
		Use:   "random",
		Short: "Create tags with random IDs (0-9A-Z)",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withTagService(cmd.Context(), func(ctx context.Context, svc *tags.Service) (tags.CreateResult, error) {
				return svc.CreateRandom(ctx, count, length)
			})
		},
	}
	cmd.Flags().IntVar(&count, "count", 10, "cantidad de tags")
	cmd.Flags().IntVar(&length, "length", tags.DefaultRandomLength, "largo del ID")
	return cmd
}

func withTagService(ctx context.Context, fn func(context.Context, *tags.Service) (tags.CreateResult, error)) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if cfg.DB.Driver == config.DriverMemory {
		fmt.Fprintln(os.Stderr, "warning: DB_DRIVER=memory, los tags no se persisten")
	}

	stores, closeStores, err := openStores(ctx, cfg.DB)
	if err != nil {
		return fmt.Errorf("open %s store: %w", cfg.DB.Driver, err)
	}
	defer closeStores()

	svc := tags.NewService(stores.Tags, stores.Pets)
	res, err := fn(ctx, svc)
	printCreateResult(res)
	return err
}

func printCreateResult(res tags.CreateResult) {
	for _, id := range res.Created {
		fmt.Printf("%s\t%s\n", id, tags.PublicURL(cfg.Public.BaseURL, id))
	}
	for _, id := range res.Skipped {
		fmt.Fprintf(os.Stderr, "skipped %s (already exists)\n", id)
	}
	fmt.Fprintf(os.Stderr, "created=%d skipped=%d\n", len(res.Created), len(res.Skipped))
}
