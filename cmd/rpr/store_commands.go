package main

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"recipepress/comments"
	"recipepress/db"
	"recipepress/globals"
	"recipepress/logging"
	"recipepress/media"
	"recipepress/metadata"
	"recipepress/mq"
	"recipepress/posts"
	"recipepress/ratings"
	"recipepress/schema"
	"recipepress/settings"
	"recipepress/terms"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func connect(ctx context.Context) (func(), error) {
	if err := db.Connect(ctx, globals.MongoURI, globals.MongoDB); err != nil {
		return nil, err
	}
	return func() {
		if err := db.Disconnect(context.Background()); err != nil {
			logging.L().Warn("disconnect mongo", zap.Error(err))
		}
	}, nil
}

func recipeArg(args []string) (int64, error) {
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid recipe id %q", args[0])
	}
	return id, nil
}

func newSchemaCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "schema <recipe-id>",
		Short: "Print the JSON-LD document of a stored recipe",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			id, err := recipeArg(args)
			if err != nil {
				return err
			}
			closeDB, err := connect(ctx)
			if err != nil {
				return err
			}
			defer closeDB()

			asm := &schema.Assembler{
				Opts:     settings.Load(ctx, settings.NewMongoStore(db.OptionsCollection), globals.SiteURL),
				Posts:    posts.NewMongoStore(db.PostsCollection),
				Meta:     metadata.NewMongoStore(db.PostMetaCollection),
				Terms:    terms.NewMongoStore(db.TermsCollection, db.TermRelationsCollection),
				Media:    media.NewMongoStore(db.MediaCollection),
				Comments: comments.NewMongoStore(db.CommentsCollection),
			}
			s, err := asm.GetSchema(ctx, id)
			if err != nil {
				return err
			}
			if s == nil {
				return fmt.Errorf("recipe %d has no metadata", id)
			}
			b, err := schema.Marshal(s)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(b))
			return nil
		},
	}
}

func newMetaCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "meta <recipe-id>",
		Short: "List the stored rpr_ meta of a recipe",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			id, err := recipeArg(args)
			if err != nil {
				return err
			}
			closeDB, err := connect(ctx)
			if err != nil {
				return err
			}
			defer closeDB()

			raw, err := metadata.NewMongoStore(db.PostMetaCollection).AllMeta(ctx, id)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), metaTable(raw))
			return nil
		},
	}
}

// metaTable lists the rpr_ keys sorted, with long values cut.
func metaTable(raw map[string]string) string {
	keys := make([]string, 0, len(raw))
	for k := range raw {
		if strings.HasPrefix(k, metadata.Prefix) {
			keys = append(keys, k)
		}
	}
	if len(keys) == 0 {
		return "No recipe meta"
	}
	sort.Strings(keys)

	rows := make([][]string, 0, len(keys))
	for _, k := range keys {
		v := raw[k]
		if len(v) > 120 {
			v = v[:117] + "..."
		}
		rows = append(rows, []string{k, v})
	}
	return renderTable([]string{"Key", "Value"}, rows, nil)
}

func newRatingsCommand() *cobra.Command {
	var refresh bool

	cmd := &cobra.Command{
		Use:   "ratings <recipe-id>",
		Short: "Show rating stats of a recipe",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			id, err := recipeArg(args)
			if err != nil {
				return err
			}
			closeDB, err := connect(ctx)
			if err != nil {
				return err
			}
			defer closeDB()

			svc := ratings.NewService(
				comments.NewMongoStore(db.CommentsCollection),
				metadata.NewMongoStore(db.PostMetaCollection),
				mq.Nop{},
			)
			var st ratings.Stats
			if refresh {
				st, err = svc.Refresh(ctx, id)
			} else {
				st, err = svc.Stats(ctx, id)
			}
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), statsTable(st))
			return nil
		},
	}
	cmd.Flags().BoolVar(&refresh, "refresh", false, "Also rewrite the stored rating count and average")
	return cmd
}

func statsTable(st ratings.Stats) string {
	rows := [][]string{
		{"count", strconv.Itoa(st.Count)},
		{"avg", strconv.FormatFloat(st.Avg, 'f', 1, 64)},
		{"min", strconv.Itoa(st.Min)},
		{"max", strconv.Itoa(st.Max)},
	}
	return renderTable([]string{"Query", "Value"}, rows, []columnAlignment{alignLeft, alignRight})
}
