package main

import (
	"fmt"

	"recipepress/render"
	"recipepress/schema"

	"github.com/spf13/cobra"
)

func newRenderCommand() *cobra.Command {
	var (
		file    string
		section string
		format  string
	)

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render a recipe fixture to HTML or JSON-LD",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			f, err := readFixture(file)
			if err != nil {
				return err
			}
			o, err := f.load(ctx)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			switch format {
			case "schema":
				s, err := o.assembler.GetSchema(ctx, o.post.ID)
				if err != nil {
					return err
				}
				b, err := schema.Marshal(s)
				if err != nil {
					return err
				}
				fmt.Fprintln(out, string(b))
				return nil
			case "html", "page":
			default:
				return fmt.Errorf("unknown format %q (want html, page or schema)", format)
			}

			if section != "" && !render.HasSection(section) {
				return fmt.Errorf("unknown section %q", section)
			}
			rec, err := o.recipe(ctx)
			if err != nil {
				return err
			}
			if format == "page" {
				s, err := o.assembler.GetSchema(ctx, o.post.ID)
				if err != nil {
					return err
				}
				b, err := schema.Marshal(s)
				if err != nil {
					return err
				}
				return o.renderer().Page(ctx, out, rec, b)
			}
			if err := o.renderer().RenderTo(ctx, out, rec, section); err != nil {
				return err
			}
			fmt.Fprintln(out)
			return nil
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "Recipe fixture (JSON)")
	cmd.Flags().StringVarP(&section, "section", "s", "", "Render a single section")
	cmd.Flags().StringVar(&format, "format", "html", "Output format: html, page or schema")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}
