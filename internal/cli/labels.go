package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

func newLabelsCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "labels <assetid>",
		Short: "List recognition labels for one image",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			assetID, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid assetid %q: %w", args[0], err)
			}
			c, err := root.newClient()
			if err != nil {
				return err
			}
			labels, err := c.ImageLabels(cmd.Context(), assetID)
			if err != nil {
				return err
			}
			for _, l := range labels {
				fmt.Fprintf(cmd.OutOrStdout(), "label=%s confidence=%d\n", l.Label, l.Confidence)
			}
			return nil
		},
	}
}

func newSearchCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "search <label>",
		Short: "Find images carrying a recognition label",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := root.newClient()
			if err != nil {
				return err
			}
			hits, err := c.ImagesWithLabel(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			for _, h := range hits {
				fmt.Fprintf(cmd.OutOrStdout(), "assetid=%d label=%s confidence=%d\n",
					h.AssetID, h.Label, h.Confidence)
			}
			return nil
		},
	}
}

func newDeleteAllCmd(root *rootOptions) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "delete-all",
		Short: "Delete every image and its labels from the web service",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				return fmt.Errorf("refusing to delete all images without --yes")
			}
			c, err := root.newClient()
			if err != nil {
				return err
			}
			if err := c.DeleteImages(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "all images deleted")
			return nil
		},
	}
	cmd.Flags().BoolVar(&yes, "yes", false, "confirm the deletion")
	return cmd
}
