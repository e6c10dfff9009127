package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

func newImagesCmd(root *rootOptions) *cobra.Command {
	var userID int64
	cmd := &cobra.Command{
		Use:   "images",
		Short: "List image metadata, optionally for one user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := root.newClient()
			if err != nil {
				return err
			}
			images, err := c.Images(cmd.Context(), userID)
			if err != nil {
				return err
			}
			for _, img := range images {
				fmt.Fprintf(cmd.OutOrStdout(), "assetid=%d userid=%d localname=%s bucketkey=%s\n",
					img.AssetID, img.UserID, img.LocalName, img.BucketKey)
			}
			return nil
		},
	}
	cmd.Flags().Int64Var(&userID, "userid", 0, "only list images owned by this user")
	return cmd
}

func newUploadCmd(root *rootOptions) *cobra.Command {
	var userID int64
	cmd := &cobra.Command{
		Use:   "upload <file>",
		Short: "Upload a local image file for a user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if userID <= 0 {
				return fmt.Errorf("missing user: use --userid")
			}
			c, err := root.newClient()
			if err != nil {
				return err
			}
			assetID, err := c.UploadImage(cmd.Context(), userID, args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "assetid=%d\n", assetID)
			return nil
		},
	}
	cmd.Flags().Int64Var(&userID, "userid", 0, "owner of the uploaded image")
	return cmd
}

func newDownloadCmd(root *rootOptions) *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "download <assetid>",
		Short: "Download an image to a local file",
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
			name, err := c.DownloadImage(cmd.Context(), assetID, output)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", name)
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "local filename, defaults to the server-side name")
	return cmd
}
