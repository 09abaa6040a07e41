package commands

import (
	"context"
	"fmt"

	"github.com/fivetwenty-io/fqb/pkg/fqb"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func addQueryFlags(cmd *cobra.Command, opts *queryOptions) {
	cmd.Flags().StringSliceVarP(&opts.fields, "fields", "f", nil, "fields to request, comma separated")
	cmd.Flags().IntVarP(&opts.limit, "limit", "l", 0, "maximum number of results")
	cmd.Flags().StringArrayVarP(&opts.edges, "edge", "e", nil, "nested edge as name[:limit][:field,field] (repeatable)")
}

// NewGetCommand creates the get command.
func NewGetCommand() *cobra.Command {
	var opts queryOptions

	cmd := &cobra.Command{
		Use:   "get NODE",
		Short: "Read a node or edge",
		Long:  "Send a GET request for a node or edge, e.g. 'fqb get me -f id,name -e photos:5:source'",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			conn, err := createConnection()
			if err != nil {
				return err
			}

			query, err := buildQuery(fqb.New(conn), args[0], opts)
			if err != nil {
				return err
			}

			response, err := query.Get(context.Background())
			if err != nil {
				return fmt.Errorf("failed to get %s: %w", args[0], err)
			}

			return outputResponse(cmd.OutOrStdout(), response, viper.GetString("output"))
		},
	}

	addQueryFlags(cmd, &opts)

	return cmd
}

// NewPostCommand creates the post command.
func NewPostCommand() *cobra.Command {
	var pairs []string

	cmd := &cobra.Command{
		Use:   "post NODE",
		Short: "Publish to a node or edge",
		Long:  "Send a POST request with key=value data, e.g. 'fqb post me/feed -d message=Hello'",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := parseDataPairs(pairs)
			if err != nil {
				return err
			}

			conn, err := createConnection()
			if err != nil {
				return err
			}

			response, err := fqb.New(conn).Object(args[0]).With(data).Post(context.Background())
			if err != nil {
				return fmt.Errorf("failed to post to %s: %w", args[0], err)
			}

			return outputResponse(cmd.OutOrStdout(), response, viper.GetString("output"))
		},
	}

	cmd.Flags().StringArrayVarP(&pairs, "data", "d", nil, "request data as key=value (repeatable)")

	return cmd
}

// NewDeleteCommand creates the delete command.
func NewDeleteCommand() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "delete NODE",
		Short: "Delete a node",
		Long:  "Send a DELETE request for a node, e.g. 'fqb delete 1234_5678 --force'",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !force {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Really delete %s? Use --force to confirm\n", args[0])

				return nil
			}

			conn, err := createConnection()
			if err != nil {
				return err
			}

			response, err := fqb.New(conn).Object(args[0]).Delete(context.Background())
			if err != nil {
				return fmt.Errorf("failed to delete %s: %w", args[0], err)
			}

			return outputResponse(cmd.OutOrStdout(), response, viper.GetString("output"))
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "delete without confirmation")

	return cmd
}

// NewURLCommand creates the url command.
func NewURLCommand() *cobra.Command {
	var opts queryOptions

	cmd := &cobra.Command{
		Use:   "url NODE",
		Short: "Print the compiled request path",
		Long:  "Compile the query flags into a Graph API path without sending a request",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			query, err := buildQuery(fqb.New(nil), args[0], opts)
			if err != nil {
				return err
			}

			_, err = fmt.Fprintln(cmd.OutOrStdout(), query.QueryURL())

			return err
		},
	}

	addQueryFlags(cmd, &opts)

	return cmd
}
