package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/SinArtur/Sstu-DB/api"
)

func newMaterialsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "materials",
		Aliases: []string{"m"},
		Short:   "Browse, rate, upload and download materials",
	}
	cmd.AddCommand(
		newMaterialsListCmd(a),
		newMaterialsShowCmd(a),
		newMaterialsRateCmd(a),
		newMaterialsCommentCmd(a),
		newMaterialsUploadCmd(a),
		newMaterialsDownloadCmd(a),
	)
	return cmd
}

func newMaterialsListCmd(a *app) *cobra.Command {
	var (
		f      api.MaterialFilter
		branch int64
		status string
	)
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List materials",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Flags().Changed("branch") {
				f.Branch = &branch
			}
			f.Status = api.Status(status)

			page, err := a.api.Materials.List(cmd.Context(), f)
			if err != nil {
				return err
			}
			printMaterials(a.stdout, page.Results)
			if page.HasNext() {
				fmt.Fprintf(a.stdout, "%d materials, more with --page %d\n", page.Count, max(f.Page, 1)+1)
			}
			return nil
		},
	}
	fl := cmd.Flags()
	fl.Int64VarP(&branch, "branch", "b", 0, "branch id")
	fl.BoolVar(&f.Mine, "mine", false, "only my materials")
	fl.StringVar(&status, "status", "", "pending, approved or rejected")
	fl.StringSliceVarP(&f.Tags, "tag", "t", nil, "filter by tag, repeatable")
	fl.StringVar(&f.FileType, "type", "", "file extension filter")
	fl.IntVar(&f.Page, "page", 0, "page number")
	return cmd
}

func printMaterials(w io.Writer, ms []api.Material) {
	if len(ms) == 0 {
		fmt.Fprintln(w, "No materials")
		return
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tRATING\tFILES\tSTATUS\tBRANCH\tDESCRIPTION")
	for _, m := range ms {
		fmt.Fprintf(tw, "%d\t%.1f\t%d\t%s\t%s\t%s\n",
			m.ID, float64(m.AverageRating), len(m.Files), m.Status, pathOr(m.BranchPath, m.BranchName), firstLine(m.Description))
	}
	_ = tw.Flush()
}

func newMaterialsShowCmd(a *app) *cobra.Command {
	var comments bool
	cmd := &cobra.Command{
		Use:   "show ID",
		Short: "Show a material with its files",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			mid, err := parseID(args[0])
			if err != nil {
				return err
			}

			m, err := a.api.Materials.Get(ctx, mid)
			if err != nil {
				return err
			}
			_ = a.api.Materials.View(ctx, mid)

			w := a.stdout
			fmt.Fprintf(w, "#%d  %s\n", m.ID, pathOr(m.BranchPath, m.BranchName))
			fmt.Fprintf(w, "author:  %s\n", pathOr(m.AuthorName, m.AuthorEmail))
			fmt.Fprintf(w, "status:  %s\n", roleLabel(m.StatusDisplay, string(m.Status)))
			fmt.Fprintf(w, "rating:  %.2f (%d votes)\n", float64(m.AverageRating), m.RatingsCount)
			fmt.Fprintf(w, "stats:   %d views, %d downloads\n", m.ViewsCount, m.DownloadsCount)
			if len(m.Tags) > 0 {
				names := make([]string, len(m.Tags))
				for i, t := range m.Tags {
					names[i] = t.Name
				}
				fmt.Fprintf(w, "tags:    %s\n", strings.Join(names, ", "))
			}
			if m.Description != "" {
				fmt.Fprintf(w, "\n%s\n", m.Description)
			}
			fmt.Fprintln(w)
			tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "FILE\tNAME\tSIZE\tCOMMENT")
			for _, f := range m.Files {
				fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", f.ID, f.OriginalName, humanSize(f.FileSize), f.Comment)
			}
			_ = tw.Flush()

			if !comments {
				return nil
			}
			list, err := a.api.Materials.Comments(ctx, mid)
			if err != nil {
				return err
			}
			fmt.Fprintln(w)
			printComments(w, list, 0)
			return nil
		},
	}
	cmd.Flags().BoolVarP(&comments, "comments", "c", false, "include comments")
	return cmd
}

func printComments(w io.Writer, list []api.Comment, depth int) {
	for _, c := range list {
		indent := strings.Repeat("  ", depth)
		text := c.Text
		if c.IsDeleted {
			text = "(deleted)"
		}
		fmt.Fprintf(w, "%s%s, %s: %s\n", indent, pathOr(c.AuthorName, c.AuthorEmail), c.CreatedAt.Local().Format(time.DateOnly), text)
		printComments(w, c.Replies, depth+1)
	}
}

func newMaterialsRateCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "rate ID VALUE",
		Short: "Rate a material from 1 to 5",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			mid, err := parseID(args[0])
			if err != nil {
				return err
			}
			value, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("rating %q: %w", args[1], api.ErrInvalidRating)
			}

			res, err := a.api.Materials.Rate(cmd.Context(), mid, value)
			if err != nil {
				return err
			}
			fmt.Fprintf(a.stdout, "Average rating %.2f from %d votes\n", float64(res.AverageRating), res.RatingsCount)
			return nil
		},
	}
}

func newMaterialsCommentCmd(a *app) *cobra.Command {
	var reply int64
	cmd := &cobra.Command{
		Use:   "comment ID TEXT...",
		Short: "Comment on a material",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			mid, err := parseID(args[0])
			if err != nil {
				return err
			}
			var parent *int64
			if cmd.Flags().Changed("reply") {
				parent = &reply
			}
			c, err := a.api.Materials.Comment(cmd.Context(), mid, strings.Join(args[1:], " "), parent)
			if err != nil {
				return err
			}
			fmt.Fprintf(a.stdout, "Comment #%d posted\n", c.ID)
			return nil
		},
	}
	cmd.Flags().Int64Var(&reply, "reply", 0, "id of the comment to reply to")
	return cmd
}

func newMaterialsUploadCmd(a *app) *cobra.Command {
	var (
		p        api.UploadParams
		comments []string
	)
	cmd := &cobra.Command{
		Use:   "upload FILE...",
		Short: "Upload files as a new material",
		Long:  "Upload files as a new material. The n-th --comment belongs to the n-th file.",
		Args:  cobra.RangeArgs(1, api.MaxUploadFiles),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(comments) > len(args) {
				return fmt.Errorf("%d comments for %d files", len(comments), len(args))
			}

			for i, path := range args {
				f, err := os.Open(path)
				if err != nil {
					return err
				}
				defer f.Close()

				uf := api.UploadFile{Name: filepath.Base(path), Content: f}
				if i < len(comments) {
					uf.Comment = comments[i]
				}
				p.Files = append(p.Files, uf)
			}

			m, err := a.api.Materials.Upload(cmd.Context(), p)
			if err != nil {
				return err
			}
			fmt.Fprintf(a.stdout, "Material #%d uploaded, status %s\n", m.ID, m.Status)
			return nil
		},
	}
	fl := cmd.Flags()
	fl.Int64VarP(&p.Branch, "branch", "b", 0, "branch id")
	fl.StringVarP(&p.Description, "description", "m", "", "material description")
	fl.StringSliceVarP(&p.Tags, "tag", "t", nil, "tag, repeatable")
	fl.StringArrayVarP(&comments, "comment", "c", nil, "file comment, repeatable")
	_ = cmd.MarkFlagRequired("branch")
	return cmd
}

func newMaterialsDownloadCmd(a *app) *cobra.Command {
	var dir string
	cmd := &cobra.Command{
		Use:   "download MATERIAL_ID [FILE_ID...]",
		Short: "Download files of a material",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			mid, err := parseID(args[0])
			if err != nil {
				return err
			}

			var ids []int64
			if len(args) > 1 {
				for _, s := range args[1:] {
					fid, err := parseID(s)
					if err != nil {
						return err
					}
					ids = append(ids, fid)
				}
			} else {
				m, err := a.api.Materials.Get(ctx, mid)
				if err != nil {
					return err
				}
				for _, f := range m.Files {
					ids = append(ids, f.ID)
				}
			}

			for _, fid := range ids {
				path, err := downloadOne(cmd, a, mid, fid, dir)
				if err != nil {
					return err
				}
				fmt.Fprintln(a.stdout, path)
			}
			return a.api.Materials.Download(ctx, mid)
		},
	}
	cmd.Flags().StringVarP(&dir, "output", "o", ".", "target directory")
	return cmd
}

// downloadOne writes a file to a temporary name and renames it to the name
// the server announces once complete.
func downloadOne(cmd *cobra.Command, a *app, mid, fid int64, dir string) (string, error) {
	tmp, err := os.CreateTemp(dir, ".sstu-download-*")
	if err != nil {
		return "", err
	}
	defer os.Remove(tmp.Name())

	name, err := a.api.Materials.DownloadFile(cmd.Context(), mid, fid, tmp)
	if cerr := tmp.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return "", err
	}

	name = filepath.Base(name)
	if name == "." || name == string(filepath.Separator) || name == "" {
		name = fmt.Sprintf("material-%d-file-%d", mid, fid)
	}
	target := filepath.Join(dir, name)
	if err := os.Rename(tmp.Name(), target); err != nil {
		return "", err
	}
	return target, nil
}

var errInvalidID = errors.New("invalid id")

func parseID(s string) (int64, error) {
	v, err := strconv.ParseInt(strings.TrimPrefix(s, "#"), 10, 64)
	if err != nil || v <= 0 {
		return 0, fmt.Errorf("%w: %q", errInvalidID, s)
	}
	return v, nil
}

func humanSize(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGT"[exp])
}
