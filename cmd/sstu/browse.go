package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/text/language"

	"github.com/SinArtur/Sstu-DB/api"
)

func newTreeCmd(a *app) *cobra.Command {
	var (
		lang    string
		depth   int
		pending bool
	)
	cmd := &cobra.Command{
		Use:   "tree",
		Short: "Print the branch tree",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			tag, err := language.Parse(lang)
			if err != nil {
				return fmt.Errorf("--lang: %w", err)
			}

			nodes, err := a.api.Branches.Tree(cmd.Context())
			if err != nil {
				return err
			}
			api.SortTree(nodes, tag)

			api.Walk(nodes, func(n api.TreeNode, d int) bool {
				line := strings.Repeat("  ", d) + n.Name
				if n.MaterialsCount > 0 {
					line += fmt.Sprintf(" (%d)", n.MaterialsCount)
				}
				if pending && n.Status != api.StatusApproved && n.Status != "" {
					line += " [" + string(n.Status) + "]"
				}
				fmt.Fprintf(a.stdout, "%s  #%d\n", line, n.ID)
				return depth == 0 || d+1 < depth
			})
			return nil
		},
	}
	cmd.Flags().StringVar(&lang, "lang", "ru", "collation language")
	cmd.Flags().IntVarP(&depth, "depth", "d", 0, "maximum depth, 0 for all")
	cmd.Flags().BoolVar(&pending, "status", false, "mark branches that are not approved")
	return cmd
}

func newSearchCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "search QUERY",
		Short: "Search branches, materials and files",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := a.api.Branches.Search(cmd.Context(), strings.Join(args, " "))
			if err != nil {
				return err
			}
			if len(res.Branches)+len(res.Materials)+len(res.Files) == 0 {
				fmt.Fprintln(a.stdout, "Nothing found")
				return nil
			}
			for _, b := range res.Branches {
				fmt.Fprintf(a.stdout, "branch   #%d  %s\n", b.ID, pathOr(b.FullPath, b.Name))
			}
			for _, m := range res.Materials {
				fmt.Fprintf(a.stdout, "material #%d  %s  %s\n", m.ID, m.BranchPath, firstLine(m.Description))
			}
			for _, f := range res.Files {
				fmt.Fprintf(a.stdout, "file     #%d  %s  (material #%d, %s)\n", f.ID, f.OriginalName, f.MaterialID, f.BranchPath)
			}
			return nil
		},
	}
}

func pathOr(path, name string) string {
	if path != "" {
		return path
	}
	return name
}

func firstLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i]
	}
	const limit = 60
	if r := []rune(s); len(r) > limit {
		s = string(r[:limit-1]) + "…"
	}
	return s
}
