package cli

import (
	"io"

	pep440 "github.com/aquasecurity/go-pep440-version"
	"github.com/spf13/cobra"

	"github.com/matzehuels/pylinks/pkg/errors"
	"github.com/matzehuels/pylinks/pkg/linksource"
)

// versionsCommand lists the distinct versions of a project.
func (c *CLI) versionsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "versions <project>",
		Short: "List the versions of a project on each index",
		Long: `List every distinct version of a project, in the order each index publishes them.

Examples:
  pylinks versions requests
  pylinks versions my-lib --index https://pypi.org/simple/ --index https://example.com/simple/
  pylinks versions foo --page ./foo.html --base-url https://example.com/files/`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			project := args[0]
			listings, err := c.listings(cmd.Context(), project)
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			for _, l := range listings {
				if !printListingHeader(w, l) {
					continue
				}
				n := 0
				for v := range l.source.Versions(project) {
					printVersion(w, v.String(), l.source.Yanked(project, v))
					n++
				}
				if n == 0 {
					printEmpty(w, "versions")
				}
			}
			return nil
		},
	}
}

// linksCommand lists the files of one release.
func (c *CLI) linksCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "links <project> <version>",
		Short: "List the distribution files of a release",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			project := args[0]
			v, err := parseVersion(args[1])
			if err != nil {
				return err
			}
			listings, err := c.listings(cmd.Context(), project)
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			for _, l := range listings {
				if !printListingHeader(w, l) {
					continue
				}
				links := l.source.LinksForVersion(project, v)
				for _, link := range links {
					printLink(w, link)
				}
				if len(links) == 0 {
					printEmpty(w, "files for "+v.String())
				}
			}
			return nil
		},
	}
}

// yankedCommand reports whether a release is yanked.
func (c *CLI) yankedCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "yanked <project> <version>",
		Short: "Report whether a release is yanked",
		Long: `Report whether a release is yanked.

A release is yanked only when every one of its files is yanked. The reasons
given by the individual files are listed once each.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			project := args[0]
			v, err := parseVersion(args[1])
			if err != nil {
				return err
			}
			listings, err := c.listings(cmd.Context(), project)
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			for _, l := range listings {
				if !printListingHeader(w, l) {
					continue
				}
				if len(l.source.LinksForVersion(project, v)) == 0 {
					printEmpty(w, "files for "+v.String())
					continue
				}
				y := l.source.Yanked(project, v)
				printVersion(w, v.String(), y)
				if !y.IsYanked() {
					printSuccess(w, "%s %s is not yanked", linksource.Canonicalize(project), v)
				}
			}
			return nil
		},
	}
}

// packagesCommand lists every resolvable file as a (name, version, url) row.
func (c *CLI) packagesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "packages [project]",
		Short: "List every package resolved from the links of a listing",
		Long: `List every package resolved from the links of a listing.

With --page the project is optional and filters the page; without it the
project's page is fetched from each index.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var project string
			if len(args) == 1 {
				project = args[0]
			}
			listings, err := c.listings(cmd.Context(), project)
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			for _, l := range listings {
				if !printListingHeader(w, l) {
					continue
				}
				n := 0
				for pkg := range l.source.Packages() {
					if project != "" && pkg.Name != linksource.Canonicalize(project) {
						continue
					}
					printPackage(w, pkg)
					n++
				}
				if n == 0 {
					printEmpty(w, "packages")
				}
				if idx := l.source.Links(); idx.SkippedTotal() > 0 {
					printDetail(w, "%d link(s) skipped", idx.SkippedTotal())
				}
			}
			return nil
		},
	}
}

// printListingHeader prints the heading for l and reports whether it has a
// source to query.
func printListingHeader(w io.Writer, l listing) bool {
	printIndexHeader(w, l.name, l.url)
	if l.source == nil {
		printInfo(w, "project not found")
		return false
	}
	return true
}

func parseVersion(s string) (pep440.Version, error) {
	v, err := pep440.Parse(s)
	if err != nil {
		return pep440.Version{}, errors.Wrap(errors.ErrCodeInvalidVersion, err, "invalid version %q", s)
	}
	return v, nil
}
