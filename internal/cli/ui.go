package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/pylinks/pkg/linksource"
)

// =============================================================================
// Color Palette
// =============================================================================

var (
	colorCyan   = lipgloss.Color("36")  // Teal - headings
	colorGreen  = lipgloss.Color("35")  // Green - success
	colorYellow = lipgloss.Color("220") // Amber - yanked releases
	colorBlue   = lipgloss.Color("75")  // Light blue - links
	colorWhite  = lipgloss.Color("255") // Bright white - values
	colorGray   = lipgloss.Color("245") // Gray - secondary text
	colorDim    = lipgloss.Color("240") // Dim gray - muted text
)

// =============================================================================
// Styles
// =============================================================================

var (
	// StyleTitle for index headings.
	StyleTitle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)

	// StyleLink for URLs.
	StyleLink = lipgloss.NewStyle().Foreground(colorBlue)

	// StyleDim for secondary/muted text.
	StyleDim = lipgloss.NewStyle().Foreground(colorDim)

	// StyleValue for data values.
	StyleValue = lipgloss.NewStyle().Foreground(colorWhite)

	// StyleWarning for yanked releases.
	StyleWarning = lipgloss.NewStyle().Foreground(colorYellow)

	styleIconSuccess = lipgloss.NewStyle().Foreground(colorGreen)
	styleIconInfo    = lipgloss.NewStyle().Foreground(colorGray)
	styleIconSpinner = lipgloss.NewStyle().Foreground(colorCyan)
	styleKey         = lipgloss.NewStyle().Foreground(colorGray)
)

// =============================================================================
// Icons
// =============================================================================

const (
	iconSuccess = "✓"
	iconInfo    = "›"
	iconArrow   = "→"
	iconYanked  = "!"
)

// =============================================================================
// Status Output
// =============================================================================

func printSuccess(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, styleIconSuccess.Render(iconSuccess)+" "+fmt.Sprintf(format, args...))
}

func printInfo(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, styleIconInfo.Render(iconInfo)+" "+fmt.Sprintf(format, args...))
}

// printDetail prints an indented, dimmed line.
func printDetail(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, "  "+StyleDim.Render(fmt.Sprintf(format, args...)))
}

func printKeyValue(w io.Writer, key, value string) {
	fmt.Fprintln(w, styleKey.Render(fmt.Sprintf("%-16s", key))+" "+StyleValue.Render(value))
}

// =============================================================================
// Index Output
// =============================================================================

// printIndexHeader prints the heading that precedes one index's results.
func printIndexHeader(w io.Writer, name, url string) {
	fmt.Fprintln(w, StyleTitle.Render(name)+" "+StyleDim.Render(url))
}

// printEmpty notes that an index returned nothing for the query.
func printEmpty(w io.Writer, what string) {
	printDetail(w, "no %s", what)
}

func printVersion(w io.Writer, version string, yank linksource.Yank) {
	line := "  " + StyleValue.Render(version)
	if yank.IsYanked() {
		line += " " + StyleWarning.Render(iconYanked+" "+yankLabel(yank))
	}
	fmt.Fprintln(w, line)
}

func printLink(w io.Writer, link linksource.Link) {
	fmt.Fprintln(w, "  "+StyleDim.Render(iconArrow)+" "+StyleLink.Render(link.URL()))

	var parts []string
	if rp := link.RequiresPython(); rp != "" {
		parts = append(parts, "requires-python "+rp)
	}
	if algo, digest, ok := link.Hash(); ok {
		parts = append(parts, algo+" "+digest)
	}
	if link.IsYanked() {
		parts = append(parts, StyleWarning.Render(yankLabel(link.Yank())))
	}
	if len(parts) > 0 {
		fmt.Fprintln(w, "    "+strings.Join(parts, StyleDim.Render(" · ")))
	}
}

func printPackage(w io.Writer, pkg linksource.Package) {
	fmt.Fprintln(w, "  "+StyleValue.Render(pkg.Name+" "+pkg.Version.String())+" "+StyleDim.Render(pkg.SourceURL))
}

// yankLabel renders a yank for display; multi-line reasons are flattened.
func yankLabel(y linksource.Yank) string {
	if r := y.Reason(); r != "" {
		return "yanked: " + strings.ReplaceAll(r, "\n", "; ")
	}
	if y.IsYanked() {
		return "yanked"
	}
	return "not yanked"
}
