package pprint

import "fmt"

// PrintBanner prints the apiprobe banner with version and tagline.
func (p *Printer) PrintBanner(version, buildDate string) {
	fmt.Fprintln(p.out)
	fmt.Fprintln(p.out, p.primary.Render("  ┌─┐┌─┐┬┌─┐┬─┐┌─┐┌┐ ┌─┐"))
	fmt.Fprintln(p.out, p.accent.Render("  ├─┤├─┘│├─┘├┬┘│ │├┴┐├┤ "))
	fmt.Fprintln(p.out, p.muted.Render("  ┴ ┴┴  ┴┴  ┴└─└─┘└─┘└─┘"))
	fmt.Fprintln(p.out)

	versionStr := p.accent.Render("  " + version)
	if buildDate != "" {
		versionStr += p.muted.Render("  built " + buildDate)
	}

	fmt.Fprintln(p.out, p.muted.Render("  Smoke tests for the diagnostic analysis API"))
	fmt.Fprintln(p.out, versionStr)
	fmt.Fprintln(p.out)
}

