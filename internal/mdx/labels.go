package mdx

// admonitionLabels maps admonition node kinds to their default display
// labels. Callers localize through Options.Labels.
var admonitionLabels = map[string]string{
	"attention": "Attention",
	"caution":   "Caution",
	"danger":    "Danger",
	"error":     "Error",
	"hint":      "Hint",
	"important": "Important",
	"note":      "Note",
	"tip":       "Tip",
	"warning":   "Warning",
	"seealso":   "See also",
}
