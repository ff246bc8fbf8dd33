package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/hupe1980/fastsets"
)

// ApplyResult holds the images of all document sets.
type ApplyResult struct {
	Sets []SetImage `json:"sets"`
}

// SetImage is one set and its image.
type SetImage struct {
	Name    string   `json:"name"`
	Members []string `json:"members"`
	Image   []string `json:"image"`
}

func (r ApplyResult) String() string {
	var sb strings.Builder
	for _, s := range r.Sets {
		sb.WriteString(s.Name)
		sb.WriteString(": {")
		sb.WriteString(strings.Join(s.Members, ", "))
		sb.WriteString("} -> {")
		sb.WriteString(strings.Join(s.Image, ", "))
		sb.WriteString("}\n")
	}
	return sb.String()
}

// NewApplyCommand creates the apply command.
func NewApplyCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "apply <file>",
		Short: "Print the image of every set in a document",
		Long: `Build a transform from the document mapping and print the image of
every set listed in the document.

Each mapping entry is evaluated exactly once, in element order.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runApply(rootOpts, args[0], cmd)
		},
	}

	return cmd
}

func runApply(opts *RootOptions, path string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format: opts.Format,
		Writer: cmd.OutOrStdout(),
	}

	doc, err := LoadDocument(path)
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeLoad, "load document", err)
	}
	model, err := doc.Build()
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeDocument, "build domain", err)
	}

	sets := make([]*fastsets.Set[string], len(doc.Sets))
	for i, ns := range doc.Sets {
		if sets[i], err = model.Set(ns); err != nil {
			return formatter.Fail(ExitCommandError, ErrCodeDocument, "resolve sets", err)
		}
	}

	tr, err := model.Transform(fastsets.WithLogger(opts.logger(cmd)))
	if err != nil {
		return formatter.Fail(ExitFailure, ErrCodeTransform, "build transform", err)
	}
	defer tr.Close()

	images, err := tr.ApplyAll(cmd.Context(), sets)
	if err != nil {
		return formatter.Fail(ExitFailure, ErrCodeApply, "apply transform", err)
	}

	result := ApplyResult{Sets: make([]SetImage, len(sets))}
	for i, ns := range doc.Sets {
		result.Sets[i] = SetImage{
			Name:    ns.Name,
			Members: names(sets[i]),
			Image:   names(images[i]),
		}
	}
	return formatter.Success(result)
}

func names(s *fastsets.Set[string]) []string {
	out := make([]string, 0, s.Len())
	for m := range s.Members() {
		out = append(out, m.Value())
	}
	return out
}
