package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hupe1980/fastsets"
)

// ValidateResult summarizes a document whose transform could be built.
type ValidateResult struct {
	Domain   string `json:"domain"`
	Elements int    `json:"elements"`
	Holes    int    `json:"holes"`
	Mapped   int    `json:"mapped"`
}

func (r ValidateResult) String() string {
	return fmt.Sprintf("ok: domain %s: %d elements, %d holes, %d mapped\n", r.Domain, r.Elements, r.Holes, r.Mapped)
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <file>",
		Short: "Check that a document describes a valid transform",
		Long: `Load the document and build its transform without applying it.

Fails if an element has no image, an image names an unknown or removed
element, or a set refers to an unknown element.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, args[0], cmd)
		},
	}

	return cmd
}

func runValidate(opts *RootOptions, path string, cmd *cobra.Command) error {
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
	for _, ns := range doc.Sets {
		if _, err := model.Set(ns); err != nil {
			return formatter.Fail(ExitCommandError, ErrCodeDocument, "resolve sets", err)
		}
	}

	tr, err := model.Transform(fastsets.WithLogger(opts.logger(cmd)))
	if err != nil {
		return formatter.Fail(ExitFailure, ErrCodeTransform, "build transform", err)
	}
	defer tr.Close()

	return formatter.Success(ValidateResult{
		Domain:   model.Domain.Name(),
		Elements: model.Domain.Len(),
		Holes:    len(model.Domain.Holes()),
		Mapped:   tr.Mapped(),
	})
}
