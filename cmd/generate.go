package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/mcqquiz/internal/generator"
	"github.com/abhisek/mcqquiz/internal/source"
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a question module with an LLM and save it locally",
	RunE: func(cmd *cobra.Command, args []string) error {
		topic, _ := cmd.Flags().GetString("topic")
		level, _ := cmd.Flags().GetString("level")
		count, _ := cmd.Flags().GetInt("count")
		provider, _ := cmd.Flags().GetString("provider")
		model, _ := cmd.Flags().GetString("model")

		rt, err := open(cmd, cmd.ErrOrStderr())
		if err != nil {
			return err
		}
		defer rt.Close()

		if count == 0 {
			count = rt.cfg.LLM.Questions
		}

		gen, err := newGenerator(cmd.Context(), rt, provider, model)
		if err != nil {
			return err
		}

		mod, err := gen.Generate(cmd.Context(), generator.Input{Topic: topic, Level: level, Count: count})
		if err != nil {
			return fmt.Errorf("generate module: %w", err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Saved %q (%d questions) as %s\n",
			mod.Title, len(mod.Questions), source.LocalReference(mod.ID))
		return nil
	},
}

func init() {
	generateCmd.Flags().String("topic", "", "Topic to write questions about")
	generateCmd.Flags().String("level", "", "Audience or difficulty, e.g. beginner")
	generateCmd.Flags().Int("count", 0, "Number of questions (defaults to llm.questions)")
	generateCmd.Flags().String("provider", "", "LLM provider: anthropic, openai, gemini, openrouter, mock")
	generateCmd.Flags().String("model", "", "Model name for the selected provider")
	_ = generateCmd.MarkFlagRequired("topic")
}
