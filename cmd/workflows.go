package cmd

import (
	"fmt"
	"strings"

	"reposcope/agent"
	"reposcope/llm"
	"reposcope/resilience"

	"github.com/spf13/cobra"
)

var (
	targetLanguage string
	streamOutput   bool
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze [question]",
	Short: "Analyze the repository, optionally answering a question",
	RunE: func(cmd *cobra.Command, args []string) error {
		eng, err := setupWithRepo()
		if err != nil {
			return err
		}

		question := strings.Join(args, " ")

		if streamOutput {
			return eng.AnalyzeStream(cmd.Context(), nil, question, llm.StreamHandler{
				OnChunk:    func(content string) { fmt.Print(content) },
				OnComplete: func(string) { fmt.Println() },
			})
		}

		answer, err := eng.Analyze(cmd.Context(), nil, question)
		if err != nil {
			return err
		}
		fmt.Println(answer)
		return nil
	},
}

var generateCmd = &cobra.Command{
	Use:   "generate <prompt>",
	Short: "Generate code from a free-form prompt",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		eng, _, err := setup()
		if err != nil {
			return err
		}

		code, err := eng.Generate(cmd.Context(), strings.Join(args, " "), targetLanguage)
		if err != nil {
			return err
		}
		fmt.Println(code)
		return nil
	},
}

var editCmd = &cobra.Command{
	Use:   "edit <path> <instruction>",
	Short: "Propose a full-file edit",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		eng, err := setupWithRepo()
		if err != nil {
			return err
		}

		mod, err := eng.Edit(cmd.Context(), args[0], strings.Join(args[1:], " "))
		if err != nil {
			return err
		}
		printModification(mod)
		return nil
	},
}

var createCmd = &cobra.Command{
	Use:   "create <path> <description>",
	Short: "Propose a new file matching repository conventions",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		eng, err := setupWithRepo()
		if err != nil {
			return err
		}

		mod, err := eng.Create(cmd.Context(), args[0], strings.Join(args[1:], " "))
		if err != nil {
			return err
		}
		printModification(mod)
		return nil
	},
}

var solveCmd = &cobra.Command{
	Use:   "solve <problem>",
	Short: "Plan and implement a change (two-stage)",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		eng, err := setupWithRepo()
		if err != nil {
			return err
		}

		response, err := eng.Solve(cmd.Context(), strings.Join(args, " "))
		if err != nil {
			return err
		}
		printAgentResponse(response)
		return nil
	},
}

var modifyCmd = &cobra.Command{
	Use:   "modify <instruction>",
	Short: "Search, plan and implement a change (three-stage)",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		eng, err := setupWithRepo()
		if err != nil {
			return err
		}

		response, err := eng.AutonomousModify(cmd.Context(), strings.Join(args, " "))
		if err != nil {
			return err
		}
		printAgentResponse(response)
		return nil
	},
}

var searchCmd = &cobra.Command{
	Use:   "search <description>",
	Short: "Rank files by described functionality",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		eng, err := setupWithRepo()
		if err != nil {
			return err
		}

		paths, err := eng.Search(cmd.Context(), strings.Join(args, " "))
		if err != nil {
			return err
		}
		for _, p := range paths {
			fmt.Println(p)
		}
		return nil
	},
}

var gentestsCmd = &cobra.Command{
	Use:   "gentests <prompt>",
	Short: "Generate an implementation together with its tests",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		eng, _, err := setup()
		if err != nil {
			return err
		}

		implementation, tests, err := eng.GenerateWithTests(cmd.Context(), strings.Join(args, " "), targetLanguage)
		if err != nil {
			return err
		}
		fmt.Println("--- implementation ---")
		fmt.Println(implementation)
		fmt.Println("--- tests ---")
		fmt.Println(tests)
		return nil
	},
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Check completion endpoint connectivity",
	RunE: func(cmd *cobra.Command, args []string) error {
		eng, _, err := setup()
		if err != nil {
			return err
		}

		status := eng.CheckConnectivity(cmd.Context(), true)
		if status.State == resilience.StateOK {
			fmt.Println("connectivity: ok")
			return nil
		}
		return fmt.Errorf("connectivity: %s", status.Message)
	},
}

func printModification(mod *agent.FileModification) {
	fmt.Printf("## %s\n\n", agent.Summarize(*mod).String())
	fmt.Println(mod.NewContent)
}

func printAgentResponse(response *agent.AgentResponse) {
	if response.Explanation != "" {
		fmt.Println(response.Explanation)
		fmt.Println()
	}
	for _, mod := range response.Files {
		fmt.Printf("=== %s ===\n", agent.Summarize(mod).String())
		fmt.Println(mod.NewContent)
		fmt.Println()
	}
}

func init() {
	analyzeCmd.Flags().BoolVar(&streamOutput, "stream", false, "Stream the response as it arrives")
	generateCmd.Flags().StringVarP(&targetLanguage, "language", "l", "", "Target language")
	gentestsCmd.Flags().StringVarP(&targetLanguage, "language", "l", "", "Target language")
}
