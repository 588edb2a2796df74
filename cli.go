package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/playpalace/playpalace/internal/game"
	"github.com/playpalace/playpalace/internal/sim"
)

func newListGamesCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "list-games",
		Short: "List available games",
		Args:  cobra.ExactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			regs := game.AllRegistrations()

			if asJSON {
				type entry struct {
					Type       string `json:"type"`
					Name       string `json:"name"`
					Category   string `json:"category"`
					MinPlayers int    `json:"min_players"`
					MaxPlayers int    `json:"max_players"`
				}
				out := make([]entry, 0, len(regs))
				for _, reg := range regs {
					out = append(out, entry{
						Type:       reg.Meta.Type,
						Name:       reg.Meta.Name,
						Category:   reg.Meta.Category,
						MinPlayers: reg.Meta.MinPlayers,
						MaxPlayers: reg.Meta.MaxPlayers,
					})
				}
				return printJSON(out)
			}

			fmt.Println("Available games:")
			fmt.Println()
			for _, reg := range regs {
				fmt.Printf("  %s\n", reg.Meta.Type)
				fmt.Printf("    Name: %s\n", reg.Meta.Name)
				fmt.Printf("    Category: %s\n", reg.Meta.Category)
				fmt.Printf("    Players: %d-%d\n", reg.Meta.MinPlayers, reg.Meta.MaxPlayers)
				fmt.Println()
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "output as JSON")
	return cmd
}

func newShowOptionsCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "show-options <game-type>",
		Short: "Show options for a game",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, ok := game.NewGame(args[0])
			if !ok {
				return fmt.Errorf("unknown game type %q", args[0])
			}

			type entry struct {
				Name    string `json:"name"`
				Type    string `json:"type"`
				Default string `json:"default"`
				Min     int    `json:"min,omitempty"`
				Max     int    `json:"max,omitempty"`
			}
			var options []entry
			for _, spec := range g.OptionSpecs() {
				options = append(options, entry{
					Name:    spec.Key,
					Type:    spec.Type,
					Default: spec.Get(),
					Min:     spec.Min,
					Max:     spec.Max,
				})
			}

			if asJSON {
				return printJSON(map[string]any{"game_type": args[0], "options": options})
			}

			if len(options) == 0 {
				fmt.Printf("%s has no configurable options.\n", args[0])
				return nil
			}
			fmt.Printf("Options for %s:\n\n", args[0])
			for _, opt := range options {
				fmt.Printf("  %s (%s)\n", opt.Name, opt.Type)
				fmt.Printf("    Default: %s\n", opt.Default)
				if opt.Min != 0 || opt.Max != 0 {
					fmt.Printf("    Range: %d - %d\n", opt.Min, opt.Max)
				}
				fmt.Println()
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "output as JSON")
	return cmd
}

func newSimulateCmd() *cobra.Command {
	var (
		bots              string
		options           []string
		asJSON            bool
		quiet             bool
		maxTicks          int
		testSerialization bool
	)

	cmd := &cobra.Command{
		Use:   "simulate <game-type>",
		Short: "Simulate a game with bots",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var botNames []string
			if count, err := strconv.Atoi(bots); err == nil {
				if count > len(game.BotNames) {
					count = len(game.BotNames)
				}
				botNames = game.BotNames[:count]
			} else {
				for _, name := range strings.Split(bots, ",") {
					if trimmed := strings.TrimSpace(name); trimmed != "" {
						botNames = append(botNames, trimmed)
					}
				}
			}

			gameOptions := map[string]string{}
			for _, opt := range options {
				key, value, ok := strings.Cut(opt, "=")
				if !ok {
					return fmt.Errorf("options must be key=value, got %q", opt)
				}
				gameOptions[strings.TrimSpace(key)] = strings.TrimSpace(value)
			}

			simOpts := sim.Options{
				GameType:          args[0],
				BotNames:          botNames,
				GameOptions:       gameOptions,
				MaxTicks:          maxTicks,
				TestSerialization: testSerialization,
			}
			if !asJSON && !quiet {
				simOpts.OnMessage = func(text string) {
					fmt.Printf("  %s\n", text)
				}
				mode := ""
				if testSerialization {
					mode = " [testing serialization]"
				}
				fmt.Printf("\n=== %s (%d bots)%s ===\n\n", args[0], len(botNames), mode)
			}

			result, err := sim.Run(simOpts)
			if err != nil {
				return err
			}

			if asJSON {
				return printJSON(result)
			}
			if !quiet {
				fmt.Printf("\n=== Finished: %d ticks, %d rounds ===\n", result.Ticks, result.Rounds)
				if result.TimedOut {
					fmt.Printf("Warning: game timed out after %d ticks\n", maxTicks)
				}
				if result.SerializationTested && result.SerializationError != "" {
					fmt.Printf("Error: %s\n", result.SerializationError)
				}
				if len(result.FinalMenu) > 0 {
					fmt.Println("\nFinal standings:")
					for _, line := range result.FinalMenu {
						if line != "" && !strings.HasPrefix(strings.ToLower(line), "leave") {
							fmt.Printf("  %s\n", line)
						}
					}
				}
			}
			if result.SerializationError != "" {
				os.Exit(1)
			}
			return nil
		},
	}

	fs := cmd.Flags()
	fs.StringVarP(&bots, "bots", "b", "", "number of bots (e.g. 3) or comma-separated names (e.g. Alice,Bob)")
	fs.StringArrayVarP(&options, "option", "o", nil, "set game option (e.g. -o target_score=11)")
	fs.BoolVar(&asJSON, "json", false, "output as JSON")
	fs.BoolVarP(&quiet, "quiet", "q", false, "suppress game output")
	fs.IntVar(&maxTicks, "max-ticks", sim.DefaultMaxTicks, "maximum ticks before timeout")
	fs.BoolVarP(&testSerialization, "test-serialization", "s", false, "save and restore the game after every tick")
	_ = cmd.MarkFlagRequired("bots")

	return cmd
}

func printJSON(v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(data))
	return nil
}
