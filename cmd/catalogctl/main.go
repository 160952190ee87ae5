// catalogctl is a small terminal front-end for the catalog API: list, search
// and edit game records, and pull statistics and ML results, from the shell.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/steamdex/catalog/pkg/client"
)

const (
	exitSuccess = 0
	exitFailure = 1
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	flags := flag.NewFlagSet("catalogctl", flag.ContinueOnError)
	baseURL := flags.String("url", "http://localhost:3000", "catalog API base URL")
	apiKey := flags.String("api-key", os.Getenv("CATALOG_API_KEY"), "bearer token for the API")

	if err := flags.Parse(args); err != nil {
		return exitFailure
	}

	if flags.NArg() == 0 {
		usage(flags)

		return exitFailure
	}

	api := client.New(*baseURL, client.WithAPIKey(*apiKey))
	ctx := context.Background()

	command := flags.Arg(0)
	rest := flags.Args()[1:]

	var err error

	switch command {
	case "list":
		err = runList(ctx, api)
	case "search":
		err = runSearch(ctx, api, rest)
	case "vsearch":
		err = runVectorSearch(ctx, api, rest)
	case "get":
		err = runGet(ctx, api, rest)
	case "create":
		err = runCreate(ctx, api, rest)
	case "update":
		err = runUpdate(ctx, api, rest)
	case "delete":
		err = runDelete(ctx, api, rest)
	case "stats":
		err = runStats(ctx, api, rest)
	case "ml":
		err = runML(ctx, api, rest)
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n", command)
		usage(flags)

		return exitFailure
	}

	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)

		return exitFailure
	}

	return exitSuccess
}

func usage(flags *flag.FlagSet) {
	fmt.Fprintln(os.Stderr, "usage: catalogctl [flags] <command> [args]")
	fmt.Fprintln(os.Stderr, "commands:")
	fmt.Fprintln(os.Stderr, "  list")
	fmt.Fprintln(os.Stderr, "  search <query>")
	fmt.Fprintln(os.Stderr, "  vsearch <query>")
	fmt.Fprintln(os.Stderr, "  get <id>")
	fmt.Fprintln(os.Stderr, "  create <name> <developer> <positive> <negative>")
	fmt.Fprintln(os.Stderr, "  update <id> <name> <developer> <positive> <negative>")
	fmt.Fprintln(os.Stderr, "  delete <id>")
	fmt.Fprintln(os.Stderr, "  stats [variable]")
	fmt.Fprintln(os.Stderr, "  ml <model> [query]")
	flags.PrintDefaults()
}

func runList(ctx context.Context, api *client.Client) error {
	games, err := api.ListGames(ctx)
	if err != nil {
		return err
	}

	printGames(client.SortGamesByPositive(games))

	return nil
}

func runSearch(ctx context.Context, api *client.Client, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("search takes exactly one query argument")
	}

	games, err := api.SearchGames(ctx, args[0])
	if err != nil {
		return err
	}

	printGames(games)

	return nil
}

func runVectorSearch(ctx context.Context, api *client.Client, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("vsearch takes exactly one query argument")
	}

	hits, err := api.VectorSearchGames(ctx, args[0])
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "SCORE\tID\tNAME\tDEVELOPER\tPOSITIVE\tNEGATIVE")

	for _, hit := range hits {
		fmt.Fprintf(w, "%.4f\t%s\t%s\t%s\t%d\t%d\n",
			hit.Score, hit.ID, hit.Name, hit.Developer, hit.Positive, hit.Negative)
	}

	return w.Flush()
}

func runGet(ctx context.Context, api *client.Client, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("get takes exactly one id argument")
	}

	game, err := api.GetGame(ctx, args[0])
	if err != nil {
		return err
	}

	printGames([]client.Game{*game})

	return nil
}

func runCreate(ctx context.Context, api *client.Client, args []string) error {
	form, err := parseWriteArgs(args)
	if err != nil {
		return err
	}

	result, err := api.CreateGame(ctx, *form)
	if err != nil {
		return err
	}

	fmt.Printf("%s (id %s)\n", result.Message, result.GameID)

	return nil
}

func runUpdate(ctx context.Context, api *client.Client, args []string) error {
	if len(args) != 5 {
		return fmt.Errorf("update takes id, name, developer, positive and negative arguments")
	}

	form, err := parseWriteArgs(args[1:])
	if err != nil {
		return err
	}

	result, err := api.UpdateGame(ctx, args[0], *form)
	if err != nil {
		return err
	}

	fmt.Println(result.Message)

	return nil
}

func runDelete(ctx context.Context, api *client.Client, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("delete takes exactly one id argument")
	}

	if err := api.DeleteGame(ctx, args[0]); err != nil {
		return err
	}

	fmt.Println("deleted", args[0])

	return nil
}

func runStats(ctx context.Context, api *client.Client, args []string) error {
	variable := ""
	if len(args) > 0 {
		variable = args[0]
	}

	stats, err := api.FetchStatistics(ctx, variable)
	if err != nil {
		return err
	}

	fmt.Printf("mean=%.2f median=%.2f std_dev=%.2f min=%.2f max=%.2f\n",
		stats.Stats.Mean, stats.Stats.Median, stats.Stats.StdDev, stats.Stats.Min, stats.Stats.Max)

	return nil
}

func runML(ctx context.Context, api *client.Client, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("ml takes a model name and an optional query")
	}

	search := ""
	if len(args) > 1 {
		search = args[1]
	}

	raw, err := api.FetchMLResult(ctx, args[0], search)
	if err != nil {
		return err
	}

	var pretty json.RawMessage = raw

	indented, err := json.MarshalIndent(pretty, "", "  ")
	if err != nil {
		fmt.Println(string(raw))

		return nil
	}

	fmt.Println(string(indented))

	return nil
}

func parseWriteArgs(args []string) (*client.WriteGame, error) {
	if len(args) != 4 {
		return nil, fmt.Errorf("expected name, developer, positive and negative arguments")
	}

	positive, err := strconv.Atoi(args[2])
	if err != nil {
		return nil, fmt.Errorf("positive must be an integer: %w", err)
	}

	negative, err := strconv.Atoi(args[3])
	if err != nil {
		return nil, fmt.Errorf("negative must be an integer: %w", err)
	}

	return &client.WriteGame{
		Name:      args[0],
		Developer: args[1],
		Positive:  positive,
		Negative:  negative,
	}, nil
}

func printGames(games []client.Game) {
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tDEVELOPER\tPOSITIVE\tNEGATIVE")

	for _, game := range games {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\n", game.ID, game.Name, game.Developer, game.Positive, game.Negative)
	}

	w.Flush()
}
