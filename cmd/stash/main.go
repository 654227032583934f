package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"stash-go/internal/app"
	"stash-go/internal/config"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// newApp reads the config and creates an App. The caller must defer
// app.Close(). operation identifies the CLI command being run
// (e.g. "Save", "Fetch").
func newApp(operation string) (*app.App, error) {
	defaults, err := app.GetDefaults()
	if err != nil {
		return nil, fmt.Errorf("getting defaults: %w", err)
	}

	cfg, err := config.Load(defaults["config_path"])
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	a, err := app.NewApp(cfg, operation)
	if err != nil {
		return nil, fmt.Errorf("initializing app: %w", err)
	}

	return a, nil
}

// readDocument reads a JSON document from the given file, or from
// stdin when the name is "-" or empty.
func readDocument(name string) ([]byte, error) {
	if name == "" || name == "-" {
		return io.ReadAll(os.Stdin)
	}
	return os.ReadFile(name)
}

// printJSON pretty-prints v to stdout.
func printJSON(v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding output: %w", err)
	}
	fmt.Println(string(data))
	return nil
}

var rootCmd = &cobra.Command{
	Use:   "stash",
	Short: "Client for the Stash object store",
}

// config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
}

var configInitCmd = &cobra.Command{
	Use:   "init <server-url> <application-id>",
	Short: "Initialize configuration",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		defaults, err := app.GetDefaults()
		if err != nil {
			return fmt.Errorf("failed to get defaults: %w", err)
		}

		cfg := config.NewConfig(args[0], args[1], defaults["log_dir"])

		// The API key never goes through argv or shell history.
		fmt.Fprint(os.Stderr, "REST API key (leave empty for none): ")
		key, err := term.ReadPassword(int(os.Stdin.Fd()))
		fmt.Fprintln(os.Stderr)
		if err != nil {
			return fmt.Errorf("reading API key: %w", err)
		}
		cfg.APIKey = string(key)

		if err := config.Init(defaults["config_path"], cfg); err != nil {
			return fmt.Errorf("failed to initialize config: %w", err)
		}

		fmt.Printf("Configuration initialized at %s\n", defaults["config_path"])
		fmt.Printf("Server URL:     %s\n", cfg.ServerURL)
		fmt.Printf("Application ID: %s\n", cfg.ApplicationID)
		return nil
	},
}

var configListCmd = &cobra.Command{
	Use:   "list",
	Short: "View configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		defaults, err := app.GetDefaults()
		if err != nil {
			return fmt.Errorf("failed to get defaults: %w", err)
		}

		cfg, err := config.Load(defaults["config_path"])
		if err != nil {
			return fmt.Errorf("failed to read config: %w", err)
		}

		fmt.Printf("Configuration from %s:\n\n", defaults["config_path"])
		fmt.Printf("Server URL:     %s\n", cfg.ServerURL)
		fmt.Printf("Application ID: %s\n", cfg.ApplicationID)
		if cfg.APIKey != "" {
			fmt.Printf("API key:        (set)\n")
		} else {
			fmt.Printf("API key:        (none)\n")
		}
		fmt.Printf("Timeout:        %ds\n", cfg.TimeoutSeconds)
		fmt.Printf("Log dir:        %s\n", cfg.LogDir)
		return nil
	},
}

var fetchCmd = &cobra.Command{
	Use:   "fetch <class> <objectId>",
	Short: "Fetch an object by class and identifier",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp("Fetch")
		if err != nil {
			return err
		}
		defer a.Close()

		rec, err := a.FetchObject(cmd.Context(), args[0], args[1])
		if err != nil {
			return err
		}
		return printJSON(rec)
	},
}

var saveCmd = &cobra.Command{
	Use:   "save <class> [file]",
	Short: "Save a JSON document into a class (stdin when no file)",
	Long: `Save a JSON document into a class. A document carrying an objectId
updates that object; otherwise a new object is created.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		file := ""
		if len(args) == 2 {
			file = args[1]
		}
		doc, err := readDocument(file)
		if err != nil {
			return fmt.Errorf("reading document: %w", err)
		}

		a, err := newApp("Save")
		if err != nil {
			return err
		}
		defer a.Close()

		rec, err := a.SaveDocument(cmd.Context(), args[0], doc)
		if err != nil {
			return err
		}
		return printJSON(rec)
	},
}

var saveAllCmd = &cobra.Command{
	Use:   "save-all <class> <file>...",
	Short: "Save several JSON documents into a class as one batch",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		docs := make([][]byte, 0, len(args)-1)
		for _, name := range args[1:] {
			doc, err := os.ReadFile(name)
			if err != nil {
				return fmt.Errorf("reading %s: %w", name, err)
			}
			docs = append(docs, doc)
		}

		a, err := newApp("SaveAll")
		if err != nil {
			return err
		}
		defer a.Close()

		recs, err := a.SaveDocuments(cmd.Context(), args[0], docs)
		if err != nil {
			return err
		}
		return printJSON(recs)
	},
}

var deleteCmd = &cobra.Command{
	Use:   "delete <class> <objectId>",
	Short: "Delete an object by class and identifier",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp("Delete")
		if err != nil {
			return err
		}
		defer a.Close()

		if err := a.DeleteObject(cmd.Context(), args[0], args[1]); err != nil {
			return err
		}
		fmt.Printf("Deleted %s/%s\n", args[0], args[1])
		return nil
	},
}

func init() {
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configListCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(fetchCmd)
	rootCmd.AddCommand(saveCmd)
	rootCmd.AddCommand(saveAllCmd)
	rootCmd.AddCommand(deleteCmd)
}
