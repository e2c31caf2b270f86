package main

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Manoj120605/Lostfoundbot25/internal/config"
	"github.com/Manoj120605/Lostfoundbot25/internal/item"
)

type itemView struct {
	ID             string            `json:"id"`
	PersonName     string            `json:"personName"`
	ContactInfo    string            `json:"contactInfo"`
	Category       string            `json:"category"`
	EventTime      string            `json:"eventTime"`
	Location       string            `json:"location"`
	ReportTime     string            `json:"reportTime"`
	Details        map[string]string `json:"details"`
	AdditionalInfo string            `json:"additionalInfo"`
	Status         string            `json:"status"`
}

type matchView struct {
	Item  itemView `json:"item"`
	Score int      `json:"score"`
}

// parseAttrs turns repeated key=value flags into a details map.
func parseAttrs(raw []string) (map[string]string, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	details := make(map[string]string, len(raw))
	for _, kv := range raw {
		key, value, ok := strings.Cut(kv, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid attribute %q, expected key=value", kv)
		}
		details[key] = value
	}
	return details, nil
}

func printItem(it itemView) {
	fmt.Printf("%s  %s  %s\n", colorize(colorCyan, it.ID), it.Category, it.PersonName)
	if it.Location != "" {
		fmt.Printf("  Location: %s\n", it.Location)
	}
	if it.EventTime != "" {
		fmt.Printf("  Event time: %s\n", it.EventTime)
	}
	for k, v := range it.Details {
		fmt.Printf("  %s: %s\n", k, v)
	}
	if it.AdditionalInfo != "" {
		fmt.Printf("  Notes: %s\n", it.AdditionalInfo)
	}
	fmt.Printf("  Reported: %s  Status: %s\n", it.ReportTime, it.Status)
}

func printMatches(matches []matchView) {
	if len(matches) == 0 {
		fmt.Println("No matches found.")
		return
	}
	for i, m := range matches {
		fmt.Printf("\n%s [score: %d]\n", colorize(colorBold, fmt.Sprintf("Match %d", i+1)), m.Score)
		printItem(m.Item)
	}
}

// --- report ---

var reportCmd = &cobra.Command{
	Use:   "report <lost|found>",
	Short: "File a lost or found item report",
	Long: `File a lost or found item report.

Examples:
  lostfound report lost --name "Rahul" --category Smartphone --attr brand=Apple --attr color=black --location "Main Library"
  lostfound report found --name "Security Desk" --category Wallet --attr color=brown --location Cafeteria`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		kind := item.Kind(args[0])
		if !kind.Valid() {
			return fmt.Errorf("unknown report kind %q, expected lost or found", args[0])
		}

		name, _ := cmd.Flags().GetString("name")
		contact, _ := cmd.Flags().GetString("contact")
		category, _ := cmd.Flags().GetString("category")
		eventTime, _ := cmd.Flags().GetString("time")
		location, _ := cmd.Flags().GetString("location")
		attrs, _ := cmd.Flags().GetStringArray("attr")
		note, _ := cmd.Flags().GetString("note")

		if name == "" {
			return fmt.Errorf("--name is required")
		}
		if !item.ValidCategory(category) {
			return fmt.Errorf("unknown category %q (valid: %s)", category, strings.Join(item.Categories, ", "))
		}

		details, err := parseAttrs(attrs)
		if err != nil {
			return err
		}
		if len(details) == 0 {
			printWarning("No attributes given; matches rely on them. Useful keys for %s: %s",
				category, strings.Join(item.AttributesFor(category), ", "))
		}

		client, err := newAPIClient()
		if err != nil {
			return err
		}

		req := map[string]any{
			"personName":  name,
			"contactInfo": contact,
			"category":    category,
			"eventTime":   eventTime,
			"location":    location,
		}
		if details != nil {
			req["details"] = details
		}
		if note != "" {
			req["additionalInfo"] = note
		}

		resp, err := client.post(cmd.Context(), "/reports/"+string(kind), req)
		if err != nil {
			return err
		}

		var result struct {
			Item    itemView    `json:"item"`
			Matches []matchView `json:"matches"`
		}
		if err := decodeJSON(resp, &result); err != nil {
			return err
		}

		printSuccess("Report %s filed", result.Item.ID)
		if len(result.Matches) > 0 {
			opposite := "found"
			if kind == item.KindFound {
				opposite = "lost"
			}
			printStep("Possible matches among %s reports:", opposite)
			printMatches(result.Matches)
		}
		return nil
	},
}

func init() {
	reportCmd.Flags().String("name", "", "reporter's name (required)")
	reportCmd.Flags().String("contact", "", "phone or email")
	reportCmd.Flags().String("category", "", "item category (required)")
	reportCmd.Flags().String("time", "", "when the item was lost/found, YYYY-MM-DD HH:MM")
	reportCmd.Flags().String("location", "", "where the item was lost/found")
	reportCmd.Flags().StringArray("attr", nil, "item attribute as key=value (repeatable)")
	reportCmd.Flags().String("note", "", "additional free-form notes")
}

// --- search ---

var searchCmd = &cobra.Command{
	Use:   "search",
	Short: "Search the opposite collection for matching reports",
	Long: `Search the opposite collection for matching reports.

By default describes a lost item and searches found reports; pass
--kind found to search lost reports instead.

Examples:
  lostfound search --category Smartphone --attr brand=Apple --attr color=black
  lostfound search --kind found --category Keys --attr key_type=car`,
	RunE: func(cmd *cobra.Command, args []string) error {
		kindStr, _ := cmd.Flags().GetString("kind")
		category, _ := cmd.Flags().GetString("category")
		attrs, _ := cmd.Flags().GetStringArray("attr")

		kind := item.Kind(kindStr)
		if !kind.Valid() {
			return fmt.Errorf("unknown kind %q, expected lost or found", kindStr)
		}
		if !item.ValidCategory(category) {
			return fmt.Errorf("unknown category %q (valid: %s)", category, strings.Join(item.Categories, ", "))
		}

		details, err := parseAttrs(attrs)
		if err != nil {
			return err
		}

		client, err := newAPIClient()
		if err != nil {
			return err
		}

		req := map[string]any{
			"lost":     kind == item.KindLost,
			"category": category,
		}
		if details != nil {
			req["details"] = details
		}

		resp, err := client.post(cmd.Context(), "/matches", req)
		if err != nil {
			return err
		}

		var matches []matchView
		if err := decodeJSON(resp, &matches); err != nil {
			return err
		}

		printMatches(matches)
		return nil
	},
}

func init() {
	searchCmd.Flags().String("kind", "lost", "which side the description is for: lost or found")
	searchCmd.Flags().String("category", "", "item category (required)")
	searchCmd.Flags().StringArray("attr", nil, "attribute to match as key=value (repeatable)")
}

// --- items ---

var itemsCmd = &cobra.Command{
	Use:   "items",
	Short: "List stored reports",
	RunE: func(cmd *cobra.Command, args []string) error {
		kind, _ := cmd.Flags().GetString("kind")
		category, _ := cmd.Flags().GetString("category")
		location, _ := cmd.Flags().GetString("location")
		from, _ := cmd.Flags().GetString("from")
		to, _ := cmd.Flags().GetString("to")

		client, err := newAPIClient()
		if err != nil {
			return err
		}

		q := url.Values{}
		q.Set("kind", kind)
		if category != "" {
			q.Set("category", category)
		}
		if location != "" {
			q.Set("location", location)
		}
		if from != "" {
			q.Set("from", from)
		}
		if to != "" {
			q.Set("to", to)
		}

		resp, err := client.get(cmd.Context(), "/items?"+q.Encode())
		if err != nil {
			return err
		}

		var items []itemView
		if err := decodeJSON(resp, &items); err != nil {
			return err
		}

		if len(items) == 0 {
			fmt.Println("No reports found.")
			return nil
		}
		for _, it := range items {
			printItem(it)
		}
		return nil
	},
}

func init() {
	itemsCmd.Flags().String("kind", "lost", "which collection to list: lost or found")
	itemsCmd.Flags().String("category", "", "exact category filter")
	itemsCmd.Flags().String("location", "", "substring location filter")
	itemsCmd.Flags().String("from", "", "earliest event time, YYYY-MM-DD")
	itemsCmd.Flags().String("to", "", "latest event time, YYYY-MM-DD")
}

// --- locations ---

var locationsCmd = &cobra.Command{
	Use:   "locations",
	Short: "List known locations",
	RunE: func(cmd *cobra.Command, args []string) error {
		initDefaults, _ := cmd.Flags().GetBool("init")

		client, err := newAPIClient()
		if err != nil {
			return err
		}

		if initDefaults {
			resp, err := client.put(cmd.Context(), "/locations", item.DefaultLocations)
			if err != nil {
				return err
			}
			var result map[string]int
			if err := decodeJSON(resp, &result); err != nil {
				return err
			}
			printSuccess("Seeded %d default locations", result["count"])
		}

		resp, err := client.get(cmd.Context(), "/locations")
		if err != nil {
			return err
		}

		var locs []item.Location
		if err := decodeJSON(resp, &locs); err != nil {
			return err
		}

		if len(locs) == 0 {
			fmt.Println("No locations registered. Run with --init to seed defaults.")
			return nil
		}
		for _, l := range locs {
			fmt.Printf("%s\n", colorize(colorBold, l.Display()))
			if l.Description != "" {
				fmt.Printf("  %s\n", l.Description)
			}
		}
		return nil
	},
}

func init() {
	locationsCmd.Flags().Bool("init", false, "seed the default campus locations first")
}

// --- history ---

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recent report and search activity",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")

		client, err := newAPIClient()
		if err != nil {
			return err
		}

		resp, err := client.get(cmd.Context(), fmt.Sprintf("/history?limit=%d", limit))
		if err != nil {
			return err
		}

		var events []struct {
			ID        string `json:"id"`
			Kind      string `json:"kind"`
			ItemID    string `json:"item_id"`
			Category  string `json:"category"`
			Matches   int    `json:"matches"`
			CreatedAt string `json:"created_at"`
		}
		if err := decodeJSON(resp, &events); err != nil {
			return err
		}

		if len(events) == 0 {
			fmt.Println("No activity recorded.")
			return nil
		}
		for _, e := range events {
			ref := e.ItemID
			if ref == "" {
				ref = "-"
			}
			fmt.Printf("%s  %-13s %-10s %-12s %d matches\n",
				e.CreatedAt,
				colorize(colorCyan, e.Kind),
				ref,
				e.Category,
				e.Matches,
			)
		}
		return nil
	},
}

func init() {
	historyCmd.Flags().Int("limit", 20, "maximum number of events to show")
}

// --- config ---

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or update configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}

		keys := config.ShowAll(cfg)
		for _, k := range keys {
			fmt.Printf("  %s = %s\n", colorize(colorBold, k.Key), k.Value)
		}
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration value",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, value := args[0], args[1]

		if err := config.SetKey(key, value); err != nil {
			return fmt.Errorf("%w (valid keys: %s)", err, strings.Join(config.ValidKeys(), ", "))
		}

		printSuccess("Set %s = %s", key, value)
		return nil
	},
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
}
