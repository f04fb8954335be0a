package cli

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/fatih/color"

	"github.com/mmcdole/gw2catalog/internal/domain"
	"github.com/mmcdole/gw2catalog/internal/tui/styles"
)

var (
	okMark   = color.New(color.FgGreen).Sprint("✓")
	warnMark = color.New(color.FgYellow).Sprint("!")
	dim      = color.New(color.Faint).SprintFunc()
	gold     = color.New(color.FgYellow, color.Bold).SprintFunc()
)

// parseIDs converts positional arguments to item ids
func parseIDs(args []string) ([]int, error) {
	ids := make([]int, 0, len(args))
	for _, a := range args {
		for _, part := range strings.Split(a, ",") {
			if part == "" {
				continue
			}
			id, err := strconv.Atoi(strings.TrimSpace(part))
			if err != nil || id <= 0 {
				return nil, fmt.Errorf("invalid id %q", part)
			}
			ids = append(ids, id)
		}
	}
	if len(ids) == 0 {
		return nil, fmt.Errorf("at least one id is required")
	}
	return ids, nil
}

// formatCoins renders copper as "1g 02s 03c"
func formatCoins(copper int) string {
	return styles.FormatCoins(copper)
}

func rarityName(item domain.Item) string {
	return styles.RarityStyle(item.Rarity).Render(item.Name)
}

func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
}

// writeItems prints one row per item with its quote when prices is non-nil
func writeItems(w io.Writer, items []domain.Item, prices map[int]domain.ItemPrice) error {
	tw := newTable(w)
	if prices != nil {
		fmt.Fprintln(tw, "ID\tNAME\tRARITY\tTYPE\tLEVEL\tBUY\tSELL")
	} else {
		fmt.Fprintln(tw, "ID\tNAME\tRARITY\tTYPE\tLEVEL\tVENDOR")
	}
	for _, it := range items {
		if prices != nil {
			p := prices[it.ID]
			fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%d\t%s\t%s\n",
				it.ID, styles.Truncate(it.Name, 40), it.Rarity, it.Type, it.Level,
				formatCoins(p.Buys.UnitPrice), formatCoins(p.Sells.UnitPrice))
			continue
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%d\t%s\n",
			it.ID, styles.Truncate(it.Name, 40), it.Rarity, it.Type, it.Level, formatCoins(it.VendorValue))
	}
	return tw.Flush()
}

// writeDetails prints the type-specific stats an item carries
func writeDetails(w io.Writer, item domain.Item) {
	switch item.Type {
	case domain.ItemTypeWeapon:
		var d domain.WeaponDetails
		if item.DecodeDetails(&d) == nil {
			fmt.Fprintf(w, "  Weapon:  %s, %d-%d power (%s)\n", d.Type, d.MinPower, d.MaxPower, d.DamageType)
		}
	case domain.ItemTypeArmor:
		var d domain.ArmorDetails
		if item.DecodeDetails(&d) == nil {
			fmt.Fprintf(w, "  Armor:   %s %s, %d defense\n", d.WeightClass, d.Type, d.Defense)
		}
	case domain.ItemTypeConsumable:
		var d domain.ConsumableDetails
		if item.DecodeDetails(&d) == nil && d.Description != "" {
			fmt.Fprintf(w, "  Effect:  %s\n", d.Description)
		}
	}
}
