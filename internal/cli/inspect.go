package cli

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	meshio "github.com/matzehuels/meshview/pkg/io"
	"github.com/matzehuels/meshview/pkg/manycore"
)

// newInspectCmd summarizes a description: grid, routing algorithms,
// configurable keys and one table row per core.
func newInspectCmd() *cobra.Command {
	var algorithm string

	cmd := &cobra.Command{
		Use:   "inspect [description]",
		Short: "Summarize a many-core description",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInspect(cmd.Context(), args[0], algorithm)
		},
	}
	cmd.Flags().StringVar(&algorithm, "routing", "", "apply a routing algorithm before listing channel loads")
	return cmd
}

func runInspect(ctx context.Context, input, algorithm string) error {
	logger := loggerFromContext(ctx)
	sys, err := meshio.ImportSystem(input)
	if err != nil {
		return err
	}
	logger.Debug("loaded description", "path", input, "cores", len(sys.Cores))

	if algorithm != "" {
		if _, err := sys.Route(algorithm); err != nil {
			return err
		}
	}

	coreKeys, routerKeys := sys.AttributeKeys()
	fmt.Println(StyleTitle.Render(input))
	printKeyValue("Grid", fmt.Sprintf("%d x %d", sys.Rows, sys.Columns))
	printKeyValue("Cores", strconv.Itoa(len(sys.Cores)))
	printKeyValue("Routing", orNone(strings.Join(sys.Algorithms(), ", ")))
	printKeyValue("Core keys", strings.Join(coreKeys, ", "))
	printKeyValue("Router keys", strings.Join(routerKeys, ", "))
	fmt.Println()
	fmt.Println(coreTable(sys).Render())

	if len(sys.Cores) != sys.Rows*sys.Columns {
		printWarning("%d cores do not fill a %dx%d grid", len(sys.Cores), sys.Rows, sys.Columns)
	}
	return nil
}

var coreHeaders = []string{"Core", "Position", "Task", "Edge", "Channels (load/bw)", "Attributes"}

// coreRows returns one table row per core in id order.
func coreRows(sys *manycore.System) [][]string {
	rows := make([][]string, 0, len(sys.Cores))
	for i := range sys.Cores {
		c := &sys.Cores[i]
		task := "-"
		if c.AllocatedTask != nil {
			task = strconv.Itoa(int(*c.AllocatedTask))
		}
		edge := "-"
		if set := sys.EdgeDirections(i); !set.Empty() {
			edge = set.String()
		}
		row, col := 0, 0
		if sys.Columns > 0 {
			row, col = i/sys.Columns, i%sys.Columns
		}
		rows = append(rows, []string{
			strconv.Itoa(c.ID),
			fmt.Sprintf("(%d,%d)", row, col),
			task,
			edge,
			channelSummary(c.Channels),
			attributeSummary(c.Attributes),
		})
	}
	return rows
}

func channelSummary(chs []manycore.Channel) string {
	parts := make([]string, 0, len(chs))
	for _, ch := range chs {
		parts = append(parts, fmt.Sprintf("%s %d/%d", ch.Direction.String()[:1], ch.Load, ch.Bandwidth))
	}
	return orNone(strings.Join(parts, "  "))
}

func attributeSummary(attrs map[string]string) string {
	parts := make([]string, 0, len(attrs))
	for _, k := range slices.Sorted(maps.Keys(attrs)) {
		parts = append(parts, k+"="+attrs[k])
	}
	return orNone(strings.Join(parts, ", "))
}

func orNone(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func coreTable(sys *manycore.System) *table.Table {
	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers(coreHeaders...).
		Rows(coreRows(sys)...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			s := lipgloss.NewStyle().Padding(0, 1)
			if col == 0 {
				return s.Foreground(colorCyan)
			}
			if col >= 4 {
				return s.Foreground(colorGray)
			}
			return s
		})
}
