package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/yeremiapane/tableorder/kds"
	"github.com/yeremiapane/tableorder/models"
	"github.com/yeremiapane/tableorder/services"
	"github.com/yeremiapane/tableorder/utils"
)

// newWatchCommand prints the kitchen queue whenever it changes. Pushes
// arrive through Redis when REDIS_ADDR is set; otherwise only polling runs.
func newWatchCommand() *cobra.Command {
	var restaurantID uint

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Show a live kitchen board in the terminal",
		RunE: func(cmd *cobra.Command, args []string) error {
			if restaurantID == 0 {
				return fmt.Errorf("--restaurant is required")
			}
			a, err := bootstrap()
			if err != nil {
				return err
			}
			defer a.close()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			if err := a.startRelay(ctx); err != nil {
				return err
			}

			restaurant, err := a.menu.Restaurant(ctx, restaurantID)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			err = kds.Watch(ctx, a.hub, restaurantID, a.cfg.PollInterval, func(ctx context.Context) error {
				return printKitchenBoard(ctx, out, a.orders, restaurant, time.Now())
			})
			if ctx.Err() != nil {
				return nil
			}
			return err
		},
	}

	cmd.Flags().UintVar(&restaurantID, "restaurant", 0, "restaurant id")
	return cmd
}

func printKitchenBoard(ctx context.Context, out io.Writer, orders *services.OrderService, restaurant *models.Restaurant, now time.Time) error {
	queue, err := orders.KitchenQueue(ctx, restaurant.ID)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "\n== %s kitchen at %s, %d open ==\n", restaurant.Name, now.Format("15:04:05"), len(queue))
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ORDER\tTABLE\tSTATUS\tAGE\tTOTAL\tITEMS")
	for _, o := range queue {
		table := "-"
		if o.Table != nil {
			table = fmt.Sprint(o.Table.TableNumber)
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
			o.OrderNumber, table, o.Status,
			now.Sub(o.CreatedAt).Truncate(time.Minute),
			utils.FormatCurrency(o.TotalAmount, restaurant.Currency),
			itemSummary(o.Items))
	}
	return w.Flush()
}

func itemSummary(items []models.OrderItem) string {
	s := ""
	for i, it := range items {
		if i > 0 {
			s += ", "
		}
		mark := ""
		if it.IsCompleted {
			mark = " (done)"
		}
		s += fmt.Sprintf("%dx %s%s", it.Quantity, it.MenuItemName, mark)
	}
	return s
}
