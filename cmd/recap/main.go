package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/olekukonko/tablewriter"

	"github.com/nadiraputri/catering-app/config"
	"github.com/nadiraputri/catering-app/utils"
)

type recapRow struct {
	DeliveryDate time.Time
	Orders       int64
	Items        int64
	Revenue      float64
}

// recap prints the per-delivery-date totals over paid orders, the same
// numbers the admin recap screen shows, for running from a terminal or cron.
func main() {
	var (
		fromStr = flag.String("from", time.Now().AddDate(0, 0, -7).Format("2006-01-02"), "start delivery date (inclusive)")
		toStr   = flag.String("to", time.Now().AddDate(0, 0, 7).Format("2006-01-02"), "end delivery date (inclusive)")
	)
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found: %v", err)
	}

	from, err := time.Parse("2006-01-02", *fromStr)
	if err != nil {
		log.Fatalf("invalid -from date: %v", err)
	}
	to, err := time.Parse("2006-01-02", *toStr)
	if err != nil {
		log.Fatalf("invalid -to date: %v", err)
	}

	db, err := config.InitDB()
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	var rows []recapRow
	err = db.Raw(`
		SELECT oli.delivery_date as delivery_date,
		       COUNT(DISTINCT o.id) as orders,
		       SUM(oli.quantity) as items,
		       SUM(oli.total_price) as revenue
		FROM order_line_items oli
		JOIN orders o ON oli.order_id = o.id
		WHERE o.payment_status = 'paid'
		  AND oli.delivery_date BETWEEN ? AND ?
		GROUP BY oli.delivery_date
		ORDER BY oli.delivery_date ASC
	`, from, to).Scan(&rows).Error
	if err != nil {
		log.Fatalf("failed to load recap: %v", err)
	}

	if len(rows) == 0 {
		fmt.Printf("No paid orders between %s and %s\n", *fromStr, *toStr)
		return
	}

	var totalOrders, totalItems int64
	var totalRevenue float64

	table := tablewriter.NewTable(os.Stdout)
	table.Header("Delivery Date", "Orders", "Items", "Revenue")
	for _, row := range rows {
		table.Append(
			row.DeliveryDate.Format("2006-01-02"),
			fmt.Sprintf("%d", row.Orders),
			fmt.Sprintf("%d", row.Items),
			utils.FormatCurrencyIDR(row.Revenue),
		)
		totalOrders += row.Orders
		totalItems += row.Items
		totalRevenue += row.Revenue
	}
	table.Append(
		"TOTAL",
		fmt.Sprintf("%d", totalOrders),
		fmt.Sprintf("%d", totalItems),
		utils.FormatCurrencyIDR(totalRevenue),
	)
	if err := table.Render(); err != nil {
		log.Fatalf("failed to render table: %v", err)
	}
}
