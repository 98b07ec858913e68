// Package reports reproduces the admin CSV exports: the order history table
// and the dashboard summary with its best-sellers breakdown.
package reports

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	apperrors "github.com/swiftretail/pos-terminal/internal/errors"
	"github.com/swiftretail/pos-terminal/internal/models"
)

// WriteOrderHistory exports one row per order, items flattened into a
// "name x qty" list the way the admin table shows them.
func WriteOrderHistory(w io.Writer, orders []models.Order) error {

	writer := csv.NewWriter(w)

	header := []string{"Order ID", "Date", "Cashier", "Items", "Payment Method", "Subtotal", "Tax", "Discount", "Total"}

	if err := writer.Write(header); err != nil {
		return apperrors.InternalError("Failed to write report header").WithError(err)
	}

	for _, order := range orders {
		cashier := order.CashierID.Name
		if cashier == "" {
			cashier = "Unknown"
		}

		items := ""

		for i, item := range order.Items {
			if i > 0 {
				items += "; "
			}

			items += fmt.Sprintf("%s x %d", item.Name, item.Quantity)
		}

		row := []string{
			order.ID,
			order.CreatedAt.Format(time.RFC3339),
			cashier,
			items,
			string(order.PaymentMethod),
			formatAmount(order.Subtotal),
			formatAmount(order.Tax),
			formatAmount(order.Discount),
			formatAmount(order.Total),
		}

		if err := writer.Write(row); err != nil {
			return apperrors.InternalError("Failed to write report row").WithError(err)
		}
	}

	writer.Flush()

	if err := writer.Error(); err != nil {
		return apperrors.InternalError("Failed to flush report").WithError(err)
	}

	return nil
}

// WriteDashboard exports the summary block followed by the best-sellers
// table.
func WriteDashboard(w io.Writer, stats *models.DashboardStats) error {

	writer := csv.NewWriter(w)

	rows := [][]string{
		{"POS Sales Report"},
		{fmt.Sprintf("Total Revenue: %s", formatAmount(stats.TotalSales))},
		{fmt.Sprintf("Total Orders: %d", stats.TotalOrders)},
		{fmt.Sprintf("Net Profit: %s", formatAmount(stats.Profit))},
		{},
		{"Best Sellers"},
	}

	for _, seller := range stats.BestSellers {
		rows = append(rows, []string{
			seller.Name,
			fmt.Sprintf("Sold: %d", seller.QuantitySold),
			fmt.Sprintf("Revenue: %s", formatAmount(seller.Revenue)),
		})
	}

	if err := writer.WriteAll(rows); err != nil {
		return apperrors.InternalError("Failed to write dashboard report").WithError(err)
	}

	return nil
}

func formatAmount(amount float64) string {
	return strconv.FormatFloat(amount, 'f', 2, 64)
}
